package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/haoran-tse/tramcar/internal/model"
	"github.com/haoran-tse/tramcar/internal/repository"
	"go.uber.org/zap"
)

// CountryService manages the shared country list. Countries are global, not
// site-scoped.
type CountryService struct {
	countries repository.CountryRepository
	log       *zap.Logger
}

// NewCountryService returns a configured CountryService.
func NewCountryService(countries repository.CountryRepository, log *zap.Logger) *CountryService {
	return &CountryService{countries: countries, log: log}
}

// CreateCountry adds a country. Names are globally unique.
func (s *CountryService) CreateCountry(ctx context.Context, name string) (*model.Country, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 50 {
		return nil, &ValidationError{Msg: "name is required and must be at most 50 characters"}
	}

	country := &model.Country{Name: name}
	if err := s.countries.Create(ctx, country); err != nil {
		return nil, fmt.Errorf("create country: %w", err)
	}

	s.log.Info("country created",
		zap.Uint("country_id", country.ID),
		zap.String("name", name))
	return country, nil
}

// ListCountries returns all countries ordered by name.
func (s *CountryService) ListCountries(ctx context.Context) ([]model.Country, error) {
	return s.countries.List(ctx)
}
