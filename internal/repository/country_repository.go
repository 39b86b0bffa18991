package repository

import (
	"context"
	"errors"
	"time"

	"github.com/haoran-tse/tramcar/internal/model"
	"github.com/haoran-tse/tramcar/prometheus"
	"gorm.io/gorm"
)

// ErrCountryNotFound signals that the requested country does not exist.
var ErrCountryNotFound = errors.New("country not found")

// CountryRepository defines the data access contract for countries. Countries
// are shared reference data, not scoped to a site.
type CountryRepository interface {
	Create(ctx context.Context, country *model.Country) error
	GetByID(ctx context.Context, id uint) (*model.Country, error)
	List(ctx context.Context) ([]model.Country, error)
}

type countryRepository struct {
	db *gorm.DB
}

// NewCountryRepository returns a GORM-backed CountryRepository.
func NewCountryRepository(db *gorm.DB) CountryRepository {
	return &countryRepository{db: db}
}

func (r *countryRepository) Create(ctx context.Context, country *model.Country) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	if err := r.db.WithContext(ctx).Create(country).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *countryRepository) GetByID(ctx context.Context, id uint) (*model.Country, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var country model.Country
	if err := r.db.WithContext(ctx).First(&country, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCountryNotFound
		}
		return nil, err
	}
	return &country, nil
}

func (r *countryRepository) List(ctx context.Context) ([]model.Country, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var countries []model.Country
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&countries).Error; err != nil {
		return nil, err
	}
	return countries, nil
}
