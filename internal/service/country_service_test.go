package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/haoran-tse/tramcar/internal/model"
	"github.com/haoran-tse/tramcar/internal/repository"
	"go.uber.org/zap"
)

func TestCountryService_CreateCountry_Validation(t *testing.T) {
	svc := NewCountryService(&mockCountryRepository{}, zap.NewNop())

	for _, name := range []string{"", "  ", strings.Repeat("x", 51)} {
		_, err := svc.CreateCountry(context.Background(), name)
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Errorf("CreateCountry(%q) expected ValidationError, got %v", name, err)
		}
	}
}

func TestCountryService_CreateCountry_Duplicate(t *testing.T) {
	repo := &mockCountryRepository{
		createFn: func(ctx context.Context, country *model.Country) error {
			return repository.ErrDuplicate
		},
	}
	svc := NewCountryService(repo, zap.NewNop())

	_, err := svc.CreateCountry(context.Background(), "Canada")
	if !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestCountryService_CreateCountry(t *testing.T) {
	var stored *model.Country
	repo := &mockCountryRepository{
		createFn: func(ctx context.Context, country *model.Country) error {
			country.ID = 2
			stored = country
			return nil
		},
	}
	svc := NewCountryService(repo, zap.NewNop())

	country, err := svc.CreateCountry(context.Background(), "  Canada ")
	if err != nil {
		t.Fatalf("CreateCountry returned error: %v", err)
	}
	if stored.Name != "Canada" {
		t.Errorf("stored name = %q, want Canada", stored.Name)
	}
	if country.ID != 2 {
		t.Errorf("country.ID = %d, want 2", country.ID)
	}
}
