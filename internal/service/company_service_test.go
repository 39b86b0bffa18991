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

func validCompanyInput() CreateCompanyInput {
	return CreateCompanyInput{
		Name:    "Corp",
		URL:     "https://corp.test",
		OwnerID: 5,
	}
}

func newCompanyService(companies *mockCompanyRepository, countries *mockCountryRepository) *CompanyService {
	if companies == nil {
		companies = &mockCompanyRepository{}
	}
	if countries == nil {
		countries = &mockCountryRepository{}
	}
	return NewCompanyService(companies, countries, &mockJobRepository{}, zap.NewNop())
}

func TestCompanyService_CreateCompany_Validation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(in *CreateCompanyInput)
	}{
		{"empty name", func(in *CreateCompanyInput) { in.Name = "" }},
		{"long name", func(in *CreateCompanyInput) { in.Name = strings.Repeat("x", 51) }},
		{"empty url", func(in *CreateCompanyInput) { in.URL = "" }},
		{"url without scheme", func(in *CreateCompanyInput) { in.URL = "corp.test" }},
		{"url with ftp scheme", func(in *CreateCompanyInput) { in.URL = "ftp://corp.test" }},
		{"url without host", func(in *CreateCompanyInput) { in.URL = "https://" }},
		{"long twitter", func(in *CreateCompanyInput) { in.Twitter = strings.Repeat("x", 21) }},
		{"missing owner", func(in *CreateCompanyInput) { in.OwnerID = 0 }},
	}

	svc := newCompanyService(nil, nil)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validCompanyInput()
			tc.mutate(&in)

			_, err := svc.CreateCompany(context.Background(), 3, in)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestCompanyService_CreateCompany_StripsTwitterAt(t *testing.T) {
	var stored *model.Company
	companies := &mockCompanyRepository{
		createFn: func(ctx context.Context, company *model.Company) error {
			company.ID = 9
			stored = company
			return nil
		},
	}
	svc := newCompanyService(companies, nil)

	in := validCompanyInput()
	in.Twitter = "@corphiring"
	company, err := svc.CreateCompany(context.Background(), 3, in)
	if err != nil {
		t.Fatalf("CreateCompany returned error: %v", err)
	}
	if stored.Twitter != "corphiring" {
		t.Errorf("stored twitter = %q, want corphiring", stored.Twitter)
	}
	if stored.SiteID != 3 {
		t.Errorf("stored SiteID = %d, want 3", stored.SiteID)
	}
	if company.ID != 9 {
		t.Errorf("company.ID = %d, want 9", company.ID)
	}
}

func TestCompanyService_CreateCompany_UnknownCountry(t *testing.T) {
	svc := newCompanyService(nil, nil) // default: ErrCountryNotFound

	in := validCompanyInput()
	countryID := uint(42)
	in.CountryID = &countryID

	_, err := svc.CreateCompany(context.Background(), 3, in)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !strings.Contains(vErr.Msg, "country") {
		t.Errorf("error should mention the country, got %q", vErr.Msg)
	}
}

func TestCompanyService_CreateCompany_WithCountry(t *testing.T) {
	companies := &mockCompanyRepository{
		createFn: func(ctx context.Context, company *model.Company) error {
			if company.CountryID == nil || *company.CountryID != 42 {
				t.Fatal("expected CountryID 42 on stored company")
			}
			return nil
		},
	}
	countries := &mockCountryRepository{
		getByIDFn: func(ctx context.Context, id uint) (*model.Country, error) {
			return &model.Country{ID: id, Name: "Canada"}, nil
		},
	}
	svc := newCompanyService(companies, countries)

	in := validCompanyInput()
	countryID := uint(42)
	in.CountryID = &countryID

	if _, err := svc.CreateCompany(context.Background(), 3, in); err != nil {
		t.Fatalf("CreateCompany returned error: %v", err)
	}
}

func TestCompanyService_CreateCompany_Duplicate(t *testing.T) {
	companies := &mockCompanyRepository{
		createFn: func(ctx context.Context, company *model.Company) error {
			return repository.ErrDuplicate
		},
	}
	svc := newCompanyService(companies, nil)

	_, err := svc.CreateCompany(context.Background(), 3, validCompanyInput())
	if !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestCompanyService_PaidJobs_CompanyMissing(t *testing.T) {
	svc := newCompanyService(nil, nil)

	_, err := svc.PaidJobs(context.Background(), 3, 99)
	if !errors.Is(err, repository.ErrCompanyNotFound) {
		t.Fatalf("expected ErrCompanyNotFound, got %v", err)
	}
}

func TestCompanyService_PaidJobs(t *testing.T) {
	companies := &mockCompanyRepository{
		getByIDFn: func(ctx context.Context, siteID, id uint) (*model.Company, error) {
			return &model.Company{ID: id, SiteID: siteID, Name: "Corp"}, nil
		},
	}
	jobs := &mockJobRepository{
		listPaidByCompanyFn: func(ctx context.Context, siteID, companyID uint) ([]model.Job, error) {
			return []model.Job{{ID: 1}, {ID: 2}, {ID: 3}}, nil
		},
	}
	svc := NewCompanyService(companies, &mockCountryRepository{}, jobs, zap.NewNop())

	list, err := svc.PaidJobs(context.Background(), 3, 9)
	if err != nil {
		t.Fatalf("PaidJobs returned error: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 jobs, got %d", len(list))
	}
}
