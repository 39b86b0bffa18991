package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/haoran-tse/tramcar/internal/model"
	"github.com/haoran-tse/tramcar/internal/repository"
	"go.uber.org/zap"
)

// CompanyService manages a site's employer profiles.
type CompanyService struct {
	companies repository.CompanyRepository
	countries repository.CountryRepository
	jobs      repository.JobRepository
	log       *zap.Logger
}

// NewCompanyService returns a configured CompanyService.
func NewCompanyService(
	companies repository.CompanyRepository,
	countries repository.CountryRepository,
	jobs repository.JobRepository,
	log *zap.Logger,
) *CompanyService {
	return &CompanyService{companies: companies, countries: countries, jobs: jobs, log: log}
}

// CreateCompanyInput carries the fields needed to register a company.
type CreateCompanyInput struct {
	Name      string
	URL       string
	Twitter   string
	CountryID *uint
	OwnerID   uint
}

// CreateCompany registers a company on the site. Names are unique per site.
func (s *CompanyService) CreateCompany(ctx context.Context, siteID uint, in CreateCompanyInput) (*model.Company, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" || len(in.Name) > 50 {
		return nil, &ValidationError{Msg: "name is required and must be at most 50 characters"}
	}
	parsed, err := url.Parse(in.URL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, &ValidationError{Msg: "url must be a valid http or https address"}
	}
	in.Twitter = strings.TrimPrefix(strings.TrimSpace(in.Twitter), "@")
	if len(in.Twitter) > 20 {
		return nil, &ValidationError{Msg: "twitter handle must be at most 20 characters"}
	}
	if in.OwnerID == 0 {
		return nil, &ValidationError{Msg: "owner_id is required"}
	}
	if in.CountryID != nil {
		if _, err := s.countries.GetByID(ctx, *in.CountryID); err != nil {
			if errors.Is(err, repository.ErrCountryNotFound) {
				return nil, &ValidationError{Msg: "country does not exist"}
			}
			return nil, fmt.Errorf("check country: %w", err)
		}
	}

	company := &model.Company{
		Name:      in.Name,
		URL:       in.URL,
		Twitter:   in.Twitter,
		CountryID: in.CountryID,
		SiteID:    siteID,
		OwnerID:   in.OwnerID,
	}
	if err := s.companies.Create(ctx, company); err != nil {
		return nil, fmt.Errorf("create company: %w", err)
	}

	s.log.Info("company created",
		zap.Uint("company_id", company.ID),
		zap.Uint("site_id", siteID),
		zap.String("name", in.Name))
	return company, nil
}

// GetCompany returns one company of the site.
func (s *CompanyService) GetCompany(ctx context.Context, siteID, id uint) (*model.Company, error) {
	return s.companies.GetByID(ctx, siteID, id)
}

// ListCompanies returns the site's companies ordered by name.
func (s *CompanyService) ListCompanies(ctx context.Context, siteID uint) ([]model.Company, error) {
	return s.companies.ListBySite(ctx, siteID)
}

// ActiveJobs returns the company's live postings, most recently activated
// first.
func (s *CompanyService) ActiveJobs(ctx context.Context, siteID, companyID uint) ([]model.Job, error) {
	if _, err := s.companies.GetByID(ctx, siteID, companyID); err != nil {
		return nil, err
	}
	return s.jobs.ListActiveByCompany(ctx, siteID, companyID)
}

// PaidJobs returns every posting the company ever activated, expired ones
// included.
func (s *CompanyService) PaidJobs(ctx context.Context, siteID, companyID uint) ([]model.Job, error) {
	if _, err := s.companies.GetByID(ctx, siteID, companyID); err != nil {
		return nil, err
	}
	return s.jobs.ListPaidByCompany(ctx, siteID, companyID)
}
