package service

import (
	"context"
	"time"

	"github.com/haoran-tse/tramcar/internal/mailer"
	"github.com/haoran-tse/tramcar/internal/model"
	"github.com/haoran-tse/tramcar/internal/repository"
)

type mockSiteRepository struct {
	provisionFn      func(ctx context.Context, site *model.Site) (*model.SiteConfig, error)
	getByIDFn        func(ctx context.Context, id uint) (*model.Site, error)
	getByDomainFn    func(ctx context.Context, domain string) (*model.Site, error)
	listFn           func(ctx context.Context) ([]model.Site, error)
	ensureConfigFn   func(ctx context.Context, site *model.Site) (*model.SiteConfig, bool, error)
	configBySiteIDFn func(ctx context.Context, siteID uint) (*model.SiteConfig, error)
	listConfigsFn    func(ctx context.Context) ([]model.SiteConfig, error)
	updateConfigFn   func(ctx context.Context, cfg *model.SiteConfig) error
}

func (m *mockSiteRepository) Provision(ctx context.Context, site *model.Site) (*model.SiteConfig, error) {
	if m.provisionFn != nil {
		return m.provisionFn(ctx, site)
	}
	return &model.SiteConfig{SiteID: site.ID}, nil
}

func (m *mockSiteRepository) GetByID(ctx context.Context, id uint) (*model.Site, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, repository.ErrSiteNotFound
}

func (m *mockSiteRepository) GetByDomain(ctx context.Context, domain string) (*model.Site, error) {
	if m.getByDomainFn != nil {
		return m.getByDomainFn(ctx, domain)
	}
	return nil, repository.ErrSiteNotFound
}

func (m *mockSiteRepository) List(ctx context.Context) ([]model.Site, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockSiteRepository) EnsureConfig(ctx context.Context, site *model.Site) (*model.SiteConfig, bool, error) {
	if m.ensureConfigFn != nil {
		return m.ensureConfigFn(ctx, site)
	}
	return &model.SiteConfig{SiteID: site.ID}, false, nil
}

func (m *mockSiteRepository) ConfigBySiteID(ctx context.Context, siteID uint) (*model.SiteConfig, error) {
	if m.configBySiteIDFn != nil {
		return m.configBySiteIDFn(ctx, siteID)
	}
	return nil, repository.ErrSiteConfigNotFound
}

func (m *mockSiteRepository) ListConfigs(ctx context.Context) ([]model.SiteConfig, error) {
	if m.listConfigsFn != nil {
		return m.listConfigsFn(ctx)
	}
	return nil, nil
}

func (m *mockSiteRepository) UpdateConfig(ctx context.Context, cfg *model.SiteConfig) error {
	if m.updateConfigFn != nil {
		return m.updateConfigFn(ctx, cfg)
	}
	return nil
}

type mockCategoryRepository struct {
	createFn     func(ctx context.Context, category *model.Category) error
	getByIDFn    func(ctx context.Context, siteID, id uint) (*model.Category, error)
	listBySiteFn func(ctx context.Context, siteID uint) ([]model.Category, error)
}

func (m *mockCategoryRepository) Create(ctx context.Context, category *model.Category) error {
	if m.createFn != nil {
		return m.createFn(ctx, category)
	}
	return nil
}

func (m *mockCategoryRepository) GetByID(ctx context.Context, siteID, id uint) (*model.Category, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, siteID, id)
	}
	return nil, repository.ErrCategoryNotFound
}

func (m *mockCategoryRepository) ListBySite(ctx context.Context, siteID uint) ([]model.Category, error) {
	if m.listBySiteFn != nil {
		return m.listBySiteFn(ctx, siteID)
	}
	return nil, nil
}

type mockCountryRepository struct {
	createFn  func(ctx context.Context, country *model.Country) error
	getByIDFn func(ctx context.Context, id uint) (*model.Country, error)
	listFn    func(ctx context.Context) ([]model.Country, error)
}

func (m *mockCountryRepository) Create(ctx context.Context, country *model.Country) error {
	if m.createFn != nil {
		return m.createFn(ctx, country)
	}
	return nil
}

func (m *mockCountryRepository) GetByID(ctx context.Context, id uint) (*model.Country, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, repository.ErrCountryNotFound
}

func (m *mockCountryRepository) List(ctx context.Context) ([]model.Country, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

type mockCompanyRepository struct {
	createFn     func(ctx context.Context, company *model.Company) error
	getByIDFn    func(ctx context.Context, siteID, id uint) (*model.Company, error)
	listBySiteFn func(ctx context.Context, siteID uint) ([]model.Company, error)
}

func (m *mockCompanyRepository) Create(ctx context.Context, company *model.Company) error {
	if m.createFn != nil {
		return m.createFn(ctx, company)
	}
	return nil
}

func (m *mockCompanyRepository) GetByID(ctx context.Context, siteID, id uint) (*model.Company, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, siteID, id)
	}
	return nil, repository.ErrCompanyNotFound
}

func (m *mockCompanyRepository) ListBySite(ctx context.Context, siteID uint) ([]model.Company, error) {
	if m.listBySiteFn != nil {
		return m.listBySiteFn(ctx, siteID)
	}
	return nil, nil
}

type mockJobRepository struct {
	createFn               func(ctx context.Context, job *model.Job) error
	getByIDFn              func(ctx context.Context, id uint) (*model.Job, error)
	getBySiteFn            func(ctx context.Context, siteID, id uint) (*model.Job, error)
	listActiveBySiteFn     func(ctx context.Context, siteID uint, limit, offset int) ([]model.Job, error)
	listActiveByCategoryFn func(ctx context.Context, siteID, categoryID uint) ([]model.Job, error)
	listActiveByCompanyFn  func(ctx context.Context, siteID, companyID uint) ([]model.Job, error)
	listPaidByCompanyFn    func(ctx context.Context, siteID, companyID uint) ([]model.Job, error)
	listOverdueFn          func(ctx context.Context, siteID uint, cutoff time.Time) ([]model.Job, error)
	markPaidFn             func(ctx context.Context, id uint, paidAt time.Time) (bool, error)
	markExpiredFn          func(ctx context.Context, id uint, expiredAt time.Time) (bool, error)
}

func (m *mockJobRepository) Create(ctx context.Context, job *model.Job) error {
	if m.createFn != nil {
		return m.createFn(ctx, job)
	}
	return nil
}

func (m *mockJobRepository) GetByID(ctx context.Context, id uint) (*model.Job, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, repository.ErrJobNotFound
}

func (m *mockJobRepository) GetBySite(ctx context.Context, siteID, id uint) (*model.Job, error) {
	if m.getBySiteFn != nil {
		return m.getBySiteFn(ctx, siteID, id)
	}
	return nil, repository.ErrJobNotFound
}

func (m *mockJobRepository) ListActiveBySite(ctx context.Context, siteID uint, limit, offset int) ([]model.Job, error) {
	if m.listActiveBySiteFn != nil {
		return m.listActiveBySiteFn(ctx, siteID, limit, offset)
	}
	return nil, nil
}

func (m *mockJobRepository) ListActiveByCategory(ctx context.Context, siteID, categoryID uint) ([]model.Job, error) {
	if m.listActiveByCategoryFn != nil {
		return m.listActiveByCategoryFn(ctx, siteID, categoryID)
	}
	return nil, nil
}

func (m *mockJobRepository) ListActiveByCompany(ctx context.Context, siteID, companyID uint) ([]model.Job, error) {
	if m.listActiveByCompanyFn != nil {
		return m.listActiveByCompanyFn(ctx, siteID, companyID)
	}
	return nil, nil
}

func (m *mockJobRepository) ListPaidByCompany(ctx context.Context, siteID, companyID uint) ([]model.Job, error) {
	if m.listPaidByCompanyFn != nil {
		return m.listPaidByCompanyFn(ctx, siteID, companyID)
	}
	return nil, nil
}

func (m *mockJobRepository) ListOverdue(ctx context.Context, siteID uint, cutoff time.Time) ([]model.Job, error) {
	if m.listOverdueFn != nil {
		return m.listOverdueFn(ctx, siteID, cutoff)
	}
	return nil, nil
}

func (m *mockJobRepository) MarkPaid(ctx context.Context, id uint, paidAt time.Time) (bool, error) {
	if m.markPaidFn != nil {
		return m.markPaidFn(ctx, id, paidAt)
	}
	return true, nil
}

func (m *mockJobRepository) MarkExpired(ctx context.Context, id uint, expiredAt time.Time) (bool, error) {
	if m.markExpiredFn != nil {
		return m.markExpiredFn(ctx, id, expiredAt)
	}
	return true, nil
}

// fakeMailer records every delivery attempt, including failed ones.
type fakeMailer struct {
	sendErr error
	sent    []mailer.Message
}

func (f *fakeMailer) Send(_ context.Context, msg mailer.Message) error {
	f.sent = append(f.sent, msg)
	return f.sendErr
}
