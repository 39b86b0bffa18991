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

func TestSiteService_Provision_Validation(t *testing.T) {
	cases := []struct {
		name  string
		input ProvisionInput
	}{
		{"empty name", ProvisionInput{Name: "", Domain: "jobs.test"}},
		{"long name", ProvisionInput{Name: strings.Repeat("x", 51), Domain: "jobs.test"}},
		{"empty domain", ProvisionInput{Name: "Jobs", Domain: ""}},
		{"long domain", ProvisionInput{Name: "Jobs", Domain: strings.Repeat("x", 101)}},
		{"domain with space", ProvisionInput{Name: "Jobs", Domain: "jobs test"}},
		{"domain with path", ProvisionInput{Name: "Jobs", Domain: "jobs.test/board"}},
		{"domain with at sign", ProvisionInput{Name: "Jobs", Domain: "jobs@test"}},
	}

	svc := NewSiteService(&mockSiteRepository{}, zap.NewNop())
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Provision(context.Background(), tc.input)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestSiteService_Provision_NormalizesDomain(t *testing.T) {
	var stored *model.Site
	repo := &mockSiteRepository{
		provisionFn: func(ctx context.Context, site *model.Site) (*model.SiteConfig, error) {
			site.ID = 5
			stored = site
			return &model.SiteConfig{
				SiteID:      5,
				ExpireAfter: repository.DefaultExpireAfter,
				AdminEmail:  "admin@" + site.Domain,
			}, nil
		},
	}
	svc := NewSiteService(repo, zap.NewNop())

	site, cfg, err := svc.Provision(context.Background(), ProvisionInput{
		Name:   "  DevBoard  ",
		Domain: " DevBoard.Test ",
	})
	if err != nil {
		t.Fatalf("Provision returned error: %v", err)
	}
	if stored.Domain != "devboard.test" {
		t.Errorf("stored domain = %q, want devboard.test", stored.Domain)
	}
	if stored.Name != "DevBoard" {
		t.Errorf("stored name = %q, want DevBoard", stored.Name)
	}
	if site.ID != 5 {
		t.Errorf("site.ID = %d, want 5", site.ID)
	}
	if cfg.AdminEmail != "admin@devboard.test" {
		t.Errorf("cfg.AdminEmail = %q, want admin@devboard.test", cfg.AdminEmail)
	}
	if cfg.ExpireAfter != repository.DefaultExpireAfter {
		t.Errorf("cfg.ExpireAfter = %d, want %d", cfg.ExpireAfter, repository.DefaultExpireAfter)
	}
}

func TestSiteService_Provision_DuplicateDomain(t *testing.T) {
	repo := &mockSiteRepository{
		provisionFn: func(ctx context.Context, site *model.Site) (*model.SiteConfig, error) {
			return nil, repository.ErrDuplicate
		},
	}
	svc := NewSiteService(repo, zap.NewNop())

	_, _, err := svc.Provision(context.Background(), ProvisionInput{
		Name:   "DevBoard",
		Domain: "devboard.test",
	})
	if !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestSiteService_EnsureConfig_CreatesWhenMissing(t *testing.T) {
	site := &model.Site{ID: 5, Name: "DevBoard", Domain: "devboard.test"}
	repo := &mockSiteRepository{
		getByIDFn: func(ctx context.Context, id uint) (*model.Site, error) {
			return site, nil
		},
		ensureConfigFn: func(ctx context.Context, s *model.Site) (*model.SiteConfig, bool, error) {
			return &model.SiteConfig{
				SiteID:      s.ID,
				ExpireAfter: repository.DefaultExpireAfter,
				AdminEmail:  "admin@" + s.Domain,
			}, true, nil
		},
	}
	svc := NewSiteService(repo, zap.NewNop())

	cfg, created, err := svc.EnsureConfig(context.Background(), 5)
	if err != nil {
		t.Fatalf("EnsureConfig returned error: %v", err)
	}
	if !created {
		t.Error("expected created = true")
	}
	if cfg.AdminEmail != "admin@devboard.test" {
		t.Errorf("cfg.AdminEmail = %q, want admin@devboard.test", cfg.AdminEmail)
	}
}

func TestSiteService_EnsureConfig_SiteMissing(t *testing.T) {
	svc := NewSiteService(&mockSiteRepository{}, zap.NewNop())

	_, _, err := svc.EnsureConfig(context.Background(), 99)
	if !errors.Is(err, repository.ErrSiteNotFound) {
		t.Fatalf("expected ErrSiteNotFound, got %v", err)
	}
}

func TestSiteService_EnsureAllConfigs(t *testing.T) {
	ensured := 0
	repo := &mockSiteRepository{
		listFn: func(ctx context.Context) ([]model.Site, error) {
			return []model.Site{
				{ID: 1, Domain: "one.test"},
				{ID: 2, Domain: "two.test"},
				{ID: 3, Domain: "three.test"},
			}, nil
		},
		ensureConfigFn: func(ctx context.Context, s *model.Site) (*model.SiteConfig, bool, error) {
			ensured++
			// Only the second site lacked a config row.
			return &model.SiteConfig{SiteID: s.ID}, s.ID == 2, nil
		},
	}
	svc := NewSiteService(repo, zap.NewNop())

	if err := svc.EnsureAllConfigs(context.Background()); err != nil {
		t.Fatalf("EnsureAllConfigs returned error: %v", err)
	}
	if ensured != 3 {
		t.Errorf("EnsureConfig called %d times, want 3", ensured)
	}
}

func TestSiteService_UpdateConfig_Validation(t *testing.T) {
	repo := &mockSiteRepository{
		configBySiteIDFn: func(ctx context.Context, siteID uint) (*model.SiteConfig, error) {
			return &model.SiteConfig{SiteID: siteID, ExpireAfter: 30, AdminEmail: "admin@x.test"}, nil
		},
	}
	svc := NewSiteService(repo, zap.NewNop())

	zero := 0
	negative := -5
	badEmail := "not-an-email"

	cases := []struct {
		name  string
		input UpdateConfigInput
	}{
		{"zero expire_after", UpdateConfigInput{ExpireAfter: &zero}},
		{"negative expire_after", UpdateConfigInput{ExpireAfter: &negative}},
		{"bad admin_email", UpdateConfigInput{AdminEmail: &badEmail}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.UpdateConfig(context.Background(), 5, tc.input)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestSiteService_UpdateConfig_PartialPatch(t *testing.T) {
	var updated *model.SiteConfig
	repo := &mockSiteRepository{
		configBySiteIDFn: func(ctx context.Context, siteID uint) (*model.SiteConfig, error) {
			return &model.SiteConfig{ID: 8, SiteID: siteID, ExpireAfter: 30, AdminEmail: "admin@x.test"}, nil
		},
		updateConfigFn: func(ctx context.Context, cfg *model.SiteConfig) error {
			updated = cfg
			return nil
		},
	}
	svc := NewSiteService(repo, zap.NewNop())

	days := 45
	cfg, err := svc.UpdateConfig(context.Background(), 5, UpdateConfigInput{ExpireAfter: &days})
	if err != nil {
		t.Fatalf("UpdateConfig returned error: %v", err)
	}
	if updated.ExpireAfter != 45 {
		t.Errorf("updated ExpireAfter = %d, want 45", updated.ExpireAfter)
	}
	if updated.AdminEmail != "admin@x.test" {
		t.Errorf("AdminEmail changed to %q, should stay admin@x.test", updated.AdminEmail)
	}
	if cfg.ExpireAfter != 45 {
		t.Errorf("returned ExpireAfter = %d, want 45", cfg.ExpireAfter)
	}
}

func TestSiteService_ConfigBySite_SiteMissing(t *testing.T) {
	svc := NewSiteService(&mockSiteRepository{}, zap.NewNop())

	_, err := svc.ConfigBySite(context.Background(), 99)
	if !errors.Is(err, repository.ErrSiteNotFound) {
		t.Fatalf("expected ErrSiteNotFound, got %v", err)
	}
}
