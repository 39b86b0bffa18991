package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/haoran-tse/tramcar/internal/model"
	"github.com/haoran-tse/tramcar/internal/repository"
	"go.uber.org/zap"
)

// SiteService owns site provisioning and per-site configuration.
type SiteService struct {
	sites repository.SiteRepository
	log   *zap.Logger
}

// NewSiteService returns a configured SiteService.
func NewSiteService(sites repository.SiteRepository, log *zap.Logger) *SiteService {
	return &SiteService{sites: sites, log: log}
}

// ProvisionInput carries the fields needed to create a site.
type ProvisionInput struct {
	Name   string
	Domain string
}

// Provision creates the site together with its configuration in one
// transaction. The configuration starts with the default listing lifetime
// and admin@<domain> as sender address.
func (s *SiteService) Provision(ctx context.Context, in ProvisionInput) (*model.Site, *model.SiteConfig, error) {
	name := strings.TrimSpace(in.Name)
	domain := strings.ToLower(strings.TrimSpace(in.Domain))
	if name == "" || len(name) > 50 {
		return nil, nil, &ValidationError{Msg: "name is required and must be at most 50 characters"}
	}
	if domain == "" || len(domain) > 100 {
		return nil, nil, &ValidationError{Msg: "domain is required and must be at most 100 characters"}
	}
	if strings.ContainsAny(domain, " /@") {
		return nil, nil, &ValidationError{Msg: "domain must be a bare host name"}
	}

	site := &model.Site{Name: name, Domain: domain}
	cfg, err := s.sites.Provision(ctx, site)
	if err != nil {
		return nil, nil, fmt.Errorf("provision site: %w", err)
	}

	s.log.Info("site provisioned",
		zap.Uint("site_id", site.ID),
		zap.String("domain", site.Domain),
		zap.String("admin_email", cfg.AdminEmail))
	return site, cfg, nil
}

// GetSite returns one site by ID.
func (s *SiteService) GetSite(ctx context.Context, id uint) (*model.Site, error) {
	return s.sites.GetByID(ctx, id)
}

// ListSites returns all sites in name order.
func (s *SiteService) ListSites(ctx context.Context) ([]model.Site, error) {
	return s.sites.List(ctx)
}

// ConfigBySite returns the configuration of one site.
func (s *SiteService) ConfigBySite(ctx context.Context, siteID uint) (*model.SiteConfig, error) {
	if _, err := s.sites.GetByID(ctx, siteID); err != nil {
		return nil, err
	}
	return s.sites.ConfigBySiteID(ctx, siteID)
}

// EnsureConfig guarantees the site has a configuration row, creating it with
// defaults when missing. Idempotent.
func (s *SiteService) EnsureConfig(ctx context.Context, siteID uint) (*model.SiteConfig, bool, error) {
	site, err := s.sites.GetByID(ctx, siteID)
	if err != nil {
		return nil, false, err
	}

	cfg, created, err := s.sites.EnsureConfig(ctx, site)
	if err != nil {
		return nil, false, fmt.Errorf("ensure site config: %w", err)
	}
	if created {
		s.log.Info("site config created",
			zap.Uint("site_id", site.ID),
			zap.String("admin_email", cfg.AdminEmail))
	}
	return cfg, created, nil
}

// EnsureAllConfigs backfills configuration rows for sites that lack one. Runs
// at startup so site rows written by an external registry still get their
// defaults.
func (s *SiteService) EnsureAllConfigs(ctx context.Context) error {
	sites, err := s.sites.List(ctx)
	if err != nil {
		return fmt.Errorf("list sites: %w", err)
	}

	for i := range sites {
		site := &sites[i]
		_, created, err := s.sites.EnsureConfig(ctx, site)
		if err != nil {
			return fmt.Errorf("ensure config for site %d: %w", site.ID, err)
		}
		if created {
			s.log.Info("backfilled site config",
				zap.Uint("site_id", site.ID),
				zap.String("domain", site.Domain))
		}
	}
	return nil
}

// UpdateConfigInput carries the mutable configuration fields; nil keeps the
// current value.
type UpdateConfigInput struct {
	ExpireAfter *int
	AdminEmail  *string
}

// UpdateConfig applies an admin edit to a site's configuration.
func (s *SiteService) UpdateConfig(ctx context.Context, siteID uint, in UpdateConfigInput) (*model.SiteConfig, error) {
	cfg, err := s.sites.ConfigBySiteID(ctx, siteID)
	if err != nil {
		return nil, err
	}

	if in.ExpireAfter != nil {
		if *in.ExpireAfter <= 0 {
			return nil, &ValidationError{Msg: "expire_after must be a positive number of days"}
		}
		cfg.ExpireAfter = *in.ExpireAfter
	}
	if in.AdminEmail != nil {
		email := strings.TrimSpace(*in.AdminEmail)
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, &ValidationError{Msg: "admin_email must be a valid email address"}
		}
		cfg.AdminEmail = email
	}

	if err := s.sites.UpdateConfig(ctx, cfg); err != nil {
		return nil, fmt.Errorf("update site config: %w", err)
	}

	s.log.Info("site config updated",
		zap.Uint("site_id", siteID),
		zap.Int("expire_after", cfg.ExpireAfter),
		zap.String("admin_email", cfg.AdminEmail))
	return cfg, nil
}
