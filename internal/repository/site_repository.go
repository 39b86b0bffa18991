package repository

import (
	"context"
	"errors"
	"time"

	"github.com/haoran-tse/tramcar/internal/model"
	"github.com/haoran-tse/tramcar/prometheus"
	"gorm.io/gorm"
)

var (
	// ErrSiteNotFound signals that the requested site does not exist.
	ErrSiteNotFound = errors.New("site not found")
	// ErrSiteConfigNotFound signals that a site has no configuration row.
	ErrSiteConfigNotFound = errors.New("site config not found")
)

// DefaultExpireAfter is the listing lifetime in days applied to newly
// provisioned sites.
const DefaultExpireAfter = 30

// SiteRepository defines the data access contract for sites and their
// per-site configuration.
type SiteRepository interface {
	// Provision inserts the site and its SiteConfig in one transaction.
	Provision(ctx context.Context, site *model.Site) (*model.SiteConfig, error)
	GetByID(ctx context.Context, id uint) (*model.Site, error)
	GetByDomain(ctx context.Context, domain string) (*model.Site, error)
	List(ctx context.Context) ([]model.Site, error)
	// EnsureConfig creates the site's config row if it is missing. The
	// lookup keys on the site ID alone, so repeated calls never create a
	// second row. The bool reports whether a row was created.
	EnsureConfig(ctx context.Context, site *model.Site) (*model.SiteConfig, bool, error)
	ConfigBySiteID(ctx context.Context, siteID uint) (*model.SiteConfig, error)
	ListConfigs(ctx context.Context) ([]model.SiteConfig, error)
	UpdateConfig(ctx context.Context, cfg *model.SiteConfig) error
}

type siteRepository struct {
	db *gorm.DB
}

// NewSiteRepository returns a GORM-backed SiteRepository.
func NewSiteRepository(db *gorm.DB) SiteRepository {
	return &siteRepository{db: db}
}

func (r *siteRepository) Provision(ctx context.Context, site *model.Site) (*model.SiteConfig, error) {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	if err := tx.Create(site).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicate
		}
		return nil, err
	}

	cfg, _, err := ensureConfig(tx, site)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return cfg, nil
}

func (r *siteRepository) GetByID(ctx context.Context, id uint) (*model.Site, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var site model.Site
	if err := r.db.WithContext(ctx).First(&site, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSiteNotFound
		}
		return nil, err
	}
	return &site, nil
}

func (r *siteRepository) GetByDomain(ctx context.Context, domain string) (*model.Site, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var site model.Site
	if err := r.db.WithContext(ctx).Where("domain = ?", domain).First(&site).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSiteNotFound
		}
		return nil, err
	}
	return &site, nil
}

func (r *siteRepository) List(ctx context.Context) ([]model.Site, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var sites []model.Site
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&sites).Error; err != nil {
		return nil, err
	}
	return sites, nil
}

func (r *siteRepository) EnsureConfig(ctx context.Context, site *model.Site) (*model.SiteConfig, bool, error) {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	return ensureConfig(r.db.WithContext(ctx), site)
}

// ensureConfig runs the get-or-create inside whatever transaction (or bare
// session) the caller holds. A racing insert loses against the unique index
// on site_id and falls back to reading the winner's row.
func ensureConfig(db *gorm.DB, site *model.Site) (*model.SiteConfig, bool, error) {
	var cfg model.SiteConfig
	result := db.
		Where(model.SiteConfig{SiteID: site.ID}).
		Attrs(model.SiteConfig{
			ExpireAfter: DefaultExpireAfter,
			AdminEmail:  "admin@" + site.Domain,
		}).
		FirstOrCreate(&cfg)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			if err := db.Where("site_id = ?", site.ID).First(&cfg).Error; err != nil {
				return nil, false, err
			}
			return &cfg, false, nil
		}
		return nil, false, result.Error
	}
	return &cfg, result.RowsAffected > 0, nil
}

func (r *siteRepository) ConfigBySiteID(ctx context.Context, siteID uint) (*model.SiteConfig, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var cfg model.SiteConfig
	if err := r.db.WithContext(ctx).Where("site_id = ?", siteID).First(&cfg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSiteConfigNotFound
		}
		return nil, err
	}
	return &cfg, nil
}

func (r *siteRepository) ListConfigs(ctx context.Context) ([]model.SiteConfig, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var configs []model.SiteConfig
	if err := r.db.WithContext(ctx).Preload("Site").Find(&configs).Error; err != nil {
		return nil, err
	}
	return configs, nil
}

func (r *siteRepository) UpdateConfig(ctx context.Context, cfg *model.SiteConfig) error {
	defer prometheus.TrackDBOperation("update")(time.Now())

	result := r.db.WithContext(ctx).
		Model(&model.SiteConfig{}).
		Where("id = ?", cfg.ID).
		Updates(map[string]interface{}{
			"expire_after": cfg.ExpireAfter,
			"admin_email":  cfg.AdminEmail,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSiteConfigNotFound
	}

	return r.db.WithContext(ctx).Where("id = ?", cfg.ID).First(cfg).Error
}
