package repository

import (
	"context"
	"errors"
	"time"

	"github.com/haoran-tse/tramcar/internal/model"
	"github.com/haoran-tse/tramcar/prometheus"
	"gorm.io/gorm"
)

// ErrCompanyNotFound signals that the company does not exist on this site.
var ErrCompanyNotFound = errors.New("company not found")

// CompanyRepository defines the data access contract for companies. All
// lookups are scoped to one site.
type CompanyRepository interface {
	Create(ctx context.Context, company *model.Company) error
	GetByID(ctx context.Context, siteID, id uint) (*model.Company, error)
	ListBySite(ctx context.Context, siteID uint) ([]model.Company, error)
}

type companyRepository struct {
	db *gorm.DB
}

// NewCompanyRepository returns a GORM-backed CompanyRepository.
func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) Create(ctx context.Context, company *model.Company) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	if err := r.db.WithContext(ctx).Create(company).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *companyRepository) GetByID(ctx context.Context, siteID, id uint) (*model.Company, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var company model.Company
	if err := r.db.WithContext(ctx).
		Preload("Country").
		Where("id = ? AND site_id = ?", id, siteID).
		First(&company).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, err
	}
	return &company, nil
}

func (r *companyRepository) ListBySite(ctx context.Context, siteID uint) ([]model.Company, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var companies []model.Company
	if err := r.db.WithContext(ctx).
		Preload("Country").
		Where("site_id = ?", siteID).
		Order("name ASC").
		Find(&companies).Error; err != nil {
		return nil, err
	}
	return companies, nil
}
