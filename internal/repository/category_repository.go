package repository

import (
	"context"
	"errors"
	"time"

	"github.com/haoran-tse/tramcar/internal/model"
	"github.com/haoran-tse/tramcar/prometheus"
	"gorm.io/gorm"
)

// ErrCategoryNotFound signals that the category does not exist on this site.
var ErrCategoryNotFound = errors.New("category not found")

// CategoryRepository defines the data access contract for job categories.
// All lookups are scoped to one site.
type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	GetByID(ctx context.Context, siteID, id uint) (*model.Category, error)
	ListBySite(ctx context.Context, siteID uint) ([]model.Category, error)
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository returns a GORM-backed CategoryRepository.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *model.Category) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, siteID, id uint) (*model.Category, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var category model.Category
	if err := r.db.WithContext(ctx).
		Where("id = ? AND site_id = ?", id, siteID).
		First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) ListBySite(ctx context.Context, siteID uint) ([]model.Category, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var categories []model.Category
	if err := r.db.WithContext(ctx).
		Where("site_id = ?", siteID).
		Order("name ASC").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}
