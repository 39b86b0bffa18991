package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/haoran-tse/tramcar/internal/model"
	"github.com/haoran-tse/tramcar/internal/repository"
	"go.uber.org/zap"
)

// CategoryService manages a site's job categories.
type CategoryService struct {
	categories repository.CategoryRepository
	jobs       repository.JobRepository
	log        *zap.Logger
}

// NewCategoryService returns a configured CategoryService.
func NewCategoryService(categories repository.CategoryRepository, jobs repository.JobRepository, log *zap.Logger) *CategoryService {
	return &CategoryService{categories: categories, jobs: jobs, log: log}
}

// CreateCategory adds a category to the site. Names are unique per site.
func (s *CategoryService) CreateCategory(ctx context.Context, siteID uint, name string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 30 {
		return nil, &ValidationError{Msg: "name is required and must be at most 30 characters"}
	}

	category := &model.Category{Name: name, SiteID: siteID}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.log.Info("category created",
		zap.Uint("category_id", category.ID),
		zap.Uint("site_id", siteID),
		zap.String("name", name))
	return category, nil
}

// GetCategory returns one category of the site.
func (s *CategoryService) GetCategory(ctx context.Context, siteID, id uint) (*model.Category, error) {
	return s.categories.GetByID(ctx, siteID, id)
}

// ListCategories returns the site's categories ordered by name.
func (s *CategoryService) ListCategories(ctx context.Context, siteID uint) ([]model.Category, error) {
	return s.categories.ListBySite(ctx, siteID)
}

// ActiveJobs returns the category's live postings, most recently activated
// first.
func (s *CategoryService) ActiveJobs(ctx context.Context, siteID, categoryID uint) ([]model.Job, error) {
	if _, err := s.categories.GetByID(ctx, siteID, categoryID); err != nil {
		return nil, err
	}
	return s.jobs.ListActiveByCategory(ctx, siteID, categoryID)
}
