package handler

import (
	"errors"
	"net/http"

	"github.com/haoran-tse/tramcar/internal/middleware"
	"github.com/haoran-tse/tramcar/internal/repository"
	"github.com/haoran-tse/tramcar/internal/service"
	"github.com/haoran-tse/tramcar/pkg/logger"
	"github.com/haoran-tse/tramcar/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CategoryRequest defines the structure for category creation requests
type CategoryRequest struct {
	Name string `json:"name" validate:"required"`
}

// CategoryHandler exposes a site's categories over HTTP. Every route runs
// behind the site resolver.
type CategoryHandler struct {
	categories *service.CategoryService
}

// NewCategoryHandler returns a configured CategoryHandler.
func NewCategoryHandler(categories *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// CreateCategory handles adding a category to the current site
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	log := logger.FromContext(c)
	site := middleware.SiteFromContext(c)

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	category, err := h.categories.CreateCategory(c.Request().Context(), site.ID, req.Name)
	if err != nil {
		var vErr *service.ValidationError
		switch {
		case errors.As(err, &vErr):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": vErr.Msg})
		case errors.Is(err, repository.ErrDuplicate):
			log.Warn("Category already exists on this site",
				zap.String("name", req.Name), zap.Uint("site_id", site.ID))
			return c.JSON(http.StatusConflict, echo.Map{
				"error": "Category already exists on this site",
			})
		default:
			log.Error("Failed to create category", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"error": "Failed to create category",
			})
		}
	}

	prometheus.RecordCategoryOperation("create")
	return c.JSON(http.StatusCreated, category)
}

// ListCategories handles retrieving the current site's categories
func (h *CategoryHandler) ListCategories(c echo.Context) error {
	site := middleware.SiteFromContext(c)

	categories, err := h.categories.ListCategories(c.Request().Context(), site.ID)
	if err != nil {
		logger.FromContext(c).Error("Failed to list categories",
			zap.Uint("site_id", site.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve categories",
		})
	}
	return c.JSON(http.StatusOK, categories)
}

// GetCategory handles retrieving a single category by ID
func (h *CategoryHandler) GetCategory(c echo.Context) error {
	site := middleware.SiteFromContext(c)

	id, err := idParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid category ID"})
	}

	category, err := h.categories.GetCategory(c.Request().Context(), site.ID, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Category not found"})
		}
		logger.FromContext(c).Error("Failed to get category",
			zap.Uint("category_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve category",
		})
	}
	return c.JSON(http.StatusOK, category)
}

// CategoryJobs handles retrieving a category's active job postings
func (h *CategoryHandler) CategoryJobs(c echo.Context) error {
	site := middleware.SiteFromContext(c)

	id, err := idParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid category ID"})
	}

	jobs, err := h.categories.ActiveJobs(c.Request().Context(), site.ID, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Category not found"})
		}
		logger.FromContext(c).Error("Failed to list category jobs",
			zap.Uint("category_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve category jobs",
		})
	}
	return c.JSON(http.StatusOK, jobs)
}
