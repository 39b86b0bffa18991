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

// CompanyRequest defines the structure for company creation requests
type CompanyRequest struct {
	Name      string `json:"name" validate:"required"`
	URL       string `json:"url" validate:"required"`
	Twitter   string `json:"twitter"`
	CountryID *uint  `json:"country_id"`
	OwnerID   uint   `json:"owner_id" validate:"required"`
}

// CompanyHandler exposes a site's companies over HTTP. Every route runs
// behind the site resolver.
type CompanyHandler struct {
	companies *service.CompanyService
}

// NewCompanyHandler returns a configured CompanyHandler.
func NewCompanyHandler(companies *service.CompanyService) *CompanyHandler {
	return &CompanyHandler{companies: companies}
}

// CreateCompany handles registering a company on the current site
func (h *CompanyHandler) CreateCompany(c echo.Context) error {
	log := logger.FromContext(c)
	site := middleware.SiteFromContext(c)

	var req CompanyRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	company, err := h.companies.CreateCompany(c.Request().Context(), site.ID, service.CreateCompanyInput{
		Name:      req.Name,
		URL:       req.URL,
		Twitter:   req.Twitter,
		CountryID: req.CountryID,
		OwnerID:   req.OwnerID,
	})
	if err != nil {
		var vErr *service.ValidationError
		switch {
		case errors.As(err, &vErr):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": vErr.Msg})
		case errors.Is(err, repository.ErrDuplicate):
			log.Warn("Company already exists on this site",
				zap.String("name", req.Name), zap.Uint("site_id", site.ID))
			return c.JSON(http.StatusConflict, echo.Map{
				"error": "Company already exists on this site",
			})
		default:
			log.Error("Failed to create company", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"error": "Failed to create company",
			})
		}
	}

	prometheus.RecordCompanyOperation("create")
	return c.JSON(http.StatusCreated, company)
}

// ListCompanies handles retrieving the current site's companies
func (h *CompanyHandler) ListCompanies(c echo.Context) error {
	site := middleware.SiteFromContext(c)

	companies, err := h.companies.ListCompanies(c.Request().Context(), site.ID)
	if err != nil {
		logger.FromContext(c).Error("Failed to list companies",
			zap.Uint("site_id", site.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve companies",
		})
	}
	return c.JSON(http.StatusOK, companies)
}

// GetCompany handles retrieving a single company by ID
func (h *CompanyHandler) GetCompany(c echo.Context) error {
	site := middleware.SiteFromContext(c)

	id, err := idParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid company ID"})
	}

	company, err := h.companies.GetCompany(c.Request().Context(), site.ID, id)
	if err != nil {
		if errors.Is(err, repository.ErrCompanyNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Company not found"})
		}
		logger.FromContext(c).Error("Failed to get company",
			zap.Uint("company_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve company",
		})
	}
	return c.JSON(http.StatusOK, company)
}

// CompanyJobs handles retrieving a company's active job postings
func (h *CompanyHandler) CompanyJobs(c echo.Context) error {
	site := middleware.SiteFromContext(c)

	id, err := idParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid company ID"})
	}

	jobs, err := h.companies.ActiveJobs(c.Request().Context(), site.ID, id)
	if err != nil {
		if errors.Is(err, repository.ErrCompanyNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Company not found"})
		}
		logger.FromContext(c).Error("Failed to list company jobs",
			zap.Uint("company_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve company jobs",
		})
	}
	return c.JSON(http.StatusOK, jobs)
}

// CompanyPaidJobs handles retrieving every posting a company ever activated,
// expired ones included
func (h *CompanyHandler) CompanyPaidJobs(c echo.Context) error {
	site := middleware.SiteFromContext(c)

	id, err := idParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid company ID"})
	}

	jobs, err := h.companies.PaidJobs(c.Request().Context(), site.ID, id)
	if err != nil {
		if errors.Is(err, repository.ErrCompanyNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Company not found"})
		}
		logger.FromContext(c).Error("Failed to list company paid jobs",
			zap.Uint("company_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve company paid jobs",
		})
	}
	return c.JSON(http.StatusOK, jobs)
}
