package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/haoran-tse/tramcar/internal/middleware"
	"github.com/haoran-tse/tramcar/internal/repository"
	"github.com/haoran-tse/tramcar/internal/service"
	"github.com/haoran-tse/tramcar/pkg/logger"
	"github.com/haoran-tse/tramcar/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// JobRequest defines the structure for job creation requests
type JobRequest struct {
	Title           string `json:"title" validate:"required"`
	Description     string `json:"description" validate:"required"`
	ApplicationInfo string `json:"application_info" validate:"required"`
	Location        string `json:"location"`
	Email           string `json:"email" validate:"required,email"`
	CategoryID      uint   `json:"category_id" validate:"required"`
	CountryID       *uint  `json:"country_id"`
	CompanyID       uint   `json:"company_id" validate:"required"`
	OwnerID         uint   `json:"owner_id" validate:"required"`
}

// JobHandler exposes job postings and their lifecycle over HTTP. Every route
// runs behind the site resolver.
type JobHandler struct {
	jobs *service.JobService
}

// NewJobHandler returns a configured JobHandler.
func NewJobHandler(jobs *service.JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

// CreateJob handles submitting a new posting to the current site
func (h *JobHandler) CreateJob(c echo.Context) error {
	log := logger.FromContext(c)
	site := middleware.SiteFromContext(c)

	var req JobRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	job, err := h.jobs.CreateJob(c.Request().Context(), site.ID, service.CreateJobInput{
		Title:           req.Title,
		Description:     req.Description,
		ApplicationInfo: req.ApplicationInfo,
		Location:        req.Location,
		Email:           req.Email,
		CategoryID:      req.CategoryID,
		CountryID:       req.CountryID,
		CompanyID:       req.CompanyID,
		OwnerID:         req.OwnerID,
	})
	if err != nil {
		var vErr *service.ValidationError
		if errors.As(err, &vErr) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": vErr.Msg})
		}
		log.Error("Failed to create job", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to create job",
		})
	}

	prometheus.RecordJobOperation("create")
	return c.JSON(http.StatusCreated, job)
}

// ListJobs handles the site's public listing of active postings
func (h *JobHandler) ListJobs(c echo.Context) error {
	site := middleware.SiteFromContext(c)

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	jobs, err := h.jobs.ListActiveJobs(c.Request().Context(), site.ID, limit, offset)
	if err != nil {
		logger.FromContext(c).Error("Failed to list jobs",
			zap.Uint("site_id", site.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve jobs",
		})
	}
	return c.JSON(http.StatusOK, jobs)
}

// GetJob handles retrieving a single posting by ID
func (h *JobHandler) GetJob(c echo.Context) error {
	site := middleware.SiteFromContext(c)

	id, err := idParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid job ID"})
	}

	job, err := h.jobs.GetJob(c.Request().Context(), site.ID, id)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Job not found"})
		}
		logger.FromContext(c).Error("Failed to get job",
			zap.Uint("job_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve job",
		})
	}
	return c.JSON(http.StatusOK, job)
}

// ActivateJob handles marking a posting paid. Repeated calls are harmless
// and report already_active.
func (h *JobHandler) ActivateJob(c echo.Context) error {
	site := middleware.SiteFromContext(c)

	id, err := idParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid job ID"})
	}

	// Scope the lookup to the site before touching the lifecycle.
	if _, err := h.jobs.GetJob(c.Request().Context(), site.ID, id); err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Job not found"})
		}
		logger.FromContext(c).Error("Failed to get job",
			zap.Uint("job_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve job",
		})
	}

	outcome, job, err := h.jobs.Activate(c.Request().Context(), id)
	if err != nil {
		logger.FromContext(c).Error("Failed to activate job",
			zap.Uint("job_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to activate job",
		})
	}

	prometheus.RecordJobTransition("activate", string(outcome))
	return c.JSON(http.StatusOK, echo.Map{
		"outcome": outcome,
		"job":     job,
	})
}

// ExpireJob handles marking a posting expired. Unpaid postings report
// not_paid, already expired ones already_expired; neither is an error.
func (h *JobHandler) ExpireJob(c echo.Context) error {
	site := middleware.SiteFromContext(c)

	id, err := idParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid job ID"})
	}

	if _, err := h.jobs.GetJob(c.Request().Context(), site.ID, id); err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Job not found"})
		}
		logger.FromContext(c).Error("Failed to get job",
			zap.Uint("job_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve job",
		})
	}

	outcome, job, err := h.jobs.Expire(c.Request().Context(), id)
	if err != nil {
		logger.FromContext(c).Error("Failed to expire job",
			zap.Uint("job_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to expire job",
		})
	}

	prometheus.RecordJobTransition("expire", string(outcome))
	return c.JSON(http.StatusOK, echo.Map{
		"outcome": outcome,
		"job":     job,
	})
}
