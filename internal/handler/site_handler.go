package handler

import (
	"errors"
	"net/http"

	"github.com/haoran-tse/tramcar/internal/repository"
	"github.com/haoran-tse/tramcar/internal/service"
	"github.com/haoran-tse/tramcar/pkg/logger"
	"github.com/haoran-tse/tramcar/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// SiteRequest defines the structure for site creation requests
type SiteRequest struct {
	Name   string `json:"name" validate:"required"`
	Domain string `json:"domain" validate:"required"`
}

// SiteConfigRequest defines the structure for site config updates. Omitted
// fields keep their current value.
type SiteConfigRequest struct {
	ExpireAfter *int    `json:"expire_after"`
	AdminEmail  *string `json:"admin_email"`
}

// SiteHandler exposes site provisioning and configuration over HTTP.
type SiteHandler struct {
	sites *service.SiteService
}

// NewSiteHandler returns a configured SiteHandler.
func NewSiteHandler(sites *service.SiteService) *SiteHandler {
	return &SiteHandler{sites: sites}
}

// CreateSite handles provisioning a new site with its default configuration
func (h *SiteHandler) CreateSite(c echo.Context) error {
	log := logger.FromContext(c)

	var req SiteRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	site, cfg, err := h.sites.Provision(c.Request().Context(), service.ProvisionInput{
		Name:   req.Name,
		Domain: req.Domain,
	})
	if err != nil {
		var vErr *service.ValidationError
		switch {
		case errors.As(err, &vErr):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": vErr.Msg})
		case errors.Is(err, repository.ErrDuplicate):
			log.Warn("Site with this domain already exists", zap.String("domain", req.Domain))
			return c.JSON(http.StatusConflict, echo.Map{
				"error": "Site with this domain already exists",
			})
		default:
			log.Error("Failed to provision site", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"error": "Failed to provision site",
			})
		}
	}

	prometheus.RecordSiteOperation("create")
	return c.JSON(http.StatusCreated, echo.Map{
		"site":   site,
		"config": cfg,
	})
}

// ListSites handles retrieving all sites
func (h *SiteHandler) ListSites(c echo.Context) error {
	sites, err := h.sites.ListSites(c.Request().Context())
	if err != nil {
		logger.FromContext(c).Error("Failed to list sites", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve sites",
		})
	}
	return c.JSON(http.StatusOK, sites)
}

// GetSiteConfig handles retrieving one site's configuration
func (h *SiteHandler) GetSiteConfig(c echo.Context) error {
	siteID, err := idParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid site ID"})
	}

	cfg, err := h.sites.ConfigBySite(c.Request().Context(), siteID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrSiteNotFound),
			errors.Is(err, repository.ErrSiteConfigNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Site config not found"})
		default:
			logger.FromContext(c).Error("Failed to get site config",
				zap.Uint("site_id", siteID), zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"error": "Failed to retrieve site config",
			})
		}
	}
	return c.JSON(http.StatusOK, cfg)
}

// UpdateSiteConfig handles admin edits to a site's configuration
func (h *SiteHandler) UpdateSiteConfig(c echo.Context) error {
	log := logger.FromContext(c)

	siteID, err := idParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid site ID"})
	}

	var req SiteConfigRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	cfg, err := h.sites.UpdateConfig(c.Request().Context(), siteID, service.UpdateConfigInput{
		ExpireAfter: req.ExpireAfter,
		AdminEmail:  req.AdminEmail,
	})
	if err != nil {
		var vErr *service.ValidationError
		switch {
		case errors.As(err, &vErr):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": vErr.Msg})
		case errors.Is(err, repository.ErrSiteConfigNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Site config not found"})
		default:
			log.Error("Failed to update site config",
				zap.Uint("site_id", siteID), zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"error": "Failed to update site config",
			})
		}
	}

	prometheus.RecordSiteOperation("update_config")
	return c.JSON(http.StatusOK, cfg)
}
