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

// CountryRequest defines the structure for country creation requests
type CountryRequest struct {
	Name string `json:"name" validate:"required"`
}

// CountryHandler exposes the shared country list over HTTP.
type CountryHandler struct {
	countries *service.CountryService
}

// NewCountryHandler returns a configured CountryHandler.
func NewCountryHandler(countries *service.CountryService) *CountryHandler {
	return &CountryHandler{countries: countries}
}

// CreateCountry handles adding a country to the shared list
func (h *CountryHandler) CreateCountry(c echo.Context) error {
	log := logger.FromContext(c)

	var req CountryRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	country, err := h.countries.CreateCountry(c.Request().Context(), req.Name)
	if err != nil {
		var vErr *service.ValidationError
		switch {
		case errors.As(err, &vErr):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": vErr.Msg})
		case errors.Is(err, repository.ErrDuplicate):
			log.Warn("Country already exists", zap.String("name", req.Name))
			return c.JSON(http.StatusConflict, echo.Map{
				"error": "Country already exists",
			})
		default:
			log.Error("Failed to create country", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"error": "Failed to create country",
			})
		}
	}

	prometheus.RecordCountryOperation("create")
	return c.JSON(http.StatusCreated, country)
}

// ListCountries handles retrieving all countries
func (h *CountryHandler) ListCountries(c echo.Context) error {
	countries, err := h.countries.ListCountries(c.Request().Context())
	if err != nil {
		logger.FromContext(c).Error("Failed to list countries", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve countries",
		})
	}
	return c.JSON(http.StatusOK, countries)
}
