package handler

import (
	"net/http"

	"github.com/haoran-tse/tramcar/pkg/database"
	"github.com/haoran-tse/tramcar/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// HealthCheck handles the health check endpoint. It pings the database so a
// broken connection shows up as unhealthy.
func HealthCheck(c echo.Context) error {
	db := database.GetDB()
	if db == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{
			"status": "unhealthy",
			"error":  "database not initialized",
		})
	}

	sqlDB, err := db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request().Context())
	}
	if err != nil {
		logger.FromContext(c).Error("health check failed", zap.Error(err))
		return c.JSON(http.StatusServiceUnavailable, echo.Map{
			"status": "unhealthy",
			"error":  "database unreachable",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status":  "healthy",
		"service": "tramcar",
	})
}
