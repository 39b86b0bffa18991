package middleware

import (
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/haoran-tse/tramcar/internal/model"
	"github.com/haoran-tse/tramcar/internal/repository"
	"github.com/labstack/echo/v4"
)

const siteContextKey = "site"

// ResolveSite maps the request's Host header to a registered site and stores
// it on the context. Requests for hosts no site claims get a 404.
func ResolveSite(sites repository.SiteRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			host := c.Request().Host
			if h, _, err := net.SplitHostPort(host); err == nil {
				host = h
			}
			host = strings.ToLower(host)

			site, err := sites.GetByDomain(c.Request().Context(), host)
			if err != nil {
				if errors.Is(err, repository.ErrSiteNotFound) {
					return c.JSON(http.StatusNotFound, echo.Map{
						"error": "unknown site: " + host,
					})
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{
					"error": "failed to resolve site",
				})
			}

			c.Set(siteContextKey, site)
			return next(c)
		}
	}
}

// SiteFromContext returns the site ResolveSite stored for this request, or
// nil outside a site-scoped route.
func SiteFromContext(c echo.Context) *model.Site {
	site, _ := c.Get(siteContextKey).(*model.Site)
	return site
}
