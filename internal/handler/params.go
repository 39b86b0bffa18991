package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// idParam parses a numeric path parameter.
func idParam(c echo.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}
