package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthCheck is a liveness probe; it does not touch storage.
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
