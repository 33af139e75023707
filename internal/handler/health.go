package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health is a liveness endpoint for load balancers and monitoring. It
// deliberately touches no collection so a corrupt data file never
// takes the probe down with it.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
