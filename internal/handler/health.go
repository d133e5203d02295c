package handler

import (
	"net/http" // HTTP status codes

	"github.com/labstack/echo/v4" // Echo web framework
)

// Health is a liveness endpoint for load balancers and monitoring.  It
// returns a plain text "ok" with a 200 status and touches no backing
// store, so it stays green while the availability path runs degraded.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
