package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health is a plain liveness probe used by the gateway and orchestration
// checks. It responds "ok" with a 200 status.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
