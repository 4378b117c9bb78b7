// Package handler contains the HTTP handlers for the billing API.
package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"
)

// Health answers load balancer and monitoring probes. It reports
// liveness only; a healthy process with an unreachable database still
// answers ok.
func Health(c echo.Context) error {
    return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
