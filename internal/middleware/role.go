package middleware

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/airnavops/flight-billing/internal/model"
)

// RequireRole returns a middleware that enforces a minimum role on the
// authenticated user. Roles are hierarchical (VIEWER < OPERATOR <
// ADMIN), so RequireRole(model.RoleOperator) admits operators and
// admins but rejects viewers. It assumes JWTAuth has already stored the
// role claim in the context under "role"; a missing or unknown role is
// rejected with 403.
func RequireRole(minimum string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            role, ok := c.Get("role").(string)
            if !ok || !model.RoleAtLeast(role, minimum) {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
            }
            return next(c)
        }
    }
}
