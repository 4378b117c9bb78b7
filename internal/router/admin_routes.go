package router

import (
    "github.com/labstack/echo/v4"

    "github.com/airnavops/flight-billing/internal/handler"
    "github.com/airnavops/flight-billing/internal/middleware"
    "github.com/airnavops/flight-billing/internal/model"
)

// RegisterAdmin registers ADMIN-scoped user management endpoints on the
// protected group.
func RegisterAdmin(g *echo.Group, u *handler.UserHandler) {
    admin := g.Group("/users", middleware.RequireRole(model.RoleAdmin))
    admin.GET("", u.List)
    admin.POST("", u.Create)
    admin.PATCH("/:id/active", u.SetActive)
}
