package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4"

    "github.com/airnavops/flight-billing/internal/handler"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
    // Used by load balancers and monitoring to verify the service is up.
    e.GET("/healthz", handler.Health)
}

// RegisterAuth registers authentication routes. Unauthenticated
// operations live under /v1/auth, the protected /v1/me endpoint carries
// the JWT middleware applied by the caller's protected group.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, protected *echo.Group) {
    g := e.Group("/v1/auth")
    g.POST("/register", a.Register)
    g.POST("/login", a.Login)
    // Rotates the refresh token and returns a new pair.
    g.POST("/refresh", a.Refresh)
    // Logout accepts either a bearer token (revoke all sessions) or a
    // refresh_token body (revoke one session), so it does not sit
    // behind the JWT middleware.
    g.POST("/logout", a.Logout)

    protected.GET("/me", a.Me)
}
