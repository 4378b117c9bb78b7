package router

import (
    "github.com/labstack/echo/v4"

    "github.com/airnavops/flight-billing/internal/handler"
    "github.com/airnavops/flight-billing/internal/middleware"
    "github.com/airnavops/flight-billing/internal/model"
)

// RegisterServices registers the flight service endpoints on the
// protected group. Read endpoints admit any authenticated role; writes
// require OPERATOR, deletion requires ADMIN.
func RegisterServices(g *echo.Group, s *handler.ServiceHandler, p *handler.PaymentHandler,
    ex *handler.ExportHandler, cacheMW echo.MiddlewareFunc) {

    // ---- Reads (VIEWER and up) ----
    g.GET("/services", s.List, cacheMW)
    g.GET("/services/:id", s.Get)
    g.GET("/services/next-receipt", s.NextReceipt)

    // ---- Writes (OPERATOR and up) ----
    op := middleware.RequireRole(model.RoleOperator)
    g.POST("/services", s.Create, op)
    g.PUT("/services/:id", s.Update, op)
    g.PATCH("/services/:id", s.Update, op)
    g.POST("/services/:id/mark-paid", p.MarkPaid, op)
    g.GET("/services/export", ex.CSV, op)

    // ---- Deletes (ADMIN only) ----
    g.DELETE("/services/:id", s.Delete, middleware.RequireRole(model.RoleAdmin))
}

// RegisterDashboard registers the aggregate dashboard endpoint. The
// response cache keeps repeated loads cheap; any authenticated role may
// read it.
func RegisterDashboard(g *echo.Group, d *handler.DashboardHandler, cacheMW echo.MiddlewareFunc) {
    g.GET("/dashboard", d.Overview, cacheMW)
}

// RegisterExchange registers the USD->IDR reference rate endpoint.
func RegisterExchange(g *echo.Group, x *handler.ExchangeHandler) {
    g.GET("/exchange-rate", x.Rate)
}
