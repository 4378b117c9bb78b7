package handler

import (
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/airnavops/flight-billing/internal/exchange"
)

// ExchangeHandler exposes the USD->IDR reference rate used to pre-fill
// the exchange rate field for international services.
type ExchangeHandler struct {
    FX *exchange.Client
}

func NewExchangeHandler(fx *exchange.Client) *ExchangeHandler {
    return &ExchangeHandler{FX: fx}
}

// Rate returns the current rate in whole rupiah per dollar.
func (h *ExchangeHandler) Rate(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
    defer cancel()

    return c.JSON(http.StatusOK, echo.Map{
        "base":  "USD",
        "quote": "IDR",
        "rate":  h.FX.UsdToIdr(ctx),
    })
}
