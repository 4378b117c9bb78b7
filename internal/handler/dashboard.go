package handler

import (
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/airnavops/flight-billing/internal/model"
    "github.com/airnavops/flight-billing/internal/repository"
)

// DashboardHandler serves the aggregate figures shown on the landing
// page: month totals, settlement progress, a six-month revenue trend,
// the airline ranking and the oldest outstanding invoices.
type DashboardHandler struct {
    Stats    *repository.StatsRepo
    Services *repository.FlightServiceRepo
}

func NewDashboardHandler(st *repository.StatsRepo, sv *repository.FlightServiceRepo) *DashboardHandler {
    return &DashboardHandler{Stats: st, Services: sv}
}

type periodPart struct {
    Count      int   `json:"count"`
    GrossTotal int64 `json:"grossTotal"`
    NetTotal   int64 `json:"netTotal"`
}

type trendPart struct {
    Month string `json:"month"` // YYYY-MM
    Count int    `json:"count"`
    Gross int64  `json:"gross"`
    Net   int64  `json:"net"`
}

type airlinePart struct {
    Airline  string `json:"airline"`
    Count    int    `json:"count"`
    NetTotal int64  `json:"netTotal"`
}

type dashboardResp struct {
    ThisMonth       periodPart    `json:"thisMonth"`
    LastMonth       periodPart    `json:"lastMonth"`
    PaidThisMonth   periodPart    `json:"paidThisMonth"`
    UnpaidThisMonth periodPart    `json:"unpaidThisMonth"`
    TotalUnpaid     periodPart    `json:"totalUnpaid"`
    MonthlyTrend    []trendPart   `json:"monthlyTrend"`
    TopAirlines     []airlinePart `json:"topAirlines"`
    Overdue         []serviceResp `json:"overdue"`
}

func monthBounds(t time.Time) (time.Time, time.Time) {
    start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
    end := start.AddDate(0, 1, 0).Add(-time.Second)
    return start, end
}

func toPeriodPart(t repository.PeriodTotals) periodPart {
    return periodPart{Count: t.Count, GrossTotal: t.GrossTotal, NetTotal: t.NetTotal}
}

// Overview aggregates the dashboard figures.
func (h *DashboardHandler) Overview(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
    defer cancel()

    now := time.Now().UTC()
    thisStart, thisEnd := monthBounds(now)
    lastStart, lastEnd := monthBounds(now.AddDate(0, -1, 0))

    var resp dashboardResp

    thisMonth, err := h.Stats.TotalsForPeriod(ctx, thisStart, thisEnd)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "stats failed"})
    }
    resp.ThisMonth = toPeriodPart(thisMonth)

    lastMonth, err := h.Stats.TotalsForPeriod(ctx, lastStart, lastEnd)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "stats failed"})
    }
    resp.LastMonth = toPeriodPart(lastMonth)

    paid, err := h.Stats.TotalsForStatus(ctx, model.PaymentPaid, thisStart, thisEnd)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "stats failed"})
    }
    resp.PaidThisMonth = toPeriodPart(paid)

    unpaid, err := h.Stats.TotalsForStatus(ctx, model.PaymentUnpaid, thisStart, thisEnd)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "stats failed"})
    }
    resp.UnpaidThisMonth = toPeriodPart(unpaid)

    allUnpaid, err := h.Stats.TotalsForStatus(ctx, model.PaymentUnpaid, time.Time{}, time.Time{})
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "stats failed"})
    }
    resp.TotalUnpaid = toPeriodPart(allUnpaid)

    resp.MonthlyTrend = make([]trendPart, 0, 6)
    for i := 5; i >= 0; i-- {
        monthStart, monthEnd := monthBounds(now.AddDate(0, -i, 0))
        t, err := h.Stats.TotalsForPeriod(ctx, monthStart, monthEnd)
        if err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "stats failed"})
        }
        resp.MonthlyTrend = append(resp.MonthlyTrend, trendPart{
            Month: monthStart.Format("2006-01"),
            Count: t.Count,
            Gross: t.GrossTotal,
            Net:   t.NetTotal,
        })
    }

    airlines, err := h.Stats.TopAirlines(ctx, thisStart, thisEnd, 5)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "stats failed"})
    }
    resp.TopAirlines = make([]airlinePart, 0, len(airlines))
    for _, a := range airlines {
        resp.TopAirlines = append(resp.TopAirlines, airlinePart{
            Airline: a.Airline, Count: a.Count, NetTotal: a.NetTotal,
        })
    }

    // Oldest outstanding invoices first.
    overdue, _, err := h.Services.List(ctx, repository.ListFilter{
        Status:    model.PaymentUnpaid,
        SortField: "ataUtc",
        SortDesc:  false,
        Page:      1,
        PageSize:  10,
    })
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "stats failed"})
    }
    resp.Overdue = make([]serviceResp, 0, len(overdue))
    for i := range overdue {
        resp.Overdue = append(resp.Overdue, toServiceResp(&overdue[i]))
    }

    return c.JSON(http.StatusOK, resp)
}
