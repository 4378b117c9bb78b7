package handler

import (
    "context"
    "database/sql"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/airnavops/flight-billing/internal/billing"
    "github.com/airnavops/flight-billing/internal/model"
    "github.com/airnavops/flight-billing/internal/queue"
    "github.com/airnavops/flight-billing/internal/repository"
    queue_publisher "github.com/airnavops/flight-billing/internal/service"
)

// PaymentHandler records payments against issued invoices.
type PaymentHandler struct {
    Services *repository.FlightServiceRepo
}

func NewPaymentHandler(s *repository.FlightServiceRepo) *PaymentHandler {
    return &PaymentHandler{Services: s}
}

type markPaidReq struct {
    // AmountPaid defaults to the invoiced net total when omitted, i.e.
    // an exact settlement.
    AmountPaid *int64 `json:"amountPaid"`
    // PaidAt defaults to now. RFC3339.
    PaidAt *string `json:"paidAt"`
}

type markPaidResp struct {
    ID                uint64    `json:"id"`
    ReceiptNo         string    `json:"receiptNo"`
    Status            string    `json:"status"`
    PaidAt            time.Time `json:"paidAt"`
    AmountPaid        int64     `json:"amountPaid"`
    PaymentDifference int64     `json:"paymentDifference"`
    PaymentDays       int       `json:"paymentDays"`
}

// MarkPaid reconciles a payment against the invoiced net total and
// stores the outcome. An exact payment settles as PAID; shortfalls and
// excesses are recorded as UNDERPAID and OVERPAID with the signed
// difference kept for follow-up.
func (h *PaymentHandler) MarkPaid(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req markPaidReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
    defer cancel()

    s, err := h.Services.GetByID(ctx, id)
    if err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "service not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    if s.Status != model.PaymentUnpaid {
        return c.JSON(http.StatusConflict, echo.Map{"error": "payment already recorded"})
    }

    amountPaid := s.NetTotal
    if req.AmountPaid != nil {
        if *req.AmountPaid < 0 {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "amountPaid must not be negative"})
        }
        amountPaid = *req.AmountPaid
    }
    paidAt := time.Now().UTC()
    if req.PaidAt != nil && *req.PaidAt != "" {
        t, err := parseInstant(*req.PaidAt)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "paidAt must be an RFC3339 timestamp"})
        }
        paidAt = t
    }

    rec := billing.ReconcilePayment(s.NetTotal, amountPaid, s.CreatedAt, paidAt)

    if err := h.Services.MarkPaid(ctx, id, rec.Status, paidAt, amountPaid, rec.PaymentDifference, rec.PaymentDays); err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "service not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "record payment failed"})
    }

    go func(ev queue.PaymentRecordedEvent) {
        _ = queue_publisher.PublishPaymentRecorded(context.Background(), ev)
    }(queue.PaymentRecordedEvent{
        ServiceID:         s.ID,
        ReceiptNo:         s.ReceiptNo,
        Status:            string(rec.Status),
        NetTotal:          s.NetTotal,
        AmountPaid:        amountPaid,
        PaymentDifference: rec.PaymentDifference,
        PaymentDays:       rec.PaymentDays,
        PaidAt:            paidAt.Format(time.RFC3339),
    })

    return c.JSON(http.StatusOK, markPaidResp{
        ID:                s.ID,
        ReceiptNo:         s.ReceiptNo,
        Status:            string(rec.Status),
        PaidAt:            paidAt,
        AmountPaid:        amountPaid,
        PaymentDifference: rec.PaymentDifference,
        PaymentDays:       rec.PaymentDays,
    })
}
