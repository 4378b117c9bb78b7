package billing

import (
    "time"

    "github.com/airnavops/flight-billing/internal/model"
)

// Reconciliation is the outcome of comparing a recorded payment with
// the invoiced net total.
type Reconciliation struct {
    Status            model.PaymentStatus
    PaymentDifference int64
    PaymentDays       int
}

// ReconcilePayment classifies a payment against the invoiced net total.
// An exact match is PAID, a shortfall UNDERPAID and an excess OVERPAID.
// PaymentDays counts whole days elapsed between invoice creation and
// the payment instant; it never goes negative even if the clocks are
// skewed. The function does not validate amountPaid; that is the
// caller's job.
func ReconcilePayment(netTotal, amountPaid int64, createdAt, paidAt time.Time) Reconciliation {
    diff := amountPaid - netTotal

    status := model.PaymentPaid
    switch {
    case diff < 0:
        status = model.PaymentUnderpaid
    case diff > 0:
        status = model.PaymentOverpaid
    }

    days := int(paidAt.Sub(createdAt) / (24 * time.Hour))
    if days < 0 {
        days = 0
    }

    return Reconciliation{
        Status:            status,
        PaymentDifference: diff,
        PaymentDays:       days,
    }
}
