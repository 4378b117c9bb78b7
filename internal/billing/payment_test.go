package billing

import (
    "testing"
    "time"

    "github.com/airnavops/flight-billing/internal/model"
)

func TestReconcilePaymentClassification(t *testing.T) {
    createdAt := mustTime(t, "2025-11-01T03:00:00Z")
    paidAt := createdAt.Add(72 * time.Hour)
    const netTotal = int64(1565200)

    cases := []struct {
        name       string
        amountPaid int64
        wantStatus model.PaymentStatus
        wantDiff   int64
    }{
        {"exact", netTotal, model.PaymentPaid, 0},
        {"one under", netTotal - 1, model.PaymentUnderpaid, -1},
        {"one over", netTotal + 1, model.PaymentOverpaid, 1},
        {"nothing paid", 0, model.PaymentUnderpaid, -netTotal},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            rec := ReconcilePayment(netTotal, tc.amountPaid, createdAt, paidAt)
            if rec.Status != tc.wantStatus {
                t.Errorf("status = %s, want %s", rec.Status, tc.wantStatus)
            }
            if rec.PaymentDifference != tc.wantDiff {
                t.Errorf("difference = %d, want %d", rec.PaymentDifference, tc.wantDiff)
            }
            if rec.PaymentDays != 3 {
                t.Errorf("payment days = %d, want 3", rec.PaymentDays)
            }
        })
    }
}

func TestReconcilePaymentDays(t *testing.T) {
    createdAt := mustTime(t, "2025-11-01T03:00:00Z")

    // Partial days floor down.
    rec := ReconcilePayment(100, 100, createdAt, createdAt.Add(47*time.Hour))
    if rec.PaymentDays != 1 {
        t.Errorf("47h = %d days, want 1", rec.PaymentDays)
    }

    // Same-day payment.
    rec = ReconcilePayment(100, 100, createdAt, createdAt.Add(5*time.Hour))
    if rec.PaymentDays != 0 {
        t.Errorf("5h = %d days, want 0", rec.PaymentDays)
    }

    // Clock skew never yields negative days.
    rec = ReconcilePayment(100, 100, createdAt, createdAt.Add(-time.Hour))
    if rec.PaymentDays != 0 {
        t.Errorf("skewed clock = %d days, want 0", rec.PaymentDays)
    }
}
