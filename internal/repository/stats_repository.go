package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/airnavops/flight-billing/internal/model"
)

// StatsRepo serves the aggregate queries behind the dashboard. All
// sums are computed in SQL over the BIGINT money columns and scanned
// into int64, so the totals stay exact.
type StatsRepo struct {
    db *sql.DB
}

// NewStatsRepo returns a new StatsRepo bound to the given database.
func NewStatsRepo(db *sql.DB) *StatsRepo { return &StatsRepo{db: db} }

// PeriodTotals aggregates services whose arrival date falls inside a
// period.
type PeriodTotals struct {
    Count      int
    GrossTotal int64
    NetTotal   int64
}

// TotalsForPeriod sums gross and net over services arriving in
// [from, to].
func (r *StatsRepo) TotalsForPeriod(ctx context.Context, from, to time.Time) (PeriodTotals, error) {
    var t PeriodTotals
    err := r.db.QueryRowContext(ctx,
        `SELECT COUNT(*), COALESCE(SUM(gross_total), 0), COALESCE(SUM(net_total), 0)
         FROM flight_services WHERE arrival_date >= ? AND arrival_date <= ?`,
        from, to).Scan(&t.Count, &t.GrossTotal, &t.NetTotal)
    return t, err
}

// TotalsForStatus sums net totals for one payment status inside a
// period. Pass zero times to aggregate over all time.
func (r *StatsRepo) TotalsForStatus(ctx context.Context, status model.PaymentStatus, from, to time.Time) (PeriodTotals, error) {
    var t PeriodTotals
    if from.IsZero() && to.IsZero() {
        err := r.db.QueryRowContext(ctx,
            `SELECT COUNT(*), COALESCE(SUM(gross_total), 0), COALESCE(SUM(net_total), 0)
             FROM flight_services WHERE status = ?`, status).
            Scan(&t.Count, &t.GrossTotal, &t.NetTotal)
        return t, err
    }
    err := r.db.QueryRowContext(ctx,
        `SELECT COUNT(*), COALESCE(SUM(gross_total), 0), COALESCE(SUM(net_total), 0)
         FROM flight_services WHERE status = ? AND arrival_date >= ? AND arrival_date <= ?`,
        status, from, to).Scan(&t.Count, &t.GrossTotal, &t.NetTotal)
    return t, err
}

// AirlineTotal is one row of the top-airlines ranking.
type AirlineTotal struct {
    Airline  string
    Count    int
    NetTotal int64
}

// TopAirlines ranks airlines by summed net total over a period.
func (r *StatsRepo) TopAirlines(ctx context.Context, from, to time.Time, limit int) ([]AirlineTotal, error) {
    if limit < 1 {
        limit = 5
    }
    rows, err := r.db.QueryContext(ctx,
        `SELECT airline, COUNT(*), COALESCE(SUM(net_total), 0)
         FROM flight_services
         WHERE arrival_date >= ? AND arrival_date <= ?
         GROUP BY airline
         ORDER BY SUM(net_total) DESC
         LIMIT ?`,
        from, to, limit)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    var totals []AirlineTotal
    for rows.Next() {
        var a AirlineTotal
        if err := rows.Scan(&a.Airline, &a.Count, &a.NetTotal); err != nil {
            return nil, err
        }
        totals = append(totals, a)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return totals, nil
}
