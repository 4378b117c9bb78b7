package repository

import (
    "context"
    "database/sql"
    "fmt"
    "strings"
    "time"

    "github.com/airnavops/flight-billing/internal/model"
)

// FlightServiceRepo provides CRUD operations for billed flight
// services. Monetary columns are BIGINT amounts in the smallest
// currency unit; they are scanned into int64 and never pass through
// floating point. All timestamp columns are stored in UTC.
type FlightServiceRepo struct {
    db *sql.DB
}

// NewFlightServiceRepo returns a new FlightServiceRepo bound to the given database.
func NewFlightServiceRepo(db *sql.DB) *FlightServiceRepo { return &FlightServiceRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// spanning the receipt counter and the service insert.
func (r *FlightServiceRepo) DB() *sql.DB { return r.db }

const serviceColumns = `id, seq_no, airline, flight_type, flight_number, flight_number_2,
    registration, aircraft_type, dep_station, arr_station, arrival_date,
    ata_utc, atd_utc, advance_extend, service_start_utc, service_end_utc,
    use_app, use_twr, use_afis, currency, exchange_rate,
    duration_minutes, billable_hours, gross_app, gross_twr, gross_afis,
    gross_total, ppn, net_total, receipt_no, receipt_date, status,
    paid_at, amount_paid, payment_difference, payment_days, pic_dinas,
    created_at, updated_at`

type rowScanner interface {
    Scan(dest ...interface{}) error
}

func scanService(row rowScanner) (*model.FlightService, error) {
    var (
        s             model.FlightService
        flightNo2     sql.NullString
        ataUTC        sql.NullTime
        atdUTC        sql.NullTime
        exchangeRate  sql.NullInt64
        paidAt        sql.NullTime
        amountPaid    sql.NullInt64
        paymentDiff   sql.NullInt64
        paymentDays   sql.NullInt64
        picDinas      sql.NullString
    )
    err := row.Scan(
        &s.ID, &s.SeqNo, &s.Airline, &s.FlightType, &s.FlightNumber, &flightNo2,
        &s.Registration, &s.AircraftType, &s.DepStation, &s.ArrStation, &s.ArrivalDate,
        &ataUTC, &atdUTC, &s.AdvanceExtend, &s.ServiceStartUTC, &s.ServiceEndUTC,
        &s.UseApp, &s.UseTwr, &s.UseAfis, &s.Currency, &exchangeRate,
        &s.DurationMinutes, &s.BillableHours, &s.GrossApp, &s.GrossTwr, &s.GrossAfis,
        &s.GrossTotal, &s.PPN, &s.NetTotal, &s.ReceiptNo, &s.ReceiptDate, &s.Status,
        &paidAt, &amountPaid, &paymentDiff, &paymentDays, &picDinas,
        &s.CreatedAt, &s.UpdatedAt,
    )
    if err != nil {
        return nil, err
    }
    if flightNo2.Valid {
        v := flightNo2.String
        s.FlightNumber2 = &v
    }
    if ataUTC.Valid {
        v := ataUTC.Time.UTC()
        s.ATAUTC = &v
    }
    if atdUTC.Valid {
        v := atdUTC.Time.UTC()
        s.ATDUTC = &v
    }
    if exchangeRate.Valid {
        v := exchangeRate.Int64
        s.ExchangeRate = &v
    }
    if paidAt.Valid {
        v := paidAt.Time.UTC()
        s.PaidAt = &v
    }
    if amountPaid.Valid {
        v := amountPaid.Int64
        s.AmountPaid = &v
    }
    if paymentDiff.Valid {
        v := paymentDiff.Int64
        s.PaymentDifference = &v
    }
    if paymentDays.Valid {
        v := int(paymentDays.Int64)
        s.PaymentDays = &v
    }
    if picDinas.Valid {
        v := picDinas.String
        s.PICDinas = &v
    }
    return &s, nil
}

const nextSeqNoStmt = `INSERT INTO service_counters (id, last_seq)
        VALUES (1, LAST_INSERT_ID(1))
        ON DUPLICATE KEY UPDATE last_seq = LAST_INSERT_ID(last_seq + 1)`

type execer interface {
    ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// nextSeqNo advances the single-row display counter and returns the
// issued value. It uses the same LAST_INSERT_ID upsert idiom as
// receipt_counters: increment and read happen in one statement under
// the counter row's lock, so concurrent transactions serialize and
// never observe the same value. A MAX(seq_no)+1 read would be a
// snapshot under REPEATABLE READ and two concurrent creates could
// compute the same number.
func nextSeqNo(ctx context.Context, ex execer) (uint64, error) {
    res, err := ex.ExecContext(ctx, nextSeqNoStmt)
    if err != nil {
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// CreateTx inserts a new flight service within an existing transaction
// and populates the generated ID, SeqNo and timestamps on the provided
// record. The display sequence number is allocated inside the same
// transaction as the insert. The caller must commit or roll back; the
// receipt number is expected to have been allocated in this same
// transaction via ReceiptCounterRepo.NextSeqTx.
func (r *FlightServiceRepo) CreateTx(ctx context.Context, tx *sql.Tx, s *model.FlightService) error {
    seqNo, err := nextSeqNo(ctx, tx)
    if err != nil {
        return err
    }
    s.SeqNo = seqNo

    const q = `INSERT INTO flight_services (
            seq_no, airline, flight_type, flight_number, flight_number_2,
            registration, aircraft_type, dep_station, arr_station, arrival_date,
            ata_utc, atd_utc, advance_extend, service_start_utc, service_end_utc,
            use_app, use_twr, use_afis, currency, exchange_rate,
            duration_minutes, billable_hours, gross_app, gross_twr, gross_afis,
            gross_total, ppn, net_total, receipt_no, receipt_date, status, pic_dinas
        ) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`
    res, err := tx.ExecContext(ctx, q,
        s.SeqNo, s.Airline, s.FlightType, s.FlightNumber, s.FlightNumber2,
        s.Registration, s.AircraftType, s.DepStation, s.ArrStation, s.ArrivalDate,
        nullTime(s.ATAUTC), nullTime(s.ATDUTC), s.AdvanceExtend, s.ServiceStartUTC, s.ServiceEndUTC,
        s.UseApp, s.UseTwr, s.UseAfis, s.Currency, s.ExchangeRate,
        s.DurationMinutes, s.BillableHours, s.GrossApp, s.GrossTwr, s.GrossAfis,
        s.GrossTotal, s.PPN, s.NetTotal, s.ReceiptNo, s.ReceiptDate, s.Status, s.PICDinas,
    )
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    s.ID = uint64(id)

    // Query back DB-assigned timestamps so the caller returns the row
    // exactly as persisted.
    return tx.QueryRowContext(ctx,
        `SELECT created_at, updated_at FROM flight_services WHERE id = ?`, s.ID).
        Scan(&s.CreatedAt, &s.UpdatedAt)
}

// GetByID returns a single service. sql.ErrNoRows is passed through
// when the record does not exist.
func (r *FlightServiceRepo) GetByID(ctx context.Context, id uint64) (*model.FlightService, error) {
    row := r.db.QueryRowContext(ctx,
        `SELECT `+serviceColumns+` FROM flight_services WHERE id = ?`, id)
    return scanService(row)
}

// ListFilter restricts and orders a service listing. Zero values mean
// "no restriction". Search matches airline, flight number, registration
// and receipt number. SortField must be one of the whitelisted columns;
// anything else falls back to created_at.
type ListFilter struct {
    Search        string
    FlightType    model.FlightType
    Status        model.PaymentStatus
    AdvanceExtend model.AdvanceExtend
    DateFrom      *time.Time
    DateTo        *time.Time
    SortField     string
    SortDesc      bool
    Page          int
    PageSize      int
}

// sortColumns whitelists user-selectable sort fields to their column
// names so the ORDER BY can never carry injected SQL.
var sortColumns = map[string]string{
    "seqNo":           "seq_no",
    "ataUtc":          "ata_utc",
    "netTotal":        "net_total",
    "durationMinutes": "duration_minutes",
    "createdAt":       "created_at",
    "receiptNo":       "receipt_no",
}

func (f ListFilter) where() (string, []interface{}) {
    conds := make([]string, 0, 6)
    args := make([]interface{}, 0, 8)
    if f.Search != "" {
        like := "%" + f.Search + "%"
        conds = append(conds,
            `(airline LIKE ? OR flight_number LIKE ? OR registration LIKE ? OR receipt_no LIKE ?)`)
        args = append(args, like, like, like, like)
    }
    if f.FlightType != "" {
        conds = append(conds, `flight_type = ?`)
        args = append(args, f.FlightType)
    }
    if f.Status != "" {
        conds = append(conds, `status = ?`)
        args = append(args, f.Status)
    }
    if f.AdvanceExtend != "" {
        conds = append(conds, `advance_extend = ?`)
        args = append(args, f.AdvanceExtend)
    }
    if f.DateFrom != nil {
        conds = append(conds, `arrival_date >= ?`)
        args = append(args, *f.DateFrom)
    }
    if f.DateTo != nil {
        conds = append(conds, `arrival_date <= ?`)
        args = append(args, *f.DateTo)
    }
    if len(conds) == 0 {
        return "", args
    }
    return " WHERE " + strings.Join(conds, " AND "), args
}

// List returns one page of services matching the filter plus the total
// match count for pagination.
func (r *FlightServiceRepo) List(ctx context.Context, f ListFilter) ([]model.FlightService, int, error) {
    where, args := f.where()

    var total int
    if err := r.db.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM flight_services`+where, args...).Scan(&total); err != nil {
        return nil, 0, err
    }

    col, ok := sortColumns[f.SortField]
    if !ok {
        col = "created_at"
    }
    dir := "ASC"
    if f.SortDesc {
        dir = "DESC"
    }

    page := f.Page
    if page < 1 {
        page = 1
    }
    pageSize := f.PageSize
    if pageSize < 1 {
        pageSize = 20
    }

    q := fmt.Sprintf(`SELECT %s FROM flight_services%s ORDER BY %s %s LIMIT ? OFFSET ?`,
        serviceColumns, where, col, dir)
    rows, err := r.db.QueryContext(ctx, q, append(args, pageSize, (page-1)*pageSize)...)
    if err != nil {
        return nil, 0, err
    }
    defer rows.Close()

    services := make([]model.FlightService, 0, pageSize)
    for rows.Next() {
        s, err := scanService(rows)
        if err != nil {
            return nil, 0, err
        }
        services = append(services, *s)
    }
    if err := rows.Err(); err != nil {
        return nil, 0, err
    }
    return services, total, nil
}

// ListAll returns every service matching the filter ordered by seq_no,
// without pagination. Used by the CSV export.
func (r *FlightServiceRepo) ListAll(ctx context.Context, f ListFilter) ([]model.FlightService, error) {
    where, args := f.where()
    rows, err := r.db.QueryContext(ctx,
        `SELECT `+serviceColumns+` FROM flight_services`+where+` ORDER BY seq_no`, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    var services []model.FlightService
    for rows.Next() {
        s, err := scanService(rows)
        if err != nil {
            return nil, err
        }
        services = append(services, *s)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return services, nil
}

// Update rewrites the editable fields of a service along with its
// recomputed billing breakdown. The receipt number and receipt date are
// deliberately not in the column list: once assigned they are immutable.
func (r *FlightServiceRepo) Update(ctx context.Context, s *model.FlightService) error {
    const q = `UPDATE flight_services SET
            airline = ?, flight_type = ?, flight_number = ?, flight_number_2 = ?,
            registration = ?, aircraft_type = ?, dep_station = ?, arr_station = ?,
            arrival_date = ?, ata_utc = ?, atd_utc = ?, advance_extend = ?,
            service_start_utc = ?, service_end_utc = ?,
            use_app = ?, use_twr = ?, use_afis = ?, currency = ?, exchange_rate = ?,
            duration_minutes = ?, billable_hours = ?, gross_app = ?, gross_twr = ?,
            gross_afis = ?, gross_total = ?, ppn = ?, net_total = ?, pic_dinas = ?
        WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q,
        s.Airline, s.FlightType, s.FlightNumber, s.FlightNumber2,
        s.Registration, s.AircraftType, s.DepStation, s.ArrStation,
        s.ArrivalDate, nullTime(s.ATAUTC), nullTime(s.ATDUTC), s.AdvanceExtend,
        s.ServiceStartUTC, s.ServiceEndUTC,
        s.UseApp, s.UseTwr, s.UseAfis, s.Currency, s.ExchangeRate,
        s.DurationMinutes, s.BillableHours, s.GrossApp, s.GrossTwr,
        s.GrossAfis, s.GrossTotal, s.PPN, s.NetTotal, s.PICDinas,
        s.ID,
    )
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return sql.ErrNoRows
    }
    return nil
}

// Delete removes a service permanently. Settled invoices are audit
// records and refuse deletion with ErrConflict; sql.ErrNoRows is
// returned when the id does not exist.
func (r *FlightServiceRepo) Delete(ctx context.Context, id uint64) error {
    res, err := r.db.ExecContext(ctx,
        `DELETE FROM flight_services WHERE id = ? AND status = ?`, id, model.PaymentUnpaid)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n > 0 {
        return nil
    }
    var exists int
    err = r.db.QueryRowContext(ctx,
        `SELECT 1 FROM flight_services WHERE id = ? LIMIT 1`, id).Scan(&exists)
    if err == sql.ErrNoRows {
        return sql.ErrNoRows
    }
    if err != nil {
        return err
    }
    return ErrConflict
}

// MarkPaid stores the outcome of a payment reconciliation on the
// service row.
func (r *FlightServiceRepo) MarkPaid(ctx context.Context, id uint64, status model.PaymentStatus,
    paidAt time.Time, amountPaid, paymentDifference int64, paymentDays int) error {
    res, err := r.db.ExecContext(ctx,
        `UPDATE flight_services
         SET status = ?, paid_at = ?, amount_paid = ?, payment_difference = ?, payment_days = ?
         WHERE id = ?`,
        status, paidAt, amountPaid, paymentDifference, paymentDays, id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return sql.ErrNoRows
    }
    return nil
}

func nullTime(t *time.Time) interface{} {
    if t == nil {
        return nil
    }
    return t.UTC()
}
