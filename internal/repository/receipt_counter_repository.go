package repository

import (
    "context"
    "database/sql"

    "github.com/airnavops/flight-billing/internal/receipt"
)

// ReceiptCounterRepo provides the atomic sequence allocation backing
// receipt numbering. Each (year, month, code) bucket owns one row in
// receipt_counters with a UNIQUE key over the triple.
//
// The increment is a single INSERT ... ON DUPLICATE KEY UPDATE using
// LAST_INSERT_ID(expr), which makes MySQL both bump the counter and
// report the post-increment value under the row lock of that one
// statement. Concurrent allocations for the same bucket serialize on
// the row lock and can never observe the same value; a failed statement
// consumes nothing. A plain read-then-write would race and is not used
// anywhere in this repository.
type ReceiptCounterRepo struct {
    db *sql.DB
}

// NewReceiptCounterRepo returns a ReceiptCounterRepo bound to the given database.
func NewReceiptCounterRepo(db *sql.DB) *ReceiptCounterRepo { return &ReceiptCounterRepo{db: db} }

const nextSeqStmt = `INSERT INTO receipt_counters (year, month, code, last_seq)
        VALUES (?, ?, ?, LAST_INSERT_ID(1))
        ON DUPLICATE KEY UPDATE last_seq = LAST_INSERT_ID(last_seq + 1)`

// NextSeq atomically increments the bucket's counter (creating it at 1
// when absent) and returns the newly issued sequence value. It runs in
// its own implicit transaction; use NextSeqTx when the allocation must
// commit together with the service record.
func (r *ReceiptCounterRepo) NextSeq(ctx context.Context, b receipt.Bucket) (int, error) {
    res, err := r.db.ExecContext(ctx, nextSeqStmt, b.Year, b.Month, b.Code)
    if err != nil {
        return 0, err
    }
    seq, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return int(seq), nil
}

// NextSeqTx is NextSeq inside an existing transaction. Allocating the
// sequence and inserting the flight service in the same transaction
// means a crash or rollback between the two steps cannot leave a
// consumed sequence number with no receipt behind it.
func (r *ReceiptCounterRepo) NextSeqTx(ctx context.Context, tx *sql.Tx, b receipt.Bucket) (int, error) {
    res, err := tx.ExecContext(ctx, nextSeqStmt, b.Year, b.Month, b.Code)
    if err != nil {
        return 0, err
    }
    seq, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return int(seq), nil
}

// LastSeq returns the bucket's current counter value, or 0 when no
// allocation has happened yet. This is a plain read used only for
// previews; it reserves nothing.
func (r *ReceiptCounterRepo) LastSeq(ctx context.Context, b receipt.Bucket) (int, error) {
    var last int
    err := r.db.QueryRowContext(ctx,
        `SELECT last_seq FROM receipt_counters WHERE year = ? AND month = ? AND code = ? LIMIT 1`,
        b.Year, b.Month, b.Code).Scan(&last)
    if err == sql.ErrNoRows {
        return 0, nil
    }
    if err != nil {
        return 0, err
    }
    return last, nil
}
