package receipt

import (
    "context"
    "time"

    "github.com/airnavops/flight-billing/internal/model"
)

// CounterStore is the persistence contract the allocator depends on.
// NextSeq must perform an atomic read-increment-write: two concurrent
// calls for the same bucket must never return the same value. LastSeq
// is a plain read and returns 0 when the bucket has no counter yet.
// The MySQL implementation lives in internal/repository.
type CounterStore interface {
    NextSeq(ctx context.Context, b Bucket) (int, error)
    LastSeq(ctx context.Context, b Bucket) (int, error)
}

// Allocator issues receipt numbers backed by a CounterStore. It makes
// a single attempt per call; retrying after a store conflict is the
// caller's decision.
type Allocator struct {
    store CounterStore
}

// NewAllocator returns an Allocator backed by the given store.
func NewAllocator(store CounterStore) *Allocator {
    return &Allocator{store: store}
}

// Generate allocates the next sequence number in the bucket derived
// from the reference instant and flight type, and returns the formatted
// receipt number. On error no sequence number has been consumed.
func (a *Allocator) Generate(ctx context.Context, referenceUTC time.Time, ft model.FlightType) (string, error) {
    b := BucketFor(referenceUTC, ft)
    seq, err := a.store.NextSeq(ctx, b)
    if err != nil {
        return "", err
    }
    return Format(b, seq), nil
}

// PreviewNext returns the receipt number the next allocation in the
// bucket would produce, without reserving it. The result is for display
// only: a concurrent allocation can claim the previewed value at any
// moment.
func (a *Allocator) PreviewNext(ctx context.Context, referenceUTC time.Time, ft model.FlightType) (string, error) {
    b := BucketFor(referenceUTC, ft)
    last, err := a.store.LastSeq(ctx, b)
    if err != nil {
        return "", err
    }
    return Format(b, last+1), nil
}
