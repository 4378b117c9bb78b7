package receipt

import (
    "context"
    "sort"
    "sync"
    "testing"
    "time"

    "github.com/airnavops/flight-billing/internal/model"
)

// memCounterStore is an in-memory CounterStore with the same atomic
// read-increment-write contract the MySQL repository provides.
type memCounterStore struct {
    mu       sync.Mutex
    counters map[Bucket]int
}

func newMemCounterStore() *memCounterStore {
    return &memCounterStore{counters: make(map[Bucket]int)}
}

func (s *memCounterStore) NextSeq(ctx context.Context, b Bucket) (int, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    s.counters[b]++
    return s.counters[b], nil
}

func (s *memCounterStore) LastSeq(ctx context.Context, b Bucket) (int, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    return s.counters[b], nil
}

func TestAllocatorGenerate(t *testing.T) {
    alloc := NewAllocator(newMemCounterStore())
    ref := time.Date(2025, 12, 24, 12, 5, 0, 0, time.UTC)

    first, err := alloc.Generate(context.Background(), ref, model.FlightTypeDomestic)
    if err != nil {
        t.Fatalf("Generate: %v", err)
    }
    if first != "WITT.21.2025.12.0001" {
        t.Errorf("first = %q", first)
    }

    second, err := alloc.Generate(context.Background(), ref, model.FlightTypeDomestic)
    if err != nil {
        t.Fatalf("Generate: %v", err)
    }
    if second != "WITT.21.2025.12.0002" {
        t.Errorf("second = %q", second)
    }

    // A different flight type allocates from its own bucket.
    intl, err := alloc.Generate(context.Background(), ref, model.FlightTypeInternational)
    if err != nil {
        t.Fatalf("Generate: %v", err)
    }
    if intl != "WITT.22.2025.12.0001" {
        t.Errorf("international = %q", intl)
    }
}

// N concurrent allocations in the same bucket must produce exactly the
// sequence values {last+1 .. last+N} with no duplicates and no gaps.
func TestAllocatorConcurrentUniqueness(t *testing.T) {
    store := newMemCounterStore()
    alloc := NewAllocator(store)
    ref := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

    const n = 64
    results := make([]string, n)
    var wg sync.WaitGroup
    wg.Add(n)
    for i := 0; i < n; i++ {
        go func(i int) {
            defer wg.Done()
            no, err := alloc.Generate(context.Background(), ref, model.FlightTypeDomestic)
            if err != nil {
                t.Errorf("Generate: %v", err)
                return
            }
            results[i] = no
        }(i)
    }
    wg.Wait()

    seqs := make([]int, 0, n)
    for _, no := range results {
        p := Parse(no)
        if p == nil {
            t.Fatalf("unparseable receipt number %q", no)
        }
        seqs = append(seqs, p.Sequence)
    }
    sort.Ints(seqs)
    for i, s := range seqs {
        if s != i+1 {
            t.Fatalf("sequence set has gap or duplicate at %d: %v", i, seqs)
        }
    }
}

func TestAllocatorPreviewDoesNotReserve(t *testing.T) {
    alloc := NewAllocator(newMemCounterStore())
    ref := time.Date(2025, 12, 24, 12, 5, 0, 0, time.UTC)

    preview, err := alloc.PreviewNext(context.Background(), ref, model.FlightTypeDomestic)
    if err != nil {
        t.Fatalf("PreviewNext: %v", err)
    }
    if preview != "WITT.21.2025.12.0001" {
        t.Errorf("preview = %q", preview)
    }

    // Previewing again still shows the same number; nothing was consumed.
    again, _ := alloc.PreviewNext(context.Background(), ref, model.FlightTypeDomestic)
    if again != preview {
        t.Errorf("second preview = %q, want %q", again, preview)
    }

    // The first real allocation claims the previewed value.
    got, err := alloc.Generate(context.Background(), ref, model.FlightTypeDomestic)
    if err != nil {
        t.Fatalf("Generate: %v", err)
    }
    if got != preview {
        t.Errorf("allocated %q, previewed %q", got, preview)
    }
}
