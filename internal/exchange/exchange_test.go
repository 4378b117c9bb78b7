package exchange

import (
    "context"
    "net/http"
    "net/http/httptest"
    "sync"
    "sync/atomic"
    "testing"
)

func TestUsdToIdrFromAPI(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        w.Header().Set("Content-Type", "application/json")
        _, _ = w.Write([]byte(`{"base":"USD","rates":{"IDR":16234.56,"EUR":0.92}}`))
    }))
    defer srv.Close()

    c := NewClient(nil)
    c.apiURL = srv.URL

    got := c.UsdToIdr(context.Background())
    if got != 16235 {
        t.Fatalf("expected rounded rate 16235, got %d", got)
    }
}

func TestUsdToIdrFallbackWhenAPIDown(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        w.WriteHeader(http.StatusInternalServerError)
    }))
    defer srv.Close()

    c := NewClient(nil)
    c.apiURL = srv.URL

    if got := c.UsdToIdr(context.Background()); got != FallbackRate {
        t.Fatalf("expected fallback rate %d, got %d", FallbackRate, got)
    }
}

func TestUsdToIdrRemembersLastRate(t *testing.T) {
    healthy := true
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if !healthy {
            w.WriteHeader(http.StatusBadGateway)
            return
        }
        _, _ = w.Write([]byte(`{"rates":{"IDR":15900}}`))
    }))
    defer srv.Close()

    c := NewClient(nil)
    c.apiURL = srv.URL

    if got := c.UsdToIdr(context.Background()); got != 15900 {
        t.Fatalf("expected 15900, got %d", got)
    }

    healthy = false
    if got := c.UsdToIdr(context.Background()); got != 15900 {
        t.Fatalf("expected last known rate 15900 after outage, got %d", got)
    }
}

// One Client is shared by every request handler, so the last known rate
// must hold up under concurrent lookups. Alternating successes and
// failures exercises both the write and the fallback read; run with
// -race.
func TestUsdToIdrConcurrent(t *testing.T) {
    var hits atomic.Int64
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if hits.Add(1)%2 == 0 {
            w.WriteHeader(http.StatusBadGateway)
            return
        }
        _, _ = w.Write([]byte(`{"rates":{"IDR":15700}}`))
    }))
    defer srv.Close()

    c := NewClient(nil)
    c.apiURL = srv.URL

    var wg sync.WaitGroup
    for i := 0; i < 8; i++ {
        wg.Add(1)
        go func() {
            defer wg.Done()
            for j := 0; j < 10; j++ {
                got := c.UsdToIdr(context.Background())
                if got != 15700 && got != FallbackRate {
                    t.Errorf("unexpected rate %d", got)
                    return
                }
            }
        }()
    }
    wg.Wait()
}
