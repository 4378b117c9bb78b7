// Package exchange fetches the USD to IDR reference rate used when billing
// international flights. Rates are cached in Redis for one hour; when both
// the upstream API and the cache are unavailable a conservative fallback
// rate is returned so invoicing never blocks on a third-party outage.
package exchange

import (
    "context"
    "encoding/json"
    "fmt"
    "log"
    "math"
    "net/http"
    "os"
    "strconv"
    "sync/atomic"
    "time"

    "github.com/redis/go-redis/v9"
)

const (
    defaultAPIURL = "https://api.exchangerate-api.com/v4/latest/USD"
    cacheKey      = "fx:usd_idr"
    cacheTTL      = time.Hour

    // FallbackRate is used when no live or cached rate is available.
    FallbackRate int64 = 16000
)

// Client resolves the USD->IDR rate, in whole rupiah per dollar.
type Client struct {
    http   *http.Client
    rdb    *redis.Client // optional; nil disables caching
    apiURL string

    // last successful rate, served when the API fails and the cache is
    // cold. Atomic: one Client is shared across request handlers.
    lastRate atomic.Int64
}

// NewClient builds a Client. rdb may be nil when Redis is not configured.
// The API endpoint can be overridden with EXCHANGE_RATE_API_URL.
func NewClient(rdb *redis.Client) *Client {
    url := os.Getenv("EXCHANGE_RATE_API_URL")
    if url == "" {
        url = defaultAPIURL
    }
    return &Client{
        http:   &http.Client{Timeout: 10 * time.Second},
        rdb:    rdb,
        apiURL: url,
    }
}

// UsdToIdr returns the current USD->IDR rate. Order of preference:
// fresh Redis cache, live API, last known rate, FallbackRate.
func (c *Client) UsdToIdr(ctx context.Context) int64 {
    if rate, ok := c.cached(ctx); ok {
        return rate
    }

    rate, err := c.fetch(ctx)
    if err != nil {
        log.Printf("exchange: fetch failed: %v", err)
        if last := c.lastRate.Load(); last > 0 {
            return last
        }
        return FallbackRate
    }

    c.lastRate.Store(rate)
    c.store(ctx, rate)
    return rate
}

func (c *Client) cached(ctx context.Context) (int64, bool) {
    if c.rdb == nil {
        return 0, false
    }
    val, err := c.rdb.Get(ctx, cacheKey).Result()
    if err != nil {
        return 0, false
    }
    rate, err := strconv.ParseInt(val, 10, 64)
    if err != nil || rate <= 0 {
        return 0, false
    }
    return rate, true
}

func (c *Client) store(ctx context.Context, rate int64) {
    if c.rdb == nil {
        return
    }
    if err := c.rdb.Set(ctx, cacheKey, strconv.FormatInt(rate, 10), cacheTTL).Err(); err != nil {
        log.Printf("exchange: cache store failed: %v", err)
    }
}

func (c *Client) fetch(ctx context.Context) (int64, error) {
    req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL, nil)
    if err != nil {
        return 0, fmt.Errorf("build request: %w", err)
    }
    resp, err := c.http.Do(req)
    if err != nil {
        return 0, fmt.Errorf("do request: %w", err)
    }
    defer resp.Body.Close()

    if resp.StatusCode != http.StatusOK {
        return 0, fmt.Errorf("api responded with %d", resp.StatusCode)
    }

    var payload struct {
        Rates map[string]float64 `json:"rates"`
    }
    if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
        return 0, fmt.Errorf("decode response: %w", err)
    }

    raw, ok := payload.Rates["IDR"]
    if !ok || math.IsNaN(raw) || raw <= 0 {
        return 0, fmt.Errorf("invalid IDR rate in response")
    }
    return int64(math.Round(raw)), nil
}
