package main // Entry point package

import (
    "log" // Logging library

    "github.com/joho/godotenv"    // Load .env files in development
    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/airnavops/flight-billing/internal/config"
    "github.com/airnavops/flight-billing/internal/database"
    "github.com/airnavops/flight-billing/internal/exchange"
    "github.com/airnavops/flight-billing/internal/handler"
    "github.com/airnavops/flight-billing/internal/middleware"
    "github.com/airnavops/flight-billing/internal/queue"
    "github.com/airnavops/flight-billing/internal/repository"
    "github.com/airnavops/flight-billing/internal/router"
)

func main() {
    // A missing .env is fine in production where the environment is real.
    _ = godotenv.Load()

    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database: %v", err)
    }
    defer db.Close()

    // Redis backs the response cache, the rate limiter and the exchange
    // rate cache. All three degrade gracefully when it is absent.
    rdb := config.NewRedisClient()

    users := repository.NewUserRepo(db)
    tokens := repository.NewTokenRepo(db)
    services := repository.NewFlightServiceRepo(db)
    counters := repository.NewReceiptCounterRepo(db)
    stats := repository.NewStatsRepo(db)

    fx := exchange.NewClient(rdb)

    authH := handler.NewAuthHandler(cfg, users, tokens)
    serviceH := handler.NewServiceHandler(services, counters, fx)
    paymentH := handler.NewPaymentHandler(services)
    exportH := handler.NewExportHandler(services)
    dashH := handler.NewDashboardHandler(stats, services)
    userH := handler.NewUserHandler(cfg, users)
    fxH := handler.NewExchangeHandler(fx)

    e := echo.New()
    e.HideBanner = true

    // Rate limit everything; cached GETs are additionally served from
    // Redis without touching MySQL.
    e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
    cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

    router.RegisterRoutes(e)

    protected := e.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
    router.RegisterAuth(e, authH, protected)
    router.RegisterServices(protected, serviceH, paymentH, exportH, cacheMW)
    router.RegisterDashboard(protected, dashH, cacheMW)
    router.RegisterExchange(protected, fxH)
    router.RegisterAdmin(protected, userH)

    // Audit trail consumer; runs its own reconnect loop for the broker.
    go func() {
        if err := queue.StartAuditConsumer(); err != nil {
            log.Printf("audit consumer stopped: %v", err)
        }
    }()

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)

    if err := e.Start(addr); err != nil {
        log.Fatal(err)
    }
}
