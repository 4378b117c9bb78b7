package handler

import (
    "context"
    "database/sql"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/airnavops/flight-billing/internal/billing"
    "github.com/airnavops/flight-billing/internal/exchange"
    "github.com/airnavops/flight-billing/internal/model"
    "github.com/airnavops/flight-billing/internal/queue"
    "github.com/airnavops/flight-billing/internal/receipt"
    "github.com/airnavops/flight-billing/internal/repository"
    queue_publisher "github.com/airnavops/flight-billing/internal/service"
)

// ServiceHandler bundles dependencies for flight service endpoints.
type ServiceHandler struct {
    Services *repository.FlightServiceRepo
    Counters *repository.ReceiptCounterRepo
    FX       *exchange.Client
}

func NewServiceHandler(s *repository.FlightServiceRepo, c *repository.ReceiptCounterRepo, fx *exchange.Client) *ServiceHandler {
    return &ServiceHandler{Services: s, Counters: c, FX: fx}
}

// ----- DTOs -----

type serviceReq struct {
    Airline         string  `json:"airline"`
    FlightType      string  `json:"flightType"`
    FlightNumber    string  `json:"flightNumber"`
    FlightNumber2   *string `json:"flightNumber2"`
    Registration    string  `json:"registration"`
    AircraftType    string  `json:"aircraftType"`
    DepStation      string  `json:"depStation"`
    ArrStation      string  `json:"arrStation"`
    ArrivalDate     string  `json:"arrivalDate"`
    ATAUTC          *string `json:"ataUtc"`
    ATDUTC          *string `json:"atdUtc"`
    AdvanceExtend   string  `json:"advanceExtend"`
    ServiceStartUTC string  `json:"serviceStartUtc"`
    ServiceEndUTC   string  `json:"serviceEndUtc"`
    UseApp          bool    `json:"useApp"`
    UseTwr          bool    `json:"useTwr"`
    UseAfis         bool    `json:"useAfis"`
    ExchangeRate    *int64  `json:"exchangeRate"`
    PICDinas        *string `json:"picDinas"`
}

type serviceResp struct {
    ID                uint64     `json:"id"`
    SeqNo             uint64     `json:"seqNo"`
    Airline           string     `json:"airline"`
    FlightType        string     `json:"flightType"`
    FlightNumber      string     `json:"flightNumber"`
    FlightNumber2     *string    `json:"flightNumber2"`
    Registration      string     `json:"registration"`
    AircraftType      string     `json:"aircraftType"`
    DepStation        string     `json:"depStation"`
    ArrStation        string     `json:"arrStation"`
    ArrivalDate       string     `json:"arrivalDate"`
    ATAUTC            *time.Time `json:"ataUtc"`
    ATDUTC            *time.Time `json:"atdUtc"`
    AdvanceExtend     string     `json:"advanceExtend"`
    ServiceStartUTC   time.Time  `json:"serviceStartUtc"`
    ServiceEndUTC     time.Time  `json:"serviceEndUtc"`
    UseApp            bool       `json:"useApp"`
    UseTwr            bool       `json:"useTwr"`
    UseAfis           bool       `json:"useAfis"`
    Currency          string     `json:"currency"`
    ExchangeRate      *int64     `json:"exchangeRate"`
    DurationMinutes   int        `json:"durationMinutes"`
    BillableHours     int        `json:"billableHours"`
    GrossApp          int64      `json:"grossApp"`
    GrossTwr          int64      `json:"grossTwr"`
    GrossAfis         int64      `json:"grossAfis"`
    GrossTotal        int64      `json:"grossTotal"`
    PPN               int64      `json:"ppn"`
    NetTotal          int64      `json:"netTotal"`
    ReceiptNo         string     `json:"receiptNo"`
    ReceiptDate       string     `json:"receiptDate"`
    Status            string     `json:"status"`
    PaidAt            *time.Time `json:"paidAt"`
    AmountPaid        *int64     `json:"amountPaid"`
    PaymentDifference *int64     `json:"paymentDifference"`
    PaymentDays       *int       `json:"paymentDays"`
    PICDinas          *string    `json:"picDinas"`
    CreatedAt         time.Time  `json:"createdAt"`
    UpdatedAt         time.Time  `json:"updatedAt"`
}

func toServiceResp(s *model.FlightService) serviceResp {
    return serviceResp{
        ID:                s.ID,
        SeqNo:             s.SeqNo,
        Airline:           s.Airline,
        FlightType:        string(s.FlightType),
        FlightNumber:      s.FlightNumber,
        FlightNumber2:     s.FlightNumber2,
        Registration:      s.Registration,
        AircraftType:      s.AircraftType,
        DepStation:        s.DepStation,
        ArrStation:        s.ArrStation,
        ArrivalDate:       s.ArrivalDate.UTC().Format("2006-01-02"),
        ATAUTC:            s.ATAUTC,
        ATDUTC:            s.ATDUTC,
        AdvanceExtend:     string(s.AdvanceExtend),
        ServiceStartUTC:   s.ServiceStartUTC,
        ServiceEndUTC:     s.ServiceEndUTC,
        UseApp:            s.UseApp,
        UseTwr:            s.UseTwr,
        UseAfis:           s.UseAfis,
        Currency:          string(s.Currency),
        ExchangeRate:      s.ExchangeRate,
        DurationMinutes:   s.DurationMinutes,
        BillableHours:     s.BillableHours,
        GrossApp:          s.GrossApp,
        GrossTwr:          s.GrossTwr,
        GrossAfis:         s.GrossAfis,
        GrossTotal:        s.GrossTotal,
        PPN:               s.PPN,
        NetTotal:          s.NetTotal,
        ReceiptNo:         s.ReceiptNo,
        ReceiptDate:       s.ReceiptDate.UTC().Format("2006-01-02"),
        Status:            string(s.Status),
        PaidAt:            s.PaidAt,
        AmountPaid:        s.AmountPaid,
        PaymentDifference: s.PaymentDifference,
        PaymentDays:       s.PaymentDays,
        PICDinas:          s.PICDinas,
        CreatedAt:         s.CreatedAt,
        UpdatedAt:         s.UpdatedAt,
    }
}

// parseInstant accepts RFC3339 timestamps and normalizes them to UTC.
func parseInstant(value string) (time.Time, error) {
    t, err := time.Parse(time.RFC3339, strings.TrimSpace(value))
    if err != nil {
        return time.Time{}, err
    }
    return t.UTC(), nil
}

// parseDay accepts either a bare calendar date or a full RFC3339
// timestamp and returns the UTC day.
func parseDay(value string) (time.Time, error) {
    value = strings.TrimSpace(value)
    if t, err := time.Parse("2006-01-02", value); err == nil {
        return t, nil
    }
    t, err := time.Parse(time.RFC3339, value)
    if err != nil {
        return time.Time{}, err
    }
    t = t.UTC()
    return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// validate folds the request into a model record, deriving nothing yet.
// Billing fields and the receipt number are filled in by the caller.
func (req *serviceReq) validate() (*model.FlightService, string) {
    req.Airline = strings.TrimSpace(req.Airline)
    req.FlightNumber = strings.TrimSpace(req.FlightNumber)
    req.Registration = strings.TrimSpace(req.Registration)
    req.AircraftType = strings.TrimSpace(req.AircraftType)
    req.DepStation = strings.TrimSpace(req.DepStation)
    req.ArrStation = strings.TrimSpace(req.ArrStation)

    if req.Airline == "" || req.FlightNumber == "" || req.Registration == "" ||
        req.AircraftType == "" || req.DepStation == "" || req.ArrStation == "" {
        return nil, "airline, flightNumber, registration, aircraftType, depStation and arrStation are required"
    }

    ft := model.FlightType(strings.ToUpper(strings.TrimSpace(req.FlightType)))
    if ft != model.FlightTypeDomestic && ft != model.FlightTypeInternational {
        return nil, "flightType must be DOM or INT"
    }
    ae := model.AdvanceExtend(strings.ToUpper(strings.TrimSpace(req.AdvanceExtend)))
    if ae != model.ServiceAdvance && ae != model.ServiceExtend {
        return nil, "advanceExtend must be ADVANCE or EXTEND"
    }
    if !req.UseApp && !req.UseTwr && !req.UseAfis {
        return nil, "at least one unit (APP, TWR or AFIS) must be selected"
    }
    if req.ATAUTC == nil && req.ATDUTC == nil {
        return nil, "either ataUtc or atdUtc must be provided"
    }

    arrivalDate, err := parseDay(req.ArrivalDate)
    if err != nil {
        return nil, "arrivalDate must be a date (YYYY-MM-DD) or RFC3339 timestamp"
    }
    start, err := parseInstant(req.ServiceStartUTC)
    if err != nil {
        return nil, "serviceStartUtc must be an RFC3339 timestamp"
    }
    end, err := parseInstant(req.ServiceEndUTC)
    if err != nil {
        return nil, "serviceEndUtc must be an RFC3339 timestamp"
    }
    // A window that appears to end before it starts crossed midnight.
    end = billing.ResolveRollover(start, end)
    if !end.After(start) {
        return nil, "serviceEndUtc must be after serviceStartUtc"
    }

    var ata, atd *time.Time
    if req.ATAUTC != nil && strings.TrimSpace(*req.ATAUTC) != "" {
        t, err := parseInstant(*req.ATAUTC)
        if err != nil {
            return nil, "ataUtc must be an RFC3339 timestamp"
        }
        ata = &t
    }
    if req.ATDUTC != nil && strings.TrimSpace(*req.ATDUTC) != "" {
        t, err := parseInstant(*req.ATDUTC)
        if err != nil {
            return nil, "atdUtc must be an RFC3339 timestamp"
        }
        atd = &t
    }
    if ata == nil && atd == nil {
        return nil, "either ataUtc or atdUtc must be provided"
    }
    if req.ExchangeRate != nil && *req.ExchangeRate <= 0 {
        return nil, "exchangeRate must be a positive integer"
    }

    s := &model.FlightService{
        Airline:         req.Airline,
        FlightType:      ft,
        FlightNumber:    req.FlightNumber,
        FlightNumber2:   req.FlightNumber2,
        Registration:    req.Registration,
        AircraftType:    req.AircraftType,
        DepStation:      req.DepStation,
        ArrStation:      req.ArrStation,
        ArrivalDate:     arrivalDate,
        ATAUTC:          ata,
        ATDUTC:          atd,
        AdvanceExtend:   ae,
        ServiceStartUTC: start,
        ServiceEndUTC:   end,
        UseApp:          req.UseApp,
        UseTwr:          req.UseTwr,
        UseAfis:         req.UseAfis,
        Currency:        model.CurrencyFor(ft),
        ExchangeRate:    req.ExchangeRate,
        PICDinas:        req.PICDinas,
        Status:          model.PaymentUnpaid,
    }
    return s, ""
}

// applyBilling recomputes every derived billing field on the record.
func applyBilling(s *model.FlightService) {
    res := billing.Calculate(billing.Input{
        ServiceStartUTC: s.ServiceStartUTC,
        ServiceEndUTC:   s.ServiceEndUTC,
        UseApp:          s.UseApp,
        UseTwr:          s.UseTwr,
        UseAfis:         s.UseAfis,
    })
    s.DurationMinutes = res.DurationMinutes
    s.BillableHours = res.BillableHours
    s.GrossApp = res.GrossApp
    s.GrossTwr = res.GrossTwr
    s.GrossAfis = res.GrossAfis
    s.GrossTotal = res.GrossTotal
    s.PPN = res.PPN
    s.NetTotal = res.NetTotal
}

// Create validates the request, computes the billing breakdown, and
// persists the service together with its receipt number in a single
// transaction, so a failed insert can never burn a sequence number.
func (h *ServiceHandler) Create(c echo.Context) error {
    var req serviceReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    s, msg := req.validate()
    if msg != "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
    defer cancel()

    // International services bill in USD; record the day's USD->IDR
    // reference rate when the caller did not supply one.
    if s.Currency == model.CurrencyUSD && s.ExchangeRate == nil {
        rate := h.FX.UsdToIdr(ctx)
        s.ExchangeRate = &rate
    }
    if s.Currency == model.CurrencyIDR {
        s.ExchangeRate = nil
    }

    applyBilling(s)

    ref, ok := s.ReferenceTime()
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "either ataUtc or atdUtc must be provided"})
    }
    bucket := receipt.BucketFor(ref, s.FlightType)
    s.ReceiptDate = receipt.DateWIB(ref)

    tx, err := h.Services.DB().BeginTx(ctx, nil)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "begin transaction failed"})
    }
    defer func() { _ = tx.Rollback() }()

    seq, err := h.Counters.NextSeqTx(ctx, tx, bucket)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "allocate receipt number failed"})
    }
    s.ReceiptNo = receipt.Format(bucket, seq)

    if err := h.Services.CreateTx(ctx, tx, s); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create service failed"})
    }
    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
    }

    go func(ev queue.ReceiptIssuedEvent) {
        _ = queue_publisher.PublishReceiptIssued(context.Background(), ev)
    }(queue.ReceiptIssuedEvent{
        ServiceID:     s.ID,
        SeqNo:         s.SeqNo,
        ReceiptNo:     s.ReceiptNo,
        Airline:       s.Airline,
        FlightType:    string(s.FlightType),
        FlightNumber:  s.FlightNumber,
        Registration:  s.Registration,
        Currency:      string(s.Currency),
        GrossTotal:    s.GrossTotal,
        PPN:           s.PPN,
        NetTotal:      s.NetTotal,
        BillableHours: s.BillableHours,
        IssuedAt:      time.Now().UTC().Format(time.RFC3339),
    })

    return c.JSON(http.StatusCreated, toServiceResp(s))
}

// listResp wraps one page of services with pagination metadata.
type listResp struct {
    Data       []serviceResp `json:"data"`
    Pagination struct {
        Page       int `json:"page"`
        PageSize   int `json:"pageSize"`
        Total      int `json:"total"`
        TotalPages int `json:"totalPages"`
    } `json:"pagination"`
}

func listFilterFromQuery(c echo.Context) repository.ListFilter {
    f := repository.ListFilter{
        Search:        strings.TrimSpace(c.QueryParam("search")),
        FlightType:    model.FlightType(strings.ToUpper(c.QueryParam("flightType"))),
        Status:        model.PaymentStatus(strings.ToUpper(c.QueryParam("status"))),
        AdvanceExtend: model.AdvanceExtend(strings.ToUpper(c.QueryParam("advanceExtend"))),
        SortField:     c.QueryParam("sortField"),
        SortDesc:      strings.ToLower(c.QueryParam("sortDir")) != "asc",
    }
    if v := c.QueryParam("dateFrom"); v != "" {
        if t, err := parseDay(v); err == nil {
            f.DateFrom = &t
        }
    }
    if v := c.QueryParam("dateTo"); v != "" {
        if t, err := parseDay(v); err == nil {
            f.DateTo = &t
        }
    }
    f.Page, _ = strconv.Atoi(c.QueryParam("page"))
    if f.Page < 1 {
        f.Page = 1
    }
    f.PageSize, _ = strconv.Atoi(c.QueryParam("pageSize"))
    if f.PageSize < 1 || f.PageSize > 200 {
        f.PageSize = 20
    }
    return f
}

// List returns one page of services with filtering and sorting.
func (h *ServiceHandler) List(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
    defer cancel()

    f := listFilterFromQuery(c)
    services, total, err := h.Services.List(ctx, f)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list services failed"})
    }

    resp := listResp{Data: make([]serviceResp, 0, len(services))}
    for i := range services {
        resp.Data = append(resp.Data, toServiceResp(&services[i]))
    }
    resp.Pagination.Page = f.Page
    resp.Pagination.PageSize = f.PageSize
    resp.Pagination.Total = total
    resp.Pagination.TotalPages = (total + f.PageSize - 1) / f.PageSize
    return c.JSON(http.StatusOK, resp)
}

// Get returns a single service by id.
func (h *ServiceHandler) Get(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    s, err := h.Services.GetByID(ctx, id)
    if err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "service not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, toServiceResp(s))
}

// Update rewrites the editable fields of an unsettled service and
// recomputes its billing breakdown. The receipt number and receipt date
// never change, and settled invoices are immutable.
func (h *ServiceHandler) Update(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req serviceReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    s, msg := req.validate()
    if msg != "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
    defer cancel()

    existing, err := h.Services.GetByID(ctx, id)
    if err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "service not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    if existing.Status != model.PaymentUnpaid {
        return c.JSON(http.StatusConflict, echo.Map{"error": "settled invoices cannot be edited"})
    }

    if s.Currency == model.CurrencyUSD && s.ExchangeRate == nil {
        // keep the rate recorded at creation when the caller omits it
        if existing.ExchangeRate != nil {
            s.ExchangeRate = existing.ExchangeRate
        } else {
            rate := h.FX.UsdToIdr(ctx)
            s.ExchangeRate = &rate
        }
    }
    if s.Currency == model.CurrencyIDR {
        s.ExchangeRate = nil
    }

    applyBilling(s)
    s.ID = existing.ID

    if err := h.Services.Update(ctx, s); err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "service not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
    }

    updated, err := h.Services.GetByID(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, toServiceResp(updated))
}

// Delete removes an unpaid service. Settled invoices are audit records
// and refuse deletion.
func (h *ServiceHandler) Delete(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    switch err := h.Services.Delete(ctx, id); err {
    case nil:
        return c.NoContent(http.StatusNoContent)
    case sql.ErrNoRows:
        return c.JSON(http.StatusNotFound, echo.Map{"error": "service not found"})
    case repository.ErrConflict:
        return c.JSON(http.StatusConflict, echo.Map{"error": "settled invoices cannot be deleted"})
    default:
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
    }
}

// NextReceipt previews the receipt number the next service of the given
// flight type would get, without reserving it. Concurrent writers may
// take the previewed number first.
func (h *ServiceHandler) NextReceipt(c echo.Context) error {
    ft := model.FlightType(strings.ToUpper(c.QueryParam("flightType")))
    if ft != model.FlightTypeDomestic && ft != model.FlightTypeInternational {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "flightType must be DOM or INT"})
    }
    ref := time.Now().UTC()
    if v := c.QueryParam("reference"); v != "" {
        t, err := parseInstant(v)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "reference must be an RFC3339 timestamp"})
        }
        ref = t
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    next, err := receipt.NewAllocator(h.Counters).PreviewNext(ctx, ref, ft)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "preview failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"receiptNo": next})
}
