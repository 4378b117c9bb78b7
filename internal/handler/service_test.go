package handler

import (
    "strings"
    "testing"
    "time"

    "github.com/airnavops/flight-billing/internal/model"
)

func strPtr(s string) *string { return &s }

func validReq() serviceReq {
    return serviceReq{
        Airline:         "Garuda Indonesia",
        FlightType:      "DOM",
        FlightNumber:    "GA146",
        Registration:    "PK-GMA",
        AircraftType:    "B738",
        DepStation:      "WIII",
        ArrStation:      "WITT",
        ArrivalDate:     "2025-03-10",
        ATAUTC:          strPtr("2025-03-10T02:15:00Z"),
        AdvanceExtend:   "EXTEND",
        ServiceStartUTC: "2025-03-10T02:00:00Z",
        ServiceEndUTC:   "2025-03-10T02:30:00Z",
        UseApp:          true,
        UseTwr:          true,
    }
}

func TestValidateAcceptsCompleteRequest(t *testing.T) {
    req := validReq()
    s, msg := req.validate()
    if msg != "" {
        t.Fatalf("unexpected validation error: %s", msg)
    }
    if s.FlightType != model.FlightTypeDomestic {
        t.Fatalf("expected DOM, got %s", s.FlightType)
    }
    if s.Currency != model.CurrencyIDR {
        t.Fatalf("domestic service must bill in IDR, got %s", s.Currency)
    }
    if s.Status != model.PaymentUnpaid {
        t.Fatalf("new services must start UNPAID, got %s", s.Status)
    }
    if s.ATAUTC == nil || !s.ATAUTC.Equal(time.Date(2025, 3, 10, 2, 15, 0, 0, time.UTC)) {
        t.Fatalf("ATA not parsed: %v", s.ATAUTC)
    }
}

func TestValidateRejectsMissingUnits(t *testing.T) {
    req := validReq()
    req.UseApp = false
    req.UseTwr = false
    req.UseAfis = false
    if _, msg := req.validate(); !strings.Contains(msg, "at least one unit") {
        t.Fatalf("expected unit selection error, got %q", msg)
    }
}

func TestValidateRejectsMissingReferenceTime(t *testing.T) {
    req := validReq()
    req.ATAUTC = nil
    req.ATDUTC = nil
    if _, msg := req.validate(); !strings.Contains(msg, "ataUtc or atdUtc") {
        t.Fatalf("expected reference time error, got %q", msg)
    }
}

func TestValidateRejectsUnknownFlightType(t *testing.T) {
    req := validReq()
    req.FlightType = "CARGO"
    if _, msg := req.validate(); !strings.Contains(msg, "DOM or INT") {
        t.Fatalf("expected flight type error, got %q", msg)
    }
}

func TestValidateResolvesMidnightRollover(t *testing.T) {
    req := validReq()
    req.ServiceStartUTC = "2025-03-10T23:30:00Z"
    req.ServiceEndUTC = "2025-03-10T00:45:00Z" // next day, recorded without the date advancing

    s, msg := req.validate()
    if msg != "" {
        t.Fatalf("unexpected validation error: %s", msg)
    }
    want := time.Date(2025, 3, 11, 0, 45, 0, 0, time.UTC)
    if !s.ServiceEndUTC.Equal(want) {
        t.Fatalf("rollover not applied: got %v, want %v", s.ServiceEndUTC, want)
    }
    if s.ServiceEndUTC.Sub(s.ServiceStartUTC) != 75*time.Minute {
        t.Fatalf("window after rollover should be 75 minutes, got %v", s.ServiceEndUTC.Sub(s.ServiceStartUTC))
    }
}

func TestValidateRejectsEqualStartAndEnd(t *testing.T) {
    req := validReq()
    req.ServiceStartUTC = "2025-03-10T02:00:00Z"
    req.ServiceEndUTC = "2025-03-10T02:00:00Z"
    if _, msg := req.validate(); !strings.Contains(msg, "after") {
        t.Fatalf("expected end-after-start error, got %q", msg)
    }
}

func TestValidateInternationalBillsUSD(t *testing.T) {
    req := validReq()
    req.FlightType = "INT"
    s, msg := req.validate()
    if msg != "" {
        t.Fatalf("unexpected validation error: %s", msg)
    }
    if s.Currency != model.CurrencyUSD {
        t.Fatalf("international service must bill in USD, got %s", s.Currency)
    }
}

func TestValidateRejectsNonPositiveExchangeRate(t *testing.T) {
    req := validReq()
    req.FlightType = "INT"
    bad := int64(0)
    req.ExchangeRate = &bad
    if _, msg := req.validate(); !strings.Contains(msg, "exchangeRate") {
        t.Fatalf("expected exchange rate error, got %q", msg)
    }
}

func TestApplyBillingFillsEveryDerivedField(t *testing.T) {
    req := validReq()
    s, msg := req.validate()
    if msg != "" {
        t.Fatalf("unexpected validation error: %s", msg)
    }
    applyBilling(s)

    // 30 minutes -> 1 billable hour of APP+TWR.
    if s.DurationMinutes != 30 || s.BillableHours != 1 {
        t.Fatalf("duration/hours = %d/%d, want 30/1", s.DurationMinutes, s.BillableHours)
    }
    if s.GrossTotal != s.GrossApp+s.GrossTwr+s.GrossAfis {
        t.Fatalf("gross total %d does not equal sum of units", s.GrossTotal)
    }
    if s.NetTotal != s.GrossTotal+s.PPN {
        t.Fatalf("net total %d does not equal gross+ppn", s.NetTotal)
    }
    if s.GrossAfis != 0 {
        t.Fatalf("AFIS was not used but grossed %d", s.GrossAfis)
    }
}
