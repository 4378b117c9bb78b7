package handler

import (
    "testing"
    "time"

    "github.com/airnavops/flight-billing/internal/model"
)

func sampleService() *model.FlightService {
    ata := time.Date(2025, 1, 31, 17, 30, 0, 0, time.UTC) // 2025-02-01 00:30 WIB
    paid := time.Date(2025, 2, 3, 5, 0, 0, 0, time.UTC)
    amount := int64(1565200)
    return &model.FlightService{
        ID: 1, SeqNo: 7,
        Airline:         "Garuda Indonesia",
        FlightType:      model.FlightTypeDomestic,
        FlightNumber:    "GA146",
        Registration:    "PK-GMA",
        AircraftType:    "B738",
        DepStation:      "WIII",
        ArrStation:      "WITT",
        ArrivalDate:     time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
        ATAUTC:          &ata,
        AdvanceExtend:   model.ServiceExtend,
        ServiceStartUTC: time.Date(2025, 1, 31, 17, 0, 0, 0, time.UTC),
        ServiceEndUTC:   time.Date(2025, 1, 31, 17, 30, 0, 0, time.UTC),
        UseApp:          true, UseTwr: true,
        Currency:        model.CurrencyIDR,
        DurationMinutes: 30, BillableHours: 1,
        GrossApp: 822000, GrossTwr: 575500,
        GrossTotal: 1397500, PPN: 167700, NetTotal: 1565200,
        ReceiptNo:   "WITT.21.2025.02.0007",
        ReceiptDate: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
        Status:      model.PaymentPaid,
        PaidAt:      &paid,
        AmountPaid:  &amount,
    }
}

func TestOutputRowConvertsClocksToWIB(t *testing.T) {
    row := outputRow(sampleService())
    if len(row) != len(outputHeader) {
        t.Fatalf("row has %d cells, header has %d", len(row), len(outputHeader))
    }
    cell := func(name string) string {
        for i, h := range outputHeader {
            if h == name {
                return row[i]
            }
        }
        t.Fatalf("no column %q", name)
        return ""
    }

    if got := cell("receipt_no"); got != "WITT.21.2025.02.0007" {
        t.Fatalf("receipt_no = %q", got)
    }
    // 17:30 UTC is 00:30 the next day in WIB.
    if got := cell("ata_wib"); got != "00:30:00" {
        t.Fatalf("ata_wib = %q, want 00:30:00", got)
    }
    if got := cell("ata_utc"); got != "17:30:00" {
        t.Fatalf("ata_utc = %q, want 17:30:00", got)
    }
    if got := cell("net_total"); got != "1565200" {
        t.Fatalf("net_total = %q", got)
    }
    if got := cell("paid_at"); got != "2025-02-03 12:00:00" {
        t.Fatalf("paid_at = %q, want WIB timestamp", got)
    }
}

func TestInputRowIsReimportable(t *testing.T) {
    s := sampleService()
    row := inputRow(s)
    if len(row) != len(inputHeader) {
        t.Fatalf("row has %d cells, header has %d", len(row), len(inputHeader))
    }
    cell := func(name string) string {
        for i, h := range inputHeader {
            if h == name {
                return row[i]
            }
        }
        t.Fatalf("no column %q", name)
        return ""
    }

    if got := cell("ata_utc"); got != "17:30:00" {
        t.Fatalf("ata_utc = %q", got)
    }
    if got := cell("atd_utc"); got != "" {
        t.Fatalf("atd_utc should be empty, got %q", got)
    }
    if got := cell("unit_app"); got != "1" {
        t.Fatalf("unit_app = %q", got)
    }
    if got := cell("unit_afis"); got != "0" {
        t.Fatalf("unit_afis = %q", got)
    }
    if got := cell("arrival_date"); got != "2025-01-31" {
        t.Fatalf("arrival_date = %q", got)
    }
}
