package model

import "time"

// FlightType distinguishes domestic from international flights. The
// flight type drives both the receipt numbering code and the billing
// currency: DOM services are billed in IDR, INT services in USD.
type FlightType string

const (
    FlightTypeDomestic      FlightType = "DOM"
    FlightTypeInternational FlightType = "INT"
)

// Currency is the billing currency of a flight service. It is derived
// from the flight type and never chosen freely by the caller.
type Currency string

const (
    CurrencyIDR Currency = "IDR"
    CurrencyUSD Currency = "USD"
)

// PaymentStatus tracks the settlement state of a service invoice.
type PaymentStatus string

const (
    PaymentUnpaid    PaymentStatus = "UNPAID"
    PaymentPaid      PaymentStatus = "PAID"
    PaymentUnderpaid PaymentStatus = "UNDERPAID"
    PaymentOverpaid  PaymentStatus = "OVERPAID"
)

// AdvanceExtend records whether the service was provided in advance of
// published operating hours or as an extension beyond them.
type AdvanceExtend string

const (
    ServiceAdvance AdvanceExtend = "ADVANCE"
    ServiceExtend  AdvanceExtend = "EXTEND"
)

// FlightService represents a billed navigation service as stored in the
// `flight_services` table. All instants are stored in UTC; receipt
// dating converts to WIB (Asia/Jakarta) at the receipt layer. All
// monetary fields hold whole units of the billing currency's smallest
// denomination (whole Rupiah for IDR, cents for USD) and must only ever
// be computed with exact integer arithmetic.
//
// Fields:
//  ID              – primary key identifier.
//  SeqNo           – global auto-increment display number (distinct from
//                    the receipt sequence).
//  Airline         – airline / operator / ground handler name.
//  FlightType      – DOM or INT.
//  FlightNumber    – primary flight number.
//  FlightNumber2   – optional second flight number (turnarounds).
//  Registration    – aircraft registration.
//  AircraftType    – aircraft type designator.
//  DepStation      – departure station code.
//  ArrStation      – arrival station code.
//  ArrivalDate     – calendar date of the movement.
//  ATAUTC          – actual time of arrival, set for arrival services.
//  ATDUTC          – actual time of departure, set for departure services.
//                    Exactly one of ATAUTC/ATDUTC dates the receipt.
//  AdvanceExtend   – ADVANCE or EXTEND.
//  ServiceStartUTC – instant the chargeable service began.
//  ServiceEndUTC   – instant the chargeable service ended.
//  UseApp          – approach control unit selected.
//  UseTwr          – tower unit selected.
//  UseAfis         – flight information unit selected.
//  Currency        – IDR (DOM) or USD (INT).
//  ExchangeRate    – IDR per 1 USD; required when Currency is USD.
//  DurationMinutes – computed duration of the service window.
//  BillableHours   – ceiling of duration in hours.
//  GrossApp        – gross charge for the APP unit.
//  GrossTwr        – gross charge for the TWR unit.
//  GrossAfis       – gross charge for the AFIS unit.
//  GrossTotal      – sum of the three unit gross amounts.
//  PPN             – value-added tax on the gross total.
//  NetTotal        – gross total plus PPN; the amount owed.
//  ReceiptNo       – formatted receipt number, immutable once assigned.
//  ReceiptDate     – date the receipt was issued.
//  Status          – payment status.
//  PaidAt          – when payment was recorded (nullable).
//  AmountPaid      – amount actually paid (nullable).
//  PaymentDifference – AmountPaid − NetTotal (nullable).
//  PaymentDays     – whole days from creation to payment (nullable).
//  PICDinas        – officer on duty (nullable).
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type FlightService struct {
    ID                uint64        // flight_services.id
    SeqNo             uint64        // flight_services.seq_no
    Airline           string        // flight_services.airline
    FlightType        FlightType    // flight_services.flight_type
    FlightNumber      string        // flight_services.flight_number
    FlightNumber2     *string       // flight_services.flight_number_2 (nullable)
    Registration      string        // flight_services.registration
    AircraftType      string        // flight_services.aircraft_type
    DepStation        string        // flight_services.dep_station
    ArrStation        string        // flight_services.arr_station
    ArrivalDate       time.Time     // flight_services.arrival_date
    ATAUTC            *time.Time    // flight_services.ata_utc (nullable)
    ATDUTC            *time.Time    // flight_services.atd_utc (nullable)
    AdvanceExtend     AdvanceExtend // flight_services.advance_extend
    ServiceStartUTC   time.Time     // flight_services.service_start_utc
    ServiceEndUTC     time.Time     // flight_services.service_end_utc
    UseApp            bool          // flight_services.use_app
    UseTwr            bool          // flight_services.use_twr
    UseAfis           bool          // flight_services.use_afis
    Currency          Currency      // flight_services.currency
    ExchangeRate      *int64        // flight_services.exchange_rate (nullable)
    DurationMinutes   int           // flight_services.duration_minutes
    BillableHours     int           // flight_services.billable_hours
    GrossApp          int64         // flight_services.gross_app
    GrossTwr          int64         // flight_services.gross_twr
    GrossAfis         int64         // flight_services.gross_afis
    GrossTotal        int64         // flight_services.gross_total
    PPN               int64         // flight_services.ppn
    NetTotal          int64         // flight_services.net_total
    ReceiptNo         string        // flight_services.receipt_no
    ReceiptDate       time.Time     // flight_services.receipt_date
    Status            PaymentStatus // flight_services.status
    PaidAt            *time.Time    // flight_services.paid_at (nullable)
    AmountPaid        *int64        // flight_services.amount_paid (nullable)
    PaymentDifference *int64        // flight_services.payment_difference (nullable)
    PaymentDays       *int          // flight_services.payment_days (nullable)
    PICDinas          *string       // flight_services.pic_dinas (nullable)
    CreatedAt         time.Time     // flight_services.created_at
    UpdatedAt         time.Time     // flight_services.updated_at
}

// ReferenceTime returns the instant that dates the receipt: the ATA when
// present, otherwise the ATD. The boolean is false when neither is set,
// which callers must have rejected during validation.
func (s *FlightService) ReferenceTime() (time.Time, bool) {
    if s.ATAUTC != nil {
        return *s.ATAUTC, true
    }
    if s.ATDUTC != nil {
        return *s.ATDUTC, true
    }
    return time.Time{}, false
}

// CurrencyFor derives the billing currency from the flight type:
// domestic services bill in Rupiah, international in US dollars.
func CurrencyFor(ft FlightType) Currency {
    if ft == FlightTypeInternational {
        return CurrencyUSD
    }
    return CurrencyIDR
}
