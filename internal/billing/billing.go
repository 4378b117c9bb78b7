// Package billing implements the duration and charge calculation for a
// flight service. Every function in this package is pure: same inputs
// always produce the same outputs, there is no I/O and nothing here can
// fail at runtime. Input validation (at least one unit selected, end
// after start) is the caller's responsibility and happens before these
// functions are invoked.
//
// All monetary values are int64 amounts in the smallest unit of the
// billing currency (whole Rupiah for IDR). Floating point is never used
// for money; the VAT computation multiplies then floor-divides in
// integer arithmetic so that rounding can never drift across invoices.
package billing

import "time"

// Input carries the service time window and the unit selection for one
// flight service. Both instants are UTC; the caller resolves any day
// rollover (see ResolveRollover) before building an Input.
type Input struct {
    ServiceStartUTC time.Time
    ServiceEndUTC   time.Time
    UseApp          bool
    UseTwr          bool
    UseAfis         bool
}

// Result holds every derived billing field for a flight service. It is
// returned by value and never mutated after construction.
type Result struct {
    DurationMinutes int
    BillableHours   int
    GrossApp        int64
    GrossTwr        int64
    GrossAfis       int64
    GrossTotal      int64
    PPN             int64
    NetTotal        int64
}

// ResolveRollover returns the effective service end instant. When the
// recorded end is before the start the window crossed midnight, so the
// end is pushed to the next day. This is the single place rollover is
// resolved; duration math below assumes end >= start.
func ResolveRollover(start, end time.Time) time.Time {
    if end.Before(start) {
        return end.Add(24 * time.Hour)
    }
    return end
}

// CalculateDurationMinutes returns the whole minutes between start and
// end, floored, never negative.
func CalculateDurationMinutes(start, end time.Time) int {
    minutes := int(end.Sub(start) / time.Minute)
    if minutes < 0 {
        return 0
    }
    return minutes
}

// CalculateBillableHours converts a duration to billable hours. Any
// started hour is billed in full; a zero or negative duration bills
// nothing.
func CalculateBillableHours(minutes int) int {
    if minutes <= 0 {
        return 0
    }
    return (minutes + 59) / 60
}

// CalculateUnitGross returns the gross charge for one unit: zero when
// the unit was not used, otherwise billable hours times the unit's
// hourly rate. Hours and rates are integers, so the product is exact.
func CalculateUnitGross(billableHours int, unit Unit, isUsed bool) int64 {
    if !isUsed {
        return 0
    }
    return int64(billableHours) * UnitRate(unit)
}

// CalculatePPN returns the VAT on a gross total: floor(gross * 12%),
// computed as an integer multiply followed by integer division.
func CalculatePPN(grossTotal int64) int64 {
    return grossTotal * PPNRateNumerator / PPNRateDenominator
}

// Calculate derives the complete billing breakdown for a service:
// duration, billable hours, per-unit gross amounts, gross total, PPN
// and net total.
func Calculate(in Input) Result {
    duration := CalculateDurationMinutes(in.ServiceStartUTC, in.ServiceEndUTC)
    hours := CalculateBillableHours(duration)

    grossApp := CalculateUnitGross(hours, UnitApp, in.UseApp)
    grossTwr := CalculateUnitGross(hours, UnitTwr, in.UseTwr)
    grossAfis := CalculateUnitGross(hours, UnitAfis, in.UseAfis)

    grossTotal := grossApp + grossTwr + grossAfis
    ppn := CalculatePPN(grossTotal)

    return Result{
        DurationMinutes: duration,
        BillableHours:   hours,
        GrossApp:        grossApp,
        GrossTwr:        grossTwr,
        GrossAfis:       grossAfis,
        GrossTotal:      grossTotal,
        PPN:             ppn,
        NetTotal:        grossTotal + ppn,
    }
}
