package billing

// Unit identifies one of the three chargeable navigation service units.
type Unit string

const (
    UnitApp  Unit = "APP"  // approach control
    UnitTwr  Unit = "TWR"  // aerodrome tower
    UnitAfis Unit = "AFIS" // aerodrome flight information service
)

// Fixed hourly rates in whole Rupiah. Rates are contractual constants,
// not runtime-mutable configuration.
const (
    RateApp  int64 = 822000
    RateTwr  int64 = 575500
    RateAfis int64 = 246500
)

// PPN (VAT) rate of 12%, kept as an integer fraction so tax can be
// computed with exact integer arithmetic: ppn = gross * num / den.
const (
    PPNRateNumerator   int64 = 12
    PPNRateDenominator int64 = 100
)

// UnitRate returns the fixed hourly rate for a unit in whole Rupiah.
func UnitRate(u Unit) int64 {
    switch u {
    case UnitApp:
        return RateApp
    case UnitTwr:
        return RateTwr
    case UnitAfis:
        return RateAfis
    }
    return 0
}

// ActiveUnit pairs a selected unit with its hourly rate. It is used by
// the export and document layers to list the charged units on a receipt.
type ActiveUnit struct {
    Unit Unit
    Rate int64
}

// ActiveUnits returns the selected units with their rates, in the fixed
// APP, TWR, AFIS order used on receipts.
func ActiveUnits(useApp, useTwr, useAfis bool) []ActiveUnit {
    units := make([]ActiveUnit, 0, 3)
    if useApp {
        units = append(units, ActiveUnit{Unit: UnitApp, Rate: RateApp})
    }
    if useTwr {
        units = append(units, ActiveUnit{Unit: UnitTwr, Rate: RateTwr})
    }
    if useAfis {
        units = append(units, ActiveUnit{Unit: UnitAfis, Rate: RateAfis})
    }
    return units
}
