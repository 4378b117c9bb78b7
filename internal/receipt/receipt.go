// Package receipt implements receipt numbering for flight services.
// Receipt numbers have the form WITT.<code>.<year>.<MM>.<NNNN> and are
// allocated from a monotonically increasing counter scoped to a
// (year, month, flight-type code) bucket. The bucket is derived from
// the service's reference time converted to WIB (Asia/Jakarta, UTC+7,
// no DST): a movement late in the UTC day can belong to the next
// local month, and the local month is what counts.
package receipt

import (
    "fmt"
    "strconv"
    "strings"
    "time"

    "github.com/airnavops/flight-billing/internal/model"
)

// AirportCode prefixes every receipt number issued by this installation.
const AirportCode = "WITT"

// SequencePadding is the zero-padded width of the sequence component.
const SequencePadding = 4

// Flight-type codes used as the second receipt number component.
const (
    CodeDomestic      = "21"
    CodeInternational = "22"
)

// wib is the fixed receipt-dating timezone. Asia/Jakarta has no
// daylight saving, so a fixed offset is equivalent to the IANA zone
// and avoids depending on the host's tzdata.
var wib = time.FixedZone("WIB", 7*60*60)

// InWIB converts an instant to the WIB local time used for receipt
// dating and report rendering.
func InWIB(t time.Time) time.Time {
    return t.In(wib)
}

// DateWIB returns the WIB calendar day of an instant as a bare date
// (midnight UTC), the form stored in DATE columns.
func DateWIB(t time.Time) time.Time {
    local := t.In(wib)
    return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// TypeCode maps a flight type to its two-character receipt code.
func TypeCode(ft model.FlightType) string {
    if ft == model.FlightTypeInternational {
        return CodeInternational
    }
    return CodeDomestic
}

// Bucket identifies one receipt-numbering scope: a calendar month (in
// WIB local time) for one flight-type code.
type Bucket struct {
    Year  int
    Month int
    Code  string
}

// BucketFor computes the numbering bucket for a reference instant and
// flight type. The year and month are taken from the WIB local date,
// not the UTC date.
func BucketFor(referenceUTC time.Time, ft model.FlightType) Bucket {
    local := referenceUTC.In(wib)
    return Bucket{
        Year:  local.Year(),
        Month: int(local.Month()),
        Code:  TypeCode(ft),
    }
}

// Format renders the canonical receipt number for a bucket and
// sequence value, e.g. WITT.21.2025.12.0001.
func Format(b Bucket, seq int) string {
    return strings.Join([]string{
        AirportCode,
        b.Code,
        strconv.Itoa(b.Year),
        fmt.Sprintf("%02d", b.Month),
        fmt.Sprintf("%0*d", SequencePadding, seq),
    }, ".")
}

// Parsed holds the components recovered from a formatted receipt number.
type Parsed struct {
    AirportCode string
    TypeCode    string
    Year        int
    Month       int
    Sequence    int
}

// Parse splits a receipt number into its five components. It returns
// nil for anything that is not exactly five dot-separated parts with
// numeric year, month and sequence; malformed input is not an error,
// just an absent result.
func Parse(receiptNo string) *Parsed {
    parts := strings.Split(receiptNo, ".")
    if len(parts) != 5 {
        return nil
    }
    year, err := strconv.Atoi(parts[2])
    if err != nil {
        return nil
    }
    month, err := strconv.Atoi(parts[3])
    if err != nil {
        return nil
    }
    seq, err := strconv.Atoi(parts[4])
    if err != nil {
        return nil
    }
    return &Parsed{
        AirportCode: parts[0],
        TypeCode:    parts[1],
        Year:        year,
        Month:       month,
        Sequence:    seq,
    }
}
