package receipt

import (
    "testing"
    "time"

    "github.com/airnavops/flight-billing/internal/model"
)

func TestBucketForUsesLocalMonth(t *testing.T) {
    // 17:30Z on 31 January is already 00:30 WIB on 1 February; the
    // receipt belongs in the February bucket.
    ref := time.Date(2025, 1, 31, 17, 30, 0, 0, time.UTC)
    b := BucketFor(ref, model.FlightTypeDomestic)
    if b.Year != 2025 || b.Month != 2 {
        t.Errorf("bucket = %d-%02d, want 2025-02", b.Year, b.Month)
    }
    if b.Code != CodeDomestic {
        t.Errorf("code = %s, want %s", b.Code, CodeDomestic)
    }

    // A midday instant stays in its own month.
    ref = time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
    if b = BucketFor(ref, model.FlightTypeInternational); b.Month != 1 || b.Code != CodeInternational {
        t.Errorf("bucket = %+v, want January INT", b)
    }

    // Year boundary: 31 Dec 20:00Z is 1 Jan 03:00 WIB.
    ref = time.Date(2024, 12, 31, 20, 0, 0, 0, time.UTC)
    if b = BucketFor(ref, model.FlightTypeDomestic); b.Year != 2025 || b.Month != 1 {
        t.Errorf("bucket = %d-%02d, want 2025-01", b.Year, b.Month)
    }
}

func TestFormat(t *testing.T) {
    got := Format(Bucket{Year: 2025, Month: 12, Code: CodeDomestic}, 1)
    if got != "WITT.21.2025.12.0001" {
        t.Errorf("Format = %q", got)
    }
    got = Format(Bucket{Year: 2025, Month: 3, Code: CodeInternational}, 357)
    if got != "WITT.22.2025.03.0357" {
        t.Errorf("Format = %q", got)
    }
    // Sequences wider than the padding are not truncated.
    got = Format(Bucket{Year: 2025, Month: 3, Code: CodeDomestic}, 12345)
    if got != "WITT.21.2025.03.12345" {
        t.Errorf("Format = %q", got)
    }
}

func TestParseRoundTrip(t *testing.T) {
    b := Bucket{Year: 2025, Month: 2, Code: CodeDomestic}
    p := Parse(Format(b, 42))
    if p == nil {
        t.Fatal("Parse returned nil for generated number")
    }
    if p.AirportCode != AirportCode || p.TypeCode != b.Code {
        t.Errorf("parsed codes = %s/%s", p.AirportCode, p.TypeCode)
    }
    if p.Year != b.Year || p.Month != b.Month || p.Sequence != 42 {
        t.Errorf("parsed = %+v, want %d-%02d seq 42", p, b.Year, b.Month)
    }
}

func TestParseMalformed(t *testing.T) {
    for _, s := range []string{
        "",
        "WITT.21.2025.12",           // four parts
        "WITT.21.2025.12.0001.junk", // six parts
        "WITT.21.year.12.0001",      // non-numeric year
        "WITT.21.2025.mm.0001",      // non-numeric month
        "WITT.21.2025.12.seq",       // non-numeric sequence
    } {
        if p := Parse(s); p != nil {
            t.Errorf("Parse(%q) = %+v, want nil", s, p)
        }
    }
}

func TestTypeCode(t *testing.T) {
    if TypeCode(model.FlightTypeDomestic) != "21" {
        t.Error("DOM code mismatch")
    }
    if TypeCode(model.FlightTypeInternational) != "22" {
        t.Error("INT code mismatch")
    }
}

func TestDateWIBCrossesToNextLocalDay(t *testing.T) {
    // 17:30 UTC on Jan 31 is already Feb 1 in WIB.
    ref := time.Date(2025, 1, 31, 17, 30, 0, 0, time.UTC)
    got := DateWIB(ref)
    want := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
    if !got.Equal(want) {
        t.Errorf("DateWIB = %v, want %v", got, want)
    }

    // Midday UTC stays on the same local day.
    ref = time.Date(2025, 1, 31, 5, 0, 0, 0, time.UTC)
    if got := DateWIB(ref); !got.Equal(time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)) {
        t.Errorf("DateWIB midday = %v", got)
    }
}
