package billing

import (
    "testing"
    "time"
)

func mustTime(t *testing.T, value string) time.Time {
    t.Helper()
    ts, err := time.Parse(time.RFC3339, value)
    if err != nil {
        t.Fatalf("bad test timestamp %q: %v", value, err)
    }
    return ts
}

func TestCalculateDurationMinutes(t *testing.T) {
    start := mustTime(t, "2025-12-24T19:00:00Z")

    cases := []struct {
        name string
        end  time.Time
        want int
    }{
        {"five minutes", start.Add(5 * time.Minute), 5},
        {"exactly one hour", start.Add(time.Hour), 60},
        {"sub-minute remainder floors", start.Add(5*time.Minute + 59*time.Second), 5},
        {"zero window", start, 0},
        {"end before start clamps to zero", start.Add(-time.Minute), 0},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            if got := CalculateDurationMinutes(start, tc.end); got != tc.want {
                t.Errorf("CalculateDurationMinutes = %d, want %d", got, tc.want)
            }
        })
    }
}

func TestResolveRollover(t *testing.T) {
    start := mustTime(t, "2025-12-24T23:30:00Z")
    end := mustTime(t, "2025-12-24T00:15:00Z") // recorded next-day time without the date

    resolved := ResolveRollover(start, end)
    if !resolved.Equal(end.Add(24 * time.Hour)) {
        t.Errorf("rollover end = %v, want next day", resolved)
    }
    if got := CalculateDurationMinutes(start, resolved); got != 45 {
        t.Errorf("duration across midnight = %d, want 45", got)
    }

    // end >= start passes through untouched
    same := ResolveRollover(start, start.Add(time.Minute))
    if !same.Equal(start.Add(time.Minute)) {
        t.Errorf("non-rollover end changed: %v", same)
    }
}

func TestCalculateBillableHours(t *testing.T) {
    cases := []struct {
        minutes int
        want    int
    }{
        {0, 0},
        {-10, 0},
        {1, 1},
        {59, 1},
        {60, 1},
        {61, 2},
        {120, 2},
        {121, 3},
    }
    for _, tc := range cases {
        if got := CalculateBillableHours(tc.minutes); got != tc.want {
            t.Errorf("CalculateBillableHours(%d) = %d, want %d", tc.minutes, got, tc.want)
        }
    }
}

func TestCalculateUnitGross(t *testing.T) {
    if got := CalculateUnitGross(2, UnitApp, true); got != 2*RateApp {
        t.Errorf("APP gross = %d, want %d", got, 2*RateApp)
    }
    if got := CalculateUnitGross(2, UnitApp, false); got != 0 {
        t.Errorf("unused unit gross = %d, want 0", got)
    }
}

// PPN must be computed with integer arithmetic. 822000 * 0.12 hits a
// float representation that would misround under naive multiplication.
func TestCalculatePPNExactness(t *testing.T) {
    cases := []struct {
        gross int64
        want  int64
    }{
        {822000, 98640},
        {1397500, 167700},
        {0, 0},
        {1, 0},
        {99, 11},
        {100, 12},
    }
    for _, tc := range cases {
        if got := CalculatePPN(tc.gross); got != tc.want {
            t.Errorf("CalculatePPN(%d) = %d, want %d", tc.gross, got, tc.want)
        }
    }
}

// End-to-end scenario from the charge sheet: APP+TWR for a five minute
// service bills one full hour of each unit.
func TestCalculateEndToEnd(t *testing.T) {
    in := Input{
        ServiceStartUTC: mustTime(t, "2025-12-24T19:00:00Z"),
        ServiceEndUTC:   mustTime(t, "2025-12-24T19:05:00Z"),
        UseApp:          true,
        UseTwr:          true,
        UseAfis:         false,
    }
    got := Calculate(in)

    want := Result{
        DurationMinutes: 5,
        BillableHours:   1,
        GrossApp:        822000,
        GrossTwr:        575500,
        GrossAfis:       0,
        GrossTotal:      1397500,
        PPN:             167700,
        NetTotal:        1565200,
    }
    if got != want {
        t.Errorf("Calculate = %+v, want %+v", got, want)
    }
}

func TestCalculateDeterministic(t *testing.T) {
    in := Input{
        ServiceStartUTC: mustTime(t, "2025-06-01T02:10:00Z"),
        ServiceEndUTC:   mustTime(t, "2025-06-01T04:45:00Z"),
        UseApp:          true,
        UseAfis:         true,
    }
    first := Calculate(in)
    for i := 0; i < 10; i++ {
        if again := Calculate(in); again != first {
            t.Fatalf("run %d differed: %+v vs %+v", i, again, first)
        }
    }
}

func TestCalculateAdditivity(t *testing.T) {
    flags := []struct{ app, twr, afis bool }{
        {true, false, false}, {false, true, false}, {false, false, true},
        {true, true, false}, {true, false, true}, {false, true, true},
        {true, true, true}, {false, false, false},
    }
    start := mustTime(t, "2025-03-10T08:00:00Z")
    for _, f := range flags {
        res := Calculate(Input{
            ServiceStartUTC: start,
            ServiceEndUTC:   start.Add(95 * time.Minute),
            UseApp:          f.app,
            UseTwr:          f.twr,
            UseAfis:         f.afis,
        })
        if res.GrossTotal != res.GrossApp+res.GrossTwr+res.GrossAfis {
            t.Errorf("flags %+v: gross total %d != %d+%d+%d",
                f, res.GrossTotal, res.GrossApp, res.GrossTwr, res.GrossAfis)
        }
        if res.NetTotal != res.GrossTotal+res.PPN {
            t.Errorf("flags %+v: net total %d != gross %d + ppn %d",
                f, res.NetTotal, res.GrossTotal, res.PPN)
        }
    }
}

// All flags false is a valid degenerate input, not an error: everything
// comes out zero.
func TestCalculateZeroUnits(t *testing.T) {
    start := mustTime(t, "2025-03-10T08:00:00Z")
    res := Calculate(Input{
        ServiceStartUTC: start,
        ServiceEndUTC:   start.Add(2 * time.Hour),
    })
    if res.GrossTotal != 0 || res.PPN != 0 || res.NetTotal != 0 {
        t.Errorf("zero-unit result has non-zero money: %+v", res)
    }
    if res.BillableHours != 2 {
        t.Errorf("billable hours = %d, want 2", res.BillableHours)
    }
}

func TestActiveUnits(t *testing.T) {
    units := ActiveUnits(true, false, true)
    if len(units) != 2 || units[0].Unit != UnitApp || units[1].Unit != UnitAfis {
        t.Fatalf("unexpected active units: %+v", units)
    }
    if units[0].Rate != RateApp || units[1].Rate != RateAfis {
        t.Errorf("unexpected rates: %+v", units)
    }
}
