package handler

import (
    "bytes"
    "context"
    "encoding/csv"
    "fmt"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/airnavops/flight-billing/internal/model"
    "github.com/airnavops/flight-billing/internal/receipt"
    "github.com/airnavops/flight-billing/internal/repository"
)

// ExportHandler renders service listings as CSV downloads.
type ExportHandler struct {
    Services *repository.FlightServiceRepo
}

func NewExportHandler(s *repository.FlightServiceRepo) *ExportHandler {
    return &ExportHandler{Services: s}
}

// utf8BOM makes Excel open the file as UTF-8.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var inputHeader = []string{
    "airline_operator_gh", "flight_type", "flight_number", "flight_number_2",
    "registration", "aircraft_type", "departure", "arrival", "arrival_date",
    "ata_utc", "atd_utc", "service_start_utc", "service_end_utc",
    "advance_extend", "unit_app", "unit_twr", "unit_afis", "pic_dinas",
}

var outputHeader = []string{
    "seq_no", "receipt_no", "receipt_date", "airline", "flight_type",
    "flight_number", "registration", "aircraft_type", "departure", "arrival",
    "arrival_date", "ata_wib", "ata_utc", "advance_extend",
    "service_start_wib", "service_start_utc", "service_end_wib", "service_end_utc",
    "duration_minutes", "billable_hours", "use_app", "use_twr", "use_afis",
    "gross_app", "gross_twr", "gross_afis", "gross_total", "ppn_12", "net_total",
    "status", "paid_at", "pic_dinas",
}

func boolFlag(b bool) string {
    if b {
        return "1"
    }
    return "0"
}

func deref(s *string) string {
    if s == nil {
        return ""
    }
    return *s
}

func clockUTC(t *time.Time) string {
    if t == nil {
        return ""
    }
    return t.UTC().Format("15:04:05")
}

func clockWIB(t *time.Time) string {
    if t == nil {
        return ""
    }
    return receipt.InWIB(*t).Format("15:04:05")
}

func inputRow(s *model.FlightService) []string {
    return []string{
        s.Airline,
        string(s.FlightType),
        s.FlightNumber,
        deref(s.FlightNumber2),
        s.Registration,
        s.AircraftType,
        s.DepStation,
        s.ArrStation,
        s.ArrivalDate.UTC().Format("2006-01-02"),
        clockUTC(s.ATAUTC),
        clockUTC(s.ATDUTC),
        s.ServiceStartUTC.UTC().Format("15:04:05"),
        s.ServiceEndUTC.UTC().Format("15:04:05"),
        string(s.AdvanceExtend),
        boolFlag(s.UseApp),
        boolFlag(s.UseTwr),
        boolFlag(s.UseAfis),
        deref(s.PICDinas),
    }
}

func outputRow(s *model.FlightService) []string {
    paidAt := ""
    if s.PaidAt != nil {
        paidAt = receipt.InWIB(*s.PaidAt).Format("2006-01-02 15:04:05")
    }
    return []string{
        strconv.FormatUint(s.SeqNo, 10),
        s.ReceiptNo,
        s.ReceiptDate.UTC().Format("2006-01-02"),
        s.Airline,
        string(s.FlightType),
        s.FlightNumber,
        s.Registration,
        s.AircraftType,
        s.DepStation,
        s.ArrStation,
        s.ArrivalDate.UTC().Format("2006-01-02"),
        clockWIB(s.ATAUTC),
        clockUTC(s.ATAUTC),
        string(s.AdvanceExtend),
        receipt.InWIB(s.ServiceStartUTC).Format("15:04:05"),
        s.ServiceStartUTC.UTC().Format("15:04:05"),
        receipt.InWIB(s.ServiceEndUTC).Format("15:04:05"),
        s.ServiceEndUTC.UTC().Format("15:04:05"),
        strconv.Itoa(s.DurationMinutes),
        strconv.Itoa(s.BillableHours),
        boolFlag(s.UseApp),
        boolFlag(s.UseTwr),
        boolFlag(s.UseAfis),
        strconv.FormatInt(s.GrossApp, 10),
        strconv.FormatInt(s.GrossTwr, 10),
        strconv.FormatInt(s.GrossAfis, 10),
        strconv.FormatInt(s.GrossTotal, 10),
        strconv.FormatInt(s.PPN, 10),
        strconv.FormatInt(s.NetTotal, 10),
        string(s.Status),
        paidAt,
        deref(s.PICDinas),
    }
}

// CSV streams the filtered service list as a CSV attachment. format=input
// produces the re-importable column set; anything else produces the full
// calculated (output) column set.
func (h *ExportHandler) CSV(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
    defer cancel()

    f := listFilterFromQuery(c)
    services, err := h.Services.ListAll(ctx, f)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "export failed"})
    }

    format := c.QueryParam("format")
    var buf bytes.Buffer
    buf.Write(utf8BOM)
    w := csv.NewWriter(&buf)

    if format == "input" {
        _ = w.Write(inputHeader)
        for i := range services {
            _ = w.Write(inputRow(&services[i]))
        }
    } else {
        format = "output"
        _ = w.Write(outputHeader)
        for i := range services {
            _ = w.Write(outputRow(&services[i]))
        }
    }
    w.Flush()
    if err := w.Error(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "export failed"})
    }

    filename := fmt.Sprintf("airnav_export_%s_%s.csv",
        format, receipt.InWIB(time.Now()).Format("20060102_150405"))
    c.Response().Header().Set(echo.HeaderContentDisposition,
        fmt.Sprintf(`attachment; filename="%s"`, filename))
    return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
