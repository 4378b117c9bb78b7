// Package queue defines message payloads exchanged over the message broker.
package queue

// ReceiptIssuedEvent is published when a flight service has been billed
// and its receipt number allocated. Downstream consumers (audit log,
// document generation, notifications) get everything they need without
// querying the primary database.
type ReceiptIssuedEvent struct {
    ServiceID     uint64 `json:"service_id"`
    SeqNo         uint64 `json:"seq_no"`
    ReceiptNo     string `json:"receipt_no"`
    Airline       string `json:"airline"`
    FlightType    string `json:"flight_type"`
    FlightNumber  string `json:"flight_number"`
    Registration  string `json:"registration"`
    Currency      string `json:"currency"`
    GrossTotal    int64  `json:"gross_total"`
    PPN           int64  `json:"ppn"`
    NetTotal      int64  `json:"net_total"`
    BillableHours int    `json:"billable_hours"`
    IssuedAt      string `json:"issued_at"`
}

// PaymentRecordedEvent is published when a payment has been reconciled
// against an invoice.
type PaymentRecordedEvent struct {
    ServiceID         uint64 `json:"service_id"`
    ReceiptNo         string `json:"receipt_no"`
    Status            string `json:"status"`
    NetTotal          int64  `json:"net_total"`
    AmountPaid        int64  `json:"amount_paid"`
    PaymentDifference int64  `json:"payment_difference"`
    PaymentDays       int    `json:"payment_days"`
    PaidAt            string `json:"paid_at"`
}
