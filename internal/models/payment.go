package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts go over the wire as JSON numbers, the way the dashboard reads them.
	decimal.MarshalJSONWithoutQuotes = true
}

type PaymentStatus string

const (
	StatusPending   PaymentStatus = "pending"
	StatusDueNow    PaymentStatus = "due_now"
	StatusOverdue   PaymentStatus = "overdue"
	StatusCompleted PaymentStatus = "completed"
)

// Valid reports whether s is one of the four known statuses.
func (s PaymentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusDueNow, StatusOverdue, StatusCompleted:
		return true
	}
	return false
}

type Payment struct {
	ID                   string          `json:"id"`
	PayeeFirstName       string          `json:"payee_first_name,omitempty"`
	PayeeLastName        string          `json:"payee_last_name,omitempty"`
	PayeeAddressLine1    string          `json:"payee_address_line_1"`
	PayeeAddressLine2    string          `json:"payee_address_line_2,omitempty"`
	PayeeCity            string          `json:"payee_city"`
	PayeeProvinceOrState string          `json:"payee_province_or_state,omitempty"`
	PayeeCountry         string          `json:"payee_country"`
	PayeePostalCode      string          `json:"payee_postal_code"`
	PayeePhoneNumber     string          `json:"payee_phone_number"`
	PayeeEmail           string          `json:"payee_email"`
	Currency             string          `json:"currency"`
	DueAmount            decimal.Decimal `json:"due_amount"`
	DiscountPercent      decimal.Decimal `json:"discount_percent"`
	TaxPercent           decimal.Decimal `json:"tax_percent"`
	TotalDue             decimal.Decimal `json:"total_due"`
	PayeeDueDate         *Date           `json:"payee_due_date,omitempty"`
	PayeeAddedDateUTC    *time.Time      `json:"payee_added_date_utc,omitempty"`
	PayeePaymentStatus   PaymentStatus   `json:"payee_payment_status,omitempty"`
	EvidenceFile         string          `json:"evidence_file,omitempty"`
	EvidenceFilename     string          `json:"evidence_filename,omitempty"`
}

// HasEvidence reports whether an evidence file has been attached.
func (p *Payment) HasEvidence() bool {
	return p.EvidenceFile != ""
}

// Clone returns a shallow copy; every field is a value or an immutable pointer target.
func (p *Payment) Clone() *Payment {
	c := *p
	return &c
}
