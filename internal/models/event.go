package models

import "time"

const (
	EventPaymentCreated          = "payment.created"
	EventPaymentUpdated          = "payment.updated"
	EventPaymentDeleted          = "payment.deleted"
	EventPaymentEvidenceAttached = "payment.evidence_attached"
	EventPaymentsImported        = "payments.imported"
)

// PaymentEvent announces a committed change. Payment is the record as
// returned to the API caller; Count is set for imports.
type PaymentEvent struct {
	Type       string    `json:"type"`
	PaymentID  string    `json:"payment_id,omitempty"`
	Payment    *Payment  `json:"payment,omitempty"`
	Count      int       `json:"count,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
