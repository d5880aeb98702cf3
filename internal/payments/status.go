package payments

import "github.com/akylbek/payment-system/payment-tracker/internal/models"

// DeriveStatus computes the display status of a payment. completed must only
// be true when the record carries a stored evidence reference. ok is false
// when there is no due date to derive from and the status is left as is.
func DeriveStatus(due *models.Date, today models.Date, completed bool) (models.PaymentStatus, bool) {
	switch {
	case completed:
		return models.StatusCompleted, true
	case due == nil || due.IsZero():
		return "", false
	case due.Equal(today):
		return models.StatusDueNow, true
	case due.Before(today):
		return models.StatusOverdue, true
	default:
		return models.StatusPending, true
	}
}

// Resolve recomputes the derived fields of p in place. A stored "completed"
// is honoured only when evidence is attached; any other stored status is
// replaced by the date-derived one, or cleared when no due date exists and the
// stored value is not a known status.
func Resolve(p *models.Payment, today models.Date) {
	completed := p.PayeePaymentStatus == models.StatusCompleted && p.HasEvidence()
	if status, ok := DeriveStatus(p.PayeeDueDate, today, completed); ok {
		p.PayeePaymentStatus = status
	} else if !p.PayeePaymentStatus.Valid() || p.PayeePaymentStatus == models.StatusCompleted {
		p.PayeePaymentStatus = ""
	}
	p.TotalDue = TotalDue(p.DueAmount, p.DiscountPercent, p.TaxPercent)
}
