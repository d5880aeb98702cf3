package payments

import (
	"time"

	"github.com/akylbek/payment-system/payment-tracker/internal/models"
)

// NewPayment builds a record from a payload that has already passed Validate
// with requireAll set. The id is left for the store to assign.
func NewPayment(p Payload, now time.Time) *models.Payment {
	str := func(field string) string {
		s, _ := p.Text(field)
		return s
	}
	added := now.UTC()
	rec := &models.Payment{
		PayeeFirstName:       str(FieldFirstName),
		PayeeLastName:        str(FieldLastName),
		PayeeAddressLine1:    str(FieldAddressLine1),
		PayeeAddressLine2:    str(FieldAddressLine2),
		PayeeCity:            str(FieldCity),
		PayeeProvinceOrState: str(FieldProvinceOrState),
		PayeeCountry:         str(FieldCountry),
		PayeePostalCode:      str(FieldPostalCode),
		PayeePhoneNumber:     str(FieldPhoneNumber),
		PayeeEmail:           str(FieldEmail),
		Currency:             str(FieldCurrency),
		PayeeAddedDateUTC:    &added,
		EvidenceFile:         p.EvidenceRef(),
		EvidenceFilename:     str(FieldEvidenceFilename),
	}
	rec.DueAmount, _, _ = p.Decimal(FieldDueAmount)
	rec.DueAmount = rec.DueAmount.Round(2)
	rec.DiscountPercent, _, _ = p.Decimal(FieldDiscountPercent)
	rec.TaxPercent, _, _ = p.Decimal(FieldTaxPercent)
	rec.PayeeDueDate, _, _ = p.Date(FieldDueDate)
	if status, ok := p.Status(); ok {
		rec.PayeePaymentStatus = status
	}

	Resolve(rec, models.DateOf(added))
	return rec
}

// UpdateFields turns a validated update payload into the partial document
// written to the store. Only EditableFields survive; total_due is always
// recomputed from the merged due_amount and the stored percentages.
func UpdateFields(p Payload, current *models.Payment) map[string]interface{} {
	partial := make(map[string]interface{})

	if due, ok, _ := p.Date(FieldDueDate); ok {
		partial[FieldDueDate] = due
	}

	amount := current.DueAmount
	if d, ok, _ := p.Decimal(FieldDueAmount); ok {
		amount = d.Round(2)
		partial[FieldDueAmount] = amount
	}

	if status, ok := p.Status(); ok {
		partial[FieldPaymentStatus] = status
	}

	partial[FieldTotalDue] = TotalDue(amount, current.DiscountPercent, current.TaxPercent)
	return partial
}

// EvidenceFieldsFor is the partial written when evidence is attached.
func EvidenceFieldsFor(ref, filename string) map[string]interface{} {
	return map[string]interface{}{
		FieldEvidenceFile:     ref,
		FieldEvidenceFilename: filename,
		FieldPaymentStatus:    models.StatusCompleted,
	}
}
