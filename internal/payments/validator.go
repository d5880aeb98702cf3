package payments

import (
	"strings"

	"github.com/akylbek/payment-system/payment-tracker/internal/models"
)

// Validate checks p against the record rules and returns every violation in
// rule order; an empty result means the payload is valid.
//
// Only fields present in p are checked unless requireAll is set, in which case
// every mandatory field (including due_amount) must be present. Strict mode is
// the API flavour of the rules; Lenient applies the import flavour of the
// email and currency checks. Validate never modifies p.
func Validate(p Payload, mode Mode, requireAll bool) []string {
	var violations []string

	for _, field := range MandatoryTextFields {
		if !requireAll && !p.Has(field) {
			continue
		}
		v, ok, err := p.text(field)
		if err != nil || !ok || isBlank(v) {
			violations = append(violations, mandatoryMessage(field))
		}
	}
	if requireAll && !p.Has(FieldDueAmount) {
		violations = append(violations, mandatoryMessage(FieldDueAmount))
	}

	for _, rule := range textRules {
		v, ok, _ := p.text(rule.field)
		if !ok || isBlank(v) {
			// already reported as mandatory, or not part of this payload
			continue
		}
		if !rule.check(v, mode) {
			violations = append(violations, rule.message)
		}
	}

	for _, field := range []string{FieldDiscountPercent, FieldTaxPercent} {
		d, ok, err := p.Decimal(field)
		switch {
		case err != nil:
			violations = append(violations, numberMessage(field))
		case ok && !ValidPercent(d):
			violations = append(violations, percentMessage(field))
		}
	}

	if p.Has(FieldDueAmount) {
		d, ok, err := p.Decimal(FieldDueAmount)
		switch {
		case err != nil || !ok:
			violations = append(violations, numberMessage(FieldDueAmount))
		case !ValidAmount(d):
			violations = append(violations, negativeAmountMessage)
		}
	}

	if _, _, err := p.Date(FieldDueDate); err != nil {
		violations = append(violations, dueDateMessage)
	}

	if p.Has(FieldPaymentStatus) {
		status, ok := p.Status()
		switch {
		case !ok:
			violations = append(violations, statusMessage)
		case status == models.StatusCompleted && p.EvidenceRef() == "":
			violations = append(violations, evidenceMessage)
		}
	}

	return violations
}

// Check is Validate returning a *ValidationError, or nil when p is valid.
func Check(p Payload, mode Mode, requireAll bool) error {
	if violations := Validate(p, mode, requireAll); len(violations) > 0 {
		return NewValidationError(violations)
	}
	return nil
}

func isBlank(v string) bool {
	return strings.TrimSpace(v) == ""
}
