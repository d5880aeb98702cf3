package payments

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/akylbek/payment-system/payment-tracker/internal/models"
)

var errNegativeAmount = errors.New("must not be negative")

// naTokens are cell values treated as empty, matching common spreadsheet exports.
var naTokens = map[string]bool{
	"":     true,
	"NA":   true,
	"N/A":  true,
	"NaN":  true,
	"nan":  true,
	"null": true,
	"NULL": true,
	"None": true,
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	models.DateLayout,
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
}

// Row is one data line of an imported file keyed by column name.
// Line is the 1-based line number in the source, header included.
type Row struct {
	Line   int
	Values map[string]string
}

// Batch is a parsed import file.
type Batch struct {
	Header []string
	Rows   []Row
}

// RowIssue records a field that was nulled or defaulted during normalization.
type RowIssue struct {
	Row    int    `json:"row"`
	Field  string `json:"field"`
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

// BatchResult is the output of Normalize. Records are ready for insertion in
// source order; DroppedRows lists lines discarded for missing mandatory data.
type BatchResult struct {
	Records     []*models.Payment `json:"-"`
	DroppedRows []int             `json:"dropped_rows"`
	Issues      []RowIssue        `json:"issues"`
}

// Normalize turns raw rows into payment records. Rows missing a mandatory
// field are dropped first; survivors get lenient coercion, where a bad value
// is nulled and reported as a RowIssue. A due_amount that is not a
// non-negative number, or a missing mandatory column, aborts the whole batch
// with a *BatchError.
func Normalize(batch *Batch, today models.Date) (*BatchResult, error) {
	columns := make(map[string]bool, len(batch.Header))
	for _, h := range batch.Header {
		columns[h] = true
	}
	for _, field := range MandatoryImportFields {
		if !columns[field] {
			return nil, &BatchError{Field: field, Err: ErrMissingColumn}
		}
	}

	result := &BatchResult{}
	for _, row := range batch.Rows {
		if missingMandatory(row) {
			result.DroppedRows = append(result.DroppedRows, row.Line)
			continue
		}
		p, err := normalizeRow(row, today, &result.Issues)
		if err != nil {
			return nil, err
		}
		result.Records = append(result.Records, p)
	}
	return result, nil
}

func cell(row Row, field string) string {
	v := strings.TrimSpace(row.Values[field])
	if naTokens[v] {
		return ""
	}
	return v
}

func missingMandatory(row Row) bool {
	for _, field := range MandatoryImportFields {
		if cell(row, field) == "" {
			return true
		}
	}
	return false
}

func normalizeRow(row Row, today models.Date, issues *[]RowIssue) (*models.Payment, error) {
	report := func(field, value, reason string) {
		*issues = append(*issues, RowIssue{Row: row.Line, Field: field, Value: value, Reason: reason})
	}

	raw := cell(row, FieldDueAmount)
	due, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, &BatchError{Row: row.Line, Field: FieldDueAmount, Value: raw, Err: errNotNumber}
	}
	if !ValidAmount(due) {
		return nil, &BatchError{Row: row.Line, Field: FieldDueAmount, Value: raw, Err: errNegativeAmount}
	}

	p := &models.Payment{
		PayeeFirstName:       cell(row, FieldFirstName),
		PayeeLastName:        cell(row, FieldLastName),
		PayeeAddressLine1:    cell(row, FieldAddressLine1),
		PayeeAddressLine2:    cell(row, FieldAddressLine2),
		PayeeCity:            cell(row, FieldCity),
		PayeeProvinceOrState: cell(row, FieldProvinceOrState),
		PayeeCountry:         cell(row, FieldCountry),
		PayeePostalCode:      cell(row, FieldPostalCode),
		PayeePhoneNumber:     cell(row, FieldPhoneNumber),
		PayeeEmail:           cell(row, FieldEmail),
		Currency:             cell(row, FieldCurrency),
		DueAmount:            due.Round(2),
	}

	if v := cell(row, FieldAddedDateUTC); v != "" {
		if t, ok := parseTimestamp(v); ok {
			utc := t.UTC()
			p.PayeeAddedDateUTC = &utc
		} else {
			report(FieldAddedDateUTC, v, "unparseable timestamp")
		}
	}
	if v := cell(row, FieldDueDate); v != "" {
		if t, ok := parseTimestamp(v); ok {
			d := models.DateOf(t)
			p.PayeeDueDate = &d
		} else {
			report(FieldDueDate, v, dueDateMessage)
		}
	}
	if v := cell(row, FieldPaymentStatus); v != "" {
		if status := models.PaymentStatus(strings.ToLower(v)); status.Valid() {
			p.PayeePaymentStatus = status
		} else {
			report(FieldPaymentStatus, v, statusMessage)
		}
	}

	for _, rule := range textRules {
		target := textField(p, rule.field)
		if !rule.check(*target, Lenient) {
			report(rule.field, *target, rule.message)
			*target = ""
		}
	}

	p.DiscountPercent = percentCell(row, FieldDiscountPercent, report)
	p.TaxPercent = percentCell(row, FieldTaxPercent, report)

	// Evidence columns are ignored: evidence is only ever attached by upload,
	// so an imported "completed" is re-derived from the due date.
	for _, field := range EvidenceFields {
		if v := cell(row, field); v != "" {
			report(field, v, "evidence cannot be imported")
		}
	}
	if p.PayeePaymentStatus == models.StatusCompleted {
		report(FieldPaymentStatus, string(p.PayeePaymentStatus), evidenceMessage)
		p.PayeePaymentStatus = ""
	}

	Resolve(p, today)
	return p, nil
}

// textField maps a rule's field onto the record so a failed check can null it.
func textField(p *models.Payment, field string) *string {
	switch field {
	case FieldPhoneNumber:
		return &p.PayeePhoneNumber
	case FieldEmail:
		return &p.PayeeEmail
	case FieldCountry:
		return &p.PayeeCountry
	case FieldCurrency:
		return &p.Currency
	}
	panic(fmt.Sprintf("payments: no record field for rule %q", field))
}

func percentCell(row Row, field string, report func(field, value, reason string)) decimal.Decimal {
	v := cell(row, field)
	if v == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		report(field, v, numberMessage(field))
		return decimal.Zero
	}
	if !ValidPercent(d) {
		report(field, v, percentMessage(field))
		return decimal.Zero
	}
	return d
}

func parseTimestamp(v string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
