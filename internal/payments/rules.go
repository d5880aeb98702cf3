package payments

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Mode selects how a failed rule is handled. Strict collects a violation and
// rejects the record; Lenient nulls the offending field and keeps going.
// Lenient also swaps in the import flavour of the email and currency checks
// and keeps the country as given.
type Mode int

const (
	Strict Mode = iota
	Lenient
)

func (m Mode) String() string {
	if m == Lenient {
		return "lenient"
	}
	return "strict"
}

var (
	phonePattern = regexp.MustCompile(`^\+?[1-9]\d{6,14}$`)
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)

	hundred = decimal.NewFromInt(100)
)

// textRule is a format check on a single text field. The same table drives
// the API validator and the import normalizer.
type textRule struct {
	field   string
	check   func(value string, mode Mode) bool
	message string
}

var textRules = []textRule{
	{
		field:   FieldPhoneNumber,
		check:   func(v string, _ Mode) bool { return ValidPhone(v) },
		message: "payee_phone_number must be in E.164 format",
	},
	{
		field:   FieldEmail,
		check:   ValidEmail,
		message: "payee_email is not a valid email address",
	},
	{
		field:   FieldCountry,
		check:   func(v string, mode Mode) bool { return mode == Lenient || ValidCountry(v) },
		message: "payee_country must be a valid ISO 3166-1 alpha-2 country code",
	},
	{
		field:   FieldCurrency,
		check:   ValidCurrency,
		message: "currency must be a valid ISO 4217 currency code",
	},
}

// ValidPhone reports whether v is an E.164 number. No normalization is applied.
func ValidPhone(v string) bool {
	return phonePattern.MatchString(v)
}

// ValidEmail checks the full local@domain pattern in Strict mode and only
// the presence of '@' in Lenient mode.
func ValidEmail(v string, mode Mode) bool {
	if mode == Lenient {
		return strings.Contains(v, "@")
	}
	return emailPattern.MatchString(v)
}

func ValidCountry(v string) bool {
	return utf8.RuneCountInString(v) == 2
}

// ValidCurrency checks the code length; Lenient mode also requires the code
// to be on the allow-list.
func ValidCurrency(v string, mode Mode) bool {
	if utf8.RuneCountInString(v) != 3 {
		return false
	}
	if mode == Lenient {
		return AllowedCurrencies[v]
	}
	return true
}

func ValidPercent(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThanOrEqual(hundred)
}

// ValidAmount rejects negative due amounts.
func ValidAmount(d decimal.Decimal) bool {
	return !d.IsNegative()
}

func mandatoryMessage(field string) string {
	return field + " is mandatory"
}

func numberMessage(field string) string {
	return field + " must be a number"
}

func percentMessage(field string) string {
	return field + " must be between 0 and 100"
}

const (
	negativeAmountMessage = "due_amount must not be negative"
	dueDateMessage        = "payee_due_date must be in YYYY-MM-DD format"
	statusMessage         = "payee_payment_status must be one of pending, due_now, overdue, completed"
	evidenceMessage       = "Evidence must be uploaded when status is completed"
)
