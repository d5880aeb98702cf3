package payments

const (
	FieldID               = "id"
	FieldFirstName        = "payee_first_name"
	FieldLastName         = "payee_last_name"
	FieldAddressLine1     = "payee_address_line_1"
	FieldAddressLine2     = "payee_address_line_2"
	FieldCity             = "payee_city"
	FieldProvinceOrState  = "payee_province_or_state"
	FieldCountry          = "payee_country"
	FieldPostalCode       = "payee_postal_code"
	FieldPhoneNumber      = "payee_phone_number"
	FieldEmail            = "payee_email"
	FieldCurrency         = "currency"
	FieldDueAmount        = "due_amount"
	FieldDiscountPercent  = "discount_percent"
	FieldTaxPercent       = "tax_percent"
	FieldTotalDue         = "total_due"
	FieldDueDate          = "payee_due_date"
	FieldAddedDateUTC     = "payee_added_date_utc"
	FieldPaymentStatus    = "payee_payment_status"
	FieldEvidence         = "evidence"
	FieldEvidenceFile     = "evidence_file"
	FieldEvidenceFilename = "evidence_filename"
)

// MandatoryTextFields must be present and non-empty on every full record.
var MandatoryTextFields = []string{
	FieldAddressLine1,
	FieldCity,
	FieldCountry,
	FieldPostalCode,
	FieldPhoneNumber,
	FieldEmail,
	FieldCurrency,
}

// MandatoryImportFields drop an imported row when any of them is empty.
var MandatoryImportFields = append(append([]string{}, MandatoryTextFields...), FieldDueAmount)

// EditableFields is the allow-list applied by the update path.
var EditableFields = []string{
	FieldDueDate,
	FieldDueAmount,
	FieldPaymentStatus,
	FieldTotalDue,
}

// EvidenceFields are server-assigned references; clients never set them directly.
var EvidenceFields = []string{
	FieldEvidence,
	FieldEvidenceFile,
	FieldEvidenceFilename,
}

// AllowedCurrencies is the ISO 4217 allow-list enforced on imports.
var AllowedCurrencies = map[string]bool{
	"USD": true,
	"EUR": true,
	"GBP": true,
	"INR": true,
	"AUD": true,
}

// AllowedEvidenceExtensions lists the accepted evidence file types.
var AllowedEvidenceExtensions = map[string]bool{
	"pdf": true,
	"png": true,
	"jpg": true,
}
