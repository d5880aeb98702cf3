package payments

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/akylbek/payment-system/payment-tracker/internal/models"
)

// Payload is a record as submitted by a client: only the fields being set are
// present. Numbers are kept as json.Number so that "100" and 100 stay distinct.
type Payload map[string]interface{}

var (
	errNotText   = errors.New("not a string")
	errNotNumber = errors.New("not a number")
)

// DecodePayload reads a single JSON object.
func DecodePayload(r io.Reader) (Payload, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var p Payload
	if err := dec.Decode(&p); err != nil {
		return nil, Malformed("invalid JSON body: %v", err)
	}
	if p == nil {
		return nil, Malformed("request body must be a JSON object")
	}
	return p, nil
}

// ParsePayload is DecodePayload over a byte slice.
func ParsePayload(data []byte) (Payload, error) {
	return DecodePayload(bytes.NewReader(data))
}

func (p Payload) Has(field string) bool {
	_, ok := p[field]
	return ok
}

// Text returns the field when it is present and holds a string.
func (p Payload) Text(field string) (string, bool) {
	s, ok := p[field].(string)
	return s, ok
}

func (p Payload) text(field string) (string, bool, error) {
	v, ok := p[field]
	if !ok || v == nil {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", false, errNotText
	}
	return s, true, nil
}

// Decimal returns the field as a decimal. ok is false when the field is
// absent or null; err is set when it holds anything but a JSON number.
func (p Payload) Decimal(field string) (d decimal.Decimal, ok bool, err error) {
	v, present := p[field]
	if !present || v == nil {
		return decimal.Zero, false, nil
	}
	switch n := v.(type) {
	case json.Number:
		d, err = decimal.NewFromString(n.String())
		if err != nil {
			return decimal.Zero, false, errNotNumber
		}
		return d, true, nil
	case float64:
		return decimal.NewFromFloat(n), true, nil
	case int:
		return decimal.NewFromInt(int64(n)), true, nil
	case int64:
		return decimal.NewFromInt(n), true, nil
	case decimal.Decimal:
		return n, true, nil
	}
	return decimal.Zero, false, errNotNumber
}

// Date returns the field as a calendar date. A present null yields (nil, true, nil).
func (p Payload) Date(field string) (*models.Date, bool, error) {
	v, present := p[field]
	if !present {
		return nil, false, nil
	}
	if v == nil {
		return nil, true, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, true, fmt.Errorf("%s: %w", field, errNotText)
	}
	d, err := models.ParseDate(s)
	if err != nil {
		return nil, true, err
	}
	return &d, true, nil
}

// Status returns the requested status; ok is false for absent or unknown values.
func (p Payload) Status() (models.PaymentStatus, bool) {
	s, isText := p.Text(FieldPaymentStatus)
	if !isText {
		return "", false
	}
	status := models.PaymentStatus(s)
	return status, status.Valid()
}

// EvidenceRef returns the first non-empty evidence reference in the payload.
func (p Payload) EvidenceRef() string {
	for _, field := range EvidenceFields {
		if s, ok := p.Text(field); ok && s != "" {
			return s
		}
	}
	return ""
}

// Without returns a copy of p minus the given fields.
func (p Payload) Without(fields ...string) Payload {
	out := make(Payload, len(p))
	for k, v := range p {
		out[k] = v
	}
	for _, f := range fields {
		delete(out, f)
	}
	return out
}

// With returns a copy of p with field set to value.
func (p Payload) With(field string, value interface{}) Payload {
	out := p.Without()
	out[field] = value
	return out
}
