package payments

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/akylbek/payment-system/payment-tracker/internal/models"
)

func TestNewPayment_ComputesTotalAndStatus(t *testing.T) {
	now := time.Date(2024, time.April, 1, 15, 0, 0, 0, time.UTC)
	p := NewPayment(validPayload(t), now)

	if !p.TotalDue.Equal(decimal.NewFromInt(176)) {
		t.Errorf("expected total 176, got %s", p.TotalDue)
	}
	if p.PayeePaymentStatus != models.StatusDueNow {
		t.Errorf("expected due_now, got %q", p.PayeePaymentStatus)
	}
	if p.PayeeAddedDateUTC == nil || !p.PayeeAddedDateUTC.Equal(now) {
		t.Errorf("expected added date %s, got %v", now, p.PayeeAddedDateUTC)
	}
	if p.PayeeFirstName != "Ada" || p.Currency != "GBP" {
		t.Errorf("text fields not copied: %+v", p)
	}
}

func TestNewPayment_IgnoresClientTotal(t *testing.T) {
	payload := validPayload(t).With(FieldTotalDue, 1.0)
	p := NewPayment(payload, time.Now())
	if !p.TotalDue.Equal(decimal.NewFromInt(176)) {
		t.Errorf("expected server-side total 176, got %s", p.TotalDue)
	}
}

func TestUpdateFields(t *testing.T) {
	current := &models.Payment{
		DueAmount:       decimal.NewFromInt(100),
		DiscountPercent: decimal.NewFromInt(10),
		TaxPercent:      decimal.NewFromInt(5),
	}

	t.Run("restricts to editable fields", func(t *testing.T) {
		payload := Payload{
			FieldDueAmount: 200.0,
			FieldCity:      "Paris",
			FieldTotalDue:  5.0,
		}
		partial := UpdateFields(payload, current)
		if _, ok := partial[FieldCity]; ok {
			t.Errorf("non-editable field leaked into partial: %v", partial)
		}
		total, _ := partial[FieldTotalDue].(decimal.Decimal)
		if !total.Equal(decimal.NewFromInt(189)) {
			t.Errorf("expected total 189 from stored percentages, got %v", partial[FieldTotalDue])
		}
	})

	t.Run("total recomputed when amount unchanged", func(t *testing.T) {
		partial := UpdateFields(Payload{FieldPaymentStatus: "pending"}, current)
		if partial[FieldPaymentStatus] != models.StatusPending {
			t.Errorf("expected status pending, got %v", partial[FieldPaymentStatus])
		}
		total, _ := partial[FieldTotalDue].(decimal.Decimal)
		if !total.Equal(decimal.RequireFromString("94.5")) {
			t.Errorf("expected total 94.5, got %v", partial[FieldTotalDue])
		}
	})

	t.Run("null due date clears it", func(t *testing.T) {
		partial := UpdateFields(Payload{FieldDueDate: nil}, current)
		v, ok := partial[FieldDueDate]
		if !ok {
			t.Fatal("expected payee_due_date in partial")
		}
		if d, _ := v.(*models.Date); d != nil {
			t.Errorf("expected nil date, got %v", d)
		}
	})
}
