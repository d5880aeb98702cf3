package events

import (
	"context"
	"errors"
	"time"

	"github.com/akylbek/payment-system/payment-tracker/internal/interfaces"
	"github.com/akylbek/payment-system/payment-tracker/internal/models"
)

// New builds an event stamped with the current time.
func New(eventType, paymentID string, payment *models.Payment) models.PaymentEvent {
	return models.PaymentEvent{
		Type:       eventType,
		PaymentID:  paymentID,
		Payment:    payment,
		OccurredAt: time.Now().UTC(),
	}
}

// MultiPublisher fans an event out to every publisher and joins their errors.
type MultiPublisher []interfaces.EventPublisher

func (m MultiPublisher) Publish(ctx context.Context, event models.PaymentEvent) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, models.PaymentEvent) error { return nil }
