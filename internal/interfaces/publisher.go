package interfaces

import (
	"context"

	"github.com/akylbek/payment-system/payment-tracker/internal/models"
)

// EventPublisher announces committed payment changes. Delivery is best effort.
type EventPublisher interface {
	Publish(ctx context.Context, event models.PaymentEvent) error
}
