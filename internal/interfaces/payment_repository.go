package interfaces

import (
	"context"

	"github.com/akylbek/payment-system/payment-tracker/internal/models"
)

// PaymentRepository defines the contract for payment data access.
// Lookups are by exact id; FindOne, UpdateOne and DeleteOne return
// payments.ErrNotFound when no record matches.
type PaymentRepository interface {
	Find(ctx context.Context) ([]*models.Payment, error)
	FindOne(ctx context.Context, id string) (*models.Payment, error)
	InsertOne(ctx context.Context, payment *models.Payment) (string, error)
	// InsertMany stores all records or none.
	InsertMany(ctx context.Context, payments []*models.Payment) ([]string, error)
	UpdateOne(ctx context.Context, id string, partial map[string]interface{}) error
	DeleteOne(ctx context.Context, id string) error
}
