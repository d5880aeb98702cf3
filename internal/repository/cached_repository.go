package repository

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/akylbek/payment-system/payment-tracker/internal/cache"
	"github.com/akylbek/payment-system/payment-tracker/internal/interfaces"
	"github.com/akylbek/payment-system/payment-tracker/internal/models"
	"github.com/akylbek/payment-system/payment-tracker/internal/telemetry"
)

const (
	allPaymentsKey   = "payments:all"
	paymentKeyPrefix = "payments:id:"
)

// CachedPaymentRepository is a read-through cache in front of another
// repository. Every write drops the list key and the affected id keys.
// Cached values are stored documents; derived fields are computed by callers.
type CachedPaymentRepository struct {
	next  interfaces.PaymentRepository
	cache interfaces.Cache
	ttl   time.Duration
}

func NewCachedPaymentRepository(next interfaces.PaymentRepository, c interfaces.Cache, ttl time.Duration) *CachedPaymentRepository {
	return &CachedPaymentRepository{next: next, cache: c, ttl: ttl}
}

func (r *CachedPaymentRepository) Find(ctx context.Context) ([]*models.Payment, error) {
	return cache.GetOrSet(ctx, r.cache, allPaymentsKey, r.ttl, func() ([]*models.Payment, error) {
		return r.next.Find(ctx)
	})
}

func (r *CachedPaymentRepository) FindOne(ctx context.Context, id string) (*models.Payment, error) {
	return cache.GetOrSet(ctx, r.cache, paymentKeyPrefix+id, r.ttl, func() (*models.Payment, error) {
		return r.next.FindOne(ctx, id)
	})
}

func (r *CachedPaymentRepository) InsertOne(ctx context.Context, payment *models.Payment) (string, error) {
	id, err := r.next.InsertOne(ctx, payment)
	if err != nil {
		return "", err
	}
	r.invalidate(ctx)
	return id, nil
}

func (r *CachedPaymentRepository) InsertMany(ctx context.Context, batch []*models.Payment) ([]string, error) {
	ids, err := r.next.InsertMany(ctx, batch)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx)
	return ids, nil
}

func (r *CachedPaymentRepository) UpdateOne(ctx context.Context, id string, partial map[string]interface{}) error {
	err := r.next.UpdateOne(ctx, id, partial)
	r.invalidate(ctx, id)
	return err
}

func (r *CachedPaymentRepository) DeleteOne(ctx context.Context, id string) error {
	err := r.next.DeleteOne(ctx, id)
	r.invalidate(ctx, id)
	return err
}

func (r *CachedPaymentRepository) invalidate(ctx context.Context, ids ...string) {
	keys := []string{allPaymentsKey}
	for _, id := range ids {
		keys = append(keys, paymentKeyPrefix+id)
	}
	if err := r.cache.Delete(ctx, keys...); err != nil {
		telemetry.Logger.Warn("Failed to invalidate payment cache", zap.Strings("keys", keys), zap.Error(err))
	}
}
