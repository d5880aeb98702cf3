package cache

import (
	"context"
	"time"

	"github.com/akylbek/payment-system/payment-tracker/internal/interfaces"
)

// GetOrSet retrieves a value from cache, or calls fn to fetch and cache it.
// fn is only called on a miss or a cache error; failures to store are ignored.
func GetOrSet[T any](ctx context.Context, c interfaces.Cache, key string, expiration time.Duration, fn func() (T, error)) (T, error) {
	var result T

	if err := c.Get(ctx, key, &result); err == nil {
		return result, nil
	}

	result, err := fn()
	if err != nil {
		return result, err
	}

	_ = c.Set(ctx, key, result, expiration)
	return result, nil
}
