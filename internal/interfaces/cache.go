package interfaces

import (
	"context"
	"time"
)

// Cache stores JSON-encoded values by key. Get returns an error on a miss.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
