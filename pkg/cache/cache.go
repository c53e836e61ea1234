package cache

import (
	"context"
	"time"
)

// Cache defines a named-slot key/value store.
// Get returns "" with a nil error when the key does not exist.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
