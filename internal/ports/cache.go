package ports

import (
	"context"
	"time"
)

// Cache stores short-lived upstream payloads such as the public layout chrome.
type Cache interface {
	// Set stores value under key. A zero TTL keeps the key until deleted.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Get returns nil when the key does not exist or has expired.
	Get(ctx context.Context, key string) ([]byte, error)
	// Delete reports whether the key existed.
	Delete(ctx context.Context, key string) (bool, error)
	Health(ctx context.Context) error
}
