package cache

import (
	"context"
	"time"
)

// IdempotencyStore remembers keys of requests that have already been accepted.
type IdempotencyStore interface {
	// MarkProcessed records key for ttl. It returns false if the key is already recorded.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release forgets key so a failed request can be retried with it.
	Release(ctx context.Context, key string) error

	Close() error
}
