package shared

import (
	"context"
	"time"
)

// IdempotencyStore claims client supplied idempotency keys
type IdempotencyStore interface {
	// MarkProcessed claims key for ttl.
	// Returns true if the key was newly claimed, false if it was already held
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed checks if a key is currently claimed
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Release drops a claim so the caller can retry after a failed write
	Release(ctx context.Context, key string) error

	// Close closes the store and releases resources
	Close() error
}
