package cache

import (
	"context"
	"fmt"

	"github.com/logistics/backend/internal/domain/shared"
	"github.com/logistics/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewIdempotencyStore returns a Redis store when Redis is enabled and reachable.
// Otherwise it falls back to the in-memory store, except in production where
// an unreachable Redis is an error.
func NewIdempotencyStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (shared.IdempotencyStore, error) {
	if !cfg.Redis.Enabled {
		logger.Info("Redis disabled, using in-memory idempotency store")
		return NewInMemoryIdempotencyStore(), nil
	}

	client, err := NewRedisClient(ctx, cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		if cfg.IsProduction() {
			return nil, fmt.Errorf("redis required for idempotency: %w", err)
		}
		logger.Warn("Redis unavailable, falling back to in-memory idempotency store",
			zap.String("addr", cfg.Redis.Addr()),
			zap.Error(err),
		)
		return NewInMemoryIdempotencyStore(), nil
	}

	logger.Info("Using Redis idempotency store", zap.String("addr", cfg.Redis.Addr()))
	return NewRedisIdempotencyStore(client, cfg.Idempotency.KeyPrefix), nil
}
