package cache

import (
	"context"
	"fmt"

	"stocksync-core-layer/internal/ports"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// aggregateNamespaces is the enumerated set of company-scoped cache
// namespaces a sync can stale. Keys are "<namespace>:<companyID>".
var aggregateNamespaces = []string{
	"dashboard",
	"alerts",
	"dead_stock",
}

// RedisInvalidator implements CacheInvalidator on Redis.
type RedisInvalidator struct {
	client *redis.Client
	logger zerolog.Logger
}

// NewRedisInvalidator creates a Redis-backed cache invalidator.
func NewRedisInvalidator(client *redis.Client, logger zerolog.Logger) ports.CacheInvalidator {
	return &RedisInvalidator{client: client, logger: logger}
}

// InvalidateCompany drops every cached aggregate for the company. An
// error here is a sync failure: serving a stale dashboard after new
// data landed is a correctness defect.
func (i *RedisInvalidator) InvalidateCompany(ctx context.Context, companyID string) error {
	keys := make([]string, 0, len(aggregateNamespaces))
	for _, ns := range aggregateNamespaces {
		keys = append(keys, fmt.Sprintf("%s:%s", ns, companyID))
	}

	if err := i.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached aggregates: %w", err)
	}

	i.logger.Debug().
		Str("companyId", companyID).
		Strs("keys", keys).
		Msg("Invalidated cached aggregates")
	return nil
}
