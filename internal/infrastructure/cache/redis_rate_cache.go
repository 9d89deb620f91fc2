package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// RedisRateCache stores rates in Redis as decimal strings, letting Redis expire them
type RedisRateCache struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisRateCache wraps an existing client. prefix is prepended to every key.
func NewRedisRateCache(client redis.UniversalClient, prefix string) *RedisRateCache {
	return &RedisRateCache{client: client, prefix: prefix}
}

func (r *RedisRateCache) key(key string) string {
	return r.prefix + key
}

// Lookup reads the rate under key; a missing or expired key is a miss
func (r *RedisRateCache) Lookup(ctx context.Context, key string) (decimal.Decimal, bool, error) {
	val, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("failed to read %s from redis: %w", key, err)
	}

	rate, err := decimal.NewFromString(val)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("failed to parse cached rate %q: %w", val, err)
	}

	return rate, true, nil
}

// Store writes the rate with ttl in a single SET
func (r *RedisRateCache) Store(ctx context.Context, key string, rate decimal.Decimal, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.key(key), rate.String(), ttl).Err(); err != nil {
		return fmt.Errorf("failed to write %s to redis: %w", key, err)
	}
	return nil
}

// Close releases the underlying client
func (r *RedisRateCache) Close() error {
	return r.client.Close()
}
