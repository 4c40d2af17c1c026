// Package cache is a thin JSON cache over Redis. A Store built without a
// client is valid and behaves as an always-miss cache, so the storefront
// runs unchanged when REDIS_ADDR is empty.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
)

const keyPrefix = "storefront:cache:"

// Store wraps a Redis client.
type Store struct {
	rdb *redis.Client
}

// Connect dials addr and verifies the connection with a ping.
func Connect(ctx context.Context, addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("cache: redis ping: %w", err)
	}
	return rdb, nil
}

// New returns a Store on rdb; rdb may be nil.
func New(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// Enabled reports whether a Redis client backs the store.
func (s *Store) Enabled() bool { return s != nil && s.rdb != nil }

// Get unmarshals the value under key into dest and reports a hit.
func (s *Store) Get(ctx context.Context, key string, dest any) bool {
	if !s.Enabled() {
		return false
	}

	val, err := s.rdb.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		metrics.CacheMisses.WithLabelValues(key).Inc()
		return false
	}
	if err := json.Unmarshal(val, dest); err != nil {
		metrics.CacheMisses.WithLabelValues(key).Inc()
		return false
	}

	metrics.CacheHits.WithLabelValues(key).Inc()
	return true
}

// Set stores value under key for ttl.
func (s *Store) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if !s.Enabled() {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, keyPrefix+key, data, ttl).Err()
}

// Forget removes keys.
func (s *Store) Forget(ctx context.Context, keys ...string) error {
	if !s.Enabled() || len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = keyPrefix + k
	}
	return s.rdb.Del(ctx, full...).Err()
}

// Remember returns the cached value for key or computes it with fn and
// caches the result. Cache errors never fail the call.
func Remember[T any](ctx context.Context, s *Store, key string, ttl time.Duration, fn func() (T, error)) (T, error) {
	var cached T
	if s.Get(ctx, key, &cached) {
		return cached, nil
	}

	v, err := fn()
	if err != nil {
		return v, err
	}
	if err := s.Set(ctx, key, v, ttl); err != nil {
		logger.WithCtx(ctx).Warn("cache: set failed", "key", key, "error", err)
	}
	return v, nil
}
