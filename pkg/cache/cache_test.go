package cache_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/pkg/cache"
)

func TestDisabledStoreAlwaysMisses(t *testing.T) {
	s := cache.New(nil)
	ctx := context.Background()

	assert.False(t, s.Enabled())
	require.NoError(t, s.Set(ctx, "k", 1, time.Minute))

	var v int
	assert.False(t, s.Get(ctx, "k", &v))
	assert.NoError(t, s.Forget(ctx, "k"))
}

func TestRememberComputesOnMiss(t *testing.T) {
	s := cache.New(nil)
	calls := 0
	fn := func() (string, error) {
		calls++
		return "fresh", nil
	}

	v, err := cache.Remember(context.Background(), s, "k", time.Minute, fn)
	require.NoError(t, err)
	assert.Equal(t, "fresh", v)

	_, _ = cache.Remember(context.Background(), s, "k", time.Minute, fn)
	assert.Equal(t, 2, calls)
}

func TestRememberPropagatesError(t *testing.T) {
	boom := errors.New("db down")
	_, err := cache.Remember(context.Background(), cache.New(nil), "k", time.Minute, func() (int, error) {
		return 0, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestRedisRoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	rdb, err := cache.Connect(ctx, addr, os.Getenv("REDIS_PASSWORD"))
	require.NoError(t, err)
	defer rdb.Close()

	s := cache.New(rdb)
	require.NoError(t, s.Set(ctx, "test:status", map[string]bool{"enabled": true}, time.Minute))

	var got map[string]bool
	require.True(t, s.Get(ctx, "test:status", &got))
	assert.True(t, got["enabled"])

	require.NoError(t, s.Forget(ctx, "test:status"))
	assert.False(t, s.Get(ctx, "test:status", &got))
}
