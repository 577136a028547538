package circuitbreaker

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestRedisClient(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func newTestBreaker(t *testing.T, rdb *redis.Client, opts Options) *RedisBreaker {
	t.Helper()

	breaker := NewRedisBreaker(rdb, "redisBreaker"+t.Name(), opts, discardLogger())
	k := breaker.keys()
	t.Cleanup(func() {
		_ = rdb.Del(context.Background(), k.open, k.fails, k.tripped, k.lease).Err()
	})
	return breaker
}

func TestRedisBreaker_Allow(t *testing.T) {
	rdb := newTestRedisClient(t)
	breaker := newTestBreaker(t, rdb, DefaultOptions())

	err := breaker.Allow(context.Background())

	require.NoErrorf(t, err, "The Allow method returned an error: %v", err)
}

func TestRedisBreaker_OnFailure_TransitionsToOpen(t *testing.T) {
	rdb := newTestRedisClient(t)

	opts := DefaultOptions()
	opts.FailureThreshold = 2

	ctx := context.Background()
	breaker := newTestBreaker(t, rdb, opts)
	k := breaker.keys()

	breaker.OnFailure(ctx)

	fails, err := rdb.Get(ctx, k.fails).Int64()
	require.NoError(t, err)
	require.Equal(t, int64(1), fails)

	state, err := breaker.State(ctx)
	require.NoError(t, err)
	require.Equal(t, Closed, state)

	breaker.OnFailure(ctx)

	exists, err := rdb.Exists(ctx, k.open).Result()
	require.NoError(t, err)
	require.Equal(t, int64(1), exists)

	exists, err = rdb.Exists(ctx, k.fails).Result()
	require.NoError(t, err)
	require.Equal(t, int64(0), exists)

	require.ErrorIs(t, breaker.Allow(ctx), ErrCircuitOpen)
}

func TestRedisBreaker_HalfOpen_SingleProbe(t *testing.T) {
	rdb := newTestRedisClient(t)

	opts := DefaultOptions()
	opts.FailureThreshold = 1
	opts.OpenCoolDown = 100 * time.Millisecond

	ctx := context.Background()
	breaker := newTestBreaker(t, rdb, opts)

	breaker.OnFailure(ctx)
	require.ErrorIs(t, breaker.Allow(ctx), ErrCircuitOpen)

	time.Sleep(150 * time.Millisecond)

	state, err := breaker.State(ctx)
	require.NoError(t, err)
	require.Equal(t, HalfOpen, state)

	require.NoError(t, breaker.Allow(ctx), "first caller holds the probe lease")
	require.ErrorIs(t, breaker.Allow(ctx), ErrCircuitOpen)

	breaker.OnSuccess(ctx)

	state, err = breaker.State(ctx)
	require.NoError(t, err)
	require.Equal(t, Closed, state)
	require.NoError(t, breaker.Allow(ctx))
}

func TestRedisBreaker_HalfOpen_ProbeFailureReopens(t *testing.T) {
	rdb := newTestRedisClient(t)

	opts := DefaultOptions()
	opts.FailureThreshold = 1
	opts.OpenCoolDown = 100 * time.Millisecond

	ctx := context.Background()
	breaker := newTestBreaker(t, rdb, opts)

	breaker.OnFailure(ctx)
	time.Sleep(150 * time.Millisecond)
	require.NoError(t, breaker.Allow(ctx))

	breaker.OnFailure(ctx)

	state, err := breaker.State(ctx)
	require.NoError(t, err)
	require.Equal(t, Open, state)
}
