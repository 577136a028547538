package circuitbreaker

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// unreachableClient points at a closed port so every command fails fast.
func unreachableClient(t *testing.T) *redis.Client {
	t.Helper()

	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestDefaultOptions_AreUsable(t *testing.T) {
	opts := DefaultOptions()

	assert.Greater(t, opts.FailureThreshold, 0)
	assert.Greater(t, opts.FailWindow, time.Duration(0))
	assert.Greater(t, opts.OpenCoolDown, time.Duration(0))
	assert.Greater(t, opts.HalfOpenLease, time.Duration(0))
}

func TestNewRedisBreaker_UsesDefaults(t *testing.T) {
	breaker := NewRedisBreaker(unreachableClient(t), "test", Options{}, discardLogger())

	assert.Equal(t, DefaultOptions(), breaker.opts)
}

func TestNewRedisBreaker_FillsPartialOptions(t *testing.T) {
	breaker := NewRedisBreaker(unreachableClient(t), "test", Options{FailureThreshold: 2}, discardLogger())

	assert.Equal(t, 2, breaker.opts.FailureThreshold)
	assert.Equal(t, DefaultOptions().OpenCoolDown, breaker.opts.OpenCoolDown)
	assert.Equal(t, "cb:", breaker.opts.Prefix)
	assert.False(t, breaker.opts.FailOpen)
}

func TestRedisBreaker_keys(t *testing.T) {
	breaker := NewRedisBreaker(unreachableClient(t), "forms-backend", DefaultOptions(), discardLogger())

	k := breaker.keys()

	assert.Equal(t, "cb:forms-backend:open", k.open)
	assert.Equal(t, "cb:forms-backend:fails", k.fails)
	assert.Equal(t, "cb:forms-backend:tripped", k.tripped)
	assert.Equal(t, "cb:forms-backend:lease", k.lease)
}

func TestRedisBreaker_Allow_RedisDown(t *testing.T) {
	ctx := context.Background()

	failOpen := DefaultOptions()
	breaker := NewRedisBreaker(unreachableClient(t), "down", failOpen, discardLogger())
	assert.NoError(t, breaker.Allow(ctx))

	failClosed := DefaultOptions()
	failClosed.FailOpen = false
	breaker = NewRedisBreaker(unreachableClient(t), "down", failClosed, discardLogger())
	err := breaker.Allow(ctx)
	require.Error(t, err)
	assert.True(t, IsOpen(err))

	// no panics when the outcome cannot be recorded
	breaker.OnFailure(ctx)
	breaker.OnSuccess(ctx)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "CLOSED", Closed.String())
	assert.Equal(t, "HALF_OPEN", HalfOpen.String())
	assert.Equal(t, "OPEN", Open.String())
}
