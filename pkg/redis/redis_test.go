package redis

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/islamicvirtualuniversity-art/VIL/pkg/core"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewClient_Ping_Set_Get(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rdb := NewClient(core.RedisConfig{Addr: addr}, discardLogger())
	require.NotNil(t, rdb)
	defer rdb.Close()

	require.NoError(t, Ping(ctx, rdb))

	key := "cb:test:foo"
	require.NoError(t, rdb.Set(ctx, key, "bar", 5*time.Second).Err())

	val, err := rdb.Get(ctx, key).Result()
	require.NoError(t, err)
	assert.Equal(t, "bar", val)

	_ = rdb.Del(ctx, key).Err()
}

func TestNewClient_Lazy(t *testing.T) {
	rdb := NewClient(core.RedisConfig{Addr: "127.0.0.1:1"}, discardLogger())

	require.NotNil(t, rdb)
	assert.Equal(t, "127.0.0.1:1", rdb.Options().Addr)
	_ = rdb.Close()
}

func TestNewClient_Disabled(t *testing.T) {
	rdb := NewClient(core.RedisConfig{Addr: "localhost:6379", Disable: true}, discardLogger())

	assert.Nil(t, rdb)
	assert.ErrorIs(t, Ping(context.Background(), rdb), ErrDisabled)
}
