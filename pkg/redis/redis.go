// Package redis builds the instrumented redis client that backs the
// circuit breaker and the status check.
package redis

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"github.com/islamicvirtualuniversity-art/VIL/pkg/core"
)

const (
	defaultDialTimeout  = 2 * time.Second
	defaultReadTimeout  = 2 * time.Second
	defaultWriteTimeout = 2 * time.Second
	defaultPoolTimeout  = 2 * time.Second

	defaultPoolSize     = 20
	defaultMinIdleConns = 2
)

var ErrDisabled = errors.New("redis is disabled")

// NewClient returns nil when redis is disabled in cfg. Connecting is lazy.
func NewClient(cfg core.RedisConfig, logger *slog.Logger) *redis.Client {
	if logger == nil {
		logger = slog.Default()
	}

	logger = logger.With(
		slog.String("component", "redis"),
		slog.String("addr", cfg.Addr),
		slog.Int("db", cfg.DB),
	)

	if cfg.Disable {
		logger.Info("redis disabled, circuit breaker will not be used")
		return nil
	}

	opts := &redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  defaultDialTimeout,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		PoolTimeout:  defaultPoolTimeout,
		PoolSize:     defaultPoolSize,
		MinIdleConns: defaultMinIdleConns,
	}

	logger.Info("initializing redis client")

	rdb := redis.NewClient(opts)

	if err := redisotel.InstrumentTracing(rdb); err != nil {
		logger.Warn("otel tracing instrumentation failed", slog.Any("error", err))
	}
	if err := redisotel.InstrumentMetrics(rdb); err != nil {
		logger.Warn("otel metrics instrumentation failed", slog.Any("error", err))
	}

	return rdb
}

// Ping reports ErrDisabled for a nil client.
func Ping(ctx context.Context, rdb *redis.Client) error {
	if rdb == nil {
		return ErrDisabled
	}
	return rdb.Ping(ctx).Err()
}
