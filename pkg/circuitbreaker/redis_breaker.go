package circuitbreaker

import (
	"context"
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// onFailureScript counts a failure inside the window and trips the breaker
// when the threshold is reached or when a half-open probe failed.
//
// KEYS: open, fails, tripped, lease
// ARGV: threshold, window ms, cooldown ms
var onFailureScript = redis.NewScript(`
local fails = redis.call("INCR", KEYS[2])
if redis.call("PTTL", KEYS[2]) < 0 then
	redis.call("PEXPIRE", KEYS[2], ARGV[2])
end

local probing = redis.call("EXISTS", KEYS[3]) == 1
if probing or fails >= tonumber(ARGV[1]) then
	redis.call("SET", KEYS[1], "1", "PX", ARGV[3])
	redis.call("SET", KEYS[3], "1", "PX", tonumber(ARGV[3]) * 2)
	redis.call("DEL", KEYS[2], KEYS[4])
	return 1
end
return 0
`)

type RedisBreaker struct {
	// Redis client used to read and update the circuit state.
	rdb redis.UniversalClient
	// Name of the breaker, used in combination with the prefix when constructing redis keys.
	name string
	// Defines the behaviour and timing characteristics of the breaker.
	opts   Options
	logger *slog.Logger
}

func NewRedisBreaker(rdb redis.UniversalClient, name string, opts Options, logger *slog.Logger) *RedisBreaker {
	if logger == nil {
		logger = slog.Default()
	}

	return &RedisBreaker{
		rdb:  rdb,
		name: name,
		opts: opts.withDefaults(),
		logger: logger.With(
			slog.String("component", "circuitbreaker"),
			slog.String("breaker", name),
		),
	}
}

type breakerKeys struct {
	open    string
	fails   string
	tripped string
	lease   string
}

func (b *RedisBreaker) keys() breakerKeys {
	prefix := b.opts.Prefix + b.name + ":"
	return breakerKeys{
		open:    prefix + "open",
		fails:   prefix + "fails",
		tripped: prefix + "tripped",
		lease:   prefix + "lease",
	}
}

// Allow returns nil if the call may proceed, or ErrCircuitOpen if it must be blocked.
// After the cool-down only the holder of the half-open lease gets through.
func (b *RedisBreaker) Allow(ctx context.Context) error {
	k := b.keys()

	open, err := b.rdb.Exists(ctx, k.open).Result()
	if err != nil {
		return b.blind(ctx, err)
	}
	if open == 1 {
		return ErrCircuitOpen
	}

	tripped, err := b.rdb.Exists(ctx, k.tripped).Result()
	if err != nil {
		return b.blind(ctx, err)
	}
	if tripped == 0 {
		return nil
	}

	acquired, err := b.rdb.SetNX(ctx, k.lease, "1", b.opts.HalfOpenLease).Result()
	if err != nil {
		return b.blind(ctx, err)
	}
	if !acquired {
		return ErrCircuitOpen
	}

	b.logger.InfoContext(ctx, "circuit half-open, probing backend")
	return nil
}

func (b *RedisBreaker) blind(ctx context.Context, err error) error {
	b.logger.WarnContext(ctx, "circuit state unavailable",
		slog.Any("error", err),
		slog.Bool("fail_open", b.opts.FailOpen),
	)
	if b.opts.FailOpen {
		return nil
	}
	return ErrCircuitOpen
}

func (b *RedisBreaker) OnSuccess(ctx context.Context) {
	k := b.keys()

	closed, err := b.rdb.Del(ctx, k.fails, k.tripped, k.lease).Result()
	if err != nil {
		b.logger.WarnContext(ctx, "circuit reset failed", slog.Any("error", err))
		return
	}
	if closed > 0 {
		b.logger.DebugContext(ctx, "circuit counters cleared")
	}
}

func (b *RedisBreaker) OnFailure(ctx context.Context) {
	k := b.keys()

	opened, err := onFailureScript.Run(ctx, b.rdb,
		[]string{k.open, k.fails, k.tripped, k.lease},
		b.opts.FailureThreshold,
		b.opts.FailWindow.Milliseconds(),
		b.opts.OpenCoolDown.Milliseconds(),
	).Int()
	if err != nil {
		b.logger.WarnContext(ctx, "circuit failure not recorded", slog.Any("error", err))
		return
	}

	if opened == 1 {
		b.logger.WarnContext(ctx, "circuit opened",
			slog.Duration("cooldown", b.opts.OpenCoolDown),
		)
	}
}

// State reports the current position of the breaker.
func (b *RedisBreaker) State(ctx context.Context) (State, error) {
	k := b.keys()

	open, err := b.rdb.Exists(ctx, k.open).Result()
	if err != nil {
		return Closed, err
	}
	if open == 1 {
		return Open, nil
	}

	tripped, err := b.rdb.Exists(ctx, k.tripped).Result()
	if err != nil {
		return Closed, err
	}
	if tripped == 1 {
		return HalfOpen, nil
	}
	return Closed, nil
}

// IsOpen reports whether err came from a blocked breaker.
func IsOpen(err error) bool {
	return errors.Is(err, ErrCircuitOpen)
}
