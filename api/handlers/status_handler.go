package handlers

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/islamicvirtualuniversity-art/VIL/pkg/circuitbreaker"
	"github.com/islamicvirtualuniversity-art/VIL/pkg/core"
	redisLocal "github.com/islamicvirtualuniversity-art/VIL/pkg/redis"
)

const statusTimeout = 2 * time.Second

// GetRDBStatus returns 200 while the breaker store is reachable or
// deliberately disabled, and 503 otherwise.
func GetRDBStatus(rdb *redis.Client, breaker *circuitbreaker.RedisBreaker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), statusTimeout)
		defer cancel()

		err := redisLocal.Ping(ctx, rdb)
		if errors.Is(err, redisLocal.ErrDisabled) {
			return c.JSON(fiber.Map{"redis": "disabled"})
		}
		if err != nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "redis unavailable")
		}

		body := fiber.Map{"redis": "ok"}
		if breaker != nil {
			if state, err := breaker.State(ctx); err == nil {
				body["backend_circuit"] = state.String()
			}
		}
		return c.JSON(body)
	}
}

// ClientConfigHandler tells a page where to send form posts, resolved
// against the origin the page was served from.
func ClientConfigHandler(cfg core.FormsConfig, set *FormSet) fiber.Handler {
	return func(c *fiber.Ctx) error {
		origin, err := url.Parse(c.BaseURL())
		if err != nil {
			origin = nil
		}

		return c.JSON(fiber.Map{
			"api_base":   cfg.ResolveAPIBase(origin),
			"locale":     set.Locale(c),
			"timeout_ms": cfg.SubmitTimeout.Milliseconds(),
		})
	}
}
