package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/islamicvirtualuniversity-art/VIL/pkg/circuitbreaker"
)

// WithCircuitBreaker short-circuits next while the breaker is open and
// reports 5xx responses and handler errors as failures. A nil breaker
// returns next unchanged.
func WithCircuitBreaker(breaker circuitbreaker.Breaker) func(fiber.Handler) fiber.Handler {
	return func(next fiber.Handler) fiber.Handler {
		if breaker == nil {
			return next
		}

		return func(c *fiber.Ctx) error {
			if err := breaker.Allow(c.UserContext()); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"error": "service temporarily unavailable",
					"code":  "CIRCUIT_OPEN",
				})
			}

			err := next(c)
			if err != nil || c.Response().StatusCode() >= fiber.StatusInternalServerError {
				breaker.OnFailure(c.UserContext())
			} else {
				breaker.OnSuccess(c.UserContext())
			}
			return err
		}
	}
}
