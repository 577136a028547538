package routes

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/proxy"

	"github.com/islamicvirtualuniversity-art/VIL/api/middleware"
	"github.com/islamicvirtualuniversity-art/VIL/pkg/circuitbreaker"
)

const proxyTimeout = 30 * time.Second

// ProxyRouter forwards /api/* to the backend so pages and API share an
// origin. /api/admin/* additionally requires a verified access token when
// verifier is set.
func ProxyRouter(app fiber.Router, backendURL string, verifier *middleware.CognitoVerifier, breaker circuitbreaker.Breaker, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	api := app.Group("/api")
	if verifier != nil {
		api.Use("/admin", verifier.FiberMiddleware())
	}

	withBreaker := middleware.WithCircuitBreaker(breaker)
	api.All("/*", withBreaker(backendProxy(backendURL, logger)))
}

func backendProxy(backendURL string, logger *slog.Logger) fiber.Handler {
	base := strings.TrimRight(backendURL, "/") + "/api/"

	return func(c *fiber.Ctx) error {
		target := base + c.Params("*")
		if q := c.Request().URI().QueryString(); len(q) > 0 {
			target += "?" + string(q)
		}

		if err := proxy.DoTimeout(c, target, proxyTimeout); err != nil {
			logger.ErrorContext(c.UserContext(), "backend proxy failed",
				slog.String("target", target),
				slog.Any("error", err),
			)
			return fiber.NewError(fiber.StatusBadGateway, err.Error())
		}

		c.Response().Header.Del(fiber.HeaderServer)
		return nil
	}
}
