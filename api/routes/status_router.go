package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/islamicvirtualuniversity-art/VIL/api/handlers"
	"github.com/islamicvirtualuniversity-art/VIL/pkg/circuitbreaker"
)

func StatusRouter(app fiber.Router, rdb *redis.Client, breaker *circuitbreaker.RedisBreaker) {
	app.Get("/status", handlers.GetRDBStatus(rdb, breaker))
}
