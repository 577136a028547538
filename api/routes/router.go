package routes

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/islamicvirtualuniversity-art/VIL/api/handlers"
	"github.com/islamicvirtualuniversity-art/VIL/pkg/core"
	"github.com/islamicvirtualuniversity-art/VIL/pkg/metrics"
)

func RegisterRoutes(app fiber.Router, cfg *core.Config, set *handlers.FormSet, prom *metrics.Prometheus, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.Forms.StaticDir == "" {
		app.Get("/", func(c *fiber.Ctx) error {
			return c.SendString("Backend running!")
		})
	}

	f := app.Group("/forms")
	f.Get("/config", handlers.ClientConfigHandler(cfg.Forms, set))
	f.Post("/feedback/:field", handlers.FeedbackHandler(set))
	f.Post("/mask/:field", handlers.MaskHandler())
	f.Post("/:form", handlers.SubmitFormHandler(set))

	if prom != nil {
		app.Get("/metrics", adaptor.HTTPHandler(prom.Handler()))
	}

	logger.Debug("form routes registered", slog.String("api_base", cfg.Forms.ResolveAPIBase(nil)))
}

// StaticRouter serves the site from dir; directories resolve to index.html.
func StaticRouter(app *fiber.App, dir string) {
	if dir == "" {
		return
	}

	app.Static("/", dir, fiber.Static{
		Index:  "index.html",
		Browse: false,
	})
}
