package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/islamicvirtualuniversity-art/VIL/api"
	"github.com/islamicvirtualuniversity-art/VIL/pkg/core"
)

func main() {
	if err := core.LoadEnv(); err != nil {
		log.Printf("Failed to load env files: %v\n", err)
	}

	cfg, err := core.NewConfigFromEnv()
	if err != nil {
		log.Printf("Failed to load config: %v\n", err)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	otelSvc, err := core.NewOtelService(ctx, &cfg)
	if err != nil {
		log.Printf("Failed to start otel, continuing without it: %v\n", err)
		otelSvc = core.NewNoopOtelService()
	}

	logger := core.NewLoggerWithOtel(cfg, otelSvc)
	slog.SetDefault(logger)

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		otelSvc.Shutdown(shutdownCtx, logger)
	}()

	app, err := buildApp(cfg, otelSvc, logger)
	if err != nil {
		logger.Error("Failed to build app", slog.Any("error", err))
		return
	}

	logger.Info("forms service starting",
		slog.Int("port", cfg.Port),
		slog.String("api_base", cfg.Forms.ResolveAPIBase(nil)),
		slog.String("backend", cfg.Backend.ProxyURL),
	)

	if err := runServer(ctx, app, fmt.Sprintf(":%d", cfg.Port)); err != nil {
		logger.Error("server error", slog.Any("error", err))
	}
}

func buildApp(cfg core.Config, otelSvc core.OtelService, logger *slog.Logger) (*fiber.App, error) {
	return api.New(&api.Config{
		Otel:   otelSvc,
		Logger: logger,
		Config: cfg,
	})
}

func runServer(ctx context.Context, app *fiber.App, addr string) error {
	srvErr := make(chan error, 1)

	go func() {
		srvErr <- app.Listen(addr)
	}()

	select {
	case err := <-srvErr:
		return err
	case <-ctx.Done():
	}

	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		return fmt.Errorf("error during shutdown: %w", err)
	}
	return nil
}
