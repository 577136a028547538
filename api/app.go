package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/gofiber/contrib/otelfiber/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	slogfiber "github.com/samber/slog-fiber"
	"go.opentelemetry.io/otel/codes"

	"github.com/islamicvirtualuniversity-art/VIL/api/handlers"
	"github.com/islamicvirtualuniversity-art/VIL/api/middleware"
	"github.com/islamicvirtualuniversity-art/VIL/api/routes"
	"github.com/islamicvirtualuniversity-art/VIL/pkg/circuitbreaker"
	"github.com/islamicvirtualuniversity-art/VIL/pkg/core"
	"github.com/islamicvirtualuniversity-art/VIL/pkg/forms"
	"github.com/islamicvirtualuniversity-art/VIL/pkg/messages"
	"github.com/islamicvirtualuniversity-art/VIL/pkg/metrics"
	"github.com/islamicvirtualuniversity-art/VIL/pkg/oauth"
	redisLocal "github.com/islamicvirtualuniversity-art/VIL/pkg/redis"
	"github.com/islamicvirtualuniversity-art/VIL/pkg/submission"
)

const backendBreakerName = "forms-backend"

func errorHandler(logger *slog.Logger, otel core.OtelService) fiber.ErrorHandler {
	handleFiberError := func(ctx *fiber.Ctx, err *fiber.Error) error {
		span := otel.SpanFromContext(ctx.UserContext())
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Message)

		logger.ErrorContext(
			ctx.UserContext(),
			"Fiber Error",
			"Code",
			err.Code,
			"Message",
			err.Message,
		)

		return ctx.
			Status(err.Code).
			SendString(err.Message)
	}

	return func(ctx *fiber.Ctx, err error) error {
		var e *fiber.Error
		if !errors.As(err, &e) {
			logger.ErrorContext(ctx.UserContext(), "unhandled error", slog.Any("error", err))
			e = fiber.ErrInternalServerError
		}
		return handleFiberError(ctx, e)
	}
}

func stackTraceHandler(logger *slog.Logger) func(*fiber.Ctx, any) {
	return func(c *fiber.Ctx, e any) {
		stack := debug.Stack()
		logger.ErrorContext(
			c.UserContext(),
			"panic!",
			"stack",
			string(stack),
			"err",
			e,
		)
	}
}

type Config struct {
	Otel   core.OtelService
	Logger *slog.Logger
	core.Config

	// Optional overrides, mostly for tests.
	RedisClient      *redis.Client
	HTTPClient       submission.HTTPTransport
	Metrics          *metrics.Prometheus
	ValidatorOptions []forms.ValidatorOption
}

func New(cfg *Config) (*fiber.App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	otelSvc := cfg.Otel
	if otelSvc == nil {
		otelSvc = core.NewNoopOtelService()
	}

	catalog, err := messages.New()
	if err != nil {
		return nil, err
	}
	if err := catalog.MergeFile(cfg.Forms.MessagesFile); err != nil {
		return nil, fmt.Errorf("failed to load message overrides: %w", err)
	}

	rdb := cfg.RedisClient
	if rdb == nil {
		rdb = redisLocal.NewClient(cfg.Config.Redis, logger)
	}

	var (
		redisBreaker *circuitbreaker.RedisBreaker
		breaker      circuitbreaker.Breaker
	)
	if rdb != nil {
		redisBreaker = circuitbreaker.NewRedisBreaker(rdb, backendBreakerName, circuitbreaker.DefaultOptions(), logger)
		breaker = redisBreaker
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = oauth.BackendClient(context.Background(), cfg.Backend, logger)
	}

	prom := cfg.Metrics
	if prom == nil {
		prom = metrics.New()
	}

	client := submission.New(submission.Options{
		HTTPClient: httpClient,
		Logger:     logger,
		Timeout:    cfg.Forms.SubmitTimeout,
		Breaker:    breaker,
		Messages:   catalog.For(cfg.Forms.Locale),
	})

	set := handlers.NewFormSet(catalog, client, handlers.FormSetOptions{
		APIBase:          cfg.Forms.ResolveAPIBase(nil),
		Timeout:          cfg.Forms.SubmitTimeout,
		DefaultLocale:    cfg.Forms.Locale,
		Recorder:         prom,
		Logger:           logger,
		ValidatorOptions: cfg.ValidatorOptions,
	})

	var verifier *middleware.CognitoVerifier
	if !cfg.SkipAuth {
		verifier, err = middleware.NewCognitoVerifier(middleware.CognitoConfig{
			Region:     cfg.Cognito.Region,
			UserPoolID: cfg.Cognito.UserPoolID,
			ClientID:   cfg.Cognito.AppClientID,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize cognito middleware: %w", err)
		}
	}

	fiberConfig := fiber.Config{
		ErrorHandler: errorHandler(logger, otelSvc),
	}

	app := fiber.New(fiberConfig)

	app.Use(recover.New(recover.Config{
		Next:              nil,
		EnableStackTrace:  true,
		StackTraceHandler: stackTraceHandler(logger),
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "*",
		AllowMethods: "*",
	}))

	app.Use(otelfiber.Middleware())

	app.Use(slogfiber.NewWithConfig(
		logger,
		slogfiber.Config{
			WithRequestID: true,
			WithSpanID:    true,
			WithTraceID:   true,
		},
	))

	routes.StatusRouter(app, rdb, redisBreaker)
	routes.RegisterRoutes(app, &cfg.Config, set, prom, logger)
	routes.ProxyRouter(app, cfg.Backend.ProxyURL, verifier, breaker, logger)
	routes.StaticRouter(app, cfg.Forms.StaticDir)

	return app, nil
}
