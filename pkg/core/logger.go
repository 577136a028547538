package core

import (
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
	"go.opentelemetry.io/contrib/bridges/otelslog"
)

const serviceName = "forms-service"

func newStdoutHandler(cfg Config, out io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{}
	if !cfg.IsProd() {
		opts.Level = slog.LevelDebug
	}

	if cfg.IsProd() {
		return slog.NewJSONHandler(out, opts)
	}
	return slog.NewTextHandler(out, opts)
}

func NewLogger(cfg Config) *slog.Logger {
	return NewLoggerTo(cfg, os.Stdout)
}

// NewLoggerTo is NewLogger with an explicit sink.
func NewLoggerTo(cfg Config, out io.Writer) *slog.Logger {
	return slog.New(newStdoutHandler(cfg, out)).With(
		slog.String("environment", cfg.Environment),
	)
}

func NewLoggerWithOtel(cfg Config, otel OtelService) *slog.Logger {
	stdoutHandler := newStdoutHandler(cfg, os.Stdout)
	otelHandler := otelslog.NewHandler(
		serviceName,
		otelslog.WithLoggerProvider(otel.LoggerProvider()),
	)

	return slog.New(
		slogmulti.Fanout(
			stdoutHandler,
			otelHandler,
		),
	).With(slog.String("environment", cfg.Environment))
}

// DiscardLogger drops everything. Used where a logger is optional.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
