// Package submission posts form payloads to the backend and classifies the
// result for display.
package submission

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/islamicvirtualuniversity-art/VIL/pkg/circuitbreaker"
	"github.com/islamicvirtualuniversity-art/VIL/pkg/messages"
)

const (
	DefaultTimeout = 15 * time.Second
	// Bound on recording an attempt in the breaker store.
	DefaultBreakerTimeout = time.Second

	tracerName   = "github.com/islamicvirtualuniversity-art/VIL/pkg/submission"
	maxBodyBytes = 1 << 20
)

type Client interface {
	Submit(ctx context.Context, req Request) Result
}

type HTTPTransport interface {
	Do(req *http.Request) (*http.Response, error)
}

type Options struct {
	// Override for testing the HTTP client
	HTTPClient HTTPTransport
	// Structured logger using slog package
	Logger *slog.Logger
	// Upper bound on one attempt when the request sets none
	Timeout time.Duration
	// Optional; nil skips the breaker
	Breaker circuitbreaker.Breaker
	// Upper bound on OnSuccess/OnFailure after the request finished
	BreakerTimeout time.Duration
	// Messages used when the request carries none
	Messages messages.Messages
	Tracer   trace.Tracer
}

type service struct {
	client   HTTPTransport
	logger   *slog.Logger
	breaker  circuitbreaker.Breaker
	messages messages.Messages
	tracer   trace.Tracer
	opts     Options
}

func New(opts Options) Client {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger = logger.With(
		slog.String("component", "submission"),
	)

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{}
	}

	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.BreakerTimeout <= 0 {
		opts.BreakerTimeout = DefaultBreakerTimeout
	}

	msgs := opts.Messages
	if msgs == (messages.Messages{}) {
		msgs = messages.MustNew().For(messages.DefaultLocale)
	}

	tracer := opts.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}

	return &service{
		client:   client,
		logger:   logger,
		breaker:  opts.Breaker,
		messages: msgs,
		tracer:   tracer,
		opts:     opts,
	}
}
