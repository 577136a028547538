package submission

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/islamicvirtualuniversity-art/VIL/pkg/circuitbreaker"
	"github.com/islamicvirtualuniversity-art/VIL/pkg/messages"
)

func (s *service) Submit(ctx context.Context, req Request) (result Result) {
	ctx, span := s.tracer.Start(ctx, "submission.Submit",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("form.name", req.Form.Name),
			attribute.String("http.url", req.Endpoint),
		),
	)
	defer func() {
		span.SetAttributes(
			attribute.String("form.outcome", result.Outcome.String()),
			attribute.Int("http.status_code", result.Status),
		)
		if !result.OK() {
			if result.Err != nil {
				span.RecordError(result.Err)
			}
			span.SetStatus(codes.Error, result.Outcome.String())
		}
		span.End()
	}()

	msgs := req.Messages
	if msgs == (messages.Messages{}) {
		msgs = s.messages
	}

	requestID := uuid.NewString()
	log := s.logger.With(
		slog.String("form", req.Form.Name),
		slog.String("submit_url", req.Endpoint),
		slog.String("request_id", requestID),
	)

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = s.opts.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if s.breaker != nil {
		if err := s.breaker.Allow(ctx); err != nil {
			if !errors.Is(err, circuitbreaker.ErrCircuitOpen) && timedOut(ctx, err) {
				log.ErrorContext(ctx, "submit timed out in circuit breaker", slog.Any("error", err))
				return s.timeoutError(msgs, fmt.Errorf("circuit breaker: %w", err))
			}

			log.WarnContext(ctx, "submit blocked by circuit breaker", slog.Any("error", err))
			return Result{
				Outcome: NetworkError,
				Message: msgs.Get("submit.unavailable"),
				Err:     err,
			}
		}
	}

	body, err := json.Marshal(req.Payload)
	if err != nil {
		log.ErrorContext(ctx, "submit marshal failed", slog.Any("error", err))
		return Result{
			Outcome: ServerError,
			Message: msgs.Get(req.Form.FailureKey),
			Err:     fmt.Errorf("marshal submit body: %w", err),
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.Endpoint, bytes.NewReader(body))
	if err != nil {
		log.ErrorContext(ctx, "submit create request failed", slog.Any("error", err))
		return s.networkError(msgs, req.Endpoint, fmt.Errorf("create submit request: %w", err))
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(httpReq.Header))

	log.DebugContext(ctx, "submit request prepared",
		slog.String("method", httpReq.Method),
		slog.String("host", httpReq.URL.Host),
		slog.String("path", httpReq.URL.Path),
		slog.Duration("timeout", timeout),
	)

	start := time.Now()
	resp, err := s.client.Do(httpReq)
	latency := time.Since(start)

	if err != nil {
		s.onFailure(ctx)

		if timedOut(ctx, err) {
			log.ErrorContext(ctx, "submit timed out",
				slog.Any("error", err),
				slog.Duration("latency", latency),
			)
			return s.timeoutError(msgs, fmt.Errorf("submit request: %w", err))
		}

		log.ErrorContext(ctx, "submit request failed",
			slog.Any("error", err),
			slog.Duration("latency", latency),
		)
		return s.networkError(msgs, req.Endpoint, fmt.Errorf("submit request: %w", err))
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		s.onFailure(ctx)
		log.ErrorContext(ctx, "submit read body failed", slog.Any("error", err))
		if timedOut(ctx, err) {
			return s.timeoutError(msgs, fmt.Errorf("read submit response: %w", err))
		}
		return s.networkError(msgs, req.Endpoint, fmt.Errorf("read submit response: %w", err))
	}

	log.InfoContext(ctx, "submit response received",
		slog.Int("status", resp.StatusCode),
		slog.String("content_type", resp.Header.Get("Content-Type")),
		slog.Duration("latency", latency),
	)

	if resp.StatusCode >= http.StatusInternalServerError {
		s.onFailure(ctx)
	} else {
		s.onSuccess(ctx)
	}

	return s.classify(log, msgs, req, resp.StatusCode, respBytes)
}

func (s *service) classify(log *slog.Logger, msgs messages.Messages, req Request, status int, body []byte) Result {
	statusText := msgs.Text("submit.server_status", map[string]string{"status": strconv.Itoa(status)})
	ok := status >= 200 && status < 300

	var decoded response
	if err := json.Unmarshal(body, &decoded); err != nil {
		log.Error("submit decode failed",
			slog.Int("status", status),
			slog.String("body_snippet", snippet(body)),
			slog.Any("error", err),
		)
		return Result{
			Outcome: ServerError,
			Message: statusText,
			Status:  status,
			Err:     fmt.Errorf("decode submit response: %w", err),
		}
	}

	if ok && decoded.succeeded() {
		message := text(decoded.Message)
		if message == "" {
			message = msgs.Get(req.Form.SuccessKey)
		}

		log.Debug("submit accepted", slog.String("identifier", decoded.identifier()))
		return Result{
			Outcome:    Success,
			Message:    message,
			Identifier: decoded.identifier(),
			Status:     status,
		}
	}

	message := text(decoded.Error)
	if message == "" {
		message = text(decoded.Message)
	}
	if message == "" {
		if ok {
			message = msgs.Get(req.Form.FailureKey)
		} else {
			message = statusText
		}
	}

	log.Error("submit rejected",
		slog.Int("status", status),
		slog.String("body_snippet", snippet(body)),
	)
	return Result{
		Outcome: ServerError,
		Message: message,
		Status:  status,
		Err:     fmt.Errorf("submit rejected: status=%d", status),
	}
}

func (s *service) networkError(msgs messages.Messages, endpoint string, err error) Result {
	return Result{
		Outcome: NetworkError,
		Message: msgs.Text("submit.network", map[string]string{"server": serverAddress(endpoint)}),
		Err:     err,
	}
}

func (s *service) timeoutError(msgs messages.Messages, err error) Result {
	return Result{
		Outcome: NetworkError,
		Message: msgs.Get("submit.timeout"),
		Err:     err,
	}
}

func timedOut(ctx context.Context, err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded)
}

// Breaker bookkeeping outlives the submit deadline so a timed out attempt is
// still counted, but gets its own short bound.
func (s *service) onFailure(ctx context.Context) {
	if s.breaker == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.BreakerTimeout)
	defer cancel()
	s.breaker.OnFailure(ctx)
}

func (s *service) onSuccess(ctx context.Context) {
	if s.breaker == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.BreakerTimeout)
	defer cancel()
	s.breaker.OnSuccess(ctx)
}

// serverAddress is the scheme and host of endpoint, or endpoint itself when
// it is relative.
func serverAddress(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return endpoint
	}
	return u.Scheme + "://" + u.Host
}

func snippet(body []byte) string {
	s := string(body)
	if len(s) > 800 {
		s = s[:800] + "..."
	}
	return s
}
