package controller

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/islamicvirtualuniversity-art/VIL/pkg/submission"
)

type State int32

const (
	Idle State = iota
	Validating
	Invalid
	Submitting
	Succeeded
	Failed
)

var stateName = map[State]string{
	Idle:       "IDLE",
	Validating: "VALIDATING",
	Invalid:    "INVALID",
	Submitting: "SUBMITTING",
	Succeeded:  "SUCCEEDED",
	Failed:     "FAILED",
}

func (s State) String() string {
	return stateName[s]
}

// Instance is one form on screen. At most one submission runs at a time.
type Instance struct {
	ctrl     *Controller
	view     View
	inFlight atomic.Bool
	state    atomic.Int32
}

func (i *Instance) State() State {
	return State(i.state.Load())
}

func (i *Instance) setState(s State) {
	i.state.Store(int32(s))
}

// Submit runs one attempt. The returned error is only ErrInFlight; every
// other failure is reported through the Result and the view.
func (i *Instance) Submit(ctx context.Context) (submission.Result, error) {
	if !i.inFlight.CompareAndSwap(false, true) {
		return submission.Result{}, ErrInFlight
	}
	defer i.inFlight.Store(false)

	c := i.ctrl
	start := time.Now()

	i.setState(Validating)
	payload := c.def.Extract(i.view.Values())

	if violations := c.validator.Validate(payload); len(violations) > 0 {
		i.setState(Invalid)
		defer i.setState(Idle)

		for _, v := range violations {
			c.recorder.Violation(c.def.Name, v.Field, v.Rule)
		}

		result := submission.Invalid(violations)
		c.logger.DebugContext(ctx, "form rejected before submit", slog.Int("violations", len(violations)))
		c.recorder.Submission(c.def.Name, result.Outcome.String(), time.Since(start))

		i.view.Show(result)
		return result, nil
	}

	i.setState(Submitting)
	original := i.view.SubmitLabel()
	defer func() {
		i.view.SetSubmit(true, original)
		i.setState(Idle)
	}()
	i.view.SetSubmit(false, c.messages.Get(c.def.BusyKey))

	result := c.client.Submit(ctx, submission.Request{
		Form:     c.def,
		Endpoint: c.endpoint,
		Payload:  payload,
		Timeout:  c.timeout,
		Messages: c.messages,
	})
	c.recorder.Submission(c.def.Name, result.Outcome.String(), time.Since(start))

	if !result.OK() {
		i.setState(Failed)
		c.logger.WarnContext(ctx, "form submission failed",
			slog.String("outcome", result.Outcome.String()),
			slog.Int("status", result.Status),
			slog.Any("error", result.Err),
		)
		i.view.Show(result)
		return result, nil
	}

	i.setState(Succeeded)
	c.logger.InfoContext(ctx, "form submitted", slog.String("identifier", result.Identifier))
	i.view.Show(result)
	i.view.Reset()
	i.view.Focus(c.def.FirstField)
	return result, nil
}
