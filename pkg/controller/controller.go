// Package controller runs one form submission end to end: extract, validate,
// submit, report, and always hand the submit control back to the user.
package controller

import (
	"errors"
	"html/template"
	"log/slog"
	"time"

	"github.com/islamicvirtualuniversity-art/VIL/pkg/forms"
	"github.com/islamicvirtualuniversity-art/VIL/pkg/messages"
	"github.com/islamicvirtualuniversity-art/VIL/pkg/metrics"
	"github.com/islamicvirtualuniversity-art/VIL/pkg/popup"
	"github.com/islamicvirtualuniversity-art/VIL/pkg/submission"
)

// ErrInFlight is returned when a form instance is already submitting.
var ErrInFlight = errors.New("controller: submission already in flight")

// View is the front end's surface for one form on screen.
type View interface {
	// Values returns the raw field values keyed by payload name.
	Values() map[string]string
	// SubmitLabel is the current label of the submit control.
	SubmitLabel() string
	SetSubmit(enabled bool, label string)
	Show(result submission.Result)
	Reset()
	Focus(field string)
}

type Options struct {
	// Base URL the definition path is appended to.
	APIBase string
	// Zero leaves the client default in place.
	Timeout   time.Duration
	Messages  messages.Messages
	Validator *forms.Validator
	Recorder  metrics.Recorder
	Logger    *slog.Logger
}

// Controller is safe for concurrent use; per-form state lives in Instance.
type Controller struct {
	def       forms.Definition
	client    submission.Client
	validator *forms.Validator
	messages  messages.Messages
	recorder  metrics.Recorder
	logger    *slog.Logger
	endpoint  string
	timeout   time.Duration
}

func New(def forms.Definition, client submission.Client, opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	msgs := opts.Messages
	if msgs == (messages.Messages{}) {
		msgs = messages.MustNew().For(messages.DefaultLocale)
	}

	validator := opts.Validator
	if validator == nil {
		validator = forms.NewValidator(forms.WithMessages(msgs))
	}

	recorder := opts.Recorder
	if recorder == nil {
		recorder = metrics.Noop{}
	}

	return &Controller{
		def:       def,
		client:    client,
		validator: validator,
		messages:  msgs,
		recorder:  recorder,
		logger: logger.With(
			slog.String("component", "controller"),
			slog.String("form", def.Name),
		),
		endpoint: def.Endpoint(opts.APIBase),
		timeout:  opts.Timeout,
	}
}

func (c *Controller) Definition() forms.Definition {
	return c.def
}

func (c *Controller) Endpoint() string {
	return c.endpoint
}

func (c *Controller) Messages() messages.Messages {
	return c.messages
}

// Bind attaches a view. Each form on screen gets its own Instance.
func (c *Controller) Bind(view View) *Instance {
	return &Instance{ctrl: c, view: view}
}

// Popup renders result the way the forms display it.
func (c *Controller) Popup(result submission.Result) template.HTML {
	kind := popup.KindError
	if result.OK() {
		kind = popup.KindSuccess
	}

	return popup.Render(popup.View{
		Kind:            kind,
		Message:         result.Message,
		Identifier:      result.Identifier,
		IdentifierLabel: c.messages.Get(c.def.IdentifierKey),
		CloseLabel:      c.messages.Get("popup.close"),
	})
}
