// Package metrics exposes prometheus counters for form submissions.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder receives one call per finished submission attempt.
type Recorder interface {
	Submission(form, outcome string, elapsed time.Duration)
	Violation(form, field, rule string)
}

type Config struct {
	// Namespace is the metrics namespace (default: "forms").
	Namespace   string
	ConstLabels prometheus.Labels
	// Buckets for the submission duration histogram.
	// Default: prometheus.DefBuckets
	Buckets []float64
	// Registry defaults to a fresh registry with the go and process collectors.
	Registry *prometheus.Registry
}

type Option func(*Config)

func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

func WithRegistry(registry *prometheus.Registry) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

type Prometheus struct {
	registry    *prometheus.Registry
	submissions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	violations  *prometheus.CounterVec
}

func New(options ...Option) *Prometheus {
	cfg := Config{
		Namespace: "forms",
		Buckets:   prometheus.DefBuckets,
	}
	for _, option := range options {
		option(&cfg)
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.NewRegistry()
		cfg.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	factory := promauto.With(cfg.Registry)

	return &Prometheus{
		registry: cfg.Registry,
		submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Name:        "submissions_total",
			Help:        "Form submission attempts by form and outcome",
			ConstLabels: cfg.ConstLabels,
		}, []string{"form", "outcome"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Name:        "submission_duration_seconds",
			Help:        "Time from submit to outcome, validation included",
			ConstLabels: cfg.ConstLabels,
			Buckets:     cfg.Buckets,
		}, []string{"form"}),

		violations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Name:        "validation_violations_total",
			Help:        "Rejected fields by form, field and rule",
			ConstLabels: cfg.ConstLabels,
		}, []string{"form", "field", "rule"}),
	}
}

func (p *Prometheus) Submission(form, outcome string, elapsed time.Duration) {
	p.submissions.WithLabelValues(form, outcome).Inc()
	p.duration.WithLabelValues(form).Observe(elapsed.Seconds())
}

func (p *Prometheus) Violation(form, field, rule string) {
	p.violations.WithLabelValues(form, field, rule).Inc()
}

// Handler serves the registry in the prometheus exposition format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

// Noop discards everything.
type Noop struct{}

func (Noop) Submission(string, string, time.Duration) {}
func (Noop) Violation(string, string, string)         {}
