package circuitbreaker

import (
	"context"
	"errors"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

const (
	defaultFailureThreshold = 5
	defaultFailWindow       = 10
	defaultOpenCooldown     = 30
	defaultHalfOpenLease    = 5
	defaultFailOpen         = true
	defaultPrefix           = "cb:"
)

type State int

const (
	Closed State = iota
	HalfOpen
	Open
)

var stateName = map[State]string{
	Closed:   "CLOSED",
	HalfOpen: "HALF_OPEN",
	Open:     "OPEN",
}

func (s State) String() string {
	return stateName[s]
}

// Breaker guards calls to the forms backend. Callers ask Allow before the
// call and report the outcome with OnSuccess or OnFailure.
type Breaker interface {
	Allow(ctx context.Context) error
	OnSuccess(ctx context.Context)
	OnFailure(ctx context.Context)
}

type Options struct {
	// Number of failures before entering open state.
	FailureThreshold int
	// Time between failures to count as an outage.
	FailWindow time.Duration
	// How long to stay in open state before triggering half-open state.
	OpenCoolDown time.Duration
	// Time lease to allow only one instance at a time to probe whether the circuit can be closed.
	HalfOpenLease time.Duration
	// What Allow does while redis is unreachable and the state is unknown.
	// TRUE: requests proceed without the breaker participating
	// FALSE: requests are blocked
	FailOpen bool
	// Key prefix to prevent name clashing.
	Prefix string
}

func DefaultOptions() Options {
	return Options{
		FailureThreshold: defaultFailureThreshold,
		FailWindow:       defaultFailWindow * time.Second,
		OpenCoolDown:     defaultOpenCooldown * time.Second,
		HalfOpenLease:    defaultHalfOpenLease * time.Second,
		FailOpen:         defaultFailOpen,
		Prefix:           defaultPrefix,
	}
}

// withDefaults fills zero durations and counts. FailOpen is taken as given
// unless the whole struct is zero.
func (o Options) withDefaults() Options {
	if o == (Options{}) {
		return DefaultOptions()
	}

	def := DefaultOptions()
	if o.FailureThreshold <= 0 {
		o.FailureThreshold = def.FailureThreshold
	}
	if o.FailWindow <= 0 {
		o.FailWindow = def.FailWindow
	}
	if o.OpenCoolDown <= 0 {
		o.OpenCoolDown = def.OpenCoolDown
	}
	if o.HalfOpenLease <= 0 {
		o.HalfOpenLease = def.HalfOpenLease
	}
	if o.Prefix == "" {
		o.Prefix = def.Prefix
	}
	return o
}
