// Package circuitbreaker stops calling a downstream web service after it
// keeps failing, and lets a probe through once a cooldown has passed.
//
// State transitions:
//
//	Closed → Open        after FailureThreshold consecutive failures
//	Open   → HalfOpen    once the cooldown elapses
//	HalfOpen → Closed    on the first success
//	HalfOpen → Open      on any failure
package circuitbreaker

import (
	"errors"
	"sync"
	"time"

	"github.com/ferro-labs/carefinder/internal/logging"
	"github.com/ferro-labs/carefinder/internal/metrics"
)

// State represents the breaker's current state.
type State int

const (
	// StateClosed passes calls through.
	StateClosed State = iota
	// StateOpen rejects calls without contacting the service.
	StateOpen
	// StateHalfOpen lets calls probe whether the service has recovered.
	StateHalfOpen
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// ErrOpen is returned by callers that refuse work because the breaker is open.
var ErrOpen = errors.New("circuit breaker open")

// DefaultCooldown is used when New is given a non-positive cooldown.
const DefaultCooldown = 30 * time.Second

// Breaker guards one downstream service. It is safe for concurrent use.
type Breaker struct {
	name      string
	threshold int
	cooldown  time.Duration
	now       func() time.Time

	mu        sync.Mutex
	state     State
	failures  int
	openUntil time.Time
}

// New creates a closed Breaker that opens after threshold consecutive
// failures (minimum 1) and stays open for cooldown. name labels logs and
// the carefinder_breaker_state gauge.
func New(name string, threshold int, cooldown time.Duration) *Breaker {
	if threshold <= 0 {
		threshold = 1
	}
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	b := &Breaker{
		name:      name,
		threshold: threshold,
		cooldown:  cooldown,
		now:       time.Now,
	}
	metrics.BreakerState.WithLabelValues(name).Set(float64(StateClosed))
	return b
}

// Name returns the label given to New.
func (b *Breaker) Name() string { return b.name }

// State returns the current state, moving Open to HalfOpen when the
// cooldown has elapsed.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.resolve()
}

// Allow reports whether a call may proceed.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.resolve() != StateOpen
}

// Success records a call that reached the service and got a usable answer.
func (b *Breaker) Success() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = 0
	if b.resolve() == StateHalfOpen {
		b.transition(StateClosed)
	}
}

// Failure records a failed call.
func (b *Breaker) Failure() {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch b.resolve() {
	case StateClosed:
		b.failures++
		if b.failures >= b.threshold {
			b.trip()
		}
	case StateHalfOpen:
		b.trip()
	}
}

// resolve must be called with b.mu held.
func (b *Breaker) resolve() State {
	if b.state == StateOpen && !b.now().Before(b.openUntil) {
		b.transition(StateHalfOpen)
	}
	return b.state
}

func (b *Breaker) trip() {
	b.openUntil = b.now().Add(b.cooldown)
	b.failures = 0
	b.transition(StateOpen)
}

func (b *Breaker) transition(to State) {
	if b.state == to {
		return
	}
	logging.Logger.Warn("circuit breaker state change",
		"breaker", b.name,
		"from", b.state.String(),
		"to", to.String(),
	)
	b.state = to
	metrics.BreakerState.WithLabelValues(b.name).Set(float64(to))
}
