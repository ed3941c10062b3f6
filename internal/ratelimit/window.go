// Package ratelimit provides the admission-control gates used by the server.
// Window caps outbound geocoding calls per fixed time window; Store and
// Middleware limit inbound requests per client IP.
package ratelimit

import (
	"sync"
	"time"
)

// Default geocoding budget: 50 calls per one-second window.
const (
	DefaultWindowLimit = 50
	DefaultWindowSize  = time.Second
)

// Window is a best-effort fixed-window gate. It is not a queue: calls over
// the budget are rejected and never deferred.
type Window struct {
	mu          sync.Mutex
	limit       int
	size        time.Duration
	windowStart time.Time
	calls       int
	now         func() time.Time
}

// NewWindow creates a Window admitting at most limit calls per size.
// Non-positive values fall back to the defaults.
func NewWindow(limit int, size time.Duration) *Window {
	if limit <= 0 {
		limit = DefaultWindowLimit
	}
	if size <= 0 {
		size = DefaultWindowSize
	}
	return &Window{limit: limit, size: size, now: time.Now}
}

// Allow reports whether one more call fits in the current window and, if so,
// counts it.
func (w *Window) Allow() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.roll()
	if w.calls >= w.limit {
		return false
	}
	w.calls++
	return true
}

// Remaining returns how many calls the current window still admits. It does
// not start a new window.
func (w *Window) Remaining() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.expired(w.now()) {
		return w.limit
	}
	return w.limit - w.calls
}

// Limit returns the per-window budget.
func (w *Window) Limit() int { return w.limit }

// roll must be called with w.mu held.
func (w *Window) roll() {
	now := w.now()
	if w.expired(now) {
		w.windowStart = now
		w.calls = 0
	}
}

func (w *Window) expired(now time.Time) bool {
	return now.Sub(w.windowStart) >= w.size
}
