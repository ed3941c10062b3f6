package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// DefaultIdleTTL is how long a client's limiter survives without requests
// before Sweep drops it.
const DefaultIdleTTL = 10 * time.Minute

type storeEntry struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // unix nanos
}

// Store maintains per-key token-bucket limiters that share one rate and burst.
// Idle keys are dropped by Sweep (or Run), so memory tracks active clients.
type Store struct {
	mu       sync.RWMutex
	limiters map[string]*storeEntry
	rps      rate.Limit
	burst    int
	now      func() time.Time
}

// NewStore creates a Store. If burst <= 0 it defaults to ceil(rps).
func NewStore(ratePerSecond float64, burst int) *Store {
	if burst <= 0 {
		burst = int(ratePerSecond)
		if float64(burst) < ratePerSecond {
			burst++
		}
		if burst < 1 {
			burst = 1
		}
	}
	return &Store{
		limiters: make(map[string]*storeEntry),
		rps:      rate.Limit(ratePerSecond),
		burst:    burst,
		now:      time.Now,
	}
}

// Allow checks (and creates if needed) the limiter for key.
func (s *Store) Allow(key string) bool {
	now := s.now()
	e := s.entry(key)
	e.lastSeen.Store(now.UnixNano())
	return e.limiter.AllowN(now, 1)
}

// Len returns the number of tracked keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.limiters)
}

// Sweep drops limiters not used within idle and returns how many were
// removed. A dropped client starts again with a full bucket.
func (s *Store) Sweep(idle time.Duration) int {
	cutoff := s.now().Add(-idle).UnixNano()

	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for key, e := range s.limiters {
		if e.lastSeen.Load() < cutoff {
			delete(s.limiters, key)
			removed++
		}
	}
	return removed
}

// Run calls Sweep(idle) every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval, idle time.Duration) {
	if interval <= 0 {
		interval = idle
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(idle)
		}
	}
}

func (s *Store) entry(key string) *storeEntry {
	s.mu.RLock()
	e, ok := s.limiters[key]
	s.mu.RUnlock()
	if ok {
		return e
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok = s.limiters[key]; ok {
		return e
	}
	e = &storeEntry{limiter: rate.NewLimiter(s.rps, s.burst)}
	s.limiters[key] = e
	return e
}
