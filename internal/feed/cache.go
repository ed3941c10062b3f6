package feed

import (
	"context"
	"sync"
	"time"

	"github.com/ferro-labs/carefinder/internal/logging"
	"github.com/ferro-labs/carefinder/internal/metrics"
	"github.com/ferro-labs/carefinder/providers"
)

// Fetcher produces a freshly normalized provider list.
type Fetcher interface {
	Fetch(ctx context.Context) ([]providers.Provider, error)
}

// Cache holds the normalized provider list in a single slot. The slot is
// filled lazily on first access and kept until the TTL elapses (ttl <= 0
// keeps it for the life of the process), Refresh is called, or Invalidate
// clears it.
//
// A failed fetch stores an empty list like any other result, so an
// unreachable feed is not re-requested on every search.
type Cache struct {
	source Fetcher
	ttl    time.Duration
	now    func() time.Time

	mu        sync.Mutex
	list      []providers.Provider
	loaded    bool
	fetchedAt time.Time
}

// NewCache creates a Cache backed by source.
func NewCache(source Fetcher, ttl time.Duration) *Cache {
	return &Cache{source: source, ttl: ttl, now: time.Now}
}

// Providers returns the cached list, fetching it first if the slot is empty
// or stale. It never fails: feed errors are logged and yield an empty list.
// The returned slice is shared and must not be modified.
func (c *Cache) Providers(ctx context.Context) []providers.Provider {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded && !c.stale() {
		return c.list
	}
	c.load(ctx)
	return c.list
}

// Refresh re-fetches the feed unconditionally and returns the new list.
func (c *Cache) Refresh(ctx context.Context) []providers.Provider {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.load(ctx)
	return c.list
}

// Invalidate empties the slot; the next Providers call fetches again.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.list = nil
	c.loaded = false
	c.fetchedAt = time.Time{}
	metrics.FeedProviders.Set(0)
}

// Snapshot reports the cached provider count without triggering a fetch.
func (c *Cache) Snapshot() (count int, loaded bool, fetchedAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.list), c.loaded, c.fetchedAt
}

// stale must be called with c.mu held.
func (c *Cache) stale() bool {
	return c.ttl > 0 && c.now().Sub(c.fetchedAt) >= c.ttl
}

// load must be called with c.mu held. The fetch is detached from the
// caller's cancellation so a disconnecting client cannot store an empty list.
func (c *Cache) load(ctx context.Context) {
	log := logging.FromContext(ctx)

	list, err := c.source.Fetch(context.WithoutCancel(ctx))
	if err != nil {
		log.Error("error fetching provider data", "error", err)
		list = []providers.Provider{}
	} else {
		log.Info("fetched provider data", "providers", len(list))
		if len(list) > 0 {
			log.Debug("sample provider", "provider", list[0])
		}
	}

	c.list = list
	c.loaded = true
	c.fetchedAt = c.now()
	metrics.FeedProviders.Set(float64(len(list)))
}
