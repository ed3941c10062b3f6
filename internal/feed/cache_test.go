package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ferro-labs/carefinder/internal/metrics"
	"github.com/ferro-labs/carefinder/providers"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

const sampleFeed = `[
	{"name":{"first":"Ana","last":"Diaz"},"addresses":[{"address":"1 Main St","zip":"33101","phone":"555-0101"}],"specialty":"GP","plans":["X"]},
	{"name":{"first":"Ben","last":"Cole"},"addresses":[{"address":"9 Bay Rd","zip":"34102","phone":"555-0102"}],"specialty":"ENT","plans":[]}
]`

// feedServer serves body with status and counts hits.
func feedServer(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestCache_FetchesOnceAndReuses(t *testing.T) {
	srv, hits := feedServer(t, http.StatusOK, sampleFeed)
	c := NewCache(NewClient(srv.URL, time.Second), 0)

	first := c.Providers(context.Background())
	second := c.Providers(context.Background())

	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("got %d/%d providers, want 2", len(first), len(second))
	}
	if hits.Load() != 1 {
		t.Fatalf("feed fetched %d times, want 1", hits.Load())
	}
	if testutil.ToFloat64(metrics.FeedProviders) != 2 {
		t.Errorf("feed providers gauge = %v, want 2", testutil.ToFloat64(metrics.FeedProviders))
	}
}

func TestCache_ConcurrentFirstAccessFetchesOnce(t *testing.T) {
	srv, hits := feedServer(t, http.StatusOK, sampleFeed)
	c := NewCache(NewClient(srv.URL, time.Second), 0)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Providers(context.Background())
		}()
	}
	wg.Wait()
	if hits.Load() != 1 {
		t.Fatalf("feed fetched %d times, want 1", hits.Load())
	}
}

func TestCache_FailureYieldsEmptyAndIsCached(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `oops`},
		{"invalid json", http.StatusOK, `{invalid`},
		{"not an array", http.StatusOK, `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, hits := feedServer(t, tt.status, tt.body)
			c := NewCache(NewClient(srv.URL, time.Second), 0)
			before := testutil.ToFloat64(metrics.FeedFetchesTotal.WithLabelValues("error"))

			got := c.Providers(context.Background())
			if got == nil || len(got) != 0 {
				t.Fatalf("Providers() = %#v, want empty non-nil slice", got)
			}
			c.Providers(context.Background())
			if hits.Load() != 1 {
				t.Errorf("feed fetched %d times, want 1", hits.Load())
			}
			if d := testutil.ToFloat64(metrics.FeedFetchesTotal.WithLabelValues("error")) - before; d != 1 {
				t.Errorf("error fetches delta = %v, want 1", d)
			}
		})
	}
}

func TestCache_Unreachable(t *testing.T) {
	srv, _ := feedServer(t, http.StatusOK, sampleFeed)
	url := srv.URL
	srv.Close()

	c := NewCache(NewClient(url, time.Second), 0)
	if got := c.Providers(context.Background()); len(got) != 0 {
		t.Fatalf("Providers() = %v, want empty", got)
	}
}

func TestCache_TTLExpiry(t *testing.T) {
	srv, hits := feedServer(t, http.StatusOK, sampleFeed)
	c := NewCache(NewClient(srv.URL, time.Second), time.Hour)
	now := time.Unix(1700000000, 0)
	c.now = func() time.Time { return now }

	c.Providers(context.Background())
	now = now.Add(59 * time.Minute)
	c.Providers(context.Background())
	if hits.Load() != 1 {
		t.Fatalf("fetched %d times before TTL, want 1", hits.Load())
	}

	now = now.Add(time.Minute)
	c.Providers(context.Background())
	if hits.Load() != 2 {
		t.Fatalf("fetched %d times after TTL, want 2", hits.Load())
	}
}

func TestCache_RefreshAndInvalidate(t *testing.T) {
	srv, hits := feedServer(t, http.StatusOK, sampleFeed)
	c := NewCache(NewClient(srv.URL, time.Second), 0)

	if n, loaded, _ := c.Snapshot(); loaded || n != 0 {
		t.Fatalf("Snapshot() before load = %d, %v", n, loaded)
	}
	c.Providers(context.Background())
	if got := c.Refresh(context.Background()); len(got) != 2 {
		t.Fatalf("Refresh() returned %d providers", len(got))
	}
	if hits.Load() != 2 {
		t.Fatalf("fetched %d times, want 2", hits.Load())
	}

	c.Invalidate()
	if _, loaded, _ := c.Snapshot(); loaded {
		t.Fatal("Snapshot() reports loaded after Invalidate")
	}
	c.Providers(context.Background())
	if hits.Load() != 3 {
		t.Fatalf("fetched %d times after Invalidate, want 3", hits.Load())
	}
}

type cancelAwareFetcher struct{}

func (cancelAwareFetcher) Fetch(ctx context.Context) ([]providers.Provider, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []providers.Provider{{Name: "A"}}, nil
}

func TestCache_IgnoresCallerCancellation(t *testing.T) {
	c := NewCache(cancelAwareFetcher{}, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if got := c.Providers(ctx); len(got) != 1 {
		t.Fatalf("Providers() with cancelled ctx = %v, want 1 provider", got)
	}
}

func TestClient_FetchRaw(t *testing.T) {
	srv, _ := feedServer(t, http.StatusOK, sampleFeed)
	body, err := NewClient(srv.URL, time.Second).FetchRaw(context.Background())
	if err != nil {
		t.Fatalf("FetchRaw() error: %v", err)
	}
	if string(body) != sampleFeed {
		t.Errorf("FetchRaw() body was modified")
	}
}

func TestClient_FetchRawErrors(t *testing.T) {
	bad, _ := feedServer(t, http.StatusNotFound, `[]`)
	if _, err := NewClient(bad.URL, time.Second).FetchRaw(context.Background()); !errors.Is(err, ErrUnexpectedStatus) {
		t.Errorf("FetchRaw() on 404 error = %v, want ErrUnexpectedStatus", err)
	}

	malformed, _ := feedServer(t, http.StatusOK, `not json`)
	if _, err := NewClient(malformed.URL, time.Second).FetchRaw(context.Background()); !errors.Is(err, ErrMalformedFeed) {
		t.Errorf("FetchRaw() on invalid body error = %v, want ErrMalformedFeed", err)
	}
}

func TestNewClient_DefaultURL(t *testing.T) {
	if got := NewClient("", 0).URL(); got != DefaultURL {
		t.Errorf("URL() = %q, want %q", got, DefaultURL)
	}
}
