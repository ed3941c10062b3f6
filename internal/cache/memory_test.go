package cache

import (
	"sync"
	"testing"
	"time"

	"googlemaps.github.io/maps"
)

func TestMemory_ImplementsCache(_ *testing.T) {
	var _ Cache[maps.LatLng] = (*Memory[maps.LatLng])(nil)
}

func TestMemory_SetAndGet(t *testing.T) {
	c := NewMemory[maps.LatLng](10, time.Minute)
	c.Set("1 Main St", maps.LatLng{Lat: 25.77, Lng: -80.19})

	got, ok := c.Get("1 Main St")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.Lat != 25.77 || got.Lng != -80.19 {
		t.Errorf("got %+v", got)
	}
}

func TestMemory_Miss(t *testing.T) {
	c := NewMemory[string](10, time.Minute)
	if _, ok := c.Get("missing"); ok {
		t.Error("expected cache miss")
	}
}

func TestMemory_TTLExpiration(t *testing.T) {
	c := NewMemory[string](10, time.Minute)
	now := time.Unix(1000, 0)
	c.now = func() time.Time { return now }
	c.Set("key1", "v")

	now = now.Add(2 * time.Minute)
	if _, ok := c.Get("key1"); ok {
		t.Error("expected cache miss after TTL")
	}
	if c.Len() != 0 {
		t.Errorf("expected expired entry to be removed, len = %d", c.Len())
	}
}

func TestMemory_ZeroTTLNeverExpires(t *testing.T) {
	c := NewMemory[string](10, 0)
	now := time.Unix(1000, 0)
	c.now = func() time.Time { return now }
	c.Set("key1", "v")

	now = now.Add(24 * time.Hour)
	if _, ok := c.Get("key1"); !ok {
		t.Error("expected hit with zero ttl")
	}
}

func TestMemory_LRUEviction(t *testing.T) {
	c := NewMemory[string](2, time.Minute)
	c.Set("a", "a")
	c.Set("b", "b")
	c.Set("c", "c") // evicts "a"

	if _, ok := c.Get("a"); ok {
		t.Error("expected 'a' to be evicted")
	}
	if _, ok := c.Get("b"); !ok {
		t.Error("expected 'b' to be present")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("expected 'c' to be present")
	}
}

func TestMemory_LRUAccessOrder(t *testing.T) {
	c := NewMemory[string](2, time.Minute)
	c.Set("a", "a")
	c.Set("b", "b")

	c.Get("a") // "b" is now least recently used

	c.Set("c", "c")

	if _, ok := c.Get("a"); !ok {
		t.Error("expected 'a' to be present (recently accessed)")
	}
	if _, ok := c.Get("b"); ok {
		t.Error("expected 'b' to be evicted (LRU)")
	}
}

func TestMemory_Update(t *testing.T) {
	c := NewMemory[string](10, time.Minute)
	c.Set("key1", "old")
	c.Set("key1", "new")

	got, ok := c.Get("key1")
	if !ok {
		t.Fatal("expected hit")
	}
	if got != "new" {
		t.Errorf("expected new, got %s", got)
	}
	if c.Len() != 1 {
		t.Errorf("expected len 1, got %d", c.Len())
	}
}

func TestMemory_DeleteAndClear(t *testing.T) {
	c := NewMemory[string](10, time.Minute)
	c.Set("a", "a")
	c.Set("b", "b")
	c.Delete("a")

	if _, ok := c.Get("a"); ok {
		t.Error("expected miss after delete")
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("expected len 0 after clear, got %d", c.Len())
	}
}

func TestMemory_Concurrent(_ *testing.T) {
	c := NewMemory[string](100, time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := string(rune('a' + i%26))
			c.Set(key, key)
			c.Get(key)
			c.Len()
		}(i)
	}
	wg.Wait()
}
