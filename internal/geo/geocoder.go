package geo

import (
	"context"
	"strings"

	"github.com/ferro-labs/carefinder/internal/cache"
	"github.com/ferro-labs/carefinder/internal/circuitbreaker"
	"github.com/ferro-labs/carefinder/internal/logging"
	"github.com/ferro-labs/carefinder/internal/metrics"
	"github.com/ferro-labs/carefinder/internal/ratelimit"
	"googlemaps.github.io/maps"
)

// GeocodeAPI is the subset of *maps.Client used by Geocoder.
type GeocodeAPI interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// Geocoder resolves addresses to coordinates under a fixed-window budget.
// Calls over the budget are dropped, never queued or retried.
type Geocoder struct {
	api     GeocodeAPI
	gate    *ratelimit.Window
	cache   cache.Cache[maps.LatLng]
	breaker *circuitbreaker.Breaker
}

// GeocoderOption configures a Geocoder.
type GeocoderOption func(*Geocoder)

// WithCache remembers successful lookups in c. Cache hits do not consume
// window budget.
func WithCache(c cache.Cache[maps.LatLng]) GeocoderOption {
	return func(g *Geocoder) { g.cache = c }
}

// WithBreaker skips the API, without spending window budget, while b is
// open. API errors count as failures; empty results do not.
func WithBreaker(b *circuitbreaker.Breaker) GeocoderOption {
	return func(g *Geocoder) { g.breaker = b }
}

// NewGeocoder creates a Geocoder. A nil gate gets the default budget of
// 50 calls per second.
func NewGeocoder(api GeocodeAPI, gate *ratelimit.Window, opts ...GeocoderOption) *Geocoder {
	if gate == nil {
		gate = ratelimit.NewWindow(ratelimit.DefaultWindowLimit, ratelimit.DefaultWindowSize)
	}
	g := &Geocoder{api: api, gate: gate}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Geocode returns the location of the first result for address. ok is false
// when the lookup was skipped or failed, or nothing matched. Callers treat
// these cases alike.
func (g *Geocoder) Geocode(ctx context.Context, address string) (loc maps.LatLng, ok bool) {
	log := logging.FromContext(ctx)
	key := cacheKey(address)

	if g.cache != nil {
		if loc, ok := g.cache.Get(key); ok {
			metrics.GeocodeRequestsTotal.WithLabelValues("cached").Inc()
			return loc, true
		}
	}

	if g.breaker != nil && !g.breaker.Allow() {
		metrics.GeocodeRequestsTotal.WithLabelValues("circuit_open").Inc()
		log.Debug("geocode skipped, circuit open", "address", address)
		return maps.LatLng{}, false
	}

	if !g.gate.Allow() {
		metrics.GeocodeRequestsTotal.WithLabelValues("rejected").Inc()
		log.Debug("geocode rejected by rate window", "address", address)
		return maps.LatLng{}, false
	}

	results, err := g.api.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if g.breaker != nil {
		if err != nil {
			g.breaker.Failure()
		} else {
			g.breaker.Success()
		}
	}
	if err != nil {
		metrics.GeocodeRequestsTotal.WithLabelValues("error").Inc()
		log.Warn("geocode failed", "address", address, "error", err)
		return maps.LatLng{}, false
	}
	if len(results) == 0 {
		metrics.GeocodeRequestsTotal.WithLabelValues("no_results").Inc()
		log.Debug("geocode returned no results", "address", address)
		return maps.LatLng{}, false
	}

	metrics.GeocodeRequestsTotal.WithLabelValues("ok").Inc()
	loc = results[0].Geometry.Location
	if g.cache != nil {
		g.cache.Set(key, loc)
	}
	return loc, true
}

func cacheKey(address string) string {
	return strings.ToLower(strings.Join(strings.Fields(address), " "))
}
