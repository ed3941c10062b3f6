// Package search runs the provider search pipeline: read the cached feed,
// filter by postal-code prefix, keep the first few matches and geocode them.
package search

import (
	"context"
	"strings"

	"github.com/ferro-labs/carefinder/internal/logging"
	"github.com/ferro-labs/carefinder/internal/metrics"
	"github.com/ferro-labs/carefinder/providers"
	"googlemaps.github.io/maps"
)

// ProviderSource supplies the current provider list. *feed.Cache implements it.
type ProviderSource interface {
	Providers(ctx context.Context) []providers.Provider
}

// Geocoder resolves an address. *geo.Geocoder implements it.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (maps.LatLng, bool)
}

// Service executes searches.
type Service struct {
	source   ProviderSource
	geocoder Geocoder
	limit    int
}

// NewService creates a Service returning at most limit providers per search
// (providers.DefaultSearchLimit when limit <= 0). geocoder may be nil, in
// which case results carry no coordinates.
func NewService(source ProviderSource, geocoder Geocoder, limit int) *Service {
	if limit <= 0 {
		limit = providers.DefaultSearchLimit
	}
	return &Service{source: source, geocoder: geocoder, limit: limit}
}

// Search returns the first matches for the postal-code prefix location, in
// feed order, each geocoded in turn. A provider whose lookup fails or is
// rejected keeps nil coordinates. The result is never nil.
func (s *Service) Search(ctx context.Context, location string) []providers.Provider {
	log := logging.FromContext(ctx)
	location = strings.TrimSpace(location)
	log.Info("search request", "location", location)

	matched := providers.Filter(s.source.Providers(ctx), location, s.limit)
	log.Info("search matched providers", "location", location, "count", len(matched))

	if s.geocoder != nil {
		for i, p := range matched {
			if loc, ok := s.geocoder.Geocode(ctx, p.Address); ok {
				matched[i] = p.WithCoordinates(loc.Lat, loc.Lng)
			}
		}
	}

	metrics.SearchResults.Observe(float64(len(matched)))
	return matched
}
