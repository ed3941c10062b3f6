package geo

import (
	"context"
	"errors"
	"fmt"

	"github.com/ferro-labs/carefinder/internal/circuitbreaker"
	"github.com/ferro-labs/carefinder/internal/logging"
	"github.com/ferro-labs/carefinder/internal/metrics"
	"googlemaps.github.io/maps"
)

// ErrNoStops is returned by Plan when no stops were supplied.
var ErrNoStops = errors.New("route: at least one stop is required")

// DirectionsAPI is the subset of *maps.Client used by Planner.
type DirectionsAPI interface {
	Directions(ctx context.Context, r *maps.DirectionsRequest) ([]maps.Route, []maps.GeocodedWaypoint, error)
}

// Planner computes optimized multi-stop routes.
type Planner struct {
	api     DirectionsAPI
	breaker *circuitbreaker.Breaker
}

// PlannerOption configures a Planner.
type PlannerOption func(*Planner)

// WithPlannerBreaker fails Plan with circuitbreaker.ErrOpen while b is open.
func WithPlannerBreaker(b *circuitbreaker.Breaker) PlannerOption {
	return func(p *Planner) { p.breaker = b }
}

// NewPlanner creates a Planner backed by api.
func NewPlanner(api DirectionsAPI, opts ...PlannerOption) *Planner {
	p := &Planner{api: api}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Plan routes from origin through stops. The last stop is the destination;
// the others are waypoints the Directions API may reorder.
func (p *Planner) Plan(ctx context.Context, origin string, stops []string) ([]maps.Route, error) {
	if len(stops) == 0 {
		metrics.RouteRequestsTotal.WithLabelValues("error").Inc()
		return nil, ErrNoStops
	}

	if p.breaker != nil && !p.breaker.Allow() {
		metrics.RouteRequestsTotal.WithLabelValues("circuit_open").Inc()
		return nil, fmt.Errorf("directions: %w", circuitbreaker.ErrOpen)
	}

	req := &maps.DirectionsRequest{
		Origin:      origin,
		Destination: stops[len(stops)-1],
		Waypoints:   stops[:len(stops)-1],
		Optimize:    true,
	}
	logging.FromContext(ctx).Debug("requesting directions",
		"origin", origin, "destination", req.Destination, "waypoints", len(req.Waypoints))

	routes, _, err := p.api.Directions(ctx, req)
	if p.breaker != nil {
		if err != nil {
			p.breaker.Failure()
		} else {
			p.breaker.Success()
		}
	}
	if err != nil {
		metrics.RouteRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("directions: %w", err)
	}
	metrics.RouteRequestsTotal.WithLabelValues("success").Inc()
	if routes == nil {
		routes = []maps.Route{}
	}
	return routes, nil
}
