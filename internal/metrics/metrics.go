// Package metrics registers the Prometheus metrics used by the server.
// Collectors are registered on the default registry at import time and
// exposed through promhttp at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Feed metrics.
var (
	// FeedFetchesTotal counts provider feed downloads by outcome
	// ("success", "error").
	FeedFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carefinder_feed_fetches_total",
			Help: "Total provider feed fetches by outcome.",
		},
		[]string{"outcome"},
	)

	// FeedProviders reports how many providers the feed cache currently holds.
	FeedProviders = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "carefinder_feed_providers",
			Help: "Number of providers held by the feed cache.",
		},
	)
)

// Maps API metrics.
var (
	// GeocodeRequestsTotal counts geocode lookups by outcome: "ok",
	// "no_results", "error", "rejected" (over the window budget),
	// "circuit_open" and "cached".
	GeocodeRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carefinder_geocode_requests_total",
			Help: "Total geocode lookups by outcome.",
		},
		[]string{"outcome"},
	)

	// RouteRequestsTotal counts route plans by outcome ("success", "error",
	// "circuit_open").
	RouteRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carefinder_route_requests_total",
			Help: "Total route planning requests by outcome.",
		},
		[]string{"outcome"},
	)

	// MapsAPIDuration observes Google Maps web service latency, labelled by
	// API path and HTTP status code ("error" when no response arrived).
	MapsAPIDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "carefinder_maps_api_duration_seconds",
			Help:    "Google Maps API request duration in seconds.",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"api", "code"},
	)
)

// SearchResults observes how many providers each search returned.
var SearchResults = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "carefinder_search_results",
		Help:    "Providers returned per search.",
		Buckets: []float64{0, 1, 2, 5, 10, 25, 50},
	},
)

// RateLimitRejections counts inbound requests rejected by the per-client
// limiter, labelled by key_type ("ip").
var RateLimitRejections = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "carefinder_rate_limit_rejections_total",
		Help: "Total requests rejected by rate limiting.",
	},
	[]string{"key_type"},
)

// BreakerState reports each circuit breaker's state (0 closed, 1 open,
// 2 half-open), labelled by breaker name.
var BreakerState = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "carefinder_breaker_state",
		Help: "Circuit breaker state: 0 closed, 1 open, 2 half-open.",
	},
	[]string{"name"},
)
