// Package geo wraps the Google Maps web services used by CareFinder:
// geocoding of provider addresses behind a fixed-window call budget, and
// multi-stop route planning with waypoint optimization.
package geo

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/ferro-labs/carefinder/internal/metrics"
	"googlemaps.github.io/maps"
	mapsmetrics "googlemaps.github.io/maps/metrics"
)

// NewClient builds a Maps API client authenticated with apiKey. baseURL
// overrides https://maps.googleapis.com when non-empty; httpClient may be nil.
//
// The client's own rate limiter is disabled: Geocoder's window is the only
// admission control, and it rejects rather than waits.
func NewClient(apiKey, baseURL string, httpClient *http.Client) (*maps.Client, error) {
	opts := []maps.ClientOption{
		maps.WithAPIKey(apiKey),
		maps.WithRateLimit(0),
		maps.WithMetricReporter(promReporter{}),
	}
	if baseURL != "" {
		opts = append(opts, maps.WithBaseURL(baseURL))
	}
	if httpClient != nil {
		opts = append(opts, maps.WithHTTPClient(httpClient))
	}
	return maps.NewClient(opts...)
}

// promReporter records Maps API latency into Prometheus.
type promReporter struct{}

func (promReporter) NewRequest(name string) mapsmetrics.Request {
	return &promRequest{api: name, start: time.Now()}
}

type promRequest struct {
	api   string
	start time.Time
}

func (r *promRequest) EndRequest(_ context.Context, err error, httpResp *http.Response, _ string) {
	code := "error"
	if err == nil && httpResp != nil {
		code = strconv.Itoa(httpResp.StatusCode)
	}
	metrics.MapsAPIDuration.WithLabelValues(r.api, code).Observe(time.Since(r.start).Seconds())
}
