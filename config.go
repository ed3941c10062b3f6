// Package carefinder holds the CareFinder server configuration: the Config
// type, its defaults, file loading (JSON/YAML, schema-checked), environment
// overrides and semantic validation.
package carefinder

import (
	"fmt"
	"time"

	"github.com/ferro-labs/carefinder/internal/feed"
)

// Config holds the configuration for the CareFinder server.
type Config struct {
	// Server controls the HTTP listener and inbound middleware.
	Server ServerConfig `json:"server" yaml:"server"`
	// Feed locates the vendor provider feed and its cache policy.
	Feed FeedConfig `json:"feed" yaml:"feed"`
	// Maps authenticates against the Google Maps web services.
	Maps MapsConfig `json:"maps" yaml:"maps"`
	// Geocode bounds outbound geocoding.
	Geocode GeocodeConfig `json:"geocode" yaml:"geocode"`
	// Search shapes /search results.
	Search SearchConfig `json:"search" yaml:"search"`
	// Log configures structured logging.
	Log LogConfig `json:"log" yaml:"log"`
}

// ServerConfig defines the HTTP listener.
type ServerConfig struct {
	Addr        string          `json:"addr" yaml:"addr" env:"CAREFINDER_ADDR"`
	CORSOrigins []string        `json:"cors_origins,omitempty" yaml:"cors_origins,omitempty" env:"CORS_ORIGINS" envSeparator:","`
	RateLimit   RateLimitConfig `json:"rate_limit" yaml:"rate_limit"`
}

// RateLimitConfig limits inbound requests per client IP. Zero disables it.
type RateLimitConfig struct {
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second" env:"CAREFINDER_RATE_LIMIT_RPS"`
	Burst             int     `json:"burst,omitempty" yaml:"burst,omitempty" env:"CAREFINDER_RATE_LIMIT_BURST"`
}

// FeedConfig locates the provider feed.
type FeedConfig struct {
	URL     string   `json:"url" yaml:"url" env:"PROVIDER_FEED_URL"`
	Timeout Duration `json:"timeout" yaml:"timeout" env:"PROVIDER_FEED_TIMEOUT"`
	// RefreshInterval is the cache TTL; zero keeps the first fetch for the
	// life of the process.
	RefreshInterval Duration `json:"refresh_interval" yaml:"refresh_interval" env:"PROVIDER_FEED_REFRESH_INTERVAL"`
}

// MapsConfig holds Google Maps credentials.
type MapsConfig struct {
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" env:"GOOGLE_MAPS_API_KEY"`
	// BaseURL overrides https://maps.googleapis.com (testing, proxies).
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" env:"GOOGLE_MAPS_BASE_URL"`
	// BreakerThreshold opens a circuit breaker around the Maps APIs after
	// that many consecutive errors. Zero disables it.
	BreakerThreshold int      `json:"breaker_threshold" yaml:"breaker_threshold" env:"MAPS_BREAKER_THRESHOLD"`
	BreakerCooldown  Duration `json:"breaker_cooldown" yaml:"breaker_cooldown" env:"MAPS_BREAKER_COOLDOWN"`
}

// GeocodeConfig bounds geocoding calls.
type GeocodeConfig struct {
	// RateLimit is the number of calls admitted per Window.
	RateLimit int      `json:"rate_limit" yaml:"rate_limit" env:"GEOCODE_RATE_LIMIT"`
	Window    Duration `json:"window" yaml:"window" env:"GEOCODE_WINDOW"`
	// CacheSize enables an LRU of resolved addresses when positive.
	CacheSize int      `json:"cache_size" yaml:"cache_size" env:"GEOCODE_CACHE_SIZE"`
	CacheTTL  Duration `json:"cache_ttl" yaml:"cache_ttl" env:"GEOCODE_CACHE_TTL"`
}

// SearchConfig shapes search results.
type SearchConfig struct {
	MaxResults int `json:"max_results" yaml:"max_results" env:"SEARCH_MAX_RESULTS"`
}

// LogConfig configures the package logger.
type LogConfig struct {
	Level  string `json:"level" yaml:"level" env:"LOG_LEVEL"`
	Format string `json:"format" yaml:"format" env:"LOG_FORMAT"`
}

// DefaultConfig returns the configuration used when no file or environment
// override is given.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{Addr: ":8080"},
		Feed: FeedConfig{
			URL:     feed.DefaultURL,
			Timeout: Duration(30 * time.Second),
		},
		Maps: MapsConfig{BreakerCooldown: Duration(30 * time.Second)},
		Geocode: GeocodeConfig{
			RateLimit: 50,
			Window:    Duration(time.Second),
			CacheTTL:  Duration(24 * time.Hour),
		},
		Search: SearchConfig{MaxResults: 10},
		Log:    LogConfig{Level: "info", Format: "json"},
	}
}

// Duration is a time.Duration that reads and writes as text ("30s", "1h").
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// String implements fmt.Stringer.
func (d Duration) String() string { return time.Duration(d).String() }

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = Duration(parsed)
	return nil
}
