package carefinder

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// LoadConfig reads and parses a config file from the given path on top of
// DefaultConfig. Supported formats: JSON (.json), YAML (.yaml, .yml).
// The document is checked against the embedded schema before decoding.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var doc interface{}
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file extension %q: use .json, .yaml, or .yml", ext)
	}
	if doc == nil {
		// Empty YAML document.
		doc = map[string]interface{}{}
	}
	if err := validateDocument(doc); err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	switch ext {
	case ".json":
		err = json.Unmarshal(data, &cfg)
	default:
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return &cfg, nil
}

// ApplyEnv overlays environment variables onto cfg. Unset variables leave
// the corresponding field untouched. PORT is honoured as ":<PORT>" when
// CAREFINDER_ADDR is not set.
func ApplyEnv(cfg *Config) error {
	if port := os.Getenv("PORT"); port != "" && os.Getenv("CAREFINDER_ADDR") == "" {
		cfg.Server.Addr = ":" + port
	}
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parsing environment: %w", err)
	}
	return nil
}

// ValidateConfig validates a Config for correctness.
func ValidateConfig(cfg Config) error {
	if cfg.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if cfg.Server.RateLimit.RequestsPerSecond < 0 {
		return fmt.Errorf("server.rate_limit.requests_per_second must be >= 0")
	}
	if cfg.Server.RateLimit.Burst < 0 {
		return fmt.Errorf("server.rate_limit.burst must be >= 0")
	}

	u, err := url.Parse(cfg.Feed.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("feed.url must be an absolute http(s) URL, got %q", cfg.Feed.URL)
	}
	if cfg.Feed.Timeout <= 0 {
		return fmt.Errorf("feed.timeout must be positive")
	}
	if cfg.Feed.RefreshInterval < 0 {
		return fmt.Errorf("feed.refresh_interval must be >= 0")
	}

	if cfg.Maps.BaseURL != "" {
		if u, err := url.Parse(cfg.Maps.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("maps.base_url must be an absolute URL, got %q", cfg.Maps.BaseURL)
		}
	}

	if cfg.Maps.BreakerThreshold < 0 {
		return fmt.Errorf("maps.breaker_threshold must be >= 0")
	}
	if cfg.Maps.BreakerThreshold > 0 && cfg.Maps.BreakerCooldown <= 0 {
		return fmt.Errorf("maps.breaker_cooldown must be positive when the breaker is enabled")
	}

	if cfg.Geocode.RateLimit < 1 {
		return fmt.Errorf("geocode.rate_limit must be at least 1")
	}
	if cfg.Geocode.Window <= 0 {
		return fmt.Errorf("geocode.window must be positive")
	}
	if cfg.Geocode.CacheSize < 0 {
		return fmt.Errorf("geocode.cache_size must be >= 0")
	}
	if cfg.Geocode.CacheTTL < 0 {
		return fmt.Errorf("geocode.cache_ttl must be >= 0")
	}

	if cfg.Search.MaxResults < 1 {
		return fmt.Errorf("search.max_results must be at least 1")
	}

	switch strings.ToLower(cfg.Log.Format) {
	case "", "json", "text":
	default:
		return fmt.Errorf("unknown log format: %q", cfg.Log.Format)
	}
	switch strings.ToLower(cfg.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log level: %q", cfg.Log.Level)
	}

	return nil
}

// Resolve builds the effective configuration: DefaultConfig, then the file
// at path when path is non-empty, then ApplyEnv. The result is validated.
func Resolve(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = *loaded
	}
	if err := ApplyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
