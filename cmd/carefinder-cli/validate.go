package main

import (
	"fmt"
	"strings"

	carefinder "github.com/ferro-labs/carefinder"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file (JSON/YAML)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := carefinder.LoadConfig(args[0])
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if err := carefinder.ValidateConfig(*cfg); err != nil {
				return fmt.Errorf("validation error: %w", err)
			}

			printf(cmd, "✓ Config is valid\n")
			printf(cmd, "  Listen:    %s\n", cfg.Server.Addr)
			printf(cmd, "  Feed:      %s (timeout %s, refresh %s)\n", cfg.Feed.URL, cfg.Feed.Timeout, refreshLabel(cfg.Feed.RefreshInterval))
			printf(cmd, "  Geocode:   %d per %s", cfg.Geocode.RateLimit, cfg.Geocode.Window)
			if cfg.Geocode.CacheSize > 0 {
				printf(cmd, ", cache %d entries for %s", cfg.Geocode.CacheSize, cfg.Geocode.CacheTTL)
			}
			printf(cmd, "\n")
			printf(cmd, "  Results:   %d per search\n", cfg.Search.MaxResults)
			if len(cfg.Server.CORSOrigins) > 0 {
				printf(cmd, "  CORS:      %s\n", strings.Join(cfg.Server.CORSOrigins, ", "))
			}
			if cfg.Maps.APIKey == "" {
				printf(cmd, "  Note:      maps.api_key not set; GOOGLE_MAPS_API_KEY must be provided at runtime\n")
			}
			return nil
		},
	}
}

func refreshLabel(d carefinder.Duration) string {
	if d <= 0 {
		return "never"
	}
	return d.String()
}
