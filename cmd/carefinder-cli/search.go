package main

import (
	"encoding/json"

	"github.com/ferro-labs/carefinder/internal/feed"
	"github.com/ferro-labs/carefinder/internal/geo"
	"github.com/ferro-labs/carefinder/internal/ratelimit"
	"github.com/ferro-labs/carefinder/internal/search"
	"github.com/spf13/cobra"
)

func newSearchCmd(load configLoader) *cobra.Command {
	var (
		limit     int
		noGeocode bool
	)
	cmd := &cobra.Command{
		Use:   "search [zip-prefix]",
		Short: "Search the provider feed by postal-code prefix",
		Long: "Fetches the provider feed once, filters it by postal-code prefix and\n" +
			"prints the matches as JSON. Matches are geocoded when a Maps API key\n" +
			"is configured, unless --no-geocode is given.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			if limit <= 0 {
				limit = cfg.Search.MaxResults
			}
			location := ""
			if len(args) == 1 {
				location = args[0]
			}

			source := feed.NewCache(feed.NewClient(cfg.Feed.URL, cfg.Feed.Timeout.Std()), 0)

			var geocoder search.Geocoder
			if !noGeocode && cfg.Maps.APIKey != "" {
				client, err := geo.NewClient(cfg.Maps.APIKey, cfg.Maps.BaseURL, nil)
				if err != nil {
					return err
				}
				geocoder = geo.NewGeocoder(client, ratelimit.NewWindow(cfg.Geocode.RateLimit, cfg.Geocode.Window.Std()))
			}

			results := search.NewService(source, geocoder, limit).Search(cmd.Context(), location)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum results (default: search.max_results)")
	cmd.Flags().BoolVar(&noGeocode, "no-geocode", false, "skip geocoding of matches")
	return cmd
}
