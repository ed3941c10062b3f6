package main

import (
	"encoding/json"
	"fmt"

	"github.com/ferro-labs/carefinder/internal/geo"
	"github.com/spf13/cobra"
)

func newRouteCmd(load configLoader) *cobra.Command {
	var (
		origin string
		raw    bool
	)
	cmd := &cobra.Command{
		Use:   "route --from <address> <stop>...",
		Short: "Plan an optimized route through one or more stops",
		Long: "The last stop is the destination; earlier stops are waypoints the\n" +
			"Directions API may reorder.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, stops []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			client, err := geo.NewClient(cfg.Maps.APIKey, cfg.Maps.BaseURL, nil)
			if err != nil {
				return fmt.Errorf("maps client (is GOOGLE_MAPS_API_KEY set?): %w", err)
			}

			routes, err := geo.NewPlanner(client).Plan(cmd.Context(), origin, stops)
			if err != nil {
				return err
			}

			if raw {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(routes)
			}
			if len(routes) == 0 {
				printf(cmd, "No route found.\n")
				return nil
			}
			best := routes[0]
			printf(cmd, "Route: %s\n", best.Summary)
			if len(best.WaypointOrder) > 0 {
				printf(cmd, "Visit order:\n")
				for i, idx := range best.WaypointOrder {
					if idx >= 0 && idx < len(stops)-1 {
						printf(cmd, "  %d. %s\n", i+1, stops[idx])
					}
				}
			}
			printf(cmd, "Destination: %s\n", stops[len(stops)-1])
			for i, leg := range best.Legs {
				printf(cmd, "  leg %d: %s → %s (%s, %s)\n", i+1, leg.StartAddress, leg.EndAddress,
					leg.Distance.HumanReadable, leg.Duration)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&origin, "from", "", "starting address")
	cmd.Flags().BoolVar(&raw, "json", false, "print the raw Directions API routes as JSON")
	_ = cmd.MarkFlagRequired("from")
	return cmd
}
