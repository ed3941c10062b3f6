package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	carefinder "github.com/ferro-labs/carefinder"
	"github.com/ferro-labs/carefinder/internal/cache"
	"github.com/ferro-labs/carefinder/internal/circuitbreaker"
	"github.com/ferro-labs/carefinder/internal/feed"
	"github.com/ferro-labs/carefinder/internal/geo"
	"github.com/ferro-labs/carefinder/internal/logging"
	"github.com/ferro-labs/carefinder/internal/ratelimit"
	"github.com/ferro-labs/carefinder/internal/search"
	"github.com/ferro-labs/carefinder/internal/version"
	"googlemaps.github.io/maps"
)

func main() {
	cfg, err := carefinder.Resolve(os.Getenv("CAREFINDER_CONFIG"))
	if err != nil {
		fatal("failed to load config", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	a, err := buildApp(*cfg)
	if err != nil {
		fatal("failed to start", err)
	}

	// Graceful shutdown on SIGINT / SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var limiter *ratelimit.Store
	if rps := cfg.Server.RateLimit.RequestsPerSecond; rps > 0 {
		limiter = ratelimit.NewStore(rps, cfg.Server.RateLimit.Burst)
		go limiter.Run(ctx, time.Minute, ratelimit.DefaultIdleTTL)
		logging.Logger.Info("inbound rate limit enabled", "rps", rps, "burst", cfg.Server.RateLimit.Burst)
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           newRouter(a, cfg.Server.CORSOrigins, limiter),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Searches geocode up to max_results addresses in sequence.
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logging.Logger.Info("shutting down gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.Logger.Error("shutdown error", "error", err)
		}
	}()

	logging.Logger.Info("carefinder listening",
		"version", version.Short(),
		"addr", cfg.Server.Addr,
		"feed_url", cfg.Feed.URL,
		"geocode_limit", cfg.Geocode.RateLimit,
		"geocode_window", cfg.Geocode.Window.String(),
	)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		stop()
		fatal("server error", err) //nolint:gocritic
	}
	logging.Logger.Info("server stopped")
}

func fatal(msg string, err error) {
	logging.Logger.Error(msg, "error", err)
	os.Exit(1)
}

// buildApp wires the feed cache, geocoder, planner and search service from
// cfg. It fails when no Maps API key is configured.
func buildApp(cfg carefinder.Config) (*app, error) {
	mapsClient, err := geo.NewClient(cfg.Maps.APIKey, cfg.Maps.BaseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("maps client (is GOOGLE_MAPS_API_KEY set?): %w", err)
	}

	feedClient := feed.NewClient(cfg.Feed.URL, cfg.Feed.Timeout.Std())
	providerCache := feed.NewCache(feedClient, cfg.Feed.RefreshInterval.Std())

	var (
		geocodeOpts []geo.GeocoderOption
		plannerOpts []geo.PlannerOption
	)
	if cfg.Geocode.CacheSize > 0 {
		geocodeOpts = append(geocodeOpts, geo.WithCache(cache.NewMemory[maps.LatLng](cfg.Geocode.CacheSize, cfg.Geocode.CacheTTL.Std())))
	}
	if n := cfg.Maps.BreakerThreshold; n > 0 {
		geocodeOpts = append(geocodeOpts, geo.WithBreaker(circuitbreaker.New("geocode", n, cfg.Maps.BreakerCooldown.Std())))
		plannerOpts = append(plannerOpts, geo.WithPlannerBreaker(circuitbreaker.New("directions", n, cfg.Maps.BreakerCooldown.Std())))
	}
	gate := ratelimit.NewWindow(cfg.Geocode.RateLimit, cfg.Geocode.Window.Std())
	geocoder := geo.NewGeocoder(mapsClient, gate, geocodeOpts...)

	return &app{
		feed:    providerCache,
		raw:     feedClient,
		search:  search.NewService(providerCache, geocoder, cfg.Search.MaxResults),
		planner: geo.NewPlanner(mapsClient, plannerOpts...),
	}, nil
}
