package main

import (
	"context"
	"net/http"
	"time"

	"github.com/ferro-labs/carefinder/internal/logging"
	"github.com/ferro-labs/carefinder/internal/ratelimit"
	"github.com/ferro-labs/carefinder/providers"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"googlemaps.github.io/maps"
)

type providerCache interface {
	Refresh(ctx context.Context) []providers.Provider
	Snapshot() (count int, loaded bool, fetchedAt time.Time)
}

type rawFetcher interface {
	FetchRaw(ctx context.Context) ([]byte, error)
}

type searcher interface {
	Search(ctx context.Context, location string) []providers.Provider
}

type routePlanner interface {
	Plan(ctx context.Context, origin string, stops []string) ([]maps.Route, error)
}

// app holds the dependencies shared by the HTTP handlers.
type app struct {
	feed    providerCache
	raw     rawFetcher
	search  searcher
	planner routePlanner
}

// newRouter builds the HTTP router. limiter may be nil to disable inbound
// rate limiting.
func newRouter(a *app, corsOrigins []string, limiter *ratelimit.Store) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(logging.Middleware)
	r.Use(middleware.Logger)
	r.Use(recoverer)
	r.Use(corsMiddleware(corsOrigins...))
	if limiter != nil {
		r.Use(ratelimit.Middleware(limiter))
	}

	r.Get("/", a.handleIndex)
	r.Post("/search", a.handleSearch)
	r.Post("/route", a.handleRoute)

	r.Route("/debug", func(r chi.Router) {
		r.Get("/raw_data", a.handleRawData)
		r.Post("/refresh", a.handleRefresh)
	})

	r.Get("/health", a.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
