package main

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/ferro-labs/carefinder/internal/logging"
	"github.com/ferro-labs/carefinder/internal/version"
	"github.com/ferro-labs/carefinder/web"
)

// Error bodies returned to clients. Details are only logged.
const (
	msgSearchFailed  = "An error occurred during the search process"
	msgRouteFailed   = "Unable to calculate route"
	msgRawDataFailed = "Unable to fetch raw data"
	msgInternal      = "Internal server error"
)

const maxFormMemory = 1 << 20

func (a *app) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := web.Index()
	if err != nil {
		logging.FromContext(r.Context()).Error("landing page unavailable", "error", err)
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(page)
}

// handleSearch reads the form field "location" and returns the matching
// providers as a JSON array.
func (a *app) handleSearch(w http.ResponseWriter, r *http.Request) {
	defer recoverWith(w, r, msgSearchFailed)

	if err := parseForm(r); err != nil {
		logging.FromContext(r.Context()).Error("search: bad form", "error", err)
		writeError(w, http.StatusInternalServerError, msgSearchFailed)
		return
	}
	writeJSON(w, http.StatusOK, a.search.Search(r.Context(), r.PostForm.Get("location")))
}

// handleRoute reads "user_location" and repeated "stops" and returns the
// Directions API routes.
func (a *app) handleRoute(w http.ResponseWriter, r *http.Request) {
	defer recoverWith(w, r, msgRouteFailed)

	log := logging.FromContext(r.Context())
	if err := parseForm(r); err != nil {
		log.Error("route: bad form", "error", err)
		writeError(w, http.StatusInternalServerError, msgRouteFailed)
		return
	}
	origin := r.PostForm.Get("user_location")
	stops := r.PostForm["stops"]

	routes, err := a.planner.Plan(r.Context(), origin, stops)
	if err != nil {
		log.Error("error getting directions", "error", err, "stops", len(stops))
		writeError(w, http.StatusInternalServerError, msgRouteFailed)
		return
	}
	writeJSON(w, http.StatusOK, routes)
}

// handleRawData re-fetches the feed and relays it unchanged.
func (a *app) handleRawData(w http.ResponseWriter, r *http.Request) {
	body, err := a.raw.FetchRaw(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Error("error fetching raw provider data", "error", err)
		writeError(w, http.StatusInternalServerError, msgRawDataFailed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (a *app) handleRefresh(w http.ResponseWriter, r *http.Request) {
	list := a.feed.Refresh(r.Context())
	logging.FromContext(r.Context()).Info("provider feed refreshed", "providers", len(list))
	writeJSON(w, http.StatusOK, map[string]int{"providers": len(list)})
}

// handleHealth reports liveness and the cached provider count. It never
// triggers a feed fetch.
func (a *app) handleHealth(w http.ResponseWriter, _ *http.Request) {
	count, loaded, fetchedAt := a.feed.Snapshot()
	body := map[string]interface{}{
		"status":      "ok",
		"providers":   count,
		"feed_loaded": loaded,
		"version":     version.Short(),
	}
	if loaded {
		body["feed_fetched_at"] = fetchedAt.UTC().Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, body)
}

// parseForm parses url-encoded or multipart bodies into r.PostForm.
func parseForm(r *http.Request) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return r.ParseMultipartForm(maxFormMemory)
	}
	return r.ParseForm()
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
