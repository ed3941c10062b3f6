package main

import (
	"net/http"
	"runtime/debug"

	"github.com/ferro-labs/carefinder/internal/logging"
)

// recoverer turns panics that escape a handler into a JSON 500.
func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer recoverWith(w, r, msgInternal)
		next.ServeHTTP(w, r)
	})
}

// recoverWith must be deferred directly. It logs a panic and writes message
// as a JSON 500.
func recoverWith(w http.ResponseWriter, r *http.Request, message string) {
	rec := recover()
	if rec == nil {
		return
	}
	if rec == http.ErrAbortHandler {
		panic(rec)
	}
	logging.FromContext(r.Context()).Error("panic recovered",
		"panic", rec,
		"path", r.URL.Path,
		"stack", string(debug.Stack()),
	)
	writeError(w, http.StatusInternalServerError, message)
}
