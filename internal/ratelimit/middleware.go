package ratelimit

import (
	"encoding/json"
	"net"
	"net/http"

	"github.com/ferro-labs/carefinder/internal/logging"
	"github.com/ferro-labs/carefinder/internal/metrics"
)

// Middleware rejects requests with 429 once the client IP exhausts its bucket
// in store. It keys on r.RemoteAddr, so mount it after chi's RealIP when the
// server sits behind a proxy.
func Middleware(store *Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r)
			if store.Allow(key) {
				next.ServeHTTP(w, r)
				return
			}

			metrics.RateLimitRejections.WithLabelValues("ip").Inc()
			logging.FromContext(r.Context()).Warn("request rate limited", "client_ip", key, "path", r.URL.Path)

			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "rate limit exceeded"})
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
