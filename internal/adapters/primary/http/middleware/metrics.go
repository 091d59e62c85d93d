package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shelterops/adoption-forecast/internal/metrics"
)

// Metrics returns a middleware that records request counts and latencies.
// The path label uses the chi route pattern so parameterized routes collapse
// into one series.
func Metrics(registry *metrics.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := newResponseWriter(w)
			next.ServeHTTP(wrapped, r)

			routePattern := chi.RouteContext(r.Context()).RoutePattern()
			if routePattern == "" {
				routePattern = "unmatched"
			}

			registry.ObserveRequest(r.Method, routePattern, strconv.Itoa(wrapped.statusCode), time.Since(start).Seconds())
		})
	}
}
