package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/eugener/foyer/internal/telemetry"
)

// statusStrings pre-renders every HTTP status code so the hot path never
// calls strconv.Itoa.
var statusStrings [600]string

func init() {
	for i := range statusStrings {
		statusStrings[i] = strconv.Itoa(i)
	}
}

// metricsMiddleware records request counts, duration, and the active-request
// gauge. It reuses the pooled statusWriter to capture the response code.
func metricsMiddleware(m *telemetry.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m.ActiveRequests.Inc()
			defer m.ActiveRequests.Dec()
			start := time.Now()

			sw := statusWriterPool.Get().(*statusWriter)
			sw.ResponseWriter = w
			sw.status = http.StatusOK
			sw.wroteHeader = false

			next.ServeHTTP(sw, r)

			status := sw.status
			sw.ResponseWriter = nil
			statusWriterPool.Put(sw)

			// Label by the chi route pattern, not the raw path: session
			// handles and resource IDs in paths would explode cardinality.
			pattern := routePattern(r)
			m.RequestsTotal.WithLabelValues(r.Method, pattern, statusStrings[status]).Inc()
			m.RequestDuration.WithLabelValues(r.Method, pattern).Observe(time.Since(start).Seconds())
		})
	}
}

// routePattern returns the matched chi pattern, falling back to the raw
// path for requests that never hit a chi route.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
		return rctx.RoutePattern()
	}
	return r.URL.Path
}
