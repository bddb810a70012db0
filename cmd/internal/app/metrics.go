package app

import (
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "indiechat",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method, and status class.",
	}, []string{"route", "method", "class"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "indiechat",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})
)

// MetricsHandler exposes the Prometheus scrape endpoint.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// WithMetrics records request counts and latency per route.
func WithMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		lrw := &loggingResponseWriter{
			ResponseWriter: w,
			status:         http.StatusOK,
		}

		next.ServeHTTP(lrw, r)

		route := metricsRoute(r.URL.Path)
		httpRequestsTotal.WithLabelValues(route, r.Method, statusClass(lrw.status)).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// metricsRoute collapses request paths into a fixed route set so label
// cardinality stays bounded.
func metricsRoute(path string) string {
	switch {
	case path == "/api/chats" || strings.HasPrefix(path, "/api/chats/"):
		return "/api/chats"
	case strings.HasPrefix(path, "/chat/details/"):
		return "/chat/details"
	case path == "/api/query-enhanced",
		path == "/api/landing-page",
		path == "/ws",
		path == "/healthz",
		path == "/readyz",
		path == "/metrics":
		return path
	default:
		return "other"
	}
}
