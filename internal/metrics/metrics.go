// Package metrics provides Prometheus metrics for the mdview server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mdview_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mdview_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	treeBuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mdview_tree_build_duration_seconds",
			Help:    "Time to walk the content directory and build a tree",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	treeBuildErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mdview_tree_build_errors_total",
			Help: "Tree builds that failed",
		},
		[]string{"kind"},
	)

	documentsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mdview_documents_served_total",
			Help: "Document loads by outcome",
		},
		[]string{"status"},
	)

	documentBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mdview_document_bytes_total",
			Help: "Total bytes of document content served",
		},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordHTTPRequest records an HTTP request metric.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordTreeBuild records one tree walk of the given kind ("plain",
// "detailed", "details").
func RecordTreeBuild(kind string, duration time.Duration, err error) {
	treeBuildDuration.WithLabelValues(kind).Observe(duration.Seconds())
	if err != nil {
		treeBuildErrors.WithLabelValues(kind).Inc()
	}
}

// RecordDocument records a document load.
func RecordDocument(bytes int, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	documentsServed.WithLabelValues(status).Inc()
	documentBytes.Add(float64(bytes))
}

// Middleware returns HTTP middleware that records request metrics. Requests
// are labelled by their chi route pattern so path parameters do not blow up
// label cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		RecordHTTPRequest(r.Method, routePattern(r), status, time.Since(start))
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
