// Package metrics exposes Prometheus collectors for the HTTP API, catalog
// mutations, search and authentication.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// API
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bibliohome_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bibliohome_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "route"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bibliohome_api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bibliohome_api_rate_limit_hits_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
		[]string{"class"}, // "api", "login"
	)

	// Catalog
	CatalogMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bibliohome_catalog_mutations_total",
			Help: "Total number of successful catalog writes",
		},
		[]string{"entity", "operation"}, // entity: book, movie, book_instance...; operation: create, update, delete
	)

	// Search
	SearchQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bibliohome_search_queries_total",
			Help: "Total number of full-text catalog searches",
		},
		[]string{"result"}, // "ok", "error"
	)

	SearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bibliohome_search_duration_seconds",
			Help:    "Full-text search latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	SearchIndexedDocuments = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bibliohome_search_indexed_documents",
			Help: "Number of documents in the catalog search index",
		},
	)

	// Auth
	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bibliohome_login_attempts_total",
			Help: "Total number of login attempts",
		},
		[]string{"result"}, // "success", "failure"
	)
)

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordAPIRequest records one completed API request.
func RecordAPIRequest(method, route string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit counts a rejected request for the given limiter class.
func RecordRateLimitHit(class string) {
	APIRateLimitHits.WithLabelValues(class).Inc()
}

// RecordCatalogMutation counts a successful write to a catalog entity.
func RecordCatalogMutation(entity, operation string) {
	CatalogMutations.WithLabelValues(entity, operation).Inc()
}

// RecordSearch records a full-text search.
func RecordSearch(duration time.Duration, err error) {
	SearchDuration.Observe(duration.Seconds())
	if err != nil {
		SearchQueries.WithLabelValues("error").Inc()
		return
	}
	SearchQueries.WithLabelValues("ok").Inc()
}

// SetIndexedDocuments sets the search index size gauge.
func SetIndexedDocuments(n uint64) {
	SearchIndexedDocuments.Set(float64(n))
}

// RecordLogin counts a login attempt.
func RecordLogin(success bool) {
	if success {
		LoginAttempts.WithLabelValues("success").Inc()
		return
	}
	LoginAttempts.WithLabelValues("failure").Inc()
}
