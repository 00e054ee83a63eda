package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// MessagesTotal counts handled message payloads by kind (post, edit, visit) and outcome.
	MessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_total",
			Help: "Total number of message payloads by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	// WeatherLookupsTotal counts weather oracle lookups by status (ok, error).
	WeatherLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_lookups_total",
			Help: "Total number of weather oracle lookups by status",
		},
		[]string{"status"},
	)

	// LocationsTotal is the number of stored locations (refreshed by the stats scheduler).
	LocationsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "locations_total",
			Help: "Number of stored locations",
		},
	)

	// VisitsTotal is the sum of all visit counters (refreshed by the stats scheduler).
	VisitsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "visits_total",
			Help: "Sum of visit counters across all locations",
		},
	)
)

var (
	numericPathSegment = regexp.MustCompile(`/[0-9]+(/|$)`)
	initOnce           sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal,
			MessagesTotal, WeatherLookupsTotal, LocationsTotal, VisitsTotal)
	})
}

// NormalizePath reduces cardinality by replacing numeric path segments with {id}.
func NormalizePath(path string) string {
	return numericPathSegment.ReplaceAllString(path, "/{id}$1")
}

// RecordRequest records duration and count for an HTTP request. Call from middleware with method, path, statusCode, duration.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// IncMessage counts one classified message payload.
func IncMessage(kind string, handled bool) {
	outcome := "rejected"
	if handled {
		outcome = "handled"
	}
	MessagesTotal.WithLabelValues(kind, outcome).Inc()
}

// IncWeatherLookup counts one weather oracle lookup.
func IncWeatherLookup(ok bool) {
	status := "error"
	if ok {
		status = "ok"
	}
	WeatherLookupsTotal.WithLabelValues(status).Inc()
}

// SetStats updates the scheduler-maintained gauges.
func SetStats(locations, visits int) {
	LocationsTotal.Set(float64(locations))
	VisitsTotal.Set(float64(visits))
}
