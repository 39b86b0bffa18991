package prometheus

import (
	"net/http"
	"time"

	"github.com/haoran-tse/tramcar/pkg/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Database operation metrics
	DbOperationDuration prometheus.HistogramVec

	// Site metrics
	SiteOperationsCounter prometheus.CounterVec

	// Job metrics
	JobOperationsCounter  prometheus.CounterVec
	JobTransitionsCounter prometheus.CounterVec

	// Catalog metrics
	CategoryOperationsCounter prometheus.CounterVec
	CompanyOperationsCounter  prometheus.CounterVec
	CountryOperationsCounter  prometheus.CounterVec

	// Expiration email metrics
	ExpirationEmailsCounter prometheus.CounterVec

	// Sweeper metrics
	SweeperRunsCounter    prometheus.Counter
	SweeperExpiredCounter prometheus.Counter

	// Rate limiting metrics
	RateLimitedCounter prometheus.Counter
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(config *config.Config) {
	// Use metric prefix from configuration
	prefix := config.Metrics.Prefix

	// HTTP request metrics
	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTP request duration
	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Database operation metrics
	DbOperationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	// Site metrics
	SiteOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_site_operations_total",
			Help: "Total number of site operations",
		},
		[]string{"operation"},
	)

	// Job metrics
	JobOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_job_operations_total",
			Help: "Total number of job operations",
		},
		[]string{"operation"},
	)

	// Lifecycle transition attempts by outcome
	JobTransitionsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_job_transitions_total",
			Help: "Total number of job lifecycle transitions by outcome",
		},
		[]string{"transition", "outcome"},
	)

	// Catalog metrics
	CategoryOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_category_operations_total",
			Help: "Total number of category operations",
		},
		[]string{"operation"},
	)

	CompanyOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_company_operations_total",
			Help: "Total number of company operations",
		},
		[]string{"operation"},
	)

	CountryOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_country_operations_total",
			Help: "Total number of country operations",
		},
		[]string{"operation"},
	)

	// Expiration email metrics
	ExpirationEmailsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_expiration_emails_total",
			Help: "Total number of expiration notification emails by result",
		},
		[]string{"result"},
	)

	// Sweeper metrics
	SweeperRunsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_sweeper_runs_total",
			Help: "Total number of expiration sweep runs",
		},
	)

	SweeperExpiredCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_sweeper_expired_total",
			Help: "Total number of jobs expired by the sweeper",
		},
	)

	// Rate limiting metrics
	RateLimitedCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_rate_limited_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
	)
}

// Handler returns an HTTP handler for the Prometheus metrics endpoint
func Handler() http.Handler {
	return promhttp.Handler()
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordSiteOperation increments the site operations counter
func RecordSiteOperation(operation string) {
	SiteOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordJobOperation increments the job operations counter
func RecordJobOperation(operation string) {
	JobOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordJobTransition records a lifecycle transition attempt and its outcome
func RecordJobTransition(transition, outcome string) {
	JobTransitionsCounter.WithLabelValues(transition, outcome).Inc()
}

// RecordCategoryOperation increments the category operations counter
func RecordCategoryOperation(operation string) {
	CategoryOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordCompanyOperation increments the company operations counter
func RecordCompanyOperation(operation string) {
	CompanyOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordCountryOperation increments the country operations counter
func RecordCountryOperation(operation string) {
	CountryOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordExpirationEmail records the result of one expiration notice delivery
func RecordExpirationEmail(result string) {
	ExpirationEmailsCounter.WithLabelValues(result).Inc()
}
