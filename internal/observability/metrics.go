// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Ingestion metrics
	RowsRead         *prometheus.CounterVec
	RowsDropped      *prometheus.CounterVec
	InvalidPriceRows prometheus.Counter

	// Classification metrics
	RecordsClassified *prometheus.CounterVec

	// Forecast metrics
	SkusAnalyzed   prometheus.Counter
	SkusForecasted prometheus.Counter
	AnomaliesFound prometheus.Counter

	// Pipeline metrics
	PipelineRunsTotal *prometheus.CounterVec
	PipelineDuration  *prometheus.HistogramVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastSuccessfulRun prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "pricelab"
	}

	return &Metrics{
		RowsRead: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "rows_read_total",
			Help:      "Total number of rows read by input table",
		}, []string{"table"}),
		RowsDropped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "rows_dropped_total",
			Help:      "Total number of rows dropped by input table and reason",
		}, []string{"table", "reason"}),
		InvalidPriceRows: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "invalid_price_rows_total",
			Help:      "Total number of price-change rows excluded for unparsable prices",
		}),

		RecordsClassified: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "classify",
			Name:      "records_total",
			Help:      "Total number of classified records by category",
		}, []string{"category"}),

		SkusAnalyzed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "trend",
			Name:      "skus_analyzed_total",
			Help:      "Total number of SKUs that produced trend statistics",
		}),
		SkusForecasted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "forecast",
			Name:      "skus_forecasted_total",
			Help:      "Total number of SKUs that received a forecast",
		}),
		AnomaliesFound: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "anomaly",
			Name:      "detected_total",
			Help:      "Total number of SKUs that received an anomaly z-score",
		}),

		PipelineRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Total number of pipeline runs by kind and status",
		}, []string{"kind", "status"}),
		PipelineDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "duration_seconds",
			Help:      "Pipeline run duration in seconds by kind",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		LastSuccessfulRun: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_run_timestamp",
			Help:      "Unix timestamp of the last successful pipeline run",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordRowsRead adds to the rows-read counter for one input table.
func RecordRowsRead(table string, n int) {
	DefaultMetrics.RowsRead.WithLabelValues(table).Add(float64(n))
}

// RecordRowsDropped adds to the rows-dropped counter.
func RecordRowsDropped(table, reason string, n int) {
	DefaultMetrics.RowsDropped.WithLabelValues(table, reason).Add(float64(n))
}

// RecordClassified increments the per-category classification counter.
func RecordClassified(category string) {
	DefaultMetrics.RecordsClassified.WithLabelValues(category).Inc()
}

// RecordPipelineRun records one finished run with its duration.
func RecordPipelineRun(kind, status string, durationSeconds float64) {
	DefaultMetrics.PipelineRunsTotal.WithLabelValues(kind, status).Inc()
	DefaultMetrics.PipelineDuration.WithLabelValues(kind).Observe(durationSeconds)
}

// RecordDBQuery records one database query with its duration and outcome.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
