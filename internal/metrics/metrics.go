// Package metrics provides Prometheus metrics for record loading.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Record outcomes.
const (
	OutcomeValid     = "valid"
	OutcomeInvalid   = "invalid"
	OutcomeDuplicate = "duplicate"
)

// Batch results.
const (
	ResultLoaded    = "loaded"
	ResultValidated = "validated"
	ResultEmpty     = "empty"
	ResultRejected  = "rejected"
	ResultFailed    = "failed"
)

// Metrics holds all Prometheus metrics for the loader. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	Records       *prometheus.CounterVec
	Batches       *prometheus.CounterVec
	BatchDuration *prometheus.HistogramVec
	RowsWritten   *prometheus.CounterVec
	DBRetries     *prometheus.CounterVec

	registry *prometheus.Registry
}

// New registers the loader metrics on a fresh registry together with the Go
// runtime and process collectors.
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = "powergen"
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		Records: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "records_total",
				Help:      "Records seen by validation, by outcome",
			},
			[]string{"source", "outcome"},
		),
		Batches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "batches_total",
				Help:      "Input batches processed, by result",
			},
			[]string{"source", "result"},
		),
		BatchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "batch_duration_seconds",
				Help:      "Time from parse to write for one batch",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
			},
			[]string{"source"},
		),
		RowsWritten: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rows_written_total",
				Help:      "Rows copied into the database",
			},
			[]string{"table"},
		),
		DBRetries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "db_retries_total",
				Help:      "Database operations retried after a connection failure",
			},
			[]string{"op"},
		),
		registry: reg,
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the registry for tests and custom exporters.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// ObserveRecords adds one batch's validation counts.
func (m *Metrics) ObserveRecords(source string, valid, invalid, duplicate int) {
	if m == nil {
		return
	}
	m.Records.WithLabelValues(source, OutcomeValid).Add(float64(valid))
	m.Records.WithLabelValues(source, OutcomeInvalid).Add(float64(invalid))
	m.Records.WithLabelValues(source, OutcomeDuplicate).Add(float64(duplicate))
}

// ObserveBatch counts a finished batch and its duration.
func (m *Metrics) ObserveBatch(source, result string, d time.Duration) {
	if m == nil {
		return
	}
	m.Batches.WithLabelValues(source, result).Inc()
	m.BatchDuration.WithLabelValues(source).Observe(d.Seconds())
}

// AddRowsWritten counts rows copied into table.
func (m *Metrics) AddRowsWritten(table string, n int) {
	if m == nil {
		return
	}
	m.RowsWritten.WithLabelValues(table).Add(float64(n))
}

// IncDBRetry matches the postgres adapter's OnRetry hook.
func (m *Metrics) IncDBRetry(op string) {
	if m == nil {
		return
	}
	m.DBRetries.WithLabelValues(op).Inc()
}
