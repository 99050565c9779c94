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
	// Operation metrics
	OperationsTotal   *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	TokensCreated     prometheus.Counter
	UnitsMinted       prometheus.Counter

	// Transaction metrics
	TransactionsSubmitted  prometheus.Counter
	TransactionFailures    *prometheus.CounterVec
	ConfirmationDuration   *prometheus.HistogramVec
	SignaturesCollected    prometheus.Counter

	// Upload metrics
	PinsTotal   *prometheus.CounterVec
	PinDuration *prometheus.HistogramVec
	PinErrors   prometheus.Counter

	// RPC metrics
	RPCCallLatency *prometheus.HistogramVec
	RPCCallErrors  *prometheus.CounterVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "token_forge"
	}

	return &Metrics{
		// Operation metrics
		OperationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orchestrator",
			Name:      "operations_total",
			Help:      "Total number of lifecycle operations by kind and status",
		}, []string{"kind", "status"}),
		OperationDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "orchestrator",
			Name:      "operation_duration_seconds",
			Help:      "End-to-end operation duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 90, 120, 300},
		}, []string{"kind"}),
		TokensCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orchestrator",
			Name:      "tokens_created_total",
			Help:      "Total number of mints created",
		}),
		UnitsMinted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orchestrator",
			Name:      "units_minted_total",
			Help:      "Total base units minted across all mints",
		}),

		// Transaction metrics
		TransactionsSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transaction",
			Name:      "submitted_total",
			Help:      "Total number of transactions submitted",
		}),
		TransactionFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transaction",
			Name:      "failures_total",
			Help:      "Total number of transaction failures by stage",
		}, []string{"stage"}),
		ConfirmationDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "transaction",
			Name:      "confirmation_duration_seconds",
			Help:      "Time from submission to reaching the target commitment",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 90},
		}, []string{"commitment"}),
		SignaturesCollected: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transaction",
			Name:      "signatures_collected_total",
			Help:      "Total number of signatures applied to transaction bundles",
		}),

		// Upload metrics
		PinsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "metastore",
			Name:      "pins_total",
			Help:      "Total number of content pins by type",
		}, []string{"type"}),
		PinDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "metastore",
			Name:      "pin_duration_seconds",
			Help:      "Pin request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"type"}),
		PinErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "metastore",
			Name:      "pin_errors_total",
			Help:      "Total number of failed pin requests",
		}),

		// RPC metrics
		RPCCallLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "solana",
			Name:      "rpc_call_latency_seconds",
			Help:      "Solana RPC call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		RPCCallErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "solana",
			Name:      "rpc_call_errors_total",
			Help:      "Total number of failed RPC calls by method",
		}, []string{"method"}),

		// Database metrics
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
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordOperation records a completed lifecycle operation.
func RecordOperation(kind, status string, durationSeconds float64) {
	DefaultMetrics.OperationsTotal.WithLabelValues(kind, status).Inc()
	DefaultMetrics.OperationDuration.WithLabelValues(kind).Observe(durationSeconds)
}

// RecordTokenCreated increments the tokens created counter.
func RecordTokenCreated() {
	DefaultMetrics.TokensCreated.Inc()
}

// RecordUnitsMinted adds the given base-unit amount to the minted counter.
func RecordUnitsMinted(baseUnits uint64) {
	DefaultMetrics.UnitsMinted.Add(float64(baseUnits))
}

// RecordSubmission increments the transactions submitted counter.
func RecordSubmission() {
	DefaultMetrics.TransactionsSubmitted.Inc()
}

// RecordTransactionFailure records a transaction failure at the given stage.
func RecordTransactionFailure(stage string) {
	DefaultMetrics.TransactionFailures.WithLabelValues(stage).Inc()
}

// RecordConfirmation records the time taken to reach the target commitment.
func RecordConfirmation(commitment string, seconds float64) {
	DefaultMetrics.ConfirmationDuration.WithLabelValues(commitment).Observe(seconds)
}

// RecordPin records a pin request outcome.
func RecordPin(pinType string, seconds float64, err error) {
	DefaultMetrics.PinsTotal.WithLabelValues(pinType).Inc()
	DefaultMetrics.PinDuration.WithLabelValues(pinType).Observe(seconds)
	if err != nil {
		DefaultMetrics.PinErrors.Inc()
	}
}

// RecordRPCLatency records RPC call latency.
func RecordRPCLatency(method string, seconds float64, err error) {
	DefaultMetrics.RPCCallLatency.WithLabelValues(method).Observe(seconds)
	if err != nil {
		DefaultMetrics.RPCCallErrors.WithLabelValues(method).Inc()
	}
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
