package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	RepositoryCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "repository_calls_total",
			Help: "Total number of repository method calls",
		},
		[]string{"method", "status"},
	)

	RepositoryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "repository_duration_seconds",
			Help:    "Duration of repository method calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	// Outcome is "accepted", "duplicate" or a reject reason.
	ReconciliationOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_reconciliations_total",
			Help: "Total number of payment notifications by reconciliation outcome",
		},
		[]string{"source", "outcome"},
	)

	ReconciliationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "webhook_reconciliation_duration_seconds",
			Help:    "Duration of payment notification reconciliation in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	DepositsCredited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "deposits_credited_total",
			Help: "Total number of deposits credited to a user balance",
		},
	)

	PendingDeposits = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "deposits_pending",
			Help: "Number of deposits waiting for a payment notification",
		},
	)

	OldestPendingDepositAge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "deposits_pending_oldest_age_seconds",
			Help: "Age of the oldest pending deposit in seconds",
		},
	)

	KafkaMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_total",
			Help: "Total number of Kafka messages handled",
		},
		[]string{"topic", "status"},
	)
)

var registerOnce sync.Once

func InitMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RepositoryCalls,
			RepositoryDuration,
			ReconciliationOutcomes,
			ReconciliationDuration,
			DepositsCredited,
			PendingDeposits,
			OldestPendingDepositAge,
			KafkaMessages,
		)
	})
}
