package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// Transaction metrics
	TransactionsCreated  *prometheus.CounterVec
	TransactionsReversed prometheus.Counter
	TransactionAmount    prometheus.Histogram
	TransactionErrors    *prometheus.CounterVec

	// Account metrics
	AccountsCreated   prometheus.Counter
	AccountOperations *prometheus.CounterVec

	// Partition metrics
	PartitionsCreated prometheus.Counter
	PartitionsDeleted prometheus.Counter

	// Scheduler metrics
	SweepRuns        *prometheus.CounterVec
	SweepOccurrences *prometheus.CounterVec
	InterestAccruals prometheus.Counter
	SweepDuration    prometheus.Histogram

	// Database metrics
	DBRetries prometheus.Counter
	DBErrors  *prometheus.CounterVec

	// Conservation metrics
	ConservationChecks   prometheus.Counter
	ConservationBreaches prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		TransactionsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fundledger_transactions_created_total",
				Help: "Total number of transactions created, by type",
			},
			[]string{"type"},
		),
		TransactionsReversed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fundledger_transactions_reversed_total",
			Help: "Total number of transactions reversed",
		}),
		TransactionAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "fundledger_transaction_amount",
			Help:    "Transaction amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		TransactionErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fundledger_transaction_errors_total",
				Help: "Total number of failed ledger operations by operation",
			},
			[]string{"operation"},
		),

		AccountsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fundledger_accounts_created_total",
			Help: "Total number of accounts created",
		}),
		AccountOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fundledger_account_operations_total",
				Help: "Total account operations by type",
			},
			[]string{"operation"},
		),

		PartitionsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fundledger_partitions_created_total",
			Help: "Total number of partitions created",
		}),
		PartitionsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fundledger_partitions_deleted_total",
			Help: "Total number of partitions deleted",
		}),

		SweepRuns: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fundledger_sweep_runs_total",
				Help: "Total scheduler sweep runs by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		SweepOccurrences: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fundledger_sweep_occurrences_total",
				Help: "Recurring occurrences processed by result",
			},
			[]string{"result"},
		),
		InterestAccruals: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fundledger_interest_accruals_total",
			Help: "Total interest accruals applied",
		}),
		SweepDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "fundledger_sweep_duration_seconds",
			Help:    "Duration of scheduler sweeps",
			Buckets: prometheus.DefBuckets,
		}),

		DBRetries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fundledger_db_retries_total",
			Help: "Total database transaction retries on serialization conflicts",
		}),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fundledger_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		ConservationChecks: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fundledger_conservation_checks_total",
			Help: "Total conservation checks run",
		}),
		ConservationBreaches: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fundledger_conservation_breaches_total",
			Help: "Total accounts found violating conservation",
		}),
	}
}
