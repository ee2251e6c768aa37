package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the reconciliation service.
type Metrics struct {
	// Run metrics
	RunsStarted   prometheus.Counter
	RunsFailed    *prometheus.CounterVec
	RunDuration   prometheus.Histogram
	JournalLines  prometheus.Counter
	LedgerEntries prometheus.Gauge

	// Data-quality metrics, one increment per anomaly surfaced
	SettledBatches       prometheus.Counter
	DeferredBatches      prometheus.Counter
	UnmatchedPayments    prometheus.Counter
	SkippedBatches       prometheus.Counter
	ValidationMismatches prometheus.Counter
	DroppedRefunds       prometheus.Counter
}

// New creates and registers all metrics.
func New() *Metrics {
	return &Metrics{
		RunsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "striperecon_runs_started_total",
			Help: "Total number of reconciliation runs started",
		}),
		RunsFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "striperecon_runs_failed_total",
			Help: "Total number of reconciliation runs that aborted",
		}, []string{"reason"}),
		RunDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "striperecon_run_duration_seconds",
			Help:    "Duration of reconciliation runs",
			Buckets: prometheus.DefBuckets,
		}),
		JournalLines: promauto.NewCounter(prometheus.CounterOpts{
			Name: "striperecon_journal_lines_total",
			Help: "Total journal lines emitted",
		}),
		LedgerEntries: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "striperecon_ledger_entries",
			Help: "Size of the processed-payouts ledger after the last run",
		}),
		SettledBatches: promauto.NewCounter(prometheus.CounterOpts{
			Name: "striperecon_settled_batches_total",
			Help: "Payout batches journalized",
		}),
		DeferredBatches: promauto.NewCounter(prometheus.CounterOpts{
			Name: "striperecon_deferred_batches_total",
			Help: "Payout batches held back awaiting a deposit",
		}),
		UnmatchedPayments: promauto.NewCounter(prometheus.CounterOpts{
			Name: "striperecon_unmatched_payments_total",
			Help: "Captured payments with no payout batch",
		}),
		SkippedBatches: promauto.NewCounter(prometheus.CounterOpts{
			Name: "striperecon_skipped_batches_total",
			Help: "Settled batches filtered out by the idempotency ledger",
		}),
		ValidationMismatches: promauto.NewCounter(prometheus.CounterOpts{
			Name: "striperecon_validation_mismatches_total",
			Help: "Reconciliation summary rows that failed the gross cross-check",
		}),
		DroppedRefunds: promauto.NewCounter(prometheus.CounterOpts{
			Name: "striperecon_dropped_refunds_total",
			Help: "Refund rows dropped for lack of a settled payout",
		}),
	}
}
