// Package metrics exposes Prometheus instruments for the sync coordinator
// and the interest sweep. Served on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var ReconcileAttempts = promauto.NewCounter(prometheus.CounterOpts{
	Name: "debtdesk_sync_reconcile_attempts_total",
	Help: "Reconciliation passes attempted against the sync folder.",
})

var ReconcileFailures = promauto.NewCounter(prometheus.CounterOpts{
	Name: "debtdesk_sync_reconcile_failures_total",
	Help: "Reconciliation passes that ended in an error recorded on the sync status.",
})

// Winner label: "local" (store overwrote file), "file" (file overwrote
// store), "none" (timestamps equal, no write happened).
var ReconcileOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "debtdesk_sync_reconcile_outcomes_total",
	Help: "Reconciliation outcomes by winning side.",
}, []string{"winner"})

var LastSyncTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "debtdesk_sync_last_success_timestamp_seconds",
	Help: "Unix time of the last successful reconciliation.",
})

var SweepRuns = promauto.NewCounter(prometheus.CounterOpts{
	Name: "debtdesk_interest_sweep_runs_total",
	Help: "Interest sweep passes executed.",
})

var SweepDebtsAdjusted = promauto.NewCounter(prometheus.CounterOpts{
	Name: "debtdesk_interest_sweep_debts_adjusted_total",
	Help: "Debts whose status or adjusted amount changed during sweeps.",
})
