// Package metrics defines and registers all custom Prometheus metrics for the
// sweet shop API. It is the single source of truth for metric names, labels,
// and help strings. Metrics are registered with the default registry at
// package init via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "sweetshop"

// ── Stock metrics ─────────────────────────────────────────────────────────────

// PurchasesTotal counts purchase attempts by outcome.
// Label:
//   - result: "success", "insufficient_stock", "not_found", or "error"
var PurchasesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "purchases_total",
		Help:      "Total number of purchase attempts, labelled by outcome.",
	},
	[]string{"result"},
)

// RestocksTotal counts restock attempts by outcome.
// Label:
//   - result: "success", "not_found", or "error"
var RestocksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "restocks_total",
		Help:      "Total number of restock attempts, labelled by outcome.",
	},
	[]string{"result"},
)

// UpdateRetriesTotal counts optimistic-write retries on catalog updates.
// A climbing rate indicates hot contention on individual sweets.
var UpdateRetriesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "update_retries_total",
		Help:      "Total number of version-conflict retries on catalog updates.",
	},
)

// ── Ledger metrics ────────────────────────────────────────────────────────────

// LedgerProcessedTotal counts stock events appended to the audit ledger.
// Label:
//   - kind: "purchase" or "restock"
var LedgerProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ledger_processed_total",
		Help:      "Total number of stock events recorded in the ledger.",
	},
	[]string{"kind"},
)

// LedgerErrorsTotal counts stock events that failed to record.
// Label:
//   - reason: short description of the failure (e.g. "insert_failed")
var LedgerErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ledger_errors_total",
		Help:      "Total number of stock events that failed to record.",
	},
	[]string{"reason"},
)

// LedgerDedupTotal counts deduplication decisions.
// Label:
//   - result: "hit" (duplicate, skipped) or "miss" (new event, recorded)
var LedgerDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ledger_dedup_total",
		Help:      "Total number of ledger deduplication checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// LedgerQueueDepth tracks the number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var LedgerQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "ledger_queue_depth",
		Help:      "Current number of stock events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
