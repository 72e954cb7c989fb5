// Package metrics defines and registers the custom Prometheus metrics of the
// Sweet Shop API. HTTP request metrics come from the echoprometheus
// middleware; everything here is domain level.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "sweetshop"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// UsersRegisteredTotal counts newly created accounts.
// Label:
//   - role: "user" or "admin"
var UsersRegisteredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_registered_total",
		Help:      "Total number of accounts created, by role.",
	},
	[]string{"role"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Catalog metrics ───────────────────────────────────────────────────────────

var SweetsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sweets_created_total",
		Help:      "Total number of catalog items created, by category.",
	},
	[]string{"category"},
)

// PurchasesTotal counts purchase attempts.
// Label:
//   - result: "success", "out_of_stock", "not_found" or "error"
var PurchasesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "purchases_total",
		Help:      "Total number of purchase attempts, by result.",
	},
	[]string{"result"},
)

// PurchaseDedupTotal counts idempotency-key decisions.
// Label:
//   - result: "hit" (replayed, skipped) or "miss" (new purchase)
var PurchaseDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "purchase_dedup_total",
		Help:      "Total number of purchase idempotency checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

var RestockedUnitsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "restocked_units_total",
		Help:      "Total number of units added by restock operations.",
	},
)

// ── Stock ledger metrics ──────────────────────────────────────────────────────

// StockEventsRecordedTotal counts ledger entries written.
// Label:
//   - kind: "purchase" or "restock"
var StockEventsRecordedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stock_events_recorded_total",
		Help:      "Total number of stock ledger entries persisted.",
	},
	[]string{"kind"},
)

// StockEventsErrorsTotal counts ledger entries that could not be written.
var StockEventsErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stock_events_errors_total",
		Help:      "Total number of stock events that failed to record.",
	},
	[]string{"reason"},
)

// StockLevel is the last known stock level per sweet.
var StockLevel = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "stock_level",
		Help:      "Units in stock after the most recent recorded movement.",
	},
	[]string{"sweet_id"},
)

// StockQueueDepth tracks the number of events waiting in each dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var StockQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "stock_queue_depth",
		Help:      "Current number of stock events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// StockEventDuration measures how long recording a single event takes.
var StockEventDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "stock_event_duration_seconds",
		Help:      "Duration of stock event recording from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"kind"},
)
