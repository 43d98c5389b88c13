// Package metrics defines and registers the custom Prometheus metrics of the
// users API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics register with the default Prometheus registry on import. HTTP
// request metrics are added separately by the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "users"

// ── Store metrics ─────────────────────────────────────────────────────────────

// UsersCreatedTotal counts users inserted into the store (replays excluded).
var UsersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "created_total",
		Help:      "Total number of users created.",
	},
)

// UsersUpdatedTotal counts successful updates.
// Label:
//   - mode: "replace" (PUT) or "patch" (PATCH)
var UsersUpdatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "updated_total",
		Help:      "Total number of users updated, by update mode.",
	},
	[]string{"mode"},
)

var UsersDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deleted_total",
		Help:      "Total number of users deleted.",
	},
)

// UsersStored tracks the current size of the store.
var UsersStored = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "stored",
		Help:      "Current number of users held in the store.",
	},
)

// ── Idempotency metrics ───────────────────────────────────────────────────────

// IdempotentReplaysTotal counts creates answered from a previous Idempotency-Key.
var IdempotentReplaysTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "idempotent_replays_total",
		Help:      "Total number of create requests answered with a previously created user.",
	},
)

// IdempotencyErrorsTotal counts idempotency store failures.
// Label:
//   - op: "lookup" or "remember"
var IdempotencyErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "idempotency_errors_total",
		Help:      "Total number of idempotency store failures, by operation.",
	},
	[]string{"op"},
)
