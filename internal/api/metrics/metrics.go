// Package metrics defines and registers the Prometheus metrics for the fest
// contact-management API. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "festcrm"

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid", "throttled", or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// EntityOpsTotal counts resource-engine operations.
// Labels:
//   - entity: "sponsor", "alumnus", or "speaker"
//   - operation: "search", "add", "list", "get", "update", "delete", "count", "export"
//   - outcome: "ok", "validation", "conflict", "not_found", "unauthorized", "error"
var EntityOpsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "entity_operations_total",
		Help:      "Total number of entity operations, by entity, operation and outcome.",
	},
	[]string{"entity", "operation", "outcome"},
)

// ExportDuration measures how long a spreadsheet export takes end-to-end.
var ExportDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "export_duration_seconds",
		Help:      "Duration of spreadsheet export builds.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"entity"},
)

// SessionInvalidationsTotal counts sessions cleared because their privileged
// identity no longer matched current configuration.
var SessionInvalidationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_invalidations_total",
		Help:      "Total number of sessions invalidated after a credential rotation.",
	},
)
