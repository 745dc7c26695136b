// Package metrics defines and registers all custom Prometheus metrics for the
// companies API. It is the single source of truth for metric names, labels,
// and help strings. HTTP request metrics come from echoprometheus; the
// counters here track domain outcomes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "companies"

// ── Company metrics ───────────────────────────────────────────────────────────

// CompaniesCreatedTotal counts companies successfully created.
var CompaniesCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "created_total",
		Help:      "Total number of companies created.",
	},
)

// CompaniesUpdatedTotal counts successful company updates.
var CompaniesUpdatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "updated_total",
		Help:      "Total number of companies updated.",
	},
)

// CompaniesDeletedTotal counts companies permanently deleted.
var CompaniesDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deleted_total",
		Help:      "Total number of companies deleted.",
	},
)

// ── Access metrics ────────────────────────────────────────────────────────────

// OwnershipDenialsTotal counts requests rejected because the caller does not
// own the target company.
// Label:
//   - action: "read", "edit" or "delete"
var OwnershipDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ownership_denials_total",
		Help:      "Total number of requests denied by the ownership check.",
	},
	[]string{"action"},
)

// ValidationFailuresTotal counts payloads rejected by field validation.
// Label:
//   - route: the matched route path (e.g. "/companies/:id")
var ValidationFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "validation_failures_total",
		Help:      "Total number of request payloads that failed validation.",
	},
	[]string{"route"},
)
