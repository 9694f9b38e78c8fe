// Package metrics defines and registers all custom Prometheus metrics for the
// Fono Inova client gateway. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics register with the default Prometheus registry at init time; the
// router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fono_inova"

// ── Session metrics ───────────────────────────────────────────────────────────

// LoginsTotal counts credentials submissions.
// Labels:
//   - role: the role selected on the login form
//   - result: "success", "password_creation", or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of credentials submissions, by role and result.",
	},
	[]string{"role", "result"},
)

// RenewalsTotal counts background token renewal attempts.
// Label:
//   - result: "success", "failure", or "session_gone"
var RenewalsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_renewals_total",
		Help:      "Total number of background token renewal ticks, by result.",
	},
	[]string{"result"},
)

// ActiveSessions tracks sessions currently holding a renewal task.
var ActiveSessions = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_sessions",
		Help:      "Number of live sessions with a running renewal task.",
	},
)

// ── Route guard metrics ───────────────────────────────────────────────────────

// GuardDecisionsTotal counts route guard outcomes.
// Label:
//   - outcome: "allowed", "login_redirect" (unauthenticated), or
//     "home_redirect" (role not permitted)
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of route guard decisions, by outcome.",
	},
	[]string{"outcome"},
)

// ── Upstream metrics ──────────────────────────────────────────────────────────

// UpstreamRequestsTotal counts calls to the remote clinic API.
// Labels:
//   - path: the upstream path template (e.g. "/renew-token")
//   - status: the HTTP status code, or "transport_error"
var UpstreamRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_requests_total",
		Help:      "Total number of upstream API calls, by path and status.",
	},
	[]string{"path", "status"},
)

// UpstreamRequestDuration measures upstream round-trip latency.
var UpstreamRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Duration of upstream API calls that received a response.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"path"},
)
