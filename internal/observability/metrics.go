package observability

import "github.com/prometheus/client_golang/prometheus"

// Domain counters. HTTP traffic is covered by middleware.Metrics.
var (
	// AuthFailures counts rejected logins, refreshes and bearer tokens by reason.
	AuthFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "claims_auth_failures_total",
			Help: "Authentication failures by reason.",
		},
		[]string{"reason"},
	)

	// ClaimsPurged counts soft-deleted claims removed after the retention window.
	ClaimsPurged = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "claims_purged_total",
			Help: "Soft-deleted claims permanently removed.",
		},
	)

	// DBRetries counts retried storage acquisitions ("connect" or "begin").
	DBRetries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "claims_db_retries_total",
			Help: "Retried database connection or transaction acquisitions.",
		},
		[]string{"stage"},
	)

	// RateLimited counts requests rejected by a rate limiter, by key kind
	// ("user" or "ip").
	RateLimited = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "claims_rate_limited_total",
			Help: "Requests rejected with 429.",
		},
		[]string{"key"},
	)
)

func init() {
	prometheus.MustRegister(AuthFailures, ClaimsPurged, DBRetries, RateLimited)
}
