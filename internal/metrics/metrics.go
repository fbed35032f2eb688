package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RLRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limiter_requests_total",
			Help: "Total requests seen by the rate limiter",
		},
		[]string{"endpoint"},
	)
	RLBlocked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limiter_blocked_total",
			Help: "Total requests blocked by the rate limiter",
		},
		[]string{"endpoint"},
	)

	BadgeWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "badge_ledger_writes_total",
			Help: "Badge ledger writes by kind (award, upgrade) and outcome (applied, noop)",
		},
		[]string{"kind", "outcome"},
	)
	BadgeCheckFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "badge_check_failures_total",
			Help: "Badge checks that failed and returned no notifications",
		},
	)

	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leaderboard_cache_lookups_total",
			Help: "Leaderboard result cache lookups by result (hit, miss)",
		},
		[]string{"result"},
	)
	CacheInvalidations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "leaderboard_cache_invalidations_total",
			Help: "Times the leaderboard result cache was cleared",
		},
	)

	SweepDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "time_based_sweep_duration_seconds",
			Help:    "Duration of the daily time-based badge sweep",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
		},
	)
	SweepUsers = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "time_based_sweep_users_total",
			Help: "Users processed by the time-based sweep by outcome (ok, failed)",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(RLRequests)
	prometheus.MustRegister(RLBlocked)
	prometheus.MustRegister(BadgeWrites)
	prometheus.MustRegister(BadgeCheckFailures)
	prometheus.MustRegister(CacheLookups)
	prometheus.MustRegister(CacheInvalidations)
	prometheus.MustRegister(SweepDuration)
	prometheus.MustRegister(SweepUsers)
}
