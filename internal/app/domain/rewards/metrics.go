package rewards

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	usersProcessedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tourguide",
		Subsystem: "rewards",
		Name:      "users_processed_total",
		Help:      "Users whose reward matching pass completed, successfully or not.",
	})
	rewardsAwardedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tourguide",
		Subsystem: "rewards",
		Name:      "rewards_awarded_total",
		Help:      "Rewards appended to users.",
	})
	scoringCallsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tourguide",
		Subsystem: "rewards",
		Name:      "scoring_calls_total",
		Help:      "Calls made to the external points source (cache misses).",
	})
	scoringFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tourguide",
		Subsystem: "rewards",
		Name:      "scoring_failures_total",
		Help:      "External points source calls that failed.",
	})
)
