package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var EvaluationPassDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "bingo_evaluation_pass_duration_seconds",
	Help:    "Duration of a full scheduled evaluation pass",
	Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
})

var PlayerEvaluationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name: "bingo_player_evaluation_duration_seconds",
	Help: "Duration of evaluating progress and patterns for one player",
})

var PlayersEvaluatedCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "bingo_players_evaluated_total",
	Help: "Number of player evaluations by result",
}, []string{"result"})

var TaskPointsAwardedCounter = promauto.NewCounter(prometheus.CounterOpts{
	Name: "bingo_task_points_awarded_total",
	Help: "Task points credited to the ledger",
})

var TaskAwardErrorCounter = promauto.NewCounter(prometheus.CounterOpts{
	Name: "bingo_task_award_errors_total",
	Help: "Failures while awarding task points",
})

var PatternAwardsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "bingo_pattern_awards_total",
	Help: "Pattern awards persisted by family",
}, []string{"family"})

var PatternBonusCounter = promauto.NewCounter(prometheus.CounterOpts{
	Name: "bingo_pattern_bonus_awarded_total",
	Help: "Pattern bonus points credited to the ledger",
})

var PatternAwardErrorCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "bingo_pattern_award_errors_total",
	Help: "Failures while awarding a pattern",
}, []string{"pattern"})

var OngoingEventsGauge = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "bingo_ongoing_events",
	Help: "Events evaluated by the last pass",
})

var EventTransitionsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "bingo_event_transitions_total",
	Help: "Event state transitions by target state",
}, []string{"state"})

var CacheLookupsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "bingo_cache_lookups_total",
	Help: "Read-through cache lookups by result",
}, []string{"result"})

var HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name: "bingo_http_request_duration_seconds",
	Help: "Ops API request duration by route pattern and status code",
}, []string{"route", "code"})

var StatSourceBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "bingo_stat_source_breaker_state",
	Help: "1 for the current state of the stat source circuit breaker, 0 otherwise",
}, []string{"state"})

var StatSourceRejectedCounter = promauto.NewCounter(prometheus.CounterOpts{
	Name: "bingo_stat_source_rejected_total",
	Help: "Stat reads rejected by an open circuit breaker",
})
