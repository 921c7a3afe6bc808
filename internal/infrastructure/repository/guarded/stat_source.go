package guarded

import (
	"context"
	"errors"
	"time"

	"github.com/riskibarqy/clan-bingo/internal/domain/bingo"
	"github.com/riskibarqy/clan-bingo/internal/platform/logging"
	"github.com/riskibarqy/clan-bingo/internal/platform/metrics"
	"github.com/riskibarqy/clan-bingo/internal/platform/resilience"
)

var breakerStates = []resilience.CircuitState{
	resilience.CircuitStateClosed,
	resilience.CircuitStateOpen,
	resilience.CircuitStateHalfOpen,
}

// StatSource puts a circuit breaker in front of the ingestion-owned stat tables. While the
// breaker is open, reads fail fast with resilience.ErrCircuitOpen.
type StatSource struct {
	stats   bingo.StatSource
	weekly  bingo.WeeklyCompetitionSource
	breaker *resilience.CircuitBreaker
	logger  *logging.Logger
}

func NewStatSource(stats bingo.StatSource, weekly bingo.WeeklyCompetitionSource, cfg resilience.CircuitBreakerConfig, logger *logging.Logger) *StatSource {
	if logger == nil {
		logger = logging.Default()
	}
	breaker := resilience.NewCircuitBreaker(cfg)
	breaker.OnStateChange(func(state resilience.CircuitState) {
		setBreakerGauge(state)
		logger.Warn("stat source circuit breaker changed state", "state", string(state))
	})
	setBreakerGauge(resilience.CircuitStateClosed)

	return &StatSource{stats: stats, weekly: weekly, breaker: breaker, logger: logger}
}

func (s *StatSource) CurrentStats(ctx context.Context, playerID string) (map[string]bingo.StatValue, error) {
	var out map[string]bingo.StatValue
	err := s.execute(ctx, func() error {
		var err error
		out, err = s.stats.CurrentStats(ctx, playerID)
		return err
	})
	return out, err
}

func (s *StatSource) ActiveMetrics(ctx context.Context, at time.Time) ([]string, error) {
	var out []string
	err := s.execute(ctx, func() error {
		var err error
		out, err = s.weekly.ActiveMetrics(ctx, at)
		return err
	})
	return out, err
}

func (s *StatSource) State() resilience.CircuitState {
	return s.breaker.State()
}

func (s *StatSource) execute(ctx context.Context, fn func() error) error {
	err := s.breaker.Execute(fn, isCallerError)
	if errors.Is(err, resilience.ErrCircuitOpen) {
		metrics.StatSourceRejectedCounter.Inc()
		s.logger.DebugContext(ctx, "stat source read rejected", "state", string(s.breaker.State()))
	}
	return err
}

// isCallerError keeps cancellations by the caller from counting against the dependency.
func isCallerError(err error) bool {
	return errors.Is(err, context.Canceled)
}

func setBreakerGauge(current resilience.CircuitState) {
	for _, state := range breakerStates {
		value := 0.0
		if state == current {
			value = 1
		}
		metrics.StatSourceBreakerState.WithLabelValues(string(state)).Set(value)
	}
}
