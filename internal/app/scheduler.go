package app

import (
	"context"
	"time"

	"github.com/riskibarqy/clan-bingo/internal/platform/logging"
	"github.com/riskibarqy/clan-bingo/internal/usecase"
)

type passRunner interface {
	RunPass(ctx context.Context) (usecase.EvaluationPassResult, error)
}

// Scheduler runs an evaluation pass immediately and then on every tick until ctx is done.
type Scheduler struct {
	runner   passRunner
	interval time.Duration
	logger   *logging.Logger
}

func NewScheduler(runner passRunner, interval time.Duration, logger *logging.Logger) *Scheduler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Scheduler{runner: runner, interval: interval, logger: logger}
}

func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info("evaluation scheduler started", "interval", s.interval.String())
	defer s.logger.Info("evaluation scheduler stopped")

	s.tick(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	result, err := s.runner.RunPass(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.ErrorContext(ctx, "evaluation pass failed", "error", err)
		return
	}
	if result.SkippedOverlap {
		s.logger.WarnContext(ctx, "evaluation pass overlapped a running pass")
	}
}
