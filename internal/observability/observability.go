package observability

import (
	"context"
	"errors"
	"fmt"

	"github.com/riskibarqy/clan-bingo/internal/config"
	"github.com/riskibarqy/clan-bingo/internal/platform/logging"
)

type shutdownFunc func(context.Context) error

// Stack is the set of exporters started for one process.
type Stack struct {
	shutdowns []shutdownFunc
}

// Start brings up tracing, then profiling. Each is skipped when disabled; a profiling failure
// shuts tracing back down.
func Start(cfg config.Config, logger *logging.Logger) (*Stack, error) {
	if logger == nil {
		logger = logging.Default()
	}
	stack := &Stack{}

	tracing, err := startTracing(cfg, logger)
	if err != nil {
		return nil, err
	}
	if tracing != nil {
		stack.shutdowns = append(stack.shutdowns, tracing)
	}

	profiling, err := startProfiling(cfg, logger)
	if err != nil {
		if shutdownErr := stack.Shutdown(context.Background()); shutdownErr != nil {
			logger.Warn("shutdown tracing after profiling failure", "error", shutdownErr)
		}
		return nil, err
	}
	if profiling != nil {
		stack.shutdowns = append(stack.shutdowns, profiling)
	}
	return stack, nil
}

// Shutdown stops exporters in reverse start order and joins their errors.
func (s *Stack) Shutdown(ctx context.Context) error {
	if s == nil {
		return nil
	}
	var errs []error
	for i := len(s.shutdowns) - 1; i >= 0; i-- {
		if err := s.shutdowns[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	s.shutdowns = nil
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("shutdown observability: %w", err)
	}
	return nil
}

// Enabled reports how many exporters are running.
func (s *Stack) Enabled() int {
	if s == nil {
		return 0
	}
	return len(s.shutdowns)
}
