package observability

import (
	"strings"

	"github.com/uptrace/uptrace-go/uptrace"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/clan-bingo/internal/config"
	"github.com/riskibarqy/clan-bingo/internal/platform/logging"
)

// startTracing installs the global OpenTelemetry providers exporting to Uptrace. It returns nil
// when tracing is off or has no DSN.
func startTracing(cfg config.Config, logger *logging.Logger) (shutdownFunc, error) {
	if !cfg.UptraceEnabled || strings.TrimSpace(cfg.UptraceDSN) == "" {
		logger.Info("uptrace disabled", "enabled", cfg.UptraceEnabled)
		return nil, nil
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(cfg.UptraceDSN),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
		uptrace.WithResourceAttributes(
			attribute.String("bingo.storage_driver", cfg.StorageDriver),
			attribute.Bool("bingo.scheduler_enabled", cfg.SchedulerEnabled),
		),
	)
	logger.Info("uptrace enabled", "service", cfg.ServiceName, "version", cfg.ServiceVersion, "env", cfg.AppEnv)

	return uptrace.Shutdown, nil
}
