package observability

import (
	"context"
	"fmt"
	"strconv"

	"github.com/grafana/pyroscope-go"

	"github.com/riskibarqy/clan-bingo/internal/config"
	"github.com/riskibarqy/clan-bingo/internal/platform/logging"
)

var profileTypes = []pyroscope.ProfileType{
	pyroscope.ProfileCPU,
	pyroscope.ProfileAllocObjects,
	pyroscope.ProfileAllocSpace,
	pyroscope.ProfileInuseSpace,
	pyroscope.ProfileGoroutines,
}

func profileTags(cfg config.Config) map[string]string {
	return map[string]string{
		"env":                cfg.AppEnv,
		"service":            cfg.ServiceName,
		"storage":            cfg.StorageDriver,
		"evaluation_workers": strconv.Itoa(cfg.EvaluationWorkers),
	}
}

// startProfiling starts continuous profiling. It returns nil when profiling is off.
func startProfiling(cfg config.Config, logger *logging.Logger) (shutdownFunc, error) {
	if !cfg.PyroscopeEnabled {
		logger.Info("pyroscope disabled")
		return nil, nil
	}

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName:   cfg.PyroscopeAppName,
		ServerAddress:     cfg.PyroscopeServerAddress,
		AuthToken:         cfg.PyroscopeAuthToken,
		BasicAuthUser:     cfg.PyroscopeBasicAuthUser,
		BasicAuthPassword: cfg.PyroscopeBasicAuthPassword,
		UploadRate:        cfg.PyroscopeUploadRate,
		Tags:              profileTags(cfg),
		ProfileTypes:      profileTypes,
	})
	if err != nil {
		return nil, fmt.Errorf("start pyroscope: %w", err)
	}
	logger.Info("pyroscope enabled", "server_address", cfg.PyroscopeServerAddress, "application", cfg.PyroscopeAppName)

	return func(context.Context) error { return profiler.Stop() }, nil
}
