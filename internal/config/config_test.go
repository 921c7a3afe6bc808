package config

import (
	"testing"
	"time"

	"github.com/riskibarqy/clan-bingo/internal/platform/logging"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("valid env", func(t *testing.T) {
		t.Setenv("APP_ENV", "STAGE")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.AppEnv != EnvStage {
			t.Fatalf("expected app env %q, got %q", EnvStage, cfg.AppEnv)
		}
	})

	t.Run("invalid env", func(t *testing.T) {
		t.Setenv("APP_ENV", "qa")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid APP_ENV")
		}
	})
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	for _, key := range []string{
		"APP_SERVICE_NAME", "STORAGE_DRIVER", "SCHEDULER_ENABLED", "EVALUATION_INTERVAL",
		"EVALUATION_WORKERS", "APP_SHUTDOWN_TIMEOUT", "APP_LOG_LEVEL", "DB_BOOTSTRAP_SEED",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ServiceName != "clan-bingo" {
		t.Fatalf("unexpected service name: %q", cfg.ServiceName)
	}
	if cfg.StorageDriver != StorageDriverPostgres {
		t.Fatalf("unexpected storage driver: %q", cfg.StorageDriver)
	}
	if !cfg.SchedulerEnabled {
		t.Fatalf("expected scheduler enabled by default")
	}
	if cfg.EvaluationInterval != 5*time.Minute {
		t.Fatalf("unexpected evaluation interval: %s", cfg.EvaluationInterval)
	}
	if cfg.EvaluationWorkers != 1 {
		t.Fatalf("unexpected evaluation workers: %d", cfg.EvaluationWorkers)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Fatalf("unexpected shutdown timeout: %s", cfg.ShutdownTimeout)
	}
	if cfg.LogLevel != logging.LevelInfo {
		t.Fatalf("unexpected log level: %v", cfg.LogLevel)
	}
	if !cfg.DBBootstrapSeed {
		t.Fatalf("expected bootstrap seed enabled in dev")
	}
}

func TestLoad_BootstrapSeedDisabledInProd(t *testing.T) {
	t.Setenv("APP_ENV", EnvProd)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("OPS_TOKEN", "secret")
	t.Setenv("DB_BOOTSTRAP_SEED", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.DBBootstrapSeed {
		t.Fatalf("expected bootstrap seed disabled in prod by default")
	}
}

func TestLoad_StorageDriver(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("memory", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", " Memory ")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.StorageDriver != StorageDriverMemory {
			t.Fatalf("unexpected storage driver: %q", cfg.StorageDriver)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "mysql")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for unknown STORAGE_DRIVER")
		}
	})
}

func TestLoad_EvaluationSettings(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("custom values", func(t *testing.T) {
		t.Setenv("EVALUATION_INTERVAL", "90s")
		t.Setenv("EVALUATION_WORKERS", "8")
		t.Setenv("SCHEDULER_ENABLED", "false")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.EvaluationInterval != 90*time.Second || cfg.EvaluationWorkers != 8 || cfg.SchedulerEnabled {
			t.Fatalf("unexpected evaluation settings: interval=%s workers=%d scheduler=%v",
				cfg.EvaluationInterval, cfg.EvaluationWorkers, cfg.SchedulerEnabled)
		}
	})

	t.Run("zero workers", func(t *testing.T) {
		t.Setenv("EVALUATION_WORKERS", "0")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for EVALUATION_WORKERS=0")
		}
	})

	t.Run("invalid interval", func(t *testing.T) {
		t.Setenv("EVALUATION_WORKERS", "")
		t.Setenv("EVALUATION_INTERVAL", "soon")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid EVALUATION_INTERVAL")
		}
	})
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "foo=bar, uptrace-dsn='https://token@api.uptrace.dev/1'")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev/1" {
		t.Fatalf("unexpected uptrace dsn: %q", cfg.UptraceDSN)
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without a dsn")
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("APP_SERVICE_NAME", "clan-bingo-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "clan-bingo-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_CORSOriginsParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, ,http://localhost:5173 ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("unexpected CORS origins: %+v", cfg.CORSAllowedOrigins)
	}
	if cfg.CORSAllowedOrigins[0] != "https://a.example.com" || cfg.CORSAllowedOrigins[1] != "http://localhost:5173" {
		t.Fatalf("unexpected CORS origins: %+v", cfg.CORSAllowedOrigins)
	}
}

func TestLoad_CacheConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("CACHE_ENABLED", "")
		t.Setenv("CACHE_TTL", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.CacheEnabled || cfg.CacheTTL != 10*time.Minute {
			t.Fatalf("unexpected cache defaults: enabled=%v ttl=%s", cfg.CacheEnabled, cfg.CacheTTL)
		}
	})

	t.Run("non positive ttl", func(t *testing.T) {
		t.Setenv("CACHE_TTL", "0s")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for CACHE_TTL=0s")
		}
	})
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]logging.Level{
		"debug":   logging.LevelDebug,
		"WARNING": logging.LevelWarn,
		" error ": logging.LevelError,
		"":        logging.LevelInfo,
		"verbose": logging.LevelInfo,
	}
	for input, want := range cases {
		if got := parseLogLevel(input); got != want {
			t.Fatalf("parseLogLevel(%q)=%v, want %v", input, got, want)
		}
	}
}

func TestLoad_OpsTokenRequiredInProd(t *testing.T) {
	t.Setenv("APP_ENV", EnvProd)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("OPS_TOKEN", " ")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when OPS_TOKEN is empty in prod")
	}
}

func TestLoad_StatBreaker(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("STAT_BREAKER_ENABLED", "false")
		t.Setenv("STAT_BREAKER_FAILURE_THRESHOLD", "3")
		t.Setenv("STAT_BREAKER_OPEN_TIMEOUT", "1m")
		t.Setenv("STAT_BREAKER_HALF_OPEN_MAX_REQUESTS", "0")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		got := cfg.StatBreaker
		if got.Enabled || got.FailureThreshold != 3 || got.OpenTimeout != time.Minute || got.HalfOpenMaxReq != 1 {
			t.Fatalf("unexpected stat breaker config: %+v", got)
		}
	})

	t.Run("invalid threshold", func(t *testing.T) {
		t.Setenv("STAT_BREAKER_FAILURE_THRESHOLD", "many")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid STAT_BREAKER_FAILURE_THRESHOLD")
		}
	})
}
