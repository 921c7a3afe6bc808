package config

import (
	"strings"
	"testing"
	"time"
)

func TestEnvReader_KeepsFirstError(t *testing.T) {
	t.Setenv("BINGO_TEST_WORKERS", "many")
	t.Setenv("BINGO_TEST_INTERVAL", "soon")
	t.Setenv("BINGO_TEST_NAME", "zulrah")

	env := &envReader{}
	if got := env.integer("BINGO_TEST_WORKERS", 4); got != 4 {
		t.Fatalf("expected fallback on parse failure, got %d", got)
	}
	if got := env.duration("BINGO_TEST_INTERVAL", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback duration, got %s", got)
	}
	if got := env.str("BINGO_TEST_NAME", "vorkath"); got != "vorkath" {
		t.Fatalf("expected reads after a failure to fall back, got %q", got)
	}
	if env.err == nil || !strings.Contains(env.err.Error(), "BINGO_TEST_WORKERS") {
		t.Fatalf("expected first failure to be kept, got %v", env.err)
	}
}

func TestEnvReader_OneOfAndPositiveDuration(t *testing.T) {
	t.Setenv("BINGO_TEST_DRIVER", " MEMORY ")
	t.Setenv("BINGO_TEST_TTL", "-1s")

	env := &envReader{}
	if got := env.oneOf("BINGO_TEST_DRIVER", StorageDriverPostgres, StorageDriverPostgres, StorageDriverMemory); got != StorageDriverMemory {
		t.Fatalf("unexpected driver: %q", got)
	}
	if env.err != nil {
		t.Fatalf("unexpected error: %v", env.err)
	}
	env.positiveDuration("BINGO_TEST_TTL", time.Minute)
	if env.err == nil {
		t.Fatalf("expected error for negative duration")
	}
}
