package main

import (
	"errors"
	"testing"

	"github.com/golang-migrate/migrate/v4"

	"github.com/riskibarqy/clan-bingo/internal/platform/logging"
)

func TestParseSteps(t *testing.T) {
	if got, err := parseSteps(nil); err != nil || got != 1 {
		t.Fatalf("expected default of 1 step, got %d err=%v", got, err)
	}
	if got, err := parseSteps([]string{" 3 "}); err != nil || got != 3 {
		t.Fatalf("expected 3 steps, got %d err=%v", got, err)
	}
	for _, bad := range []string{"0", "-2", "two"} {
		if _, err := parseSteps([]string{bad}); err == nil {
			t.Fatalf("expected error for steps %q", bad)
		}
	}
}

func TestParseVersionAndTarget(t *testing.T) {
	if got, err := parseVersion("1781870400"); err != nil || got != 1781870400 {
		t.Fatalf("unexpected version: %d err=%v", got, err)
	}
	if _, err := parseVersion("-1"); err == nil {
		t.Fatalf("expected error for negative version")
	}
	if _, err := parseTarget("-1"); err == nil {
		t.Fatalf("expected error for negative target")
	}
}

func TestIgnoreNoChange(t *testing.T) {
	logger := logging.NewNop()
	if err := ignoreNoChange(migrate.ErrNoChange, logger); err != nil {
		t.Fatalf("expected no change to be ignored, got %v", err)
	}
	boom := errors.New("boom")
	if err := ignoreNoChange(boom, logger); !errors.Is(err, boom) {
		t.Fatalf("expected error to pass through, got %v", err)
	}
}

func TestRun_RequiresCommand(t *testing.T) {
	if err := run(nil, logging.NewNop()); !errors.Is(err, errUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
}
