package logging

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed(level Level) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return FromZap(zap.New(core)), logs
}

func TestLogger_KeyValueFields(t *testing.T) {
	logger, logs := observed(LevelDebug)

	logger.Warn("award pattern failed", "event_id", "e1", "error", errors.New("boom"), 42, "orphan-key-value", "dangling")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["event_id"] != "e1" {
		t.Fatalf("unexpected event_id field: %v", fields["event_id"])
	}
	if fields["error"] != "boom" {
		t.Fatalf("expected error to be logged by message, got %v", fields["error"])
	}
	if fields["arg"] != "orphan-key-value" {
		t.Fatalf("expected non-string key to become arg, got %v", fields["arg"])
	}
	if v, ok := fields["dangling"]; !ok || v != nil {
		t.Fatalf("expected dangling key with nil value, got %v (present=%v)", v, ok)
	}
}

func TestLogger_ContextFieldsAndTrace(t *testing.T) {
	logger, logs := observed(LevelInfo)

	traceID, _ := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	spanID, _ := trace.SpanIDFromHex("0102030405060708")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))
	ctx = ContextWith(ctx, "event_id", "e1")
	ctx = ContextWith(ctx, "player_id", "alice")

	logger.InfoContext(ctx, "pattern awarded", "pattern", "line")
	logger.DebugContext(ctx, "filtered out")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected debug entry to be filtered, got %d entries", len(entries))
	}
	fields := entries[0].ContextMap()
	for key, want := range map[string]string{
		"pattern":   "line",
		"event_id":  "e1",
		"player_id": "alice",
		"trace_id":  traceID.String(),
		"span_id":   spanID.String(),
	} {
		if fields[key] != want {
			t.Fatalf("field %s: want %q, got %v", key, want, fields[key])
		}
	}
}

func TestLogger_WithAndNilReceiver(t *testing.T) {
	logger, logs := observed(LevelInfo)
	SetDefault(logger)
	t.Cleanup(func() { SetDefault(nil) })

	logger.With("scheduler", "evaluation").Info("tick")
	var missing *Logger
	missing.Info("falls back to default")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected two entries, got %d", len(entries))
	}
	if entries[0].ContextMap()["scheduler"] != "evaluation" {
		t.Fatalf("expected With field, got %v", entries[0].ContextMap())
	}
	if entries[1].Level != zapcore.InfoLevel || entries[1].Message != "falls back to default" {
		t.Fatalf("unexpected fallback entry: %+v", entries[1].Entry)
	}
}

func TestLogger_SyncOnce(t *testing.T) {
	logger := NewNop()
	if err := logger.Sync(); err != nil {
		t.Fatalf("first sync: %v", err)
	}
	if err := logger.With("k", "v").Sync(); err != nil {
		t.Fatalf("derived sync: %v", err)
	}
	var missing *Logger
	if err := missing.Sync(); err != nil {
		t.Fatalf("nil sync: %v", err)
	}
}
