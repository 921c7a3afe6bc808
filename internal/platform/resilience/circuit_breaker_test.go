package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestBreaker(t *testing.T, threshold int) (*CircuitBreaker, *time.Time) {
	t.Helper()
	b := NewCircuitBreaker(CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: threshold,
		OpenTimeout:      5 * time.Second,
		HalfOpenMaxReq:   1,
	})
	now := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }
	return b, &now
}

func TestCircuitBreaker_OpensAndRecovers(t *testing.T) {
	b, now := newTestBreaker(t, 2)
	var transitions []CircuitState
	b.OnStateChange(func(s CircuitState) { transitions = append(transitions, s) })

	boom := errors.New("stats table unavailable")
	fail := func() error { return boom }

	for i := 0; i < 2; i++ {
		if err := b.Execute(fail, nil); !errors.Is(err, boom) {
			t.Fatalf("call %d: expected dependency error, got %v", i, err)
		}
	}
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after threshold failures, got %s", state)
	}

	called := false
	err := b.Execute(func() error { called = true; return nil }, nil)
	if !errors.Is(err, ErrCircuitOpen) || called {
		t.Fatalf("expected open breaker to reject without calling, err=%v called=%v", err, called)
	}

	*now = now.Add(6 * time.Second)
	if state := b.State(); state != CircuitStateHalfOpen {
		t.Fatalf("expected half-open after timeout, got %s", state)
	}
	if err := b.Execute(func() error { return nil }, nil); err != nil {
		t.Fatalf("expected probe to pass, got %v", err)
	}
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after successful probe, got %s", state)
	}

	want := []CircuitState{CircuitStateOpen, CircuitStateHalfOpen, CircuitStateClosed}
	if len(transitions) != len(want) {
		t.Fatalf("unexpected transitions: %v", transitions)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Fatalf("transition %d: expected %s, got %s", i, want[i], transitions[i])
		}
	}
}

func TestCircuitBreaker_FailedProbeReopens(t *testing.T) {
	b, now := newTestBreaker(t, 1)
	_ = b.Execute(func() error { return errors.New("down") }, nil)

	*now = now.Add(6 * time.Second)
	_ = b.Execute(func() error { return errors.New("still down") }, nil)
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected failed probe to reopen breaker, got %s", state)
	}
}

func TestCircuitBreaker_IgnoredErrorsDoNotTrip(t *testing.T) {
	b, _ := newTestBreaker(t, 1)
	ignore := func(err error) bool { return errors.Is(err, context.Canceled) }

	if err := b.Execute(func() error { return context.Canceled }, ignore); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected error to be returned, got %v", err)
	}
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected ignored error to keep breaker closed, got %s", state)
	}
}

func TestCircuitBreaker_DisabledPassesThrough(t *testing.T) {
	b := NewCircuitBreaker(CircuitBreakerConfig{Enabled: false, FailureThreshold: 1})
	for i := 0; i < 3; i++ {
		_ = b.Execute(func() error { return errors.New("down") }, nil)
	}
	if err := b.Execute(func() error { return nil }, nil); err != nil {
		t.Fatalf("expected disabled breaker to pass through, got %v", err)
	}
}

func TestNormalizeCircuitBreakerConfig(t *testing.T) {
	got := NormalizeCircuitBreakerConfig(CircuitBreakerConfig{Enabled: true})
	want := DefaultCircuitBreakerConfig()
	if got.FailureThreshold != want.FailureThreshold || got.OpenTimeout != want.OpenTimeout || got.HalfOpenMaxReq != want.HalfOpenMaxReq {
		t.Fatalf("expected defaults to fill zero fields, got %+v", got)
	}
}
