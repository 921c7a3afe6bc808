package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/clan-bingo/internal/domain/bingo"
	"github.com/riskibarqy/clan-bingo/internal/domain/ledger"
)

func TestEvaluationService_RunPass(t *testing.T) {
	ctx := context.Background()
	f := newBingoFixture(t)
	f.createOngoingEvent(t, []string{"full_board", "row_1", "corners"}, "alice", "bob")
	f.setKills(t, "alice", 100, rowCells(0)...)
	f.setKills(t, "bob", 40, 7)

	svc := f.evaluationService(4)
	result, err := svc.RunPass(ctx)
	if err != nil {
		t.Fatalf("run pass: %v", err)
	}
	if result.EventCount != 1 || result.PlayerCount != 2 || result.SuccessCount != 2 || result.FailedCount != 0 {
		t.Fatalf("unexpected pass counts: %+v", result)
	}
	if result.TaskPoints != 50 || result.PatternsAwarded != 1 {
		t.Fatalf("unexpected pass totals: %+v", result)
	}
	if got := f.balance(t, "alice", ledger.CategoryBingoTasks); got != 50 {
		t.Fatalf("unexpected task balance: got=%d want=50", got)
	}
	if got := f.balance(t, "alice", ledger.CategoryBingoPatterns); got != 40 {
		t.Fatalf("unexpected pattern balance: got=%d want=40", got)
	}

	progress, ok, err := f.progress.GetTaskProgress(ctx, fixtureEventID, "bob", "task-07")
	if err != nil || !ok {
		t.Fatalf("get bob progress: ok=%v err=%v", ok, err)
	}
	if progress.Progress != 40 || progress.Status != bingo.StatusInProgress {
		t.Fatalf("unexpected bob progress: %+v", progress)
	}

	again, err := svc.RunPass(ctx)
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if again.TaskPoints != 0 || again.PatternsAwarded != 0 {
		t.Fatalf("second pass must not credit again: %+v", again)
	}

	board, err := f.ledger.ListEventLeaderboard(ctx, fixtureEventID)
	if err != nil {
		t.Fatalf("list leaderboard: %v", err)
	}
	if len(board) == 0 || board[0].PlayerID != "alice" || board[0].Total() != 90 {
		t.Fatalf("unexpected leaderboard: %+v", board)
	}
}

func TestEvaluationService_RunPass_StartsDueEvents(t *testing.T) {
	ctx := context.Background()
	f := newBingoFixture(t)
	f.createOngoingEvent(t, []string{"full_board"}, "alice")
	if err := f.events.UpdateState(ctx, fixtureEventID, bingo.EventStateUpcoming, f.clock); err != nil {
		t.Fatalf("update state: %v", err)
	}

	result, err := f.evaluationService(1).RunPass(ctx)
	if err != nil {
		t.Fatalf("run pass: %v", err)
	}
	if len(result.States.Started) != 1 || result.EventCount != 1 {
		t.Fatalf("expected the due event to start and be evaluated: %+v", result)
	}
}

func TestEvaluationService_EvaluatePlayer_Team(t *testing.T) {
	ctx := context.Background()
	f := newBingoFixture(t)
	f.createOngoingEvent(t, []string{"full_board", "row_2"}, "a", "b")
	f.addTeam(t, "team-1", "a", "b")
	f.setKills(t, "a", 100, rowCells(1)...)

	svc := f.evaluationService(1)
	out, err := svc.EvaluatePlayer(ctx, fixtureEventID, "b")
	if err != nil {
		t.Fatalf("evaluate player: %v", err)
	}
	if out.TeamID != "team-1" {
		t.Fatalf("expected team-1, got %q", out.TeamID)
	}
	// a reached every target alone, so b is credited nothing for the tasks
	if out.Progress.AwardedNow != 0 {
		t.Fatalf("unexpected task credit for b: %d", out.Progress.AwardedNow)
	}
	if len(out.Patterns.Awarded) != 1 || out.Patterns.Awarded[0].AwardedBonus != 20 {
		t.Fatalf("expected half of row_2 for b, got %+v", out.Patterns.Awarded)
	}
}

func TestEvaluationService_EvaluatePlayer_CompletedEvent(t *testing.T) {
	ctx := context.Background()
	f := newBingoFixture(t)
	f.createOngoingEvent(t, []string{"full_board"}, "alice")
	if err := f.events.UpdateState(ctx, fixtureEventID, bingo.EventStateCompleted, f.clock); err != nil {
		t.Fatalf("update state: %v", err)
	}

	_, err := f.evaluationService(1).EvaluatePlayer(ctx, fixtureEventID, "alice")
	if !errors.Is(err, ErrEventReadOnly) {
		t.Fatalf("expected ErrEventReadOnly, got %v", err)
	}
}
