package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/clan-bingo/internal/domain/ledger"
)

func TestLeaderboardService_EventLeaderboard_RanksTies(t *testing.T) {
	f := newBingoFixture(t)
	f.createOngoingEvent(t, []string{"full_board"}, "alice", "bob", "carol")
	ctx := context.Background()

	for _, add := range []struct {
		player        string
		tasks, bonus int
	}{
		{"carol", 30, 0},
		{"bob", 20, 40},
		{"alice", 50, 10},
	} {
		if err := f.ledger.AddEventLeaderboard(ctx, fixtureEventID, add.player, add.tasks, add.bonus); err != nil {
			t.Fatalf("add leaderboard: %v", err)
		}
	}

	svc := NewLeaderboardService(f.events, f.ledger)
	rows, err := svc.EventLeaderboard(ctx, fixtureEventID)
	if err != nil {
		t.Fatalf("event leaderboard: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].PlayerID != "alice" || rows[0].Rank != 1 || rows[1].PlayerID != "bob" || rows[1].Rank != 1 {
		t.Fatalf("expected alice and bob tied first, got %+v", rows[:2])
	}
	if rows[2].PlayerID != "carol" || rows[2].Rank != 3 || rows[2].Total() != 30 {
		t.Fatalf("unexpected third row: %+v", rows[2])
	}
}

func TestLeaderboardService_EventLeaderboard_UnknownEvent(t *testing.T) {
	f := newBingoFixture(t)

	_, err := NewLeaderboardService(f.events, f.ledger).EventLeaderboard(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLeaderboardService_PlayerBalances(t *testing.T) {
	f := newBingoFixture(t)
	ctx := context.Background()
	if err := f.ledger.AddPoints(ctx, "alice", ledger.CategoryBingoTasks, 25); err != nil {
		t.Fatalf("add points: %v", err)
	}

	svc := NewLeaderboardService(f.events, f.ledger)
	if _, err := svc.PlayerBalances(ctx, " "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	balances, err := svc.PlayerBalances(ctx, "alice")
	if err != nil {
		t.Fatalf("player balances: %v", err)
	}
	if len(balances) != 1 || balances[0].Points != 25 || balances[0].Category != ledger.CategoryBingoTasks {
		t.Fatalf("unexpected balances: %+v", balances)
	}
}
