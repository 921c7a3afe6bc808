package memory

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/clan-bingo/internal/domain/bingo"
)

func TestProgressRepository_UpsertIsMonotonic(t *testing.T) {
	ctx := context.Background()
	repo := NewProgressRepository(NewStore())
	first := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	row := bingo.TaskProgress{EventID: "e1", PlayerID: "p1", TaskID: "t1", Progress: 60, Status: bingo.StatusInProgress, UpdatedAt: first}
	if err := repo.UpsertTaskProgress(ctx, row); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	lower := row
	lower.Progress = 20
	lower.Status = bingo.StatusInProgress
	lower.UpdatedAt = first.Add(time.Hour)
	if err := repo.UpsertTaskProgress(ctx, lower); err != nil {
		t.Fatalf("upsert lower: %v", err)
	}

	got, ok, err := repo.GetTaskProgress(ctx, "e1", "p1", "t1")
	if err != nil || !ok {
		t.Fatalf("get progress: ok=%v err=%v", ok, err)
	}
	if got.Progress != 60 || !got.UpdatedAt.Equal(first) {
		t.Fatalf("progress must not regress: %+v", got)
	}

	done := row
	done.Progress = 100
	done.Status = bingo.StatusCompleted
	done.UpdatedAt = first.Add(2 * time.Hour)
	_ = repo.UpsertTaskProgress(ctx, done)

	back := row
	back.Status = bingo.StatusInProgress
	_ = repo.UpsertTaskProgress(ctx, back)

	got, _, _ = repo.GetTaskProgress(ctx, "e1", "p1", "t1")
	if got.Status != bingo.StatusCompleted || got.Progress != 100 {
		t.Fatalf("status must not regress: %+v", got)
	}
}

func TestProgressRepository_ClaimTaskPointsOnce(t *testing.T) {
	ctx := context.Background()
	repo := NewProgressRepository(NewStore())

	_ = repo.UpsertTaskProgress(ctx, bingo.TaskProgress{EventID: "e1", PlayerID: "p1", TaskID: "t1", Progress: 5, Status: bingo.StatusInProgress})
	if claimed, _ := repo.ClaimTaskPoints(ctx, "e1", "p1", "t1", 10); claimed {
		t.Fatalf("in-progress row must not be claimable")
	}

	_ = repo.UpsertTaskProgress(ctx, bingo.TaskProgress{EventID: "e1", PlayerID: "p1", TaskID: "t1", Progress: 10, Status: bingo.StatusCompleted})
	if claimed, _ := repo.ClaimTaskPoints(ctx, "e1", "p1", "t1", 10); !claimed {
		t.Fatalf("completed row must be claimable")
	}
	if claimed, _ := repo.ClaimTaskPoints(ctx, "e1", "p1", "t1", 10); claimed {
		t.Fatalf("second claim must fail")
	}
}

func TestPatternRepository_InsertAwardIfAbsent(t *testing.T) {
	ctx := context.Background()
	repo := NewPatternRepository(NewStore())
	award := bingo.PatternAward{BoardID: "b1", EventID: "e1", PlayerID: "p1", PatternKey: "corners", AwardedBonus: 180}

	inserted, err := repo.InsertAwardIfAbsent(ctx, award)
	if err != nil || !inserted {
		t.Fatalf("first insert: inserted=%v err=%v", inserted, err)
	}
	inserted, err = repo.InsertAwardIfAbsent(ctx, award)
	if err != nil || inserted {
		t.Fatalf("second insert must be a no-op: inserted=%v err=%v", inserted, err)
	}

	awards, _ := repo.ListAwards(ctx, "b1", "e1", "p1")
	if len(awards) != 1 {
		t.Fatalf("unexpected award count: %d", len(awards))
	}
}

func TestProgressRepository_BaselinesKeepFirstCapture(t *testing.T) {
	ctx := context.Background()
	repo := NewProgressRepository(NewStore())

	_ = repo.InsertBaselines(ctx, []bingo.Baseline{{EventID: "e1", PlayerID: "p1", MetricKey: "exp:overall", Value: 100}})
	_ = repo.InsertBaselines(ctx, []bingo.Baseline{{EventID: "e1", PlayerID: "p1", MetricKey: "exp:overall", Value: 900}})

	got, err := repo.ListBaselines(ctx, "e1", "p1")
	if err != nil {
		t.Fatalf("list baselines: %v", err)
	}
	if got["exp:overall"] != 100 {
		t.Fatalf("baseline must keep first value, got=%d", got["exp:overall"])
	}
}
