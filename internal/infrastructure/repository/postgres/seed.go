package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/clan-bingo/internal/infrastructure/repository/memory"
)

// BootstrapSeed fills an empty task pool with the starter tasks.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM bingo_tasks WHERE deleted_at IS NULL`); err != nil {
		return fmt.Errorf("count tasks for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	if err := NewBoardRepository(db).UpsertTasks(ctx, memory.SeedTasks()); err != nil {
		return fmt.Errorf("seed tasks: %w", err)
	}
	return nil
}
