package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/clan-bingo/internal/domain/ledger"
	qb "github.com/riskibarqy/clan-bingo/internal/platform/querybuilder"
)

type LedgerRepository struct {
	db *sqlx.DB
}

func NewLedgerRepository(db *sqlx.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) AddPoints(ctx context.Context, playerID string, category ledger.Category, delta int) error {
	query, args, err := qb.InsertInto("point_balances").
		Columns("player_id", "category", "points").
		Values(playerID, string(category), delta).
		OnConflict(qb.OnConflict("player_id", "category").
			Accumulate("point_balances", "points").
			DoUpdate("updated_at = NOW()")).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build add points query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("add points player=%s category=%s: %w", playerID, category, err)
	}
	return nil
}

func (r *LedgerRepository) AddEventLeaderboard(ctx context.Context, eventID, playerID string, taskPoints, patternBonus int) error {
	query, args, err := qb.InsertInto("bingo_event_leaderboard").
		Columns("event_public_id", "player_id", "task_points", "pattern_bonus").
		Values(eventID, playerID, taskPoints, patternBonus).
		OnConflict(qb.OnConflict("event_public_id", "player_id").
			Accumulate("bingo_event_leaderboard", "task_points", "pattern_bonus").
			DoUpdate("updated_at = NOW()")).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build add event leaderboard query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("add event leaderboard event=%s player=%s: %w", eventID, playerID, err)
	}
	return nil
}

func (r *LedgerRepository) ListBalances(ctx context.Context, playerID string) ([]ledger.Balance, error) {
	query, args, err := qb.Select("player_id", "category", "points").From("point_balances").
		Where(qb.Eq("player_id", playerID)).
		OrderBy("category").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list balances query: %w", err)
	}

	var rows []balanceTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}

	out := make([]ledger.Balance, 0, len(rows))
	for _, row := range rows {
		out = append(out, ledger.Balance{
			PlayerID: row.PlayerID,
			Category: ledger.Category(row.Category),
			Points:   row.Points,
		})
	}
	return out, nil
}

func (r *LedgerRepository) ListEventLeaderboard(ctx context.Context, eventID string) ([]ledger.LeaderboardEntry, error) {
	query, args, err := qb.Select("event_public_id", "player_id", "task_points", "pattern_bonus").
		From("bingo_event_leaderboard").
		Where(qb.Eq("event_public_id", eventID)).
		OrderBy("task_points + pattern_bonus DESC", "player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list event leaderboard query: %w", err)
	}

	var rows []leaderboardTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list event leaderboard: %w", err)
	}

	out := make([]ledger.LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, ledger.LeaderboardEntry{
			EventID:      row.EventID,
			PlayerID:     row.PlayerID,
			TaskPoints:   row.TaskPoints,
			PatternBonus: row.PatternBonus,
		})
	}
	return out, nil
}
