package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/clan-bingo/internal/domain/bingo"
	qb "github.com/riskibarqy/clan-bingo/internal/platform/querybuilder"
)

// StatRepository reads the tables the stat ingestion pipeline writes.
type StatRepository struct {
	db *sqlx.DB
}

func NewStatRepository(db *sqlx.DB) *StatRepository {
	return &StatRepository{db: db}
}

func (r *StatRepository) CurrentStats(ctx context.Context, playerID string) (map[string]bingo.StatValue, error) {
	query, args, err := qb.Select("parameter", "exp", "level", "kills", "score").From("player_stats").
		Where(qb.Eq("player_id", playerID)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build current stats query: %w", err)
	}

	var rows []playerStatTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select current stats: %w", err)
	}

	out := make(map[string]bingo.StatValue, len(rows))
	for _, row := range rows {
		out[bingo.NormalizeParameter(row.Parameter)] = bingo.StatValue{
			Exp:   row.Exp,
			Level: row.Level,
			Kills: row.Kills,
			Score: row.Score,
		}
	}
	return out, nil
}

func (r *StatRepository) ActiveMetrics(ctx context.Context, at time.Time) ([]string, error) {
	query, args, err := qb.Select("DISTINCT metric").From("weekly_competitions").
		Where(
			qb.Lte("start_at", at),
			qb.Gt("end_at", at),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build active weekly metrics query: %w", err)
	}

	var out []string
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("select active weekly metrics: %w", err)
	}
	return out, nil
}
