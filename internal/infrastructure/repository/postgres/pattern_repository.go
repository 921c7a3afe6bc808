package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/riskibarqy/clan-bingo/internal/domain/bingo"
	qb "github.com/riskibarqy/clan-bingo/internal/platform/querybuilder"
)

var patternAwardColumns = []string{
	"board_public_id",
	"event_public_id",
	"player_id",
	"pattern_key",
	"base_bonus",
	"overlap_ratio",
	"bonus",
	"awarded_bonus",
	"cells",
	"awarded_at",
}

type PatternRepository struct {
	db *sqlx.DB
}

func NewPatternRepository(db *sqlx.DB) *PatternRepository {
	return &PatternRepository{db: db}
}

func (r *PatternRepository) GetRotation(ctx context.Context, eventID string) (bingo.PatternRotation, bool, error) {
	query, args, err := qb.Select("event_public_id", "pattern_keys", "created_at").From("bingo_pattern_rotations").
		Where(qb.Eq("event_public_id", eventID)).
		ToSQL()
	if err != nil {
		return bingo.PatternRotation{}, false, fmt.Errorf("build get rotation query: %w", err)
	}

	var row rotationTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return bingo.PatternRotation{}, false, nil
		}
		return bingo.PatternRotation{}, false, fmt.Errorf("get rotation: %w", err)
	}
	return bingo.PatternRotation{
		EventID:     row.EventID,
		PatternKeys: append([]string(nil), row.PatternKeys...),
		CreatedAt:   row.CreatedAt,
	}, true, nil
}

func (r *PatternRepository) ListAwards(ctx context.Context, boardID, eventID, playerID string) ([]bingo.PatternAward, error) {
	query, args, err := qb.Select(patternAwardColumns...).From("bingo_pattern_awards").
		Where(
			qb.Eq("board_public_id", boardID),
			qb.Eq("event_public_id", eventID),
			qb.Eq("player_id", playerID),
		).
		OrderBy("awarded_at", "pattern_key").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list pattern awards query: %w", err)
	}

	var rows []patternAwardTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list pattern awards: %w", err)
	}

	out := make([]bingo.PatternAward, 0, len(rows))
	for _, row := range rows {
		out = append(out, patternAwardFromRow(row))
	}
	return out, nil
}

// InsertAwardIfAbsent reports false when the (board, event, player, pattern) row already exists.
func (r *PatternRepository) InsertAwardIfAbsent(ctx context.Context, award bingo.PatternAward) (bool, error) {
	query, args, err := qb.InsertModel("bingo_pattern_awards", patternAwardTableModel{
		BoardID:      award.BoardID,
		EventID:      award.EventID,
		PlayerID:     award.PlayerID,
		PatternKey:   award.PatternKey,
		BaseBonus:    award.BaseBonus,
		OverlapRatio: award.OverlapRatio,
		Bonus:        award.Bonus,
		AwardedBonus: award.AwardedBonus,
		Cells:        pq.Int64Array(award.Cells.Ints()),
		AwardedAt:    award.AwardedAt,
	}, qb.OnConstraint("uq_bingo_pattern_awards"))
	if err != nil {
		return false, fmt.Errorf("build insert pattern award query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("insert pattern award: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert pattern award rows affected: %w", err)
	}
	return affected == 1, nil
}

func patternAwardFromRow(row patternAwardTableModel) bingo.PatternAward {
	return bingo.PatternAward{
		BoardID:      row.BoardID,
		EventID:      row.EventID,
		PlayerID:     row.PlayerID,
		PatternKey:   row.PatternKey,
		BaseBonus:    row.BaseBonus,
		OverlapRatio: row.OverlapRatio,
		Bonus:        row.Bonus,
		AwardedBonus: row.AwardedBonus,
		Cells:        bingo.CellSetFromInts(row.Cells),
		AwardedAt:    row.AwardedAt,
	}
}
