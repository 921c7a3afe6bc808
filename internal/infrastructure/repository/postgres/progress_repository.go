package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/clan-bingo/internal/domain/bingo"
	qb "github.com/riskibarqy/clan-bingo/internal/platform/querybuilder"
)

// baselineInsertChunk keeps multi-row inserts well below the bind parameter limit.
const baselineInsertChunk = 500

var taskProgressColumns = []string{
	"event_public_id",
	"player_id",
	"task_public_id",
	"team_public_id",
	"progress",
	"status",
	"points_awarded",
	"updated_at",
}

type ProgressRepository struct {
	db *sqlx.DB
}

func NewProgressRepository(db *sqlx.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

func (r *ProgressRepository) ListBaselines(ctx context.Context, eventID, playerID string) (map[string]int64, error) {
	query, args, err := qb.Select("metric_key", "value").From("bingo_baselines").
		Where(
			qb.Eq("event_public_id", eventID),
			qb.Eq("player_id", playerID),
		).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list baselines query: %w", err)
	}

	var rows []baselineTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list baselines: %w", err)
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.MetricKey] = row.Value
	}
	return out, nil
}

// InsertBaselines never overwrites an existing capture.
func (r *ProgressRepository) InsertBaselines(ctx context.Context, baselines []bingo.Baseline) error {
	for start := 0; start < len(baselines); start += baselineInsertChunk {
		end := min(start+baselineInsertChunk, len(baselines))

		insert := qb.InsertInto("bingo_baselines").
			Columns("event_public_id", "player_id", "metric_key", "value", "captured_at").
			OnConflict(qb.OnConflict("event_public_id", "player_id", "metric_key"))
		for _, item := range baselines[start:end] {
			insert.Values(item.EventID, item.PlayerID, item.MetricKey, item.Value, item.CapturedAt)
		}

		query, args, err := insert.ToSQL()
		if err != nil {
			return fmt.Errorf("build insert baselines query: %w", err)
		}
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert baselines: %w", err)
		}
	}
	return nil
}

func (r *ProgressRepository) GetTaskProgress(ctx context.Context, eventID, playerID, taskID string) (bingo.TaskProgress, bool, error) {
	query, args, err := qb.Select(taskProgressColumns...).From("bingo_task_progress").
		Where(
			qb.Eq("event_public_id", eventID),
			qb.Eq("player_id", playerID),
			qb.Eq("task_public_id", taskID),
		).
		ToSQL()
	if err != nil {
		return bingo.TaskProgress{}, false, fmt.Errorf("build get task progress query: %w", err)
	}

	var row taskProgressTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return bingo.TaskProgress{}, false, nil
		}
		return bingo.TaskProgress{}, false, fmt.Errorf("get task progress: %w", err)
	}
	return taskProgressFromRow(row), true, nil
}

func (r *ProgressRepository) ListTaskProgressByPlayer(ctx context.Context, eventID, playerID string) ([]bingo.TaskProgress, error) {
	query, args, err := qb.Select(taskProgressColumns...).From("bingo_task_progress").
		Where(
			qb.Eq("event_public_id", eventID),
			qb.Eq("player_id", playerID),
		).
		OrderBy("task_public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list task progress by player query: %w", err)
	}
	return r.selectProgress(ctx, query, args)
}

func (r *ProgressRepository) ListTaskProgressByTask(ctx context.Context, eventID, taskID string, playerIDs []string) ([]bingo.TaskProgress, error) {
	if len(playerIDs) == 0 {
		return []bingo.TaskProgress{}, nil
	}

	query, args, err := qb.Select(taskProgressColumns...).From("bingo_task_progress").
		Where(
			qb.Eq("event_public_id", eventID),
			qb.Eq("task_public_id", taskID),
			qb.In("player_id", stringSliceToAny(playerIDs)),
		).
		OrderBy("player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list task progress by task query: %w", err)
	}
	return r.selectProgress(ctx, query, args)
}

// UpsertTaskProgress keeps progress monotonic: the larger value wins, status never regresses and
// updated_at only moves when progress grows.
func (r *ProgressRepository) UpsertTaskProgress(ctx context.Context, row bingo.TaskProgress) error {
	query, args, err := qb.InsertModel("bingo_task_progress", taskProgressInsertModel{
		EventID:   row.EventID,
		PlayerID:  row.PlayerID,
		TaskID:    row.TaskID,
		TeamID:    nullableString(row.TeamID),
		Progress:  row.Progress,
		Status:    string(bingo.MaxStatus(row.Status, bingo.StatusIncomplete)),
		UpdatedAt: row.UpdatedAt,
	}, qb.OnConflict("event_public_id", "player_id", "task_public_id").DoUpdate(
		"team_public_id = COALESCE(EXCLUDED.team_public_id, bingo_task_progress.team_public_id)",
		"progress = GREATEST(bingo_task_progress.progress, EXCLUDED.progress)",
		`status = CASE
        WHEN bingo_task_progress.status = 'completed' OR EXCLUDED.status = 'completed' THEN 'completed'
        WHEN bingo_task_progress.status = 'in-progress' OR EXCLUDED.status = 'in-progress' THEN 'in-progress'
        ELSE 'incomplete'
    END`,
		`updated_at = CASE
        WHEN EXCLUDED.progress > bingo_task_progress.progress THEN EXCLUDED.updated_at
        ELSE bingo_task_progress.updated_at
    END`,
	))
	if err != nil {
		return fmt.Errorf("build upsert task progress query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert task progress: %w", err)
	}
	return nil
}

// ClaimTaskPoints sets points_awarded only on a completed row that has none yet. The single
// conditional update is what keeps awarding exactly-once across processes.
func (r *ProgressRepository) ClaimTaskPoints(ctx context.Context, eventID, playerID, taskID string, points int) (bool, error) {
	query, args, err := qb.Update("bingo_task_progress").
		Set("points_awarded", points).
		Where(
			qb.Eq("event_public_id", eventID),
			qb.Eq("player_id", playerID),
			qb.Eq("task_public_id", taskID),
			qb.Eq("status", string(bingo.StatusCompleted)),
			qb.IsNull("points_awarded"),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build claim task points query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("claim task points: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("claim task points rows affected: %w", err)
	}
	return affected == 1, nil
}

func (r *ProgressRepository) selectProgress(ctx context.Context, query string, args []any) ([]bingo.TaskProgress, error) {
	var rows []taskProgressTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select task progress: %w", err)
	}

	out := make([]bingo.TaskProgress, 0, len(rows))
	for _, row := range rows {
		out = append(out, taskProgressFromRow(row))
	}
	return out, nil
}

func taskProgressFromRow(row taskProgressTableModel) bingo.TaskProgress {
	return bingo.TaskProgress{
		EventID:       row.EventID,
		PlayerID:      row.PlayerID,
		TaskID:        row.TaskID,
		TeamID:        stringPtr(row.TeamID),
		Progress:      row.Progress,
		Status:        bingo.ProgressStatus(row.Status),
		PointsAwarded: intPtr(row.PointsAwarded),
		UpdatedAt:     row.UpdatedAt,
	}
}
