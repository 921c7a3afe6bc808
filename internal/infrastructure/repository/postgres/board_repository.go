package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/clan-bingo/internal/domain/bingo"
	qb "github.com/riskibarqy/clan-bingo/internal/platform/querybuilder"
)

var taskColumns = []string{"public_id", "description", "parameter", "task_type", "target", "base_points"}

type BoardRepository struct {
	db *sqlx.DB
}

func NewBoardRepository(db *sqlx.DB) *BoardRepository {
	return &BoardRepository{db: db}
}

func (r *BoardRepository) GetByEvent(ctx context.Context, eventID string) (bingo.Board, bool, error) {
	query, args, err := qb.Select(
		"c.board_public_id",
		"c.row_index",
		"c.col_index",
		"t.public_id",
		"t.description",
		"t.parameter",
		"t.task_type",
		"t.target",
		"t.base_points",
	).
		From(`bingo_board_cells c
JOIN bingo_boards b ON b.public_id = c.board_public_id
JOIN bingo_tasks t ON t.public_id = c.task_public_id AND t.deleted_at IS NULL`).
		Where(qb.Eq("b.event_public_id", eventID)).
		OrderBy("c.row_index", "c.col_index").
		ToSQL()
	if err != nil {
		return bingo.Board{}, false, fmt.Errorf("build get board by event query: %w", err)
	}

	var rows []boardCellRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return bingo.Board{}, false, fmt.Errorf("get board by event: %w", err)
	}
	if len(rows) == 0 {
		return bingo.Board{}, false, nil
	}

	board := bingo.Board{ID: rows[0].BoardID, EventID: eventID, Cells: make([]bingo.Cell, 0, len(rows))}
	for _, row := range rows {
		board.Cells = append(board.Cells, bingo.Cell{
			Row: row.RowIndex,
			Col: row.ColIndex,
			Task: taskFromRow(taskTableModel{
				PublicID:    row.PublicID,
				Description: row.Description,
				Parameter:   row.Parameter,
				TaskType:    row.TaskType,
				Target:      row.Target,
				BasePoints:  row.BasePoints,
			}),
		})
	}
	return board, true, nil
}

func (r *BoardRepository) ListTasksByIDs(ctx context.Context, taskIDs []string) ([]bingo.Task, error) {
	if len(taskIDs) == 0 {
		return []bingo.Task{}, nil
	}

	query, args, err := qb.Select(taskColumns...).From("bingo_tasks").
		Where(
			qb.In("public_id", stringSliceToAny(taskIDs)),
			qb.IsNull("deleted_at"),
		).
		OrderBy("public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list tasks by ids query: %w", err)
	}

	var rows []taskTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list tasks by ids: %w", err)
	}

	out := make([]bingo.Task, 0, len(rows))
	for _, row := range rows {
		out = append(out, taskFromRow(row))
	}
	return out, nil
}

func (r *BoardRepository) UpsertTasks(ctx context.Context, tasks []bingo.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert tasks: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, task := range tasks {
		if err := task.Validate(); err != nil {
			return fmt.Errorf("validate task: %w", err)
		}
		query, args, err := qb.InsertModel("bingo_tasks", taskTableModel{
			PublicID:    task.ID,
			Description: task.Description,
			Parameter:   task.Parameter,
			TaskType:    string(task.Type),
			Target:      task.Target,
			BasePoints:  task.BasePoints,
		}, qb.OnConflict("public_id").Where("deleted_at IS NULL").
			DoUpdateExcluded("description", "parameter", "task_type", "target", "base_points").
			DoUpdate("updated_at = NOW()"))
		if err != nil {
			return fmt.Errorf("build upsert task query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert task %s: %w", task.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert tasks tx: %w", err)
	}
	return nil
}

func taskFromRow(row taskTableModel) bingo.Task {
	return bingo.Task{
		ID:          row.PublicID,
		Description: row.Description,
		Parameter:   row.Parameter,
		Type:        bingo.TaskType(row.TaskType),
		Target:      row.Target,
		BasePoints:  row.BasePoints,
	}
}
