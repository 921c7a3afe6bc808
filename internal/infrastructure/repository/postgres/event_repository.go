package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/clan-bingo/internal/domain/bingo"
	qb "github.com/riskibarqy/clan-bingo/internal/platform/querybuilder"
)

var eventColumns = []string{"public_id", "state", "start_at", "end_at", "board_public_id", "created_at", "updated_at"}

type EventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) GetByID(ctx context.Context, eventID string) (bingo.Event, bool, error) {
	query, args, err := qb.Select(eventColumns...).From("bingo_events").
		Where(
			qb.Eq("public_id", eventID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return bingo.Event{}, false, fmt.Errorf("build get event query: %w", err)
	}

	var row eventTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return bingo.Event{}, false, nil
		}
		return bingo.Event{}, false, fmt.Errorf("get event: %w", err)
	}
	return eventFromRow(row), true, nil
}

func (r *EventRepository) ListByState(ctx context.Context, state bingo.EventState) ([]bingo.Event, error) {
	query, args, err := qb.Select(eventColumns...).From("bingo_events").
		Where(
			qb.Eq("state", string(state)),
			qb.IsNull("deleted_at"),
		).
		OrderBy("start_at", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list events by state query: %w", err)
	}

	var rows []eventTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list events by state: %w", err)
	}

	out := make([]bingo.Event, 0, len(rows))
	for _, row := range rows {
		out = append(out, eventFromRow(row))
	}
	return out, nil
}

func (r *EventRepository) GetLatestBefore(ctx context.Context, at time.Time) (bingo.Event, bool, error) {
	query, args, err := qb.Select(eventColumns...).From("bingo_events").
		Where(
			qb.Lt("start_at", at),
			qb.IsNull("deleted_at"),
		).
		OrderBy("start_at DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return bingo.Event{}, false, fmt.Errorf("build get latest event query: %w", err)
	}

	var row eventTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return bingo.Event{}, false, nil
		}
		return bingo.Event{}, false, fmt.Errorf("get latest event: %w", err)
	}
	return eventFromRow(row), true, nil
}

// Create writes the event, its board cells and its rotation in one transaction.
func (r *EventRepository) Create(ctx context.Context, event bingo.Event, board bingo.Board, rotation bingo.PatternRotation) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx create event: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args, err := qb.InsertModel("bingo_events", eventTableModel{
		PublicID:  event.ID,
		State:     string(event.State),
		StartAt:   event.StartAt,
		EndAt:     event.EndAt,
		BoardID:   event.BoardID,
		CreatedAt: event.CreatedAt,
		UpdatedAt: event.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("build insert event query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert event %s: %w", event.ID, err)
	}

	query, args, err = qb.InsertModel("bingo_boards", boardInsertModel{PublicID: board.ID, EventID: event.ID})
	if err != nil {
		return fmt.Errorf("build insert board query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert board %s: %w", board.ID, err)
	}

	cells := qb.InsertInto("bingo_board_cells").Columns("board_public_id", "row_index", "col_index", "task_public_id")
	for _, cell := range board.Cells {
		cells.Values(board.ID, cell.Row, cell.Col, cell.Task.ID)
	}
	query, args, err = cells.ToSQL()
	if err != nil {
		return fmt.Errorf("build insert board cells query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert board cells %s: %w", board.ID, err)
	}

	query, args, err = qb.InsertModel("bingo_pattern_rotations", rotationTableModel{
		EventID:     event.ID,
		PatternKeys: rotation.PatternKeys,
		CreatedAt:   rotation.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("build insert rotation query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert rotation %s: %w", event.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create event tx: %w", err)
	}
	return nil
}

func (r *EventRepository) UpdateState(ctx context.Context, eventID string, state bingo.EventState, at time.Time) error {
	query, args, err := qb.Update("bingo_events").
		Set("state", string(state)).
		Set("updated_at", at).
		Where(
			qb.Eq("public_id", eventID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update event state query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update event state: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("update event state: event %s not found", eventID)
	}
	return nil
}

func (r *EventRepository) AddParticipant(ctx context.Context, eventID, playerID string) error {
	query, args, err := qb.InsertInto("bingo_event_participants").
		Columns("event_public_id", "player_id").
		Values(eventID, playerID).
		OnConflict(qb.OnConflict("event_public_id", "player_id")).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build add participant query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("add participant: %w", err)
	}
	return nil
}

func (r *EventRepository) ListParticipants(ctx context.Context, eventID string) ([]string, error) {
	query, args, err := qb.Select("player_id").From("bingo_event_participants").
		Where(qb.Eq("event_public_id", eventID)).
		OrderBy("joined_at", "player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list participants query: %w", err)
	}

	var out []string
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	return out, nil
}

func eventFromRow(row eventTableModel) bingo.Event {
	return bingo.Event{
		ID:        row.PublicID,
		State:     bingo.EventState(row.State),
		StartAt:   row.StartAt,
		EndAt:     row.EndAt,
		BoardID:   row.BoardID,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
