package bingo

import (
	"context"
	"time"
)

// EventRepository stores events, their boards and enrolment.
type EventRepository interface {
	GetByID(ctx context.Context, eventID string) (Event, bool, error)
	ListByState(ctx context.Context, state EventState) ([]Event, error)
	// GetLatestBefore returns the most recent event that started before at.
	GetLatestBefore(ctx context.Context, at time.Time) (Event, bool, error)
	// Create persists the event, its board and its rotation together.
	Create(ctx context.Context, event Event, board Board, rotation PatternRotation) error
	UpdateState(ctx context.Context, eventID string, state EventState, at time.Time) error
	AddParticipant(ctx context.Context, eventID, playerID string) error
	ListParticipants(ctx context.Context, eventID string) ([]string, error)
}

type BoardRepository interface {
	GetByEvent(ctx context.Context, eventID string) (Board, bool, error)
	ListTasksByIDs(ctx context.Context, taskIDs []string) ([]Task, error)
}

type ProgressRepository interface {
	ListBaselines(ctx context.Context, eventID, playerID string) (map[string]int64, error)
	// InsertBaselines keeps the first captured value per (event, player, metric).
	InsertBaselines(ctx context.Context, baselines []Baseline) error

	GetTaskProgress(ctx context.Context, eventID, playerID, taskID string) (TaskProgress, bool, error)
	ListTaskProgressByPlayer(ctx context.Context, eventID, playerID string) ([]TaskProgress, error)
	ListTaskProgressByTask(ctx context.Context, eventID, taskID string, playerIDs []string) ([]TaskProgress, error)
	// UpsertTaskProgress never lowers progress or status; UpdatedAt only moves when progress grows.
	UpsertTaskProgress(ctx context.Context, row TaskProgress) error
	// ClaimTaskPoints sets points_awarded when the row is completed and unset.
	// It reports false when another writer already claimed the row.
	ClaimTaskPoints(ctx context.Context, eventID, playerID, taskID string, points int) (bool, error)
}

type TeamRepository interface {
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
	GetByPlayer(ctx context.Context, eventID, playerID string) (Team, bool, error)
	ListByEvent(ctx context.Context, eventID string) ([]Team, error)
	// Upsert replaces the team's name and member list.
	Upsert(ctx context.Context, team Team) error
}

type PatternRepository interface {
	GetRotation(ctx context.Context, eventID string) (PatternRotation, bool, error)
	ListAwards(ctx context.Context, boardID, eventID, playerID string) ([]PatternAward, error)
	// InsertAwardIfAbsent reports false when the (board, event, player, pattern) row exists.
	InsertAwardIfAbsent(ctx context.Context, award PatternAward) (bool, error)
}

// StatSource exposes the cumulative values written by stat ingestion, keyed by parameter.
type StatSource interface {
	CurrentStats(ctx context.Context, playerID string) (map[string]StatValue, error)
}

type WeeklyCompetitionSource interface {
	ActiveMetrics(ctx context.Context, at time.Time) ([]string, error)
}
