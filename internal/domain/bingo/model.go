package bingo

import (
	"fmt"
	"strings"
	"time"
)

type EventState string

const (
	EventStateUpcoming  EventState = "upcoming"
	EventStateOngoing   EventState = "ongoing"
	EventStateCompleted EventState = "completed"
)

func (s EventState) Valid() bool {
	switch s {
	case EventStateUpcoming, EventStateOngoing, EventStateCompleted:
		return true
	default:
		return false
	}
}

// Event is one bingo round. A completed event is read-only history.
type Event struct {
	ID        string
	State     EventState
	StartAt   time.Time
	EndAt     time.Time
	BoardID   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (e Event) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("event id is required")
	}
	if !e.State.Valid() {
		return fmt.Errorf("invalid event state %q", e.State)
	}
	if e.StartAt.IsZero() || e.EndAt.IsZero() {
		return fmt.Errorf("event start and end are required")
	}
	if !e.EndAt.After(e.StartAt) {
		return fmt.Errorf("event end must be after start")
	}
	return nil
}

type TaskType string

const (
	TaskTypeExp   TaskType = "Exp"
	TaskTypeLevel TaskType = "Level"
	TaskTypeKill  TaskType = "Kill"
	TaskTypeScore TaskType = "Score"
)

// Task is a board objective: reach Target on the stat selected by Type and Parameter.
type Task struct {
	ID          string
	Description string
	Parameter   string
	Type        TaskType
	Target      int64
	BasePoints  int
}

// MetricKey identifies the baseline a task progresses against.
func (t Task) MetricKey() string {
	return strings.ToLower(string(t.Type)) + ":" + NormalizeParameter(t.Parameter)
}

// NormalizeParameter is the form stat parameters are keyed by.
func NormalizeParameter(parameter string) string {
	return strings.ToLower(strings.TrimSpace(parameter))
}

// ReadStat selects the value this task measures from per-parameter stats. Missing stats read as 0.
func (t Task) ReadStat(stats map[string]StatValue) (int64, error) {
	return t.Type.Read(stats[NormalizeParameter(t.Parameter)])
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("task id is required")
	}
	if strings.TrimSpace(t.Parameter) == "" {
		return fmt.Errorf("task %s parameter is required", t.ID)
	}
	if _, err := ParseTaskType(string(t.Type)); err != nil {
		return fmt.Errorf("task %s: %w", t.ID, err)
	}
	if t.Target <= 0 {
		return fmt.Errorf("task %s target must be > 0", t.ID)
	}
	if t.BasePoints < 0 {
		return fmt.Errorf("task %s base points must be >= 0", t.ID)
	}
	return nil
}

type ProgressStatus string

const (
	StatusIncomplete ProgressStatus = "incomplete"
	StatusInProgress ProgressStatus = "in-progress"
	StatusCompleted  ProgressStatus = "completed"
)

func (s ProgressStatus) rank() int {
	switch s {
	case StatusCompleted:
		return 2
	case StatusInProgress:
		return 1
	default:
		return 0
	}
}

// MaxStatus returns the more advanced of two statuses; status never regresses.
func MaxStatus(a, b ProgressStatus) ProgressStatus {
	if b.rank() > a.rank() {
		return b
	}
	if a == "" {
		return StatusIncomplete
	}
	return a
}

type Baseline struct {
	EventID    string
	PlayerID   string
	MetricKey  string
	Value      int64
	CapturedAt time.Time
}

type TaskProgress struct {
	EventID       string
	PlayerID      string
	TaskID        string
	TeamID        *string
	Progress      int64
	Status        ProgressStatus
	PointsAwarded *int
	UpdatedAt     time.Time
}

func (p TaskProgress) Completed() bool {
	return p.Status == StatusCompleted
}

type TeamMember struct {
	PlayerID string
	JoinedAt time.Time
}

type Team struct {
	ID      string
	EventID string
	Name    string
	Members []TeamMember
}

func (t Team) Size() int {
	return len(t.Members)
}

func (t Team) PlayerIDs() []string {
	out := make([]string, 0, len(t.Members))
	for _, member := range t.Members {
		out = append(out, member.PlayerID)
	}
	return out
}

// PatternRotation is the ordered set of pattern keys active for an event.
type PatternRotation struct {
	EventID     string
	PatternKeys []string
	CreatedAt   time.Time
}

// PatternAward is written once per (board, event, player, pattern key).
type PatternAward struct {
	BoardID      string
	EventID      string
	PlayerID     string
	PatternKey   string
	BaseBonus    int
	OverlapRatio float64
	Bonus        int
	AwardedBonus int
	Cells        CellSet
	AwardedAt    time.Time
}

// StatValue holds one player's cumulative values for a stat parameter.
type StatValue struct {
	Exp   int64
	Level int64
	Kills int64
	Score int64
}
