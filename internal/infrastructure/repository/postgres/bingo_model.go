package postgres

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type taskTableModel struct {
	PublicID    string `db:"public_id"`
	Description string `db:"description"`
	Parameter   string `db:"parameter"`
	TaskType    string `db:"task_type"`
	Target      int64  `db:"target"`
	BasePoints  int    `db:"base_points"`
}

type eventTableModel struct {
	PublicID  string    `db:"public_id"`
	State     string    `db:"state"`
	StartAt   time.Time `db:"start_at"`
	EndAt     time.Time `db:"end_at"`
	BoardID   string    `db:"board_public_id"`
	CreatedAt time.Time `db:"created_at,omitempty"`
	UpdatedAt time.Time `db:"updated_at,omitempty"`
}

type boardInsertModel struct {
	PublicID string `db:"public_id"`
	EventID  string `db:"event_public_id"`
}

type boardCellInsertModel struct {
	BoardID  string `db:"board_public_id"`
	RowIndex int    `db:"row_index"`
	ColIndex int    `db:"col_index"`
	TaskID   string `db:"task_public_id"`
}

// boardCellRow joins a cell with its task.
type boardCellRow struct {
	BoardID     string `db:"board_public_id"`
	RowIndex    int    `db:"row_index"`
	ColIndex    int    `db:"col_index"`
	PublicID    string `db:"public_id"`
	Description string `db:"description"`
	Parameter   string `db:"parameter"`
	TaskType    string `db:"task_type"`
	Target      int64  `db:"target"`
	BasePoints  int    `db:"base_points"`
}

type rotationTableModel struct {
	EventID     string         `db:"event_public_id"`
	PatternKeys pq.StringArray `db:"pattern_keys"`
	CreatedAt   time.Time      `db:"created_at,omitempty"`
}

// teamMemberRow is one team joined with one of its members; member columns are NULL for an
// empty team.
type teamMemberRow struct {
	TeamID   string         `db:"public_id"`
	EventID  string         `db:"event_public_id"`
	Name     string         `db:"name"`
	PlayerID sql.NullString `db:"player_id"`
	JoinedAt sql.NullTime   `db:"joined_at"`
}

type teamInsertModel struct {
	PublicID string `db:"public_id"`
	EventID  string `db:"event_public_id"`
	Name     string `db:"name"`
}

type baselineTableModel struct {
	MetricKey string `db:"metric_key"`
	Value     int64  `db:"value"`
}

type taskProgressTableModel struct {
	EventID       string         `db:"event_public_id"`
	PlayerID      string         `db:"player_id"`
	TaskID        string         `db:"task_public_id"`
	TeamID        sql.NullString `db:"team_public_id"`
	Progress      int64          `db:"progress"`
	Status        string         `db:"status"`
	PointsAwarded sql.NullInt64  `db:"points_awarded"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

type taskProgressInsertModel struct {
	EventID   string         `db:"event_public_id"`
	PlayerID  string         `db:"player_id"`
	TaskID    string         `db:"task_public_id"`
	TeamID    sql.NullString `db:"team_public_id"`
	Progress  int64          `db:"progress"`
	Status    string         `db:"status"`
	UpdatedAt time.Time      `db:"updated_at"`
}

type patternAwardTableModel struct {
	BoardID      string        `db:"board_public_id"`
	EventID      string        `db:"event_public_id"`
	PlayerID     string        `db:"player_id"`
	PatternKey   string        `db:"pattern_key"`
	BaseBonus    int           `db:"base_bonus"`
	OverlapRatio float64       `db:"overlap_ratio"`
	Bonus        int           `db:"bonus"`
	AwardedBonus int           `db:"awarded_bonus"`
	Cells        pq.Int64Array `db:"cells"`
	AwardedAt    time.Time     `db:"awarded_at,omitempty"`
}

type balanceTableModel struct {
	PlayerID string `db:"player_id"`
	Category string `db:"category"`
	Points   int    `db:"points"`
}

type leaderboardTableModel struct {
	EventID      string `db:"event_public_id"`
	PlayerID     string `db:"player_id"`
	TaskPoints   int    `db:"task_points"`
	PatternBonus int    `db:"pattern_bonus"`
}

type playerStatTableModel struct {
	Parameter string `db:"parameter"`
	Exp       int64  `db:"exp"`
	Level     int64  `db:"level"`
	Kills     int64  `db:"kills"`
	Score     int64  `db:"score"`
}
