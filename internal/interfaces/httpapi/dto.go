package httpapi

import (
	"time"

	"github.com/riskibarqy/clan-bingo/internal/domain/bingo"
	"github.com/riskibarqy/clan-bingo/internal/domain/ledger"
	"github.com/riskibarqy/clan-bingo/internal/usecase"
)

type createEventRequest struct {
	StartAt time.Time `json:"start_at" validate:"required"`
	EndAt   time.Time `json:"end_at" validate:"required,gtfield=StartAt"`
	TaskIDs []string  `json:"task_ids" validate:"required,len=15,dive,required"`
}

type enrollPlayerRequest struct {
	PlayerID string `json:"player_id" validate:"required,max=64"`
}

type upsertTeamRequest struct {
	Name      string   `json:"name" validate:"required,max=100"`
	PlayerIDs []string `json:"player_ids" validate:"required,min=1,dive,required,max=64"`
}

type eventDTO struct {
	ID      string `json:"id"`
	State   string `json:"state"`
	StartAt string `json:"start_at"`
	EndAt   string `json:"end_at"`
	BoardID string `json:"board_id"`
}

type cellDTO struct {
	Index      int    `json:"index"`
	Row        int    `json:"row"`
	Col        int    `json:"col"`
	TaskID     string `json:"task_id"`
	TaskType   string `json:"task_type"`
	Parameter  string `json:"parameter"`
	Target     int64  `json:"target"`
	BasePoints int    `json:"base_points"`
}

type createdEventDTO struct {
	Event    eventDTO    `json:"event"`
	Cells    []cellDTO   `json:"cells"`
	Rotation rotationDTO `json:"rotation"`
}

type rotationDTO struct {
	EventID     string   `json:"event_id"`
	PatternKeys []string `json:"pattern_keys"`
}

type taskPartialDTO struct {
	TaskID        string  `json:"task_id"`
	Target        int64   `json:"target"`
	Progress      int64   `json:"progress"`
	Status        string  `json:"status"`
	BasePoints    int     `json:"base_points"`
	Partial       float64 `json:"partial"`
	PointsAwarded *int    `json:"points_awarded,omitempty"`
}

type playerProgressDTO struct {
	EventID          string           `json:"event_id"`
	PlayerID         string           `json:"player_id"`
	Tasks            []taskPartialDTO `json:"tasks"`
	TotalPartial     float64          `json:"total_partial"`
	TotalPoints      int              `json:"total_points"`
	TotalBoardPoints int              `json:"total_board_points"`
	Percentage       float64          `json:"percentage"`
	AwardedNow       int              `json:"awarded_now"`
}

type memberShareDTO struct {
	PlayerID     string  `json:"player_id"`
	Contribution int64   `json:"contribution"`
	Credited     int64   `json:"credited"`
	Percent      float64 `json:"percent"`
}

type teamTaskPartialDTO struct {
	TaskID        string           `json:"task_id"`
	Target        int64            `json:"target"`
	FinalProgress int64            `json:"final_progress"`
	Status        string           `json:"status"`
	BasePoints    int              `json:"base_points"`
	Partial       float64          `json:"partial"`
	Percent       float64          `json:"percent"`
	Members       []memberShareDTO `json:"members"`
}

type teamProgressDTO struct {
	EventID          string               `json:"event_id"`
	TeamID           string               `json:"team_id"`
	Tasks            []teamTaskPartialDTO `json:"tasks"`
	TotalPartial     float64              `json:"total_partial"`
	TotalBoardPoints int                  `json:"total_board_points"`
	Percentage       float64              `json:"percentage"`
}

type patternAwardDTO struct {
	PatternKey   string  `json:"pattern_key"`
	Family       string  `json:"family"`
	BaseBonus    int     `json:"base_bonus"`
	OverlapRatio float64 `json:"overlap_ratio"`
	Bonus        int     `json:"bonus"`
	AwardedBonus int     `json:"awarded_bonus"`
}

type evaluationDTO struct {
	EventID         string            `json:"event_id"`
	PlayerID        string            `json:"player_id"`
	TeamID          string            `json:"team_id,omitempty"`
	Progress        playerProgressDTO `json:"progress"`
	PatternsChecked int               `json:"patterns_checked"`
	PatternsFailed  int               `json:"patterns_failed"`
	Awarded         []patternAwardDTO `json:"awarded"`
}

type teamMemberDTO struct {
	PlayerID string `json:"player_id"`
	JoinedAt string `json:"joined_at"`
}

type teamDTO struct {
	ID      string          `json:"id"`
	EventID string          `json:"event_id"`
	Name    string          `json:"name"`
	Members []teamMemberDTO `json:"members"`
}

type leaderboardRowDTO struct {
	Rank         int    `json:"rank"`
	PlayerID     string `json:"player_id"`
	TaskPoints   int    `json:"task_points"`
	PatternBonus int    `json:"pattern_bonus"`
	Total        int    `json:"total"`
}

type balanceDTO struct {
	Category string `json:"category"`
	Points   int    `json:"points"`
}

func eventToDTO(v bingo.Event) eventDTO {
	return eventDTO{
		ID:      v.ID,
		State:   string(v.State),
		StartAt: v.StartAt.UTC().Format(time.RFC3339),
		EndAt:   v.EndAt.UTC().Format(time.RFC3339),
		BoardID: v.BoardID,
	}
}

func createdEventToDTO(v usecase.CreatedEvent) createdEventDTO {
	out := createdEventDTO{
		Event:    eventToDTO(v.Event),
		Cells:    make([]cellDTO, 0, len(v.Board.Cells)),
		Rotation: rotationToDTO(v.Rotation),
	}
	for _, cell := range v.Board.Cells {
		out.Cells = append(out.Cells, cellDTO{
			Index:      int(cell.Index()),
			Row:        cell.Row,
			Col:        cell.Col,
			TaskID:     cell.Task.ID,
			TaskType:   string(cell.Task.Type),
			Parameter:  cell.Task.Parameter,
			Target:     cell.Task.Target,
			BasePoints: cell.Task.BasePoints,
		})
	}
	return out
}

func rotationToDTO(v bingo.PatternRotation) rotationDTO {
	keys := v.PatternKeys
	if keys == nil {
		keys = []string{}
	}
	return rotationDTO{EventID: v.EventID, PatternKeys: keys}
}

func playerProgressToDTO(v usecase.IndividualPartialReport) playerProgressDTO {
	out := playerProgressDTO{
		EventID:          v.EventID,
		PlayerID:         v.PlayerID,
		Tasks:            make([]taskPartialDTO, 0, len(v.Tasks)),
		TotalPartial:     v.TotalPartial,
		TotalPoints:      v.TotalPoints,
		TotalBoardPoints: v.TotalBoardPoints,
		Percentage:       v.Percentage,
		AwardedNow:       v.AwardedNow,
	}
	for _, task := range v.Tasks {
		out.Tasks = append(out.Tasks, taskPartialDTO{
			TaskID:        task.TaskID,
			Target:        task.Target,
			Progress:      task.Progress,
			Status:        string(task.Status),
			BasePoints:    task.BasePoints,
			Partial:       task.Partial,
			PointsAwarded: task.PointsAwarded,
		})
	}
	return out
}

func teamProgressToDTO(v usecase.TeamPartialReport) teamProgressDTO {
	out := teamProgressDTO{
		EventID:          v.EventID,
		TeamID:           v.TeamID,
		Tasks:            make([]teamTaskPartialDTO, 0, len(v.Tasks)),
		TotalPartial:     v.TotalPartial,
		TotalBoardPoints: v.TotalBoardPoints,
		Percentage:       v.Percentage,
	}
	for _, task := range v.Tasks {
		item := teamTaskPartialDTO{
			TaskID:        task.TaskID,
			Target:        task.Target,
			FinalProgress: task.FinalProgress,
			Status:        string(task.Status),
			BasePoints:    task.BasePoints,
			Partial:       task.Partial,
			Percent:       task.Percent,
			Members:       make([]memberShareDTO, 0, len(task.Members)),
		}
		for _, member := range task.Members {
			item.Members = append(item.Members, memberShareDTO(member))
		}
		out.Tasks = append(out.Tasks, item)
	}
	return out
}

func evaluationToDTO(v usecase.PlayerEvaluation) evaluationDTO {
	out := evaluationDTO{
		EventID:         v.EventID,
		PlayerID:        v.PlayerID,
		TeamID:          v.TeamID,
		Progress:        playerProgressToDTO(v.Progress),
		PatternsChecked: v.Patterns.Checked,
		PatternsFailed:  v.Patterns.Failed,
		Awarded:         make([]patternAwardDTO, 0, len(v.Patterns.Awarded)),
	}
	for _, award := range v.Patterns.Awarded {
		out.Awarded = append(out.Awarded, patternAwardDTO{
			PatternKey:   award.PatternKey,
			Family:       string(award.Family),
			BaseBonus:    award.BaseBonus,
			OverlapRatio: award.OverlapRatio,
			Bonus:        award.Bonus,
			AwardedBonus: award.AwardedBonus,
		})
	}
	return out
}

func teamToDTO(v bingo.Team) teamDTO {
	out := teamDTO{ID: v.ID, EventID: v.EventID, Name: v.Name, Members: make([]teamMemberDTO, 0, len(v.Members))}
	for _, member := range v.Members {
		out.Members = append(out.Members, teamMemberDTO{
			PlayerID: member.PlayerID,
			JoinedAt: member.JoinedAt.UTC().Format(time.RFC3339),
		})
	}
	return out
}

func leaderboardToDTO(rows []usecase.LeaderboardRow) []leaderboardRowDTO {
	out := make([]leaderboardRowDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, leaderboardRowDTO{
			Rank:         row.Rank,
			PlayerID:     row.PlayerID,
			TaskPoints:   row.TaskPoints,
			PatternBonus: row.PatternBonus,
			Total:        row.Total(),
		})
	}
	return out
}

func balancesToDTO(items []ledger.Balance) []balanceDTO {
	out := make([]balanceDTO, 0, len(items))
	for _, item := range items {
		out = append(out, balanceDTO{Category: string(item.Category), Points: item.Points})
	}
	return out
}
