package memory

import (
	"strings"
	"sync"

	"github.com/riskibarqy/clan-bingo/internal/domain/bingo"
	"github.com/riskibarqy/clan-bingo/internal/domain/ledger"
)

// Store holds every bingo table in process memory. The repositories below are views over it
// so that event creation can write events, boards and rotations under one lock.
type Store struct {
	mu sync.RWMutex

	tasks        map[string]bingo.Task
	events       map[string]bingo.Event
	boards       map[string]bingo.Board // by event id
	participants map[string][]string
	rotations    map[string]bingo.PatternRotation
	teams        map[string]bingo.Team
	baselines    map[string]int64
	progress     map[string]bingo.TaskProgress
	awards       map[string]bingo.PatternAward
	balances     map[string]int
	leaderboard  map[string]ledger.LeaderboardEntry
	stats        map[string]map[string]bingo.StatValue
	weekly       []WeeklyCompetition
}

func NewStore() *Store {
	return &Store{
		tasks:        make(map[string]bingo.Task),
		events:       make(map[string]bingo.Event),
		boards:       make(map[string]bingo.Board),
		participants: make(map[string][]string),
		rotations:    make(map[string]bingo.PatternRotation),
		teams:        make(map[string]bingo.Team),
		baselines:    make(map[string]int64),
		progress:     make(map[string]bingo.TaskProgress),
		awards:       make(map[string]bingo.PatternAward),
		balances:     make(map[string]int),
		leaderboard:  make(map[string]ledger.LeaderboardEntry),
		stats:        make(map[string]map[string]bingo.StatValue),
	}
}

func key(parts ...string) string {
	return strings.Join(parts, "::")
}

func cloneBoard(b bingo.Board) bingo.Board {
	copied := b
	copied.Cells = append([]bingo.Cell(nil), b.Cells...)
	return copied
}

func cloneTeam(t bingo.Team) bingo.Team {
	copied := t
	copied.Members = append([]bingo.TeamMember(nil), t.Members...)
	return copied
}

func cloneProgress(p bingo.TaskProgress) bingo.TaskProgress {
	copied := p
	if p.TeamID != nil {
		teamID := *p.TeamID
		copied.TeamID = &teamID
	}
	if p.PointsAwarded != nil {
		points := *p.PointsAwarded
		copied.PointsAwarded = &points
	}
	return copied
}
