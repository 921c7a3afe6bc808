package usecase

import (
	"context"
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/riskibarqy/clan-bingo/internal/domain/bingo"
	"github.com/riskibarqy/clan-bingo/internal/domain/ledger"
	"github.com/riskibarqy/clan-bingo/internal/domain/pattern"
	"github.com/riskibarqy/clan-bingo/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/clan-bingo/internal/platform/id"
	"github.com/riskibarqy/clan-bingo/internal/platform/logging"
)

const fixtureEventID = "event-1"

type bingoFixture struct {
	clock time.Time

	store    *memory.Store
	events   *memory.EventRepository
	boards   *memory.BoardRepository
	progress *memory.ProgressRepository
	teams    *memory.TeamRepository
	patterns *memory.PatternRepository
	ledger   *memory.LedgerRepository
	stats    *memory.StatRepository
}

func newBingoFixture(t *testing.T) *bingoFixture {
	t.Helper()

	store := memory.NewStore()
	f := &bingoFixture{
		clock:    time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC),
		store:    store,
		events:   memory.NewEventRepository(store),
		boards:   memory.NewBoardRepository(store),
		progress: memory.NewProgressRepository(store),
		teams:    memory.NewTeamRepository(store),
		patterns: memory.NewPatternRepository(store),
		ledger:   memory.NewLedgerRepository(store),
		stats:    memory.NewStatRepository(store),
	}
	if err := f.boards.UpsertTasks(context.Background(), fixtureTasks()); err != nil {
		t.Fatalf("seed tasks: %v", err)
	}
	return f
}

// fixtureTasks binds task-NN to cell NN; every task is "kill 100 of metric-NN" worth 10.
func fixtureTasks() []bingo.Task {
	out := make([]bingo.Task, 0, bingo.BoardCells)
	for i := 0; i < bingo.BoardCells; i++ {
		out = append(out, bingo.Task{
			ID:         fmt.Sprintf("task-%02d", i),
			Parameter:  fmt.Sprintf("metric-%02d", i),
			Type:       bingo.TaskTypeKill,
			Target:     100,
			BasePoints: 10,
		})
	}
	return out
}

func fixtureBoard(eventID string) bingo.Board {
	board := bingo.Board{ID: "board-" + eventID, EventID: eventID}
	for i, task := range fixtureTasks() {
		cell := bingo.CellIndex(i)
		board.Cells = append(board.Cells, bingo.Cell{Row: cell.Row(), Col: cell.Col(), Task: task})
	}
	return board
}

func (f *bingoFixture) now() time.Time { return f.clock }

func (f *bingoFixture) createOngoingEvent(t *testing.T, rotation []string, players ...string) {
	t.Helper()
	ctx := context.Background()

	board := fixtureBoard(fixtureEventID)
	event := bingo.Event{
		ID:      fixtureEventID,
		State:   bingo.EventStateOngoing,
		StartAt: f.clock.Add(-time.Hour),
		EndAt:   f.clock.Add(48 * time.Hour),
		BoardID: board.ID,
	}
	if err := f.events.Create(ctx, event, board, bingo.PatternRotation{EventID: event.ID, PatternKeys: rotation}); err != nil {
		t.Fatalf("create event: %v", err)
	}
	for _, playerID := range players {
		if err := f.events.AddParticipant(ctx, event.ID, playerID); err != nil {
			t.Fatalf("add participant: %v", err)
		}
	}
}

func (f *bingoFixture) addTeam(t *testing.T, teamID string, players ...string) {
	t.Helper()
	team := bingo.Team{ID: teamID, EventID: fixtureEventID, Name: teamID}
	for _, playerID := range players {
		team.Members = append(team.Members, bingo.TeamMember{PlayerID: playerID, JoinedAt: f.clock})
	}
	if err := f.teams.Upsert(context.Background(), team); err != nil {
		t.Fatalf("upsert team: %v", err)
	}
}

// setKills writes the player's cumulative kill count for the metric of each given cell.
func (f *bingoFixture) setKills(t *testing.T, playerID string, kills int64, cells ...int) {
	t.Helper()
	for _, cell := range cells {
		parameter := fmt.Sprintf("metric-%02d", cell)
		if err := f.stats.SetStat(context.Background(), playerID, parameter, bingo.StatValue{Kills: kills}); err != nil {
			t.Fatalf("set stat: %v", err)
		}
	}
}

func (f *bingoFixture) contributionService(ledgerRepo ledger.Repository) *ContributionService {
	svc := NewContributionService(f.events, f.boards, f.progress, f.teams, f.stats, f.stats, ledgerRepo, logging.NewNop())
	svc.now = f.now
	return svc
}

func (f *bingoFixture) patternService(ledgerRepo ledger.Repository, patternRepo bingo.PatternRepository) *PatternService {
	if patternRepo == nil {
		patternRepo = f.patterns
	}
	svc := NewPatternService(f.events, f.boards, f.progress, f.teams, patternRepo, ledgerRepo, pattern.DefaultCatalog(), logging.NewNop())
	svc.now = f.now
	return svc
}

func (f *bingoFixture) eventService() *EventService {
	svc := NewEventService(
		f.events,
		f.boards,
		f.progress,
		f.patterns,
		f.stats,
		pattern.DefaultCatalog(),
		&id.SequenceGenerator{},
		rand.New(rand.NewPCG(42, 7)),
		logging.NewNop(),
	)
	svc.now = f.now
	return svc
}

func (f *bingoFixture) evaluationService(workers int) *EvaluationService {
	svc := NewEvaluationService(
		f.events,
		f.teams,
		f.eventService(),
		f.contributionService(f.ledger),
		f.patternService(f.ledger, nil),
		workers,
		logging.NewNop(),
	)
	svc.now = f.now
	return svc
}

func (f *bingoFixture) balance(t *testing.T, playerID string, category ledger.Category) int {
	t.Helper()
	balances, err := f.ledger.ListBalances(context.Background(), playerID)
	if err != nil {
		t.Fatalf("list balances: %v", err)
	}
	for _, item := range balances {
		if item.Category == category {
			return item.Points
		}
	}
	return 0
}

func rowCells(row int) []int {
	out := make([]int, 0, bingo.BoardCols)
	for col := 0; col < bingo.BoardCols; col++ {
		out = append(out, row*bingo.BoardCols+col)
	}
	return out
}
