package usecase

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/clan-bingo/internal/domain/bingo"
	"github.com/riskibarqy/clan-bingo/internal/domain/pattern"
	"github.com/riskibarqy/clan-bingo/internal/platform/id"
	"github.com/riskibarqy/clan-bingo/internal/platform/logging"
	"github.com/riskibarqy/clan-bingo/internal/platform/metrics"
)

type EventService struct {
	eventRepo    bingo.EventRepository
	boardRepo    bingo.BoardRepository
	progressRepo bingo.ProgressRepository
	patternRepo  bingo.PatternRepository
	stats        bingo.StatSource
	catalog      pattern.Catalog
	idGen        id.Generator
	logger       *logging.Logger
	now          func() time.Time

	rngMu sync.Mutex
	rng   *rand.Rand
}

type CreateEventInput struct {
	StartAt time.Time
	EndAt   time.Time
	// TaskIDs binds the 15 cells in row-major order.
	TaskIDs []string
}

type CreatedEvent struct {
	Event    bingo.Event
	Board    bingo.Board
	Rotation bingo.PatternRotation
}

type StateRefreshResult struct {
	Started   []string
	Completed []string
	Failed    int
}

func NewEventService(
	eventRepo bingo.EventRepository,
	boardRepo bingo.BoardRepository,
	progressRepo bingo.ProgressRepository,
	patternRepo bingo.PatternRepository,
	stats bingo.StatSource,
	catalog pattern.Catalog,
	idGen id.Generator,
	rng *rand.Rand,
	logger *logging.Logger,
) *EventService {
	if logger == nil {
		logger = logging.Default()
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &EventService{
		eventRepo:    eventRepo,
		boardRepo:    boardRepo,
		progressRepo: progressRepo,
		patternRepo:  patternRepo,
		stats:        stats,
		catalog:      catalog,
		idGen:        idGen,
		logger:       logger,
		now:          time.Now,
		rng:          rng,
	}
}

// CreateEvent lays out the board and picks a rotation that avoids the previous event's patterns.
func (s *EventService) CreateEvent(ctx context.Context, input CreateEventInput) (CreatedEvent, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.CreateEvent")
	defer span.End()

	if len(input.TaskIDs) != bingo.BoardCells {
		return CreatedEvent{}, fmt.Errorf("%w: expected %d task ids, got %d", ErrInvalidInput, bingo.BoardCells, len(input.TaskIDs))
	}
	start, end := input.StartAt.UTC(), input.EndAt.UTC()

	unique := make([]string, 0, len(input.TaskIDs))
	seen := make(map[string]struct{}, len(input.TaskIDs))
	for _, taskID := range input.TaskIDs {
		taskID = strings.TrimSpace(taskID)
		if taskID == "" {
			return CreatedEvent{}, fmt.Errorf("%w: task id is required for every cell", ErrInvalidInput)
		}
		if _, ok := seen[taskID]; ok {
			continue
		}
		seen[taskID] = struct{}{}
		unique = append(unique, taskID)
	}

	tasks, err := s.boardRepo.ListTasksByIDs(ctx, unique)
	if err != nil {
		return CreatedEvent{}, fmt.Errorf("list tasks by ids: %w", err)
	}
	byID := make(map[string]bingo.Task, len(tasks))
	for _, task := range tasks {
		byID[task.ID] = task
	}

	eventID, err := s.idGen.NewID("event")
	if err != nil {
		return CreatedEvent{}, fmt.Errorf("generate event id: %w", err)
	}
	boardID, err := s.idGen.NewID("board")
	if err != nil {
		return CreatedEvent{}, fmt.Errorf("generate board id: %w", err)
	}

	board := bingo.Board{ID: boardID, EventID: eventID, Cells: make([]bingo.Cell, 0, bingo.BoardCells)}
	for idx, taskID := range input.TaskIDs {
		task, ok := byID[strings.TrimSpace(taskID)]
		if !ok {
			return CreatedEvent{}, fmt.Errorf("%w: unknown task %s", ErrInvalidInput, taskID)
		}
		cell := bingo.CellIndex(idx)
		board.Cells = append(board.Cells, bingo.Cell{Row: cell.Row(), Col: cell.Col(), Task: task})
	}
	if err := board.Validate(); err != nil {
		return CreatedEvent{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	now := s.now().UTC()
	event := bingo.Event{
		ID:        eventID,
		State:     bingo.EventStateUpcoming,
		StartAt:   start,
		EndAt:     end,
		BoardID:   boardID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := event.Validate(); err != nil {
		return CreatedEvent{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	previous, err := s.previousRotation(ctx, start)
	if err != nil {
		return CreatedEvent{}, err
	}
	keys, err := s.selectRotation(previous)
	if err != nil {
		return CreatedEvent{}, fmt.Errorf("select pattern rotation: %w", err)
	}
	rotation := bingo.PatternRotation{EventID: eventID, PatternKeys: keys, CreatedAt: now}

	if err := s.eventRepo.Create(ctx, event, board, rotation); err != nil {
		recordSpanError(span, err)
		return CreatedEvent{}, fmt.Errorf("create event: %w", err)
	}

	s.logger.InfoContext(ctx, "bingo event created",
		"event_id", eventID,
		"board_id", boardID,
		"start_at", start,
		"rotation", keys,
	)
	return CreatedEvent{Event: event, Board: board, Rotation: rotation}, nil
}

// EnrollPlayer adds a participant. Joining an ongoing event captures the baseline right away.
func (s *EventService) EnrollPlayer(ctx context.Context, eventID, playerID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.EnrollPlayer", eventPlayerAttrs(eventID, playerID)...)
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	event, err := loadEvent(ctx, s.eventRepo, eventID)
	if err != nil {
		return err
	}
	if event.State == bingo.EventStateCompleted {
		return fmt.Errorf("%w: event=%s", ErrEventReadOnly, event.ID)
	}

	if err := s.eventRepo.AddParticipant(ctx, event.ID, playerID); err != nil {
		return fmt.Errorf("add participant: %w", err)
	}
	if event.State == bingo.EventStateOngoing {
		return s.captureBaselines(ctx, event, []string{playerID})
	}
	return nil
}

// StartEvent captures baselines for every participant and opens the event.
func (s *EventService) StartEvent(ctx context.Context, eventID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.StartEvent", eventPlayerAttrs(eventID, "")...)
	defer span.End()

	event, err := loadEvent(ctx, s.eventRepo, eventID)
	if err != nil {
		return err
	}
	switch event.State {
	case bingo.EventStateOngoing:
		return nil
	case bingo.EventStateCompleted:
		return fmt.Errorf("%w: event=%s", ErrEventReadOnly, event.ID)
	}

	participants, err := s.eventRepo.ListParticipants(ctx, event.ID)
	if err != nil {
		return fmt.Errorf("list participants: %w", err)
	}
	if err := s.captureBaselines(ctx, event, participants); err != nil {
		return err
	}
	if err := s.eventRepo.UpdateState(ctx, event.ID, bingo.EventStateOngoing, s.now().UTC()); err != nil {
		return fmt.Errorf("update event state: %w", err)
	}

	metrics.EventTransitionsCounter.WithLabelValues(string(bingo.EventStateOngoing)).Inc()
	s.logger.InfoContext(ctx, "bingo event started", "event_id", event.ID, "participants", len(participants))
	return nil
}

func (s *EventService) CompleteEvent(ctx context.Context, eventID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.CompleteEvent", eventPlayerAttrs(eventID, "")...)
	defer span.End()

	event, err := loadEvent(ctx, s.eventRepo, eventID)
	if err != nil {
		return err
	}
	if event.State == bingo.EventStateCompleted {
		return nil
	}
	if err := s.eventRepo.UpdateState(ctx, event.ID, bingo.EventStateCompleted, s.now().UTC()); err != nil {
		return fmt.Errorf("update event state: %w", err)
	}

	metrics.EventTransitionsCounter.WithLabelValues(string(bingo.EventStateCompleted)).Inc()
	s.logger.InfoContext(ctx, "bingo event completed", "event_id", event.ID)
	return nil
}

// RefreshStates moves events along their lifecycle by wall clock. A failing event is logged
// and left for the next run.
func (s *EventService) RefreshStates(ctx context.Context) (StateRefreshResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.RefreshStates")
	defer span.End()

	now := s.now().UTC()
	var result StateRefreshResult

	upcoming, err := s.eventRepo.ListByState(ctx, bingo.EventStateUpcoming)
	if err != nil {
		return result, fmt.Errorf("list upcoming events: %w", err)
	}
	for _, event := range upcoming {
		if event.StartAt.After(now) {
			continue
		}
		if err := s.StartEvent(ctx, event.ID); err != nil {
			result.Failed++
			s.logger.WarnContext(ctx, "start bingo event failed", "event_id", event.ID, "error", err)
			continue
		}
		result.Started = append(result.Started, event.ID)
	}

	ongoing, err := s.eventRepo.ListByState(ctx, bingo.EventStateOngoing)
	if err != nil {
		return result, fmt.Errorf("list ongoing events: %w", err)
	}
	for _, event := range ongoing {
		if event.EndAt.After(now) {
			continue
		}
		if err := s.CompleteEvent(ctx, event.ID); err != nil {
			result.Failed++
			s.logger.WarnContext(ctx, "complete bingo event failed", "event_id", event.ID, "error", err)
			continue
		}
		result.Completed = append(result.Completed, event.ID)
	}
	return result, nil
}

func (s *EventService) GetRotation(ctx context.Context, eventID string) (bingo.PatternRotation, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.GetRotation", eventPlayerAttrs(eventID, "")...)
	defer span.End()

	event, err := loadEvent(ctx, s.eventRepo, eventID)
	if err != nil {
		return bingo.PatternRotation{}, err
	}
	rotation, ok, err := s.patternRepo.GetRotation(ctx, event.ID)
	if err != nil {
		return bingo.PatternRotation{}, fmt.Errorf("get pattern rotation: %w", err)
	}
	if !ok {
		return bingo.PatternRotation{}, fmt.Errorf("%w: pattern rotation for event=%s", ErrNotFound, event.ID)
	}
	return rotation, nil
}

func (s *EventService) previousRotation(ctx context.Context, start time.Time) ([]string, error) {
	previous, ok, err := s.eventRepo.GetLatestBefore(ctx, start)
	if err != nil {
		return nil, fmt.Errorf("get previous event: %w", err)
	}
	if !ok {
		return nil, nil
	}
	rotation, ok, err := s.patternRepo.GetRotation(ctx, previous.ID)
	if err != nil {
		return nil, fmt.Errorf("get previous pattern rotation: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return rotation.PatternKeys, nil
}

func (s *EventService) selectRotation(previous []string) ([]string, error) {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()

	keys, err := pattern.SelectRotation(s.catalog, previous, s.rng)
	if err != nil {
		return nil, err
	}
	if err := pattern.ValidateRotation(s.catalog, keys); err != nil {
		return nil, err
	}
	return keys, nil
}

// captureBaselines stores the players' current values for every board metric. Existing
// baselines are kept, so re-running a start never moves them.
func (s *EventService) captureBaselines(ctx context.Context, event bingo.Event, playerIDs []string) error {
	if len(playerIDs) == 0 {
		return nil
	}
	board, err := loadBoard(ctx, s.boardRepo, event.ID)
	if err != nil {
		return err
	}

	now := s.now().UTC()
	baselines := make([]bingo.Baseline, 0, len(playerIDs)*bingo.BoardCells)
	for _, playerID := range playerIDs {
		current, err := s.stats.CurrentStats(ctx, playerID)
		if err != nil {
			return fmt.Errorf("%w: current stats for player=%s: %v", ErrDependencyUnavailable, playerID, err)
		}
		captured := make(map[string]struct{}, bingo.BoardCells)
		for _, task := range board.Tasks() {
			key := task.MetricKey()
			if _, ok := captured[key]; ok {
				continue
			}
			captured[key] = struct{}{}

			value, err := task.ReadStat(current)
			if err != nil {
				return fmt.Errorf("read stat for task=%s: %w", task.ID, err)
			}
			baselines = append(baselines, bingo.Baseline{
				EventID:    event.ID,
				PlayerID:   playerID,
				MetricKey:  key,
				Value:      value,
				CapturedAt: now,
			})
		}
	}

	if err := s.progressRepo.InsertBaselines(ctx, baselines); err != nil {
		return fmt.Errorf("insert baselines: %w", err)
	}
	return nil
}
