package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"golang.org/x/sync/singleflight"

	"github.com/riskibarqy/clan-bingo/internal/domain/bingo"
	"github.com/riskibarqy/clan-bingo/internal/platform/logging"
	"github.com/riskibarqy/clan-bingo/internal/platform/metrics"
)

const defaultEvaluationWorkers = 1

type EvaluationService struct {
	eventRepo    bingo.EventRepository
	teamRepo     bingo.TeamRepository
	events       *EventService
	contribution *ContributionService
	patterns     *PatternService
	workers      int
	logger       *logging.Logger
	now          func() time.Time
	flight       singleflight.Group
}

type PlayerEvaluation struct {
	EventID  string
	PlayerID string
	TeamID   string
	Progress IndividualPartialReport
	Patterns PatternScanReport
}

type EvaluationPassResult struct {
	States          StateRefreshResult
	EventCount      int
	PlayerCount     int
	SuccessCount    int
	FailedCount     int
	TaskPoints      int
	PatternsAwarded int
	DurationMs      int64
	SkippedOverlap  bool
}

func NewEvaluationService(
	eventRepo bingo.EventRepository,
	teamRepo bingo.TeamRepository,
	events *EventService,
	contributionSvc *ContributionService,
	patterns *PatternService,
	workers int,
	logger *logging.Logger,
) *EvaluationService {
	if logger == nil {
		logger = logging.Default()
	}
	if workers <= 0 {
		workers = defaultEvaluationWorkers
	}
	return &EvaluationService{
		eventRepo:    eventRepo,
		teamRepo:     teamRepo,
		events:       events,
		contribution: contributionSvc,
		patterns:     patterns,
		workers:      workers,
		logger:       logger,
		now:          time.Now,
	}
}

// EvaluatePlayer is the on-demand path: sync the player's (or their team's) progress, settle
// task points and scan patterns.
func (s *EvaluationService) EvaluatePlayer(ctx context.Context, eventID, playerID string) (PlayerEvaluation, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EvaluationService.EvaluatePlayer", eventPlayerAttrs(eventID, playerID)...)
	defer span.End()

	event, err := loadOngoingEvent(ctx, s.eventRepo, eventID)
	if err != nil {
		return PlayerEvaluation{}, err
	}

	key := "evaluate:" + event.ID + ":" + playerID
	value, err, _ := s.flight.Do(key, func() (any, error) {
		team, inTeam, err := s.teamRepo.GetByPlayer(ctx, event.ID, playerID)
		if err != nil {
			return nil, fmt.Errorf("get team by player: %w", err)
		}
		if inTeam {
			err = s.contribution.SyncTeamProgress(ctx, event.ID, team.ID)
		} else {
			err = s.contribution.SyncPlayerProgress(ctx, event.ID, playerID)
		}
		if err != nil {
			return nil, err
		}

		out, err := s.settlePlayer(ctx, event.ID, playerID)
		if err != nil {
			return nil, err
		}
		if inTeam {
			out.TeamID = team.ID
		}
		return out, nil
	})
	if err != nil {
		recordSpanError(span, err)
		return PlayerEvaluation{}, err
	}
	return value.(PlayerEvaluation), nil
}

// RunPass is the scheduled path over every ongoing event. Overlapping calls share one run.
func (s *EvaluationService) RunPass(ctx context.Context) (EvaluationPassResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EvaluationService.RunPass")
	defer span.End()

	value, err, shared := s.flight.Do("evaluate:pass", func() (any, error) {
		return s.runPassOnce(ctx)
	})
	if err != nil {
		recordSpanError(span, err)
		return EvaluationPassResult{}, err
	}
	result := value.(EvaluationPassResult)
	result.SkippedOverlap = shared
	return result, nil
}

func (s *EvaluationService) runPassOnce(ctx context.Context) (EvaluationPassResult, error) {
	start := s.now()
	defer func() {
		metrics.EvaluationPassDuration.Observe(time.Since(start).Seconds())
	}()

	var result EvaluationPassResult
	states, err := s.events.RefreshStates(ctx)
	if err != nil {
		return result, fmt.Errorf("refresh event states: %w", err)
	}
	result.States = states

	ongoing, err := s.eventRepo.ListByState(ctx, bingo.EventStateOngoing)
	if err != nil {
		return result, fmt.Errorf("list ongoing events: %w", err)
	}
	result.EventCount = len(ongoing)
	metrics.OngoingEventsGauge.Set(float64(len(ongoing)))

	for _, event := range ongoing {
		eventCtx := logging.ContextWith(ctx, "event_id", event.ID)
		players, err := s.syncEvent(eventCtx, event.ID)
		if err != nil {
			result.FailedCount++
			s.logger.WarnContext(eventCtx, "sync event progress failed", "error", err)
			continue
		}
		result.PlayerCount += len(players)

		settled, err := s.settlePlayers(eventCtx, event.ID, players)
		if err != nil {
			return result, err
		}
		result.SuccessCount += settled.SuccessCount
		result.FailedCount += settled.FailedCount
		result.TaskPoints += settled.TaskPoints
		result.PatternsAwarded += settled.PatternsAwarded
	}

	result.DurationMs = time.Since(start).Milliseconds()
	s.logger.InfoContext(ctx, "bingo evaluation pass finished",
		"events", result.EventCount,
		"players", result.PlayerCount,
		"failed", result.FailedCount,
		"task_points", result.TaskPoints,
		"patterns_awarded", result.PatternsAwarded,
		"duration_ms", result.DurationMs,
	)
	return result, nil
}

// syncEvent refreshes progress once per team and once per solo participant. It returns the
// participants whose progress is current.
func (s *EvaluationService) syncEvent(ctx context.Context, eventID string) ([]string, error) {
	participants, err := s.eventRepo.ListParticipants(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	teams, err := s.teamRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	skipped := make(map[string]struct{})
	inTeam := make(map[string]struct{})
	for _, team := range teams {
		for _, playerID := range team.PlayerIDs() {
			inTeam[playerID] = struct{}{}
		}
		if err := s.contribution.SyncTeamProgress(ctx, eventID, team.ID); err != nil {
			s.logger.WarnContext(ctx, "sync team progress failed", "team_id", team.ID, "error", err)
			for _, playerID := range team.PlayerIDs() {
				skipped[playerID] = struct{}{}
			}
		}
	}

	ready := make([]string, 0, len(participants))
	for _, playerID := range participants {
		if _, ok := skipped[playerID]; ok {
			continue
		}
		if _, ok := inTeam[playerID]; !ok {
			if err := s.contribution.SyncPlayerProgress(ctx, eventID, playerID); err != nil {
				s.logger.WarnContext(ctx, "sync player progress failed", "player_id", playerID, "error", err)
				continue
			}
		}
		ready = append(ready, playerID)
	}
	return ready, nil
}

func (s *EvaluationService) settlePlayers(ctx context.Context, eventID string, players []string) (EvaluationPassResult, error) {
	var result EvaluationPassResult
	if len(players) == 0 {
		return result, nil
	}

	pool, err := ants.NewPool(min(s.workers, len(players)))
	if err != nil {
		return result, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		successCount    atomic.Int32
		failedCount     atomic.Int32
		taskPoints      atomic.Int64
		patternsAwarded atomic.Int32
		workers         sync.WaitGroup
	)
	for _, playerID := range players {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			out, err := s.settlePlayer(ctx, eventID, playerID)
			if err != nil {
				failedCount.Add(1)
				s.logger.WarnContext(ctx, "settle player failed", "player_id", playerID, "error", err)
				return
			}
			successCount.Add(1)
			patternsAwarded.Add(int32(len(out.Patterns.Awarded)))
			taskPoints.Add(int64(out.Progress.AwardedNow))
		}); err != nil {
			workers.Done()
			workers.Wait()
			return result, fmt.Errorf("submit player evaluation to worker pool: %w", err)
		}
	}
	workers.Wait()

	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())
	result.TaskPoints = int(taskPoints.Load())
	result.PatternsAwarded = int(patternsAwarded.Load())
	return result, nil
}

func (s *EvaluationService) settlePlayer(ctx context.Context, eventID, playerID string) (PlayerEvaluation, error) {
	start := time.Now()
	out := PlayerEvaluation{EventID: eventID, PlayerID: playerID}

	progress, err := s.contribution.ComputeIndividualPartialPoints(ctx, eventID, playerID, true)
	if err != nil {
		metrics.PlayersEvaluatedCounter.WithLabelValues("failed").Inc()
		return out, fmt.Errorf("compute partial points: %w", err)
	}
	out.Progress = progress

	patterns, err := s.patterns.ScanPlayer(ctx, eventID, playerID)
	if err != nil {
		metrics.PlayersEvaluatedCounter.WithLabelValues("failed").Inc()
		return out, fmt.Errorf("scan patterns: %w", err)
	}
	out.Patterns = patterns

	metrics.PlayersEvaluatedCounter.WithLabelValues("success").Inc()
	metrics.PlayerEvaluationDuration.Observe(time.Since(start).Seconds())
	return out, nil
}
