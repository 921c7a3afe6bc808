package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/riskibarqy/clan-bingo/internal/domain/bingo"
	"github.com/riskibarqy/clan-bingo/internal/domain/ledger"
	"github.com/riskibarqy/clan-bingo/internal/domain/pattern"
	"github.com/riskibarqy/clan-bingo/internal/platform/logging"
	"github.com/riskibarqy/clan-bingo/internal/platform/metrics"
)

type PatternService struct {
	eventRepo    bingo.EventRepository
	boardRepo    bingo.BoardRepository
	progressRepo bingo.ProgressRepository
	teamRepo     bingo.TeamRepository
	patternRepo  bingo.PatternRepository
	ledgerRepo   ledger.Repository
	catalog      pattern.Catalog
	logger       *logging.Logger
	now          func() time.Time
}

type PatternAwardResult struct {
	PatternKey   string
	Family       pattern.Family
	BaseBonus    int
	OverlapRatio float64
	Bonus        int
	AwardedBonus int
}

type PatternScanReport struct {
	EventID  string
	PlayerID string
	Checked  int
	Awarded  []PatternAwardResult
	Failed   int
}

// playerSnapshot is the read-only state one scan works from.
type playerSnapshot struct {
	board    bingo.Board
	rotation bingo.PatternRotation
	rows     []bingo.TaskProgress
	awards   []bingo.PatternAward
	team     bingo.Team
	inTeam   bool
}

func NewPatternService(
	eventRepo bingo.EventRepository,
	boardRepo bingo.BoardRepository,
	progressRepo bingo.ProgressRepository,
	teamRepo bingo.TeamRepository,
	patternRepo bingo.PatternRepository,
	ledgerRepo ledger.Repository,
	catalog pattern.Catalog,
	logger *logging.Logger,
) *PatternService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PatternService{
		eventRepo:    eventRepo,
		boardRepo:    boardRepo,
		progressRepo: progressRepo,
		teamRepo:     teamRepo,
		patternRepo:  patternRepo,
		ledgerRepo:   ledgerRepo,
		catalog:      catalog,
		logger:       logger,
		now:          time.Now,
	}
}

// ScanPlayer checks the event's active patterns against the player's completed cells and
// persists every new award. A failing pattern is logged and the scan moves on.
func (s *PatternService) ScanPlayer(ctx context.Context, eventID, playerID string) (PatternScanReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PatternService.ScanPlayer", eventPlayerAttrs(eventID, playerID)...)
	defer span.End()

	event, err := loadOngoingEvent(ctx, s.eventRepo, eventID)
	if err != nil {
		return PatternScanReport{}, err
	}
	snap, err := s.loadSnapshot(ctx, event, playerID)
	if err != nil {
		recordSpanError(span, err)
		return PatternScanReport{}, err
	}

	active := s.activePatterns(ctx, snap.rotation)
	teamSize := 1
	if snap.inTeam {
		teamSize = snap.team.Size()
	}

	report := PatternScanReport{EventID: eventID, PlayerID: playerID, Checked: len(active)}
	state := pattern.NewState(snap.awards)
	completed := snap.board.CompletedCells(snap.rows)

	pattern.Scan(&state, completed, active, teamSize, func(res pattern.Result) bool {
		award := bingo.PatternAward{
			BoardID:      snap.board.ID,
			EventID:      eventID,
			PlayerID:     playerID,
			PatternKey:   res.Pattern.Key,
			BaseBonus:    res.Bonus.Base,
			OverlapRatio: res.Bonus.OverlapRatio,
			Bonus:        res.Bonus.Value,
			AwardedBonus: res.AwardedBonus,
			Cells:        res.Pattern.Cells,
			AwardedAt:    s.now().UTC(),
		}
		inserted, err := s.persistAward(ctx, award)
		if err != nil {
			report.Failed++
			metrics.PatternAwardErrorCounter.WithLabelValues(res.Pattern.Key).Inc()
			s.logger.WarnContext(ctx, "award pattern failed",
				"event_id", eventID,
				"player_id", playerID,
				"pattern", res.Pattern.Key,
				"error", err,
			)
			return inserted
		}
		if inserted {
			report.Awarded = append(report.Awarded, PatternAwardResult{
				PatternKey:   res.Pattern.Key,
				Family:       res.Pattern.Family,
				BaseBonus:    res.Bonus.Base,
				OverlapRatio: res.Bonus.OverlapRatio,
				Bonus:        res.Bonus.Value,
				AwardedBonus: res.AwardedBonus,
			})
		}
		return true
	})

	return report, nil
}

// persistAward reports whether this call created the award row. The insert is the idempotency
// gate: a conflicting row means another pass already credited it.
func (s *PatternService) persistAward(ctx context.Context, award bingo.PatternAward) (bool, error) {
	inserted, err := s.patternRepo.InsertAwardIfAbsent(ctx, award)
	if err != nil {
		return false, fmt.Errorf("insert pattern award: %w", err)
	}
	if !inserted {
		return false, nil
	}

	if award.AwardedBonus > 0 {
		if err := s.ledgerRepo.AddPoints(ctx, award.PlayerID, ledger.CategoryBingoPatterns, award.AwardedBonus); err != nil {
			return true, fmt.Errorf("add pattern bonus to ledger: %w", err)
		}
		if err := s.ledgerRepo.AddEventLeaderboard(ctx, award.EventID, award.PlayerID, 0, award.AwardedBonus); err != nil {
			return true, fmt.Errorf("add pattern bonus to event leaderboard: %w", err)
		}
	}

	family := ""
	if def, ok := s.catalog.Lookup(award.PatternKey); ok {
		family = string(def.Family)
	}
	metrics.PatternAwardsCounter.WithLabelValues(family).Inc()
	metrics.PatternBonusCounter.Add(float64(award.AwardedBonus))
	s.logger.InfoContext(ctx, "pattern awarded",
		"event_id", award.EventID,
		"player_id", award.PlayerID,
		"pattern", award.PatternKey,
		"bonus", award.Bonus,
		"awarded_bonus", award.AwardedBonus,
		"cells", award.Cells.String(),
	)
	return true, nil
}

func (s *PatternService) loadSnapshot(ctx context.Context, event bingo.Event, playerID string) (playerSnapshot, error) {
	var snap playerSnapshot
	var boardFound, rotationFound bool

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		board, ok, err := s.boardRepo.GetByEvent(ctx, event.ID)
		if err != nil {
			return fmt.Errorf("get board by event: %w", err)
		}
		snap.board, boardFound = board, ok
		return nil
	})
	p.Go(func(ctx context.Context) error {
		rotation, ok, err := s.patternRepo.GetRotation(ctx, event.ID)
		if err != nil {
			return fmt.Errorf("get pattern rotation: %w", err)
		}
		snap.rotation, rotationFound = rotation, ok
		return nil
	})
	p.Go(func(ctx context.Context) error {
		rows, err := s.progressRepo.ListTaskProgressByPlayer(ctx, event.ID, playerID)
		if err != nil {
			return fmt.Errorf("list task progress by player: %w", err)
		}
		snap.rows = rows
		return nil
	})
	p.Go(func(ctx context.Context) error {
		awards, err := s.patternRepo.ListAwards(ctx, event.BoardID, event.ID, playerID)
		if err != nil {
			return fmt.Errorf("list pattern awards: %w", err)
		}
		snap.awards = awards
		return nil
	})
	p.Go(func(ctx context.Context) error {
		team, ok, err := s.teamRepo.GetByPlayer(ctx, event.ID, playerID)
		if err != nil {
			return fmt.Errorf("get team by player: %w", err)
		}
		snap.team, snap.inTeam = team, ok
		return nil
	})
	if err := p.Wait(); err != nil {
		return playerSnapshot{}, err
	}

	if !boardFound {
		return playerSnapshot{}, fmt.Errorf("%w: board for event=%s", ErrNotFound, event.ID)
	}
	if !rotationFound {
		return playerSnapshot{}, fmt.Errorf("%w: pattern rotation for event=%s", ErrNotFound, event.ID)
	}
	return snap, nil
}

func (s *PatternService) activePatterns(ctx context.Context, rotation bingo.PatternRotation) []pattern.Definition {
	out := make([]pattern.Definition, 0, len(rotation.PatternKeys))
	for _, key := range rotation.PatternKeys {
		def, ok := s.catalog.Lookup(key)
		if !ok {
			s.logger.WarnContext(ctx, "rotation references unknown pattern", "event_id", rotation.EventID, "pattern", key)
			continue
		}
		out = append(out, def)
	}
	return out
}
