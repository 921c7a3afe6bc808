package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/riskibarqy/clan-bingo/internal/domain/bingo"
	"github.com/riskibarqy/clan-bingo/internal/domain/contribution"
	"github.com/riskibarqy/clan-bingo/internal/domain/ledger"
	"github.com/riskibarqy/clan-bingo/internal/platform/logging"
	"github.com/riskibarqy/clan-bingo/internal/platform/metrics"
)

const weeklyMetricBonus = 50

type ContributionService struct {
	eventRepo    bingo.EventRepository
	boardRepo    bingo.BoardRepository
	progressRepo bingo.ProgressRepository
	teamRepo     bingo.TeamRepository
	stats        bingo.StatSource
	weekly       bingo.WeeklyCompetitionSource
	ledgerRepo   ledger.Repository
	logger       *logging.Logger
	now          func() time.Time
}

type TaskPartial struct {
	TaskID        string
	Target        int64
	Progress      int64
	Status        bingo.ProgressStatus
	BasePoints    int
	Partial       float64
	PointsAwarded *int
}

type IndividualPartialReport struct {
	EventID          string
	PlayerID         string
	Tasks            []TaskPartial
	TotalPartial     float64
	TotalPoints      int
	TotalBoardPoints int
	Percentage       float64
	// AwardedNow is what this call credited to the ledger.
	AwardedNow       int
}

type MemberShare struct {
	PlayerID     string
	Contribution int64
	Credited     int64
	Percent      float64
}

type TeamTaskPartial struct {
	TaskID        string
	Target        int64
	FinalProgress int64
	Status        bingo.ProgressStatus
	BasePoints    int
	Partial       float64
	Percent       float64
	Members       []MemberShare
}

type TeamPartialReport struct {
	EventID          string
	TeamID           string
	Tasks            []TeamTaskPartial
	TotalPartial     float64
	TotalBoardPoints int
	Percentage       float64
}

func NewContributionService(
	eventRepo bingo.EventRepository,
	boardRepo bingo.BoardRepository,
	progressRepo bingo.ProgressRepository,
	teamRepo bingo.TeamRepository,
	stats bingo.StatSource,
	weekly bingo.WeeklyCompetitionSource,
	ledgerRepo ledger.Repository,
	logger *logging.Logger,
) *ContributionService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ContributionService{
		eventRepo:    eventRepo,
		boardRepo:    boardRepo,
		progressRepo: progressRepo,
		teamRepo:     teamRepo,
		stats:        stats,
		weekly:       weekly,
		ledgerRepo:   ledgerRepo,
		logger:       logger,
		now:          time.Now,
	}
}

// SyncPlayerProgress writes the event-scoped progress of a solo player for every board task.
func (s *ContributionService) SyncPlayerProgress(ctx context.Context, eventID, playerID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContributionService.SyncPlayerProgress", eventPlayerAttrs(eventID, playerID)...)
	defer span.End()

	if _, err := loadOngoingEvent(ctx, s.eventRepo, eventID); err != nil {
		return err
	}
	board, err := loadBoard(ctx, s.boardRepo, eventID)
	if err != nil {
		return err
	}

	contributions, err := s.playerContributions(ctx, eventID, playerID, board.Tasks())
	if err != nil {
		recordSpanError(span, err)
		return err
	}

	now := s.now().UTC()
	for _, task := range board.Tasks() {
		progress := contribution.CapProgress(contributions[task.ID], task.Target)
		row := bingo.TaskProgress{
			EventID:   eventID,
			PlayerID:  playerID,
			TaskID:    task.ID,
			Progress:  progress,
			Status:    contribution.StatusFor(progress, task.Target),
			UpdatedAt: now,
		}
		if err := s.progressRepo.UpsertTaskProgress(ctx, row); err != nil {
			return fmt.Errorf("upsert task progress event=%s player=%s task=%s: %w", eventID, playerID, task.ID, err)
		}
	}
	return nil
}

// SyncTeamProgress writes one row per member and task. A member row holds the member's own
// contribution while its status follows the capped team total.
func (s *ContributionService) SyncTeamProgress(ctx context.Context, eventID, teamID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContributionService.SyncTeamProgress", eventPlayerAttrs(eventID, "")...)
	defer span.End()

	if _, err := loadOngoingEvent(ctx, s.eventRepo, eventID); err != nil {
		return err
	}
	team, err := s.loadTeam(ctx, teamID)
	if err != nil {
		return err
	}
	board, err := loadBoard(ctx, s.boardRepo, eventID)
	if err != nil {
		return err
	}
	tasks := board.Tasks()

	byMember := make(map[string]map[string]int64, team.Size())
	for _, playerID := range team.PlayerIDs() {
		contributions, err := s.playerContributions(ctx, eventID, playerID, tasks)
		if err != nil {
			recordSpanError(span, err)
			return err
		}
		byMember[playerID] = contributions
	}

	now := s.now().UTC()
	teamRef := team.ID
	for _, task := range tasks {
		members := make([]contribution.MemberContribution, 0, team.Size())
		for _, playerID := range team.PlayerIDs() {
			members = append(members, contribution.MemberContribution{
				PlayerID:     playerID,
				Contribution: byMember[playerID][task.ID],
			})
		}
		teamStatus := contribution.StatusFor(contribution.FinalTeamProgress(members, task.Target), task.Target)

		for _, member := range members {
			row := bingo.TaskProgress{
				EventID:   eventID,
				PlayerID:  member.PlayerID,
				TaskID:    task.ID,
				TeamID:    &teamRef,
				Progress:  contribution.CapProgress(member.Contribution, task.Target),
				Status:    teamStatus,
				UpdatedAt: now,
			}
			if err := s.progressRepo.UpsertTaskProgress(ctx, row); err != nil {
				return fmt.Errorf("upsert team task progress team=%s player=%s task=%s: %w", team.ID, member.PlayerID, task.ID, err)
			}
		}
	}
	return nil
}

// ComputeIndividualPartialPoints totals the player's partial credit over the board. While the
// event is ongoing it also settles task points for every completed, unclaimed row.
func (s *ContributionService) ComputeIndividualPartialPoints(ctx context.Context, eventID, playerID string, roundPerTask bool) (IndividualPartialReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContributionService.ComputeIndividualPartialPoints", eventPlayerAttrs(eventID, playerID)...)
	defer span.End()

	event, err := loadEvent(ctx, s.eventRepo, eventID)
	if err != nil {
		return IndividualPartialReport{}, err
	}
	board, err := loadBoard(ctx, s.boardRepo, eventID)
	if err != nil {
		return IndividualPartialReport{}, err
	}
	rows, err := s.progressRepo.ListTaskProgressByPlayer(ctx, eventID, playerID)
	if err != nil {
		return IndividualPartialReport{}, fmt.Errorf("list task progress by player: %w", err)
	}
	byTask := make(map[string]bingo.TaskProgress, len(rows))
	for _, row := range rows {
		byTask[row.TaskID] = row
	}

	report := IndividualPartialReport{
		EventID:          eventID,
		PlayerID:         playerID,
		TotalBoardPoints: board.TotalBasePoints(),
	}
	for _, task := range board.Tasks() {
		row, ok := byTask[task.ID]
		if !ok {
			row = bingo.TaskProgress{Status: bingo.StatusIncomplete}
		}
		progress := contribution.CapProgress(row.Progress, task.Target)
		partial := contribution.ComputePartialPoints(progress, task.Target, task.BasePoints, roundPerTask)
		report.TotalPartial += partial

		if event.State == bingo.EventStateOngoing && row.Completed() && row.PointsAwarded == nil {
			awarded, err := s.SaveTaskPointsAwarded(ctx, eventID, playerID, task.ID)
			if err != nil {
				metrics.TaskAwardErrorCounter.Inc()
				s.logger.WarnContext(ctx, "save task points awarded failed",
					"event_id", eventID,
					"player_id", playerID,
					"task_id", task.ID,
					"error", err,
				)
			} else {
				row.PointsAwarded = &awarded
				report.AwardedNow += awarded
			}
		}

		report.Tasks = append(report.Tasks, TaskPartial{
			TaskID:        task.ID,
			Target:        task.Target,
			Progress:      progress,
			Status:        bingo.MaxStatus(row.Status, bingo.StatusIncomplete),
			BasePoints:    task.BasePoints,
			Partial:       partial,
			PointsAwarded: row.PointsAwarded,
		})
	}

	report.TotalPoints = int(math.Round(report.TotalPartial))
	report.Percentage = contribution.ComputeOverallPercentage(report.TotalPartial, float64(report.TotalBoardPoints))
	return report, nil
}

// ComputeTeamPartialPoints reports team completion from the capped team total and the
// contribution-size split each member is shown.
func (s *ContributionService) ComputeTeamPartialPoints(ctx context.Context, eventID, teamID string) (TeamPartialReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContributionService.ComputeTeamPartialPoints", eventPlayerAttrs(eventID, "")...)
	defer span.End()

	if _, err := loadEvent(ctx, s.eventRepo, eventID); err != nil {
		return TeamPartialReport{}, err
	}
	team, err := s.loadTeam(ctx, teamID)
	if err != nil {
		return TeamPartialReport{}, err
	}
	board, err := loadBoard(ctx, s.boardRepo, eventID)
	if err != nil {
		return TeamPartialReport{}, err
	}

	report := TeamPartialReport{
		EventID:          eventID,
		TeamID:           team.ID,
		TotalBoardPoints: board.TotalBasePoints(),
	}
	for _, task := range board.Tasks() {
		rows, err := s.progressRepo.ListTaskProgressByTask(ctx, eventID, task.ID, team.PlayerIDs())
		if err != nil {
			return TeamPartialReport{}, fmt.Errorf("list task progress for team=%s task=%s: %w", team.ID, task.ID, err)
		}
		members := memberContributions(team, rows)

		final := contribution.FinalTeamProgress(members, task.Target)
		partial := contribution.ComputePartialPoints(final, task.Target, task.BasePoints, false)
		item := TeamTaskPartial{
			TaskID:        task.ID,
			Target:        task.Target,
			FinalProgress: final,
			Status:        contribution.StatusFor(final, task.Target),
			BasePoints:    task.BasePoints,
			Partial:       partial,
			Percent:       contribution.Percent(final, task.Target),
		}
		for _, share := range contribution.SplitCappedContributions(members, task.Target) {
			item.Members = append(item.Members, MemberShare{
				PlayerID:     share.PlayerID,
				Contribution: share.Contribution,
				Credited:     share.Credited,
				Percent:      contribution.Percent(share.Credited, task.Target),
			})
		}
		report.TotalPartial += partial
		report.Tasks = append(report.Tasks, item)
	}

	report.Percentage = contribution.ComputeOverallPercentage(report.TotalPartial, float64(report.TotalBoardPoints))
	return report, nil
}

// SaveTaskPointsAwarded credits a completed task once. It returns the points recorded on the
// row by this call, or 0 when nothing was claimed.
func (s *ContributionService) SaveTaskPointsAwarded(ctx context.Context, eventID, playerID, taskID string) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContributionService.SaveTaskPointsAwarded", eventPlayerAttrs(eventID, playerID)...)
	defer span.End()

	row, ok, err := s.progressRepo.GetTaskProgress(ctx, eventID, playerID, taskID)
	if err != nil {
		return 0, fmt.Errorf("get task progress: %w", err)
	}
	if !ok || !row.Completed() || row.PointsAwarded != nil {
		return 0, nil
	}

	board, err := loadBoard(ctx, s.boardRepo, eventID)
	if err != nil {
		return 0, err
	}
	var task bingo.Task
	found := false
	for _, candidate := range board.Tasks() {
		if candidate.ID == taskID {
			task, found = candidate, true
			break
		}
	}
	if !found {
		return 0, fmt.Errorf("%w: task=%s is not on board of event=%s", ErrNotFound, taskID, eventID)
	}

	points := task.BasePoints
	if row.TeamID != nil {
		points, err = s.teamTaskPoints(ctx, eventID, playerID, *row.TeamID, task)
		if err != nil {
			return 0, err
		}
	}
	if points > 0 {
		bonus, err := s.weeklyBonus(ctx, task)
		if err != nil {
			s.logger.WarnContext(ctx, "weekly competition lookup failed, skipping bonus",
				"event_id", eventID,
				"task_id", taskID,
				"error", err,
			)
		}
		points += bonus
	}

	claimed, err := s.progressRepo.ClaimTaskPoints(ctx, eventID, playerID, taskID, points)
	if err != nil {
		return 0, fmt.Errorf("claim task points: %w", err)
	}
	if !claimed || points <= 0 {
		return 0, nil
	}

	if err := s.ledgerRepo.AddPoints(ctx, playerID, ledger.CategoryBingoTasks, points); err != nil {
		return points, fmt.Errorf("add task points to ledger: %w", err)
	}
	if err := s.ledgerRepo.AddEventLeaderboard(ctx, eventID, playerID, points, 0); err != nil {
		return points, fmt.Errorf("add task points to event leaderboard: %w", err)
	}
	metrics.TaskPointsAwardedCounter.Add(float64(points))
	s.logger.InfoContext(ctx, "task points awarded",
		"event_id", eventID,
		"player_id", playerID,
		"task_id", taskID,
		"points", points,
	)
	return points, nil
}

// teamTaskPoints credits a member by the earliest-first allocation over the team's rows.
func (s *ContributionService) teamTaskPoints(ctx context.Context, eventID, playerID, teamID string, task bingo.Task) (int, error) {
	team, err := s.loadTeam(ctx, teamID)
	if err != nil {
		return 0, err
	}
	rows, err := s.progressRepo.ListTaskProgressByTask(ctx, eventID, task.ID, team.PlayerIDs())
	if err != nil {
		return 0, fmt.Errorf("list team task progress: %w", err)
	}

	effective, _ := contribution.CreditedFor(
		contribution.CalculateTeamEffectiveProgress(memberContributions(team, rows), task.Target),
		playerID,
	)
	return int(contribution.ComputePartialPoints(effective, task.Target, task.BasePoints, true)), nil
}

func (s *ContributionService) weeklyBonus(ctx context.Context, task bingo.Task) (int, error) {
	if s.weekly == nil {
		return 0, nil
	}
	active, err := s.weekly.ActiveMetrics(ctx, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("list active weekly metrics: %w", err)
	}
	parameter := bingo.NormalizeParameter(task.Parameter)
	for _, metric := range active {
		if strings.EqualFold(strings.TrimSpace(metric), parameter) {
			return weeklyMetricBonus, nil
		}
	}
	return 0, nil
}

// playerContributions returns max(0, current - baseline) per task id.
func (s *ContributionService) playerContributions(ctx context.Context, eventID, playerID string, tasks []bingo.Task) (map[string]int64, error) {
	current, err := s.stats.CurrentStats(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("%w: current stats for player=%s: %v", ErrDependencyUnavailable, playerID, err)
	}
	baselines, err := s.progressRepo.ListBaselines(ctx, eventID, playerID)
	if err != nil {
		return nil, fmt.Errorf("list baselines for player=%s: %w", playerID, err)
	}

	out := make(map[string]int64, len(tasks))
	for _, task := range tasks {
		value, err := task.ReadStat(current)
		if err != nil {
			return nil, fmt.Errorf("read stat for task=%s: %w", task.ID, err)
		}
		out[task.ID] = contribution.EventProgress(value, baselines[task.MetricKey()])
	}
	return out, nil
}

func (s *ContributionService) loadTeam(ctx context.Context, teamID string) (bingo.Team, error) {
	team, ok, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return bingo.Team{}, fmt.Errorf("get team: %w", err)
	}
	if !ok {
		return bingo.Team{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}
	return team, nil
}

func memberContributions(team bingo.Team, rows []bingo.TaskProgress) []contribution.MemberContribution {
	members := make(map[string]struct{}, team.Size())
	for _, playerID := range team.PlayerIDs() {
		members[playerID] = struct{}{}
	}

	out := make([]contribution.MemberContribution, 0, len(rows))
	for _, row := range rows {
		if _, ok := members[row.PlayerID]; !ok {
			continue
		}
		out = append(out, contribution.MemberContribution{
			PlayerID:     row.PlayerID,
			Contribution: row.Progress,
			UpdatedAt:    row.UpdatedAt,
		})
	}
	return out
}
