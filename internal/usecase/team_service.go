package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/riskibarqy/clan-bingo/internal/domain/bingo"
	"github.com/riskibarqy/clan-bingo/internal/platform/id"
	"github.com/riskibarqy/clan-bingo/internal/platform/logging"
)

type TeamService struct {
	eventRepo bingo.EventRepository
	teamRepo  bingo.TeamRepository
	idGen     id.Generator
	logger    *logging.Logger
	now       func() time.Time
}

type UpsertTeamInput struct {
	EventID string
	// TeamID is generated when empty.
	TeamID    string
	Name      string
	PlayerIDs []string
}

func NewTeamService(eventRepo bingo.EventRepository, teamRepo bingo.TeamRepository, idGen id.Generator, logger *logging.Logger) *TeamService {
	if logger == nil {
		logger = logging.Default()
	}
	return &TeamService{
		eventRepo: eventRepo,
		teamRepo:  teamRepo,
		idGen:     idGen,
		logger:    logger,
		now:       time.Now,
	}
}

// UpsertTeam registers or reshapes a team. Members must be enrolled in the event and may
// belong to one team per event. Members already on the team keep their join time.
func (s *TeamService) UpsertTeam(ctx context.Context, input UpsertTeamInput) (bingo.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.UpsertTeam", eventPlayerAttrs(input.EventID, "")...)
	defer span.End()

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return bingo.Team{}, fmt.Errorf("%w: team name is required", ErrInvalidInput)
	}
	players, err := normalizePlayerIDs(input.PlayerIDs)
	if err != nil {
		return bingo.Team{}, err
	}

	event, err := loadEvent(ctx, s.eventRepo, input.EventID)
	if err != nil {
		return bingo.Team{}, err
	}
	if event.State == bingo.EventStateCompleted {
		return bingo.Team{}, fmt.Errorf("%w: event=%s", ErrEventReadOnly, event.ID)
	}

	teamID := strings.TrimSpace(input.TeamID)
	joinedAt := make(map[string]time.Time)
	if teamID == "" {
		teamID, err = s.idGen.NewID("team")
		if err != nil {
			return bingo.Team{}, fmt.Errorf("generate team id: %w", err)
		}
	} else {
		existing, ok, err := s.teamRepo.GetByID(ctx, teamID)
		if err != nil {
			return bingo.Team{}, fmt.Errorf("get team: %w", err)
		}
		if ok && existing.EventID != event.ID {
			return bingo.Team{}, fmt.Errorf("%w: team=%s belongs to event=%s", ErrInvalidInput, teamID, existing.EventID)
		}
		for _, member := range existing.Members {
			joinedAt[member.PlayerID] = member.JoinedAt
		}
	}

	participants, err := s.eventRepo.ListParticipants(ctx, event.ID)
	if err != nil {
		return bingo.Team{}, fmt.Errorf("list participants: %w", err)
	}

	now := s.now().UTC()
	team := bingo.Team{ID: teamID, EventID: event.ID, Name: name}
	for _, playerID := range players {
		if !slices.Contains(participants, playerID) {
			return bingo.Team{}, fmt.Errorf("%w: player=%s is not enrolled in event=%s", ErrInvalidInput, playerID, event.ID)
		}
		current, inTeam, err := s.teamRepo.GetByPlayer(ctx, event.ID, playerID)
		if err != nil {
			return bingo.Team{}, fmt.Errorf("get team by player: %w", err)
		}
		if inTeam && current.ID != teamID {
			return bingo.Team{}, fmt.Errorf("%w: player=%s already plays for team=%s", ErrInvalidInput, playerID, current.ID)
		}

		joined, ok := joinedAt[playerID]
		if !ok {
			joined = now
		}
		team.Members = append(team.Members, bingo.TeamMember{PlayerID: playerID, JoinedAt: joined})
	}

	if err := s.teamRepo.Upsert(ctx, team); err != nil {
		recordSpanError(span, err)
		return bingo.Team{}, fmt.Errorf("upsert team: %w", err)
	}

	s.logger.InfoContext(ctx, "bingo team saved", "event_id", event.ID, "team_id", team.ID, "members", team.Size())
	return team, nil
}

func (s *TeamService) GetTeam(ctx context.Context, eventID, teamID string) (bingo.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.GetTeam", eventPlayerAttrs(eventID, "")...)
	defer span.End()

	team, ok, err := s.teamRepo.GetByID(ctx, strings.TrimSpace(teamID))
	if err != nil {
		return bingo.Team{}, fmt.Errorf("get team: %w", err)
	}
	if !ok || team.EventID != eventID {
		return bingo.Team{}, fmt.Errorf("%w: team=%s event=%s", ErrNotFound, teamID, eventID)
	}
	return team, nil
}

func normalizePlayerIDs(in []string) ([]string, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: team needs at least one player", ErrInvalidInput)
	}
	out := make([]string, 0, len(in))
	for _, playerID := range in {
		playerID = strings.TrimSpace(playerID)
		if playerID == "" {
			return nil, fmt.Errorf("%w: player id is required", ErrInvalidInput)
		}
		if slices.Contains(out, playerID) {
			return nil, fmt.Errorf("%w: duplicate player=%s", ErrInvalidInput, playerID)
		}
		out = append(out, playerID)
	}
	return out, nil
}
