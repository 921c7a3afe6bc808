package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/riskibarqy/clan-bingo/internal/domain/bingo"
	"github.com/riskibarqy/clan-bingo/internal/domain/ledger"
)

type LeaderboardService struct {
	eventRepo  bingo.EventRepository
	ledgerRepo ledger.Repository
}

type LeaderboardRow struct {
	Rank int
	ledger.LeaderboardEntry
}

func NewLeaderboardService(eventRepo bingo.EventRepository, ledgerRepo ledger.Repository) *LeaderboardService {
	return &LeaderboardService{eventRepo: eventRepo, ledgerRepo: ledgerRepo}
}

// EventLeaderboard ranks players by total event points. Equal totals share a rank.
func (s *LeaderboardService) EventLeaderboard(ctx context.Context, eventID string) ([]LeaderboardRow, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.EventLeaderboard", eventPlayerAttrs(eventID, "")...)
	defer span.End()

	event, err := loadEvent(ctx, s.eventRepo, eventID)
	if err != nil {
		return nil, err
	}
	entries, err := s.ledgerRepo.ListEventLeaderboard(ctx, event.ID)
	if err != nil {
		recordSpanError(span, err)
		return nil, fmt.Errorf("list event leaderboard: %w", err)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Total() != entries[j].Total() {
			return entries[i].Total() > entries[j].Total()
		}
		return entries[i].PlayerID < entries[j].PlayerID
	})

	out := make([]LeaderboardRow, 0, len(entries))
	for i, entry := range entries {
		rank := i + 1
		if i > 0 && entry.Total() == entries[i-1].Total() {
			rank = out[i-1].Rank
		}
		out = append(out, LeaderboardRow{Rank: rank, LeaderboardEntry: entry})
	}
	return out, nil
}

func (s *LeaderboardService) PlayerBalances(ctx context.Context, playerID string) ([]ledger.Balance, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.PlayerBalances", eventPlayerAttrs("", playerID)...)
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return nil, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	balances, err := s.ledgerRepo.ListBalances(ctx, playerID)
	if err != nil {
		recordSpanError(span, err)
		return nil, fmt.Errorf("list balances: %w", err)
	}
	return balances, nil
}
