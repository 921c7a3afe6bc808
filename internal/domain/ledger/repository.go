package ledger

import "context"

// Repository is purely additive. Callers must not credit the same logical award twice.
type Repository interface {
	AddPoints(ctx context.Context, playerID string, category Category, delta int) error
	AddEventLeaderboard(ctx context.Context, eventID, playerID string, taskPoints, patternBonus int) error
	ListBalances(ctx context.Context, playerID string) ([]Balance, error)
	ListEventLeaderboard(ctx context.Context, eventID string) ([]LeaderboardEntry, error)
}
