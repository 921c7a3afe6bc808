package memory

import (
	"context"
	"sort"

	"github.com/riskibarqy/clan-bingo/internal/domain/ledger"
)

type LedgerRepository struct {
	store *Store
}

func NewLedgerRepository(store *Store) *LedgerRepository {
	return &LedgerRepository{store: store}
}

func (r *LedgerRepository) AddPoints(_ context.Context, playerID string, category ledger.Category, delta int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.balances[key(playerID, string(category))] += delta
	return nil
}

func (r *LedgerRepository) AddEventLeaderboard(_ context.Context, eventID, playerID string, taskPoints, patternBonus int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	k := key(eventID, playerID)
	entry := r.store.leaderboard[k]
	entry.EventID = eventID
	entry.PlayerID = playerID
	entry.TaskPoints += taskPoints
	entry.PatternBonus += patternBonus
	r.store.leaderboard[k] = entry
	return nil
}

func (r *LedgerRepository) ListBalances(_ context.Context, playerID string) ([]ledger.Balance, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]ledger.Balance, 0, 2)
	for _, category := range []ledger.Category{ledger.CategoryBingoTasks, ledger.CategoryBingoPatterns} {
		if points, ok := r.store.balances[key(playerID, string(category))]; ok {
			out = append(out, ledger.Balance{PlayerID: playerID, Category: category, Points: points})
		}
	}
	return out, nil
}

func (r *LedgerRepository) ListEventLeaderboard(_ context.Context, eventID string) ([]ledger.LeaderboardEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]ledger.LeaderboardEntry, 0)
	for _, entry := range r.store.leaderboard {
		if entry.EventID == eventID {
			out = append(out, entry)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total() != out[j].Total() {
			return out[i].Total() > out[j].Total()
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	return out, nil
}
