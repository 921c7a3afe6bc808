package memory

import (
	"context"
	"time"

	"github.com/riskibarqy/clan-bingo/internal/domain/bingo"
)

type WeeklyCompetition struct {
	Metric  string
	StartAt time.Time
	EndAt   time.Time
}

// StatRepository stands in for the ingestion-owned stat tables.
type StatRepository struct {
	store *Store
}

func NewStatRepository(store *Store) *StatRepository {
	return &StatRepository{store: store}
}

func (r *StatRepository) CurrentStats(_ context.Context, playerID string) (map[string]bingo.StatValue, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make(map[string]bingo.StatValue, len(r.store.stats[playerID]))
	for parameter, value := range r.store.stats[playerID] {
		out[parameter] = value
	}
	return out, nil
}

func (r *StatRepository) SetStat(_ context.Context, playerID, parameter string, value bingo.StatValue) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.store.stats[playerID] == nil {
		r.store.stats[playerID] = make(map[string]bingo.StatValue)
	}
	r.store.stats[playerID][bingo.NormalizeParameter(parameter)] = value
	return nil
}

func (r *StatRepository) ActiveMetrics(_ context.Context, at time.Time) ([]string, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]string, 0)
	for _, item := range r.store.weekly {
		if !item.StartAt.After(at) && item.EndAt.After(at) {
			out = append(out, item.Metric)
		}
	}
	return out, nil
}

func (r *StatRepository) AddWeeklyCompetition(_ context.Context, item WeeklyCompetition) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.weekly = append(r.store.weekly, item)
	return nil
}
