package memory

import (
	"context"
	"sort"

	"github.com/riskibarqy/clan-bingo/internal/domain/bingo"
)

type ProgressRepository struct {
	store *Store
}

func NewProgressRepository(store *Store) *ProgressRepository {
	return &ProgressRepository{store: store}
}

func (r *ProgressRepository) ListBaselines(_ context.Context, eventID, playerID string) (map[string]int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	prefix := key(eventID, playerID) + "::"
	out := make(map[string]int64)
	for k, value := range r.store.baselines {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			out[k[len(prefix):]] = value
		}
	}
	return out, nil
}

func (r *ProgressRepository) InsertBaselines(_ context.Context, baselines []bingo.Baseline) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, item := range baselines {
		k := key(item.EventID, item.PlayerID, item.MetricKey)
		if _, exists := r.store.baselines[k]; exists {
			continue
		}
		r.store.baselines[k] = item.Value
	}
	return nil
}

func (r *ProgressRepository) GetTaskProgress(_ context.Context, eventID, playerID, taskID string) (bingo.TaskProgress, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	row, ok := r.store.progress[key(eventID, playerID, taskID)]
	if !ok {
		return bingo.TaskProgress{}, false, nil
	}
	return cloneProgress(row), true, nil
}

func (r *ProgressRepository) ListTaskProgressByPlayer(_ context.Context, eventID, playerID string) ([]bingo.TaskProgress, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]bingo.TaskProgress, 0)
	for _, row := range r.store.progress {
		if row.EventID == eventID && row.PlayerID == playerID {
			out = append(out, cloneProgress(row))
		}
	}
	sortProgress(out)
	return out, nil
}

func (r *ProgressRepository) ListTaskProgressByTask(_ context.Context, eventID, taskID string, playerIDs []string) ([]bingo.TaskProgress, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]bingo.TaskProgress, 0, len(playerIDs))
	for _, playerID := range playerIDs {
		if row, ok := r.store.progress[key(eventID, playerID, taskID)]; ok {
			out = append(out, cloneProgress(row))
		}
	}
	sortProgress(out)
	return out, nil
}

// UpsertTaskProgress mirrors the Postgres upsert: progress takes the max, status never
// regresses and updated_at only moves with progress.
func (r *ProgressRepository) UpsertTaskProgress(_ context.Context, row bingo.TaskProgress) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	k := key(row.EventID, row.PlayerID, row.TaskID)
	existing, ok := r.store.progress[k]
	if !ok {
		row.PointsAwarded = nil
		row.Status = bingo.MaxStatus(row.Status, bingo.StatusIncomplete)
		r.store.progress[k] = cloneProgress(row)
		return nil
	}

	if row.TeamID != nil {
		existing.TeamID = row.TeamID
	}
	if row.Progress > existing.Progress {
		existing.Progress = row.Progress
		existing.UpdatedAt = row.UpdatedAt
	}
	existing.Status = bingo.MaxStatus(existing.Status, row.Status)
	r.store.progress[k] = cloneProgress(existing)
	return nil
}

func (r *ProgressRepository) ClaimTaskPoints(_ context.Context, eventID, playerID, taskID string, points int) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	k := key(eventID, playerID, taskID)
	row, ok := r.store.progress[k]
	if !ok || row.Status != bingo.StatusCompleted || row.PointsAwarded != nil {
		return false, nil
	}
	row.PointsAwarded = &points
	r.store.progress[k] = cloneProgress(row)
	return true, nil
}

func sortProgress(rows []bingo.TaskProgress) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].PlayerID != rows[j].PlayerID {
			return rows[i].PlayerID < rows[j].PlayerID
		}
		return rows[i].TaskID < rows[j].TaskID
	})
}
