package memory

import (
	"context"
	"sort"

	"github.com/riskibarqy/clan-bingo/internal/domain/bingo"
)

type PatternRepository struct {
	store *Store
}

func NewPatternRepository(store *Store) *PatternRepository {
	return &PatternRepository{store: store}
}

func (r *PatternRepository) GetRotation(_ context.Context, eventID string) (bingo.PatternRotation, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rotation, ok := r.store.rotations[eventID]
	if !ok {
		return bingo.PatternRotation{}, false, nil
	}
	rotation.PatternKeys = append([]string(nil), rotation.PatternKeys...)
	return rotation, true, nil
}

func (r *PatternRepository) ListAwards(_ context.Context, boardID, eventID, playerID string) ([]bingo.PatternAward, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]bingo.PatternAward, 0)
	for _, award := range r.store.awards {
		if award.BoardID == boardID && award.EventID == eventID && award.PlayerID == playerID {
			out = append(out, award)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].AwardedAt.Equal(out[j].AwardedAt) {
			return out[i].AwardedAt.Before(out[j].AwardedAt)
		}
		return out[i].PatternKey < out[j].PatternKey
	})
	return out, nil
}

func (r *PatternRepository) InsertAwardIfAbsent(_ context.Context, award bingo.PatternAward) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	k := key(award.BoardID, award.EventID, award.PlayerID, award.PatternKey)
	if _, exists := r.store.awards[k]; exists {
		return false, nil
	}
	r.store.awards[k] = award
	return true, nil
}
