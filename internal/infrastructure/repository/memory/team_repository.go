package memory

import (
	"context"
	"sort"

	"github.com/riskibarqy/clan-bingo/internal/domain/bingo"
)

type TeamRepository struct {
	store *Store
}

func NewTeamRepository(store *Store) *TeamRepository {
	return &TeamRepository{store: store}
}

func (r *TeamRepository) GetByID(_ context.Context, teamID string) (bingo.Team, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	team, ok := r.store.teams[teamID]
	if !ok {
		return bingo.Team{}, false, nil
	}
	return cloneTeam(team), true, nil
}

func (r *TeamRepository) GetByPlayer(_ context.Context, eventID, playerID string) (bingo.Team, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, team := range r.store.teams {
		if team.EventID != eventID {
			continue
		}
		for _, member := range team.Members {
			if member.PlayerID == playerID {
				return cloneTeam(team), true, nil
			}
		}
	}
	return bingo.Team{}, false, nil
}

func (r *TeamRepository) ListByEvent(_ context.Context, eventID string) ([]bingo.Team, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]bingo.Team, 0)
	for _, team := range r.store.teams {
		if team.EventID == eventID {
			out = append(out, cloneTeam(team))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *TeamRepository) Upsert(_ context.Context, team bingo.Team) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.teams[team.ID] = cloneTeam(team)
	return nil
}
