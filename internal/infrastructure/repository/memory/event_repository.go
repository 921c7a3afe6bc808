package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/riskibarqy/clan-bingo/internal/domain/bingo"
)

type EventRepository struct {
	store *Store
}

func NewEventRepository(store *Store) *EventRepository {
	return &EventRepository{store: store}
}

func (r *EventRepository) GetByID(_ context.Context, eventID string) (bingo.Event, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	event, ok := r.store.events[eventID]
	return event, ok, nil
}

func (r *EventRepository) ListByState(_ context.Context, state bingo.EventState) ([]bingo.Event, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]bingo.Event, 0)
	for _, event := range r.store.events {
		if event.State == state {
			out = append(out, event)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartAt.Equal(out[j].StartAt) {
			return out[i].StartAt.Before(out[j].StartAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *EventRepository) GetLatestBefore(_ context.Context, at time.Time) (bingo.Event, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var latest bingo.Event
	found := false
	for _, event := range r.store.events {
		if !event.StartAt.Before(at) {
			continue
		}
		if !found || event.StartAt.After(latest.StartAt) {
			latest, found = event, true
		}
	}
	return latest, found, nil
}

func (r *EventRepository) Create(_ context.Context, event bingo.Event, board bingo.Board, rotation bingo.PatternRotation) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.events[event.ID]; exists {
		return fmt.Errorf("event %s already exists", event.ID)
	}
	r.store.events[event.ID] = event
	r.store.boards[event.ID] = cloneBoard(board)
	r.store.rotations[event.ID] = bingo.PatternRotation{
		EventID:     rotation.EventID,
		PatternKeys: append([]string(nil), rotation.PatternKeys...),
		CreatedAt:   rotation.CreatedAt,
	}
	return nil
}

func (r *EventRepository) UpdateState(_ context.Context, eventID string, state bingo.EventState, at time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	event, ok := r.store.events[eventID]
	if !ok {
		return fmt.Errorf("event %s not found", eventID)
	}
	event.State = state
	event.UpdatedAt = at
	r.store.events[eventID] = event
	return nil
}

func (r *EventRepository) AddParticipant(_ context.Context, eventID, playerID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if slices.Contains(r.store.participants[eventID], playerID) {
		return nil
	}
	r.store.participants[eventID] = append(r.store.participants[eventID], playerID)
	return nil
}

func (r *EventRepository) ListParticipants(_ context.Context, eventID string) ([]string, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return append([]string(nil), r.store.participants[eventID]...), nil
}
