package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/clan-bingo/internal/domain/bingo"
)

func loadEvent(ctx context.Context, repo bingo.EventRepository, eventID string) (bingo.Event, error) {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return bingo.Event{}, fmt.Errorf("%w: event id is required", ErrInvalidInput)
	}
	event, ok, err := repo.GetByID(ctx, eventID)
	if err != nil {
		return bingo.Event{}, fmt.Errorf("get event: %w", err)
	}
	if !ok {
		return bingo.Event{}, fmt.Errorf("%w: event=%s", ErrNotFound, eventID)
	}
	return event, nil
}

// loadOngoingEvent rejects writes against upcoming and completed events.
func loadOngoingEvent(ctx context.Context, repo bingo.EventRepository, eventID string) (bingo.Event, error) {
	event, err := loadEvent(ctx, repo, eventID)
	if err != nil {
		return bingo.Event{}, err
	}
	switch event.State {
	case bingo.EventStateOngoing:
		return event, nil
	case bingo.EventStateCompleted:
		return bingo.Event{}, fmt.Errorf("%w: event=%s", ErrEventReadOnly, eventID)
	default:
		return bingo.Event{}, fmt.Errorf("%w: event=%s state=%s", ErrEventNotOngoing, eventID, event.State)
	}
}

func loadBoard(ctx context.Context, repo bingo.BoardRepository, eventID string) (bingo.Board, error) {
	board, ok, err := repo.GetByEvent(ctx, eventID)
	if err != nil {
		return bingo.Board{}, fmt.Errorf("get board by event: %w", err)
	}
	if !ok {
		return bingo.Board{}, fmt.Errorf("%w: board for event=%s", ErrNotFound, eventID)
	}
	return board, nil
}
