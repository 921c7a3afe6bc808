package cache

import (
	"context"

	"github.com/riskibarqy/clan-bingo/internal/domain/bingo"
	basecache "github.com/riskibarqy/clan-bingo/internal/platform/cache"
)

// BoardRepository caches boards by event. A board never changes once its event exists, so
// only misses skip the cache.
type BoardRepository struct {
	next  bingo.BoardRepository
	cache *basecache.Store
}

func NewBoardRepository(next bingo.BoardRepository, cache *basecache.Store) *BoardRepository {
	return &BoardRepository{next: next, cache: cache}
}

func (r *BoardRepository) GetByEvent(ctx context.Context, eventID string) (bingo.Board, bool, error) {
	key := "board:event:" + eventID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByEvent(ctx, eventID)
		if err != nil {
			return nil, err
		}
		return cachedBoardByEvent{value: item, exists: exists}, nil
	})
	if err != nil {
		return bingo.Board{}, false, err
	}

	cached, _ := v.(cachedBoardByEvent)
	if !cached.exists {
		r.cache.Delete(ctx, key)
		return bingo.Board{}, false, nil
	}
	board := cached.value
	board.Cells = append([]bingo.Cell(nil), board.Cells...)
	return board, true, nil
}

func (r *BoardRepository) ListTasksByIDs(ctx context.Context, taskIDs []string) ([]bingo.Task, error) {
	return r.next.ListTasksByIDs(ctx, taskIDs)
}

type cachedBoardByEvent struct {
	value  bingo.Board
	exists bool
}

// PatternRepository caches rotations; awards always go to the underlying store.
type PatternRepository struct {
	next  bingo.PatternRepository
	cache *basecache.Store
}

func NewPatternRepository(next bingo.PatternRepository, cache *basecache.Store) *PatternRepository {
	return &PatternRepository{next: next, cache: cache}
}

func (r *PatternRepository) GetRotation(ctx context.Context, eventID string) (bingo.PatternRotation, bool, error) {
	key := "rotation:event:" + eventID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetRotation(ctx, eventID)
		if err != nil {
			return nil, err
		}
		return cachedRotationByEvent{value: item, exists: exists}, nil
	})
	if err != nil {
		return bingo.PatternRotation{}, false, err
	}

	cached, _ := v.(cachedRotationByEvent)
	if !cached.exists {
		r.cache.Delete(ctx, key)
		return bingo.PatternRotation{}, false, nil
	}
	rotation := cached.value
	rotation.PatternKeys = append([]string(nil), rotation.PatternKeys...)
	return rotation, true, nil
}

func (r *PatternRepository) ListAwards(ctx context.Context, boardID, eventID, playerID string) ([]bingo.PatternAward, error) {
	return r.next.ListAwards(ctx, boardID, eventID, playerID)
}

func (r *PatternRepository) InsertAwardIfAbsent(ctx context.Context, award bingo.PatternAward) (bool, error) {
	return r.next.InsertAwardIfAbsent(ctx, award)
}

type cachedRotationByEvent struct {
	value  bingo.PatternRotation
	exists bool
}
