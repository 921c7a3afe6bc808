package memory

import (
	"context"

	"github.com/riskibarqy/clan-bingo/internal/domain/bingo"
)

type BoardRepository struct {
	store *Store
}

func NewBoardRepository(store *Store) *BoardRepository {
	return &BoardRepository{store: store}
}

func (r *BoardRepository) GetByEvent(_ context.Context, eventID string) (bingo.Board, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	board, ok := r.store.boards[eventID]
	if !ok {
		return bingo.Board{}, false, nil
	}
	return cloneBoard(board), true, nil
}

func (r *BoardRepository) ListTasksByIDs(_ context.Context, taskIDs []string) ([]bingo.Task, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]bingo.Task, 0, len(taskIDs))
	for _, taskID := range taskIDs {
		if task, ok := r.store.tasks[taskID]; ok {
			out = append(out, task)
		}
	}
	return out, nil
}

func (r *BoardRepository) UpsertTasks(_ context.Context, tasks []bingo.Task) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, task := range tasks {
		r.store.tasks[task.ID] = task
	}
	return nil
}
