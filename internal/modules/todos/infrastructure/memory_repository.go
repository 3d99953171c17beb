package infrastructure

import (
	"context"
	"sync"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
	"github.com/kaedebot/kaede/internal/modules/todos/domain"
)

// MemoryRepository is an in-memory implementation of domain.Repository,
// used when the bot runs without a database and in tests.
type MemoryRepository struct {
	mu    sync.RWMutex
	todos map[uuid.UUID]domain.Todo
}

// NewMemoryRepository creates a new MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		todos: make(map[uuid.UUID]domain.Todo),
	}
}

// Create stores a new todo.
func (r *MemoryRepository) Create(_ context.Context, todo domain.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.todos[todo.ID] = todo
	return nil
}

// ListByUser returns all of a user's todos.
func (r *MemoryRepository) ListByUser(
	_ context.Context,
	userID snowflake.ID,
) ([]domain.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.Todo
	for _, todo := range r.todos {
		if todo.UserID == userID {
			out = append(out, todo)
		}
	}
	return out, nil
}

// CountByUser returns the number of todos a user holds.
func (r *MemoryRepository) CountByUser(
	ctx context.Context,
	userID snowflake.ID,
) (int, error) {
	list, err := r.ListByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	return len(list), nil
}

// Delete removes a user's todo by ID, or returns domain.ErrNotFound.
func (r *MemoryRepository) Delete(
	_ context.Context,
	userID snowflake.ID,
	id uuid.UUID,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	todo, ok := r.todos[id]
	if !ok || todo.UserID != userID {
		return domain.ErrNotFound
	}
	delete(r.todos, id)
	return nil
}

// DeleteByUser removes all of a user's todos and reports how many.
func (r *MemoryRepository) DeleteByUser(
	_ context.Context,
	userID snowflake.ID,
) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, todo := range r.todos {
		if todo.UserID == userID {
			delete(r.todos, id)
			removed++
		}
	}
	return removed, nil
}

var _ domain.Repository = (*MemoryRepository)(nil)
