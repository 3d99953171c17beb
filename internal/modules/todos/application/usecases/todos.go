package usecases

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
	"github.com/kaedebot/kaede/internal/modules/todos/domain"
)

// AddInput contains the input for the Add use case.
type AddInput struct {
	UserID  snowflake.ID
	Content string
}

// AddOutput contains the result of the Add use case.
type AddOutput struct {
	Todo domain.Todo
}

// ListInput contains the input for the List use case.
type ListInput struct {
	UserID snowflake.ID
}

// ListOutput contains the result of the List use case.
type ListOutput struct {
	Todos []domain.Todo
}

// RemoveInput contains the input for the Remove use case.
type RemoveInput struct {
	UserID snowflake.ID
	ID     uuid.UUID
}

// ClearInput contains the input for the Clear use case.
type ClearInput struct {
	UserID snowflake.ID
}

// ClearOutput contains the result of the Clear use case.
type ClearOutput struct {
	Removed int
}

// TodoService handles todo list operations.
type TodoService struct {
	repo domain.Repository
	now  func() time.Time
}

// NewTodoService creates a new TodoService.
func NewTodoService(repo domain.Repository) *TodoService {
	return &TodoService{
		repo: repo,
		now:  time.Now,
	}
}

// Add validates and stores a new todo.
func (s *TodoService) Add(ctx context.Context, input AddInput) (*AddOutput, error) {
	if input.Content == "" {
		return nil, ErrEmptyContent
	}
	if len([]rune(input.Content)) > domain.MaxContentLength {
		return nil, ErrContentTooLong
	}

	count, err := s.repo.CountByUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if count >= domain.MaxPerUser {
		return nil, ErrTooManyTodos
	}

	todo := domain.Todo{
		ID:        uuid.New(),
		UserID:    input.UserID,
		Content:   input.Content,
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(ctx, todo); err != nil {
		return nil, err
	}

	return &AddOutput{Todo: todo}, nil
}

// List returns a user's todos ordered oldest first.
func (s *TodoService) List(ctx context.Context, input ListInput) (*ListOutput, error) {
	todos, err := s.repo.ListByUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	sort.Slice(todos, func(i, j int) bool {
		return todos[i].CreatedAt.Before(todos[j].CreatedAt)
	})

	return &ListOutput{Todos: todos}, nil
}

// Remove deletes a single todo by ID.
func (s *TodoService) Remove(ctx context.Context, input RemoveInput) error {
	if err := s.repo.Delete(ctx, input.UserID, input.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrTodoNotFound
		}
		return err
	}
	return nil
}

// Clear deletes all of a user's todos and reports how many were removed.
func (s *TodoService) Clear(ctx context.Context, input ClearInput) (*ClearOutput, error) {
	removed, err := s.repo.DeleteByUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	return &ClearOutput{Removed: removed}, nil
}
