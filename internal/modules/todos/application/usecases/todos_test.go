package usecases

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
	"github.com/kaedebot/kaede/internal/modules/todos/domain"
)

var testUserID = snowflake.ID(100)

type mockRepository struct {
	todos map[uuid.UUID]domain.Todo
}

func newMockRepository() *mockRepository {
	return &mockRepository{todos: make(map[uuid.UUID]domain.Todo)}
}

func (m *mockRepository) Create(_ context.Context, todo domain.Todo) error {
	m.todos[todo.ID] = todo
	return nil
}

func (m *mockRepository) ListByUser(
	_ context.Context,
	userID snowflake.ID,
) ([]domain.Todo, error) {
	var out []domain.Todo
	for _, todo := range m.todos {
		if todo.UserID == userID {
			out = append(out, todo)
		}
	}
	return out, nil
}

func (m *mockRepository) CountByUser(
	ctx context.Context,
	userID snowflake.ID,
) (int, error) {
	list, err := m.ListByUser(ctx, userID)
	return len(list), err
}

func (m *mockRepository) Delete(_ context.Context, userID snowflake.ID, id uuid.UUID) error {
	todo, ok := m.todos[id]
	if !ok || todo.UserID != userID {
		return domain.ErrNotFound
	}
	delete(m.todos, id)
	return nil
}

func (m *mockRepository) DeleteByUser(_ context.Context, userID snowflake.ID) (int, error) {
	removed := 0
	for id, todo := range m.todos {
		if todo.UserID == userID {
			delete(m.todos, id)
			removed++
		}
	}
	return removed, nil
}

func newTestTodoService(repo domain.Repository) *TodoService {
	service := NewTodoService(repo)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	calls := 0
	service.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Second)
	}
	return service
}

func TestTodoService_Add(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "valid", content: "buy milk"},
		{name: "empty content", content: "", wantErr: ErrEmptyContent},
		{
			name:    "content too long",
			content: strings.Repeat("a", domain.MaxContentLength+1),
			wantErr: ErrContentTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newTestTodoService(newMockRepository())

			output, err := service.Add(context.Background(), AddInput{
				UserID:  testUserID,
				Content: tt.content,
			})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Add() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && output.Todo.Content != tt.content {
				t.Errorf("content = %q, want %q", output.Todo.Content, tt.content)
			}
		})
	}
}

func TestTodoService_Add_PerUserCap(t *testing.T) {
	service := newTestTodoService(newMockRepository())
	ctx := context.Background()

	for i := 0; i < domain.MaxPerUser; i++ {
		if _, err := service.Add(ctx, AddInput{UserID: testUserID, Content: "filler"}); err != nil {
			t.Fatalf("Add() unexpected error: %v", err)
		}
	}

	if _, err := service.Add(ctx, AddInput{UserID: testUserID, Content: "overflow"}); !errors.Is(err, ErrTooManyTodos) {
		t.Fatalf("Add() error = %v, want ErrTooManyTodos", err)
	}

	if _, err := service.Add(ctx, AddInput{UserID: snowflake.ID(999), Content: "other user"}); err != nil {
		t.Fatalf("Add() for another user: %v", err)
	}
}

func TestTodoService_List_OldestFirst(t *testing.T) {
	service := newTestTodoService(newMockRepository())
	ctx := context.Background()

	for _, content := range []string{"first", "second", "third"} {
		if _, err := service.Add(ctx, AddInput{UserID: testUserID, Content: content}); err != nil {
			t.Fatalf("Add() unexpected error: %v", err)
		}
	}

	output, err := service.List(ctx, ListInput{UserID: testUserID})
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}

	want := []string{"first", "second", "third"}
	if len(output.Todos) != len(want) {
		t.Fatalf("len(todos) = %d, want %d", len(output.Todos), len(want))
	}
	for i, todo := range output.Todos {
		if todo.Content != want[i] {
			t.Errorf("todos[%d] = %q, want %q", i, todo.Content, want[i])
		}
	}
}

func TestTodoService_RemoveAndClear(t *testing.T) {
	service := newTestTodoService(newMockRepository())
	ctx := context.Background()

	output, err := service.Add(ctx, AddInput{UserID: testUserID, Content: "buy milk"})
	if err != nil {
		t.Fatalf("Add() unexpected error: %v", err)
	}
	id := output.Todo.ID

	if err := service.Remove(ctx, RemoveInput{UserID: snowflake.ID(999), ID: id}); !errors.Is(err, ErrTodoNotFound) {
		t.Errorf("Remove() by other user error = %v, want ErrTodoNotFound", err)
	}
	if err := service.Remove(ctx, RemoveInput{UserID: testUserID, ID: id}); err != nil {
		t.Fatalf("Remove() unexpected error: %v", err)
	}
	if err := service.Remove(ctx, RemoveInput{UserID: testUserID, ID: id}); !errors.Is(err, ErrTodoNotFound) {
		t.Errorf("second Remove() error = %v, want ErrTodoNotFound", err)
	}

	for _, content := range []string{"a", "b", "c"} {
		if _, err := service.Add(ctx, AddInput{UserID: testUserID, Content: content}); err != nil {
			t.Fatalf("Add() unexpected error: %v", err)
		}
	}

	cleared, err := service.Clear(ctx, ClearInput{UserID: testUserID})
	if err != nil {
		t.Fatalf("Clear() unexpected error: %v", err)
	}
	if cleared.Removed != 3 {
		t.Errorf("Clear() removed = %d, want 3", cleared.Removed)
	}

	cleared, err = service.Clear(ctx, ClearInput{UserID: testUserID})
	if err != nil {
		t.Fatalf("Clear() on empty list: %v", err)
	}
	if cleared.Removed != 0 {
		t.Errorf("Clear() on empty list removed = %d, want 0", cleared.Removed)
	}
}
