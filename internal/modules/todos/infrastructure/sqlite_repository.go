package infrastructure

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
	"github.com/kaedebot/kaede/internal/modules/todos/domain"
)

const todosSchema = `
CREATE TABLE IF NOT EXISTS todos (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	content    TEXT NOT NULL,
	created_ms INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_todos_user ON todos (user_id);
`

// SQLiteRepository persists todos in a SQLite database.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates the todos table if needed and returns a
// repository backed by db.
func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if _, err := db.Exec(todosSchema); err != nil {
		return nil, fmt.Errorf("failed to migrate todos schema: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

// Create stores a new todo.
func (r *SQLiteRepository) Create(ctx context.Context, todo domain.Todo) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO todos (id, user_id, content, created_ms) VALUES (?, ?, ?, ?)`,
		todo.ID.String(),
		todo.UserID.String(),
		todo.Content,
		todo.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert todo: %w", err)
	}
	return nil
}

// ListByUser returns all of a user's todos.
func (r *SQLiteRepository) ListByUser(
	ctx context.Context,
	userID snowflake.ID,
) ([]domain.Todo, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, content, created_ms FROM todos WHERE user_id = ?`,
		userID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query todos: %w", err)
	}
	defer rows.Close()

	var out []domain.Todo
	for rows.Next() {
		var (
			idStr     string
			userIDStr string
			content   string
			createdMS int64
		)
		if err := rows.Scan(&idStr, &userIDStr, &content, &createdMS); err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}

		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse todo ID %q: %w", idStr, err)
		}
		ownerID, err := snowflake.Parse(userIDStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse user ID %q: %w", userIDStr, err)
		}

		out = append(out, domain.Todo{
			ID:        id,
			UserID:    ownerID,
			Content:   content,
			CreatedAt: time.UnixMilli(createdMS),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate todos: %w", err)
	}
	return out, nil
}

// CountByUser returns the number of todos a user holds.
func (r *SQLiteRepository) CountByUser(
	ctx context.Context,
	userID snowflake.ID,
) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM todos WHERE user_id = ?`,
		userID.String(),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count todos: %w", err)
	}
	return count, nil
}

// Delete removes a user's todo by ID, or returns domain.ErrNotFound.
func (r *SQLiteRepository) Delete(
	ctx context.Context,
	userID snowflake.ID,
	id uuid.UUID,
) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM todos WHERE id = ? AND user_id = ?`,
		id.String(), userID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteByUser removes all of a user's todos and reports how many.
func (r *SQLiteRepository) DeleteByUser(
	ctx context.Context,
	userID snowflake.ID,
) (int, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM todos WHERE user_id = ?`,
		userID.String(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to clear todos: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return int(affected), nil
}

var _ domain.Repository = (*SQLiteRepository)(nil)
