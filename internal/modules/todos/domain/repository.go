package domain

import (
	"context"
	"errors"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a todo does not exist or belongs to
// another user.
var ErrNotFound = errors.New("todo not found")

// Repository stores todos.
type Repository interface {
	Create(ctx context.Context, todo Todo) error
	ListByUser(ctx context.Context, userID snowflake.ID) ([]Todo, error)
	CountByUser(ctx context.Context, userID snowflake.ID) (int, error)
	Delete(ctx context.Context, userID snowflake.ID, id uuid.UUID) error
	DeleteByUser(ctx context.Context, userID snowflake.ID) (int, error)
}
