package domain

import (
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
)

// Limits on a user's todo list.
const (
	MaxPerUser       = 100
	MaxContentLength = 500
)

// Todo is a single entry on a user's personal todo list.
type Todo struct {
	ID        uuid.UUID
	UserID    snowflake.ID
	Content   string
	CreatedAt time.Time
}
