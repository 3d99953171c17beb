package domain

import (
	"context"
	"errors"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a reminder does not exist.
var ErrNotFound = errors.New("reminder not found")

// Repository defines the interface for storing and retrieving reminders.
type Repository interface {
	// Create stores a new reminder.
	Create(ctx context.Context, r Reminder) error

	// Get returns a user's reminder by ID, or ErrNotFound.
	Get(ctx context.Context, userID snowflake.ID, id uuid.UUID) (Reminder, error)

	// ListByUser returns all of a user's reminders ordered by end time.
	ListByUser(ctx context.Context, userID snowflake.ID) ([]Reminder, error)

	// CountByUser returns the number of reminders a user holds.
	CountByUser(ctx context.Context, userID snowflake.ID) (int, error)

	// Delete removes a user's reminder by ID, or returns ErrNotFound.
	Delete(ctx context.Context, userID snowflake.ID, id uuid.UUID) error

	// Due returns every reminder whose end time is at or before the
	// given moment.
	Due(ctx context.Context, at time.Time) ([]Reminder, error)

	// UpdateEpoch stores a rescheduled reminder's new epoch.
	UpdateEpoch(ctx context.Context, id uuid.UUID, epoch time.Time) error
}
