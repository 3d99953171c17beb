package domain

import (
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
)

const (
	// MaxPerUser is the maximum number of reminders a user may hold.
	MaxPerUser = 100

	// MaxContentLength is the maximum number of characters in a
	// reminder's content.
	MaxContentLength = 1000

	// MinRepeatingDelta is the shortest interval allowed for a
	// repeating reminder.
	MinRepeatingDelta = time.Minute
)

// Reminder is a scheduled note delivered back to its creator when due.
// Epoch is the moment the current cycle started; a reminder is due once
// Epoch+Delta has passed. Repeating reminders advance their epoch by one
// delta per delivery instead of being removed.
type Reminder struct {
	ID        uuid.UUID
	UserID    snowflake.ID
	ChannelID snowflake.ID // channel to deliver to; zero falls back to DM
	Content   string
	Epoch     time.Time
	Delta     time.Duration
	Repeating bool
}

// EndTime returns the moment this reminder becomes due.
func (r *Reminder) EndTime() time.Time {
	return r.Epoch.Add(r.Delta)
}

// Due reports whether the reminder should be delivered at the given time.
func (r *Reminder) Due(at time.Time) bool {
	return !at.Before(r.EndTime())
}

// Reschedule advances a repeating reminder's epoch by one delta.
func (r *Reminder) Reschedule() {
	r.Epoch = r.Epoch.Add(r.Delta)
}
