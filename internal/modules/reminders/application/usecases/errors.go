package usecases

import "errors"

// Domain errors for the reminders module.
var (
	// ErrEmptyContent is returned when a reminder has no content.
	ErrEmptyContent = errors.New("reminder content must not be empty")

	// ErrContentTooLong is returned when content exceeds the length limit.
	ErrContentTooLong = errors.New("reminder content is too long")

	// ErrTooManyReminders is returned when a user is at the reminder cap.
	ErrTooManyReminders = errors.New("you have too many reminders")

	// ErrRepeatingTooShort is returned for repeating reminders below the
	// minimum interval.
	ErrRepeatingTooShort = errors.New("repeating reminders must be at least 1 minute apart")

	// ErrInvalidDelta is returned for non-positive reminder durations.
	ErrInvalidDelta = errors.New("reminder duration must be positive")

	// ErrReminderNotFound is returned when the requested reminder does
	// not exist.
	ErrReminderNotFound = errors.New("that reminder does not exist")
)
