package usecases

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
	"github.com/kaedebot/kaede/internal/modules/reminders/domain"
)

// SetInput contains the input for the Set use case.
type SetInput struct {
	UserID    snowflake.ID
	ChannelID snowflake.ID
	Content   string
	Delta     time.Duration
	Repeating bool
}

// SetOutput contains the result of the Set use case.
type SetOutput struct {
	Reminder domain.Reminder
}

// ListInput contains the input for the List use case.
type ListInput struct {
	UserID snowflake.ID
}

// ListOutput contains the result of the List use case.
type ListOutput struct {
	Reminders []domain.Reminder
}

// ViewInput contains the input for the View use case.
type ViewInput struct {
	UserID snowflake.ID
	ID     uuid.UUID
}

// ViewOutput contains the result of the View use case.
type ViewOutput struct {
	Reminder domain.Reminder
}

// CancelInput contains the input for the Cancel use case.
type CancelInput struct {
	UserID snowflake.ID
	ID     uuid.UUID
}

// ReminderService handles reminder CRUD operations.
type ReminderService struct {
	repo domain.Repository
	now  func() time.Time
}

// NewReminderService creates a new ReminderService.
func NewReminderService(repo domain.Repository) *ReminderService {
	return &ReminderService{
		repo: repo,
		now:  time.Now,
	}
}

// Set validates and stores a new reminder anchored at the current time.
func (s *ReminderService) Set(ctx context.Context, input SetInput) (*SetOutput, error) {
	if input.Content == "" {
		return nil, ErrEmptyContent
	}
	if len([]rune(input.Content)) > domain.MaxContentLength {
		return nil, ErrContentTooLong
	}
	if input.Delta <= 0 {
		return nil, ErrInvalidDelta
	}
	if input.Repeating && input.Delta < domain.MinRepeatingDelta {
		return nil, ErrRepeatingTooShort
	}

	count, err := s.repo.CountByUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if count >= domain.MaxPerUser {
		return nil, ErrTooManyReminders
	}

	reminder := domain.Reminder{
		ID:        uuid.New(),
		UserID:    input.UserID,
		ChannelID: input.ChannelID,
		Content:   input.Content,
		Epoch:     s.now(),
		Delta:     input.Delta,
		Repeating: input.Repeating,
	}
	if err := s.repo.Create(ctx, reminder); err != nil {
		return nil, err
	}

	return &SetOutput{Reminder: reminder}, nil
}

// List returns a user's reminders ordered soonest first.
func (s *ReminderService) List(ctx context.Context, input ListInput) (*ListOutput, error) {
	reminders, err := s.repo.ListByUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	sort.Slice(reminders, func(i, j int) bool {
		return reminders[i].EndTime().Before(reminders[j].EndTime())
	})

	return &ListOutput{Reminders: reminders}, nil
}

// View returns a single reminder by ID.
func (s *ReminderService) View(ctx context.Context, input ViewInput) (*ViewOutput, error) {
	reminder, err := s.repo.Get(ctx, input.UserID, input.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrReminderNotFound
		}
		return nil, err
	}
	return &ViewOutput{Reminder: reminder}, nil
}

// Cancel removes a reminder by ID.
func (s *ReminderService) Cancel(ctx context.Context, input CancelInput) error {
	if err := s.repo.Delete(ctx, input.UserID, input.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrReminderNotFound
		}
		return err
	}
	return nil
}
