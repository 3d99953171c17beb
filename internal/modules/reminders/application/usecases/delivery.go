package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kaedebot/kaede/internal/modules/reminders/application/ports"
	"github.com/kaedebot/kaede/internal/modules/reminders/domain"
	"github.com/kaedebot/kaede/internal/timer"
)

// DeliveryService polls for due reminders and hands them to a notifier.
// The poll loop runs on a PeriodicTimer, so a failed cycle is logged and
// the next one still runs.
type DeliveryService struct {
	repo     domain.Repository
	notifier ports.Notifier
	interval time.Duration
	now      func() time.Time

	poller *timer.PeriodicTimer
}

// NewDeliveryService creates a new DeliveryService.
func NewDeliveryService(
	repo domain.Repository,
	notifier ports.Notifier,
	interval time.Duration,
) *DeliveryService {
	return &DeliveryService{
		repo:     repo,
		notifier: notifier,
		interval: interval,
		now:      time.Now,
	}
}

// Start launches the delivery poll loop.
func (s *DeliveryService) Start() {
	s.poller = timer.New(s.Poll, s.interval)
	s.poller.Start()
}

// Shutdown stops the poll loop immediately, interrupting a sleep in
// progress, and waits for it to exit.
func (s *DeliveryService) Shutdown() {
	if s.poller == nil {
		return
	}
	s.poller.Cancel()
	s.poller.Wait()
}

// Poll delivers every due reminder once. Repeating reminders are advanced
// by one delta before delivery; one-shot reminders are removed. A failure
// on one reminder does not block the rest of the batch.
func (s *DeliveryService) Poll(ctx context.Context) error {
	due, err := s.repo.Due(ctx, s.now())
	if err != nil {
		return fmt.Errorf("listing due reminders: %w", err)
	}

	var errs []error
	for _, reminder := range due {
		if err := s.deliver(ctx, reminder); err != nil {
			errs = append(errs, fmt.Errorf("reminder %s: %w", reminder.ID, err))
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	if len(due) > 0 {
		slog.Debug("delivered due reminders", "count", len(due))
	}
	return nil
}

func (s *DeliveryService) deliver(ctx context.Context, reminder domain.Reminder) error {
	// Reschedule or remove before delivering, so a notifier failure can
	// never cause the same reminder to fire twice.
	if reminder.Repeating {
		reminder.Reschedule()
		if err := s.repo.UpdateEpoch(ctx, reminder.ID, reminder.Epoch); err != nil {
			return fmt.Errorf("rescheduling: %w", err)
		}
	} else {
		if err := s.repo.Delete(ctx, reminder.UserID, reminder.ID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// cancelled between the query and delivery; drop it
				return nil
			}
			return fmt.Errorf("removing delivered reminder: %w", err)
		}
	}

	if err := s.notifier.Deliver(ctx, reminder); err != nil {
		return fmt.Errorf("notifying: %w", err)
	}
	return nil
}
