package ports

import (
	"context"

	"github.com/kaedebot/kaede/internal/modules/reminders/domain"
)

// Notifier delivers a due reminder to its creator.
type Notifier interface {
	Deliver(ctx context.Context, r domain.Reminder) error
}
