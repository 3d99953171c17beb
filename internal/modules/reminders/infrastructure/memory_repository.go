package infrastructure

import (
	"context"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
	"github.com/kaedebot/kaede/internal/modules/reminders/domain"
)

// MemoryRepository is an in-memory implementation of domain.Repository,
// used when the bot runs without a database and in tests.
type MemoryRepository struct {
	mu        sync.RWMutex
	reminders map[uuid.UUID]domain.Reminder
}

// NewMemoryRepository creates a new MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		reminders: make(map[uuid.UUID]domain.Reminder),
	}
}

// Create stores a new reminder.
func (r *MemoryRepository) Create(_ context.Context, reminder domain.Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.reminders[reminder.ID] = reminder
	return nil
}

// Get returns a user's reminder by ID, or domain.ErrNotFound.
func (r *MemoryRepository) Get(
	_ context.Context,
	userID snowflake.ID,
	id uuid.UUID,
) (domain.Reminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reminder, ok := r.reminders[id]
	if !ok || reminder.UserID != userID {
		return domain.Reminder{}, domain.ErrNotFound
	}
	return reminder, nil
}

// ListByUser returns all of a user's reminders.
func (r *MemoryRepository) ListByUser(
	_ context.Context,
	userID snowflake.ID,
) ([]domain.Reminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.Reminder
	for _, reminder := range r.reminders {
		if reminder.UserID == userID {
			out = append(out, reminder)
		}
	}
	return out, nil
}

// CountByUser returns the number of reminders a user holds.
func (r *MemoryRepository) CountByUser(
	ctx context.Context,
	userID snowflake.ID,
) (int, error) {
	list, err := r.ListByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	return len(list), nil
}

// Delete removes a user's reminder by ID, or returns domain.ErrNotFound.
func (r *MemoryRepository) Delete(
	_ context.Context,
	userID snowflake.ID,
	id uuid.UUID,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	reminder, ok := r.reminders[id]
	if !ok || reminder.UserID != userID {
		return domain.ErrNotFound
	}
	delete(r.reminders, id)
	return nil
}

// Due returns every reminder due at or before the given moment.
func (r *MemoryRepository) Due(_ context.Context, at time.Time) ([]domain.Reminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.Reminder
	for _, reminder := range r.reminders {
		if reminder.Due(at) {
			out = append(out, reminder)
		}
	}
	return out, nil
}

// UpdateEpoch stores a rescheduled reminder's new epoch.
func (r *MemoryRepository) UpdateEpoch(
	_ context.Context,
	id uuid.UUID,
	epoch time.Time,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	reminder, ok := r.reminders[id]
	if !ok {
		return domain.ErrNotFound
	}
	reminder.Epoch = epoch
	r.reminders[id] = reminder
	return nil
}

// Ensure MemoryRepository implements domain.Repository.
var _ domain.Repository = (*MemoryRepository)(nil)
