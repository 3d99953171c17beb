package usecases

import (
	"context"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
	"github.com/kaedebot/kaede/internal/modules/reminders/domain"
)

type mockRepository struct {
	reminders map[uuid.UUID]domain.Reminder

	createErr error
	dueErr    error

	// returned from Due in addition to stored reminders, to simulate a
	// reminder cancelled between the due query and delivery
	extraDue []domain.Reminder
}

func newMockRepository() *mockRepository {
	return &mockRepository{reminders: make(map[uuid.UUID]domain.Reminder)}
}

func (m *mockRepository) Create(_ context.Context, reminder domain.Reminder) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.reminders[reminder.ID] = reminder
	return nil
}

func (m *mockRepository) Get(
	_ context.Context,
	userID snowflake.ID,
	id uuid.UUID,
) (domain.Reminder, error) {
	reminder, ok := m.reminders[id]
	if !ok || reminder.UserID != userID {
		return domain.Reminder{}, domain.ErrNotFound
	}
	return reminder, nil
}

func (m *mockRepository) ListByUser(
	_ context.Context,
	userID snowflake.ID,
) ([]domain.Reminder, error) {
	var out []domain.Reminder
	for _, reminder := range m.reminders {
		if reminder.UserID == userID {
			out = append(out, reminder)
		}
	}
	return out, nil
}

func (m *mockRepository) CountByUser(
	ctx context.Context,
	userID snowflake.ID,
) (int, error) {
	list, err := m.ListByUser(ctx, userID)
	return len(list), err
}

func (m *mockRepository) Delete(_ context.Context, userID snowflake.ID, id uuid.UUID) error {
	reminder, ok := m.reminders[id]
	if !ok || reminder.UserID != userID {
		return domain.ErrNotFound
	}
	delete(m.reminders, id)
	return nil
}

func (m *mockRepository) Due(_ context.Context, at time.Time) ([]domain.Reminder, error) {
	if m.dueErr != nil {
		return nil, m.dueErr
	}
	out := append([]domain.Reminder(nil), m.extraDue...)
	for _, reminder := range m.reminders {
		if reminder.Due(at) {
			out = append(out, reminder)
		}
	}
	return out, nil
}

func (m *mockRepository) UpdateEpoch(
	_ context.Context,
	id uuid.UUID,
	epoch time.Time,
) error {
	reminder, ok := m.reminders[id]
	if !ok {
		return domain.ErrNotFound
	}
	reminder.Epoch = epoch
	m.reminders[id] = reminder
	return nil
}

type mockNotifier struct {
	delivered []domain.Reminder
	err       error
}

func (m *mockNotifier) Deliver(_ context.Context, reminder domain.Reminder) error {
	if m.err != nil {
		return m.err
	}
	m.delivered = append(m.delivered, reminder)
	return nil
}
