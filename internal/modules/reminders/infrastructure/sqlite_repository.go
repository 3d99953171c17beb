package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
	"github.com/kaedebot/kaede/internal/modules/reminders/domain"
)

const remindersSchema = `
CREATE TABLE IF NOT EXISTS reminders (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	channel_id TEXT NOT NULL,
	content    TEXT NOT NULL,
	epoch_ms   INTEGER NOT NULL,
	delta_ms   INTEGER NOT NULL,
	end_ms     INTEGER NOT NULL,
	repeating  INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_reminders_user ON reminders (user_id);
CREATE INDEX IF NOT EXISTS idx_reminders_end ON reminders (end_ms);
`

// SQLiteRepository persists reminders in a SQLite database.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates the reminders table if needed and returns
// a repository backed by db.
func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if _, err := db.Exec(remindersSchema); err != nil {
		return nil, fmt.Errorf("failed to migrate reminders schema: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

// Create stores a new reminder.
func (r *SQLiteRepository) Create(ctx context.Context, reminder domain.Reminder) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO reminders (id, user_id, channel_id, content, epoch_ms, delta_ms, end_ms, repeating)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		reminder.ID.String(),
		reminder.UserID.String(),
		reminder.ChannelID.String(),
		reminder.Content,
		reminder.Epoch.UnixMilli(),
		reminder.Delta.Milliseconds(),
		reminder.EndTime().UnixMilli(),
		boolToInt(reminder.Repeating),
	)
	if err != nil {
		return fmt.Errorf("failed to insert reminder: %w", err)
	}
	return nil
}

// Get returns a user's reminder by ID, or domain.ErrNotFound.
func (r *SQLiteRepository) Get(
	ctx context.Context,
	userID snowflake.ID,
	id uuid.UUID,
) (domain.Reminder, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, channel_id, content, epoch_ms, delta_ms, repeating
		 FROM reminders WHERE id = ? AND user_id = ?`,
		id.String(), userID.String(),
	)
	reminder, err := scanReminder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Reminder{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Reminder{}, fmt.Errorf("failed to query reminder: %w", err)
	}
	return reminder, nil
}

// ListByUser returns all of a user's reminders.
func (r *SQLiteRepository) ListByUser(
	ctx context.Context,
	userID snowflake.ID,
) ([]domain.Reminder, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, channel_id, content, epoch_ms, delta_ms, repeating
		 FROM reminders WHERE user_id = ?`,
		userID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query reminders: %w", err)
	}
	defer rows.Close()

	return collectReminders(rows)
}

// CountByUser returns the number of reminders a user holds.
func (r *SQLiteRepository) CountByUser(
	ctx context.Context,
	userID snowflake.ID,
) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reminders WHERE user_id = ?`,
		userID.String(),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count reminders: %w", err)
	}
	return count, nil
}

// Delete removes a user's reminder by ID, or returns domain.ErrNotFound.
func (r *SQLiteRepository) Delete(
	ctx context.Context,
	userID snowflake.ID,
	id uuid.UUID,
) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM reminders WHERE id = ? AND user_id = ?`,
		id.String(), userID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Due returns every reminder due at or before the given moment.
func (r *SQLiteRepository) Due(ctx context.Context, at time.Time) ([]domain.Reminder, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, channel_id, content, epoch_ms, delta_ms, repeating
		 FROM reminders WHERE end_ms <= ?`,
		at.UnixMilli(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query due reminders: %w", err)
	}
	defer rows.Close()

	return collectReminders(rows)
}

// UpdateEpoch stores a rescheduled reminder's new epoch. The stored end
// time moves with it so due queries stay index-driven.
func (r *SQLiteRepository) UpdateEpoch(
	ctx context.Context,
	id uuid.UUID,
	epoch time.Time,
) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE reminders SET epoch_ms = ?, end_ms = ? + delta_ms WHERE id = ?`,
		epoch.UnixMilli(), epoch.UnixMilli(), id.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update reminder epoch: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReminder(row rowScanner) (domain.Reminder, error) {
	var (
		idStr        string
		userIDStr    string
		channelIDStr string
		content      string
		epochMS      int64
		deltaMS      int64
		repeating    int
	)
	if err := row.Scan(&idStr, &userIDStr, &channelIDStr, &content, &epochMS, &deltaMS, &repeating); err != nil {
		return domain.Reminder{}, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return domain.Reminder{}, fmt.Errorf("failed to parse reminder ID %q: %w", idStr, err)
	}
	userID, err := snowflake.Parse(userIDStr)
	if err != nil {
		return domain.Reminder{}, fmt.Errorf("failed to parse user ID %q: %w", userIDStr, err)
	}
	channelID, err := snowflake.Parse(channelIDStr)
	if err != nil {
		return domain.Reminder{}, fmt.Errorf("failed to parse channel ID %q: %w", channelIDStr, err)
	}

	return domain.Reminder{
		ID:        id,
		UserID:    userID,
		ChannelID: channelID,
		Content:   content,
		Epoch:     time.UnixMilli(epochMS),
		Delta:     time.Duration(deltaMS) * time.Millisecond,
		Repeating: repeating != 0,
	}, nil
}

func collectReminders(rows *sql.Rows) ([]domain.Reminder, error) {
	var out []domain.Reminder
	for rows.Next() {
		reminder, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		out = append(out, reminder)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reminders: %w", err)
	}
	return out, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ domain.Repository = (*SQLiteRepository)(nil)
