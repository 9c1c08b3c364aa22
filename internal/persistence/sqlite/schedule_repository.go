package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/EdwinCycling/WerkplekPlanner/internal/persistence"
)

// ScheduleRepository implements persistence.ScheduleRepository using SQLite.
type ScheduleRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
	retry  *RetryHelper
}

// NewScheduleRepository creates a new SQLite schedule repository.
func NewScheduleRepository(pool *ConnectionPool) *ScheduleRepository {
	return &ScheduleRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
		retry:  NewRetryHelper(DefaultRetryConfig()),
	}
}

const scheduleColumns = `user_id, date, location, created_at, updated_at`

// UpsertEntry inserts a schedule entry or replaces the location of an
// existing one. Writing the same location twice is a no-op.
func (r *ScheduleRepository) UpsertEntry(ctx context.Context, entry persistence.ScheduleEntry) error {
	if entry.UserID == "" || entry.Date == "" || entry.Location == "" {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC().Format(time.RFC3339)

	return r.retry.WithRetry(ctx, func() error {
		_, err := r.helper.Exec(ctx,
			`INSERT INTO schedule_entries (`+scheduleColumns+`) VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(user_id, date) DO UPDATE SET
			   location = excluded.location,
			   updated_at = excluded.updated_at
			 WHERE schedule_entries.location <> excluded.location`,
			entry.UserID,
			entry.Date,
			entry.Location,
			now,
			now,
		)
		if err != nil {
			return r.mapper.MapError(err)
		}
		return nil
	})
}

// ListEntries returns the schedule entries of all given users, ordered by
// user then date. An empty user list yields no entries.
func (r *ScheduleRepository) ListEntries(ctx context.Context, userIDs []string) ([]persistence.ScheduleEntry, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?, ", len(userIDs)-1) + "?"
	args := make([]any, len(userIDs))
	for i, id := range userIDs {
		args[i] = id
	}

	rows, err := r.helper.Query(ctx,
		`SELECT `+scheduleColumns+` FROM schedule_entries
		 WHERE user_id IN (`+placeholders+`)
		 ORDER BY user_id ASC, date ASC`, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	return r.collectEntries(rows)
}

// DeleteEntry removes a single schedule entry. Deleting an entry that does
// not exist returns persistence.ErrNotFound.
func (r *ScheduleRepository) DeleteEntry(ctx context.Context, userID, date string) error {
	if userID == "" || date == "" {
		return persistence.ErrNotFound
	}

	return r.retry.WithRetry(ctx, func() error {
		result, err := r.helper.Exec(ctx,
			`DELETE FROM schedule_entries WHERE user_id = ? AND date = ?`,
			userID, date)
		if err != nil {
			return r.mapper.MapError(err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if affected == 0 {
			return persistence.ErrNotFound
		}
		return nil
	})
}

func (r *ScheduleRepository) collectEntries(rows *sql.Rows) ([]persistence.ScheduleEntry, error) {
	var entries []persistence.ScheduleEntry
	for rows.Next() {
		var entry persistence.ScheduleEntry
		var createdAtStr, updatedAtStr string
		if err := rows.Scan(
			&entry.UserID,
			&entry.Date,
			&entry.Location,
			&createdAtStr,
			&updatedAtStr,
		); err != nil {
			return nil, r.mapper.MapError(err)
		}

		var err error
		if entry.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		if entry.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
			return nil, fmt.Errorf("failed to parse updated_at: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return entries, nil
}
