package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/EdwinCycling/WerkplekPlanner/internal/persistence"
)

// PasswordResetRepository implements persistence.PasswordResetRepository
// using SQLite.
type PasswordResetRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewPasswordResetRepository creates a new SQLite password reset repository.
func NewPasswordResetRepository(pool *ConnectionPool) *PasswordResetRepository {
	return &PasswordResetRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// CreateReset inserts a new password reset token.
func (r *PasswordResetRepository) CreateReset(ctx context.Context, reset persistence.PasswordReset) error {
	if reset.Token == "" || reset.UserID == "" {
		return persistence.ErrConstraintViolation
	}

	reset.CreatedAt = time.Now().UTC()

	_, err := r.helper.Exec(ctx,
		`INSERT INTO password_resets (token, user_id, expires_at, used_at, created_at)
		 VALUES (?, ?, ?, NULL, ?)`,
		reset.Token,
		reset.UserID,
		reset.ExpiresAt.UTC().Format(time.RFC3339),
		reset.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return nil
}

// GetReset retrieves a password reset by token.
func (r *PasswordResetRepository) GetReset(ctx context.Context, token string) (persistence.PasswordReset, error) {
	if token == "" {
		return persistence.PasswordReset{}, persistence.ErrNotFound
	}

	row := r.helper.QueryRow(ctx,
		`SELECT token, user_id, expires_at, used_at, created_at
		 FROM password_resets WHERE token = ?`, token)

	var reset persistence.PasswordReset
	var expiresAtStr, createdAtStr string
	var usedAtStr sql.NullString

	if err := row.Scan(
		&reset.Token,
		&reset.UserID,
		&expiresAtStr,
		&usedAtStr,
		&createdAtStr,
	); err != nil {
		if err == sql.ErrNoRows {
			return persistence.PasswordReset{}, persistence.ErrNotFound
		}
		return persistence.PasswordReset{}, r.mapper.MapError(err)
	}

	var err error
	if reset.ExpiresAt, err = time.Parse(time.RFC3339, expiresAtStr); err != nil {
		return persistence.PasswordReset{}, fmt.Errorf("failed to parse expires_at: %w", err)
	}
	if reset.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return persistence.PasswordReset{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if usedAtStr.Valid {
		usedAt, err := time.Parse(time.RFC3339, usedAtStr.String)
		if err != nil {
			return persistence.PasswordReset{}, fmt.Errorf("failed to parse used_at: %w", err)
		}
		reset.UsedAt = &usedAt
	}
	return reset, nil
}

// MarkResetUsed stamps a reset token as consumed. A token that is missing or
// already used yields persistence.ErrNotFound.
func (r *PasswordResetRepository) MarkResetUsed(ctx context.Context, token string, usedAt time.Time) error {
	if token == "" {
		return persistence.ErrNotFound
	}

	result, err := r.helper.Exec(ctx,
		`UPDATE password_resets SET used_at = ? WHERE token = ? AND used_at IS NULL`,
		usedAt.UTC().Format(time.RFC3339), token)
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
}

// DeleteExpiredResets removes reset tokens whose expiry lies before the
// reference time.
func (r *PasswordResetRepository) DeleteExpiredResets(ctx context.Context, reference time.Time) error {
	_, err := r.helper.Exec(ctx,
		`DELETE FROM password_resets WHERE expires_at < ?`,
		reference.UTC().Format(time.RFC3339))
	if err != nil {
		return r.mapper.MapError(err)
	}
	return nil
}
