package persistence

import (
	"context"
	"time"
)

// UserRepository exposes account storage operations.
type UserRepository interface {
	CreateUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	UpdatePasswordHash(ctx context.Context, userID, passwordHash string) error
	DeleteUser(ctx context.Context, id string) error
}

// ScheduleRepository stores the sparse per-user/per-date location map.
type ScheduleRepository interface {
	// UpsertEntry inserts or replaces the location for (UserID, Date).
	// Re-applying an identical entry succeeds and leaves one row.
	UpsertEntry(ctx context.Context, entry ScheduleEntry) error
	ListEntries(ctx context.Context, userIDs []string) ([]ScheduleEntry, error)
	DeleteEntry(ctx context.Context, userID, date string) error
}

// SessionRepository stores authentication session state.
type SessionRepository interface {
	CreateSession(ctx context.Context, session Session) (Session, error)
	GetSession(ctx context.Context, token string) (Session, error)
	RevokeSession(ctx context.Context, token string, revokedAt time.Time) (Session, error)
	RevokeSessionsForUser(ctx context.Context, userID string, revokedAt time.Time) error
	DeleteExpiredSessions(ctx context.Context, reference time.Time) error
}

// PasswordResetRepository stores single-use password-reset tokens.
type PasswordResetRepository interface {
	CreateReset(ctx context.Context, reset PasswordReset) error
	GetReset(ctx context.Context, token string) (PasswordReset, error)
	MarkResetUsed(ctx context.Context, token string, usedAt time.Time) error
	DeleteExpiredResets(ctx context.Context, reference time.Time) error
}
