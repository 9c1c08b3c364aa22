package persistence

import "time"

// User represents a team-member account as stored.
type User struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ScheduleEntry is one stored (user, date, location) triple. Date is the
// canonical yyyy-MM-dd form; at most one entry exists per (UserID, Date).
type ScheduleEntry struct {
	UserID    string
	Date      string
	Location  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Session represents an authentication session persisted for a user.
type Session struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}

// PasswordReset is a single-use token allowing a user to set a new password.
type PasswordReset struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}
