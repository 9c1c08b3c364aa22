package testfixtures

import (
	"time"

	"github.com/EdwinCycling/WerkplekPlanner/internal/application"
	"github.com/EdwinCycling/WerkplekPlanner/internal/persistence"
	"github.com/EdwinCycling/WerkplekPlanner/internal/schedule"
)

// referenceTime is a Tuesday; week-based fixtures stay inside one ISO week.
var referenceTime = time.Date(2024, time.January, 2, 15, 4, 5, 0, time.UTC)

// ReferenceTime returns the shared deterministic instant used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// UserFixture bundles the attributes of a test account.
type UserFixture struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserOption mutates a UserFixture under construction.
type UserOption func(*UserFixture)

// NewUserFixture builds a user fixture with deterministic defaults.
func NewUserFixture(opts ...UserOption) UserFixture {
	fixture := UserFixture{
		ID:           "user-1",
		Email:        "edwin@example.nl",
		DisplayName:  "Edwin",
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=2$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2hoYXNoaGFzaGhhc2hoYXNoaGFzaGhhc2g",
		CreatedAt:    referenceTime,
		UpdatedAt:    referenceTime,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&fixture)
		}
	}
	return fixture
}

// WithUserID overrides the fixture ID.
func WithUserID(id string) UserOption {
	return func(f *UserFixture) { f.ID = id }
}

// WithUserEmail overrides the fixture email.
func WithUserEmail(email string) UserOption {
	return func(f *UserFixture) { f.Email = email }
}

// WithUserDisplayName overrides the fixture display name.
func WithUserDisplayName(name string) UserOption {
	return func(f *UserFixture) { f.DisplayName = name }
}

// WithUserPasswordHash overrides the stored hash.
func WithUserPasswordHash(hash string) UserOption {
	return func(f *UserFixture) { f.PasswordHash = hash }
}

// Application converts the fixture to the application layer model.
func (f UserFixture) Application() application.User {
	return application.User{
		ID:          f.ID,
		Email:       f.Email,
		DisplayName: f.DisplayName,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

// Credentials converts the fixture to the credential model.
func (f UserFixture) Credentials() application.UserCredentials {
	return application.UserCredentials{
		User:         f.Application(),
		PasswordHash: f.PasswordHash,
	}
}

// Principal returns the acting principal for the fixture account.
func (f UserFixture) Principal() application.Principal {
	return application.Principal{UserID: f.ID}
}

// Member returns the fixture as a team listing entry.
func (f UserFixture) Member() application.TeamMember {
	return application.TeamMember{
		ID:          f.ID,
		Email:       f.Email,
		DisplayName: application.MemberDisplayName(f.Application()),
	}
}

// Persistence converts the fixture to the persistence layer model.
func (f UserFixture) Persistence() persistence.User {
	return persistence.User{
		ID:           f.ID,
		Email:        f.Email,
		DisplayName:  f.DisplayName,
		PasswordHash: f.PasswordHash,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}

// SnapshotBuilder accumulates schedule cells for test snapshots.
type SnapshotBuilder struct {
	entries map[string]map[string]schedule.Location
	version uint64
}

// NewSnapshotBuilder starts an empty builder at the given snapshot version.
func NewSnapshotBuilder(version uint64) *SnapshotBuilder {
	return &SnapshotBuilder{
		entries: make(map[string]map[string]schedule.Location),
		version: version,
	}
}

// Set records one cell.
func (b *SnapshotBuilder) Set(userID, date string, loc schedule.Location) *SnapshotBuilder {
	cells, ok := b.entries[userID]
	if !ok {
		cells = make(map[string]schedule.Location)
		b.entries[userID] = cells
	}
	cells[date] = loc
	return b
}

// SetWeek records the same location for all five workdays of the week
// containing the given Monday date string (YYYY-MM-DD).
func (b *SnapshotBuilder) SetWeek(userID, monday string, loc schedule.Location) *SnapshotBuilder {
	day, err := time.Parse("2006-01-02", monday)
	if err != nil {
		return b
	}
	for i := 0; i < 5; i++ {
		b.Set(userID, day.AddDate(0, 0, i).Format("2006-01-02"), loc)
	}
	return b
}

// Build produces the immutable snapshot.
func (b *SnapshotBuilder) Build() *schedule.Snapshot {
	return schedule.NewSnapshot(b.entries, b.version)
}
