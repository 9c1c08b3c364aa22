package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/EdwinCycling/WerkplekPlanner/internal/persistence"
	"github.com/EdwinCycling/WerkplekPlanner/internal/persistence/sqlite"
)

// SQLiteHarness provides repository access backed by a temporary SQLite
// database for integration-style persistence tests.
type SQLiteHarness struct {
	Users    persistence.UserRepository
	Entries  persistence.ScheduleRepository
	Sessions persistence.SessionRepository
	Resets   persistence.PasswordResetRepository

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness constructs a harness over a temporary database file that
// is migrated automatically. A cleanup callback is registered with the
// provided testing.TB.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	dir := tb.TempDir()
	path := filepath.Join(dir, "werkplek.db")

	pool, err := sqlite.NewConnectionPool(path)
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}

	if err := pool.Migrate(context.Background()); err != nil {
		_ = pool.Close()
		tb.Fatalf("failed to migrate storage: %v", err)
	}

	harness := &SQLiteHarness{
		Users:    sqlite.NewUserRepository(pool),
		Entries:  sqlite.NewScheduleRepository(pool),
		Sessions: sqlite.NewSessionRepository(pool),
		Resets:   sqlite.NewPasswordResetRepository(pool),
		cleanup: func() {
			_ = pool.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}
