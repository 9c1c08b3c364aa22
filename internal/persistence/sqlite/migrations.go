package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// migration is one ordered schema step. Steps are applied exactly once, in
// ascending version order, inside a single transaction per step.
type migration struct {
	version int
	name    string
	stmts   []string
}

var migrations = []migration{
	{
		version: 1,
		name:    "create_users",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS users (
				id            TEXT PRIMARY KEY,
				email         TEXT NOT NULL UNIQUE,
				display_name  TEXT NOT NULL,
				password_hash TEXT NOT NULL,
				created_at    TEXT NOT NULL,
				updated_at    TEXT NOT NULL
			)`,
		},
	},
	{
		version: 2,
		name:    "create_schedule_entries",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS schedule_entries (
				user_id    TEXT NOT NULL REFERENCES users(id),
				date       TEXT NOT NULL CHECK (length(date) = 10),
				location   TEXT NOT NULL,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL,
				PRIMARY KEY (user_id, date)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_schedule_entries_date ON schedule_entries(date)`,
		},
	},
	{
		version: 3,
		name:    "create_sessions",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS sessions (
				id         TEXT PRIMARY KEY,
				user_id    TEXT NOT NULL REFERENCES users(id),
				token      TEXT NOT NULL UNIQUE,
				expires_at TEXT NOT NULL,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL,
				revoked_at TEXT
			)`,
			`CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions(user_id)`,
		},
	},
	{
		version: 4,
		name:    "create_password_resets",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS password_resets (
				token      TEXT PRIMARY KEY,
				user_id    TEXT NOT NULL REFERENCES users(id),
				expires_at TEXT NOT NULL,
				used_at    TEXT,
				created_at TEXT NOT NULL
			)`,
		},
	},
}

// Migrate brings the schema up to date, recording applied versions in
// schema_migrations so restarts are no-ops.
func (cp *ConnectionPool) Migrate(ctx context.Context) error {
	if _, err := cp.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		name       TEXT NOT NULL,
		applied_at TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("sqlite: failed to create schema_migrations: %w", err)
	}

	for _, m := range migrations {
		applied, err := cp.migrationApplied(ctx, m.version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		err = cp.WithTransaction(ctx, func(tx *sql.Tx) error {
			for _, stmt := range m.stmts {
				if _, err := tx.Exec(stmt); err != nil {
					return fmt.Errorf("sqlite: migration %d (%s) failed: %w", m.version, m.name, err)
				}
			}
			_, err := tx.Exec(
				`INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)`,
				m.version, m.name, time.Now().UTC().Format(time.RFC3339),
			)
			return err
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (cp *ConnectionPool) migrationApplied(ctx context.Context, version int) (bool, error) {
	var count int
	err := cp.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM schema_migrations WHERE version = ?`, version,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("sqlite: failed to inspect schema_migrations: %w", err)
	}
	return count > 0, nil
}
