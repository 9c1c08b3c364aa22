package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/EdwinCycling/WerkplekPlanner/internal/persistence"
	"github.com/EdwinCycling/WerkplekPlanner/internal/testfixtures"
)

func seedUser(t *testing.T, h *testfixtures.SQLiteHarness, id, email string) persistence.User {
	t.Helper()
	user := testfixtures.NewUserFixture(
		testfixtures.WithUserID(id),
		testfixtures.WithUserEmail(email),
	).Persistence()
	if err := h.Users.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return user
}

func TestUserRepository(t *testing.T) {
	t.Parallel()

	t.Run("round-trips a user", func(t *testing.T) {
		t.Parallel()

		harness := testfixtures.NewSQLiteHarness(t)
		seedUser(t, harness, "user-1", "Anna@Example.com")

		stored, err := harness.Users.GetUser(context.Background(), "user-1")
		if err != nil {
			t.Fatalf("GetUser failed: %v", err)
		}
		if stored.Email != "anna@example.com" {
			t.Fatalf("expected the email to be normalized, got %q", stored.Email)
		}
		if stored.CreatedAt.IsZero() || stored.UpdatedAt.IsZero() {
			t.Fatalf("expected timestamps to be set")
		}

		byEmail, err := harness.Users.GetUserByEmail(context.Background(), "  ANNA@example.COM ")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if byEmail.ID != "user-1" {
			t.Fatalf("expected user-1, got %q", byEmail.ID)
		}
	})

	t.Run("rejects duplicate emails", func(t *testing.T) {
		t.Parallel()

		harness := testfixtures.NewSQLiteHarness(t)
		seedUser(t, harness, "user-1", "anna@example.com")

		dup := testfixtures.NewUserFixture(
			testfixtures.WithUserID("user-2"),
			testfixtures.WithUserEmail("ANNA@example.com"),
		).Persistence()
		err := harness.Users.CreateUser(context.Background(), dup)
		if !errors.Is(err, persistence.ErrDuplicate) {
			t.Fatalf("expected ErrDuplicate, got %v", err)
		}
	})

	t.Run("lists users in creation order", func(t *testing.T) {
		t.Parallel()

		harness := testfixtures.NewSQLiteHarness(t)
		seedUser(t, harness, "user-a", "a@example.com")
		seedUser(t, harness, "user-b", "b@example.com")

		users, err := harness.Users.ListUsers(context.Background())
		if err != nil {
			t.Fatalf("ListUsers failed: %v", err)
		}
		if len(users) != 2 || users[0].ID != "user-a" || users[1].ID != "user-b" {
			t.Fatalf("unexpected listing: %#v", users)
		}
	})

	t.Run("updates the password hash", func(t *testing.T) {
		t.Parallel()

		harness := testfixtures.NewSQLiteHarness(t)
		seedUser(t, harness, "user-1", "anna@example.com")

		if err := harness.Users.UpdatePasswordHash(context.Background(), "user-1", "new-hash"); err != nil {
			t.Fatalf("UpdatePasswordHash failed: %v", err)
		}
		stored, err := harness.Users.GetUser(context.Background(), "user-1")
		if err != nil {
			t.Fatalf("GetUser failed: %v", err)
		}
		if stored.PasswordHash != "new-hash" {
			t.Fatalf("expected the hash to change, got %q", stored.PasswordHash)
		}

		err = harness.Users.UpdatePasswordHash(context.Background(), "ghost", "hash")
		if !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("deletes a user with dependent rows", func(t *testing.T) {
		t.Parallel()

		harness := testfixtures.NewSQLiteHarness(t)
		ctx := context.Background()
		seedUser(t, harness, "user-1", "anna@example.com")

		if err := harness.Entries.UpsertEntry(ctx, persistence.ScheduleEntry{
			UserID:   "user-1",
			Date:     "2024-01-02",
			Location: "home",
		}); err != nil {
			t.Fatalf("UpsertEntry failed: %v", err)
		}
		if _, err := harness.Sessions.CreateSession(ctx, persistence.Session{
			ID:        "s1",
			UserID:    "user-1",
			Token:     "token-1",
			ExpiresAt: time.Now().Add(time.Hour),
		}); err != nil {
			t.Fatalf("CreateSession failed: %v", err)
		}

		if err := harness.Users.DeleteUser(ctx, "user-1"); err != nil {
			t.Fatalf("DeleteUser failed: %v", err)
		}
		if _, err := harness.Users.GetUser(ctx, "user-1"); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if _, err := harness.Sessions.GetSession(ctx, "token-1"); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected the session to be gone, got %v", err)
		}
		entries, err := harness.Entries.ListEntries(ctx, []string{"user-1"})
		if err != nil {
			t.Fatalf("ListEntries failed: %v", err)
		}
		if len(entries) != 0 {
			t.Fatalf("expected no entries, got %#v", entries)
		}
	})
}

func TestScheduleRepository(t *testing.T) {
	t.Parallel()

	t.Run("upserts are idempotent per cell", func(t *testing.T) {
		t.Parallel()

		harness := testfixtures.NewSQLiteHarness(t)
		ctx := context.Background()
		seedUser(t, harness, "user-1", "anna@example.com")

		entry := persistence.ScheduleEntry{UserID: "user-1", Date: "2024-01-02", Location: "home"}
		for i := 0; i < 2; i++ {
			if err := harness.Entries.UpsertEntry(ctx, entry); err != nil {
				t.Fatalf("UpsertEntry failed: %v", err)
			}
		}

		entry.Location = "delft"
		if err := harness.Entries.UpsertEntry(ctx, entry); err != nil {
			t.Fatalf("UpsertEntry failed: %v", err)
		}

		entries, err := harness.Entries.ListEntries(ctx, []string{"user-1"})
		if err != nil {
			t.Fatalf("ListEntries failed: %v", err)
		}
		if len(entries) != 1 || entries[0].Location != "delft" {
			t.Fatalf("expected a single delft entry, got %#v", entries)
		}
	})

	t.Run("lists entries for a set of users", func(t *testing.T) {
		t.Parallel()

		harness := testfixtures.NewSQLiteHarness(t)
		ctx := context.Background()
		seedUser(t, harness, "user-a", "a@example.com")
		seedUser(t, harness, "user-b", "b@example.com")
		seedUser(t, harness, "user-c", "c@example.com")

		for _, entry := range []persistence.ScheduleEntry{
			{UserID: "user-b", Date: "2024-01-03", Location: "off"},
			{UserID: "user-a", Date: "2024-01-02", Location: "home"},
			{UserID: "user-a", Date: "2024-01-03", Location: "utrecht"},
			{UserID: "user-c", Date: "2024-01-02", Location: "home"},
		} {
			if err := harness.Entries.UpsertEntry(ctx, entry); err != nil {
				t.Fatalf("UpsertEntry failed: %v", err)
			}
		}

		entries, err := harness.Entries.ListEntries(ctx, []string{"user-a", "user-b"})
		if err != nil {
			t.Fatalf("ListEntries failed: %v", err)
		}
		if len(entries) != 3 {
			t.Fatalf("expected 3 entries, got %#v", entries)
		}
		// Ordered by user then date; user-c is filtered out.
		if entries[0].UserID != "user-a" || entries[0].Date != "2024-01-02" {
			t.Fatalf("unexpected first entry %#v", entries[0])
		}
		if entries[2].UserID != "user-b" {
			t.Fatalf("unexpected last entry %#v", entries[2])
		}

		empty, err := harness.Entries.ListEntries(ctx, nil)
		if err != nil {
			t.Fatalf("ListEntries failed: %v", err)
		}
		if len(empty) != 0 {
			t.Fatalf("expected no entries for an empty user set, got %#v", empty)
		}
	})

	t.Run("deletes a cell", func(t *testing.T) {
		t.Parallel()

		harness := testfixtures.NewSQLiteHarness(t)
		ctx := context.Background()
		seedUser(t, harness, "user-1", "anna@example.com")

		entry := persistence.ScheduleEntry{UserID: "user-1", Date: "2024-01-02", Location: "home"}
		if err := harness.Entries.UpsertEntry(ctx, entry); err != nil {
			t.Fatalf("UpsertEntry failed: %v", err)
		}
		if err := harness.Entries.DeleteEntry(ctx, "user-1", "2024-01-02"); err != nil {
			t.Fatalf("DeleteEntry failed: %v", err)
		}
		err := harness.Entries.DeleteEntry(ctx, "user-1", "2024-01-02")
		if !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestSessionRepository(t *testing.T) {
	t.Parallel()

	t.Run("creates, revokes and expires sessions", func(t *testing.T) {
		t.Parallel()

		harness := testfixtures.NewSQLiteHarness(t)
		ctx := context.Background()
		seedUser(t, harness, "user-1", "anna@example.com")

		created, err := harness.Sessions.CreateSession(ctx, persistence.Session{
			ID:        "s1",
			UserID:    "user-1",
			Token:     "token-1",
			ExpiresAt: time.Now().Add(time.Hour),
		})
		if err != nil {
			t.Fatalf("CreateSession failed: %v", err)
		}
		if created.RevokedAt != nil {
			t.Fatalf("expected a fresh session not to be revoked")
		}

		fetched, err := harness.Sessions.GetSession(ctx, "token-1")
		if err != nil {
			t.Fatalf("GetSession failed: %v", err)
		}
		if fetched.UserID != "user-1" {
			t.Fatalf("unexpected session %#v", fetched)
		}

		revoked, err := harness.Sessions.RevokeSession(ctx, "token-1", time.Now())
		if err != nil {
			t.Fatalf("RevokeSession failed: %v", err)
		}
		if revoked.RevokedAt == nil {
			t.Fatalf("expected the revocation timestamp to be set")
		}

		// Revoking twice finds no active session.
		if _, err := harness.Sessions.RevokeSession(ctx, "token-1", time.Now()); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected ErrNotFound on double revoke, got %v", err)
		}
	})

	t.Run("revokes all sessions of a user", func(t *testing.T) {
		t.Parallel()

		harness := testfixtures.NewSQLiteHarness(t)
		ctx := context.Background()
		seedUser(t, harness, "user-1", "anna@example.com")

		for _, token := range []string{"token-1", "token-2"} {
			if _, err := harness.Sessions.CreateSession(ctx, persistence.Session{
				ID:        "id-" + token,
				UserID:    "user-1",
				Token:     token,
				ExpiresAt: time.Now().Add(time.Hour),
			}); err != nil {
				t.Fatalf("CreateSession failed: %v", err)
			}
		}

		if err := harness.Sessions.RevokeSessionsForUser(ctx, "user-1", time.Now()); err != nil {
			t.Fatalf("RevokeSessionsForUser failed: %v", err)
		}
		for _, token := range []string{"token-1", "token-2"} {
			session, err := harness.Sessions.GetSession(ctx, token)
			if err != nil {
				t.Fatalf("GetSession failed: %v", err)
			}
			if session.RevokedAt == nil {
				t.Fatalf("expected %s to be revoked", token)
			}
		}
	})

	t.Run("prunes expired sessions", func(t *testing.T) {
		t.Parallel()

		harness := testfixtures.NewSQLiteHarness(t)
		ctx := context.Background()
		seedUser(t, harness, "user-1", "anna@example.com")

		if _, err := harness.Sessions.CreateSession(ctx, persistence.Session{
			ID:        "s1",
			UserID:    "user-1",
			Token:     "stale",
			ExpiresAt: time.Now().Add(-time.Hour),
		}); err != nil {
			t.Fatalf("CreateSession failed: %v", err)
		}
		if _, err := harness.Sessions.CreateSession(ctx, persistence.Session{
			ID:        "s2",
			UserID:    "user-1",
			Token:     "live",
			ExpiresAt: time.Now().Add(time.Hour),
		}); err != nil {
			t.Fatalf("CreateSession failed: %v", err)
		}

		if err := harness.Sessions.DeleteExpiredSessions(ctx, time.Now()); err != nil {
			t.Fatalf("DeleteExpiredSessions failed: %v", err)
		}
		if _, err := harness.Sessions.GetSession(ctx, "stale"); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected the stale session to be gone, got %v", err)
		}
		if _, err := harness.Sessions.GetSession(ctx, "live"); err != nil {
			t.Fatalf("expected the live session to survive, got %v", err)
		}
	})
}

func TestPasswordResetRepository(t *testing.T) {
	t.Parallel()

	t.Run("single-use tokens", func(t *testing.T) {
		t.Parallel()

		harness := testfixtures.NewSQLiteHarness(t)
		ctx := context.Background()
		seedUser(t, harness, "user-1", "anna@example.com")

		if err := harness.Resets.CreateReset(ctx, persistence.PasswordReset{
			Token:     "reset-1",
			UserID:    "user-1",
			ExpiresAt: time.Now().Add(time.Hour),
		}); err != nil {
			t.Fatalf("CreateReset failed: %v", err)
		}

		stored, err := harness.Resets.GetReset(ctx, "reset-1")
		if err != nil {
			t.Fatalf("GetReset failed: %v", err)
		}
		if stored.UserID != "user-1" || stored.UsedAt != nil {
			t.Fatalf("unexpected reset %#v", stored)
		}

		if err := harness.Resets.MarkResetUsed(ctx, "reset-1", time.Now()); err != nil {
			t.Fatalf("MarkResetUsed failed: %v", err)
		}
		stored, err = harness.Resets.GetReset(ctx, "reset-1")
		if err != nil {
			t.Fatalf("GetReset failed: %v", err)
		}
		if stored.UsedAt == nil {
			t.Fatalf("expected the token to be marked used")
		}

		// The guard on used_at makes a second consumption fail.
		if err := harness.Resets.MarkResetUsed(ctx, "reset-1", time.Now()); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected ErrNotFound on reuse, got %v", err)
		}
	})

	t.Run("prunes expired tokens", func(t *testing.T) {
		t.Parallel()

		harness := testfixtures.NewSQLiteHarness(t)
		ctx := context.Background()
		seedUser(t, harness, "user-1", "anna@example.com")

		if err := harness.Resets.CreateReset(ctx, persistence.PasswordReset{
			Token:     "stale",
			UserID:    "user-1",
			ExpiresAt: time.Now().Add(-time.Minute),
		}); err != nil {
			t.Fatalf("CreateReset failed: %v", err)
		}
		if err := harness.Resets.DeleteExpiredResets(ctx, time.Now()); err != nil {
			t.Fatalf("DeleteExpiredResets failed: %v", err)
		}
		if _, err := harness.Resets.GetReset(ctx, "stale"); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected the stale token to be gone, got %v", err)
		}
	})
}
