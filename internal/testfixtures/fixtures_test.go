package testfixtures

import (
	"testing"
	"time"

	"github.com/EdwinCycling/WerkplekPlanner/internal/schedule"
)

func TestClock(t *testing.T) {
	t.Parallel()

	t.Run("zero start falls back to the reference time", func(t *testing.T) {
		t.Parallel()

		clock := NewClock(time.Time{})
		if got := clock.Now(); !got.Equal(ReferenceTime()) {
			t.Fatalf("Now() = %v, want %v", got, ReferenceTime())
		}
	})

	t.Run("advance and set move the clock", func(t *testing.T) {
		t.Parallel()

		start := time.Date(2024, time.June, 1, 8, 0, 0, 0, time.UTC)
		clock := NewClock(start)

		if got := clock.Advance(90 * time.Minute); !got.Equal(start.Add(90 * time.Minute)) {
			t.Fatalf("Advance = %v", got)
		}
		if got := clock.Now(); !got.Equal(start.Add(90 * time.Minute)) {
			t.Fatalf("Now after advance = %v", got)
		}

		later := start.AddDate(0, 0, 7)
		clock.Set(later)
		if got := clock.NowFunc()(); !got.Equal(later) {
			t.Fatalf("Now after set = %v, want %v", got, later)
		}
	})

	t.Run("nil clock yields the real time source", func(t *testing.T) {
		t.Parallel()

		var clock *Clock
		if clock.NowFunc() == nil {
			t.Fatal("NowFunc on nil clock returned nil")
		}
	})
}

func TestIDGenerator(t *testing.T) {
	t.Parallel()

	generator := NewIDGenerator("session")
	if got := generator.Next(); got != "session-1" {
		t.Fatalf("first id = %q, want session-1", got)
	}
	if got := generator.Next(); got != "session-2" {
		t.Fatalf("second id = %q, want session-2", got)
	}

	next := NewIDGenerator("").NextFunc()
	if got := next(); got != "id-1" {
		t.Fatalf("default prefix id = %q, want id-1", got)
	}
}

func TestUserFixture(t *testing.T) {
	t.Parallel()

	fixture := NewUserFixture(
		WithUserID("user-9"),
		WithUserEmail("Anna@Example.com"),
		WithUserDisplayName("Anna"),
	)

	stored := fixture.Persistence()
	if stored.ID != "user-9" || stored.Email != "Anna@Example.com" || stored.DisplayName != "Anna" {
		t.Fatalf("persistence user = %+v", stored)
	}
	if stored.PasswordHash == "" {
		t.Fatal("default password hash is empty")
	}

	member := fixture.Member()
	if member.ID != "user-9" || member.DisplayName != "Anna" {
		t.Fatalf("member = %+v", member)
	}
	if principal := fixture.Principal(); principal.UserID != "user-9" {
		t.Fatalf("principal = %+v", principal)
	}
	if creds := fixture.Credentials(); creds.User.ID != "user-9" || creds.PasswordHash != stored.PasswordHash {
		t.Fatalf("credentials = %+v", creds)
	}
}

func TestSnapshotBuilder(t *testing.T) {
	t.Parallel()

	snap := NewSnapshotBuilder(7).
		Set("user-1", "2024-01-08", schedule.LocationUtrecht).
		SetWeek("user-2", "2024-01-08", schedule.LocationOff).
		Build()

	if snap.Version() != 7 {
		t.Fatalf("version = %d, want 7", snap.Version())
	}
	if loc, ok := snap.Lookup("user-1", "2024-01-08"); !ok || loc != schedule.LocationUtrecht {
		t.Fatalf("user-1 cell = %q (present=%v)", loc, ok)
	}
	for _, date := range []string{"2024-01-08", "2024-01-09", "2024-01-10", "2024-01-11", "2024-01-12"} {
		if loc, ok := snap.Lookup("user-2", date); !ok || loc != schedule.LocationOff {
			t.Fatalf("user-2 %s = %q (present=%v), want off", date, loc, ok)
		}
	}
	if _, ok := snap.Lookup("user-2", "2024-01-13"); ok {
		t.Fatal("SetWeek wrote beyond the workweek")
	}

	// A malformed Monday string leaves the builder untouched.
	empty := NewSnapshotBuilder(1).SetWeek("user-3", "08-01-2024", schedule.LocationHome).Build()
	if len(empty.Entries()) != 0 {
		t.Fatalf("entries = %v, want none", empty.Entries())
	}
}
