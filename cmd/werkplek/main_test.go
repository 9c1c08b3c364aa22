package main

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/EdwinCycling/WerkplekPlanner/internal/application"
	"github.com/EdwinCycling/WerkplekPlanner/internal/config"
	"github.com/EdwinCycling/WerkplekPlanner/internal/persistence"
)

func TestSeedAccount(t *testing.T) {
	t.Parallel()

	cfg := config.Config{
		SeedAdminEmail:    "admin@example.com",
		SeedAdminPassword: "bootstrap-secret",
		SeedAdminName:     "Admin",
	}

	t.Run("creates the account when missing", func(t *testing.T) {
		t.Parallel()

		repo := &seedRepoStub{lookupErr: persistence.ErrNotFound}
		err := seedAccount(context.Background(), repo, func() string { return "seed-id" }, cfg)
		if err != nil {
			t.Fatalf("seedAccount: %v", err)
		}

		if repo.created == nil {
			t.Fatal("no user was created")
		}
		if repo.created.ID != "seed-id" || repo.created.Email != "admin@example.com" || repo.created.DisplayName != "Admin" {
			t.Fatalf("created user = %+v", repo.created)
		}
		if err := application.VerifyPassword(repo.created.PasswordHash, "bootstrap-secret"); err != nil {
			t.Fatalf("seeded hash does not verify: %v", err)
		}
	})

	t.Run("keeps an existing account untouched", func(t *testing.T) {
		t.Parallel()

		repo := &seedRepoStub{existing: persistence.User{ID: "user-1", Email: "admin@example.com"}}
		if err := seedAccount(context.Background(), repo, func() string { return "seed-id" }, cfg); err != nil {
			t.Fatalf("seedAccount: %v", err)
		}
		if repo.created != nil {
			t.Fatalf("created user = %+v, want none", repo.created)
		}
	})

	t.Run("propagates lookup failures", func(t *testing.T) {
		t.Parallel()

		lookupErr := errors.New("database locked")
		repo := &seedRepoStub{lookupErr: lookupErr}
		if err := seedAccount(context.Background(), repo, func() string { return "seed-id" }, cfg); !errors.Is(err, lookupErr) {
			t.Fatalf("error = %v, want %v", err, lookupErr)
		}
		if repo.created != nil {
			t.Fatalf("created user = %+v, want none", repo.created)
		}
	})
}

func TestRandomHex(t *testing.T) {
	t.Parallel()

	first := randomHex(32)
	second := randomHex(32)
	if len(first) != 64 || len(second) != 64 {
		t.Fatalf("token lengths = %d/%d, want 64", len(first), len(second))
	}
	if first == second {
		t.Fatal("two generated tokens are identical")
	}
	if strings.Trim(first, "0123456789abcdef") != "" {
		t.Fatalf("token %q contains non-hex characters", first)
	}

	if got := randomHex(0); len(got) != 32 {
		t.Fatalf("default token length = %d, want 32", len(got))
	}
}

func TestMapPersistenceError(t *testing.T) {
	t.Parallel()

	opaque := errors.New("disk full")
	tests := []struct {
		name string
		in   error
		want error
	}{
		{name: "nil", in: nil, want: nil},
		{name: "not found", in: persistence.ErrNotFound, want: application.ErrNotFound},
		{name: "duplicate", in: persistence.ErrDuplicate, want: application.ErrAlreadyExists},
		{name: "opaque", in: opaque, want: opaque},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := mapPersistenceError(tc.in)
			if tc.want == nil {
				if got != nil {
					t.Fatalf("mapped error = %v, want nil", got)
				}
				return
			}
			if !errors.Is(got, tc.want) {
				t.Fatalf("mapped error = %v, want %v", got, tc.want)
			}
		})
	}
}

type seedRepoStub struct {
	existing  persistence.User
	lookupErr error
	created   *persistence.User
}

func (s *seedRepoStub) GetUserByEmail(context.Context, string) (persistence.User, error) {
	if s.lookupErr != nil {
		return persistence.User{}, s.lookupErr
	}
	return s.existing, nil
}

func (s *seedRepoStub) CreateUser(_ context.Context, user persistence.User) error {
	s.created = &user
	return nil
}

func (s *seedRepoStub) GetUser(context.Context, string) (persistence.User, error) {
	return persistence.User{}, persistence.ErrNotFound
}

func (s *seedRepoStub) ListUsers(context.Context) ([]persistence.User, error) {
	return nil, nil
}

func (s *seedRepoStub) UpdatePasswordHash(context.Context, string, string) error {
	return nil
}

func (s *seedRepoStub) DeleteUser(context.Context, string) error {
	return nil
}
