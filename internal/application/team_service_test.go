package application

import (
	"context"
	"errors"
	"testing"
)

type userDirectoryStub struct {
	users   []User
	listErr error
	getErr  error
}

func (s *userDirectoryStub) ListUsers(context.Context) ([]User, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.users, nil
}

func (s *userDirectoryStub) GetUser(_ context.Context, id string) (User, error) {
	if s.getErr != nil {
		return User{}, s.getErr
	}
	for _, user := range s.users {
		if user.ID == id {
			return user, nil
		}
	}
	return User{}, ErrNotFound
}

func TestTeamService_ListTeamMembers(t *testing.T) {
	t.Parallel()

	t.Run("sorts case-insensitively by display name", func(t *testing.T) {
		t.Parallel()

		dir := &userDirectoryStub{users: []User{
			{ID: "u1", Email: "zoe@example.com", DisplayName: "zoe"},
			{ID: "u2", Email: "anna@example.com", DisplayName: "Anna"},
			{ID: "u3", Email: "bram@example.com"}, // falls back to "Bram"
		}}
		svc := NewTeamService(dir, nil)

		members, err := svc.ListTeamMembers(context.Background())
		if err != nil {
			t.Fatalf("ListTeamMembers failed: %v", err)
		}

		want := []string{"Anna", "Bram", "zoe"}
		if len(members) != len(want) {
			t.Fatalf("expected %d members, got %d", len(want), len(members))
		}
		for i, name := range want {
			if members[i].DisplayName != name {
				t.Fatalf("expected %q at position %d, got %q", name, i, members[i].DisplayName)
			}
		}
	})

	t.Run("propagates directory failures", func(t *testing.T) {
		t.Parallel()

		expected := errors.New("boom")
		svc := NewTeamService(&userDirectoryStub{listErr: expected}, nil)
		if _, err := svc.ListTeamMembers(context.Background()); !errors.Is(err, expected) {
			t.Fatalf("expected %v, got %v", expected, err)
		}
	})
}

func TestTeamService_GetTeamMember(t *testing.T) {
	t.Parallel()

	dir := &userDirectoryStub{users: []User{{ID: "u1", Email: "anna@example.com", DisplayName: "Anna"}}}
	svc := NewTeamService(dir, nil)

	member, err := svc.GetTeamMember(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetTeamMember failed: %v", err)
	}
	if member.DisplayName != "Anna" {
		t.Fatalf("expected Anna, got %q", member.DisplayName)
	}

	if _, err := svc.GetTeamMember(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemberDisplayName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		user User
		want string
	}{
		{User{DisplayName: "Edwin"}, "Edwin"},
		{User{DisplayName: "  Edwin  "}, "Edwin"},
		{User{Email: "edwin@example.com"}, "Edwin"},
		{User{Email: "édith@example.com"}, "Édith"},
		{User{Email: "@example.com"}, "@example.com"},
		{User{DisplayName: "   ", Email: "piet@example.com"}, "Piet"},
	}
	for _, tc := range cases {
		if got := MemberDisplayName(tc.user); got != tc.want {
			t.Fatalf("MemberDisplayName(%+v) = %q, want %q", tc.user, got, tc.want)
		}
	}
}
