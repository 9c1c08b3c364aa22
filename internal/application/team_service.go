package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"unicode"
)

// UserDirectory exposes the account listing required by the team service.
type UserDirectory interface {
	ListUsers(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, id string) (User, error)
}

// TeamService lists the colleagues that share the workplace planner.
type TeamService struct {
	users  UserDirectory
	logger *slog.Logger
}

// NewTeamService constructs a TeamService.
func NewTeamService(users UserDirectory, logger *slog.Logger) *TeamService {
	return &TeamService{users: users, logger: defaultLogger(logger)}
}

// ListTeamMembers returns the whole team ordered by display name.
func (s *TeamService) ListTeamMembers(ctx context.Context) (members []TeamMember, err error) {
	if s == nil {
		err = fmt.Errorf("TeamService is nil")
		return
	}
	if s.users == nil {
		err = fmt.Errorf("user directory not configured")
		return
	}

	logger := serviceLogger(ctx, s.logger, "TeamService", "ListTeamMembers")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list team members", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("count", len(members)).InfoContext(ctx, "team members listed")
	}()

	var users []User
	users, err = s.users.ListUsers(ctx)
	if err != nil {
		return
	}

	members = make([]TeamMember, 0, len(users))
	for _, user := range users {
		members = append(members, TeamMember{
			ID:          user.ID,
			Email:       user.Email,
			DisplayName: MemberDisplayName(user),
		})
	}
	sort.SliceStable(members, func(i, j int) bool {
		return strings.ToLower(members[i].DisplayName) < strings.ToLower(members[j].DisplayName)
	})
	return
}

// GetTeamMember returns a single colleague by ID.
func (s *TeamService) GetTeamMember(ctx context.Context, id string) (TeamMember, error) {
	if s == nil {
		return TeamMember{}, fmt.Errorf("TeamService is nil")
	}
	if s.users == nil {
		return TeamMember{}, fmt.Errorf("user directory not configured")
	}

	user, err := s.users.GetUser(ctx, id)
	if err != nil {
		return TeamMember{}, err
	}
	return TeamMember{ID: user.ID, Email: user.Email, DisplayName: MemberDisplayName(user)}, nil
}

// MemberDisplayName resolves the name shown in listings. Accounts without a
// stored display name fall back to the capitalized local part of the email.
func MemberDisplayName(user User) string {
	if name := strings.TrimSpace(user.DisplayName); name != "" {
		return name
	}
	local, _, _ := strings.Cut(user.Email, "@")
	local = strings.TrimSpace(local)
	if local == "" {
		return user.Email
	}
	runes := []rune(local)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
