package application

import (
	"time"

	"github.com/EdwinCycling/WerkplekPlanner/internal/calendar"
	"github.com/EdwinCycling/WerkplekPlanner/internal/schedule"
)

// Principal represents the authenticated user invoking a service method.
type Principal struct {
	UserID string
}

// User represents an employee account exposed by the application services.
type User struct {
	ID          string
	Email       string
	DisplayName string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UserCredentials models the authentication attributes persisted for a user.
type UserCredentials struct {
	User         User
	PasswordHash string
}

// Session represents an authenticated session issued to a user.
type Session struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}

// AuthenticateParams captures the data required to authenticate a user.
type AuthenticateParams struct {
	Email    string
	Password string
}

// AuthenticateResult captures the outcome of a successful authentication attempt.
type AuthenticateResult struct {
	User    User
	Session Session
}

// ChangePasswordParams captures the data required to change a password.
type ChangePasswordParams struct {
	Principal       Principal
	CurrentPassword string
	NewPassword     string
}

// RequestPasswordResetParams captures the data required to start a password reset.
type RequestPasswordResetParams struct {
	Email string
}

// RequestPasswordResetResult carries the issued reset token.
type RequestPasswordResetResult struct {
	Token     string
	ExpiresAt time.Time
}

// CompletePasswordResetParams captures the data required to finish a password reset.
type CompletePasswordResetParams struct {
	Token       string
	NewPassword string
}

// TeamMember is a colleague entry shown in the team listing.
type TeamMember struct {
	ID          string
	Email       string
	DisplayName string
}

// UpdateEntryParams captures a single schedule cell write.
type UpdateEntryParams struct {
	Principal Principal
	UserID    string
	Date      string
	Location  schedule.Location
}

// ClearEntryParams captures a single schedule cell removal.
type ClearEntryParams struct {
	Principal Principal
	UserID    string
	Date      string
}

// CopyWeekParams captures the request to copy one week's entries onto another.
type CopyWeekParams struct {
	Principal  Principal
	SourceDate string
	TargetDate string
}

// MarkWeekOffParams captures the request to mark a full workweek as vacation.
type MarkWeekOffParams struct {
	Principal Principal
	Date      string
}

// DayEntry pairs a team member with their location on one date.
type DayEntry struct {
	Member   TeamMember
	Location schedule.Location
}

// DayOverview lists where everyone is on a single date.
type DayOverview struct {
	Date        string
	Relative    calendar.RelativeDay
	Holiday     string
	Entries     []DayEntry
	ByOffice    map[schedule.Location][]TeamMember
	Vacationing []TeamMember
}

// WeekRow is one member's locations across the workdays of a week.
type WeekRow struct {
	Member      TeamMember
	Locations   [5]schedule.Location
	Vacationing bool
}

// WeekOverview lists the full team across one Monday-start workweek.
type WeekOverview struct {
	WeekStart  string
	WeekNumber int
	Workdays   [5]string
	Holidays   [5]string
	Rows       []WeekRow
}

// UpcomingOffDay is a planned absence in the near future.
type UpcomingOffDay struct {
	Member TeamMember
	Date   string
}

// Insights aggregates team-wide statistics over one calendar year.
type Insights struct {
	Year                int
	LocationPopularity  map[schedule.Location]int
	MonthlyVacations    [12]int
	TopVacationDays     []schedule.DateCount
	RemoteWorkByWeekday [5]int
	UpcomingOffDays     []UpcomingOffDay
	VacationingThisWeek []TeamMember
}
