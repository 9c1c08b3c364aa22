package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/EdwinCycling/WerkplekPlanner/internal/calendar"
	"github.com/EdwinCycling/WerkplekPlanner/internal/holiday"
	"github.com/EdwinCycling/WerkplekPlanner/internal/schedule"
)

// StoredEntry is a persisted schedule cell as the store reports it.
type StoredEntry struct {
	UserID   string
	Date     string
	Location schedule.Location
}

// ScheduleStore captures the persistence interactions for schedule cells.
type ScheduleStore interface {
	UpsertEntry(ctx context.Context, userID, date string, loc schedule.Location) error
	DeleteEntry(ctx context.Context, userID, date string) error
	ListEntries(ctx context.Context, userIDs []string) ([]StoredEntry, error)
}

// TeamDirectory lists the colleagues whose schedules the service aggregates.
type TeamDirectory interface {
	ListTeamMembers(ctx context.Context) ([]TeamMember, error)
}

// ScheduleService orchestrates the shared workplace schedule: it loads the
// persisted entries into an immutable snapshot, applies holiday prefill,
// accepts cell writes and serves the derived day, week and insight views.
type ScheduleService struct {
	store        ScheduleStore
	team         TeamDirectory
	now          func() time.Time
	location     *time.Location
	horizonWeeks int
	prefillYears int
	logger       *slog.Logger
	cache        *viewCache

	mu      sync.RWMutex
	current *schedule.Snapshot
}

// ScheduleServiceConfig bundles the dependencies of a ScheduleService.
type ScheduleServiceConfig struct {
	Store        ScheduleStore
	Team         TeamDirectory
	Now          func() time.Time
	Location     *time.Location
	HorizonWeeks int
	PrefillYears int
	CacheSize    int
	Logger       *slog.Logger
}

// NewScheduleService constructs a ScheduleService.
func NewScheduleService(cfg ScheduleServiceConfig) *ScheduleService {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.HorizonWeeks <= 0 {
		cfg.HorizonWeeks = 13
	}
	if cfg.PrefillYears <= 0 {
		cfg.PrefillYears = 7
	}
	return &ScheduleService{
		store:        cfg.Store,
		team:         cfg.Team,
		now:          cfg.Now,
		location:     cfg.Location,
		horizonWeeks: cfg.HorizonWeeks,
		prefillYears: cfg.PrefillYears,
		logger:       defaultLogger(cfg.Logger),
		cache:        newViewCache(cfg.CacheSize),
		current:      schedule.NewSnapshot(nil, 0),
	}
}

func (s *ScheduleService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ScheduleService", operation, attrs...)
}

// Snapshot returns the current immutable schedule snapshot.
func (s *ScheduleService) Snapshot() *schedule.Snapshot {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// LoadSnapshot reads every team member's entries from the store, applies the
// holiday prefill and installs the result as the current snapshot. Derived
// holiday cells live only in memory; they are never written back.
func (s *ScheduleService) LoadSnapshot(ctx context.Context) (err error) {
	if s == nil {
		return fmt.Errorf("ScheduleService is nil")
	}
	if s.store == nil {
		return fmt.Errorf("schedule store not configured")
	}
	if s.team == nil {
		return fmt.Errorf("team directory not configured")
	}

	logger := s.loggerWith(ctx, "LoadSnapshot")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to load schedule snapshot", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "schedule snapshot loaded")
	}()

	var members []TeamMember
	members, err = s.team.ListTeamMembers(ctx)
	if err != nil {
		return
	}
	userIDs := make([]string, len(members))
	for i, member := range members {
		userIDs[i] = member.ID
	}

	var stored []StoredEntry
	stored, err = s.store.ListEntries(ctx, userIDs)
	if err != nil {
		return
	}

	entries := make(map[string]map[string]schedule.Location, len(members))
	for _, id := range userIDs {
		entries[id] = make(map[string]schedule.Location)
	}
	for _, entry := range stored {
		cells, ok := entries[entry.UserID]
		if !ok {
			cells = make(map[string]schedule.Location)
			entries[entry.UserID] = cells
		}
		cells[entry.Date] = entry.Location
	}

	s.prefillHolidays(entries)

	s.mu.Lock()
	version := s.current.Version() + 1
	s.current = schedule.NewSnapshot(entries, version)
	s.mu.Unlock()
	return
}

// prefillHolidays marks weekday public holidays in the configured span as
// derived holiday cells wherever no explicit entry exists.
func (s *ScheduleService) prefillHolidays(entries map[string]map[string]schedule.Location) {
	firstYear := s.now().In(s.location).Year()
	holidays, err := holiday.ForSpan(firstYear, firstYear+s.prefillYears-1)
	if err != nil {
		return
	}
	for date := range holidays {
		day, err := calendar.ParseDate(date, s.location)
		if err != nil || !calendar.IsWorkday(day) {
			continue
		}
		for _, cells := range entries {
			if _, ok := cells[date]; !ok {
				cells[date] = schedule.LocationHoliday
			}
		}
	}
}

// UpdateEntry validates and persists one schedule cell for the acting user.
// The in-memory snapshot is merged optimistically before the write; a store
// failure is returned and logged but the merge is not rolled back.
func (s *ScheduleService) UpdateEntry(ctx context.Context, params UpdateEntryParams) (err error) {
	if s == nil {
		return fmt.Errorf("ScheduleService is nil")
	}
	if s.store == nil {
		return fmt.Errorf("schedule store not configured")
	}

	logger := s.loggerWith(ctx, "UpdateEntry",
		"user_id", params.UserID,
		"date", params.Date,
		"location", string(params.Location),
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "schedule update failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "schedule entry updated")
	}()

	if params.Principal.UserID == "" || params.Principal.UserID != params.UserID {
		err = ErrUnauthorized
		return
	}

	if _, err = s.validateEntry(params.Date, params.Location); err != nil {
		return
	}

	s.mu.Lock()
	s.current = s.current.WithEntry(params.UserID, params.Date, params.Location)
	s.mu.Unlock()

	if err = s.store.UpsertEntry(ctx, params.UserID, params.Date, params.Location); err != nil {
		logger.ErrorContext(ctx, "snapshot retains unpersisted entry", "error", err)
		return
	}
	return
}

// ClearEntry removes one explicit schedule cell for the acting user. Derived
// holiday cells cannot be cleared; asking for one, or for a cell that was
// never set, reports ErrNotFound. As with UpdateEntry the in-memory snapshot
// is updated before the write and a store failure is not rolled back.
func (s *ScheduleService) ClearEntry(ctx context.Context, params ClearEntryParams) (err error) {
	if s == nil {
		return fmt.Errorf("ScheduleService is nil")
	}
	if s.store == nil {
		return fmt.Errorf("schedule store not configured")
	}

	logger := s.loggerWith(ctx, "ClearEntry",
		"user_id", params.UserID,
		"date", params.Date,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "schedule entry clear failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "schedule entry cleared")
	}()

	if params.Principal.UserID == "" || params.Principal.UserID != params.UserID {
		err = ErrUnauthorized
		return
	}

	if _, err = calendar.ParseDate(params.Date, s.location); err != nil {
		vErr := &ValidationError{}
		vErr.add("date", "invalid date")
		err = vErr
		return
	}

	loc, ok := s.Snapshot().Lookup(params.UserID, params.Date)
	if !ok || loc == schedule.LocationHoliday {
		err = ErrNotFound
		return
	}

	s.mu.Lock()
	s.current = s.current.WithoutEntry(params.UserID, params.Date)
	s.mu.Unlock()

	if err = s.store.DeleteEntry(ctx, params.UserID, params.Date); err != nil {
		logger.ErrorContext(ctx, "snapshot dropped unpersisted removal", "error", err)
		return
	}
	return
}

// CopyWeek copies the acting user's entries from the week containing the
// source date onto the same weekdays of the week containing the target date.
// Unset source cells and derived holiday cells are skipped.
func (s *ScheduleService) CopyWeek(ctx context.Context, params CopyWeekParams) (err error) {
	if s == nil {
		return fmt.Errorf("ScheduleService is nil")
	}

	logger := s.loggerWith(ctx, "CopyWeek",
		"user_id", params.Principal.UserID,
		"source", params.SourceDate,
		"target", params.TargetDate,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "week copy failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "week copied")
	}()

	if params.Principal.UserID == "" {
		err = ErrUnauthorized
		return
	}

	var source, target time.Time
	if source, err = calendar.ParseDate(params.SourceDate, s.location); err != nil {
		vErr := &ValidationError{}
		vErr.add("sourceDate", "invalid date")
		err = vErr
		return
	}
	if target, err = calendar.ParseDate(params.TargetDate, s.location); err != nil {
		vErr := &ValidationError{}
		vErr.add("targetDate", "invalid date")
		err = vErr
		return
	}

	sourceDays := calendar.WorkdaysOfWeek(source)
	targetDays := calendar.WorkdaysOfWeek(target)
	snap := s.Snapshot()

	for i := range sourceDays {
		loc, ok := snap.Lookup(params.Principal.UserID, calendar.DateString(sourceDays[i]))
		if !ok || loc == schedule.LocationHoliday {
			continue
		}
		writeErr := s.UpdateEntry(ctx, UpdateEntryParams{
			Principal: params.Principal,
			UserID:    params.Principal.UserID,
			Date:      calendar.DateString(targetDays[i]),
			Location:  loc,
		})
		if writeErr != nil {
			err = writeErr
			return
		}
	}
	return
}

// MarkWeekOff marks every workday of the week containing the given date as
// planned vacation for the acting user. Public holidays are left alone.
func (s *ScheduleService) MarkWeekOff(ctx context.Context, params MarkWeekOffParams) (err error) {
	if s == nil {
		return fmt.Errorf("ScheduleService is nil")
	}

	logger := s.loggerWith(ctx, "MarkWeekOff",
		"user_id", params.Principal.UserID,
		"date", params.Date,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "mark week off failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "week marked off")
	}()

	if params.Principal.UserID == "" {
		err = ErrUnauthorized
		return
	}

	var day time.Time
	if day, err = calendar.ParseDate(params.Date, s.location); err != nil {
		vErr := &ValidationError{}
		vErr.add("date", "invalid date")
		err = vErr
		return
	}

	holidays := s.holidaysForYears(day.Year(), day.Year())
	for _, workday := range calendar.WorkdaysOfWeek(day) {
		date := calendar.DateString(workday)
		if holidays.Contains(date) {
			continue
		}
		writeErr := s.UpdateEntry(ctx, UpdateEntryParams{
			Principal: params.Principal,
			UserID:    params.Principal.UserID,
			Date:      date,
			Location:  schedule.LocationScheduledOff,
		})
		if writeErr != nil {
			err = writeErr
			return
		}
	}
	return
}

// DayOverview reports where every team member is on the given date.
func (s *ScheduleService) DayOverview(ctx context.Context, date string) (DayOverview, error) {
	if s == nil {
		return DayOverview{}, fmt.Errorf("ScheduleService is nil")
	}
	if s.team == nil {
		return DayOverview{}, fmt.Errorf("team directory not configured")
	}

	day, err := calendar.ParseDate(date, s.location)
	if err != nil {
		vErr := &ValidationError{}
		vErr.add("date", "invalid date")
		return DayOverview{}, vErr
	}

	snap := s.Snapshot()
	key := dayViewKey(snap.Version(), date)
	if cached, ok := s.cache.Get(key); ok {
		if view, ok := cached.(DayOverview); ok {
			return view, nil
		}
	}

	members, err := s.team.ListTeamMembers(ctx)
	if err != nil {
		return DayOverview{}, err
	}

	today := calendar.StartOfDay(s.now().In(s.location))
	holidays := s.holidaysForYears(day.Year(), day.Year())

	view := DayOverview{
		Date:     date,
		Relative: calendar.Relative(day, today),
		ByOffice: make(map[schedule.Location][]TeamMember),
	}
	if name, ok := holidays.Lookup(date); ok {
		view.Holiday = string(name)
	}

	workdays := calendar.WorkdaysOfWeek(day)
	memberByID := make(map[string]TeamMember, len(members))
	userIDs := make([]string, len(members))
	for i, member := range members {
		memberByID[member.ID] = member
		userIDs[i] = member.ID

		loc, _ := snap.Lookup(member.ID, date)
		view.Entries = append(view.Entries, DayEntry{Member: member, Location: loc})
		if loc.IsWorkplace() {
			view.ByOffice[loc] = append(view.ByOffice[loc], member)
		}
	}
	for _, id := range schedule.VacationingInWeek(snap, userIDs, workdays[:]) {
		if member, ok := memberByID[id]; ok {
			view.Vacationing = append(view.Vacationing, member)
		}
	}

	s.cache.Store(key, view)
	return view, nil
}

// WeekOverview reports the full team across the Monday-start week containing
// the given date.
func (s *ScheduleService) WeekOverview(ctx context.Context, date string) (WeekOverview, error) {
	if s == nil {
		return WeekOverview{}, fmt.Errorf("ScheduleService is nil")
	}
	if s.team == nil {
		return WeekOverview{}, fmt.Errorf("team directory not configured")
	}

	day, err := calendar.ParseDate(date, s.location)
	if err != nil {
		vErr := &ValidationError{}
		vErr.add("date", "invalid date")
		return WeekOverview{}, vErr
	}

	weekStart := calendar.StartOfWeek(day)
	snap := s.Snapshot()
	key := weekViewKey(snap.Version(), calendar.DateString(weekStart))
	if cached, ok := s.cache.Get(key); ok {
		if view, ok := cached.(WeekOverview); ok {
			return view, nil
		}
	}

	members, err := s.team.ListTeamMembers(ctx)
	if err != nil {
		return WeekOverview{}, err
	}

	workdays := calendar.WorkdaysOfWeek(day)
	holidays := s.holidaysForYears(workdays[0].Year(), workdays[4].Year())

	view := WeekOverview{
		WeekStart:  calendar.DateString(weekStart),
		WeekNumber: calendar.WeekNumber(weekStart),
	}
	for i, workday := range workdays {
		view.Workdays[i] = calendar.DateString(workday)
		if name, ok := holidays.Lookup(view.Workdays[i]); ok {
			view.Holidays[i] = string(name)
		}
	}

	userIDs := make([]string, len(members))
	for i, member := range members {
		userIDs[i] = member.ID
	}
	vacationing := make(map[string]bool)
	for _, id := range schedule.VacationingInWeek(snap, userIDs, workdays[:]) {
		vacationing[id] = true
	}

	for _, member := range members {
		row := WeekRow{Member: member, Vacationing: vacationing[member.ID]}
		for i := range workdays {
			loc, _ := snap.Lookup(member.ID, view.Workdays[i])
			row.Locations[i] = loc
		}
		view.Rows = append(view.Rows, row)
	}

	s.cache.Store(key, view)
	return view, nil
}

// Insights aggregates the team statistics for one calendar year together with
// the near-term absence outlook.
func (s *ScheduleService) Insights(ctx context.Context, year int) (Insights, error) {
	if s == nil {
		return Insights{}, fmt.Errorf("ScheduleService is nil")
	}
	if s.team == nil {
		return Insights{}, fmt.Errorf("team directory not configured")
	}

	today := calendar.StartOfDay(s.now().In(s.location))
	if year == 0 {
		year = today.Year()
	}

	snap := s.Snapshot()
	key := insightsViewKey(snap.Version(), year, calendar.DateString(today))
	if cached, ok := s.cache.Get(key); ok {
		if view, ok := cached.(Insights); ok {
			return view, nil
		}
	}

	members, err := s.team.ListTeamMembers(ctx)
	if err != nil {
		return Insights{}, err
	}
	memberByID := make(map[string]TeamMember, len(members))
	userIDs := make([]string, len(members))
	for i, member := range members {
		memberByID[member.ID] = member
		userIDs[i] = member.ID
	}

	// The off-day scan can cross into the next year near New Year's Eve.
	holidays := s.holidaysForYears(year, today.Year()+1)

	view := Insights{
		Year:                year,
		LocationPopularity:  schedule.LocationPopularity(snap, year),
		MonthlyVacations:    schedule.MonthlyVacationDistribution(snap, year, holidays),
		TopVacationDays:     schedule.TopVacationDays(snap, year, 0, holidays),
		RemoteWorkByWeekday: schedule.RemoteWorkByWeekday(snap, year),
	}

	for _, offDay := range schedule.UpcomingOffDays(snap, userIDs, today, schedule.DefaultOffDayHorizon, holidays) {
		if member, ok := memberByID[offDay.UserID]; ok {
			view.UpcomingOffDays = append(view.UpcomingOffDays, UpcomingOffDay{Member: member, Date: offDay.Date})
		}
	}

	workdays := calendar.WorkdaysOfWeek(today)
	for _, id := range schedule.VacationingInWeek(snap, userIDs, workdays[:]) {
		if member, ok := memberByID[id]; ok {
			view.VacationingThisWeek = append(view.VacationingThisWeek, member)
		}
	}

	s.cache.Store(key, view)
	return view, nil
}

// validateEntry checks the date format, the location value and the planning
// horizon bound for a cell write.
func (s *ScheduleService) validateEntry(date string, loc schedule.Location) (time.Time, error) {
	vErr := &ValidationError{}

	day, parseErr := calendar.ParseDate(date, s.location)
	if parseErr != nil {
		vErr.add("date", "invalid date")
	}
	if _, locErr := schedule.ParseLocation(string(loc)); locErr != nil {
		vErr.add("location", "invalid location")
	}
	if vErr.HasErrors() {
		return time.Time{}, vErr
	}

	weekStart := calendar.StartOfWeek(calendar.StartOfDay(s.now().In(s.location)))
	horizonEnd := weekStart.AddDate(0, 0, s.horizonWeeks*7)
	if day.Before(weekStart) || !day.Before(horizonEnd) {
		vErr.add("date", "date outside planning horizon")
		return time.Time{}, vErr
	}
	return day, nil
}

func (s *ScheduleService) holidaysForYears(firstYear, lastYear int) holiday.Set {
	set, err := holiday.ForSpan(firstYear, lastYear)
	if err != nil {
		return holiday.Set{}
	}
	return set
}
