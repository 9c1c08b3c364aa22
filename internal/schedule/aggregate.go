package schedule

import (
	"sort"
	"time"

	"github.com/EdwinCycling/WerkplekPlanner/internal/calendar"
	"github.com/EdwinCycling/WerkplekPlanner/internal/holiday"
)

// DefaultOffDayHorizon bounds the forward scan of UpcomingOffDays.
const DefaultOffDayHorizon = 90

// OffDay pairs a user with their first upcoming vacation day.
type OffDay struct {
	UserID string
	Date   string
}

// DateCount pairs a date with the number of users marked off on it.
type DateCount struct {
	Date  string
	Count int
}

// VacationingInWeek returns, in input order, the users who are away for the
// entire workweek: every workday marked off, scheduled-off, or carrying a
// derived holiday cell. Holiday cells count toward the full week, so a user
// who takes the remaining days of a holiday week off is reported. The
// workdays slice must hold exactly the five Monday–Friday dates of the week;
// anything else yields no matches, guarding against malformed week
// computation.
func VacationingInWeek(snap *Snapshot, userIDs []string, workdays []time.Time) []string {
	if len(workdays) != 5 {
		return nil
	}

	var away []string
	for _, userID := range userIDs {
		all := true
		for _, day := range workdays {
			loc, ok := snap.Lookup(userID, calendar.DateString(day))
			if !ok || !(loc.IsAbsence() || loc == LocationHoliday) {
				all = false
				break
			}
		}
		if all {
			away = append(away, userID)
		}
	}
	return away
}

// UpcomingOffDays scans forward from today, per user, and reports the first
// date marked off that is not a public holiday. The holiday set must span
// the scan window's year boundary. Each user contributes at most one entry;
// the result is ordered ascending by date, ties keeping input user order.
func UpcomingOffDays(snap *Snapshot, userIDs []string, today time.Time, horizonDays int, holidays holiday.Set) []OffDay {
	if horizonDays <= 0 {
		horizonDays = DefaultOffDayHorizon
	}
	start := calendar.StartOfDay(today)

	var upcoming []OffDay
	for _, userID := range userIDs {
		for i := 0; i < horizonDays; i++ {
			date := calendar.DateString(start.AddDate(0, 0, i))
			loc, ok := snap.Lookup(userID, date)
			if !ok || loc != LocationOff {
				continue
			}
			if holidays.Contains(date) {
				continue
			}
			upcoming = append(upcoming, OffDay{UserID: userID, Date: date})
			break
		}
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].Date < upcoming[j].Date
	})
	return upcoming
}

// LocationPopularity counts, per workplace tag, the entries falling in the
// given year. Off, scheduled-off and derived holiday entries are excluded.
func LocationPopularity(snap *Snapshot, year int) map[Location]int {
	counts := make(map[Location]int)
	eachEntryInYear(snap, year, func(_ string, _ time.Time, loc Location) {
		if loc.IsWorkplace() {
			counts[loc]++
		}
	})
	return counts
}

// MonthlyVacationDistribution counts off entries per calendar month of the
// given year, excluding dates that are public holidays in that year.
func MonthlyVacationDistribution(snap *Snapshot, year int, holidays holiday.Set) [12]int {
	var months [12]int
	eachEntryInYear(snap, year, func(date string, day time.Time, loc Location) {
		if loc != LocationOff || holidays.Contains(date) {
			return
		}
		months[int(day.Month())-1]++
	})
	return months
}

// TopVacationDays returns the n dates of the year with the most users marked
// off (public holidays excluded), ordered by descending count and ascending
// date for equal counts.
func TopVacationDays(snap *Snapshot, year, n int, holidays holiday.Set) []DateCount {
	if n <= 0 {
		n = 10
	}

	perDate := make(map[string]int)
	eachEntryInYear(snap, year, func(date string, _ time.Time, loc Location) {
		if loc != LocationOff || holidays.Contains(date) {
			return
		}
		perDate[date]++
	})

	ranked := make([]DateCount, 0, len(perDate))
	for date, count := range perDate {
		ranked = append(ranked, DateCount{Date: date, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count == ranked[j].Count {
			return ranked[i].Date < ranked[j].Date
		}
		return ranked[i].Count > ranked[j].Count
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// RemoteWorkByWeekday counts home entries of the year per workday, indexed
// Monday through Friday. Weekend home entries, if any exist, are skipped.
func RemoteWorkByWeekday(snap *Snapshot, year int) [5]int {
	var days [5]int
	eachEntryInYear(snap, year, func(_ string, day time.Time, loc Location) {
		if loc != LocationHome || !calendar.IsWorkday(day) {
			return
		}
		// Monday == 1 in Go's weekday numbering.
		days[int(day.Weekday())-1]++
	})
	return days
}

// eachEntryInYear visits every snapshot entry whose date parses and falls in
// the given year. Entries for absent users or dates simply do not appear;
// a stray unparseable key is treated as missing data and skipped.
func eachEntryInYear(snap *Snapshot, year int, visit func(date string, day time.Time, loc Location)) {
	if snap == nil {
		return
	}
	for _, days := range snap.entries {
		for date, loc := range days {
			day, err := calendar.ParseDate(date, time.UTC)
			if err != nil || day.Year() != year {
				continue
			}
			visit(date, day, loc)
		}
	}
}
