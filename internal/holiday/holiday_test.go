package holiday

import (
	"errors"
	"testing"
	"time"

	"github.com/EdwinCycling/WerkplekPlanner/internal/calendar"
)

func TestEasterSunday(t *testing.T) {
	t.Parallel()

	t.Run("matches known dates", func(t *testing.T) {
		t.Parallel()

		cases := []struct {
			year int
			want string
		}{
			{1818, "1818-03-22"}, // earliest possible Easter
			{1943, "1943-04-25"}, // latest possible Easter
			{2000, "2000-04-23"},
			{2023, "2023-04-09"},
			{2024, "2024-03-31"},
			{2025, "2025-04-20"},
			{2026, "2026-04-05"},
			{2038, "2038-04-25"},
		}
		for _, tc := range cases {
			easter, err := EasterSunday(tc.year)
			if err != nil {
				t.Fatalf("EasterSunday(%d) failed: %v", tc.year, err)
			}
			if got := calendar.DateString(easter); got != tc.want {
				t.Fatalf("EasterSunday(%d) = %s, want %s", tc.year, got, tc.want)
			}
		}
	})

	t.Run("always lands on a Sunday between March 22 and April 25", func(t *testing.T) {
		t.Parallel()

		lower := time.Date(0, time.March, 22, 0, 0, 0, 0, time.UTC)
		upper := time.Date(0, time.April, 25, 0, 0, 0, 0, time.UTC)
		for year := minYear; year <= maxYear; year++ {
			easter, err := EasterSunday(year)
			if err != nil {
				t.Fatalf("EasterSunday(%d) failed: %v", year, err)
			}
			if easter.Weekday() != time.Sunday {
				t.Fatalf("EasterSunday(%d) = %v, not a Sunday", year, easter.Weekday())
			}
			yearless := time.Date(0, easter.Month(), easter.Day(), 0, 0, 0, 0, time.UTC)
			if yearless.Before(lower) || yearless.After(upper) {
				t.Fatalf("EasterSunday(%d) = %s, outside March 22 - April 25", year, calendar.DateString(easter))
			}
		}
	})

	t.Run("rejects years outside the Gregorian window", func(t *testing.T) {
		t.Parallel()

		for _, year := range []int{1582, 4100, 0, -44} {
			if _, err := EasterSunday(year); !errors.Is(err, ErrYearOutOfRange) {
				t.Fatalf("expected ErrYearOutOfRange for %d, got %v", year, err)
			}
		}
	})
}

func TestForYear(t *testing.T) {
	t.Parallel()

	t.Run("lists the 2024 holidays", func(t *testing.T) {
		t.Parallel()

		set, err := ForYear(2024)
		if err != nil {
			t.Fatalf("ForYear failed: %v", err)
		}

		want := map[string]Name{
			"2024-01-01": NewYearsDay,
			"2024-04-01": EasterMonday,
			"2024-04-27": KingsDay, // Saturday, not shifted
			"2024-05-09": AscensionDay,
			"2024-05-20": WhitMonday,
			"2024-12-25": ChristmasDay,
			"2024-12-26": SecondChristmasDay,
		}
		if len(set) != len(want) {
			t.Fatalf("expected %d holidays, got %d: %v", len(want), len(set), set)
		}
		for date, name := range want {
			got, ok := set.Lookup(date)
			if !ok {
				t.Fatalf("expected %s to be a holiday", date)
			}
			if got != name {
				t.Fatalf("expected %s on %s, got %s", name, date, got)
			}
		}
	})

	t.Run("shifts Kings Day off a Sunday", func(t *testing.T) {
		t.Parallel()

		set, err := ForYear(2025)
		if err != nil {
			t.Fatalf("ForYear failed: %v", err)
		}
		if !set.Contains("2025-04-26") {
			t.Fatalf("expected Kings Day on 2025-04-26")
		}
		if set.Contains("2025-04-27") {
			t.Fatalf("expected no holiday on Sunday 2025-04-27")
		}
	})

	t.Run("keeps every date inside the requested year", func(t *testing.T) {
		t.Parallel()

		for _, year := range []int{2008, 2016, 2024, 2035} {
			set, err := ForYear(year)
			if err != nil {
				t.Fatalf("ForYear(%d) failed: %v", year, err)
			}
			for date := range set {
				parsed, perr := calendar.ParseDate(date, time.UTC)
				if perr != nil {
					t.Fatalf("holiday date %q not canonical: %v", date, perr)
				}
				if parsed.Year() != year {
					t.Fatalf("holiday %s leaked outside year %d", date, year)
				}
			}
		}
	})

	t.Run("propagates out-of-range years", func(t *testing.T) {
		t.Parallel()

		if _, err := ForYear(1500); !errors.Is(err, ErrYearOutOfRange) {
			t.Fatalf("expected ErrYearOutOfRange, got %v", err)
		}
	})
}

func TestForSpan(t *testing.T) {
	t.Parallel()

	t.Run("merges consecutive years", func(t *testing.T) {
		t.Parallel()

		set, err := ForSpan(2024, 2025)
		if err != nil {
			t.Fatalf("ForSpan failed: %v", err)
		}
		if len(set) != 14 {
			t.Fatalf("expected 14 holidays across two years, got %d", len(set))
		}
		if !set.Contains("2024-12-25") || !set.Contains("2025-01-01") {
			t.Fatalf("expected the span to cover the year boundary")
		}
	})

	t.Run("normalizes a reversed span", func(t *testing.T) {
		t.Parallel()

		forward, err := ForSpan(2023, 2024)
		if err != nil {
			t.Fatalf("ForSpan failed: %v", err)
		}
		reversed, err := ForSpan(2024, 2023)
		if err != nil {
			t.Fatalf("ForSpan failed: %v", err)
		}
		if len(forward) != len(reversed) {
			t.Fatalf("expected identical sets, got %d vs %d entries", len(forward), len(reversed))
		}
	})

	t.Run("fails when any year is out of range", func(t *testing.T) {
		t.Parallel()

		if _, err := ForSpan(4098, 4101); !errors.Is(err, ErrYearOutOfRange) {
			t.Fatalf("expected ErrYearOutOfRange, got %v", err)
		}
	})
}
