package calendar

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 30, 0, 0, time.Local)
}

func TestWeekIdentityStartsOnSunday(t *testing.T) {
	cases := []struct {
		now  time.Time
		want string
	}{
		{date(2026, time.October, 18, 9), "2026-10-18"},  // Sunday
		{date(2026, time.October, 21, 23), "2026-10-18"}, // Wednesday
		{date(2026, time.October, 24, 0), "2026-10-18"},  // Saturday
		{date(2026, time.October, 25, 0), "2026-10-25"},  // next Sunday
		{date(2026, time.January, 1, 12), "2025-12-28"},  // crosses year
	}
	for _, c := range cases {
		if got := WeekIdentity(c.now); got != c.want {
			t.Fatalf("WeekIdentity(%s) = %q, want %q", c.now, got, c.want)
		}
	}
}

func TestWeekStartIsMidnight(t *testing.T) {
	start := WeekStart(date(2026, time.March, 11, 17))
	if start.Hour() != 0 || start.Minute() != 0 || start.Weekday() != time.Sunday {
		t.Fatalf("unexpected week start %s", start)
	}
}

func TestWeekOfYearAdvancesEverySevenDays(t *testing.T) {
	jan1 := date(2026, time.January, 1, 8)
	if got := WeekOfYear(jan1); got != 1 {
		t.Fatalf("expected week 1 on Jan 1, got %d", got)
	}
	for i := 0; i < 52; i++ {
		now := jan1.AddDate(0, 0, 7*i)
		if got := WeekOfYear(now); got != i+1 {
			t.Fatalf("day %d: expected week %d, got %d", 7*i, i+1, got)
		}
		if got := WeekOfYear(now.AddDate(0, 0, 6)); got != i+1 {
			t.Fatalf("day %d: expected week %d, got %d", 7*i+6, i+1, got)
		}
	}
}

func TestFocusVirtueForWeekPeriod(t *testing.T) {
	for start := -20; start < 60; start++ {
		seen := map[int]bool{}
		for w := start; w < start+13; w++ {
			id := FocusVirtueForWeek(w)
			if id < 1 || id > 13 {
				t.Fatalf("week %d: id %d out of range", w, id)
			}
			if seen[id] {
				t.Fatalf("week %d: id %d repeated within a period", w, id)
			}
			seen[id] = true
			if FocusVirtueForWeek(w+13) != id {
				t.Fatalf("week %d: rotation is not periodic", w)
			}
		}
	}
	if FocusVirtueForWeek(1) != 1 || FocusVirtueForWeek(13) != 13 || FocusVirtueForWeek(14) != 1 {
		t.Fatalf("unexpected rotation anchor")
	}
}

func TestFocusVirtueForIsStableWithinAWeek(t *testing.T) {
	cases := []struct {
		sunday time.Time
		want   int
	}{
		{date(2026, time.January, 4, 9), 1},
		{date(2026, time.October, 18, 9), 3},
		{date(2026, time.December, 27, 9), 13}, // ends Jan 2, 2027
	}
	for _, tc := range cases {
		for day := 0; day < DaysPerWeek; day++ {
			now := tc.sunday.AddDate(0, 0, day)
			if got := FocusVirtueFor(now); got != tc.want {
				t.Fatalf("%s: expected focus %d, got %d", now.Format(IdentityLayout), tc.want, got)
			}
		}
	}
}

func TestTodayIndex(t *testing.T) {
	if got := TodayIndex(date(2026, time.October, 18, 10)); got != 0 {
		t.Fatalf("expected Sunday to be 0, got %d", got)
	}
	if got := TodayIndex(date(2026, time.October, 24, 10)); got != 6 {
		t.Fatalf("expected Saturday to be 6, got %d", got)
	}
}

func TestFormatRange(t *testing.T) {
	got := FormatRange(time.Date(2026, time.December, 27, 0, 0, 0, 0, time.Local))
	if got != "Dec 27 – Jan 2" {
		t.Fatalf("unexpected range %q", got)
	}
	if got := FormatIdentityRange("garbage"); got != "garbage" {
		t.Fatalf("expected unparsable id to pass through, got %q", got)
	}
	if got := FormatIdentityRange("2026-10-18"); got != "Oct 18 – Oct 24" {
		t.Fatalf("unexpected identity range %q", got)
	}
}

func TestDayName(t *testing.T) {
	if DayName(0) != "Sunday" || DayName(6) != "Saturday" || DayName(7) != "" {
		t.Fatalf("unexpected day names")
	}
}
