// Package calendar provides pure week arithmetic over the local clock.
//
// Weeks start on Sunday. The week identity (the Sunday's date) is the
// rollover key for stored weeks, so every caller must go through WeekStart.
package calendar

import (
	"fmt"
	"time"

	"github.com/verte-zerg/franklin/internal/virtue"
)

// IdentityLayout is the layout of a week identity string.
const IdentityLayout = "2006-01-02"

// DaysPerWeek is the number of day columns in a week.
const DaysPerWeek = 7

// DayLabels are single-letter column headers, Sunday first.
var DayLabels = [DaysPerWeek]string{"S", "M", "T", "W", "T", "F", "S"}

// WeekStart returns midnight of the Sunday that starts the week containing now.
func WeekStart(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d-int(now.Weekday()), 0, 0, 0, 0, now.Location())
}

// WeekIdentity returns the identity string of the week containing now.
func WeekIdentity(now time.Time) string {
	return WeekStart(now).Format(IdentityLayout)
}

// ParseIdentity converts a week identity back to a local midnight.
func ParseIdentity(id string) (time.Time, error) {
	t, err := time.ParseInLocation(IdentityLayout, id, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid week id %q: %w", id, err)
	}
	return t, nil
}

// WeekOfYear counts elapsed 7-day periods since January 1st, starting at 1.
// Day granularity keeps it immune to DST shifts.
func WeekOfYear(now time.Time) int {
	return (now.YearDay()-1)/DaysPerWeek + 1
}

// FocusVirtueForWeek maps a week-of-year to a virtue id with period 13.
func FocusVirtueForWeek(weekOfYear int) int {
	idx := (weekOfYear - 1) % virtue.Count
	if idx < 0 {
		idx += virtue.Count
	}
	return idx + 1
}

// FocusVirtueFor returns the focus virtue of the week containing now.
// The rotation is keyed on the week's Sunday, so every day of a week agrees
// even when the week straddles New Year.
func FocusVirtueFor(now time.Time) int {
	return FocusVirtueForWeek(WeekOfYear(WeekStart(now)))
}

// TodayIndex returns the day column for now, 0 being Sunday.
func TodayIndex(now time.Time) int {
	return int(now.Weekday())
}

// DayName returns the weekday name for a day column.
func DayName(day int) string {
	if day < 0 || day >= DaysPerWeek {
		return ""
	}
	return time.Weekday(day).String()
}

// FormatRange renders a week as "Jan 5 – Jan 11".
func FormatRange(weekStart time.Time) string {
	end := weekStart.AddDate(0, 0, DaysPerWeek-1)
	return fmt.Sprintf("%s – %s", weekStart.Format("Jan 2"), end.Format("Jan 2"))
}

// FormatIdentityRange is FormatRange for a stored identity; unparsable ids are returned unchanged.
func FormatIdentityRange(id string) string {
	start, err := ParseIdentity(id)
	if err != nil {
		return id
	}
	return FormatRange(start)
}
