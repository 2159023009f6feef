// Package model defines the week entity and its aggregates.
package model

import (
	"time"

	"github.com/verte-zerg/franklin/internal/calendar"
	"github.com/verte-zerg/franklin/internal/virtue"
)

// DaysPerWeek mirrors calendar.DaysPerWeek for callers that only import model.
const DaysPerWeek = calendar.DaysPerWeek

// MaxFaults is the upper bound of faults in a single week.
const MaxFaults = DaysPerWeek * virtue.Count

// Week holds one week of fault marks. It is a value type: every mutation
// returns a new Week and earlier copies stay valid.
type Week struct {
	ID            string
	FocusVirtueID int
	marks         [DaysPerWeek][virtue.Count]bool
}

// AppState is the persisted process-wide state.
type AppState struct {
	CurrentWeek Week
	History     []Week
}

// NewWeek builds the empty week containing now.
func NewWeek(now time.Time) Week {
	return Week{
		ID:            calendar.WeekIdentity(now),
		FocusVirtueID: calendar.FocusVirtueFor(now),
	}
}

// ValidCell reports whether (day, virtueID) lies inside the 7x13 grid.
func ValidCell(day, virtueID int) bool {
	return day >= 0 && day < DaysPerWeek && virtue.Valid(virtueID)
}

// HasFault reports the mark at (day, virtueID); out-of-range cells read false.
func (w Week) HasFault(day, virtueID int) bool {
	if !ValidCell(day, virtueID) {
		return false
	}
	return w.marks[day][virtueID-1]
}

// Toggle returns a copy of w with the mark at (day, virtueID) flipped.
// Out-of-range cells leave the copy unchanged.
func (w Week) Toggle(day, virtueID int) Week {
	if !ValidCell(day, virtueID) {
		return w
	}
	w.marks[day][virtueID-1] = !w.marks[day][virtueID-1]
	return w
}

// CountForVirtue returns the number of days with a fault for virtueID.
func (w Week) CountForVirtue(virtueID int) int {
	if !virtue.Valid(virtueID) {
		return 0
	}
	count := 0
	for day := 0; day < DaysPerWeek; day++ {
		if w.marks[day][virtueID-1] {
			count++
		}
	}
	return count
}

// CountForDay returns the number of virtues with a fault on day.
func (w Week) CountForDay(day int) int {
	if day < 0 || day >= DaysPerWeek {
		return 0
	}
	count := 0
	for _, fault := range w.marks[day] {
		if fault {
			count++
		}
	}
	return count
}

// CountTotal returns the number of faults across the whole week.
func (w Week) CountTotal() int {
	total := 0
	for day := 0; day < DaysPerWeek; day++ {
		total += w.CountForDay(day)
	}
	return total
}

// CleanDays returns the number of days without any fault.
func (w Week) CleanDays() int {
	clean := 0
	for day := 0; day < DaysPerWeek; day++ {
		if w.CountForDay(day) == 0 {
			clean++
		}
	}
	return clean
}

// HasAnyData reports whether at least one fault is marked.
func (w Week) HasAnyData() bool {
	return w.CountTotal() > 0
}

// SameFaults reports whether both weeks mark exactly the same cells.
func (w Week) SameFaults(other Week) bool {
	return w.marks == other.marks
}

// Clone returns a deep copy of the state.
func (s AppState) Clone() AppState {
	out := AppState{CurrentWeek: s.CurrentWeek}
	if s.History != nil {
		out.History = make([]Week, len(s.History))
		copy(out.History, s.History)
	}
	return out
}

// IndexOf returns the position of the week with id in history, or -1.
func IndexOf(history []Week, id string) int {
	for i, w := range history {
		if w.ID == id {
			return i
		}
	}
	return -1
}
