package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/franklin/internal/virtue"
)

var sunday = time.Date(2026, time.October, 18, 10, 0, 0, 0, time.Local)

func TestNewWeek(t *testing.T) {
	w := NewWeek(sunday.AddDate(0, 0, 3))
	assert.Equal(t, "2026-10-18", w.ID)
	assert.Equal(t, 3, w.FocusVirtueID) // week 42 of the year
	assert.False(t, w.HasAnyData())

	again := NewWeek(sunday.AddDate(0, 0, 6))
	assert.Equal(t, w.ID, again.ID)
	assert.Equal(t, w.FocusVirtueID, again.FocusVirtueID)
}

func TestNewWeekIsIdenticalOnEveryDay(t *testing.T) {
	for _, start := range []time.Time{
		sunday,
		time.Date(2026, time.January, 4, 0, 0, 0, 0, time.Local),
		time.Date(2026, time.December, 27, 23, 30, 0, 0, time.Local),
	} {
		first := NewWeek(start)
		for day := 1; day < DaysPerWeek; day++ {
			w := NewWeek(start.AddDate(0, 0, day))
			assert.Equal(t, first, w, "created %s", start.AddDate(0, 0, day).Format("Mon 2006-01-02"))
		}
	}
	assert.Equal(t, "2026-12-27", NewWeek(time.Date(2027, time.January, 2, 12, 0, 0, 0, time.Local)).ID)
}

func TestToggleIsInvolution(t *testing.T) {
	base := NewWeek(sunday).Toggle(2, 5).Toggle(6, 13)
	for day := 0; day < DaysPerWeek; day++ {
		for v := 1; v <= virtue.Count; v++ {
			twice := base.Toggle(day, v).Toggle(day, v)
			require.True(t, twice.SameFaults(base), "day %d virtue %d", day, v)
		}
	}
}

func TestToggleLeavesPriorSnapshot(t *testing.T) {
	before := NewWeek(sunday)
	after := before.Toggle(1, 1)
	assert.False(t, before.HasFault(1, 1))
	assert.True(t, after.HasFault(1, 1))
	assert.Equal(t, before.ID, after.ID)
	assert.Equal(t, before.FocusVirtueID, after.FocusVirtueID)
}

func TestOutOfRangeCellsAreNoOps(t *testing.T) {
	w := NewWeek(sunday)
	cells := [][2]int{{-1, 1}, {7, 1}, {0, 0}, {0, 14}, {100, -3}}
	for _, c := range cells {
		assert.False(t, w.HasFault(c[0], c[1]))
		assert.True(t, w.Toggle(c[0], c[1]).SameFaults(w))
	}
	assert.Equal(t, 0, w.CountForVirtue(0))
	assert.Equal(t, 0, w.CountForDay(9))
}

func TestCountsBounds(t *testing.T) {
	w := NewWeek(sunday)
	for day := 0; day < DaysPerWeek; day++ {
		for v := 1; v <= virtue.Count; v++ {
			if (day+v)%3 == 0 {
				w = w.Toggle(day, v)
			}
		}
	}
	sum := 0
	for v := 1; v <= virtue.Count; v++ {
		c := w.CountForVirtue(v)
		assert.GreaterOrEqual(t, c, 0)
		assert.LessOrEqual(t, c, DaysPerWeek)
		sum += c
	}
	assert.Equal(t, sum, w.CountTotal())
	assert.True(t, w.HasAnyData())

	full := NewWeek(sunday)
	for day := 0; day < DaysPerWeek; day++ {
		for v := 1; v <= virtue.Count; v++ {
			full = full.Toggle(day, v)
		}
	}
	assert.Equal(t, MaxFaults, full.CountTotal())
	assert.Equal(t, 0, full.CleanDays())
	assert.Equal(t, DaysPerWeek, NewWeek(sunday).CleanDays())
}

func TestCloneDetachesHistory(t *testing.T) {
	s := AppState{CurrentWeek: NewWeek(sunday), History: []Week{NewWeek(sunday.AddDate(0, 0, -7))}}
	c := s.Clone()
	c.History[0] = c.History[0].Toggle(0, 1)
	assert.False(t, s.History[0].HasAnyData())
	assert.Equal(t, 0, IndexOf(s.History, "2026-10-11"))
	assert.Equal(t, -1, IndexOf(s.History, "2026-10-18"))
}
