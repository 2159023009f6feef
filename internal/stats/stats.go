// Package stats contains week aggregates and text reports.
package stats

import (
	"math"
	"strings"

	"github.com/verte-zerg/franklin/internal/calendar"
	"github.com/verte-zerg/franklin/internal/model"
	"github.com/verte-zerg/franklin/internal/virtue"
)

const sparkChars = " .:-=+*#%@"

// WeekSummary condenses one week for listing.
type WeekSummary struct {
	ID         string
	Range      string
	Focus      virtue.Virtue
	Total      int
	CleanCells int // unmarked cells of the 7x13 grid
	CleanDays  int
	Message    string
	PerVirtue  [virtue.Count]int
}

// Encouragement grades a week's fault total into a short message.
func Encouragement(total int) string {
	switch {
	case total <= 0:
		return "A clean slate. Stay vigilant."
	case total <= 5:
		return "Few faults, steady progress."
	case total <= 15:
		return "Room to improve. Keep at it."
	default:
		return "Awareness is the first step."
	}
}

// VirtueTotal is a fault count for one virtue across many weeks.
type VirtueTotal struct {
	Virtue virtue.Virtue
	Faults int
	Weeks  int
}

// Report aggregates the current week and the archive.
type Report struct {
	Current WeekSummary
	History []WeekSummary
	Totals  []VirtueTotal
	// Best is the archived week with the fewest faults, nil when history is empty.
	Best *WeekSummary
}

// Summarize builds the summary of a week.
func Summarize(w model.Week) WeekSummary {
	focus, _ := virtue.Get(w.FocusVirtueID)
	s := WeekSummary{
		ID:        w.ID,
		Range:     calendar.FormatIdentityRange(w.ID),
		Focus:     focus,
		Total:     w.CountTotal(),
		CleanDays: w.CleanDays(),
	}
	s.CleanCells = model.MaxFaults - s.Total
	s.Message = Encouragement(s.Total)
	for v := 1; v <= virtue.Count; v++ {
		s.PerVirtue[v-1] = w.CountForVirtue(v)
	}
	return s
}

// BuildReport summarizes the state. Totals cover history and the current week.
func BuildReport(state model.AppState) Report {
	report := Report{
		Current: Summarize(state.CurrentWeek),
		History: make([]WeekSummary, 0, len(state.History)),
	}
	for _, w := range state.History {
		report.History = append(report.History, Summarize(w))
	}
	for i := range report.History {
		s := &report.History[i]
		if report.Best == nil || s.Total < report.Best.Total {
			report.Best = s
		}
	}

	all := append([]WeekSummary{report.Current}, report.History...)
	for _, v := range virtue.All() {
		total := VirtueTotal{Virtue: v}
		for _, s := range all {
			if n := s.PerVirtue[v.ID-1]; n > 0 {
				total.Faults += n
				total.Weeks++
			}
		}
		report.Totals = append(report.Totals, total)
	}
	return report
}

// HistoryTotals returns archived totals oldest first, ready for a sparkline.
func HistoryTotals(history []WeekSummary) []float64 {
	out := make([]float64, len(history))
	for i, s := range history {
		out[len(history)-1-i] = float64(s.Total)
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}
