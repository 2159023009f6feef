package stats

import (
	"fmt"
	"io"
	"strconv"

	"github.com/verte-zerg/franklin/internal/calendar"
	"github.com/verte-zerg/franklin/internal/model"
	"github.com/verte-zerg/franklin/internal/virtue"
)

const (
	markFault = "x"
	markClean = "·"

	colorReset  = "\x1b[0m"
	colorFault  = "\x1b[31m"
	colorFocus  = "\x1b[33m"
	colorMuted  = "\x1b[90m"
	colorAccent = "\x1b[36m"
)

func paint(s, code string, useColor bool) string {
	if !useColor {
		return s
	}
	return code + s + colorReset
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderWeekGrid prints the 13x7 fault grid of a week. today is the day
// column to highlight, or -1.
func RenderWeekGrid(w io.Writer, week model.Week, today int, useColor bool) error {
	s := Summarize(week)
	if _, err := fmt.Fprintf(w, "Week of %s · Focus: %s\n", s.Range, paint(s.Focus.Title, colorFocus, useColor)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%q\n\n", s.Focus.Precept); err != nil {
		return err
	}

	headers := []string{"Virtue"}
	for day, label := range calendar.DayLabels {
		if day == today {
			label = paint(label, colorAccent, useColor)
		}
		headers = append(headers, label)
	}
	headers = append(headers, "Faults")

	rows := make([][]string, 0, virtue.Count+1)
	for _, v := range virtue.All() {
		title := v.Title
		if v.ID == week.FocusVirtueID {
			title = paint(title, colorFocus, useColor)
		}
		row := []string{title}
		for day := 0; day < model.DaysPerWeek; day++ {
			if week.HasFault(day, v.ID) {
				row = append(row, paint(markFault, colorFault, useColor))
			} else {
				row = append(row, paint(markClean, colorMuted, useColor))
			}
		}
		row = append(row, strconv.Itoa(week.CountForVirtue(v.ID)))
		rows = append(rows, row)
	}
	totalRow := []string{"Total"}
	for day := 0; day < model.DaysPerWeek; day++ {
		totalRow = append(totalRow, strconv.Itoa(week.CountForDay(day)))
	}
	totalRow = append(totalRow, strconv.Itoa(s.Total))
	rows = append(rows, totalRow)

	rightAlign := map[int]bool{model.DaysPerWeek + 1: true}
	if err := writeLines(w, formatTable(headers, rows, rightAlign)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "\nClean: %d/%d · Faults: %d · Clean days: %d/%d\n",
		s.CleanCells, model.MaxFaults, s.Total, s.CleanDays, model.DaysPerWeek); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, s.Message)
	return err
}

// RenderHistory prints archived weeks, most recently archived first.
func RenderHistory(w io.Writer, report Report) error {
	if len(report.History) == 0 {
		_, err := fmt.Fprintln(w, "No archived weeks.")
		return err
	}
	if _, err := fmt.Fprintln(w, "History"); err != nil {
		return err
	}
	headers := []string{"Week", "Range", "Focus", "Focus faults", "Faults", "Clean", "Clean days"}
	rows := make([][]string, 0, len(report.History))
	for _, s := range report.History {
		focusFaults := 0
		if virtue.Valid(s.Focus.ID) {
			focusFaults = s.PerVirtue[s.Focus.ID-1]
		}
		rows = append(rows, []string{
			s.ID,
			s.Range,
			s.Focus.Title,
			strconv.Itoa(focusFaults),
			strconv.Itoa(s.Total),
			strconv.Itoa(s.CleanCells),
			fmt.Sprintf("%d/%d", s.CleanDays, model.DaysPerWeek),
		})
	}
	rightAlign := map[int]bool{3: true, 4: true, 5: true, 6: true}
	if err := writeLines(w, formatTable(headers, rows, rightAlign)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "\nTrend (oldest → newest): %s\n", Sparkline(HistoryTotals(report.History))); err != nil {
		return err
	}
	if report.Best != nil {
		if _, err := fmt.Fprintf(w, "Best week: %s with %d faults\n", report.Best.Range, report.Best.Total); err != nil {
			return err
		}
	}
	return nil
}

// RenderVirtueTotals prints fault totals per virtue across every tracked week.
func RenderVirtueTotals(w io.Writer, report Report) error {
	if _, err := fmt.Fprintln(w, "Per-Virtue Totals"); err != nil {
		return err
	}
	headers := []string{"#", "Virtue", "Faults", "Weeks with faults"}
	rows := make([][]string, 0, len(report.Totals))
	for _, t := range report.Totals {
		rows = append(rows, []string{
			strconv.Itoa(t.Virtue.ID),
			t.Virtue.Title,
			strconv.Itoa(t.Faults),
			strconv.Itoa(t.Weeks),
		})
	}
	rightAlign := map[int]bool{0: true, 2: true, 3: true}
	return writeLines(w, formatTable(headers, rows, rightAlign))
}
