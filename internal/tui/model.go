// Package tui provides the Bubble Tea interface over a tracker.
//
// The model keeps no state of its own beyond cursor and screen: it renders
// snapshots delivered by the tracker and forwards intents back to it.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/franklin/internal/calendar"
	"github.com/verte-zerg/franklin/internal/model"
	"github.com/verte-zerg/franklin/internal/stats"
	"github.com/verte-zerg/franklin/internal/tracker"
	"github.com/verte-zerg/franklin/internal/virtue"
)

type screen int

const (
	screenWeek screen = iota
	screenHistory
)

const titleWidth = 12

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	focusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	preceptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Italic(true)
	faultStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cleanStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#4A4A4A"))
	todayStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Underline(true)
	cursorStyle  = lipgloss.NewStyle().Reverse(true)
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	modalStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
)

type readyMsg struct {
	state model.AppState
}

type stateMsg struct {
	state model.AppState
}

type errMsg struct {
	err error
}

// Model implements the Bubble Tea tracker UI.
type Model struct {
	tracker     *tracker.Tracker
	now         func() time.Time
	keys        keyMap
	help        help.Model
	updates     <-chan model.AppState
	unsubscribe func()

	loaded bool
	state  model.AppState
	errMsg string

	screen       screen
	day          int
	virtueID     int
	historyIdx   int
	confirmClear bool

	width  int
	height int
}

// NewModel constructs the UI. The tracker may still be initializing; the
// model shows a loading line until it becomes ready.
func NewModel(tr *tracker.Tracker, now func() time.Time) *Model {
	if now == nil {
		now = time.Now
	}
	updates, unsubscribe := tr.Subscribe()
	return &Model{
		tracker:     tr,
		now:         now,
		keys:        defaultKeyMap(),
		help:        help.New(),
		updates:     updates,
		unsubscribe: unsubscribe,
		day:         calendar.TodayIndex(now()),
		virtueID:    1,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.waitReady(), m.listen())
}

func (m *Model) waitReady() tea.Cmd {
	tr := m.tracker
	return func() tea.Msg {
		if err := tr.WaitReady(context.Background()); err != nil {
			return errMsg{err: err}
		}
		return readyMsg{state: tr.State()}
	}
}

func (m *Model) listen() tea.Cmd {
	updates := m.updates
	return func() tea.Msg {
		state, ok := <-updates
		if !ok {
			return nil
		}
		return stateMsg{state: state}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case readyMsg:
		m.loaded = true
		m.state = msg.state
		m.virtueID = m.state.CurrentWeek.FocusVirtueID
		return m, nil
	case stateMsg:
		m.state = msg.state
		m.clampHistory()
		return m, m.listen()
	case errMsg:
		m.errMsg = msg.err.Error()
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.unsubscribe()
		return m, tea.Quit
	}
	if !m.loaded {
		return m, nil
	}
	if m.confirmClear {
		switch {
		case key.Matches(msg, m.keys.Yes):
			m.tracker.ClearHistory()
			m.refresh()
			m.confirmClear = false
		case key.Matches(msg, m.keys.No):
			m.confirmClear = false
		}
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Switch):
		if m.screen == screenWeek {
			m.screen = screenHistory
		} else {
			m.screen = screenWeek
		}
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}
	if m.screen == screenHistory {
		m.handleHistoryKey(msg)
	} else {
		m.handleWeekKey(msg)
	}
	return m, nil
}

func (m *Model) handleWeekKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.virtueID = wrap(m.virtueID-1, 1, virtue.Count)
	case key.Matches(msg, m.keys.Down):
		m.virtueID = wrap(m.virtueID+1, 1, virtue.Count)
	case key.Matches(msg, m.keys.Left):
		m.day = wrap(m.day-1, 0, model.DaysPerWeek-1)
	case key.Matches(msg, m.keys.Right):
		m.day = wrap(m.day+1, 0, model.DaysPerWeek-1)
	case key.Matches(msg, m.keys.Today):
		m.day = calendar.TodayIndex(m.now())
	case key.Matches(msg, m.keys.Toggle):
		m.tracker.ToggleFault(m.day, m.virtueID)
		m.refresh()
	}
}

func (m *Model) handleHistoryKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.historyIdx > 0 {
			m.historyIdx--
		}
	case key.Matches(msg, m.keys.Down):
		if m.historyIdx < len(m.state.History)-1 {
			m.historyIdx++
		}
	case key.Matches(msg, m.keys.Delete):
		if m.historyIdx < len(m.state.History) {
			m.tracker.DeleteHistoryWeek(m.state.History[m.historyIdx].ID)
			m.refresh()
		}
	case key.Matches(msg, m.keys.Clear):
		if len(m.state.History) > 0 {
			m.confirmClear = true
		}
	}
}

// refresh reads the tracker right after an intent so the next frame never
// lags behind the subscription.
func (m *Model) refresh() {
	m.state = m.tracker.State()
	m.clampHistory()
}

func (m *Model) clampHistory() {
	if m.historyIdx >= len(m.state.History) {
		m.historyIdx = len(m.state.History) - 1
	}
	if m.historyIdx < 0 {
		m.historyIdx = 0
	}
}

func wrap(v, lo, hi int) int {
	if v < lo {
		return hi
	}
	if v > hi {
		return lo
	}
	return v
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.errMsg != "" {
		return errorStyle.Render(m.errMsg)
	}
	if !m.loaded {
		return headerStyle.Render("Loading your week…")
	}
	var body string
	var helpView string
	if m.screen == screenHistory {
		body = m.renderHistory()
		helpView = m.help.View(historyKeys{m.keys})
	} else {
		body = m.renderWeek()
		helpView = m.help.View(weekKeys{m.keys})
	}
	if m.confirmClear {
		body = modalStyle.Render(fmt.Sprintf("Clear all %d archived weeks? (y/n)", len(m.state.History)))
	}
	out := lipgloss.JoinVertical(lipgloss.Left, m.renderNav(), body, "", helpView)
	if m.width == 0 || m.height == 0 {
		return out
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, out)
}

func (m *Model) renderNav() string {
	tabs := []string{"Week", "History"}
	rendered := make([]string, len(tabs))
	for i, tab := range tabs {
		if screen(i) == m.screen {
			rendered[i] = activeNavStyle.Render(tab)
		} else {
			rendered[i] = inactiveNavStyle.Render(tab)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m *Model) renderWeek() string {
	week := m.state.CurrentWeek
	focus, _ := virtue.Get(week.FocusVirtueID)
	today := calendar.TodayIndex(m.now())

	var b strings.Builder
	b.WriteString(headerStyle.Render("Week of "+calendar.FormatIdentityRange(week.ID)) + "\n")
	b.WriteString("Focus: " + focusStyle.Render(focus.Title) + "\n")
	b.WriteString(preceptStyle.Render(focus.Precept) + "\n\n")

	b.WriteString(strings.Repeat(" ", titleWidth))
	for day, label := range calendar.DayLabels {
		cell := " " + label + " "
		if day == today {
			cell = todayStyle.Render(cell)
		} else {
			cell = headerStyle.Render(cell)
		}
		b.WriteString(cell)
	}
	b.WriteString("\n")

	for _, v := range virtue.All() {
		title := runewidth.FillRight(runewidth.Truncate(v.Title, titleWidth-1, "…"), titleWidth)
		if v.ID == week.FocusVirtueID {
			title = focusStyle.Render(title)
		}
		b.WriteString(title)
		for day := 0; day < model.DaysPerWeek; day++ {
			b.WriteString(m.renderCell(week, day, v.ID))
		}
		b.WriteString(footerStyle.Render(fmt.Sprintf("  %d", week.CountForVirtue(v.ID))))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	summary := stats.Summarize(week)
	b.WriteString(footerStyle.Render(fmt.Sprintf("Total faults %d · Clean %d/%d · Clean days %d/%d",
		summary.Total, summary.CleanCells, model.MaxFaults, summary.CleanDays, model.DaysPerWeek)))
	b.WriteString("\n")
	b.WriteString(preceptStyle.Render(summary.Message))
	return b.String()
}

func (m *Model) renderCell(week model.Week, day, virtueID int) string {
	style, mark := cleanStyle, " · "
	if week.HasFault(day, virtueID) {
		style, mark = faultStyle, " ● "
	}
	if day == m.day && virtueID == m.virtueID {
		style = style.Reverse(true)
	}
	return style.Render(mark)
}

func (m *Model) renderHistory() string {
	report := stats.BuildReport(m.state)
	if len(report.History) == 0 {
		return headerStyle.Render("No archived weeks yet. Weeks with faults are archived when a new week starts.")
	}
	var b strings.Builder
	for i, s := range report.History {
		line := fmt.Sprintf("%s  %-12s  %2d faults  %2d clean  %d/%d clean days",
			runewidth.FillRight(s.Range, 16), s.Focus.Title, s.Total, s.CleanCells, s.CleanDays, model.DaysPerWeek)
		if i == m.historyIdx {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")
	b.WriteString(footerStyle.Render("Trend " + stats.Sparkline(stats.HistoryTotals(report.History))))
	return b.String()
}
