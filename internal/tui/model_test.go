package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/franklin/internal/logger"
	"github.com/verte-zerg/franklin/internal/model"
	"github.com/verte-zerg/franklin/internal/store"
	"github.com/verte-zerg/franklin/internal/tracker"
)

var now = time.Date(2026, time.October, 21, 9, 0, 0, 0, time.Local)

func clock() time.Time { return now }

func newTracker(t *testing.T, history []model.Week) *tracker.Tracker {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "franklin.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if len(history) > 0 {
		raw, err := model.EncodeHistory(history)
		if err != nil {
			t.Fatalf("encode history: %v", err)
		}
		if err := st.Set(context.Background(), store.KeyHistory, raw); err != nil {
			t.Fatalf("seed history: %v", err)
		}
	}
	tr := tracker.New(st, tracker.WithClock(clock), tracker.WithLogger(logger.Nop()))
	t.Cleanup(func() {
		_ = tr.Close(context.Background())
		_ = st.Close()
	})
	return tr
}

func readyModel(t *testing.T, tr *tracker.Tracker) *Model {
	t.Helper()
	m := NewModel(tr, clock)
	if _, err := tr.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	m.Update(m.waitReady()())
	return m
}

func press(m *Model, k string) {
	var msg tea.KeyMsg
	switch k {
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "space":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	m.Update(msg)
}

func TestViewShowsLoadingBeforeReady(t *testing.T) {
	tr := newTracker(t, nil)
	m := NewModel(tr, clock)
	if !strings.Contains(m.View(), "Loading") {
		t.Fatalf("expected loading view, got %q", m.View())
	}
	press(m, "x")
	if tr.Loaded() {
		t.Fatalf("keys before ready must not reach the tracker")
	}
}

func TestToggleAtCursor(t *testing.T) {
	tr := newTracker(t, nil)
	m := readyModel(t, tr)

	focus := tr.CurrentWeek().FocusVirtueID
	press(m, "space")
	if !tr.HasFault(3, focus) {
		t.Fatalf("expected fault at today's cell for focus virtue %d", focus)
	}
	press(m, "l")
	press(m, "j")
	press(m, "x")
	if !tr.HasFault(4, focus+1) {
		t.Fatalf("expected fault after moving cursor")
	}
	if m.state.CurrentWeek.CountTotal() != 2 {
		t.Fatalf("model state lags tracker: %d", m.state.CurrentWeek.CountTotal())
	}
	view := m.View()
	for _, want := range []string{"Total faults 2", "Clean 89/91", "Few faults, steady progress."} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestCursorWraps(t *testing.T) {
	m := readyModel(t, newTracker(t, nil))
	m.virtueID = 1
	press(m, "k")
	if m.virtueID != 13 {
		t.Fatalf("expected cursor to wrap to 13, got %d", m.virtueID)
	}
	m.day = 6
	press(m, "l")
	if m.day != 0 {
		t.Fatalf("expected day to wrap to 0, got %d", m.day)
	}
}

func TestHistoryDeleteAndClear(t *testing.T) {
	history := []model.Week{
		model.NewWeek(now.AddDate(0, 0, -7)).Toggle(0, 1),
		model.NewWeek(now.AddDate(0, 0, -14)).Toggle(1, 2),
		model.NewWeek(now.AddDate(0, 0, -21)).Toggle(2, 3),
	}
	tr := newTracker(t, history)
	m := readyModel(t, tr)

	press(m, "tab")
	if m.screen != screenHistory {
		t.Fatalf("expected history screen")
	}
	if !strings.Contains(m.View(), "Oct 11 – Oct 17") {
		t.Fatalf("history view missing week:\n%s", m.View())
	}
	if !strings.Contains(m.View(), " 1 faults  90 clean") {
		t.Fatalf("history view missing clean count:\n%s", m.View())
	}

	press(m, "j")
	press(m, "d")
	got := tr.History()
	if len(got) != 2 || got[0].ID != history[0].ID || got[1].ID != history[2].ID {
		t.Fatalf("unexpected history after delete: %+v", got)
	}

	press(m, "C")
	if !m.confirmClear {
		t.Fatalf("expected confirmation prompt")
	}
	press(m, "n")
	if len(tr.History()) != 2 {
		t.Fatalf("cancel must keep history")
	}
	press(m, "C")
	press(m, "y")
	if len(tr.History()) != 0 {
		t.Fatalf("expected cleared history")
	}
	if !strings.Contains(m.View(), "No archived weeks") {
		t.Fatalf("expected empty history view:\n%s", m.View())
	}
}

func TestStateMsgRearmsListener(t *testing.T) {
	m := readyModel(t, newTracker(t, nil))
	_, cmd := m.Update(stateMsg{state: model.AppState{CurrentWeek: model.NewWeek(now)}})
	if cmd == nil {
		t.Fatalf("expected listener to be re-armed")
	}
}
