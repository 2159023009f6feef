// Package tracker owns the running state of the virtue tracker: the current
// week and the archived history.
//
// A Tracker has two phases. New returns it uninitialized; Initialize loads
// storage, reconciles the stored week against the clock once, and marks it
// ready. Reads and intents before that point are wiring bugs and panic with
// ErrNotInitialized. Consumers that start early can block on WaitReady.
//
// Intents mutate memory synchronously and hand the latest snapshot of the
// touched slot to a background writer. Storage is best-effort: failed writes
// are logged and dropped, and memory stays authoritative for the session.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/franklin/internal/logger"
	"github.com/verte-zerg/franklin/internal/model"
	"github.com/verte-zerg/franklin/internal/store"
	"github.com/verte-zerg/franklin/internal/virtue"
)

var (
	// ErrNotInitialized reports use of a tracker before Initialize completed.
	ErrNotInitialized = errors.New("tracker used before Initialize")
	// ErrAlreadyInitialized reports a second call to Initialize.
	ErrAlreadyInitialized = errors.New("tracker already initialized")
)

// Storage is the durable key-value store behind the tracker.
// Get must return store.ErrNotFound for a key that was never written.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

// WithLogger replaces the default component logger.
func WithLogger(log *zerolog.Logger) Option {
	return func(t *Tracker) {
		t.log = log
	}
}

// Tracker is the single owner of AppState.
type Tracker struct {
	storage Storage
	now     func() time.Time
	log     *zerolog.Logger
	writer  *writer

	mu      sync.RWMutex
	started bool
	ready   bool
	readyCh chan struct{}
	state   model.AppState

	subsMu  sync.Mutex
	subs    map[int]chan model.AppState
	nextSub int
}

// New returns an uninitialized tracker and starts its background writer.
// Call Close to stop it.
func New(storage Storage, opts ...Option) *Tracker {
	t := &Tracker{
		storage: storage,
		now:     time.Now,
		readyCh: make(chan struct{}),
		subs:    map[int]chan model.AppState{},
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.log == nil {
		t.log = logger.Named("tracker")
	}
	t.writer = newWriter(storage, t.log)
	return t
}

// Initialize runs startup reconciliation and moves the tracker to ready.
// Missing or corrupt slots start empty. A slot whose read failed for any
// other reason also starts empty in memory but is not written back at
// startup, so a transient storage error cannot erase what is on disk.
// A done ctx aborts before reconciliation; Initialize may then be retried.
func (t *Tracker) Initialize(ctx context.Context) (model.AppState, error) {
	t.mu.Lock()
	if t.started {
		t.mu.Unlock()
		return model.AppState{}, ErrAlreadyInitialized
	}
	t.started = true
	t.mu.Unlock()

	abort := func(err error) (model.AppState, error) {
		t.mu.Lock()
		t.started = false
		t.mu.Unlock()
		return model.AppState{}, fmt.Errorf("failed to initialize tracker: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return abort(err)
	}
	history, historyOK := t.loadHistory(ctx)
	stored, weekOK := t.loadCurrentWeek(ctx)
	if err := ctx.Err(); err != nil {
		return abort(err)
	}

	now := t.now()
	state, outcome := Reconcile(now, stored, history)

	ev := t.log.Info().
		Str("week", state.CurrentWeek.ID).
		Int("focus", state.CurrentWeek.FocusVirtueID).
		Int("history", len(state.History)).
		Stringer("outcome", outcome)
	if stored != nil {
		ev = ev.Str("stored_week", stored.ID)
	}
	ev.Msg("reconciled")

	t.mu.Lock()
	t.state = state
	t.ready = true
	close(t.readyCh)
	switch {
	case historyOK:
		if weekOK {
			t.persistWeekLocked()
		}
		t.persistHistoryLocked()
	case outcome == OutcomeArchived:
		// The stored week stays on disk until history can be read again.
		t.log.Warn().Str("week", stored.ID).Msg("history unreadable, archived week kept in memory only")
	case weekOK:
		t.persistWeekLocked()
	}
	t.publishLocked()
	t.mu.Unlock()

	return state.Clone(), nil
}

// loadHistory reports ok=false when the slot could not be read at all.
func (t *Tracker) loadHistory(ctx context.Context) ([]model.Week, bool) {
	raw, err := t.storage.Get(ctx, store.KeyHistory)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, true
		}
		t.log.Warn().Err(err).Msg("history unreadable, starting empty without overwriting")
		return nil, false
	}
	history, err := model.DecodeHistory(raw)
	if err != nil {
		t.log.Warn().Err(err).Msg("history corrupt, starting empty")
		return nil, true
	}
	return history, true
}

// loadCurrentWeek reports ok=false when the slot could not be read at all.
func (t *Tracker) loadCurrentWeek(ctx context.Context) (*model.Week, bool) {
	raw, err := t.storage.Get(ctx, store.KeyCurrentWeek)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, true
		}
		t.log.Warn().Err(err).Msg("current week unreadable, starting fresh without overwriting")
		return nil, false
	}
	week, err := model.DecodeWeek(raw)
	if err != nil {
		t.log.Warn().Err(err).Msg("current week corrupt, starting fresh")
		return nil, true
	}
	return &week, true
}

// Ready is closed once Initialize has completed.
func (t *Tracker) Ready() <-chan struct{} {
	return t.readyCh
}

// WaitReady blocks until the tracker is ready or ctx is done.
func (t *Tracker) WaitReady(ctx context.Context) error {
	select {
	case <-t.readyCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Loaded reports whether Initialize has completed. It never panics.
func (t *Tracker) Loaded() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.ready
}

func (t *Tracker) mustBeReadyLocked() {
	if !t.ready {
		panic(fmt.Errorf("tracker: %w", ErrNotInitialized))
	}
}

// ToggleFault flips the fault mark at (day, virtueID) of the current week.
// Coordinates outside the 7x13 grid are ignored.
func (t *Tracker) ToggleFault(day, virtueID int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.mustBeReadyLocked()
	if !model.ValidCell(day, virtueID) {
		t.log.Debug().Int("day", day).Int("virtue", virtueID).Msg("ignoring toggle outside grid")
		return
	}
	t.state.CurrentWeek = t.state.CurrentWeek.Toggle(day, virtueID)
	t.persistWeekLocked()
	t.publishLocked()
}

// DeleteHistoryWeek removes the archived week with id; unknown ids are a no-op.
func (t *Tracker) DeleteHistoryWeek(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.mustBeReadyLocked()
	idx := model.IndexOf(t.state.History, id)
	if idx < 0 {
		return
	}
	history := make([]model.Week, 0, len(t.state.History)-1)
	history = append(history, t.state.History[:idx]...)
	history = append(history, t.state.History[idx+1:]...)
	t.state.History = history
	t.persistHistoryLocked()
	t.publishLocked()
}

// ClearHistory removes every archived week.
func (t *Tracker) ClearHistory() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.mustBeReadyLocked()
	t.state.History = []model.Week{}
	t.persistHistoryLocked()
	t.publishLocked()
}

// State returns a snapshot of the whole state.
func (t *Tracker) State() model.AppState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	t.mustBeReadyLocked()
	return t.state.Clone()
}

// CurrentWeek returns the week being edited.
func (t *Tracker) CurrentWeek() model.Week {
	t.mu.RLock()
	defer t.mu.RUnlock()
	t.mustBeReadyLocked()
	return t.state.CurrentWeek
}

// History returns the archived weeks, most recently archived first.
func (t *Tracker) History() []model.Week {
	return t.State().History
}

// FocusVirtue returns this week's focus virtue.
func (t *Tracker) FocusVirtue() virtue.Virtue {
	v, _ := virtue.Get(t.CurrentWeek().FocusVirtueID)
	return v
}

// HasFault reports a mark of the current week.
func (t *Tracker) HasFault(day, virtueID int) bool {
	return t.CurrentWeek().HasFault(day, virtueID)
}

// CountFaults counts the current week's faults for virtueID.
func (t *Tracker) CountFaults(virtueID int) int {
	return t.CurrentWeek().CountForVirtue(virtueID)
}

// TotalFaults counts every fault of the current week.
func (t *Tracker) TotalFaults() int {
	return t.CurrentWeek().CountTotal()
}

// Subscribe returns a channel receiving the latest state after every change.
// Slow readers only see the most recent snapshot. Call cancel when done.
func (t *Tracker) Subscribe() (<-chan model.AppState, func()) {
	ch := make(chan model.AppState, 1)
	t.subsMu.Lock()
	id := t.nextSub
	t.nextSub++
	t.subs[id] = ch
	t.subsMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			t.subsMu.Lock()
			delete(t.subs, id)
			t.subsMu.Unlock()
		})
	}
	return ch, cancel
}

// Flush waits until every write issued so far has been attempted.
func (t *Tracker) Flush(ctx context.Context) error {
	return t.writer.flush(ctx)
}

// Close flushes pending writes and stops the background writer.
// The in-memory state stays readable; later intents are no longer persisted.
func (t *Tracker) Close(ctx context.Context) error {
	return t.writer.close(ctx)
}

func (t *Tracker) persistWeekLocked() {
	raw, err := model.EncodeWeek(t.state.CurrentWeek)
	if err != nil {
		t.log.Error().Err(err).Msg("failed to encode current week, write dropped")
		return
	}
	t.writer.enqueue(store.KeyCurrentWeek, raw)
}

func (t *Tracker) persistHistoryLocked() {
	raw, err := model.EncodeHistory(t.state.History)
	if err != nil {
		t.log.Error().Err(err).Msg("failed to encode history, write dropped")
		return
	}
	t.writer.enqueue(store.KeyHistory, raw)
}

func (t *Tracker) publishLocked() {
	snapshot := t.state.Clone()
	t.subsMu.Lock()
	defer t.subsMu.Unlock()
	for _, ch := range t.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snapshot:
		default:
		}
	}
}
