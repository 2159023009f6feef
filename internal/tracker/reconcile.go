package tracker

import (
	"time"

	"github.com/verte-zerg/franklin/internal/model"
)

// Outcome describes what startup reconciliation did with the stored week.
type Outcome int

const (
	// OutcomeFresh means nothing usable was stored.
	OutcomeFresh Outcome = iota
	// OutcomeAdopted means the stored week is still the current week.
	OutcomeAdopted
	// OutcomeArchived means the stored week rolled over into history.
	OutcomeArchived
	// OutcomeDiscarded means the stored week rolled over without any fault.
	OutcomeDiscarded
	// OutcomeDuplicate means the stored week rolled over but history already had it.
	OutcomeDuplicate
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFresh:
		return "fresh"
	case OutcomeAdopted:
		return "adopted"
	case OutcomeArchived:
		return "archived"
	case OutcomeDiscarded:
		return "discarded"
	case OutcomeDuplicate:
		return "duplicate"
	default:
		return "unknown"
	}
}

// Reconcile decides the state to run with, given the stored week (nil when
// absent or unreadable) and the stored history, at time now.
//
// The returned history never contains the current week's id. An entry with
// that id can only appear after the clock moved backwards; it is folded
// back into an empty current week, or dropped when the current week has marks.
// This also runs when the stored week is adopted or was never stored, so in
// that inconsistent case history is not returned unchanged.
func Reconcile(now time.Time, stored *model.Week, history []model.Week) (model.AppState, Outcome) {
	out := make([]model.Week, len(history))
	copy(out, history)

	expected := model.NewWeek(now)
	current := expected
	outcome := OutcomeFresh

	if stored != nil {
		switch {
		case stored.ID == expected.ID:
			current = *stored
			outcome = OutcomeAdopted
		case !stored.HasAnyData():
			outcome = OutcomeDiscarded
		case model.IndexOf(out, stored.ID) >= 0:
			outcome = OutcomeDuplicate
		default:
			out = append([]model.Week{*stored}, out...)
			outcome = OutcomeArchived
		}
	}

	if idx := model.IndexOf(out, current.ID); idx >= 0 {
		if !current.HasAnyData() {
			current = out[idx]
		}
		out = append(out[:idx], out[idx+1:]...)
	}
	return model.AppState{CurrentWeek: current, History: out}, outcome
}
