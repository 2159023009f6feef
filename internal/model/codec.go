package model

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/verte-zerg/franklin/internal/virtue"
)

// weekRecord is the stored shape of a week. Only true marks are written;
// a missing day or virtue key reads as no fault.
type weekRecord struct {
	ID            string                     `json:"id"`
	FocusVirtueID int                        `json:"focusVirtueId"`
	Days          map[string]map[string]bool `json:"days"`
}

// MarshalJSON implements json.Marshaler.
func (w Week) MarshalJSON() ([]byte, error) {
	rec := weekRecord{
		ID:            w.ID,
		FocusVirtueID: w.FocusVirtueID,
		Days:          map[string]map[string]bool{},
	}
	for day := 0; day < DaysPerWeek; day++ {
		for v := 1; v <= virtue.Count; v++ {
			if !w.marks[day][v-1] {
				continue
			}
			key := strconv.Itoa(day)
			if _, ok := rec.Days[key]; !ok {
				rec.Days[key] = map[string]bool{}
			}
			rec.Days[key][strconv.Itoa(v)] = true
		}
	}
	return json.Marshal(rec)
}

// UnmarshalJSON implements json.Unmarshaler. Keys outside the 7x13 grid are ignored.
func (w *Week) UnmarshalJSON(data []byte) error {
	var rec weekRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	if rec.ID == "" {
		return fmt.Errorf("week record has no id")
	}
	out := Week{ID: rec.ID, FocusVirtueID: rec.FocusVirtueID}
	for dayKey, marks := range rec.Days {
		day, err := strconv.Atoi(dayKey)
		if err != nil {
			continue
		}
		for virtueKey, fault := range marks {
			v, err := strconv.Atoi(virtueKey)
			if err != nil || !fault || !ValidCell(day, v) {
				continue
			}
			out.marks[day][v-1] = true
		}
	}
	*w = out
	return nil
}

// EncodeWeek serializes a week for the current-week slot.
func EncodeWeek(w Week) (string, error) {
	data, err := json.Marshal(w)
	if err != nil {
		return "", fmt.Errorf("failed to encode week: %w", err)
	}
	return string(data), nil
}

// DecodeWeek parses a current-week slot value.
func DecodeWeek(raw string) (Week, error) {
	var w Week
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return Week{}, fmt.Errorf("failed to decode week: %w", err)
	}
	return w, nil
}

// EncodeHistory serializes the history slot, most recently archived first.
func EncodeHistory(history []Week) (string, error) {
	if history == nil {
		history = []Week{}
	}
	data, err := json.Marshal(history)
	if err != nil {
		return "", fmt.Errorf("failed to encode history: %w", err)
	}
	return string(data), nil
}

// DecodeHistory parses a history slot value.
func DecodeHistory(raw string) ([]Week, error) {
	var history []Week
	if err := json.Unmarshal([]byte(raw), &history); err != nil {
		return nil, fmt.Errorf("failed to decode history: %w", err)
	}
	if history == nil {
		history = []Week{}
	}
	return history, nil
}
