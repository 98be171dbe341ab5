package editor

import (
	"fmt"
	"time"

	"pagebuilder/internal/domain"
)

// DefaultHistoryCapacity bounds the undo stack when no capacity is configured.
const DefaultHistoryCapacity = 100

// History is a linear undo/redo log of canvas snapshots. present is the
// entry matching the live state; past and future are stacks whose last
// element is the next undo or redo target.
type History struct {
	capacity int
	present  domain.HistoryEntry
	past     []domain.HistoryEntry
	future   []domain.HistoryEntry
}

// NewHistory starts a history whose present entry is initial.
func NewHistory(capacity int, initial domain.HistoryEntry) *History {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &History{capacity: capacity, present: initial}
}

// Record makes entry the present, pushes the old present onto the past and
// discards the future. The oldest entries are evicted beyond capacity.
func (h *History) Record(entry domain.HistoryEntry) {
	h.past = append(h.past, h.present)
	if len(h.past) > h.capacity {
		h.past = append([]domain.HistoryEntry(nil), h.past[len(h.past)-h.capacity:]...)
	}
	h.present = entry
	h.future = nil
}

// Undo moves one step back and returns the entry to restore.
func (h *History) Undo() (domain.HistoryEntry, bool) {
	if len(h.past) == 0 {
		return domain.HistoryEntry{}, false
	}
	h.future = append(h.future, h.present)
	h.present = h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	return h.present, true
}

// Redo moves one step forward and returns the entry to restore.
func (h *History) Redo() (domain.HistoryEntry, bool) {
	if len(h.future) == 0 {
		return domain.HistoryEntry{}, false
	}
	h.past = append(h.past, h.present)
	h.present = h.future[len(h.future)-1]
	h.future = h.future[:len(h.future)-1]
	return h.present, true
}

// Present returns the entry matching the live state.
func (h *History) Present() domain.HistoryEntry {
	return h.present
}

func (h *History) Status() domain.HistoryStatus {
	st := domain.HistoryStatus{
		CanUndo: len(h.past) > 0,
		CanRedo: len(h.future) > 0,
		Past:    len(h.past),
		Future:  len(h.future),
	}
	if st.CanUndo {
		st.UndoLabel = h.present.Label
	}
	if st.CanRedo {
		st.RedoLabel = h.future[len(h.future)-1].Label
	}
	return st
}

// Timeline flattens the stacks oldest-first.
func (h *History) Timeline() domain.Timeline {
	entries := make([]domain.HistoryEntry, 0, len(h.past)+1+len(h.future))
	entries = append(entries, h.past...)
	entries = append(entries, h.present)
	for i := len(h.future) - 1; i >= 0; i-- {
		entries = append(entries, h.future[i])
	}
	return domain.Timeline{Entries: entries, Cursor: len(h.past)}
}

// RestoreTimeline replaces the stacks with tl.
func (h *History) RestoreTimeline(tl domain.Timeline) error {
	if tl.Cursor < 0 || tl.Cursor >= len(tl.Entries) {
		return fmt.Errorf("restore history: cursor %d out of range for %d entries", tl.Cursor, len(tl.Entries))
	}
	for i, e := range tl.Entries {
		if e.Canvas == nil {
			return fmt.Errorf("restore history: entry %d has no canvas", i)
		}
	}
	past := append([]domain.HistoryEntry(nil), tl.Entries[:tl.Cursor]...)
	if len(past) > h.capacity {
		past = past[len(past)-h.capacity:]
	}
	var future []domain.HistoryEntry
	for i := len(tl.Entries) - 1; i > tl.Cursor; i-- {
		future = append(future, tl.Entries[i])
	}
	h.past = past
	h.present = tl.Entries[tl.Cursor]
	h.future = future
	return nil
}

func newEntry(id, label string, state *domain.CanvasState, selected []string) domain.HistoryEntry {
	return domain.HistoryEntry{
		ID:        id,
		Label:     label,
		Canvas:    state.Clone(),
		Selected:  append([]string{}, selected...),
		CreatedAt: time.Now(),
	}
}
