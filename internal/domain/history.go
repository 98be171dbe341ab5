package domain

import "time"

// HistoryEntry is one immutable undo step: the canvas and selection as they
// were right after a committed mutation.
type HistoryEntry struct {
	ID        string       `json:"id"`
	Label     string       `json:"label"`
	Canvas    *CanvasState `json:"canvas"`
	Selected  []string     `json:"selected"`
	CreatedAt time.Time    `json:"createdAt"`
}

// Timeline is the exportable form of the history stacks. Entries run from
// oldest to newest; Cursor indexes the entry matching the live state.
type Timeline struct {
	Entries []HistoryEntry `json:"entries"`
	Cursor  int            `json:"cursor"`
}

// HistoryStatus is what a toolbar needs to render undo/redo buttons.
type HistoryStatus struct {
	CanUndo   bool   `json:"canUndo"`
	CanRedo   bool   `json:"canRedo"`
	UndoLabel string `json:"undoLabel,omitempty"`
	RedoLabel string `json:"redoLabel,omitempty"`
	Past      int    `json:"past"`
	Future    int    `json:"future"`
}
