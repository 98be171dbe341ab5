package app

import "pagebuilder/internal/domain"

// DropZoneInput describes a drop zone rendered by the frontend.
type DropZoneInput struct {
	Accepts  []string `json:"accepts"`
	ParentID string   `json:"parentId"`
	// Index is the insert position among the parent's children; negative appends.
	Index int    `json:"index"`
	Label string `json:"label"`
	// MaxChildren rejects drops once the parent is full. Zero means no limit.
	MaxChildren int `json:"maxChildren"`
}

// ResizeView is the live state of the last resize session.
type ResizeView struct {
	ID     string      `json:"id"`
	Rect   domain.Rect `json:"rect"`
	Handle string      `json:"handle,omitempty"`
	Cursor string      `json:"cursor,omitempty"`
	Active bool        `json:"active"`
	Error  string      `json:"error,omitempty"`
}

// MoveView is the preview position of a pointer move.
type MoveView struct {
	ID       string       `json:"id"`
	Position domain.Point `json:"position"`
}

// KeyboardView is the keyboard drag state for the status bar.
type KeyboardView struct {
	Mode      string        `json:"mode"`
	GrabbedID string        `json:"grabbedId,omitempty"`
	Position  *domain.Point `json:"position,omitempty"`
}
