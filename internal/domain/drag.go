package domain

// DragData is the payload of one drag gesture. SourceIDs is empty when the
// drag creates a new component (for example from a palette), in which case
// Type names the component type to insert and Payload["props"] seeds its props.
type DragData struct {
	Type      string         `json:"type"`
	SourceIDs []string       `json:"sourceIds,omitempty"`
	Payload   map[string]any `json:"payload,omitempty"`
}

// IsMove reports whether the drag carries existing components.
func (d DragData) IsMove() bool {
	return len(d.SourceIDs) > 0
}

// DropValidation is the per-zone verdict for the payload under the pointer.
type DropValidation struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// Accept is the valid verdict.
func Accept() DropValidation { return DropValidation{Valid: true} }

// Reject returns an invalid verdict with a reason for the UI.
func Reject(reason string) DropValidation { return DropValidation{Reason: reason} }
