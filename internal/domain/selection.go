package domain

// SelectMode controls how a select call combines with the current selection.
type SelectMode int

const (
	SelectReplace SelectMode = iota
	SelectAdd
	SelectToggle
)

// ParseSelectMode maps "replace", "add" and "toggle". Anything else is replace.
func ParseSelectMode(s string) SelectMode {
	switch s {
	case "add":
		return SelectAdd
	case "toggle":
		return SelectToggle
	default:
		return SelectReplace
	}
}

// SelectionState is the selected set (in selection order) plus the transient
// hovered and focused components.
type SelectionState struct {
	Selected []string `json:"selected"`
	Hovered  string   `json:"hovered,omitempty"`
	Focused  string   `json:"focused,omitempty"`
}

// First returns the first selected id, or "".
func (s SelectionState) First() string {
	if len(s.Selected) == 0 {
		return ""
	}
	return s.Selected[0]
}

// IsSelected reports whether id is in the selected set.
func (s SelectionState) IsSelected(id string) bool {
	for _, sel := range s.Selected {
		if sel == id {
			return true
		}
	}
	return false
}
