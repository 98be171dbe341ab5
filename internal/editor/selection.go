package editor

import "pagebuilder/internal/domain"

// Selection tracks selected, hovered and focused ids. It does not know the
// tree; the editor validates ids before calling it and prunes it after
// deletes.
type Selection struct {
	state domain.SelectionState
}

// Select applies one id with the given mode.
func (s *Selection) Select(id string, mode domain.SelectMode) {
	switch mode {
	case domain.SelectAdd:
		if !s.state.IsSelected(id) {
			s.state.Selected = append(s.state.Selected, id)
		}
	case domain.SelectToggle:
		if s.state.IsSelected(id) {
			s.state.Selected = without(s.state.Selected, id)
		} else {
			s.state.Selected = append(s.state.Selected, id)
		}
	default:
		s.state.Selected = []string{id}
	}
}

// Set replaces the selected set.
func (s *Selection) Set(ids []string) {
	s.state.Selected = append([]string{}, ids...)
}

func (s *Selection) Clear() {
	s.state.Selected = []string{}
}

func (s *Selection) SetHovered(id string) { s.state.Hovered = id }

func (s *Selection) SetFocused(id string) { s.state.Focused = id }

// Prune drops every id for which exists returns false, including hover and
// focus. It reports whether anything changed.
func (s *Selection) Prune(exists func(string) bool) bool {
	changed := false
	kept := s.state.Selected[:0:0]
	for _, id := range s.state.Selected {
		if exists(id) {
			kept = append(kept, id)
		} else {
			changed = true
		}
	}
	s.state.Selected = kept
	if s.state.Hovered != "" && !exists(s.state.Hovered) {
		s.state.Hovered = ""
		changed = true
	}
	if s.state.Focused != "" && !exists(s.state.Focused) {
		s.state.Focused = ""
		changed = true
	}
	return changed
}

// Snapshot returns a copy safe to hand out.
func (s *Selection) Snapshot() domain.SelectionState {
	out := s.state
	out.Selected = append([]string{}, s.state.Selected...)
	return out
}

func without(list []string, id string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
