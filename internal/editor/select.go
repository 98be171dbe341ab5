package editor

import (
	"pagebuilder/internal/canvas"
	"pagebuilder/internal/domain"
)

// Select changes the selected set. Unknown ids are rejected.
func (e *Editor) Select(id string, mode domain.SelectMode) error {
	e.mu.Lock()
	if !e.state.Has(id) {
		e.mu.Unlock()
		return &domain.NotFoundError{ID: id}
	}
	e.selection.Select(id, mode)
	e.mu.Unlock()
	e.notify(Change{Kind: ChangeSelection})
	return nil
}

// SelectAll selects every component in document order.
func (e *Editor) SelectAll() {
	e.mu.Lock()
	e.selection.Set(canvas.OrderedIDs(e.state))
	e.mu.Unlock()
	e.notify(Change{Kind: ChangeSelection})
}

func (e *Editor) ClearSelection() {
	e.mu.Lock()
	e.selection.Clear()
	e.mu.Unlock()
	e.notify(Change{Kind: ChangeSelection})
}

// SetHovered sets the hovered id; "" clears it.
func (e *Editor) SetHovered(id string) error {
	return e.setTransient(id, e.selection.SetHovered)
}

// SetFocused sets the focused id; "" clears it.
func (e *Editor) SetFocused(id string) error {
	return e.setTransient(id, e.selection.SetFocused)
}

func (e *Editor) setTransient(id string, set func(string)) error {
	e.mu.Lock()
	if id != "" && !e.state.Has(id) {
		e.mu.Unlock()
		return &domain.NotFoundError{ID: id}
	}
	set(id)
	e.mu.Unlock()
	e.notify(Change{Kind: ChangeSelection})
	return nil
}
