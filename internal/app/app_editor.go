package app

import (
	"pagebuilder/internal/domain"
)

// ============================================================
// Component tree
// ============================================================

// GetCanvasState returns a snapshot of the open document.
func (a *App) GetCanvasState() *domain.CanvasState {
	return a.ws.Editor.State()
}

// AddComponent inserts inst under parentID ("" for a root).
func (a *App) AddComponent(parentID string, inst domain.ComponentInstance) (string, error) {
	return a.ws.Editor.Add(parentID, inst)
}

func (a *App) UpdateComponent(id string, patch domain.Patch) error {
	return a.ws.Editor.Update(id, patch)
}

func (a *App) DeleteComponents(ids []string) error {
	return a.ws.Editor.DeleteMany(ids)
}

// MoveComponents reparents ids at index; a negative index appends.
func (a *App) MoveComponents(ids []string, parentID string, index int) error {
	return a.ws.Editor.MoveMany(ids, parentID, index)
}

func (a *App) DuplicateComponent(id string) (string, error) {
	return a.ws.Editor.Duplicate(id)
}

func (a *App) SetGrid(g domain.GridConfig) error {
	return a.ws.Editor.SetGrid(g)
}

func (a *App) SetViewport(v domain.Viewport) {
	a.ws.Editor.SetViewport(v)
}

// ============================================================
// Selection
// ============================================================

func (a *App) GetSelection() domain.SelectionState {
	return a.ws.Editor.Selection()
}

// SelectComponent applies mode ("replace", "add" or "toggle") to id.
func (a *App) SelectComponent(id, mode string) error {
	return a.ws.Editor.Select(id, domain.ParseSelectMode(mode))
}

func (a *App) SelectAll() {
	a.ws.Editor.SelectAll()
}

func (a *App) ClearSelection() {
	a.ws.Editor.ClearSelection()
}

func (a *App) SetHovered(id string) error {
	return a.ws.Editor.SetHovered(id)
}

func (a *App) SetFocused(id string) error {
	return a.ws.Editor.SetFocused(id)
}

// ============================================================
// Clipboard
// ============================================================

func (a *App) Copy(ids []string) error {
	return a.ws.Clipboard.Copy(ids)
}

func (a *App) Cut(ids []string) error {
	return a.ws.Clipboard.Cut(ids)
}

func (a *App) Paste(parentID string) ([]string, error) {
	return a.ws.Clipboard.Paste(parentID)
}

// ============================================================
// History
// ============================================================

func (a *App) Undo() (bool, error) {
	return a.ws.Editor.Undo()
}

func (a *App) Redo() (bool, error) {
	return a.ws.Editor.Redo()
}

func (a *App) GetHistoryStatus() domain.HistoryStatus {
	return a.ws.Editor.HistoryStatus()
}
