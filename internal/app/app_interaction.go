package app

import (
	"fmt"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/dragdrop"
	"pagebuilder/internal/input"
	"pagebuilder/internal/keyboard"
	"pagebuilder/internal/transform"
)

// ============================================================
// Drop zones and pointer drag
// ============================================================

// RegisterDropZone adds a zone the frontend rendered. Registering an id
// again replaces the previous zone.
func (a *App) RegisterDropZone(zoneID string, in DropZoneInput) error {
	a.UnregisterDropZone(zoneID)
	cfg := dragdrop.ZoneConfig{
		Accepts:  in.Accepts,
		ParentID: in.ParentID,
		Index:    in.Index,
		Label:    in.Label,
	}
	if in.MaxChildren > 0 {
		cfg.Validate = a.capacityValidator(in.ParentID, in.MaxChildren)
	}
	unregister, err := a.drops.Register(zoneID, cfg)
	if err != nil {
		return err
	}
	a.mu.Lock()
	a.zones[zoneID] = unregister
	a.mu.Unlock()
	return nil
}

func (a *App) UnregisterDropZone(zoneID string) {
	a.mu.Lock()
	unregister, ok := a.zones[zoneID]
	delete(a.zones, zoneID)
	a.mu.Unlock()
	if ok {
		unregister()
	}
}

// DropZoneStatuses returns every zone in registration order.
func (a *App) DropZoneStatuses() []dragdrop.ZoneStatus {
	return a.drops.Statuses()
}

// DragStart begins a pointer drag carrying data.
func (a *App) DragStart(data domain.DragData) error {
	a.bridge.Begin(data)
	if err := a.drops.Start(); err != nil {
		a.bridge.End()
		return err
	}
	return nil
}

// DragOver reports the zone under the pointer ("" for none) and returns
// the status of that zone.
func (a *App) DragOver(zoneID string) (*dragdrop.ZoneStatus, error) {
	if _, ok := a.drops.Active(); !ok {
		return nil, dragdrop.ErrNoDrag
	}
	a.bridge.PointerOver(zoneID)
	hit, ok := a.drops.Over()
	if !ok {
		return nil, nil
	}
	st, _ := a.drops.Status(hit)
	return &st, nil
}

// DragDrop releases the drag over zoneID.
func (a *App) DragDrop(zoneID string) (dragdrop.Result, error) {
	a.bridge.PointerOver(zoneID)
	defer a.bridge.End()
	return a.drops.Drop()
}

func (a *App) DragCancel() {
	a.drops.Cancel()
	a.bridge.End()
}

// capacityValidator rejects drops into parentID once it holds limit
// children. Components already inside parentID can still be reordered.
func (a *App) capacityValidator(parentID string, limit int) dragdrop.Validator {
	return func(data domain.DragData) domain.DropValidation {
		var children []string
		if parentID == "" {
			children = a.ws.Editor.State().RootIDs
		} else if p, ok := a.ws.Editor.Component(parentID); ok {
			children = p.Children
		}
		incoming := 1
		if data.IsMove() {
			incoming = 0
			for _, id := range data.SourceIDs {
				if c, ok := a.ws.Editor.Component(id); ok && c.ParentID != parentID {
					incoming++
				}
			}
		}
		if len(children)+incoming > limit {
			return domain.Reject(fmt.Sprintf("holds at most %d components", limit))
		}
		return domain.Accept()
	}
}

// ============================================================
// Pointer move and resize
// ============================================================

// PointerEvent forwards a document-level pointer or key event to the
// running move or resize session. It reports whether a session used it.
func (a *App) PointerEvent(ev input.Event) bool {
	return a.bus.Dispatch(ev)
}

// MoveStart begins dragging component id by its body.
func (a *App) MoveStart(id string, ev input.Event) error {
	return a.mover.PointerDown(id, ev)
}

// ResizeStart begins a resize of id from handle ("n", "se", ...).
func (a *App) ResizeStart(id, handle string, ev input.Event, c domain.ResizeConstraints) error {
	h, ok := transform.ParseHandle(handle)
	if !ok {
		return fmt.Errorf("unknown resize handle %q", handle)
	}
	r, err := transform.NewResizer(a.ws.Editor, a.bus, id, c)
	if err != nil {
		return err
	}
	if err := r.PointerDown(h, ev); err != nil {
		return err
	}
	a.mu.Lock()
	a.resizer = r
	a.mu.Unlock()
	return nil
}

// ResizePreview returns the live rectangle of the last resize.
func (a *App) ResizePreview() *ResizeView {
	a.mu.Lock()
	r := a.resizer
	a.mu.Unlock()
	if r == nil {
		return nil
	}
	view := &ResizeView{ID: r.ID(), Rect: r.Rect()}
	if h, ok := r.ActiveHandle(); ok {
		view.Handle = string(h)
		view.Cursor = h.Cursor()
		view.Active = true
	}
	if err := r.Err(); err != nil {
		view.Error = err.Error()
	}
	return view
}

// MovePreview returns the live position of the component being moved.
func (a *App) MovePreview() *MoveView {
	id, pos, ok := a.mover.Position()
	if !ok {
		return nil
	}
	return &MoveView{ID: id, Position: pos}
}

// ============================================================
// Keyboard
// ============================================================

// KeyDown handles a document key press: a running pointer drag, move or
// resize sees it first (Escape cancels), then keyboard drag, then shortcuts.
func (a *App) KeyDown(ev input.Event) (bool, error) {
	ev.Kind = input.KeyDown
	if a.bus.Count(input.KeyDown) > 0 {
		return a.bus.Dispatch(ev), nil
	}
	return a.shortcuts.HandleKey(ev)
}

// KeyboardState is the keyboard drag mode and the grabbed component.
func (a *App) KeyboardState() KeyboardView {
	view := KeyboardView{Mode: string(a.keys.Mode())}
	if id, pos, ok := a.keys.Grabbed(); ok {
		view.GrabbedID = id
		view.Position = &pos
	}
	return view
}

// RunShortcut runs a named action ("undo", "copy", ...) as if its key
// binding were pressed, for toolbar buttons and menus.
func (a *App) RunShortcut(action string) error {
	return a.shortcuts.Run(keyboard.Action(action))
}
