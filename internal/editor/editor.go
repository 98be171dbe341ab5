// Package editor is the state container of the page builder. It owns the
// canvas, selection, clipboard and history, and every controller talks to
// it instead of holding state of its own.
package editor

import (
	"fmt"
	"slices"
	"sync"

	"pagebuilder/internal/canvas"
	"pagebuilder/internal/domain"
)

// ChangeKind classifies a notification.
type ChangeKind string

const (
	ChangeTree      ChangeKind = "tree"
	ChangeSelection ChangeKind = "selection"
	ChangeClipboard ChangeKind = "clipboard"
	ChangeHistory   ChangeKind = "history"
	ChangeViewport  ChangeKind = "viewport"
)

// Change is delivered to observers after the editor lock is released.
type Change struct {
	Kind  ChangeKind `json:"kind"`
	Label string     `json:"label,omitempty"`
}

// Observer receives change notifications.
type Observer func(Change)

// Editor serializes every call with a mutex; callers on any goroutine see
// whole mutations only.
type Editor struct {
	mu        sync.Mutex
	state     *domain.CanvasState
	selection Selection
	history   *History
	clip      *domain.ClipboardState
	sessions  SessionGuard

	newID       canvas.IDFunc
	pasteOffset domain.Point
	capacity    int

	obsMu     sync.Mutex
	observers map[int]Observer
	nextObs   int
}

// Option configures an Editor.
type Option func(*Editor)

func WithHistoryCapacity(n int) Option {
	return func(e *Editor) { e.capacity = n }
}

// WithPasteOffset sets the delta applied to pasted and duplicated roots.
func WithPasteOffset(dx, dy float64) Option {
	return func(e *Editor) { e.pasteOffset = domain.Point{X: dx, Y: dy} }
}

func WithIDFunc(f canvas.IDFunc) Option {
	return func(e *Editor) { e.newID = f }
}

func WithGrid(g domain.GridConfig) Option {
	return func(e *Editor) { e.state.Grid = g }
}

func WithObserver(fn Observer) Option {
	return func(e *Editor) { e.Subscribe(fn) }
}

// New returns an editor over an empty canvas.
func New(opts ...Option) *Editor {
	e := &Editor{
		state:       domain.NewCanvasState(domain.GridConfig{Enabled: true, CellSize: 8, Snap: true}),
		newID:       canvas.NewID,
		pasteOffset: domain.Point{X: 16, Y: 16},
		capacity:    DefaultHistoryCapacity,
		observers:   make(map[int]Observer),
	}
	e.selection.Clear()
	for _, opt := range opts {
		opt(e)
	}
	e.history = NewHistory(e.capacity, newEntry(e.newID(), "open", e.state, nil))
	return e
}

// Subscribe registers fn and returns a func that removes it.
func (e *Editor) Subscribe(fn Observer) func() {
	e.obsMu.Lock()
	defer e.obsMu.Unlock()
	id := e.nextObs
	e.nextObs++
	e.observers[id] = fn
	return func() {
		e.obsMu.Lock()
		defer e.obsMu.Unlock()
		delete(e.observers, id)
	}
}

func (e *Editor) notify(changes ...Change) {
	if len(changes) == 0 {
		return
	}
	e.obsMu.Lock()
	obs := make([]Observer, 0, len(e.observers))
	for _, fn := range e.observers {
		obs = append(obs, fn)
	}
	e.obsMu.Unlock()
	for _, fn := range obs {
		for _, c := range changes {
			fn(c)
		}
	}
}

// Load replaces the document. A nil or invalid timeline starts a fresh
// history whose only entry is state.
func (e *Editor) Load(state *domain.CanvasState, tl *domain.Timeline) error {
	if err := canvas.Check(state); err != nil {
		return fmt.Errorf("load canvas: %w", err)
	}
	e.mu.Lock()
	e.state = state.Clone()
	e.selection.Clear()
	e.selection.SetHovered("")
	e.selection.SetFocused("")
	e.history = NewHistory(e.capacity, newEntry(e.newID(), "open", e.state, nil))
	var err error
	if tl != nil && len(tl.Entries) > 0 {
		err = e.history.RestoreTimeline(*tl)
	}
	e.mu.Unlock()
	e.notify(Change{Kind: ChangeTree, Label: "open"}, Change{Kind: ChangeHistory})
	return err
}

// ── Reads ──────────────────────────────────────────────────

// State returns a deep copy of the canvas.
func (e *Editor) State() *domain.CanvasState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// Component returns a copy of one component.
func (e *Editor) Component(id string) (domain.ComponentInstance, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c := e.state.Get(id)
	if c == nil {
		return domain.ComponentInstance{}, false
	}
	return *c.Clone(), true
}

// OrderedIDs lists all components in document order.
func (e *Editor) OrderedIDs() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return canvas.OrderedIDs(e.state)
}

// IsDescendant reports whether candidate lies strictly inside id's subtree.
func (e *Editor) IsDescendant(id, candidate string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return canvas.IsDescendant(e.state, id, candidate)
}

func (e *Editor) Viewport() domain.Viewport {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Viewport
}

func (e *Editor) Grid() domain.GridConfig {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Grid
}

func (e *Editor) Selection() domain.SelectionState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selection.Snapshot()
}

func (e *Editor) HistoryStatus() domain.HistoryStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Status()
}

// Timeline exports the history for persistence.
func (e *Editor) Timeline() domain.Timeline {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Timeline()
}

// ── Sessions ───────────────────────────────────────────────

// BeginSession claims the single interactive session slot.
func (e *Editor) BeginSession(kind SessionKind) (func(), error) {
	return e.sessions.Acquire(kind)
}

// ActiveSession returns the running session kind, if any.
func (e *Editor) ActiveSession() (SessionKind, bool) {
	return e.sessions.Active()
}

// ── Mutations ──────────────────────────────────────────────

// Tx is the working copy handed to Batch. Its methods mirror the editor
// mutations; nothing is visible outside until Batch returns nil.
type Tx struct {
	state       *domain.CanvasState
	newID       canvas.IDFunc
	offset      domain.Point
	removed     []string
	selectAfter []string
	changed     bool
}

// State exposes the working copy for reads.
func (tx *Tx) State() *domain.CanvasState { return tx.state }

func (tx *Tx) Add(parentID string, inst domain.ComponentInstance) (string, error) {
	id, err := canvas.Add(tx.state, parentID, inst, tx.newID)
	if err == nil {
		tx.changed = true
	}
	return id, err
}

func (tx *Tx) Update(id string, patch domain.Patch) error {
	if err := canvas.Update(tx.state, id, patch); err != nil {
		return err
	}
	tx.changed = tx.changed || !patch.IsEmpty()
	return nil
}

// Delete removes the subtree at id. Absent ids are ignored.
func (tx *Tx) Delete(id string) {
	removed := canvas.Delete(tx.state, id)
	if len(removed) > 0 {
		tx.removed = append(tx.removed, removed...)
		tx.changed = true
	}
}

// Move reparents id at index. Landing back where it started is not a change.
func (tx *Tx) Move(id, newParentID string, index int) error {
	before := childOrder(tx.state, []string{id}, newParentID)
	if err := canvas.Move(tx.state, id, newParentID, index); err != nil {
		return err
	}
	if !sameOrder(tx.state, before) {
		tx.changed = true
	}
	return nil
}

// MoveMany moves several subtrees under newParentID at index, keeping
// their order. A negative index appends.
func (tx *Tx) MoveMany(ids []string, newParentID string, index int) error {
	before := childOrder(tx.state, ids, newParentID)
	if _, err := canvas.MoveMany(tx.state, ids, newParentID, index); err != nil {
		return err
	}
	if !sameOrder(tx.state, before) {
		tx.changed = true
	}
	return nil
}

// childOrder copies every child list a move of ids into newParentID touches.
func childOrder(s *domain.CanvasState, ids []string, newParentID string) map[string][]string {
	out := map[string][]string{newParentID: slices.Clone(canvas.Children(s, newParentID))}
	for _, id := range ids {
		c := s.Get(id)
		if c == nil {
			continue
		}
		if _, ok := out[c.ParentID]; !ok {
			out[c.ParentID] = slices.Clone(canvas.Children(s, c.ParentID))
		}
	}
	return out
}

func sameOrder(s *domain.CanvasState, before map[string][]string) bool {
	for parent, list := range before {
		if !slices.Equal(list, canvas.Children(s, parent)) {
			return false
		}
	}
	return true
}

func (tx *Tx) Duplicate(id string) (string, error) {
	newID, err := canvas.Duplicate(tx.state, id, tx.newID, tx.offset)
	if err == nil {
		tx.changed = true
	}
	return newID, err
}

// Insert adds a fresh copy of clip under parentID.
func (tx *Tx) Insert(parentID string, clip *domain.ClipboardState) ([]string, error) {
	roots, err := canvas.Insert(tx.state, parentID, clip, tx.newID, tx.offset)
	if err == nil {
		tx.changed = true
	}
	return roots, err
}

func (tx *Tx) SetGrid(g domain.GridConfig) {
	if tx.state.Grid != g {
		tx.state.Grid = g
		tx.changed = true
	}
}

// Select replaces the selection once the batch commits.
func (tx *Tx) Select(ids ...string) {
	tx.selectAfter = append([]string{}, ids...)
}

// Batch runs fn against a copy of the canvas and, if it returns nil and
// changed something, swaps the copy in and records one history entry.
func (e *Editor) Batch(label string, fn func(tx *Tx) error) error {
	e.mu.Lock()
	changed, err := e.batchLocked(label, fn)
	e.mu.Unlock()
	if err != nil || !changed {
		return err
	}
	e.notify(Change{Kind: ChangeTree, Label: label}, Change{Kind: ChangeSelection}, Change{Kind: ChangeHistory})
	return nil
}

func (e *Editor) batchLocked(label string, fn func(tx *Tx) error) (bool, error) {
	tx := &Tx{state: e.state.Clone(), newID: e.newID, offset: e.pasteOffset}
	if err := fn(tx); err != nil {
		return false, err
	}
	if !tx.changed {
		return false, nil
	}
	e.state = tx.state
	e.selection.Prune(e.state.Has)
	if tx.selectAfter != nil {
		e.selection.Set(tx.selectAfter)
	}
	e.history.Record(newEntry(e.newID(), label, e.state, e.selection.state.Selected))
	return true, nil
}

// Add inserts inst under parentID ("" for a new root) and returns its id.
func (e *Editor) Add(parentID string, inst domain.ComponentInstance) (string, error) {
	var id string
	err := e.Batch("add "+inst.Type, func(tx *Tx) error {
		var err error
		id, err = tx.Add(parentID, inst)
		return err
	})
	return id, err
}

func (e *Editor) Update(id string, patch domain.Patch) error {
	return e.Apply("update", id, patch)
}

// Apply is Update with a caller-chosen history label.
func (e *Editor) Apply(label, id string, patch domain.Patch) error {
	return e.Batch(label, func(tx *Tx) error { return tx.Update(id, patch) })
}

// Delete removes id and its descendants. Absent ids are a no-op.
func (e *Editor) Delete(id string) error {
	return e.DeleteMany([]string{id})
}

// DeleteMany removes several subtrees as one history step.
func (e *Editor) DeleteMany(ids []string) error {
	label := "delete"
	if len(ids) > 1 {
		label = fmt.Sprintf("delete %d components", len(ids))
	}
	return e.Batch(label, func(tx *Tx) error {
		for _, id := range ids {
			tx.Delete(id)
		}
		return nil
	})
}

func (e *Editor) Move(id, newParentID string, index int) error {
	return e.Batch("move", func(tx *Tx) error { return tx.Move(id, newParentID, index) })
}

// MoveMany moves ids under newParentID as one history step.
func (e *Editor) MoveMany(ids []string, newParentID string, index int) error {
	return e.Batch("move", func(tx *Tx) error { return tx.MoveMany(ids, newParentID, index) })
}

// Duplicate clones id's subtree next to it and selects the clone.
func (e *Editor) Duplicate(id string) (string, error) {
	var newID string
	err := e.Batch("duplicate", func(tx *Tx) error {
		var err error
		newID, err = tx.Duplicate(id)
		if err == nil {
			tx.Select(newID)
		}
		return err
	})
	return newID, err
}

// SetGrid changes the grid configuration as an undoable step.
func (e *Editor) SetGrid(g domain.GridConfig) error {
	return e.Batch("grid settings", func(tx *Tx) error {
		tx.SetGrid(g)
		return nil
	})
}

// SetViewport changes pan and zoom without touching history.
func (e *Editor) SetViewport(v domain.Viewport) {
	if v.Zoom <= 0 {
		v.Zoom = 1
	}
	e.mu.Lock()
	e.state.Viewport = v
	e.mu.Unlock()
	e.notify(Change{Kind: ChangeViewport})
}

// ── History ────────────────────────────────────────────────

// Undo restores the previous entry. It returns false when there is nothing
// to undo and fails while an interactive session is running.
func (e *Editor) Undo() (bool, error) {
	return e.travel("undo", (*History).Undo)
}

// Redo re-applies the last undone entry.
func (e *Editor) Redo() (bool, error) {
	return e.travel("redo", (*History).Redo)
}

func (e *Editor) travel(name string, step func(*History) (domain.HistoryEntry, bool)) (bool, error) {
	if kind, ok := e.sessions.Active(); ok {
		return false, &domain.SessionError{Requested: name, Active: string(kind)}
	}
	e.mu.Lock()
	entry, ok := step(e.history)
	if ok {
		viewport := e.state.Viewport
		e.state = entry.Canvas.Clone()
		e.state.Viewport = viewport
		e.selection.Set(entry.Selected)
		e.selection.Prune(e.state.Has)
	}
	e.mu.Unlock()
	if ok {
		e.notify(Change{Kind: ChangeTree, Label: name}, Change{Kind: ChangeSelection}, Change{Kind: ChangeHistory})
	}
	return ok, nil
}
