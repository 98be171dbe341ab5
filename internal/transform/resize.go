package transform

import (
	"log"
	"sync"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/editor"
	"pagebuilder/internal/input"
)

// Target is the editor surface a transform session needs.
type Target interface {
	Component(id string) (domain.ComponentInstance, bool)
	Viewport() domain.Viewport
	Grid() domain.GridConfig
	BeginSession(kind editor.SessionKind) (func(), error)
	Apply(label, id string, patch domain.Patch) error
}

// Resizer drives handle resizing of one component. While a session runs,
// Rect returns the live preview; the editor only sees the final box, as a
// single history entry, when the pointer is released.
type Resizer struct {
	target      Target
	src         input.Source
	id          string
	constraints domain.ResizeConstraints

	mu      sync.Mutex
	rect    domain.Rect
	session *resizeSession
	lastErr error
}

type resizeSession struct {
	handle      Handle
	start       domain.Rect
	origin      domain.Point
	zoom        float64
	constraints domain.ResizeConstraints
	scope       *input.Scope
	release     func()
}

// NewResizer binds a resizer to component id, starting from its current
// bounds.
func NewResizer(target Target, src input.Source, id string, c domain.ResizeConstraints) (*Resizer, error) {
	comp, ok := target.Component(id)
	if !ok {
		return nil, &domain.NotFoundError{ID: id}
	}
	return &Resizer{target: target, src: src, id: id, constraints: c, rect: comp.Bounds()}, nil
}

func (r *Resizer) ID() string { return r.id }

// Rect is the committed box, or the preview while a session is active.
func (r *Resizer) Rect() domain.Rect {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rect
}

// ActiveHandle returns the handle being dragged.
func (r *Resizer) ActiveHandle() (Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session == nil {
		return "", false
	}
	return r.session.handle, true
}

// Err returns the error from the last failed commit, if any.
func (r *Resizer) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}

// SetConstraints replaces the constraints for the next session.
func (r *Resizer) SetConstraints(c domain.ResizeConstraints) {
	r.mu.Lock()
	r.constraints = c
	r.mu.Unlock()
}

// PointerDown starts a session on handle h at the event position. The
// session listens for moves, release, cancel, lost capture and Escape on
// the input source until it ends.
func (r *Resizer) PointerDown(h Handle, ev input.Event) error {
	r.mu.Lock()
	if r.session != nil {
		r.mu.Unlock()
		return &domain.SessionError{Requested: string(editor.SessionResize), Active: string(editor.SessionResize)}
	}
	r.mu.Unlock()

	comp, ok := r.target.Component(r.id)
	if !ok {
		return &domain.NotFoundError{ID: r.id}
	}
	release, err := r.target.BeginSession(editor.SessionResize)
	if err != nil {
		return err
	}

	c := r.constraints
	if c.SnapToGrid && c.GridSize <= 0 {
		c.GridSize = r.target.Grid().CellSize
	}
	zoom := r.target.Viewport().Zoom
	if zoom <= 0 {
		zoom = 1
	}
	s := &resizeSession{
		handle:      h,
		start:       comp.Bounds(),
		origin:      domain.Point{X: ev.X, Y: ev.Y},
		zoom:        zoom,
		constraints: c,
		scope:       input.NewScope(r.src),
		release:     release,
	}

	r.mu.Lock()
	r.session = s
	r.rect = s.start
	r.lastErr = nil
	r.mu.Unlock()

	s.scope.On(input.PointerMove, r.onMove)
	s.scope.On(input.PointerUp, func(ev input.Event) {
		r.onMove(ev)
		r.finish(true)
	})
	s.scope.On(input.PointerCancel, func(input.Event) { r.finish(false) })
	s.scope.On(input.LostCapture, func(input.Event) { r.finish(false) })
	s.scope.On(input.KeyDown, func(ev input.Event) {
		if ev.Key == "Escape" {
			r.finish(false)
		}
	})
	return nil
}

// Cancel ends the session and restores the starting box.
func (r *Resizer) Cancel() {
	r.finish(false)
}

func (r *Resizer) onMove(ev input.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.session
	if s == nil {
		return
	}
	dx := (ev.X - s.origin.X) / s.zoom
	dy := (ev.Y - s.origin.Y) / s.zoom
	lock := s.constraints.LockAspect || ev.Modifiers.Shift
	r.rect = Compute(s.start, s.handle, dx, dy, s.constraints, lock)
}

func (r *Resizer) finish(commit bool) {
	r.mu.Lock()
	s := r.session
	if s == nil {
		r.mu.Unlock()
		return
	}
	r.session = nil
	final := r.rect
	if !commit {
		r.rect = s.start
	}
	r.mu.Unlock()

	defer s.release()
	defer s.scope.Close()

	if !commit || final == s.start {
		return
	}
	patch := domain.Patch{
		Position: &domain.Point{X: final.X, Y: final.Y},
		Size:     &domain.Size{Width: final.Width, Height: final.Height},
	}
	if err := r.target.Apply("resize", r.id, patch); err != nil {
		log.Printf("[RESIZE] commit %s failed: %v", r.id, err)
		r.mu.Lock()
		r.rect = s.start
		r.lastErr = err
		r.mu.Unlock()
	}
}
