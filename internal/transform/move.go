package transform

import (
	"log"
	"sync"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/editor"
	"pagebuilder/internal/geometry"
	"pagebuilder/internal/input"
)

// Mover drags absolutely positioned components. With grid snapping on,
// pointer deltas go through an accumulator so only whole cells move the
// component and the remainder carries into the next event.
type Mover struct {
	target Target
	src    input.Source

	mu      sync.Mutex
	session *moveSession
	lastErr error
}

type moveSession struct {
	id      string
	label   string
	start   domain.Point
	pos     domain.Point
	last    domain.Point
	zoom    float64
	acc     *geometry.Accumulator
	scope   *input.Scope
	release func()
}

func NewMover(target Target, src input.Source) *Mover {
	return &Mover{target: target, src: src}
}

// PointerDown starts moving id from the pointer position in ev.
func (m *Mover) PointerDown(id string, ev input.Event) error {
	m.mu.Lock()
	busy := m.session != nil
	m.mu.Unlock()
	if busy {
		return &domain.SessionError{Requested: string(editor.SessionMove), Active: string(editor.SessionMove)}
	}

	comp, ok := m.target.Component(id)
	if !ok {
		return &domain.NotFoundError{ID: id}
	}
	release, err := m.target.BeginSession(editor.SessionMove)
	if err != nil {
		return err
	}
	zoom := m.target.Viewport().Zoom
	if zoom <= 0 {
		zoom = 1
	}
	b := comp.Bounds()
	s := &moveSession{
		id:      id,
		label:   comp.Label(),
		start:   domain.Point{X: b.X, Y: b.Y},
		pos:     domain.Point{X: b.X, Y: b.Y},
		last:    domain.Point{X: ev.X, Y: ev.Y},
		zoom:    zoom,
		acc:     snapTo(m.target.Grid()),
		scope:   input.NewScope(m.src),
		release: release,
	}

	m.mu.Lock()
	m.session = s
	m.lastErr = nil
	m.mu.Unlock()

	s.scope.On(input.PointerMove, m.onMove)
	s.scope.On(input.PointerUp, func(ev input.Event) {
		m.onMove(ev)
		m.finish(true)
	})
	s.scope.On(input.PointerCancel, func(input.Event) { m.finish(false) })
	s.scope.On(input.LostCapture, func(input.Event) { m.finish(false) })
	s.scope.On(input.KeyDown, func(ev input.Event) {
		if ev.Key == "Escape" {
			m.finish(false)
		}
	})
	return nil
}

// Position returns the preview position of the component being moved.
func (m *Mover) Position() (string, domain.Point, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return "", domain.Point{}, false
	}
	return m.session.id, m.session.pos, true
}

// Residual is the sub-cell delta not yet applied in the running session.
func (m *Mover) Residual() domain.Point {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil || m.session.acc == nil {
		return domain.Point{}
	}
	return m.session.acc.Residual()
}

func (m *Mover) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

func (m *Mover) Cancel() {
	m.finish(false)
}

func (m *Mover) onMove(ev input.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.session
	if s == nil {
		return
	}
	dx := (ev.X - s.last.X) / s.zoom
	dy := (ev.Y - s.last.Y) / s.zoom
	s.last = domain.Point{X: ev.X, Y: ev.Y}
	if s.acc != nil {
		dx, dy = s.acc.Push(dx, dy)
	}
	s.pos.X += dx
	s.pos.Y += dy
}

func (m *Mover) finish(commit bool) {
	m.mu.Lock()
	s := m.session
	if s == nil {
		m.mu.Unlock()
		return
	}
	m.session = nil
	m.mu.Unlock()

	defer s.release()
	defer s.scope.Close()

	if !commit || s.pos == s.start {
		return
	}
	pos := s.pos
	if err := m.target.Apply("move "+s.label, s.id, domain.Patch{Position: &pos}); err != nil {
		log.Printf("[MOVE] commit %s failed: %v", s.id, err)
		m.mu.Lock()
		m.lastErr = err
		m.mu.Unlock()
	}
}

func snapTo(grid domain.GridConfig) *geometry.Accumulator {
	if !grid.SnapActive() {
		return nil
	}
	return geometry.NewAccumulator(grid.CellSize)
}
