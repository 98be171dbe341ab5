// Package input models the document-level pointer and key streams that
// drag and resize sessions listen to. Listeners are always acquired through
// a Scope so a session releases everything it registered when it ends.
package input

import "sync"

// EventKind selects a stream.
type EventKind string

const (
	PointerMove   EventKind = "pointermove"
	PointerUp     EventKind = "pointerup"
	PointerCancel EventKind = "pointercancel"
	LostCapture   EventKind = "lostpointercapture"
	KeyDown       EventKind = "keydown"
)

// Modifiers are the keys held during an event.
type Modifiers struct {
	Shift bool `json:"shift"`
	Alt   bool `json:"alt"`
	Ctrl  bool `json:"ctrl"`
	Meta  bool `json:"meta"`
}

// Event is one pointer or key event in screen coordinates.
type Event struct {
	Kind      EventKind `json:"kind"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Key       string    `json:"key,omitempty"`
	Modifiers Modifiers `json:"modifiers"`
}

// Handler consumes events.
type Handler func(Event)

// Source hands out listeners; the returned func unregisters.
type Source interface {
	Listen(kind EventKind, h Handler) (unlisten func())
}

// Scope owns every listener registered through it. Close releases them all
// and is idempotent.
type Scope struct {
	src    Source
	mu     sync.Mutex
	undo   []func()
	closed bool
}

// NewScope opens a scope on src.
func NewScope(src Source) *Scope {
	return &Scope{src: src}
}

// On registers h for kind. Registering on a closed scope does nothing.
func (s *Scope) On(kind EventKind, h Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.undo = append(s.undo, s.src.Listen(kind, h))
}

// Close unregisters every listener in reverse order.
func (s *Scope) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	undo := s.undo
	s.undo = nil
	s.mu.Unlock()
	for i := len(undo) - 1; i >= 0; i-- {
		undo[i]()
	}
}

// Closed reports whether Close has run.
func (s *Scope) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
