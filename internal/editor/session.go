package editor

import (
	"sync"

	"pagebuilder/internal/domain"
)

// SessionKind names an interactive session.
type SessionKind string

const (
	SessionPointerDrag  SessionKind = "pointer drag"
	SessionKeyboardDrag SessionKind = "keyboard drag"
	SessionResize       SessionKind = "resize"
	SessionMove         SessionKind = "move"
)

// SessionGuard lets exactly one interactive session run at a time.
type SessionGuard struct {
	mu     sync.Mutex
	active SessionKind
	token  uint64
}

// Acquire marks kind as the running session. The returned release func is
// safe to call more than once and from any exit path.
func (g *SessionGuard) Acquire(kind SessionKind) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.active != "" {
		return nil, &domain.SessionError{Requested: string(kind), Active: string(g.active)}
	}
	g.active = kind
	g.token++
	token := g.token

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			defer g.mu.Unlock()
			if g.token == token {
				g.active = ""
			}
		})
	}, nil
}

// Active returns the running session kind, if any.
func (g *SessionGuard) Active() (SessionKind, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.active, g.active != ""
}
