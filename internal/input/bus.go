package input

import "sync"

// Bus is an in-process Source. The host forwards raw events into Dispatch
// and sessions listen through scopes.
type Bus struct {
	mu        sync.Mutex
	listeners map[EventKind]map[int]Handler
	next      int
}

func NewBus() *Bus {
	return &Bus{listeners: make(map[EventKind]map[int]Handler)}
}

func (b *Bus) Listen(kind EventKind, h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.listeners[kind] == nil {
		b.listeners[kind] = make(map[int]Handler)
	}
	id := b.next
	b.next++
	b.listeners[kind][id] = h
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.listeners[kind], id)
	}
}

// Dispatch delivers ev to every listener of its kind, outside the lock so
// handlers may unlisten. It reports whether anyone was listening.
func (b *Bus) Dispatch(ev Event) bool {
	b.mu.Lock()
	hs := make([]Handler, 0, len(b.listeners[ev.Kind]))
	for _, h := range b.listeners[ev.Kind] {
		hs = append(hs, h)
	}
	b.mu.Unlock()
	for _, h := range hs {
		h(ev)
	}
	return len(hs) > 0
}

// Count returns the number of listeners for kind.
func (b *Bus) Count(kind EventKind) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners[kind])
}
