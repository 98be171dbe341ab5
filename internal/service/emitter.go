package service

import (
	"context"
	"sync"
)

// ─────────────────────────────────────────────────────────────
// EventEmitter: decouples services from wailsRuntime
// ─────────────────────────────────────────────────────────────

// Event names pushed to the rendering layer.
const (
	EventCanvasChanged  = "canvas:changed"
	EventCanvasOpened   = "canvas:opened"
	EventCanvasSaved    = "canvas:saved"
	EventCanvasReloaded = "canvas:reloaded"
	EventAnnounce       = "a11y:announce"
	EventZoneStatus     = "dragdrop:zone"
	EventConfigChanged  = "config:changed"
)

// EventEmitter emits events to the frontend. The App implements it with
// wailsRuntime.EventsEmit; services only see this interface.
type EventEmitter interface {
	Emit(ctx context.Context, event string, data any)
}

// NopEmitter drops every event. Used by the headless MCP mode.
type NopEmitter struct{}

func (NopEmitter) Emit(context.Context, string, any) {}

// MockEmitter is a test-friendly EventEmitter that records all calls.
type MockEmitter struct {
	mu     sync.Mutex
	Events []EmittedEvent
}

// EmittedEvent holds a single recorded emission for test assertions.
type EmittedEvent struct {
	Event string
	Data  any
}

func (m *MockEmitter) Emit(_ context.Context, event string, data any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, EmittedEvent{Event: event, Data: data})
}

// Count returns how many times event was emitted.
func (m *MockEmitter) Count(event string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Events {
		if e.Event == event {
			n++
		}
	}
	return n
}
