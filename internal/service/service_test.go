package service_test

import (
	"context"
	"testing"
	"time"

	"pagebuilder/internal/service"
)

// ─────────────────────────────────────────────────────────────
// SaveGuard tests
// ─────────────────────────────────────────────────────────────

func TestSaveGuard_TryLock(t *testing.T) {
	var g service.ExportedSaveGuard

	if _, ok := g.TryLock("canvas-1", service.SaveAutosave); !ok {
		t.Fatal("expected first save to lock")
	}
	held, ok := g.TryLock("canvas-1", service.SaveManual)
	if ok {
		t.Fatal("expected a second save of the same canvas to be refused")
	}
	if held != service.SaveAutosave {
		t.Fatalf("refused save sees holder %q, want autosave", held)
	}
	if _, ok := g.TryLock("canvas-2", service.SaveManual); !ok {
		t.Fatal("expected another canvas to lock")
	}
	if r, ok := g.Holder("canvas-2"); !ok || r != service.SaveManual {
		t.Fatalf("Holder(canvas-2) = %q, %v", r, ok)
	}
	g.Unlock("canvas-1")
	g.Unlock("canvas-2")

	if _, ok := g.Holder("canvas-1"); ok {
		t.Fatal("expected no holder after unlock")
	}
	if _, ok := g.TryLock("canvas-1", service.SaveShutdown); !ok {
		t.Fatal("expected TryLock to succeed after unlock")
	}
	g.Unlock("canvas-1")
}

func TestSaveGuard_WaitAll(t *testing.T) {
	var g service.ExportedSaveGuard

	if _, ok := g.TryLock("canvas-a", service.SaveManual); !ok {
		t.Fatal("expected lock to succeed")
	}

	done := make(chan struct{})
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()
		g.WaitAll(ctx)
		close(done)
	}()

	go func() {
		time.Sleep(20 * time.Millisecond)
		g.Unlock("canvas-a")
	}()

	select {
	case <-done:
		// success
	case <-time.After(1 * time.Second):
		t.Fatal("WaitAll timed out")
	}
}

// ─────────────────────────────────────────────────────────────
// MockEmitter tests
// ─────────────────────────────────────────────────────────────

func TestMockEmitter_RecordsEvents(t *testing.T) {
	m := &service.MockEmitter{}
	ctx := context.Background()

	m.Emit(ctx, service.EventCanvasSaved, "c1")
	m.Emit(ctx, service.EventAnnounce, "Dropped box")
	m.Emit(ctx, service.EventAnnounce, "Undid move")

	if len(m.Events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(m.Events))
	}
	if m.Events[0].Event != service.EventCanvasSaved {
		t.Errorf("expected %q, got %q", service.EventCanvasSaved, m.Events[0].Event)
	}
	if n := m.Count(service.EventAnnounce); n != 2 {
		t.Errorf("expected 2 announcements, got %d", n)
	}
}

func TestMockEmitter_LastEvent(t *testing.T) {
	m := &service.MockEmitter{}
	ctx := context.Background()

	m.Emit(ctx, "a", "first")
	m.Emit(ctx, "b", "second")

	if m.Events[len(m.Events)-1].Event != "b" {
		t.Errorf("expected last event 'b', got %q", m.Events[len(m.Events)-1].Event)
	}
}
