package service

import (
	"context"
	"sync"
)

// ExportedSaveGuard is an exported alias so _test packages can test the guard.
type ExportedSaveGuard = saveGuard

// SaveReason names what started a canvas save.
type SaveReason string

const (
	SaveManual   SaveReason = "manual"
	SaveAutosave SaveReason = "autosave"
	SaveSwitch   SaveReason = "switch"
	SaveShutdown SaveReason = "shutdown"
)

// ─────────────────────────────────────────────────────────────
// saveGuard: one save per canvas at a time
// ─────────────────────────────────────────────────────────────

// saveGuard keeps a manual save and a scheduled autosave of the same
// canvas from writing concurrently, and remembers which one got there
// first so the loser can say why it stood down.
type saveGuard struct {
	mu     sync.Mutex
	owners map[string]SaveReason
	wg     sync.WaitGroup
}

// TryLock marks canvasID as being saved for reason. When another save
// holds the canvas it returns that save's reason and false.
func (g *saveGuard) TryLock(canvasID string, reason SaveReason) (SaveReason, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.owners == nil {
		g.owners = make(map[string]SaveReason)
	}
	if held, ok := g.owners[canvasID]; ok {
		return held, false
	}
	g.owners[canvasID] = reason
	g.wg.Add(1)
	return reason, true
}

// Holder reports the reason of the save running for canvasID, if any.
func (g *saveGuard) Holder(canvasID string) (SaveReason, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	r, ok := g.owners[canvasID]
	return r, ok
}

// Unlock must follow a successful TryLock.
func (g *saveGuard) Unlock(canvasID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.owners, canvasID)
	g.wg.Done()
}

// WaitAll blocks until running saves finish or ctx is cancelled.
func (g *saveGuard) WaitAll(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}
