package app

import (
	"context"
	"log"
	"time"
)

// pollInterval is how often the open canvas is checked for external saves.
const pollInterval = 2 * time.Second

// reloader is the part of the canvas service the watcher drives.
type reloader interface {
	ReloadIfChanged() (bool, error)
}

// canvasWatcher polls the database for saves of the open canvas made by
// another process (the standalone MCP server) and reloads it, so the
// frontend follows edits an agent makes.
type canvasWatcher struct {
	ctx      context.Context
	canvases reloader
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func newCanvasWatcher(ctx context.Context, canvases reloader) *canvasWatcher {
	return &canvasWatcher{ctx: ctx, canvases: canvases, interval: pollInterval}
}

// Start begins the polling loop. Should be called once on app startup.
func (w *canvasWatcher) Start() {
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	go w.pollLoop()
}

// Stop terminates the polling loop and waits for it to exit.
func (w *canvasWatcher) Stop() {
	if w.stopCh == nil {
		return
	}
	select {
	case <-w.stopCh:
	default:
		close(w.stopCh)
	}
	<-w.doneCh
}

func (w *canvasWatcher) pollLoop() {
	defer close(w.doneCh)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.check()
		case <-w.stopCh:
			return
		case <-w.ctx.Done():
			return
		}
	}
}

func (w *canvasWatcher) check() {
	if _, err := w.canvases.ReloadIfChanged(); err != nil {
		log.Printf("[WATCH] %v", err)
	}
}
