package app

import (
	"context"
	"fmt"
	"log"

	"pagebuilder/internal/config"
	"pagebuilder/internal/editor"
	"pagebuilder/internal/service"
	"pagebuilder/internal/storage"
)

// Workspace is the database, editor and services one process works on.
// The desktop app, the standalone MCP server and the CLI all open one.
type Workspace struct {
	Config    *config.Config
	DB        *storage.DB
	Editor    *editor.Editor
	Canvases  *service.CanvasService
	Clipboard *service.ClipboardSync
	Windows   *service.WindowSettingsService
}

// OpenWorkspace opens the database named in cfg and builds the services.
// sys may be nil to use the OS clipboard.
func OpenWorkspace(cfg *config.Config, emitter service.EventEmitter, sys service.SystemClipboard) (*Workspace, error) {
	db, err := storage.New(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	ed := editor.New(
		editor.WithHistoryCapacity(cfg.History.Capacity),
		editor.WithPasteOffset(cfg.Clipboard.PasteOffset, cfg.Clipboard.PasteOffset),
		editor.WithGrid(cfg.GridConfig()),
	)
	settings := storage.NewSettingsStore(db)
	canvases := service.NewCanvasService(
		storage.NewCanvasStore(db),
		storage.NewHistoryStore(db, cfg.History.Capacity),
		settings,
		ed,
		emitter,
	)
	return &Workspace{
		Config:    cfg,
		DB:        db,
		Editor:    ed,
		Canvases:  canvases,
		Clipboard: service.NewClipboardSync(ed, sys, cfg.Clipboard.System),
		Windows:   service.NewWindowSettingsService(settings),
	}, nil
}

// Close flushes the open canvas and closes the database.
func (w *Workspace) Close(ctx context.Context) {
	w.Canvases.Shutdown(ctx)
	if err := w.DB.Close(); err != nil {
		log.Printf("[APP] close database: %v", err)
	}
}
