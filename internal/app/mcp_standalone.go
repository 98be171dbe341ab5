package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"pagebuilder/internal/config"
	mcpserver "pagebuilder/internal/mcp"
	"pagebuilder/internal/service"
)

// ServeMCP runs the app as a standalone MCP server on stdin/stdout with no GUI.
// It opens the same database as the desktop app, which reloads the open
// canvas when this process saves it.
func ServeMCP(cfgPath string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	ws, err := OpenWorkspace(cfg, service.NopEmitter{}, nil)
	if err != nil {
		return err
	}
	defer ws.Close(context.Background())

	if err := ws.Canvases.OpenLast(); err != nil {
		return fmt.Errorf("open canvas: %w", err)
	}
	// Agent edits land on disk on the same schedule as in the desktop app.
	if err := ws.Canvases.StartAutosave(cfg.Autosave.Schedule); err != nil {
		log.Printf("[AUTOSAVE] %v", err)
	}

	mcpSrv := mcpserver.New(mcpserver.Deps{
		Canvases: ws.Canvases,
		Commands: ws.Clipboard,
	})

	errCh := make(chan error, 1)
	go func() { errCh <- mcpSrv.ServeStdio() }()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return nil
	}
}
