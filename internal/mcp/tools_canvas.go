package mcpserver

import (
	"bytes"
	"context"
	"fmt"

	"pagebuilder/internal/service"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerCanvasTools() {
	// ── list_canvases ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_canvases",
		mcp.WithDescription("List all stored canvases, most recently updated first"),
	), s.handleListCanvases)

	// ── create_canvas ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("create_canvas",
		mcp.WithDescription("Create an empty canvas and open it. Subsequent tools act on it."),
		mcp.WithString("name", mcp.Description("Name of the new canvas")),
	), s.handleCreateCanvas)

	// ── open_canvas ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("open_canvas",
		mcp.WithDescription("Open a canvas for editing. Pending changes to the current canvas are saved first."),
		mcp.WithString("canvasId", mcp.Description("ID of the canvas"), mcp.Required()),
	), s.handleOpenCanvas)

	// ── save_canvas ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("save_canvas",
		mcp.WithDescription("Save the open canvas and its undo history"),
	), s.handleSaveCanvas)

	// ── export_canvas ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("export_canvas",
		mcp.WithDescription("Export the open canvas as a nested component document"),
		mcp.WithString("format",
			mcp.Description("Output format: json or yaml (default yaml)"),
			mcp.Enum(service.FormatJSON, service.FormatYAML),
		),
	), s.handleExportCanvas)
}

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleListCanvases(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list, err := s.canvases.ListCanvases()
	if err != nil {
		return nil, fmt.Errorf("list canvases: %w", err)
	}
	return jsonResult(list)
}

func (s *Server) handleCreateCanvas(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summary, err := s.canvases.CreateCanvas(req.GetString("name", ""))
	if err != nil {
		return nil, err
	}
	return jsonResult(summary)
}

func (s *Server) handleOpenCanvas(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("canvasId", "")
	if id == "" {
		return nil, fmt.Errorf("canvasId is required")
	}
	if err := s.canvases.OpenCanvas(id); err != nil {
		return nil, err
	}
	cur, _ := s.canvases.Current()
	return jsonResult(cur)
}

func (s *Server) handleSaveCanvas(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.canvases.Save(); err != nil {
		return nil, err
	}
	cur, _ := s.canvases.Current()
	return textResult(fmt.Sprintf("Saved %s", cur.Name)), nil
}

func (s *Server) handleExportCanvas(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var buf bytes.Buffer
	if err := s.canvases.Export(&buf, req.GetString("format", service.FormatYAML)); err != nil {
		return nil, err
	}
	return textResult(buf.String()), nil
}
