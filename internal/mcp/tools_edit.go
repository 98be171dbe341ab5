package mcpserver

import (
	"context"
	"fmt"

	"pagebuilder/internal/domain"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerEditTools() {
	// ── select_components ──────────────────────────────
	s.mcp.AddTool(mcp.NewTool("select_components",
		mcp.WithDescription("Change the selection. Selection is shared with the editor UI and used by copy/cut when no ids are given."),
		mcp.WithString("ids", mcp.Description("Comma-separated component IDs; empty clears the selection")),
		mcp.WithString("mode",
			mcp.Description("replace (default), add or toggle"),
			mcp.Enum("replace", "add", "toggle"),
		),
	), s.handleSelectComponents)

	// ── get_selection ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("get_selection",
		mcp.WithDescription("Get the selected, hovered and focused components"),
	), s.handleGetSelection)

	// ── copy / cut / paste ─────────────────────────────
	s.mcp.AddTool(mcp.NewTool("copy_components",
		mcp.WithDescription("Copy components (default: the selection) to the clipboard"),
		mcp.WithString("ids", mcp.Description("Comma-separated component IDs (optional)")),
	), s.handleCopyComponents)

	s.mcp.AddTool(mcp.NewTool("cut_components",
		mcp.WithDescription("Cut components (default: the selection) to the clipboard as one undo step"),
		mcp.WithString("ids", mcp.Description("Comma-separated component IDs (optional)")),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleCutComponents)

	s.mcp.AddTool(mcp.NewTool("paste_components",
		mcp.WithDescription("Paste the clipboard with fresh ids and select the pasted components"),
		mcp.WithString("parentId", mcp.Description("Parent component ID (optional, root when omitted)")),
	), s.handlePasteComponents)

	// ── history ────────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("undo",
		mcp.WithDescription("Undo the last change"),
	), s.handleUndo)

	s.mcp.AddTool(mcp.NewTool("redo",
		mcp.WithDescription("Redo the last undone change"),
	), s.handleRedo)

	s.mcp.AddTool(mcp.NewTool("history_status",
		mcp.WithDescription("Report whether undo/redo are available and what they would do"),
	), s.handleHistoryStatus)
}

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleSelectComponents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids := splitIDs(req.GetString("ids", ""))
	mode := domain.ParseSelectMode(req.GetString("mode", "replace"))
	ed := s.editor()
	if len(ids) == 0 {
		if mode == domain.SelectReplace {
			ed.ClearSelection()
		}
		return jsonResult(ed.Selection())
	}
	for i, id := range ids {
		m := mode
		if i > 0 && mode == domain.SelectReplace {
			m = domain.SelectAdd
		}
		if err := ed.Select(id, m); err != nil {
			return nil, fmt.Errorf("select: %w", err)
		}
	}
	return jsonResult(ed.Selection())
}

func (s *Server) handleGetSelection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.editor().Selection())
}

func (s *Server) handleCopyComponents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids := s.targetIDs(req)
	if err := s.commands.Copy(ids); err != nil {
		return nil, fmt.Errorf("copy: %w", err)
	}
	return textResult(fmt.Sprintf("Copied %d component(s)", len(ids))), nil
}

func (s *Server) handleCutComponents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids := s.targetIDs(req)
	if err := s.commands.Cut(ids); err != nil {
		return nil, fmt.Errorf("cut: %w", err)
	}
	return textResult(fmt.Sprintf("Cut %d component(s)", len(ids))), nil
}

func (s *Server) handlePasteComponents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	roots, err := s.commands.Paste(req.GetString("parentId", ""))
	if err != nil {
		return nil, fmt.Errorf("paste: %w", err)
	}
	return jsonResult(map[string]any{"pasted": roots})
}

func (s *Server) handleUndo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ed := s.editor()
	label := ed.HistoryStatus().UndoLabel
	ok, err := ed.Undo()
	if err != nil {
		return nil, err
	}
	if !ok {
		return textResult("Nothing to undo"), nil
	}
	return textResult("Undid " + label), nil
}

func (s *Server) handleRedo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ed := s.editor()
	label := ed.HistoryStatus().RedoLabel
	ok, err := ed.Redo()
	if err != nil {
		return nil, err
	}
	if !ok {
		return textResult("Nothing to redo"), nil
	}
	return textResult("Redid " + label), nil
}

func (s *Server) handleHistoryStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.editor().HistoryStatus())
}

// targetIDs returns the ids argument, or the selection when it is empty.
func (s *Server) targetIDs(req mcp.CallToolRequest) []string {
	if ids := splitIDs(req.GetString("ids", "")); len(ids) > 0 {
		return ids
	}
	return s.editor().Selection().Selected
}
