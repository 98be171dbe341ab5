package mcpserver

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"pagebuilder/internal/editor"
	"pagebuilder/internal/service"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server is the MCP server for the page builder.
// It exposes tools, resources, and prompts so AI agents can edit the open canvas.
type Server struct {
	mcp      *server.MCPServer
	layout   *LayoutEngine
	canvases *service.CanvasService
	commands Commands
}

// Commands is the clipboard-aware subset of editor operations. The desktop
// app passes a *service.ClipboardSync so copies reach the OS clipboard.
type Commands interface {
	Copy(ids []string) error
	Cut(ids []string) error
	Paste(parentID string) ([]string, error)
}

// Deps holds all dependencies passed from the App layer to the MCP server.
type Deps struct {
	Canvases *service.CanvasService
	// Commands defaults to the canvas editor when nil.
	Commands Commands
}

// New creates and configures a new MCP server with all tools and resources.
func New(deps Deps) *Server {
	s := &Server{
		layout:   NewLayoutEngine(),
		canvases: deps.Canvases,
		commands: deps.Commands,
	}
	if s.commands == nil {
		s.commands = deps.Canvases.Editor()
	}

	s.mcp = server.NewMCPServer(
		"pagebuilder-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
	)

	s.registerCanvasTools()
	s.registerComponentTools()
	s.registerEditTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	log.Println("[MCP] Starting stdio server...")
	return server.ServeStdio(s.mcp)
}

func (s *Server) editor() *editor.Editor {
	return s.canvases.Editor()
}

// ── Helpers ────────────────────────────────────────────────

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

// splitIDs parses a comma-separated id list, dropping blanks.
func splitIDs(raw string) []string {
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// requireCanvas fails tool calls that need an open document.
func (s *Server) requireCanvas() error {
	if _, ok := s.canvases.Current(); !ok {
		return fmt.Errorf("no canvas is open (use open_canvas or create_canvas first)")
	}
	return nil
}

func boolPtr(v bool) *bool { return &v }
