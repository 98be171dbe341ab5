package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/service"

	"github.com/mark3labs/mcp-go/mcp"
)

const (
	uriCanvases      = "pagebuilder://canvases"
	uriCurrentCanvas = "pagebuilder://canvas/current"
	uriComponent     = "pagebuilder://component/"
)

func (s *Server) registerResources() {
	// ── pagebuilder://canvases ─────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		uriCanvases,
		"All Canvases",
		mcp.WithMIMEType("application/json"),
	), s.handleCanvasesResource)

	// ── pagebuilder://canvas/current ───────────────────
	s.mcp.AddResource(mcp.NewResource(
		uriCurrentCanvas,
		"Open Canvas",
		mcp.WithResourceDescription("The open canvas as a nested component document"),
		mcp.WithMIMEType("application/json"),
	), s.handleCurrentCanvasResource)

	// ── pagebuilder://component/{id} ───────────────────
	s.mcp.AddResourceTemplate(
		mcp.NewResourceTemplate(
			uriComponent+"{id}",
			"Component",
		),
		s.handleComponentResource,
	)
}

func (s *Server) handleCanvasesResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	list, err := s.canvases.ListCanvases()
	if err != nil {
		return nil, err
	}
	return jsonContents(uriCanvases, list)
}

func (s *Server) handleCurrentCanvasResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	cur, ok := s.canvases.Current()
	if !ok {
		return nil, fmt.Errorf("no canvas is open")
	}
	return jsonContents(uriCurrentCanvas, service.NewDocument(cur.Name, s.editor().State()))
}

func (s *Server) handleComponentResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	id := componentIDFromURI(uri)
	if id == "" {
		return nil, fmt.Errorf("could not extract component id from URI: %s", uri)
	}
	c, ok := s.editor().Component(id)
	if !ok {
		return nil, &domain.NotFoundError{ID: id}
	}
	return jsonContents(uri, c)
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// componentIDFromURI extracts the id from "pagebuilder://component/{id}".
func componentIDFromURI(uri string) string {
	id, ok := strings.CutPrefix(uri, uriComponent)
	if !ok || strings.Contains(id, "/") {
		return ""
	}
	return id
}
