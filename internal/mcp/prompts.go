package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(mcp.NewPrompt("landing_page",
		mcp.WithPromptDescription("Guide through building a landing page from sections on the open canvas"),
		mcp.WithArgument("product",
			mcp.ArgumentDescription("Product or topic the page presents"),
			mcp.RequiredArgument(),
		),
	), s.handleLandingPagePrompt)

	s.mcp.AddPrompt(mcp.NewPrompt("tidy_canvas",
		mcp.WithPromptDescription("Review the open canvas and clean up its structure and layout"),
	), s.handleTidyCanvasPrompt)
}

func (s *Server) handleLandingPagePrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	product := req.Params.Arguments["product"]
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Build a landing page for: %s", product),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Build a landing page for "%s" on the open canvas. Follow these steps:

1. Use add_component to create root "section" components named Hero, Features and Call to action
2. Inside Hero add a "heading" with props {"text": "%s"} and a "button"
3. Inside Features add three "card" components, each with a "heading" and a "text"
4. Use arrange_components on each section so children sit on the grid without overlapping
5. Check the result with list_components and save_canvas when done

Every change is one undo step; use undo if a step goes wrong.`, product, product),
				},
			},
		},
	}, nil
}

func (s *Server) handleTidyCanvasPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "Tidy the open canvas",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: `Review the open canvas (read pagebuilder://canvas/current) and tidy it up:

1. Find components that share a parent but overlap, and run arrange_components on that parent
2. Move stray root components into the section they visually belong to with move_components
3. Remove empty containers with delete_components
4. Report what changed and call history_status so the user knows how many steps to undo`,
				},
			},
		},
	}, nil
}
