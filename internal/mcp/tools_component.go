package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"pagebuilder/internal/canvas"
	"pagebuilder/internal/domain"
	"pagebuilder/internal/editor"

	"github.com/mark3labs/mcp-go/mcp"
)

// Size given to components created without one when auto-placing.
const (
	defaultWidth  = 200.0
	defaultHeight = 100.0
)

func (s *Server) registerComponentTools() {
	// ── list_components ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_components",
		mcp.WithDescription("List components of the open canvas in document order, optionally filtered by parent or type"),
		mcp.WithString("parentId", mcp.Description("Only direct children of this component (optional)")),
		mcp.WithString("type", mcp.Description("Filter by component type (optional)")),
	), s.handleListComponents)

	// ── get_component ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("get_component",
		mcp.WithDescription("Get one component with all of its props"),
		mcp.WithString("id", mcp.Description("Component ID"), mcp.Required()),
	), s.handleGetComponent)

	// ── add_component ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("add_component",
		mcp.WithDescription("Add a component. Without x/y it is placed on the next free grid spot among its siblings."),
		mcp.WithString("type", mcp.Description("Component type, e.g. section, text, button, image"), mcp.Required()),
		mcp.WithString("parentId", mcp.Description("Parent component ID (optional, root when omitted)")),
		mcp.WithString("name", mcp.Description("Display name stored in props.name (optional)")),
		mcp.WithString("props", mcp.Description("JSON object of initial props (optional)")),
		mcp.WithNumber("index", mcp.Description("Position among the parent's children (optional, appends when omitted)")),
		mcp.WithNumber("x", mcp.Description("X position (optional)")),
		mcp.WithNumber("y", mcp.Description("Y position (optional)")),
		mcp.WithNumber("width", mcp.Description("Width (optional)")),
		mcp.WithNumber("height", mcp.Description("Height (optional)")),
	), s.handleAddComponent)

	// ── update_component ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("update_component",
		mcp.WithDescription("Patch a component. Props are merged; a null prop value removes the key."),
		mcp.WithString("id", mcp.Description("Component ID"), mcp.Required()),
		mcp.WithString("type", mcp.Description("New component type (optional)")),
		mcp.WithString("props", mcp.Description("JSON object of props to merge (optional)")),
		mcp.WithNumber("x", mcp.Description("New X position (optional, requires y)")),
		mcp.WithNumber("y", mcp.Description("New Y position (optional, requires x)")),
		mcp.WithNumber("width", mcp.Description("New width (optional, requires height)")),
		mcp.WithNumber("height", mcp.Description("New height (optional, requires width)")),
	), s.handleUpdateComponent)

	// ── delete_components (destructive) ────────────────
	s.mcp.AddTool(mcp.NewTool("delete_components",
		mcp.WithDescription("🛑 DESTRUCTIVE: Delete components and everything nested in them as one undo step"),
		mcp.WithString("ids", mcp.Description("Comma-separated component IDs"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteComponents)

	// ── move_components ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("move_components",
		mcp.WithDescription("Reparent or reorder components, keeping their relative order"),
		mcp.WithString("ids", mcp.Description("Comma-separated component IDs"), mcp.Required()),
		mcp.WithString("parentId", mcp.Description("New parent ID (optional, root when omitted)")),
		mcp.WithNumber("index", mcp.Description("Insert position among the new siblings (optional, appends when omitted)")),
	), s.handleMoveComponents)

	// ── duplicate_component ────────────────────────────
	s.mcp.AddTool(mcp.NewTool("duplicate_component",
		mcp.WithDescription("Clone a component and its children right after the original"),
		mcp.WithString("id", mcp.Description("Component ID"), mcp.Required()),
	), s.handleDuplicateComponent)

	// ── arrange_components ─────────────────────────────
	s.mcp.AddTool(mcp.NewTool("arrange_components",
		mcp.WithDescription("Lay out the children of a parent (or the roots) in rows on the grid"),
		mcp.WithString("parentId", mcp.Description("Parent component ID (optional, roots when omitted)")),
		mcp.WithNumber("startX", mcp.Description("Starting X position (default 0)")),
		mcp.WithNumber("startY", mcp.Description("Starting Y position (default 0)")),
	), s.handleArrangeComponents)
}

// componentSummary is the compact list form of a component.
type componentSummary struct {
	ID       string        `json:"id"`
	Type     string        `json:"type"`
	Label    string        `json:"label"`
	ParentID string        `json:"parentId,omitempty"`
	Children int           `json:"children"`
	Position *domain.Point `json:"position,omitempty"`
	Size     *domain.Size  `json:"size,omitempty"`
	Selected bool          `json:"selected,omitempty"`
}

func summarize(c *domain.ComponentInstance, sel domain.SelectionState) componentSummary {
	return componentSummary{
		ID:       c.ID,
		Type:     c.Type,
		Label:    c.Label(),
		ParentID: c.ParentID,
		Children: len(c.Children),
		Position: c.Position,
		Size:     c.Size,
		Selected: sel.IsSelected(c.ID),
	}
}

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleListComponents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ed := s.editor()
	st := ed.State()
	sel := ed.Selection()
	parentID := req.GetString("parentId", "")
	typeFilter := req.GetString("type", "")

	ids := canvas.OrderedIDs(st)
	if parentID != "" {
		if !st.Has(parentID) {
			return nil, &domain.NotFoundError{ID: parentID}
		}
		ids = canvas.Children(st, parentID)
	}
	out := make([]componentSummary, 0, len(ids))
	for _, id := range ids {
		c := st.Get(id)
		if typeFilter != "" && c.Type != typeFilter {
			continue
		}
		out = append(out, summarize(c, sel))
	}
	return jsonResult(out)
}

func (s *Server) handleGetComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	c, ok := s.editor().Component(id)
	if !ok {
		return nil, &domain.NotFoundError{ID: id}
	}
	return jsonResult(c)
}

func (s *Server) handleAddComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.requireCanvas(); err != nil {
		return nil, err
	}
	args := req.GetArguments()
	compType, _ := args["type"].(string)
	if compType == "" {
		return nil, fmt.Errorf("type is required")
	}
	parentID := req.GetString("parentId", "")

	inst := domain.ComponentInstance{Type: compType, Props: map[string]any{}}
	if raw := req.GetString("props", ""); raw != "" {
		if err := json.Unmarshal([]byte(raw), &inst.Props); err != nil {
			return nil, fmt.Errorf("props must be a JSON object: %w", err)
		}
	}
	if name := req.GetString("name", ""); name != "" {
		inst.Props["name"] = name
	}

	ed := s.editor()
	x, hasX := args["x"].(float64)
	y, hasY := args["y"].(float64)
	w, hasW := args["width"].(float64)
	h, hasH := args["height"].(float64)
	if hasW || hasH || hasX || hasY {
		if !hasW {
			w = defaultWidth
		}
		if !hasH {
			h = defaultHeight
		}
		if !hasX || !hasY {
			x, y = s.layoutFor(ed.Grid()).NextPosition(siblingRects(ed.State(), parentID), w, h)
		}
		inst.Position = &domain.Point{X: x, Y: y}
		inst.Size = &domain.Size{Width: w, Height: h}
	}

	var id string
	err := ed.Batch("add "+compType, func(tx *editor.Tx) error {
		var err error
		if id, err = tx.Add(parentID, inst); err != nil {
			return err
		}
		if idx, ok := args["index"].(float64); ok {
			if err := tx.Move(id, parentID, int(idx)); err != nil {
				return err
			}
		}
		tx.Select(id)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("add component: %w", err)
	}
	c, _ := ed.Component(id)
	return jsonResult(c)
}

func (s *Server) handleUpdateComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id := req.GetString("id", "")
	if id == "" {
		return nil, fmt.Errorf("id is required")
	}

	var patch domain.Patch
	if t := req.GetString("type", ""); t != "" {
		patch.Type = &t
	}
	if raw := req.GetString("props", ""); raw != "" {
		if err := json.Unmarshal([]byte(raw), &patch.Props); err != nil {
			return nil, fmt.Errorf("props must be a JSON object: %w", err)
		}
	}
	x, hasX := args["x"].(float64)
	y, hasY := args["y"].(float64)
	if hasX != hasY {
		return nil, fmt.Errorf("x and y must be given together")
	}
	if hasX {
		patch.Position = &domain.Point{X: x, Y: y}
	}
	w, hasW := args["width"].(float64)
	h, hasH := args["height"].(float64)
	if hasW != hasH {
		return nil, fmt.Errorf("width and height must be given together")
	}
	if hasW {
		if w <= 0 || h <= 0 {
			return nil, fmt.Errorf("width and height must be positive")
		}
		patch.Size = &domain.Size{Width: w, Height: h}
	}
	if patch.IsEmpty() {
		return nil, fmt.Errorf("nothing to update")
	}

	ed := s.editor()
	if err := ed.Update(id, patch); err != nil {
		return nil, fmt.Errorf("update component: %w", err)
	}
	c, _ := ed.Component(id)
	return jsonResult(c)
}

func (s *Server) handleDeleteComponents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids := splitIDs(req.GetString("ids", ""))
	if len(ids) == 0 {
		return nil, fmt.Errorf("ids is required")
	}
	ed := s.editor()
	before := len(ed.State().Components)
	if err := ed.DeleteMany(ids); err != nil {
		return nil, fmt.Errorf("delete components: %w", err)
	}
	removed := before - len(ed.State().Components)
	return textResult(fmt.Sprintf("Deleted %d component(s)", removed)), nil
}

func (s *Server) handleMoveComponents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids := splitIDs(req.GetString("ids", ""))
	if len(ids) == 0 {
		return nil, fmt.Errorf("ids is required")
	}
	parentID := req.GetString("parentId", "")
	index := -1
	if idx, ok := req.GetArguments()["index"].(float64); ok {
		index = int(idx)
	}
	if err := s.editor().MoveMany(ids, parentID, index); err != nil {
		return nil, fmt.Errorf("move components: %w", err)
	}
	where := "the root"
	if parentID != "" {
		where = parentID
	}
	return textResult(fmt.Sprintf("Moved %d component(s) into %s", len(ids), where)), nil
}

func (s *Server) handleDuplicateComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return nil, fmt.Errorf("id is required")
	}
	ed := s.editor()
	newID, err := ed.Duplicate(id)
	if err != nil {
		return nil, fmt.Errorf("duplicate component: %w", err)
	}
	c, _ := ed.Component(newID)
	return jsonResult(c)
}

func (s *Server) handleArrangeComponents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	parentID := req.GetString("parentId", "")
	startX := req.GetFloat("startX", 0)
	startY := req.GetFloat("startY", 0)

	ed := s.editor()
	le := s.layoutFor(ed.Grid())
	var count int
	err := ed.Batch("arrange", func(tx *editor.Tx) error {
		st := tx.State()
		if parentID != "" && !st.Has(parentID) {
			return &domain.NotFoundError{ID: parentID}
		}
		ids := canvas.Children(st, parentID)
		rects := make([]domain.Rect, len(ids))
		for i, id := range ids {
			rects[i] = sizedBounds(st.Get(id))
		}
		for i, r := range le.ArrangeGroup(rects, startX, startY) {
			if err := tx.Update(ids[i], domain.Patch{
				Position: &domain.Point{X: r.X, Y: r.Y},
				Size:     &domain.Size{Width: r.Width, Height: r.Height},
			}); err != nil {
				return err
			}
		}
		count = len(ids)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("arrange components: %w", err)
	}
	return textResult(fmt.Sprintf("Arranged %d component(s)", count)), nil
}

// layoutFor snaps to the canvas grid when snapping is on.
func (s *Server) layoutFor(g domain.GridConfig) *LayoutEngine {
	if g.SnapActive() {
		return s.layout.WithGrid(g.CellSize)
	}
	return s.layout
}

// siblingRects returns the bounds of parentID's positioned children.
func siblingRects(st *domain.CanvasState, parentID string) []domain.Rect {
	var out []domain.Rect
	for _, id := range canvas.Children(st, parentID) {
		if c := st.Get(id); c != nil && c.Position != nil {
			out = append(out, sizedBounds(c))
		}
	}
	return out
}

func sizedBounds(c *domain.ComponentInstance) domain.Rect {
	r := c.Bounds()
	if c.Size == nil {
		r.Width, r.Height = defaultWidth, defaultHeight
	}
	return r
}
