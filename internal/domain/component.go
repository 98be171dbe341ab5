package domain

// Point is a canvas-space position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a canvas-space width and height.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect is a position plus size, used by resize and move sessions.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ComponentInstance is one node of the component tree.
// ParentID is empty for roots. Position and Size are only set for
// absolutely positioned components.
type ComponentInstance struct {
	ID       string         `json:"id"`
	Type     string         `json:"type"`
	Props    map[string]any `json:"props"`
	Children []string       `json:"children"`
	ParentID string         `json:"parentId,omitempty"`
	Position *Point         `json:"position,omitempty"`
	Size     *Size          `json:"size,omitempty"`
}

// Clone returns a deep copy. Nested maps and slices inside Props are copied too.
func (c *ComponentInstance) Clone() *ComponentInstance {
	out := &ComponentInstance{
		ID:       c.ID,
		Type:     c.Type,
		Props:    cloneProps(c.Props),
		ParentID: c.ParentID,
	}
	if c.Children != nil {
		out.Children = append(make([]string, 0, len(c.Children)), c.Children...)
	}
	if c.Position != nil {
		p := *c.Position
		out.Position = &p
	}
	if c.Size != nil {
		s := *c.Size
		out.Size = &s
	}
	return out
}

// Bounds returns the component rectangle. Missing position or size read as zero.
func (c *ComponentInstance) Bounds() Rect {
	var r Rect
	if c.Position != nil {
		r.X, r.Y = c.Position.X, c.Position.Y
	}
	if c.Size != nil {
		r.Width, r.Height = c.Size.Width, c.Size.Height
	}
	return r
}

// Label is the human-readable name used in announcements and history labels.
func (c *ComponentInstance) Label() string {
	if name, ok := c.Props["name"].(string); ok && name != "" {
		return name
	}
	return c.Type
}

// Patch is a partial update. Nil fields are left untouched; a nil value
// inside Props deletes that key.
type Patch struct {
	Type     *string        `json:"type,omitempty"`
	Props    map[string]any `json:"props,omitempty"`
	Position *Point         `json:"position,omitempty"`
	Size     *Size          `json:"size,omitempty"`
}

// IsEmpty reports whether applying the patch would change nothing.
func (p Patch) IsEmpty() bool {
	return p.Type == nil && len(p.Props) == 0 && p.Position == nil && p.Size == nil
}

func cloneProps(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneProps(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case []string:
		return append([]string(nil), t...)
	default:
		return v
	}
}
