package domain

// Viewport is the pan/zoom of the editing surface. It is view state:
// changing it never creates a history entry.
type Viewport struct {
	Zoom float64 `json:"zoom"`
	PanX float64 `json:"panX"`
	PanY float64 `json:"panY"`
}

// GridConfig controls grid display and snapping.
type GridConfig struct {
	Enabled  bool    `json:"enabled"`
	CellSize float64 `json:"cellSize"`
	Snap     bool    `json:"snap"`
}

// SnapActive reports whether positions and sizes should be quantized.
func (g GridConfig) SnapActive() bool {
	return g.Enabled && g.Snap && g.CellSize > 0
}

// CanvasState is the canonical document: every component by ID plus the
// ordered list of roots.
type CanvasState struct {
	Components map[string]*ComponentInstance `json:"components"`
	RootIDs    []string                      `json:"rootIds"`
	Viewport   Viewport                      `json:"viewport"`
	Grid       GridConfig                    `json:"grid"`
}

// NewCanvasState returns an empty canvas at zoom 1 with the given grid.
func NewCanvasState(grid GridConfig) *CanvasState {
	return &CanvasState{
		Components: make(map[string]*ComponentInstance),
		RootIDs:    []string{},
		Viewport:   Viewport{Zoom: 1},
		Grid:       grid,
	}
}

// Clone returns a deep copy that shares nothing with s.
func (s *CanvasState) Clone() *CanvasState {
	out := &CanvasState{
		Components: make(map[string]*ComponentInstance, len(s.Components)),
		RootIDs:    append([]string{}, s.RootIDs...),
		Viewport:   s.Viewport,
		Grid:       s.Grid,
	}
	for id, c := range s.Components {
		out.Components[id] = c.Clone()
	}
	return out
}

// Get returns the component with id, or nil.
func (s *CanvasState) Get(id string) *ComponentInstance {
	return s.Components[id]
}

// Has reports whether id is part of the tree.
func (s *CanvasState) Has(id string) bool {
	_, ok := s.Components[id]
	return ok
}
