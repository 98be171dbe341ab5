package mcpserver

import (
	"math"

	"pagebuilder/internal/domain"
)

const (
	GridSize = 10.0 // matches the default editor cell size
	Padding  = 20.0 // 2 grid cells between components
	MaxRowW  = 1200.0
)

// LayoutEngine places components on the canvas so that MCP-created
// components don't overlap existing ones.
type LayoutEngine struct {
	gridSize float64
	padding  float64
	maxRowW  float64
}

func NewLayoutEngine() *LayoutEngine {
	return &LayoutEngine{
		gridSize: GridSize,
		padding:  Padding,
		maxRowW:  MaxRowW,
	}
}

// WithGrid returns a copy that snaps to cell instead of GridSize.
// Non-positive cells leave the engine unchanged.
func (le *LayoutEngine) WithGrid(cell float64) *LayoutEngine {
	out := *le
	if cell > 0 {
		out.gridSize = cell
	}
	return &out
}

// snap rounds v to the nearest grid point.
func (le *LayoutEngine) snap(v float64) float64 {
	return math.Round(v/le.gridSize) * le.gridSize
}

type rect struct {
	x, y, w, h float64
}

func (a rect) intersects(b rect) bool {
	return a.x < b.x+b.w && a.x+a.w > b.x &&
		a.y < b.y+b.h && a.y+a.h > b.y
}

// NextPosition finds the next free grid position for a component of size
// (newW, newH) among the existing rectangles.
func (le *LayoutEngine) NextPosition(existing []domain.Rect, newW, newH float64) (float64, float64) {
	if len(existing) == 0 {
		return 0, 0
	}

	occupied := make([]rect, len(existing))
	for i, r := range existing {
		occupied[i] = rect{
			x: r.X - le.padding,
			y: r.Y - le.padding,
			w: r.Width + le.padding*2,
			h: r.Height + le.padding*2,
		}
	}

	// Rows top-to-bottom, columns left-to-right
	candidate := rect{w: newW, h: newH}
	for y := 0.0; y < 100000; y += le.gridSize {
		for x := 0.0; x < le.maxRowW; x += le.gridSize {
			candidate.x = le.snap(x)
			candidate.y = le.snap(y)

			overlaps := false
			for _, occ := range occupied {
				if candidate.intersects(occ) {
					overlaps = true
					break
				}
			}
			if !overlaps {
				return candidate.x, candidate.y
			}
		}
	}

	maxY := 0.0
	for _, r := range existing {
		if r.Y+r.Height > maxY {
			maxY = r.Y + r.Height
		}
	}
	return 0, le.snap(maxY + le.padding)
}

// ArrangeGroup lays rects out left-to-right in rows starting at
// (startX, startY), wrapping at the row width. Sizes are kept.
func (le *LayoutEngine) ArrangeGroup(rects []domain.Rect, startX, startY float64) []domain.Rect {
	out := make([]domain.Rect, len(rects))
	x := le.snap(startX)
	y := le.snap(startY)
	rowHeight := 0.0

	for i, r := range rects {
		if x > le.snap(startX) && x+r.Width > le.maxRowW {
			x = le.snap(startX)
			y += le.snap(rowHeight + le.padding)
			rowHeight = 0
		}
		out[i] = domain.Rect{X: x, Y: y, Width: r.Width, Height: r.Height}
		if r.Height > rowHeight {
			rowHeight = r.Height
		}
		x += le.snap(r.Width + le.padding)
	}
	return out
}
