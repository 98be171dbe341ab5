package geometry

import (
	"math"

	"pagebuilder/internal/domain"
)

const epsilon = 1e-9

// Snap rounds v to the nearest multiple of cell. A non-positive cell
// returns v unchanged.
func Snap(v, cell float64) float64 {
	if cell <= 0 {
		return v
	}
	return math.Round(v/cell) * cell
}

// Clamp bounds v to [lo, hi]. A non-positive hi means no upper bound.
func Clamp(v, lo, hi float64) float64 {
	if hi > 0 && v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

// Accumulator quantizes a stream of deltas to whole grid cells. Deltas are
// summed per axis and only whole cells are released; the remainder stays
// until later deltas complete a cell, whichever direction they come from.
type Accumulator struct {
	cell     float64
	residual domain.Point
}

// NewAccumulator returns an accumulator for the given cell size. A
// non-positive cell passes deltas through untouched.
func NewAccumulator(cell float64) *Accumulator {
	return &Accumulator{cell: cell}
}

// Push adds a raw delta and returns the part to apply now.
func (a *Accumulator) Push(dx, dy float64) (float64, float64) {
	if a.cell <= 0 {
		return dx, dy
	}
	a.residual.X += dx
	a.residual.Y += dy
	mx := a.whole(a.residual.X)
	my := a.whole(a.residual.Y)
	a.residual.X -= mx
	a.residual.Y -= my
	return mx, my
}

// Residual returns the delta not yet released.
func (a *Accumulator) Residual() domain.Point {
	return a.residual
}

func (a *Accumulator) Reset() {
	a.residual = domain.Point{}
}

func (a *Accumulator) whole(v float64) float64 {
	cells := v / a.cell
	if cells >= 0 {
		cells = math.Floor(cells + epsilon)
	} else {
		cells = math.Ceil(cells - epsilon)
	}
	return cells * a.cell
}
