package transform

import (
	"math"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/geometry"
)

// Compute returns the box produced by dragging handle h of start by
// (dx, dy) canvas units. Constraints apply in order: min/max clamp, aspect
// lock against start's ratio, grid snap. Snapping never leaves the min/max
// range, and a size pinned to an explicit bound stays there. Left and top
// handles then move the origin so the opposite edge stays where it was.
func Compute(start domain.Rect, h Handle, dx, dy float64, c domain.ResizeConstraints, lockAspect bool) domain.Rect {
	sx, sy := h.direction()
	w := start.Width + sx*dx
	ht := start.Height + sy*dy

	minW, minH := floor(c.MinWidth), floor(c.MinHeight)
	w = geometry.Clamp(w, minW, c.MaxWidth)
	ht = geometry.Clamp(ht, minH, c.MaxHeight)

	if lockAspect && start.Width > 0 && start.Height > 0 {
		w, ht = keepRatio(start, h, w, ht, c)
	}

	if c.SnapToGrid && c.GridSize > 0 {
		if sx != 0 || lockAspect {
			w = snapWithin(w, c.GridSize, c.MinWidth, c.MaxWidth)
		}
		if sy != 0 || lockAspect {
			ht = snapWithin(ht, c.GridSize, c.MinHeight, c.MaxHeight)
		}
	}

	out := domain.Rect{X: start.X, Y: start.Y, Width: w, Height: ht}
	if sx < 0 {
		out.X = start.X + start.Width - w
	}
	if sy < 0 {
		out.Y = start.Y + start.Height - ht
	}
	return out
}

// keepRatio recomputes one dimension from the other. Edge handles drive
// their own axis; corners follow whichever axis changed more.
func keepRatio(start domain.Rect, h Handle, w, ht float64, c domain.ResizeConstraints) (float64, float64) {
	ratio := start.Width / start.Height
	sx, sy := h.direction()

	widthDrives := sy == 0
	if sx != 0 && sy != 0 {
		widthDrives = math.Abs(w/start.Width-1) >= math.Abs(ht/start.Height-1)
	}
	if widthDrives {
		ht = w / ratio
	} else {
		w = ht * ratio
	}

	minW, minH := floor(c.MinWidth), floor(c.MinHeight)
	if clamped := geometry.Clamp(ht, minH, c.MaxHeight); clamped != ht {
		ht = clamped
		w = ht * ratio
	}
	if clamped := geometry.Clamp(w, minW, c.MaxWidth); clamped != w {
		w = clamped
		ht = w / ratio
	}
	return w, ht
}

// snapWithin snaps v to the nearest multiple of cell inside [min, max],
// never below one cell. A v sitting on an explicit bound is kept, and so is
// a v whose range holds no multiple of cell.
func snapWithin(v, cell, min, max float64) float64 {
	if (min > 0 && v == min) || (max > 0 && v == max) {
		return v
	}
	lo := math.Max(math.Ceil(floor(min)/cell)*cell, cell)
	s := math.Max(geometry.Snap(v, cell), lo)
	if max > 0 && s > max {
		s = math.Floor(max/cell) * cell
	}
	if s < lo || (max > 0 && s > max) {
		return v
	}
	return s
}

func floor(min float64) float64 {
	if min < 1 {
		return 1
	}
	return min
}
