// Package transform runs pointer-driven geometry sessions: handle resizing
// with constraints and free moving of absolutely positioned components.
package transform

// Handle is one of the eight resize grips on a bounding box.
type Handle string

const (
	HandleN  Handle = "n"
	HandleNE Handle = "ne"
	HandleE  Handle = "e"
	HandleSE Handle = "se"
	HandleS  Handle = "s"
	HandleSW Handle = "sw"
	HandleW  Handle = "w"
	HandleNW Handle = "nw"
)

// Handles lists every handle clockwise from the top edge.
var Handles = []Handle{HandleN, HandleNE, HandleE, HandleSE, HandleS, HandleSW, HandleW, HandleNW}

// Affects says which box fields a handle drives. X and Y move only for
// handles on the left or top, keeping the opposite edge fixed.
type Affects struct {
	Width  bool `json:"width"`
	Height bool `json:"height"`
	X      bool `json:"x"`
	Y      bool `json:"y"`
}

// ParseHandle validates a handle name.
func ParseHandle(s string) (Handle, bool) {
	for _, h := range Handles {
		if string(h) == s {
			return h, true
		}
	}
	return "", false
}

// direction returns the sign a pointer delta applies to width and height:
// +1 for right/bottom grips, -1 for left/top grips, 0 when the axis is fixed.
func (h Handle) direction() (sx, sy float64) {
	switch h {
	case HandleN:
		return 0, -1
	case HandleNE:
		return 1, -1
	case HandleE:
		return 1, 0
	case HandleSE:
		return 1, 1
	case HandleS:
		return 0, 1
	case HandleSW:
		return -1, 1
	case HandleW:
		return -1, 0
	case HandleNW:
		return -1, -1
	}
	return 0, 0
}

func (h Handle) Affects() Affects {
	sx, sy := h.direction()
	return Affects{Width: sx != 0, Height: sy != 0, X: sx < 0, Y: sy < 0}
}

// Corner reports whether h drives both dimensions.
func (h Handle) Corner() bool {
	sx, sy := h.direction()
	return sx != 0 && sy != 0
}

// Cursor is the CSS cursor for the handle.
func (h Handle) Cursor() string {
	switch h {
	case HandleN, HandleS:
		return "ns-resize"
	case HandleE, HandleW:
		return "ew-resize"
	case HandleNE, HandleSW:
		return "nesw-resize"
	default:
		return "nwse-resize"
	}
}
