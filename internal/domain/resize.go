package domain

// ResizeConstraints bound a resize session. Zero Max values mean unbounded.
type ResizeConstraints struct {
	MinWidth   float64 `json:"minWidth"`
	MaxWidth   float64 `json:"maxWidth"`
	MinHeight  float64 `json:"minHeight"`
	MaxHeight  float64 `json:"maxHeight"`
	LockAspect bool    `json:"lockAspect"`
	SnapToGrid bool    `json:"snapToGrid"`
	GridSize   float64 `json:"gridSize"`
}

// DefaultResizeConstraints keeps components at least one pixel in each
// dimension.
func DefaultResizeConstraints() ResizeConstraints {
	return ResizeConstraints{MinWidth: 1, MinHeight: 1}
}
