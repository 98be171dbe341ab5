package domain

import "time"

// Canvas is a stored document: metadata plus its state.
type Canvas struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	State     *CanvasState `json:"state"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// CanvasSummary is a list row without the component tree.
type CanvasSummary struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	ComponentCount int       `json:"componentCount"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type CanvasStore interface {
	CreateCanvas(c *Canvas) error
	GetCanvas(id string) (*Canvas, error)
	ListCanvases() ([]CanvasSummary, error)
	SaveCanvas(c *Canvas) error
	// CanvasUpdatedAt is the last write time, used to notice saves made by
	// another process.
	CanvasUpdatedAt(id string) (time.Time, error)
	RenameCanvas(id, name string) error
	DeleteCanvas(id string) error
}

type HistoryStore interface {
	SaveTimeline(canvasID string, tl Timeline) error
	LoadTimeline(canvasID string) (*Timeline, error)
	ClearTimeline(canvasID string) error
}
