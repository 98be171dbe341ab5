package app

import (
	"strings"

	"pagebuilder/internal/domain"
)

// ============================================================
// Canvases
// ============================================================

func (a *App) ListCanvases() ([]domain.CanvasSummary, error) {
	return a.ws.Canvases.ListCanvases()
}

func (a *App) CreateCanvas(name string) (*domain.CanvasSummary, error) {
	return a.ws.Canvases.CreateCanvas(name)
}

func (a *App) OpenCanvas(id string) error {
	a.DragCancel()
	return a.ws.Canvases.OpenCanvas(id)
}

// CurrentCanvas returns the open canvas, or nil.
func (a *App) CurrentCanvas() *domain.CanvasSummary {
	cur, ok := a.ws.Canvases.Current()
	if !ok {
		return nil
	}
	return &cur
}

func (a *App) SaveCanvas() error {
	return a.ws.Canvases.Save()
}

func (a *App) RenameCanvas(id, name string) error {
	return a.ws.Canvases.RenameCanvas(id, name)
}

func (a *App) DeleteCanvas(id string) error {
	return a.ws.Canvases.DeleteCanvas(id)
}

// ExportCanvas renders the open canvas as json or yaml.
func (a *App) ExportCanvas(format string) (string, error) {
	var sb strings.Builder
	if err := a.ws.Canvases.Export(&sb, format); err != nil {
		return "", err
	}
	return sb.String(), nil
}
