package editor

import (
	"fmt"

	"pagebuilder/internal/canvas"
	"pagebuilder/internal/domain"
)

// Copy captures the subtrees at ids without touching the tree.
func (e *Editor) Copy(ids []string) error {
	e.mu.Lock()
	clip, err := e.captureLocked(ids, domain.ClipboardCopy)
	if err == nil {
		e.clip = clip
	}
	e.mu.Unlock()
	if err != nil {
		return err
	}
	e.notify(Change{Kind: ChangeClipboard})
	return nil
}

// Cut captures the subtrees at ids and deletes them as one history step.
func (e *Editor) Cut(ids []string) error {
	e.mu.Lock()
	clip, err := e.captureLocked(ids, domain.ClipboardCut)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	label := "cut"
	if len(clip.Roots) > 1 {
		label = fmt.Sprintf("cut %d components", len(clip.Roots))
	}
	top := canvas.TopLevel(e.state, ids)
	_, err = e.batchLocked(label, func(tx *Tx) error {
		for _, id := range top {
			tx.Delete(id)
		}
		return nil
	})
	if err == nil {
		e.clip = clip
	}
	e.mu.Unlock()
	if err != nil {
		return err
	}
	e.notify(Change{Kind: ChangeClipboard}, Change{Kind: ChangeTree, Label: label}, Change{Kind: ChangeSelection}, Change{Kind: ChangeHistory})
	return nil
}

// Paste inserts a fresh copy of the clipboard under parentID ("" for roots),
// offset from the source, and selects the new roots.
func (e *Editor) Paste(parentID string) ([]string, error) {
	e.mu.Lock()
	clip := e.clip
	e.mu.Unlock()
	if clip.Empty() {
		return nil, domain.ErrEmptyClipboard
	}
	var roots []string
	err := e.Batch("paste", func(tx *Tx) error {
		var err error
		roots, err = tx.Insert(parentID, clip)
		if err == nil {
			tx.Select(roots...)
		}
		return err
	})
	return roots, err
}

// Clipboard returns the current clipboard contents, or nil.
func (e *Editor) Clipboard() *domain.ClipboardState {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.clip == nil {
		return nil
	}
	return cloneClip(e.clip)
}

// SetClipboard replaces the clipboard, for example with content read from
// the system clipboard.
func (e *Editor) SetClipboard(clip *domain.ClipboardState) {
	e.mu.Lock()
	if clip == nil {
		e.clip = nil
	} else {
		e.clip = cloneClip(clip)
	}
	e.mu.Unlock()
	e.notify(Change{Kind: ChangeClipboard})
}

func (e *Editor) ClearClipboard() {
	e.SetClipboard(nil)
}

func (e *Editor) captureLocked(ids []string, mode domain.ClipboardMode) (*domain.ClipboardState, error) {
	for _, id := range ids {
		if !e.state.Has(id) {
			return nil, &domain.NotFoundError{ID: id}
		}
	}
	clip := canvas.Capture(e.state, ids, e.newID, mode)
	if clip.Empty() {
		return nil, domain.ErrEmptySelection
	}
	return clip, nil
}

func cloneClip(c *domain.ClipboardState) *domain.ClipboardState {
	out := &domain.ClipboardState{
		Roots:      append([]string{}, c.Roots...),
		Components: make(map[string]*domain.ComponentInstance, len(c.Components)),
		Mode:       c.Mode,
		CapturedAt: c.CapturedAt,
	}
	for id, comp := range c.Components {
		out.Components[id] = comp.Clone()
	}
	return out
}
