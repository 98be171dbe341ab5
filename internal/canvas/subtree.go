package canvas

import (
	"time"

	"pagebuilder/internal/domain"
)

// Capture deep-clones the subtrees rooted at ids with fresh identifiers.
// Nested or unknown ids are skipped. The returned clip is detached from s.
func Capture(s *domain.CanvasState, ids []string, newID IDFunc, mode domain.ClipboardMode) *domain.ClipboardState {
	clip := &domain.ClipboardState{
		Components: make(map[string]*domain.ComponentInstance),
		Mode:       mode,
		CapturedAt: time.Now(),
	}
	for _, id := range TopLevel(s, ids) {
		clip.Roots = append(clip.Roots, cloneInto(s.Components, id, "", newID, clip.Components))
	}
	return clip
}

// Insert adds a fresh copy of clip as the last children of parentID and
// returns the new root ids. Roots are shifted by offset.
func Insert(s *domain.CanvasState, parentID string, clip *domain.ClipboardState, newID IDFunc, offset domain.Point) ([]string, error) {
	if parentID != "" && !s.Has(parentID) {
		return nil, &domain.NotFoundError{ID: parentID}
	}
	if clip.Empty() {
		return nil, domain.ErrEmptyClipboard
	}
	list := childList(s, parentID)
	roots := make([]string, 0, len(clip.Roots))
	for _, rid := range clip.Roots {
		fresh := make(map[string]*domain.ComponentInstance)
		newRoot := cloneInto(clip.Components, rid, parentID, newID, fresh)
		shift(fresh[newRoot], offset)
		for id, c := range fresh {
			s.Components[id] = c
		}
		*list = append(*list, newRoot)
		roots = append(roots, newRoot)
	}
	return roots, nil
}
