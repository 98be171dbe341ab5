// Package canvas holds the component tree transitions. Every function
// mutates the *domain.CanvasState it is given; callers that need
// all-or-nothing behaviour run them on a clone and swap it in on success.
package canvas

import (
	"fmt"

	"github.com/google/uuid"

	"pagebuilder/internal/domain"
)

// IDFunc produces fresh component identifiers.
type IDFunc func() string

// NewID returns a random UUID string.
func NewID() string {
	return uuid.New().String()
}

// Add inserts inst as the last child of parentID, or as a new root when
// parentID is empty. An empty inst.ID is filled with newID().
func Add(s *domain.CanvasState, parentID string, inst domain.ComponentInstance, newID IDFunc) (string, error) {
	if parentID != "" && !s.Has(parentID) {
		return "", &domain.NotFoundError{ID: parentID}
	}
	c := inst.Clone()
	if c.ID == "" {
		c.ID = newID()
	}
	if s.Has(c.ID) {
		return "", fmt.Errorf("add %q: %w", c.ID, domain.ErrDuplicateID)
	}
	if c.Props == nil {
		c.Props = map[string]any{}
	}
	c.Children = []string{}
	c.ParentID = parentID

	s.Components[c.ID] = c
	list := childList(s, parentID)
	*list = append(*list, c.ID)
	return c.ID, nil
}

// Update merges patch into the component with id.
func Update(s *domain.CanvasState, id string, patch domain.Patch) error {
	c := s.Get(id)
	if c == nil {
		return &domain.NotFoundError{ID: id}
	}
	if patch.Type != nil {
		c.Type = *patch.Type
	}
	if len(patch.Props) > 0 {
		if c.Props == nil {
			c.Props = map[string]any{}
		}
		for k, v := range patch.Props {
			if v == nil {
				delete(c.Props, k)
				continue
			}
			c.Props[k] = v
		}
	}
	if patch.Position != nil {
		p := *patch.Position
		c.Position = &p
	}
	if patch.Size != nil {
		sz := *patch.Size
		c.Size = &sz
	}
	return nil
}

// Delete removes id and all of its descendants and returns the removed ids.
// Deleting an absent id returns nil.
func Delete(s *domain.CanvasState, id string) []string {
	c := s.Get(id)
	if c == nil {
		return nil
	}
	list := childList(s, c.ParentID)
	*list = removeID(*list, id)

	removed := Subtree(s, id)
	for _, rid := range removed {
		delete(s.Components, rid)
	}
	return removed
}

// Move detaches id and reinserts it into newParentID's children at index.
// The index is clamped to the bounds of the list after detaching.
func Move(s *domain.CanvasState, id, newParentID string, index int) error {
	c := s.Get(id)
	if c == nil {
		return &domain.NotFoundError{ID: id}
	}
	if newParentID != "" && !s.Has(newParentID) {
		return &domain.NotFoundError{ID: newParentID}
	}
	if newParentID == id || IsDescendant(s, id, newParentID) {
		return &domain.CycleError{ID: id, ParentID: newParentID}
	}

	old := childList(s, c.ParentID)
	*old = removeID(*old, id)

	list := childList(s, newParentID)
	*list = insertAt(*list, index, id)
	c.ParentID = newParentID
	return nil
}

// MoveMany moves ids under newParentID so they sit, in the given order,
// where index pointed before the move. A negative index appends. Ids nested
// under another id of the set travel with their ancestor. It returns the ids
// that were moved directly.
func MoveMany(s *domain.CanvasState, ids []string, newParentID string, index int) ([]string, error) {
	for _, id := range ids {
		if !s.Has(id) {
			return nil, &domain.NotFoundError{ID: id}
		}
	}
	if newParentID != "" && !s.Has(newParentID) {
		return nil, &domain.NotFoundError{ID: newParentID}
	}
	top := TopLevel(s, ids)
	moving := make(map[string]bool, len(top))
	for _, id := range top {
		if id == newParentID || IsDescendant(s, id, newParentID) {
			return nil, &domain.CycleError{ID: id, ParentID: newParentID}
		}
		moving[id] = true
	}

	list := *childList(s, newParentID)
	if index < 0 || index > len(list) {
		index = len(list)
	}
	anchor := ""
	for _, sib := range list[index:] {
		if !moving[sib] {
			anchor = sib
			break
		}
	}

	for _, id := range top {
		c := s.Components[id]
		old := childList(s, c.ParentID)
		*old = removeID(*old, id)
		c.ParentID = newParentID
	}
	target := childList(s, newParentID)
	at := len(*target)
	if anchor != "" {
		at = indexOf(*target, anchor)
	}
	for i, id := range top {
		*target = insertAt(*target, at+i, id)
	}
	return top, nil
}

// Duplicate clones the subtree rooted at id with fresh ids and inserts the
// clone right after the original. The clone root is shifted by offset when
// it has a position.
func Duplicate(s *domain.CanvasState, id string, newID IDFunc, offset domain.Point) (string, error) {
	c := s.Get(id)
	if c == nil {
		return "", &domain.NotFoundError{ID: id}
	}
	clones := make(map[string]*domain.ComponentInstance)
	rootID := cloneInto(s.Components, id, c.ParentID, newID, clones)
	shift(clones[rootID], offset)
	for cid, cc := range clones {
		s.Components[cid] = cc
	}

	list := childList(s, c.ParentID)
	*list = insertAt(*list, indexOf(*list, id)+1, rootID)
	return rootID, nil
}

// Subtree returns id followed by all of its descendants in pre-order.
func Subtree(s *domain.CanvasState, id string) []string {
	var out []string
	var walk func(string)
	walk = func(cur string) {
		c := s.Get(cur)
		if c == nil {
			return
		}
		out = append(out, cur)
		for _, ch := range c.Children {
			walk(ch)
		}
	}
	walk(id)
	return out
}

// IsDescendant reports whether candidate lies strictly inside id's subtree.
func IsDescendant(s *domain.CanvasState, id, candidate string) bool {
	for cur := s.Get(candidate); cur != nil && cur.ParentID != ""; cur = s.Get(cur.ParentID) {
		if cur.ParentID == id {
			return true
		}
	}
	return false
}

// OrderedIDs lists every component depth-first in document order.
func OrderedIDs(s *domain.CanvasState) []string {
	out := make([]string, 0, len(s.Components))
	for _, root := range s.RootIDs {
		out = append(out, Subtree(s, root)...)
	}
	return out
}

// Children returns the child list for parentID ("" means roots).
func Children(s *domain.CanvasState, parentID string) []string {
	if parentID == "" {
		return s.RootIDs
	}
	if c := s.Get(parentID); c != nil {
		return c.Children
	}
	return nil
}

// TopLevel drops ids that are absent or nested under another id of the set,
// keeping the original order.
func TopLevel(s *domain.CanvasState, ids []string) []string {
	var out []string
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] || !s.Has(id) {
			continue
		}
		seen[id] = true
		nested := false
		for _, other := range ids {
			if other != id && IsDescendant(s, other, id) {
				nested = true
				break
			}
		}
		if !nested {
			out = append(out, id)
		}
	}
	return out
}

func childList(s *domain.CanvasState, parentID string) *[]string {
	if parentID == "" {
		return &s.RootIDs
	}
	return &s.Components[parentID].Children
}

func cloneInto(src map[string]*domain.ComponentInstance, id, parentID string, newID IDFunc, dst map[string]*domain.ComponentInstance) string {
	orig := src[id]
	c := orig.Clone()
	c.ID = newID()
	c.ParentID = parentID
	c.Children = make([]string, 0, len(orig.Children))
	for _, ch := range orig.Children {
		c.Children = append(c.Children, cloneInto(src, ch, c.ID, newID, dst))
	}
	dst[c.ID] = c
	return c.ID
}

func shift(c *domain.ComponentInstance, offset domain.Point) {
	if c.Position == nil {
		return
	}
	c.Position.X += offset.X
	c.Position.Y += offset.Y
}

func indexOf(list []string, id string) int {
	for i, v := range list {
		if v == id {
			return i
		}
	}
	return -1
}

func removeID(list []string, id string) []string {
	out := list[:0:0]
	for _, v := range list {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func insertAt(list []string, index int, id string) []string {
	if index < 0 {
		index = 0
	}
	if index > len(list) {
		index = len(list)
	}
	out := make([]string, 0, len(list)+1)
	out = append(out, list[:index]...)
	out = append(out, id)
	return append(out, list[index:]...)
}
