package canvas

import (
	"fmt"

	"pagebuilder/internal/domain"
)

// Check verifies the structural invariants of s: every listed child exists
// and points back at its parent, every component is listed exactly once,
// and no component is reachable from itself.
func Check(s *domain.CanvasState) error {
	seen := make(map[string]int, len(s.Components))
	var walk func(id, parent string, depth int) error
	walk = func(id, parent string, depth int) error {
		if depth > len(s.Components) {
			return fmt.Errorf("cycle through %q", id)
		}
		c := s.Get(id)
		if c == nil {
			return fmt.Errorf("listed child %q does not exist", id)
		}
		if c.ID != id {
			return fmt.Errorf("component stored under %q has id %q", id, c.ID)
		}
		if c.ParentID != parent {
			return fmt.Errorf("component %q has parent %q but is listed under %q", id, c.ParentID, parent)
		}
		seen[id]++
		if seen[id] > 1 {
			return fmt.Errorf("component %q listed more than once", id)
		}
		for _, ch := range c.Children {
			if err := walk(ch, id, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	for _, root := range s.RootIDs {
		if err := walk(root, "", 0); err != nil {
			return err
		}
	}
	for id := range s.Components {
		if seen[id] == 0 {
			return fmt.Errorf("component %q is orphaned", id)
		}
	}
	return nil
}
