package domain

import "time"

// ClipboardMode records whether the clipboard was filled by copy or cut.
type ClipboardMode string

const (
	ClipboardCopy ClipboardMode = "copy"
	ClipboardCut  ClipboardMode = "cut"
)

// ClipboardState is a detached subtree with remapped identifiers.
// Roots lists the top-level ids in capture order; root components have an
// empty ParentID.
type ClipboardState struct {
	Roots      []string                      `json:"roots"`
	Components map[string]*ComponentInstance `json:"components"`
	Mode       ClipboardMode                 `json:"mode"`
	CapturedAt time.Time                     `json:"capturedAt"`
}

// Empty reports whether there is nothing to paste.
func (c *ClipboardState) Empty() bool {
	return c == nil || len(c.Roots) == 0
}
