package service

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/atotto/clipboard"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/editor"
)

// ─────────────────────────────────────────────────────────────
// System clipboard mirror
// ─────────────────────────────────────────────────────────────

// clipboardFormat tags our payload on the OS clipboard.
const clipboardFormat = "pagebuilder/components"

// SystemClipboard reads and writes OS clipboard text.
type SystemClipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

// OSClipboard is the SystemClipboard backed by atotto/clipboard.
type OSClipboard struct{}

func (OSClipboard) ReadAll() (string, error)   { return clipboard.ReadAll() }
func (OSClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

type clipboardPayload struct {
	Format    string                 `json:"format"`
	Clipboard *domain.ClipboardState `json:"clipboard"`
}

// ClipboardSync is the editor with copy, cut and paste mirrored to the OS
// clipboard, so components can move between editor windows. Everything
// else passes straight to the editor.
type ClipboardSync struct {
	*editor.Editor
	sys SystemClipboard

	mu      sync.Mutex
	enabled bool
}

// NewClipboardSync wraps ed. With enabled false it behaves exactly like ed.
func NewClipboardSync(ed *editor.Editor, sys SystemClipboard, enabled bool) *ClipboardSync {
	if sys == nil {
		sys = OSClipboard{}
	}
	return &ClipboardSync{Editor: ed, sys: sys, enabled: enabled}
}

// SetEnabled turns the OS clipboard mirror on or off.
func (c *ClipboardSync) SetEnabled(on bool) {
	c.mu.Lock()
	c.enabled = on
	c.mu.Unlock()
}

func (c *ClipboardSync) isEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

func (c *ClipboardSync) Copy(ids []string) error {
	if err := c.Editor.Copy(ids); err != nil {
		return err
	}
	c.publish()
	return nil
}

func (c *ClipboardSync) Cut(ids []string) error {
	if err := c.Editor.Cut(ids); err != nil {
		return err
	}
	c.publish()
	return nil
}

// Paste first adopts a newer payload from the OS clipboard, then pastes.
func (c *ClipboardSync) Paste(parentID string) ([]string, error) {
	c.adopt()
	return c.Editor.Paste(parentID)
}

func (c *ClipboardSync) publish() {
	if !c.isEnabled() {
		return
	}
	data, err := json.Marshal(clipboardPayload{Format: clipboardFormat, Clipboard: c.Editor.Clipboard()})
	if err != nil {
		log.Printf("[CLIPBOARD] encode: %v", err)
		return
	}
	if err := c.sys.WriteAll(string(data)); err != nil {
		log.Printf("[CLIPBOARD] write system clipboard: %v", err)
	}
}

func (c *ClipboardSync) adopt() {
	if !c.isEnabled() {
		return
	}
	text, err := c.sys.ReadAll()
	if err != nil || text == "" {
		return
	}
	var p clipboardPayload
	if json.Unmarshal([]byte(text), &p) != nil || p.Format != clipboardFormat || p.Clipboard.Empty() {
		return
	}
	local := c.Editor.Clipboard()
	if local != nil && !p.Clipboard.CapturedAt.After(local.CapturedAt) {
		return
	}
	c.Editor.SetClipboard(p.Clipboard)
}
