// Package keyboard gives every pointer interaction a keyboard equivalent:
// focus traversal, grab, directional movement, drop and cancel, with an
// announcement for each step, plus the editor-wide shortcut keymap.
package keyboard

import (
	"fmt"
	"sync"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/editor"
	"pagebuilder/internal/geometry"
	"pagebuilder/internal/input"
)

// Mode is the keyboard drag state.
type Mode string

const (
	ModeOff  Mode = "off"
	ModeGrab Mode = "grab"
)

const (
	DefaultStep     = 10.0
	DefaultFineStep = 1.0
)

// Target is the editor surface the controller drives.
type Target interface {
	OrderedIDs() []string
	Component(id string) (domain.ComponentInstance, bool)
	Selection() domain.SelectionState
	SetFocused(id string) error
	Grid() domain.GridConfig
	BeginSession(kind editor.SessionKind) (func(), error)
	Apply(label, id string, patch domain.Patch) error
}

// Controller is the keyboard drag state machine.
type Controller struct {
	target   Target
	announce Announcer
	step     float64
	fine     float64

	mu   sync.Mutex
	grab *grabSession
}

type grabSession struct {
	id      string
	label   string
	start   domain.Point
	pos     domain.Point
	acc     *geometry.Accumulator
	release func()
}

type Option func(*Controller)

// WithSteps sets the arrow step and the Alt-held fine step.
func WithSteps(step, fine float64) Option {
	return func(c *Controller) {
		if step > 0 {
			c.step = step
		}
		if fine > 0 {
			c.fine = fine
		}
	}
}

func NewController(target Target, announcer Announcer, opts ...Option) *Controller {
	if announcer == nil {
		announcer = discard{}
	}
	c := &Controller{target: target, announce: announcer, step: DefaultStep, fine: DefaultFineStep}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.grab != nil {
		return ModeGrab
	}
	return ModeOff
}

// Grabbed returns the grabbed component and its preview position.
func (c *Controller) Grabbed() (string, domain.Point, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.grab == nil {
		return "", domain.Point{}, false
	}
	return c.grab.id, c.grab.pos, true
}

// HandleKey runs one key event and reports whether it was consumed.
func (c *Controller) HandleKey(ev input.Event) bool {
	if c.Mode() == ModeGrab {
		return c.handleGrab(ev)
	}
	switch ev.Key {
	case "Tab":
		c.cycleFocus(ev.Modifiers.Shift)
		return true
	case " ", "Enter":
		c.pickUp()
		return true
	}
	return false
}

func (c *Controller) handleGrab(ev input.Event) bool {
	switch ev.Key {
	case "ArrowUp", "ArrowDown", "ArrowLeft", "ArrowRight":
		c.nudge(ev.Key, ev.Modifiers.Alt)
	case "Escape":
		c.cancel()
	case " ", "Enter":
		c.drop()
	case "Tab":
		// focus stays on the grabbed component
	default:
		return false
	}
	return true
}

func (c *Controller) cycleFocus(backward bool) {
	ids := c.target.OrderedIDs()
	if len(ids) == 0 {
		c.announce.Announce("No components to focus")
		return
	}
	current := c.target.Selection().Focused
	idx := -1
	for i, id := range ids {
		if id == current {
			idx = i
			break
		}
	}
	switch {
	case idx < 0 && backward:
		idx = len(ids) - 1
	case idx < 0:
		idx = 0
	case backward:
		idx = (idx - 1 + len(ids)) % len(ids)
	default:
		idx = (idx + 1) % len(ids)
	}
	id := ids[idx]
	if err := c.target.SetFocused(id); err != nil {
		c.announce.Announce("Could not focus component")
		return
	}
	comp, _ := c.target.Component(id)
	c.announce.Announce(fmt.Sprintf("Focused %s, %d of %d", comp.Label(), idx+1, len(ids)))
}

func (c *Controller) pickUp() {
	id := c.target.Selection().Focused
	comp, ok := c.target.Component(id)
	if id == "" || !ok {
		c.announce.Announce("Nothing focused to pick up")
		return
	}
	release, err := c.target.BeginSession(editor.SessionKeyboardDrag)
	if err != nil {
		c.announce.Announce(fmt.Sprintf("Cannot pick up %s: %v", comp.Label(), err))
		return
	}
	b := comp.Bounds()
	g := &grabSession{
		id:      id,
		label:   comp.Label(),
		start:   domain.Point{X: b.X, Y: b.Y},
		pos:     domain.Point{X: b.X, Y: b.Y},
		release: release,
	}
	if grid := c.target.Grid(); grid.SnapActive() {
		g.acc = geometry.NewAccumulator(grid.CellSize)
	}
	c.mu.Lock()
	c.grab = g
	c.mu.Unlock()
	c.announce.Announce(fmt.Sprintf("Picked up %s. Use the arrow keys to move, Space or Enter to drop, Escape to cancel.", g.label))
}

// SetSteps changes the arrow steps. Non-positive values are ignored.
func (c *Controller) SetSteps(step, fine float64) {
	c.mu.Lock()
	WithSteps(step, fine)(c)
	c.mu.Unlock()
}

func (c *Controller) nudge(key string, fine bool) {
	c.mu.Lock()
	step := c.step
	if fine {
		step = c.fine
	}
	c.mu.Unlock()
	var dx, dy float64
	switch key {
	case "ArrowUp":
		dy = -step
	case "ArrowDown":
		dy = step
	case "ArrowLeft":
		dx = -step
	case "ArrowRight":
		dx = step
	}

	c.mu.Lock()
	g := c.grab
	if g == nil {
		c.mu.Unlock()
		return
	}
	var pending domain.Point
	if g.acc != nil {
		dx, dy = g.acc.Push(dx, dy)
		pending = g.acc.Residual()
	}
	g.pos.X += dx
	g.pos.Y += dy
	pos, label := g.pos, g.label
	c.mu.Unlock()

	switch {
	case dx != 0 || dy != 0:
		c.announce.Announce(fmt.Sprintf("%s at %s", label, formatPoint(pos)))
	case pending != (domain.Point{}):
		// Held below one grid cell.
		c.announce.Announce(fmt.Sprintf("%s moving, %s pending", label, formatPoint(pending)))
	}
}

func (c *Controller) cancel() {
	g := c.take()
	if g == nil {
		return
	}
	defer g.release()
	c.announce.Announce(fmt.Sprintf("Move cancelled. %s returned to %s", g.label, formatPoint(g.start)))
}

func (c *Controller) drop() {
	g := c.take()
	if g == nil {
		return
	}
	defer g.release()
	if g.pos == g.start {
		c.announce.Announce(fmt.Sprintf("Dropped %s. Position unchanged", g.label))
		return
	}
	pos := g.pos
	if err := c.target.Apply("move "+g.label, g.id, domain.Patch{Position: &pos}); err != nil {
		c.announce.Announce(fmt.Sprintf("Could not move %s: %v", g.label, err))
		return
	}
	c.announce.Announce(fmt.Sprintf("Dropped %s at %s", g.label, formatPoint(pos)))
}

// Cancel ends a grab from outside the key stream, for example when the
// canvas loses focus.
func (c *Controller) Cancel() {
	c.cancel()
}

func (c *Controller) take() *grabSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	g := c.grab
	c.grab = nil
	return g
}

func formatPoint(p domain.Point) string {
	return fmt.Sprintf("%g, %g", p.X, p.Y)
}
