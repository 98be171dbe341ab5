package dragdrop

import (
	"errors"
	"fmt"
	"log"
	"maps"
	"sync"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/editor"
	"pagebuilder/internal/input"
)

var (
	ErrNoDrag     = errors.New("no drag in progress")
	ErrZoneExists = errors.New("drop zone already registered")
)

// Target is the editor surface the controller commits to.
type Target interface {
	BeginSession(kind editor.SessionKind) (func(), error)
	Batch(label string, fn func(tx *editor.Tx) error) error
	Component(id string) (domain.ComponentInstance, bool)
	IsDescendant(id, candidate string) bool
}

// Result reports what Drop did.
type Result struct {
	Dropped bool     `json:"dropped"`
	ZoneID  string   `json:"zoneId,omitempty"`
	IDs     []string `json:"ids,omitempty"`
}

// Controller holds the zone registry and at most one drag session.
type Controller struct {
	drag   Capability
	target Target
	src    input.Source

	mu       sync.Mutex
	zones    map[string]*zone
	order    []string
	session  *dragSession
	onChange func(ZoneStatus)
}

type dragSession struct {
	data    domain.DragData
	release func()
	scope   *input.Scope
}

func NewController(drag Capability, target Target) *Controller {
	return &Controller{drag: drag, target: target, zones: make(map[string]*zone)}
}

// Listen makes every later session end on Escape, pointer cancel or lost
// pointer capture arriving on src.
func (c *Controller) Listen(src input.Source) {
	c.mu.Lock()
	c.src = src
	c.mu.Unlock()
}

// OnChange sets a callback fired whenever a zone changes state.
func (c *Controller) OnChange(fn func(ZoneStatus)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// Register adds a zone and returns a func that removes it. A zone
// registered mid-drag joins the session as potential.
func (c *Controller) Register(zoneID string, cfg ZoneConfig) (func(), error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.zones[zoneID]; ok {
		return nil, fmt.Errorf("%w: %s", ErrZoneExists, zoneID)
	}
	z := &zone{id: zoneID, cfg: cfg, state: ZoneIdle, unregister: c.drag.RegisterZone(zoneID)}
	if c.session != nil {
		z.state = ZonePotential
	}
	c.zones[zoneID] = z
	c.order = append(c.order, zoneID)

	var once sync.Once
	return func() {
		once.Do(func() { c.unregister(z) })
	}, nil
}

func (c *Controller) unregister(z *zone) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.zones[z.id] != z {
		return
	}
	delete(c.zones, z.id)
	for i, id := range c.order {
		if id == z.id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	z.unregister()
}

// Start opens a drag session for the payload the capability reports.
// It fails while another interactive session is running.
func (c *Controller) Start() error {
	data, ok := c.drag.Payload()
	if !ok {
		return ErrNoDrag
	}
	c.mu.Lock()
	busy := c.session != nil
	c.mu.Unlock()
	if busy {
		return &domain.SessionError{Requested: string(editor.SessionPointerDrag), Active: string(editor.SessionPointerDrag)}
	}
	release, err := c.target.BeginSession(editor.SessionPointerDrag)
	if err != nil {
		return err
	}

	s := &dragSession{data: data, release: release}
	c.mu.Lock()
	src := c.src
	if src != nil {
		s.scope = input.NewScope(src)
	}
	c.session = s
	changed := c.setAllLocked(ZonePotential)
	c.mu.Unlock()

	if s.scope != nil {
		abort := func(input.Event) { c.end(s) }
		s.scope.On(input.PointerCancel, abort)
		s.scope.On(input.LostCapture, abort)
		s.scope.On(input.KeyDown, func(ev input.Event) {
			if ev.Key == "Escape" {
				c.end(s)
			}
		})
	}
	c.emit(changed)
	return nil
}

// Active returns the payload of the running session.
func (c *Controller) Active() (domain.DragData, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return domain.DragData{}, false
	}
	return c.session.data, true
}

// Over re-evaluates every zone against the pointer position the capability
// reports and returns the zone under the pointer, if any. Validation runs
// on each call so predicates see every pointer-over event.
//
// Predicates run without the controller lock held, so they may query it.
func (c *Controller) Over() (string, bool) {
	c.mu.Lock()
	s := c.session
	if s == nil {
		c.mu.Unlock()
		return "", false
	}
	zones := make([]*zone, 0, len(c.order))
	for _, id := range c.order {
		zones = append(zones, c.zones[id])
	}
	c.mu.Unlock()

	type verdict struct {
		state ZoneState
		v     domain.DropValidation
	}
	verdicts := make([]verdict, len(zones))
	hit := ""
	for i, z := range zones {
		verdicts[i].state = ZonePotential
		if c.drag.IsOver(z.id) {
			hit = z.id
			verdicts[i].v = c.validate(z.cfg, s.data)
			verdicts[i].state = ZoneInvalid
			if verdicts[i].v.Valid {
				verdicts[i].state = ZoneActive
			}
		}
	}

	c.mu.Lock()
	if c.session != s {
		c.mu.Unlock()
		return "", false
	}
	var changed []ZoneStatus
	for i, z := range zones {
		if c.zones[z.id] != z {
			continue
		}
		next := verdicts[i]
		if z.state != next.state || z.validation != next.v {
			z.state, z.validation = next.state, next.v
			changed = append(changed, z.status(s.data))
		}
	}
	c.mu.Unlock()
	c.emit(changed)
	return hit, hit != ""
}

// Drop commits the payload into the zone under the pointer when that zone
// is valid, as one history entry. Released anywhere else the drag is
// cancelled. The session ends either way.
func (c *Controller) Drop() (Result, error) {
	c.Over()

	c.mu.Lock()
	s := c.session
	if s == nil {
		c.mu.Unlock()
		return Result{}, ErrNoDrag
	}
	var target *zone
	for _, id := range c.order {
		if z := c.zones[id]; z.state == ZoneActive {
			target = z
			break
		}
	}
	var dropping []ZoneStatus
	if target != nil {
		target.state = ZoneDropping
		dropping = append(dropping, target.status(s.data))
	}
	c.mu.Unlock()
	defer c.end(s)

	if target == nil {
		return Result{}, nil
	}
	c.emit(dropping)

	ids, err := c.commit(target.cfg, s.data)
	if err != nil {
		log.Printf("[DRAG] drop into %s failed: %v", target.id, err)
		return Result{ZoneID: target.id}, err
	}
	return Result{Dropped: true, ZoneID: target.id, IDs: ids}, nil
}

// Cancel ends the session without touching the tree.
func (c *Controller) Cancel() {
	c.mu.Lock()
	s := c.session
	c.mu.Unlock()
	if s != nil {
		c.end(s)
	}
}

// Status returns the live status of zoneID.
func (c *Controller) Status(zoneID string) (ZoneStatus, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	z, ok := c.zones[zoneID]
	if !ok {
		return ZoneStatus{}, false
	}
	return z.status(c.payloadLocked()), true
}

// Statuses returns every zone in registration order.
func (c *Controller) Statuses() []ZoneStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	data := c.payloadLocked()
	out := make([]ZoneStatus, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.zones[id].status(data))
	}
	return out
}

func (c *Controller) commit(cfg ZoneConfig, data domain.DragData) ([]string, error) {
	var ids []string
	label := "drop " + data.Type
	err := c.target.Batch(label, func(tx *editor.Tx) error {
		if data.IsMove() {
			if err := tx.MoveMany(data.SourceIDs, cfg.ParentID, cfg.Index); err != nil {
				return err
			}
			ids = append([]string{}, data.SourceIDs...)
			tx.Select(ids...)
			return nil
		}
		id, err := tx.Add(cfg.ParentID, newInstance(data))
		if err != nil {
			return err
		}
		if cfg.Index >= 0 {
			if err := tx.Move(id, cfg.ParentID, cfg.Index); err != nil {
				return err
			}
		}
		ids = []string{id}
		tx.Select(id)
		return nil
	})
	return ids, err
}

func (c *Controller) end(s *dragSession) {
	c.mu.Lock()
	if c.session != s {
		c.mu.Unlock()
		return
	}
	c.session = nil
	changed := c.setAllLocked(ZoneIdle)
	c.mu.Unlock()
	if s.scope != nil {
		s.scope.Close()
	}
	if g, ok := c.drag.(gesture); ok {
		g.End()
	}
	s.release()
	c.emit(changed)
}

func (c *Controller) setAllLocked(state ZoneState) []ZoneStatus {
	var data domain.DragData
	if c.session != nil {
		data = c.session.data
	}
	var changed []ZoneStatus
	for _, id := range c.order {
		z := c.zones[id]
		if z.state == state && z.validation == (domain.DropValidation{}) {
			continue
		}
		z.state = state
		z.validation = domain.DropValidation{}
		changed = append(changed, z.status(data))
	}
	return changed
}

func (c *Controller) payloadLocked() domain.DragData {
	if c.session == nil {
		return domain.DragData{}
	}
	return c.session.data
}

func (c *Controller) emit(changed []ZoneStatus) {
	c.mu.Lock()
	fn := c.onChange
	c.mu.Unlock()
	if fn == nil {
		return
	}
	for _, st := range changed {
		fn(st)
	}
}

// newInstance builds the component a palette drag creates. Payload["props"]
// seeds its props and Payload["position"] places it.
func newInstance(data domain.DragData) domain.ComponentInstance {
	inst := domain.ComponentInstance{Type: data.Type}
	if props, ok := data.Payload["props"].(map[string]any); ok {
		inst.Props = maps.Clone(props)
	}
	switch p := data.Payload["position"].(type) {
	case domain.Point:
		inst.Position = &p
	case *domain.Point:
		inst.Position = p
	case map[string]any:
		x, _ := p["x"].(float64)
		y, _ := p["y"].(float64)
		inst.Position = &domain.Point{X: x, Y: y}
	}
	return inst
}
