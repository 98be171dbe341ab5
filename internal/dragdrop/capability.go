// Package dragdrop runs pointer drag sessions against registered drop
// zones. Raw pointer handling lives behind Capability; the controller only
// asks which zone is under the pointer and what is being dragged.
package dragdrop

import (
	"sync"

	"pagebuilder/internal/domain"
)

// Capability is the pointer-drag primitive: zone registration, hit status
// and the payload of the drag in flight.
type Capability interface {
	RegisterZone(zoneID string) (unregister func())
	IsOver(zoneID string) bool
	Payload() (domain.DragData, bool)
}

// gesture is implemented by capabilities that track the gesture themselves
// and must forget it when a session ends without a drop.
type gesture interface {
	End()
}

// Bridge is a Capability fed by the host UI. The frontend reports drag
// start, the zone under the pointer and drag end; the controller reads it.
type Bridge struct {
	mu     sync.Mutex
	zones  map[string]int
	over   string
	data   domain.DragData
	active bool
}

func NewBridge() *Bridge {
	return &Bridge{zones: make(map[string]int)}
}

func (b *Bridge) RegisterZone(zoneID string) func() {
	b.mu.Lock()
	b.zones[zoneID]++
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if b.zones[zoneID]--; b.zones[zoneID] <= 0 {
				delete(b.zones, zoneID)
				if b.over == zoneID {
					b.over = ""
				}
			}
		})
	}
}

func (b *Bridge) IsOver(zoneID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.active && zoneID != "" && b.over == zoneID && b.zones[zoneID] > 0
}

func (b *Bridge) Payload() (domain.DragData, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.data, b.active
}

// Begin records the payload of a new drag gesture.
func (b *Bridge) Begin(data domain.DragData) {
	b.mu.Lock()
	b.data = data
	b.active = true
	b.over = ""
	b.mu.Unlock()
}

// PointerOver sets the zone under the pointer; "" means none.
func (b *Bridge) PointerOver(zoneID string) {
	b.mu.Lock()
	b.over = zoneID
	b.mu.Unlock()
}

// End forgets the gesture.
func (b *Bridge) End() {
	b.mu.Lock()
	b.data = domain.DragData{}
	b.active = false
	b.over = ""
	b.mu.Unlock()
}
