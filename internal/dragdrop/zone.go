package dragdrop

import (
	"fmt"
	"slices"

	"pagebuilder/internal/domain"
)

// ZoneState is the visual state of one drop zone.
type ZoneState string

const (
	ZoneIdle      ZoneState = "idle"
	ZonePotential ZoneState = "potential"
	ZoneInvalid   ZoneState = "invalid"
	ZoneActive    ZoneState = "active"
	ZoneDropping  ZoneState = "dropping"
)

// Validator is a caller-supplied drop predicate.
type Validator func(domain.DragData) domain.DropValidation

// ZoneConfig describes where a zone inserts and what it takes. An empty
// Accepts list takes every type. Index is the insertion position among
// ParentID's children; a negative Index appends.
type ZoneConfig struct {
	Accepts  []string  `json:"accepts,omitempty"`
	ParentID string    `json:"parentId,omitempty"`
	Index    int       `json:"index"`
	Label    string    `json:"label,omitempty"`
	Validate Validator `json:"-"`
}

// ZoneStatus is what the rendering layer binds to a zone element.
type ZoneStatus struct {
	ZoneID     string    `json:"zoneId"`
	State      ZoneState `json:"state"`
	Valid      bool      `json:"valid"`
	Reason     string    `json:"reason,omitempty"`
	Role       string    `json:"role"`
	AriaLabel  string    `json:"ariaLabel"`
	DropEffect string    `json:"dropEffect"`
}

type zone struct {
	id         string
	cfg        ZoneConfig
	state      ZoneState
	validation domain.DropValidation
	unregister func()
}

func (z *zone) status(data domain.DragData) ZoneStatus {
	label := z.cfg.Label
	if label == "" {
		label = "Drop zone " + z.id
	}
	effect := "none"
	switch z.state {
	case ZonePotential, ZoneActive, ZoneDropping:
		effect = "copy"
		if data.IsMove() {
			effect = "move"
		}
	}
	return ZoneStatus{
		ZoneID:     z.id,
		State:      z.state,
		Valid:      z.validation.Valid,
		Reason:     z.validation.Reason,
		Role:       "region",
		AriaLabel:  label,
		DropEffect: effect,
	}
}

// validate runs the accepted-type filter, the tree cycle guard and the
// caller predicate, in that order.
func (c *Controller) validate(cfg ZoneConfig, data domain.DragData) domain.DropValidation {
	if len(cfg.Accepts) > 0 && !slices.Contains(cfg.Accepts, data.Type) {
		return domain.Reject(fmt.Sprintf("%s is not accepted here", data.Type))
	}
	if cfg.ParentID != "" {
		if _, ok := c.target.Component(cfg.ParentID); !ok {
			return domain.Reject("drop target no longer exists")
		}
	}
	for _, src := range data.SourceIDs {
		if _, ok := c.target.Component(src); !ok {
			return domain.Reject("dragged component no longer exists")
		}
		if cfg.ParentID != "" && (src == cfg.ParentID || c.target.IsDescendant(src, cfg.ParentID)) {
			return domain.Reject("cannot drop a component into itself")
		}
	}
	if cfg.Validate != nil {
		if v := cfg.Validate(data); !v.Valid {
			return v
		}
	}
	return domain.Accept()
}
