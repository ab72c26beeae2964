package simulation

import (
	"image/color"
	"math"

	"github.com/lao-tseu-is-alive/go-cell-arena/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-cell-arena/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-cell-arena/pkg/policy"
)

// ControllerKind says where a controller's decisions come from.
type ControllerKind uint8

const (
	Human ControllerKind = iota
	Scripted
	ModelDriven
)

func (k ControllerKind) String() string {
	switch k {
	case Human:
		return "human"
	case Scripted:
		return "scripted"
	case ModelDriven:
		return "model"
	}
	return "unknown"
}

// Controller is one player of the arena and owns its blobs.
type Controller struct {
	ID        ControllerID
	Name      string
	Color     color.RGBA
	Kind      ControllerKind
	Archetype string // model-driven only

	// Blobs is ordered: collision processing walks it front to back.
	Blobs []*Blob

	lead    EntityID
	hasLead bool

	aim    geometry.Vector2D
	hasAim bool

	brain  *behavior.Brain    // scripted only
	frames *policy.FrameStack // model-driven only
}

// Alive reports whether the controller owns at least one blob.
// Callers must check it before steering, observing or drawing.
func (c *Controller) Alive() bool { return len(c.Blobs) > 0 }

// Brain returns the decision engine of a scripted controller, nil otherwise.
func (c *Controller) Brain() *behavior.Brain { return c.brain }

// Aim returns the last aim point and whether one was ever set.
func (c *Controller) Aim() (geometry.Vector2D, bool) { return c.aim, c.hasAim }

func (c *Controller) setAim(p geometry.Vector2D) {
	c.aim, c.hasAim = p, true
}

// Lead returns the lead blob when the stored id still belongs to an owned blob.
func (c *Controller) Lead() (*Blob, bool) {
	if !c.hasLead {
		return nil, false
	}
	for _, b := range c.Blobs {
		if b.ID == c.lead {
			return b, true
		}
	}
	return nil, false
}

func (c *Controller) setLead(id EntityID) {
	c.lead, c.hasLead = id, true
}

// Mass is the summed mass of every owned blob.
func (c *Controller) Mass() float64 {
	m := 0.0
	for _, b := range c.Blobs {
		m += b.Mass()
	}
	return m
}

// AggregateRadius is the radius of one circle holding all owned mass.
func (c *Controller) AggregateRadius() float64 {
	return geometry.RadiusForMass(c.Mass())
}

// Primary returns the largest blob, first one on ties. Nil when dead.
func (c *Controller) Primary() *Blob {
	var best *Blob
	for _, b := range c.Blobs {
		if best == nil || b.Radius > best.Radius {
			best = b
		}
	}
	return best
}

// Centroid is the mass weighted centre of the owned blobs.
func (c *Controller) Centroid() geometry.Vector2D {
	var sum geometry.Vector2D
	mass := 0.0
	for _, b := range c.Blobs {
		m := b.Mass()
		sum = sum.Add(b.Pos.Mul(m))
		mass += m
	}
	if mass == 0 {
		return sum
	}
	return sum.Mul(1 / mass)
}

// anchor is the merge-pull point: the lead blob when alive, the centroid
// otherwise.
func (c *Controller) anchor() geometry.Vector2D {
	if lead, ok := c.Lead(); ok {
		return lead.Pos
	}
	return c.Centroid()
}

func (c *Controller) removeBlobs(dead map[EntityID]struct{}) {
	kept := c.Blobs[:0]
	for _, b := range c.Blobs {
		if _, gone := dead[b.ID]; !gone {
			kept = append(kept, b)
		}
	}
	clear(c.Blobs[len(kept):])
	c.Blobs = kept
}

// speedFor returns the top speed of a blob: larger blobs are slower.
func speedFor(cfg *Config, radius float64) float64 {
	return math.Max(cfg.BaseSpeed, cfg.MaxSpeed-radius/cfg.SpeedFalloff)
}
