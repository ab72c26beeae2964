// Package behavior holds the finite state machine driving scripted opponents.
// A Brain sees the arena through a Percept and answers with a point to steer
// towards. It never touches simulation state directly.
package behavior

import (
	"math"
	"math/rand/v2"

	"github.com/lao-tseu-is-alive/go-cell-arena/pkg/geometry"
)

// State of a scripted opponent.
type State int

const (
	Wandering State = iota
	Hunting
	Fleeing
	ClearingVirus
)

func (s State) String() string {
	switch s {
	case Hunting:
		return "hunting"
	case Fleeing:
		return "fleeing"
	case ClearingVirus:
		return "clearing_virus"
	default:
		return "wandering"
	}
}

// Params controls the decision rules.
type Params struct {
	DecisionCooldown int // frames between two evaluations after a state change

	VisionBase float64 // vision radius of a controller whose aggregate radius is VisionRef
	VisionRef  float64
	VisionMin  float64
	VisionMax  float64

	ThreatRatio   float64 // rival radius / own aggregate radius above which we flee
	PreyRatio     float64 // own largest radius / rival radius above which we hunt
	WaypointReach float64 // wander waypoint is re-picked inside this distance

	ArenaWidth  float64
	ArenaHeight float64
}

// Sighting is an entity visible to the brain.
type Sighting struct {
	ID     uint64
	Circle geometry.Circle
}

// Percept is what the brain knows about the arena for one frame.
// Rivals only holds blobs of other controllers.
type Percept struct {
	Primary         geometry.Circle // largest owned blob, used as the eye
	AggregateRadius float64         // sqrt of the summed owned mass
	Rivals          []Sighting
	Food            []Sighting
	Viruses         []Sighting
}

// Brain is the per controller decision state.
type Brain struct {
	params Params
	rng    *rand.Rand

	state    State
	cooldown int

	target   geometry.Vector2D
	targetID uint64 // 0 when the target is a plain point

	waypoint    geometry.Vector2D
	hasWaypoint bool
}

// NewBrain returns a wandering brain ready to evaluate on its first frame.
func NewBrain(p Params, rng *rand.Rand) *Brain {
	return &Brain{params: p, rng: rng, state: Wandering}
}

// State returns the current state.
func (b *Brain) State() State { return b.state }

// Target returns the current steering point.
func (b *Brain) Target() geometry.Vector2D { return b.target }

// TargetID returns the id of the tracked entity, 0 for a plain point.
func (b *Brain) TargetID() uint64 { return b.targetID }

// Cooldown returns the frames left before the next evaluation.
func (b *Brain) Cooldown() int { return b.cooldown }

// Decide advances the brain by one frame and returns the steering target.
// The cooldown is decremented every frame; a full evaluation only happens
// once it reaches zero. In between, the tracked entity is followed by id.
func (b *Brain) Decide(p Percept) geometry.Vector2D {
	if b.cooldown > 0 {
		b.cooldown--
	}
	if b.cooldown > 0 {
		b.refresh(p)
		return b.target
	}
	b.evaluate(p)
	return b.target
}

// Vision returns the sight radius for a controller of the given aggregate
// radius: bigger controllers see less far.
func (b *Brain) Vision(aggregateRadius float64) float64 {
	p := b.params
	if aggregateRadius <= 0 {
		return p.VisionMax
	}
	v := p.VisionBase * (p.VisionRef / aggregateRadius)
	return math.Max(p.VisionMin, math.Min(p.VisionMax, v))
}

func (b *Brain) evaluate(p Percept) {
	eye := p.Primary.Center
	vision := b.Vision(p.AggregateRadius)
	visionSq := vision * vision

	var (
		threat, prey *Sighting
		threatDist   = math.Inf(1)
		preyRadius   = -1.0
	)
	for i := range p.Rivals {
		s := &p.Rivals[i]
		d := eye.DistanceSquaredTo(s.Circle.Center)
		if d > visionSq {
			continue
		}
		if s.Circle.Radius > p.AggregateRadius*b.params.ThreatRatio {
			if d < threatDist {
				threat, threatDist = s, d
			}
			continue
		}
		if p.Primary.Radius > s.Circle.Radius*b.params.PreyRatio && s.Circle.Radius > preyRadius {
			prey, preyRadius = s, s.Circle.Radius
		}
	}

	switch {
	case threat != nil:
		b.transition(Fleeing)
		b.targetID = threat.ID
		b.target = b.fleePoint(eye, threat.Circle.Center, vision)

	case prey != nil:
		if v := b.blockingVirus(p, prey.Circle.Center); v != nil {
			b.transition(ClearingVirus)
			b.targetID = v.ID
			b.target = v.Circle.Center
			return
		}
		b.transition(Hunting)
		b.targetID = prey.ID
		b.target = prey.Circle.Center

	default:
		if f := nearest(eye, p.Food, visionSq); f != nil {
			b.transition(Hunting)
			b.targetID = f.ID
			b.target = f.Circle.Center
			return
		}
		b.transition(Wandering)
		b.targetID = 0
		if !b.hasWaypoint || eye.DistanceTo(b.waypoint) < b.params.WaypointReach {
			b.waypoint = geometry.Vector2D{
				X: b.rng.Float64() * b.params.ArenaWidth,
				Y: b.rng.Float64() * b.params.ArenaHeight,
			}
			b.hasWaypoint = true
		}
		b.target = b.waypoint
	}
}

// transition switches state and arms the cooldown when the state changes.
func (b *Brain) transition(s State) {
	if s == b.state {
		return
	}
	b.state = s
	b.cooldown = b.params.DecisionCooldown
	if s != Wandering {
		b.hasWaypoint = false
	}
}

// refresh follows the tracked entity between two evaluations.
func (b *Brain) refresh(p Percept) {
	if b.targetID == 0 {
		return
	}
	var pool []Sighting
	switch b.state {
	case Fleeing, Hunting:
		pool = p.Rivals
		if b.state == Hunting {
			pool = append(pool[:len(pool):len(pool)], p.Food...)
		}
	case ClearingVirus:
		pool = p.Viruses
	}
	for _, s := range pool {
		if s.ID != b.targetID {
			continue
		}
		if b.state == Fleeing {
			b.target = b.fleePoint(p.Primary.Center, s.Circle.Center, b.Vision(p.AggregateRadius))
		} else {
			b.target = s.Circle.Center
		}
		return
	}
}

// blockingVirus returns the virus closest to the eye lying across the straight
// path from the primary blob to goal.
func (b *Brain) blockingVirus(p Percept, goal geometry.Vector2D) *Sighting {
	var (
		best  *Sighting
		bestT = math.Inf(1)
	)
	for i := range p.Viruses {
		v := &p.Viruses[i]
		if !Blocks(v.Circle, p.Primary, goal) {
			continue
		}
		t, _, _ := geometry.SegmentProjection(v.Circle.Center, p.Primary.Center, goal)
		if t < bestT {
			best, bestT = v, t
		}
	}
	return best
}

// Blocks reports whether virus lies across the segment from blob's centre to
// goal: the projection falls between both endpoints and the perpendicular
// distance is under the sum of both radii.
func Blocks(virus, blob geometry.Circle, goal geometry.Vector2D) bool {
	t, length, dist := geometry.SegmentProjection(virus.Center, blob.Center, goal)
	if length == 0 {
		return false
	}
	return t >= 0 && t <= length && dist < virus.Radius+blob.Radius
}

func (b *Brain) fleePoint(eye, threat geometry.Vector2D, vision float64) geometry.Vector2D {
	away, ok := eye.Sub(threat).Direction()
	if !ok {
		away = geometry.NewVectorPolar(1, b.rng.Float64()*2*math.Pi)
	}
	return eye.Add(away.Mul(vision)).Clamp(0, 0, b.params.ArenaWidth, b.params.ArenaHeight)
}

func nearest(from geometry.Vector2D, pool []Sighting, maxSq float64) *Sighting {
	var (
		best  *Sighting
		bestD float64
	)
	for i := range pool {
		d := from.DistanceSquaredTo(pool[i].Circle.Center)
		if d > maxSq {
			continue
		}
		if best == nil || d < bestD {
			best, bestD = &pool[i], d
		}
	}
	return best
}
