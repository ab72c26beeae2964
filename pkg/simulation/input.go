package simulation

import (
	"github.com/lao-tseu-is-alive/go-cell-arena/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-cell-arena/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-cell-arena/pkg/policy"
)

// HumanInput is the sampled state of the human player's devices.
// Triggers are not rate limited here.
type HumanInput struct {
	Pointer geometry.Vector2D
	Split   bool
	Shoot   bool
}

// FrameInput is everything external a frame consumes. It is read once, at
// the start of Step, and never retained.
type FrameInput struct {
	Human   HumanInput
	Actions map[ControllerID]policy.Action
}

// Intent is what a controller wants to do this frame.
type Intent struct {
	Target geometry.Vector2D
	Split  bool
	Shoot  bool
}

// intent resolves the frame intent of a live controller.
func (s *Simulation) intent(c *Controller, in FrameInput) Intent {
	switch c.Kind {
	case Human:
		return Intent{Target: in.Human.Pointer, Split: in.Human.Split, Shoot: in.Human.Shoot}
	case ModelDriven:
		return s.modelIntent(c, in.Actions[c.ID])
	default:
		return Intent{Target: c.brain.Decide(s.percept(c))}
	}
}

// modelIntent maps a model action to a world target around the controller
// centre. Special codes only fire with their configured chance.
func (s *Simulation) modelIntent(c *Controller, a policy.Action) Intent {
	a = a.Clamped()
	r := 0.0
	if p := c.Primary(); p != nil {
		r = p.Radius
	}
	move := geometry.Vector2D{X: float64(a.MoveX), Y: float64(a.MoveY)}
	target := s.world.clampInside(c.Centroid().Add(move.Mul(s.cfg.MoveScale)), r)

	it := Intent{Target: target}
	switch a.Special {
	case policy.SpecialShoot:
		it.Shoot = s.rng.Float64() < s.cfg.ShootChance
	case policy.SpecialSplit:
		it.Split = s.rng.Float64() < s.cfg.SplitChance
	}
	return it
}

// percept gathers what a scripted controller can see. Rival blobs, food and
// viruses are listed whole: the brain applies its own vision radius.
func (s *Simulation) percept(c *Controller) behavior.Percept {
	p := behavior.Percept{AggregateRadius: c.AggregateRadius()}
	if primary := c.Primary(); primary != nil {
		p.Primary = primary.Shape()
	}
	for _, other := range s.world.Controllers {
		if other.ID == c.ID {
			continue
		}
		for _, b := range other.Blobs {
			p.Rivals = append(p.Rivals, behavior.Sighting{ID: b.Key(), Circle: b.Shape()})
		}
	}
	p.Food = make([]behavior.Sighting, 0, len(s.world.Food))
	for _, f := range s.world.Food {
		p.Food = append(p.Food, behavior.Sighting{ID: f.Key(), Circle: f.Shape()})
	}
	for _, v := range s.world.Viruses {
		p.Viruses = append(p.Viruses, behavior.Sighting{ID: v.Key(), Circle: v.Shape()})
	}
	return p
}

func (s *Simulation) brainParams() behavior.Params {
	cfg := s.cfg
	return behavior.Params{
		DecisionCooldown: cfg.DecisionCooldown,
		VisionBase:       cfg.VisionBase,
		VisionRef:        cfg.VisionRef,
		VisionMin:        cfg.VisionMin,
		VisionMax:        cfg.VisionMax,
		ThreatRatio:      cfg.ThreatRatio,
		PreyRatio:        cfg.PreyRatio,
		WaypointReach:    cfg.WaypointReach,
		ArenaWidth:       cfg.WorldWidth,
		ArenaHeight:      cfg.WorldHeight,
	}
}
