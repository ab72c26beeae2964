package simulation

import (
	"math"

	"github.com/lao-tseu-is-alive/go-cell-arena/pkg/geometry"
)

// bodyMeta tags what an index entry is and, for blobs, who owns it.
type bodyMeta struct {
	kind  Kind
	owner ControllerID
}

// burst is a virus pop waiting to be applied after the collision pass.
type burst struct {
	owner ControllerID
	at    geometry.Vector2D
	mass  float64
}

// frameEvents counts what happened during one collision pass.
type frameEvents struct {
	blobsEaten   int
	foodEaten    int
	pelletsEaten int
	bursts       int
}

// dominates is the single eating rule: strictly more than ratio times larger.
func dominates(r1, r2, ratio float64) bool {
	return r1 > ratio*r2
}

// rebuildIndex clears the grid and inserts every live entity.
func (s *Simulation) rebuildIndex() {
	s.index.Clear()
	for _, c := range s.world.Controllers {
		for _, b := range c.Blobs {
			s.index.Insert(b, bodyMeta{kind: KindBlob, owner: c.ID})
		}
	}
	for _, f := range s.world.Food {
		s.index.Insert(f, bodyMeta{kind: KindFood})
	}
	for _, p := range s.world.Pellets {
		s.index.Insert(p, bodyMeta{kind: KindPellet})
	}
	for _, v := range s.world.Viruses {
		s.index.Insert(v, bodyMeta{kind: KindVirus})
	}
}

// resolveCollisions applies eating and virus rules for one frame.
// Claims are recorded in side sets keyed by entity id while the roster is
// walked; populations are only mutated once the pass is over.
func (s *Simulation) resolveCollisions() frameEvents {
	w := s.world
	cfg := s.cfg
	s.rebuildIndex()

	removedBlobs := make(map[EntityID]struct{})
	eatenFood := make(map[EntityID]struct{})
	eatenPellets := make(map[EntityID]struct{})
	poppedViruses := make(map[EntityID]struct{})
	var bursts []burst
	var ev frameEvents

	for _, c := range w.Controllers {
		for _, b := range c.Blobs {
			if _, gone := removedBlobs[b.ID]; gone {
				continue
			}
		candidates:
			for _, e := range s.index.QueryNearby(b) {
				if e.Body.Key() == b.Key() || !b.Shape().Overlaps(e.Body.Shape()) {
					continue
				}
				switch e.Meta.kind {
				case KindBlob:
					other := e.Body.(*Blob)
					if other.Owner == b.Owner {
						continue
					}
					if _, gone := removedBlobs[other.ID]; gone {
						continue
					}
					switch {
					case dominates(b.Radius, other.Radius, cfg.DominanceRatio):
						b.absorb(other.Radius)
						removedBlobs[other.ID] = struct{}{}
						ev.blobsEaten++
					case dominates(other.Radius, b.Radius, cfg.DominanceRatio):
						other.absorb(b.Radius)
						removedBlobs[b.ID] = struct{}{}
						ev.blobsEaten++
						break candidates
					}

				case KindFood:
					f := e.Body.(*Food)
					if _, claimed := eatenFood[f.ID]; claimed {
						continue
					}
					b.absorb(f.Radius)
					eatenFood[f.ID] = struct{}{}
					ev.foodEaten++

				case KindPellet:
					p := e.Body.(*Pellet)
					if _, claimed := eatenPellets[p.ID]; claimed || b.Radius <= p.Radius {
						continue
					}
					// a fresh pellet belongs to the rivals only
					if p.Owner == b.Owner && p.Grace > 0 {
						continue
					}
					b.absorb(p.Radius)
					eatenPellets[p.ID] = struct{}{}
					ev.pelletsEaten++

				case KindVirus:
					v := e.Body.(*Virus)
					if _, claimed := poppedViruses[v.ID]; claimed || !dominates(b.Radius, v.Radius, cfg.DominanceRatio) {
						continue
					}
					poppedViruses[v.ID] = struct{}{}
					removedBlobs[b.ID] = struct{}{}
					bursts = append(bursts, burst{owner: c.ID, at: b.Pos, mass: b.Mass()})
					ev.bursts++
					break candidates
				}
			}
		}
	}

	// 1. blobs
	if len(removedBlobs) > 0 {
		for _, c := range w.Controllers {
			c.removeBlobs(removedBlobs)
		}
	}

	// 2. pellets
	if len(eatenPellets) > 0 {
		kept := w.Pellets[:0]
		for _, p := range w.Pellets {
			if _, eaten := eatenPellets[p.ID]; !eaten {
				kept = append(kept, p)
			}
		}
		clear(w.Pellets[len(kept):])
		w.Pellets = kept
	}

	// 3. food is recycled, never destroyed
	for _, f := range w.Food {
		if _, eaten := eatenFood[f.ID]; eaten {
			w.relocateFood(f)
		}
	}

	// 4. bursts
	for _, bu := range bursts {
		c, err := w.Controller(bu.owner)
		if err != nil {
			continue
		}
		s.applyBurst(c, bu)
	}

	// 5. viruses are replaced to keep the population constant
	if len(poppedViruses) > 0 {
		kept := w.Viruses[:0]
		for _, v := range w.Viruses {
			if _, popped := poppedViruses[v.ID]; !popped {
				kept = append(kept, v)
			}
		}
		clear(w.Viruses[len(kept):])
		w.Viruses = kept
		for range poppedViruses {
			w.spawnVirus()
		}
	}
	return ev
}

// applyBurst spawns the fragments of a popped blob for its controller:
// BurstMin..BurstMax children, capped so the controller owns at most
// MaxBurstBlobs, spread evenly around the burst point.
func (s *Simulation) applyBurst(c *Controller, bu burst) int {
	w := s.world
	cfg := s.cfg
	n := cfg.BurstMin + w.rng.IntN(cfg.BurstMax-cfg.BurstMin+1)
	n = min(n, cfg.MaxBurstBlobs-len(c.Blobs))
	if n <= 0 {
		return 0
	}
	r := math.Max(cfg.BurstMinRadius, math.Sqrt(bu.mass/cfg.BurstMassDivisor))
	start := w.randomAngle()
	step := 2 * math.Pi / float64(n)

	_, hasLead := c.Lead()
	for i := range n {
		dir := geometry.NewVectorPolar(1, start+float64(i)*step)
		child := w.newBlob(c, bu.at.Add(dir.Mul(r)), r)
		child.Vel = dir.Mul(cfg.BurstSpeed)
		child.Cooldown = cfg.BurstCooldown
		c.Blobs = append(c.Blobs, child)
		if !hasLead && i == 0 {
			c.setLead(child.ID)
		}
	}
	s.log.Debugf("%s burst into %d blobs of radius %.1f", c.Name, n, r)
	return n
}
