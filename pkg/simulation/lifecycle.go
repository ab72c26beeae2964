package simulation

import (
	"math"
	"slices"

	"github.com/lao-tseu-is-alive/go-cell-arena/pkg/geometry"
)

// steer moves every blob of c one frame towards target.
// The desired velocity is blended into the current one, the position is
// clamped to the arena and friction is applied last.
func (w *World) steer(c *Controller, target geometry.Vector2D) {
	cfg := w.cfg
	for _, b := range c.Blobs {
		dir, ok := target.Sub(b.Pos).Direction()
		if !ok {
			dir = geometry.NewVectorPolar(1, w.randomAngle())
		}
		desired := dir.Mul(speedFor(cfg, b.Radius))
		b.Vel = b.Vel.Mul(1 - cfg.Smoothing).Add(desired.Mul(cfg.Smoothing))
		b.Pos = w.clampInside(b.Pos.Add(b.Vel), b.Radius)
		b.Vel = b.Vel.Mul(cfg.Friction)
	}
}

func tickCooldowns(c *Controller) {
	for _, b := range c.Blobs {
		if b.Cooldown > 0 {
			b.Cooldown--
		}
	}
}

// mergePull nudges every blob off cooldown towards the controller anchor by
// at most MergePull units.
func (w *World) mergePull(c *Controller) {
	if len(c.Blobs) < 2 || w.cfg.MergePull <= 0 {
		return
	}
	anchor := c.anchor()
	for _, b := range c.Blobs {
		if !b.CanMerge() {
			continue
		}
		offset := anchor.Sub(b.Pos)
		dist := offset.Len()
		if dist < geometry.Epsilon {
			continue
		}
		b.Pos = b.Pos.Add(offset.Mul(math.Min(w.cfg.MergePull, dist) / dist))
	}
}

// resolveMerges fuses overlapping siblings that are both off cooldown until
// no such pair is left. The larger blob absorbs the smaller (the earlier one
// on ties) and inherits the lead role. Returns the number of merges.
func resolveMerges(c *Controller) int {
	merges := 0
	for {
		i, j := findMergePair(c.Blobs)
		if i < 0 {
			return merges
		}
		keep, drop := i, j
		if c.Blobs[j].Radius > c.Blobs[i].Radius {
			keep, drop = j, i
		}
		big, small := c.Blobs[keep], c.Blobs[drop]
		big.absorb(small.Radius)
		if c.hasLead && c.lead == small.ID {
			c.setLead(big.ID)
		}
		c.Blobs = slices.Delete(c.Blobs, drop, drop+1)
		merges++
	}
}

func findMergePair(blobs []*Blob) (int, int) {
	for i, a := range blobs {
		if !a.CanMerge() {
			continue
		}
		for j := i + 1; j < len(blobs); j++ {
			b := blobs[j]
			if b.CanMerge() && a.Shape().Overlaps(b.Shape()) {
				return i, j
			}
		}
	}
	return -1, -1
}

// split halves every blob above SplitMinRadius until the controller reaches
// MaxBlobs. Each parent is replaced in place by its forward child; the
// backward child is appended. The forward child of the lead (or of the first
// split blob when the lead is gone) becomes the lead.
func (w *World) split(c *Controller) int {
	cfg := w.cfg
	if len(c.Blobs) >= cfg.MaxBlobs {
		return 0
	}
	lead, hasLead := c.Lead()
	var newLead *Blob

	splits := 0
	parents := len(c.Blobs)
	for i := 0; i < parents && len(c.Blobs) < cfg.MaxBlobs; i++ {
		parent := c.Blobs[i]
		if parent.Radius <= cfg.SplitMinRadius {
			continue
		}
		dir, ok := parent.Vel.Direction()
		if !ok {
			dir = geometry.NewVectorPolar(1, w.randomAngle())
		}
		r := math.Sqrt(parent.Radius * parent.Radius / 2)
		offset := r + cfg.SplitGap

		front := w.newBlob(c, parent.Pos.Add(dir.Mul(offset)), r)
		front.Vel = dir.Mul(cfg.SplitSpeed)
		front.Cooldown = cfg.SplitCooldown

		back := w.newBlob(c, parent.Pos.Sub(dir.Mul(offset)), r)
		back.Vel = dir.Mul(-cfg.SplitSpeed)
		back.Cooldown = cfg.SplitCooldown

		c.Blobs[i] = front
		c.Blobs = append(c.Blobs, back)

		if (hasLead && parent == lead) || newLead == nil {
			newLead = front
		}
		splits++
	}
	if newLead != nil {
		c.setLead(newLead.ID)
	}
	return splits
}

// shoot ejects one pellet from the largest blob towards the aim point.
// It is a no-op without aim, when the blob is not above ShootMinRadius or
// when losing the pellet mass would take it under MinBlobRadius.
func (w *World) shoot(c *Controller) *Pellet {
	cfg := w.cfg
	if !c.hasAim {
		return nil
	}
	b := c.Primary()
	if b == nil || b.Radius <= cfg.ShootMinRadius {
		return nil
	}
	p := cfg.PelletRadius
	left := b.Radius*b.Radius - p*p
	if left <= 0 || math.Sqrt(left) < cfg.MinBlobRadius {
		return nil
	}
	dir, ok := c.aim.Sub(b.Pos).Direction()
	if !ok {
		dir = geometry.NewVectorPolar(1, w.randomAngle())
	}
	b.Radius = math.Sqrt(left)

	pellet := &Pellet{
		ID:     w.newID(),
		Owner:  c.ID,
		Pos:    w.clampInside(b.Pos.Add(dir.Mul(b.Radius+p+1)), p),
		Vel:    dir.Mul(cfg.PelletSpeed),
		Radius: p,
		TTL:    cfg.PelletLifetime,
		Grace:  cfg.PelletGrace,
		Color:  c.Color,
	}
	w.Pellets = append(w.Pellets, pellet)
	return pellet
}

// agePellets moves, slows and expires pellets.
func (w *World) agePellets() {
	kept := w.Pellets[:0]
	for _, p := range w.Pellets {
		p.TTL--
		if p.TTL <= 0 {
			continue
		}
		if p.Grace > 0 {
			p.Grace--
		}
		p.Pos = w.clampInside(p.Pos.Add(p.Vel), p.Radius)
		p.Vel = p.Vel.Mul(w.cfg.PelletDrag)
		kept = append(kept, p)
	}
	clear(w.Pellets[len(kept):])
	w.Pellets = kept
}
