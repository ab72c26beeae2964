package simulation

import (
	"math"

	"github.com/lao-tseu-is-alive/go-cell-arena/pkg/geometry"
)

// Observation pixel intensities.
const (
	intensityOutside = 0.1
	intensityFood    = 0.2
	intensityPellet  = 0.35
	intensityVirus   = 0.5
	intensityRival   = 0.7
	intensityOwn     = 1.0
)

// Observation is the stacked view of one model-driven controller.
type Observation struct {
	Controller ControllerID
	Archetype  string
	Data       []float32 // StackDepth x ObsSize x ObsSize, oldest frame first
}

// Observe renders the current frame for every live model-driven controller,
// pushes it onto the controller's history and returns the stacked views in
// roster order. Call it once per frame, before Step.
func (s *Simulation) Observe() []Observation {
	var out []Observation
	for _, c := range s.world.Controllers {
		if c.Kind != ModelDriven || !c.Alive() || c.frames == nil {
			continue
		}
		c.frames.Push(s.render(c))
		out = append(out, Observation{Controller: c.ID, Archetype: c.Archetype, Data: c.frames.Stacked()})
	}
	return out
}

// render draws a grayscale ObsSize x ObsSize crop of ObsView world units
// centred on the controller. Brighter wins where shapes overlap.
func (s *Simulation) render(c *Controller) []float32 {
	size := s.cfg.ObsSize
	view := s.cfg.ObsView
	px := view / float64(size)
	centre := c.Centroid()
	origin := geometry.Vector2D{X: centre.X - view/2, Y: centre.Y - view/2}

	img := make([]float32, size*size)
	for row := range size {
		wy := origin.Y + (float64(row)+0.5)*px
		for col := range size {
			wx := origin.X + (float64(col)+0.5)*px
			if wx < 0 || wy < 0 || wx > s.cfg.WorldWidth || wy > s.cfg.WorldHeight {
				img[row*size+col] = intensityOutside
			}
		}
	}

	paint := func(shape geometry.Circle, v float32) {
		x0, y0, x1, y1 := shape.Bounds()
		c0 := max(0, int(math.Floor((x0-origin.X)/px)))
		c1 := min(size-1, int(math.Floor((x1-origin.X)/px)))
		r0 := max(0, int(math.Floor((y0-origin.Y)/px)))
		r1 := min(size-1, int(math.Floor((y1-origin.Y)/px)))
		// keep at least the centre pixel so tiny shapes stay visible
		rr := math.Max(shape.Radius, px/2)
		rr *= rr
		for row := r0; row <= r1; row++ {
			wy := origin.Y + (float64(row)+0.5)*px
			for col := c0; col <= c1; col++ {
				wx := origin.X + (float64(col)+0.5)*px
				dx, dy := wx-shape.Center.X, wy-shape.Center.Y
				if dx*dx+dy*dy <= rr && img[row*size+col] < v {
					img[row*size+col] = v
				}
			}
		}
	}

	for _, f := range s.world.Food {
		paint(f.Shape(), intensityFood)
	}
	for _, p := range s.world.Pellets {
		paint(p.Shape(), intensityPellet)
	}
	for _, v := range s.world.Viruses {
		paint(v.Shape(), intensityVirus)
	}
	for _, other := range s.world.Controllers {
		v := float32(intensityRival)
		if other.ID == c.ID {
			v = intensityOwn
		}
		for _, b := range other.Blobs {
			paint(b.Shape(), v)
		}
	}
	return img
}
