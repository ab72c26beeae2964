package simulation

import (
	"cmp"
	"image/color"
	"slices"
)

// CircleView is the exported shape of a non-blob entity.
type CircleView struct {
	ID     uint64     `json:"id" msgpack:"id"`
	X      float64    `json:"x" msgpack:"x"`
	Y      float64    `json:"y" msgpack:"y"`
	Radius float64    `json:"r" msgpack:"r"`
	Color  color.RGBA `json:"color" msgpack:"color"`
}

// BlobView is the exported shape of a blob with its owner identity.
type BlobView struct {
	ID         uint64       `json:"id" msgpack:"id"`
	Controller ControllerID `json:"controller" msgpack:"controller"`
	Name       string       `json:"name" msgpack:"name"`
	X          float64      `json:"x" msgpack:"x"`
	Y          float64      `json:"y" msgpack:"y"`
	Radius     float64      `json:"r" msgpack:"r"`
	Color      color.RGBA   `json:"color" msgpack:"color"`
	Lead       bool         `json:"lead" msgpack:"lead"`
	Human      bool         `json:"human" msgpack:"human"`
}

// Standing is one leaderboard row.
type Standing struct {
	Controller ControllerID `json:"controller" msgpack:"controller"`
	Name       string       `json:"name" msgpack:"name"`
	Kind       string       `json:"kind" msgpack:"kind"`
	Mass       float64      `json:"mass" msgpack:"mass"`
	Blobs      int          `json:"blobs" msgpack:"blobs"`
	State      string       `json:"state,omitempty" msgpack:"state,omitempty"`
	Color      color.RGBA   `json:"color" msgpack:"color"`
}

// WorldSnapshot is a detached copy of the arena after a frame.
// Blobs are sorted by radius ascending so they can be drawn in order.
type WorldSnapshot struct {
	Frame       uint64       `json:"frame" msgpack:"frame"`
	Width       float64      `json:"width" msgpack:"width"`
	Height      float64      `json:"height" msgpack:"height"`
	Food        []CircleView `json:"food" msgpack:"food"`
	Viruses     []CircleView `json:"viruses" msgpack:"viruses"`
	Pellets     []CircleView `json:"pellets" msgpack:"pellets"`
	Blobs       []BlobView   `json:"blobs" msgpack:"blobs"`
	Leaderboard []Standing   `json:"leaderboard" msgpack:"leaderboard"`
}

var virusColor = color.RGBA{R: 40, G: 220, B: 60, A: 255}

// Snapshot copies the world for consumers living outside the frame loop.
func (s *Simulation) Snapshot() *WorldSnapshot {
	w := s.world
	snap := &WorldSnapshot{
		Frame:   s.frame,
		Width:   s.cfg.WorldWidth,
		Height:  s.cfg.WorldHeight,
		Food:    make([]CircleView, 0, len(w.Food)),
		Viruses: make([]CircleView, 0, len(w.Viruses)),
		Pellets: make([]CircleView, 0, len(w.Pellets)),
		Blobs:   make([]BlobView, 0, w.BlobCount()),
	}
	for _, f := range w.Food {
		snap.Food = append(snap.Food, CircleView{ID: uint64(f.ID), X: f.Pos.X, Y: f.Pos.Y, Radius: f.Radius, Color: f.Color})
	}
	for _, v := range w.Viruses {
		snap.Viruses = append(snap.Viruses, CircleView{ID: uint64(v.ID), X: v.Pos.X, Y: v.Pos.Y, Radius: v.Radius, Color: virusColor})
	}
	for _, p := range w.Pellets {
		snap.Pellets = append(snap.Pellets, CircleView{ID: uint64(p.ID), X: p.Pos.X, Y: p.Pos.Y, Radius: p.Radius, Color: p.Color})
	}
	for _, c := range w.Controllers {
		if !c.Alive() {
			continue
		}
		lead, _ := c.Lead()
		for _, b := range c.Blobs {
			snap.Blobs = append(snap.Blobs, BlobView{
				ID:         uint64(b.ID),
				Controller: c.ID,
				Name:       c.Name,
				X:          b.Pos.X,
				Y:          b.Pos.Y,
				Radius:     b.Radius,
				Color:      b.Color,
				Lead:       b == lead,
				Human:      c.Kind == Human,
			})
		}
	}
	slices.SortStableFunc(snap.Blobs, func(a, b BlobView) int {
		return cmp.Compare(a.Radius, b.Radius)
	})
	snap.Leaderboard = s.Leaderboard()
	return snap
}

// Leaderboard ranks live controllers by mass, heaviest first.
func (s *Simulation) Leaderboard() []Standing {
	out := make([]Standing, 0, len(s.world.Controllers))
	for _, c := range s.world.Controllers {
		if !c.Alive() {
			continue
		}
		st := Standing{
			Controller: c.ID,
			Name:       c.Name,
			Kind:       c.Kind.String(),
			Mass:       c.Mass(),
			Blobs:      len(c.Blobs),
			Color:      c.Color,
		}
		if c.brain != nil {
			st.State = c.brain.State().String()
		}
		out = append(out, st)
	}
	slices.SortStableFunc(out, func(a, b Standing) int {
		return cmp.Compare(b.Mass, a.Mass)
	})
	return out
}
