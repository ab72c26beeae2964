package simulation

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"math/rand/v2"

	"github.com/lao-tseu-is-alive/go-cell-arena/pkg/geometry"
)

// ErrUnknownController is returned when a controller id is not in the roster.
var ErrUnknownController = errors.New("unknown controller")

var (
	foodPalette = []color.RGBA{
		{R: 255, G: 99, B: 132, A: 255},
		{R: 54, G: 162, B: 235, A: 255},
		{R: 255, G: 206, B: 86, A: 255},
		{R: 75, G: 192, B: 192, A: 255},
		{R: 153, G: 102, B: 255, A: 255},
		{R: 255, G: 159, B: 64, A: 255},
	}
	playerColor = color.RGBA{R: 0, G: 200, B: 255, A: 255}
)

// World owns every entity of the arena.
// Food, pellets and viruses live in parallel typed slices, blobs live under
// their controller.
type World struct {
	cfg *Config
	rng *rand.Rand

	nextID         EntityID
	nextController ControllerID

	Food        []*Food
	Pellets     []*Pellet
	Viruses     []*Virus
	Controllers []*Controller
}

func newWorld(cfg *Config, rng *rand.Rand) *World {
	return &World{cfg: cfg, rng: rng}
}

func (w *World) newID() EntityID {
	w.nextID++
	return w.nextID
}

// reset drops every entity and controller. Ids keep counting up.
func (w *World) reset() {
	clear(w.Food)
	clear(w.Pellets)
	clear(w.Viruses)
	clear(w.Controllers)
	w.Food = w.Food[:0]
	w.Pellets = w.Pellets[:0]
	w.Viruses = w.Viruses[:0]
	w.Controllers = w.Controllers[:0]
}

// Controller looks a controller up by id.
func (w *World) Controller(id ControllerID) (*Controller, error) {
	for _, c := range w.Controllers {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownController, id)
}

// randomPosition returns a uniformly drawn point at least margin away from
// the walls. A margin too large for the arena collapses to the centre.
func (w *World) randomPosition(margin float64) geometry.Vector2D {
	p := geometry.Vector2D{
		X: margin + w.rng.Float64()*(w.cfg.WorldWidth-2*margin),
		Y: margin + w.rng.Float64()*(w.cfg.WorldHeight-2*margin),
	}
	return w.clampInside(p, margin)
}

// clampInside keeps a circle of radius r fully inside the arena.
func (w *World) clampInside(p geometry.Vector2D, r float64) geometry.Vector2D {
	return p.Clamp(r, r, w.cfg.WorldWidth-r, w.cfg.WorldHeight-r)
}

func (w *World) randomAngle() float64 {
	return w.rng.Float64() * 2 * math.Pi
}

func (w *World) randomColor() color.RGBA {
	return color.RGBA{
		R: uint8(60 + w.rng.IntN(196)),
		G: uint8(60 + w.rng.IntN(196)),
		B: uint8(60 + w.rng.IntN(196)),
		A: 255,
	}
}

func (w *World) spawnFood() *Food {
	f := &Food{
		ID:     w.newID(),
		Radius: w.cfg.FoodRadius,
		Color:  foodPalette[w.rng.IntN(len(foodPalette))],
	}
	f.Pos = w.randomPosition(f.Radius)
	w.Food = append(w.Food, f)
	return f
}

// relocateFood recycles eaten food: same entity, new place.
func (w *World) relocateFood(f *Food) {
	f.Pos = w.randomPosition(f.Radius)
}

func (w *World) spawnVirus() *Virus {
	v := &Virus{ID: w.newID(), Radius: w.cfg.VirusRadius}
	v.Pos = w.randomPosition(max(w.cfg.VirusMargin, v.Radius))
	w.Viruses = append(w.Viruses, v)
	return v
}

func (w *World) addController(name string, kind ControllerKind, clr color.RGBA) *Controller {
	w.nextController++
	c := &Controller{ID: w.nextController, Name: name, Kind: kind, Color: clr}
	w.Controllers = append(w.Controllers, c)
	return c
}

func (w *World) newBlob(c *Controller, pos geometry.Vector2D, r float64) *Blob {
	return &Blob{ID: w.newID(), Owner: c.ID, Pos: w.clampInside(pos, r), Radius: r, Color: c.Color}
}

// respawn gives a dead controller one fresh blob which becomes its lead.
func (w *World) respawn(c *Controller) *Blob {
	b := w.newBlob(c, w.randomPosition(w.cfg.StartRadius), w.cfg.StartRadius)
	c.Blobs = append(c.Blobs[:0], b)
	c.setLead(b.ID)
	return b
}

// BlobCount returns the number of live blobs over all controllers.
func (w *World) BlobCount() int {
	n := 0
	for _, c := range w.Controllers {
		n += len(c.Blobs)
	}
	return n
}
