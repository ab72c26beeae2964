package simulation

import (
	"image/color"

	"github.com/lao-tseu-is-alive/go-cell-arena/pkg/geometry"
)

// EntityID identifies any arena entity. Ids are handed out by a single
// counter per World and never reused, so they can key removal sets and the
// spatial index dedup safely across kinds.
type EntityID uint64

// ControllerID identifies a controller inside one World.
type ControllerID int

// Kind tags what an indexed body is.
type Kind uint8

const (
	KindBlob Kind = iota
	KindFood
	KindPellet
	KindVirus
)

func (k Kind) String() string {
	switch k {
	case KindBlob:
		return "blob"
	case KindFood:
		return "food"
	case KindPellet:
		return "pellet"
	case KindVirus:
		return "virus"
	}
	return "unknown"
}

// Blob is a movable circle owned by exactly one controller.
type Blob struct {
	ID       EntityID
	Owner    ControllerID
	Pos      geometry.Vector2D
	Vel      geometry.Vector2D
	Radius   float64
	Cooldown int // frames left before it may merge with a sibling
	Color    color.RGBA
}

func (b *Blob) Key() uint64            { return uint64(b.ID) }
func (b *Blob) Shape() geometry.Circle { return geometry.Circle{Center: b.Pos, Radius: b.Radius} }
func (b *Blob) Mass() float64          { return b.Radius * b.Radius }
func (b *Blob) CanMerge() bool         { return b.Cooldown == 0 }

// absorb grows b by the mass of a circle of radius r.
func (b *Blob) absorb(r float64) {
	b.Radius = geometry.CombinedRadius(b.Radius, r)
}

// Food never dies: eaten food is moved elsewhere.
type Food struct {
	ID     EntityID
	Pos    geometry.Vector2D
	Radius float64
	Color  color.RGBA
}

func (f *Food) Key() uint64            { return uint64(f.ID) }
func (f *Food) Shape() geometry.Circle { return geometry.Circle{Center: f.Pos, Radius: f.Radius} }

// Pellet is mass ejected by a shoot action.
type Pellet struct {
	ID     EntityID
	Owner  ControllerID
	Pos    geometry.Vector2D
	Vel    geometry.Vector2D
	Radius float64
	TTL    int // frames before decay
	Grace  int // frames before the owner may absorb it again
	Color  color.RGBA
}

func (p *Pellet) Key() uint64            { return uint64(p.ID) }
func (p *Pellet) Shape() geometry.Circle { return geometry.Circle{Center: p.Pos, Radius: p.Radius} }

// Virus pops any blob dominant enough to eat it.
type Virus struct {
	ID     EntityID
	Pos    geometry.Vector2D
	Radius float64
}

func (v *Virus) Key() uint64            { return uint64(v.ID) }
func (v *Virus) Shape() geometry.Circle { return geometry.Circle{Center: v.Pos, Radius: v.Radius} }
