package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Checkbox toggles a boolean on each press.
type Checkbox struct {
	Label string
	Value bool
	X, Y  float64
	Size  float64
	held  bool // a press is in progress
}

func NewCheckbox(x, y float64, label string, value bool) *Checkbox {
	return &Checkbox{Label: label, Value: value, X: x, Y: y, Size: 16}
}

// Update toggles on the press edge. Returns true when the value changed.
func (c *Checkbox) Update(p Pointer) bool {
	if !p.Down {
		c.held = false
		return false
	}
	if c.held {
		return false
	}
	c.held = true
	if !p.In(c.X, c.Y, c.Size, c.Size) {
		return false
	}
	c.Value = !c.Value
	return true
}

func (c *Checkbox) Draw(screen *ebiten.Image) {
	vector.StrokeRect(screen,
		float32(c.X), float32(c.Y),
		float32(c.Size), float32(c.Size),
		2,
		color.RGBA{R: 200, G: 200, B: 200, A: 255},
		true)

	if c.Value {
		vector.FillRect(screen,
			float32(c.X+2), float32(c.Y+2),
			float32(c.Size-4), float32(c.Size-4),
			color.RGBA{R: 100, G: 200, B: 100, A: 255},
			true)
	}
}
