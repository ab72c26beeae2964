package ui

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Slider is a horizontal value picker. A positive Step snaps the value.
type Slider struct {
	Label    string
	Value    float64
	Min, Max float64
	Step     float64
	X, Y     float64
	W, H     float64
	dragging bool
}

// NewSlider creates a slider of the default height.
func NewSlider(x, y, w float64, label string, min, max, value float64) *Slider {
	s := &Slider{Label: label, Min: min, Max: max, X: x, Y: y, W: w, H: 10}
	s.Set(value)
	return s
}

// Set clamps and snaps v before storing it.
func (s *Slider) Set(v float64) {
	if s.Step > 0 {
		v = s.Min + math.Round((v-s.Min)/s.Step)*s.Step
	}
	s.Value = math.Max(s.Min, math.Min(s.Max, v))
}

// Int returns the value rounded to the nearest integer.
func (s *Slider) Int() int { return int(math.Round(s.Value)) }

// Update follows a drag that started on the track, even when the pointer
// leaves it. Returns true when the value changed.
func (s *Slider) Update(p Pointer) bool {
	if !p.Down {
		s.dragging = false
		return false
	}
	if !s.dragging && !p.In(s.X, s.Y, s.W, s.H) {
		return false
	}
	s.dragging = true
	before := s.Value
	s.Set(s.Min + (p.X-s.X)/s.W*(s.Max-s.Min))
	return s.Value != before
}

func (s *Slider) Draw(screen *ebiten.Image) {
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W), float32(s.H), color.RGBA{R: 80, G: 80, B: 80, A: 255}, true)

	ratio := 0.0
	if s.Max > s.Min {
		ratio = (s.Value - s.Min) / (s.Max - s.Min)
	}
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W*ratio), float32(s.H), color.RGBA{R: 200, G: 200, B: 200, A: 255}, true)
}

// Text is the value as shown next to the label.
func (s *Slider) Text() string {
	if s.Step >= 1 {
		return fmt.Sprintf("%d", s.Int())
	}
	return fmt.Sprintf("%.2f", s.Value)
}
