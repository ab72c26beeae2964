package ui

import "github.com/hajimehoshi/ebiten/v2"

// Pointer is the mouse state sampled once per frame and handed to every
// widget, so widgets never poll ebiten themselves.
type Pointer struct {
	X, Y  float64
	Down  bool    // left button held
	Wheel float64 // vertical wheel delta
}

// ReadPointer samples the current mouse state.
func ReadPointer() Pointer {
	mx, my := ebiten.CursorPosition()
	_, dy := ebiten.Wheel()
	return Pointer{
		X:     float64(mx),
		Y:     float64(my),
		Down:  ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		Wheel: dy,
	}
}

// In reports whether the pointer is inside the rectangle.
func (p Pointer) In(x, y, w, h float64) bool {
	return p.X >= x && p.X <= x+w && p.Y >= y && p.Y <= y+h
}
