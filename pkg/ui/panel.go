// Package ui holds the small immediate-mode widgets of the arena window.
package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	titleHeight  = 30.0
	headerHeight = 25.0
	labelOffset  = 15.0
)

// row is one widget with its layout behaviour.
type row interface {
	update(p Pointer) bool
	draw(screen *ebiten.Image)
	label() string
	height() float64
	moveTo(x, y float64)
}

type sliderRow struct{ *Slider }

func (r sliderRow) update(p Pointer) bool     { return r.Update(p) }
func (r sliderRow) draw(screen *ebiten.Image) { r.Draw(screen) }
func (r sliderRow) label() string             { return r.Label + ": " + r.Text() }
func (r sliderRow) height() float64           { return r.H + 25 }
func (r sliderRow) moveTo(x, y float64)       { r.X, r.Y = x, y+labelOffset }

type checkboxRow struct{ *Checkbox }

func (r checkboxRow) update(p Pointer) bool     { return r.Update(p) }
func (r checkboxRow) draw(screen *ebiten.Image) { r.Draw(screen) }
func (r checkboxRow) label() string             { return r.Label }
func (r checkboxRow) height() float64           { return r.Size + 20 }
func (r checkboxRow) moveTo(x, y float64)       { r.X, r.Y = x, y+labelOffset }

type buttonRow struct{ *Button }

func (r buttonRow) update(p Pointer) bool     { return r.Update(p) }
func (r buttonRow) draw(screen *ebiten.Image) { r.Draw(screen) }
func (r buttonRow) label() string             { return "" }
func (r buttonRow) height() float64           { return r.Height + 10 }
func (r buttonRow) moveTo(x, y float64)       { r.X, r.Y = x, y }

// header is a section title drawn just before rows[before].
type header struct {
	title  string
	before int
}

// Panel is a scrollable column of widgets grouped in titled sections.
type Panel struct {
	X, Y          float64
	Width, Height float64
	Title         string
	Visible       bool
	ScrollOffset  float64

	BGColor     color.RGBA
	BorderColor color.RGBA

	rows    []row
	headers []header
}

func NewPanel(x, y, width, height float64, title string) *Panel {
	return &Panel{
		X:           x,
		Y:           y,
		Width:       width,
		Height:      height,
		Title:       title,
		Visible:     true,
		BGColor:     color.RGBA{R: 40, G: 40, B: 45, A: 230},
		BorderColor: color.RGBA{R: 100, G: 100, B: 110, A: 255},
	}
}

// AddSection starts a new titled group; following widgets belong to it.
func (p *Panel) AddSection(title string) {
	p.headers = append(p.headers, header{title: title, before: len(p.rows)})
}

func (p *Panel) AddSlider(label string, min, max, value float64) *Slider {
	s := NewSlider(0, 0, p.Width-20, label, min, max, value)
	p.rows = append(p.rows, sliderRow{s})
	p.layout()
	return s
}

// AddIntSlider adds a slider snapping to whole numbers.
func (p *Panel) AddIntSlider(label string, min, max, value int) *Slider {
	s := NewSlider(0, 0, p.Width-20, label, float64(min), float64(max), 0)
	s.Step = 1
	s.Set(float64(value))
	p.rows = append(p.rows, sliderRow{s})
	p.layout()
	return s
}

func (p *Panel) AddCheckbox(label string, value bool) *Checkbox {
	c := NewCheckbox(0, 0, label, value)
	p.rows = append(p.rows, checkboxRow{c})
	p.layout()
	return c
}

func (p *Panel) AddButton(label string, onClick func()) *Button {
	b := NewButton(0, 0, p.Width-20, 24, label, onClick)
	p.rows = append(p.rows, buttonRow{b})
	p.layout()
	return b
}

// Contains reports whether a screen point is covered by the visible panel.
func (p *Panel) Contains(x, y float64) bool {
	return p.Visible && Pointer{X: x, Y: y}.In(p.X, p.Y, p.Width, p.Height)
}

// placement is the screen position of every row label and section header
// for the current scroll offset.
type placement struct {
	rows    []float64
	inView  []bool
	headers []float64
}

func (p *Panel) layout() placement {
	pl := placement{
		rows:    make([]float64, len(p.rows)),
		inView:  make([]bool, len(p.rows)),
		headers: make([]float64, len(p.headers)),
	}
	y := p.Y + titleHeight - p.ScrollOffset
	h := 0
	for i := 0; i <= len(p.rows); i++ {
		for h < len(p.headers) && p.headers[h].before == i {
			pl.headers[h] = y
			y += headerHeight
			h++
		}
		if i == len(p.rows) {
			break
		}
		r := p.rows[i]
		r.moveTo(p.X+10, y)
		pl.rows[i] = y
		pl.inView[i] = y >= p.Y+titleHeight-labelOffset && y+r.height() <= p.Y+p.Height+labelOffset
		y += r.height()
	}
	return pl
}

func (p *Panel) contentHeight() float64 {
	total := titleHeight + float64(len(p.headers))*headerHeight
	for _, r := range p.rows {
		total += r.height()
	}
	return total
}

// Update scrolls and forwards the pointer to the widgets in view. Returns
// true when any widget changed or fired.
func (p *Panel) Update(ptr Pointer) bool {
	if !p.Visible {
		return false
	}
	if ptr.Wheel != 0 && ptr.In(p.X, p.Y, p.Width, p.Height) {
		maxScroll := max(0, p.contentHeight()-p.Height+40)
		p.ScrollOffset = min(maxScroll, max(0, p.ScrollOffset-ptr.Wheel*20))
	}
	changed := false
	for i, in := range p.layout().inView {
		if in && p.rows[i].update(ptr) {
			changed = true
		}
	}
	return changed
}

func (p *Panel) Draw(screen *ebiten.Image) {
	if !p.Visible {
		return
	}
	vector.FillRect(screen, float32(p.X), float32(p.Y), float32(p.Width), float32(p.Height), p.BGColor, true)
	vector.StrokeRect(screen, float32(p.X), float32(p.Y), float32(p.Width), float32(p.Height), 2, p.BorderColor, true)
	ebitenutil.DebugPrintAt(screen, p.Title, int(p.X+10), int(p.Y+5))

	pl := p.layout()
	for i, y := range pl.headers {
		if y < p.Y+titleHeight-headerHeight || y > p.Y+p.Height-headerHeight {
			continue
		}
		vector.FillRect(screen, float32(p.X+5), float32(y), float32(p.Width-10), 20, color.RGBA{R: 60, G: 60, B: 70, A: 255}, true)
		ebitenutil.DebugPrintAt(screen, p.headers[i].title, int(p.X+10), int(y+5))
	}
	for i, r := range p.rows {
		if !pl.inView[i] {
			continue
		}
		if l := r.label(); l != "" {
			ebitenutil.DebugPrintAt(screen, l, int(p.X+10), int(pl.rows[i]))
		}
		r.draw(screen)
	}
}
