package viewer

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lao-tseu-is-alive/go-cell-arena/pkg/simulation"
	"golang.org/x/image/font/basicfont"
)

var (
	background  = color.RGBA{R: 18, G: 18, B: 24, A: 255}
	gridColor   = color.RGBA{R: 32, G: 32, B: 42, A: 255}
	leadRing    = color.RGBA{R: 255, G: 255, B: 255, A: 200}
	hudText     = color.RGBA{R: 230, G: 230, B: 230, A: 255}
	virusStroke = color.RGBA{R: 20, G: 120, B: 30, A: 255}
)

const (
	gridStep       = 50
	leaderboardLen = 10
	nameMinRadius  = 14 // smaller blobs are drawn without a name
)

func drawWorld(screen *ebiten.Image, s *simulation.WorldSnapshot) {
	screen.Fill(background)
	for x := float32(0); x < float32(s.Width); x += gridStep {
		vector.StrokeLine(screen, x, 0, x, float32(s.Height), 1, gridColor, false)
	}
	for y := float32(0); y < float32(s.Height); y += gridStep {
		vector.StrokeLine(screen, 0, y, float32(s.Width), y, 1, gridColor, false)
	}

	for _, f := range s.Food {
		vector.DrawFilledCircle(screen, float32(f.X), float32(f.Y), float32(f.Radius), f.Color, true)
	}
	for _, p := range s.Pellets {
		vector.DrawFilledCircle(screen, float32(p.X), float32(p.Y), float32(p.Radius), p.Color, true)
	}
	// blobs come smallest first, so big cells cover the ones they are eating
	for _, b := range s.Blobs {
		drawBlob(screen, b)
	}
	// viruses are drawn last: a virus hides blobs smaller than itself
	for _, v := range s.Viruses {
		vector.DrawFilledCircle(screen, float32(v.X), float32(v.Y), float32(v.Radius), v.Color, true)
		vector.StrokeCircle(screen, float32(v.X), float32(v.Y), float32(v.Radius), 3, virusStroke, true)
	}
}

func drawBlob(screen *ebiten.Image, b simulation.BlobView) {
	x, y, r := float32(b.X), float32(b.Y), float32(b.Radius)
	vector.DrawFilledCircle(screen, x, y, r, b.Color, true)
	vector.StrokeCircle(screen, x, y, r, 2, darken(b.Color), true)
	if b.Lead && b.Human {
		vector.StrokeCircle(screen, x, y, r+3, 1, leadRing, true)
	}
	if b.Radius < nameMinRadius || b.Name == "" {
		return
	}
	bounds := text.BoundString(basicfont.Face7x13, b.Name)
	text.Draw(screen, b.Name, basicfont.Face7x13, int(b.X)-bounds.Dx()/2, int(b.Y)+bounds.Dy()/2, hudText)
}

func darken(c color.RGBA) color.RGBA {
	return color.RGBA{R: c.R / 2, G: c.G / 2, B: c.B / 2, A: c.A}
}

// drawMassBar shows the share of the total mass held by each controller as
// one stacked bar in the top right corner.
func drawMassBar(screen *ebiten.Image, board []simulation.Standing) {
	total := 0.0
	for _, st := range board {
		total += st.Mass
	}
	// Avoid divide by zero at start
	if total == 0 {
		return
	}

	barWidth := float32(200.0)
	barHeight := float32(12.0)
	x := float32(screen.Bounds().Dx()) - barWidth - 10
	y := float32(10.0)

	for _, st := range board {
		w := barWidth * float32(st.Mass/total)
		vector.FillRect(screen, x, y, w, barHeight, st.Color, false)
		x += w
	}
}

func drawLeaderboard(screen *ebiten.Image, board []simulation.Standing, frame uint64) {
	x := screen.Bounds().Dx() - 210
	y := 40
	text.Draw(screen, fmt.Sprintf("Leaderboard  (frame %d)", frame), basicfont.Face7x13, x, y, hudText)
	for i, st := range board {
		if i == leaderboardLen {
			break
		}
		y += 16
		vector.FillRect(screen, float32(x), float32(y-9), 8, 8, st.Color, false)
		line := fmt.Sprintf("%2d. %-12s %7.0f", i+1, st.Name, st.Mass)
		if st.Blobs > 1 {
			line += fmt.Sprintf(" x%d", st.Blobs)
		}
		text.Draw(screen, line, basicfont.Face7x13, x+12, y, hudText)
	}
}

func drawTimings(screen *ebiten.Image, updateAvg, drawAvg float64) {
	msg := fmt.Sprintf("FPS: %.2f\nTPS: %.2f\n\nUpdate: %.2fms\nDraw:   %.2fms\nTotal:  %.2fms",
		ebiten.ActualFPS(),
		ebiten.ActualTPS(),
		updateAvg,
		drawAvg,
		updateAvg+drawAvg)
	b := screen.Bounds()
	ebitenutil.DebugPrintAt(screen, msg, b.Dx()-150, b.Dy()-90)
}
