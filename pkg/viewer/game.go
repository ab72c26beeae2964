// Package viewer is the ebiten front end of the arena: it samples the human
// input, forwards it to the world actor and draws the latest snapshot.
package viewer

import (
	"context"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/lao-tseu-is-alive/go-cell-arena/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-cell-arena/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-cell-arena/pkg/ui"
	golog "github.com/tochemey/goakt/v3/log"
)

// Arena is what the window drives. internal/arena.Engine implements it.
type Arena interface {
	Tick(ctx context.Context, in simulation.HumanInput) error
	Reset(ctx context.Context, rs simulation.ResetSettings) error
	Snapshots() <-chan *simulation.WorldSnapshot
}

// Controls is the input of one frame.
type Controls struct {
	Pointer     ui.Pointer
	TogglePanel bool // Tab
	Split       bool // Space
	Shoot       bool // left click
}

// ReadControls samples ebiten's input state.
func ReadControls() Controls {
	return Controls{
		Pointer:     ui.ReadPointer(),
		TogglePanel: inpututil.IsKeyJustPressed(ebiten.KeyTab),
		Split:       inpututil.IsKeyJustPressed(ebiten.KeySpace),
		Shoot:       inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
	}
}

type Game struct {
	ctx       context.Context
	arena     Arena
	settings  *Settings
	log       golog.Logger
	lastState *simulation.WorldSnapshot

	width, height int

	read func() Controls

	// Timing instrumentation
	lastUpdateDuration time.Duration
	lastDrawDuration   time.Duration
	updateAvg          float64 // Rolling average in ms
	drawAvg            float64 // Rolling average in ms
}

// NewGame wires a window of the world's size to arena.
func NewGame(ctx context.Context, arena Arena, cfg *simulation.Config, settings *Settings, logger golog.Logger) *Game {
	if logger == nil {
		logger = golog.DiscardLogger
	}
	return &Game{
		ctx:       ctx,
		arena:     arena,
		settings:  settings,
		log:       logger,
		lastState: &simulation.WorldSnapshot{Width: cfg.WorldWidth, Height: cfg.WorldHeight}, // Avoid nil pointer
		width:     int(cfg.WorldWidth),
		height:    int(cfg.WorldHeight),
		read:      ReadControls,
	}
}

func (g *Game) Update() error {
	start := time.Now()
	defer func() {
		g.lastUpdateDuration = time.Since(start)
		// Rolling average (exponential moving average)
		g.updateAvg = g.updateAvg*0.95 + float64(g.lastUpdateDuration.Microseconds())/1000.0*0.05
	}()
	return g.update(g.read())
}

// update runs one window frame: settings panel, latest snapshot, then one
// Tick carrying the human input.
func (g *Game) update(c Controls) error {
	if c.TogglePanel {
		g.settings.Toggle()
	}
	// a click on the panel is a widget click, never a shot
	overPanel := g.settings.Panel.Contains(c.Pointer.X, c.Pointer.Y)
	g.settings.Update(c.Pointer)

	select {
	case snap := <-g.arena.Snapshots():
		g.lastState = snap
	default:
		// Use previous state if new one isn't ready
	}

	if g.settings.TakeReset() {
		rs := g.settings.ResetSettings()
		g.log.Infof("resetting arena: human=%v cpu=%d ai=%v food=%d viruses=%d",
			rs.Human, rs.Scripted, rs.Models, rs.Food, rs.Viruses)
		if err := g.arena.Reset(g.ctx, rs); err != nil {
			return fmt.Errorf("reset: %w", err)
		}
	}

	in := simulation.HumanInput{
		Pointer: geometry.Vector2D{X: c.Pointer.X, Y: c.Pointer.Y},
		Split:   c.Split,
		Shoot:   c.Shoot && !overPanel,
	}
	if err := g.arena.Tick(g.ctx, in); err != nil {
		return fmt.Errorf("tick: %w", err)
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	defer func() {
		g.lastDrawDuration = time.Since(start)
		g.drawAvg = g.drawAvg*0.95 + float64(g.lastDrawDuration.Microseconds())/1000.0*0.05
	}()

	drawWorld(screen, g.lastState)
	g.settings.Panel.Draw(screen)
	drawMassBar(screen, g.lastState.Leaderboard)
	drawLeaderboard(screen, g.lastState.Leaderboard, g.lastState.Frame)
	drawTimings(screen, g.updateAvg, g.drawAvg)
}

func (g *Game) Layout(w, h int) (int, int) { return g.width, g.height }
