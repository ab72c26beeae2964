package viewer

import (
	"math/rand/v2"

	"github.com/lao-tseu-is-alive/go-cell-arena/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-cell-arena/pkg/ui"
)

// MaxShuffle is the exclusive upper bound of a shuffled archetype count.
const MaxShuffle = 6

// Settings is the reset panel: population sliders plus the shuffle and
// reset buttons. Nothing changes in the arena until Reset is pressed.
type Settings struct {
	Panel *ui.Panel

	human   *ui.Checkbox
	cpu     *ui.Slider
	food    *ui.Slider
	viruses *ui.Slider
	models  map[string]*ui.Slider
	order   []string
	shuffle *ui.Button
	reset   *ui.Button

	rng     *rand.Rand
	pending bool
}

// NewSettings builds the panel from the start population of cfg. One slider
// is added per archetype, in the given order.
func NewSettings(cfg *simulation.Config, archetypes []string, height float64, rng *rand.Rand) *Settings {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	rs := simulation.DefaultResetSettings(cfg)
	panel := ui.NewPanel(10, 10, 260, height, "Arena settings (Tab)")
	s := &Settings{
		Panel:  panel,
		models: make(map[string]*ui.Slider, len(archetypes)),
		rng:    rng,
	}

	panel.AddSection("Player")
	s.human = panel.AddCheckbox("Human player", rs.Human)

	panel.AddSection("Opponents")
	s.cpu = panel.AddIntSlider("CPU opponents", 0, 20, rs.Scripted)
	for _, name := range archetypes {
		if _, dup := s.models[name]; dup {
			continue
		}
		s.models[name] = panel.AddIntSlider("AI "+name, 0, 10, rs.Models[name])
		s.order = append(s.order, name)
	}
	s.shuffle = panel.AddButton("Shuffle AI", s.Shuffle)

	panel.AddSection("Arena")
	s.food = panel.AddIntSlider("Food", 0, 1000, rs.Food)
	s.viruses = panel.AddIntSlider("Viruses", 0, 30, rs.Viruses)
	s.reset = panel.AddButton("Reset arena", func() { s.pending = true })
	return s
}

// ResetSettings reads the current widget values.
func (s *Settings) ResetSettings() simulation.ResetSettings {
	rs := simulation.ResetSettings{
		Human:    s.human.Value,
		Scripted: s.cpu.Int(),
		Food:     s.food.Int(),
		Viruses:  s.viruses.Int(),
		Models:   make(map[string]int, len(s.models)),
	}
	for name, sl := range s.models {
		rs.Models[name] = sl.Int()
	}
	return rs
}

// Shuffle picks a random count in [0, MaxShuffle) for every archetype.
func (s *Settings) Shuffle() {
	for _, name := range s.order {
		s.models[name].Set(float64(s.rng.IntN(MaxShuffle)))
	}
}

// TakeReset reports whether Reset was pressed since the last call.
func (s *Settings) TakeReset() bool {
	p := s.pending
	s.pending = false
	return p
}

func (s *Settings) Toggle() { s.Panel.Visible = !s.Panel.Visible }

// Update feeds the pointer to the panel. Returns true if a widget consumed it.
func (s *Settings) Update(p ui.Pointer) bool { return s.Panel.Update(p) }
