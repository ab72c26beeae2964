// Package simulation is the arena engine: it owns every entity, advances
// them one frame at a time and resolves eating, merging and virus bursts.
package simulation

import (
	"fmt"
	"maps"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/lao-tseu-is-alive/go-cell-arena/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-cell-arena/pkg/policy"
	"github.com/lao-tseu-is-alive/go-cell-arena/pkg/spatial"
	golog "github.com/tochemey/goakt/v3/log"
)

// ResetSettings describes the population to build on Reset.
type ResetSettings struct {
	Human    bool           `json:"human"`
	Scripted int            `json:"scripted"`
	Food     int            `json:"food"`
	Viruses  int            `json:"viruses"`
	Models   map[string]int `json:"models"` // archetype -> count
}

// DefaultResetSettings returns the start population of a configuration.
func DefaultResetSettings(cfg *Config) ResetSettings {
	return ResetSettings{
		Human:    cfg.HumanPlayer,
		Scripted: cfg.CPUOpponents,
		Food:     cfg.FoodCount,
		Viruses:  cfg.VirusCount,
		Models:   maps.Clone(cfg.AIOpponents),
	}
}

// FrameStats summarises one Step.
type FrameStats struct {
	Frame        uint64
	Merges       int
	Splits       int
	Shots        int
	BlobsEaten   int
	FoodEaten    int
	PelletsEaten int
	Bursts       int
	Respawns     int
	Duration     time.Duration
}

// Simulation advances one arena. It is not safe for concurrent use: the
// owner (an actor or a test) serialises every call.
type Simulation struct {
	cfg   *Config
	log   golog.Logger
	rng   *rand.Rand
	world *World
	index *spatial.Index[bodyMeta]

	archetypes map[string]bool // nil: every archetype is accepted
	settings   ResetSettings
	frame      uint64
	last       FrameStats
}

type Option func(*Simulation)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l golog.Logger) Option {
	return func(s *Simulation) {
		if l != nil {
			s.log = l
		}
	}
}

// WithSeed makes the run reproducible within one process.
func WithSeed(seed uint64) Option {
	return func(s *Simulation) {
		s.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithArchetypes restricts model-driven controllers to archetypes with a
// loaded model. Requests for any other archetype are skipped on Reset.
func WithArchetypes(names ...string) Option {
	return func(s *Simulation) {
		s.archetypes = make(map[string]bool, len(names))
		for _, n := range names {
			s.archetypes[n] = true
		}
	}
}

// New validates cfg, builds the world and populates it with the default
// reset settings of cfg.
func New(cfg *Config, opts ...Option) (*Simulation, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Simulation{
		cfg: cfg.Clone(),
		log: golog.DiscardLogger,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	s.world = newWorld(s.cfg, s.rng)
	s.index = spatial.New[bodyMeta](s.cfg.WorldWidth, s.cfg.WorldHeight, s.cfg.CellSize)
	s.Reset(DefaultResetSettings(s.cfg))
	return s, nil
}

// Config returns a copy of the active configuration.
func (s *Simulation) Config() *Config { return s.cfg.Clone() }

// World gives read access to the entity store. Callers must not mutate it.
func (s *Simulation) World() *World { return s.world }

// Frame is the number of completed steps since the last Reset.
func (s *Simulation) Frame() uint64 { return s.frame }

// LastStats returns the stats of the previous Step.
func (s *Simulation) LastStats() FrameStats { return s.last }

// Settings returns the settings of the last Reset.
func (s *Simulation) Settings() ResetSettings {
	out := s.settings
	out.Models = maps.Clone(s.settings.Models)
	return out
}

// Reset rebuilds every population from rs without touching the config.
func (s *Simulation) Reset(rs ResetSettings) {
	w := s.world
	w.reset()
	s.frame = 0
	s.last = FrameStats{}
	s.settings = rs
	s.settings.Models = maps.Clone(rs.Models)

	for range max(0, rs.Food) {
		w.spawnFood()
	}
	for range max(0, rs.Viruses) {
		w.spawnVirus()
	}

	if rs.Human {
		w.respawn(w.addController("Player", Human, playerColor))
	}
	for i := range max(0, rs.Scripted) {
		c := w.addController(fmt.Sprintf("CPU %d", i+1), Scripted, w.randomColor())
		c.brain = behavior.NewBrain(s.brainParams(), s.rng)
		w.respawn(c)
	}

	// sorted so a given seed always builds the same roster
	for _, name := range slices.Sorted(maps.Keys(rs.Models)) {
		n := rs.Models[name]
		if n <= 0 {
			continue
		}
		if s.archetypes != nil && !s.archetypes[name] {
			// already reported once when the models were loaded
			s.log.Debugf("skipping %d %q opponents: no model", n, name)
			continue
		}
		for i := range n {
			c := w.addController(fmt.Sprintf("%s %d", name, i+1), ModelDriven, w.randomColor())
			c.Archetype = name
			c.frames = policy.NewFrameStack(s.cfg.ObsSize, s.cfg.StackDepth)
			w.respawn(c)
		}
	}
	s.log.Infof("arena reset: %d controllers, %d food, %d viruses",
		len(w.Controllers), len(w.Food), len(w.Viruses))
}

// Step advances the arena by one frame:
// intents, movement, merges, collisions, pellet decay, respawn.
func (s *Simulation) Step(in FrameInput) FrameStats {
	start := time.Now()
	w := s.world
	stats := FrameStats{Frame: s.frame + 1}

	// 1. inputs are sampled once for the whole frame
	intents := make([]Intent, len(w.Controllers))
	for i, c := range w.Controllers {
		if !c.Alive() {
			continue
		}
		intents[i] = s.intent(c, in)
	}

	// 2. actions then movement
	for i, c := range w.Controllers {
		if !c.Alive() {
			continue
		}
		it := intents[i]
		c.setAim(it.Target)
		if it.Split {
			stats.Splits += w.split(c)
		}
		if it.Shoot && w.shoot(c) != nil {
			stats.Shots++
		}
		w.steer(c, it.Target)
		tickCooldowns(c)
	}

	// 3. same controller merges
	for _, c := range w.Controllers {
		w.mergePull(c)
		stats.Merges += resolveMerges(c)
	}

	// 4. cross controller collisions
	ev := s.resolveCollisions()
	stats.BlobsEaten = ev.blobsEaten
	stats.FoodEaten = ev.foodEaten
	stats.PelletsEaten = ev.pelletsEaten
	stats.Bursts = ev.bursts

	// 5. transient entities
	w.agePellets()

	// 6. nobody leaves the frame dead
	for _, c := range w.Controllers {
		if !c.Alive() {
			w.respawn(c)
			stats.Respawns++
			s.log.Debugf("%s respawned", c.Name)
		}
	}

	s.frame++
	stats.Duration = time.Since(start)
	s.last = stats
	return stats
}
