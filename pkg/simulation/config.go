package simulation

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrInvalidConfig is wrapped by every configuration validation failure.
var ErrInvalidConfig = errors.New("invalid arena config")

//go:embed config.schema.json
var configSchema string

const configSchemaURL = "config.schema.json"

type Config struct {
	// World Dimensions
	WorldWidth  float64 `json:"worldWidth"`
	WorldHeight float64 `json:"worldHeight"`
	CellSize    float64 `json:"cellSize"` // spatial grid bucket size

	// Population at start (also the defaults of the settings panel)
	HumanPlayer  bool           `json:"humanPlayer"`
	CPUOpponents int            `json:"cpuOpponents"`
	AIOpponents  map[string]int `json:"aiOpponents"` // archetype -> count
	FoodCount    int            `json:"foodCount"`
	VirusCount   int            `json:"virusCount"`

	// Static entities
	FoodRadius  float64 `json:"foodRadius"`
	VirusRadius float64 `json:"virusRadius"`
	VirusMargin float64 `json:"virusMargin"` // viruses never spawn closer than this to a wall

	// Blobs
	StartRadius    float64 `json:"startRadius"`
	MinBlobRadius  float64 `json:"minBlobRadius"`
	MaxBlobs       int     `json:"maxBlobs"`      // split cap
	MaxBurstBlobs  int     `json:"maxBurstBlobs"` // virus burst cap
	DominanceRatio float64 `json:"dominanceRatio"`

	// Movement
	BaseSpeed      float64 `json:"baseSpeed"`
	MaxSpeed       float64 `json:"maxSpeed"`
	SpeedFalloff   float64 `json:"speedFalloff"` // speed = max(base, max - r/falloff)
	Smoothing      float64 `json:"smoothing"`    // weight of the desired velocity
	Friction       float64 `json:"friction"`
	MergePull      float64 `json:"mergePull"`
	SplitMinRadius float64 `json:"splitMinRadius"`
	SplitSpeed     float64 `json:"splitSpeed"`
	SplitGap       float64 `json:"splitGap"`
	SplitCooldown  int     `json:"splitCooldown"`

	// Mass pellets
	ShootMinRadius float64 `json:"shootMinRadius"`
	PelletRadius   float64 `json:"pelletRadius"`
	PelletSpeed    float64 `json:"pelletSpeed"`
	PelletDrag     float64 `json:"pelletDrag"`
	PelletLifetime int     `json:"pelletLifetime"`
	PelletGrace    int     `json:"pelletGrace"` // frames the owner cannot re-absorb its pellet

	// Virus burst
	BurstMin         int     `json:"burstMin"`
	BurstMax         int     `json:"burstMax"`
	BurstCooldown    int     `json:"burstCooldown"`
	BurstSpeed       float64 `json:"burstSpeed"`
	BurstMinRadius   float64 `json:"burstMinRadius"`
	BurstMassDivisor float64 `json:"burstMassDivisor"`

	// Scripted opponents
	DecisionCooldown int     `json:"decisionCooldown"`
	VisionBase       float64 `json:"visionBase"`
	VisionRef        float64 `json:"visionRef"`
	VisionMin        float64 `json:"visionMin"`
	VisionMax        float64 `json:"visionMax"`
	ThreatRatio      float64 `json:"threatRatio"`
	PreyRatio        float64 `json:"preyRatio"`
	WaypointReach    float64 `json:"waypointReach"`

	// Model-driven opponents
	MoveScale   float64 `json:"moveScale"`
	ShootChance float64 `json:"shootChance"`
	SplitChance float64 `json:"splitChance"`
	ObsSize     int     `json:"obsSize"`
	ObsView     float64 `json:"obsView"`
	StackDepth  int     `json:"stackDepth"`
}

func DefaultConfig() *Config {
	return &Config{
		WorldWidth:  1200,
		WorldHeight: 800,
		CellSize:    100,

		HumanPlayer:  true,
		CPUOpponents: 5,
		AIOpponents:  map[string]int{"aggressor": 1, "farmer": 1, "survivor": 1},
		FoodCount:    150,
		VirusCount:   5,

		FoodRadius:  3,
		VirusRadius: 22,
		VirusMargin: 100,

		StartRadius:    15,
		MinBlobRadius:  10,
		MaxBlobs:       8,
		MaxBurstBlobs:  16,
		DominanceRatio: 1.1,

		BaseSpeed:      1.5,
		MaxSpeed:       4,
		SpeedFalloff:   50,
		Smoothing:      0.15,
		Friction:       0.98,
		MergePull:      0.3,
		SplitMinRadius: 14,
		SplitSpeed:     8,
		SplitGap:       1,
		SplitCooldown:  90,

		ShootMinRadius: 16,
		PelletRadius:   4,
		PelletSpeed:    10,
		PelletDrag:     0.95,
		PelletLifetime: 300,
		PelletGrace:    30,

		BurstMin:         6,
		BurstMax:         10,
		BurstCooldown:    40,
		BurstSpeed:       6,
		BurstMinRadius:   6,
		BurstMassDivisor: 10,

		DecisionCooldown: 15,
		VisionBase:       300,
		VisionRef:        20,
		VisionMin:        150,
		VisionMax:        500,
		ThreatRatio:      1.15,
		PreyRatio:        1.15,
		WaypointReach:    50,

		MoveScale:   200,
		ShootChance: 0.1,
		SplitChance: 0.05,
		ObsSize:     64,
		ObsView:     400,
		StackDepth:  4,
	}
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.AIOpponents = maps.Clone(c.AIOpponents)
	return &out
}

// Validate checks the invariants the engine relies on.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}
	check(c.WorldWidth > 0 && c.WorldHeight > 0, "world size must be positive, got %vx%v", c.WorldWidth, c.WorldHeight)
	check(c.CellSize > 0, "cellSize must be positive, got %v", c.CellSize)
	check(c.FoodCount >= 0 && c.VirusCount >= 0 && c.CPUOpponents >= 0, "population counts must not be negative")
	check(c.FoodRadius > 0 && c.VirusRadius > 0 && c.PelletRadius > 0, "entity radii must be positive")
	check(c.StartRadius >= c.MinBlobRadius && c.MinBlobRadius > 0, "startRadius (%v) must be >= minBlobRadius (%v) > 0", c.StartRadius, c.MinBlobRadius)
	check(c.MaxBlobs >= 1 && c.MaxBurstBlobs >= c.MaxBlobs, "need 1 <= maxBlobs (%d) <= maxBurstBlobs (%d)", c.MaxBlobs, c.MaxBurstBlobs)
	check(c.DominanceRatio > 1, "dominanceRatio must be > 1, got %v", c.DominanceRatio)
	check(c.ThreatRatio > 1 && c.PreyRatio > 1, "threatRatio and preyRatio must be > 1")
	check(c.BurstMin >= 1 && c.BurstMax >= c.BurstMin, "need 1 <= burstMin (%d) <= burstMax (%d)", c.BurstMin, c.BurstMax)
	check(c.BurstMassDivisor > 0 && c.BurstMinRadius > 0, "burst mass divisor and min radius must be positive")
	check(c.Smoothing > 0 && c.Smoothing <= 1, "smoothing must be in (0, 1], got %v", c.Smoothing)
	check(c.Friction > 0 && c.Friction <= 1 && c.PelletDrag > 0 && c.PelletDrag <= 1, "friction and pelletDrag must be in (0, 1]")
	check(c.PelletGrace >= 0, "pelletGrace must not be negative, got %d", c.PelletGrace)
	check(c.SpeedFalloff > 0, "speedFalloff must be positive")
	check(c.ObsSize > 0 && c.ObsView > 0 && c.StackDepth > 0, "observation geometry must be positive")
	check(c.ShootChance >= 0 && c.ShootChance <= 1 && c.SplitChance >= 0 && c.SplitChance <= 1, "action chances must be probabilities")
	for name, n := range c.AIOpponents {
		check(n >= 0, "aiOpponents[%s] must not be negative", name)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// LoadConfig loads configuration from a JSON file and validates it against the
// embedded schema. Keys missing from the file keep their default value.
func LoadConfig(configFile string) (*Config, error) {
	// 1. Compile Schema
	sch, err := jsonschema.CompileString(configSchemaURL, configSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	// 2. Read Config File
	b, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}

	// 3. Validate
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("failed to decode config json: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return nil, fmt.Errorf("%w: schema validation failed: %w", ErrInvalidConfig, err)
	}

	// 4. Unmarshal over the defaults
	cfg := DefaultConfig()
	if m, ok := v.(map[string]interface{}); ok {
		if _, set := m["aiOpponents"]; set {
			cfg.AIOpponents = nil // replace, don't merge
		}
	}
	if err := json.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
