package simulation

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "arena.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestConfig_ValidateCollectsErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DominanceRatio = 0.9
	cfg.Smoothing = 0
	cfg.BurstMax = 1
	cfg.PelletGrace = -1

	err := cfg.Validate()
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("error = %v; want ErrInvalidConfig", err)
	}
	for _, want := range []string{"dominanceRatio", "smoothing", "burstMax", "pelletGrace"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestConfig_CloneIsDeep(t *testing.T) {
	cfg := DefaultConfig()
	cp := cfg.Clone()
	cp.AIOpponents["farmer"] = 42
	cp.FoodCount = 1
	if cfg.AIOpponents["farmer"] == 42 || cfg.FoodCount == 1 {
		t.Error("Clone shares state with the original")
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `{"worldWidth": 2000, "foodCount": 10, "aiOpponents": {"farmer": 3}}`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.WorldWidth != 2000 || cfg.FoodCount != 10 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.WorldHeight != DefaultConfig().WorldHeight {
		t.Errorf("missing keys should keep their default, worldHeight = %v", cfg.WorldHeight)
	}
	if len(cfg.AIOpponents) != 1 || cfg.AIOpponents["farmer"] != 3 {
		t.Errorf("aiOpponents = %v; the file map replaces the default", cfg.AIOpponents)
	}
}

func TestLoadConfig_Sample(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("..", "..", "configs", "arena.json"))
	if err != nil {
		t.Fatalf("sample config: %v", err)
	}
	if cfg.FoodCount != 150 || !cfg.HumanPlayer {
		t.Errorf("unexpected sample values: %+v", cfg)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		invalid bool
	}{
		{"unknown key", `{"gravity": 9.81}`, true},
		{"wrong type", `{"foodCount": "many"}`, true},
		{"negative count", `{"virusCount": -1}`, true},
		{"engine invariant", `{"startRadius": 5, "minBlobRadius": 10}`, true},
		{"broken json", `{"foodCount": `, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected an error")
			}
			if got := errors.Is(err, ErrInvalidConfig); got != tt.invalid {
				t.Errorf("errors.Is(ErrInvalidConfig) = %v; want %v (%v)", got, tt.invalid, err)
			}
		})
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("missing file should fail")
	}
}
