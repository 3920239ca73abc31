package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}

	if cfg.Physics.DT <= 0 {
		t.Errorf("dt = %v, want positive", cfg.Physics.DT)
	}
	if cfg.Pitch.Length != 40 || cfg.Pitch.Width != 20 {
		t.Errorf("pitch = %vx%v, want 40x20", cfg.Pitch.Length, cfg.Pitch.Width)
	}
	if cfg.Player.MaxSteps != 3 {
		t.Errorf("max_steps = %d, want 3", cfg.Player.MaxSteps)
	}
}

func TestDerivedValues(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}

	wantCell := cfg.Physics.GridCellFactor * cfg.Player.Radius
	if math.Abs(cfg.Derived.GridCellSize-wantCell) > 1e-9 {
		t.Errorf("GridCellSize = %v, want %v", cfg.Derived.GridCellSize, wantCell)
	}
	if cfg.Derived.GoalCenterX != [2]float64{0, cfg.Pitch.Length} {
		t.Errorf("GoalCenterX = %v", cfg.Derived.GoalCenterX)
	}
	if cfg.Derived.CenterX != cfg.Pitch.Length/2 || cfg.Derived.CenterY != cfg.Pitch.Width/2 {
		t.Errorf("center = (%v,%v)", cfg.Derived.CenterX, cfg.Derived.CenterY)
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	data := []byte("pitch:\n  length: 36.0\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load override: %v", err)
	}
	if cfg.Pitch.Length != 36 {
		t.Errorf("length = %v, want 36 from override", cfg.Pitch.Length)
	}
	// Untouched fields keep their defaults.
	if cfg.Pitch.Width != 20 {
		t.Errorf("width = %v, want default 20", cfg.Pitch.Width)
	}
}

func TestValidateRejectsDegenerate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero dt", func(c *Config) { c.Physics.DT = 0 }},
		{"negative pitch", func(c *Config) { c.Pitch.Length = -1 }},
		{"zero goal", func(c *Config) { c.Pitch.GoalWidth = 0 }},
		{"zero player radius", func(c *Config) { c.Player.Radius = 0 }},
		{"zero ball radius", func(c *Config) { c.Ball.Radius = 0 }},
		{"no intercept samples", func(c *Config) { c.Ball.InterceptSamples = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			if err != nil {
				t.Fatalf("Load defaults: %v", err)
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate accepted a degenerate config")
			}
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}
	cfg.Pass.BaseChance = 0.77

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load written file: %v", err)
	}
	if back.Pass.BaseChance != 0.77 {
		t.Errorf("round trip base_chance = %v, want 0.77", back.Pass.BaseChance)
	}
}

func TestCfgPanicsBeforeInit(t *testing.T) {
	old := global
	global = nil
	defer func() {
		global = old
		if recover() == nil {
			t.Error("Cfg() did not panic before Init")
		}
	}()
	Cfg()
}
