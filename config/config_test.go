package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	if cfg.Board.Width != 400 || cfg.Board.Height != 400 {
		t.Errorf("board: got %dx%d, want 400x400", cfg.Board.Width, cfg.Board.Height)
	}
	if cfg.Derived.TickPeriod != 50*time.Millisecond {
		t.Errorf("tick period: got %v, want 50ms", cfg.Derived.TickPeriod)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}
	if cfg.Derived.BoardLen != 400*400 {
		t.Errorf("board len: got %d", cfg.Derived.BoardLen)
	}
	if cfg.Compute.Backend != "cpu" {
		t.Errorf("backend: got %q, want cpu", cfg.Compute.Backend)
	}
}

func TestLoad_OverlaysUserFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("board:\n  width: 64\ntick:\n  period_ms: 25\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Board.Width != 64 {
		t.Errorf("width: got %d, want 64", cfg.Board.Width)
	}
	if cfg.Board.Height != 400 {
		t.Errorf("height should keep default: got %d", cfg.Board.Height)
	}
	if cfg.Derived.TickPeriod != 25*time.Millisecond {
		t.Errorf("tick period: got %v, want 25ms", cfg.Derived.TickPeriod)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Board.Width = 0 }},
		{"negative height", func(c *Config) { c.Board.Height = -3 }},
		{"zero period", func(c *Config) { c.Tick.PeriodMS = 0 }},
		{"negative period", func(c *Config) { c.Tick.PeriodMS = -10 }},
		{"period within a frame", func(c *Config) { c.Tick.PeriodMS, c.Screen.TargetFPS = 10, 60 }},
		{"period equals a frame", func(c *Config) { c.Tick.PeriodMS, c.Screen.TargetFPS = 20, 50 }},
		{"board too large", func(c *Config) { c.Board.Width, c.Board.Height = 1<<16, 1<<16 }},
		{"backend", func(c *Config) { c.Compute.Backend = "metal" }},
		{"probabilities", func(c *Config) { c.Seed.HumanProbability, c.Seed.ZombieProbability = 0.8, 0.3 }},
		{"human range", func(c *Config) { c.Seed.HumanMax = c.Seed.HumanMin }},
		{"zombie range", func(c *Config) { c.Seed.ZombieMin = 0 }},
		{"brush status", func(c *Config) { c.Placement.Status = "vampire" }},
		{"brush population", func(c *Config) { c.Placement.Population = 0 }},
		{"placer interval", func(c *Config) { c.Placers.Count, c.Placers.IntervalMS = 3, 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			if err != nil {
				t.Fatal(err)
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("got %v, want ErrInvalid", err)
			}
		})
	}
}

func TestWriteYAML_RoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Board.Width = 33
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("write: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if back.Board.Width != 33 {
		t.Errorf("got %d, want 33", back.Board.Width)
	}
}

func TestCfg_PanicsBeforeInit(t *testing.T) {
	saved := global
	global = nil
	defer func() {
		global = saved
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	Cfg()
}
