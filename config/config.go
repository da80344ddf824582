// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/outbreak/components"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("config: invalid")

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Board     BoardConfig     `yaml:"board"`
	Tick      TickConfig      `yaml:"tick"`
	Compute   ComputeConfig   `yaml:"compute"`
	Seed      SeedConfig      `yaml:"seed"`
	Placement PlacementConfig `yaml:"placement"`
	Placers   PlacersConfig   `yaml:"placers"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int     `yaml:"width"`
	Height    int     `yaml:"height"`
	TargetFPS int     `yaml:"target_fps"`
	CellScale float64 `yaml:"cell_scale"` // Screen pixels per board cell at zoom 1
}

// BoardConfig holds the board dimensions in cells.
type BoardConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// TickConfig holds the compute cadence.
type TickConfig struct {
	PeriodMS int `yaml:"period_ms"` // One dispatch per period
}

// ComputeConfig selects the parallel execution backend.
type ComputeConfig struct {
	Backend string `yaml:"backend"` // "cpu" or "opencl"
	Workers int    `yaml:"workers"` // CPU worker goroutines (0 = GOMAXPROCS)
}

// SeedConfig holds initial board generation parameters.
type SeedConfig struct {
	Seed              int64   `yaml:"seed"`               // 0 = time-based
	Octaves           int     `yaml:"octaves"`            // Altitude noise levels
	BaseLevel         float64 `yaml:"base_level"`         // Altitude feature size in cells
	TemperatureScale  float64 `yaml:"temperature_scale"`  // Temperature feature size in cells
	AltitudeRange     float64 `yaml:"altitude_range"`     // Noise [-1,1] is scaled by this
	TemperatureRange  float64 `yaml:"temperature_range"`  // Noise [-1,1] is scaled by this
	HumanProbability  float64 `yaml:"human_probability"`  // Chance a cell starts human
	ZombieProbability float64 `yaml:"zombie_probability"` // Chance a cell starts zombie
	HumanMin          int     `yaml:"human_min"`
	HumanMax          int     `yaml:"human_max"` // Exclusive
	ZombieMin         int     `yaml:"zombie_min"`
	ZombieMax         int     `yaml:"zombie_max"` // Exclusive
}

// PlacementConfig holds the interactive brush defaults.
type PlacementConfig struct {
	Status     string `yaml:"status"` // "human" or "zombie"
	Population int    `yaml:"population"`
}

// PlacersConfig holds automated placer agent parameters.
type PlacersConfig struct {
	Count      int    `yaml:"count"`
	IntervalMS int    `yaml:"interval_ms"`
	Status     string `yaml:"status"`
	Population int    `yaml:"population"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`          // Seconds of simulated time per census window
	PerfCollectorWindow int     `yaml:"perf_collector_window"` // Passes in the rolling perf window
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	TickPeriod  time.Duration // Tick.PeriodMS as a duration
	PlacerEvery float32       // Placers.IntervalMS in seconds
	BoardLen    int           // Board.Width * Board.Height
	ScreenW32   float32       // Screen.Width as float32
	ScreenH32   float32       // Screen.Height as float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate rejects configurations the engine cannot start with.
func (c *Config) Validate() error {
	switch {
	case c.Board.Width <= 0 || c.Board.Height <= 0:
		return fmt.Errorf("%w: board %dx%d", ErrInvalid, c.Board.Width, c.Board.Height)
	case c.Board.Width > components.MaxBoardCells/c.Board.Height:
		return fmt.Errorf("%w: board %dx%d exceeds %d cells", ErrInvalid, c.Board.Width, c.Board.Height, components.MaxBoardCells)
	case c.Tick.PeriodMS <= 0:
		return fmt.Errorf("%w: tick.period_ms %d", ErrInvalid, c.Tick.PeriodMS)
	case c.Screen.TargetFPS > 0 && c.Tick.PeriodMS*c.Screen.TargetFPS <= 1000:
		// A period no longer than a frame fires every frame and leaves edits no idle pass.
		return fmt.Errorf("%w: tick.period_ms %d must exceed the %d fps frame time", ErrInvalid, c.Tick.PeriodMS, c.Screen.TargetFPS)
	case c.Compute.Backend != "cpu" && c.Compute.Backend != "opencl":
		return fmt.Errorf("%w: compute.backend %q", ErrInvalid, c.Compute.Backend)
	case c.Seed.HumanProbability < 0 || c.Seed.ZombieProbability < 0 ||
		c.Seed.HumanProbability+c.Seed.ZombieProbability > 1:
		return fmt.Errorf("%w: seed probabilities %.2f/%.2f", ErrInvalid, c.Seed.HumanProbability, c.Seed.ZombieProbability)
	case c.Seed.HumanMin <= 0 || c.Seed.HumanMax <= c.Seed.HumanMin:
		return fmt.Errorf("%w: seed human range [%d,%d)", ErrInvalid, c.Seed.HumanMin, c.Seed.HumanMax)
	case c.Seed.ZombieMin <= 0 || c.Seed.ZombieMax <= c.Seed.ZombieMin:
		return fmt.Errorf("%w: seed zombie range [%d,%d)", ErrInvalid, c.Seed.ZombieMin, c.Seed.ZombieMax)
	case !validStatus(c.Placement.Status) || !validStatus(c.Placers.Status):
		return fmt.Errorf("%w: placement status %q/%q", ErrInvalid, c.Placement.Status, c.Placers.Status)
	case c.Placement.Population <= 0 || c.Placers.Population <= 0:
		return fmt.Errorf("%w: placement population must be positive", ErrInvalid)
	case c.Placers.Count > 0 && c.Placers.IntervalMS <= 0:
		return fmt.Errorf("%w: placers.interval_ms %d", ErrInvalid, c.Placers.IntervalMS)
	}
	return nil
}

func validStatus(s string) bool {
	return s == "human" || s == "zombie"
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.TickPeriod = time.Duration(c.Tick.PeriodMS) * time.Millisecond
	c.Derived.PlacerEvery = float32(c.Placers.IntervalMS) / 1000
	c.Derived.BoardLen = c.Board.Width * c.Board.Height
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
