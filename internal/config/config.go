package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/pulsesim/internal/dataset"
	"github.com/san-kum/pulsesim/internal/prob"
	"github.com/san-kum/pulsesim/internal/roll"
	"github.com/san-kum/pulsesim/internal/signal"
	"github.com/san-kum/pulsesim/internal/sim"
)

const (
	DefaultKind     = roll.KindDouble
	DefaultTrials   = 1_000_000
	DefaultBins     = 1001
	DefaultLogLevel = "info"
)

var (
	ErrNoDensity = errors.New("config: no density configured (set density.path or density.e/p)")
	ErrNoSignal  = errors.New("config: no signal configured (set signal.path or signal.x/y)")
)

type Config struct {
	Kind    string `yaml:"kind"`
	Trials  int    `yaml:"trials"`
	Workers int    `yaml:"workers"`

	// Seed 0 leaves the batch unseeded.
	Seed          uint64          `yaml:"seed"`
	LogLevel      string          `yaml:"log_level"`
	Density       DensityConfig   `yaml:"density"`
	Signal        SignalConfig    `yaml:"signal"`
	Window        WindowConfig    `yaml:"window"`
	Offset        OffsetConfig    `yaml:"offset"`
	GridTolerance float64         `yaml:"grid_tolerance"`
	Histogram     HistogramConfig `yaml:"histogram"`
}

// DensityConfig reads the amplitude spectrum from Path, or uses E/P inline.
type DensityConfig struct {
	Path       string    `yaml:"path,omitempty"`
	Separator  string    `yaml:"separator,omitempty"`
	TrimLength float64   `yaml:"trim_length,omitempty"`
	E          []float64 `yaml:"e,omitempty,flow"`
	P          []float64 `yaml:"p,omitempty,flow"`
}

// SignalConfig reads the pulse template from Path, or uses X/Y inline.
type SignalConfig struct {
	Path      string    `yaml:"path,omitempty"`
	Separator string    `yaml:"separator,omitempty"`
	X         []float64 `yaml:"x,omitempty,flow"`
	Y         []float64 `yaml:"y,omitempty,flow"`
}

type WindowConfig struct {
	Left   float64 `yaml:"left"`
	Right  float64 `yaml:"right"`
	Center float64 `yaml:"center"`
}

type OffsetConfig struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

type HistogramConfig struct {
	Bins      int    `yaml:"bins"`
	Separator string `yaml:"separator"`
	Density   bool   `yaml:"density"`
}

func DefaultConfig() *Config {
	return &Config{
		Kind:     DefaultKind,
		Trials:   DefaultTrials,
		LogLevel: DefaultLogLevel,
		Density: DensityConfig{
			Separator:  dataset.DefaultSeparator,
			TrimLength: dataset.DefaultTrimLength,
		},
		Signal: SignalConfig{
			Separator: dataset.DefaultSeparator,
		},
		Window: WindowConfig{
			Left:   2,
			Right:  3,
			Center: signal.DefaultCenter,
		},
		Offset: OffsetConfig{
			Min: roll.DefaultOffsetMin,
			Max: roll.DefaultOffsetMax,
		},
		Histogram: HistogramConfig{
			Bins:      DefaultBins,
			Separator: " ",
			Density:   true,
		},
	}
}

func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := LoadInto(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadInto decodes the file onto cfg. Keys absent from the file keep the
// values cfg already holds.
func LoadInto(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Clone returns a copy that shares no slices with c.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Density.E = cloneFloats(c.Density.E)
	clone.Density.P = cloneFloats(c.Density.P)
	clone.Signal.X = cloneFloats(c.Signal.X)
	clone.Signal.Y = cloneFloats(c.Signal.Y)
	return &clone
}

func cloneFloats(v []float64) []float64 {
	if v == nil {
		return nil
	}
	return append([]float64(nil), v...)
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Kind != roll.KindSingle && c.Kind != roll.KindDouble {
		return fmt.Errorf("unknown kind: %s (want %s or %s)", c.Kind, roll.KindSingle, roll.KindDouble)
	}
	if c.Trials < 0 {
		return fmt.Errorf("trials must be non-negative, got %d", c.Trials)
	}
	if c.Offset.Min > c.Offset.Max {
		return fmt.Errorf("offset.min (%d) exceeds offset.max (%d)", c.Offset.Min, c.Offset.Max)
	}
	if c.GridTolerance < 0 {
		return fmt.Errorf("grid_tolerance must be non-negative, got %g", c.GridTolerance)
	}
	if c.Histogram.Bins < 1 {
		return fmt.Errorf("histogram.bins must be positive, got %d", c.Histogram.Bins)
	}
	return nil
}

// LoadDensity returns the normalized amplitude density.
func (c *Config) LoadDensity() (prob.Density, error) {
	if c.Density.Path != "" {
		return dataset.LoadDensity(c.Density.Path, c.Density.Separator, c.Density.TrimLength)
	}
	if len(c.Density.E) == 0 && len(c.Density.P) == 0 {
		return prob.Density{}, ErrNoDensity
	}
	return prob.Normalize(prob.Density{E: c.Density.E, P: c.Density.P})
}

func (c *Config) LoadSignal() (signal.Signal, error) {
	if c.Signal.Path != "" {
		return dataset.LoadSignal(c.Signal.Path, c.Signal.Separator)
	}
	if len(c.Signal.X) == 0 && len(c.Signal.Y) == 0 {
		return signal.Signal{}, ErrNoSignal
	}
	s := signal.Signal{X: c.Signal.X, Y: c.Signal.Y}
	return s, s.Validate()
}

func (c *Config) SignalWindow() signal.Window {
	return signal.Window{Left: c.Window.Left, Right: c.Window.Right, Center: c.Window.Center}
}

// RollParams loads the density and template and assembles the trial inputs.
func (c *Config) RollParams() (roll.Params, error) {
	d, err := c.LoadDensity()
	if err != nil {
		return roll.Params{}, err
	}
	s, err := c.LoadSignal()
	if err != nil {
		return roll.Params{}, err
	}
	return roll.Params{
		Density:       d,
		Template:      s,
		Window:        c.SignalWindow(),
		OffsetMin:     c.Offset.Min,
		OffsetMax:     c.Offset.Max,
		GridTolerance: c.GridTolerance,
	}, nil
}

func (c *Config) SimOptions(logger *slog.Logger) sim.Options {
	return sim.Options{
		Workers: c.Workers,
		Seed:    c.Seed,
		Seeded:  c.Seed != 0,
		Name:    c.Kind,
		Logger:  logger,
	}
}
