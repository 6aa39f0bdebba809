package config

import (
	"math"
	"sort"

	"github.com/san-kum/pulsesim/internal/roll"
	"github.com/san-kum/pulsesim/internal/signal"
)

// Presets are keyed by trial kind, then preset name. Every preset carries
// the built-in demo spectrum and pulse so it runs without data files.
var Presets = map[string]map[string]*Config{
	roll.KindSingle: {
		"narrow": preset(roll.KindSingle, 100_000, WindowConfig{Left: 1, Right: 2}, OffsetConfig{}),
		"wide":   preset(roll.KindSingle, 100_000, WindowConfig{Left: 5, Right: 20}, OffsetConfig{}),
	},
	roll.KindDouble: {
		"narrow": preset(roll.KindDouble, 1_000_000, WindowConfig{Left: 1, Right: 2}, OffsetConfig{Min: 0, Max: 42}),
		"wide":   preset(roll.KindDouble, 1_000_000, WindowConfig{Left: 5, Right: 20}, OffsetConfig{Min: 0, Max: 42}),
		"close":  preset(roll.KindDouble, 1_000_000, WindowConfig{Left: 2, Right: 3}, OffsetConfig{Min: 0, Max: 5}),
	},
}

func preset(kind string, trials int, w WindowConfig, off OffsetConfig) *Config {
	cfg := DefaultConfig()
	cfg.Kind = kind
	cfg.Trials = trials
	cfg.Window = WindowConfig{Left: w.Left, Right: w.Right, Center: signal.DefaultCenter}
	if kind == roll.KindDouble {
		cfg.Offset = off
	}
	cfg.Density.E, cfg.Density.P = DemoSpectrum()
	cfg.Signal.X, cfg.Signal.Y = DemoPulse()
	return cfg
}

// DemoSpectrum is a falling spectrum with a peak at 14 on [0, 20].
func DemoSpectrum() (e, p []float64) {
	for i := 0; i <= 40; i++ {
		x := float64(i) / 2
		tail := 0.2 * math.Exp(-x/6)
		peak := math.Exp(-(x - 14) * (x - 14) / 2)
		e = append(e, x)
		p = append(p, tail+peak)
	}
	return e, p
}

// DemoPulse is a 64-channel pulse that rises to its maximum at channel 9
// and decays exponentially.
func DemoPulse() (x, y []float64) {
	for i := 0; i < 64; i++ {
		ch := float64(i)
		v := 0.0
		if ch <= signal.DefaultCenter {
			v = ch / signal.DefaultCenter
		} else {
			v = math.Exp(-(ch - signal.DefaultCenter) / 6)
		}
		x = append(x, ch)
		y = append(y, v)
	}
	return x, y
}

func GetPreset(kind, name string) *Config {
	kindPresets, ok := Presets[kind]
	if !ok {
		return nil
	}
	cfg, ok := kindPresets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(kind string) []string {
	kindPresets, ok := Presets[kind]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(kindPresets))
	for name := range kindPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
