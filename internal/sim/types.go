package sim

import (
	"log/slog"
	"math/rand/v2"
	"runtime"

	"github.com/san-kum/pulsesim/internal/prob"
)

// TrialFunc computes one trial from the worker's generator.
type TrialFunc[T any] func(rng *rand.Rand) (T, error)

// Range is the half-open index interval [Start, End) owned by one worker.
type Range struct {
	Start int
	End   int
}

type Options struct {
	// Workers is the number of goroutines; <= 0 means runtime.NumCPU().
	Workers int
	// Seed is used only when Seeded is set.
	Seed   uint64
	Seeded bool
	// Name labels the batch in logs and metrics.
	Name   string
	Logger *slog.Logger
}

func (o Options) workers(count int) int {
	w := o.Workers
	if w <= 0 {
		w = runtime.NumCPU()
	}
	if w > count {
		w = count
	}
	if w < 1 {
		w = 1
	}
	return w
}

func (o Options) rng(worker int) *rand.Rand {
	if o.Seeded {
		return prob.NewRNG(o.Seed, uint64(worker))
	}
	return prob.NewUnseededRNG()
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}
