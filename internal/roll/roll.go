package roll

import (
	"context"
	"math/rand/v2"

	"github.com/san-kum/pulsesim/internal/prob"
	"github.com/san-kum/pulsesim/internal/signal"
	"github.com/san-kum/pulsesim/internal/sim"
)

// RollSingle runs one single-pulse trial.
func RollSingle(rng *rand.Rand, d prob.Density, template signal.Signal, w signal.Window) (float64, error) {
	r, err := New(DefaultParams(d, template, w))
	if err != nil {
		return 0, err
	}
	return r.Single(rng), nil
}

// RollDoubleOverlap runs one double-overlap trial with offsets drawn from
// [offsetMin, offsetMax].
func RollDoubleOverlap(rng *rand.Rand, d prob.Density, template signal.Signal, w signal.Window, offsetMin, offsetMax int) (Outcome, error) {
	p := DefaultParams(d, template, w)
	p.OffsetMin, p.OffsetMax = offsetMin, offsetMax

	r, err := New(p)
	if err != nil {
		return Outcome{}, err
	}
	return r.DoubleOverlap(rng)
}

func RollSingleBulk(ctx context.Context, count int, d prob.Density, template signal.Signal, w signal.Window, opts sim.Options) ([]float64, error) {
	r, err := New(DefaultParams(d, template, w))
	if err != nil {
		return nil, err
	}
	return r.SingleBulk(ctx, count, opts)
}

func RollDoubleOverlapBulk(ctx context.Context, count int, d prob.Density, template signal.Signal, w signal.Window, offsetMin, offsetMax int, opts sim.Options) ([]Outcome, error) {
	p := DefaultParams(d, template, w)
	p.OffsetMin, p.OffsetMax = offsetMin, offsetMax

	r, err := New(p)
	if err != nil {
		return nil, err
	}
	return r.DoubleOverlapBulk(ctx, count, opts)
}
