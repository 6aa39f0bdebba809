// Package roll implements the Monte-Carlo trials of the simulator: a single
// pulse with a random amplitude, and two overlapping pulses with random
// amplitudes and a random integer offset.
package roll

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/san-kum/pulsesim/internal/prob"
	"github.com/san-kum/pulsesim/internal/signal"
	"github.com/san-kum/pulsesim/internal/sim"
)

const (
	DefaultOffsetMin = 0
	DefaultOffsetMax = 42
)

// Batch names used for logs, metrics and stored runs.
const (
	KindSingle = "single"
	KindDouble = "double"
)

// Params are the read-only inputs shared by every trial of a batch.
type Params struct {
	// Density is the amplitude distribution; it must already be normalized.
	Density  prob.Density
	Template signal.Signal
	Window   signal.Window

	OffsetMin int
	OffsetMax int
	// GridTolerance is passed to signal.ComposeTolerance; 0 is exact.
	GridTolerance float64
}

// DefaultParams fills the offset range with its defaults.
func DefaultParams(d prob.Density, template signal.Signal, w signal.Window) Params {
	return Params{
		Density:   d,
		Template:  template,
		Window:    w,
		OffsetMin: DefaultOffsetMin,
		OffsetMax: DefaultOffsetMax,
	}
}

// Roller runs trials against one set of Params. It is safe for concurrent
// use; per-trial state lives in the caller's generator and pooled buffers.
type Roller struct {
	sampler   *prob.Sampler
	template  signal.Signal
	window    signal.Window
	offsetMin int
	offsetMax int
	tol       float64
	pool      *sim.BufferPool
}

func New(p Params) (*Roller, error) {
	sampler, err := prob.NewSampler(p.Density)
	if err != nil {
		return nil, err
	}
	if err := p.Template.Validate(); err != nil {
		return nil, err
	}
	if p.OffsetMin > p.OffsetMax {
		return nil, fmt.Errorf("%w: [%d, %d]", ErrOffsetRange, p.OffsetMin, p.OffsetMax)
	}

	template := p.Template.Clone()
	return &Roller{
		sampler:   sampler,
		template:  template,
		window:    p.Window,
		offsetMin: p.OffsetMin,
		offsetMax: p.OffsetMax,
		tol:       p.GridTolerance,
		pool:      sim.NewBufferPool(template.Len()),
	}, nil
}

// CheckGrid verifies that every offset of the range lands on the template
// grid, so that a double-overlap batch cannot fail halfway through.
func (r *Roller) CheckGrid() error {
	for off := r.offsetMin; off <= r.offsetMax; off++ {
		if _, err := signal.OffsetIndex(r.template, r.template, float64(off), r.tol); err != nil {
			return fmt.Errorf("offset %d: %w", off, err)
		}
	}
	return nil
}

func (r *Roller) Window() signal.Window { return r.window }

func (r *Roller) OffsetRange() (lo, hi int) { return r.offsetMin, r.offsetMax }

// Single integrates the template scaled by one sampled amplitude.
func (r *Roller) Single(rng *rand.Rand) float64 {
	amp := r.sampler.Sample(rng)

	buf := r.pool.GetAndCopy(r.template.Y)
	defer r.pool.Put(buf)
	for i := range buf {
		buf[i] *= amp
	}
	return r.window.Integrate(signal.Signal{X: r.template.X, Y: buf})
}

// DoubleOverlap overlaps the template with itself at a random offset and
// integrates the result.
func (r *Roller) DoubleOverlap(rng *rand.Rand) (Outcome, error) {
	offset := prob.UniformInt(rng, r.offsetMin, r.offsetMax)
	amp1 := r.sampler.Sample(rng)
	amp2 := r.sampler.Sample(rng)

	buf := r.pool.Get()
	defer r.pool.Put(buf)

	composed, err := signal.ComposeInto(buf, r.template, r.template, float64(offset), amp1, amp2, r.tol)
	if err != nil {
		return Outcome{}, err
	}

	return Outcome{
		Offset:   offset,
		Amp1:     amp1,
		Amp2:     amp2,
		Integral: r.window.Integrate(composed),
	}, nil
}

// SingleBulk runs count single trials in parallel.
func (r *Roller) SingleBulk(ctx context.Context, count int, opts sim.Options) ([]float64, error) {
	if opts.Name == "" {
		opts.Name = KindSingle
	}
	return sim.Run[float64](ctx, count, opts, func(rng *rand.Rand) (float64, error) {
		return r.Single(rng), nil
	})
}

// DoubleOverlapBulk runs count double-overlap trials in parallel. The grid is
// checked once before any trial starts.
func (r *Roller) DoubleOverlapBulk(ctx context.Context, count int, opts sim.Options) ([]Outcome, error) {
	if err := r.CheckGrid(); err != nil {
		return nil, err
	}
	if opts.Name == "" {
		opts.Name = KindDouble
	}
	return sim.Run[Outcome](ctx, count, opts, r.DoubleOverlap)
}
