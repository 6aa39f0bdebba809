package analysis

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrEmptyHistogram = errors.New("analysis: no values to bin")
	ErrNonFinite      = errors.New("analysis: cannot bin non-finite value")
)

// Histogram holds len(Counts)+1 bin edges; bin i is [Edges[i], Edges[i+1]).
type Histogram struct {
	Edges  []float64
	Counts []float64
}

func (h Histogram) Bins() int { return len(h.Counts) }

// Left returns the left edge of every bin.
func (h Histogram) Left() []float64 {
	return h.Edges[:len(h.Counts)]
}

func (h Histogram) Total() float64 {
	return floats.Sum(h.Counts)
}

// IntegerBins returns max-min+1, the bin count that gives every integer in
// the range of values its own bin.
func IntegerBins(values []float64) int {
	if len(values) == 0 {
		return 1
	}
	return int(math.Round(floats.Max(values)-floats.Min(values))) + 1
}

// NewHistogram bins values into bins equal-width bins spanning their range.
// With density set the counts are divided by count*width so that the
// histogram integrates to 1.
func NewHistogram(values []float64, bins int, density bool) (Histogram, error) {
	if len(values) == 0 {
		return Histogram{}, ErrEmptyHistogram
	}
	if bins < 1 {
		return Histogram{}, fmt.Errorf("analysis: bins must be positive, got %d", bins)
	}

	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Histogram{}, fmt.Errorf("%w: values[%d]=%v", ErrNonFinite, i, v)
		}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	edges := make([]float64, bins+1)
	floats.Span(edges, lo, hi)
	// stat.Histogram excludes the last divider
	dividers := make([]float64, len(edges))
	copy(dividers, edges)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, sorted, nil)

	if density {
		n := float64(len(values))
		for i := range counts {
			counts[i] /= n * (edges[i+1] - edges[i])
		}
	}
	return Histogram{Edges: edges, Counts: counts}, nil
}

// SplitAt sums the counts of bins whose left edge is below border and of
// the remaining bins.
func (h Histogram) SplitAt(border float64) (left, right float64) {
	for i, c := range h.Counts {
		if h.Edges[i] < border {
			left += c
		} else {
			right += c
		}
	}
	return left, right
}
