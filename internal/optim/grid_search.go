package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
)

var ErrEmptyGrid = errors.New("optim: grid has no points")

// EvalFunc scores one grid point; lower is better. NaN scores are kept in
// the report but never win.
type EvalFunc func(ctx context.Context, params map[string]float64) (float64, error)

type Point struct {
	Params map[string]float64
	Value  float64
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("optim: %d names for %d ranges", len(params), len(ranges))
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("%w: %s has no values", ErrEmptyGrid, params[i])
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Size is the number of points Search evaluates.
func (g *GridSearch) Size() int {
	if len(g.ranges) == 0 {
		return 0
	}
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Search evaluates every point of the grid in row-major order and returns
// all of them along with the index of the lowest score. The first error
// stops the search.
func (g *GridSearch) Search(ctx context.Context, eval EvalFunc) ([]Point, int, error) {
	if g.Size() == 0 {
		return nil, -1, ErrEmptyGrid
	}

	points := make([]Point, 0, g.Size())
	if err := g.searchRecursive(ctx, 0, make(map[string]float64), eval, &points); err != nil {
		return nil, -1, err
	}

	best := -1
	for i, p := range points {
		if math.IsNaN(p.Value) {
			continue
		}
		if best < 0 || p.Value < points[best].Value {
			best = i
		}
	}
	return points, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	eval EvalFunc,
	points *[]Point,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		val, err := eval(ctx, current)
		if err != nil {
			return fmt.Errorf("%s: %w", formatParams(current), err)
		}
		*points = append(*points, Point{Params: current, Value: val})
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, eval, points); err != nil {
			return err
		}
	}
	return nil
}

func formatParams(params map[string]float64) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	s := ""
	for i, k := range keys {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%s=%g", k, params[k])
	}
	return s
}
