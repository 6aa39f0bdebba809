package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/pulsesim/internal/analysis"
	"github.com/san-kum/pulsesim/internal/signal"
)

const (
	PlotWidth  = 70
	PlotHeight = 12
)

// Plot draws the bin counts of h. The caption is extended with the range
// covered by the edges.
func Plot(h analysis.Histogram, caption string) string {
	return PlotSize(h, caption, PlotWidth, PlotHeight)
}

func PlotSize(h analysis.Histogram, caption string, width, height int) string {
	if h.Bins() == 0 {
		return Subtle.Render("(no data)")
	}
	counts := h.Counts
	if len(counts) == 1 {
		// asciigraph needs two points for a line
		counts = []float64{counts[0], counts[0]}
	}
	lo, hi := h.Edges[0], h.Edges[len(h.Edges)-1]
	return asciigraph.Plot(counts,
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.Caption(fmt.Sprintf("%s [%.4g, %.4g]", caption, lo, hi)),
	)
}

// PlotSignal draws the amplitudes of s. The caption names the channel span
// and the integration window w.
func PlotSignal(s signal.Signal, w signal.Window, caption string) string {
	if s.Len() == 0 {
		return Subtle.Render("(no data)")
	}
	ys := s.Y
	if len(ys) == 1 {
		ys = []float64{ys[0], ys[0]}
	}
	from, to := w.Bounds()
	return asciigraph.Plot(ys,
		asciigraph.Width(PlotWidth),
		asciigraph.Height(PlotHeight),
		asciigraph.Caption(fmt.Sprintf("%s ch [%.4g, %.4g] window [%.4g, %.4g]",
			caption, s.X[0], s.X[len(s.X)-1], from, to)),
	)
}
