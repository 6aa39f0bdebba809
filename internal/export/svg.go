package export

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/san-kum/pulsesim/internal/analysis"
)

// HistogramToSVG draws h as filled bars with an outline over the bin
// centers. An empty histogram yields an empty string.
func HistogramToSVG(h analysis.Histogram, width, height int, fillColor string) string {
	if h.Bins() == 0 || width <= 0 || height <= 0 {
		return ""
	}

	maxCount := 0.0
	for _, c := range h.Counts {
		if c > maxCount {
			maxCount = c
		}
	}
	if maxCount == 0 {
		maxCount = 1
	}
	// headroom above the tallest bar
	maxCount *= 1.1

	lo, hi := h.Edges[0], h.Edges[len(h.Edges)-1]
	span := hi - lo
	if span == 0 {
		span = 1
	}
	sx := func(x float64) float64 { return (x - lo) / span * float64(width) }
	sy := func(c float64) float64 { return float64(height) - c/maxCount*float64(height) }

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="%s" fill-opacity="0.6">
`, width, height, width, height, fillColor))

	for i, c := range h.Counts {
		if c <= 0 {
			continue
		}
		x0, x1 := sx(h.Edges[i]), sx(h.Edges[i+1])
		y := sy(c)
		sb.WriteString(fmt.Sprintf(`<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f"/>
`, x0, y, x1-x0, float64(height)-y))
	}
	sb.WriteString("</g>\n")

	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, fillColor))
	for i, c := range h.Counts {
		x := sx((h.Edges[i] + h.Edges[i+1]) / 2)
		y := sy(c)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}
	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

func WriteHistogramSVG(w io.Writer, h analysis.Histogram, width, height int, fillColor string) error {
	svg := HistogramToSVG(h, width, height, fillColor)
	if svg == "" {
		return fmt.Errorf("export: nothing to draw")
	}
	_, err := io.WriteString(w, svg)
	return err
}

func SaveHistogramSVG(path string, h analysis.Histogram, width, height int, fillColor string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteHistogramSVG(f, h, width, height, fillColor)
}
