package dataset

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/san-kum/pulsesim/internal/analysis"
)

// WriteHistogram writes one "left<sep>count" line per bin.
func WriteHistogram(w io.Writer, h analysis.Histogram, sep string) error {
	bw := bufio.NewWriter(w)
	for i, c := range h.Counts {
		_, err := fmt.Fprintf(bw, "%s%s%s\n",
			strconv.FormatFloat(h.Edges[i], 'g', -1, 64),
			sep,
			strconv.FormatFloat(c, 'g', -1, 64),
		)
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}

func SaveHistogram(path string, h analysis.Histogram, sep string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteHistogram(f, h, sep); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadHistogram parses a dump written by WriteHistogram. The right edge of
// the last bin is extrapolated from the previous bin width.
func ReadHistogram(r io.Reader, sep string) (analysis.Histogram, error) {
	cr, err := newReader(r, sep)
	if err != nil {
		return analysis.Histogram{}, err
	}

	var h analysis.Histogram
	line := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return analysis.Histogram{}, err
		}
		line++
		if len(record) < 2 {
			continue
		}

		left, err := parseCell(record[0])
		if err != nil {
			return analysis.Histogram{}, fmt.Errorf("line %d: %w", line, err)
		}
		count, err := parseCell(record[1])
		if err != nil {
			return analysis.Histogram{}, fmt.Errorf("line %d: %w", line, err)
		}
		h.Edges = append(h.Edges, left)
		h.Counts = append(h.Counts, count)
	}

	if n := len(h.Edges); n > 0 {
		width := 1.0
		if n > 1 {
			width = h.Edges[n-1] - h.Edges[n-2]
		}
		h.Edges = append(h.Edges, h.Edges[n-1]+width)
	}
	return h, nil
}

func LoadHistogram(path, sep string) (analysis.Histogram, error) {
	f, err := os.Open(path)
	if err != nil {
		return analysis.Histogram{}, err
	}
	defer f.Close()
	return ReadHistogram(f, sep)
}
