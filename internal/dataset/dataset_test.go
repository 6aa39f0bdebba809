package dataset

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/san-kum/pulsesim/internal/analysis"
	"github.com/san-kum/pulsesim/internal/prob"
	"github.com/san-kum/pulsesim/internal/signal"
)

const spectrum = "E\tch1\tch2\n" +
	"0\t0\t0\n" +
	"1\t1\t1\n" +
	"2\t\t0\n" +
	"30\t5\t5\n"

func TestReadTableSumsColumns(t *testing.T) {
	x, y, err := ReadTable(strings.NewReader(spectrum), "\t")
	require.NoError(t, err)
	require.Equal(t, []float64{0, 1, 2, 30}, x)
	require.Equal(t, []float64{0, 2, 0, 10}, y)
}

func TestReadTableRejectsGarbage(t *testing.T) {
	_, _, err := ReadTable(strings.NewReader("h\n1\tabc\n"), "\t")
	require.Error(t, err)

	_, _, err = ReadTable(strings.NewReader(spectrum), "::")
	require.ErrorIs(t, err, ErrSeparator)
}

func TestReadDensityTrimsAndNormalizes(t *testing.T) {
	d, err := ReadDensity(strings.NewReader(spectrum), "\t", DefaultTrimLength)
	require.NoError(t, err)
	require.Equal(t, []float64{0, 1, 2}, d.E)
	require.InDelta(t, 1.0, prob.Mass(d), 1e-12)
	require.Equal(t, []float64{0, 1, 0}, d.P)
}

func TestReadDensityWithoutTrim(t *testing.T) {
	d, err := ReadDensity(strings.NewReader(spectrum), "\t", 0)
	require.NoError(t, err)
	require.Len(t, d.E, 4)
	require.InDelta(t, 1.0, prob.Mass(d), 1e-12)
}

func TestReadDensityZeroMass(t *testing.T) {
	_, err := ReadDensity(strings.NewReader("E\tP\n0\t0\n1\t0\n"), "\t", 0)
	require.ErrorIs(t, err, prob.ErrZeroMass)
}

func TestLoadSignal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pulse.tsv")
	require.NoError(t, os.WriteFile(path, []byte("ch,amp\n0,1\n1,3\n2,2\n"), 0644))

	s, err := LoadSignal(path, ",")
	require.NoError(t, err)
	require.Equal(t, signal.Signal{X: []float64{0, 1, 2}, Y: []float64{1, 3, 2}}, s)

	_, err = LoadSignal(filepath.Join(t.TempDir(), "missing"), ",")
	require.Error(t, err)
}

func TestLoadSignalEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.tsv")
	require.NoError(t, os.WriteFile(path, []byte("ch\tamp\n"), 0644))

	_, err := LoadSignal(path, "\t")
	require.ErrorIs(t, err, signal.ErrMalformedSignal)
}

func TestReadSignalRejectsNonFinite(t *testing.T) {
	_, err := ReadSignal(strings.NewReader("ch\tamp\n0\t1\n1\tInf\n2\tNaN\n"), "\t")
	require.ErrorIs(t, err, signal.ErrMalformedSignal)
}

func TestHistogramRoundTrip(t *testing.T) {
	h := analysis.Histogram{
		Edges:  []float64{0, 0.5, 1, 1.5},
		Counts: []float64{3, 0.25, 7},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteHistogram(&buf, h, " "))
	require.Equal(t, "0 3\n0.5 0.25\n1 7\n", buf.String())

	got, err := ReadHistogram(&buf, " ")
	require.NoError(t, err)
	require.Equal(t, h, got)
}

func TestSaveLoadHistogram(t *testing.T) {
	h, err := analysis.NewHistogram([]float64{1, 2, 2, 3, 3, 3}, 3, false)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "hist.txt")
	require.NoError(t, SaveHistogram(path, h, "\t"))

	got, err := LoadHistogram(path, "\t")
	require.NoError(t, err)
	require.Equal(t, h.Counts, got.Counts)

	left, right := got.SplitAt(2.5)
	require.Equal(t, h.Total(), left+right)
}
