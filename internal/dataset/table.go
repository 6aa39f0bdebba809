// Package dataset reads experimental spectra and pulse templates from
// delimited text files and reads/writes histogram dumps.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/san-kum/pulsesim/internal/prob"
	"github.com/san-kum/pulsesim/internal/signal"
)

const DefaultSeparator = "\t"

// DefaultTrimLength drops spectrum points above this energy.
const DefaultTrimLength = 20.0

var ErrSeparator = errors.New("dataset: separator must be a single character")

func newReader(r io.Reader, sep string) (*csv.Reader, error) {
	if utf8.RuneCountInString(sep) != 1 {
		return nil, fmt.Errorf("%w: %q", ErrSeparator, sep)
	}
	comma, _ := utf8.DecodeRuneInString(sep)

	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true
	return cr, nil
}

func parseCell(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, nil
	}
	return strconv.ParseFloat(cell, 64)
}

// ReadTable reads a table with one header line. The first column is the axis;
// the value of a row is the sum of all other columns, empty cells being 0.
func ReadTable(r io.Reader, sep string) (axis, values []float64, err error) {
	cr, err := newReader(r, sep)
	if err != nil {
		return nil, nil, err
	}

	line := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		line++
		if line == 1 || len(record) == 0 || (len(record) == 1 && strings.TrimSpace(record[0]) == "") {
			continue
		}

		x, err := parseCell(record[0])
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", line, err)
		}
		sum := 0.0
		for _, cell := range record[1:] {
			v, err := parseCell(cell)
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: %w", line, err)
			}
			sum += v
		}
		axis = append(axis, x)
		values = append(values, sum)
	}
	return axis, values, nil
}

// ReadDensity reads a spectrum, drops points with E > trimLength
// (trimLength <= 0 keeps everything) and normalizes it.
func ReadDensity(r io.Reader, sep string, trimLength float64) (prob.Density, error) {
	e, p, err := ReadTable(r, sep)
	if err != nil {
		return prob.Density{}, err
	}

	d := prob.Density{E: e, P: p}
	if trimLength > 0 {
		d = trim(d, trimLength)
	}
	return prob.Normalize(d)
}

func trim(d prob.Density, limit float64) prob.Density {
	out := prob.Density{}
	for i, e := range d.E {
		if e <= limit {
			out.E = append(out.E, e)
			out.P = append(out.P, d.P[i])
		}
	}
	return out
}

func LoadDensity(path, sep string, trimLength float64) (prob.Density, error) {
	f, err := os.Open(path)
	if err != nil {
		return prob.Density{}, err
	}
	defer f.Close()

	d, err := ReadDensity(f, sep, trimLength)
	if err != nil {
		return prob.Density{}, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

func ReadSignal(r io.Reader, sep string) (signal.Signal, error) {
	x, y, err := ReadTable(r, sep)
	if err != nil {
		return signal.Signal{}, err
	}
	s := signal.Signal{X: x, Y: y}
	return s, s.Validate()
}

func LoadSignal(path, sep string) (signal.Signal, error) {
	f, err := os.Open(path)
	if err != nil {
		return signal.Signal{}, err
	}
	defer f.Close()

	s, err := ReadSignal(f, sep)
	if err != nil {
		return signal.Signal{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
