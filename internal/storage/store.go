package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/pulsesim/internal/analysis"
	"github.com/san-kum/pulsesim/internal/roll"
	"github.com/san-kum/pulsesim/internal/signal"
)

const (
	metadataFile = "metadata.json"
	outcomesFile = "outcomes.csv"
)

var ErrNoOutcomes = errors.New("storage: run has no outcome table")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string           `json:"id"`
	Kind      string           `json:"kind"`
	Timestamp time.Time        `json:"timestamp"`
	Seed      uint64           `json:"seed"`
	Seeded    bool             `json:"seeded"`
	Trials    int              `json:"trials"`
	Workers   int              `json:"workers"`
	Window    signal.Window    `json:"window"`
	OffsetMin int              `json:"offset_min"`
	OffsetMax int              `json:"offset_max"`
	Summary   analysis.Summary `json:"summary"`
}

// SaveIntegrals stores a single-pulse batch. meta.ID and meta.Timestamp are
// filled in by the store.
func (s *Store) SaveIntegrals(meta RunMetadata, integrals []float64) (string, error) {
	rows := make([][]float64, len(integrals))
	for i, v := range integrals {
		rows[i] = []float64{v}
	}
	meta.Summary = analysis.Summarize(integrals)
	return s.save(meta, []string{"integral"}, rows)
}

// SaveOutcomes stores a double-overlap batch.
func (s *Store) SaveOutcomes(meta RunMetadata, outcomes []roll.Outcome) (string, error) {
	meta.Summary = analysis.Summarize(roll.Integrals(outcomes))
	return s.save(meta, roll.Columns, roll.Rows(outcomes))
}

func (s *Store) save(meta RunMetadata, header []string, rows [][]float64) (string, error) {
	if err := s.Init(); err != nil {
		return "", err
	}

	now := time.Now()
	var runID, runDir string
	// bump the stamp until the directory is new
	for stamp := now.UnixNano(); ; stamp++ {
		runID = fmt.Sprintf("%s_%d", meta.Kind, stamp)
		runDir = filepath.Join(s.baseDir, runID)
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			break
		}
		if !os.IsExist(err) {
			return "", err
		}
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Trials = len(rows)

	if err := writeRun(runDir, meta, header, rows); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}
	return runID, nil
}

func writeRun(runDir string, meta RunMetadata, header []string, rows [][]float64) error {
	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return err
	}
	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		metaFile.Close()
		return err
	}
	if err := metaFile.Close(); err != nil {
		return err
	}

	csvFile, err := os.Create(filepath.Join(runDir, outcomesFile))
	if err != nil {
		return err
	}
	if err := writeTable(csvFile, header, rows); err != nil {
		csvFile.Close()
		return err
	}
	if err := csvFile.Sync(); err != nil {
		csvFile.Close()
		return err
	}
	return csvFile.Close()
}

func writeTable(out io.Writer, header []string, rows [][]float64) error {
	w := csv.NewWriter(out)
	if err := w.Write(header); err != nil {
		return err
	}

	record := make([]string, len(header))
	for i, row := range rows {
		if len(row) != len(header) {
			return fmt.Errorf("row %d has %d values, header has %d", i, len(row), len(header))
		}
		for j, v := range row {
			record[j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		if runs[i].Timestamp.Equal(runs[j].Timestamp) {
			return runs[i].ID < runs[j].ID
		}
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadOutcomes reads the outcome table of a run. Columns absent from a
// single-pulse run are left zero.
func (s *Store) LoadOutcomes(runID string) ([]roll.Outcome, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, outcomesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoOutcomes
	}

	index := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		index[name] = i
	}
	if _, ok := index["integral"]; !ok {
		return nil, fmt.Errorf("%w: missing integral column in %s", ErrNoOutcomes, runID)
	}

	outcomes := make([]roll.Outcome, 0, len(records)-1)
	for line, record := range records[1:] {
		var row [4]float64
		for j, name := range roll.Columns {
			col, ok := index[name]
			if !ok || col >= len(record) {
				continue
			}
			v, err := strconv.ParseFloat(record[col], 64)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: %w", outcomesFile, line+2, err)
			}
			row[j] = v
		}
		outcomes = append(outcomes, roll.Outcome{
			Offset:   int(row[0]),
			Amp1:     row[1],
			Amp2:     row[2],
			Integral: row[3],
		})
	}

	return outcomes, nil
}

// ExportCSV copies the outcome table of a run to w.
func (s *Store) ExportCSV(runID string, w io.Writer) error {
	file, err := os.Open(filepath.Join(s.baseDir, runID, outcomesFile))
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = io.Copy(w, file)
	return err
}
