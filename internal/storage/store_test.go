package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/san-kum/pulsesim/internal/roll"
	"github.com/san-kum/pulsesim/internal/signal"
)

func TestStoreSaveLoadOutcomes(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	outcomes := []roll.Outcome{
		{Offset: 3, Amp1: 1.5, Amp2: 2.25, Integral: 10},
		{Offset: 0, Amp1: 0.5, Amp2: 4, Integral: 20},
	}
	meta := RunMetadata{
		Kind:      roll.KindDouble,
		Seed:      42,
		Seeded:    true,
		Workers:   2,
		Window:    signal.NewWindow(2, 3),
		OffsetMin: 0,
		OffsetMax: 42,
	}

	runID, err := st.SaveOutcomes(meta, outcomes)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(runID, roll.KindDouble+"_"))

	loaded, err := st.Load(runID)
	require.NoError(t, err)
	require.Equal(t, runID, loaded.ID)
	require.Equal(t, uint64(42), loaded.Seed)
	require.Equal(t, 2, loaded.Trials)
	require.Equal(t, signal.DefaultCenter, loaded.Window.Center)
	require.Equal(t, 2, loaded.Summary.Count)
	require.InDelta(t, 15.0, loaded.Summary.Mean, 1e-12)

	got, err := st.LoadOutcomes(runID)
	require.NoError(t, err)
	require.Equal(t, outcomes, got)
}

func TestStoreSaveIntegrals(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "nested"))

	runID, err := st.SaveIntegrals(RunMetadata{Kind: roll.KindSingle}, []float64{1, 2, 3})
	require.NoError(t, err)

	got, err := st.LoadOutcomes(runID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, 2.0, got[1].Integral)
	require.Zero(t, got[1].Offset)

	var buf bytes.Buffer
	require.NoError(t, st.ExportCSV(runID, &buf))
	require.Equal(t, "integral\n1\n2\n3\n", buf.String())
}

func TestStoreList(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	runs, err := st.List()
	require.NoError(t, err)
	require.Empty(t, runs)

	first, err := st.SaveIntegrals(RunMetadata{Kind: roll.KindSingle}, []float64{1})
	require.NoError(t, err)
	second, err := st.SaveIntegrals(RunMetadata{Kind: roll.KindSingle}, []float64{2})
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	// stray entries are skipped
	require.NoError(t, os.Mkdir(filepath.Join(dir, "junk"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	runs, err = st.List()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	require.Equal(t, first, runs[0].ID)
	require.Equal(t, second, runs[1].ID)
}

func TestStoreListMissingDir(t *testing.T) {
	runs, err := New(filepath.Join(t.TempDir(), "absent")).List()
	require.NoError(t, err)
	require.Empty(t, runs)
}

func TestStoreLoadMissingRun(t *testing.T) {
	st := New(t.TempDir())
	_, err := st.Load("nope")
	require.Error(t, err)
	_, err = st.LoadOutcomes("nope")
	require.Error(t, err)
}

func TestLoadOutcomesWithoutIntegral(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "bad"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad", outcomesFile), []byte("offset\n1\n"), 0644))

	_, err := New(dir).LoadOutcomes("bad")
	require.ErrorIs(t, err, ErrNoOutcomes)
}

func TestExportJSON(t *testing.T) {
	st := New(t.TempDir())
	outcomes := []roll.Outcome{{Offset: 1, Amp1: 2, Amp2: 3, Integral: 4}}
	runID, err := st.SaveOutcomes(RunMetadata{Kind: roll.KindDouble}, outcomes)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, st.ExportJSON(runID, &buf))

	var data ExportData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &data))
	require.Equal(t, runID, data.ID)
	require.Equal(t, roll.KindDouble, data.Kind)
	require.Equal(t, outcomes, data.Outcomes)
}

func TestSaveFailureLeavesNoRunDir(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	_, err := st.save(RunMetadata{Kind: roll.KindSingle}, []string{"integral"}, [][]float64{{1}, {2, 3}})
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)

	runs, err := st.List()
	require.NoError(t, err)
	require.Empty(t, runs)
}
