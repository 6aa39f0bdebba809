package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/pulsesim/internal/roll"
)

type ExportData struct {
	RunMetadata
	Outcomes []roll.Outcome `json:"outcomes"`
}

// ExportJSON writes the metadata and outcomes of a run as one indented
// JSON document.
func (s *Store) ExportJSON(runID string, w io.Writer) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	outcomes, err := s.LoadOutcomes(runID)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{RunMetadata: *meta, Outcomes: outcomes})
}
