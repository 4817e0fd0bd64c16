package storage

import (
	"encoding/json"
	"io"
	"os"
)

// ExportData is the full JSON export of one stored run.
type ExportData struct {
	ID         string             `json:"id"`
	Kind       string             `json:"kind"`
	Integrator string             `json:"integrator"`
	Horizon    int                `json:"horizon"`
	Params     map[string]float64 `json:"params"`
	Times      []float64          `json:"times"`
	Biomass    []float64          `json:"biomass"`
	Metrics    map[string]float64 `json:"metrics"`
}

// ExportJSON writes a stored run (metadata plus trajectory) to w.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	times, biomass, err := s.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	data := ExportData{
		ID:         meta.ID,
		Kind:       meta.Kind,
		Integrator: meta.Integrator,
		Horizon:    meta.Horizon,
		Params:     meta.Params,
		Times:      times,
		Biomass:    biomass,
		Metrics:    meta.Metrics,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// ExportJSONStdout is ExportJSON to standard output.
func (s *Store) ExportJSONStdout(runID string) error {
	return s.ExportJSON(os.Stdout, runID)
}
