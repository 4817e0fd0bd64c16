// Package storage persists runs under a local data directory: one
// subdirectory per run with metadata JSON and CSV artifacts.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ecodyn/forestlab/internal/forest"
	"github.com/ecodyn/forestlab/internal/sim"
	"github.com/ecodyn/forestlab/internal/sobol"
)

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
	ID             string             `json:"id"`
	Kind           string             `json:"kind"` // "run", "sensitivity" or "sweep"
	Timestamp      time.Time          `json:"timestamp"`
	Integrator     string             `json:"integrator"`
	InitialBiomass float64            `json:"initial_biomass"`
	Horizon        int                `json:"horizon"`
	Seed           int64              `json:"seed"`
	Params         map[string]float64 `json:"params"`
	Metrics        map[string]float64 `json:"metrics"`
}

func paramsMap(p forest.Params) map[string]float64 {
	out := make(map[string]float64, forest.Dim)
	for i, v := range p.Vector() {
		out[forest.Names[i]] = v
	}
	return out
}

// SaveRun persists one trajectory: metadata.json plus trajectory.csv
// with (time, biomass) rows.
func (s *Store) SaveRun(integrator string, p forest.Params, c0 float64, horizon int, seed int64, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("run_%d", time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:             runID,
		Kind:           "run",
		Timestamp:      time.Now(),
		Integrator:     integrator,
		InitialBiomass: c0,
		Horizon:        horizon,
		Seed:           seed,
		Params:         paramsMap(p),
		Metrics:        result.Metrics,
	}
	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "trajectory.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write([]string{"time", "biomass"}); err != nil {
		return "", err
	}
	for i := range result.Times {
		row := []string{
			strconv.FormatFloat(result.Times[i], 'f', 6, 64),
			strconv.FormatFloat(result.States[i][0], 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

// SaveSensitivity persists a sensitivity analysis: metadata.json,
// indices.json and peaks.csv (the raw base-sample peak distribution).
func (s *Store) SaveSensitivity(integrator string, p forest.Params, c0 float64, horizon int, seed int64, result *sobol.Result) (string, error) {
	runID := fmt.Sprintf("sensitivity_%d", time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:             runID,
		Kind:           "sensitivity",
		Timestamp:      time.Now(),
		Integrator:     integrator,
		InitialBiomass: c0,
		Horizon:        horizon,
		Seed:           seed,
		Params:         paramsMap(p),
		Metrics: map[string]float64{
			"evaluations": float64(result.Evals),
			"samples":     float64(len(result.Base)),
		},
	}
	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, "indices.json"), indicesDoc(result)); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "peaks.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write([]string{"sample", "peak_biomass"}); err != nil {
		return "", err
	}
	for i, v := range result.Base {
		row := []string{strconv.Itoa(i), strconv.FormatFloat(v, 'f', 6, 64)}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

// IndexRecord is the serialized form of one parameter's indices.
type IndexRecord struct {
	Param      string  `json:"param"`
	FirstOrder float64 `json:"first_order"`
	FirstLow   float64 `json:"first_order_ci_low"`
	FirstHigh  float64 `json:"first_order_ci_high"`
	Total      float64 `json:"total_effect"`
	TotalLow   float64 `json:"total_effect_ci_low"`
	TotalHigh  float64 `json:"total_effect_ci_high"`
}

func indicesDoc(result *sobol.Result) []IndexRecord {
	records := make([]IndexRecord, len(result.FirstOrder))
	for i := range result.FirstOrder {
		records[i] = IndexRecord{
			Param:      forest.Names[i],
			FirstOrder: result.FirstOrder[i].Estimate,
			FirstLow:   result.FirstOrder[i].Low,
			FirstHigh:  result.FirstOrder[i].High,
			Total:      result.Total[i].Estimate,
			TotalLow:   result.Total[i].Low,
			TotalHigh:  result.Total[i].High,
		}
	}
	return records
}

func writeJSON(path string, v any) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

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

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadTrajectory reads back a run's trajectory.csv.
func (s *Store) LoadTrajectory(runID string) (times, biomass []float64, err error) {
	csvPath := filepath.Join(s.baseDir, runID, "trajectory.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	if len(records) < 2 {
		return []float64{}, []float64{}, nil
	}

	times = make([]float64, 0, len(records)-1)
	biomass = make([]float64, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 2 {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		c, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			continue
		}
		times = append(times, t)
		biomass = append(biomass, c)
	}

	return times, biomass, nil
}

// LoadIndices reads back a sensitivity run's indices.json.
func (s *Store) LoadIndices(runID string) ([]IndexRecord, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "indices.json"))
	if err != nil {
		return nil, err
	}
	var records []IndexRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}
