package storage

import (
	"bytes"
	"encoding/json"
	"math"
	"testing"

	"github.com/ecodyn/forestlab/internal/forest"
	"github.com/ecodyn/forestlab/internal/sim"
	"github.com/ecodyn/forestlab/internal/sobol"
)

func testResult() *sim.Result {
	return &sim.Result{
		Times:  []float64{1, 2, 3},
		States: []sim.State{{10}, {12}, {15}},
		Metrics: map[string]float64{
			"peak_biomass": 15,
		},
	}
}

func TestStoreSaveLoadRun(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	p := forest.DefaultParams()
	runID, err := st.SaveRun("rk4", p, 10, 300, 42, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Fatal("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Kind != "run" {
		t.Errorf("kind = %q, want run", meta.Kind)
	}
	if meta.Seed != 42 {
		t.Errorf("seed = %d, want 42", meta.Seed)
	}
	if meta.Params["K"] != p.Capacity {
		t.Errorf("params K = %g, want %g", meta.Params["K"], p.Capacity)
	}
	if meta.Metrics["peak_biomass"] != 15 {
		t.Errorf("peak_biomass = %g, want 15", meta.Metrics["peak_biomass"])
	}

	times, biomass, err := st.LoadTrajectory(runID)
	if err != nil {
		t.Fatalf("load trajectory failed: %v", err)
	}
	if len(times) != 3 || len(biomass) != 3 {
		t.Fatalf("trajectory rows = %d/%d, want 3/3", len(times), len(biomass))
	}
	if biomass[2] != 15 {
		t.Errorf("biomass[2] = %g, want 15", biomass[2])
	}
}

func TestStoreSaveSensitivity(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	res := &sobol.Result{
		FirstOrder: []sobol.Index{{Estimate: 0.1, Low: 0.05, High: 0.15}, {Estimate: 0.7, Low: 0.6, High: 0.8}, {Estimate: 0.05, Low: 0, High: 0.1}, {Estimate: -0.01, Low: -0.05, High: 0.02}},
		Total:      []sobol.Index{{Estimate: 0.2, Low: 0.1, High: 0.3}, {Estimate: 0.75, Low: 0.7, High: 0.85}, {Estimate: 0.1, Low: 0.05, High: 0.2}, {Estimate: 0.02, Low: 0, High: 0.05}},
		Base:       []float64{250.1, 249.8, 251.2},
		Evals:      30,
	}

	runID, err := st.SaveSensitivity("rk4", forest.DefaultParams(), 10, 300, 7, res)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	records, err := st.LoadIndices(runID)
	if err != nil {
		t.Fatalf("load indices failed: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("got %d index records, want 4", len(records))
	}
	if records[0].Param != "r" || records[3].Param != "thresh" {
		t.Errorf("param names out of order: %q ... %q", records[0].Param, records[3].Param)
	}
	// Negative estimates survive serialization unclamped.
	if records[3].FirstOrder != -0.01 {
		t.Errorf("negative first-order index = %g, want -0.01", records[3].FirstOrder)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Kind != "sensitivity" {
		t.Errorf("kind = %q, want sensitivity", meta.Kind)
	}
	if math.Abs(meta.Metrics["evaluations"]-30) > 0 {
		t.Errorf("evaluations = %g, want 30", meta.Metrics["evaluations"])
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}

	if _, err := st.SaveRun("rk4", forest.DefaultParams(), 10, 300, 1, testResult()); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestExportJSON(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.SaveRun("euler", forest.DefaultParams(), 10, 300, 1, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	var buf bytes.Buffer
	if err := st.ExportJSON(&buf, runID); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if data.ID != runID || data.Integrator != "euler" {
		t.Errorf("export meta = %q/%q, want %q/euler", data.ID, data.Integrator, runID)
	}
	if len(data.Biomass) != 3 {
		t.Errorf("export biomass rows = %d, want 3", len(data.Biomass))
	}
}

func TestLoadMissingRun(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("nope"); err == nil {
		t.Error("expected error for missing run")
	}
}
