package forest

import (
	"errors"
	"math"
	"testing"

	"github.com/ecodyn/forestlab/internal/sim"
)

func TestStandExponentialRegime(t *testing.T) {
	s := New(DefaultParams())

	for _, c := range []float64{0.1, 1, 10, 49.999} {
		dx := s.Derivative(0, sim.State{c})
		want := s.Params.GrowthRate * c
		if math.Abs(dx[0]-want) > 1e-12 {
			t.Errorf("C=%g: rate = %g, want r*C = %g", c, dx[0], want)
		}
	}
}

func TestStandLogisticRegime(t *testing.T) {
	s := New(DefaultParams())

	for _, c := range []float64{50, 100, 249, 250} {
		dx := s.Derivative(0, sim.State{c})
		want := s.Params.LogisticRate * c * (1 - c/s.Params.Capacity)
		if math.Abs(dx[0]-want) > 1e-12 {
			t.Errorf("C=%g: rate = %g, want g*C*(1-C/K) = %g", c, dx[0], want)
		}
	}
}

func TestStandSwitchAtThreshold(t *testing.T) {
	s := New(DefaultParams())

	// C == thresh belongs to the logistic regime.
	dx := s.Derivative(0, sim.State{s.Params.Threshold})
	want := s.Params.LogisticRate * s.Params.Threshold * (1 - s.Params.Threshold/s.Params.Capacity)
	if math.Abs(dx[0]-want) > 1e-12 {
		t.Errorf("at C=thresh: rate = %g, want logistic %g", dx[0], want)
	}
}

func TestStandSaturation(t *testing.T) {
	s := New(DefaultParams())

	if dx := s.Derivative(0, sim.State{s.Params.Capacity}); dx[0] != 0 {
		t.Errorf("rate at C=K should be zero, got %g", dx[0])
	}
	if dx := s.Derivative(0, sim.State{s.Params.Capacity * 1.2}); dx[0] >= 0 {
		t.Errorf("rate above K should be negative, got %g", dx[0])
	}
}

func TestStandTimeIndependence(t *testing.T) {
	s := New(DefaultParams())

	a := s.Derivative(0, sim.State{30})
	b := s.Derivative(123.456, sim.State{30})
	if a[0] != b[0] {
		t.Errorf("rate depends on t: %g vs %g", a[0], b[0])
	}
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Params)
		wantErr bool
	}{
		{"default", func(p *Params) {}, false},
		{"zero growth rate", func(p *Params) { p.GrowthRate = 0 }, true},
		{"negative growth rate", func(p *Params) { p.GrowthRate = -0.01 }, true},
		{"zero capacity", func(p *Params) { p.Capacity = 0 }, true},
		{"zero logistic rate", func(p *Params) { p.LogisticRate = 0 }, true},
		{"zero threshold", func(p *Params) { p.Threshold = 0 }, true},
		{"threshold at capacity", func(p *Params) { p.Threshold = 250 }, true},
		{"threshold above capacity", func(p *Params) { p.Threshold = 300 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr && !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("expected ErrInvalidParameter, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestVectorRoundTrip(t *testing.T) {
	p := DefaultParams()
	v := p.Vector()
	if len(v) != Dim {
		t.Fatalf("vector length %d, want %d", len(v), Dim)
	}

	back, err := FromVector(v)
	if err != nil {
		t.Fatalf("FromVector: %v", err)
	}
	if back != p {
		t.Errorf("round trip mismatch: %+v vs %+v", back, p)
	}

	if _, err := FromVector([]float64{1, 2}); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter for short vector, got %v", err)
	}
}
