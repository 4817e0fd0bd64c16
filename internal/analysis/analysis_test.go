package analysis

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestPeakInterior(t *testing.T) {
	xs := []float64{1, 5, 9, 4, 2}
	if got := Peak(xs); got != 9 {
		t.Errorf("Peak = %g, want 9", got)
	}

	tm, v := PeakAt([]float64{1, 2, 3, 4, 5}, xs)
	if tm != 3 || v != 9 {
		t.Errorf("PeakAt = (%g, %g), want (3, 9)", tm, v)
	}
}

func TestPeakAtFinalPoint(t *testing.T) {
	// Monotone trajectory: the maximum sits at the last row and needs
	// no special handling.
	xs := []float64{1, 2, 3, 4, 5}
	if got := Peak(xs); got != 5 {
		t.Errorf("Peak = %g, want 5", got)
	}

	tm, v := PeakAt([]float64{10, 20, 30, 40, 50}, xs)
	if tm != 50 || v != 5 {
		t.Errorf("PeakAt = (%g, %g), want (50, 5)", tm, v)
	}
}

func TestPeakEmpty(t *testing.T) {
	if got := Peak(nil); !math.IsNaN(got) {
		t.Errorf("Peak(nil) = %g, want NaN", got)
	}
}

func TestTimeToThreshold(t *testing.T) {
	times := []float64{1, 2, 3, 4}
	xs := []float64{10, 40, 60, 80}

	if got := TimeToThreshold(times, xs, 50); got != 3 {
		t.Errorf("TimeToThreshold = %g, want 3", got)
	}
	if got := TimeToThreshold(times, xs, 10); got != 1 {
		t.Errorf("threshold at first row: got %g, want 1", got)
	}
	if got := TimeToThreshold(times, xs, 100); !math.IsNaN(got) {
		t.Errorf("unreached threshold: got %g, want NaN", got)
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{4, 1, 3, 2, 5})

	if s.Min != 1 || s.Max != 5 {
		t.Errorf("min/max = %g/%g, want 1/5", s.Min, s.Max)
	}
	if s.Median != 3 {
		t.Errorf("median = %g, want 3", s.Median)
	}
	if math.Abs(s.Mean-3) > 1e-12 {
		t.Errorf("mean = %g, want 3", s.Mean)
	}
	if s.Q1 > s.Median || s.Median > s.Q3 {
		t.Errorf("quartiles out of order: %g %g %g", s.Q1, s.Median, s.Q3)
	}
	if s.N != 5 {
		t.Errorf("N = %d, want 5", s.N)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if !math.IsNaN(s.Median) {
		t.Errorf("empty summary median = %g, want NaN", s.Median)
	}
}

func TestSweep(t *testing.T) {
	points, err := Sweep(context.Background(), 0, 10, 11, 2, func(v float64) (float64, error) {
		return v * v, nil
	})
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}

	if len(points) != 11 {
		t.Fatalf("got %d points, want 11", len(points))
	}
	for i, p := range points {
		want := float64(i)
		if math.Abs(p.Param-want) > 1e-12 || math.Abs(p.Peak-want*want) > 1e-12 {
			t.Errorf("point %d = %+v, want param %g peak %g", i, p, want, want*want)
		}
	}
}

func TestSweepPropagatesError(t *testing.T) {
	boom := errors.New("unstable")
	_, err := Sweep(context.Background(), 0, 1, 5, 1, func(v float64) (float64, error) {
		if v > 0.5 {
			return 0, boom
		}
		return v, nil
	})
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped sweep error, got %v", err)
	}
}

func TestSweepInvalidRange(t *testing.T) {
	if _, err := Sweep(context.Background(), 1, 1, 5, 1, nil); err == nil {
		t.Error("expected error for empty range")
	}
	if _, err := Sweep(context.Background(), 0, 1, 1, 1, nil); err == nil {
		t.Error("expected error for single step")
	}
}
