package sobol

import (
	"context"
	"math/rand"
	"sort"

	mrg63k3a "github.com/maseology/goRNG/MRG63k3a"
	"gonum.org/v1/gonum/stat"

	"github.com/ecodyn/forestlab/internal/sim"
)

// Func maps one flattened parameter tuple to one scalar model output.
// It must be deterministic and safe for concurrent calls; each call
// owns its inputs and shares nothing.
type Func func(params []float64) (float64, error)

// Index is one sensitivity index with its bootstrap percentile
// confidence interval. Estimates may come out negative from Monte
// Carlo noise; they are reported as-is.
type Index struct {
	Estimate float64
	Low      float64
	High     float64
}

// Result holds the per-parameter indices plus the n raw base-matrix
// outputs (the peak-biomass distribution in the reference analysis).
type Result struct {
	FirstOrder []Index
	Total      []Index
	Base       []float64
	Evals      int
}

// Estimator runs the Saltelli evaluation plan and computes indices.
// The zero value is not usable; use NewEstimator.
type Estimator struct {
	Workers    int     // parallel evaluation workers; <=0 means NumCPU
	Replicates int     // bootstrap replicate count B
	Level      float64 // confidence level, e.g. 0.95
	Seed       int64   // bootstrap resampling seed
}

func NewEstimator() *Estimator {
	return &Estimator{
		Replicates: 300,
		Level:      0.95,
		Seed:       1,
	}
}

// Estimate evaluates every design row and returns first-order and
// total-effect indices for each of the k parameters.
//
// Evaluations run as a parallel map: completion order is free, but
// results aggregate by row index so the row-to-column mapping is
// stable. The first evaluation error cancels the remaining rows and is
// returned as-is.
func (e *Estimator) Estimate(ctx context.Context, d *Design, f Func) (*Result, error) {
	ys := make([]float64, d.Len())
	err := sim.Batch(ctx, d.Len(), e.Workers, func(ctx context.Context, j int) error {
		y, err := f(d.Row(j))
		if err != nil {
			return err
		}
		ys[j] = y
		return nil
	})
	if err != nil {
		return nil, err
	}

	n, k := d.Samples(), d.Params()
	ev := newEvaluations(ys, n, k)

	first, total, err := ev.indices(identity(n))
	if err != nil {
		return nil, err
	}

	res := &Result{
		FirstOrder: make([]Index, k),
		Total:      make([]Index, k),
		Base:       append([]float64(nil), ev.fA...),
		Evals:      d.Len(),
	}
	for i := 0; i < k; i++ {
		res.FirstOrder[i].Estimate = first[i]
		res.Total[i].Estimate = total[i]
	}

	if e.Replicates > 0 {
		if err := e.bootstrap(ev, res); err != nil {
			return nil, err
		}
	} else {
		for i := 0; i < k; i++ {
			res.FirstOrder[i].Low, res.FirstOrder[i].High = first[i], first[i]
			res.Total[i].Low, res.Total[i].High = total[i], total[i]
		}
	}

	return res, nil
}

// bootstrap resamples the n base-sample indices with replacement and
// recomputes the indices per replicate, then takes percentile bounds.
func (e *Estimator) bootstrap(ev *evaluations, res *Result) error {
	rng := rand.New(mrg63k3a.New())
	rng.Seed(e.Seed)

	k := ev.k
	firstReps := make([][]float64, k)
	totalReps := make([][]float64, k)
	for i := 0; i < k; i++ {
		firstReps[i] = make([]float64, 0, e.Replicates)
		totalReps[i] = make([]float64, 0, e.Replicates)
	}

	idx := make([]int, ev.n)
	for r := 0; r < e.Replicates; r++ {
		for i := range idx {
			idx[i] = rng.Intn(ev.n)
		}
		first, total, err := ev.indices(idx)
		if err != nil {
			// A resample that collapses to zero variance contributes
			// no replicate; extremely unlikely unless the full set is
			// near-degenerate already.
			continue
		}
		for i := 0; i < k; i++ {
			firstReps[i] = append(firstReps[i], first[i])
			totalReps[i] = append(totalReps[i], total[i])
		}
	}

	alpha := 1 - e.Level
	for i := 0; i < k; i++ {
		if len(firstReps[i]) == 0 {
			return ErrDegenerateVariance
		}
		res.FirstOrder[i].Low, res.FirstOrder[i].High = percentileInterval(firstReps[i], alpha)
		res.Total[i].Low, res.Total[i].High = percentileInterval(totalReps[i], alpha)
	}
	return nil
}

func percentileInterval(xs []float64, alpha float64) (lo, hi float64) {
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	lo = stat.Quantile(alpha/2, stat.Empirical, sorted, nil)
	hi = stat.Quantile(1-alpha/2, stat.Empirical, sorted, nil)
	return lo, hi
}

func identity(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}
