// Package sobol estimates variance-based global sensitivity indices
// (first-order and total-effect) with Saltelli's paired-matrix design
// and bootstrap confidence intervals.
package sobol

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrDesign indicates base matrices that cannot form a Saltelli
	// design.
	ErrDesign = errors.New("sobol: invalid design matrices")

	// ErrDegenerateVariance indicates that all evaluations were
	// identical, leaving no output variance to decompose.
	ErrDegenerateVariance = errors.New("sobol: degenerate output variance")
)

// Design is the Saltelli evaluation plan built from two independent
// n-by-k base matrices. The evaluation rows are, in order: the n rows
// of A, the n rows of B, then for each column i the matrix AB_i (A
// with column i taken from B), then for each column i the matrix BA_i
// (B with column i taken from A). Total: n*(2k+2) rows.
type Design struct {
	A, B *mat.Dense
	n, k int
}

// NewDesign validates the base matrices and fixes the row layout.
func NewDesign(x1, x2 *mat.Dense) (*Design, error) {
	if x1 == nil || x2 == nil {
		return nil, fmt.Errorf("%w: nil base matrix", ErrDesign)
	}
	n1, k1 := x1.Dims()
	n2, k2 := x2.Dims()
	if n1 != n2 || k1 != k2 {
		return nil, fmt.Errorf("%w: X1 is %dx%d, X2 is %dx%d", ErrDesign, n1, k1, n2, k2)
	}
	if n1 == 0 || k1 == 0 {
		return nil, fmt.Errorf("%w: empty base matrices", ErrDesign)
	}
	return &Design{A: x1, B: x2, n: n1, k: k1}, nil
}

// Samples returns the base sample count n.
func (d *Design) Samples() int { return d.n }

// Params returns the parameter count k.
func (d *Design) Params() int { return d.k }

// Len returns the total number of evaluation rows, n*(2k+2).
func (d *Design) Len() int { return d.n * (2*d.k + 2) }

// Row materializes evaluation row j as a parameter vector. Rows are
// assembled on the fly; the combined design is never stored.
func (d *Design) Row(j int) []float64 {
	out := make([]float64, d.k)
	block := j / d.n
	i := j % d.n

	switch {
	case block == 0:
		mat.Row(out, i, d.A)
	case block == 1:
		mat.Row(out, i, d.B)
	case block < 2+d.k:
		col := block - 2
		mat.Row(out, i, d.A)
		out[col] = d.B.At(i, col)
	default:
		col := block - 2 - d.k
		mat.Row(out, i, d.B)
		out[col] = d.A.At(i, col)
	}
	return out
}
