// Package sample draws parameter sample matrices for Monte Carlo
// sensitivity analysis. Each draw maps a sample index to one flattened
// parameter tuple; negative values are floored to zero at generation
// time, before any matrix recombination downstream.
package sample

import (
	"errors"
	"fmt"

	"github.com/ecodyn/forestlab/internal/forest"
)

// ErrInvalidSpec indicates a sampling space that cannot be drawn from.
var ErrInvalidSpec = errors.New("sample: invalid sampling spec")

// Marginal is an independent Normal marginal for one parameter.
type Marginal struct {
	Name string
	Mean float64
	SD   float64
}

// Space is the joint sampling distribution: one Normal marginal per
// parameter, in the canonical parameter order.
type Space struct {
	Marginals []Marginal
}

// ReferenceSpace centers each marginal on the reference stand
// parameters with a standard deviation of 10% of the mean.
func ReferenceSpace() Space {
	p := forest.DefaultParams()
	means := p.Vector()
	marginals := make([]Marginal, forest.Dim)
	for i, m := range means {
		marginals[i] = Marginal{Name: forest.Names[i], Mean: m, SD: 0.1 * m}
	}
	return Space{Marginals: marginals}
}

// Dim is the number of parameters k.
func (s Space) Dim() int { return len(s.Marginals) }

func (s Space) Validate() error {
	if len(s.Marginals) == 0 {
		return fmt.Errorf("%w: no marginals", ErrInvalidSpec)
	}
	for i, m := range s.Marginals {
		if m.SD < 0 {
			return fmt.Errorf("%w: marginal %q (index %d) has negative sd %g", ErrInvalidSpec, m.Name, i, m.SD)
		}
	}
	return nil
}
