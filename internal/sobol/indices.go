package sobol

import "gonum.org/v1/gonum/stat"

// evaluations is the flat result vector split into its design blocks:
// fA and fB are the base outputs, fAB[i] and fBA[i] the outputs of the
// column-swapped matrices.
type evaluations struct {
	fA, fB []float64
	fAB    [][]float64
	fBA    [][]float64
	n, k   int
}

func newEvaluations(ys []float64, n, k int) *evaluations {
	ev := &evaluations{
		fA:  ys[0:n],
		fB:  ys[n : 2*n],
		fAB: make([][]float64, k),
		fBA: make([][]float64, k),
		n:   n,
		k:   k,
	}
	for i := 0; i < k; i++ {
		ev.fAB[i] = ys[(2+i)*n : (3+i)*n]
		ev.fBA[i] = ys[(2+k+i)*n : (3+k+i)*n]
	}
	return ev
}

// indices computes first-order (Saltelli 2010) and total-effect
// (Jansen) estimates over the base samples selected by idx. Both
// column-swap directions contribute symmetrically, which uses every
// design row. Estimates are not clamped; Monte Carlo noise can push
// them negative and that is reported faithfully.
func (ev *evaluations) indices(idx []int) (first, total []float64, err error) {
	m := len(idx)
	pooled := make([]float64, 0, 2*m)
	for _, i := range idx {
		pooled = append(pooled, ev.fA[i], ev.fB[i])
	}
	varY := stat.Variance(pooled, nil)
	if varY <= 0 {
		return nil, nil, ErrDegenerateVariance
	}

	first = make([]float64, ev.k)
	total = make([]float64, ev.k)
	fm := float64(m)

	for c := 0; c < ev.k; c++ {
		var sAB, sBA, jAB, jBA float64
		for _, i := range idx {
			a, b := ev.fA[i], ev.fB[i]
			ab, ba := ev.fAB[c][i], ev.fBA[c][i]

			sAB += b * (ab - a)
			sBA += a * (ba - b)

			dAB := a - ab
			dBA := b - ba
			jAB += dAB * dAB
			jBA += dBA * dBA
		}
		first[c] = (sAB + sBA) / (2 * fm) / varY
		total[c] = (jAB + jBA) / (4 * fm) / varY
	}
	return first, total, nil
}
