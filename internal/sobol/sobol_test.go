package sobol_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ecodyn/forestlab/internal/sample"
	"github.com/ecodyn/forestlab/internal/sobol"
)

var _ = Describe("Design", func() {
	space := sample.Space{Marginals: []sample.Marginal{
		{Name: "a", Mean: 10, SD: 1},
		{Name: "b", Mean: 10, SD: 1},
		{Name: "c", Mean: 10, SD: 1},
		{Name: "d", Mean: 10, SD: 1},
	}}

	It("has exactly n*(2k+2) evaluation rows", func() {
		x1, x2, err := space.Pair(sample.NewRNG(1), 2000)
		Expect(err).NotTo(HaveOccurred())

		d, err := sobol.NewDesign(x1, x2)
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Len()).To(Equal(20000))
		Expect(d.Samples()).To(Equal(2000))
		Expect(d.Params()).To(Equal(4))
	})

	It("swaps exactly one column per recombined block", func() {
		x1, x2, err := space.Pair(sample.NewRNG(2), 50)
		Expect(err).NotTo(HaveOccurred())

		d, err := sobol.NewDesign(x1, x2)
		Expect(err).NotTo(HaveOccurred())

		n, k := d.Samples(), d.Params()
		for col := 0; col < k; col++ {
			for i := 0; i < n; i++ {
				ab := d.Row((2+col)*n + i)
				ba := d.Row((2+k+col)*n + i)
				for j := 0; j < k; j++ {
					if j == col {
						Expect(ab[j]).To(Equal(x2.At(i, j)))
						Expect(ba[j]).To(Equal(x1.At(i, j)))
					} else {
						Expect(ab[j]).To(Equal(x1.At(i, j)))
						Expect(ba[j]).To(Equal(x2.At(i, j)))
					}
				}
			}
		}
	})

	It("rejects mismatched base matrices", func() {
		x1, _, err := space.Pair(sample.NewRNG(3), 10)
		Expect(err).NotTo(HaveOccurred())
		x2, _, err := space.Pair(sample.NewRNG(3), 20)
		Expect(err).NotTo(HaveOccurred())

		_, err = sobol.NewDesign(x1, x2)
		Expect(err).To(MatchError(sobol.ErrDesign))
	})
})

var _ = Describe("Estimator", func() {
	// Additive model f(x) = sum a_i x_i over independent normals has
	// closed-form indices: S_i = T_i = a_i^2 sd_i^2 / sum a_j^2 sd_j^2.
	space := sample.Space{Marginals: []sample.Marginal{
		{Name: "x0", Mean: 10, SD: 1},
		{Name: "x1", Mean: 10, SD: 1},
		{Name: "x2", Mean: 10, SD: 1},
		{Name: "x3", Mean: 10, SD: 1},
	}}
	coeff := []float64{1, 0.5, 2, 0}

	additive := func(params []float64) (float64, error) {
		y := 0.0
		for i, v := range params {
			y += coeff[i] * v
		}
		return y, nil
	}

	analytic := func(i int) float64 {
		num := coeff[i] * coeff[i]
		den := 0.0
		for _, a := range coeff {
			den += a * a
		}
		return num / den
	}

	newResult := func(n int) *sobol.Result {
		x1, x2, err := space.Pair(sample.NewRNG(17), n)
		Expect(err).NotTo(HaveOccurred())
		d, err := sobol.NewDesign(x1, x2)
		Expect(err).NotTo(HaveOccurred())

		est := sobol.NewEstimator()
		est.Workers = 4
		res, err := est.Estimate(context.Background(), d, additive)
		Expect(err).NotTo(HaveOccurred())
		return res
	}

	It("recovers the indices of an additive model", func() {
		res := newResult(2000)

		Expect(res.Evals).To(Equal(20000))
		Expect(res.FirstOrder).To(HaveLen(4))
		Expect(res.Total).To(HaveLen(4))
		Expect(res.Base).To(HaveLen(2000))

		sum := 0.0
		for i := range res.FirstOrder {
			s := res.FirstOrder[i].Estimate
			t := res.Total[i].Estimate

			Expect(s).To(BeNumerically("~", analytic(i), 0.06))
			Expect(t).To(BeNumerically("~", analytic(i), 0.06))
			Expect(t).To(BeNumerically(">=", s-0.05))
			sum += s
		}
		Expect(sum).To(BeNumerically("<=", 1.05))
	})

	It("produces finite confidence intervals bracketing each estimate", func() {
		res := newResult(500)

		check := func(ix sobol.Index) {
			Expect(math.IsNaN(ix.Low) || math.IsInf(ix.Low, 0)).To(BeFalse())
			Expect(math.IsNaN(ix.High) || math.IsInf(ix.High, 0)).To(BeFalse())
			Expect(ix.Low).To(BeNumerically("<=", ix.High))
		}
		for i := range res.FirstOrder {
			check(res.FirstOrder[i])
			check(res.Total[i])
		}
	})

	It("is deterministic for a fixed seed and design", func() {
		a := newResult(300)
		b := newResult(300)
		for i := range a.FirstOrder {
			Expect(a.FirstOrder[i]).To(Equal(b.FirstOrder[i]))
			Expect(a.Total[i]).To(Equal(b.Total[i]))
		}
	})

	It("reports degenerate variance instead of dividing by zero", func() {
		x1, x2, err := space.Pair(sample.NewRNG(5), 100)
		Expect(err).NotTo(HaveOccurred())
		d, err := sobol.NewDesign(x1, x2)
		Expect(err).NotTo(HaveOccurred())

		constant := func(params []float64) (float64, error) { return 42, nil }

		_, err = sobol.NewEstimator().Estimate(context.Background(), d, constant)
		Expect(err).To(MatchError(sobol.ErrDegenerateVariance))
	})

	It("cancels the batch on the first evaluation failure", func() {
		x1, x2, err := space.Pair(sample.NewRNG(6), 200)
		Expect(err).NotTo(HaveOccurred())
		d, err := sobol.NewDesign(x1, x2)
		Expect(err).NotTo(HaveOccurred())

		boom := errors.New("blow-up")
		failing := func(params []float64) (float64, error) { return 0, boom }

		_, err = sobol.NewEstimator().Estimate(context.Background(), d, failing)
		Expect(err).To(MatchError(boom))
	})
})
