// Package metrics provides per-run scalar summaries observed along a
// trajectory, collected into sim.Result.Metrics.
package metrics

import (
	"math"

	"github.com/ecodyn/forestlab/internal/sim"
)

// PeakBiomass tracks the maximum carbon stock reported over a run.
type PeakBiomass struct {
	peak float64
	seen bool
}

func NewPeakBiomass() *PeakBiomass {
	return &PeakBiomass{}
}

func (p *PeakBiomass) Name() string { return "peak_biomass" }

func (p *PeakBiomass) Observe(t float64, x sim.State) {
	if len(x) == 0 {
		return
	}
	if !p.seen || x[0] > p.peak {
		p.peak = x[0]
		p.seen = true
	}
}

func (p *PeakBiomass) Value() float64 {
	if !p.seen {
		return math.NaN()
	}
	return p.peak
}

func (p *PeakBiomass) Reset() {
	p.peak = 0
	p.seen = false
}

// TimeToThreshold records the first reported time the stock reaches a
// level, the moment the growth regime switches in the reference stand.
type TimeToThreshold struct {
	level float64
	at    float64
	hit   bool
}

func NewTimeToThreshold(level float64) *TimeToThreshold {
	return &TimeToThreshold{level: level}
}

func (m *TimeToThreshold) Name() string { return "time_to_threshold" }

func (m *TimeToThreshold) Observe(t float64, x sim.State) {
	if m.hit || len(x) == 0 {
		return
	}
	if x[0] >= m.level {
		m.at = t
		m.hit = true
	}
}

// Value is NaN when the trajectory never reached the level.
func (m *TimeToThreshold) Value() float64 {
	if !m.hit {
		return math.NaN()
	}
	return m.at
}

func (m *TimeToThreshold) Reset() {
	m.at = 0
	m.hit = false
}

// MeanBiomass averages the stock over the reported rows.
type MeanBiomass struct {
	sum     float64
	samples int
}

func NewMeanBiomass() *MeanBiomass {
	return &MeanBiomass{}
}

func (m *MeanBiomass) Name() string { return "mean_biomass" }

func (m *MeanBiomass) Observe(t float64, x sim.State) {
	if len(x) == 0 {
		return
	}
	m.sum += x[0]
	m.samples++
}

func (m *MeanBiomass) Value() float64 {
	if m.samples == 0 {
		return math.NaN()
	}
	return m.sum / float64(m.samples)
}

func (m *MeanBiomass) Reset() {
	m.sum = 0
	m.samples = 0
}
