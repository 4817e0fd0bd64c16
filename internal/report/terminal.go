// Package report renders the analysis artifacts: terminal plots,
// index tables and PNG figures. It consumes finished results and
// contributes no algorithmic logic.
package report

import (
	"github.com/guptarohit/asciigraph"
)

// TrajectoryPlot renders a biomass trajectory with a flat reference
// line at the regime-switch threshold.
func TrajectoryPlot(biomass []float64, threshold float64, caption string) string {
	thresholdLine := make([]float64, len(biomass))
	for i := range thresholdLine {
		thresholdLine[i] = threshold
	}

	return asciigraph.PlotMany(
		[][]float64{thresholdLine, biomass},
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	)
}

// SweepPlot renders peak biomass against one swept parameter.
func SweepPlot(peaks []float64, caption string) string {
	return asciigraph.Plot(peaks,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	)
}
