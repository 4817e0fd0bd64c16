package report

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// SaveTrajectoryPNG writes a line plot of the trajectory with a dashed
// horizontal rule at the regime-switch threshold.
func SaveTrajectoryPNG(path string, times, biomass []float64, threshold float64) error {
	if len(times) != len(biomass) || len(times) == 0 {
		return fmt.Errorf("report: trajectory plot data invalid")
	}

	p := plot.New()
	p.Title.Text = "Forest biomass over time"
	p.X.Label.Text = "time"
	p.Y.Label.Text = "carbon stock C"

	pts := make(plotter.XYs, len(times))
	for i := range times {
		pts[i].X = times[i]
		pts[i].Y = biomass[i]
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.LineStyle.Width = vg.Points(1.5)
	p.Add(line)
	p.Legend.Add("C(t)", line)

	rule, err := plotter.NewLine(plotter.XYs{
		{X: times[0], Y: threshold},
		{X: times[len(times)-1], Y: threshold},
	})
	if err != nil {
		return err
	}
	rule.LineStyle.Width = vg.Points(1)
	rule.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	p.Add(rule)
	p.Legend.Add("threshold", rule)

	return p.Save(8*vg.Inch, 6*vg.Inch, path)
}

// SavePeaksBoxPlot writes a box plot of the peak-biomass distribution
// across the base Monte Carlo samples.
func SavePeaksBoxPlot(path string, peaks []float64) error {
	if len(peaks) == 0 {
		return fmt.Errorf("report: no peak values to plot")
	}

	p := plot.New()
	p.Title.Text = "Peak biomass distribution"
	p.Y.Label.Text = "peak carbon stock"

	box, err := plotter.NewBoxPlot(vg.Points(40), 0, plotter.Values(peaks))
	if err != nil {
		return err
	}
	p.Add(box)
	p.NominalX("peak biomass")

	return p.Save(4*vg.Inch, 6*vg.Inch, path)
}

// SaveIndicesPNG writes a scatter of the index estimates with error
// bars from the bootstrap intervals.
func SaveIndicesPNG(path string, names []string, estimates, lows, highs []float64, title string) error {
	if len(names) != len(estimates) || len(estimates) != len(lows) || len(lows) != len(highs) {
		return fmt.Errorf("report: indices plot data invalid")
	}

	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "index"

	pts := make(plotter.XYs, len(estimates))
	yerr := make(plotter.YErrors, len(estimates))
	for i := range estimates {
		pts[i].X = float64(i)
		pts[i].Y = estimates[i]
		yerr[i].Low = estimates[i] - lows[i]
		yerr[i].High = highs[i] - estimates[i]
	}

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	scatter.GlyphStyle.Radius = vg.Points(3)
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(scatter)

	bars, err := plotter.NewYErrorBars(struct {
		plotter.XYer
		plotter.YErrorer
	}{pts, yerr})
	if err != nil {
		return err
	}
	p.Add(bars)
	p.NominalX(names...)

	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}
