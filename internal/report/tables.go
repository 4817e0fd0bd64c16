package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/ecodyn/forestlab/internal/analysis"
	"github.com/ecodyn/forestlab/internal/forest"
	"github.com/ecodyn/forestlab/internal/sobol"
	"github.com/ecodyn/forestlab/internal/storage"
)

// WriteIndicesTable prints first-order and total-effect indices with
// their confidence intervals, one row per parameter.
func WriteIndicesTable(out io.Writer, result *sobol.Result) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARAM\tS\tS_CI\tT\tT_CI")

	for i := range result.FirstOrder {
		s, t := result.FirstOrder[i], result.Total[i]
		fmt.Fprintf(w, "%s\t%.4f\t[%.4f, %.4f]\t%.4f\t[%.4f, %.4f]\n",
			forest.Names[i],
			s.Estimate, s.Low, s.High,
			t.Estimate, t.Low, t.High,
		)
	}

	return w.Flush()
}

// WriteMetricsTable prints per-run metric values.
func WriteMetricsTable(out io.Writer, metrics map[string]float64) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tVALUE")
	for name, val := range metrics {
		fmt.Fprintf(w, "%s\t%.6f\n", name, val)
	}
	return w.Flush()
}

// WriteSummaryTable prints the distribution summary of the raw peak
// values, the textual companion of the box plot.
func WriteSummaryTable(out io.Writer, s analysis.Summary) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STAT\tVALUE")
	fmt.Fprintf(w, "n\t%d\n", s.N)
	fmt.Fprintf(w, "min\t%.4f\n", s.Min)
	fmt.Fprintf(w, "q1\t%.4f\n", s.Q1)
	fmt.Fprintf(w, "median\t%.4f\n", s.Median)
	fmt.Fprintf(w, "q3\t%.4f\n", s.Q3)
	fmt.Fprintf(w, "max\t%.4f\n", s.Max)
	fmt.Fprintf(w, "mean\t%.4f\n", s.Mean)
	fmt.Fprintf(w, "stddev\t%.4f\n", s.StdDev)
	return w.Flush()
}

// WriteRunsTable prints the stored-run inventory.
func WriteRunsTable(out io.Writer, runs []storage.RunMetadata) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tINTEGRATOR\tHORIZON\tTIMESTAMP")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			r.ID, r.Kind, r.Integrator, r.Horizon, r.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

// WriteSweepTable prints a one-parameter sweep.
func WriteSweepTable(out io.Writer, param string, points []analysis.SweepPoint) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tPEAK_BIOMASS\n", param)
	for _, p := range points {
		fmt.Fprintf(w, "%.4f\t%.4f\n", p.Param, p.Peak)
	}
	return w.Flush()
}
