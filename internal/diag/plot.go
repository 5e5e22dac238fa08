package diag

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// PlotCellFractionHist writes a PNG histogram of per-cell coverage
// fractions. Fully covered cells cluster at 1.0; clipped or no-data
// cells fall below, noisy cells above.
func PlotCellFractionHist(path string, fractions []float64) error {
	if len(fractions) == 0 {
		return fmt.Errorf("no cell fractions to plot")
	}

	values := make(plotter.Values, len(fractions))
	copy(values, fractions)

	p := plot.New()
	p.Title.Text = "Cell coverage fraction"
	p.X.Label.Text = "fraction of nominal cell area"
	p.Y.Label.Text = "cells"

	h, err := plotter.NewHist(values, 40)
	if err != nil {
		return fmt.Errorf("failed to build histogram: %w", err)
	}
	p.Add(h)

	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}
