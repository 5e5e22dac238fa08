// Package diag renders debugging views of normalized land-use data: an
// HTML chart of projected area by land class over time, and a PNG
// histogram of cell coverage fractions.
package diag

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/terrafold/landprep/internal/projection"
)

// WriteAreaReport renders an HTML line chart of total projected area per
// land class across the selected time steps.
func WriteAreaReport(path string, r *projection.Result) error {
	if len(r.TimeSteps) == 0 {
		return fmt.Errorf("no time steps selected; nothing to report")
	}

	totals := classTotals(r)
	classes := make([]string, 0, len(totals))
	for c := range totals {
		classes = append(classes, c)
	}
	sort.Strings(classes)

	labels := make([]string, len(r.TimeSteps))
	for i, step := range r.TimeSteps {
		labels[i] = strconv.Itoa(step)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Projected land area by class",
			Subtitle: fmt.Sprintf("scenario %s (km²)", r.Scenario),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
	)
	line.SetXAxis(labels)
	for _, c := range classes {
		data := make([]opts.LineData, len(r.TimeSteps))
		for j, v := range totals[c] {
			data[j] = opts.LineData{Value: v}
		}
		line.AddSeries(c, data)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()
	return line.Render(f)
}

// classTotals sums the area matrix per land class per time step.
func classTotals(r *projection.Result) map[string][]float64 {
	totals := make(map[string][]float64)
	if r.Area == nil {
		return totals
	}
	for i, class := range r.LandClass {
		row, ok := totals[class]
		if !ok {
			row = make([]float64, len(r.TimeSteps))
			totals[class] = row
		}
		for j := range r.TimeSteps {
			row[j] += r.Area.At(i, j)
		}
	}
	return totals
}
