// Package timestep selects projection time steps from table column labels.
package timestep

import "strconv"

// Select returns the column labels that parse as integers within
// [start, end] inclusive, preserving the original left-to-right label
// order since downstream code indexes columns by these values. Labels
// that do not parse as integers are skipped without any record; a
// projection table mixes year columns with name columns, so a
// non-integer label is expected, not an error. A start greater than end
// selects nothing.
func Select(labels []string, start, end int) []int {
	var steps []int
	for _, label := range labels {
		v, err := strconv.Atoi(label)
		if err != nil {
			continue
		}
		if start <= v && v <= end {
			steps = append(steps, v)
		}
	}
	return steps
}
