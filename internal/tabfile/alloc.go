package tabfile

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Allocation holds an allocation/crosswalk file: rows are target land
// classes, columns are final land-cover classes, values are allocation
// weights.
type Allocation struct {
	// FinalClasses are the lower-cased header labels excluding the
	// target-class column, in header order.
	FinalClasses []string
	// TargetClasses are the lower-cased values of the target-class
	// column, in row order.
	TargetClasses []string
	// Values holds one row per target class and one column per final
	// class. Nil when the file is empty.
	Values *mat.Dense
}

// ReadAllocation reads an allocation file with a header row. The column
// named targetColumn (case-insensitive) holds the target land-class
// names; every other column is a final land-cover class. An empty file
// is valid and yields empty class lists and a nil matrix.
func ReadAllocation(path, targetColumn string, delim rune) (*Allocation, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat allocation file: %w", err)
	}
	if info.Size() == 0 {
		return &Allocation{}, nil
	}

	t, err := ReadTable(path, delim)
	if err != nil {
		return nil, err
	}

	target := strings.ToLower(strings.TrimSpace(targetColumn))
	if !t.Has(target) {
		return nil, &MissingFieldError{Path: path, Fields: []string{target}}
	}

	targets, err := t.Strings(target)
	if err != nil {
		return nil, err
	}
	for i, v := range targets {
		targets[i] = strings.ToLower(v)
	}

	var finals []string
	for _, c := range t.Columns() {
		name := strings.ToLower(strings.TrimSpace(c))
		if name != target {
			finals = append(finals, name)
		}
	}

	alloc := &Allocation{FinalClasses: finals, TargetClasses: targets}
	if t.Len() == 0 || len(finals) == 0 {
		return alloc, nil
	}

	data := make([]float64, 0, t.Len()*len(finals))
	cols := make([][]string, len(finals))
	for j, name := range finals {
		raw, err := t.Strings(name)
		if err != nil {
			return nil, err
		}
		cols[j] = raw
	}
	for i := 0; i < t.Len(); i++ {
		for j := range finals {
			v, err := strconv.ParseFloat(cols[j][i], 64)
			if err != nil {
				return nil, &ParseError{Path: path, Line: i + 2, Column: finals[j], Value: cols[j][i]}
			}
			data = append(data, v)
		}
	}
	alloc.Values = mat.NewDense(t.Len(), len(finals), data)
	return alloc, nil
}
