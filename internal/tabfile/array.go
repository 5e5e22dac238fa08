package tabfile

import (
	"fmt"
	"strconv"

	"gonum.org/v1/gonum/mat"
)

// ReadColumn reads a headerless numeric file and returns the column at
// the given index.
func ReadColumn(path string, index int, delim rune) ([]float64, error) {
	m, err := readNumeric(path, delim)
	if err != nil {
		return nil, err
	}
	rows, cols := m.Dims()
	if index < 0 || index >= cols {
		return nil, fmt.Errorf("%s: column index %d out of range (file has %d columns)", path, index, cols)
	}
	out := make([]float64, rows)
	mat.Col(out, index, m)
	return out, nil
}

// ReadMatrix reads a headerless comma-delimited numeric file into a
// dense matrix.
func ReadMatrix(path string) (*mat.Dense, error) {
	return readNumeric(path, ',')
}

func readNumeric(path string, delim rune) (*mat.Dense, error) {
	records, err := readAll(path, delim)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: file is empty", path)
	}

	cols := len(records[0])
	data := make([]float64, 0, len(records)*cols)
	for i, rec := range records {
		if len(rec) != cols {
			return nil, fmt.Errorf("%s: line %d: expected %d fields, got %d", path, i+1, cols, len(rec))
		}
		for j, cell := range rec {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, &ParseError{Path: path, Line: i + 1, Column: strconv.Itoa(j), Value: cell}
			}
			data = append(data, v)
		}
	}
	return mat.NewDense(len(records), cols, data), nil
}
