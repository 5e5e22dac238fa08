package tabfile

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Table is a delimited file held fully in memory with case-insensitive,
// name-keyed column access. Normalizers resolve their schemas against a
// Table instead of scattering per-column fallback lookups.
type Table struct {
	path    string
	columns []string       // header labels in original order and case
	index   map[string]int // lower-cased label -> column position
	cells   [][]string     // data rows, header excluded
}

// ReadTable reads a delimited file with a header row into a Table.
func ReadTable(path string, delim rune) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open table: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = delim
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: table has no header row", path)
	}

	header := records[0]
	index := make(map[string]int, len(header))
	for i, c := range header {
		index[strings.ToLower(strings.TrimSpace(c))] = i
	}

	return &Table{
		path:    path,
		columns: header,
		index:   index,
		cells:   records[1:],
	}, nil
}

// Path returns the file the table was read from.
func (t *Table) Path() string { return t.path }

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.cells) }

// Columns returns the header labels in original order.
func (t *Table) Columns() []string { return t.columns }

// Has reports whether a column exists. Lookup is case-insensitive.
func (t *Table) Has(name string) bool {
	_, ok := t.index[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// Strings returns a column's cells as strings.
func (t *Table) Strings(name string) ([]string, error) {
	col, err := t.position(name)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(t.cells))
	for i, row := range t.cells {
		if col >= len(row) {
			continue // short row; cell stays empty
		}
		out[i] = strings.TrimSpace(row[col])
	}
	return out, nil
}

// Floats returns a column parsed as float64 values.
func (t *Table) Floats(name string) ([]float64, error) {
	raw, err := t.Strings(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(raw))
	for i, cell := range raw {
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, &ParseError{Path: t.path, Line: i + 2, Column: name, Value: cell}
		}
		out[i] = v
	}
	return out, nil
}

// Ints returns a column parsed as int values.
func (t *Table) Ints(name string) ([]int, error) {
	raw, err := t.Strings(name)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(raw))
	for i, cell := range raw {
		v, err := strconv.Atoi(cell)
		if err != nil {
			return nil, &ParseError{Path: t.path, Line: i + 2, Column: name, Value: cell}
		}
		out[i] = v
	}
	return out, nil
}

func (t *Table) position(name string) (int, error) {
	col, ok := t.index[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, &MissingFieldError{Path: t.path, Fields: []string{name}}
	}
	return col, nil
}
