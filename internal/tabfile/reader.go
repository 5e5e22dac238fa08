// Package tabfile reads the delimited text inputs of the land-use
// preprocessor: key/value references, key/list references, allocation
// crosswalk matrices, and whole-file numeric arrays. All readers load
// the entire file before returning; there is no streaming path.
package tabfile

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// ReadKeyValue parses a two-column delimited file into a map. Each line
// must carry at least two fields; field 0 keys field 1 unless swap is
// set, in which case field 1 keys field 0. Later duplicate keys
// overwrite earlier ones. When header is true the first line is skipped
// unconditionally, regardless of its content.
func ReadKeyValue(path string, header bool, delim rune, swap bool) (map[string]string, error) {
	records, err := readAll(path, delim)
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(records))
	for i, rec := range records {
		if header && i == 0 {
			continue
		}
		if len(rec) < 2 {
			return nil, fmt.Errorf("%s: line %d: expected 2 fields, got %d", path, i+1, len(rec))
		}
		if swap {
			out[rec[1]] = rec[0]
		} else {
			out[rec[0]] = rec[1]
		}
	}
	return out, nil
}

// ReadKeyList parses a delimited file whose second field is an integer,
// returning those integers in line order. The first field is a row name
// and is ignored.
func ReadKeyList(path string, header bool, delim rune) ([]int, error) {
	records, err := readAll(path, delim)
	if err != nil {
		return nil, err
	}

	var out []int
	for i, rec := range records {
		if header && i == 0 {
			continue
		}
		if len(rec) < 2 {
			return nil, fmt.Errorf("%s: line %d: expected 2 fields, got %d", path, i+1, len(rec))
		}
		v, err := strconv.Atoi(rec[1])
		if err != nil {
			return nil, &ParseError{Path: path, Line: i + 1, Column: "1", Value: rec[1]}
		}
		out = append(out, v)
	}
	return out, nil
}

func readAll(path string, delim rune) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = delim
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return records, nil
}
