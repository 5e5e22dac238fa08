package tabfile

import (
	"fmt"
	"strings"
)

// ParseError reports a cell that was expected to be numeric but is not.
// It is fatal for the read that produced it; nothing in this package
// retries or substitutes a default for a malformed number.
type ParseError struct {
	Path   string // file the cell came from
	Line   int    // 1-based line number, counting the header if present
	Column string // column name or index the cell belongs to
	Value  string // the offending cell text
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: line %d: column %s: cannot parse %q as a number", e.Path, e.Line, e.Column, e.Value)
}

// MissingFieldError reports required columns absent from a table. All
// missing fields are collected and named so one failure lists every
// column the caller must supply.
type MissingFieldError struct {
	Path   string
	Fields []string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: missing required fields: %s", e.Path, strings.Join(e.Fields, ", "))
}
