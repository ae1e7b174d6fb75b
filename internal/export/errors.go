package export

import (
	"errors"
	"fmt"
)

// Sentinel errors for the fatal conditions of a run. Callers match them with
// errors.Is; the wrapping error carries the file or column context.
var (
	ErrUsage       = errors.New("usage")
	ErrInputOpen   = errors.New("cannot open input")
	ErrEmptyInput  = errors.New("no rows in input")
	ErrOutputWrite = errors.New("cannot write output")
	ErrInvalidUTF8 = errors.New("invalid UTF-8")
)

// ColumnKind tells which fixed table referenced a missing column.
type ColumnKind string

const (
	KindMapping ColumnKind = "mapping"
	KindFilter  ColumnKind = "filter"
)

// MissingColumnError reports a mapping or filter column that is absent from
// the input header.
type MissingColumnError struct {
	Kind   ColumnKind
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s column %q not found in CSV headers", e.Kind, e.Column)
}

// RowReadError reports a data row the CSV reader could not parse. Line is the
// 1-based line number the reader attributes to the record.
type RowReadError struct {
	Line int
	Err  error
}

func (e *RowReadError) Error() string {
	return fmt.Sprintf("read row at line %d: %v", e.Line, e.Err)
}

func (e *RowReadError) Unwrap() error { return e.Err }
