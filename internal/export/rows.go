package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

// Row is one data record as produced by RowReader. A row the reader could not
// parse still travels through the pipeline; the parse error is only reported
// when its fields are requested.
type Row struct {
	Line   int
	fields []string
	err    error
}

// Fields returns the row's values, or a *RowReadError when the record was
// malformed.
func (r Row) Fields() ([]string, error) {
	if r.err != nil {
		return nil, &RowReadError{Line: r.Line, Err: r.err}
	}
	return r.fields, nil
}

// RowReader reads comma-separated records with standard quoting. The first
// record is not treated specially by the reader; callers take it with Header.
// Every record must have as many fields as the first one.
type RowReader struct {
	cr   *csv.Reader
	last int
}

// NewRowReader wraps r.
func NewRowReader(r io.Reader) *RowReader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 0
	return &RowReader{cr: cr}
}

// Header consumes the first record. An input without records yields
// ErrEmptyInput.
func (rr *RowReader) Header() ([]string, error) {
	row, err := rr.Next()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyInput
	}
	if err != nil {
		return nil, err
	}
	return row.Fields()
}

// Next returns the next record. It returns io.EOF when the input is
// exhausted. Parse errors, including fields that are not valid UTF-8, are
// carried inside the returned Row; failures of the underlying reader are
// returned as a *RowReadError.
func (rr *RowReader) Next() (Row, error) {
	rec, err := rr.cr.Read()
	if errors.Is(err, io.EOF) {
		return Row{}, io.EOF
	}

	var pe *csv.ParseError
	switch {
	case err == nil:
		line, _ := rr.cr.FieldPos(0)
		rr.last = line
		return Row{Line: line, fields: rec, err: checkUTF8(rec)}, nil
	case errors.As(err, &pe):
		rr.last = pe.StartLine
		return Row{Line: pe.StartLine, fields: rec, err: err}, nil
	default:
		return Row{}, &RowReadError{Line: rr.last + 1, Err: err}
	}
}

func checkUTF8(rec []string) error {
	for i, f := range rec {
		if !utf8.ValidString(f) {
			return fmt.Errorf("field %d: %w", i+1, ErrInvalidUTF8)
		}
	}
	return nil
}
