// Package datasource abstracts where export bytes come from and how they are
// decoded to UTF-8 before CSV parsing.
package datasource

import (
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Source opens a readable stream of raw input bytes.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// DefaultEncoding is used when no encoding name is given.
const DefaultEncoding = "utf-8"

// Decode wraps r so that it yields UTF-8. Names are resolved with the WHATWG
// encoding index ("utf-8", "windows-1252", "iso-8859-1", ...). For UTF-8
// input a leading byte order mark is dropped, so the first header cell is
// not polluted by it, and all other bytes pass through untouched: invalid
// sequences are left for the CSV layer to report instead of being replaced
// with U+FFFD.
func Decode(r io.Reader, name string) (io.Reader, error) {
	enc, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	if enc == unicode.UTF8 {
		return transform.NewReader(r, unicode.BOMOverride(transform.Nop)), nil
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}

// Lookup resolves an encoding name.
func Lookup(name string) (encoding.Encoding, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultEncoding
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown input encoding %q: %w", name, err)
	}
	return enc, nil
}
