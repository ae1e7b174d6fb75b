// Package file implements a local filesystem data source.
package file

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Local opens one export file from the local disk.
type Local struct{ path string }

// NewLocal returns a Local source bound to path.
func NewLocal(path string) *Local { return &Local{path: path} }

// Open opens the file for reading. A context that is already done is
// returned as the error without touching the filesystem. Filesystem errors
// are wrapped with the path and still match os.ErrNotExist and friends.
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	return f, nil
}
