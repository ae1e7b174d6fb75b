package export

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"bggexport/internal/datasource"
	"bggexport/internal/datasource/file"
	"bggexport/internal/metrics"

	"github.com/zeebo/xxh3"
)

// State names a stage of a run. Each completed transition is recorded as a
// metrics step under the name of the state it reached.
type State string

const (
	StateStart               State = "start"
	StateHeaderRead          State = "header_read"
	StateMappingsResolved    State = "mappings_resolved"
	StateFiltersResolved     State = "filters_resolved"
	StateOutputHeaderWritten State = "output_header_written"
	StateStreamingRows       State = "streaming_rows"
	StateDone                State = "done"
	StateFailed              State = "failed"
)

// Options configures a run.
type Options struct {
	// InputPath is the export to read. Ignored when Source is set, except in
	// messages.
	InputPath string
	// OutputPath is created (or truncated) once the header has resolved.
	OutputPath string
	// Encoding of the input; empty means UTF-8.
	Encoding string
	// Job labels the run's metrics.
	Job string

	// Stdout receives the progress messages; nil discards them.
	Stdout io.Writer
	// Source overrides the local file named by InputPath.
	Source datasource.Source

	// Mappings and Filters default to the fixed tables when empty.
	Mappings []ColumnMapping
	Filters  []FilterRule
}

// Summary describes a finished or failed run.
type Summary struct {
	// State is StateDone on success and StateFailed otherwise.
	State State
	// LastState is the last state reached before the run ended.
	LastState State

	Read     int
	Accepted int
	Rejected int
	Written  int

	// Digest is the xxh3 hash of every byte written to the output.
	Digest uint64
}

// Run executes one export. It fails on the first error; output written
// before a mid-stream failure is left in place.
func Run(ctx context.Context, opts Options) (Summary, error) {
	r := &runner{opts: opts, sum: Summary{LastState: StateStart}}
	if r.opts.Stdout == nil {
		r.opts.Stdout = io.Discard
	}
	if len(r.opts.Mappings) == 0 {
		r.opts.Mappings = Mappings()
	}
	if len(r.opts.Filters) == 0 {
		r.opts.Filters = Filters()
	}

	err := r.run(ctx)

	metrics.RecordRow(opts.Job, metrics.RowsRead, int64(r.sum.Read))
	metrics.RecordRow(opts.Job, metrics.RowsAccepted, int64(r.sum.Accepted))
	metrics.RecordRow(opts.Job, metrics.RowsRejected, int64(r.sum.Rejected))
	metrics.RecordRow(opts.Job, metrics.RowsWritten, int64(r.sum.Written))

	if err != nil {
		r.sum.State = StateFailed
		return r.sum, err
	}
	r.sum.State = StateDone
	return r.sum, nil
}

type runner struct {
	opts Options
	sum  Summary

	rows     *RowReader
	header   []string
	mappings []ResolvedMapping
	filter   Predicate
	out      *output
}

func (r *runner) run(ctx context.Context) error {
	var in io.ReadCloser
	defer func() {
		if in != nil {
			in.Close()
		}
	}()
	defer func() {
		if r.out != nil {
			r.out.Close()
		}
	}()

	err := r.step(StateHeaderRead, func() error {
		fmt.Fprintf(r.opts.Stdout, "Reading file %s\n", r.opts.InputPath)
		src := r.opts.Source
		if src == nil {
			src = file.NewLocal(r.opts.InputPath)
		}
		var err error
		in, err = src.Open(ctx)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInputOpen, err)
		}
		dec, err := datasource.Decode(in, r.opts.Encoding)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInputOpen, err)
		}
		r.rows = NewRowReader(dec)
		r.header, err = r.rows.Header()
		if err != nil {
			return fmt.Errorf("read header of %s: %w", r.opts.InputPath, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	idx := BuildIndex(r.header)

	err = r.step(StateMappingsResolved, func() error {
		var err error
		r.mappings, err = ResolveMappings(idx, r.opts.Mappings)
		if err != nil {
			return fmt.Errorf("initialize column mappings: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	err = r.step(StateFiltersResolved, func() error {
		rules, err := ResolveFilters(idx, r.opts.Filters)
		if err != nil {
			return fmt.Errorf("initialize row filters: %w", err)
		}
		r.filter = NewPredicate(rules)
		return nil
	})
	if err != nil {
		return err
	}

	err = r.step(StateOutputHeaderWritten, func() error {
		fmt.Fprintf(r.opts.Stdout, "Writing output to file %s\n", r.opts.OutputPath)
		var err error
		r.out, err = createOutput(r.opts.OutputPath)
		if err != nil {
			return err
		}
		return r.out.Write(Titles(r.opts.Mappings))
	})
	if err != nil {
		return err
	}

	if err := r.step(StateStreamingRows, func() error { return r.stream(ctx) }); err != nil {
		return err
	}

	return r.step(StateDone, func() error {
		out := r.out
		r.out = nil
		if err := out.Close(); err != nil {
			return err
		}
		r.sum.Digest = out.Sum64()
		return nil
	})
}

// step runs fn as the transition into next and records it.
func (r *runner) step(next State, fn func() error) error {
	start := time.Now()
	err := fn()
	metrics.RecordStep(r.opts.Job, string(next), err, time.Since(start))
	if err != nil {
		return err
	}
	r.sum.LastState = next
	return nil
}

// stream copies accepted data rows to the output in input order.
func (r *runner) stream(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("stopped after %d rows: %w", r.sum.Read, err)
		}

		row, err := r.rows.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		r.sum.Read++

		if !r.filter.Accept(row) {
			r.sum.Rejected++
			continue
		}
		r.sum.Accepted++

		fields, err := row.Fields()
		if err != nil {
			return err
		}
		if err := r.out.Write(Project(r.mappings, fields)); err != nil {
			return err
		}
		r.sum.Written++
	}
}

// output is the CSV sink. Every byte that reaches the file also feeds the
// digest.
type output struct {
	path   string
	f      *os.File
	w      *csv.Writer
	h      *xxh3.Hasher
	closed bool
}

func createOutput(path string) (*output, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOutputWrite, err)
	}
	h := xxh3.New()
	return &output{
		path: path,
		f:    f,
		w:    csv.NewWriter(io.MultiWriter(f, h)),
		h:    h,
	}, nil
}

func (o *output) Write(rec []string) error {
	if err := o.w.Write(rec); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrOutputWrite, o.path, err)
	}
	return nil
}

// Close flushes buffered records and closes the file. It is safe to call
// more than once; only the first call does any work.
func (o *output) Close() error {
	if o.closed {
		return nil
	}
	o.closed = true

	o.w.Flush()
	ferr := o.w.Error()
	cerr := o.f.Close()
	if err := errors.Join(ferr, cerr); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrOutputWrite, o.path, err)
	}
	return nil
}

// Sum64 returns the digest of the bytes written so far.
func (o *output) Sum64() uint64 { return o.h.Sum64() }
