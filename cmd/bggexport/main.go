// Command bggexport turns a board game collection CSV export into a trimmed,
// relabelled CSV that keeps only the games matching a fixed filter.
//
//	bggexport [flags] <input-path> <output-path>
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"bggexport/internal/config"
	"bggexport/internal/export"
	"bggexport/internal/metrics"
	"bggexport/internal/metrics/datadog"
	"bggexport/internal/metrics/prompush"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fatalf("error: %v", err)
	}

	flush := setupMetrics(cfg)

	start := time.Now()
	sum, err := export.Run(context.Background(), export.Options{
		InputPath:  cfg.InputPath,
		OutputPath: cfg.OutputPath,
		Encoding:   cfg.Encoding,
		Job:        cfg.Job,
		Stdout:     os.Stdout,
	})
	flush()
	if err != nil {
		fatalf("error: %v", err)
	}

	if cfg.Verbose {
		log.Printf("done: read=%d accepted=%d rejected=%d written=%d xxh3=%016x in %s",
			sum.Read, sum.Accepted, sum.Rejected, sum.Written, sum.Digest,
			time.Since(start).Truncate(time.Millisecond))
	}
}

// setupMetrics installs the configured backend and returns a function that
// flushes it. Backend failures are logged and never fail the run.
func setupMetrics(cfg *config.Config) func() {
	var (
		b   metrics.Backend
		err error
	)
	switch cfg.MetricsBackend {
	case config.BackendPushgateway:
		b, err = prompush.NewBackend(cfg.Job, cfg.PushgatewayURL)
	case config.BackendDatadog:
		b, err = datadog.NewBackend(datadog.Config{
			Addr:       cfg.DogStatsDAddr,
			GlobalTags: []string{"job:" + cfg.Job},
		})
	default:
		if cfg.Verbose {
			log.Printf("metrics: disabled (backend=%q)", cfg.MetricsBackend)
		}
		return func() {}
	}
	if err != nil {
		log.Printf("metrics: failed to init %s backend: %v; using nop", cfg.MetricsBackend, err)
		return func() {}
	}

	if cfg.Verbose {
		log.Printf("metrics: backend=%s job=%s", cfg.MetricsBackend, cfg.Job)
	}
	metrics.SetBackend(b)
	return func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
