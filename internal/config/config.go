// Package config builds the process configuration from command-line flags
// with environment-variable fallbacks. Flags are defined first so that
// `-help` lists every knob and its default.
//
// Flags must precede the two paths:
//
//	bggexport -v -encoding=windows-1252 in.csv out.csv
//
// Parsing stops at the first positional argument, so a known flag given
// after the paths is reported as a usage error rather than taken as a path.
// A path that itself starts with "-" can follow a "--" terminator.
//
// Typical usage:
//
//	cfg, err := config.Load() // reads os.Args and os.Environ
//
// Tests should use LoadFromArgs to stay hermetic:
//
//	fs := flag.NewFlagSet("test", flag.ContinueOnError)
//	getenv := func(k string) string { return testEnv[k] }
//	cfg, err := config.LoadFromArgs(fs, getenv, []string{"in.csv", "out.csv"})
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"bggexport/internal/datasource"
	"bggexport/internal/export"
)

// Metrics backend names accepted by -metrics-backend.
const (
	BackendNone        = "none"
	BackendPushgateway = "pushgateway"
	BackendDatadog     = "datadog"
)

// usageMessage is reported when the two positional paths are missing.
const usageMessage = "No parameters provided. Please provide a CSV input and output file name."

// Config holds everything the binary needs for one run. It is plain data and
// is not mutated after LoadFromArgs returns.
type Config struct {
	// Positional arguments.
	InputPath  string // CSV export to read.
	OutputPath string // CSV file to write.

	// Encoding is the input character encoding (WHATWG name).
	Encoding string

	// Metrics selects and addresses the metrics backend.
	MetricsBackend string // none, pushgateway or datadog.
	PushgatewayURL string // Pushgateway base URL.
	DogStatsDAddr  string // DogStatsD agent address.
	Job            string // Job name used as metrics label / push group.

	Verbose bool
}

// LoadFromArgs defines flags on fs seeded from getenv, parses args, and
// takes the first two positional arguments as input and output paths. Extra
// positional arguments are ignored.
//
// Precedence:
//  1. Environment values seed each flag's default.
//  2. Explicit flags in args override the seeded defaults.
//
// Fewer than two positional arguments yields an error wrapping
// export.ErrUsage.
func LoadFromArgs(fs *flag.FlagSet, getenv func(string) string, args []string) (*Config, error) {
	cfg := &Config{}

	envOrDefaultFn := func(k, d string) string {
		if v := getenv(k); v != "" {
			return v
		}
		return d
	}
	boolEnvOrDefaultFn := func(k string, d bool) bool {
		switch strings.ToLower(getenv(k)) {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
		return d
	}

	fs.StringVar(&cfg.Encoding, "encoding", envOrDefaultFn("BGG_ENCODING", datasource.DefaultEncoding), "Input character encoding (e.g. utf-8, windows-1252)")

	fs.StringVar(&cfg.MetricsBackend, "metrics-backend", envOrDefaultFn("METRICS_BACKEND", BackendNone), "Metrics backend: none, pushgateway or datadog")
	fs.StringVar(&cfg.PushgatewayURL, "pushgateway-url", envOrDefaultFn("PUSHGATEWAY_URL", "http://localhost:9091"), "Pushgateway base URL")
	fs.StringVar(&cfg.DogStatsDAddr, "dogstatsd-addr", envOrDefaultFn("DOGSTATSD_ADDR", "127.0.0.1:8125"), "DogStatsD agent address")
	fs.StringVar(&cfg.Job, "job", envOrDefaultFn("METRICS_JOB", "bggexport"), "Job name for metrics")

	fs.BoolVar(&cfg.Verbose, "v", boolEnvOrDefaultFn("VERBOSE", false), "Enable verbose logs")

	if args == nil {
		args = []string{}
	}
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %w", export.ErrUsage, err)
	}

	pos := fs.Args()
	if len(pos) < 2 {
		return nil, fmt.Errorf("%w: %s", export.ErrUsage, usageMessage)
	}
	for _, p := range pos {
		if isDefinedFlag(fs, p) {
			return nil, fmt.Errorf("%w: flag %s must come before the input and output paths", export.ErrUsage, p)
		}
	}
	cfg.InputPath, cfg.OutputPath = pos[0], pos[1]

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// isDefinedFlag reports whether arg is written like one of fs's flags.
func isDefinedFlag(fs *flag.FlagSet, arg string) bool {
	if !strings.HasPrefix(arg, "-") {
		return false
	}
	name, _, _ := strings.Cut(strings.TrimLeft(arg, "-"), "=")
	return name != "" && fs.Lookup(name) != nil
}

// Load is the production entry point: flag.CommandLine, os.Getenv and
// os.Args[1:].
func Load() (*Config, error) {
	return LoadFromArgs(flag.CommandLine, os.Getenv, os.Args[1:])
}

// Validate checks cross-field consistency.
func (c *Config) Validate() error {
	var errs []error
	switch c.MetricsBackend {
	case "", BackendNone:
	case BackendPushgateway:
		if c.PushgatewayURL == "" {
			errs = append(errs, errors.New("pushgateway backend requires -pushgateway-url"))
		}
	case BackendDatadog:
		if c.DogStatsDAddr == "" {
			errs = append(errs, errors.New("datadog backend requires -dogstatsd-addr"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown metrics backend %q", c.MetricsBackend))
	}
	if _, err := datasource.Lookup(c.Encoding); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", export.ErrUsage, err)
	}
	return nil
}
