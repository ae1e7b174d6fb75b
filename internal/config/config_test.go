package config

import (
	"errors"
	"flag"
	"io"
	"strings"
	"testing"

	"bggexport/internal/export"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func noEnv(string) string { return "" }

// TestLoadFromArgs_Defaults checks the defaults when only the two paths are
// given.
func TestLoadFromArgs_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFromArgs(newFlagSet(), noEnv, []string{"in.csv", "out.csv"})
	if err != nil {
		t.Fatalf("LoadFromArgs error: %v", err)
	}
	if cfg.InputPath != "in.csv" || cfg.OutputPath != "out.csv" {
		t.Fatalf("paths = %q, %q", cfg.InputPath, cfg.OutputPath)
	}
	if cfg.Encoding != "utf-8" || cfg.MetricsBackend != BackendNone || cfg.Job != "bggexport" || cfg.Verbose {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

// TestLoadFromArgs_EnvAndFlags validates that env seeds defaults and explicit
// flags win.
func TestLoadFromArgs_EnvAndFlags(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		"BGG_ENCODING":    "windows-1252",
		"METRICS_BACKEND": "pushgateway",
		"PUSHGATEWAY_URL": "http://gw:9091",
		"METRICS_JOB":     "from-env",
		"VERBOSE":         "yes",
	}
	getenv := func(k string) string { return env[k] }

	cfg, err := LoadFromArgs(newFlagSet(), getenv, []string{"-job=from-flag", "in.csv", "out.csv"})
	if err != nil {
		t.Fatalf("LoadFromArgs error: %v", err)
	}
	if cfg.Encoding != "windows-1252" || cfg.PushgatewayURL != "http://gw:9091" || !cfg.Verbose {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if cfg.Job != "from-flag" {
		t.Fatalf("flag override not applied: %q", cfg.Job)
	}
}

func TestLoadFromArgs_ExtraArgsIgnored(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFromArgs(newFlagSet(), noEnv, []string{"-v", "a.csv", "b.csv", "c.csv", "-unknown"})
	if err != nil {
		t.Fatalf("LoadFromArgs error: %v", err)
	}
	if cfg.InputPath != "a.csv" || cfg.OutputPath != "b.csv" || !cfg.Verbose {
		t.Fatalf("cfg = %+v; want a.csv -> b.csv, trailing args ignored", cfg)
	}
}

func TestLoadFromArgs_DashPathAfterTerminator(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFromArgs(newFlagSet(), noEnv, []string{"--", "-in.csv", "out.csv"})
	if err != nil {
		t.Fatalf("LoadFromArgs error: %v", err)
	}
	if cfg.InputPath != "-in.csv" || cfg.OutputPath != "out.csv" {
		t.Fatalf("paths = %q, %q", cfg.InputPath, cfg.OutputPath)
	}
}

func TestLoadFromArgs_UsageErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		env          map[string]string
		args         []string
		wantContains string
	}{
		{name: "no_args", args: nil, wantContains: "No parameters provided"},
		{name: "one_arg", args: []string{"in.csv"}, wantContains: "No parameters provided"},
		{name: "flags_only", args: []string{"-v"}, wantContains: "No parameters provided"},
		{name: "flag_between_paths", args: []string{"in.csv", "-v", "out.csv"}, wantContains: "must come before"},
		{name: "flag_after_paths", args: []string{"in.csv", "out.csv", "-job=x"}, wantContains: "-job=x"},
		{name: "unknown_flag", args: []string{"-nope", "in.csv", "out.csv"}, wantContains: "nope"},
		{name: "unknown_backend", args: []string{"-metrics-backend=graphite", "in.csv", "out.csv"}, wantContains: "graphite"},
		{name: "unknown_encoding", args: []string{"-encoding=klingon", "in.csv", "out.csv"}, wantContains: "klingon"},
		{
			name:         "pushgateway_without_url",
			env:          map[string]string{"METRICS_BACKEND": "pushgateway"},
			args:         []string{"-pushgateway-url=", "in.csv", "out.csv"},
			wantContains: "pushgateway-url",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			getenv := func(k string) string { return tc.env[k] }

			cfg, err := LoadFromArgs(newFlagSet(), getenv, tc.args)
			if err == nil {
				t.Fatalf("LoadFromArgs(%q) = %+v; want error", tc.args, cfg)
			}
			if !errors.Is(err, export.ErrUsage) {
				t.Fatalf("err = %v; want export.ErrUsage", err)
			}
			if !strings.Contains(err.Error(), tc.wantContains) {
				t.Fatalf("err = %q; want substring %q", err, tc.wantContains)
			}
		})
	}
}
