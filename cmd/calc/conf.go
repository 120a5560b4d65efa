package main

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/npillmayer/schuko/schukonf/koanfadapter"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/spf13/pflag"
)

// configuration is loaded once flags are parsed.
var configuration *koanfadapter.KConf

// loadConfig is a callback for cobra's initialization, which allows no return
// value. A failure is recorded in configErr for the command to report.
func loadConfig() {
	configuration, configErr = newConfig(rootCmd.Flags(), "CALC")
}

var configErr error

// newConfig layers the flags that were set over configuration files located
// by appTag, then installs tracing as configured. An empty appTag skips files.
func newConfig(flags *pflag.FlagSet, appTag string) (*koanfadapter.KConf, error) {
	var suffixes []string
	if appTag != "" {
		suffixes = []string{"nt"}
	}
	konf := koanfadapter.New(koanf.New("."), appTag, suffixes)
	konf.InitDefaults()
	k := konf.Koanf()
	if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
		return nil, fmt.Errorf("reading flags: %w", err)
	}
	if dest := traceDestination(konf.GetString("logfile")); dest != "" {
		konf.Set("tracing.destination", dest)
	}
	if err := startTracing(konf); err != nil {
		return nil, err
	}
	return konf, nil
}

// traceDestination turns the logfile setting into a tracing destination URL.
// Plain paths become file URLs. The result is empty for standard error, which
// leaves any destination from configuration files in place.
func traceDestination(logfile string) string {
	switch {
	case logfile == "", logfile == "stderr", logfile == "-":
		return ""
	case strings.Contains(logfile, "://"):
		return logfile
	default:
		return "file://" + logfile
	}
}

// startTracing routes the calc tracers through the log package at the levels
// given under the trace key.
func startTracing(konf *koanfadapter.KConf) error {
	if a := konf.GetString("tracing.adapter"); a != "" && a != "go" {
		return fmt.Errorf("unsupported tracing adapter %q", a)
	}
	konf.Set("tracing.adapter", "go")
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	if err := trace2go.ConfigureRoot(konf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		return fmt.Errorf("configuring tracing: %w", err)
	}
	tracing.SetTraceSelector(trace2go.Selector())
	return nil
}
