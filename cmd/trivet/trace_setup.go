package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"trivet/internal/trace"
)

type traceFlags struct {
	output, level, mode, format string
	ringSize                    int
	modeSet                     bool
}

func readTraceFlags(cmd *cobra.Command) (traceFlags, error) {
	pf := cmd.Root().PersistentFlags()
	var errs []error
	str := func(name string) string {
		v, err := pf.GetString(name)
		errs = append(errs, err)
		return v
	}
	f := traceFlags{
		output:  str("trace"),
		level:   str("trace-level"),
		mode:    str("trace-mode"),
		format:  str("trace-format"),
		modeSet: pf.Changed("trace-mode"),
	}
	size, err := pf.GetInt("trace-ring-size")
	f.ringSize = size
	return f, errors.Join(append(errs, err)...)
}

// config turns the flags into a tracer config. --trace alone implies the
// phase level, and a named output without --trace-mode streams to it.
func (f traceFlags) config() (trace.Config, error) {
	cfg := trace.Config{OutputPath: f.output, RingSize: f.ringSize}
	var err error
	if cfg.Level, err = trace.ParseLevel(f.level); err != nil {
		return cfg, err
	}
	if cfg.Level == trace.LevelOff {
		if f.output == "" {
			return cfg, nil
		}
		cfg.Level = trace.LevelPhase
	}
	if cfg.Mode, err = trace.ParseMode(f.mode); err != nil {
		return cfg, err
	}
	if f.output != "" && !f.modeSet {
		cfg.Mode = trace.ModeStream
	}
	cfg.Format, err = trace.ParseFormat(f.format)
	return cfg, err
}

// setupTracing puts the configured tracer into the command context. The
// returned cleanup closes it; after a failure it first dumps the ring so
// the events leading up to the error are visible.
func setupTracing(cmd *cobra.Command) (func(failed bool), error) {
	flags, err := readTraceFlags(cmd)
	if err != nil {
		return nil, fmt.Errorf("trace flags: %w", err)
	}
	cfg, err := flags.config()
	if err != nil {
		return nil, err
	}
	tracer, err := trace.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))
	if tracer == trace.Nop {
		return func(bool) {}, nil
	}
	return func(failed bool) {
		stderr := cmd.ErrOrStderr()
		if failed {
			dumpRing(stderr, tracer)
		}
		if err := errors.Join(tracer.Flush(), tracer.Close()); err != nil {
			fmt.Fprintf(stderr, "trace: %v\n", err)
		}
	}, nil
}

func dumpRing(w io.Writer, tracer trace.Tracer) {
	ring := trace.RingOf(tracer)
	if ring == nil {
		return
	}
	fmt.Fprintln(w, "trace: last events:")
	if err := ring.Dump(w, trace.FormatText); err != nil {
		fmt.Fprintf(w, "trace: dump error: %v\n", err)
	}
}
