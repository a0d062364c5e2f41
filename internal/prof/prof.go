// Package prof wires Go's runtime profilers to output files for the
// --cpu-profile, --mem-profile and --runtime-trace flags.
package prof

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
)

// Options name the output files; empty disables that profiler.
type Options struct {
	CPU   string
	Mem   string
	Trace string
}

func (o Options) Empty() bool {
	return o.CPU == "" && o.Mem == "" && o.Trace == ""
}

// Session is an active set of profilers. The runtime allows one CPU
// profile and one execution trace per process, so at most one Session
// should run at a time.
type Session struct {
	cpu     *os.File
	trace   *os.File
	memPath string
	stopped bool
}

// Start enables the profilers named in opts. On error nothing stays running.
func Start(opts Options) (*Session, error) {
	s := &Session{memPath: opts.Mem}
	if opts.CPU != "" {
		f, err := os.Create(opts.CPU)
		if err != nil {
			return nil, fmt.Errorf("prof: cpu profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("prof: cpu profile: %w", err)
		}
		s.cpu = f
	}
	if opts.Trace != "" {
		f, err := os.Create(opts.Trace)
		if err != nil {
			_ = s.Stop()
			return nil, fmt.Errorf("prof: runtime trace: %w", err)
		}
		if err := trace.Start(f); err != nil {
			_ = f.Close()
			s.memPath = ""
			_ = s.Stop()
			return nil, fmt.Errorf("prof: runtime trace: %w", err)
		}
		s.trace = f
	}
	return s, nil
}

// Stop ends the profilers and writes the heap profile. Safe to call twice
// and on a nil Session.
func (s *Session) Stop() error {
	if s == nil || s.stopped {
		return nil
	}
	s.stopped = true
	var errs []error
	if s.trace != nil {
		trace.Stop()
		errs = append(errs, s.trace.Close())
	}
	if s.cpu != nil {
		pprof.StopCPUProfile()
		errs = append(errs, s.cpu.Close())
	}
	if s.memPath != "" {
		errs = append(errs, writeHeap(s.memPath))
	}
	return errors.Join(errs...)
}

func writeHeap(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("prof: heap profile: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()
	runtime.GC()
	return pprof.WriteHeapProfile(f)
}
