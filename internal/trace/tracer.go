package trace

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Tracer receives trace events. Implementations must be goroutine-safe.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	Close() error
	Level() Level
	Enabled() bool
}

// StorageMode says where events go: written as they happen, kept in a ring
// for a failure dump, or both.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1
	ModeRing
	ModeBoth
)

var modeNames = map[StorageMode]string{ModeStream: "stream", ModeRing: "ring", ModeBoth: "both"}

func (m StorageMode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "unknown"
}

func (m StorageMode) streams() bool { return m == ModeStream || m == ModeBoth }
func (m StorageMode) rings() bool   { return m == ModeRing || m == ModeBoth }

func ParseMode(s string) (StorageMode, error) {
	for mode, name := range modeNames {
		if strings.EqualFold(s, name) {
			return mode, nil
		}
	}
	return ModeRing, fmt.Errorf("invalid storage mode: %q (expected: stream|ring|both)", s)
}

const defaultRingSize = 4096

// Config describes the tracer built by New.
type Config struct {
	Level  Level
	Mode   StorageMode
	Format Format
	// Output wins over OutputPath; an empty path or "-" is stderr.
	Output     io.Writer
	OutputPath string
	RingSize   int
}

// format resolves FormatAuto from the output file name.
func (cfg Config) format() Format {
	if cfg.Format != FormatAuto {
		return cfg.Format
	}
	for _, ext := range []string{".ndjson", ".jsonl"} {
		if strings.HasSuffix(cfg.OutputPath, ext) {
			return FormatNDJSON
		}
	}
	return FormatText
}

func (cfg Config) writer() (io.Writer, error) {
	switch {
	case cfg.Output != nil:
		return cfg.Output, nil
	case cfg.OutputPath == "" || cfg.OutputPath == "-":
		return os.Stderr, nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	return f, nil
}

// New builds the tracer cfg asks for; LevelOff yields Nop.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	if !cfg.Mode.streams() && !cfg.Mode.rings() {
		return nil, fmt.Errorf("unknown storage mode: %v", cfg.Mode)
	}
	var sinks fanout
	if cfg.Mode.streams() {
		w, err := cfg.writer()
		if err != nil {
			return nil, err
		}
		sinks.tracers = append(sinks.tracers, NewStreamTracer(w, cfg.Level, cfg.format()))
	}
	if cfg.Mode.rings() {
		size := cfg.RingSize
		if size <= 0 {
			size = defaultRingSize
		}
		sinks.tracers = append(sinks.tracers, NewRingTracer(size, cfg.Level))
	}
	if len(sinks.tracers) == 1 {
		return sinks.tracers[0], nil
	}
	sinks.level = cfg.Level
	return &sinks, nil
}

// RingOf returns the ring buffer behind t, if it has one.
func RingOf(t Tracer) *RingTracer {
	switch v := t.(type) {
	case *RingTracer:
		return v
	case *fanout:
		for _, tr := range v.tracers {
			if r, ok := tr.(*RingTracer); ok {
				return r
			}
		}
	}
	return nil
}
