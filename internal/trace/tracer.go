package trace

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Tracer receives events. Implementations must be goroutine-safe.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	Close() error
	Level() Level
	Enabled() bool
}

type nopTracer struct{}

func (nopTracer) Emit(*Event)   {}
func (nopTracer) Flush() error  { return nil }
func (nopTracer) Close() error  { return nil }
func (nopTracer) Level() Level  { return LevelOff }
func (nopTracer) Enabled() bool { return false }

// Nop discards everything.
var Nop Tracer = nopTracer{}

// Config selects a tracer.
type Config struct {
	Level  Level
	Format Format
	// Output wins over OutputPath; "-" or "" for OutputPath means stderr.
	Output     io.Writer
	OutputPath string
	// RingSize > 0 keeps the last RingSize events in memory as well, for
	// dumping after a failed run.
	RingSize int
}

// New builds a tracer from cfg.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	format := cfg.Format
	if format == FormatAuto {
		format = FormatText
		if strings.HasSuffix(cfg.OutputPath, ".ndjson") {
			format = FormatNDJSON
		}
	}
	w, closer, err := openOutput(cfg)
	if err != nil {
		return nil, err
	}
	stream := NewStreamTracer(w, cfg.Level, format)
	stream.closer = closer
	if cfg.RingSize <= 0 {
		return stream, nil
	}
	return &fanout{level: cfg.Level, tracers: []Tracer{stream, NewRingTracer(cfg.RingSize, cfg.Level)}}, nil
}

func openOutput(cfg Config) (io.Writer, io.Closer, error) {
	if cfg.Output != nil {
		return cfg.Output, nil, nil
	}
	if cfg.OutputPath == "" || cfg.OutputPath == "-" {
		return os.Stderr, nil, nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open trace output: %w", err)
	}
	return f, f, nil
}

// fanout forwards every event to several tracers.
type fanout struct {
	level   Level
	tracers []Tracer
}

func (f *fanout) Emit(ev *Event) {
	for _, t := range f.tracers {
		t.Emit(ev)
	}
}

func (f *fanout) Flush() error {
	var errs []error
	for _, t := range f.tracers {
		errs = append(errs, t.Flush())
	}
	return errors.Join(errs...)
}

func (f *fanout) Close() error {
	var errs []error
	for _, t := range f.tracers {
		errs = append(errs, t.Close())
	}
	return errors.Join(errs...)
}

func (f *fanout) Level() Level  { return f.level }
func (f *fanout) Enabled() bool { return f.level != LevelOff }

// Ring returns the in-memory ring of t, if it keeps one.
func Ring(t Tracer) *RingTracer {
	switch x := t.(type) {
	case *RingTracer:
		return x
	case *fanout:
		for _, inner := range x.tracers {
			if r := Ring(inner); r != nil {
				return r
			}
		}
	}
	return nil
}
