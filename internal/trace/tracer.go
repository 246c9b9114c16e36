package trace

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
)

// Tracer receives events. Implementations must be goroutine-safe: the
// driver parses files in parallel.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	Close() error
	Level() Level
	Enabled() bool
}

// Config configures New.
type Config struct {
	Level  Level
	Format Format
	// Output wins over OutputPath; OutputPath "-" or "" means stderr
	Output     io.Writer
	OutputPath string
	// RingSize > 0 additionally keeps the last events in memory (Dump)
	RingSize int
}

// New builds a tracer from cfg. LevelOff yields Nop.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	if cfg.Format == FormatText && strings.HasSuffix(cfg.OutputPath, ".ndjson") {
		cfg.Format = FormatNDJSON
	}
	w := cfg.Output
	if w == nil {
		if cfg.OutputPath == "" || cfg.OutputPath == "-" {
			w = os.Stderr
		} else {
			f, err := os.Create(cfg.OutputPath)
			if err != nil {
				return nil, fmt.Errorf("failed to open trace output: %w", err)
			}
			w = f
		}
	}
	stream := NewStreamTracer(w, cfg.Level, cfg.Format)
	if cfg.RingSize <= 0 {
		return stream, nil
	}
	return &multiTracer{level: cfg.Level, tracers: []Tracer{stream, NewRingTracer(cfg.RingSize, cfg.Level)}}, nil
}

var seq atomic.Uint64

func nextSeq() uint64 { return seq.Add(1) }

// StreamTracer writes events as they come.
type StreamTracer struct {
	mu     sync.Mutex
	w      io.Writer
	level  Level
	format Format
}

// NewStreamTracer creates a tracer writing to w.
func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	return &StreamTracer{w: w, level: level, format: format}
}

func (t *StreamTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Kind, ev.Scope) {
		return
	}
	data := Encode(ev, t.format)
	t.mu.Lock()
	defer t.mu.Unlock()
	// ошибки записи трассы не должны ронять компиляцию
	_, _ = t.w.Write(data) //nolint:errcheck
}

func (t *StreamTracer) Flush() error {
	if f, ok := t.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// Close flushes and closes the writer unless it is stdout or stderr.
func (t *StreamTracer) Close() error {
	if err := t.Flush(); err != nil {
		return err
	}
	if t.w == os.Stderr || t.w == os.Stdout {
		return nil
	}
	if c, ok := t.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (t *StreamTracer) Level() Level  { return t.level }
func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }

// RingTracer keeps the last N events in memory.
type RingTracer struct {
	mu     sync.Mutex
	events []Event
	head   int
	full   bool
	level  Level
}

// NewRingTracer creates a ring of the given capacity.
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = 1024
	}
	return &RingTracer{events: make([]Event, capacity), level: level}
}

func (t *RingTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Kind, ev.Scope) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events[t.head] = *ev
	t.head = (t.head + 1) % len(t.events)
	if t.head == 0 {
		t.full = true
	}
}

// Snapshot returns the stored events oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.full {
		return append([]Event(nil), t.events[:t.head]...)
	}
	out := make([]Event, 0, len(t.events))
	out = append(out, t.events[t.head:]...)
	return append(out, t.events[:t.head]...)
}

// Dump writes the snapshot to w.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	for _, ev := range t.Snapshot() {
		if _, err := w.Write(Encode(&ev, format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error  { return nil }
func (t *RingTracer) Close() error  { return nil }
func (t *RingTracer) Level() Level  { return t.level }
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }

type multiTracer struct {
	level   Level
	tracers []Tracer
}

func (t *multiTracer) Emit(ev *Event) {
	for _, tr := range t.tracers {
		tr.Emit(ev)
	}
}

func (t *multiTracer) Flush() error {
	var first error
	for _, tr := range t.tracers {
		if err := tr.Flush(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (t *multiTracer) Close() error {
	var first error
	for _, tr := range t.tracers {
		if err := tr.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (t *multiTracer) Level() Level  { return t.level }
func (t *multiTracer) Enabled() bool { return t.level > LevelOff }

// Ring returns the in-memory ring of a tracer built with RingSize, if any.
func Ring(t Tracer) *RingTracer {
	switch t := t.(type) {
	case *RingTracer:
		return t
	case *multiTracer:
		for _, tr := range t.tracers {
			if r, ok := tr.(*RingTracer); ok {
				return r
			}
		}
	}
	return nil
}

type nopTracer struct{}

func (nopTracer) Emit(*Event)   {}
func (nopTracer) Flush() error  { return nil }
func (nopTracer) Close() error  { return nil }
func (nopTracer) Level() Level  { return LevelOff }
func (nopTracer) Enabled() bool { return false }

// Nop discards everything.
var Nop Tracer = nopTracer{}
