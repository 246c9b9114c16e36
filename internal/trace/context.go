package trace

import (
	"context"
	"sync/atomic"
	"time"
)

type ctxKey struct{}

// FromContext returns the tracer of ctx, Nop if there is none.
func FromContext(ctx context.Context) Tracer {
	if ctx == nil {
		return Nop
	}
	if t, ok := ctx.Value(ctxKey{}).(Tracer); ok {
		return t
	}
	return Nop
}

// WithTracer attaches t to ctx.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, ctxKey{}, t)
}

var spanIDs atomic.Uint64

// Span is an open begin/end pair. A zero or nil Span is inert.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	scope   Scope
	name    string
	started time.Time
	extra   map[string]string
}

// Begin opens a span if the tracer's level lets the scope through.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if t == nil || !t.Level().ShouldEmit(KindSpanBegin, scope) {
		return &Span{}
	}
	s := &Span{tracer: t, id: spanIDs.Add(1), parent: parent, scope: scope, name: name, started: time.Now()}
	t.Emit(&Event{
		Time:     s.started,
		Seq:      nextSeq(),
		Kind:     KindSpanBegin,
		Scope:    scope,
		SpanID:   s.id,
		ParentID: parent,
		Name:     name,
	})
	return s
}

// End closes the span and returns its duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.tracer == nil {
		return 0
	}
	dur := time.Since(s.started)
	s.tracer.Emit(&Event{
		Time:     time.Now(),
		Seq:      nextSeq(),
		Kind:     KindSpanEnd,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		Name:     s.name,
		Detail:   detail,
		Elapsed:  dur,
		Extra:    s.extra,
	})
	return dur
}

// With adds a key-value pair to the end event.
func (s *Span) With(key, value string) *Span {
	if s == nil || s.tracer == nil {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string)
	}
	s.extra[key] = value
	return s
}

// ID is 0 for an inert span.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Point emits an instant event.
func Point(t Tracer, scope Scope, name, detail string) {
	if t == nil || !t.Level().ShouldEmit(KindPoint, scope) {
		return
	}
	t.Emit(&Event{Time: time.Now(), Seq: nextSeq(), Kind: KindPoint, Scope: scope, Name: name, Detail: detail})
}

// Error records a failure; it passes every level except off.
func Error(t Tracer, name string, err error) {
	if t == nil || err == nil || !t.Enabled() {
		return
	}
	t.Emit(&Event{Time: time.Now(), Seq: nextSeq(), Kind: KindError, Scope: ScopeDriver, Name: name, Detail: err.Error()})
}
