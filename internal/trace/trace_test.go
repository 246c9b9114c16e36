package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"off", LevelOff, false},
		{"ERROR", LevelError, false},
		{" phase ", LevelPhase, false},
		{"file", LevelFile, false},
		{"debug", LevelDebug, false},
		{"detail", LevelOff, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestShouldEmit(t *testing.T) {
	tests := []struct {
		level Level
		kind  Kind
		scope Scope
		want  bool
	}{
		{LevelOff, KindError, ScopeDriver, false},
		{LevelError, KindError, ScopeDriver, true},
		{LevelError, KindSpanBegin, ScopeDriver, false},
		{LevelPhase, KindSpanBegin, ScopePhase, true},
		{LevelPhase, KindSpanBegin, ScopeFile, false},
		{LevelFile, KindSpanEnd, ScopeFile, true},
		{LevelFile, KindPoint, ScopeStep, false},
		{LevelDebug, KindPoint, ScopeStep, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.kind, tt.scope); got != tt.want {
			t.Errorf("%v.ShouldEmit(%v, %v) = %v, want %v", tt.level, tt.kind, tt.scope, got, tt.want)
		}
	}
}

func TestSpansThroughContext(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelFile, Output: &buf})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := WithTracer(context.Background(), tr)

	phase := Begin(FromContext(ctx), ScopePhase, "parse", 0)
	file := Begin(FromContext(ctx), ScopeFile, "file:main.soul", phase.ID())
	step := Begin(FromContext(ctx), ScopeStep, "tokenize", file.ID())
	if step.ID() != 0 {
		t.Fatalf("step spans must be inert below debug")
	}
	step.End("")
	file.With("statements", "3").End("")
	phase.End("ok")

	out := buf.String()
	for _, want := range []string{"→ parse", "→ file:main.soul", "{statements=3}", "← parse", "(ok)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "tokenize") {
		t.Errorf("debug step leaked into file-level output")
	}
}

func TestNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelError, Format: FormatNDJSON, Output: &buf})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	Error(tr, "parse", errors.New("boom"))
	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("not json: %v (%q)", err, buf.String())
	}
	if got["kind"] != "error" || got["detail"] != "boom" {
		t.Fatalf("unexpected event %v", got)
	}
}

func TestRing(t *testing.T) {
	r := NewRingTracer(2, LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		Point(r, ScopeStep, name, "")
	}
	snap := r.Snapshot()
	if len(snap) != 2 || snap[0].Name != "b" || snap[1].Name != "c" {
		t.Fatalf("snapshot = %+v", snap)
	}

	tr, err := New(Config{Level: LevelPhase, Output: &bytes.Buffer{}, RingSize: 8})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if Ring(tr) == nil {
		t.Fatalf("RingSize must attach a ring")
	}
}

func TestOffIsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr != Nop {
		t.Fatalf("New(off) = %v, %v", tr, err)
	}
	if FromContext(context.Background()) != Nop {
		t.Fatalf("empty context must yield Nop")
	}
}
