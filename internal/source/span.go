package source

import (
	"fmt"
)

// Span is a source range in line/column coordinates.
//
// Line and Col are 1-based. EndLine is zero while the span stays on Line; in
// that case Len is the number of columns covered. For multi-line spans Len is
// the exclusive end column on EndLine.
type Span struct {
	Line    uint32
	EndLine uint32
	Col     uint32
	Len     uint32
}

// IsZero reports whether the span carries no position at all.
func (s Span) IsZero() bool {
	return s.Line == 0
}

// MultiLine reports whether the span crosses a line break.
func (s Span) MultiLine() bool {
	return s.EndLine != 0 && s.EndLine != s.Line
}

// End returns the last line of the span and the exclusive end column on it.
func (s Span) End() (line, col uint32) {
	if !s.MultiLine() {
		return s.Line, s.Col + s.Len
	}
	return s.EndLine, s.Len
}

func (s Span) String() string {
	if s.IsZero() {
		return "?"
	}
	if !s.MultiLine() {
		return fmt.Sprintf("%d:%d", s.Line, s.Col)
	}
	endLine, endCol := s.End()
	return fmt.Sprintf("%d:%d-%d:%d", s.Line, s.Col, endLine, endCol)
}

func (s Span) before(other Span) bool {
	if s.Line != other.Line {
		return s.Line < other.Line
	}
	return s.Col < other.Col
}

// Combine returns the minimal span covering both s and other.
func (s Span) Combine(other Span) Span {
	if s.IsZero() {
		return other
	}
	if other.IsZero() {
		return s
	}
	first, last := s, other
	if other.before(s) {
		first, last = other, s
	}

	endLine, endCol := last.End()
	if fl, fc := first.End(); fl > endLine || (fl == endLine && fc > endCol) {
		endLine, endCol = fl, fc
	}

	if endLine == first.Line {
		return Span{Line: first.Line, Col: first.Col, Len: endCol - first.Col}
	}
	return Span{Line: first.Line, EndLine: endLine, Col: first.Col, Len: endCol}
}

// Combine is a convenience wrapper over Span.Combine for several spans.
func Combine(spans ...Span) Span {
	var out Span
	for _, sp := range spans {
		out = out.Combine(sp)
	}
	return out
}

// ZeroideToEnd returns an empty span positioned right after s.
func (s Span) ZeroideToEnd() Span {
	line, col := s.End()
	return Span{Line: line, Col: col}
}
