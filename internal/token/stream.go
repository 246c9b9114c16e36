package token

import (
	"soul/internal/source"
)

// Stream is a random-access, seekable cursor over a token sequence.
//
// The cursor always points at the token being examined. Stepping past
// either end parks it on a sentinel index (-1 or Len()) and reports
// ok == false; Current on a sentinel reports ok == false as well.
// Saving CurrentIndex and restoring it with GoToIndex is all a
// speculative parse needs to rewind.
type Stream struct {
	tokens []Token
	index  int
}

// NewStream wraps tokens; the cursor starts at the first token.
func NewStream(tokens []Token) *Stream {
	return &Stream{tokens: tokens}
}

// Len returns the number of tokens.
func (s *Stream) Len() int { return len(s.tokens) }

// CurrentIndex returns the cursor position (may be a sentinel).
func (s *Stream) CurrentIndex() int { return s.index }

// GoToIndex moves the cursor; out-of-range indices are clamped to a sentinel.
func (s *Stream) GoToIndex(i int) {
	switch {
	case i < 0:
		s.index = -1
	case i > len(s.tokens):
		s.index = len(s.tokens)
	default:
		s.index = i
	}
}

// AtEnd reports whether the cursor is parked past the last token.
func (s *Stream) AtEnd() bool { return s.index >= len(s.tokens) }

func (s *Stream) valid(i int) bool { return i >= 0 && i < len(s.tokens) }

// At returns the token at absolute index i, or a zero Token when out of range.
func (s *Stream) At(i int) Token {
	if !s.valid(i) {
		return Token{}
	}
	return s.tokens[i]
}

// Current returns the token under the cursor.
func (s *Stream) Current() (Token, bool) {
	if !s.valid(s.index) {
		return Token{}, false
	}
	return s.tokens[s.index], true
}

// CurrentText returns the text under the cursor or "" on a sentinel.
func (s *Stream) CurrentText() string {
	return s.At(s.index).Text
}

// CurrentIs reports whether the current token text is text.
func (s *Stream) CurrentIs(text string) bool {
	tok, ok := s.Current()
	return ok && tok.Text == text
}

// CurrentSpan returns the span of the current token; past the end it is
// the empty span right after the last token.
func (s *Stream) CurrentSpan() source.Span {
	if s.valid(s.index) {
		return s.tokens[s.index].Span
	}
	if len(s.tokens) == 0 {
		return source.Span{}
	}
	if s.index < 0 {
		return s.tokens[0].Span
	}
	return s.tokens[len(s.tokens)-1].Span.ZeroideToEnd()
}

// Peek returns the token n positions away from the cursor without moving it.
// Negative n looks backwards.
func (s *Stream) Peek(n int) (Token, bool) {
	i := s.index + n
	if !s.valid(i) {
		return Token{}, false
	}
	return s.tokens[i], true
}

// PeekText is Peek returning only the text ("" when out of range).
func (s *Stream) PeekText(n int) string {
	tok, _ := s.Peek(n)
	return tok.Text
}

// Next advances by one and returns the new current token.
func (s *Stream) Next() (Token, bool) {
	return s.NextMultiple(1)
}

// NextMultiple advances by n (negative goes back) and returns the new current token.
func (s *Stream) NextMultiple(n int) (Token, bool) {
	s.GoToIndex(s.index + n)
	return s.Current()
}

// NextIf advances when the token after the cursor has the given text.
func (s *Stream) NextIf(text string) bool {
	if tok, ok := s.Peek(1); ok && tok.Text == text {
		s.index++
		return true
	}
	return false
}

// Eat consumes the current token when its text matches.
func (s *Stream) Eat(text string) bool {
	if !s.CurrentIs(text) {
		return false
	}
	s.index++
	return true
}

// SkipNewlines moves the cursor over newline tokens.
func (s *Stream) SkipNewlines() {
	for s.CurrentIs(Newline) {
		s.index++
	}
}

// SkipEndOfLines moves the cursor over newline and ';' tokens.
func (s *Stream) SkipEndOfLines() {
	for {
		tok, ok := s.Current()
		if !ok || !tok.IsEndOfLine() {
			return
		}
		s.index++
	}
}

// SpanBetween covers tokens [from, to] inclusive; indices are clamped.
func (s *Stream) SpanBetween(from, to int) source.Span {
	if len(s.tokens) == 0 {
		return source.Span{}
	}
	from = max(0, min(from, len(s.tokens)-1))
	to = max(0, min(to, len(s.tokens)-1))
	if to < from {
		from, to = to, from
	}
	return s.tokens[from].Span.Combine(s.tokens[to].Span)
}

// SpanFrom covers tokens from start up to the token before the cursor.
func (s *Stream) SpanFrom(start int) source.Span {
	end := s.index - 1
	if end < start {
		end = start
	}
	return s.SpanBetween(start, end)
}
