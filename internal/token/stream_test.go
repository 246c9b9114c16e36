package token

import (
	"testing"

	"soul/internal/source"
)

func toks(texts ...string) []Token {
	out := make([]Token, len(texts))
	col := uint32(1)
	for i, t := range texts {
		out[i] = Token{Text: t, Span: source.Span{Line: 1, Col: col, Len: uint32(len(t))}}
		col += uint32(len(t)) + 1
	}
	return out
}

func TestStreamNextParksOnSentinel(t *testing.T) {
	s := NewStream(toks("a", "b"))
	if tok, ok := s.Current(); !ok || tok.Text != "a" {
		t.Fatalf("Current() = %q, %v; want a, true", tok.Text, ok)
	}
	if tok, ok := s.Next(); !ok || tok.Text != "b" {
		t.Fatalf("Next() = %q, %v; want b, true", tok.Text, ok)
	}
	if _, ok := s.Next(); ok {
		t.Fatalf("Next() past end returned ok")
	}
	if s.CurrentIndex() != 2 || !s.AtEnd() {
		t.Fatalf("cursor index = %d, want sentinel 2", s.CurrentIndex())
	}
	if _, ok := s.Next(); ok {
		t.Fatalf("Next() on sentinel returned ok")
	}
	if s.CurrentIndex() != 2 {
		t.Fatalf("sentinel moved to %d", s.CurrentIndex())
	}

	s.GoToIndex(0)
	if _, ok := s.NextMultiple(-1); ok {
		t.Fatalf("stepping before the start returned ok")
	}
	if s.CurrentIndex() != -1 {
		t.Fatalf("cursor index = %d, want -1", s.CurrentIndex())
	}
}

func TestStreamPeekAndNextIf(t *testing.T) {
	s := NewStream(toks("x", ":=", "1"))
	if got := s.PeekText(1); got != ":=" {
		t.Fatalf("PeekText(1) = %q", got)
	}
	if got := s.PeekText(5); got != "" {
		t.Fatalf("PeekText(5) = %q, want empty", got)
	}
	if s.NextIf("=") {
		t.Fatalf("NextIf(=) matched %q", s.PeekText(1))
	}
	if !s.NextIf(":=") || s.CurrentText() != ":=" {
		t.Fatalf("NextIf(:=) did not advance, current %q", s.CurrentText())
	}
	if !s.Eat(":=") || s.CurrentText() != "1" {
		t.Fatalf("Eat(:=) did not consume, current %q", s.CurrentText())
	}
}

func TestStreamRewind(t *testing.T) {
	s := NewStream(toks("a", "b", "c", "d"))
	mark := s.CurrentIndex()
	s.NextMultiple(3)
	if s.CurrentText() != "d" {
		t.Fatalf("current = %q, want d", s.CurrentText())
	}
	s.GoToIndex(mark)
	if s.CurrentText() != "a" {
		t.Fatalf("after rewind current = %q, want a", s.CurrentText())
	}
}

func TestStreamSpanBetween(t *testing.T) {
	s := NewStream(toks("foo", "(", ")"))
	got := s.SpanBetween(0, 2)
	want := source.Span{Line: 1, Col: 1, Len: 7}
	if got != want {
		t.Fatalf("SpanBetween = %+v, want %+v", got, want)
	}
	if s.At(10).Text != "" {
		t.Fatalf("At out of range returned a token")
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		text string
		want Kind
	}{
		{"foo", Ident},
		{"_x1", Ident},
		{"int", Ident},
		{"if", Keyword},
		{"Literal", Keyword},
		{"true", BoolLit},
		{"42", IntLit},
		{"0x1F", IntLit},
		{"1.5", FloatLit},
		{"'a'", CharLit},
		{"'a", Lifetime},
		{`"hi"`, StringLit},
		{"+=", Operator},
		{"(", Punct},
		{"\n", EndOfLine},
		{";", EndOfLine},
		{"#", Invalid},
	}
	for _, tc := range cases {
		if got := Classify(tc.text); got != tc.want {
			t.Errorf("Classify(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestKeywordsCaseSensitive(t *testing.T) {
	for _, s := range []string{"If", "STRUCT", "literal", "int", "toString"} {
		if IsKeyword(s) {
			t.Fatalf("IsKeyword(%q) = true", s)
		}
	}
	if !IsTypeModifier("const") || !IsTypeModifier("Literal") || IsTypeModifier("if") {
		t.Fatalf("type modifier table is wrong")
	}
}
