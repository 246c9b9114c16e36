package fuzztests

import (
	"errors"
	"testing"

	"soul/internal/diag"
	"soul/internal/lexer"
)

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		toks, err := lexer.Tokenize(clamp(input), lexer.Options{})
		var se *diag.SoulError
		if err != nil && !errors.As(err, &se) {
			t.Fatalf("lexer returned a foreign error %T: %v", err, err)
		}
		var prevLine, prevCol uint32
		for i, tok := range toks {
			if tok.Span.Line == 0 || tok.Span.Col == 0 {
				t.Fatalf("token %d %q has a zero position %+v", i, tok.Text, tok.Span)
			}
			// позиции растут строго
			if tok.Span.Line < prevLine || tok.Span.Line == prevLine && tok.Span.Col <= prevCol {
				t.Fatalf("token %d %q at %s is not after %d:%d", i, tok.Text, tok.Span, prevLine, prevCol)
			}
			prevLine, prevCol = tok.Span.Line, tok.Span.Col
		}
	})
}
