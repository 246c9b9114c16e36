package fuzztests

import (
	"context"
	"errors"
	"testing"
	"time"

	"soul/internal/diag"
	"soul/internal/lexer"
	"soul/internal/parser"
	"soul/internal/testkit"
)

// parseTimeout is the maximum time allowed for parsing a single input.
// If parsing takes longer, it indicates a potential infinite loop.
const parseTimeout = 5 * time.Second

func parse(input []byte, script bool) (*parser.ParserResponse, error) {
	toks, err := lexer.Tokenize(input, lexer.Options{})
	if err != nil {
		return nil, err
	}
	return parser.ParseWithOptions(toks, "fuzz", nil, parser.Options{MaxErrors: 128, Script: script})
}

func FuzzParserErrors(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clamp(input)
		for _, script := range []bool{false, true} {
			resp, err := parse(input, script)
			if err == nil {
				if err := testkit.CheckSpanInvariants(resp, input); err != nil {
					t.Fatalf("span invariants on %q: %v", truncateForLog(input, 200), err)
				}
				continue
			}
			var se *diag.SoulError
			if !errors.As(err, &se) {
				t.Fatalf("parser returned a foreign error %T: %v", err, err)
			}
			if se.Kind() == diag.InternalError {
				t.Fatalf("internal error on %q: %v", truncateForLog(input, 200), err)
			}
		}
	})
}

// FuzzParserNoHang tests that the parser doesn't hang on any input.
func FuzzParserNoHang(f *testing.F) {
	addCorpusSeeds(f)
	f.Add([]byte("foo() { { { { } } } }"))
	f.Add([]byte("x := (1, (2, [3, {a: 4}]))"))
	f.Add([]byte("while {\n while {\n break\n }\n}"))
	f.Add([]byte("a.b.c.d(e)(f)[g]"))

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clamp(input)

		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()

		done := make(chan struct{})
		go func() {
			defer close(done)
			_, _ = parse(input, true)
		}()

		select {
		case <-done:
		case <-ctx.Done():
			t.Fatalf("parser hang detected: parsing took longer than %v\ninput (%d bytes): %q",
				parseTimeout, len(input), truncateForLog(input, 200))
		}
	})
}
