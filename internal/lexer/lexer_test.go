package lexer_test

import (
	"strings"
	"testing"

	"soul/internal/diag"
	"soul/internal/lexer"
	"soul/internal/source"
	"soul/internal/token"
)

func texts(toks []token.Token) string {
	parts := make([]string, len(toks))
	for i, t := range toks {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}

func TestTokenize(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"var decl", "x := 1 + 2 * 3\n", `x := 1 + 2 * 3 \n`},
		{"nested generics", "List<List<int>> a", "List < List < int > > a"},
		{"range", "for i in 0..10 {}", "for i in 0 .. 10 { }"},
		{"float and field", "a.b 1.5 t.0", "a . b 1.5 t . 0"},
		{"numbers", "0x1F 0b101 1_000 2e10", "0x1F 0b101 1_000 2e10"},
		{"char vs lifetime", "'a' 'b int'a@", "'a' 'b int 'a @"},
		{"escaped char", `'\n'`, `'\n'`},
		{"string", `s := "a \"b\" c"`, `s := "a \"b\" c"`},
		{"assign ops", "a += 1; b <<= 2", "a += 1 ; b <<= 2"},
		{"comments", "a // tail\n/* x\ny */ b", `a \n \n b`},
		{"unicode ident", "имя := 1", "имя := 1"},
		{"arrows", "x => y -> z", "x => y -> z"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			toks, err := lexer.Tokenize([]byte(tc.src), lexer.Options{})
			if err != nil {
				t.Fatalf("Tokenize: %v", err)
			}
			if got := texts(toks); got != tc.want {
				t.Fatalf("tokens = %q\nwant     %q", got, tc.want)
			}
		})
	}
}

func TestTokenSpans(t *testing.T) {
	toks, err := lexer.Tokenize([]byte("foo(x)\n\tbar"), lexer.Options{})
	if err != nil {
		t.Fatal(err)
	}
	want := []source.Span{
		{Line: 1, Col: 1, Len: 3},
		{Line: 1, Col: 4, Len: 1},
		{Line: 1, Col: 5, Len: 1},
		{Line: 1, Col: 6, Len: 1},
		{Line: 1, Col: 7, Len: 1},
		{Line: 2, Col: 5, Len: 3},
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens: %s", len(toks), texts(toks))
	}
	for i := range want {
		if toks[i].Span != want[i] {
			t.Errorf("token %d %q span = %+v, want %+v", i, toks[i].Text, toks[i].Span, want[i])
		}
	}
}

func TestLexErrorsAreReported(t *testing.T) {
	bag := diag.NewBag(10)
	toks, err := lexer.Tokenize([]byte("a # b\n\"open"), lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	if err == nil {
		t.Fatalf("expected error")
	}
	if diag.KindOf(err) != diag.UnexpectedToken {
		t.Fatalf("first error kind = %v", diag.KindOf(err))
	}
	if bag.Len() != 2 {
		t.Fatalf("bag has %d errors, want 2", bag.Len())
	}
	if got := texts(toks); got != `a b \n` {
		t.Fatalf("lexing did not continue: %q", got)
	}
}

func TestPreprocessNFC(t *testing.T) {
	decomposed := "s := \"e\u0301\""
	out := string(lexer.Preprocess([]byte(decomposed)))
	if out != "s := \"\u00e9\"" {
		t.Fatalf("Preprocess = %q", out)
	}
}
