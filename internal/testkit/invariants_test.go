package testkit

import (
	"strings"
	"testing"

	"soul/internal/ast"
	"soul/internal/lexer"
	"soul/internal/parser"
	"soul/internal/source"
)

func parse(t *testing.T, src string) *parser.ParserResponse {
	t.Helper()
	toks, err := lexer.Tokenize([]byte(src), lexer.Options{})
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	resp, err := parser.ParseWithOptions(toks, "test", nil, parser.Options{Script: true})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return resp
}

func TestParsedProgramsHoldInvariants(t *testing.T) {
	programs := []string{
		"x := 1\ny := 2\n",
		"foo(int a) int {\n if a > 1 {\n  return a\n } else {\n  return 0\n }\n}\n",
		"for i in 0..3 {\n while {\n  break\n }\n}\n",
		"struct P { int x }\n{\n p := P{x: 1}\n}\n",
	}
	for _, src := range programs {
		if err := CheckSpanInvariants(parse(t, src), []byte(src)); err != nil {
			t.Errorf("%q: %v", src, err)
		}
	}
}

func TestBrokenSpansAreReported(t *testing.T) {
	src := "x := 1\ny := 2\n"
	resp := parse(t, src)

	stmts := resp.Tree.Root.Statements
	stmts[0], stmts[1] = stmts[1], stmts[0]
	if err := CheckSpanInvariants(resp, []byte(src)); err == nil || !strings.Contains(err.Error(), "does not follow") {
		t.Fatalf("swapped statements not reported: %v", err)
	}

	resp = parse(t, src)
	resp.Tree.Root.Statements[1].Span = source.Span{}
	if err := CheckSpanInvariants(resp, []byte(src)); err == nil || !strings.Contains(err.Error(), "empty span") {
		t.Fatalf("empty span not reported: %v", err)
	}

	resp = parse(t, src)
	resp.Tree.Root.Statements = append(resp.Tree.Root.Statements, ast.Statement{Kind: ast.StmtBreak, Span: source.Span{Line: 40, Col: 1, Len: 5}})
	if err := CheckSpanInvariants(resp, []byte(src)); err == nil || !strings.Contains(err.Error(), "starts on line") {
		t.Fatalf("out of range span not reported: %v", err)
	}
}
