package parser

import (
	"fmt"
	"strings"
	"testing"

	"soul/internal/ast"
	"soul/internal/diag"
	"soul/internal/lexer"
	"soul/internal/token"
)

func errorsSummary(errs []*diag.SoulError) string {
	if len(errs) == 0 {
		return "<none>"
	}
	lines := make([]string, len(errs))
	for i, e := range errs {
		lines[i] = fmt.Sprintf("[%s] %s", e.Kind().ID(), e.Error())
	}
	return strings.Join(lines, "; ")
}

func lex(t *testing.T, src string) []token.Token {
	t.Helper()
	toks, err := lexer.Tokenize([]byte(src), lexer.Options{})
	if err != nil {
		t.Fatalf("tokenize %q: %v", src, err)
	}
	return toks
}

// parseWith parses src and fails the test on any error.
func parseWith(t *testing.T, src string, opts Options) *ParserResponse {
	t.Helper()
	resp, err := ParseWithOptions(lex(t, src), "test", nil, opts)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	if len(resp.Errors) != 0 {
		t.Fatalf("parse %q: unexpected errors: %s", src, errorsSummary(resp.Errors))
	}
	return resp
}

func parseSource(t *testing.T, src string) *ParserResponse {
	t.Helper()
	return parseWith(t, src, Options{})
}

func parseScript(t *testing.T, src string) *ParserResponse {
	t.Helper()
	return parseWith(t, src, Options{Script: true})
}

// parseFailure expects a fatal error.
func parseFailure(t *testing.T, src string, opts Options) *diag.SoulError {
	t.Helper()
	resp, err := ParseWithOptions(lex(t, src), "test", nil, opts)
	if err == nil {
		t.Fatalf("parse %q: expected an error, got %d statements", src, len(resp.Tree.Root.Statements))
	}
	return diag.As(err)
}

// lastExpr parses src as a script and formats its last statement.
func lastExpr(t *testing.T, src string) string {
	t.Helper()
	resp := parseScript(t, src)
	stmts := resp.Tree.Root.Statements
	if len(stmts) == 0 {
		t.Fatalf("parse %q: no statements", src)
	}
	return ast.FormatStmt(stmts[len(stmts)-1])
}
