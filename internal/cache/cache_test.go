package cache

import (
	"path/filepath"
	"testing"
	"time"

	"soul/internal/ast"
	"soul/internal/diag"
	"soul/internal/lexer"
	"soul/internal/parser"
)

func parse(t *testing.T, src string) *parser.ParserResponse {
	t.Helper()
	toks, err := lexer.Tokenize([]byte(src), lexer.Options{})
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	resp, err := parser.ParseWithOptions(toks, "app", nil, parser.Options{Script: true})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return resp
}

func formatAll(block ast.Block) []string {
	out := make([]string, 0, len(block.Statements))
	for _, st := range block.Statements {
		out = append(out, ast.FormatStmt(st))
	}
	return out
}

func TestPutGetRoundTrip(t *testing.T) {
	c, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	resp := parse(t, "x := 1\nx := 2\nadd(int a, int b) int {\n return a + b\n}\ny := add(1, 2)")
	if len(resp.Errors) != 1 {
		t.Fatalf("fixture should carry one non-fatal error, got %d", len(resp.Errors))
	}
	mod := time.Date(2024, 3, 1, 12, 0, 0, 123, time.UTC)
	path := filepath.Join(t.TempDir(), "main.soul")
	if err := c.Put(&Entry{Path: path, ModTime: mod, Header: &resp.Header, Response: resp}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if len(resp.Errors) != 1 {
		t.Fatalf("Put must not modify the caller's response")
	}

	got, ok := c.Lookup(path, mod)
	if !ok {
		t.Fatalf("expected a fresh entry")
	}
	want := formatAll(resp.Tree.Root)
	have := formatAll(got.Response.Tree.Root)
	if len(want) != len(have) {
		t.Fatalf("statements: got %d, want %d", len(have), len(want))
	}
	for i := range want {
		if want[i] != have[i] {
			t.Errorf("statement %d: got %s, want %s", i, have[i], want[i])
		}
	}
	if len(got.Response.Errors) != 1 || got.Response.Errors[0].Kind() != diag.InvalidName {
		t.Fatalf("errors were not restored: %v", got.Response.Errors)
	}
	if got.Response.Errors[0].Span() != resp.Errors[0].Span() {
		t.Fatalf("span changed: %v vs %v", got.Response.Errors[0].Span(), resp.Errors[0].Span())
	}
	if got.Header == nil || got.Header.Page != resp.Header.Page || len(got.Header.Values) != len(resp.Header.Values) {
		t.Fatalf("header changed: %+v", got.Header)
	}
}

func TestFreshness(t *testing.T) {
	c, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	mod := time.Unix(1700000000, 0)
	path := "/tmp/project/src/a.soul"
	if err := c.Put(&Entry{Path: path, ModTime: mod}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, ok := c.Lookup(path, mod.Add(time.Second)); ok {
		t.Fatalf("entry with an older mtime must be stale")
	}
	if _, ok := c.Lookup("/tmp/project/src/b.soul", mod); ok {
		t.Fatalf("unexpected hit for another path")
	}
	entry, ok := c.Lookup(path, mod)
	if !ok || entry.Response != nil {
		t.Fatalf("header-only entry: ok=%v entry=%+v", ok, entry)
	}

	stale := &Entry{Schema: Schema + 1, ModTime: mod}
	if stale.Fresh(mod) {
		t.Fatalf("other schema must not be fresh")
	}
}

func TestClean(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "soul")
	c, err := Open(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	mod := time.Unix(1, 0)
	if err := c.Put(&Entry{Path: "a.soul", ModTime: mod}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := c.Clean(); err != nil {
		t.Fatalf("clean: %v", err)
	}
	if _, ok := c.Lookup("a.soul", mod); ok {
		t.Fatalf("entry survived Clean")
	}
	// кэш остаётся рабочим после очистки
	if err := c.Put(&Entry{Path: "a.soul", ModTime: mod}); err != nil {
		t.Fatalf("put after clean: %v", err)
	}
}

func TestDefaultDirUsesXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/var/cache/u")
	dir, err := DefaultDir()
	if err != nil {
		t.Fatalf("default dir: %v", err)
	}
	if dir != filepath.Join("/var/cache/u", AppName) {
		t.Fatalf("got %s", dir)
	}
}
