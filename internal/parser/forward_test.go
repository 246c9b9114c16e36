package parser

import (
	"testing"

	"soul/internal/diag"
	"soul/internal/external"
	"soul/internal/symbols"
	"soul/internal/types"
)

func TestHoistGlobalDeclarations(t *testing.T) {
	src := "foo() {}\nstruct A {}\nuse std.io\nbar(int x) int {\n return x\n}\nx := 1"
	p := newTestParser(t, src)
	if err := p.hoist(true, p.ts.CurrentSpan()); err != nil {
		t.Fatalf("hoist: %v", err)
	}
	if p.ts.CurrentIndex() != 0 {
		t.Fatalf("hoist left the cursor at %d", p.ts.CurrentIndex())
	}
	root := p.scopes.Values.Node(symbols.RootScope).Symbols

	foo := root["foo"]
	if len(foo) != 1 || !foo[0].Placeholder || foo[0].DeclIndex != 0 {
		t.Fatalf("foo placeholder = %+v", foo)
	}
	if bar := root["bar"]; len(bar) != 1 || !bar[0].Placeholder {
		t.Fatalf("bar placeholder = %+v", bar)
	}
	if io := root["io"]; len(io) != 1 || io[0].Kind != symbols.EntryUse || io[0].Path != "std.io" {
		t.Fatalf("use alias = %+v", io)
	}
	if _, ok := root["x"]; ok {
		t.Fatalf("variables must not be hoisted")
	}
	a, ok := p.scopes.LookupType("A")
	if !ok || a.Type.Kind != types.KindStruct {
		t.Fatalf("type A = %+v, %v", a, ok)
	}
}

func TestForwardReferences(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"call before declaration", "main() {\n helper(1)\n}\nhelper(int x) {}"},
		{"type before declaration", "main() {\n Point p = Point{x: 1}\n}\nstruct Point { int x }"},
		{"local function", "main() {\n inner()\n inner() {}\n}"},
		{"local type", "main() {\n Point p = Point{x: 1}\n struct Point { int x }\n}"},
		{"recursion", "fact(int n) int {\n return n * fact(n - 1)\n}"},
		{"mutual recursion", "a() { b() }\nb() { a() }"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parseSource(t, tt.input)
		})
	}
}

func TestLocalTypeBodiesSeeEnclosingTypes(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"self reference", "main() {\n struct Node {\n  Node* next\n }\n}"},
		{"sibling struct", "main() { struct A {int x}; struct B {A a} }"},
		{"sibling declared later", "main() {\n struct B {A a}\n struct A {int x}\n}"},
		{"method returns own class", "main() {\n class C {\n  int n\n  make() C {\n   return C{n: 1}\n  }\n }\n}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parseSource(t, tt.input)
		})
	}
}

func TestTypeBodiesHideEnclosingLocals(t *testing.T) {
	err := parseFailure(t, "main() {\n x := 1\n class S {\n  f() int {\n   return x\n  }\n }\n}", Options{})
	if err.Kind() != diag.NotFoundInScope {
		t.Fatalf("got %s: %v", err.Kind(), err)
	}
}

func TestLocalDeclarationsStayLocal(t *testing.T) {
	err := parseFailure(t, "main() {\n inner() {}\n}\nother() {\n inner()\n}", Options{})
	if err.Kind() != diag.NotFoundInScope {
		t.Fatalf("got %s: %v", err.Kind(), err)
	}
}

func TestHoistErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  diag.ErrorKind
	}{
		{"stray brace", "x := 1\n}", diag.UnmatchedParenthesis},
		{"never closed", "foo() {\n x := 1\n", diag.UnmatchedParenthesis},
		{"mismatched", "foo() {\n (1]\n}", diag.UnmatchedParenthesis},
		{"nameless function", "() {}", diag.InvalidName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parseFailure(t, tt.input, Options{})
			if err.Kind() != tt.want {
				t.Fatalf("got %s: %v", err.Kind(), err)
			}
		})
	}
}

func TestUseWithPages(t *testing.T) {
	pages := external.NewPages()
	pages.Add(&external.Header{
		Page:   "std.io",
		Types:  []external.TypeDecl{{Name: "File", Type: types.Named(types.KindStruct, "File")}},
		Values: []symbols.SymbolEntry{{Kind: symbols.EntryFunction, Name: "print"}},
	})

	resp, err := Parse(lex(t, "use std.io\nio.print(1)\nmain() {\n io.File f = io.File{}\n}"), "app", pages)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(resp.Tree.Root.Statements) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(resp.Tree.Root.Statements))
	}

	for _, src := range []string{"use std.missing", "use std.io\nio.nothing(1)"} {
		_, err := Parse(lex(t, src), "app", pages)
		if diag.KindOf(err) != diag.NotFoundInScope {
			t.Fatalf("%q: got %v, want NotFoundInScope", src, err)
		}
	}
}

func TestScanHeader(t *testing.T) {
	h, err := ScanHeader(lex(t, "foo() {}\nstruct A {}\nuse std.io\nx := 1\nconst int y = 2"), "app.main")
	if err != nil {
		t.Fatalf("ScanHeader: %v", err)
	}
	if h.Page != "app.main" {
		t.Fatalf("page = %q", h.Page)
	}
	if len(h.Types) != 1 || h.Types[0].Name != "A" {
		t.Fatalf("types = %+v", h.Types)
	}
	if len(h.Values) != 3 || h.Values[0].Name != "foo" || h.Values[1].Name != "x" || h.Values[2].Name != "y" {
		t.Fatalf("values = %+v", h.Values)
	}
	if x := h.Values[1]; x.Kind != symbols.EntryVariable || x.Type != nil {
		t.Fatalf("x = %+v", x)
	}
	if y := h.Values[2]; y.Type == nil || y.Type.String() != "const int" {
		t.Fatalf("y = %+v", y)
	}
}
