package parser

import (
	"testing"

	"soul/internal/ast"
	"soul/internal/diag"
	"soul/internal/source"
	"soul/internal/symbols"
)

func TestParseGlobalArithmetic(t *testing.T) {
	resp := parseSource(t, "x := 1 + 2 * 3")
	stmts := resp.Tree.Root.Statements
	if len(stmts) != 1 || stmts[0].Kind != ast.StmtVarDecl {
		t.Fatalf("expected one variable declaration, got %d statements", len(stmts))
	}
	v := stmts[0].Var
	if v.Name != "x" || !v.Global {
		t.Fatalf("unexpected declaration %+v", v)
	}
	if got, want := ast.Format(*v.Init), "Add(Literal(1), Mul(Literal(2), Literal(3)))"; got != want {
		t.Fatalf("init = %s, want %s", got, want)
	}
	if _, ok := resp.Scopes.Node(symbols.RootScope).Symbols["x"]; !ok {
		t.Fatalf("x is not declared in the global scope")
	}
}

func TestForwardReferencedCall(t *testing.T) {
	resp := parseSource(t, "foo()\nfoo() int {}")
	stmts := resp.Tree.Root.Statements
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(stmts))
	}
	call := stmts[0].Expr
	if call == nil || call.Kind != ast.ExprCall {
		t.Fatalf("first statement is %s, want a call", ast.FormatStmt(stmts[0]))
	}
	if call.Call.Scope != symbols.RootScope {
		t.Fatalf("call resolved in scope %d, want the global scope", call.Call.Scope)
	}
	if stmts[1].Kind != ast.StmtFnDecl {
		t.Fatalf("second statement is %s, want a function", stmts[1].Kind)
	}
	fn := resp.Tree.Decls.Function(stmts[1].Function)
	if fn.Signature.Name != "foo" || fn.Signature.ReturnType == nil || fn.Signature.ReturnType.String() != "int" {
		t.Fatalf("unexpected signature %+v", fn.Signature)
	}
	entries := resp.Scopes.Node(symbols.RootScope).Symbols["foo"]
	if len(entries) != 1 || entries[0].Placeholder || entries[0].Decl != symbols.DeclID(stmts[1].Function) {
		t.Fatalf("placeholder was not filled: %+v", entries)
	}
}

func TestIfChain(t *testing.T) {
	src := "x := 1\nif x == 1 {\n} else if x == 2 {\n}\nelse {\n}"
	resp := parseScript(t, src)
	stmts := resp.Tree.Root.Statements
	if len(stmts) != 2 || stmts[1].Kind != ast.StmtIf {
		t.Fatalf("expected a declaration and an if, got %d statements", len(stmts))
	}
	n := stmts[1].If
	if len(n.Else) != 2 {
		t.Fatalf("expected 2 else branches, got %d", len(n.Else))
	}
	if n.Else[0].Kind != ast.ElseIf || n.Else[0].Condition == nil {
		t.Fatalf("first branch is %s", n.Else[0].Kind)
	}
	if n.Else[1].Kind != ast.Else || n.Else[1].Condition != nil {
		t.Fatalf("second branch is %s", n.Else[1].Kind)
	}
}

func TestStrayCloseBrace(t *testing.T) {
	err := parseFailure(t, "const x := 1\n}", Options{})
	if err.Kind() != diag.UnmatchedParenthesis {
		t.Fatalf("got %s: %v", err.Kind(), err)
	}
	want := source.Span{Line: 2, Col: 1, Len: 1}
	if err.Span() != want {
		t.Fatalf("span = %+v, want %+v", err.Span(), want)
	}
}

func TestStatements(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"typed declaration", "int x = 1", "VarDecl(x: int = Literal(1))"},
		{"typed without init", "int[] xs", "VarDecl(xs: int[])"},
		{"modifier", "const x := 1", "VarDecl(x = Literal(1))"},
		{"assign", "x := 1\nx = 2", "Assign(Variable(x) = Literal(2))"},
		{"compound assign", "x := 1\nx += 2", "Assign(Variable(x) += Literal(2))"},
		{"index assign", "xs := [1]\nxs[0] = 2", "Assign(Index(Variable(xs), Literal(0)) = Literal(2))"},
		{"for", "for i in 0..3 {\n i\n}", "For(i in Range(Literal(0), Literal(3))) {Variable(i)}"},
		{"for without var", "for 3 {\n}", "For(Literal(3)) {}"},
		{"while", "x := 1\nwhile x < 3 {\n x += 1\n}", "While(Lt(Variable(x), Literal(3))) {Assign(Variable(x) += Literal(1))}"},
		{"endless while", "while {\n break\n}", "While() {Break}"},
		{"block", "{\n x := 1\n x\n}", "{VarDecl(x = Literal(1)); Variable(x)}"},
		{"use", "use std.io", "Use(std.io as io)"},
		{"use alias", "use std.io as sio", "Use(std.io as sio)"},
		{"use value", "use std.io\nio.print(1)", "Call(External(io).print, Literal(1))"},
		{"external path", "use std.io\nio.stdout", "External(io.stdout)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lastExpr(t, tt.input); got != tt.want {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestShadowingInBlocks(t *testing.T) {
	resp := parseScript(t, "x := 1\n{\n x := \"s\"\n x\n}\nx")
	stmts := resp.Tree.Root.Statements
	inner := stmts[1].Block
	if inner.Scope == symbols.RootScope {
		t.Fatalf("block did not open a scope")
	}
	use := inner.Statements[1].Expr.Variable
	if use.Scope != inner.Scope {
		t.Fatalf("inner x resolved to scope %d, want %d", use.Scope, inner.Scope)
	}
	outer := stmts[2].Expr.Variable
	if outer.Scope != symbols.RootScope {
		t.Fatalf("outer x resolved to scope %d", outer.Scope)
	}
}

func TestGlobalVariableRules(t *testing.T) {
	tests := []struct {
		name  string
		input string
		ok    bool
	}{
		{"literal", "x := 1", true},
		{"literal expression", "x := -1 + 2", true},
		{"literal array", "xs := [1, 2]", true},
		{"const from variable", "x := 1\nconst y := x", true},
		{"from variable", "x := 1\ny := x", false},
		{"from call", "foo() int { return 1 }\nx := foo()", false},
		{"no initializer", "int x", false},
		{"inside function", "foo() {\n x := 1\n y := x\n}", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := ParseWithOptions(lex(t, tt.input), "test", nil, Options{})
			if tt.ok {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if len(resp.Errors) != 0 {
					t.Fatalf("unexpected errors: %s", errorsSummary(resp.Errors))
				}
				return
			}
			if err == nil {
				t.Fatalf("expected an error")
			}
			if k := diag.KindOf(err); k != diag.InvalidInContext {
				t.Fatalf("got %s: %v", k, err)
			}
			// REPL input lifts the restriction
			parseScript(t, tt.input)
		})
	}
}

func TestStatementErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  diag.ErrorKind
	}{
		{"else without if", "else {\n}", diag.InvalidInContext},
		{"assign to literal", "1 = 2", diag.InvalidInContext},
		{"typed walrus", "int x := 1", diag.InvalidInContext},
		{"missing block close", "foo() {\n x := 1\n", diag.UnmatchedParenthesis},
		{"unknown type", "Missing x = 1", diag.NotFoundInScope},
		{"trailing tokens", "x := 1 2", diag.UnexpectedToken},
		{"for without collection", "for {\n}", diag.UnexpectedToken},
		{"this param outside methods", "foo(this) {}", diag.InvalidInContext},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parseFailure(t, tt.input, Options{Script: true})
			if err.Kind() != tt.want {
				t.Fatalf("got %s (%v), want %s", err.Kind(), err, tt.want)
			}
		})
	}
}

func TestErrorFramesNameTheFunction(t *testing.T) {
	err := parseFailure(t, "foo() {\n x := 1 +\n}", Options{})
	frames := err.Outermost()
	if len(frames) < 2 {
		t.Fatalf("expected wrapped frames, got %d: %v", len(frames), err)
	}
	if got := frames[0].Message; got != "while trying to parse function 'foo'" {
		t.Fatalf("outermost frame = %q", got)
	}
	if err.Kind() != diag.UnexpectedToken {
		t.Fatalf("kind = %s", err.Kind())
	}
}

func TestDuplicateDeclarationIsNotFatal(t *testing.T) {
	resp, err := ParseWithOptions(lex(t, "x := 1\nx := 2"), "test", nil, Options{Script: true})
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(resp.Errors) != 1 || resp.Errors[0].Kind() != diag.InvalidName {
		t.Fatalf("expected one InvalidName, got %s", errorsSummary(resp.Errors))
	}
	if len(resp.Tree.Root.Statements) != 2 {
		t.Fatalf("parsing stopped at the duplicate")
	}
}

func TestOverloadsShareAName(t *testing.T) {
	resp := parseSource(t, "f(int a) {}\nf(str s) {}\nf(1)")
	entries := resp.Scopes.Node(symbols.RootScope).Symbols["f"]
	if len(entries) != 2 {
		t.Fatalf("expected 2 overloads, got %d", len(entries))
	}
	for _, e := range entries {
		if e.Placeholder || !e.Decl.IsValid() {
			t.Fatalf("unfilled overload %+v", e)
		}
	}
}
