package ast

import (
	"testing"

	"soul/internal/types"
)

func lit(v int64) Expression {
	return Expression{Kind: ExprLiteral, Literal: &Literal{Kind: LitInt, Int: v}}
}

func bin(op BinaryOp, l, r Expression) Expression {
	return Expression{Kind: ExprBinary, Binary: &Binary{Op: op, Left: l, Right: r}}
}

func array(elems ...Expression) Expression {
	return Expression{Kind: ExprArray, Group: &Group{Elements: elems}}
}

func TestFormat(t *testing.T) {
	str := types.Primitive("str")
	cases := []struct {
		name string
		expr Expression
		want string
	}{
		{"precedence", bin(BinAdd, lit(1), bin(BinMul, lit(2), lit(3))), "Add(Literal(1), Mul(Literal(2), Literal(3)))"},
		{"string", Expression{Kind: ExprLiteral, Literal: &Literal{Kind: LitStr, Str: "hi"}}, `Literal("hi")`},
		{"unary", Expression{Kind: ExprUnary, Unary: &Unary{Op: UnNeg, Operand: lit(4)}}, "Neg(Literal(4))"},
		{
			"method call",
			Expression{Kind: ExprCall, Call: &Call{
				Receiver: &Expression{Kind: ExprVariable, Variable: &Variable{Name: "xs"}},
				Name:     "push",
				Args:     []Argument{{Value: lit(1)}},
			}},
			"Call(Variable(xs).push, Literal(1))",
		},
		{
			"generic call with named arg",
			Expression{Kind: ExprCall, Call: &Call{
				Name:     "make",
				Generics: []types.TypeGenericArg{{Type: &str}},
				Args:     []Argument{{Name: "size", Value: lit(2)}},
			}},
			"Call(make<str>, size: Literal(2))",
		},
		{"array", array(lit(1), lit(2)), "Array(Literal(1), Literal(2))"},
		{
			"named tuple with defaults",
			Expression{Kind: ExprNamedTuple, NamedTuple: &NamedTuple{Fields: []Argument{{Name: "a", Value: lit(1)}}, Defaults: true}},
			"NamedTuple(a: Literal(1), ..)",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Format(tc.expr); got != tc.want {
				t.Fatalf("Format = %s\nwant     %s", got, tc.want)
			}
		})
	}
}

func TestFormatStmtIfChain(t *testing.T) {
	cond := Expression{Kind: ExprLiteral, Literal: &Literal{Kind: LitBool, Bool: true}}
	s := Statement{Kind: StmtIf, If: &If{
		Condition: cond,
		Else: []ElseBranch{
			{Kind: ElseIf, Condition: &cond},
			{Kind: Else},
		},
	}}
	if got := FormatStmt(s); got != "If(Literal(true)) {} ElseIf(Literal(true)) {} Else {}" {
		t.Fatalf("FormatStmt = %s", got)
	}
}

func TestProgramMemoryDedup(t *testing.T) {
	mem := NewProgramMemory()
	a := mem.Intern(array(lit(1), lit(2), lit(3)))
	b := mem.Intern(array(lit(1), lit(2), lit(3)))
	c := mem.Intern(array(lit(3), lit(2), lit(1)))
	if a != b {
		t.Fatalf("identical literals got different ids: %d %d", a, b)
	}
	if a == c {
		t.Fatalf("different literals share id %d", a)
	}
	if mem.Len() != 2 || MemoryName(a) != "__soul_mem_1" {
		t.Fatalf("Len = %d, name = %s", mem.Len(), MemoryName(a))
	}

	// a table restored without its index rebuilds it
	restored := &ProgramMemory{Entries: mem.Entries}
	if id := restored.Intern(array(lit(3), lit(2), lit(1))); id != c {
		t.Fatalf("restored Intern = %d, want %d", id, c)
	}
}

func TestIsLiteralValue(t *testing.T) {
	v := Expression{Kind: ExprVariable, Variable: &Variable{Name: "x"}}
	nested := array(lit(1), array(lit(2)))
	if !nested.IsLiteralValue() {
		t.Fatalf("nested literal array rejected")
	}
	mixed := array(lit(1), v)
	if mixed.IsLiteralValue() {
		t.Fatalf("array with a variable accepted")
	}
}

func TestArenaOneBased(t *testing.T) {
	d := NewDecls()
	id := d.NewStruct(Struct{Name: "Point"})
	if !id.IsValid() || d.Struct(id).Name != "Point" {
		t.Fatalf("arena lookup failed for %d", id)
	}
	if d.Struct(NoStructID) != nil || d.Struct(42) != nil {
		t.Fatalf("invalid ids resolved")
	}
}
