package parser

import (
	"testing"

	"soul/internal/diag"
)

func newTestParser(t *testing.T, src string) *Parser {
	t.Helper()
	return newParser(lex(t, src), "test", nil, Options{})
}

func TestClassify(t *testing.T) {
	tests := []struct {
		input string
		want  StmtClass
	}{
		{"x := 1", ClassVariable},
		{"int x = 1", ClassVariable},
		{"const x = 1", ClassVariable},
		{"int x", ClassVariable},
		{"int[] xs", ClassVariable},
		{"List<int> xs", ClassVariable},
		{"(int, str) t = x", ClassVariable},
		{"x = 1", ClassAssignment},
		{"x += 1", ClassAssignment},
		{"a.b = 1", ClassAssignment},
		{"xs[0] = 1", ClassAssignment},
		{"foo(1)", ClassFunctionCall},
		{"a.b(1)", ClassFunctionCall},
		{"foo() {}", ClassFunction},
		{"foo<T>(T x) T {}", ClassFunction},
		{"int.double(this) int {}", ClassFunction},
		{"foo<T>(T x) T where T: Num {}", ClassFunction},
		{"foo()\n{", ClassFunction},
		{"Point{x: 1}", ClassStructConstructor},
		{"1 + 2", ClassExpression},
		{"-x", ClassExpression},
		{"a < b", ClassExpression},
		{"fn() => 1", ClassExpression},
		{"if x {}", ClassIf},
		{"else {}", ClassElse},
		{"while {}", ClassWhile},
		{"for x {}", ClassFor},
		{"match x {}", ClassMatch},
		{"return 1", ClassReturn},
		{"break", ClassBreak},
		{"continue", ClassContinue},
		{"struct A {}", ClassStruct},
		{"class A {}", ClassClass},
		{"trait A {}", ClassTrait},
		{"enum A {}", ClassEnum},
		{"union A {}", ClassUnion},
		{"type A = int", ClassTypeDef},
		{"use a.b", ClassUse},
		{"{", ClassOpenBlock},
		{"}", ClassCloseBlock},
		{"", ClassEndOfLine},
		{"\n", ClassEndOfLine},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p := newTestParser(t, tt.input)
			got, err := p.classify()
			if err != nil {
				t.Fatalf("classify: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
			if p.ts.CurrentIndex() != 0 {
				t.Fatalf("classify moved the cursor to %d", p.ts.CurrentIndex())
			}
		})
	}
}

func TestClassifyUnbalanced(t *testing.T) {
	for _, input := range []string{"foo(1", "a)", "a]", "(1 }", "[1, 2\n"} {
		t.Run(input, func(t *testing.T) {
			_, err := newTestParser(t, input).classify()
			if diag.KindOf(err) != diag.UnmatchedParenthesis {
				t.Fatalf("got %v, want UnmatchedParenthesis", err)
			}
		})
	}
}
