package token

import (
	"soul/internal/source"
)

// Newline is the text of the significant line-break token.
const Newline = "\n"

// Token represents a single source token with its location.
type Token struct {
	Text string
	Span source.Span
}

// Kind classifies the token by its text.
func (t Token) Kind() Kind { return Classify(t.Text) }

// Is reports whether the token text equals s.
func (t Token) Is(s string) bool { return t.Text == s }

// IsEndOfLine reports whether the token terminates a statement line.
func (t Token) IsEndOfLine() bool { return t.Text == Newline || t.Text == ";" }

// IsIdent reports whether the token is a non-keyword identifier.
func (t Token) IsIdent() bool { return Classify(t.Text) == Ident }

// IsLiteral reports whether the token is a numeric, char, string or bool literal.
func (t Token) IsLiteral() bool {
	switch Classify(t.Text) {
	case IntLit, FloatLit, CharLit, StringLit, BoolLit:
		return true
	default:
		return false
	}
}

// IsLifetime reports whether the token is a lifetime ('a).
func (t Token) IsLifetime() bool { return Classify(t.Text) == Lifetime }

func (t Token) String() string {
	if t.Text == Newline {
		return `\n`
	}
	return t.Text
}
