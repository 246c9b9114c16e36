package token

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates text that is not a Soul token.
	Invalid Kind = iota
	Ident
	Keyword
	IntLit
	FloatLit
	CharLit
	StringLit
	BoolLit
	Lifetime
	Operator
	Punct
	EndOfLine
)

var kindNames = [...]string{
	Invalid:   "Invalid",
	Ident:     "Ident",
	Keyword:   "Keyword",
	IntLit:    "IntLit",
	FloatLit:  "FloatLit",
	CharLit:   "CharLit",
	StringLit: "StringLit",
	BoolLit:   "BoolLit",
	Lifetime:  "Lifetime",
	Operator:  "Operator",
	Punct:     "Punct",
	EndOfLine: "EndOfLine",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

var operators = map[string]struct{}{
	"+": {}, "-": {}, "*": {}, "/": {}, "%": {}, "**": {},
	"==": {}, "!=": {}, "<": {}, ">": {}, "<=": {}, ">=": {},
	"&&": {}, "||": {}, "!": {}, "~": {},
	"&": {}, "|": {}, "^": {}, "<<": {}, "@": {},
	"=": {}, ":=": {}, "+=": {}, "-=": {}, "*=": {}, "/=": {}, "%=": {},
	"&=": {}, "|=": {}, "^=": {}, "<<=": {},
	"..": {}, "=>": {}, "->": {},
}

const punct = "()[]{},.:?"

// IsOperator reports whether text is an operator lexeme.
func IsOperator(text string) bool {
	_, ok := operators[text]
	return ok
}

// IsAssignOp reports whether text is a compound assignment operator (+=, ...).
func IsAssignOp(text string) bool {
	switch text {
	case "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<=":
		return true
	}
	return false
}

// Classify returns the token kind for a lexeme.
func Classify(text string) Kind {
	if text == "" {
		return Invalid
	}
	if text == Newline || text == ";" {
		return EndOfLine
	}
	if text == "true" || text == "false" {
		return BoolLit
	}
	if _, ok := keywords[text]; ok {
		return Keyword
	}
	if IsOperator(text) {
		return Operator
	}
	if len(text) == 1 && strings.Contains(punct, text) {
		return Punct
	}
	switch text[0] {
	case '"':
		return StringLit
	case '\'':
		if len(text) >= 3 && text[len(text)-1] == '\'' {
			return CharLit
		}
		if len(text) >= 2 && isIdentName(text[1:]) {
			return Lifetime
		}
		return Invalid
	}
	if text[0] >= '0' && text[0] <= '9' {
		if isFloat(text) {
			return FloatLit
		}
		return IntLit
	}
	if isIdentName(text) {
		return Ident
	}
	return Invalid
}

func isIdentName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

func isFloat(s string) bool {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0b") {
		return false
	}
	return strings.ContainsAny(s, ".eE")
}

// IsIdentStart reports whether r may start an identifier.
func IsIdentStart(r rune) bool { return r == '_' || unicode.IsLetter(r) }

// IsIdentContinue reports whether r may continue an identifier.
func IsIdentContinue(r rune) bool { return IsIdentStart(r) || unicode.IsDigit(r) }

// IsNameLike reports whether the token counts as a "name" for statement
// classification: identifiers, primitive type names and `this`.
func IsNameLike(text string) bool {
	if text == "this" {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text)
	return Classify(text) == Ident && IsIdentStart(r)
}
