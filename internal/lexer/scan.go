package lexer

import (
	"soul/internal/diag"
	"soul/internal/token"
)

func isDec(r rune) bool { return r >= '0' && r <= '9' }

func isHex(r rune) bool {
	return isDec(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func (lx *Lexer) emit(start Mark) token.Token {
	return token.Token{Text: lx.cursor.TextFrom(start), Span: lx.cursor.SpanFrom(start)}
}

func (lx *Lexer) scanIdent() token.Token {
	start := lx.cursor.Mark()
	for token.IsIdentContinue(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	return lx.emit(start)
}

// Поддержка: 123, 1_000, 0x1F, 0b101, 1.5, 1e-3.
// "1..5" - это 1, "..", 5: точка входит в число только если за ней цифра.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()

	if lx.cursor.Peek() == '0' {
		switch lx.cursor.PeekAt(1) {
		case 'x', 'X':
			lx.cursor.Bump()
			lx.cursor.Bump()
			for isHex(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
				lx.cursor.Bump()
			}
			return lx.emit(start)
		case 'b', 'B':
			lx.cursor.Bump()
			lx.cursor.Bump()
			for r := lx.cursor.Peek(); r == '0' || r == '1' || r == '_'; r = lx.cursor.Peek() {
				lx.cursor.Bump()
			}
			return lx.emit(start)
		}
	}

	for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
		lx.cursor.Bump()
	}
	if lx.cursor.Peek() == '.' && isDec(lx.cursor.PeekAt(1)) {
		lx.cursor.Bump()
		for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
			lx.cursor.Bump()
		}
	}
	if r := lx.cursor.Peek(); r == 'e' || r == 'E' {
		next := lx.cursor.PeekAt(1)
		if isDec(next) || ((next == '+' || next == '-') && isDec(lx.cursor.PeekAt(2))) {
			lx.cursor.Bump()
			if next == '+' || next == '-' {
				lx.cursor.Bump()
			}
			for isDec(lx.cursor.Peek()) {
				lx.cursor.Bump()
			}
		}
	}
	return lx.emit(start)
}

func (lx *Lexer) scanString() (token.Token, bool) {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '"'
	for {
		switch lx.cursor.Peek() {
		case '"':
			lx.cursor.Bump()
			return lx.emit(start), true
		case '\\':
			lx.cursor.Bump()
			if lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
			}
		case '\n', 0:
			if lx.cursor.EOF() || lx.cursor.Peek() == '\n' {
				lx.report(diag.UnexpectedEnd, lx.cursor.SpanFrom(start), "unterminated string literal")
				return token.Token{}, false
			}
			lx.cursor.Bump()
		default:
			lx.cursor.Bump()
		}
	}
}

// scanQuote различает char-литерал 'a' / '\n' и lifetime 'a.
func (lx *Lexer) scanQuote() (token.Token, bool) {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '\''

	if lx.cursor.Peek() == '\\' {
		lx.cursor.Bump()
		lx.cursor.Bump()
		if !lx.cursor.Eat('\'') {
			lx.report(diag.UnexpectedToken, lx.cursor.SpanFrom(start), "unterminated char literal")
			return token.Token{}, false
		}
		return lx.emit(start), true
	}

	if lx.cursor.PeekAt(1) == '\'' && lx.cursor.Peek() != '\n' && !lx.cursor.EOF() {
		lx.cursor.Bump()
		lx.cursor.Bump()
		return lx.emit(start), true
	}

	if token.IsIdentStart(lx.cursor.Peek()) {
		for token.IsIdentContinue(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		return lx.emit(start), true
	}

	lx.report(diag.UnexpectedToken, lx.cursor.SpanFrom(start), "stray quote")
	return token.Token{}, false
}

// Жадность: сначала 3-символьные, затем 2-символьные, затем 1-символьные.
// ">>" намеренно не выпускается: "List<List<int>>" закрывается по одной '>'.
var (
	ops3 = []string{"<<="}
	ops2 = []string{
		":=", "==", "!=", "<=", ">=", "&&", "||", "<<", "**", "..", "=>", "->",
		"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=",
	}
)

const singles = "+-*/%=!<>&|^~@()[]{},.:;?"

func (lx *Lexer) tryOp(op string) bool {
	for i, r := range []rune(op) {
		if lx.cursor.PeekAt(i) != r {
			return false
		}
	}
	return true
}

func (lx *Lexer) scanOperatorOrPunct() (token.Token, bool) {
	start := lx.cursor.Mark()
	for _, group := range [][]string{ops3, ops2} {
		for _, op := range group {
			if lx.tryOp(op) {
				for range op {
					lx.cursor.Bump()
				}
				return lx.emit(start), true
			}
		}
	}

	ch := lx.cursor.Bump()
	for _, s := range singles {
		if s == ch {
			return lx.emit(start), true
		}
	}
	lx.report(diag.UnexpectedToken, lx.cursor.SpanFrom(start), "unknown character "+string(ch))
	return token.Token{}, false
}
