package lexer

import (
	"soul/internal/diag"
	"soul/internal/source"
	"soul/internal/token"
)

// Lexer turns preprocessed source into Soul tokens.
type Lexer struct {
	cursor Cursor
	opts   Options
	first  *diag.SoulError
}

// New creates a lexer over src. Unless opts.SkipPreprocess is set the
// input is preprocessed first.
func New(src []byte, opts Options) *Lexer {
	if !opts.SkipPreprocess {
		src = Preprocess(src)
	}
	return &Lexer{cursor: NewCursor(src), opts: opts}
}

// Next возвращает следующий токен; ok == false после конца входа.
func (lx *Lexer) Next() (token.Token, bool) {
	for {
		lx.skipSpaces()
		if lx.cursor.EOF() {
			return token.Token{}, false
		}

		ch := lx.cursor.Peek()
		switch {
		case ch == '\n':
			start := lx.cursor.Mark()
			lx.cursor.Bump()
			sp := lx.cursor.SpanFrom(start)
			sp.Len = 1
			return token.Token{Text: token.Newline, Span: sp}, true
		case token.IsIdentStart(ch):
			return lx.scanIdent(), true
		case isDec(ch):
			return lx.scanNumber(), true
		case ch == '"':
			if tok, ok := lx.scanString(); ok {
				return tok, true
			}
		case ch == '\'':
			if tok, ok := lx.scanQuote(); ok {
				return tok, true
			}
		default:
			if tok, ok := lx.scanOperatorOrPunct(); ok {
				return tok, true
			}
		}
		// ошибка уже зарепорчена, продолжаем лексить
	}
}

func (lx *Lexer) skipSpaces() {
	for {
		switch lx.cursor.Peek() {
		case ' ', '\t', '\r', '\f', '\v':
			lx.cursor.Bump()
		default:
			return
		}
	}
}

// Tokenize lexes the whole input. Lexical errors are reported as they occur
// and the first one is returned together with the tokens that were produced.
func Tokenize(src []byte, opts Options) ([]token.Token, error) {
	lx := New(src, opts)
	out := make([]token.Token, 0, len(src)/3+1)
	for {
		tok, ok := lx.Next()
		if !ok {
			break
		}
		out = append(out, tok)
	}
	if lx.first != nil {
		return out, lx.first
	}
	return out, nil
}

// TokenizeFile is Tokenize over a loaded source file.
func TokenizeFile(f *source.File, opts Options) ([]token.Token, error) {
	return Tokenize(f.Content, opts)
}
