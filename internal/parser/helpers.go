package parser

import (
	"errors"
	"fmt"

	"soul/internal/diag"
	"soul/internal/source"
	"soul/internal/symbols"
	"soul/internal/token"
)

// cur возвращает текущий токен или пустой на sentinel-позиции
func (p *Parser) cur() token.Token {
	tok, _ := p.ts.Current()
	return tok
}

func (p *Parser) at(text string) bool { return p.ts.CurrentIs(text) }

// advance - съедает текущий токен и возвращает его
func (p *Parser) advance() token.Token {
	tok := p.cur()
	p.ts.Next()
	return tok
}

// describe renders the current token for messages.
func (p *Parser) describe() string {
	tok, ok := p.ts.Current()
	if !ok {
		return "end of input"
	}
	if tok.Text == token.Newline {
		return "end of line"
	}
	return fmt.Sprintf("'%s'", tok.Text)
}

// unexpected reports that something else was expected at the cursor. At the
// end of input it is an UnexpectedEnd error.
func (p *Parser) unexpected(want string) *diag.SoulError {
	if p.ts.AtEnd() {
		return diag.Newf(diag.UnexpectedEnd, p.ts.CurrentSpan(), "expected %s, found end of input", want)
	}
	return diag.Newf(diag.UnexpectedToken, p.ts.CurrentSpan(), "expected %s, found %s", want, p.describe())
}

// expect - ожидаем конкретный токен и съедаем его.
func (p *Parser) expect(text string) (token.Token, error) {
	if p.at(text) {
		return p.advance(), nil
	}
	return token.Token{}, p.unexpected(fmt.Sprintf("'%s'", text))
}

// expectName consumes an identifier.
func (p *Parser) expectName(what string) (token.Token, error) {
	tok, ok := p.ts.Current()
	if !ok {
		return token.Token{}, p.unexpected(what)
	}
	if !tok.IsIdent() {
		return token.Token{}, diag.Newf(diag.InvalidName, tok.Span, "expected %s, found %s", what, p.describe())
	}
	p.ts.Next()
	return tok, nil
}

// expectEndOfStatement accepts an end-of-line, a closing '}' (not consumed)
// or the end of input.
func (p *Parser) expectEndOfStatement() error {
	tok, ok := p.ts.Current()
	if !ok || tok.Text == "}" {
		return nil
	}
	if tok.IsEndOfLine() {
		p.ts.Next()
		return nil
	}
	return p.unexpected("end of line")
}

// skipNewlines is used inside bracketed lists where line breaks are insignificant.
func (p *Parser) skipNewlines() { p.ts.SkipNewlines() }

// pushScope opens a frame in both scope trees.
func (p *Parser) pushScope(vis symbols.Visibility) symbols.ScopeID {
	return p.scopes.Push(vis)
}

// popScope closes a frame; leaving the global scope is a stray '}'.
func (p *Parser) popScope(sp source.Span) error {
	if err := p.scopes.Pop(); err != nil {
		if errors.Is(err, symbols.ErrPopRoot) {
			return diag.New(diag.UnmatchedParenthesis, sp, "a '}' without a matching '{'")
		}
		return diag.Internal(sp, "%v", err)
	}
	return nil
}

// discardScope throws away scope id and everything pushed inside it.
func (p *Parser) discardScope(id symbols.ScopeID, sp source.Span) error {
	if err := p.scopes.Truncate(id); err != nil {
		return diag.Internal(sp, "%v", err)
	}
	return nil
}

// declare binds a value in the current scope; a clash is reported and parsing goes on.
func (p *Parser) declare(e symbols.SymbolEntry) {
	if prior, ok := p.scopes.Declare(e); !ok {
		p.reportDuplicate(e.Name, e.Span, prior.Span)
	}
}

// declareType binds a type in the current scope; a clash is reported and parsing goes on.
func (p *Parser) declareType(name string, e symbols.TypeEntry) {
	if prior, ok := p.scopes.DeclareType(name, e); !ok {
		p.reportDuplicate(name, e.Span, prior.Span)
	}
}

func (p *Parser) reportDuplicate(name string, sp, prior source.Span) {
	diag.NewReportBuilder(p.rep, diag.InvalidName, sp, fmt.Sprintf("'%s' is already declared in this scope", name)).
		WithNote(prior, "previously declared here").
		Emit()
}

// wrap adds a "while trying to parse" frame to err.
func wrap(err error, sp source.Span, format string, args ...any) error {
	return diag.Wrapf(err, sp, format, args...)
}
