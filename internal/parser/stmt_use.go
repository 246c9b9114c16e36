package parser

import (
	"strings"

	"soul/internal/ast"
	"soul/internal/diag"
	"soul/internal/external"
	"soul/internal/symbols"
	"soul/internal/token"
)

// parseUsePath parses `use a.b[.c] [as alias]` up to the end of the
// statement. A leading `this` stands for the current project.
func (p *Parser) parseUsePath() (ast.Use, token.Token, error) {
	useTok := p.advance()
	var segments []string
	last := useTok
	for {
		tok, ok := p.ts.Current()
		if !ok {
			return ast.Use{}, token.Token{}, p.unexpected("an import path")
		}
		if !(tok.IsIdent() || (tok.Text == "this" && len(segments) == 0)) {
			return ast.Use{}, token.Token{}, diag.Newf(diag.InvalidName, tok.Span, "expected an import path segment, found %s", p.describe())
		}
		segments = append(segments, tok.Text)
		last = p.advance()
		if !p.ts.Eat(".") {
			break
		}
	}
	use := ast.Use{Path: p.usePath(segments)}
	if len(use.Path) == 0 {
		return ast.Use{}, token.Token{}, diag.New(diag.InvalidName, useTok.Span, "'use this' needs a project name or a path below it")
	}
	if p.ts.Eat("as") {
		alias, err := p.expectName("an import alias")
		if err != nil {
			return ast.Use{}, token.Token{}, err
		}
		use.Alias = alias.Text
		last = alias
	} else {
		use.Alias = segments[len(segments)-1]
	}
	return use, last, nil
}

// bindUse parses a `use` statement and binds its alias in the current
// scope. With known pages the path must resolve.
func (p *Parser) bindUse() (ast.Use, error) {
	start := p.cur()
	use, last, err := p.parseUsePath()
	if err != nil {
		return ast.Use{}, err
	}
	path := joinPath(use.Path)
	if p.pages != nil {
		if _, _, ok := p.pages.Resolve(use.Path); !ok {
			return ast.Use{}, diag.Newf(diag.NotFoundInScope, start.Span.Combine(last.Span), "cannot find '%s' to import", path)
		}
	}
	p.declare(symbols.SymbolEntry{Kind: symbols.EntryUse, Name: use.Alias, Span: last.Span, Path: path})
	return use, nil
}

// parseUse builds the statement; the alias was bound by the forward pass.
func (p *Parser) parseUse() (ast.Statement, error) {
	start := p.ts.CurrentIndex()
	use, _, err := p.parseUsePath()
	if err != nil {
		return ast.Statement{}, err
	}
	return ast.Statement{Kind: ast.StmtUse, Span: p.ts.SpanFrom(start), Use: &use}, nil
}

// lookupUse finds an import alias visible from the current scope.
func (p *Parser) lookupUse(name string) (symbols.SymbolEntry, bool) {
	entries, ok := p.scopes.LookupValue(name)
	if !ok || entries[0].Kind != symbols.EntryUse {
		return symbols.SymbolEntry{}, false
	}
	return entries[0], true
}

// resolveUse looks up the page behind an import alias; found is false when
// no pages are known.
func (p *Parser) resolveUse(use symbols.SymbolEntry) (h *external.Header, item string, found bool) {
	if p.pages == nil {
		return nil, "", false
	}
	return p.pages.Resolve(strings.Split(use.Path, "."))
}
