package parser

import (
	"soul/internal/ast"
	"soul/internal/diag"
	"soul/internal/source"
	"soul/internal/symbols"
	"soul/internal/token"
	"soul/internal/types"
)

// newGroup builds a tuple or array node. Groups made only of literals are
// interned in program memory.
func (p *Parser) newGroup(kind ast.ExprKind, typ *types.SoulType, elems []ast.Expression, sp source.Span) ast.Expression {
	expr := ast.Expression{Kind: kind, Span: sp, Group: &ast.Group{Type: typ, Elements: elems}}
	if len(elems) > 0 && expr.IsLiteralValue() {
		expr.Group.Memory = p.memory.Intern(expr)
	}
	return expr
}

// startsNamedTuple looks past the '(' or '{' at the cursor for `name:` or a
// lone `..`.
func (p *Parser) startsNamedTuple() bool {
	closing := ")"
	if p.at("{") {
		closing = "}"
	}
	i := p.peekPastNewlines(p.ts.CurrentIndex() + 1)
	first := p.ts.At(i)
	if first.Text == ".." {
		return p.ts.At(p.peekPastNewlines(i+1)).Text == closing
	}
	return first.IsIdent() && p.ts.At(i+1).Text == ":"
}

// parseNamedTuple parses `(a: 1, b: 2)` or `{a: 1, ..}`.
func (p *Parser) parseNamedTuple(typ *types.SoulType) (ast.Expression, error) {
	open := p.cur()
	fields, defaults, end, err := p.parseFieldList()
	if err != nil {
		return ast.Expression{}, err
	}
	expr := ast.Expression{
		Kind:       ast.ExprNamedTuple,
		Span:       open.Span.Combine(end.Span),
		NamedTuple: &ast.NamedTuple{Type: typ, Fields: fields, Defaults: defaults},
	}
	if len(fields) > 0 && expr.IsLiteralValue() {
		expr.NamedTuple.Memory = p.memory.Intern(expr)
	}
	return expr, nil
}

// parseFieldList parses `name: value` pairs in () or {}. Pairs are separated
// by ',' or a line break; a `..` marker may only close the list.
func (p *Parser) parseFieldList() ([]ast.Argument, bool, token.Token, error) {
	open := p.advance()
	closing := ")"
	if open.Text == "{" {
		closing = "}"
	}
	var fields []ast.Argument
	seen := make(map[string]source.Span)
	defaults := false
	for {
		p.skipNewlines()
		if p.at(closing) {
			break
		}
		if p.ts.AtEnd() {
			return nil, false, token.Token{}, diag.Newf(diag.UnmatchedParenthesis, open.Span, "this '%s' is never closed", open.Text)
		}
		if p.at("..") {
			dots := p.advance()
			p.skipNewlines()
			if !p.at(closing) {
				return nil, false, token.Token{}, diag.New(diag.ArgError, dots.Span, "'..' must be the last element")
			}
			defaults = true
			break
		}
		name, err := p.expectName("a field name")
		if err != nil {
			return nil, false, token.Token{}, err
		}
		if prior, dup := seen[name.Text]; dup {
			return nil, false, token.Token{}, diag.NewReportBuilder(p.rep, diag.InvalidName, name.Span, "field '"+name.Text+"' is given twice").
				WithNote(prior, "first given here").
				Error()
		}
		seen[name.Text] = name.Span
		if _, err := p.expect(":"); err != nil {
			return nil, false, token.Token{}, err
		}
		value, err := p.parseExpression(exprMode{inBrackets: true})
		if err != nil {
			return nil, false, token.Token{}, err
		}
		fields = append(fields, ast.Argument{Name: name.Text, Value: value, Span: name.Span.Combine(value.Span)})
		lineBreak := p.at(token.Newline)
		p.skipNewlines()
		if p.ts.Eat(",") || p.at(closing) || lineBreak {
			continue
		}
		return nil, false, token.Token{}, p.unexpected("',' or '" + closing + "'")
	}
	return fields, defaults, p.advance(), nil
}

// parseArrayLiteral parses `[a, b]`, `T[a, b]` or an array filler. The cursor is on '['.
func (p *Parser) parseArrayLiteral(typ *types.SoulType) (ast.Expression, error) {
	if typ == nil && p.ts.At(p.peekPastNewlines(p.ts.CurrentIndex()+1)).Text == "for" {
		node, ok, err := p.tryArrayFiller()
		if err != nil || ok {
			return node, err
		}
	}
	open := p.cur()
	elems, end, err := p.parseExprList("]")
	if err != nil {
		return ast.Expression{}, err
	}
	return p.newGroup(ast.ExprArray, typ, elems, open.Span.Combine(end.Span)), nil
}

// tryArrayFiller parses `[for [i in] count => value]`. The loop variable
// lives in its own frame; when the tokens turn out not to be a filler the
// frame is removed again and ok is false.
func (p *Parser) tryArrayFiller() (ast.Expression, bool, error) {
	start := p.ts.CurrentIndex()
	open := p.advance()
	p.skipNewlines()
	p.ts.Next() // for

	scope := p.pushScope(symbols.VisAll)
	var loopVar token.Token
	if p.cur().IsIdent() && p.ts.PeekText(1) == "in" {
		loopVar = p.advance()
		p.ts.Next()
	}
	count, err := p.parseExpression(exprMode{inBrackets: true, noBrace: true})
	p.skipNewlines()
	if err != nil || !p.at("=>") {
		p.ts.GoToIndex(start)
		if rmErr := p.discardScope(scope, open.Span); rmErr != nil {
			return ast.Expression{}, false, rmErr
		}
		return ast.Expression{}, false, nil
	}
	p.ts.Next()
	if loopVar.Text != "" {
		p.declare(symbols.SymbolEntry{Kind: symbols.EntryVariable, Name: loopVar.Text, Span: loopVar.Span})
	}
	value, err := p.parseExpression(exprMode{inBrackets: true})
	if err != nil {
		return ast.Expression{}, false, err
	}
	p.skipNewlines()
	end, err := p.expect("]")
	if err != nil {
		return ast.Expression{}, false, err
	}
	if err := p.popScope(end.Span); err != nil {
		return ast.Expression{}, false, err
	}
	return ast.Expression{
		Kind: ast.ExprArrayFiller,
		Span: open.Span.Combine(end.Span),
		Filler: &ast.ArrayFiller{
			Var:   loopVar.Text,
			Count: count,
			Value: value,
			Scope: scope,
		},
	}, true, nil
}

// parseLambda parses `fn(params) [T] { ... }` or `fn(params) => expr`.
// Lambdas see their parameters and the global scope only.
func (p *Parser) parseLambda(mode exprMode) (ast.Expression, error) {
	fnTok := p.advance()
	if !p.at("(") {
		return ast.Expression{}, p.unexpected("'(' after 'fn'")
	}
	frame := p.pushScope(symbols.VisGlobalOnly)
	p.fnDepth++
	defer func() { p.fnDepth-- }()

	params, _, err := p.parseParameters(false)
	if err != nil {
		return ast.Expression{}, wrap(err, fnTok.Span, "while trying to parse a lambda")
	}
	for _, prm := range params {
		p.declare(parameterEntry(prm))
	}
	lam := &ast.Lambda{Parameters: params}
	if !p.at("{") && !p.at("=>") {
		ret, err := p.parseType()
		if err != nil {
			return ast.Expression{}, wrap(err, fnTok.Span, "while trying to parse a lambda")
		}
		lam.ReturnType = &ret
	}
	if p.ts.Eat("=>") {
		body, err := p.parseExpression(mode)
		if err != nil {
			return ast.Expression{}, wrap(err, fnTok.Span, "while trying to parse a lambda")
		}
		lam.Arrow = true
		lam.Body = ast.Block{
			Scope:      frame,
			Statements: []ast.Statement{{Kind: ast.StmtExpression, Span: body.Span, Expr: &body}},
			Span:       body.Span,
		}
	} else {
		body, err := p.parseBlock(nil)
		if err != nil {
			return ast.Expression{}, wrap(err, fnTok.Span, "while trying to parse a lambda")
		}
		lam.Body = body
	}
	if err := p.popScope(fnTok.Span); err != nil {
		return ast.Expression{}, err
	}
	return ast.Expression{Kind: ast.ExprLambda, Span: fnTok.Span.Combine(lam.Body.Span), Lambda: lam}, nil
}
