package parser

import (
	"soul/internal/ast"
	"soul/internal/diag"
	"soul/internal/source"
	"soul/internal/symbols"
	"soul/internal/token"
)

var condMode = exprMode{noBrace: true}

// parseIf parses an if chain. `else if` and `else` are folded in, also when
// they start on the next line; a following plain `if` starts a new statement.
func (p *Parser) parseIf() (ast.If, source.Span, error) {
	ifTok := p.advance()
	cond, err := p.parseExpression(condMode)
	if err != nil {
		return ast.If{}, source.Span{}, wrap(err, ifTok.Span, "while trying to parse an if statement")
	}
	body, err := p.parseBlock(nil)
	if err != nil {
		return ast.If{}, source.Span{}, err
	}
	out := ast.If{Condition: cond, Body: body}
	sp := ifTok.Span.Combine(body.Span)

	for {
		next := p.peekPastNewlines(p.ts.CurrentIndex())
		if p.ts.At(next).Text != "else" {
			break
		}
		p.ts.GoToIndex(next)
		elseTok := p.advance()
		branch := ast.ElseBranch{Kind: ast.Else}
		if p.ts.Eat("if") {
			c, err := p.parseExpression(condMode)
			if err != nil {
				return ast.If{}, source.Span{}, wrap(err, elseTok.Span, "while trying to parse an else-if branch")
			}
			branch.Kind, branch.Condition = ast.ElseIf, &c
		}
		b, err := p.parseBlock(nil)
		if err != nil {
			return ast.If{}, source.Span{}, err
		}
		branch.Body = b
		branch.Span = elseTok.Span.Combine(b.Span)
		out.Else = append(out.Else, branch)
		sp = sp.Combine(b.Span)
		if branch.Kind == ast.Else {
			break
		}
	}
	return out, sp, nil
}

// parseWhile parses `while [cond] { ... }`; without a condition it loops forever.
func (p *Parser) parseWhile() (ast.While, source.Span, error) {
	whileTok := p.advance()
	var out ast.While
	if !p.at("{") {
		cond, err := p.parseExpression(condMode)
		if err != nil {
			return ast.While{}, source.Span{}, wrap(err, whileTok.Span, "while trying to parse a while loop")
		}
		out.Condition = &cond
	}
	body, err := p.parseBlock(nil)
	if err != nil {
		return ast.While{}, source.Span{}, err
	}
	out.Body = body
	return out, whileTok.Span.Combine(body.Span), nil
}

// parseFor parses `for [name in] collection { ... }`. The loop variable gets
// a frame of its own, opened after the collection is parsed.
func (p *Parser) parseFor() (ast.For, source.Span, error) {
	forTok := p.advance()
	var loopVar token.Token
	if p.cur().IsIdent() && p.ts.PeekText(1) == "in" {
		loopVar = p.advance()
		p.ts.Next()
	}
	if p.at("{") {
		return ast.For{}, source.Span{}, diag.New(diag.UnexpectedToken, p.cur().Span, "expected a collection to iterate over, found '{'")
	}
	coll, err := p.parseExpression(condMode)
	if err != nil {
		return ast.For{}, source.Span{}, wrap(err, forTok.Span, "while trying to parse a for loop")
	}
	scope := p.pushScope(symbols.VisAll)
	if loopVar.Text != "" {
		p.declare(symbols.SymbolEntry{Kind: symbols.EntryVariable, Name: loopVar.Text, Span: loopVar.Span})
	}
	body, err := p.parseBlock(nil)
	if err != nil {
		return ast.For{}, source.Span{}, err
	}
	if err := p.popScope(body.Span); err != nil {
		return ast.For{}, source.Span{}, err
	}
	return ast.For{Var: loopVar.Text, Collection: coll, Body: body, Scope: scope}, forTok.Span.Combine(body.Span), nil
}

// parseMatch parses `match subject { pattern => value ... }`.
func (p *Parser) parseMatch() (ast.Match, source.Span, error) {
	matchTok := p.advance()
	subject, err := p.parseExpression(condMode)
	if err != nil {
		return ast.Match{}, source.Span{}, wrap(err, matchTok.Span, "while trying to parse a match")
	}
	p.skipNewlines()
	open, err := p.expect("{")
	if err != nil {
		return ast.Match{}, source.Span{}, err
	}
	scope := p.pushScope(symbols.VisAll)
	out := ast.Match{Subject: subject, Scope: scope}
	for {
		p.ts.SkipEndOfLines()
		if p.ts.AtEnd() {
			return ast.Match{}, source.Span{}, diag.New(diag.UnmatchedParenthesis, open.Span, "this '{' is never closed")
		}
		if p.at("}") {
			break
		}
		pattern, err := p.parseExpression(condMode)
		if err != nil {
			return ast.Match{}, source.Span{}, wrap(err, matchTok.Span, "while trying to parse a match arm")
		}
		if _, err := p.expect("=>"); err != nil {
			return ast.Match{}, source.Span{}, wrap(err, pattern.Span, "while trying to parse a match arm")
		}
		value, err := p.parseExpression(exprMode{})
		if err != nil {
			return ast.Match{}, source.Span{}, wrap(err, pattern.Span, "while trying to parse a match arm")
		}
		out.Arms = append(out.Arms, ast.MatchArm{Pattern: pattern, Value: value, Span: pattern.Span.Combine(value.Span)})
		if !p.ts.Eat(",") {
			if err := p.expectEndOfStatement(); err != nil {
				return ast.Match{}, source.Span{}, err
			}
		}
	}
	end := p.advance()
	if err := p.popScope(end.Span); err != nil {
		return ast.Match{}, source.Span{}, err
	}
	return out, matchTok.Span.Combine(end.Span), nil
}

// parseReturn parses `return [expr]`.
func (p *Parser) parseReturn() (ast.Statement, error) {
	retTok := p.advance()
	stmt := ast.Statement{Kind: ast.StmtReturn, Span: retTok.Span, Return: &ast.Return{}}
	if tok, ok := p.ts.Current(); !ok || tok.IsEndOfLine() || tok.Text == "}" {
		return stmt, nil
	}
	value, err := p.parseExpression(exprMode{})
	if err != nil {
		return ast.Statement{}, wrap(err, retTok.Span, "while trying to parse a return statement")
	}
	stmt.Return.Value = &value
	stmt.Span = retTok.Span.Combine(value.Span)
	return stmt, nil
}
