package parser

import (
	"soul/internal/ast"
	"soul/internal/diag"
	"soul/internal/symbols"
	"soul/internal/token"
	"soul/internal/types"
)

// parseStatement parses one statement of the current block, chosen by
// classify. A `}` yields the StmtCloseBlock sentinel.
func (p *Parser) parseStatement() (ast.Statement, error) {
	p.ts.SkipEndOfLines()
	class, err := p.classify()
	if err != nil {
		return ast.Statement{}, err
	}
	start := p.ts.CurrentIndex()

	var stmt ast.Statement
	switch class {
	case ClassCloseBlock:
		tok := p.advance()
		return ast.Statement{Kind: ast.StmtCloseBlock, Span: tok.Span}, nil
	case ClassElse:
		return ast.Statement{}, diag.New(diag.InvalidInContext, p.cur().Span, "'else' without a preceding 'if'")
	case ClassOpenBlock:
		b, berr := p.parseBlock(nil)
		stmt, err = ast.Statement{Kind: ast.StmtBlock, Span: b.Span, Block: &b}, berr
	case ClassVariable:
		stmt, err = p.parseVarDecl()
	case ClassAssignment:
		stmt, err = p.parseAssignment()
	case ClassFunction:
		stmt, err = p.parseFunctionDecl(start)
	case ClassStruct:
		stmt, err = p.parseStructDecl()
	case ClassClass:
		stmt, err = p.parseClassDecl()
	case ClassTrait:
		stmt, err = p.parseTraitDecl()
	case ClassEnum:
		stmt, err = p.parseEnumDecl()
	case ClassUnion:
		stmt, err = p.parseUnionDecl()
	case ClassTypeDef:
		stmt, err = p.parseTypeDefDecl()
	case ClassUse:
		stmt, err = p.parseUse()
	case ClassIf:
		v, sp, ierr := p.parseIf()
		stmt, err = ast.Statement{Kind: ast.StmtIf, Span: sp, If: &v}, ierr
	case ClassWhile:
		v, sp, werr := p.parseWhile()
		stmt, err = ast.Statement{Kind: ast.StmtWhile, Span: sp, While: &v}, werr
	case ClassFor:
		v, sp, ferr := p.parseFor()
		stmt, err = ast.Statement{Kind: ast.StmtFor, Span: sp, For: &v}, ferr
	case ClassReturn:
		stmt, err = p.parseReturn()
	case ClassBreak:
		stmt = ast.Statement{Kind: ast.StmtBreak, Span: p.advance().Span}
	case ClassContinue:
		stmt = ast.Statement{Kind: ast.StmtContinue, Span: p.advance().Span}
	default:
		stmt, err = p.parseExpressionStatement()
	}
	if err != nil {
		return ast.Statement{}, err
	}
	if err := p.expectEndOfStatement(); err != nil {
		return ast.Statement{}, err
	}
	return stmt, nil
}

// parseBlock parses `{ ... }` in a new frame. bindings (parameters, `this`)
// are declared in the frame before the first statement.
func (p *Parser) parseBlock(bindings []symbols.SymbolEntry) (ast.Block, error) {
	p.skipNewlines()
	open, err := p.expect("{")
	if err != nil {
		return ast.Block{}, err
	}
	scope := p.pushScope(symbols.VisAll)
	for _, b := range bindings {
		p.declare(b)
	}
	if err := p.hoist(false, open.Span); err != nil {
		return ast.Block{}, err
	}
	block := ast.Block{Scope: scope}
	for {
		p.ts.SkipEndOfLines()
		if p.ts.AtEnd() {
			return ast.Block{}, diag.New(diag.UnmatchedParenthesis, open.Span, "this '{' is never closed")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return ast.Block{}, err
		}
		if stmt.Kind == ast.StmtCloseBlock {
			if err := p.popScope(stmt.Span); err != nil {
				return ast.Block{}, err
			}
			block.Span = open.Span.Combine(stmt.Span)
			return block, nil
		}
		block.Statements = append(block.Statements, stmt)
	}
}

func (p *Parser) parseExpressionStatement() (ast.Statement, error) {
	e, err := p.parseExpression(exprMode{})
	if err != nil {
		return ast.Statement{}, err
	}
	return ast.Statement{Kind: ast.StmtExpression, Span: e.Span, Expr: &e}, nil
}

// parseVarDecl parses `name := e`, `mod name = e`, `mod name := e`,
// `T name = e` and `T name`.
func (p *Parser) parseVarDecl() (ast.Statement, error) {
	start := p.ts.CurrentIndex()
	decl := &ast.VarDecl{Global: p.scopes.Current() == symbols.RootScope}

	mod := types.ModDefault
	for {
		m, ok := types.ModifierFromText(p.ts.CurrentText())
		if !ok {
			break
		}
		mod = m
		p.ts.Next()
	}

	var name token.Token
	next := p.ts.PeekText(1)
	if p.cur().IsIdent() && (next == ":=" || (next == "=" && mod != types.ModDefault)) {
		name = p.advance()
		decl.Modifier = mod
		p.ts.Next()
		if err := p.parseVarInit(decl, name); err != nil {
			return ast.Statement{}, err
		}
	} else {
		p.ts.GoToIndex(start)
		t, err := p.parseType()
		if err != nil {
			return ast.Statement{}, wrap(err, p.ts.At(start).Span, "while trying to parse a variable declaration")
		}
		decl.Type, decl.Modifier = &t, t.Modifier
		if name, err = p.expectName("a variable name"); err != nil {
			return ast.Statement{}, wrap(err, p.ts.At(start).Span, "while trying to parse a variable declaration")
		}
		if p.at(":=") {
			return ast.Statement{}, diag.Newf(diag.InvalidInContext, p.cur().Span, "variable '%s' has an explicit type; use '=' instead of ':='", name.Text)
		}
		if p.ts.Eat("=") {
			if err := p.parseVarInit(decl, name); err != nil {
				return ast.Statement{}, err
			}
		}
	}
	decl.Name = name.Text
	p.declare(symbols.SymbolEntry{Kind: symbols.EntryVariable, Name: name.Text, Span: name.Span, Type: decl.Type})
	return ast.Statement{Kind: ast.StmtVarDecl, Span: p.ts.SpanFrom(start), Var: decl}, nil
}

func (p *Parser) parseVarInit(decl *ast.VarDecl, name token.Token) error {
	init, err := p.parseExpression(exprMode{})
	if err != nil {
		return wrap(err, name.Span, "while trying to parse variable '%s'", name.Text)
	}
	decl.Init = &init
	return nil
}

// parseAssignment parses `target op value`.
func (p *Parser) parseAssignment() (ast.Statement, error) {
	start := p.ts.CurrentIndex()
	target, err := p.parseExpression(exprMode{})
	if err != nil {
		return ast.Statement{}, err
	}
	switch target.Kind {
	case ast.ExprVariable, ast.ExprFieldAccess, ast.ExprIndex:
	default:
		if target.Kind != ast.ExprUnary || target.Unary.Op != ast.UnDeref {
			return ast.Statement{}, diag.New(diag.InvalidInContext, target.Span, "cannot assign to this expression")
		}
	}
	opTok := p.cur()
	op, ok := ast.AssignOpFromText(opTok.Text)
	if !ok {
		return ast.Statement{}, p.unexpected("an assignment operator")
	}
	p.ts.Next()
	value, err := p.parseExpression(exprMode{})
	if err != nil {
		return ast.Statement{}, wrap(err, opTok.Span, "while trying to parse an assignment")
	}
	return ast.Statement{
		Kind:   ast.StmtAssignment,
		Span:   p.ts.SpanFrom(start),
		Assign: &ast.Assignment{Target: target, Op: op, Value: value},
	}, nil
}
