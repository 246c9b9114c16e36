package parser

import (
	"soul/internal/ast"
	"soul/internal/diag"
	"soul/internal/source"
	"soul/internal/symbols"
	"soul/internal/types"
)

func (p *Parser) parseFunctionDecl(start int) (ast.Statement, error) {
	id, sp, err := p.parseFunction(start)
	if err != nil {
		return ast.Statement{}, err
	}
	return ast.Statement{Kind: ast.StmtFnDecl, Span: sp, Function: id}, nil
}

// parseFunction parses
//
//	[const|Literal] [ExtType.]name[<generics>](params) [RetType] [where ...] { body }
//
// The function is allocated in the arena before its body is parsed and its
// hoisted placeholder is replaced, so the body can call it recursively.
func (p *Parser) parseFunction(start int) (ast.FunctionID, source.Span, error) {
	var sig ast.FunctionSignature
	for {
		m, ok := types.ModifierFromText(p.ts.CurrentText())
		if !ok {
			break
		}
		sig.Modifier = m
		p.ts.Next()
	}

	nameIdx := p.functionNameIndex(start)
	if nameIdx < 0 {
		return ast.NoFunctionID, source.Span{}, diag.New(diag.InvalidName, p.cur().Span, "function declaration without a name")
	}
	if p.ts.CurrentIndex() != nameIdx {
		ext, err := p.parseType()
		if err != nil {
			return ast.NoFunctionID, source.Span{}, wrap(err, p.ts.At(nameIdx).Span, "while trying to parse the extended type of function '%s'", p.ts.At(nameIdx).Text)
		}
		if _, err := p.expect("."); err != nil {
			return ast.NoFunctionID, source.Span{}, err
		}
		sig.Callee = &ast.Callee{Type: ext}
	}
	name, err := p.expectName("a function name")
	if err != nil {
		return ast.NoFunctionID, source.Span{}, err
	}
	sig.Name = name.Text
	sig.Span = name.Span

	fail := func(err error) (ast.FunctionID, source.Span, error) {
		return ast.NoFunctionID, source.Span{}, wrap(err, name.Span, "while trying to parse function '%s'", name.Text)
	}

	id := p.decls.NewFunction(ast.Function{Signature: sig})
	kind := symbols.EntryFunction
	if p.owner != nil {
		kind = symbols.EntryMethod
	}
	entry := symbols.SymbolEntry{Kind: kind, Name: name.Text, Span: name.Span, Decl: symbols.DeclID(id)}
	if prior, ok := p.scopes.FillPlaceholder(entry, start); !ok {
		p.reportDuplicate(name.Text, name.Span, prior.Span)
	}

	vis := symbols.VisAll
	if p.fnDepth > 0 {
		vis = symbols.VisGlobalOnly
	}
	frame := p.pushScope(vis)

	if p.at("<") {
		if sig.Generics, err = p.parseGenericParams(); err != nil {
			return fail(err)
		}
	}
	if !p.at("(") {
		return fail(p.unexpected("'('"))
	}
	params, this, err := p.parseParameters(sig.Callee != nil || p.owner != nil)
	if err != nil {
		return fail(err)
	}
	sig.Parameters = params
	if this != ast.ThisNone {
		if sig.Callee == nil {
			sig.Callee = &ast.Callee{Type: p.owner.typ}
		}
		sig.Callee.This = this
	}

	if tok, ok := p.ts.Current(); ok && !tok.IsEndOfLine() && tok.Text != "{" && tok.Text != "where" {
		ret, err := p.parseType()
		if err != nil {
			return fail(err)
		}
		sig.ReturnType = &ret
	}
	if p.ts.At(p.peekPastNewlines(p.ts.CurrentIndex())).Text == "where" {
		p.skipNewlines()
		if err := p.parseWhere(sig.Generics); err != nil {
			return fail(err)
		}
	}

	fn := ast.Function{Signature: sig, Scope: frame}
	if p.owner != nil && p.owner.abstract && p.ts.At(p.peekPastNewlines(p.ts.CurrentIndex())).Text != "{" {
		fn.Abstract = true
	} else {
		bindings := make([]symbols.SymbolEntry, 0, len(params)+1)
		if sig.Callee != nil && sig.Callee.This != ast.ThisNone {
			bindings = append(bindings, thisEntry(sig.Callee, name.Span))
		}
		for _, prm := range params {
			bindings = append(bindings, parameterEntry(prm))
		}
		// функции внутри тела метода - обычные функции
		owner := p.owner
		p.owner = nil
		p.fnDepth++
		body, err := p.parseBlock(bindings)
		p.fnDepth--
		p.owner = owner
		if err != nil {
			return fail(err)
		}
		fn.Body = body
	}
	if err := p.popScope(name.Span); err != nil {
		return ast.NoFunctionID, source.Span{}, err
	}
	*p.decls.Function(id) = fn
	return id, p.ts.SpanFrom(start), nil
}

// parseParameters parses `(T a, U b = 1)`. With allowThis, the first
// parameter may be `this`, `this@` or `this&`.
func (p *Parser) parseParameters(allowThis bool) ([]ast.Parameter, ast.ThisKind, error) {
	p.ts.Next()
	var params []ast.Parameter
	this := ast.ThisNone
	for i := 0; ; i++ {
		p.skipNewlines()
		if p.at(")") {
			break
		}
		tok := p.cur()
		if tok.Text == "this" {
			if !allowThis || i != 0 {
				return nil, ast.ThisNone, diag.New(diag.InvalidInContext, tok.Span, "'this' is only allowed as the first parameter of a method or extension")
			}
			p.ts.Next()
			switch {
			case p.ts.Eat("@"):
				this = ast.ThisConstRef
			case p.ts.Eat("&"):
				this = ast.ThisMutRef
			default:
				this = ast.ThisValue
			}
		} else {
			t, err := p.parseType()
			if err != nil {
				return nil, ast.ThisNone, err
			}
			name, err := p.expectName("a parameter name")
			if err != nil {
				return nil, ast.ThisNone, err
			}
			prm := ast.Parameter{Name: name.Text, Type: t, Span: tok.Span.Combine(name.Span)}
			if p.ts.Eat("=") {
				def, err := p.parseExpression(exprMode{inBrackets: true})
				if err != nil {
					return nil, ast.ThisNone, err
				}
				prm.Default = &def
			}
			params = append(params, prm)
		}
		p.skipNewlines()
		if p.ts.Eat(",") {
			continue
		}
		if !p.at(")") {
			return nil, ast.ThisNone, p.unexpected("',' or ')'")
		}
	}
	p.ts.Next()
	return params, this, nil
}

func parameterEntry(prm ast.Parameter) symbols.SymbolEntry {
	t := prm.Type
	return symbols.SymbolEntry{Kind: symbols.EntryParameter, Name: prm.Name, Span: prm.Span, Type: &t}
}

func thisEntry(c *ast.Callee, sp source.Span) symbols.SymbolEntry {
	t := c.Type
	switch c.This {
	case ast.ThisConstRef:
		t = t.Wrap(types.TypeWrapper{Kind: types.WrapConstRef})
	case ast.ThisMutRef:
		t = t.Wrap(types.TypeWrapper{Kind: types.WrapMutRef})
	}
	return symbols.SymbolEntry{Kind: symbols.EntryThis, Name: "this", Span: sp, Type: &t}
}
