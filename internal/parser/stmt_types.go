package parser

import (
	"soul/internal/ast"
	"soul/internal/diag"
	"soul/internal/source"
	"soul/internal/symbols"
	"soul/internal/token"
	"soul/internal/types"
)

// typeHead parses `keyword Name[<generics>]` and opens the declaration's
// members frame. Members see their own generics and the global scope.
func (p *Parser) typeHead(what string) (token.Token, []types.GenericParam, symbols.ScopeID, error) {
	p.ts.Next()
	name, err := p.expectName("a " + what + " name")
	if err != nil {
		return token.Token{}, nil, symbols.NoScope, err
	}
	frame := p.pushScope(symbols.VisGlobalOnly)
	var generics []types.GenericParam
	if p.at("<") {
		if generics, err = p.parseGenericParams(); err != nil {
			return token.Token{}, nil, symbols.NoScope, wrap(err, name.Span, "while trying to parse %s '%s'", what, name.Text)
		}
	}
	return name, generics, frame, nil
}

// bindTypeDecl points the hoisted type entry at the parsed declaration.
func (p *Parser) bindTypeDecl(name token.Token, decl symbols.DeclID) {
	scope := p.scopes.Current()
	if entries, ok := p.scopes.Types.FlatLookup(name.Text); ok {
		if entries[0].Span == name.Span {
			e := entries[0]
			e.Decl = decl
			p.scopes.Types.Replace(scope, name.Text, 0, e)
		}
	}
}

// parseImpls parses `impl A, B<C>`.
func (p *Parser) parseImpls() ([]types.SoulType, error) {
	if !p.ts.Eat("impl") {
		return nil, nil
	}
	var out []types.SoulType
	for {
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
		if !p.ts.Eat(",") {
			return out, nil
		}
	}
}

// openBody expects the '{' of a declaration body.
func (p *Parser) openBody() (token.Token, error) {
	p.skipNewlines()
	return p.expect("{")
}

// nextMember skips separators and reports whether another member follows.
func (p *Parser) nextMember(open token.Token) (bool, error) {
	for {
		p.ts.SkipEndOfLines()
		if !p.ts.Eat(",") {
			break
		}
	}
	if p.ts.AtEnd() {
		return false, diag.New(diag.UnmatchedParenthesis, open.Span, "this '{' is never closed")
	}
	return !p.at("}"), nil
}

// parseField parses `T name [= default]` and declares the field.
func (p *Parser) parseField() (ast.Field, error) {
	start := p.cur()
	t, err := p.parseType()
	if err != nil {
		return ast.Field{}, err
	}
	name, err := p.expectName("a field name")
	if err != nil {
		return ast.Field{}, err
	}
	f := ast.Field{Name: name.Text, Type: t, Span: start.Span.Combine(name.Span)}
	if p.ts.Eat("=") {
		def, err := p.parseExpression(exprMode{})
		if err != nil {
			return ast.Field{}, wrap(err, name.Span, "while trying to parse the default of field '%s'", name.Text)
		}
		f.Default = &def
		f.Span = f.Span.Combine(def.Span)
	}
	p.declare(symbols.SymbolEntry{Kind: symbols.EntryField, Name: name.Text, Span: name.Span, Type: &f.Type})
	return f, nil
}

func (p *Parser) parseStructDecl() (ast.Statement, error) {
	start := p.ts.CurrentIndex()
	name, generics, frame, err := p.typeHead("struct")
	if err != nil {
		return ast.Statement{}, err
	}
	fail := func(err error) (ast.Statement, error) {
		return ast.Statement{}, wrap(err, name.Span, "while trying to parse struct '%s'", name.Text)
	}
	open, err := p.openBody()
	if err != nil {
		return fail(err)
	}
	s := ast.Struct{Name: name.Text, Generics: generics, Scope: frame, Span: name.Span}
	for {
		more, err := p.nextMember(open)
		if err != nil {
			return fail(err)
		}
		if !more {
			break
		}
		f, err := p.parseField()
		if err != nil {
			return fail(err)
		}
		s.Fields = append(s.Fields, f)
	}
	end := p.advance()
	if err := p.popScope(end.Span); err != nil {
		return ast.Statement{}, err
	}
	id := p.decls.NewStruct(s)
	p.bindTypeDecl(name, symbols.DeclID(id))
	return ast.Statement{Kind: ast.StmtStructDecl, Span: p.ts.SpanFrom(start), Struct: id}, nil
}

func (p *Parser) parseClassDecl() (ast.Statement, error) {
	start := p.ts.CurrentIndex()
	name, generics, frame, err := p.typeHead("class")
	if err != nil {
		return ast.Statement{}, err
	}
	fail := func(err error) (ast.Statement, error) {
		return ast.Statement{}, wrap(err, name.Span, "while trying to parse class '%s'", name.Text)
	}
	c := ast.Class{Name: name.Text, Generics: generics, Scope: frame, Span: name.Span}
	if c.Implements, err = p.parseImpls(); err != nil {
		return fail(err)
	}
	open, err := p.openBody()
	if err != nil {
		return fail(err)
	}
	if err := p.hoist(false, open.Span); err != nil {
		return fail(err)
	}

	outer := p.owner
	p.owner = &ownerCtx{typ: types.SoulType{Base: types.Named(types.KindClass, name.Text)}}
	defer func() { p.owner = outer }()

	for {
		more, err := p.nextMember(open)
		if err != nil {
			return fail(err)
		}
		if !more {
			break
		}
		class, err := p.classify()
		if err != nil {
			return fail(err)
		}
		switch class {
		case ClassFunction:
			id, _, err := p.parseFunction(p.ts.CurrentIndex())
			if err != nil {
				return fail(err)
			}
			c.Methods = append(c.Methods, id)
		case ClassVariable:
			f, err := p.parseField()
			if err != nil {
				return fail(err)
			}
			c.Fields = append(c.Fields, f)
		default:
			return fail(diag.Newf(diag.InvalidInContext, p.cur().Span, "only fields and methods are allowed in a class body, found %s", p.describe()))
		}
	}
	end := p.advance()
	if err := p.popScope(end.Span); err != nil {
		return ast.Statement{}, err
	}
	id := p.decls.NewClass(c)
	p.bindTypeDecl(name, symbols.DeclID(id))
	return ast.Statement{Kind: ast.StmtClassDecl, Span: p.ts.SpanFrom(start), Class: id}, nil
}

func (p *Parser) parseTraitDecl() (ast.Statement, error) {
	start := p.ts.CurrentIndex()
	name, generics, frame, err := p.typeHead("trait")
	if err != nil {
		return ast.Statement{}, err
	}
	fail := func(err error) (ast.Statement, error) {
		return ast.Statement{}, wrap(err, name.Span, "while trying to parse trait '%s'", name.Text)
	}
	t := ast.Trait{Name: name.Text, Generics: generics, Scope: frame, Span: name.Span}
	if t.Implements, err = p.parseImpls(); err != nil {
		return fail(err)
	}
	open, err := p.openBody()
	if err != nil {
		return fail(err)
	}

	outer := p.owner
	p.owner = &ownerCtx{typ: types.SoulType{Base: types.Named(types.KindTrait, name.Text)}, abstract: true}
	defer func() { p.owner = outer }()

	for {
		more, err := p.nextMember(open)
		if err != nil {
			return fail(err)
		}
		if !more {
			break
		}
		id, _, err := p.parseFunction(p.ts.CurrentIndex())
		if err != nil {
			return fail(err)
		}
		t.Methods = append(t.Methods, id)
	}
	end := p.advance()
	if err := p.popScope(end.Span); err != nil {
		return ast.Statement{}, err
	}
	id := p.decls.NewTrait(t)
	p.bindTypeDecl(name, symbols.DeclID(id))
	return ast.Statement{Kind: ast.StmtTraitDecl, Span: p.ts.SpanFrom(start), Trait: id}, nil
}

// parseEnumDecl parses a plain integer enum or, with `impl T`, an enum
// whose variants carry arbitrary expressions.
func (p *Parser) parseEnumDecl() (ast.Statement, error) {
	start := p.ts.CurrentIndex()
	name, generics, frame, err := p.typeHead("enum")
	if err != nil {
		return ast.Statement{}, err
	}
	fail := func(err error) (ast.Statement, error) {
		return ast.Statement{}, wrap(err, name.Span, "while trying to parse enum '%s'", name.Text)
	}
	if len(generics) > 0 {
		return fail(diag.Newf(diag.InvalidInContext, name.Span, "enum '%s' cannot have generic parameters", name.Text))
	}
	e := ast.Enum{Name: name.Text, Scope: frame, Span: name.Span}
	if p.ts.Eat("impl") {
		t, err := p.parseType()
		if err != nil {
			return fail(err)
		}
		e.Impl = &t
	}
	open, err := p.openBody()
	if err != nil {
		return fail(err)
	}

	names := make(map[string]source.Span)
	values := make(map[int64]string)
	var next int64
	for {
		more, err := p.nextMember(open)
		if err != nil {
			return fail(err)
		}
		if !more {
			break
		}
		vname, err := p.expectName("a variant name")
		if err != nil {
			return fail(err)
		}
		if prior, dup := names[vname.Text]; dup {
			return fail(diag.NewReportBuilder(p.rep, diag.InvalidName, vname.Span, "variant '"+vname.Text+"' is declared twice").
				WithNote(prior, "previously declared here").
				Error())
		}
		names[vname.Text] = vname.Span
		v := ast.EnumVariant{Name: vname.Text, Span: vname.Span}

		if e.Impl != nil {
			if _, err := p.expect("="); err != nil {
				return fail(err)
			}
			value, err := p.parseExpression(exprMode{})
			if err != nil {
				return fail(err)
			}
			v.Expr = &value
			v.Span = v.Span.Combine(value.Span)
		} else {
			v.Value = next
			if p.ts.Eat("=") {
				value, sp, err := p.parseEnumValue()
				if err != nil {
					return fail(err)
				}
				v.Value = value
				v.Span = v.Span.Combine(sp)
			}
			if other, dup := values[v.Value]; dup {
				return fail(diag.Newf(diag.InvalidInContext, v.Span, "variant '%s' repeats the value %d of '%s'", v.Name, v.Value, other))
			}
			values[v.Value] = v.Name
			next = v.Value + 1
		}
		p.declare(symbols.SymbolEntry{Kind: symbols.EntryVariant, Name: v.Name, Span: vname.Span})
		e.Variants = append(e.Variants, v)
	}
	end := p.advance()
	if err := p.popScope(end.Span); err != nil {
		return ast.Statement{}, err
	}
	id := p.decls.NewEnum(e)
	p.bindTypeDecl(name, symbols.DeclID(id))
	return ast.Statement{Kind: ast.StmtEnumDecl, Span: p.ts.SpanFrom(start), Enum: id}, nil
}

// parseEnumValue reads an optionally negated integer literal.
func (p *Parser) parseEnumValue() (int64, source.Span, error) {
	neg := p.cur()
	negative := p.ts.Eat("-")
	tok := p.cur()
	if tok.Kind() != token.IntLit {
		return 0, source.Span{}, diag.Newf(diag.WrongType, tok.Span, "plain enum values must be integer literals, found %s", p.describe())
	}
	lit, err := parseLiteral(tok)
	if err != nil {
		return 0, source.Span{}, err
	}
	p.ts.Next()
	if negative {
		return -lit.Literal.Int, neg.Span.Combine(tok.Span), nil
	}
	return lit.Literal.Int, tok.Span, nil
}

// parseUnionDecl parses `union N[<G>] { V, V(T, U), V(name: T) }`.
func (p *Parser) parseUnionDecl() (ast.Statement, error) {
	start := p.ts.CurrentIndex()
	name, generics, frame, err := p.typeHead("union")
	if err != nil {
		return ast.Statement{}, err
	}
	fail := func(err error) (ast.Statement, error) {
		return ast.Statement{}, wrap(err, name.Span, "while trying to parse union '%s'", name.Text)
	}
	open, err := p.openBody()
	if err != nil {
		return fail(err)
	}
	u := ast.Union{Name: name.Text, Generics: generics, Scope: frame, Span: name.Span}
	for {
		more, err := p.nextMember(open)
		if err != nil {
			return fail(err)
		}
		if !more {
			break
		}
		vname, err := p.expectName("a variant name")
		if err != nil {
			return fail(err)
		}
		v := ast.UnionVariant{Name: vname.Text, Shape: ast.VariantUnit, Span: vname.Span}
		if p.at("(") {
			payload, _, err := p.parseTupleType(true)
			if err != nil {
				return fail(err)
			}
			if payload.Kind == types.KindNamedTuple {
				v.Shape, v.Fields = ast.VariantNamed, payload.Fields
			} else {
				v.Shape, v.Elements = ast.VariantTuple, payload.Elements
			}
			v.Span = v.Span.Combine(p.prevSpan())
		}
		p.declare(symbols.SymbolEntry{Kind: symbols.EntryVariant, Name: v.Name, Span: vname.Span})
		u.Variants = append(u.Variants, v)
	}
	end := p.advance()
	if err := p.popScope(end.Span); err != nil {
		return ast.Statement{}, err
	}
	id := p.decls.NewUnion(u)
	p.bindTypeDecl(name, symbols.DeclID(id))
	return ast.Statement{Kind: ast.StmtUnionDecl, Span: p.ts.SpanFrom(start), Union: id}, nil
}

// parseTypeDefDecl parses `type N = T`.
func (p *Parser) parseTypeDefDecl() (ast.Statement, error) {
	start := p.ts.CurrentIndex()
	p.ts.Next()
	name, err := p.expectName("a type name")
	if err != nil {
		return ast.Statement{}, err
	}
	if _, err := p.expect("="); err != nil {
		return ast.Statement{}, wrap(err, name.Span, "while trying to parse type '%s'", name.Text)
	}
	t, err := p.parseType()
	if err != nil {
		return ast.Statement{}, wrap(err, name.Span, "while trying to parse type '%s'", name.Text)
	}
	id := p.decls.NewTypeDef(ast.TypeDef{Name: name.Text, Type: t, Span: name.Span})
	p.bindTypeDecl(name, symbols.DeclID(id))
	return ast.Statement{Kind: ast.StmtTypeDef, Span: p.ts.SpanFrom(start), TypeDef: id}, nil
}
