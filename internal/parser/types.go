package parser

import (
	"soul/internal/diag"
	"soul/internal/symbols"
	"soul/internal/token"
	"soul/internal/types"
)

// parseType parses a type whose name must resolve.
func (p *Parser) parseType() (types.SoulType, error) {
	t, _, err := p.parseTypeInner(true)
	return t, err
}

// tryParseType parses a type if the tokens at the cursor form one. When
// they don't, it rewinds and returns ok=false without an error; err is only
// set for input that is certainly a malformed type.
func (p *Parser) tryParseType() (t types.SoulType, ok bool, err error) {
	start := p.ts.CurrentIndex()
	t, ok, err = p.parseTypeInner(false)
	if err != nil || !ok {
		p.ts.GoToIndex(start)
	}
	return t, ok, err
}

// parseTypeInner: {modifier} base [<args>] {wrapper}. With required unset,
// a resolution failure is reported as ok=false instead of an error.
func (p *Parser) parseTypeInner(required bool) (types.SoulType, bool, error) {
	fail := func(err *diag.SoulError) (types.SoulType, bool, error) {
		if required {
			return types.SoulType{}, false, err
		}
		return types.SoulType{}, false, nil
	}

	var t types.SoulType
	for {
		mod, isMod := types.ModifierFromText(p.ts.CurrentText())
		if !isMod {
			break
		}
		t.Modifier = mod
		p.ts.Next()
	}

	tok, ok := p.ts.Current()
	if !ok {
		return fail(p.unexpected("a type"))
	}

	if tok.Text == "(" {
		base, ok, err := p.parseTupleType(required)
		if err != nil || !ok {
			return types.SoulType{}, ok, err
		}
		// `(T)` is just T
		if base.Kind == types.KindTuple && len(base.Elements) == 1 {
			inner := base.Elements[0]
			if t.Modifier != types.ModDefault {
				inner.Modifier = t.Modifier
			}
			t = inner
		} else {
			t.Base = base
		}
	} else {
		if !tok.IsIdent() {
			return fail(diag.Newf(diag.InvalidName, tok.Span, "expected a type, found %s", p.describe()))
		}
		base, err := p.resolveTypeName(tok)
		if err != nil {
			return fail(err)
		}
		t.Base = base
	}

	if p.at("<") {
		args, ok, err := p.parseGenericArgs(required)
		if err != nil || !ok {
			return types.SoulType{}, ok, err
		}
		t.Generics = args
	}

	if err := p.parseWrappers(&t); err != nil {
		return types.SoulType{}, false, err
	}
	return t, true, nil
}

// resolveTypeName consumes a (possibly `alias.`-qualified) type name and
// resolves it in the type tree.
func (p *Parser) resolveTypeName(tok token.Token) (types.TypeKind, *diag.SoulError) {
	if p.ts.PeekText(1) == "." {
		if use, ok := p.lookupUse(tok.Text); ok {
			name, ok := p.ts.Peek(2)
			if !ok || !name.IsIdent() {
				return types.TypeKind{}, diag.New(diag.InvalidName, tok.Span, "expected a type name after the import alias")
			}
			if h, item, found := p.resolveUse(use); found && item == "" {
				if _, ok := h.LookupType(name.Text); !ok {
					return types.TypeKind{}, diag.Newf(diag.NotFoundInScope, name.Span, "type '%s' is not exported by '%s'", name.Text, use.Path)
				}
			}
			p.ts.NextMultiple(3)
			return types.TypeKind{Kind: types.KindExternal, Name: name.Text, Path: tok.Text}, nil
		}
	}
	entry, ok := p.scopes.LookupType(tok.Text)
	if !ok {
		if _, isValue := p.scopes.LookupValue(tok.Text); isValue {
			return types.TypeKind{}, diag.Newf(diag.WrongType, tok.Span, "'%s' is a value, not a type", tok.Text)
		}
		return types.TypeKind{}, diag.Newf(diag.NotFoundInScope, tok.Span, "type '%s' is not declared", tok.Text)
	}
	p.ts.Next()
	return entry.Type, nil
}

// parseTupleType parses `(T, U)` or `(a: T, b: U)`; the cursor is on '('.
func (p *Parser) parseTupleType(required bool) (types.TypeKind, bool, error) {
	open := p.advance()
	var base types.TypeKind
	for {
		p.skipNewlines()
		if p.ts.AtEnd() {
			return types.TypeKind{}, false, diag.New(diag.UnmatchedParenthesis, open.Span, "this '(' is never closed")
		}
		if p.at(")") {
			break
		}
		named := p.cur().IsIdent() && p.ts.PeekText(1) == ":"
		if named {
			if base.Kind == types.KindTuple && len(base.Elements) > 0 {
				return types.TypeKind{}, false, diag.New(diag.InvalidType, p.cur().Span, "cannot mix named and positional tuple elements")
			}
			base.Kind = types.KindNamedTuple
			name := p.advance()
			p.ts.Next()
			elem, ok, err := p.parseTypeInner(required)
			if err != nil || !ok {
				return types.TypeKind{}, ok, err
			}
			base.Fields = append(base.Fields, types.NamedType{Name: name.Text, Type: elem})
		} else {
			if base.Kind == types.KindNamedTuple {
				return types.TypeKind{}, false, diag.New(diag.InvalidType, p.cur().Span, "cannot mix named and positional tuple elements")
			}
			base.Kind = types.KindTuple
			elem, ok, err := p.parseTypeInner(required)
			if err != nil || !ok {
				return types.TypeKind{}, ok, err
			}
			base.Elements = append(base.Elements, elem)
		}
		p.skipNewlines()
		if p.ts.Eat(",") {
			continue
		}
		if !p.at(")") {
			if !required {
				return types.TypeKind{}, false, nil
			}
			return types.TypeKind{}, false, p.unexpected("',' or ')'")
		}
	}
	end := p.advance()
	if base.Kind == types.KindUnresolved {
		if !required {
			return types.TypeKind{}, false, nil
		}
		return types.TypeKind{}, false, diag.New(diag.InvalidType, open.Span.Combine(end.Span), "empty tuple type")
	}
	return base, true, nil
}

// parseGenericArgs parses `<T, 'a, U<V>>`; the cursor is on '<'.
func (p *Parser) parseGenericArgs(required bool) ([]types.TypeGenericArg, bool, error) {
	open := p.advance()
	if p.at(">") {
		return nil, false, diag.New(diag.InvalidType, open.Span.Combine(p.cur().Span), "empty generic argument list")
	}
	var args []types.TypeGenericArg
	for {
		p.skipNewlines()
		tok, ok := p.ts.Current()
		if !ok {
			return nil, false, diag.New(diag.UnmatchedParenthesis, open.Span, "this '<' is never closed")
		}
		if tok.IsLifetime() {
			p.ts.Next()
			args = append(args, types.TypeGenericArg{Lifetime: tok.Text})
		} else {
			t, ok, err := p.parseTypeInner(required)
			if err != nil || !ok {
				return nil, ok, err
			}
			args = append(args, types.TypeGenericArg{Type: &t})
		}
		p.skipNewlines()
		if p.ts.Eat(",") {
			continue
		}
		if p.ts.Eat(">") {
			return args, true, nil
		}
		if !required {
			return nil, false, nil
		}
		return nil, false, p.unexpected("',' or '>'")
	}
}

// parseWrappers consumes type suffixes until a non-wrapper token.
func (p *Parser) parseWrappers(t *types.SoulType) error {
	for {
		tok, ok := p.ts.Current()
		if !ok {
			return nil
		}
		switch tok.Text {
		case "[":
			if p.ts.PeekText(1) != "]" {
				return nil
			}
			p.ts.NextMultiple(2)
			*t = t.Wrap(types.TypeWrapper{Kind: types.WrapArray})
		case "*":
			p.ts.Next()
			*t = t.Wrap(types.TypeWrapper{Kind: types.WrapPointer})
		case "**":
			p.ts.Next()
			*t = t.Wrap(types.TypeWrapper{Kind: types.WrapPointer}).Wrap(types.TypeWrapper{Kind: types.WrapPointer})
		case "@":
			p.ts.Next()
			*t = t.Wrap(types.TypeWrapper{Kind: types.WrapConstRef})
		case "&":
			p.ts.Next()
			*t = t.Wrap(types.TypeWrapper{Kind: types.WrapMutRef})
		case "&&":
			p.ts.Next()
			*t = t.Wrap(types.TypeWrapper{Kind: types.WrapMutRef}).Wrap(types.TypeWrapper{Kind: types.WrapMutRef})
		default:
			if !tok.IsLifetime() {
				return nil
			}
			switch p.ts.PeekText(1) {
			case "@":
				p.ts.NextMultiple(2)
				*t = t.Wrap(types.TypeWrapper{Kind: types.WrapConstRef, Lifetime: tok.Text})
			case "&", "&&":
				double := p.ts.PeekText(1) == "&&"
				p.ts.NextMultiple(2)
				*t = t.Wrap(types.TypeWrapper{Kind: types.WrapMutRef, Lifetime: tok.Text})
				if double {
					*t = t.Wrap(types.TypeWrapper{Kind: types.WrapMutRef})
				}
			case "[", "*", "**":
				return diag.Newf(diag.InvalidType, tok.Span, "lifetime '%s' can only annotate a reference", tok.Text)
			default:
				return nil
			}
		}
	}
}

// parseGenericParams parses a declaration list `<T: A + B = D, 'a>` and
// binds every type parameter in the current type scope. The cursor is on '<'.
func (p *Parser) parseGenericParams() ([]types.GenericParam, error) {
	open := p.advance()
	if p.at(">") {
		return nil, diag.New(diag.InvalidType, open.Span.Combine(p.cur().Span), "empty generic parameter list")
	}
	var params []types.GenericParam
	for {
		p.skipNewlines()
		tok, ok := p.ts.Current()
		if !ok {
			return nil, diag.New(diag.UnmatchedParenthesis, open.Span, "this '<' is never closed")
		}
		if tok.IsLifetime() {
			p.ts.Next()
			params = append(params, types.GenericParam{Name: tok.Text, Kind: types.GenericLifetime})
		} else {
			name, err := p.expectName("a generic parameter name")
			if err != nil {
				return nil, err
			}
			p.declareType(name.Text, symbols.TypeEntry{Type: types.Named(types.KindGeneric, name.Text), Span: name.Span})
			param := types.GenericParam{Name: name.Text, Kind: types.GenericType}
			if p.ts.Eat(":") {
				if param.Constraints, err = p.parseConstraints(); err != nil {
					return nil, err
				}
			}
			if p.ts.Eat("=") {
				def, err := p.parseType()
				if err != nil {
					return nil, err
				}
				param.Default = &def
			}
			params = append(params, param)
		}
		p.skipNewlines()
		if p.ts.Eat(",") {
			continue
		}
		if p.ts.Eat(">") {
			return params, nil
		}
		return nil, p.unexpected("',' or '>'")
	}
}

// parseConstraints parses `A + B<C>`.
func (p *Parser) parseConstraints() ([]types.TypeConstraint, error) {
	var out []types.TypeConstraint
	for {
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		out = append(out, types.TypeConstraint{Trait: t})
		if !p.ts.Eat("+") {
			return out, nil
		}
	}
}

// parseWhere parses `where T: A + B, U: C` and adds the bounds to params.
func (p *Parser) parseWhere(params []types.GenericParam) error {
	p.ts.Next()
	for {
		p.skipNewlines()
		name, err := p.expectName("a generic parameter name")
		if err != nil {
			return err
		}
		idx := -1
		for i := range params {
			if params[i].Name == name.Text && params[i].Kind == types.GenericType {
				idx = i
				break
			}
		}
		if idx < 0 {
			return diag.Newf(diag.NotFoundInScope, name.Span, "'%s' is not a generic parameter here", name.Text)
		}
		if _, err := p.expect(":"); err != nil {
			return err
		}
		bounds, err := p.parseConstraints()
		if err != nil {
			return err
		}
		params[idx].Constraints = append(params[idx].Constraints, bounds...)
		if !p.ts.Eat(",") {
			return nil
		}
	}
}
