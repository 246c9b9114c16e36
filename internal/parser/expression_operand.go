package parser

import (
	"strconv"
	"strings"

	"soul/internal/ast"
	"soul/internal/diag"
	"soul/internal/source"
	"soul/internal/symbols"
	"soul/internal/token"
	"soul/internal/types"
)

// parseOperand parses one operand: a literal, a name-led production, a
// bracketed literal or a control-flow expression.
func (p *Parser) parseOperand(mode exprMode) (ast.Expression, error) {
	tok := p.cur()
	switch tok.Kind() {
	case token.IntLit, token.FloatLit, token.CharLit, token.StringLit, token.BoolLit:
		p.ts.Next()
		return parseLiteral(tok)
	}
	switch tok.Text {
	case "[":
		return p.parseArrayLiteral(nil)
	case "{":
		if p.startsNamedTuple() {
			return p.parseNamedTuple(nil)
		}
		b, err := p.parseBlock(nil)
		if err != nil {
			return ast.Expression{}, err
		}
		return ast.Expression{Kind: ast.ExprBlock, Span: b.Span, Block: &b}, nil
	case "fn":
		return p.parseLambda(mode)
	case "if":
		v, sp, err := p.parseIf()
		if err != nil {
			return ast.Expression{}, err
		}
		return ast.Expression{Kind: ast.ExprIf, Span: sp, If: &v}, nil
	case "while":
		v, sp, err := p.parseWhile()
		if err != nil {
			return ast.Expression{}, err
		}
		return ast.Expression{Kind: ast.ExprWhile, Span: sp, While: &v}, nil
	case "for":
		v, sp, err := p.parseFor()
		if err != nil {
			return ast.Expression{}, err
		}
		return ast.Expression{Kind: ast.ExprFor, Span: sp, For: &v}, nil
	case "match":
		v, sp, err := p.parseMatch()
		if err != nil {
			return ast.Expression{}, err
		}
		return ast.Expression{Kind: ast.ExprMatch, Span: sp, Match: &v}, nil
	case "this":
		entries, scope, ok := p.scopes.Values.Lookup("this")
		if !ok || entries[0].Kind != symbols.EntryThis {
			return ast.Expression{}, diag.New(diag.InvalidInContext, tok.Span, "'this' is only valid inside methods")
		}
		p.ts.Next()
		return ast.Expression{Kind: ast.ExprVariable, Span: tok.Span, Variable: &ast.Variable{Name: "this", Scope: scope}}, nil
	case "_":
		p.ts.Next()
		return ast.Expression{Kind: ast.ExprWildcard, Span: tok.Span}, nil
	}
	if tok.IsIdent() {
		return p.parseNameOperand(mode)
	}
	return ast.Expression{}, p.unexpected("an expression")
}

func parseLiteral(tok token.Token) (ast.Expression, error) {
	lit := &ast.Literal{Raw: tok.Text}
	bad := func(what string) (ast.Expression, error) {
		return ast.Expression{}, diag.Newf(diag.UnexpectedToken, tok.Span, "invalid %s literal %s", what, tok.Text)
	}
	switch tok.Kind() {
	case token.IntLit:
		v, err := strconv.ParseInt(strings.ReplaceAll(tok.Text, "_", ""), 0, 64)
		if err != nil {
			return bad("integer")
		}
		lit.Kind, lit.Int = ast.LitInt, v
	case token.FloatLit:
		v, err := strconv.ParseFloat(strings.ReplaceAll(tok.Text, "_", ""), 64)
		if err != nil {
			return bad("float")
		}
		lit.Kind, lit.Float = ast.LitFloat, v
	case token.CharLit:
		r, _, tail, err := strconv.UnquoteChar(tok.Text[1:len(tok.Text)-1], '\'')
		if err != nil || tail != "" {
			return bad("char")
		}
		lit.Kind, lit.Char = ast.LitChar, r
	case token.StringLit:
		s, err := strconv.Unquote(tok.Text)
		if err != nil {
			return bad("string")
		}
		lit.Kind, lit.Str = ast.LitStr, s
	case token.BoolLit:
		lit.Kind, lit.Bool = ast.LitBool, tok.Text == "true"
	}
	return ast.Expression{Kind: ast.ExprLiteral, Span: tok.Span, Literal: lit}, nil
}

// parseNameOperand resolves an identifier: import alias, value, then type.
func (p *Parser) parseNameOperand(mode exprMode) (ast.Expression, error) {
	tok := p.cur()
	if p.ts.PeekText(1) == "." {
		if use, ok := p.lookupUse(tok.Text); ok {
			return p.parseExternalOperand(use, mode)
		}
	}
	if entries, scope, ok := p.scopes.Values.Lookup(tok.Text); ok {
		return p.parseValueOperand(tok, entries[0], scope)
	}
	if _, ok := p.scopes.LookupType(tok.Text); ok {
		t, err := p.parseType()
		if err != nil {
			return ast.Expression{}, err
		}
		return p.parseTypeOperand(t, tok, mode)
	}
	return ast.Expression{}, diag.Newf(diag.NotFoundInScope, tok.Span, "'%s' is not declared in this scope", tok.Text)
}

func (p *Parser) parseValueOperand(tok token.Token, first symbols.SymbolEntry, scope symbols.ScopeID) (ast.Expression, error) {
	p.ts.Next()
	if p.at("(") || (p.at("<") && first.Kind.Overloadable()) {
		call, ok, err := p.tryParseCall(tok.Text)
		if err != nil {
			return ast.Expression{}, err
		}
		if ok {
			call.Scope = scope
			return ast.Expression{Kind: ast.ExprCall, Span: tok.Span.Combine(p.prevSpan()), Call: call}, nil
		}
	}
	if first.Kind == symbols.EntryUse {
		return ast.Expression{
			Kind:     ast.ExprExternalPath,
			Span:     tok.Span,
			External: &ast.ExternalPath{Alias: tok.Text, Path: first.Path},
		}, nil
	}
	return ast.Expression{Kind: ast.ExprVariable, Span: tok.Span, Variable: &ast.Variable{Name: tok.Text, Scope: scope}}, nil
}

// tryParseCall parses `[<generic args>](args)` after a callee name. A '<'
// that does not start a generic argument list followed by '(' is left for
// the comparison operator and ok is false.
func (p *Parser) tryParseCall(name string) (*ast.Call, bool, error) {
	call := &ast.Call{Name: name, Scope: symbols.NoScope}
	if p.at("<") {
		start := p.ts.CurrentIndex()
		generics, ok, err := p.parseGenericArgs(false)
		if err != nil {
			return nil, false, err
		}
		if !ok || !p.at("(") {
			p.ts.GoToIndex(start)
			return nil, false, nil
		}
		call.Generics = generics
	}
	args, _, err := p.parseArgs()
	if err != nil {
		return nil, false, err
	}
	call.Args = args
	return call, true, nil
}

// parseExternalOperand handles `alias.name` where alias is a `use` binding.
func (p *Parser) parseExternalOperand(use symbols.SymbolEntry, mode exprMode) (ast.Expression, error) {
	alias := p.cur()
	name, ok := p.ts.Peek(2)
	if !ok || !name.IsIdent() {
		return ast.Expression{}, diag.Newf(diag.InvalidName, alias.Span, "expected a name after '%s.'", alias.Text)
	}
	if h, item, found := p.resolveUse(use); found && item == "" {
		if _, isType := h.LookupType(name.Text); isType {
			t, err := p.parseType()
			if err != nil {
				return ast.Expression{}, err
			}
			return p.parseTypeOperand(t, alias, mode)
		}
		if !h.Has(name.Text) {
			return ast.Expression{}, diag.Newf(diag.NotFoundInScope, name.Span, "'%s' is not exported by '%s'", name.Text, use.Path)
		}
	}
	p.ts.NextMultiple(3)
	if p.at("(") || p.at("<") {
		call, ok, err := p.tryParseCall(name.Text)
		if err != nil {
			return ast.Expression{}, err
		}
		if ok {
			recv := ast.Expression{Kind: ast.ExprExternalPath, Span: alias.Span, External: &ast.ExternalPath{Alias: alias.Text, Path: use.Path}}
			call.Receiver = &recv
			return ast.Expression{Kind: ast.ExprCall, Span: alias.Span.Combine(p.prevSpan()), Call: call}, nil
		}
	}
	return ast.Expression{
		Kind:     ast.ExprExternalPath,
		Span:     alias.Span.Combine(name.Span),
		External: &ast.ExternalPath{Alias: alias.Text, Name: name.Text, Path: use.Path},
	}, nil
}

// parseTypeOperand continues after a type in operand position: a
// constructor, a typed tuple or array, or the type name itself.
func (p *Parser) parseTypeOperand(t types.SoulType, start token.Token, mode exprMode) (ast.Expression, error) {
	switch {
	case p.at("{") && !mode.noBrace:
		fields, defaults, end, err := p.parseFieldList()
		if err != nil {
			return ast.Expression{}, err
		}
		return ast.Expression{
			Kind:        ast.ExprConstructor,
			Span:        start.Span.Combine(end.Span),
			Constructor: &ast.Constructor{Type: t, Fields: fields, Defaults: defaults},
		}, nil
	case p.at("("):
		switch t.Base.Kind {
		case types.KindStruct, types.KindClass, types.KindExternal:
			args, end, err := p.parseArgs()
			if err != nil {
				return ast.Expression{}, err
			}
			ctor := &ast.Constructor{Type: t}
			for _, a := range args {
				if a.Value.Kind == ast.ExprDefault {
					ctor.Defaults = true
					continue
				}
				ctor.Fields = append(ctor.Fields, a)
			}
			return ast.Expression{Kind: ast.ExprConstructor, Span: start.Span.Combine(end.Span), Constructor: ctor}, nil
		}
		elems, end, err := p.parseExprList(")")
		if err != nil {
			return ast.Expression{}, err
		}
		return p.newGroup(ast.ExprTuple, &t, elems, start.Span.Combine(end.Span)), nil
	case p.at("["):
		arr, err := p.parseArrayLiteral(&t)
		if err != nil {
			return ast.Expression{}, err
		}
		arr.Span = start.Span.Combine(arr.Span)
		return arr, nil
	}
	return ast.Expression{Kind: ast.ExprTypeName, Span: start.Span.Combine(p.prevSpan()), TypeName: &t}, nil
}

// parseArgs parses a call argument list; the cursor is on '('. Named
// arguments are `name: value`; a final `..` requests the remaining defaults.
func (p *Parser) parseArgs() ([]ast.Argument, token.Token, error) {
	p.ts.Next()
	var args []ast.Argument
	named := false
	for {
		p.skipNewlines()
		if p.at(")") {
			break
		}
		if p.at("..") {
			dots := p.advance()
			p.skipNewlines()
			if !p.at(")") {
				return nil, token.Token{}, diag.New(diag.ArgError, dots.Span, "'..' must be the last argument")
			}
			args = append(args, ast.Argument{Value: ast.Expression{Kind: ast.ExprDefault, Span: dots.Span}, Span: dots.Span})
			break
		}
		first := p.cur()
		var name string
		if first.IsIdent() && p.ts.PeekText(1) == ":" {
			name = first.Text
			named = true
			p.ts.NextMultiple(2)
		} else if named {
			return nil, token.Token{}, diag.New(diag.ArgError, first.Span, "positional argument after named arguments")
		}
		value, err := p.parseExpression(exprMode{inBrackets: true})
		if err != nil {
			return nil, token.Token{}, err
		}
		args = append(args, ast.Argument{Name: name, Value: value, Span: first.Span.Combine(value.Span)})
		p.skipNewlines()
		if p.ts.Eat(",") {
			continue
		}
		if !p.at(")") {
			return nil, token.Token{}, p.unexpected("',' or ')'")
		}
	}
	return args, p.advance(), nil
}

// parseExprList parses comma-separated expressions up to closing; the
// cursor is on the opening bracket.
func (p *Parser) parseExprList(closing string) ([]ast.Expression, token.Token, error) {
	p.ts.Next()
	var elems []ast.Expression
	for {
		p.skipNewlines()
		if p.at(closing) {
			break
		}
		el, err := p.parseExpression(exprMode{inBrackets: true})
		if err != nil {
			return nil, token.Token{}, err
		}
		elems = append(elems, el)
		p.skipNewlines()
		if p.ts.Eat(",") {
			continue
		}
		if !p.at(closing) {
			return nil, token.Token{}, p.unexpected("',' or '" + closing + "'")
		}
	}
	return elems, p.advance(), nil
}

// parseMember parses `.field`, `.0`, `.method(args)` after obj.
func (p *Parser) parseMember(obj ast.Expression) (ast.Expression, error) {
	p.ts.Next()
	tok, ok := p.ts.Current()
	if !ok {
		return ast.Expression{}, p.unexpected("a field name")
	}
	field := func(o ast.Expression, name string) ast.Expression {
		return ast.Expression{
			Kind:  ast.ExprFieldAccess,
			Span:  o.Span.Combine(tok.Span),
			Field: &ast.FieldAccess{Object: o, Field: name},
		}
	}
	switch {
	case tok.Kind() == token.IntLit:
		p.ts.Next()
		return field(obj, tok.Text), nil
	case tok.Kind() == token.FloatLit && isTupleIndexPair(tok.Text):
		// `t.0.1` arrives as `t`, `.`, `0.1`
		p.ts.Next()
		first, second, _ := strings.Cut(tok.Text, ".")
		return field(field(obj, first), second), nil
	case tok.IsIdent():
		p.ts.Next()
		if p.at("(") || p.at("<") {
			call, ok, err := p.tryParseCall(tok.Text)
			if err != nil {
				return ast.Expression{}, err
			}
			if ok {
				recv := obj
				call.Receiver = &recv
				return ast.Expression{Kind: ast.ExprCall, Span: obj.Span.Combine(p.prevSpan()), Call: call}, nil
			}
		}
		return field(obj, tok.Text), nil
	}
	return ast.Expression{}, diag.Newf(diag.InvalidName, tok.Span, "expected a field name, found %s", p.describe())
}

func isTupleIndexPair(s string) bool {
	a, b, ok := strings.Cut(s, ".")
	return ok && a != "" && b != "" && strings.Trim(a+b, "0123456789") == ""
}

// parseIndex parses `[index]` after collection.
func (p *Parser) parseIndex(collection ast.Expression) (ast.Expression, error) {
	p.ts.Next()
	p.skipNewlines()
	idx, err := p.parseExpression(exprMode{inBrackets: true})
	if err != nil {
		return ast.Expression{}, err
	}
	p.skipNewlines()
	end, err := p.expect("]")
	if err != nil {
		return ast.Expression{}, err
	}
	return ast.Expression{
		Kind:  ast.ExprIndex,
		Span:  collection.Span.Combine(end.Span),
		Index: &ast.Index{Collection: collection, Index: idx},
	}, nil
}

func (p *Parser) prevSpan() source.Span {
	return p.ts.At(p.ts.CurrentIndex() - 1).Span
}

// peekPastNewlines returns the index of the first non-newline token at or after i.
func (p *Parser) peekPastNewlines(i int) int {
	for i < p.ts.Len() && p.ts.At(i).Text == token.Newline {
		i++
	}
	return i
}
