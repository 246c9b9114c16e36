package parser

import (
	"soul/internal/diag"
	"soul/internal/source"
	"soul/internal/symbols"
	"soul/internal/token"
	"soul/internal/types"
)

var typeDeclKinds = map[StmtClass]types.Kind{
	ClassStruct:  types.KindStruct,
	ClassClass:   types.KindClass,
	ClassTrait:   types.KindTrait,
	ClassEnum:    types.KindEnum,
	ClassUnion:   types.KindUnion,
	ClassTypeDef: types.KindTypeDef,
}

// hoist is the forward-declaration pass over the statements of the current
// scope: from the cursor to the scope's closing '}' (or the end of input for
// the global scope). Functions get placeholders, type declarations go to the
// type tree and `use` aliases are bound, so later code in the scope can refer
// to earlier or later declarations alike. The cursor is rewound afterwards.
// open is the span of the '{' that opened the scope.
func (p *Parser) hoist(global bool, open source.Span) error {
	start := p.ts.CurrentIndex()
	defer p.ts.GoToIndex(start)

	for {
		p.ts.SkipEndOfLines()
		if p.ts.AtEnd() {
			if !global {
				return diag.New(diag.UnmatchedParenthesis, open, "this '{' is never closed")
			}
			return nil
		}

		class, err := p.classify()
		if err != nil {
			return err
		}
		stmtStart := p.ts.CurrentIndex()

		switch {
		case class == ClassCloseBlock:
			if global {
				return diag.New(diag.UnmatchedParenthesis, p.cur().Span, "a '}' without a matching '{'")
			}
			return nil
		case class == ClassFunction:
			if err := p.hoistFunction(stmtStart); err != nil {
				return err
			}
		case class.IsTypeDecl():
			p.hoistType(class)
		case class == ClassUse:
			if _, err := p.bindUse(); err != nil {
				return err
			}
			p.ts.GoToIndex(stmtStart)
		case class == ClassVariable && global && !p.opts.Script:
			nameIdx, err := p.checkGlobalVariable()
			if err != nil {
				return err
			}
			p.recordGlobal(stmtStart, nameIdx)
		}

		p.ts.GoToIndex(stmtStart)
		if err := p.skipStatement(); err != nil {
			return err
		}
	}
}

// functionNameIndex finds the declared name of a function statement: the
// last identifier at angle depth 0 before the first '('.
func (p *Parser) functionNameIndex(from int) int {
	angles, name := 0, -1
	for i := from; i < p.ts.Len(); i++ {
		tok := p.ts.At(i)
		switch {
		case tok.Text == "(" && angles == 0:
			return name
		case tok.Text == "<":
			angles++
		case tok.Text == ">" && angles > 0:
			angles--
		case tok.IsEndOfLine() || tok.Text == "{":
			return name
		case angles == 0 && tok.IsIdent():
			name = i
		}
	}
	return name
}

func (p *Parser) hoistFunction(stmtStart int) error {
	idx := p.functionNameIndex(stmtStart)
	if idx < 0 {
		return diag.New(diag.InvalidName, p.ts.At(stmtStart).Span, "function declaration without a name")
	}
	name := p.ts.At(idx)
	p.declare(symbols.SymbolEntry{
		Kind:        symbols.EntryFunction,
		Name:        name.Text,
		Span:        name.Span,
		Placeholder: true,
		DeclIndex:   stmtStart,
	})
	return nil
}

func (p *Parser) hoistType(class StmtClass) {
	name, ok := p.ts.Peek(1)
	if !ok || !name.IsIdent() {
		// ошибку выдаст парсер объявления
		return
	}
	p.declareType(name.Text, symbols.TypeEntry{
		Type: types.Named(typeDeclKinds[class], name.Text),
		Span: name.Span,
	})
}

// checkGlobalVariable enforces that globals are initialised with a value
// that cannot change: a literal-only initializer, or any initializer when
// the variable is declared const or Literal.
// It returns the index of the variable's name token.
func (p *Parser) checkGlobalVariable() (int, error) {
	first := p.cur()
	modifier := token.IsTypeModifier(first.Text)
	depth := 0
	init, nameIdx := -1, -1
	for i := p.ts.CurrentIndex(); i < p.ts.Len() && init < 0; i++ {
		tok := p.ts.At(i)
		switch tok.Text {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			depth--
		}
		if depth < 0 || (depth == 0 && tok.IsEndOfLine()) {
			break
		}
		if depth == 0 && (tok.Text == ":=" || tok.Text == "=") {
			init, nameIdx = i+1, i-1
		}
	}
	if init < 0 {
		return -1, diag.New(diag.InvalidInContext, first.Span, "global variables must be initialised")
	}
	if modifier {
		return nameIdx, nil
	}
	depth = 0
	for i := init; i < p.ts.Len(); i++ {
		tok := p.ts.At(i)
		switch tok.Text {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			depth--
		}
		if depth < 0 || (depth == 0 && tok.IsEndOfLine()) {
			return nameIdx, nil
		}
		switch tok.Kind() {
		case token.Ident:
			// имена полей в `(a: 1)` допустимы
			if p.ts.At(i+1).Text == ":" {
				continue
			}
		case token.Keyword:
		default:
			continue
		}
		return -1, diag.Newf(diag.InvalidInContext, tok.Span,
			"global variables must be initialised with a literal value or declared 'const'; found '%s'", tok.Text)
	}
	return nameIdx, nil
}

// recordGlobal keeps a global variable for the page header. Variables are
// not hoisted into the scope, but other pages may still import them. An
// explicit type is kept when it already resolves at this point.
func (p *Parser) recordGlobal(stmtStart, nameIdx int) {
	if nameIdx < stmtStart {
		return
	}
	name := p.ts.At(nameIdx)
	if !name.IsIdent() {
		return
	}
	entry := symbols.SymbolEntry{Kind: symbols.EntryVariable, Name: name.Text, Span: name.Span, DeclIndex: stmtStart}
	if nameIdx > stmtStart {
		p.ts.GoToIndex(stmtStart)
		if t, ok, err := p.tryParseType(); err == nil && ok && p.ts.CurrentIndex() == nameIdx {
			entry.Type = &t
		}
		p.ts.GoToIndex(stmtStart)
	}
	p.globals = append(p.globals, entry)
}

var closers = map[string]string{")": "(", "]": "[", "}": "{"}

// skipStatement moves past one statement of the current scope: up to and
// including its end-of-line at bracket depth 0, or up to (not including) the
// '}' that closes the scope. Bodies are skipped by bracket matching only.
func (p *Parser) skipStatement() error {
	var stack []token.Token
	for {
		tok, ok := p.ts.Current()
		if !ok {
			if len(stack) > 0 {
				top := stack[len(stack)-1]
				return diag.Newf(diag.UnmatchedParenthesis, top.Span, "this '%s' is never closed", top.Text)
			}
			return nil
		}
		switch tok.Text {
		case "(", "[", "{":
			stack = append(stack, tok)
		case ")", "]", "}":
			if len(stack) == 0 {
				if tok.Text == "}" {
					return nil
				}
				return diag.Newf(diag.UnmatchedParenthesis, tok.Span, "a '%s' without a matching '%s'", tok.Text, closers[tok.Text])
			}
			top := stack[len(stack)-1]
			if top.Text != closers[tok.Text] {
				return diag.Newf(diag.UnmatchedParenthesis, tok.Span, "'%s' does not close '%s' opened at %s", tok.Text, top.Text, top.Span)
			}
			stack = stack[:len(stack)-1]
		default:
			if len(stack) == 0 && tok.IsEndOfLine() {
				p.ts.Next()
				return nil
			}
		}
		p.ts.Next()
	}
}
