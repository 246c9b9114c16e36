package parser

import (
	"soul/internal/ast"
	"soul/internal/diag"
	"soul/internal/source"
	"soul/internal/token"
)

// exprMode configures where an expression stops.
type exprMode struct {
	// noBrace: a '{' after a type name belongs to the enclosing construct
	// (`if`, `while`, `for`, `match` heads), not to a constructor.
	noBrace bool
	// inBrackets: the expression sits inside (), [] or {}, so line breaks
	// do not end it.
	inBrackets bool
}

type symKind uint8

const (
	symUnary symKind = iota
	symBinary
	symOpen
)

// opSymbol is an entry of the symbol stack.
type opSymbol struct {
	kind   symKind
	unary  ast.UnaryOp
	binary binaryInfo
	span   source.Span
	// symOpen only
	base   int // node stack height when '(' was pushed
	commas int
}

// exprEngine is the two-stack operator-precedence parser. Parentheses are
// kept on the symbol stack; calls, arrays and other bracketed productions
// recurse through parseOperand.
type exprEngine struct {
	p           *Parser
	mode        exprMode
	syms        []opSymbol
	nodes       []ast.Expression
	depth       int
	wantOperand bool
}

// parseExpression parses one expression starting at the cursor. It stops
// before the first token that cannot continue it.
func (p *Parser) parseExpression(mode exprMode) (ast.Expression, error) {
	e := &exprEngine{p: p, mode: mode, wantOperand: true}
	for {
		tok, ok := p.ts.Current()
		if !ok {
			break
		}
		var done bool
		var err error
		if e.wantOperand {
			err = e.operandStep(tok)
		} else {
			done, err = e.operatorStep(tok)
		}
		if err != nil {
			return ast.Expression{}, err
		}
		if done {
			break
		}
	}
	return e.finish()
}

func (e *exprEngine) skipsNewlines() bool { return e.depth > 0 || e.mode.inBrackets }

func (e *exprEngine) operandStep(tok token.Token) error {
	p := e.p
	if tok.Text == token.Newline && e.skipsNewlines() {
		p.ts.Next()
		return nil
	}
	if ops, ok := unaryOps[tok.Text]; ok {
		for _, op := range ops {
			e.syms = append(e.syms, opSymbol{kind: symUnary, unary: op, span: tok.Span})
		}
		p.ts.Next()
		return nil
	}
	switch tok.Text {
	case "(":
		if p.startsNamedTuple() {
			node, err := p.parseNamedTuple(nil)
			if err != nil {
				return err
			}
			return e.pushOperand(node)
		}
		e.syms = append(e.syms, opSymbol{kind: symOpen, span: tok.Span, base: len(e.nodes)})
		e.depth++
		p.ts.Next()
		return nil
	case ")":
		// `()` and a trailing comma in `(a, b,)`
		if e.depth > 0 && e.topIsOpen() {
			top := e.syms[len(e.syms)-1]
			if len(e.nodes) == top.base || top.commas > 0 {
				return e.closeGroup()
			}
		}
	}
	if _, isBinary := binaryOps[tok.Text]; isBinary {
		return diag.Newf(diag.UnexpectedToken, tok.Span, "binary operator '%s' is missing its left operand", tok.Text)
	}
	if e.endsOperand(tok) {
		return e.missingOperand()
	}
	node, err := p.parseOperand(e.mode)
	if err != nil {
		return err
	}
	return e.pushOperand(node)
}

// endsOperand reports tokens that can never start an operand.
func (e *exprEngine) endsOperand(tok token.Token) bool {
	if tok.IsEndOfLine() {
		return true
	}
	switch tok.Text {
	case ")", "]", "}", ",", "=", ":=", "=>", ":":
		return true
	}
	return token.IsAssignOp(tok.Text)
}

func (e *exprEngine) operatorStep(tok token.Token) (bool, error) {
	p := e.p
	switch {
	case tok.Text == token.Newline && e.skipsNewlines():
		// a line break inside brackets is only a separator when the next
		// line cannot continue the expression
		next := p.peekPastNewlines(p.ts.CurrentIndex())
		if e.depth == 0 && !e.continuesExpression(next) {
			return true, nil
		}
		p.ts.Next()
		return false, nil
	case tok.IsEndOfLine():
		if e.depth > 0 {
			return false, diag.Newf(diag.UnexpectedToken, tok.Span, "expected ')', found %s", p.describe())
		}
		return true, nil
	case tok.Text == ",":
		if e.depth == 0 {
			return true, nil
		}
		if err := e.reduceToOpen(); err != nil {
			return false, err
		}
		e.syms[len(e.syms)-1].commas++
		e.wantOperand = true
		p.ts.Next()
		return false, nil
	case tok.Text == ")":
		if e.depth == 0 {
			return true, nil
		}
		return false, e.closeGroup()
	case tok.Text == "." || tok.Text == "[":
		return false, e.postfix()
	}

	info, ok := binaryOps[tok.Text]
	width := 1
	if tok.Text == ">" {
		if next, has := p.ts.Peek(1); has && next.Text == ">" && adjacent(tok.Span, next.Span) {
			info, width = shiftRight, 2
		}
	}
	if !ok {
		if e.depth > 0 {
			if tok.Text == "]" || tok.Text == "}" {
				return false, diag.Newf(diag.UnmatchedParenthesis, tok.Span, "'%s' does not close the '(' opened at %s", tok.Text, e.syms[e.openIndex()].span)
			}
			return false, diag.Newf(diag.UnexpectedToken, tok.Span, "expected ')', found %s", p.describe())
		}
		return true, nil
	}
	span := tok.Span
	if width == 2 {
		span = p.ts.SpanBetween(p.ts.CurrentIndex(), p.ts.CurrentIndex()+1)
	}
	if err := e.pushBinary(info, span); err != nil {
		return false, err
	}
	p.ts.NextMultiple(width)
	e.wantOperand = true
	return false, nil
}

// continuesExpression: a line starting with a binary operator or '.'
// continues the previous one inside brackets.
func (e *exprEngine) continuesExpression(idx int) bool {
	if idx >= e.p.ts.Len() {
		return false
	}
	text := e.p.ts.At(idx).Text
	if text == "." {
		return true
	}
	_, ok := binaryOps[text]
	return ok
}

func adjacent(a, b source.Span) bool {
	return a.EndLine == 0 && a.Line == b.Line && a.Col+a.Len == b.Col
}

func (e *exprEngine) pushOperand(node ast.Expression) error {
	e.nodes = append(e.nodes, node)
	e.wantOperand = false
	return e.postfix()
}

func (e *exprEngine) topIsOpen() bool {
	return len(e.syms) > 0 && e.syms[len(e.syms)-1].kind == symOpen
}

// openIndex returns the index of the innermost '(' symbol or -1.
func (e *exprEngine) openIndex() int {
	for i := len(e.syms) - 1; i >= 0; i-- {
		if e.syms[i].kind == symOpen {
			return i
		}
	}
	return -1
}

// base is the node stack height below which the current group may not reduce.
func (e *exprEngine) base() int {
	if i := e.openIndex(); i >= 0 {
		return e.syms[i].base
	}
	return 0
}

func precedence(s opSymbol) int {
	if s.kind == symUnary {
		return precUnary
	}
	return s.binary.prec
}

// pushBinary reduces every stacked operator that binds at least as tightly
// (strictly tighter for right-associative operators), then pushes info.
func (e *exprEngine) pushBinary(info binaryInfo, span source.Span) error {
	for len(e.syms) > 0 {
		top := e.syms[len(e.syms)-1]
		if top.kind == symOpen {
			break
		}
		prec := precedence(top)
		if prec < info.prec || (prec == info.prec && info.right) {
			break
		}
		if err := e.reduce(); err != nil {
			return err
		}
	}
	e.syms = append(e.syms, opSymbol{kind: symBinary, binary: info, span: span})
	return nil
}

// reduce applies the top operator to the top of the node stack.
func (e *exprEngine) reduce() error {
	sym := e.syms[len(e.syms)-1]
	e.syms = e.syms[:len(e.syms)-1]
	avail := len(e.nodes) - e.base()
	switch sym.kind {
	case symUnary:
		if avail < 1 {
			return diag.Newf(diag.UnexpectedToken, sym.span, "unary operator '%s' is missing its operand", sym.unary.Symbol())
		}
		operand := e.nodes[len(e.nodes)-1]
		e.nodes[len(e.nodes)-1] = ast.Expression{
			Kind:  ast.ExprUnary,
			Span:  sym.span.Combine(operand.Span),
			Unary: &ast.Unary{Op: sym.unary, Operand: operand},
		}
	case symBinary:
		if avail < 2 {
			side := "right"
			if avail == 0 {
				side = "left"
			}
			return diag.Newf(diag.UnexpectedToken, sym.span, "binary operator '%s' is missing its %s operand", sym.binary.op.Symbol(), side)
		}
		left, right := e.nodes[len(e.nodes)-2], e.nodes[len(e.nodes)-1]
		e.nodes = e.nodes[:len(e.nodes)-1]
		e.nodes[len(e.nodes)-1] = ast.Expression{
			Kind:   ast.ExprBinary,
			Span:   left.Span.Combine(right.Span),
			Binary: &ast.Binary{Op: sym.binary.op, Left: left, Right: right},
		}
	default:
		return diag.Internal(sym.span, "reducing an open parenthesis")
	}
	return nil
}

func (e *exprEngine) reduceToOpen() error {
	for len(e.syms) > 0 && !e.topIsOpen() {
		if err := e.reduce(); err != nil {
			return err
		}
	}
	if !e.topIsOpen() {
		return diag.Internal(e.p.ts.CurrentSpan(), "no open parenthesis to reduce to")
	}
	return nil
}

// closeGroup handles ')': a single element without commas is the element
// itself, anything else is a tuple.
func (e *exprEngine) closeGroup() error {
	p := e.p
	closeTok := p.advance()
	if err := e.reduceToOpen(); err != nil {
		return err
	}
	open := e.syms[len(e.syms)-1]
	e.syms = e.syms[:len(e.syms)-1]
	e.depth--

	elems := append([]ast.Expression(nil), e.nodes[open.base:]...)
	e.nodes = e.nodes[:open.base]
	if len(elems) == 1 && open.commas == 0 {
		return e.pushOperand(elems[0])
	}
	return e.pushOperand(p.newGroup(ast.ExprTuple, nil, elems, open.span.Combine(closeTok.Span)))
}

// postfix applies member access, method calls and indexing to the top node.
func (e *exprEngine) postfix() error {
	p := e.p
	for {
		var err error
		top := &e.nodes[len(e.nodes)-1]
		switch p.ts.CurrentText() {
		case ".":
			*top, err = p.parseMember(*top)
		case "[":
			*top, err = p.parseIndex(*top)
		default:
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (e *exprEngine) missingOperand() error {
	p := e.p
	if len(e.syms) > 0 {
		top := e.syms[len(e.syms)-1]
		switch top.kind {
		case symBinary:
			return diag.Newf(diag.UnexpectedToken, top.span, "binary operator '%s' is missing its right operand", top.binary.op.Symbol())
		case symUnary:
			return diag.Newf(diag.UnexpectedToken, top.span, "unary operator '%s' is missing its operand", top.unary.Symbol())
		}
	}
	return p.unexpected("an expression")
}

// finish reduces what is left; exactly one node must remain.
func (e *exprEngine) finish() (ast.Expression, error) {
	if e.wantOperand {
		return ast.Expression{}, e.missingOperand()
	}
	for len(e.syms) > 0 {
		if e.topIsOpen() {
			top := e.syms[len(e.syms)-1]
			return ast.Expression{}, diag.New(diag.UnmatchedParenthesis, top.span, "this '(' is never closed")
		}
		if err := e.reduce(); err != nil {
			return ast.Expression{}, err
		}
	}
	if len(e.nodes) != 1 {
		return ast.Expression{}, diag.Internal(e.p.ts.CurrentSpan(), "expression stack holds %d nodes", len(e.nodes))
	}
	return e.nodes[0], nil
}
