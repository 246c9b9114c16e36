package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"soul/internal/ast"
	"soul/internal/parser"
	"soul/internal/source"
	"soul/internal/types"
)

// Node is one printable AST node; the tree and the JSON output share it.
type Node struct {
	Type     string       `json:"type"`
	Label    string       `json:"label,omitempty"`
	Span     *source.Span `json:"span,omitempty"`
	Children []*Node      `json:"children,omitempty"`
}

func (n *Node) add(children ...*Node) *Node {
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

func node(typ, label string, sp source.Span) *Node {
	n := &Node{Type: typ, Label: label}
	if !sp.IsZero() {
		n.Span = &sp
	}
	return n
}

// BuildTree converts a parse result of page into a Node tree. Declaration
// bodies are inlined from the arenas; interned literals are listed under
// a trailing Memory node.
func BuildTree(resp *parser.ParserResponse, page string) *Node {
	b := treeBuilder{decls: resp.Tree.Decls}
	root := node("Page", page, resp.Tree.Root.Span)
	for i := range resp.Tree.Root.Statements {
		root.add(b.stmt(&resp.Tree.Root.Statements[i]))
	}
	if resp.Memory != nil && resp.Memory.Len() > 0 {
		mem := node("Memory", "", source.Span{})
		for _, e := range resp.Memory.Entries {
			mem.add(node("Slot", ast.MemoryName(e.ID)+" = "+e.Key, source.Span{}))
		}
		root.add(mem)
	}
	return root
}

// FormatTree prints the tree with box-drawing connectors.
func FormatTree(w io.Writer, resp *parser.ParserResponse, page string) error {
	var sb strings.Builder
	writeNode(&sb, BuildTree(resp, page), "", "")
	_, err := io.WriteString(w, sb.String())
	return err
}

// FormatJSON prints the tree as indented JSON.
func FormatJSON(w io.Writer, resp *parser.ParserResponse, page string) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildTree(resp, page))
}

func writeNode(sb *strings.Builder, n *Node, first, rest string) {
	sb.WriteString(first)
	sb.WriteString(n.Type)
	if n.Label != "" {
		sb.WriteString(": ")
		sb.WriteString(n.Label)
	}
	if n.Span != nil {
		fmt.Fprintf(sb, " (%s)", n.Span)
	}
	sb.WriteByte('\n')
	for i, c := range n.Children {
		if i == len(n.Children)-1 {
			writeNode(sb, c, rest+"└─ ", rest+"   ")
		} else {
			writeNode(sb, c, rest+"├─ ", rest+"│  ")
		}
	}
}

type treeBuilder struct {
	decls *ast.Decls
}

func (b *treeBuilder) block(typ string, blk *ast.Block) *Node {
	n := node(typ, "", blk.Span)
	for i := range blk.Statements {
		n.add(b.stmt(&blk.Statements[i]))
	}
	return n
}

func (b *treeBuilder) stmt(s *ast.Statement) *Node {
	switch s.Kind {
	case ast.StmtVarDecl:
		v := s.Var
		label := v.Name
		if v.Modifier != types.ModDefault {
			label = v.Modifier.String() + " " + label
		}
		if v.Type != nil {
			label += ": " + v.Type.String()
		}
		if v.Global {
			label += " [global]"
		}
		n := node("VarDecl", label, s.Span)
		if v.Init != nil {
			n.add(b.expr(v.Init))
		}
		return n
	case ast.StmtAssignment:
		return node("Assignment", s.Assign.Op.String(), s.Span).add(b.expr(&s.Assign.Target), b.expr(&s.Assign.Value))
	case ast.StmtExpression:
		return b.expr(s.Expr)
	case ast.StmtFnDecl:
		return b.function(s.Function, s.Span)
	case ast.StmtStructDecl:
		st := b.decls.Struct(s.Struct)
		n := node("Struct", st.Name+generics(st.Generics), s.Span)
		for i := range st.Fields {
			n.add(b.field(&st.Fields[i]))
		}
		return n
	case ast.StmtClassDecl:
		c := b.decls.Class(s.Class)
		n := node("Class", c.Name+generics(c.Generics)+implements(c.Implements), s.Span)
		for i := range c.Fields {
			n.add(b.field(&c.Fields[i]))
		}
		for _, m := range c.Methods {
			n.add(b.function(m, source.Span{}))
		}
		return n
	case ast.StmtTraitDecl:
		t := b.decls.Trait(s.Trait)
		n := node("Trait", t.Name+generics(t.Generics)+implements(t.Implements), s.Span)
		for _, m := range t.Methods {
			n.add(b.function(m, source.Span{}))
		}
		return n
	case ast.StmtEnumDecl:
		e := b.decls.Enum(s.Enum)
		label := e.Name
		if e.Impl != nil {
			label += " impl " + e.Impl.String()
		}
		n := node("Enum", label, s.Span)
		for i := range e.Variants {
			v := &e.Variants[i]
			if v.Expr != nil {
				n.add(node("Variant", v.Name+" = "+ast.Format(*v.Expr), v.Span))
			} else {
				n.add(node("Variant", fmt.Sprintf("%s = %d", v.Name, v.Value), v.Span))
			}
		}
		return n
	case ast.StmtUnionDecl:
		u := b.decls.Union(s.Union)
		n := node("Union", u.Name+generics(u.Generics), s.Span)
		for i := range u.Variants {
			n.add(node("Variant", unionVariant(&u.Variants[i]), u.Variants[i].Span))
		}
		return n
	case ast.StmtTypeDef:
		td := b.decls.TypeDef(s.TypeDef)
		return node("TypeDef", td.Name+" = "+td.Type.String(), s.Span)
	case ast.StmtUse:
		label := strings.Join(s.Use.Path, ".")
		if last := s.Use.Path[len(s.Use.Path)-1]; s.Use.Alias != last {
			label += " as " + s.Use.Alias
		}
		return node("Use", label, s.Span)
	case ast.StmtIf:
		return b.ifNode(s.If, s.Span)
	case ast.StmtWhile:
		return b.whileNode(s.While, s.Span)
	case ast.StmtFor:
		return b.forNode(s.For, s.Span)
	case ast.StmtReturn:
		n := node("Return", "", s.Span)
		if s.Return.Value != nil {
			n.add(b.expr(s.Return.Value))
		}
		return n
	case ast.StmtBlock:
		return b.block("Block", s.Block)
	default:
		return node(s.Kind.String(), "", s.Span)
	}
}

func (b *treeBuilder) function(id ast.FunctionID, sp source.Span) *Node {
	fn := b.decls.Function(id)
	if fn == nil {
		return node("Function", "<missing>", sp)
	}
	sig := &fn.Signature
	if sp.IsZero() {
		sp = sig.Span
	}
	label := sig.Name + generics(sig.Generics)
	if sig.Callee != nil {
		label = sig.Callee.Type.String() + "." + label
	}
	params := make([]string, 0, len(sig.Parameters)+1)
	if sig.Callee != nil && sig.Callee.This != ast.ThisNone {
		params = append(params, sig.Callee.This.String())
	}
	for _, p := range sig.Parameters {
		params = append(params, p.Type.String()+" "+p.Name)
	}
	label += "(" + strings.Join(params, ", ") + ")"
	if sig.ReturnType != nil {
		label += " " + sig.ReturnType.String()
	}
	if fn.Abstract {
		return node("Signature", label, sp)
	}
	return node("Function", label, sp).add(b.block("Body", &fn.Body))
}

func (b *treeBuilder) field(f *ast.Field) *Node {
	n := node("Field", f.Type.String()+" "+f.Name, f.Span)
	if f.Default != nil {
		n.add(b.expr(f.Default))
	}
	return n
}

func (b *treeBuilder) ifNode(n *ast.If, sp source.Span) *Node {
	out := node("If", "", sp).add(b.expr(&n.Condition), b.block("Then", &n.Body))
	for i := range n.Else {
		br := &n.Else[i]
		el := node(br.Kind.String(), "", br.Span)
		if br.Condition != nil {
			el.add(b.expr(br.Condition))
		}
		out.add(el.add(b.block("Body", &br.Body)))
	}
	return out
}

func (b *treeBuilder) whileNode(n *ast.While, sp source.Span) *Node {
	out := node("While", "", sp)
	if n.Condition != nil {
		out.add(b.expr(n.Condition))
	}
	return out.add(b.block("Body", &n.Body))
}

func (b *treeBuilder) forNode(n *ast.For, sp source.Span) *Node {
	return node("For", n.Var, sp).add(b.expr(&n.Collection), b.block("Body", &n.Body))
}

// expr разворачивает составные выражения, листья печатаются через ast.Format
func (b *treeBuilder) expr(e *ast.Expression) *Node {
	switch e.Kind {
	case ast.ExprBinary:
		return node("Binary", e.Binary.Op.String(), e.Span).add(b.expr(&e.Binary.Left), b.expr(&e.Binary.Right))
	case ast.ExprUnary:
		return node("Unary", e.Unary.Op.String(), e.Span).add(b.expr(&e.Unary.Operand))
	case ast.ExprCall:
		c := e.Call
		label := c.Name
		if len(c.Generics) > 0 {
			args := make([]string, len(c.Generics))
			for i, g := range c.Generics {
				args[i] = g.String()
			}
			label += "<" + strings.Join(args, ", ") + ">"
		}
		n := node("Call", label, e.Span)
		if c.Receiver != nil {
			n.add(node("Receiver", "", c.Receiver.Span).add(b.expr(c.Receiver)))
		}
		for i := range c.Args {
			n.add(b.argument(&c.Args[i]))
		}
		return n
	case ast.ExprConstructor:
		n := node("Constructor", e.Constructor.Type.String(), e.Span)
		for i := range e.Constructor.Fields {
			n.add(b.argument(&e.Constructor.Fields[i]))
		}
		if e.Constructor.Defaults {
			n.add(node("Defaults", "..", source.Span{}))
		}
		return n
	case ast.ExprIndex:
		return node("Index", "", e.Span).add(b.expr(&e.Index.Collection), b.expr(&e.Index.Index))
	case ast.ExprFieldAccess:
		return node("Field", e.Field.Field, e.Span).add(b.expr(&e.Field.Object))
	case ast.ExprLambda:
		l := e.Lambda
		params := make([]string, len(l.Parameters))
		for i, p := range l.Parameters {
			params[i] = p.Type.String() + " " + p.Name
		}
		label := "fn(" + strings.Join(params, ", ") + ")"
		if l.ReturnType != nil {
			label += " " + l.ReturnType.String()
		}
		return node("Lambda", label, e.Span).add(b.block("Body", &l.Body))
	case ast.ExprBlock:
		return b.block("Block", e.Block)
	case ast.ExprIf:
		return b.ifNode(e.If, e.Span)
	case ast.ExprWhile:
		return b.whileNode(e.While, e.Span)
	case ast.ExprFor:
		return b.forNode(e.For, e.Span)
	case ast.ExprMatch:
		n := node("Match", "", e.Span).add(b.expr(&e.Match.Subject))
		for i := range e.Match.Arms {
			arm := &e.Match.Arms[i]
			n.add(node("Arm", "", arm.Span).add(b.expr(&arm.Pattern), b.expr(&arm.Value)))
		}
		return n
	default:
		return node(e.Kind.String(), ast.Format(*e), e.Span)
	}
}

func (b *treeBuilder) argument(a *ast.Argument) *Node {
	if a.Name == "" {
		return b.expr(&a.Value)
	}
	return node("Arg", a.Name, a.Span).add(b.expr(&a.Value))
}

func generics(params []types.GenericParam) string {
	if len(params) == 0 {
		return ""
	}
	out := make([]string, len(params))
	for i, g := range params {
		out[i] = g.String()
	}
	return "<" + strings.Join(out, ", ") + ">"
}

func implements(list []types.SoulType) string {
	if len(list) == 0 {
		return ""
	}
	out := make([]string, len(list))
	for i, t := range list {
		out[i] = t.String()
	}
	return " impl " + strings.Join(out, ", ")
}

func unionVariant(v *ast.UnionVariant) string {
	switch v.Shape {
	case ast.VariantTuple:
		out := make([]string, len(v.Elements))
		for i, t := range v.Elements {
			out[i] = t.String()
		}
		return v.Name + "(" + strings.Join(out, ", ") + ")"
	case ast.VariantNamed:
		out := make([]string, len(v.Fields))
		for i, f := range v.Fields {
			out[i] = f.Type.String() + " " + f.Name
		}
		return v.Name + "{" + strings.Join(out, ", ") + "}"
	default:
		return v.Name
	}
}
