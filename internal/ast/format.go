package ast

import (
	"strconv"
	"strings"
)

// Format prints a span-free structural form of e, e.g.
// Add(Literal(1), Mul(Literal(2), Literal(3))). Equal forms mean equal trees
// up to spans and scope ids.
func Format(e Expression) string {
	var sb strings.Builder
	writeExpr(&sb, &e)
	return sb.String()
}

// FormatStmt prints a one-line structural form of s. Declaration bodies are
// summarised by kind only; diagfmt renders them in full.
func FormatStmt(s Statement) string {
	var sb strings.Builder
	writeStmt(&sb, &s)
	return sb.String()
}

func writeList(sb *strings.Builder, exprs []Expression) {
	for i := range exprs {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeExpr(sb, &exprs[i])
	}
}

func writeArgs(sb *strings.Builder, args []Argument) {
	for i := range args {
		if i > 0 {
			sb.WriteString(", ")
		}
		if args[i].Name != "" {
			sb.WriteString(args[i].Name)
			sb.WriteString(": ")
		}
		writeExpr(sb, &args[i].Value)
	}
}

func writeLiteral(sb *strings.Builder, l *Literal) {
	switch l.Kind {
	case LitInt:
		sb.WriteString(strconv.FormatInt(l.Int, 10))
	case LitFloat:
		sb.WriteString(strconv.FormatFloat(l.Float, 'g', -1, 64))
	case LitStr:
		sb.WriteString(strconv.Quote(l.Str))
	case LitChar:
		sb.WriteString(strconv.QuoteRune(l.Char))
	case LitBool:
		sb.WriteString(strconv.FormatBool(l.Bool))
	}
}

func writeExpr(sb *strings.Builder, e *Expression) {
	switch e.Kind {
	case ExprEmpty:
		sb.WriteString("Empty")
	case ExprLiteral:
		sb.WriteString("Literal(")
		writeLiteral(sb, e.Literal)
		sb.WriteByte(')')
	case ExprVariable:
		sb.WriteString("Variable(" + e.Variable.Name + ")")
	case ExprTypeName:
		sb.WriteString("TypeName(" + e.TypeName.String() + ")")
	case ExprExternalPath:
		sb.WriteString("External(" + e.External.Alias)
		if e.External.Name != "" {
			sb.WriteString("." + e.External.Name)
		}
		sb.WriteByte(')')
	case ExprUnary:
		sb.WriteString(e.Unary.Op.String() + "(")
		writeExpr(sb, &e.Unary.Operand)
		sb.WriteByte(')')
	case ExprBinary:
		sb.WriteString(e.Binary.Op.String() + "(")
		writeExpr(sb, &e.Binary.Left)
		sb.WriteString(", ")
		writeExpr(sb, &e.Binary.Right)
		sb.WriteByte(')')
	case ExprIndex:
		sb.WriteString("Index(")
		writeExpr(sb, &e.Index.Collection)
		sb.WriteString(", ")
		writeExpr(sb, &e.Index.Index)
		sb.WriteByte(')')
	case ExprFieldAccess:
		sb.WriteString("Field(")
		writeExpr(sb, &e.Field.Object)
		sb.WriteString(", " + e.Field.Field + ")")
	case ExprCall:
		sb.WriteString("Call(")
		if e.Call.Receiver != nil {
			writeExpr(sb, e.Call.Receiver)
			sb.WriteByte('.')
		}
		sb.WriteString(e.Call.Name)
		if len(e.Call.Generics) > 0 {
			sb.WriteByte('<')
			for i, g := range e.Call.Generics {
				if i > 0 {
					sb.WriteString(", ")
				}
				sb.WriteString(g.String())
			}
			sb.WriteByte('>')
		}
		if len(e.Call.Args) > 0 {
			sb.WriteString(", ")
			writeArgs(sb, e.Call.Args)
		}
		sb.WriteByte(')')
	case ExprConstructor:
		sb.WriteString("Constructor(" + e.Constructor.Type.String())
		if len(e.Constructor.Fields) > 0 {
			sb.WriteString(", ")
			writeArgs(sb, e.Constructor.Fields)
		}
		if e.Constructor.Defaults {
			sb.WriteString(", ..")
		}
		sb.WriteByte(')')
	case ExprLambda:
		sb.WriteString("Lambda(")
		for i, p := range e.Lambda.Parameters {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(p.Type.String() + " " + p.Name)
		}
		sb.WriteByte(')')
		if e.Lambda.ReturnType != nil {
			sb.WriteString(" " + e.Lambda.ReturnType.String())
		}
		sb.WriteByte(' ')
		writeBlock(sb, &e.Lambda.Body)
	case ExprBlock:
		writeBlock(sb, e.Block)
	case ExprIf:
		writeIf(sb, e.If)
	case ExprFor:
		writeFor(sb, e.For)
	case ExprWhile:
		writeWhile(sb, e.While)
	case ExprMatch:
		sb.WriteString("Match(")
		writeExpr(sb, &e.Match.Subject)
		for i := range e.Match.Arms {
			sb.WriteString(", ")
			writeExpr(sb, &e.Match.Arms[i].Pattern)
			sb.WriteString(" => ")
			writeExpr(sb, &e.Match.Arms[i].Value)
		}
		sb.WriteByte(')')
	case ExprTuple, ExprArray:
		sb.WriteString(e.Kind.String() + "(")
		if e.Group.Type != nil {
			sb.WriteString(e.Group.Type.String() + "; ")
		}
		writeList(sb, e.Group.Elements)
		sb.WriteByte(')')
	case ExprArrayFiller:
		sb.WriteString("ArrayFiller(")
		if e.Filler.Var != "" {
			sb.WriteString(e.Filler.Var + " in ")
		}
		writeExpr(sb, &e.Filler.Count)
		sb.WriteString(" => ")
		writeExpr(sb, &e.Filler.Value)
		sb.WriteByte(')')
	case ExprNamedTuple:
		sb.WriteString("NamedTuple(")
		if e.NamedTuple.Type != nil {
			sb.WriteString(e.NamedTuple.Type.String() + "; ")
		}
		writeArgs(sb, e.NamedTuple.Fields)
		if e.NamedTuple.Defaults {
			if len(e.NamedTuple.Fields) > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("..")
		}
		sb.WriteByte(')')
	case ExprDefault:
		sb.WriteString("Default")
	case ExprWildcard:
		sb.WriteString("_")
	}
}

func writeBlock(sb *strings.Builder, b *Block) {
	sb.WriteByte('{')
	for i := range b.Statements {
		if i > 0 {
			sb.WriteString("; ")
		}
		writeStmt(sb, &b.Statements[i])
	}
	sb.WriteByte('}')
}

func writeIf(sb *strings.Builder, n *If) {
	sb.WriteString("If(")
	writeExpr(sb, &n.Condition)
	sb.WriteString(") ")
	writeBlock(sb, &n.Body)
	for i := range n.Else {
		br := &n.Else[i]
		if br.Kind == ElseIf {
			sb.WriteString(" ElseIf(")
			writeExpr(sb, br.Condition)
			sb.WriteString(") ")
		} else {
			sb.WriteString(" Else ")
		}
		writeBlock(sb, &br.Body)
	}
}

func writeFor(sb *strings.Builder, n *For) {
	sb.WriteString("For(")
	if n.Var != "" {
		sb.WriteString(n.Var + " in ")
	}
	writeExpr(sb, &n.Collection)
	sb.WriteString(") ")
	writeBlock(sb, &n.Body)
}

func writeWhile(sb *strings.Builder, n *While) {
	sb.WriteString("While(")
	if n.Condition != nil {
		writeExpr(sb, n.Condition)
	}
	sb.WriteString(") ")
	writeBlock(sb, &n.Body)
}

func writeStmt(sb *strings.Builder, s *Statement) {
	switch s.Kind {
	case StmtVarDecl:
		sb.WriteString("VarDecl(" + s.Var.Name)
		if s.Var.Type != nil {
			sb.WriteString(": " + s.Var.Type.String())
		}
		if s.Var.Init != nil {
			sb.WriteString(" = ")
			writeExpr(sb, s.Var.Init)
		}
		sb.WriteByte(')')
	case StmtAssignment:
		sb.WriteString("Assign(")
		writeExpr(sb, &s.Assign.Target)
		sb.WriteString(" " + s.Assign.Op.String() + " ")
		writeExpr(sb, &s.Assign.Value)
		sb.WriteByte(')')
	case StmtExpression:
		writeExpr(sb, s.Expr)
	case StmtUse:
		sb.WriteString("Use(" + strings.Join(s.Use.Path, "."))
		if s.Use.Alias != "" {
			sb.WriteString(" as " + s.Use.Alias)
		}
		sb.WriteByte(')')
	case StmtIf:
		writeIf(sb, s.If)
	case StmtWhile:
		writeWhile(sb, s.While)
	case StmtFor:
		writeFor(sb, s.For)
	case StmtReturn:
		sb.WriteString("Return(")
		if s.Return.Value != nil {
			writeExpr(sb, s.Return.Value)
		}
		sb.WriteByte(')')
	case StmtBlock:
		writeBlock(sb, s.Block)
	default:
		sb.WriteString(s.Kind.String())
	}
}
