package ast

import (
	"soul/internal/source"
	"soul/internal/symbols"
	"soul/internal/types"
)

// ExprKind tags the variant carried by an Expression.
type ExprKind uint8

const (
	ExprEmpty ExprKind = iota
	ExprLiteral
	ExprVariable
	ExprTypeName
	ExprExternalPath
	ExprUnary
	ExprBinary
	ExprIndex
	ExprFieldAccess
	ExprCall
	ExprConstructor
	ExprLambda
	ExprBlock
	ExprIf
	ExprFor
	ExprWhile
	ExprMatch
	ExprTuple
	ExprArray
	ExprArrayFiller
	ExprNamedTuple
	ExprDefault
	ExprWildcard
)

var exprKindNames = [...]string{
	ExprEmpty:        "Empty",
	ExprLiteral:      "Literal",
	ExprVariable:     "Variable",
	ExprTypeName:     "TypeName",
	ExprExternalPath: "ExternalPath",
	ExprUnary:        "Unary",
	ExprBinary:       "Binary",
	ExprIndex:        "Index",
	ExprFieldAccess:  "FieldAccess",
	ExprCall:         "Call",
	ExprConstructor:  "Constructor",
	ExprLambda:       "Lambda",
	ExprBlock:        "Block",
	ExprIf:           "If",
	ExprFor:          "For",
	ExprWhile:        "While",
	ExprMatch:        "Match",
	ExprTuple:        "Tuple",
	ExprArray:        "Array",
	ExprArrayFiller:  "ArrayFiller",
	ExprNamedTuple:   "NamedTuple",
	ExprDefault:      "Default",
	ExprWildcard:     "Wildcard",
}

func (k ExprKind) String() string {
	if int(k) < len(exprKindNames) {
		return exprKindNames[k]
	}
	return "ExprKind(?)"
}

// Expression is a tagged union: Kind says which payload pointer is set.
// Every node owns its span.
type Expression struct {
	Kind ExprKind
	Span source.Span

	Literal     *Literal        `msgpack:",omitempty"`
	Variable    *Variable       `msgpack:",omitempty"`
	TypeName    *types.SoulType `msgpack:",omitempty"`
	External    *ExternalPath   `msgpack:",omitempty"`
	Unary       *Unary          `msgpack:",omitempty"`
	Binary      *Binary         `msgpack:",omitempty"`
	Index       *Index          `msgpack:",omitempty"`
	Field       *FieldAccess    `msgpack:",omitempty"`
	Call        *Call           `msgpack:",omitempty"`
	Constructor *Constructor    `msgpack:",omitempty"`
	Lambda      *Lambda         `msgpack:",omitempty"`
	Block       *Block          `msgpack:",omitempty"`
	If          *If             `msgpack:",omitempty"`
	For         *For            `msgpack:",omitempty"`
	While       *While          `msgpack:",omitempty"`
	Match       *Match          `msgpack:",omitempty"`
	Group       *Group          `msgpack:",omitempty"` // Tuple, Array
	Filler      *ArrayFiller    `msgpack:",omitempty"`
	NamedTuple  *NamedTuple     `msgpack:",omitempty"`
}

// LiteralKind enumerates literal forms.
type LiteralKind uint8

const (
	LitInt LiteralKind = iota
	LitFloat
	LitChar
	LitStr
	LitBool
)

// Literal is a scalar constant. Raw keeps the source lexeme.
type Literal struct {
	Kind  LiteralKind
	Raw   string
	Int   int64
	Float float64
	Str   string
	Char  rune
	Bool  bool
}

// Variable references a value binding; Scope is where lookup found it.
type Variable struct {
	Name  string
	Scope symbols.ScopeID
}

// ExternalPath is `alias.name` where alias comes from a `use`.
type ExternalPath struct {
	Alias string
	Name  string
	Path  string
}

type Unary struct {
	Op      UnaryOp
	Operand Expression
}

type Binary struct {
	Op    BinaryOp
	Left  Expression
	Right Expression
}

type Index struct {
	Collection Expression
	Index      Expression
}

type FieldAccess struct {
	Object Expression
	Field  string
}

// Argument is a call argument or constructor field; Name is empty for positional ones.
type Argument struct {
	Name  string
	Value Expression
	Span  source.Span
}

// Call is a function call or, with Receiver set, a method call.
type Call struct {
	Receiver *Expression `msgpack:",omitempty"`
	Name     string
	Generics []types.TypeGenericArg
	Args     []Argument
	// Scope holds the overload list the name resolved to; selection happens later.
	Scope symbols.ScopeID
}

// Constructor builds a struct or class value. Defaults is set by a trailing `..`.
type Constructor struct {
	Type     types.SoulType
	Fields   []Argument
	Defaults bool
}

// Lambda is `fn(params) [T] {...}` or `fn(params) => expr`.
type Lambda struct {
	Parameters []Parameter
	ReturnType *types.SoulType `msgpack:",omitempty"`
	Body       Block
	Arrow      bool
}

// Group is a tuple or array literal; Type is set for typed groups like `T[1, 2]`.
type Group struct {
	Type     *types.SoulType `msgpack:",omitempty"`
	Elements []Expression
	Memory   MemoryID
}

// ArrayFiller is `[for i in count => value]`; Var may be empty.
type ArrayFiller struct {
	Var   string
	Count Expression
	Value Expression
	Scope symbols.ScopeID
}

// NamedTuple is `(a: 1, b: 2)` or `{a: 1}`; Defaults is set by a trailing `..`.
type NamedTuple struct {
	Type     *types.SoulType `msgpack:",omitempty"`
	Fields   []Argument
	Defaults bool
	Memory   MemoryID
}

// IsLiteralValue reports whether e is a literal or a compound whose
// elements are all literal values, recursively.
func (e *Expression) IsLiteralValue() bool {
	switch e.Kind {
	case ExprLiteral:
		return true
	case ExprTuple, ExprArray:
		for i := range e.Group.Elements {
			if !e.Group.Elements[i].IsLiteralValue() {
				return false
			}
		}
		return true
	case ExprNamedTuple:
		if e.NamedTuple.Defaults {
			return false
		}
		for i := range e.NamedTuple.Fields {
			if !e.NamedTuple.Fields[i].Value.IsLiteralValue() {
				return false
			}
		}
		return true
	case ExprUnary:
		return e.Unary.Op == UnNeg && e.Unary.Operand.Kind == ExprLiteral
	default:
		return false
	}
}
