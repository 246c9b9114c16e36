package ast

import (
	"soul/internal/source"
	"soul/internal/symbols"
	"soul/internal/types"
)

// StmtKind tags the variant carried by a Statement.
type StmtKind uint8

const (
	StmtVarDecl StmtKind = iota
	StmtAssignment
	StmtExpression
	StmtFnDecl
	StmtStructDecl
	StmtClassDecl
	StmtTraitDecl
	StmtEnumDecl
	StmtUnionDecl
	StmtTypeDef
	StmtUse
	StmtIf
	StmtWhile
	StmtFor
	StmtReturn
	StmtBreak
	StmtContinue
	StmtBlock
	// StmtCloseBlock is a sentinel: a `}` was consumed. It never ends up in a tree.
	StmtCloseBlock
)

var stmtKindNames = [...]string{
	StmtVarDecl:    "VarDecl",
	StmtAssignment: "Assignment",
	StmtExpression: "Expression",
	StmtFnDecl:     "FnDecl",
	StmtStructDecl: "StructDecl",
	StmtClassDecl:  "ClassDecl",
	StmtTraitDecl:  "TraitDecl",
	StmtEnumDecl:   "EnumDecl",
	StmtUnionDecl:  "UnionDecl",
	StmtTypeDef:    "TypeDef",
	StmtUse:        "Use",
	StmtIf:         "If",
	StmtWhile:      "While",
	StmtFor:        "For",
	StmtReturn:     "Return",
	StmtBreak:      "Break",
	StmtContinue:   "Continue",
	StmtBlock:      "Block",
	StmtCloseBlock: "CloseBlock",
}

func (k StmtKind) String() string {
	if int(k) < len(stmtKindNames) {
		return stmtKindNames[k]
	}
	return "StmtKind(?)"
}

// Statement is a tagged union over statement forms. Declarations reference
// their bodies in Decls by ID.
type Statement struct {
	Kind StmtKind
	Span source.Span

	Var      *VarDecl    `msgpack:",omitempty"`
	Assign   *Assignment `msgpack:",omitempty"`
	Expr     *Expression `msgpack:",omitempty"`
	Use      *Use        `msgpack:",omitempty"`
	If       *If         `msgpack:",omitempty"`
	While    *While      `msgpack:",omitempty"`
	For      *For        `msgpack:",omitempty"`
	Return   *Return     `msgpack:",omitempty"`
	Block    *Block      `msgpack:",omitempty"`
	Function FunctionID  `msgpack:",omitempty"`
	Struct   StructID    `msgpack:",omitempty"`
	Class    ClassID     `msgpack:",omitempty"`
	Trait    TraitID     `msgpack:",omitempty"`
	Enum     EnumID      `msgpack:",omitempty"`
	Union    UnionID     `msgpack:",omitempty"`
	TypeDef  TypeDefID   `msgpack:",omitempty"`
}

// VarDecl declares a variable. Type is nil when it is inferred (`:=`).
type VarDecl struct {
	Name     string
	Type     *types.SoulType `msgpack:",omitempty"`
	Init     *Expression     `msgpack:",omitempty"`
	Modifier types.Modifier
	Global   bool
}

type Assignment struct {
	Target Expression
	Op     AssignOp
	Value  Expression
}

// Use imports a path, optionally under an alias. A leading `this`
// segment is replaced by the project name.
type Use struct {
	Path  []string
	Alias string
}

// Block is a braced statement list with its own scope.
type Block struct {
	Scope      symbols.ScopeID
	Statements []Statement
	Span       source.Span
}

// ElseKind distinguishes `else if` from a final `else`.
type ElseKind uint8

const (
	ElseIf ElseKind = iota
	Else
)

func (k ElseKind) String() string {
	if k == ElseIf {
		return "ElseIf"
	}
	return "Else"
}

type ElseBranch struct {
	Kind      ElseKind
	Condition *Expression `msgpack:",omitempty"`
	Body      Block
	Span      source.Span
}

type If struct {
	Condition Expression
	Body      Block
	Else      []ElseBranch
}

// While loops; a nil Condition loops forever.
type While struct {
	Condition *Expression `msgpack:",omitempty"`
	Body      Block
}

// For iterates Collection; Var is empty for `for n {}`. Scope holds the loop variable.
type For struct {
	Var        string
	Collection Expression
	Body       Block
	Scope      symbols.ScopeID
}

// MatchArm is `pattern => value`.
type MatchArm struct {
	Pattern Expression
	Value   Expression
	Span    source.Span
}

type Match struct {
	Subject Expression
	Arms    []MatchArm
	Scope   symbols.ScopeID
}

type Return struct {
	Value *Expression `msgpack:",omitempty"`
}
