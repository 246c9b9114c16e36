package ast

import (
	"soul/internal/source"
	"soul/internal/symbols"
	"soul/internal/types"
)

// Parameter is a function or lambda parameter.
type Parameter struct {
	Name    string
	Type    types.SoulType
	Default *Expression `msgpack:",omitempty"`
	Span    source.Span
}

// ThisKind is how an extension or method receives `this`.
type ThisKind uint8

const (
	ThisNone ThisKind = iota
	ThisValue
	ThisConstRef
	ThisMutRef
)

func (k ThisKind) String() string {
	switch k {
	case ThisValue:
		return "this"
	case ThisConstRef:
		return "this@"
	case ThisMutRef:
		return "this&"
	default:
		return ""
	}
}

// Callee is set on extension methods and methods: the extended type and
// how `this` is received.
type Callee struct {
	Type types.SoulType
	This ThisKind
}

// FunctionSignature describes a callable. A function is an extension method when Callee is set.
type FunctionSignature struct {
	Name       string
	Callee     *Callee `msgpack:",omitempty"`
	Generics   []types.GenericParam
	Parameters []Parameter
	ReturnType *types.SoulType `msgpack:",omitempty"`
	Modifier   types.Modifier
	Span       source.Span
}

// Function is a function declaration. Scope is the generics/parameters frame;
// the body has its own frame below it.
type Function struct {
	Signature FunctionSignature
	Body      Block
	Scope     symbols.ScopeID
	// Abstract is set for trait method signatures without a body.
	Abstract bool
}

// Field is a struct or class field.
type Field struct {
	Name    string
	Type    types.SoulType
	Default *Expression `msgpack:",omitempty"`
	Span    source.Span
}

type Struct struct {
	Name     string
	Generics []types.GenericParam
	Fields   []Field
	Scope    symbols.ScopeID
	Span     source.Span
}

type Class struct {
	Name       string
	Generics   []types.GenericParam
	Implements []types.SoulType
	Fields     []Field
	Methods    []FunctionID
	Scope      symbols.ScopeID
	Span       source.Span
}

type Trait struct {
	Name       string
	Generics   []types.GenericParam
	Implements []types.SoulType
	Methods    []FunctionID
	Scope      symbols.ScopeID
	Span       source.Span
}

// EnumVariant is one enum member. Plain enums fill Value; enums with
// `impl T` carry an arbitrary Expr instead.
type EnumVariant struct {
	Name  string
	Value int64
	Expr  *Expression `msgpack:",omitempty"`
	Span  source.Span
}

type Enum struct {
	Name     string
	Impl     *types.SoulType `msgpack:",omitempty"`
	Variants []EnumVariant
	Scope    symbols.ScopeID
	Span     source.Span
}

// VariantShape is the payload shape of a union variant.
type VariantShape uint8

const (
	VariantUnit VariantShape = iota
	VariantTuple
	VariantNamed
)

type UnionVariant struct {
	Name     string
	Shape    VariantShape
	Elements []types.SoulType
	Fields   []types.NamedType
	Span     source.Span
}

type Union struct {
	Name     string
	Generics []types.GenericParam
	Variants []UnionVariant
	Scope    symbols.ScopeID
	Span     source.Span
}

type TypeDef struct {
	Name string
	Type types.SoulType
	Span source.Span
}

// Decls owns every declaration body of a file. Statements and scope entries
// refer to them by ID; later passes mutate them through the arenas.
type Decls struct {
	Functions *Arena[Function]
	Structs   *Arena[Struct]
	Classes   *Arena[Class]
	Traits    *Arena[Trait]
	Enums     *Arena[Enum]
	Unions    *Arena[Union]
	TypeDefs  *Arena[TypeDef]
}

// NewDecls creates empty arenas.
func NewDecls() *Decls {
	return &Decls{
		Functions: NewArena[Function](16),
		Structs:   NewArena[Struct](4),
		Classes:   NewArena[Class](4),
		Traits:    NewArena[Trait](4),
		Enums:     NewArena[Enum](4),
		Unions:    NewArena[Union](4),
		TypeDefs:  NewArena[TypeDef](4),
	}
}

func (d *Decls) Function(id FunctionID) *Function { return d.Functions.Get(uint32(id)) }
func (d *Decls) Struct(id StructID) *Struct       { return d.Structs.Get(uint32(id)) }
func (d *Decls) Class(id ClassID) *Class          { return d.Classes.Get(uint32(id)) }
func (d *Decls) Trait(id TraitID) *Trait          { return d.Traits.Get(uint32(id)) }
func (d *Decls) Enum(id EnumID) *Enum             { return d.Enums.Get(uint32(id)) }
func (d *Decls) Union(id UnionID) *Union          { return d.Unions.Get(uint32(id)) }
func (d *Decls) TypeDef(id TypeDefID) *TypeDef    { return d.TypeDefs.Get(uint32(id)) }

func (d *Decls) NewFunction(f Function) FunctionID { return FunctionID(d.Functions.Allocate(f)) }
func (d *Decls) NewStruct(s Struct) StructID       { return StructID(d.Structs.Allocate(s)) }
func (d *Decls) NewClass(c Class) ClassID          { return ClassID(d.Classes.Allocate(c)) }
func (d *Decls) NewTrait(t Trait) TraitID          { return TraitID(d.Traits.Allocate(t)) }
func (d *Decls) NewEnum(e Enum) EnumID             { return EnumID(d.Enums.Allocate(e)) }
func (d *Decls) NewUnion(u Union) UnionID          { return UnionID(d.Unions.Allocate(u)) }
func (d *Decls) NewTypeDef(t TypeDef) TypeDefID    { return TypeDefID(d.TypeDefs.Allocate(t)) }

// AbstractSyntaxTree is the parse result of one file.
type AbstractSyntaxTree struct {
	Root  Block
	Decls *Decls
}
