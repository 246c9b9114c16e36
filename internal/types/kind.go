package types

import "fmt"

// Kind is the closed set of base type categories.
type Kind uint8

const (
	KindUnresolved Kind = iota
	KindPrimitive
	KindTuple
	KindNamedTuple
	KindStruct
	KindClass
	KindTrait
	KindEnum
	KindUnion
	KindTypeDef
	KindGeneric
	KindExternal
)

func (k Kind) String() string {
	switch k {
	case KindUnresolved:
		return "unresolved"
	case KindPrimitive:
		return "primitive"
	case KindTuple:
		return "tuple"
	case KindNamedTuple:
		return "named tuple"
	case KindStruct:
		return "struct"
	case KindClass:
		return "class"
	case KindTrait:
		return "trait"
	case KindEnum:
		return "enum"
	case KindUnion:
		return "union"
	case KindTypeDef:
		return "typedef"
	case KindGeneric:
		return "generic"
	case KindExternal:
		return "external"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// IsNominal reports whether the kind names a user declaration.
func (k Kind) IsNominal() bool {
	switch k {
	case KindStruct, KindClass, KindTrait, KindEnum, KindUnion, KindTypeDef:
		return true
	}
	return false
}

var primitives = map[string]struct{}{
	"none": {}, "bool": {}, "char": {}, "str": {},
	"int": {}, "i8": {}, "i16": {}, "i32": {}, "i64": {},
	"uint": {}, "u8": {}, "u16": {}, "u32": {}, "u64": {},
	"f32": {}, "f64": {},
}

// IsPrimitive reports whether name is a built-in type name.
func IsPrimitive(name string) bool {
	_, ok := primitives[name]
	return ok
}

// NamedType is one field of a named tuple.
type NamedType struct {
	Name string
	Type SoulType
}

// TypeKind is the base of a SoulType.
type TypeKind struct {
	Kind     Kind
	Name     string
	Elements []SoulType  // KindTuple
	Fields   []NamedType // KindNamedTuple
	Path     string      // KindExternal: alias of the `use` the name came through
}

// Named builds a nominal or generic TypeKind.
func Named(kind Kind, name string) TypeKind {
	return TypeKind{Kind: kind, Name: name}
}

func (k TypeKind) String() string {
	switch k.Kind {
	case KindTuple:
		s := "("
		for i, e := range k.Elements {
			if i > 0 {
				s += ", "
			}
			s += e.String()
		}
		return s + ")"
	case KindNamedTuple:
		s := "("
		for i, f := range k.Fields {
			if i > 0 {
				s += ", "
			}
			s += f.Name + ": " + f.Type.String()
		}
		return s + ")"
	case KindExternal:
		if k.Path != "" {
			return k.Path + "." + k.Name
		}
		return k.Name
	default:
		return k.Name
	}
}
