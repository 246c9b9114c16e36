package types

import "strings"

// Modifier prefixes a type.
type Modifier uint8

const (
	ModDefault Modifier = iota
	ModLiteral
	ModConst
)

func (m Modifier) String() string {
	switch m {
	case ModLiteral:
		return "Literal"
	case ModConst:
		return "const"
	default:
		return ""
	}
}

// ModifierFromText maps a modifier keyword to a Modifier.
func ModifierFromText(text string) (Modifier, bool) {
	switch text {
	case "Literal":
		return ModLiteral, true
	case "const":
		return ModConst, true
	}
	return ModDefault, false
}

// WrapperKind enumerates type wrappers.
type WrapperKind uint8

const (
	WrapArray WrapperKind = iota
	WrapPointer
	WrapConstRef
	WrapMutRef
)

// TypeWrapper wraps the type built so far. Only references carry a lifetime.
type TypeWrapper struct {
	Kind     WrapperKind
	Lifetime string
}

func (w TypeWrapper) String() string {
	switch w.Kind {
	case WrapArray:
		return "[]"
	case WrapPointer:
		return "*"
	case WrapConstRef:
		return w.Lifetime + "@"
	default:
		return w.Lifetime + "&"
	}
}

// TypeGenericArg is either a type or a lifetime.
type TypeGenericArg struct {
	Type     *SoulType
	Lifetime string
}

func (a TypeGenericArg) String() string {
	if a.Type != nil {
		return a.Type.String()
	}
	return a.Lifetime
}

// SoulType is a type as written: modifier, base, generics, wrappers in parse order.
type SoulType struct {
	Modifier Modifier
	Base     TypeKind
	Wrappers []TypeWrapper
	Generics []TypeGenericArg
}

// Primitive returns the plain primitive type with the given name.
func Primitive(name string) SoulType {
	return SoulType{Base: TypeKind{Kind: KindPrimitive, Name: name}}
}

// None is the type of functions without a return type.
func None() SoulType { return Primitive("none") }

// Wrap returns a copy of t with an extra outer wrapper.
func (t SoulType) Wrap(w TypeWrapper) SoulType {
	out := t
	out.Wrappers = append(append([]TypeWrapper(nil), t.Wrappers...), w)
	return out
}

// IsNone reports whether t is the bare `none` type.
func (t SoulType) IsNone() bool {
	return t.Base.Kind == KindPrimitive && t.Base.Name == "none" && len(t.Wrappers) == 0
}

func (t SoulType) String() string {
	var sb strings.Builder
	if t.Modifier != ModDefault {
		sb.WriteString(t.Modifier.String())
		sb.WriteByte(' ')
	}
	sb.WriteString(t.Base.String())
	if len(t.Generics) > 0 {
		sb.WriteByte('<')
		for i, g := range t.Generics {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(g.String())
		}
		sb.WriteByte('>')
	}
	for _, w := range t.Wrappers {
		sb.WriteString(w.String())
	}
	return sb.String()
}
