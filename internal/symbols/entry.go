package symbols

import (
	"soul/internal/source"
	"soul/internal/types"
)

// EntryKind enumerates value-scope entries.
type EntryKind uint8

const (
	EntryVariable EntryKind = iota
	EntryFunction
	EntryParameter
	EntryThis
	EntryUse
	EntryField
	EntryMethod
	EntryVariant
)

func (k EntryKind) String() string {
	switch k {
	case EntryVariable:
		return "variable"
	case EntryFunction:
		return "function"
	case EntryParameter:
		return "parameter"
	case EntryThis:
		return "this"
	case EntryUse:
		return "use"
	case EntryField:
		return "field"
	case EntryMethod:
		return "method"
	case EntryVariant:
		return "variant"
	default:
		return "unknown"
	}
}

// Overloadable reports whether entries of this kind may share a name in one scope.
func (k EntryKind) Overloadable() bool {
	return k == EntryFunction || k == EntryMethod
}

// SymbolEntry is a value-scope binding.
type SymbolEntry struct {
	Kind EntryKind
	Name string
	Span source.Span
	Type *types.SoulType
	Decl DeclID
	// Placeholder marks a function hoisted by the forward pass whose body is not parsed yet.
	Placeholder bool
	// DeclIndex is the token index where the declaration starts; it pairs a
	// placeholder with the declaration that later fills it.
	DeclIndex int
	// Path is the imported path of a `use` entry.
	Path string
}

// TypeEntry is a type-scope binding. One entry per name and scope.
type TypeEntry struct {
	Type types.TypeKind
	Span source.Span
	Decl DeclID
}
