package types

import "strings"

// GenericKind distinguishes type parameters from lifetime parameters.
type GenericKind uint8

const (
	GenericType GenericKind = iota
	GenericLifetime
)

// TypeConstraint is a trait bound on a generic parameter.
type TypeConstraint struct {
	Trait SoulType
}

// GenericParam is one entry of a `<...>` declaration list.
type GenericParam struct {
	Name        string
	Kind        GenericKind
	Constraints []TypeConstraint
	Default     *SoulType
}

func (g GenericParam) String() string {
	var sb strings.Builder
	sb.WriteString(g.Name)
	for i, c := range g.Constraints {
		if i == 0 {
			sb.WriteString(": ")
		} else {
			sb.WriteString(" + ")
		}
		sb.WriteString(c.Trait.String())
	}
	if g.Default != nil {
		sb.WriteString(" = ")
		sb.WriteString(g.Default.String())
	}
	return sb.String()
}
