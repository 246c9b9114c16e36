package symbols

import (
	"fmt"

	"soul/internal/types"
)

// Scopes keeps the value tree and the type tree in lockstep so that both
// share ScopeIDs: pushing, popping or removing always affects both.
type Scopes struct {
	Values *Tree[SymbolEntry]
	Types  *Tree[TypeEntry]
}

// NewScopes creates both trees with their roots.
func NewScopes() *Scopes {
	return &Scopes{
		Values: NewTree[SymbolEntry](),
		Types:  NewTree[TypeEntry](),
	}
}

// Current returns the shared cursor.
func (s *Scopes) Current() ScopeID { return s.Values.Current() }

// Push enters a new scope in both trees.
func (s *Scopes) Push(vis Visibility) ScopeID {
	id := s.Values.Push(vis)
	if tid := s.Types.Push(vis); tid != id {
		panic(fmt.Sprintf("scope trees out of sync: value %d, type %d", id, tid))
	}
	return id
}

// Pop leaves the current scope in both trees.
func (s *Scopes) Pop() error {
	if err := s.Values.Pop(); err != nil {
		return err
	}
	return s.Types.Pop()
}

// RemoveCurrent removes the last pushed scope from both trees.
func (s *Scopes) RemoveCurrent() error {
	if err := s.Values.RemoveCurrent(); err != nil {
		return err
	}
	return s.Types.RemoveCurrent()
}

// Truncate rolls both trees back to the state before id was pushed.
func (s *Scopes) Truncate(id ScopeID) error {
	if err := s.Values.Truncate(id); err != nil {
		return err
	}
	return s.Types.Truncate(id)
}

// GoTo moves both cursors.
func (s *Scopes) GoTo(id ScopeID) bool {
	return s.Values.GoTo(id) && s.Types.GoTo(id)
}

// Declare inserts a value entry into the current scope. It fails, returning
// the earlier entry, when the name is already bound in this exact scope,
// unless both entries are functions (overloads share a name).
func (s *Scopes) Declare(e SymbolEntry) (SymbolEntry, bool) {
	if prior, ok := s.Values.FlatLookup(e.Name); ok {
		for _, p := range prior {
			if !(e.Kind.Overloadable() && p.Kind.Overloadable()) {
				return p, false
			}
		}
	}
	s.Values.Insert(e.Name, e)
	return SymbolEntry{}, true
}

// FillPlaceholder replaces the hoisted placeholder of a function whose
// declaration starts at declIndex. It declares e when no placeholder exists.
func (s *Scopes) FillPlaceholder(e SymbolEntry, declIndex int) (SymbolEntry, bool) {
	if entries, ok := s.Values.FlatLookup(e.Name); ok {
		for i, p := range entries {
			if p.Placeholder && p.DeclIndex == declIndex {
				e.DeclIndex = declIndex
				s.Values.Replace(s.Current(), e.Name, i, e)
				return SymbolEntry{}, true
			}
		}
	}
	return s.Declare(e)
}

// DeclareType binds a type name in the current scope. A second definition of
// the same name in one scope fails and returns the earlier entry.
func (s *Scopes) DeclareType(name string, e TypeEntry) (TypeEntry, bool) {
	if prior, ok := s.Types.FlatLookup(name); ok {
		return prior[0], false
	}
	s.Types.Insert(name, e)
	return TypeEntry{}, true
}

// LookupValue resolves a value name from the current scope outwards.
func (s *Scopes) LookupValue(name string) ([]SymbolEntry, bool) {
	entries, _, ok := s.Values.Lookup(name)
	return entries, ok
}

// LookupType resolves a type name from the current scope outwards through
// every enclosing scope. Primitive names always resolve.
func (s *Scopes) LookupType(name string) (TypeEntry, bool) {
	if types.IsPrimitive(name) {
		return TypeEntry{Type: types.TypeKind{Kind: types.KindPrimitive, Name: name}}, true
	}
	entries, _, ok := s.Types.LookupLexical(name)
	if !ok {
		return TypeEntry{}, false
	}
	return entries[0], true
}
