package symbols

// ScopeID identifies a node in a scope tree. The global scope is always RootScope.
type ScopeID uint32

const (
	// RootScope is the global scope of a file; it is never removed.
	RootScope ScopeID = 0
	// NoScope marks the absence of a scope reference (parent of the root).
	NoScope ScopeID = ^ScopeID(0)
)

// IsValid reports whether the scope ID refers to a scope.
func (id ScopeID) IsValid() bool { return id != NoScope }

// DeclID is an arena index of a declaration body. Its meaning depends on the
// entry kind (function, struct, ...); the ast package owns the arenas.
type DeclID uint32

// NoDecl marks an entry without a declaration body.
const NoDecl DeclID = 0

// IsValid reports whether the decl ID refers to an arena slot.
func (id DeclID) IsValid() bool { return id != NoDecl }
