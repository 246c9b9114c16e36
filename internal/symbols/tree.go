package symbols

import (
	"errors"
	"fmt"

	"fortio.org/safecast"
)

// Visibility controls how lookup escapes a scope.
type Visibility uint8

const (
	// VisAll lets lookup continue in the parent scope.
	VisAll Visibility = iota
	// VisGlobalOnly makes lookup jump straight to the root scope.
	VisGlobalOnly
)

func (v Visibility) String() string {
	if v == VisGlobalOnly {
		return "global-only"
	}
	return "all"
}

var (
	// ErrPopRoot is returned when Pop is called on the global scope.
	ErrPopRoot = errors.New("cannot leave the global scope")
	// ErrTruncateRoot is returned when Truncate would drop the global scope.
	ErrTruncateRoot = errors.New("cannot truncate the global scope")
	// ErrRemoveNotLast is returned when RemoveCurrent targets anything but a fresh leaf.
	ErrRemoveNotLast = errors.New("only the most recently pushed scope without children can be removed")
)

// Node is one lexical scope.
type Node[T any] struct {
	Parent     ScopeID
	Children   []ScopeID
	Symbols    map[string][]T
	Visibility Visibility
}

// Tree is a nested scope tree with a cursor. Insertion always appends to the
// bucket of a name, so a name can carry several entries (overloads).
type Tree[T any] struct {
	Nodes  []Node[T]
	Cursor ScopeID
}

// NewTree creates a tree holding only the root scope.
func NewTree[T any]() *Tree[T] {
	return &Tree[T]{
		Nodes:  []Node[T]{{Parent: NoScope, Symbols: make(map[string][]T)}},
		Cursor: RootScope,
	}
}

// Len reports the number of live scopes.
func (t *Tree[T]) Len() int { return len(t.Nodes) }

// Current returns the scope under the cursor.
func (t *Tree[T]) Current() ScopeID { return t.Cursor }

// Node returns the scope with the given ID or nil.
func (t *Tree[T]) Node(id ScopeID) *Node[T] {
	if !id.IsValid() || int(id) >= len(t.Nodes) {
		return nil
	}
	return &t.Nodes[id]
}

// Push creates a child of the current scope and descends into it.
func (t *Tree[T]) Push(vis Visibility) ScopeID {
	n, err := safecast.Conv[uint32](len(t.Nodes))
	if err != nil {
		panic(fmt.Errorf("scope tree overflow: %w", err))
	}
	id := ScopeID(n)
	t.Nodes = append(t.Nodes, Node[T]{
		Parent:     t.Cursor,
		Symbols:    make(map[string][]T),
		Visibility: vis,
	})
	parent := &t.Nodes[t.Cursor]
	parent.Children = append(parent.Children, id)
	t.Cursor = id
	return id
}

// Pop moves the cursor to the parent scope.
func (t *Tree[T]) Pop() error {
	if t.Cursor == RootScope {
		return ErrPopRoot
	}
	t.Cursor = t.Nodes[t.Cursor].Parent
	return nil
}

// RemoveCurrent undoes the last Push: the node is deleted and unlinked from
// its parent. Only the most recently created scope may be removed, and only
// while it has no children.
func (t *Tree[T]) RemoveCurrent() error {
	last := ScopeID(len(t.Nodes) - 1)
	if t.Cursor == RootScope || t.Cursor != last || len(t.Nodes[last].Children) > 0 {
		return ErrRemoveNotLast
	}
	parentID := t.Nodes[last].Parent
	parent := &t.Nodes[parentID]
	for i, child := range parent.Children {
		if child == last {
			parent.Children = append(parent.Children[:i], parent.Children[i+1:]...)
			break
		}
	}
	t.Nodes = t.Nodes[:last]
	t.Cursor = parentID
	return nil
}

// Truncate drops scope id together with every scope created after it and puts
// the cursor back on id's parent. Speculative parses use it to roll back
// whatever nested scopes they pushed before giving up.
func (t *Tree[T]) Truncate(id ScopeID) error {
	if !id.IsValid() || id == RootScope || int(id) >= len(t.Nodes) {
		return ErrTruncateRoot
	}
	parentID := t.Nodes[id].Parent
	for i := len(t.Nodes) - 1; i >= int(id); i-- {
		p := t.Nodes[i].Parent
		if p >= id {
			continue
		}
		parent := &t.Nodes[p]
		for j, child := range parent.Children {
			if int(child) == i {
				parent.Children = append(parent.Children[:j], parent.Children[j+1:]...)
				break
			}
		}
	}
	t.Nodes = t.Nodes[:id]
	t.Cursor = parentID
	return nil
}

// GoTo re-enters an existing scope; later passes use it to walk the finished tree.
func (t *Tree[T]) GoTo(id ScopeID) bool {
	if t.Node(id) == nil {
		return false
	}
	t.Cursor = id
	return true
}

// Insert appends v to the bucket of name in the current scope.
func (t *Tree[T]) Insert(name string, v T) {
	node := &t.Nodes[t.Cursor]
	node.Symbols[name] = append(node.Symbols[name], v)
}

// FlatLookup searches the current scope only.
func (t *Tree[T]) FlatLookup(name string) ([]T, bool) {
	entries, ok := t.Nodes[t.Cursor].Symbols[name]
	return entries, ok && len(entries) > 0
}

// Lookup searches from the current scope outwards.
func (t *Tree[T]) Lookup(name string) ([]T, ScopeID, bool) {
	return t.LookupFrom(t.Cursor, name)
}

// LookupFrom searches starting at scope id. A scope with VisAll continues in
// its parent; a scope with VisGlobalOnly jumps to the root, which is searched last.
func (t *Tree[T]) LookupFrom(id ScopeID, name string) ([]T, ScopeID, bool) {
	for cur := id; cur.IsValid(); {
		node := &t.Nodes[cur]
		if entries := node.Symbols[name]; len(entries) > 0 {
			return entries, cur, true
		}
		if cur == RootScope {
			break
		}
		if node.Visibility == VisGlobalOnly {
			cur = RootScope
		} else {
			cur = node.Parent
		}
	}
	return nil, NoScope, false
}

// LookupLexical searches from the cursor through every enclosing scope and
// ignores visibility. Types use it: VisGlobalOnly hides enclosing values,
// not enclosing type declarations.
func (t *Tree[T]) LookupLexical(name string) ([]T, ScopeID, bool) {
	for cur := t.Cursor; cur.IsValid(); cur = t.Nodes[cur].Parent {
		if entries := t.Nodes[cur].Symbols[name]; len(entries) > 0 {
			return entries, cur, true
		}
	}
	return nil, NoScope, false
}

// Replace overwrites entry i of name's bucket in scope id.
func (t *Tree[T]) Replace(id ScopeID, name string, i int, v T) bool {
	node := t.Node(id)
	if node == nil || i < 0 || i >= len(node.Symbols[name]) {
		return false
	}
	node.Symbols[name][i] = v
	return true
}

// Validate checks parent/child links; used by tests and the cache loader.
func (t *Tree[T]) Validate() error {
	if len(t.Nodes) == 0 || t.Nodes[RootScope].Parent != NoScope {
		return errors.New("scope tree has no root")
	}
	for i := range t.Nodes {
		id := ScopeID(i)
		for _, child := range t.Nodes[i].Children {
			c := t.Node(child)
			if c == nil {
				return fmt.Errorf("scope %d: dangling child %d", id, child)
			}
			if c.Parent != id {
				return fmt.Errorf("scope %d: child %d points at parent %d", id, child, c.Parent)
			}
		}
		if id != RootScope && t.Node(t.Nodes[i].Parent) == nil {
			return fmt.Errorf("scope %d: dangling parent %d", id, t.Nodes[i].Parent)
		}
	}
	return nil
}
