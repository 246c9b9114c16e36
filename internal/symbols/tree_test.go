package symbols

import (
	"errors"
	"testing"
)

func TestTreeShadowingAndFlatLookup(t *testing.T) {
	tree := NewTree[string]()
	tree.Insert("x", "outer")

	inner := tree.Push(VisAll)
	tree.Insert("x", "inner")

	got, scope, ok := tree.Lookup("x")
	if !ok || got[0] != "inner" || scope != inner {
		t.Fatalf("Lookup(x) = %v, %d, %v; want inner from %d", got, scope, ok, inner)
	}

	tree.Insert("y", "local")
	if err := tree.Pop(); err != nil {
		t.Fatal(err)
	}
	tree.Insert("z", "outer only")
	tree.GoTo(inner)
	if _, ok := tree.FlatLookup("z"); ok {
		t.Fatalf("FlatLookup found a name declared only in the outer scope")
	}
	if got, _, ok := tree.Lookup("z"); !ok || got[0] != "outer only" {
		t.Fatalf("Lookup(z) = %v, %v", got, ok)
	}
}

func TestTreeGlobalOnlySkipsLocals(t *testing.T) {
	tree := NewTree[string]()
	tree.Insert("g", "global")
	tree.Push(VisAll) // function body
	tree.Insert("local", "local")
	tree.Push(VisGlobalOnly) // lambda
	tree.Push(VisAll)        // block inside the lambda

	if _, _, ok := tree.Lookup("local"); ok {
		t.Fatalf("GlobalOnly scope leaked an enclosing local")
	}
	if got, scope, ok := tree.Lookup("g"); !ok || got[0] != "global" || scope != RootScope {
		t.Fatalf("Lookup(g) = %v, %d, %v", got, scope, ok)
	}
}

func TestTreeLexicalLookupIgnoresVisibility(t *testing.T) {
	tree := NewTree[string]()
	tree.Push(VisAll) // function body
	tree.Insert("Local", "local type")
	body := tree.Current()
	tree.Push(VisGlobalOnly) // struct body

	if _, _, ok := tree.Lookup("Local"); ok {
		t.Fatalf("Lookup must jump to root from a GlobalOnly scope")
	}
	got, scope, ok := tree.LookupLexical("Local")
	if !ok || got[0] != "local type" || scope != body {
		t.Fatalf("LookupLexical(Local) = %v, %d, %v", got, scope, ok)
	}
}

func TestTreeOverloadsAppend(t *testing.T) {
	tree := NewTree[int]()
	tree.Insert("f", 1)
	tree.Insert("f", 2)
	got, ok := tree.FlatLookup("f")
	if !ok || len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("bucket = %v", got)
	}
}

func TestTreePopRootFails(t *testing.T) {
	tree := NewTree[int]()
	if err := tree.Pop(); !errors.Is(err, ErrPopRoot) {
		t.Fatalf("Pop at root = %v", err)
	}
	tree.Push(VisAll)
	if err := tree.Pop(); err != nil {
		t.Fatalf("Pop = %v", err)
	}
	if tree.Current() != RootScope {
		t.Fatalf("cursor = %d", tree.Current())
	}
}

func TestTreeRemoveCurrent(t *testing.T) {
	tree := NewTree[int]()
	kept := tree.Push(VisAll)
	if err := tree.Pop(); err != nil {
		t.Fatal(err)
	}
	tree.Push(VisAll)
	tree.Insert("i", 1)
	if err := tree.RemoveCurrent(); err != nil {
		t.Fatalf("RemoveCurrent = %v", err)
	}
	if tree.Len() != 2 || tree.Current() != RootScope {
		t.Fatalf("Len = %d, current = %d", tree.Len(), tree.Current())
	}
	if children := tree.Node(RootScope).Children; len(children) != 1 || children[0] != kept {
		t.Fatalf("root children = %v", children)
	}
	if err := tree.Validate(); err != nil {
		t.Fatal(err)
	}

	// a scope that is not the newest cannot be removed
	tree.GoTo(kept)
	tree.Push(VisAll)
	tree.Pop()
	if err := tree.RemoveCurrent(); !errors.Is(err, ErrRemoveNotLast) {
		t.Fatalf("RemoveCurrent on a parent = %v", err)
	}
}

func TestTreeTruncateDropsNestedScopes(t *testing.T) {
	tree := NewTree[int]()
	kept := tree.Push(VisAll)
	tree.Pop()
	spec := tree.Push(VisAll)
	tree.Push(VisGlobalOnly) // lambda
	tree.Push(VisAll)        // its body
	tree.Pop()
	tree.Pop()
	tree.Push(VisAll) // if branch

	if err := tree.Truncate(spec); err != nil {
		t.Fatalf("Truncate = %v", err)
	}
	if tree.Len() != 2 || tree.Current() != RootScope {
		t.Fatalf("Len = %d, current = %d", tree.Len(), tree.Current())
	}
	if children := tree.Node(RootScope).Children; len(children) != 1 || children[0] != kept {
		t.Fatalf("root children = %v", children)
	}
	if err := tree.Validate(); err != nil {
		t.Fatal(err)
	}
	if err := tree.Truncate(RootScope); !errors.Is(err, ErrTruncateRoot) {
		t.Fatalf("Truncate(root) = %v", err)
	}
}
