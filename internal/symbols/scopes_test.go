package symbols

import (
	"testing"

	"soul/internal/source"
	"soul/internal/types"
)

func TestScopesLockstep(t *testing.T) {
	s := NewScopes()
	a := s.Push(VisAll)
	b := s.Push(VisGlobalOnly)
	if s.Types.Current() != b || s.Values.Current() != b {
		t.Fatalf("cursors diverged")
	}
	if err := s.RemoveCurrent(); err != nil {
		t.Fatal(err)
	}
	if s.Types.Len() != s.Values.Len() || s.Current() != a {
		t.Fatalf("remove did not apply to both trees")
	}
}

func TestScopesDeclare(t *testing.T) {
	s := NewScopes()
	first := SymbolEntry{Kind: EntryVariable, Name: "x", Span: source.Span{Line: 1, Col: 1, Len: 1}}
	if _, ok := s.Declare(first); !ok {
		t.Fatalf("first declaration failed")
	}
	prior, ok := s.Declare(SymbolEntry{Kind: EntryVariable, Name: "x", Span: source.Span{Line: 2, Col: 1, Len: 1}})
	if ok || prior.Span.Line != 1 {
		t.Fatalf("duplicate accepted or prior lost: %+v %v", prior, ok)
	}

	s.Push(VisAll)
	if _, ok := s.Declare(SymbolEntry{Kind: EntryVariable, Name: "x"}); !ok {
		t.Fatalf("shadowing in a nested scope failed")
	}

	for range 2 {
		if _, ok := s.Declare(SymbolEntry{Kind: EntryFunction, Name: "f"}); !ok {
			t.Fatalf("overload rejected")
		}
	}
	if _, ok := s.Declare(SymbolEntry{Kind: EntryVariable, Name: "f"}); ok {
		t.Fatalf("variable shadowed a function in the same scope")
	}
}

func TestScopesFillPlaceholder(t *testing.T) {
	s := NewScopes()
	s.Declare(SymbolEntry{Kind: EntryFunction, Name: "foo", Placeholder: true, DeclIndex: 0})
	s.Declare(SymbolEntry{Kind: EntryFunction, Name: "foo", Placeholder: true, DeclIndex: 9})

	if _, ok := s.FillPlaceholder(SymbolEntry{Kind: EntryFunction, Name: "foo", Decl: 3}, 9); !ok {
		t.Fatalf("FillPlaceholder failed")
	}
	entries, _ := s.LookupValue("foo")
	if len(entries) != 2 || !entries[0].Placeholder || entries[1].Placeholder || entries[1].Decl != 3 {
		t.Fatalf("entries = %+v", entries)
	}
}

func TestScopesDeclareType(t *testing.T) {
	s := NewScopes()
	point := TypeEntry{Type: types.Named(types.KindStruct, "Point"), Span: source.Span{Line: 1, Col: 1}}
	if _, ok := s.DeclareType("Point", point); !ok {
		t.Fatalf("DeclareType failed")
	}
	if prior, ok := s.DeclareType("Point", TypeEntry{Type: types.Named(types.KindClass, "Point")}); ok || prior.Type.Kind != types.KindStruct {
		t.Fatalf("duplicate type accepted")
	}
	s.Push(VisGlobalOnly)
	if e, ok := s.LookupType("Point"); !ok || e.Type.Kind != types.KindStruct {
		t.Fatalf("LookupType(Point) = %+v, %v", e, ok)
	}
	if e, ok := s.LookupType("i32"); !ok || e.Type.Kind != types.KindPrimitive {
		t.Fatalf("primitive did not resolve")
	}
	if _, ok := s.LookupType("Missing"); ok {
		t.Fatalf("unknown type resolved")
	}
}
