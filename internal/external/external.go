// Package external holds the headers of other pages (files) that a `use`
// statement can import. Headers are produced by a cheap global-scope scan
// of each page before the full parse, so parsing one page never reaches
// into another in-flight parse.
package external

import (
	"maps"
	"slices"
	"strings"
	"sync"

	"soul/internal/symbols"
	"soul/internal/types"
)

// TypeDecl is a globally visible type of a page.
type TypeDecl struct {
	Name string
	Type types.TypeKind
}

// Header lists what a page exports: everything declared in its global scope.
type Header struct {
	Page   string
	Types  []TypeDecl
	Values []symbols.SymbolEntry
}

// LookupType finds an exported type by name.
func (h *Header) LookupType(name string) (types.TypeKind, bool) {
	for _, t := range h.Types {
		if t.Name == name {
			return t.Type, true
		}
	}
	return types.TypeKind{}, false
}

// LookupValue returns every exported value entry with the given name.
func (h *Header) LookupValue(name string) []symbols.SymbolEntry {
	var out []symbols.SymbolEntry
	for _, v := range h.Values {
		if v.Name == name {
			out = append(out, v)
		}
	}
	return out
}

// Has reports whether the page exports name as a type or a value.
func (h *Header) Has(name string) bool {
	if _, ok := h.LookupType(name); ok {
		return true
	}
	return len(h.LookupValue(name)) > 0
}

// Pages is the registry of page headers keyed by dotted page path
// (`book.sub.page`). It is filled before parsing starts and only read during it.
type Pages struct {
	mu    sync.RWMutex
	pages map[string]*Header
}

// NewPages creates an empty registry.
func NewPages() *Pages {
	return &Pages{pages: make(map[string]*Header)}
}

// Add registers or replaces a header.
func (p *Pages) Add(h *Header) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pages[h.Page] = h
}

// Get returns the header of a page.
func (p *Pages) Get(page string) (*Header, bool) {
	if p == nil {
		return nil, false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	h, ok := p.pages[page]
	return h, ok
}

// Paths returns the registered page paths in sorted order.
func (p *Pages) Paths() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Sorted(maps.Keys(p.pages))
}

// Resolve splits a use path into a page and an optional item. The whole
// path is tried as a page first; otherwise the last segment must be an
// item exported by the page named by the rest.
func (p *Pages) Resolve(path []string) (h *Header, item string, ok bool) {
	if h, ok := p.Get(strings.Join(path, ".")); ok {
		return h, "", true
	}
	if len(path) < 2 {
		return nil, "", false
	}
	h, ok = p.Get(strings.Join(path[:len(path)-1], "."))
	if !ok || !h.Has(path[len(path)-1]) {
		return nil, "", false
	}
	return h, path[len(path)-1], true
}
