package parser

import (
	"slices"
	"strings"

	"soul/internal/ast"
	"soul/internal/diag"
	"soul/internal/external"
	"soul/internal/symbols"
	"soul/internal/token"
	"soul/internal/types"
)

// Options tune a single parse.
type Options struct {
	// MaxErrors caps collected non-fatal errors; 0 means unlimited.
	MaxErrors int
	// Script lifts the global-scope restrictions (REPL input): globals may be
	// mutable and uninitialised.
	Script bool
}

// ParserResponse is everything a parse produces for one file.
type ParserResponse struct {
	Tree   ast.AbstractSyntaxTree
	Scopes *symbols.Tree[symbols.SymbolEntry]
	Types  *symbols.Tree[symbols.TypeEntry]
	Memory *ast.ProgramMemory
	// Errors holds non-fatal errors (duplicate declarations). A fatal error
	// is returned from Parse instead.
	Errors []*diag.SoulError
	Header external.Header
}

// Parser - состояние парсера на один файл
type Parser struct {
	ts      *token.Stream
	scopes  *symbols.Scopes
	decls   *ast.Decls
	memory  *ast.ProgramMemory
	pages   *external.Pages
	project string
	opts    Options
	bag     *diag.Bag
	rep     diag.Reporter

	// fnDepth > 0 while parsing a function or lambda body
	fnDepth int
	// owner is set while parsing a class or trait body; its methods may take `this`
	owner *ownerCtx
	// globals are the global variables seen by the forward pass
	globals []symbols.SymbolEntry
}

type ownerCtx struct {
	typ types.SoulType
	// trait bodies hold signatures; a method without a body is abstract
	abstract bool
}

func newParser(tokens []token.Token, projectName string, pages *external.Pages, opts Options) *Parser {
	bag := diag.NewBag(opts.MaxErrors)
	return &Parser{
		ts:      token.NewStream(tokens),
		scopes:  symbols.NewScopes(),
		decls:   ast.NewDecls(),
		memory:  ast.NewProgramMemory(),
		pages:   pages,
		project: projectName,
		opts:    opts,
		bag:     bag,
		rep:     diag.BagReporter{Bag: bag},
	}
}

// Parse builds the scope-resolved AST of one file. It is a pure function of
// its inputs; pages may be nil when no other files are known.
func Parse(tokens []token.Token, projectName string, pages *external.Pages) (*ParserResponse, error) {
	return ParseWithOptions(tokens, projectName, pages, Options{})
}

// ParseWithOptions is Parse with explicit options.
func ParseWithOptions(tokens []token.Token, projectName string, pages *external.Pages, opts Options) (*ParserResponse, error) {
	p := newParser(tokens, projectName, pages, opts)
	root, err := p.parseFile()
	if err != nil {
		return nil, err
	}
	return &ParserResponse{
		Tree:   ast.AbstractSyntaxTree{Root: root, Decls: p.decls},
		Scopes: p.scopes.Values,
		Types:  p.scopes.Types,
		Memory: p.memory,
		Errors: p.bag.Items(),
		Header: p.header(),
	}, nil
}

// ScanHeader runs only the global forward-declaration pass and returns what
// the file exports. The driver uses it to fill external.Pages before parsing.
func ScanHeader(tokens []token.Token, projectName string) (*external.Header, error) {
	p := newParser(tokens, projectName, nil, Options{})
	if err := p.hoist(true, p.ts.CurrentSpan()); err != nil {
		return nil, err
	}
	h := p.header()
	return &h, nil
}

// parseFile - основной цикл верхнего уровня.
func (p *Parser) parseFile() (ast.Block, error) {
	start := p.ts.CurrentSpan()
	if err := p.hoist(true, start); err != nil {
		return ast.Block{}, err
	}
	block := ast.Block{Scope: symbols.RootScope}
	for {
		p.ts.SkipEndOfLines()
		if p.ts.AtEnd() {
			break
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return ast.Block{}, err
		}
		if stmt.Kind == ast.StmtCloseBlock {
			// `}` на глобальном уровне
			if err := p.popScope(stmt.Span); err != nil {
				return ast.Block{}, err
			}
			continue
		}
		block.Statements = append(block.Statements, stmt)
	}
	if n := len(block.Statements); n > 0 {
		block.Span = block.Statements[0].Span.Combine(block.Statements[n-1].Span)
	}
	return block, nil
}

// header collects the root scope into an external header.
func (p *Parser) header() external.Header {
	h := external.Header{Page: p.project}
	typeSyms := p.scopes.Types.Node(symbols.RootScope).Symbols
	for _, name := range sortedKeys(typeSyms) {
		h.Types = append(h.Types, external.TypeDecl{Name: name, Type: typeSyms[name][0].Type})
	}
	values := p.scopes.Values.Node(symbols.RootScope).Symbols
	for _, g := range p.globals {
		if _, declared := values[g.Name]; !declared {
			h.Values = append(h.Values, g)
		}
	}
	for _, name := range sortedKeys(values) {
		for _, e := range values[name] {
			if e.Kind == symbols.EntryUse {
				continue
			}
			h.Values = append(h.Values, e)
		}
	}
	slices.SortStableFunc(h.Values, func(a, b symbols.SymbolEntry) int { return strings.Compare(a.Name, b.Name) })
	return h
}

func sortedKeys[T any](m map[string][]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// usePath joins a `use` path, replacing a leading `this` with the project name.
func (p *Parser) usePath(segments []string) []string {
	if len(segments) > 0 && segments[0] == "this" {
		out := append([]string(nil), segments...)
		out[0] = p.project
		if p.project == "" {
			out = out[1:]
		}
		return out
	}
	return segments
}

func joinPath(segments []string) string { return strings.Join(segments, ".") }
