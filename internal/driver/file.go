package driver

import (
	"context"
	"fmt"

	"soul/internal/diag"
	"soul/internal/external"
	"soul/internal/lexer"
	"soul/internal/parser"
	"soul/internal/source"
	"soul/internal/token"
	"soul/internal/trace"
)

// FileResult is the outcome of one file. Either Response or Err is set.
type FileResult struct {
	Path     string
	Page     string
	FileID   source.FileID
	Response *parser.ParserResponse
	// Err - фатальная ошибка файла (разбор остановлен)
	Err    *diag.SoulError
	Cached bool
}

// Errors returns the fatal error followed by the non-fatal ones.
func (r *FileResult) Errors() []*diag.SoulError {
	var out []*diag.SoulError
	if r.Err != nil {
		out = append(out, r.Err)
	}
	if r.Response != nil {
		out = append(out, r.Response.Errors...)
	}
	return out
}

// Failed reports whether the file produced any error.
func (r *FileResult) Failed() bool {
	return len(r.Errors()) > 0
}

// TokenizeResult holds the tokens of a single file.
type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Err     *diag.SoulError
}

// Tokenize loads and tokenizes one file. A lexical error is returned in the
// result with the tokens produced before it; only I/O failures are errors.
func Tokenize(ctx context.Context, path string) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	file := fs.Get(id)
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeStep, "tokenize", 0)
	toks, lexErr := lexer.TokenizeFile(file, lexer.Options{})
	span.With("tokens", fmt.Sprint(len(toks))).End("")
	res := &TokenizeResult{FileSet: fs, File: file, Tokens: toks}
	if lexErr != nil {
		res.Err = diag.As(lexErr)
	}
	return res, nil
}

// parseTokens runs the parser over one file's tokens and turns every error
// into a SoulError framed with the file name.
func parseTokens(ctx context.Context, file *source.File, page, projectName string, pages *external.Pages, opts parser.Options) (*parser.ParserResponse, *diag.SoulError) {
	tr := trace.FromContext(ctx)

	span := trace.Begin(tr, trace.ScopeStep, "tokenize", 0)
	toks, err := lexer.TokenizeFile(file, lexer.Options{})
	span.End("")
	if err != nil {
		return nil, diag.As(err)
	}

	span = trace.Begin(tr, trace.ScopeStep, "parse", 0)
	resp, err := parser.ParseWithOptions(toks, projectName, pages, opts)
	span.End("")
	if err != nil {
		return nil, diag.As(err)
	}
	resp.Header.Page = page
	return resp, nil
}

// scanTokens runs the header pass only.
func scanTokens(file *source.File, page, projectName string) (*external.Header, *diag.SoulError) {
	toks, err := lexer.TokenizeFile(file, lexer.Options{})
	if err != nil {
		return nil, diag.As(err)
	}
	h, err := parser.ScanHeader(toks, projectName)
	if err != nil {
		return nil, diag.As(err)
	}
	h.Page = page
	return h, nil
}

// ParseSource parses an in-memory buffer (stdin, the REPL) as a page of
// projectName with no other pages visible.
func ParseSource(ctx context.Context, name string, src []byte, projectName string, opts parser.Options) (*source.FileSet, *FileResult) {
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, src)
	res := &FileResult{Path: name, Page: projectName, FileID: id}
	res.Response, res.Err = parseTokens(ctx, fs.Get(id), projectName, projectName, nil, opts)
	return fs, res
}

func ioError(err error) *diag.SoulError {
	return diag.New(diag.IOError, source.Span{}, err.Error())
}
