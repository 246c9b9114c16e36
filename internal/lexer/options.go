package lexer

import (
	"soul/internal/diag"
	"soul/internal/source"
)

// Options tune the lexer.
type Options struct {
	// Reporter может быть nil - тогда ошибки только возвращаются из Tokenize.
	Reporter diag.Reporter
	// SkipPreprocess disables comment stripping, tab expansion and NFC normalisation.
	SkipPreprocess bool
}

func (lx *Lexer) report(kind diag.ErrorKind, sp source.Span, msg string) {
	err := diag.New(kind, sp, msg)
	if lx.first == nil {
		lx.first = err
	}
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(err)
	}
}
