package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"soul/internal/diag"
	"soul/internal/lexer"
	"soul/internal/source"
)

type palette struct {
	err, note, loc, gutter, mark *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		note:   color.New(color.FgCyan, color.Bold),
		loc:    color.New(color.FgBlue),
		gutter: color.New(color.FgBlue, color.Bold),
		mark:   color.New(color.FgRed, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.note, p.loc, p.gutter, p.mark} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// RenderError prints err against the source of file, outermost frame first:
//
//	error[SOUL1002] unexpected token: while trying to parse function 'foo'
//	  --> main.soul:1:1
//	   |
//	 1 | foo(int a {
//	   | ^~~
//	note: expected ')' but found '{'
//	  --> main.soul:1:11
//
// file may be nil; then only messages and positions are printed.
func RenderError(w io.Writer, err *diag.SoulError, file *source.File, opts Options) error {
	if err == nil {
		return nil
	}
	r := renderer{w: w, file: file, opts: opts, pal: newPalette(opts.Color)}
	if file != nil {
		r.lines = strings.Split(string(lexer.Preprocess(file.Content)), "\n")
	}
	frames := err.Outermost()
	for i, f := range frames {
		if i == 0 {
			r.printf("%s %s: %s\n", r.pal.err.Sprintf("error[%s]", err.Kind().ID()), err.Kind().Title(), f.Message)
		} else {
			r.printf("%s: %s\n", r.pal.note.Sprint("note"), f.Message)
		}
		if !f.Span.IsZero() {
			r.snippet(f.Span)
		}
	}
	return r.err
}

// RenderAll prints errs separated by blank lines and returns how many were printed.
func RenderAll(w io.Writer, errs []*diag.SoulError, file *source.File, opts Options, max int) (int, error) {
	n := 0
	for _, e := range errs {
		if max > 0 && n >= max {
			break
		}
		if n > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return n, err
			}
		}
		if err := RenderError(w, e, file, opts); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

type renderer struct {
	w     io.Writer
	file  *source.File
	lines []string
	opts  Options
	pal   palette
	err   error
}

func (r *renderer) printf(format string, args ...any) {
	if r.err != nil {
		return
	}
	_, r.err = fmt.Fprintf(r.w, format, args...)
}

func (r *renderer) line(n uint32) (string, bool) {
	if n == 0 || int(n) > len(r.lines) {
		return "", false
	}
	return r.lines[n-1], true
}

func (r *renderer) snippet(sp source.Span) {
	r.printf("  %s %s:%d:%d\n", r.pal.gutter.Sprint("-->"), displayPath(r.file, r.opts), sp.Line, sp.Col)
	text, ok := r.line(sp.Line)
	if !ok {
		return
	}
	first := sp.Line
	if r.opts.Context > 0 {
		first = uint32(max(1, int(sp.Line)-r.opts.Context))
	}
	width := len(strconv.FormatUint(uint64(sp.Line), 10))
	pad := strings.Repeat(" ", width)
	bar := r.pal.gutter.Sprint("|")

	r.printf(" %s %s\n", pad, bar)
	for n := first; n < sp.Line; n++ {
		ctx, _ := r.line(n)
		r.printf(" %s %s %s\n", r.pal.gutter.Sprintf("%*d", width, n), bar, ctx)
	}
	r.printf(" %s %s %s\n", r.pal.gutter.Sprintf("%*d", width, sp.Line), bar, text)
	r.printf(" %s %s %s\n", pad, bar, r.pal.mark.Sprint(underline(text, sp)))
}

// underline builds `   ^~~~` under the columns of sp on its first line.
// Widths are display widths so wide runes stay aligned.
func underline(text string, sp source.Span) string {
	runes := []rune(text)
	start := min(int(sp.Col)-1, len(runes))
	start = max(start, 0)
	end := len(runes)
	if !sp.MultiLine() {
		end = min(start+int(sp.Len), len(runes))
	}
	lead := runewidth.StringWidth(string(runes[:start]))
	span := runewidth.StringWidth(string(runes[start:end]))
	if span < 1 {
		span = 1
	}
	return strings.Repeat(" ", lead) + "^" + strings.Repeat("~", span-1)
}
