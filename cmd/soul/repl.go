package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"soul/internal/ast"
	"soul/internal/diagfmt"
	"soul/internal/driver"
	"soul/internal/parser"
	"soul/internal/source"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive parser: prints the tree of every entered statement",
	Long: `Repl reads soul statements line by line. Input with open braces,
brackets or parentheses continues on the next line. Accepted input stays in
the session, so later lines can use earlier declarations.

Commands: :tree and :json print the whole session, :reset clears it,
exit or Ctrl+D quits.`,
	Args: cobra.NoArgs,
	RunE: runRepl,
}

const replName = "<repl>"

var (
	replPromptColor = color.New(color.FgGreen)
	replMutedColor  = color.New(color.FgHiBlack)
	replTitleColor  = color.New(color.FgCyan, color.Bold)
)

// replSession накапливает принятый ввод; каждая новая порция разбирается
// вместе со всем, что было до неё
type replSession struct {
	project string
	text    strings.Builder
	stmts   int
	last    *driver.FileResult
	lastFS  *source.FileSet
}

func newReplSession(project string) *replSession {
	return &replSession{project: project}
}

// Eval parses the session extended by input. On success input is kept and
// the new top-level statements are returned in compact form. On failure the
// session is unchanged.
func (s *replSession) Eval(ctx context.Context, input string) ([]string, *driver.FileResult, *source.FileSet) {
	src := s.text.String() + input
	if !strings.HasSuffix(src, "\n") {
		src += "\n"
	}
	fs, res := driver.ParseSource(ctx, replName, []byte(src), s.project, parser.Options{Script: true})
	if res.Failed() {
		return nil, res, fs
	}
	s.text.Reset()
	s.text.WriteString(src)
	stmts := res.Response.Tree.Root.Statements
	var added []string
	for _, st := range stmts[min(s.stmts, len(stmts)):] {
		added = append(added, ast.FormatStmt(st))
	}
	s.stmts = len(stmts)
	s.last, s.lastFS = res, fs
	return added, res, fs
}

func (s *replSession) Reset() {
	s.text.Reset()
	s.stmts = 0
	s.last, s.lastFS = nil, nil
}

// depth counts unclosed brackets of all kinds in line.
func depth(line string) int {
	d := 0
	for _, r := range line {
		switch r {
		case '{', '(', '[':
			d++
		case '}', ')', ']':
			d--
		}
	}
	return d
}

func runRepl(cmd *cobra.Command, _ []string) error {
	historyFile := ""
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = filepath.Join(home, ".soul_history")
	}
	prompt := replPromptColor.Sprint("soul> ")
	cont := replMutedColor.Sprint("...   ")

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            prompt,
		HistoryFile:       historyFile,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("readline init failed: %w", err)
	}
	defer rl.Close()

	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	if !quiet {
		fmt.Fprintf(rl.Stdout(), "%s %s\n\n", replTitleColor.Sprint("soul repl"), replMutedColor.Sprint("(type 'exit' or Ctrl+D to quit)"))
	}

	session := newReplSession("repl")
	var accumulated strings.Builder
	open := 0
	for {
		if open > 0 {
			rl.SetPrompt(cont)
		} else {
			rl.SetPrompt(prompt)
		}

		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if open > 0 {
					accumulated.Reset()
					open = 0
					continue
				}
				fmt.Fprintln(rl.Stdout(), replMutedColor.Sprint("(use 'exit' or Ctrl+D to quit)"))
				continue
			}
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(rl.Stdout())
			}
			return nil
		}

		if open == 0 {
			switch strings.TrimSpace(line) {
			case "exit":
				return nil
			case ":reset":
				session.Reset()
				continue
			case ":tree", ":json":
				if err := printSession(rl.Stdout(), session, strings.TrimSpace(line) == ":json"); err != nil {
					return err
				}
				continue
			}
		}

		open += depth(line)
		accumulated.WriteString(line)
		accumulated.WriteString("\n")
		if open > 0 {
			continue
		}
		open = 0

		input := accumulated.String()
		accumulated.Reset()
		if strings.TrimSpace(input) == "" {
			continue
		}

		added, res, fs := session.Eval(cmd.Context(), input)
		if res.Failed() {
			printReplErrors(rl.Stderr(), res, fs)
			continue
		}
		for _, s := range added {
			fmt.Fprintln(rl.Stdout(), s)
		}
	}
}

func printSession(w io.Writer, s *replSession, asJSON bool) error {
	if s.last == nil {
		fmt.Fprintln(w, replMutedColor.Sprint("(empty session)"))
		return nil
	}
	if asJSON {
		return diagfmt.FormatJSON(w, s.last.Response, s.last.Page)
	}
	return diagfmt.FormatTree(w, s.last.Response, s.last.Page)
}

func printReplErrors(w io.Writer, res *driver.FileResult, fs *source.FileSet) {
	opts := renderOptions("")
	if _, err := diagfmt.RenderAll(w, res.Errors(), fs.Get(res.FileID), opts, defaultMaxErrors); err != nil {
		fmt.Fprintf(os.Stderr, "repl: %v\n", err)
	}
}
