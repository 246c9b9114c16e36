package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"soul/internal/cache"
	"soul/internal/diagfmt"
	"soul/internal/driver"
	"soul/internal/observ"
	"soul/internal/version"
)

const defaultMaxErrors = 100

// runSetup is what every project-level command needs before driver.Run.
type runSetup struct {
	project *driver.Project
	opts    driver.Options
	quiet   bool
	timings bool
}

// prepareRun discovers the project around target and merges manifest
// defaults with command-line flags. Flags win.
func prepareRun(cmd *cobra.Command, target string) (*runSetup, error) {
	flags := cmd.Root().PersistentFlags()
	quiet, err := flags.GetBool("quiet")
	if err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	timings, err := flags.GetBool("timings")
	if err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}

	p, err := driver.Discover(target)
	if err != nil {
		return nil, err
	}
	setup := &runSetup{project: p, quiet: quiet, timings: timings}
	setup.opts.Timer = observ.NewTimer()

	useCache := true
	if m := p.Manifest; m != nil {
		if err := m.CheckCompiler(version.Number); err != nil && !quiet {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
		setup.opts.Jobs = m.Config.Build.Jobs
		setup.opts.MaxErrors = m.Config.Build.MaxErrors
		useCache = m.CacheEnabled()
	}

	maxErrors, err := flags.GetInt("max-errors")
	if err != nil {
		return nil, fmt.Errorf("failed to get max-errors flag: %w", err)
	}
	if maxErrors > 0 {
		setup.opts.MaxErrors = maxErrors
	}
	if setup.opts.MaxErrors <= 0 {
		setup.opts.MaxErrors = defaultMaxErrors
	}

	if f := cmd.Flags().Lookup("jobs"); f != nil && f.Changed {
		if setup.opts.Jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
			return nil, fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}
	if f := cmd.Flags().Lookup("no-cache"); f != nil && f.Changed {
		noCache, err := cmd.Flags().GetBool("no-cache")
		if err != nil {
			return nil, fmt.Errorf("failed to get no-cache flag: %w", err)
		}
		useCache = !noCache
	}
	if useCache {
		setup.opts.Cache = openCache(cmd, quiet)
	}
	return setup, nil
}

// openCache opens the parse cache; a broken cache directory only costs speed.
func openCache(cmd *cobra.Command, quiet bool) *cache.Cache {
	c, err := openCacheDir(cmd)
	if err != nil {
		if !quiet {
			fmt.Fprintf(os.Stderr, "warning: parse cache disabled: %v\n", err)
		}
		return nil
	}
	return c
}

func renderOptions(baseDir string) diagfmt.Options {
	return diagfmt.Options{
		Color:   useColorStderr,
		BaseDir: baseDir,
		Context: 2,
	}
}

// printProjectErrors renders the errors of every file and returns the total
// number of errors found (not just printed).
func printProjectErrors(w io.Writer, res *driver.ProjectResult, maxErrors int) (int, error) {
	opts := renderOptions(res.FileSet.BaseDir())
	total, printed := 0, 0
	for i := range res.Files {
		fr := &res.Files[i]
		errs := fr.Errors()
		total += len(errs)
		if len(errs) == 0 {
			continue
		}
		if printed > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return total, err
			}
		}
		n, err := diagfmt.RenderAll(w, errs, res.File(fr), opts, maxErrors)
		if err != nil {
			return total, err
		}
		if hidden := len(errs) - n; hidden > 0 {
			fmt.Fprintf(w, "... and %d more errors in %s\n", hidden, fr.Path)
		}
		printed += n
	}
	return total, nil
}

func summary(res *driver.ProjectResult) string {
	files := len(res.Files)
	failed := res.FailedFiles()
	if failed == 0 {
		return fmt.Sprintf("%d %s ok", files, plural(files, "file", "files"))
	}
	errs := res.ErrorCount()
	return fmt.Sprintf("%d %s in %d of %d %s", errs, plural(errs, "error", "errors"), failed, files, plural(files, "file", "files"))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

