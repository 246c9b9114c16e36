package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"soul/internal/diagfmt"
	"soul/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] <file.soul|directory>",
	Short: "Parse soul sources and print their syntax trees",
	Long: `Parse analyzes a soul source file or every *.soul file under a directory
and prints the syntax tree, declarations and literal memory of each page`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().String("format", "tree", "output format (tree|json)")
	parseCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	parseCmd.Flags().String("ui", "auto", "progress view (auto|on|off)")
	parseCmd.Flags().Bool("no-cache", false, "ignore and do not update the parse cache")
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "tree" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	setup, err := prepareRun(cmd, args[0])
	if err != nil {
		return err
	}
	withUI, err := useProgressView(cmd, setup.quiet)
	if err != nil {
		return err
	}
	res, err := runProject(cmd.Context(), "parsing "+setup.project.Name, setup, withUI)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	if _, err := printProjectErrors(os.Stderr, res, setup.opts.MaxErrors); err != nil {
		return err
	}
	if format == "json" {
		err = printJSON(os.Stdout, res)
	} else {
		err = printTrees(os.Stdout, res, setup.quiet)
	}
	if err != nil {
		return err
	}
	printTimings(os.Stderr, setup.opts.Timer, setup.timings)
	if res.FailedFiles() > 0 {
		return errFailed
	}
	return nil
}

func printTrees(out io.Writer, res *driver.ProjectResult, quiet bool) error {
	printed := 0
	for i := range res.Files {
		fr := &res.Files[i]
		if fr.Response == nil {
			continue
		}
		if !quiet {
			if printed > 0 {
				if _, err := fmt.Fprintln(out); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintf(out, "== %s ==\n", displayName(res, fr)); err != nil {
				return err
			}
		}
		if err := diagfmt.FormatTree(out, fr.Response, fr.Page); err != nil {
			return err
		}
		printed++
	}
	return nil
}

// printJSON prints one object keyed by display path; failed files map to null.
func printJSON(out io.Writer, res *driver.ProjectResult) error {
	output := make(map[string]*diagfmt.Node, len(res.Files))
	for i := range res.Files {
		fr := &res.Files[i]
		if fr.Response == nil {
			output[displayName(res, fr)] = nil
			continue
		}
		output[displayName(res, fr)] = diagfmt.BuildTree(fr.Response, fr.Page)
	}
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func displayName(res *driver.ProjectResult, fr *driver.FileResult) string {
	if f := res.File(fr); f != nil {
		return f.DisplayPath(res.FileSet.BaseDir())
	}
	return fr.Path
}
