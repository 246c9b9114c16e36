package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.soul|directory>",
	Short: "Parse soul sources and report errors only",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	checkCmd.Flags().String("ui", "auto", "progress view (auto|on|off)")
	checkCmd.Flags().Bool("no-cache", false, "ignore and do not update the parse cache")
}

func runCheck(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) > 0 {
		target = args[0]
	}
	setup, err := prepareRun(cmd, target)
	if err != nil {
		return err
	}
	withUI, err := useProgressView(cmd, setup.quiet)
	if err != nil {
		return err
	}
	return check(cmd, setup, withUI)
}

// check runs one pass and prints errors and a summary line.
func check(cmd *cobra.Command, setup *runSetup, withUI bool) error {
	res, err := runProject(cmd.Context(), "checking "+setup.project.Name, setup, withUI)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}
	if _, err := printProjectErrors(os.Stderr, res, setup.opts.MaxErrors); err != nil {
		return err
	}
	if !setup.quiet {
		if res.FailedFiles() > 0 {
			fmt.Fprintln(os.Stderr)
		}
		fmt.Fprintf(os.Stderr, "%s: %s\n", setup.project.Name, summary(res))
	}
	printTimings(os.Stderr, setup.opts.Timer, setup.timings)
	if res.FailedFiles() > 0 {
		return errFailed
	}
	return nil
}
