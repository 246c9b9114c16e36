package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"soul/internal/driver"
)

var watchCmd = &cobra.Command{
	Use:   "watch [flags] [directory]",
	Short: "Re-check the project whenever a source file changes",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	watchCmd.Flags().Bool("no-cache", false, "ignore and do not update the parse cache")
	watchCmd.Flags().Duration("debounce", driver.DefaultDebounce, "delay after the last change before re-checking")
}

func runWatch(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) > 0 {
		target = args[0]
	}
	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return fmt.Errorf("failed to get debounce flag: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	cmd.SetContext(ctx)

	recheck := func() {
		// набор файлов мог измениться: каждый проход заново ищет проект
		setup, err := prepareRun(cmd, target)
		if err != nil {
			fmt.Fprintf(os.Stderr, "soul: %v\n", err)
			return
		}
		if err := check(cmd, setup, false); err != nil && !errors.Is(err, errFailed) {
			fmt.Fprintf(os.Stderr, "soul: %v\n", err)
		}
	}

	setup, err := prepareRun(cmd, target)
	if err != nil {
		return err
	}
	root := setup.project.Root
	recheck()
	if !setup.quiet {
		fmt.Fprintf(os.Stderr, "watching %s (Ctrl+C to stop)\n", root)
	}
	return driver.Watch(ctx, root, debounce, func(_ context.Context, changed []string) {
		if !setup.quiet {
			fmt.Fprintf(os.Stderr, "\n%d %s changed\n", len(changed), plural(len(changed), "file", "files"))
		}
		recheck()
	})
}
