package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"soul/internal/version"
)

// errFailed - ошибки уже напечатаны, остаётся только код выхода
var errFailed = errors.New("compilation failed")

var rootCmd = &cobra.Command{
	Use:           "soul",
	Short:         "Soul language front end",
	Long:          `Soul tokenizes and parses Soul sources into scoped syntax trees`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := setupColor(cmd); err != nil {
			return err
		}
		cleanup, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		traceCleanup = cleanup
		return startProfiling(cmd)
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		runTraceCleanup()
		stopProfiling()
	},
}

func init() {
	rootCmd.Version = version.Number

	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-errors", 0, "maximum number of errors to show per file (0 = manifest or 100)")
	rootCmd.PersistentFlags().String("cache-dir", "", "parse cache directory (default $XDG_CACHE_HOME/soul)")
	rootCmd.PersistentFlags().String("trace", "", "write trace events to a file (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|file|debug)")
	rootCmd.PersistentFlags().String("trace-format", "text", "trace format (text|ndjson)")
	rootCmd.PersistentFlags().Int("trace-ring-size", 0, "keep the last N trace events and dump them on failure")
	rootCmd.PersistentFlags().String("cpuprofile", "", "write a CPU profile to file")
	rootCmd.PersistentFlags().String("memprofile", "", "write a heap profile to file on exit")
}

// main executes the root command. Any error exits with status 1.
func main() {
	err := rootCmd.Execute()
	if err != nil {
		dumpTraceRing(os.Stderr)
	}
	runTraceCleanup()
	stopProfiling()
	if err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintf(os.Stderr, "soul: %v\n", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
