package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"soul/internal/prof"
)

var profSession *prof.Session

func startProfiling(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()
	cpuPath, err := flags.GetString("cpuprofile")
	if err != nil {
		return fmt.Errorf("failed to get cpuprofile flag: %w", err)
	}
	memPath, err := flags.GetString("memprofile")
	if err != nil {
		return fmt.Errorf("failed to get memprofile flag: %w", err)
	}
	profSession, err = prof.Start(cpuPath, memPath)
	return err
}

func stopProfiling() {
	if err := profSession.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "profile: %v\n", err)
	}
	profSession = nil
}
