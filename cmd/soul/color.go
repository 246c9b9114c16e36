package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var useColorStdout, useColorStderr bool

// setupColor resolves --color once per run. fatih/color has a global switch
// used by version output; diagnostics carry their own flag.
func setupColor(cmd *cobra.Command) error {
	value, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on":
		useColorStdout, useColorStderr = true, true
	case "off":
		useColorStdout, useColorStderr = false, false
	case "", "auto":
		useColorStdout, useColorStderr = isTerminal(os.Stdout), isTerminal(os.Stderr)
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
	color.NoColor = !useColorStdout
	return nil
}
