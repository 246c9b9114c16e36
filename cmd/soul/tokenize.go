package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"soul/internal/diagfmt"
	"soul/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.soul",
	Short: "Tokenize a soul source file",
	Long:  `Tokenize breaks down a soul source file into its constituent tokens`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "json":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	result, err := driver.Tokenize(cmd.Context(), filePath)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	// Выводим токены, полученные до ошибки, затем саму ошибку
	if format == "json" {
		err = diagfmt.FormatTokensJSON(os.Stdout, result.Tokens)
	} else {
		err = diagfmt.FormatTokensPretty(os.Stdout, result.Tokens)
	}
	if err != nil {
		return err
	}
	if result.Err != nil {
		opts := renderOptions(result.FileSet.BaseDir())
		if err := diagfmt.RenderError(os.Stderr, result.Err, result.File, opts); err != nil {
			return err
		}
		return errFailed
	}
	return nil
}
