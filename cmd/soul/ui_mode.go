package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// progressView is the value of --ui: whether the bubbletea progress view
// is drawn while files are parsed.
type progressView uint8

const (
	progressAuto progressView = iota
	progressAlways
	progressNever
)

var progressViews = map[string]progressView{
	"":       progressAuto,
	"auto":   progressAuto,
	"on":     progressAlways,
	"always": progressAlways,
	"off":    progressNever,
	"never":  progressNever,
}

func parseProgressView(value string) (progressView, error) {
	v, ok := progressViews[strings.ToLower(strings.TrimSpace(value))]
	if !ok {
		return progressAuto, fmt.Errorf("invalid --ui value %q (expected auto, on or off)", value)
	}
	return v, nil
}

// enabled: auto рисует только в терминал, не в CI и не при --quiet
func (v progressView) enabled(quiet bool, getenv func(string) string) bool {
	switch v {
	case progressAlways:
		return true
	case progressNever:
		return false
	}
	if quiet || getenv("CI") != "" || getenv("TERM") == "dumb" {
		return false
	}
	return isTerminal(os.Stderr)
}

// useProgressView reads --ui of cmd.
func useProgressView(cmd *cobra.Command, quiet bool) (bool, error) {
	raw, err := cmd.Flags().GetString("ui")
	if err != nil {
		return false, fmt.Errorf("failed to get ui flag: %w", err)
	}
	v, err := parseProgressView(raw)
	if err != nil {
		return false, err
	}
	return v.enabled(quiet, os.Getenv), nil
}
