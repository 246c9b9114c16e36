package main

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"strconv"

	"github.com/spf13/cobra"

	"soul/internal/cache"
	"soul/internal/version"
)

// buildInfo is what `soul version` reports.
type buildInfo struct {
	Version     string `json:"version"`
	Commit      string `json:"commit,omitempty"`
	Date        string `json:"date,omitempty"`
	Dirty       bool   `json:"dirty,omitempty"`
	Go          string `json:"go"`
	Platform    string `json:"platform"`
	CacheSchema uint16 `json:"cache_schema"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the compiler version and build details",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

func init() {
	versionCmd.Flags().Bool("short", false, "print only the version number")
	versionCmd.Flags().Bool("json", false, "print build details as JSON")
}

func runVersion(cmd *cobra.Command, _ []string) error {
	short, err := cmd.Flags().GetBool("short")
	if err != nil {
		return err
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	b := currentBuild(debug.ReadBuildInfo)
	out := cmd.OutOrStdout()
	switch {
	case asJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(b)
	case short:
		_, err := fmt.Fprintln(out, b.Version)
		return err
	}
	return writeBuild(out, b)
}

// currentBuild merges the -ldflags values with what the go tool recorded
// about the checkout; ldflags win.
func currentBuild(read func() (*debug.BuildInfo, bool)) buildInfo {
	b := buildInfo{
		Version:     version.Number,
		Commit:      version.GitCommit,
		Date:        version.BuildDate,
		Go:          runtime.Version(),
		Platform:    runtime.GOOS + "/" + runtime.GOARCH,
		CacheSchema: cache.Schema,
	}
	bi, ok := read()
	if !ok {
		return b
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if b.Commit == "" {
				b.Commit = s.Value
			}
		case "vcs.time":
			if b.Date == "" {
				b.Date = s.Value
			}
		case "vcs.modified":
			b.Dirty = s.Value == "true"
		}
	}
	return b
}

func writeBuild(w io.Writer, b buildInfo) error {
	commit := b.Commit
	if len(commit) > 12 {
		commit = commit[:12]
	}
	if commit == "" {
		commit = "unknown"
	} else if b.Dirty {
		commit += " (dirty)"
	}
	date := b.Date
	if date == "" {
		date = "unknown"
	}
	if _, err := fmt.Fprintf(w, "soul %s\n", version.Colored()); err != nil {
		return err
	}
	for _, row := range [][2]string{
		{"commit", commit},
		{"built", date},
		{"go", b.Go},
		{"platform", b.Platform},
		{"cache schema", strconv.FormatUint(uint64(b.CacheSchema), 10)},
	} {
		if _, err := fmt.Fprintf(w, "  %-13s%s\n", row[0], row[1]); err != nil {
			return err
		}
	}
	return nil
}
