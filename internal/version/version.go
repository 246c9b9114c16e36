package version

import (
	"strconv"

	"github.com/Masterminds/semver/v3"
	"github.com/fatih/color"
)

// Version information for the soul CLI.
// These variables can be overridden at build time via -ldflags.

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)

	// Number is the semantic version of the compiler; `soul` constraints in
	// soul.toml are checked against it.
	Number = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// Semver parses Number.
func Semver() (*semver.Version, error) {
	return semver.NewVersion(Number)
}

// Colored renders Number with colored major, minor and patch parts.
// An unparsable Number is returned as is.
func Colored() string {
	v, err := Semver()
	if err != nil {
		return Number
	}
	out := versionMajorColor.Sprint(strconv.FormatUint(v.Major(), 10)) + "." +
		versionMinorColor.Sprint(strconv.FormatUint(v.Minor(), 10)) + "." +
		versionPatchColor.Sprint(strconv.FormatUint(v.Patch(), 10))
	if pre := v.Prerelease(); pre != "" {
		out += "-" + pre
	}
	if meta := v.Metadata(); meta != "" {
		out += "+" + meta
	}
	return out
}
