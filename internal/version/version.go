package version

import (
	"strings"

	"github.com/fatih/color"
)

// Version information for the trivet CLI.
// These variables can be overridden at build time via -ldflags.

var (
	// Version is the semantic version of the CLI. It also keys the result
	// cache, so it stays free of terminal escapes.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// Colored renders Version with each numeric part in its own color; the
// pre-release suffix stays plain. color.NoColor disables the escapes.
func Colored() string {
	v := strings.TrimSpace(Version)
	if v == "" {
		return "dev"
	}
	core, suffix, _ := strings.Cut(v, "-")
	parts := strings.SplitN(core, ".", 3)
	if len(parts) != 3 {
		return v
	}
	out := majorColor.Sprint(parts[0]) + "." + minorColor.Sprint(parts[1]) + "." + patchColor.Sprint(parts[2])
	if suffix != "" {
		out += "-" + suffix
	}
	return out
}
