package diagfmt

import (
	"fmt"
	"strings"
)

// PathMode selects how file paths are printed.
type PathMode uint8

const (
	// PathModeAuto keeps short or relative paths and cuts long absolute
	// ones to the file name.
	PathModeAuto PathMode = iota
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

var pathModeNames = [...]string{"auto", "absolute", "relative", "basename"}

func (m PathMode) String() string {
	if int(m) < len(pathModeNames) {
		return pathModeNames[m]
	}
	return pathModeNames[PathModeAuto]
}

// ParsePathMode accepts the mode names and their short forms abs, rel and
// base; empty means auto.
func ParsePathMode(s string) (PathMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return PathModeAuto, nil
	}
	for i, name := range pathModeNames {
		if s == name || (len(s) >= 3 && strings.HasPrefix(name, s) && i != int(PathModeAuto)) {
			return PathMode(i), nil
		}
	}
	return PathModeAuto, fmt.Errorf("diagfmt: unknown path mode %q", s)
}

// PrettyOpts configures the terminal renderer. A negative Context hides
// source excerpts.
type PrettyOpts struct {
	Color       bool
	Context     int8
	PathMode    PathMode
	Width       uint8 // максимальная ширина строки, 0 - не ограничено
	ShowNotes   bool
	ShowFixes   bool
	ShowPreview bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // добавить line/col
	PathMode         PathMode
	Max              int // обрезка вывода, не Bag
	IncludeNotes     bool
	IncludeFixes     bool
	IncludePreviews  bool
}

// SarifRule is one entry of the tool.driver.rules array.
type SarifRule struct {
	ID          string
	Name        string
	Description string
	Level       string // error|warning|note
	Enabled     bool
}

// SarifRunMeta fills the tool and invocation sections of a SARIF run.
type SarifRunMeta struct {
	ToolName       string
	ToolVersion    string
	InformationURI string
	InvocationArgs []string
	Rules          []SarifRule
	PathMode       PathMode
}
