package diag

import (
	"fmt"
	"strings"
)

// Severity orders diagnostics; larger is worse.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

var severityLabels = [...]string{SevInfo: "info", SevWarning: "warning", SevError: "error"}

// String is the upper-case form used in pretty output headers.
func (s Severity) String() string {
	if int(s) >= len(severityLabels) {
		return "UNKNOWN"
	}
	return strings.ToUpper(severityLabels[s])
}

// Label is the lower-case form used by the short and json renderers.
func (s Severity) Label() string {
	return severityLabels[min(s, SevError)]
}

// severityAliases are the editorconfig spellings accepted besides the labels.
var severityAliases = map[string]Severity{"note": SevInfo, "suggestion": SevInfo, "warn": SevWarning}

// ParseSeverity is case-insensitive and ignores surrounding blanks.
func ParseSeverity(s string) (Severity, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, label := range severityLabels {
		if key == label {
			return Severity(i), nil
		}
	}
	if sev, ok := severityAliases[key]; ok {
		return sev, nil
	}
	return SevInfo, fmt.Errorf("diag: unknown severity %q", s)
}
