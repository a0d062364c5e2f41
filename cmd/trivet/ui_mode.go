package main

import (
	"fmt"
	"os"
	"slices"
	"strings"
)

// uiMode is the value of --ui.
type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	mode := uiMode(strings.ToLower(strings.TrimSpace(value)))
	if mode == "" {
		return uiModeAuto, nil
	}
	if !slices.Contains([]uiMode{uiModeAuto, uiModeOn, uiModeOff}, mode) {
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
	return mode, nil
}

// shouldUseTUI decides auto: a progress view only pays off for several
// files on an interactive stream.
func shouldUseTUI(mode uiMode, out *os.File, files int) bool {
	if mode != uiModeAuto {
		return mode == uiModeOn
	}
	return files > 1 && out != nil && isTerminal(out)
}
