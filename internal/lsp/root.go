package lsp

import (
	"path/filepath"
	"strings"

	"trivet/internal/config"
	"trivet/internal/rules"
)

// LoadWorkspace discovers the config upward from root (or from the
// working directory when the client sent no root) and builds its table.
func LoadWorkspace(root string) (*Workspace, error) {
	cfg, err := config.Load("", root)
	if err != nil {
		return nil, err
	}
	table, err := rules.NewTable(cfg.RuleOptions())
	if err != nil {
		return nil, err
	}
	return &Workspace{Table: table, Include: cfg.Files.Include}, nil
}

func defaultWorkspace() (*Workspace, error) {
	cfg := config.Default()
	table, err := rules.NewTable(cfg.RuleOptions())
	if err != nil {
		return nil, err
	}
	return &Workspace{Table: table, Include: cfg.Files.Include}, nil
}

func isConfigPath(path string) bool {
	return path != "" && config.IsConfigFile(path)
}

// analysable reports whether a document with this path is linted.
func (w *Workspace) analysable(path string) bool {
	if w == nil || path == "" {
		return false
	}
	ext := filepath.Ext(path)
	for _, inc := range w.Include {
		if strings.EqualFold(ext, inc) {
			return true
		}
	}
	return false
}
