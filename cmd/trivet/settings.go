package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"trivet/internal/config"
	"trivet/internal/driver"
	"trivet/internal/rules"
)

// settings is what every command derives from the config file and the
// persistent flags.
type settings struct {
	cfg    *config.Config
	table  *rules.Table
	filter driver.FileFilter
}

func loadSettings(cmd *cobra.Command) (*settings, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	cfg, err := config.Load(path, ".")
	if err != nil {
		return nil, err
	}
	table, err := rules.NewTable(cfg.RuleOptions())
	if err != nil {
		return nil, err
	}
	return &settings{
		cfg:    cfg,
		table:  table,
		filter: driver.FileFilter{Include: cfg.Files.Include, Exclude: cfg.Files.Exclude},
	}, nil
}

// openCache returns nil when caching is off.
func (s *settings) openCache(disabled bool) (*driver.DiskCache, string, error) {
	if disabled || !s.cfg.Cache.Enabled {
		return nil, "", nil
	}
	fingerprint, err := driver.Fingerprint(s.cfg.RuleOptions())
	if err != nil {
		return nil, "", err
	}
	dir := s.cfg.Cache.Dir
	if dir == "" {
		if dir, err = driver.DefaultCacheDir("trivet"); err != nil {
			return nil, "", err
		}
	}
	cache, err := driver.OpenDiskCache(dir)
	if err != nil {
		return nil, "", err
	}
	return cache, fingerprint, nil
}

// useColor resolves --color for the given stream and sets fatih/color's
// global switch accordingly.
func useColor(cmd *cobra.Command, f *os.File) (bool, error) {
	value, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	var on bool
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on", "always":
		on = true
	case "off", "never":
		on = false
	case "", "auto":
		on = f != nil && isTerminal(f) && os.Getenv("NO_COLOR") == ""
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
	color.NoColor = !on
	return on, nil
}

// outFile is the *os.File behind the command's stdout, if any.
func outFile(cmd *cobra.Command) *os.File {
	f, _ := cmd.OutOrStdout().(*os.File)
	return f
}

// defaultPaths: без аргументов проверяется текущий каталог.
func defaultPaths(args []string) []string {
	if len(args) == 0 {
		return []string{"."}
	}
	return args
}
