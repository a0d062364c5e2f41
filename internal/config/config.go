// Package config loads trivet.toml (or its YAML twin) and turns it into the
// options of the rule table, the driver and the fix loop.
package config

import (
	"slices"

	"trivet/internal/rules"
)

// Config is the top-level configuration.
type Config struct {
	// Path of the file the config was read from; empty for defaults.
	Path string `toml:"-" yaml:"-"`

	Rules   RulesConfig         `toml:"rules" yaml:"rules"`
	Logging rules.LoggingConfig `toml:"logging" yaml:"logging"`
	Files   FilesConfig         `toml:"files" yaml:"files"`
	Fix     FixConfig           `toml:"fix" yaml:"fix"`
	Cache   CacheConfig         `toml:"cache" yaml:"cache"`
}

// RulesConfig switches rules on and off. References are IDs (TRV1001)
// or names (log-call-blank-lines).
type RulesConfig struct {
	Enable   []string          `toml:"enable" yaml:"enable"`
	Disable  []string          `toml:"disable" yaml:"disable"`
	Severity map[string]string `toml:"severity" yaml:"severity"`
}

// FilesConfig filters directory walks.
type FilesConfig struct {
	Include []string `toml:"include" yaml:"include"`
	Exclude []string `toml:"exclude" yaml:"exclude"`
}

type FixConfig struct {
	MaxPasses int  `toml:"max_passes" yaml:"max_passes"`
	Verify    bool `toml:"verify" yaml:"verify"`
}

type CacheConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	Dir     string `toml:"dir" yaml:"dir"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{
		Files: FilesConfig{
			Include: []string{".cs"},
			Exclude: []string{"bin", "obj", ".git", "*.g.cs", "*.Designer.cs"},
		},
		Fix:   FixConfig{MaxPasses: 8, Verify: true},
		Cache: CacheConfig{Enabled: true},
	}
}

// RuleOptions builds the rule table options.
func (c *Config) RuleOptions() rules.Options {
	return rules.Options{
		Logging:  c.Logging,
		Enable:   slices.Clone(c.Rules.Enable),
		Disable:  slices.Clone(c.Rules.Disable),
		Severity: c.Rules.Severity,
	}
}
