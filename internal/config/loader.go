package config

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// fileNames is the search order inside one directory.
var fileNames = []string{
	"trivet.toml",
	".trivet.toml",
	"trivet.yaml",
	".trivet.yaml",
	"trivet.yml",
	".trivet.yml",
}

// ErrInvalid wraps every semantic problem of a config file.
var ErrInvalid = errors.New("invalid config")

// Find walks from startDir up to the filesystem root and returns the first
// config file it meets.
func Find(startDir string) (string, bool, error) {
	dir, err := filepath.Abs(cmp.Or(startDir, "."))
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for prev := ""; dir != prev; prev, dir = dir, filepath.Dir(dir) {
		for _, name := range fileNames {
			candidate := filepath.Join(dir, name)
			_, err := os.Stat(candidate)
			switch {
			case err == nil:
				return candidate, true, nil
			case !errors.Is(err, fs.ErrNotExist):
				return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
		}
	}
	return "", false, nil
}

// IsConfigFile reports whether the base name of path is one Find looks for.
func IsConfigFile(path string) bool {
	return slices.Contains(fileNames, filepath.Base(path))
}

// Load reads path, or discovers a config upward from startDir when path is
// empty. No file at all yields Default(). Fields a file leaves out keep
// their defaults.
func Load(path, startDir string) (*Config, error) {
	if path == "" {
		found, ok, err := Find(startDir)
		if err != nil {
			return nil, err
		}
		if !ok {
			return Default(), nil
		}
		path = found
	}
	var (
		cfg *Config
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		cfg, err = loadYAML(path)
	default:
		cfg, err = loadTOML(path)
	}
	if err != nil {
		return nil, err
	}
	cfg.Path = path
	// относительный каталог кэша считается от файла конфигурации
	if cfg.Cache.Dir != "" && !filepath.IsAbs(cfg.Cache.Dir) {
		cfg.Cache.Dir = filepath.Join(filepath.Dir(path), filepath.FromSlash(cfg.Cache.Dir))
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func loadTOML(path string) (*Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: %w: unknown keys %s", path, ErrInvalid, strings.Join(keys, ", "))
	}
	// пустой include в файле - явная ошибка, а не «вернуть умолчания»
	if meta.IsDefined("files", "include") && len(cfg.Files.Include) == 0 {
		return nil, fmt.Errorf("%s: %w: [files].include is empty", path, ErrInvalid)
	}
	return cfg, nil
}

func loadYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	// Start from defaults so missing YAML fields retain non-zero defaults.
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Fix.MaxPasses <= 0 {
		return fmt.Errorf("%w: fix.max_passes must be positive", ErrInvalid)
	}
	if len(c.Files.Include) == 0 {
		return fmt.Errorf("%w: files.include is empty", ErrInvalid)
	}
	for i, ext := range c.Files.Include {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			return fmt.Errorf("%w: files.include has an empty entry", ErrInvalid)
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.Files.Include[i] = ext
	}
	for _, pat := range c.Files.Exclude {
		if _, err := filepath.Match(pat, ""); err != nil {
			return fmt.Errorf("%w: files.exclude %q: %v", ErrInvalid, pat, err)
		}
	}
	return nil
}
