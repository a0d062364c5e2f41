package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("", t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadTOMLDiscoveredUpward(t *testing.T) {
	root := t.TempDir()
	write(t, root, "trivet.toml", `
[rules]
disable = ["TRV2004"]

[rules.severity]
log-call-blank-lines = "error"

[logging]
receivers = ["Audit"]
patterns = ['^Telemetry\.Track\w*$']

[files]
exclude = ["Generated"]

[fix]
max_passes = 3

[cache]
dir = ".cache/trivet"
`)
	sub := filepath.Join(root, "src", "app")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load("", sub)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Path != filepath.Join(root, "trivet.toml") {
		t.Fatalf("Path = %q", cfg.Path)
	}
	if !reflect.DeepEqual(cfg.Rules.Disable, []string{"TRV2004"}) {
		t.Fatalf("Disable = %v", cfg.Rules.Disable)
	}
	if cfg.Rules.Severity["log-call-blank-lines"] != "error" {
		t.Fatalf("Severity = %v", cfg.Rules.Severity)
	}
	if !reflect.DeepEqual(cfg.Logging.Receivers, []string{"Audit"}) || len(cfg.Logging.Patterns) != 1 {
		t.Fatalf("Logging = %+v", cfg.Logging)
	}
	// не заданное в файле остаётся по умолчанию
	if !reflect.DeepEqual(cfg.Files.Include, []string{".cs"}) || !cfg.Fix.Verify || !cfg.Cache.Enabled {
		t.Fatalf("defaults lost: %+v", cfg)
	}
	if cfg.Fix.MaxPasses != 3 {
		t.Fatalf("MaxPasses = %d", cfg.Fix.MaxPasses)
	}
	if cfg.Cache.Dir != filepath.Join(root, ".cache", "trivet") {
		t.Fatalf("Cache.Dir = %q", cfg.Cache.Dir)
	}

	opts := cfg.RuleOptions()
	if opts.Logging.Receivers[0] != "Audit" || opts.Disable[0] != "TRV2004" {
		t.Fatalf("RuleOptions = %+v", opts)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, ".trivet.yaml", `
rules:
  enable: [TRV1001, TRV1002]
files:
  include: [cs, .csx]
fix:
  verify: false
`)
	cfg, err := Load("", dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(cfg.Rules.Enable, []string{"TRV1001", "TRV1002"}) {
		t.Fatalf("Enable = %v", cfg.Rules.Enable)
	}
	if !reflect.DeepEqual(cfg.Files.Include, []string{".cs", ".csx"}) {
		t.Fatalf("Include = %v", cfg.Files.Include)
	}
	if cfg.Fix.Verify || cfg.Fix.MaxPasses != 8 {
		t.Fatalf("Fix = %+v", cfg.Fix)
	}
}

func TestTOMLTakesPrecedenceInSameDirectory(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "trivet.yaml", "fix:\n  max_passes: 2\n")
	write(t, dir, "trivet.toml", "[fix]\nmax_passes = 5\n")
	cfg, err := Load("", dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Fix.MaxPasses != 5 {
		t.Fatalf("MaxPasses = %d, want 5 from trivet.toml", cfg.Fix.MaxPasses)
	}
}

func TestLoadRejectsBadFiles(t *testing.T) {
	cases := []struct {
		name, file, content string
	}{
		{"unknown toml key", "trivet.toml", "[rules]\nenabled = [\"x\"]\n"},
		{"empty include", "trivet.toml", "[files]\ninclude = []\n"},
		{"zero passes", "trivet.toml", "[fix]\nmax_passes = 0\n"},
		{"bad exclude", "trivet.toml", "[files]\nexclude = [\"[\"]\n"},
		{"unknown yaml key", "trivet.yaml", "fix:\n  passes: 3\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := write(t, t.TempDir(), tc.file, tc.content)
			if _, err := Load(p, ""); err == nil {
				t.Fatal("expected error")
			}
		})
	}
	p := write(t, t.TempDir(), "trivet.toml", "[fix]\nmax_passes = 0\n")
	if _, err := Load(p, ""); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestLoadSyntaxError(t *testing.T) {
	p := write(t, t.TempDir(), "trivet.toml", "[rules\n")
	if _, err := Load(p, ""); err == nil || errors.Is(err, ErrInvalid) {
		t.Fatalf("expected parse error, got %v", err)
	}
}
