package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
}

func TestColoredWithoutEscapes(t *testing.T) {
	saved, savedNo := Version, color.NoColor
	defer func() { Version, color.NoColor = saved, savedNo }()
	color.NoColor = true

	cases := []struct{ in, want string }{
		{"0.1.0-dev", "0.1.0-dev"},
		{"1.2.3", "1.2.3"},
		{"1.0.0-beta.1", "1.0.0-beta.1"},
		{"weird", "weird"},
		{"", "dev"},
	}
	for _, tc := range cases {
		Version = tc.in
		if got := Colored(); got != tc.want {
			t.Errorf("Colored(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestColoredAddsEscapes(t *testing.T) {
	saved, savedNo := Version, color.NoColor
	defer func() { Version, color.NoColor = saved, savedNo }()
	color.NoColor = false
	Version = "1.2.3"
	if got := Colored(); got == "1.2.3" {
		t.Fatalf("expected colored output, got plain %q", got)
	}
}

func BenchmarkColored(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = Colored()
	}
}
