package source

import (
	"path/filepath"
	"testing"
)

func TestRelativePath(t *testing.T) {
	base := filepath.Join(t.TempDir(), "repo")
	outside := filepath.Join(filepath.Dir(base), "vendor", "Lib.cs")
	cases := []struct {
		name   string
		target string
		want   string
	}{
		{"nested", filepath.Join(base, "src", "Program.cs"), "src/Program.cs"},
		{"base itself", base, "."},
		// за пределами base - абсолютный путь, а не цепочка "../"
		{"outside", outside, normalizePath(outside)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := RelativePath(tc.target, base)
			if err != nil {
				t.Fatalf("RelativePath: %v", err)
			}
			if got != tc.want {
				t.Fatalf("RelativePath(%q) = %q, want %q", tc.target, got, tc.want)
			}
		})
	}
}

func TestLineColAtLineBoundaries(t *testing.T) {
	idx := buildLineIndex([]byte("ab\n\ncd"))
	cases := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{2, LineCol{1, 3}}, // сам '\n' ещё на первой строке
		{3, LineCol{2, 1}},
		{4, LineCol{3, 1}},
		{6, LineCol{3, 3}},
	}
	for _, tc := range cases {
		if got := toLineCol(idx, tc.off); got != tc.want {
			t.Errorf("toLineCol(%d) = %+v, want %+v", tc.off, got, tc.want)
		}
	}
}

func TestRemoveBOM(t *testing.T) {
	body, had := removeBOM([]byte("\xEF\xBB\xBFclass A {}"))
	if !had || string(body) != "class A {}" {
		t.Fatalf("removeBOM = %q, %v", body, had)
	}
	if _, had := removeBOM([]byte("class A {}")); had {
		t.Fatalf("no BOM expected")
	}
}
