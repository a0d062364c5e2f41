package lsp

import (
	"path/filepath"
	"testing"
)

func TestCanonicalURI(t *testing.T) {
	dir := t.TempDir()
	want := pathToURI(filepath.Join(dir, "My File.cs"))
	cases := []string{
		want,
		pathToURI(dir) + "/./My%20File.cs",
		pathToURI(dir) + "/sub/../My%20File.cs",
	}
	for _, in := range cases {
		if got := canonicalURI(in); got != want {
			t.Errorf("canonicalURI(%q) = %q, want %q", in, got, want)
		}
	}
	for _, in := range []string{"", "untitled:Untitled-1", "https://example.com/a.cs"} {
		if got := canonicalURI(in); got != "" {
			t.Errorf("canonicalURI(%q) = %q, want empty", in, got)
		}
	}
}

func TestURIPathRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "src", "Program.cs")
	if got := uriToPath(pathToURI(path)); got != path {
		t.Fatalf("round trip = %q, want %q", got, path)
	}
}
