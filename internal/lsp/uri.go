package lsp

import (
	"net/url"
	"path/filepath"
	"strings"
)

// uriToPath maps a file URI (or a bare path) to an absolute OS path.
// Other schemes, e.g. "untitled:", have no path.
func uriToPath(uri string) string {
	if uri == "" {
		return ""
	}
	path := uri
	if strings.Contains(uri, ":") {
		u, err := url.Parse(uri)
		switch {
		case err != nil:
			return ""
		case u.Scheme == "file":
			path = u.Path // already unescaped
		case len(u.Scheme) == 1:
			// "C:\x.cs" parses with scheme "c"
		default:
			return ""
		}
	}
	path = filepath.FromSlash(path)
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return path
}

func pathToURI(path string) string {
	if path == "" {
		return ""
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

// canonicalURI folds spellings of the same file ("file:///a/./b.cs",
// percent-escapes) into one key; "" when the URI has no file path.
func canonicalURI(uri string) string {
	path := uriToPath(uri)
	if path == "" {
		return ""
	}
	return pathToURI(filepath.Clean(path))
}
