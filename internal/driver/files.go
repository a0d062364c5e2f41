package driver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// DefaultInclude lists the extensions analysed when none are configured.
var DefaultInclude = []string{".cs"}

// FileFilter selects the files a directory walk yields.
type FileFilter struct {
	// Include: расширения с точкой (".cs"); пусто = DefaultInclude.
	Include []string
	// Exclude: glob-шаблоны filepath.Match. Шаблон проверяется против
	// пути относительно корня обхода и против каждого его элемента, так что
	// "bin" отсекает каталог целиком, а "*.g.cs" - сгенерированные файлы.
	Exclude []string
}

// ErrNoFiles is returned when the paths yield nothing to analyse.
var ErrNoFiles = errors.New("driver: no source files found")

// Discover expands paths into a sorted, de-duplicated file list. Explicit
// file arguments are taken as is, whatever their extension; directories
// are walked recursively through the filter.
func Discover(paths []string, filter FileFilter) ([]string, error) {
	for _, pat := range filter.Exclude {
		if _, err := filepath.Match(pat, ""); err != nil {
			return nil, fmt.Errorf("driver: bad exclude pattern %q: %w", pat, err)
		}
	}
	include := filter.Include
	if len(include) == 0 {
		include = DefaultInclude
	}

	var out []string
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("driver: %w", err)
		}
		if !info.IsDir() {
			out = append(out, filepath.ToSlash(filepath.Clean(root)))
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				rel = path
			}
			if rel != "." && excluded(filepath.ToSlash(rel), filter.Exclude) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.IsDir() && hasExt(path, include) {
				out = append(out, filepath.ToSlash(filepath.Clean(path)))
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("driver: walk %s: %w", root, err)
		}
	}
	// Сортируем для детерминированного порядка
	slices.Sort(out)
	out = slices.Compact(out)
	if len(out) == 0 {
		return nil, ErrNoFiles
	}
	return out, nil
}

func hasExt(path string, exts []string) bool {
	for _, ext := range exts {
		if strings.EqualFold(filepath.Ext(path), ext) {
			return true
		}
	}
	return false
}

func excluded(rel string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	elems := strings.Split(rel, "/")
	for _, pat := range patterns {
		if ok, _ := filepath.Match(pat, rel); ok {
			return true
		}
		for _, e := range elems {
			if ok, _ := filepath.Match(pat, e); ok {
				return true
			}
		}
	}
	return false
}
