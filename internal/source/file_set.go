package source

import (
	"crypto/sha256"
	"fmt"
	"os"

	"fortio.org/safecast"
)

// FileSet owns every file of one run. Re-adding a path yields a fresh
// FileID; earlier versions stay readable so spans into them keep resolving.
type FileSet struct {
	files []File
	base  string // корень для относительных путей
}

func NewFileSet() *FileSet {
	return &FileSet{}
}

// NewFileSetWithBase makes a FileSet whose relative paths are printed
// against base.
func NewFileSetWithBase(base string) *FileSet {
	return &FileSet{base: base}
}

// BaseDir is the directory paths are made relative to; the working
// directory when none was given.
func (fileSet *FileSet) BaseDir() string {
	if fileSet.base != "" {
		return fileSet.base
	}
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}

func (fileSet *FileSet) Len() int { return len(fileSet.files) }

// Add indexes content and appends it as a new version of path.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	n, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("file set overflow: %w", err))
	}
	if hasCRLF(content) {
		flags |= FileHasCRLF
	}
	fileSet.files = append(fileSet.files, File{
		ID:      FileID(n),
		Path:    normalizePath(path),
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	})
	return FileID(n)
}

// AddVirtual adds in-memory content (stdin, tests, editor buffers).
func (fileSet *FileSet) AddVirtual(name string, content []byte) FileID {
	return fileSet.Add(name, content, FileVirtual)
}

// Load reads path from disk. A leading UTF-8 BOM is stripped and
// remembered in the flags; line endings are kept as they are.
func (fileSet *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	var flags FileFlags
	content, bom := removeBOM(raw)
	if bom {
		flags = FileHadBOM
	}
	return fileSet.Add(path, content, flags), nil
}

// Get returns nil for an id this set never issued.
func (fileSet *FileSet) Get(id FileID) *File {
	if int(id) >= len(fileSet.files) {
		return nil
	}
	return &fileSet.files[id]
}

// Resolve turns a span into 1-based line/byte-column pairs.
func (fileSet *FileSet) Resolve(span Span) (start, end LineCol) {
	idx := fileSet.files[span.File].LineIdx
	return toLineCol(idx, span.Start), toLineCol(idx, span.End)
}
