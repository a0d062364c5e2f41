package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"trivet/internal/diag"
	"trivet/internal/rules"
	"trivet/internal/source"
	"trivet/internal/version"
)

// cacheSchema goes up whenever cacheEntry or anything it embeds changes shape.
const cacheSchema uint16 = 1

var errLazyFix = errors.New("driver: cannot cache lazy fixes")

// Digest names one cache entry.
type Digest [sha256.Size]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// DiskCache maps file digests to the diagnostics computed for them. Each
// entry is one msgpack file written by rename, so concurrent workers never
// see a partial entry.
type DiskCache struct {
	dir string
}

type cacheEntry struct {
	Schema      uint16            `msgpack:"schema"`
	Diagnostics []diag.Diagnostic `msgpack:"diags"`
}

// DefaultCacheDir is app under the platform's user cache directory
// ($XDG_CACHE_HOME or ~/.cache on Linux, ~/Library/Caches on macOS,
// %LocalAppData% on Windows).
func DefaultCacheDir(app string) (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("driver: cache dir: %w", err)
	}
	return filepath.Join(base, app), nil
}

func OpenDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("driver: cache dir: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

// Key binds an entry to the file content, the trivet version and the rule
// configuration summarised by fingerprint.
func Key(fingerprint string, file *source.File) Digest {
	h := sha256.New()
	fmt.Fprintf(h, "trivet-cache/%d\x00%s\x00%s\x00", cacheSchema, version.Version, fingerprint)
	_, _ = h.Write(file.Hash[:])
	var d Digest
	h.Sum(d[:0])
	return d
}

// Fingerprint digests rule options; maps are encoded with sorted keys so
// equal options always agree.
func Fingerprint(opts rules.Options) (string, error) {
	h := sha256.New()
	enc := msgpack.NewEncoder(h)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(&opts); err != nil {
		return "", fmt.Errorf("driver: fingerprint: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// path shards entries by the first key byte.
func (c *DiskCache) path(key Digest) string {
	name := key.String()
	return filepath.Join(c.dir, "files", name[:2], name+".mp")
}

// Put stores diags under key. Fixes still holding a thunk have no edits
// to store, so such files are rejected with an error.
func (c *DiskCache) Put(key Digest, diags []diag.Diagnostic) error {
	if c == nil {
		return nil
	}
	for _, d := range diags {
		for _, f := range d.Fixes {
			if f != nil && f.Thunk != nil {
				return errLazyFix
			}
		}
	}
	data, err := msgpack.Marshal(&cacheEntry{Schema: cacheSchema, Diagnostics: diags})
	if err != nil {
		return err
	}
	return writeAtomic(c.path(key), data)
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "tmp-*")
	if err != nil {
		return err
	}
	_, werr := tmp.Write(data)
	if err := errors.Join(werr, tmp.Close()); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return nil
}

// Get loads the entry for key with every span moved to file. Missing
// entries and entries of an older schema are plain misses.
func (c *DiskCache) Get(key Digest, file source.FileID) ([]diag.Diagnostic, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	data, err := os.ReadFile(c.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var entry cacheEntry
	if err := msgpack.Unmarshal(data, &entry); err != nil {
		return nil, false, fmt.Errorf("driver: cache entry %s: %w", key, err)
	}
	if entry.Schema != cacheSchema {
		return nil, false, nil
	}
	for i := range entry.Diagnostics {
		moveToFile(&entry.Diagnostics[i], file)
	}
	return entry.Diagnostics, true, nil
}

// moveToFile rewrites the FileID of the run that filled the cache.
func moveToFile(d *diag.Diagnostic, file source.FileID) {
	d.Primary.File = file
	for i := range d.Notes {
		d.Notes[i].Span.File = file
	}
	for _, f := range d.Fixes {
		if f == nil {
			continue
		}
		for i := range f.Edits {
			f.Edits[i].Span.File = file
		}
	}
}
