package cache

import (
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"soul/internal/diag"
	"soul/internal/external"
	"soul/internal/parser"
	"soul/internal/project"
)

// Schema is bumped whenever Entry or anything reachable from it changes shape.
const Schema uint16 = 2

// AppName is the directory under the user cache root.
const AppName = "soul"

// Entry is one cached file: its header and, once parsed, the full response.
type Entry struct {
	Schema  uint16
	Path    string
	ModTime time.Time
	Header  *external.Header
	// Pages - отпечаток всех страниц проекта, против которых разобран Response
	Pages project.Digest
	// Response без ошибок: у SoulError нет экспортируемых полей
	Response *parser.ParserResponse
	Errors   [][]diag.Frame
}

// Fresh reports whether the entry is still valid for a file with modTime.
func (e *Entry) Fresh(modTime time.Time) bool {
	return e != nil && e.Schema == Schema && e.ModTime.Equal(modTime)
}

// Cache хранит результаты разбора по пути файла. Thread-safe.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// DefaultDir returns $XDG_CACHE_HOME/soul, falling back to ~/.cache/soul.
func DefaultDir() (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, AppName), nil
}

// Open creates the cache directory. An empty dir means DefaultDir.
func Open(dir string) (*Cache, error) {
	if dir == "" {
		var err error
		if dir, err = DefaultDir(); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *Cache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *Cache) pathFor(key project.Digest) string {
	return filepath.Join(c.dir, "files", hex.EncodeToString(key[:])+".mp")
}

// Put stores entry under the key of its path. Errors in entry.Response are
// moved into entry.Errors as frames.
func (c *Cache) Put(entry *Entry) error {
	if c == nil || entry == nil {
		return nil
	}
	stored := *entry
	stored.Schema = Schema
	if entry.Response != nil {
		resp := *entry.Response
		stored.Errors = make([][]diag.Frame, 0, len(resp.Errors))
		for _, e := range resp.Errors {
			stored.Errors = append(stored.Errors, e.Frames())
		}
		resp.Errors = nil
		stored.Response = &resp
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(project.PathKey(entry.Path))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	// после Rename удалять уже нечего, ошибку игнорируем
	defer os.Remove(f.Name()) //nolint:errcheck

	if err := msgpack.NewEncoder(f).Encode(&stored); err != nil {
		f.Close() //nolint:errcheck
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get loads the entry for path. It reports false when nothing is stored or
// the stored entry was written with another schema.
func (c *Cache) Get(path string) (*Entry, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(project.PathKey(path)))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close() //nolint:errcheck

	var entry Entry
	if err := msgpack.NewDecoder(f).Decode(&entry); err != nil {
		return nil, false, err
	}
	if entry.Schema != Schema {
		return nil, false, nil
	}
	if entry.Response != nil {
		entry.Response.Errors = make([]*diag.SoulError, 0, len(entry.Errors))
		for _, frames := range entry.Errors {
			if e := diag.FromFrames(frames); e != nil {
				entry.Response.Errors = append(entry.Response.Errors, e)
			}
		}
	}
	return &entry, true, nil
}

// Lookup returns the entry for path only if it is fresh for modTime.
// Decode failures count as a miss: the entry gets rewritten on the next Put.
func (c *Cache) Lookup(path string, modTime time.Time) (*Entry, bool) {
	entry, ok, err := c.Get(path)
	if err != nil || !ok || !entry.Fresh(modTime) {
		return nil, false
	}
	return entry, true
}

// Clean removes every cached entry.
func (c *Cache) Clean() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// тривиально: переименуем каталог и удалим
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}
