// Package buildcache stores compiled units keyed by source content so an
// unchanged file skips parse, lower and codegen on the next pack.
package buildcache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/NovaVoxel/NovaLang/internal/nomc"
	"github.com/NovaVoxel/NovaLang/internal/project"
)

// schemaVersion is bumped when Entry changes shape.
const schemaVersion uint16 = 1

// ErrCorrupt reports an entry that could not be decoded or does not match
// its key.
var ErrCorrupt = errors.New("buildcache: corrupt entry")

// Cache is a directory of msgpack entries. Safe for concurrent use.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// Entry is one cached compilation.
type Entry struct {
	Schema     uint16
	Format     uint8 // nomc.FormatVersion the unit was encoded with
	Module     string
	SourceHash project.Digest
	Unit       []byte
}

// Open uses dir, creating it when missing.
func Open(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("buildcache: %w", err)
	}
	return &Cache{dir: dir}, nil
}

// OpenDefault opens $XDG_CACHE_HOME/<app>, falling back to ~/.cache/<app>.
func OpenDefault(app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return Open(filepath.Join(base, app))
}

// Key derives the lookup key for a module compiled from src. The module
// name is part of the key because it is embedded in the unit.
func Key(module string, src []byte) project.Digest {
	return project.Combine(project.Sum(src), []byte{nomc.FormatVersion}, []byte(module))
}

func (c *Cache) pathFor(key project.Digest) string {
	return filepath.Join(c.dir, "units", key.String()+".mp")
}

// Put writes an entry atomically.
func (c *Cache) Put(key project.Digest, e *Entry) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	e.Schema = schemaVersion
	e.Format = nomc.FormatVersion
	if err = msgpack.NewEncoder(f).Encode(e); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads the entry for key. A miss returns (nil, nil); an unreadable or
// stale-schema entry returns ErrCorrupt so the caller can warn and rebuild.
func (c *Cache) Get(key project.Digest) (*Entry, error) {
	if c == nil {
		return nil, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var e Entry
	if err := msgpack.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if e.Schema != schemaVersion || e.Format != nomc.FormatVersion || len(e.Unit) == 0 {
		return nil, ErrCorrupt
	}
	return &e, nil
}

// Drop removes one entry.
func (c *Cache) Drop(key project.Digest) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	err := os.Remove(c.pathFor(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// DropAll empties the cache.
func (c *Cache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "units"))
}
