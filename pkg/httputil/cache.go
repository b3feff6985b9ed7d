// Package httputil provides the file-backed response cache and retry helper
// shared by the PyPI clients.
package httputil

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"
)

// ErrExpired is returned by [Cache.Get] when an entry exists on disk but has
// exceeded its TTL. Callers should fetch fresh data and refresh the entry
// with [Cache.Set].
var ErrExpired = errors.New("cache entry expired")

// Cache stores JSON-marshalable values as files, one file per key. Filenames
// are derived from a SHA-256 hash of the namespaced key, sharded into
// two-character subdirectories to keep directory listings short. Entry age
// is tracked through file modification time; a TTL of 0 disables expiry.
//
// A Cache is not goroutine-safe. Separate Cache values (even in other
// processes) may share a directory.
type Cache struct {
	dir    string
	ttl    time.Duration
	prefix string
}

// NewCache creates a Cache rooted at dir with the given TTL. An empty dir
// selects ~/.cache/pip-browse. The directory is created if missing.
func NewCache(dir string, ttl time.Duration) (*Cache, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(home, ".cache", "pip-browse")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir, ttl: ttl}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string { return c.dir }

// TTL returns the entry time-to-live. Zero means entries never expire.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Get unmarshals the cached value for key into v.
//
// Outcomes: (true, nil) on a fresh hit; (false, nil) on a miss;
// (false, ErrExpired) when the entry outlived its TTL; (false, err) on I/O
// or decode failures.
func (c *Cache) Get(key string, v any) (bool, error) {
	path := c.keyPath(key)
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if c.ttl > 0 && time.Since(info.ModTime()) > c.ttl {
		return false, ErrExpired
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(data, v)
}

// Set marshals v and stores it under key, resetting the entry's age.
func (c *Cache) Set(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	path := c.keyPath(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Namespace returns a view of the cache that prefixes every key, keeping
// different data sources (JSON API vs. HTML pages) from colliding:
//
//	jsonCache := cache.Namespace("pypi:")
//	htmlCache := cache.Namespace("browser:")
func (c *Cache) Namespace(prefix string) *Cache {
	return &Cache{dir: c.dir, ttl: c.ttl, prefix: c.prefix + prefix}
}

func (c *Cache) keyPath(key string) string {
	sum := sha256.Sum256([]byte(c.prefix + key))
	name := hex.EncodeToString(sum[:])
	return filepath.Join(c.dir, name[:2], name[2:]+".json")
}
