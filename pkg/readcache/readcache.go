// Package readcache implements the content-addressed read cache
// (spec component C5): a directory of files under the user's cache root,
// keyed by (absolute path, size, mtime, filter params).
package readcache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Params are the filter-affecting parameters folded into the cache key.
type Params struct {
	Level       string
	From        int
	To          int
	MaxLines    int
	LineNumbers bool
	Dedup       bool
}

// TTL is the cache-entry expiry window (spec.md §3 "24h").
const TTL = 24 * time.Hour

// Cache is a directory-backed store of rendered filter outputs.
type Cache struct {
	root string
}

// Open returns a Cache rooted at dir (created if absent).
func Open(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("readcache: mkdir %s: %w", dir, err)
	}
	return &Cache{root: dir}, nil
}

// Key builds the cache key for (absPath, size, mtimeNs, params). Two calls
// with identical inputs always return the identical key.
func Key(absPath string, size int64, mtimeNs int64, p Params) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%d|%d|%s|%d|%d|%d|%t|%t",
		absPath, size, mtimeNs, p.Level, p.From, p.To, p.MaxLines, p.LineNumbers, p.Dedup)
	return hex.EncodeToString(h.Sum(nil))
}

// ShouldUse reports whether the read cache applies for the given read
// parameters — bypassed when ranges/max-lines/line-numbers are combined
// with a cached level, or when reading from stdin (absPath == "").
func ShouldUse(absPath string, p Params) bool {
	if absPath == "" {
		return false
	}
	if p.From != 0 || p.To != 0 || p.MaxLines != 0 || p.LineNumbers {
		return false
	}
	return true
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.root, key[:2], key)
}

// Load returns the cached output for key, or ("", false) on miss or expiry.
func (c *Cache) Load(key string) (string, bool) {
	path := c.path(key)
	info, err := os.Stat(path)
	if err != nil {
		return "", false
	}
	if time.Since(info.ModTime()) > TTL {
		_ = os.Remove(path)
		return "", false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return string(data), true
}

// Store writes output under key.
func (c *Cache) Store(key, output string) error {
	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("readcache: mkdir: %w", err)
	}
	return os.WriteFile(path, []byte(output), 0o644)
}

// Clear removes all cache entries.
func (c *Cache) Clear() error {
	entries, err := os.ReadDir(c.root)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(c.root, e.Name())); err != nil {
			return err
		}
	}
	return nil
}
