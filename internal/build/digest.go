package build

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/renameio"

	routeerrors "github.com/conneroisu/routegen/internal/errors"
)

type digestEntry struct {
	modTime time.Time
	size    int64
	digest  uint64
}

// DigestCache remembers the digest of every artifact it has written or read,
// keyed by path and invalidated by modification time and size, so an
// unchanged artifact is detected without reading it back.
type DigestCache struct {
	entries map[string]digestEntry
	mu      sync.Mutex
}

// NewDigestCache creates an empty digest cache.
func NewDigestCache() *DigestCache {
	return &DigestCache{entries: make(map[string]digestEntry)}
}

// Digest returns the content digest used to compare artifacts.
func Digest(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// current returns the digest of the file at path, or false when the file
// does not exist.
func (c *DigestCache) current(path string) (uint64, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, false
	}

	c.mu.Lock()
	entry, ok := c.entries[path]
	c.mu.Unlock()
	if ok && entry.size == info.Size() && entry.modTime.Equal(info.ModTime()) {
		return entry.digest, true
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	digest := Digest(data)
	c.remember(path, info, digest)
	return digest, true
}

func (c *DigestCache) remember(path string, info os.FileInfo, digest uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path] = digestEntry{modTime: info.ModTime(), size: info.Size(), digest: digest}
}

// WriteIfChanged atomically replaces path with data unless the file's digest
// already matches. It reports whether a write happened.
func (c *DigestCache) WriteIfChanged(path string, data []byte) (bool, error) {
	digest := Digest(data)
	if existing, ok := c.current(path); ok && existing == digest {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, routeerrors.NewIOError(routeerrors.ErrCodeWriteFailed,
			"creating artifact directory", err).WithFile(path)
	}
	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return false, routeerrors.NewIOError(routeerrors.ErrCodeWriteFailed,
			fmt.Sprintf("writing artifact %s", filepath.Base(path)), err).WithFile(path)
	}

	if info, err := os.Stat(path); err == nil {
		c.remember(path, info, digest)
	}
	return true, nil
}
