package fetcher

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Cache stores fetched filter lists on disk, one file per source name.
// Freshness is tracked through file modification times rather than a
// separate metadata file, so a manually deleted entry is simply re-fetched.
type Cache struct {
	// dir is the directory cached filter lists are written to.
	dir string
}

// NewCache creates the cache directory if needed and returns a Cache
// rooted at dir.
func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Cache{dir: dir}, nil
}

// Path returns the on-disk path for the named source.
func (c *Cache) Path(name string) string {
	return filepath.Join(c.dir, name+".txt")
}

// Load reads the cached copy of the named source.
// It returns ErrNotCached when no copy exists.
func (c *Cache) Load(name string) ([]byte, error) {
	data, err := os.ReadFile(c.Path(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotCached
		}
		return nil, err
	}
	return data, nil
}

// Store writes data as the cached copy of the named source.
//
// Design decision: We write to a temporary file and rename it into place
// so a crash mid-write never leaves a truncated filter list behind.
// Rename is atomic within a directory on the platforms we support.
func (c *Cache) Store(name string, data []byte) error {
	tmp, err := os.CreateTemp(c.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary cache file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()           //nolint:errcheck,gosec // Already failing, cleanup only
		os.Remove(tmpPath)    //nolint:errcheck,gosec // Best-effort cleanup
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath) //nolint:errcheck,gosec // Best-effort cleanup
		return fmt.Errorf("failed to close cache file: %w", err)
	}

	if err := os.Rename(tmpPath, c.Path(name)); err != nil {
		os.Remove(tmpPath) //nolint:errcheck,gosec // Best-effort cleanup
		return fmt.Errorf("failed to finalize cache file: %w", err)
	}
	return nil
}

// Fresh reports whether the cached copy of the named source exists and
// was stored within the freshness window. A zero window means a cached
// copy is never fresh, which forces a fetch on every run.
func (c *Cache) Fresh(name string, window time.Duration) bool {
	info, err := os.Stat(c.Path(name))
	if err != nil {
		return false
	}
	if window <= 0 {
		return false
	}
	return time.Since(info.ModTime()) <= window
}
