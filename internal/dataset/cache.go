package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"

	"enemyintel/internal/stats"
)

// CacheVersion tags the artifact layout. Bump it whenever EnemyRecord or the
// envelope changes shape; older artifacts then read as corrupt and the
// dataset is re-ingested.
const CacheVersion = 1

var (
	// ErrCacheMissing means no artifact exists yet.
	ErrCacheMissing = errors.New("dataset cache missing")
	// ErrCacheCorrupt means the artifact exists but cannot be used.
	ErrCacheCorrupt = errors.New("dataset cache corrupt")
)

type envelope struct {
	Version int          `json:"version"`
	SavedAt time.Time    `json:"saved_at"`
	Levels  []levelEntry `json:"levels"`
}

type levelEntry struct {
	Level stats.Level `json:"level"`
	LevelData
}

// Cache persists a Dataset as zstd-compressed JSON. Validity is
// presence-only: nothing compares the artifact against the source workbook.
type Cache struct {
	path string
}

// NewCache returns a cache stored at path.
func NewCache(path string) *Cache {
	return &Cache{path: path}
}

// Path returns the artifact location.
func (c *Cache) Path() string { return c.path }

// Load reads the artifact. It returns ErrCacheMissing when there is none and
// an error wrapping ErrCacheCorrupt for anything unreadable, including a
// version mismatch.
func (c *Cache) Load() (*Dataset, error) {
	compressed, err := os.ReadFile(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrCacheMissing
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCacheCorrupt, err)
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}
	defer dec.Close()

	raw, err := dec.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: decompress: %v", ErrCacheCorrupt, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrCacheCorrupt, err)
	}
	if env.Version != CacheVersion {
		return nil, fmt.Errorf("%w: version %d, want %d", ErrCacheCorrupt, env.Version, CacheVersion)
	}

	d := New()
	for _, entry := range env.Levels {
		d.Set(entry.Level, entry.LevelData)
	}
	return d, nil
}

// Save writes the artifact atomically: a temp file in the same directory is
// renamed over the old one.
func (c *Cache) Save(d *Dataset) error {
	env := envelope{Version: CacheVersion, SavedAt: time.Now().UTC()}
	for _, level := range d.Levels() {
		data, _ := d.Level(level)
		env.Levels = append(env.Levels, levelEntry{Level: level, LevelData: data})
	}
	raw, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to encode dataset: %w", err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return fmt.Errorf("failed to create encoder: %w", err)
	}
	compressed := enc.EncodeAll(raw, nil)
	_ = enc.Close()

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(c.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(compressed); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write cache: %w", err)
	}
	if err := os.Rename(tmpName, c.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace cache: %w", err)
	}
	return nil
}

// Remove deletes the artifact. A missing artifact is not an error.
func (c *Cache) Remove() error {
	if err := os.Remove(c.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
