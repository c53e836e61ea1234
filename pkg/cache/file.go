package cache

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// FileCache stores each key as one file under a directory.
// Expirations are ignored: slots live until deleted.
type FileCache struct {
	dir string
}

// NewFileCache creates the directory if needed and returns a FileCache on it.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory %s: %w", dir, err)
	}
	return &FileCache{dir: dir}, nil
}

// Dir returns the directory backing the cache.
func (f *FileCache) Dir() string { return f.dir }

func (f *FileCache) path(key string) string {
	return filepath.Join(f.dir, url.PathEscape(key)+".json")
}

// Get reads the slot for key.
func (f *FileCache) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(f.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read key %s: %w", key, err)
	}
	return string(data), nil
}

// Set replaces the slot for key. The write goes through a temporary file and a
// rename so a reader never sees a partial value.
func (f *FileCache) Set(ctx context.Context, key string, value string, _ time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(f.dir, ".slot-*")
	if err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), f.path(key)); err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	return nil
}

// Delete removes the slot for key. Deleting a missing key is not an error.
func (f *FileCache) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(f.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

// Close is a no-op for files.
func (f *FileCache) Close() error { return nil }
