package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileCache_GetMissingKey(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	require.NoError(t, err)

	val, err := c.Get(context.Background(), "jar.localdata")
	require.NoError(t, err)
	assert.Empty(t, val)
}

func TestFileCache_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, c.Set(ctx, "jar.localdata", `{"users":["a"]}`, 0))
	val, err := c.Get(ctx, "jar.localdata")
	require.NoError(t, err)
	assert.Equal(t, `{"users":["a"]}`, val)

	require.NoError(t, c.Set(ctx, "jar.localdata", `{}`, 0))
	val, err = c.Get(ctx, "jar.localdata")
	require.NoError(t, err)
	assert.Equal(t, `{}`, val)

	require.NoError(t, c.Delete(ctx, "jar.localdata"))
	val, err = c.Get(ctx, "jar.localdata")
	require.NoError(t, err)
	assert.Empty(t, val)

	// deleting twice is fine
	require.NoError(t, c.Delete(ctx, "jar.localdata"))
}

func TestFileCache_KeyIsEscaped(t *testing.T) {
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	require.NoError(t, err)

	require.NoError(t, c.Set(context.Background(), "../escape/me", "x", 0))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	_, err = os.Stat(filepath.Join(filepath.Dir(dir), "escape"))
	assert.True(t, os.IsNotExist(err))
}

func TestFileCache_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "slots")
	c, err := NewFileCache(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, c.Dir())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestFileCache_CanceledContext(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, c.Set(ctx, "k", "v", 0), context.Canceled)
	assert.ErrorIs(t, c.Delete(ctx, "k"), context.Canceled)
}
