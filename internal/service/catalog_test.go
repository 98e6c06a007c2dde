package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bnema/recode/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string, size int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
	return path
}

func TestDiscover_FiltersAndSortsBySize(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "small.mkv", 100)
	writeFile(t, dir, "big.mp4", 3000)
	writeFile(t, dir, "medium.avi", 2000)
	writeFile(t, dir, "notes.txt", 5000)
	writeFile(t, dir, "song.mp3", 4000)

	items, err := NewCatalog(NewRunLog()).Discover(dir)
	require.NoError(t, err)

	require.Len(t, items, 3)
	assert.Equal(t, "big.mp4", filepath.Base(items[0].Path))
	assert.Equal(t, int64(3000), items[0].Size)
	assert.Equal(t, "medium.avi", filepath.Base(items[1].Path))
	assert.Equal(t, "small.mkv", filepath.Base(items[2].Path))
}

func TestDiscover_CaseInsensitiveExtensions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "upper.MKV", 10)
	writeFile(t, dir, "mixed.Mp4", 20)

	items, err := NewCatalog(NewRunLog()).Discover(dir)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestDiscover_Recurses(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "top.mkv", 10)
	writeFile(t, dir, filepath.Join("shows", "s01", "ep1.mkv"), 30)
	writeFile(t, dir, filepath.Join("movies", "film.mp4"), 20)

	items, err := NewCatalog(NewRunLog()).Discover(dir)
	require.NoError(t, err)

	require.Len(t, items, 3)
	assert.Equal(t, "ep1.mkv", filepath.Base(items[0].Path))
	assert.Equal(t, "film.mp4", filepath.Base(items[1].Path))
	assert.Equal(t, "top.mkv", filepath.Base(items[2].Path))
}

func TestDiscover_MissingRoot(t *testing.T) {
	_, err := NewCatalog(NewRunLog()).Discover(filepath.Join(t.TempDir(), "nope"))
	require.ErrorIs(t, err, domain.ErrRootNotFound)
}

func TestDiscover_EmptyTree(t *testing.T) {
	items, err := NewCatalog(NewRunLog()).Discover(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, items)
}
