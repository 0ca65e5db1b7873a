package library

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carouselhq/carousel/pkg/manager"
	"github.com/carouselhq/carousel/pkg/storage"
)

func newTestLibrary(t *testing.T) (*Library, *manager.Manager, string) {
	t.Helper()

	store, err := storage.NewBoltStore(t.TempDir())
	require.NoError(t, err)
	mgr := manager.NewManager(store)
	t.Cleanup(func() { _ = mgr.Shutdown() })

	dir := t.TempDir()
	lib, err := NewLibrary(mgr, dir)
	require.NoError(t, err)
	return lib, mgr, dir
}

func writeFile(t *testing.T, dir, name string, size int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
	return path
}

func TestScanRegistersMediaFiles(t *testing.T) {
	lib, mgr, dir := newTestLibrary(t)

	writeFile(t, dir, "first.mp4", 1024)
	writeFile(t, dir, "second.MOV", 2048)
	writeFile(t, dir, "notes.txt", 10)

	require.NoError(t, lib.Scan())

	videos, err := mgr.ListVideos()
	require.NoError(t, err)
	require.Len(t, videos, 2)

	names := []string{videos[0].Filename, videos[1].Filename}
	assert.Contains(t, names, "first.mp4")
	assert.Contains(t, names, "second.MOV")
	for _, v := range videos {
		assert.NotEmpty(t, v.ID)
		assert.Greater(t, v.FileSize, int64(0))
	}
}

func TestScanIsIdempotent(t *testing.T) {
	lib, mgr, dir := newTestLibrary(t)
	writeFile(t, dir, "clip.mp4", 100)

	require.NoError(t, lib.Scan())
	require.NoError(t, lib.Scan())

	videos, err := mgr.ListVideos()
	require.NoError(t, err)
	assert.Len(t, videos, 1)
}

func TestWatcherPicksUpNewFiles(t *testing.T) {
	lib, mgr, dir := newTestLibrary(t)

	require.NoError(t, lib.Start())
	defer lib.Stop()

	writeFile(t, dir, "dropped.mp4", 512)

	require.Eventually(t, func() bool {
		videos, err := mgr.ListVideos()
		return err == nil && len(videos) == 1
	}, 5*time.Second, 50*time.Millisecond)

	videos, err := mgr.ListVideos()
	require.NoError(t, err)
	assert.Equal(t, "dropped.mp4", videos[0].Filename)
}

func TestWatcherIgnoresNonMediaFiles(t *testing.T) {
	lib, mgr, dir := newTestLibrary(t)

	require.NoError(t, lib.Start())
	defer lib.Stop()

	writeFile(t, dir, "readme.md", 64)
	time.Sleep(2 * debounceInterval)

	videos, err := mgr.ListVideos()
	require.NoError(t, err)
	assert.Empty(t, videos)
}
