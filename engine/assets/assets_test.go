package assets

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) (*AssetManager, string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "shaders"), 0o755))

	am, err := NewAssetManager()
	require.NoError(t, err)
	require.NoError(t, am.Initialize(dir))
	t.Cleanup(func() { _ = am.Shutdown() })
	return am, dir
}

func TestInitializeMissingDir(t *testing.T) {
	am, err := NewAssetManager()
	require.NoError(t, err)
	t.Cleanup(func() { _ = am.Shutdown() })

	assert.Error(t, am.Initialize(filepath.Join(t.TempDir(), "nope")))
}

func TestLoadShaderSource(t *testing.T) {
	am, dir := newTestManager(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "shaders", "block.vert"), []byte("v"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shaders", "block.frag"), []byte("f"), 0o644))

	vertex, fragment, err := am.LoadShaderSource("block")
	require.NoError(t, err)
	assert.Equal(t, "v", vertex)
	assert.Equal(t, "f", fragment)
}

func TestLoadShaderSourceMissing(t *testing.T) {
	am, _ := newTestManager(t)

	_, _, err := am.LoadShaderSource("ghost")
	assert.Error(t, err)
}

func TestDrainChangesPicksUpWrites(t *testing.T) {
	am, dir := newTestManager(t)

	path := filepath.Join(dir, "shaders", "block.vert")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("v2"), 0o644))

	// The watcher delivers on its own goroutine; poll briefly.
	deadline := time.Now().Add(2 * time.Second)
	var names []string
	for time.Now().Before(deadline) {
		names = am.DrainChanges()
		if len(names) > 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	require.NotEmpty(t, names)
	assert.Contains(t, names, "block")
}

func TestDrainChangesDeduplicates(t *testing.T) {
	am, _ := newTestManager(t)

	am.mutex.Lock()
	require.NoError(t, am.pending.Enqueue("block"))
	require.NoError(t, am.pending.Enqueue("block"))
	require.NoError(t, am.pending.Enqueue("sky"))
	am.mutex.Unlock()

	names := am.DrainChanges()
	assert.ElementsMatch(t, []string{"block", "sky"}, names)
	assert.Empty(t, am.DrainChanges())
}

func TestShaderNameFiltering(t *testing.T) {
	name, ok := shaderName("/assets/shaders/block.vert")
	require.True(t, ok)
	assert.Equal(t, "block", name)

	name, ok = shaderName("/assets/shaders/block.frag")
	require.True(t, ok)
	assert.Equal(t, "block", name)

	_, ok = shaderName("/assets/shaders/notes.txt")
	assert.False(t, ok)
}
