package watcher

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchTriggersCallback(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "landmarks.yaml")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(target, []byte("landmarks: {}\n"), 0o644))

	fw, err := NewFileWatcher(20*time.Millisecond, nil)
	require.NoError(t, err)
	defer fw.Close()

	changed := make(chan string, 10)
	require.NoError(t, fw.Watch([]string{target}, func(path string) { changed <- path }))
	fw.Start()

	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(target, []byte("landmarks: {a: {position: [0, 0, 0]}}\n"), 0o644))

	select {
	case path := <-changed:
		want, _ := filepath.Abs(target)
		assert.Equal(t, want, path)
	case <-time.After(5 * time.Second):
		t.Fatal("callback was not called")
	}
}

func TestWatchDebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "mesh.stl")
	require.NoError(t, os.WriteFile(target, nil, 0o644))

	fw, err := NewFileWatcher(200*time.Millisecond, nil)
	require.NoError(t, err)
	defer fw.Close()

	var calls atomic.Int32
	require.NoError(t, fw.Watch([]string{target}, func(string) { calls.Add(1) }))
	fw.Start()

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(target, []byte{byte(i)}, 0o644))
	}

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 5*time.Second, 20*time.Millisecond)
	time.Sleep(400 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestWatchMissingDirectory(t *testing.T) {
	fw, err := NewFileWatcher(time.Millisecond, nil)
	require.NoError(t, err)
	defer fw.Close()

	err = fw.Watch([]string{filepath.Join(t.TempDir(), "absent", "mesh.stl")}, func(string) {})
	assert.Error(t, err)
}
