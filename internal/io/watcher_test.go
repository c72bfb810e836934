package ioutils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestWatcherSignalsMatchingFiles(t *testing.T) {
	dir := t.TempDir()

	w, err := NewWatcher(dir, "*.mp3", logrus.New())
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	select {
	case <-w.Changes():
		t.Fatal("unexpected signal for a non-matching file")
	case <-time.After(2 * DefaultSettleDelay):
	}

	require.NoError(t, os.WriteFile(filepath.Join(dir, "song.mp3"), []byte("x"), 0644))
	select {
	case <-w.Changes():
	case <-time.After(5 * time.Second):
		t.Fatal("no signal after creating an audio file")
	}
}

func TestWatcherClose(t *testing.T) {
	w, err := NewWatcher(t.TempDir(), "", nil)
	require.NoError(t, err)

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	_, ok := <-w.Changes()
	require.False(t, ok)
}

func TestNewWatcherMissingDir(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "missing"), "*.mp3", nil)
	require.Error(t, err)
}
