package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoopFiresOnDebounceAfterFileChange(t *testing.T) {
	dir := t.TempDir()
	fired := make(chan struct{}, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- Loop(ctx, Options{
			Root:     dir,
			Debounce: 50 * time.Millisecond,
			OnDebounceFire: func() {
				select {
				case fired <- struct{}{}:
				default:
				}
			},
		})
	}()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hi"), 0o644))

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("debounce never fired")
	}
	cancel()
	<-done
}

func TestLoopStopsOnContextCancel(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- Loop(ctx, Options{Root: dir, Debounce: 10 * time.Millisecond}) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop after cancel")
	}
}

func TestDefaultSkipDirsExcludesGit(t *testing.T) {
	assert.True(t, DefaultSkipDirs[".git"])
	assert.True(t, DefaultSkipDirs["node_modules"])
	assert.False(t, DefaultSkipDirs["src"])
}
