package atomicio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	res, err := Write(path, []byte("hello"), Durable, false)
	require.NoError(t, err)
	require.False(t, res.SkippedUnchanged)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "hello", string(got))
}

func TestWriteOverwritesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	_, err := Write(path, []byte("v1"), Fast, false)
	require.NoError(t, err)

	_, err = Write(path, []byte("v2"), Fast, false)
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "v2", string(got))
}

func TestWriteIdempotentSkip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	_, err := Write(path, []byte("same"), Fast, true)
	require.NoError(t, err)

	res, err := Write(path, []byte("same"), Fast, true)
	require.NoError(t, err)
	require.True(t, res.SkippedUnchanged)
}

func TestWriteIdempotentSkipDoesNotApplyWhenContentDiffers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	_, err := Write(path, []byte("old"), Fast, true)
	require.NoError(t, err)

	res, err := Write(path, []byte("new"), Fast, true)
	require.NoError(t, err)
	require.False(t, res.SkippedUnchanged)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "new", string(got))
}

func TestWriteNoTempFileLeftBehind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")
	_, err := Write(path, []byte("content"), Durable, false)
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "out.txt", entries[0].Name())
}
