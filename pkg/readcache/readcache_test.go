package readcache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyIsStableAndDistinct(t *testing.T) {
	p := Params{Level: "minimal"}
	k1 := Key("/a/b.go", 100, 123, p)
	k2 := Key("/a/b.go", 100, 123, p)
	assert.Equal(t, k1, k2)

	k3 := Key("/a/b.go", 101, 123, p)
	assert.NotEqual(t, k1, k3)
}

func TestStoreAndLoadRoundTrip(t *testing.T) {
	c, err := Open(t.TempDir())
	require.NoError(t, err)

	key := Key("/a/b.go", 10, 1, Params{Level: "normal"})
	require.NoError(t, c.Store(key, "hello world"))

	out, ok := c.Load(key)
	require.True(t, ok)
	assert.Equal(t, "hello world", out)
}

func TestLoadMissReturnsFalse(t *testing.T) {
	c, err := Open(t.TempDir())
	require.NoError(t, err)

	_, ok := c.Load("nonexistent")
	assert.False(t, ok)
}

func TestShouldUseBypassesOnRangesAndStdin(t *testing.T) {
	assert.False(t, ShouldUse("", Params{}))
	assert.True(t, ShouldUse("/a/b.go", Params{}))
	assert.False(t, ShouldUse("/a/b.go", Params{From: 1}))
	assert.False(t, ShouldUse("/a/b.go", Params{To: 10}))
	assert.False(t, ShouldUse("/a/b.go", Params{MaxLines: 10}))
	assert.False(t, ShouldUse("/a/b.go", Params{LineNumbers: true}))
}

func TestClearRemovesEntries(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(dir)
	require.NoError(t, err)

	key := Key("/a/b.go", 1, 1, Params{})
	require.NoError(t, c.Store(key, "data"))

	require.NoError(t, c.Clear())

	_, ok := c.Load(key)
	assert.False(t, ok)
}

func TestPathShardsByKeyPrefix(t *testing.T) {
	c, err := Open(t.TempDir())
	require.NoError(t, err)
	key := Key("/x", 1, 1, Params{})
	p := c.path(key)
	assert.Equal(t, key[:2], filepath.Base(filepath.Dir(p)))
}
