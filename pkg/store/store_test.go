package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "memory.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreArtifactRoundTrip(t *testing.T) {
	s := openTestStore(t)

	blob := []byte(`{"hello":"world"}`)
	require.NoError(t, s.StoreArtifact("proj1", "/tmp/proj1", blob, 42, 3))

	row, err := s.LoadArtifact("proj1")
	require.NoError(t, err)
	require.NotNil(t, row)
	require.Equal(t, "/tmp/proj1", row.ProjectRoot)
	require.Equal(t, string(blob), string(row.Blob))
	require.Equal(t, int64(42), row.TotalBytes)
	require.Equal(t, 3, row.FileCount)
}

func TestLoadArtifactMissing(t *testing.T) {
	s := openTestStore(t)
	row, err := s.LoadArtifact("does-not-exist")
	require.NoError(t, err)
	require.Nil(t, row)
}

func TestStoreArtifactIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.StoreArtifact("proj1", "/tmp/proj1", []byte(`{}`), 0, 0))
	require.NoError(t, s.StoreArtifact("proj1", "/tmp/proj1", []byte(`{"a":1}`), 1, 1))

	row, err := s.LoadArtifact("proj1")
	require.NoError(t, err)
	require.Equal(t, `{"a":1}`, string(row.Blob))
}

func TestDeleteArtifact(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.StoreArtifact("proj1", "/tmp/proj1", []byte(`{}`), 0, 0))

	removed, err := s.DeleteArtifact("proj1")
	require.NoError(t, err)
	require.True(t, removed)

	removed, err = s.DeleteArtifact("proj1")
	require.NoError(t, err)
	require.False(t, removed)
}

func TestEdgesRoundTrip(t *testing.T) {
	s := openTestStore(t)
	edges := [][2]string{{"a.go", "b.go"}, {"a.go", "c.go"}}
	require.NoError(t, s.ReplaceEdges("proj1", edges))

	got, err := s.Edges("proj1")
	require.NoError(t, err)
	require.ElementsMatch(t, edges, got)

	require.NoError(t, s.ReplaceEdges("proj1", [][2]string{{"a.go", "d.go"}}))
	got, err = s.Edges("proj1")
	require.NoError(t, err)
	require.Equal(t, [][2]string{{"a.go", "d.go"}}, got)
}

func TestCacheEventCounts(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.RecordCacheEvent("proj1", "hit"))
	require.NoError(t, s.RecordCacheEvent("proj1", "hit"))
	require.NoError(t, s.RecordCacheEvent("proj1", "miss"))

	counts, err := s.CacheEventCounts("proj1")
	require.NoError(t, err)
	require.Equal(t, 2, counts["hit"])
	require.Equal(t, 1, counts["miss"])
}

func TestPruneCacheEnforcesCap(t *testing.T) {
	s := openTestStore(t)
	for i := 0; i < 5; i++ {
		id := string(rune('a' + i))
		require.NoError(t, s.StoreArtifact(id, "/tmp/"+id, []byte(`{}`), 0, 0))
	}

	removed, err := s.PruneCache(3)
	require.NoError(t, err)
	require.Equal(t, 2, removed)
}
