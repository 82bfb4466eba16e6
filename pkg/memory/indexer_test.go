package memory

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestScanEmitsAddedForNewFiles(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "main.go", "package main\nfunc main() {}\n")

	res, err := Scan(IndexOptions{Root: dir, ReadFile: os.ReadFile})
	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	assert.Equal(t, 1, res.Delta.Added)
	assert.Equal(t, "main.go", res.Files[0].RelPath)
	assert.Equal(t, []string{SelfAnchor("main.go")}, res.Files[0].Imports)
}

func TestScanReusesUnchangedFiles(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "main.go", "package main\n")

	first, err := Scan(IndexOptions{Root: dir, ReadFile: os.ReadFile})
	require.NoError(t, err)

	previous := map[string]FileArtifact{"main.go": first.Files[0]}
	second, err := Scan(IndexOptions{Root: dir, Previous: previous, ReadFile: os.ReadFile})
	require.NoError(t, err)
	assert.True(t, second.Delta.IsEmpty())
}

func TestScanEmitsModifiedOnContentChange(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "main.go", "package main\n")
	first, err := Scan(IndexOptions{Root: dir, ReadFile: os.ReadFile})
	require.NoError(t, err)
	previous := map[string]FileArtifact{"main.go": first.Files[0]}

	time.Sleep(10 * time.Millisecond)
	writeTestFile(t, dir, "main.go", "package main\nfunc main() {}\n")

	second, err := Scan(IndexOptions{Root: dir, Previous: previous, ReadFile: os.ReadFile})
	require.NoError(t, err)
	assert.Equal(t, 1, second.Delta.Modified)
}

func TestScanEmitsRemovedForDeletedFiles(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "a.go", "package a\n")
	first, err := Scan(IndexOptions{Root: dir, ReadFile: os.ReadFile})
	require.NoError(t, err)
	previous := map[string]FileArtifact{"a.go": first.Files[0]}

	require.NoError(t, os.Remove(filepath.Join(dir, "a.go")))
	second, err := Scan(IndexOptions{Root: dir, Previous: previous, ReadFile: os.ReadFile})
	require.NoError(t, err)
	assert.Equal(t, 1, second.Delta.Removed)
	assert.Empty(t, second.Files)
}

func TestScanExcludesBuildDirs(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "node_modules/pkg/index.js", "module.exports = {}")
	writeTestFile(t, dir, "src/main.go", "package main\n")

	res, err := Scan(IndexOptions{Root: dir, ReadFile: os.ReadFile})
	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	assert.Equal(t, "src/main.go", res.Files[0].RelPath)
}

func TestModuleStemsDerivesVariants(t *testing.T) {
	stems := moduleStems("src/auth/token.rs")
	assert.Contains(t, stems, "token.rs")
	assert.Contains(t, stems, "token")
	assert.Contains(t, stems, "src/auth/token")
	assert.Contains(t, stems, "src::auth::token")
	assert.Contains(t, stems, "crate::src::auth::token")
}

func TestComputeCascadeSetMarksDependents(t *testing.T) {
	stats := map[string]FileStat{
		"src/auth/token.rs": {RelPath: "src/auth/token.rs", Size: 99, ModNs: 2},
	}
	previous := map[string]FileArtifact{
		"src/auth/token.rs": {RelPath: "src/auth/token.rs", Size: 10, ModTimeNs: 1},
		"src/main.rs":       {RelPath: "src/main.rs", Imports: []string{"crate::auth::token"}},
		"src/other.rs":      {RelPath: "src/other.rs", Imports: []string{"unrelated"}},
	}
	cascade := computeCascadeSet(stats, previous)
	assert.True(t, cascade["src/main.rs"])
	assert.False(t, cascade["src/other.rs"])
}

func TestComputeFreshnessDetectsStaleAndDirty(t *testing.T) {
	old := time.Now().Add(-48 * time.Hour)
	fresh := ComputeFreshness(old, map[string]bool{"a": true}, map[string]bool{"a": true}, Delta{})
	assert.True(t, fresh.Stale)
	assert.False(t, fresh.Dirty)

	recent := time.Now()
	dirty := ComputeFreshness(recent, map[string]bool{"a": true}, map[string]bool{"a": true, "b": true}, Delta{})
	assert.False(t, dirty.Stale)
	assert.True(t, dirty.Dirty)
}
