package layers

import (
	"testing"

	"github.com/heAdz0r/rtk/pkg/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimitsForCompactAndDefault(t *testing.T) {
	assert.Equal(t, 8, LimitsFor(DetailCompact).Changes)
	assert.Equal(t, 32, LimitsFor(DetailNormal).Changes)
	assert.Equal(t, 32, LimitsFor("bogus").Changes)
}

func TestFlagsForBugfixEnablesSubset(t *testing.T) {
	f := FlagsFor(QueryBugfix)
	assert.True(t, f.L1ModuleIdx)
	assert.True(t, f.L3APISurface)
	assert.True(t, f.L6ChangeLog)
	assert.False(t, f.L0ProjectMap)
}

func TestFlagsForGeneralEnablesAll(t *testing.T) {
	f := FlagsFor(QueryGeneral)
	assert.True(t, f.L0ProjectMap)
	assert.True(t, f.L5TestMap)
	assert.True(t, f.TopImports)
}

func TestEntryPointsPrefersHints(t *testing.T) {
	files := []memory.FileArtifact{{RelPath: "README.md"}, {RelPath: "src/lib.rs"}}
	eps := EntryPoints(files, 5)
	require.NotEmpty(t, eps)
	assert.Equal(t, "README.md", eps[0])
}

func TestEntryPointsFallsBackToMainIndexHeuristic(t *testing.T) {
	files := []memory.FileArtifact{{RelPath: "src/foo.go"}, {RelPath: "src/main.go"}}
	eps := EntryPoints(files, 5)
	assert.Contains(t, eps, "src/main.go")
}

func TestHotPathsCountsTopLevelDirs(t *testing.T) {
	files := []memory.FileArtifact{
		{RelPath: "src/a.go"}, {RelPath: "src/b.go"}, {RelPath: "docs/c.md"},
	}
	hp := HotPaths(files, nil, 5)
	require.NotEmpty(t, hp)
	assert.Equal(t, "src", hp[0].Name)
	assert.Equal(t, 2, hp[0].Count)
}

func TestTopImportsSkipsSelfAnchors(t *testing.T) {
	files := []memory.FileArtifact{
		{RelPath: "a.go", Imports: []string{"self:abc", "fmt"}},
		{RelPath: "b.go", Imports: []string{"fmt"}},
	}
	ti := TopImports(files, 5)
	require.NotEmpty(t, ti)
	assert.Equal(t, "fmt", ti[0].Name)
	assert.Equal(t, 2, ti[0].Count)
}

func TestAPISurfaceFallsBackToPubSymbolRanking(t *testing.T) {
	files := []memory.FileArtifact{
		{RelPath: "a.go", PubSymbols: []memory.Symbol{{Name: "A"}}},
		{RelPath: "b.go", PubSymbols: []memory.Symbol{{Name: "B"}, {Name: "C"}}},
	}
	surface := APISurface(files, nil, nil, 5)
	require.NotEmpty(t, surface)
	assert.Equal(t, "b.go", surface[0].RelPath)
}

func TestModuleIndexSkipsFilesWithNoPubSymbols(t *testing.T) {
	files := []memory.FileArtifact{
		{RelPath: "a.go", Language: "go", PubSymbols: []memory.Symbol{{Name: "A"}}},
		{RelPath: "b.go"},
	}
	idx := ModuleIndex(files, 10, 5)
	require.Len(t, idx, 1)
	assert.Equal(t, "a.go", idx[0].ModulePath)
}

func TestTestMapMatchesHeuristicPaths(t *testing.T) {
	files := []memory.FileArtifact{
		{RelPath: "pkg/foo_test.go"}, {RelPath: "pkg/foo.go"},
	}
	tm := TestMap(files)
	assert.Equal(t, []string{"pkg/foo_test.go"}, tm)
}

func TestDeriveCacheStatusDecisionTree(t *testing.T) {
	assert.Equal(t, CacheRefreshed, DeriveCacheStatus(true, true, false, memory.Delta{}))
	assert.Equal(t, CacheStaleRebuild, DeriveCacheStatus(false, true, true, memory.Delta{}))
	assert.Equal(t, CacheHit, DeriveCacheStatus(false, true, false, memory.Delta{}))
	assert.Equal(t, CacheDirtyRebuild, DeriveCacheStatus(false, true, false, memory.Delta{Added: 1}))
	assert.Equal(t, CacheMiss, DeriveCacheStatus(false, false, false, memory.Delta{}))
}

func TestRenderTextIncludesHeaderAndStats(t *testing.T) {
	ctx := Context{Command: "explore", ProjectRoot: "/p", ProjectID: "abc", CacheStatus: CacheHit, Freshness: "fresh"}
	text := RenderText(ctx)
	assert.Contains(t, text, "memory.explore project=/p id=abc cache=hit freshness=fresh")
	assert.Contains(t, text, "graph nodes=0 edges=0")
}

func TestRenderJSONIncludesRequiredKeys(t *testing.T) {
	ctx := Context{Command: "explore", ProjectID: "abc", CacheStatus: CacheMiss}
	data, err := RenderJSON(ctx)
	require.NoError(t, err)
	s := string(data)
	assert.Contains(t, s, `"command"`)
	assert.Contains(t, s, `"cache_status": "miss"`)
	assert.Contains(t, s, `"graph"`)
}
