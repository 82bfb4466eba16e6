package planner

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGit struct {
	responses map[string]string
	errs      map[string]error
}

func (g *fakeGit) Run(ctx context.Context, args ...string) (string, error) {
	key := strings.Join(args, " ")
	if err, ok := g.errs[key]; ok {
		return "", err
	}
	return g.responses[key], nil
}

func TestBuildChurnCacheCountsFileTouches(t *testing.T) {
	git := &fakeGit{responses: map[string]string{
		"rev-parse HEAD": "abc123\n",
		"log --name-only --pretty=format: -n 50": "a.go\nb.go\n\na.go\nc.go\n",
	}}
	cache, err := BuildChurnCache(context.Background(), git, 50)
	require.NoError(t, err)
	assert.Equal(t, "abc123", cache.Head)
	assert.Equal(t, 2, cache.Churn("a.go"))
	assert.Equal(t, 1, cache.Churn("b.go"))
	assert.Equal(t, 0, cache.Churn("missing.go"))
}

func TestChurnCacheStaleDetectsHeadChange(t *testing.T) {
	cache := &ChurnCache{Head: "abc123"}
	assert.True(t, cache.Stale("def456"))
	assert.False(t, cache.Stale("abc123"))
	var nilCache *ChurnCache
	assert.True(t, nilCache.Stale("anything"))
}

func TestBuildChurnCacheHandlesNonRepoGracefully(t *testing.T) {
	git := &fakeGit{errs: map[string]error{"rev-parse HEAD": assertErr{}}}
	cache, err := BuildChurnCache(context.Background(), git, 50)
	require.NoError(t, err)
	assert.Equal(t, 0, cache.Churn("a.go"))
}

type assertErr struct{}

func (assertErr) Error() string { return "not a git repository" }
