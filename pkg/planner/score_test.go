package planner

import (
	"testing"

	"github.com/heAdz0r/rtk/pkg/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeightsForDefaultsToGeneral(t *testing.T) {
	assert.Equal(t, baseWeights, WeightsFor(IntentGeneral))
	assert.Equal(t, baseWeights, WeightsFor("unknown"))
	assert.NotEqual(t, baseWeights, WeightsFor(IntentBugfix))
}

func TestStructuralScoreRewardsPathAndSymbolMatch(t *testing.T) {
	f := memory.FileArtifact{RelPath: "pkg/auth/token.go", PubSymbols: []memory.Symbol{{Name: "Validate"}}}
	score := structuralScore(f, []string{"auth", "validate"})
	assert.Greater(t, score, 2.0)
}

func TestRiskScoreFlagsSensitivePaths(t *testing.T) {
	assert.Equal(t, 1.0, riskScore("config/secret.yaml"))
	assert.Equal(t, 0.0, riskScore("pkg/util/strings.go"))
}

func TestTestProxScoreFlagsTestPaths(t *testing.T) {
	assert.Equal(t, 1.0, testProxScore("pkg/foo_test.go"))
	assert.Equal(t, 0.0, testProxScore("pkg/foo.go"))
}

func TestInDeltaChecksNonRemovedMembership(t *testing.T) {
	delta := &memory.Delta{Files: []memory.FileDelta{
		{Path: "a.go", Kind: memory.ChangeModified},
		{Path: "b.go", Kind: memory.ChangeRemoved},
	}}
	assert.True(t, inDelta("a.go", delta))
	assert.False(t, inDelta("b.go", delta))
	assert.False(t, inDelta("c.go", delta))
	assert.False(t, inDelta("a.go", nil))
}

func TestScoreCandidatesProducesOneCandidatePerFile(t *testing.T) {
	files := []memory.FileArtifact{
		{RelPath: "auth.go", Size: 400, PubSymbols: []memory.Symbol{{Name: "Validate"}}},
		{RelPath: "util.go", Size: 100},
	}
	churn := &ChurnCache{Counts: map[string]int{"auth.go": 3}}
	delta := &memory.Delta{Files: []memory.FileDelta{{Path: "util.go", Kind: memory.ChangeAdded}}}
	graph := BuildCallGraph(nil)

	candidates := ScoreCandidates(files, []string{"auth", "validate"}, churn, delta, graph, IntentBugfix)
	require.Len(t, candidates, 2)

	var auth, util Candidate
	for _, c := range candidates {
		switch c.RelPath {
		case "auth.go":
			auth = c
		case "util.go":
			util = c
		}
	}
	assert.Greater(t, auth.Score, 0.0)
	assert.Equal(t, 1.0, util.Features.Recency)
	assert.Equal(t, 100, auth.TokenCost)
}
