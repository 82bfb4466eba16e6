package search

import (
	"testing"

	"github.com/heAdz0r/rtk/pkg/filter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQueryDropsStopWordsAndShortTokens(t *testing.T) {
	q := NewQuery("the refresh of a token")
	assert.Contains(t, q.Terms, "refresh")
	assert.Contains(t, q.Terms, "token")
	assert.NotContains(t, q.Terms, "the")
	assert.NotContains(t, q.Terms, "of")
	assert.NotContains(t, q.Terms, "a")
}

func TestNewQueryStemsButSkipsEs(t *testing.T) {
	q := NewQuery("running processes")
	assert.Contains(t, q.Terms, "running")
	assert.Contains(t, q.Terms, "runn")
	// "processes" ends in "es", which is never stripped as a unit: only the
	// trailing "s" goes, so the added stem is "processe", not "process".
	assert.Contains(t, q.Terms, "processes")
}

func TestNewQueryFallsBackToPhraseWhenNoTerms(t *testing.T) {
	q := NewQuery("the a of")
	assert.Empty(t, q.Terms)
	assert.Equal(t, "the a of", q.Phrase)
}

func TestStemTermRequiresMinimumRemainder(t *testing.T) {
	assert.Equal(t, "ed", stemTerm("ed"))
	assert.Equal(t, "go", stemTerm("goed"))
	assert.Equal(t, "id", stemTerm("ids"))
}

func TestScoreLineRewardsPhraseAndSymbolDef(t *testing.T) {
	q := NewQuery("refresh token")
	score, ok := ScoreLine("pub fn refresh_token(session: &Session) -> String {", 1, q, filter.LangRust)
	require.True(t, ok)
	assert.Greater(t, score, 5.0)
}

func TestScoreLineDiscardsBelowFloor(t *testing.T) {
	q := NewQuery("zzz nonexistent")
	_, ok := ScoreLine("totally unrelated content here", 1, q, filter.LangGo)
	assert.False(t, ok)
}

func TestScoreLineDampensComments(t *testing.T) {
	q := NewQuery("refresh token")
	code, _ := ScoreLine("let refresh_token = get_token();", 1, q, filter.LangRust)
	comment, _ := ScoreLine("// refresh_token logic lives here", 2, q, filter.LangRust)
	assert.Less(t, comment, code)
}

func TestScorePathRewardsPhraseAndTerms(t *testing.T) {
	q := NewQuery("refresh token")
	// The "_" keeps the phrase from matching, so only the two terms score.
	score := ScorePath("src/auth/refresh_token.rs", q)
	assert.InDelta(t, 2*1.2, score, 1e-9)
	assert.InDelta(t, 3.5+2*1.2, ScorePath("docs/refresh token.md", q), 1e-9)
}

func TestSearchFileRejectsBelowFloor(t *testing.T) {
	q := NewQuery("completely unrelated phrase")
	_, ok := SearchFile("main.go", "package main\nfunc main() {}\n", q, filter.LangGo, Options{ContextLines: 1})
	assert.False(t, ok)
}

func TestSearchFileAcceptsSymbolDefinitionMatch(t *testing.T) {
	q := NewQuery("refresh token")
	content := "package auth\n\nfunc RefreshToken(s *Session) string {\n\treturn s.Token\n}\n"
	res, ok := SearchFile("auth/refresh_token.go", content, q, filter.LangGo, Options{ContextLines: 1})
	require.True(t, ok)
	assert.NotEmpty(t, res.Snippets)
}

func TestRankOrdersByScoreThenPath(t *testing.T) {
	results := []FileResult{
		{Path: "b.go", Score: 5},
		{Path: "a.go", Score: 5},
		{Path: "c.go", Score: 10},
	}
	ranked := Rank(results)
	require.Len(t, ranked, 3)
	assert.Equal(t, "c.go", ranked[0].Path)
	assert.Equal(t, "a.go", ranked[1].Path)
}

func TestPruneRelevanceDropsLowScoring(t *testing.T) {
	results := []FileResult{
		{Path: "a.go", Score: 10},
		{Path: "b.go", Score: 1},
	}
	pruned := PruneRelevance(results)
	require.Len(t, pruned, 1)
	assert.Equal(t, "a.go", pruned[0].Path)
}

func TestSelectSnippetsRespectsOverlapAndLimit(t *testing.T) {
	lines := []string{"l1", "l2", "l3", "l4", "l5", "l6"}
	candidates := []LineHit{
		{LineNo: 1, Score: 5},
		{LineNo: 2, Score: 4},
		{LineNo: 5, Score: 3},
	}
	chosen := SelectSnippets(candidates, lines, 1, 2, 3)
	assert.Len(t, chosen, 2)
}

func TestOverlapDistanceRGBacked(t *testing.T) {
	assert.Equal(t, 3, OverlapDistance(5, true))
	assert.Equal(t, 11, OverlapDistance(5, false))
}
