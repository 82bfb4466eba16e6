package search

import (
	"sort"
	"strings"

	"github.com/heAdz0r/rtk/pkg/filter"
)

// FileResult is a single scored, snippet-bearing search hit.
type FileResult struct {
	Path     string
	Score    float64
	Snippets []LineHit
}

// Options configures a search pass.
type Options struct {
	ContextLines int
	Compact      bool
	RGBacked     bool
}

// SearchFile scores a single file's content against q and returns a
// FileResult, or (zero, false) if the file falls below the path/line
// floors (spec.md §4.10).
func SearchFile(path, content string, q Query, lang filter.Language, opts Options) (FileResult, bool) {
	pathScore := ScorePath(path, q)

	lines := strings.Split(content, "\n")
	var hits []LineHit
	for i, line := range lines {
		if score, ok := ScoreLine(line, i+1, q, lang); ok {
			hits = append(hits, LineHit{LineNo: i + 1, Text: line, Score: score})
		}
	}

	if len(hits) == 0 && pathScore < MinFileScore {
		return FileResult{}, false
	}

	overlap := OverlapDistance(opts.ContextLines, opts.RGBacked)
	maxSnippets := SnippetCountFor(opts.Compact)
	snippets := SelectSnippets(hits, lines, opts.ContextLines, maxSnippets, overlap)

	score := FileScore(pathScore, len(hits), snippets)
	if score < MinFileScore {
		return FileResult{}, false
	}
	return FileResult{Path: path, Score: score, Snippets: snippets}, true
}

// Rank sorts results by score descending, then path lexicographic
// (case-insensitive), and applies relevance pruning.
func Rank(results []FileResult) []FileResult {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return strings.ToLower(results[i].Path) < strings.ToLower(results[j].Path)
	})
	return PruneRelevance(results)
}
