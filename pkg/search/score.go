package search

import (
	"math"
	"strings"

	"github.com/heAdz0r/rtk/pkg/filter"
)

// LineHit is a scored candidate line within a file.
type LineHit struct {
	LineNo int
	Text   string
	Score  float64
}

// ScoreLine scores a single line against q (spec.md §4.10 "Line scoring").
// Returns (score, true) if the line survives the >= 1.2 floor.
func ScoreLine(line string, lineNo int, q Query, lang filter.Language) (float64, bool) {
	if strings.TrimSpace(line) == "" {
		return 0, false
	}
	lower := strings.ToLower(line)

	var score float64
	if len(q.Phrase) >= 3 && strings.Contains(lower, q.Phrase) {
		score += 6
	}

	matched := 0
	for _, term := range q.Terms {
		if !strings.Contains(lower, term) {
			continue
		}
		matched++
		if len(term) >= 5 {
			score += 1.7
		} else {
			score += 1.4
		}
	}
	if matched >= 2 {
		score += 1.2
	}

	if symbolDefRe.MatchString(line) {
		score += 2.5
	}

	trimmed := strings.TrimSpace(line)
	if isCommentLine(trimmed, lang) {
		score *= 0.7
	}
	if len(line) > 220 {
		score *= 0.9
	}

	if score < 1.2 {
		return score, false
	}
	return score, true
}

// ScorePath scores a path against q (spec.md §4.10 "Path scoring").
func ScorePath(path string, q Query) float64 {
	lower := strings.ToLower(path)
	var score float64
	if len(q.Phrase) >= 3 && strings.Contains(lower, q.Phrase) {
		score += 3.5
	}
	for _, term := range q.Terms {
		if strings.Contains(lower, term) {
			score += 1.2
		}
	}
	return score
}

// snippetWeights are applied in order to selected snippets within a file.
var snippetWeights = []float64{1.0, 0.45, 0.25}

func snippetWeight(i int) float64 {
	if i < len(snippetWeights) {
		return snippetWeights[i]
	}
	return snippetWeights[len(snippetWeights)-1] * 0.5
}

// FileScore computes a file's aggregate score from its path score, the
// number of matched lines, and its selected snippets (spec.md §4.10
// "File score").
func FileScore(pathScore float64, matchedLines int, snippets []LineHit) float64 {
	score := pathScore + math.Log1p(float64(matchedLines))
	for i, s := range snippets {
		score += s.Score * snippetWeight(i)
	}
	return score
}

// PruneRelevance drops files below max(top.score*0.35, MinFileScore).
func PruneRelevance(files []FileResult) []FileResult {
	if len(files) == 0 {
		return files
	}
	top := files[0].Score
	floor := math.Max(top*0.35, MinFileScore)
	var out []FileResult
	for _, f := range files {
		if f.Score >= floor {
			out = append(out, f)
		}
	}
	return out
}
