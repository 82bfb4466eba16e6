package search

import (
	"sort"
	"strings"
)

const snippetTruncateChars = 140

// SelectSnippets greedily picks up to maxSnippets non-overlapping line
// candidates ordered by score, then expands each into a context window
// (spec.md §4.10 "Snippet selection").
func SelectSnippets(candidates []LineHit, lines []string, contextLines, maxSnippets, overlapDistance int) []LineHit {
	sorted := make([]LineHit, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })

	var chosen []LineHit
	for _, cand := range sorted {
		if len(chosen) >= maxSnippets {
			break
		}
		overlaps := false
		for _, c := range chosen {
			if abs(c.LineNo-cand.LineNo) <= overlapDistance {
				overlaps = true
				break
			}
		}
		if overlaps {
			continue
		}
		chosen = append(chosen, cand)
	}

	out := make([]LineHit, 0, len(chosen))
	for _, c := range chosen {
		text := expandContext(lines, c.LineNo, contextLines)
		out = append(out, LineHit{LineNo: c.LineNo, Text: text, Score: c.Score})
	}
	return out
}

// OverlapDistance returns the line-distance threshold used to decide
// whether two candidates overlap — based on context_lines for the
// built-in scorer, or a fixed 3 for ripgrep-backed hits.
func OverlapDistance(contextLines int, rgBacked bool) int {
	if rgBacked {
		return 3
	}
	return contextLines*2 + 1
}

// SnippetCountFor returns the number of snippets to select per file:
// 1 in compact mode, 2 otherwise.
func SnippetCountFor(compact bool) int {
	if compact {
		return 1
	}
	return 2
}

func expandContext(lines []string, lineNo, contextLines int) string {
	start := lineNo - 1 - contextLines
	if start < 0 {
		start = 0
	}
	end := lineNo - 1 + contextLines
	if end >= len(lines) {
		end = len(lines) - 1
	}
	var kept []string
	for i := start; i <= end && i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "" {
			continue
		}
		kept = append(kept, truncateSnippet(lines[i]))
	}
	return strings.Join(kept, "\n")
}

func truncateSnippet(line string) string {
	runes := []rune(line)
	if len(runes) <= snippetTruncateChars {
		return line
	}
	return string(runes[:snippetTruncateChars-1]) + "…"
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
