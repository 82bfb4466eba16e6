// Package search implements the semantic search core (spec component C10):
// query tokenization/stemming, line and path scoring, snippet selection,
// and relevance pruning.
package search

import (
	"regexp"
	"strings"

	"github.com/heAdz0r/rtk/pkg/filter"
)

// MinFileScore is the floor below which a file is dropped from results.
const MinFileScore = 2.4

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "of": true,
	"to": true, "in": true, "is": true, "it": true, "for": true, "on": true,
	"with": true, "as": true, "at": true, "by": true, "be": true, "this": true,
	"that": true, "from": true, "are": true, "was": true, "were": true,
}

var nonAlnumRe = regexp.MustCompile(`[^a-z0-9]+`)

// Query is the tokenized, stemmed form of a search phrase.
type Query struct {
	Phrase string
	Terms  []string
}

// NewQuery builds a Query from a raw search phrase (spec.md §4.10).
func NewQuery(phrase string) Query {
	lower := strings.ToLower(strings.TrimSpace(phrase))
	raw := nonAlnumRe.Split(lower, -1)

	seen := make(map[string]bool)
	var terms []string
	for _, tok := range raw {
		if len(tok) < 2 || stopWords[tok] {
			continue
		}
		if !seen[tok] {
			seen[tok] = true
			terms = append(terms, tok)
		}
		if stem := stemTerm(tok); stem != tok && !seen[stem] {
			seen[stem] = true
			terms = append(terms, stem)
		}
	}
	if len(terms) == 0 {
		return Query{Phrase: lower, Terms: nil}
	}
	return Query{Phrase: lower, Terms: terms}
}

var stemSuffixes = []string{"ingly", "edly", "ing", "ed", "s"}

// stemTerm strips at most one suffix from {ingly, edly, ing, ed, s},
// and only if the remaining stem is at least 2 characters. "es" is
// deliberately excluded: stripping it destroys stems for -ce/-ge/-ve words.
func stemTerm(tok string) string {
	for _, suf := range stemSuffixes {
		if strings.HasSuffix(tok, suf) && len(tok)-len(suf) >= 2 {
			return tok[:len(tok)-len(suf)]
		}
	}
	return tok
}

// symbolDefRe matches lines that look like a symbol definition across the
// supported languages.
var symbolDefRe = regexp.MustCompile(`\b(pub\s+)?(async\s+)?(fn|def|class|struct|enum|trait|interface|impl|type)\s+[A-Za-z_][A-Za-z0-9_]*`)

func isCommentLine(trimmed string, lang filter.Language) bool {
	if strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "/*") ||
		strings.HasPrefix(trimmed, "*") || strings.HasPrefix(trimmed, "--") {
		return true
	}
	switch lang {
	case filter.LangPython, filter.LangShell:
		return strings.HasPrefix(trimmed, "#")
	default:
		return false
	}
}
