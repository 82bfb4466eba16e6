package planner

import (
	"strings"

	"github.com/heAdz0r/rtk/pkg/memory"
)

// IntentTag biases the feature weights toward the kind of task at hand
// (spec.md §4.14 "Intent tags modify weights").
type IntentTag string

const (
	IntentGeneral  IntentTag = "general"
	IntentBugfix   IntentTag = "bugfix"
	IntentFeature  IntentTag = "feature"
	IntentRefactor IntentTag = "refactor"
)

// Weights scales each feature before summation into a candidate's score.
type Weights struct {
	Structural float64
	Churn      float64
	Recency    float64
	Risk       float64
	TestProx   float64
	Caller     float64
}

var baseWeights = Weights{Structural: 1.0, Churn: 0.6, Recency: 1.2, Risk: 0.4, TestProx: 0.5, Caller: 0.8}

var intentWeights = map[IntentTag]Weights{
	IntentBugfix:   {Structural: 1.0, Churn: 1.1, Recency: 1.6, Risk: 0.6, TestProx: 1.0, Caller: 1.0},
	IntentFeature:  {Structural: 1.4, Churn: 0.5, Recency: 0.8, Risk: 0.3, TestProx: 0.4, Caller: 1.2},
	IntentRefactor: {Structural: 1.2, Churn: 0.8, Recency: 0.6, Risk: 0.9, TestProx: 0.6, Caller: 1.4},
}

// WeightsFor returns the feature weights for an intent tag, defaulting to
// the general profile for an unrecognized or empty tag.
func WeightsFor(tag IntentTag) Weights {
	if w, ok := intentWeights[tag]; ok {
		return w
	}
	return baseWeights
}

var riskPathHints = []string{"migration", "config/", "secret", "auth", ".env", "schema"}
var testPathHints = []string{"/test", "/tests", "_test.", ".test.", "spec.", "/spec"}

// Features is the per-file feature vector before weighting.
type Features struct {
	Structural float64
	Churn      float64
	Recency    float64
	Risk       float64
	TestProx   float64
	Caller     float64
}

// Candidate is one scored, cost-estimated file ready for knapsack selection.
type Candidate struct {
	RelPath  string
	Score    float64
	TokenCost int
	Features Features
}

// estimateTokenCost approximates a file's token footprint at roughly 4
// bytes per token, the common heuristic used for budgeting prose/code mixes.
func estimateTokenCost(size int64) int {
	cost := int(size / 4)
	if cost < 1 {
		cost = 1
	}
	return cost
}

func hasTermMatch(relPath string, terms []string) bool {
	lower := strings.ToLower(relPath)
	for _, t := range terms {
		if t != "" && strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

func structuralScore(f memory.FileArtifact, taskTerms []string) float64 {
	score := 0.0
	if hasTermMatch(f.RelPath, taskTerms) {
		score += 2.0
	}
	lower := strings.ToLower(strings.Join(append([]string{}, taskTerms...), " "))
	for _, sym := range f.PubSymbols {
		if lower != "" && strings.Contains(lower, strings.ToLower(sym.Name)) {
			score += 1.5
		}
	}
	for _, imp := range f.Imports {
		if hasTermMatch(imp, taskTerms) {
			score += 0.5
		}
	}
	return score
}

func riskScore(relPath string) float64 {
	lower := strings.ToLower(relPath)
	for _, hint := range riskPathHints {
		if strings.Contains(lower, hint) {
			return 1.0
		}
	}
	return 0.0
}

func testProxScore(relPath string) float64 {
	lower := strings.ToLower(relPath)
	for _, hint := range testPathHints {
		if strings.Contains(lower, hint) {
			return 1.0
		}
	}
	return 0.0
}

func inDelta(relPath string, delta *memory.Delta) bool {
	if delta == nil {
		return false
	}
	for _, d := range delta.Files {
		if d.Path == relPath && d.Kind != memory.ChangeRemoved {
			return true
		}
	}
	return false
}

// symbolNamesOf returns the bare symbol names a file defines, for
// call-graph lookups.
func symbolNamesOf(f memory.FileArtifact) []string {
	names := make([]string, 0, len(f.PubSymbols))
	for _, s := range f.PubSymbols {
		names = append(names, baseSymbolName(s.Name))
	}
	return names
}

// ScoreCandidates computes the feature vector and weighted score for every
// file, given a task description (used as free-text terms for structural
// relevance), a churn cache, a delta for recency, a call graph for caller
// scoring, and an intent tag selecting the weight profile.
func ScoreCandidates(files []memory.FileArtifact, taskTerms []string, churn *ChurnCache, delta *memory.Delta, graph *CallGraph, tag IntentTag) []Candidate {
	w := WeightsFor(tag)
	out := make([]Candidate, 0, len(files))
	for _, f := range files {
		feat := Features{
			Structural: structuralScore(f, taskTerms),
			Churn:      float64(churn.Churn(f.RelPath)),
			Risk:       riskScore(f.RelPath),
			TestProx:   testProxScore(f.RelPath),
			Caller:     float64(graph.CallerCount(f.RelPath, symbolNamesOf(f))),
		}
		if inDelta(f.RelPath, delta) {
			feat.Recency = 1.0
		}

		score := feat.Structural*w.Structural + feat.Churn*w.Churn + feat.Recency*w.Recency +
			feat.Risk*w.Risk + feat.TestProx*w.TestProx + feat.Caller*w.Caller

		out = append(out, Candidate{
			RelPath:   f.RelPath,
			Score:     score,
			TokenCost: estimateTokenCost(f.Size),
			Features:  feat,
		})
	}
	return out
}
