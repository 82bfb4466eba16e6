package searchbackend

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
)

// DelegateHit is a single hit from an external semantic-search binary's
// --json output.
type DelegateHit struct {
	Path string  `json:"path"`
	Line int     `json:"line"`
	Text string  `json:"text"`
	Raw  float64 `json:"score"`
}

// DelegateResult is the outcome of invoking the external delegate: either a
// parsed hit list, or a fallback envelope when parsing failed.
type DelegateResult struct {
	Hits        []DelegateHit
	ParseError  string
	FallbackRaw string
}

// Delegate invokes binPath with --json and the query, parsing a JSON array
// of hits (spec.md §4.11 tier 1). A JSON parse failure returns a fallback
// envelope carrying the raw output instead of an error, so the caller can
// still surface something to the user.
func Delegate(ctx context.Context, binPath, query, root string) (DelegateResult, error) {
	cmd := exec.CommandContext(ctx, binPath, "--json", query, root)
	output, err := cmd.Output()
	if err != nil {
		return DelegateResult{}, fmt.Errorf("searchbackend: delegate %s: %w", binPath, err)
	}

	var hits []DelegateHit
	if jerr := json.Unmarshal(output, &hits); jerr != nil {
		return DelegateResult{
			ParseError:  jerr.Error(),
			FallbackRaw: string(output),
		}, nil
	}
	return DelegateResult{Hits: hits}, nil
}

// GroupByFile groups delegate hits by path, preserving first-seen order.
func GroupByFile(hits []DelegateHit) (order []string, byFile map[string][]DelegateHit) {
	byFile = make(map[string][]DelegateHit)
	for _, h := range hits {
		if _, ok := byFile[h.Path]; !ok {
			order = append(order, h.Path)
		}
		byFile[h.Path] = append(byFile[h.Path], h)
	}
	return order, byFile
}
