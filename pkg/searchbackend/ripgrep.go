// Package searchbackend implements the three search-backend tiers
// (spec component C11): external delegate, ripgrep subprocess, and a
// built-in parallel walker.
package searchbackend

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

// RawHit is an unscored file:line:text triplet from a text-mode backend.
type RawHit struct {
	Path string
	Line int
	Text string
}

// RipgrepOptions configures the ripgrep subprocess tier.
type RipgrepOptions struct {
	MaxFileSizeKB int
	MaxCount      int
	FileType      string
}

// Ripgrep builds an OR-pattern from terms, invokes `rg`, and parses its
// file:line:text output (spec.md §4.11 tier 2). Exit codes 0 and 1 are both
// treated as success (1 means "no matches").
func Ripgrep(ctx context.Context, root string, terms []string, opts RipgrepOptions) ([]RawHit, error) {
	if len(terms) == 0 {
		return nil, nil
	}
	escaped := make([]string, len(terms))
	for i, t := range terms {
		escaped[i] = regexp.QuoteMeta(t)
	}
	pattern := strings.Join(escaped, "|")

	args := []string{"-n", "--no-heading", "-i"}
	if opts.MaxFileSizeKB > 0 {
		args = append(args, "--max-filesize", fmt.Sprintf("%dK", opts.MaxFileSizeKB))
	}
	maxCount := opts.MaxCount
	if maxCount <= 0 {
		maxCount = 50
	}
	args = append(args, "--max-count", strconv.Itoa(maxCount))
	if opts.FileType != "" {
		args = append(args, "--type", opts.FileType)
	}
	args = append(args, pattern, root)

	cmd := exec.CommandContext(ctx, "rg", args...)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return nil, nil
		}
		return nil, fmt.Errorf("searchbackend: rg: %w", err)
	}
	return parseRipgrepOutput(string(output)), nil
}

func parseRipgrepOutput(output string) []RawHit {
	var hits []RawHit
	scanner := bufio.NewScanner(strings.NewReader(output))
	scanner.Buffer(make([]byte, 64*1024), 1<<20)
	for scanner.Scan() {
		line := scanner.Text()
		parts := strings.SplitN(line, ":", 3)
		if len(parts) < 3 {
			continue
		}
		lineNo, err := strconv.Atoi(parts[1])
		if err != nil {
			continue
		}
		hits = append(hits, RawHit{Path: parts[0], Line: lineNo, Text: parts[2]})
	}
	return hits
}
