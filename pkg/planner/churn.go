// Package planner implements the budgeted context planner (spec component
// C14): candidate feature scoring, intent-weighted ranking, and a
// deterministic greedy knapsack selection under a token budget.
package planner

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// GitRunner executes git subcommands against a repository root. It mirrors
// the narrow git-invocation seam used elsewhere in this codebase so churn
// computation can be exercised in tests without a real repository.
type GitRunner interface {
	Run(ctx context.Context, args ...string) (string, error)
}

// execGitRunner shells out to the system git binary.
type execGitRunner struct {
	repoRoot string
}

// NewExecGitRunner returns a GitRunner backed by the system git binary,
// running commands rooted at repoRoot.
func NewExecGitRunner(repoRoot string) GitRunner {
	return &execGitRunner{repoRoot: repoRoot}
}

func (g *execGitRunner) Run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.repoRoot
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		stderrStr := strings.TrimSpace(stderr.String())
		if stderrStr != "" {
			return "", fmt.Errorf("git %s failed: %s", args[0], stderrStr)
		}
		return "", fmt.Errorf("git %s failed: %w", args[0], err)
	}
	return stdout.String(), nil
}

// ChurnCache holds per-path commit-touch counts for one HEAD commit. It is
// rebuilt whenever the observed HEAD hash changes (spec.md §4.14
// "churn score from an HEAD-keyed git-churn cache").
type ChurnCache struct {
	Head   string
	Counts map[string]int
}

// Churn returns the churn count for relPath, 0 if absent from the cache.
func (c *ChurnCache) Churn(relPath string) int {
	if c == nil {
		return 0
	}
	return c.Counts[relPath]
}

// BuildChurnCache computes per-file commit-touch counts over the last
// maxCommits commits via `git log --name-only`, keyed by the current HEAD
// hash so callers can skip recomputation when HEAD is unchanged.
func BuildChurnCache(ctx context.Context, git GitRunner, maxCommits int) (*ChurnCache, error) {
	head, err := git.Run(ctx, "rev-parse", "HEAD")
	if err != nil {
		return &ChurnCache{Counts: map[string]int{}}, nil
	}
	head = strings.TrimSpace(head)

	args := []string{"log", "--name-only", "--pretty=format:", "-n", strconv.Itoa(maxCommits)}
	output, err := git.Run(ctx, args...)
	if err != nil {
		return &ChurnCache{Head: head, Counts: map[string]int{}}, nil
	}

	counts := map[string]int{}
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		counts[line]++
	}
	return &ChurnCache{Head: head, Counts: counts}, nil
}

// Stale reports whether cache no longer matches the repository's current
// HEAD and must be rebuilt.
func (c *ChurnCache) Stale(currentHead string) bool {
	return c == nil || c.Head != currentHead
}
