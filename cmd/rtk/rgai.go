package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/heAdz0r/rtk/internal/errors"
	"github.com/heAdz0r/rtk/pkg/filter"
	"github.com/heAdz0r/rtk/pkg/search"
	"github.com/heAdz0r/rtk/pkg/searchbackend"
)

// runRgai implements the semantic search front-end, choosing among the
// delegate, ripgrep, and built-in backend tiers (spec.md §4.10, §4.11).
func runRgai(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("rgai", flag.ExitOnError)
	filesOnly := fs.Bool("files", false, "List matching file paths only, skipping snippet scoring")
	compact := fs.Bool("compact", false, "Use the compact snippet budget")
	contextLines := fs.Int("context", 2, "Lines of context around each matched line")
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		errors.FatalError(errors.NewInputError("a search phrase is required", "", "rtk rgai <query>"), globals.jsonOutput())
	}
	phrase := strings.Join(fs.Args(), " ")
	q := search.NewQuery(phrase)

	root, err := projectRoot()
	if err != nil {
		errors.FatalError(errors.NewInternalError("cannot resolve project root", err.Error(), "", err), globals.jsonOutput())
	}
	cfg, err := loadConfig(mustConfigPath(globals))
	if err != nil {
		errors.FatalError(errors.NewConfigError("cannot load config", err.Error(), "run rtk init", err), globals.jsonOutput())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, rgErr := exec.LookPath("rg")
	rgAvailable := rgErr == nil
	delegateConfigured := cfg.Grepai.Enabled && cfg.Grepai.BinaryPath != ""

	tier := searchbackend.SelectTier(*filesOnly, delegateConfigured, rgAvailable, globals.Fast)

	var paths []string
	switch tier {
	case searchbackend.TierFiles:
		paths = walkMatchingPaths(root, q)
		for _, p := range paths {
			fmt.Println(p)
		}
		return
	case searchbackend.TierDelegate:
		result, err := searchbackend.Delegate(ctx, cfg.Grepai.BinaryPath, phrase, root)
		if err != nil {
			errors.FatalError(errors.NewNetworkError("delegate search failed", err.Error(), "check grepai.binary_path or disable grepai.enabled", err), globals.jsonOutput())
		}
		if result.ParseError != "" {
			fmt.Print(result.FallbackRaw)
			return
		}
		order, byFile := searchbackend.GroupByFile(result.Hits)
		for _, p := range order {
			fmt.Printf("%s (%d hits)\n", p, len(byFile[p]))
		}
		return
	case searchbackend.TierRipgrep:
		hits, err := searchbackend.Ripgrep(ctx, root, q.Terms, searchbackend.RipgrepOptions{MaxFileSizeKB: 512, MaxCount: 200})
		if err != nil {
			errors.FatalError(errors.NewInternalError("ripgrep search failed", err.Error(), "", err), globals.jsonOutput())
		}
		printRanked(rescoreHits(hits, root, q, *compact, *contextLines, true))
		return
	default:
		results := searchBuiltin(ctx, root, q, *compact, *contextLines)
		printRanked(results)
	}
}

func walkMatchingPaths(root string, q search.Query) []string {
	var matched []string
	_ = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info == nil || info.IsDir() {
			return nil
		}
		rel, _ := filepath.Rel(root, path)
		if searchbackend.DefaultExcludeDirs[filepath.Dir(rel)] {
			return nil
		}
		if search.ScorePath(rel, q) > 0 {
			matched = append(matched, rel)
		}
		return nil
	})
	return matched
}

func pathsOf(hits []searchbackend.RawHit) []string {
	seen := map[string]bool{}
	var order []string
	for _, h := range hits {
		if !seen[h.Path] {
			seen[h.Path] = true
			order = append(order, h.Path)
		}
	}
	return order
}

func rescoreHits(hits []searchbackend.RawHit, root string, q search.Query, compact bool, contextLines int, rgBacked bool) []search.FileResult {
	var results []search.FileResult
	for _, rel := range pathsOf(hits) {
		content, err := os.ReadFile(filepath.Join(root, rel))
		if err != nil {
			continue
		}
		lang := filter.FromExtension(strings.TrimPrefix(filepath.Ext(rel), "."))
		if fr, ok := search.SearchFile(rel, string(content), q, lang, search.Options{ContextLines: contextLines, Compact: compact, RGBacked: rgBacked}); ok {
			results = append(results, fr)
		}
	}
	return search.Rank(results)
}

func searchBuiltin(ctx context.Context, root string, q search.Query, compact bool, contextLines int) []search.FileResult {
	var results []search.FileResult
	scan := func(path, content string) []searchbackend.RawHit {
		rel, _ := filepath.Rel(root, path)
		lang := filter.FromExtension(strings.TrimPrefix(filepath.Ext(rel), "."))
		if fr, ok := search.SearchFile(rel, content, q, lang, search.Options{ContextLines: contextLines, Compact: compact}); ok {
			results = append(results, fr)
		}
		return nil
	}
	_, _ = searchbackend.Walk(ctx, root, searchbackend.WalkerOptions{
		MaxFileSizeBytes: 1 << 20,
		ExcludeExt:       searchbackend.DefaultExcludeExt,
		ExcludeDirs:      searchbackend.DefaultExcludeDirs,
		Parallelism:      8,
	}, scan)
	return search.Rank(results)
}

func printRanked(results []search.FileResult) {
	for _, r := range search.PruneRelevance(results) {
		fmt.Printf("%s (%.1f)\n", r.Path, r.Score)
		for _, snip := range r.Snippets {
			fmt.Printf("  %d: %s\n", snip.LineNo, snip.Text)
		}
	}
}

func mustConfigPath(globals GlobalFlags) string {
	p, err := configPath()
	if err != nil {
		errors.FatalError(errors.NewInternalError("cannot resolve config path", err.Error(), "", err), globals.jsonOutput())
	}
	return p
}
