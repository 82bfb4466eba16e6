package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/heAdz0r/rtk/internal/errors"
	"github.com/heAdz0r/rtk/pkg/filter"
	"github.com/heAdz0r/rtk/pkg/readcache"
)

func runRead(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("read", flag.ExitOnError)
	level := fs.String("level", "minimal", "Filter level: none|minimal|aggressive")
	rangeSpec := fs.String("range", "", "Line range A:B (1-indexed, inclusive)")
	maxLines := fs.Int("max-lines", 0, "Cap output at N lines (0 = unlimited)")
	lineNumbers := fs.Bool("line-numbers", false, "Prefix each line with its 1-indexed line number")
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		errors.FatalError(errors.NewInputError("a file path is required", "", "rtk read <path>"), globals.jsonOutput())
	}
	path := fs.Arg(0)

	absPath, err := filepath.Abs(path)
	if err != nil {
		errors.FatalError(errors.NewInputError("could not resolve path", err.Error(), ""), globals.jsonOutput())
	}

	info, err := os.Stat(absPath)
	if err != nil {
		errors.FatalError(errors.NewNotFoundError(
			fmt.Sprintf("file not found: %s", path), err.Error(), "check the path and try again"), globals.jsonOutput())
	}

	from, to := 0, 0
	if *rangeSpec != "" {
		from, to, err = parseRange(*rangeSpec)
		if err != nil {
			errors.FatalError(errors.NewInputError("invalid --range", err.Error(), "use the form A:B"), globals.jsonOutput())
		}
	}

	params := readcache.Params{Level: *level, From: from, To: to, MaxLines: *maxLines, LineNumbers: *lineNumbers}
	useCache := readcache.ShouldUse(absPath, params)

	var cache *readcache.Cache
	var key string
	if useCache {
		dir, err := readCacheDir()
		if err == nil {
			if cache, err = readcache.Open(dir); err == nil {
				key = readcache.Key(absPath, info.Size(), info.ModTime().UnixNano(), params)
				if cached, hit := cache.Load(key); hit {
					fmt.Print(cached)
					return
				}
			}
		}
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		errors.FatalError(errors.NewPermissionError("cannot read file", err.Error(), "check file permissions", err), globals.jsonOutput())
	}

	lang := filter.FromExtension(strings.TrimPrefix(filepath.Ext(absPath), "."))
	text := filter.Filter(string(content), filter.Level(*level), lang)

	if from != 0 || to != 0 {
		text = sliceLines(text, from, to)
	}
	if *maxLines > 0 {
		text = capLines(text, *maxLines)
	}
	if *lineNumbers {
		text = numberLines(text)
	}

	if cache != nil && key != "" {
		_ = cache.Store(key, text)
	}
	fmt.Print(text)
}

func parseRange(spec string) (int, int, error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected A:B, got %q", spec)
	}
	from, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, err
	}
	to, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, err
	}
	return from, to, nil
}

func sliceLines(text string, from, to int) string {
	lines := strings.Split(text, "\n")
	if from < 1 {
		from = 1
	}
	if to <= 0 || to > len(lines) {
		to = len(lines)
	}
	if from > len(lines) {
		return ""
	}
	return strings.Join(lines[from-1:to], "\n")
}

func capLines(text string, max int) string {
	lines := strings.Split(text, "\n")
	if len(lines) <= max {
		return text
	}
	return strings.Join(lines[:max], "\n")
}

func numberLines(text string) string {
	lines := strings.Split(text, "\n")
	var out strings.Builder
	for i, l := range lines {
		fmt.Fprintf(&out, "%6d\t%s\n", i+1, l)
	}
	return out.String()
}
