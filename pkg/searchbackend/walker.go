package searchbackend

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// FileCandidate is a file accepted by the built-in walker for scanning.
type FileCandidate struct {
	Path string
	Size int64
}

// WalkerOptions configures the built-in parallel walker tier.
type WalkerOptions struct {
	MaxFileSizeBytes int64
	ExcludeExt       map[string]bool
	ExcludeDirs      map[string]bool
	Parallelism      int
}

// DefaultExcludeDirs lists directories the built-in walker never descends
// into.
var DefaultExcludeDirs = map[string]bool{
	".git": true, "node_modules": true, "target": true, "dist": true,
	"build": true, "vendor": true, ".venv": true, "__pycache__": true,
}

// DefaultExcludeExt lists extensions the built-in walker skips outright.
var DefaultExcludeExt = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".ico": true,
	".pdf": true, ".zip": true, ".tar": true, ".gz": true, ".exe": true,
	".so": true, ".dylib": true, ".dll": true, ".woff": true, ".woff2": true,
}

// Walk collects candidate files under root honoring exclusions, then scans
// each with scan concurrently (spec.md §4.11 tier 3). scan receives a
// file's path and content and returns its raw hits.
func Walk(ctx context.Context, root string, opts WalkerOptions, scan func(path, content string) []RawHit) ([]RawHit, error) {
	candidates, err := collectCandidates(root, opts)
	if err != nil {
		return nil, err
	}

	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = 8
	}

	type result struct {
		hits []RawHit
	}
	results := make([]result, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i, c := range candidates {
		i, c := i, c
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			data, err := os.ReadFile(c.Path)
			if err != nil {
				return nil
			}
			if isBinary(data) {
				return nil
			}
			results[i] = result{hits: scan(c.Path, string(data))}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []RawHit
	for _, r := range results {
		all = append(all, r.hits...)
	}
	return all, nil
}

func collectCandidates(root string, opts WalkerOptions) ([]FileCandidate, error) {
	excludeDirs := opts.ExcludeDirs
	if excludeDirs == nil {
		excludeDirs = DefaultExcludeDirs
	}
	excludeExt := opts.ExcludeExt
	if excludeExt == nil {
		excludeExt = DefaultExcludeExt
	}
	maxSize := opts.MaxFileSizeBytes
	if maxSize <= 0 {
		maxSize = 4 << 20
	}

	var out []FileCandidate
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if excludeDirs[info.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if excludeExt[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		if info.Size() > maxSize {
			return nil
		}
		out = append(out, FileCandidate{Path: path, Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// isBinary reports whether content looks binary: a NUL byte within the
// first 4 KB.
func isBinary(data []byte) bool {
	limit := 4096
	if len(data) < limit {
		limit = len(data)
	}
	return bytes.IndexByte(data[:limit], 0) >= 0
}

// sniffReader reads up to 4KB from r to decide binary-ness without loading
// the whole file, used when size is unknown upfront.
func sniffReader(r io.Reader) (bool, error) {
	buf := make([]byte, 4096)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return false, err
	}
	return bytes.IndexByte(buf[:n], 0) >= 0, nil
}
