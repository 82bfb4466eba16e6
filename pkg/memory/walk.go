package memory

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	gitignore "github.com/sabhiram/go-gitignore"
	"golang.org/x/sync/errgroup"
)

// ExcludedDirs are build/metadata directories the walker never descends
// into (spec.md §4.7).
var ExcludedDirs = map[string]bool{
	".git": true, "node_modules": true, "target": true, "dist": true,
	"build": true, "vendor": true, ".venv": true, "__pycache__": true,
	".rtk": true,
}

// FileStat is the minimal per-file metadata the walker emits.
type FileStat struct {
	RelPath string
	AbsPath string
	Size    int64
	ModNs   int64
}

// Walk recursively collects files under root, honoring .gitignore
// semantics, the excluded-directory set, and *.rtk-lock files
// (spec.md §4.7).
func Walk(root string) (map[string]FileStat, error) {
	ignorer := loadIgnore(root)

	var paths []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}
		if info.IsDir() {
			if ExcludedDirs[info.Name()] {
				return filepath.SkipDir
			}
			if ignorer != nil && ignorer.MatchesPath(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, ".rtk-lock") {
			return nil
		}
		if ignorer != nil && ignorer.MatchesPath(rel) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	results := make(map[string]FileStat, len(paths))
	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(16)
	for _, p := range paths {
		p := p
		g.Go(func() error {
			info, statErr := os.Stat(p)
			if statErr != nil {
				return nil
			}
			rel, _ := filepath.Rel(root, p)
			rel = filepath.ToSlash(rel)
			stat := FileStat{RelPath: rel, AbsPath: p, Size: info.Size(), ModNs: info.ModTime().UnixNano()}
			mu.Lock()
			results[rel] = stat
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return results, nil
}

// SortedPaths returns the keys of m in lexicographic order.
func SortedPaths(m map[string]FileStat) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func loadIgnore(root string) *gitignore.GitIgnore {
	path := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	ign, err := gitignore.CompileIgnoreFile(path)
	if err != nil {
		return nil
	}
	return ign
}
