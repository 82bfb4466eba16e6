package layers

import (
	"path"
	"sort"
	"strings"

	"github.com/heAdz0r/rtk/pkg/memory"
)

var entryPointHints = []string{"README.md", "Cargo.toml", "package.json", "pyproject.toml", "src/main.rs", "main.go", "index.js", "index.ts"}

// EntryPoints returns the first n files matching the hint list, falling
// back to path heuristics and finally any non-hidden file
// (spec.md §4.8 "L0 entry_points").
func EntryPoints(files []memory.FileArtifact, n int) []string {
	byPath := make(map[string]bool, len(files))
	for _, f := range files {
		byPath[f.RelPath] = true
	}

	var out []string
	seen := map[string]bool{}
	add := func(p string) bool {
		if seen[p] {
			return false
		}
		seen[p] = true
		out = append(out, p)
		return len(out) >= n
	}

	for _, hint := range entryPointHints {
		if byPath[hint] && add(hint) {
			return out
		}
	}
	for _, f := range files {
		lower := strings.ToLower(f.RelPath)
		if strings.Contains(lower, "main") || strings.Contains(lower, "index") {
			if add(f.RelPath) {
				return out
			}
		}
	}
	for _, f := range files {
		if !strings.HasPrefix(path.Base(f.RelPath), ".") {
			if add(f.RelPath) {
				return out
			}
		}
	}
	return out
}

// HotPaths counts top-level directories, preferring delta paths when a
// delta is present (spec.md §4.8 "L0 hot_paths").
func HotPaths(files []memory.FileArtifact, delta *memory.Delta, n int) []CountEntry {
	counts := map[string]int{}
	if delta != nil && len(delta.Files) > 0 {
		for _, d := range delta.Files {
			counts[topDir(d.Path)]++
		}
	} else {
		for _, f := range files {
			counts[topDir(f.RelPath)]++
		}
	}
	return topN(counts, n)
}

func topDir(relPath string) string {
	if idx := strings.Index(relPath, "/"); idx >= 0 {
		return relPath[:idx]
	}
	return relPath
}

// TopImports counts import-string frequency across all files, skipping
// self: anchors (spec.md §4.8 "top_imports").
func TopImports(files []memory.FileArtifact, n int) []CountEntry {
	counts := map[string]int{}
	for _, f := range files {
		for _, imp := range f.Imports {
			if strings.HasPrefix(imp, "self:") {
				continue
			}
			counts[imp]++
		}
	}
	return topN(counts, n)
}

// CountEntry is a (name, count) pair used by frequency-ranked slices.
type CountEntry struct {
	Name  string
	Count int
}

func topN(counts map[string]int, n int) []CountEntry {
	entries := make([]CountEntry, 0, len(counts))
	for k, v := range counts {
		entries = append(entries, CountEntry{Name: k, Count: v})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Name < entries[j].Name
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// APISurface selects files for the API-surface slice (spec.md §4.8
// "L3 api_surface"): delta paths when the delta is small enough, else
// entry points, else files ranked by pub_symbols count.
func APISurface(files []memory.FileArtifact, delta *memory.Delta, entryPoints []string, maxAPIFiles int) []memory.FileArtifact {
	byPath := make(map[string]memory.FileArtifact, len(files))
	for _, f := range files {
		byPath[f.RelPath] = f
	}

	if delta != nil {
		var nonRemoved []string
		for _, d := range delta.Files {
			if d.Kind != memory.ChangeRemoved {
				nonRemoved = append(nonRemoved, d.Path)
			}
		}
		if len(nonRemoved) > 0 && len(nonRemoved) <= 4*maxAPIFiles {
			var out []memory.FileArtifact
			for _, p := range nonRemoved {
				if f, ok := byPath[p]; ok {
					out = append(out, f)
				}
			}
			if len(out) > 0 {
				return capFiles(out, maxAPIFiles)
			}
		}
	}

	if len(entryPoints) > 0 {
		var out []memory.FileArtifact
		for _, p := range entryPoints {
			if f, ok := byPath[p]; ok {
				out = append(out, f)
			}
		}
		if len(out) > 0 {
			return capFiles(out, maxAPIFiles)
		}
	}

	ranked := make([]memory.FileArtifact, len(files))
	copy(ranked, files)
	sort.SliceStable(ranked, func(i, j int) bool { return len(ranked[i].PubSymbols) > len(ranked[j].PubSymbols) })
	return capFiles(ranked, maxAPIFiles)
}

func capFiles(files []memory.FileArtifact, n int) []memory.FileArtifact {
	if len(files) > n {
		return files[:n]
	}
	return files
}

// ModuleEntry is one L1 module-index row.
type ModuleEntry struct {
	ModulePath string
	Language   string
	Exports    []string
}

// ModuleIndex builds the L1 slice: one entry per file with non-empty
// public symbols, first n export names each (spec.md §4.8 "L1 module_index").
func ModuleIndex(files []memory.FileArtifact, maxModules, exportsPerModule int) []ModuleEntry {
	var out []ModuleEntry
	for _, f := range files {
		if len(f.PubSymbols) == 0 {
			continue
		}
		exports := make([]string, 0, exportsPerModule)
		for i, s := range f.PubSymbols {
			if i >= exportsPerModule {
				break
			}
			exports = append(exports, s.Name)
		}
		out = append(out, ModuleEntry{ModulePath: f.RelPath, Language: f.Language, Exports: exports})
		if len(out) >= maxModules {
			break
		}
	}
	return out
}

var testPathHints = []string{"/test", "/tests", "_test.", ".test.", "spec.", "/spec"}

// TestMap selects files matching test-path heuristics (spec.md §4.8
// "L5 test_map").
func TestMap(files []memory.FileArtifact) []string {
	var out []string
	for _, f := range files {
		lower := strings.ToLower(f.RelPath)
		for _, hint := range testPathHints {
			if strings.Contains(lower, hint) {
				out = append(out, f.RelPath)
				break
			}
		}
	}
	return out
}

// ChangeDigest caps a delta's file list at maxChanges (spec.md §4.8
// "L6 change_digest").
func ChangeDigest(delta *memory.Delta, maxChanges int) []memory.FileDelta {
	if delta == nil {
		return nil
	}
	if len(delta.Files) > maxChanges {
		return delta.Files[:maxChanges]
	}
	return delta.Files
}
