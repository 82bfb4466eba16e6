package memory

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/heAdz0r/rtk/pkg/filter"
	"github.com/heAdz0r/rtk/pkg/symbols"
)

// MaxImports is the cap on a file's deduplicated import list
// (spec.md §4.7, §8 property 5).
const MaxImports = 64

// TTL is the staleness window for a stored artifact (spec.md §4.7).
const TTL = 24 * time.Hour

// IndexOptions configures a Scan pass.
type IndexOptions struct {
	Root            string
	Previous        map[string]FileArtifact // keyed by RelPath
	ForceRehash     bool
	DisableCascade  bool
	ReadFile        func(absPath string) ([]byte, error)
	ExtractImports  func(content string, lang filter.Language) []string
	ExtractTypeEdge func(content string, lang filter.Language, relPath string) []TypeEdge
}

// ScanResult is the outcome of a full incremental scan.
type ScanResult struct {
	Files []FileArtifact
	Delta Delta
}

// Scan walks opts.Root, performs the incremental per-file step against
// opts.Previous, and returns the new file set plus the delta
// (spec.md §4.7).
func Scan(opts IndexOptions) (ScanResult, error) {
	stats, err := Walk(opts.Root)
	if err != nil {
		return ScanResult{}, err
	}

	cascade := map[string]bool{}
	if !opts.DisableCascade && !opts.ForceRehash && len(opts.Previous) > 0 {
		cascade = computeCascadeSet(stats, opts.Previous)
	}

	paths := SortedPaths(stats)
	results := make([]*FileArtifact, len(paths))
	deltas := make([]*FileDelta, len(paths))

	var mu sync.Mutex
	var firstErr error
	g := new(errgroup.Group)
	g.SetLimit(16)

	for i, relPath := range paths {
		i, relPath := i, relPath
		stat := stats[relPath]
		g.Go(func() error {
			prev, existed := opts.Previous[relPath]
			forced := opts.ForceRehash || cascade[relPath]

			if existed && !forced && prev.Size == stat.Size && prev.ModTimeNs == stat.ModNs {
				fa := prev
				results[i] = &fa
				return nil
			}

			content, rerr := opts.ReadFile(stat.AbsPath)
			if rerr != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = rerr
				}
				mu.Unlock()
				return nil
			}
			newDigest := ContentDigest(content)
			if existed && newDigest == prev.Digest {
				fa := prev
				fa.Size = stat.Size
				fa.ModTimeNs = stat.ModNs
				results[i] = &fa
				return nil
			}

			lang := filter.FromExtension(extOf(relPath))
			fa := analyzeFile(relPath, stat, content, lang, opts)
			results[i] = &fa

			kind := ChangeAdded
			if existed {
				kind = ChangeModified
			}
			deltas[i] = &FileDelta{Path: relPath, Kind: kind, NewHash: hashHex(newDigest)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return ScanResult{}, err
	}
	if firstErr != nil {
		return ScanResult{}, firstErr
	}

	var delta Delta
	files := make([]FileArtifact, 0, len(results))
	for i, r := range results {
		if r != nil {
			files = append(files, *r)
		}
		if deltas[i] != nil {
			delta.Files = append(delta.Files, *deltas[i])
			switch deltas[i].Kind {
			case ChangeAdded:
				delta.Added++
			case ChangeModified:
				delta.Modified++
			}
		}
	}

	present := make(map[string]bool, len(files))
	for _, f := range files {
		present[f.RelPath] = true
	}
	for relPath, prev := range opts.Previous {
		if !present[relPath] {
			delta.Removed++
			delta.Files = append(delta.Files, FileDelta{Path: relPath, Kind: ChangeRemoved, OldHash: hashHex(prev.Digest)})
		}
	}

	return ScanResult{Files: files, Delta: delta}, nil
}

func analyzeFile(relPath string, stat FileStat, content []byte, lang filter.Language, opts IndexOptions) FileArtifact {
	text := string(content)
	lineCount := strings.Count(text, "\n") + 1

	var imports []string
	if opts.ExtractImports != nil {
		imports = opts.ExtractImports(text, lang)
	}
	imports = dedupImports(imports, MaxImports)
	if len(imports) == 0 {
		imports = []string{SelfAnchor(relPath)}
	}

	syms := symbols.Extract(text, lang)
	pub := make([]Symbol, 0, len(syms))
	for _, s := range syms {
		if s.Vis == symbols.VisPublic {
			pub = append(pub, Symbol{Kind: string(s.Kind), Name: s.Name})
		}
	}

	var edges []TypeEdge
	if opts.ExtractTypeEdge != nil {
		edges = opts.ExtractTypeEdge(text, lang, relPath)
	}

	return FileArtifact{
		RelPath:    relPath,
		Size:       stat.Size,
		ModTimeNs:  stat.ModNs,
		Digest:     ContentDigest(content),
		Language:   string(lang),
		LineCount:  &lineCount,
		Imports:    imports,
		PubSymbols: pub,
		TypeEdges:  edges,
	}
}

func dedupImports(imports []string, cap int) []string {
	seen := make(map[string]bool, len(imports))
	var out []string
	for _, imp := range imports {
		if imp == "" || seen[imp] {
			continue
		}
		seen[imp] = true
		out = append(out, imp)
		if len(out) >= cap {
			break
		}
	}
	return out
}

// computeCascadeSet finds files whose size/mtime changed, derives module
// stems for each, and marks any previous file whose imports reference one
// of those stems as a substring (spec.md §4.7 "Cascade invalidation").
func computeCascadeSet(stats map[string]FileStat, previous map[string]FileArtifact) map[string]bool {
	var changedStems []string
	for relPath, stat := range stats {
		prev, ok := previous[relPath]
		if !ok || prev.Size != stat.Size || prev.ModTimeNs != stat.ModNs {
			changedStems = append(changedStems, moduleStems(relPath)...)
		}
	}
	if len(changedStems) == 0 {
		return nil
	}

	cascade := make(map[string]bool)
	for relPath, fa := range previous {
		for _, imp := range fa.Imports {
			for _, stem := range changedStems {
				if stem != "" && strings.Contains(imp, stem) {
					cascade[relPath] = true
				}
			}
		}
	}
	return cascade
}

// moduleStems derives the candidate module-name forms a changed file could
// be imported by: basename, basename without extension, slash-path without
// extension, the same with "/" -> "::", and "crate::"/"./" variants.
func moduleStems(relPath string) []string {
	base := relPath
	if idx := strings.LastIndex(relPath, "/"); idx >= 0 {
		base = relPath[idx+1:]
	}
	noExt := relPath
	if idx := strings.LastIndex(relPath, "."); idx >= 0 {
		noExt = relPath[:idx]
	}
	baseNoExt := base
	if idx := strings.LastIndex(base, "."); idx >= 0 {
		baseNoExt = base[:idx]
	}
	coloned := strings.ReplaceAll(noExt, "/", "::")

	return []string{
		base, baseNoExt, noExt, coloned,
		"crate::" + coloned,
		"./" + noExt,
	}
}

func extOf(relPath string) string {
	if idx := strings.LastIndex(relPath, "."); idx >= 0 {
		return relPath[idx+1:]
	}
	return ""
}

func hashHex(d uint64) string {
	const hexdigits = "0123456789abcdef"
	buf := make([]byte, 16)
	for i := 15; i >= 0; i-- {
		buf[i] = hexdigits[d&0xf]
		d >>= 4
	}
	return string(buf)
}

// Freshness describes how a stored artifact compares to a fresh scan
// (spec.md §4.7 "Freshness").
type Freshness struct {
	Stale bool
	Dirty bool
}

// ComputeFreshness evaluates staleness (by TTL) and dirtiness (by delta or
// file-set divergence) for a previously stored artifact.
func ComputeFreshness(updatedAt time.Time, previousPaths, currentPaths map[string]bool, delta Delta) Freshness {
	stale := time.Since(updatedAt) > TTL
	dirty := !delta.IsEmpty()
	if !dirty {
		if len(previousPaths) != len(currentPaths) {
			dirty = true
		} else {
			for p := range currentPaths {
				if !previousPaths[p] {
					dirty = true
					break
				}
			}
		}
	}
	return Freshness{Stale: stale, Dirty: dirty}
}
