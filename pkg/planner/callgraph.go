package planner

import (
	"regexp"
	"strings"
)

// defRe matches common function/method definition headers across the
// languages this tool targets, capturing the defined name. It is
// intentionally loose: a regex-built call graph trades precision for being
// dependency-free and language-agnostic (spec.md §4.14 "caller score from
// a regex-built call graph").
var defRe = regexp.MustCompile(`(?m)^\s*(?:func|def|fn|function)\s+(?:\([^)]*\)\s*)?([A-Za-z_][A-Za-z0-9_]*)\s*\(`)

// callRe matches a bare identifier immediately followed by "(", used as a
// coarse call-site detector.
var callRe = regexp.MustCompile(`\b([A-Za-z_][A-Za-z0-9_]*)\s*\(`)

// CallGraph maps a defined symbol name to the set of relative paths whose
// bodies contain a call-shaped reference to that name.
type CallGraph struct {
	callers map[string]map[string]bool
}

// FileText pairs a relative path with its content, the minimal input the
// call-graph builder needs.
type FileText struct {
	RelPath string
	Content string
}

// BuildCallGraph scans every file for definitions, then scans every file
// again for call-shaped references to those definitions, recording which
// files call which defined symbols.
func BuildCallGraph(files []FileText) *CallGraph {
	defined := map[string]bool{}
	for _, f := range files {
		for _, m := range defRe.FindAllStringSubmatch(f.Content, -1) {
			defined[m[1]] = true
		}
	}

	callers := make(map[string]map[string]bool, len(defined))
	for _, f := range files {
		seen := map[string]bool{}
		for _, m := range callRe.FindAllStringSubmatch(f.Content, -1) {
			name := m[1]
			if !defined[name] || seen[name] {
				continue
			}
			seen[name] = true
			if callers[name] == nil {
				callers[name] = map[string]bool{}
			}
			callers[name][f.RelPath] = true
		}
	}
	return &CallGraph{callers: callers}
}

// CallerCount returns the number of distinct files that call any symbol
// defined in relPath, using symbolNames as the symbols relPath defines.
func (g *CallGraph) CallerCount(relPath string, symbolNames []string) int {
	if g == nil {
		return 0
	}
	callers := map[string]bool{}
	for _, name := range symbolNames {
		for caller := range g.callers[name] {
			if caller != relPath {
				callers[caller] = true
			}
		}
	}
	return len(callers)
}

// baseSymbolName strips a language-qualified prefix (e.g. "pkg.Func" or
// "Type::method") down to the bare identifier used by defRe/callRe.
func baseSymbolName(name string) string {
	if idx := strings.LastIndexAny(name, ".:"); idx >= 0 {
		return strings.TrimLeft(name[idx+1:], ":")
	}
	return name
}
