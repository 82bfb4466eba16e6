// Package layers implements the layer selector and renderer
// (spec component C8): detail-level budgets, query-type layer flags,
// context-slice assembly, and text/JSON rendering.
package layers

// DetailLevel selects the size budget applied to each context slice.
type DetailLevel string

const (
	DetailCompact DetailLevel = "compact"
	DetailNormal  DetailLevel = "normal"
	DetailVerbose DetailLevel = "verbose"
)

// Limits is the per-level detail budget table (spec.md §4.8).
type Limits struct {
	Changes        int
	EntryPoints    int
	HotPaths       int
	Imports        int
	APIFiles       int
	APISymbols     int
	Modules        int
	ModuleExports  int
}

var limitsByLevel = map[DetailLevel]Limits{
	DetailCompact: {Changes: 8, EntryPoints: 5, HotPaths: 5, Imports: 5, APIFiles: 5, APISymbols: 8, Modules: 10, ModuleExports: 8},
	DetailNormal:  {Changes: 32, EntryPoints: 10, HotPaths: 10, Imports: 12, APIFiles: 10, APISymbols: 20, Modules: 24, ModuleExports: 16},
	DetailVerbose: {Changes: 256, EntryPoints: 32, HotPaths: 32, Imports: 32, APIFiles: 32, APISymbols: 64, Modules: 128, ModuleExports: 64},
}

// LimitsFor returns the detail budget for level, defaulting to normal for
// an unrecognized value.
func LimitsFor(level DetailLevel) Limits {
	if l, ok := limitsByLevel[level]; ok {
		return l
	}
	return limitsByLevel[DetailNormal]
}
