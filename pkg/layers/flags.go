package layers

// QueryType is the intent tag that selects which layers are assembled.
type QueryType string

const (
	QueryGeneral  QueryType = "general"
	QueryBugfix   QueryType = "bugfix"
	QueryFeature  QueryType = "feature"
	QueryRefactor QueryType = "refactor"
	QueryIncident QueryType = "incident"
)

// Flags is the set of layers enabled for a query (spec.md §4.8
// "Layer flags per query type").
type Flags struct {
	L0ProjectMap bool
	L1ModuleIdx  bool
	L2TypeGraph  bool
	L3APISurface bool
	L4DepManfst  bool
	L5TestMap    bool
	L6ChangeLog  bool
	TopImports   bool
}

// FlagsFor returns the layer set enabled for the given query type.
func FlagsFor(qt QueryType) Flags {
	switch qt {
	case QueryBugfix:
		return Flags{L1ModuleIdx: true, L3APISurface: true, L6ChangeLog: true}
	case QueryFeature:
		return Flags{L0ProjectMap: true, L1ModuleIdx: true, L3APISurface: true, L4DepManfst: true, TopImports: true}
	case QueryRefactor:
		return Flags{L1ModuleIdx: true, L3APISurface: true}
	case QueryIncident:
		return Flags{L3APISurface: true, L4DepManfst: true, L6ChangeLog: true}
	default: // general
		return Flags{true, true, true, true, true, true, true, true}
	}
}
