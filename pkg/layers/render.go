package layers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/heAdz0r/rtk/pkg/memory"
)

// CacheStatus labels how the returned artifact relates to the request
// (spec.md §4.8 "Cache status label").
type CacheStatus string

const (
	CacheRefreshed    CacheStatus = "refreshed"
	CacheStaleRebuild CacheStatus = "stale_rebuild"
	CacheHit          CacheStatus = "hit"
	CacheDirtyRebuild CacheStatus = "dirty_rebuild"
	CacheMiss         CacheStatus = "miss"
)

// DeriveCacheStatus implements the decision tree: refreshed if a refresh
// was requested; else stale_rebuild if the previous artifact was stale;
// else hit if a previous artifact existed and the delta is empty; else
// dirty_rebuild if a previous artifact existed and the delta is non-empty;
// else miss.
func DeriveCacheStatus(refreshRequested, previousExisted, previousStale bool, delta memory.Delta) CacheStatus {
	switch {
	case refreshRequested:
		return CacheRefreshed
	case previousExisted && previousStale:
		return CacheStaleRebuild
	case previousExisted && delta.IsEmpty():
		return CacheHit
	case previousExisted:
		return CacheDirtyRebuild
	default:
		return CacheMiss
	}
}

// Context is the assembled set of context slices for one render pass.
type Context struct {
	Command        string
	ProjectRoot    string
	ProjectID      string
	ArtifactVer    int
	CacheStatus    CacheStatus
	CacheHit       bool
	Freshness      string // "fresh" | "rebuilt"
	Stats          Stats
	Delta          *memory.Delta
	EntryPoints    []string
	HotPaths       []CountEntry
	TopImportsList []CountEntry
	APIFiles       []memory.FileArtifact
	Modules        []ModuleEntry
	TestFiles      []string
	Changes        []memory.FileDelta
	Manifest       *memory.DependencyManifest
	GraphNodes     int
	GraphEdges     int
}

// Stats summarizes the project artifact for rendering.
type Stats struct {
	FileCount  int
	TotalBytes int64
}

// RenderText renders Context as the one-line-header text format
// (spec.md §4.8 "Rendering" text form).
func RenderText(ctx Context) string {
	var out strings.Builder
	fmt.Fprintf(&out, "memory.%s project=%s id=%s cache=%s freshness=%s\n",
		ctx.Command, ctx.ProjectRoot, ctx.ProjectID, ctx.CacheStatus, ctx.Freshness)
	fmt.Fprintf(&out, "stats: files=%d bytes=%d\n", ctx.Stats.FileCount, ctx.Stats.TotalBytes)

	if ctx.Delta != nil && !ctx.Delta.IsEmpty() {
		fmt.Fprintf(&out, "delta: +%d ~%d -%d\n", ctx.Delta.Added, ctx.Delta.Modified, ctx.Delta.Removed)
	}

	if len(ctx.Changes) > 0 {
		out.WriteString("changes:\n")
		for _, c := range ctx.Changes {
			fmt.Fprintf(&out, "  %s %s\n", c.Kind, c.Path)
		}
	}

	if len(ctx.EntryPoints) > 0 {
		fmt.Fprintf(&out, "entry_points: %s\n", strings.Join(ctx.EntryPoints, ", "))
	}

	if len(ctx.HotPaths) > 0 {
		out.WriteString("hot_paths:\n")
		for _, hp := range ctx.HotPaths {
			fmt.Fprintf(&out, "  %s (%d)\n", hp.Name, hp.Count)
		}
	}

	if len(ctx.TopImportsList) > 0 {
		out.WriteString("top_imports:\n")
		for _, ti := range ctx.TopImportsList {
			fmt.Fprintf(&out, "  %s (%d)\n", ti.Name, ti.Count)
		}
	}

	if len(ctx.APIFiles) > 0 {
		out.WriteString("api_surface:\n")
		for _, f := range ctx.APIFiles {
			fmt.Fprintf(&out, "  %s (%d symbols)\n", f.RelPath, len(f.PubSymbols))
		}
	}

	if len(ctx.Modules) > 0 {
		out.WriteString("module_index:\n")
		for _, m := range ctx.Modules {
			fmt.Fprintf(&out, "  %s [%s]: %s\n", m.ModulePath, m.Language, strings.Join(m.Exports, ", "))
		}
	}

	if ctx.Manifest != nil {
		fmt.Fprintf(&out, "dep_runtime=%d dep_dev=%d dep_build=%d\n",
			len(ctx.Manifest.Runtime), len(ctx.Manifest.Dev), len(ctx.Manifest.Build))
	}

	fmt.Fprintf(&out, "graph nodes=%d edges=%d\n", ctx.GraphNodes, ctx.GraphEdges)
	return out.String()
}

// jsonEnvelope is the JSON rendering shape (spec.md §4.8 "Rendering"
// JSON form).
type jsonEnvelope struct {
	Command         string                `json:"command"`
	ProjectRoot     string                `json:"project_root"`
	ProjectID       string                `json:"project_id"`
	ArtifactVersion int                   `json:"artifact_version"`
	CacheStatus     CacheStatus           `json:"cache_status"`
	CacheHit        bool                  `json:"cache_hit"`
	Freshness       string                `json:"freshness"`
	Stats           Stats                 `json:"stats"`
	Delta           *memory.Delta         `json:"delta,omitempty"`
	Context         map[string]any        `json:"context"`
	Graph           map[string]int        `json:"graph"`
}

// RenderJSON renders Context as the JSON envelope (spec.md §4.8).
func RenderJSON(ctx Context) ([]byte, error) {
	env := jsonEnvelope{
		Command:         ctx.Command,
		ProjectRoot:     ctx.ProjectRoot,
		ProjectID:       ctx.ProjectID,
		ArtifactVersion: ctx.ArtifactVer,
		CacheStatus:     ctx.CacheStatus,
		CacheHit:        ctx.CacheHit,
		Freshness:       ctx.Freshness,
		Stats:           ctx.Stats,
		Delta:           ctx.Delta,
		Context: map[string]any{
			"entry_points": ctx.EntryPoints,
			"hot_paths":    ctx.HotPaths,
			"top_imports":  ctx.TopImportsList,
			"api_surface":  ctx.APIFiles,
			"modules":      ctx.Modules,
			"test_map":     ctx.TestFiles,
			"changes":      ctx.Changes,
			"manifest":     ctx.Manifest,
		},
		Graph: map[string]int{"nodes": ctx.GraphNodes, "edges": ctx.GraphEdges},
	}
	return json.MarshalIndent(env, "", "  ")
}
