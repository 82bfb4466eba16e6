// Package memory implements the project memory layer: the data model shared
// by the incremental indexer (C7), the artifact store (C6), and the layer
// renderer (C8).
package memory

import "time"

// Symbol is a public-symbol summary surfaced from C4's regex extractor.
type Symbol struct {
	Kind      string `json:"kind"`
	Name      string `json:"name"`
	Signature string `json:"signature,omitempty"`
}

// Relation enumerates the kinds of type-relation edges C4 can produce.
type Relation string

const (
	RelationImplements Relation = "implements"
	RelationExtends    Relation = "extends"
	RelationContains   Relation = "contains"
	RelationAlias      Relation = "alias"
)

// TypeEdge is a single type-relation edge extracted from a file.
type TypeEdge struct {
	Source   string   `json:"source"`
	Target   string   `json:"target"`
	Relation Relation `json:"relation"`
	File     string   `json:"file"`
}

// FileArtifact is the per-file record inside a ProjectArtifact.
//
// Invariants: RelPath uses forward slashes; Imports is never empty (a
// self:<hex> anchor is synthesised when a file has no real imports);
// len(PubSymbols) <= 64.
type FileArtifact struct {
	RelPath    string     `json:"rel_path"`
	Size       int64      `json:"size"`
	ModTimeNs  int64      `json:"mtime_ns"`
	Digest     uint64     `json:"digest"`
	Language   string     `json:"language,omitempty"`
	LineCount  *int       `json:"line_count,omitempty"`
	Imports    []string   `json:"imports"`
	PubSymbols []Symbol   `json:"pub_symbols"`
	TypeEdges  []TypeEdge `json:"type_edges,omitempty"`
}

// DependencyManifest holds the three dependency lists parsed from a
// project's package manifest (spec.md §3).
type DependencyManifest struct {
	Runtime []DependencyEntry `json:"runtime"`
	Dev     []DependencyEntry `json:"dev"`
	Build   []DependencyEntry `json:"build"`
}

// DependencyEntry is one {name, version} pair.
type DependencyEntry struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ProjectArtifact is the content-addressed snapshot of one project root.
//
// Invariants: Version == ArtifactVersion; Files sorted by RelPath;
// TotalBytes == sum of Files[i].Size.
type ProjectArtifact struct {
	Version     int                 `json:"version"`
	ProjectID   string              `json:"project_id"`
	ProjectRoot string              `json:"project_root"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	FileCount   int                 `json:"file_count"`
	TotalBytes  int64               `json:"total_bytes"`
	Files       []FileArtifact      `json:"files"`
	Manifest    *DependencyManifest `json:"manifest,omitempty"`
}

// ChangeKind enumerates per-file delta kinds.
type ChangeKind string

const (
	ChangeAdded    ChangeKind = "added"
	ChangeModified ChangeKind = "modified"
	ChangeRemoved  ChangeKind = "removed"
)

// FileDelta describes one changed file between two scans.
type FileDelta struct {
	Path    string     `json:"path"`
	Kind    ChangeKind `json:"change"`
	OldHash string     `json:"old_hash,omitempty"`
	NewHash string     `json:"new_hash,omitempty"`
}

// Delta summarises the difference between a previous artifact and the
// current scan.
type Delta struct {
	Added    int         `json:"added"`
	Modified int         `json:"modified"`
	Removed  int         `json:"removed"`
	Files    []FileDelta `json:"files"`
}

// IsEmpty reports whether the delta recorded no changes.
func (d *Delta) IsEmpty() bool {
	return d == nil || (d.Added == 0 && d.Modified == 0 && d.Removed == 0)
}
