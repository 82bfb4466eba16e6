package memory

import (
	"crypto/sha256"
	"encoding/hex"
	"hash/fnv"
	"path/filepath"
	"strings"
)

// ArtifactVersion mirrors pkg/store.ArtifactVersion; kept as a separate
// constant so this package has no import-cycle dependency on pkg/store.
const ArtifactVersion = 1

// normalizePath forward-slashes a path for stable hashing across platforms.
func normalizePath(p string) string {
	return strings.ReplaceAll(filepath.ToSlash(p), "\\", "/")
}

// ProjectID derives the stable 16-hex project id from a canonical project
// root path. It is a pure function of the path (spec.md §8 property 4).
func ProjectID(canonicalRoot string) string {
	sum := sha256.Sum256([]byte(normalizePath(canonicalRoot)))
	return hex.EncodeToString(sum[:])[:16]
}

// ContentDigest computes the 64-bit content digest used for file-change
// detection (spec.md §3 "64-bit content digest").
func ContentDigest(content []byte) uint64 {
	h := fnv.New64a()
	_, _ = h.Write(content)
	return h.Sum64()
}

// SelfAnchor synthesises the self:<hex> import anchor inserted when a file
// has no real imports (spec.md §3 import anchor invariant).
func SelfAnchor(relPath string) string {
	sum := sha256.Sum256([]byte(normalizePath(relPath)))
	return "self:" + hex.EncodeToString(sum[:])[:16]
}
