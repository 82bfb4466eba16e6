package testing

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/heAdz0r/rtk/pkg/memory"
	"github.com/heAdz0r/rtk/pkg/store"
)

// SetupTestStore creates a throwaway SQLite-backed artifact store under
// t.TempDir() with a synthetic project id, automatically closed at test end.
//
// Example:
//
//	func TestMyFeature(t *testing.T) {
//	    s, projectID := testing.SetupTestStore(t)
//	    testing.SeedArtifact(t, s, projectID, artifact)
//	}
func SetupTestStore(t *testing.T) (*store.Store, string) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "memory.db")
	s, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	projectID := fmt.Sprintf("test%012x", time.Now().UnixNano())[:16]
	return s, projectID
}

// SeedArtifact stores a memory.ProjectArtifact under projectID.
func SeedArtifact(t *testing.T, s *store.Store, projectID string, artifact *memory.ProjectArtifact) {
	t.Helper()

	artifact.ProjectID = projectID
	blob, err := store.MarshalArtifact(artifact)
	if err != nil {
		t.Fatalf("failed to marshal artifact: %v", err)
	}
	if err := s.StoreArtifact(projectID, artifact.ProjectRoot, blob, artifact.TotalBytes, artifact.FileCount); err != nil {
		t.Fatalf("failed to store artifact: %v", err)
	}
}

// NewFileArtifact builds a minimal FileArtifact for tests, filling the
// import-anchor invariant when imports is empty.
func NewFileArtifact(relPath string, size int64, content string) memory.FileArtifact {
	imports := []string{}
	digest := memory.ContentDigest([]byte(content))
	fa := memory.FileArtifact{
		RelPath:    relPath,
		Size:       size,
		Digest:     digest,
		Imports:    imports,
		PubSymbols: []memory.Symbol{},
	}
	if len(fa.Imports) == 0 {
		fa.Imports = []string{memory.SelfAnchor(relPath)}
	}
	return fa
}
