// Package testing provides test helpers for rtk's memory-layer tests.
//
// It wraps pkg/store with rtk-specific setup and seeding utilities.
//
// # Quick Start
//
// Use SetupTestStore to create a throwaway SQLite-backed artifact store with
// a synthetic project id:
//
//	func TestMyFeature(t *testing.T) {
//	    s, projectID := testing.SetupTestStore(t)
//
//	    testing.SeedArtifact(t, s, projectID, artifact)
//
//	    // Run your tests...
//	}
package testing
