package testing

import (
	"testing"

	"github.com/heAdz0r/rtk/pkg/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupTestStore(t *testing.T) {
	s, projectID := SetupTestStore(t)
	require.NotNil(t, s)
	require.Len(t, projectID, 16)

	row, err := s.LoadArtifact(projectID)
	require.NoError(t, err)
	assert.Nil(t, row, "fresh store should have no artifact yet")
}

func TestSeedAndLoadArtifact(t *testing.T) {
	s, projectID := SetupTestStore(t)

	artifact := &memory.ProjectArtifact{
		Version:     memory.ArtifactVersion,
		ProjectRoot: "/tmp/project",
		FileCount:   1,
		TotalBytes:  5,
		Files:       []memory.FileArtifact{NewFileArtifact("main.go", 5, "hello")},
	}
	SeedArtifact(t, s, projectID, artifact)

	row, err := s.LoadArtifact(projectID)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "/tmp/project", row.ProjectRoot)
	assert.Equal(t, 1, row.FileCount)
}

func TestStoreIsolationBetweenTests(t *testing.T) {
	s1, id1 := SetupTestStore(t)
	s2, id2 := SetupTestStore(t)

	assert.NotEqual(t, s1, s2)

	SeedArtifact(t, s1, id1, &memory.ProjectArtifact{ProjectRoot: "/a", Files: []memory.FileArtifact{}})

	row, err := s2.LoadArtifact(id2)
	require.NoError(t, err)
	assert.Nil(t, row, "second store should not see the first store's data")
}
