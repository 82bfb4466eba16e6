package digest

import (
	"testing"

	"github.com/heAdz0r/rtk/pkg/filter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTabularDelimiter(t *testing.T) {
	assert.Equal(t, rune(','), TabularDelimiter(".csv"))
	assert.Equal(t, rune('\t'), TabularDelimiter("tsv"))
	assert.Equal(t, rune(0), TabularDelimiter(".txt"))
}

func TestBuildTabularDigestReportsColumnsAndStats(t *testing.T) {
	content := "id,a,b\n1,10,-1\n2,20,30\n"
	out, err := BuildTabularDigest([]byte(content), ',', filter.LevelMinimal)
	require.NoError(t, err)
	assert.Contains(t, out, "Columns: 3")
	assert.Contains(t, out, "min=10")
	assert.Contains(t, out, "max=20")
}

func TestBuildTabularDigestAggressiveSkipsNumericStats(t *testing.T) {
	content := "id,a\n1,10\n2,20\n"
	out, err := BuildTabularDigest([]byte(content), ',', filter.LevelAggressive)
	require.NoError(t, err)
	assert.NotContains(t, out, "Numeric stats")
}

func TestHasSpecialDigest(t *testing.T) {
	assert.True(t, HasSpecialDigest("Cargo.lock"))
	assert.True(t, HasSpecialDigest("package.json"))
	assert.True(t, HasSpecialDigest(".env.local"))
	assert.True(t, HasSpecialDigest("Dockerfile.prod"))
	assert.True(t, HasSpecialDigest("README.md"))
	assert.False(t, HasSpecialDigest("main.go"))
}

func TestTrySpecialDigestLockFile(t *testing.T) {
	out, ok := TrySpecialDigest("Cargo.lock", "name = \"foo\"\nversion = \"1\"\n")
	require.True(t, ok)
	assert.Contains(t, out, "Lock-file digest")
}

func TestTrySpecialDigestPackageJSON(t *testing.T) {
	content := `{"name":"demo","version":"1.0.0","scripts":{"build":"x"},"dependencies":{"a":"1"}}`
	out, ok := TrySpecialDigest("package.json", content)
	require.True(t, ok)
	assert.Contains(t, out, "Name: demo")
	assert.Contains(t, out, "Dependencies: 1")
}

func TestTrySpecialDigestEnvMasksValues(t *testing.T) {
	out, ok := TrySpecialDigest(".env", "SECRET=abc123\nAPI_KEY=xyz\n")
	require.True(t, ok)
	assert.Contains(t, out, "SECRET=***")
	assert.NotContains(t, out, "abc123")
}

func TestTrySpecialDigestFallsThroughOnParseFailure(t *testing.T) {
	_, ok := TrySpecialDigest("package.json", "not json at all {")
	assert.False(t, ok)
}

func TestTrySpecialDigestMarkdownOutline(t *testing.T) {
	content := "# Title\n\nSome text\n\n## Section\n"
	out, ok := TrySpecialDigest("README.md", content)
	require.True(t, ok)
	assert.Contains(t, out, "# Title")
	assert.Contains(t, out, "## Section")
}

func TestPnpmLockStats(t *testing.T) {
	content := "packages:\n  /foo@1.0.0:\n    resolution: {}\n  /bar@2.0.0:\n    resolution: {}\n"
	n, err := PnpmLockStats(content)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
