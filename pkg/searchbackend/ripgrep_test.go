package searchbackend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRipgrepOutputSplitsTriplets(t *testing.T) {
	output := "src/main.go:10:func main() {}\nsrc/lib.go:3:func Lib() {}\n"
	hits := parseRipgrepOutput(output)
	require.Len(t, hits, 2)
	assert.Equal(t, "src/main.go", hits[0].Path)
	assert.Equal(t, 10, hits[0].Line)
	assert.Equal(t, "func main() {}", hits[0].Text)
}

func TestParseRipgrepOutputSkipsMalformedLines(t *testing.T) {
	hits := parseRipgrepOutput("not a valid line\n")
	assert.Empty(t, hits)
}

func TestRipgrepReturnsNilForEmptyTerms(t *testing.T) {
	hits, err := Ripgrep(nil, "/tmp", nil, RipgrepOptions{})
	require.NoError(t, err)
	assert.Nil(t, hits)
}
