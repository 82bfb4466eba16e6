package searchbackend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupByFilePreservesFirstSeenOrder(t *testing.T) {
	hits := []DelegateHit{
		{Path: "b.go", Line: 1},
		{Path: "a.go", Line: 1},
		{Path: "b.go", Line: 2},
	}
	order, byFile := GroupByFile(hits)
	require.Equal(t, []string{"b.go", "a.go"}, order)
	assert.Len(t, byFile["b.go"], 2)
	assert.Len(t, byFile["a.go"], 1)
}

func TestGroupByFileEmptyInput(t *testing.T) {
	order, byFile := GroupByFile(nil)
	assert.Nil(t, order)
	assert.Empty(t, byFile)
}
