package searchbackend

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectTierFilesAlwaysWins(t *testing.T) {
	assert.Equal(t, TierFiles, SelectTier(true, true, true, true))
}

func TestSelectTierDelegateBeatsRipgrep(t *testing.T) {
	assert.Equal(t, TierDelegate, SelectTier(false, true, true, false))
}

func TestSelectTierRipgrepBeatsBuiltin(t *testing.T) {
	assert.Equal(t, TierRipgrep, SelectTier(false, false, true, false))
}

func TestSelectTierFallsBackToBuiltin(t *testing.T) {
	assert.Equal(t, TierBuiltin, SelectTier(false, false, false, false))
}

func TestSelectTierForceBuiltinOverridesRipgrep(t *testing.T) {
	assert.Equal(t, TierBuiltin, SelectTier(false, false, true, true))
}
