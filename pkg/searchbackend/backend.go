package searchbackend

// Tier names the three backend priority tiers (spec.md §4.11).
type Tier int

const (
	TierFiles Tier = iota
	TierDelegate
	TierRipgrep
	TierBuiltin
)

// SelectTier decides which backend tier applies given the front-end flags.
// --files always wins and bypasses external delegation; otherwise delegate
// (if configured) beats ripgrep (if on PATH) beats the built-in walker.
func SelectTier(filesMode bool, delegateConfigured bool, rgAvailable bool, forceBuiltin bool) Tier {
	switch {
	case filesMode:
		return TierFiles
	case delegateConfigured:
		return TierDelegate
	case forceBuiltin:
		return TierBuiltin
	case rgAvailable:
		return TierRipgrep
	default:
		return TierBuiltin
	}
}
