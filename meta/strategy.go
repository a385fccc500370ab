package meta

import (
	"github.com/coregx/regrep/nfa"
	"github.com/coregx/regrep/prefilter"
)

// Strategy represents how the engine drives the backtracker.
type Strategy int

const (
	// UseAnchored makes a single attempt at offset 0.
	//
	// Selected for:
	//   - Patterns whose every branch begins with ^
	UseAnchored Strategy = iota

	// UsePrefilter lets a literal prefilter propose candidate start offsets.
	// A complete single-literal pattern without groups skips the backtracker.
	//
	// Selected for:
	//   - Patterns with a known, non-empty prefix literal set
	//   - EnablePrefilter = true
	UsePrefilter

	// UseFirstByte skips offsets whose byte cannot begin a match.
	//
	// Selected for:
	//   - Patterns with no prefix literals but a small first-byte set
	//   - EnableFirstByte = true
	UseFirstByte

	// UseBacktrack tries the backtracker at every character boundary.
	//
	// Selected for:
	//   - Patterns that may begin with any character (., \W, negated classes)
	//   - Nullable patterns
	//   - All optimisations disabled
	UseBacktrack
)

// String returns a human-readable representation of the Strategy.
func (s Strategy) String() string {
	switch s {
	case UseAnchored:
		return "Anchored"
	case UsePrefilter:
		return "Prefilter"
	case UseFirstByte:
		return "FirstByte"
	case UseBacktrack:
		return "Backtrack"
	default:
		return "Unknown"
	}
}

// selectStrategy picks the cheapest sound way to find start offsets.
func selectStrategy(n *nfa.NFA, pf prefilter.Prefilter, fb *nfa.FirstByteSet, config Config) Strategy {
	if n.IsAnchored() {
		return UseAnchored
	}
	if config.EnablePrefilter && pf != nil {
		return UsePrefilter
	}
	if config.EnableFirstByte && fb != nil && fb.IsUseful() {
		return UseFirstByte
	}
	return UseBacktrack
}
