package literal

import (
	"unicode/utf8"

	"github.com/coregx/regrep/syntax"
)

// ExtractorConfig bounds literal extraction so that patterns like
// [a-z][a-z][a-z] cannot blow up into thousands of literals.
type ExtractorConfig struct {
	// MaxLiterals is the maximum number of literals in a prefix set.
	// Default: 64
	MaxLiterals int

	// MaxLiteralLen is the maximum length of a single literal in bytes.
	// Longer literals are truncated and lose their Complete flag.
	// Default: 64
	MaxLiteralLen int

	// MaxClassSize is the largest character class expanded into literals.
	// Default: 10
	MaxClassSize int
}

// DefaultConfig returns the default extractor configuration.
func DefaultConfig() ExtractorConfig {
	return ExtractorConfig{
		MaxLiterals:   64,
		MaxLiteralLen: 64,
		MaxClassSize:  10,
	}
}

// Extractor extracts prefix and required literals from syntax trees.
type Extractor struct {
	config ExtractorConfig
}

// New creates an extractor with the given configuration.
func New(config ExtractorConfig) *Extractor {
	return &Extractor{config: config}
}

// ExtractPrefixes returns a set of literals such that every match of node
// begins with one of them. It returns nil when no such set is known: some
// branch can begin with an arbitrary character, or a match may be empty.
//
// Example:
//
//	/foo|bar/      → ["foo", "bar"] (complete)
//	/hello\d+/     → ["hello"] (incomplete)
//	/[ab]c/        → ["ac", "bc"] (complete)
//	/foo|.*bar/    → nil
func (e *Extractor) ExtractPrefixes(node syntax.Node) *Seq {
	lits, ok := e.prefixes(node)
	if !ok || len(lits) == 0 {
		return nil
	}
	for _, lit := range lits {
		if len(lit.Bytes) == 0 {
			// the empty string prefixes everything
			return nil
		}
	}
	seq := NewSeq(lits...)
	seq.Minimize()
	return seq
}

// prefixes returns the prefix set of node. ok is false when unknown.
//
//nolint:gocyclo // one case per node kind
func (e *Extractor) prefixes(node syntax.Node) (lits []Literal, ok bool) {
	switch n := node.(type) {
	case *syntax.Literal:
		if n.Rune == utf8.RuneError {
			// also matches invalid UTF-8
			return nil, false
		}
		return []Literal{{Bytes: utf8.AppendRune(nil, n.Rune), Complete: true}}, true

	case *syntax.CharClass:
		return e.expandClass(n)

	case *syntax.Empty:
		return []Literal{{Bytes: []byte{}, Complete: true}}, true

	case *syntax.Anchor, *syntax.Backref:
		// assertions and backreferences are only resolved at search time
		return []Literal{{Bytes: []byte{}, Complete: false}}, true

	case *syntax.Group:
		return e.prefixes(n.Body)

	case *syntax.Concat:
		return e.concat(n.Subs)

	case *syntax.Alternate:
		var all []Literal
		for _, sub := range n.Subs {
			lits, ok := e.prefixes(sub)
			if !ok {
				// an unconstrained branch leaves no usable prefix set
				return nil, false
			}
			all = append(all, lits...)
			if len(all) > e.config.MaxLiterals {
				return nil, false
			}
		}
		return all, true

	case *syntax.Repeat:
		body, ok := e.prefixes(n.Body)
		if !ok {
			return nil, false
		}
		if n.Max != 1 {
			// another iteration may follow
			body = markIncomplete(body)
		}
		if n.Min == 0 {
			body = append(body, Literal{Bytes: []byte{}, Complete: true})
		}
		return body, true
	}
	// AnyChar
	return nil, false
}

// concat computes the cross product of the prefix sets of subs. Only
// complete literals are extended; extraction stops at the first sub whose
// prefixes are unknown or when limits are hit.
func (e *Extractor) concat(subs []syntax.Node) ([]Literal, bool) {
	acc := []Literal{{Bytes: []byte{}, Complete: true}}
	for _, sub := range subs {
		if !anyComplete(acc) {
			break
		}
		next, ok := e.prefixes(sub)
		if !ok {
			return markIncomplete(acc), true
		}

		var product []Literal
		for _, a := range acc {
			if !a.Complete {
				product = append(product, a)
				continue
			}
			for _, b := range next {
				joined := make([]byte, 0, len(a.Bytes)+len(b.Bytes))
				joined = append(joined, a.Bytes...)
				joined = append(joined, b.Bytes...)
				product = append(product, Literal{Bytes: joined, Complete: b.Complete})
			}
		}
		if len(product) > e.config.MaxLiterals {
			return markIncomplete(acc), true
		}
		acc = e.truncate(product)
	}
	return acc, true
}

func (e *Extractor) expandClass(n *syntax.CharClass) ([]Literal, bool) {
	if n.Negated || n.Set.Size() > e.config.MaxClassSize || n.Set.Contains(utf8.RuneError) {
		return nil, false
	}
	var lits []Literal
	for _, r := range n.Set.Ranges() {
		for c := r.Lo; c <= r.Hi; c++ {
			lits = append(lits, Literal{Bytes: utf8.AppendRune(nil, c), Complete: true})
		}
	}
	return lits, len(lits) > 0
}

func (e *Extractor) truncate(lits []Literal) []Literal {
	for i := range lits {
		if len(lits[i].Bytes) > e.config.MaxLiteralLen {
			lits[i].Bytes = lits[i].Bytes[:e.config.MaxLiteralLen]
			lits[i].Complete = false
		}
	}
	return lits
}

func anyComplete(lits []Literal) bool {
	for _, l := range lits {
		if l.Complete {
			return true
		}
	}
	return false
}

func markIncomplete(lits []Literal) []Literal {
	out := make([]Literal, len(lits))
	for i, l := range lits {
		out[i] = Literal{Bytes: l.Bytes, Complete: false}
	}
	return out
}

// ExtractRequired returns the longest literal that every match of node
// must contain, or nil if none is known.
//
// Example:
//
//	/\w+@example\.com/ → "@example.com"
//	/(ab)+c/           → "ab"
//	/foo|bar/          → nil
func (e *Extractor) ExtractRequired(node syntax.Node) []byte {
	exact, isExact, best := required(node)
	if isExact && len(exact) > len(best) {
		best = exact
	}
	if len(best) == 0 {
		return nil
	}
	return best
}

// required reports, for node, the exact text it always matches (if any)
// and the longest literal contained in every match.
func required(node syntax.Node) (exact []byte, isExact bool, best []byte) {
	switch n := node.(type) {
	case *syntax.Literal:
		if n.Rune == utf8.RuneError {
			return nil, false, nil
		}
		return utf8.AppendRune(nil, n.Rune), true, nil

	case *syntax.CharClass:
		rs := n.Set.Ranges()
		if !n.Negated && len(rs) == 1 && rs[0].Lo == rs[0].Hi && rs[0].Lo != utf8.RuneError {
			return utf8.AppendRune(nil, rs[0].Lo), true, nil
		}
		return nil, false, nil

	case *syntax.Anchor, *syntax.Empty:
		return []byte{}, true, nil

	case *syntax.Group:
		return required(n.Body)

	case *syntax.Repeat:
		if n.Min == 0 {
			return nil, false, nil
		}
		ex, ok, b := required(n.Body)
		if n.Max == 1 {
			return ex, ok, b
		}
		// at least one copy of the body appears
		if ok && len(ex) > len(b) {
			b = ex
		}
		return nil, false, b

	case *syntax.Concat:
		var run []byte
		runExact := true
		for _, sub := range n.Subs {
			ex, ok, b := required(sub)
			if len(b) > len(best) {
				best = b
			}
			if ok {
				run = append(run, ex...)
				continue
			}
			runExact = false
			if len(run) > len(best) {
				best = run
			}
			run = nil
		}
		if runExact {
			return run, true, best
		}
		if len(run) > len(best) {
			best = run
		}
		return nil, false, best
	}
	// AnyChar, Alternate, Backref
	return nil, false, nil
}
