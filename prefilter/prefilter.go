// Package prefilter provides fast candidate filtering for regex search using
// extracted literal sequences.
//
// A prefilter quickly skips positions in the haystack that cannot begin a
// match. The backtracker then only runs at the candidates it reports.
//
// The package selects a prefilter from the extracted prefix literals:
//   - Single byte → memchr
//   - Two or three single bytes → memchr2 / memchr3
//   - Single substring → memmem
//   - Many literals sharing a long prefix → memmem on the prefix
//   - Many literals → Aho-Corasick automaton
//
// Example usage:
//
//	node, _ := syntax.ParseString("(hello|world)")
//	prefixes := literal.New(literal.DefaultConfig()).ExtractPrefixes(node)
//	pf := prefilter.NewBuilder(prefixes).Build()
//
//	haystack := []byte("foo hello bar world baz")
//	pos := pf.Find(haystack, 0)
//	// pos == 4 (position of "hello")
package prefilter

import (
	"github.com/coregx/ahocorasick"

	"github.com/coregx/regrep/literal"
	"github.com/coregx/regrep/simd"
)

// minSharedPrefix is the shortest common prefix worth searching for instead
// of building an automaton over all literals.
const minSharedPrefix = 3

// Prefilter is used to quickly find candidate match positions before running
// the full regex engine.
type Prefilter interface {
	// Find returns the index of the first candidate match starting at or after
	// 'start', or -1 if no candidate is found.
	//
	// A candidate does NOT guarantee a match; the caller must verify it with
	// the full engine unless IsComplete() is true.
	Find(haystack []byte, start int) int

	// IsComplete returns true if a candidate found by Find is always the
	// start of a match of length LiteralLen.
	IsComplete() bool

	// LiteralLen returns the length of the literal when IsComplete is true,
	// and 0 otherwise.
	LiteralLen() int

	// HeapBytes returns the approximate heap memory held by the prefilter.
	HeapBytes() int

	// String names the prefilter kind for logs and debugging.
	String() string
}

// Builder constructs the most suitable prefilter for a prefix set.
type Builder struct {
	prefixes *literal.Seq
}

// NewBuilder creates a builder for the given prefix literals.
// A nil or empty seq produces no prefilter.
func NewBuilder(prefixes *literal.Seq) *Builder {
	return &Builder{prefixes: prefixes}
}

// Build returns the selected prefilter, or nil if none applies.
func (b *Builder) Build() Prefilter {
	seq := b.prefixes
	if seq.IsEmpty() {
		return nil
	}
	for i := 0; i < seq.Len(); i++ {
		if seq.Get(i).Len() == 0 {
			// an empty literal occurs everywhere
			return nil
		}
	}

	if seq.Len() == 1 {
		lit := seq.Get(0)
		if lit.Len() == 1 {
			return newMemchrPrefilter(lit.Bytes[0], lit.Complete)
		}
		return newMemmemPrefilter(lit.Bytes, lit.Complete)
	}

	if bs, ok := singleBytes(seq); ok && len(bs) <= 3 {
		return newMemchrNPrefilter(bs)
	}
	if lcp := seq.LongestCommonPrefix(); len(lcp) >= minSharedPrefix {
		return newMemmemPrefilter(lcp, false)
	}
	return newAhoCorasickPrefilter(seq)
}

// singleBytes returns the literals as bytes if every literal has length 1.
func singleBytes(seq *literal.Seq) ([]byte, bool) {
	out := make([]byte, 0, seq.Len())
	for i := 0; i < seq.Len(); i++ {
		lit := seq.Get(i)
		if lit.Len() != 1 {
			return nil, false
		}
		out = append(out, lit.Bytes[0])
	}
	return out, true
}

// memchrPrefilter searches for a single byte.
type memchrPrefilter struct {
	needle   byte
	complete bool
}

func newMemchrPrefilter(needle byte, complete bool) Prefilter {
	return &memchrPrefilter{needle: needle, complete: complete}
}

func (p *memchrPrefilter) Find(haystack []byte, start int) int {
	if start >= len(haystack) {
		return -1
	}
	pos := simd.Memchr(haystack[start:], p.needle)
	if pos == -1 {
		return -1
	}
	return start + pos
}

func (p *memchrPrefilter) IsComplete() bool { return p.complete }

func (p *memchrPrefilter) LiteralLen() int {
	if p.complete {
		return 1
	}
	return 0
}

func (p *memchrPrefilter) HeapBytes() int { return 0 }

func (p *memchrPrefilter) String() string { return "memchr" }

// memchrNPrefilter searches for any of two or three bytes.
type memchrNPrefilter struct {
	needles []byte
}

func newMemchrNPrefilter(needles []byte) Prefilter {
	return &memchrNPrefilter{needles: needles}
}

func (p *memchrNPrefilter) Find(haystack []byte, start int) int {
	if start >= len(haystack) {
		return -1
	}
	var pos int
	if len(p.needles) == 2 {
		pos = simd.Memchr2(haystack[start:], p.needles[0], p.needles[1])
	} else {
		pos = simd.Memchr3(haystack[start:], p.needles[0], p.needles[1], p.needles[2])
	}
	if pos == -1 {
		return -1
	}
	return start + pos
}

func (p *memchrNPrefilter) IsComplete() bool { return false }

func (p *memchrNPrefilter) LiteralLen() int { return 0 }

func (p *memchrNPrefilter) HeapBytes() int { return len(p.needles) }

func (p *memchrNPrefilter) String() string {
	if len(p.needles) == 2 {
		return "memchr2"
	}
	return "memchr3"
}

// memmemPrefilter searches for a substring.
type memmemPrefilter struct {
	needle   []byte
	complete bool
}

func newMemmemPrefilter(needle []byte, complete bool) Prefilter {
	// own the needle so later changes to the seq cannot affect it
	n := make([]byte, len(needle))
	copy(n, needle)
	return &memmemPrefilter{needle: n, complete: complete}
}

func (p *memmemPrefilter) Find(haystack []byte, start int) int {
	if start >= len(haystack) {
		return -1
	}
	pos := simd.Memmem(haystack[start:], p.needle)
	if pos == -1 {
		return -1
	}
	return start + pos
}

func (p *memmemPrefilter) IsComplete() bool { return p.complete }

func (p *memmemPrefilter) LiteralLen() int {
	if p.complete {
		return len(p.needle)
	}
	return 0
}

func (p *memmemPrefilter) HeapBytes() int { return len(p.needle) }

func (p *memmemPrefilter) String() string { return "memmem" }

// ahoCorasickPrefilter finds the leftmost occurrence of any literal.
//
// The automaton reports the occurrence that ends first, so Find widens the
// result to the earliest start that any literal can begin at.
type ahoCorasickPrefilter struct {
	auto      *ahocorasick.Automaton
	patterns  int
	maxLitLen int
	heapBytes int
}

func newAhoCorasickPrefilter(seq *literal.Seq) Prefilter {
	builder := ahocorasick.NewBuilder()
	heap, longest := 0, 0
	for i := 0; i < seq.Len(); i++ {
		lit := seq.Get(i)
		builder.AddPattern(lit.Bytes)
		heap += lit.Len()
		longest = max(longest, lit.Len())
	}
	auto, err := builder.Build()
	if err != nil {
		return nil
	}
	return &ahoCorasickPrefilter{auto: auto, patterns: seq.Len(), maxLitLen: longest, heapBytes: heap}
}

func (p *ahoCorasickPrefilter) Find(haystack []byte, start int) int {
	if start >= len(haystack) {
		return -1
	}
	m := p.auto.Find(haystack, start)
	if m == nil {
		return -1
	}
	// An occurrence starting before m ends at or after m.End, so it begins
	// no earlier than m.End-maxLitLen.
	for at := max(start, m.End-p.maxLitLen); at < m.Start; at++ {
		if p.auto.FindAt(haystack, at) != nil {
			return at
		}
	}
	return m.Start
}

func (p *ahoCorasickPrefilter) IsComplete() bool { return false }

func (p *ahoCorasickPrefilter) LiteralLen() int { return 0 }

// HeapBytes counts the pattern bytes only; the automaton does not report
// its own size.
func (p *ahoCorasickPrefilter) HeapBytes() int { return p.heapBytes }

func (p *ahoCorasickPrefilter) String() string { return "aho-corasick" }
