package syntax

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// RuneRange is an inclusive range of runes.
type RuneRange struct {
	Lo, Hi rune
}

// CharSet is an immutable set of runes stored as sorted, non-overlapping,
// non-adjacent ranges.
type CharSet struct {
	ranges []RuneRange
}

// NewCharSet builds a set from arbitrary, possibly overlapping ranges.
func NewCharSet(ranges ...RuneRange) CharSet {
	if len(ranges) == 0 {
		return CharSet{}
	}
	rs := make([]RuneRange, len(ranges))
	copy(rs, ranges)
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].Lo != rs[j].Lo {
			return rs[i].Lo < rs[j].Lo
		}
		return rs[i].Hi < rs[j].Hi
	})

	merged := rs[:1]
	for _, r := range rs[1:] {
		last := &merged[len(merged)-1]
		if r.Lo <= last.Hi+1 {
			if r.Hi > last.Hi {
				last.Hi = r.Hi
			}
			continue
		}
		merged = append(merged, r)
	}
	return CharSet{ranges: merged}
}

// Ranges returns the normalized ranges. The caller must not modify them.
func (s CharSet) Ranges() []RuneRange {
	return s.ranges
}

// IsEmpty reports whether the set has no members.
func (s CharSet) IsEmpty() bool {
	return len(s.ranges) == 0
}

// Size returns the number of runes in the set.
func (s CharSet) Size() int {
	n := 0
	for _, r := range s.ranges {
		n += int(r.Hi-r.Lo) + 1
	}
	return n
}

// Contains reports whether r is a member of the set.
func (s CharSet) Contains(r rune) bool {
	rs := s.ranges
	// short sets are common, scan them linearly
	if len(rs) <= 4 {
		for _, rr := range rs {
			if r < rr.Lo {
				return false
			}
			if r <= rr.Hi {
				return true
			}
		}
		return false
	}
	i := sort.Search(len(rs), func(i int) bool { return rs[i].Hi >= r })
	return i < len(rs) && rs[i].Lo <= r
}

// Union returns the set of runes in s or t.
func (s CharSet) Union(t CharSet) CharSet {
	all := make([]RuneRange, 0, len(s.ranges)+len(t.ranges))
	all = append(all, s.ranges...)
	all = append(all, t.ranges...)
	return NewCharSet(all...)
}

// Complement returns the set of valid runes not in s.
func (s CharSet) Complement() CharSet {
	var out []RuneRange
	next := rune(0)
	for _, r := range s.ranges {
		if r.Lo > next {
			out = append(out, RuneRange{next, r.Lo - 1})
		}
		next = r.Hi + 1
	}
	if next <= utf8.MaxRune {
		out = append(out, RuneRange{next, utf8.MaxRune})
	}
	return CharSet{ranges: out}
}

// Equal reports whether both sets hold the same runes.
func (s CharSet) Equal(t CharSet) bool {
	if len(s.ranges) != len(t.ranges) {
		return false
	}
	for i := range s.ranges {
		if s.ranges[i] != t.ranges[i] {
			return false
		}
	}
	return true
}

// DigitSet returns the members of \d: 0-9.
func DigitSet() CharSet {
	return CharSet{ranges: []RuneRange{{'0', '9'}}}
}

// WordSet returns the members of \w: A-Z, a-z, 0-9 and underscore.
func WordSet() CharSet {
	return CharSet{ranges: []RuneRange{{'0', '9'}, {'A', 'Z'}, {'_', '_'}, {'a', 'z'}}}
}

// SpaceSet returns the members of \s: tab, newline, vertical tab,
// form feed, carriage return and space.
func SpaceSet() CharSet {
	return CharSet{ranges: []RuneRange{{'\t', '\r'}, {' ', ' '}}}
}

func (s CharSet) String() string {
	var b strings.Builder
	for _, r := range s.ranges {
		writeClassRune(&b, r.Lo)
		switch {
		case r.Hi == r.Lo:
		case r.Hi == r.Lo+1:
			writeClassRune(&b, r.Hi)
		default:
			b.WriteByte('-')
			writeClassRune(&b, r.Hi)
		}
	}
	return b.String()
}

func writeClassRune(b *strings.Builder, r rune) {
	switch r {
	case '\\', ']', '[', '^', '-':
		b.WriteByte('\\')
		b.WriteRune(r)
	case '\t':
		b.WriteString(`\t`)
	default:
		b.WriteRune(r)
	}
}
