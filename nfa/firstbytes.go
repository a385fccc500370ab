package nfa

import (
	"unicode/utf8"

	"github.com/coregx/regrep/internal/conv"
	"github.com/coregx/regrep/internal/sparse"
	"github.com/coregx/regrep/simd"
)

// FirstByteSet represents the set of bytes that can start a match.
// Used to skip start offsets that cannot begin a match.
type FirstByteSet struct {
	// bytes is a 256-entry lookup table for O(1) membership test
	bytes [256]bool
	// list holds the members in ascending order
	list []byte
}

// Contains returns true if b can be the first byte of a match.
func (f *FirstByteSet) Contains(b byte) bool {
	return f.bytes[b]
}

// Count returns the number of possible first bytes.
func (f *FirstByteSet) Count() int {
	return len(f.list)
}

// Bytes returns the members in ascending order.
func (f *FirstByteSet) Bytes() []byte {
	return f.list
}

// IsUseful returns true if the set can reject some offsets.
func (f *FirstByteSet) IsUseful() bool {
	return len(f.list) > 0 && len(f.list) < 256
}

// Find returns the first offset >= at whose byte is in the set, or -1.
// It has the shape of Candidates.
func (f *FirstByteSet) Find(haystack []byte, at int) int {
	if at >= len(haystack) {
		return -1
	}
	var pos int
	switch len(f.list) {
	case 1:
		pos = simd.Memchr(haystack[at:], f.list[0])
	case 2:
		pos = simd.Memchr2(haystack[at:], f.list[0], f.list[1])
	case 3:
		pos = simd.Memchr3(haystack[at:], f.list[0], f.list[1], f.list[2])
	default:
		for i := at; i < len(haystack); i++ {
			if f.bytes[haystack[i]] {
				return i
			}
		}
		return -1
	}
	if pos < 0 {
		return -1
	}
	return at + pos
}

func (f *FirstByteSet) addRange(lo, hi byte) {
	for b := int(lo); b <= int(hi); b++ {
		f.bytes[b] = true
	}
}

// ExtractFirstBytes walks the epsilon closure of the start state and
// collects the leading byte of every character that can begin a match.
//
// Returns nil when the set is not exhaustive: the pattern can match the
// empty string, starts with a backreference, or starts with a step that
// accepts too many bytes to enumerate (., negated classes, U+FFFD, which
// also matches invalid UTF-8).
func ExtractFirstBytes(n *NFA) *FirstByteSet {
	result := &FirstByteSet{}
	seen := sparse.New(conv.IntToUint32(len(n.states)))
	stack := []StateID{n.start}

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !seen.Insert(uint32(id)) {
			continue
		}

		s := &n.states[id]
		switch s.kind {
		case StateMatch, StateBackref, StateAny:
			return nil
		case StateRune:
			if s.r == utf8.RuneError {
				return nil
			}
			var buf [utf8.UTFMax]byte
			utf8.EncodeRune(buf[:], s.r)
			result.bytes[buf[0]] = true
		case StateClass:
			if s.negated || s.class.Contains(utf8.RuneError) {
				return nil
			}
			for _, r := range s.class.Ranges() {
				lo, hi := leadByte(r.Lo), leadByte(r.Hi)
				result.addRange(lo, hi)
			}
		case StateSplit:
			stack = append(stack, s.right, s.left)
		case StateLook:
			if s.look == LookEndLine {
				// $ can be satisfied by an empty match at the end
				return nil
			}
			stack = append(stack, s.next)
		case StateFail:
		default:
			// Epsilon, Capture, RepeatMark, RepeatCheck
			stack = append(stack, s.next)
		}
	}

	for b := 0; b < 256; b++ {
		if result.bytes[b] {
			result.list = append(result.list, byte(b))
		}
	}
	return result
}

// leadByte returns the first byte of the UTF-8 encoding of r. The lead byte
// is monotonic in r, so a rune range maps to a contiguous byte range.
func leadByte(r rune) byte {
	if r > utf8.MaxRune {
		r = utf8.MaxRune
	}
	var buf [utf8.UTFMax]byte
	if !utf8.ValidRune(r) {
		// surrogates encode as U+FFFD; use the lead byte of their block
		return 0xED
	}
	utf8.EncodeRune(buf[:], r)
	return buf[0]
}
