package simd

import "bytes"

// Memmem returns the index of the first instance of needle in haystack,
// or -1 if needle is not present.
//
// Equivalent to bytes.Index. The search anchors on the rarest byte of the
// needle, scans for it with Memchr and verifies each candidate in place.
//
// Example:
//
//	pos := simd.Memmem([]byte("aaaaaabaaaa"), []byte("aab"))
//	// pos == 4
func Memmem(haystack, needle []byte) int {
	switch {
	case len(needle) == 0:
		return 0
	case len(needle) > len(haystack):
		return -1
	case len(needle) == 1:
		return Memchr(haystack, needle[0])
	}

	rare, rareIdx := RarestByte(needle)
	// the rare byte of a hit can't sit before rareIdx or after the last
	// position that still leaves room for the needle's tail
	last := len(haystack) - len(needle) + rareIdx
	for from := rareIdx; from <= last; {
		pos := Memchr(haystack[from:last+1], rare)
		if pos < 0 {
			return -1
		}
		cand := from + pos - rareIdx
		if bytes.Equal(haystack[cand:cand+len(needle)], needle) {
			return cand
		}
		from += pos + 1
	}
	return -1
}
