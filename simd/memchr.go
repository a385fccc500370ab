// Package simd provides word-at-a-time byte and substring search primitives.
//
// The scanners process eight bytes per step using SWAR (SIMD Within A
// Register) arithmetic on uint64 words loaded in native byte order. The
// position of the first hit inside a word depends on the machine's byte
// order, which is taken from golang.org/x/sys/cpu at package initialization.
//
// Prefilters use these primitives to jump straight to candidate match
// positions instead of running the backtracker at every offset of a line.
package simd

import (
	"encoding/binary"
	"math/bits"

	"golang.org/x/sys/cpu"
)

// bigEndian selects how the first matching byte is located inside a word.
var bigEndian = cpu.IsBigEndian

const (
	lo8 = 0x0101010101010101
	lo7 = 0x7f7f7f7f7f7f7f7f
)

// zeroBytes returns a word with 0x80 set in exactly the bytes of x that are
// zero. Unlike the (x-lo8)&^x&hi8 trick it never produces false positives,
// so the first flagged byte is correct in either byte order.
func zeroBytes(x uint64) uint64 {
	return ^(((x & lo7) + lo7) | x | lo7)
}

// firstByte converts a flag word from zeroBytes into the memory index of
// the first flagged byte.
func firstByte(flags uint64) int {
	if bigEndian {
		return bits.LeadingZeros64(flags) / 8
	}
	return bits.TrailingZeros64(flags) / 8
}

func load(b []byte) uint64 {
	return binary.NativeEndian.Uint64(b)
}

// Memchr returns the index of the first instance of needle in haystack,
// or -1 if needle is not present.
//
// Equivalent to bytes.IndexByte.
func Memchr(haystack []byte, needle byte) int {
	n := len(haystack)
	i := 0
	if n >= 8 {
		mask := uint64(needle) * lo8
		for ; i+8 <= n; i += 8 {
			if flags := zeroBytes(load(haystack[i:]) ^ mask); flags != 0 {
				return i + firstByte(flags)
			}
		}
	}
	for ; i < n; i++ {
		if haystack[i] == needle {
			return i
		}
	}
	return -1
}

// Memchr2 returns the index of the first instance of either needle,
// or -1 if neither is present.
func Memchr2(haystack []byte, needle1, needle2 byte) int {
	n := len(haystack)
	i := 0
	if n >= 8 {
		mask1 := uint64(needle1) * lo8
		mask2 := uint64(needle2) * lo8
		for ; i+8 <= n; i += 8 {
			w := load(haystack[i:])
			if flags := zeroBytes(w^mask1) | zeroBytes(w^mask2); flags != 0 {
				return i + firstByte(flags)
			}
		}
	}
	for ; i < n; i++ {
		if c := haystack[i]; c == needle1 || c == needle2 {
			return i
		}
	}
	return -1
}

// Memchr3 returns the index of the first instance of any of the three
// needles, or -1 if none is present.
func Memchr3(haystack []byte, needle1, needle2, needle3 byte) int {
	n := len(haystack)
	i := 0
	if n >= 8 {
		mask1 := uint64(needle1) * lo8
		mask2 := uint64(needle2) * lo8
		mask3 := uint64(needle3) * lo8
		for ; i+8 <= n; i += 8 {
			w := load(haystack[i:])
			flags := zeroBytes(w^mask1) | zeroBytes(w^mask2) | zeroBytes(w^mask3)
			if flags != 0 {
				return i + firstByte(flags)
			}
		}
	}
	for ; i < n; i++ {
		if c := haystack[i]; c == needle1 || c == needle2 || c == needle3 {
			return i
		}
	}
	return -1
}
