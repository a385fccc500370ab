// Package conv provides checked integer conversion helpers for the regex engine.
//
// Narrowing conversions panic on overflow: an out-of-range value means the
// automaton outgrew its internal limits, which is a programming error rather
// than a property of the input being searched.
package conv

import "math"

// IntToUint32 converts an int to uint32.
// Panics if n < 0 or n > math.MaxUint32.
func IntToUint32(n int) uint32 {
	// compare as uint so 32-bit platforms don't overflow on math.MaxUint32
	if n < 0 || uint(n) > math.MaxUint32 {
		panic("integer overflow: int value out of uint32 range")
	}
	return uint32(n)
}

// Uint32ToInt converts a uint32 to int.
// Panics on 32-bit platforms when n does not fit.
func Uint32ToInt(n uint32) int {
	if uint64(n) > uint64(math.MaxInt) {
		panic("integer overflow: uint32 value out of int range")
	}
	return int(n)
}
