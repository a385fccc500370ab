package nfa

import (
	"bytes"
	"unicode/utf8"
)

// Backtracker executes an NFA by recursive backtracking.
//
// Linear runs of states are followed in a loop. Every Split recurses into
// its left branch with a private copy of the registers, so whatever the
// left branch writes is invisible to the right branch if it fails. The
// first branch to reach the Match state wins, which gives leftmost-first,
// greedy-first semantics.
//
// There is no step or depth limit. Patterns such as (a*)*b can take
// exponential time on adversarial input.
//
// A Backtracker is immutable and safe for concurrent use; all mutable
// search state lives in a Cache.
type Backtracker struct {
	nfa *NFA
}

// NewBacktracker creates a backtracker for the given NFA.
func NewBacktracker(nfa *NFA) *Backtracker {
	return &Backtracker{nfa: nfa}
}

// NFA returns the program being executed.
func (b *Backtracker) NFA() *NFA {
	return b.nfa
}

// Cache holds reusable register buffers for one search at a time.
// A Cache must not be used by two goroutines at once.
type Cache struct {
	size int
	free [][]int
}

// NewCache creates a cache sized for this backtracker's NFA.
func (b *Backtracker) NewCache() *Cache {
	return &Cache{size: b.nfa.registerCount}
}

// get returns a buffer holding a copy of src, or all -1 when src is nil.
func (c *Cache) get(src []int) []int {
	var buf []int
	if n := len(c.free); n > 0 {
		buf = c.free[n-1]
		c.free = c.free[:n-1]
	} else {
		buf = make([]int, c.size)
	}
	if src != nil {
		copy(buf, src)
		return buf
	}
	for i := range buf {
		buf[i] = -1
	}
	return buf
}

func (c *Cache) put(buf []int) {
	c.free = append(c.free, buf)
}

// Candidates returns the first offset >= at where a match may start, or -1
// if there is none. It lets a caller skip offsets that cannot match.
type Candidates func(haystack []byte, at int) int

// MatchAt makes a single anchored attempt at offset at.
//
// On success it returns the capture slots: slot 2g is the start and 2g+1 the
// end of group g, -1 when the group did not participate. The slice is owned
// by the caller.
func (b *Backtracker) MatchAt(haystack []byte, at int, cache *Cache) ([]int, bool) {
	if at < 0 || at > len(haystack) {
		return nil, false
	}
	if b.nfa.anchored && at != 0 {
		return nil, false
	}
	regs := cache.get(nil)
	defer cache.put(regs)

	if !b.run(haystack, b.nfa.start, at, regs, cache) {
		return nil, false
	}
	slots := make([]int, 2*b.nfa.captureCount)
	copy(slots, regs)
	return slots, true
}

// Search returns the leftmost-first match in haystack.
func (b *Backtracker) Search(haystack []byte, cache *Cache) ([]int, bool) {
	return b.SearchWith(haystack, 0, nil, cache)
}

// SearchFrom returns the leftmost-first match starting at or after at.
func (b *Backtracker) SearchFrom(haystack []byte, at int, cache *Cache) ([]int, bool) {
	return b.SearchWith(haystack, at, nil, cache)
}

// SearchWith is SearchFrom restricted to the start offsets produced by next.
// A nil next tries every character boundary. Anchored programs are only
// tried at offset 0.
func (b *Backtracker) SearchWith(haystack []byte, at int, next Candidates, cache *Cache) ([]int, bool) {
	if b.nfa.anchored {
		if at != 0 {
			return nil, false
		}
		return b.MatchAt(haystack, 0, cache)
	}

	for at <= len(haystack) {
		if next != nil {
			at = next(haystack, at)
			if at < 0 {
				return nil, false
			}
		}
		if slots, ok := b.MatchAt(haystack, at, cache); ok {
			return slots, true
		}
		if at == len(haystack) {
			break
		}
		_, size := utf8.DecodeRune(haystack[at:])
		at += size
	}
	return nil, false
}

// run follows the program from state id at offset pos. regs belongs to
// this call and is left holding the final registers on success.
func (b *Backtracker) run(h []byte, id StateID, pos int, regs []int, cache *Cache) bool {
	states := b.nfa.states
	for {
		s := &states[id]
		switch s.kind {
		case StateMatch:
			return true

		case StateRune, StateClass, StateAny:
			if pos >= len(h) {
				return false
			}
			r, size := rune(h[pos]), 1
			if r >= utf8.RuneSelf {
				r, size = utf8.DecodeRune(h[pos:])
			}
			if !s.Accepts(r) {
				return false
			}
			pos += size
			id = s.next

		case StateSplit:
			branch := cache.get(regs)
			if b.run(h, s.left, pos, branch, cache) {
				copy(regs, branch)
				cache.put(branch)
				return true
			}
			cache.put(branch)
			id = s.right

		case StateEpsilon:
			id = s.next

		case StateCapture:
			regs[s.index] = pos
			if s.index%2 == 0 {
				// a group being re-entered is unset until it closes again
				regs[s.index+1] = -1
			}
			id = s.next

		case StateLook:
			if s.look == LookStartLine && pos != 0 {
				return false
			}
			if s.look == LookEndLine && pos != len(h) {
				return false
			}
			id = s.next

		case StateBackref:
			start, end := regs[2*s.index], regs[2*s.index+1]
			if start < 0 || end < 0 {
				return false
			}
			n := end - start
			if pos+n > len(h) || !bytes.Equal(h[start:end], h[pos:pos+n]) {
				return false
			}
			pos += n
			id = s.next

		case StateRepeatMark:
			regs[s.index] = pos
			id = s.next

		case StateRepeatCheck:
			if regs[s.index] == pos {
				return false
			}
			id = s.next

		default:
			return false
		}
	}
}
