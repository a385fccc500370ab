// Package nfa compiles a parsed pattern into an arena of indexed states and
// executes it with a backtracking matcher.
//
// States refer to each other by StateID, never by pointer, so loops built
// for repetition are plain integer cycles and the compiled NFA can be
// shared read-only by any number of concurrent searches.
package nfa

import (
	"fmt"
	"strings"

	"github.com/coregx/regrep/syntax"
)

// StateID uniquely identifies an NFA state.
// This is a 32-bit unsigned integer for compact representation.
type StateID uint32

// InvalidState represents an invalid/uninitialized state ID
const InvalidState StateID = 0xFFFFFFFF

// StateKind identifies the type of NFA state and determines which fields are valid.
type StateKind uint8

const (
	// StateMatch represents a match state (accepting state)
	StateMatch StateKind = iota

	// StateRune consumes exactly one given character
	StateRune

	// StateClass consumes one character inside (or outside, if negated) a set
	StateClass

	// StateAny consumes any one character
	StateAny

	// StateSplit represents an epsilon transition to 2 states.
	// The left target is always tried first.
	StateSplit

	// StateEpsilon represents an epsilon transition to 1 state
	StateEpsilon

	// StateCapture saves the current offset into a capture slot
	StateCapture

	// StateLook asserts a position without consuming input
	StateLook

	// StateBackref consumes a copy of the text captured by a group
	StateBackref

	// StateRepeatMark records the offset at which a loop iteration starts
	StateRepeatMark

	// StateRepeatCheck fails if the current loop iteration consumed nothing
	StateRepeatCheck

	// StateFail represents a dead state (no valid transitions)
	StateFail
)

var stateKindNames = [...]string{
	StateMatch:       "Match",
	StateRune:        "Rune",
	StateClass:       "Class",
	StateAny:         "Any",
	StateSplit:       "Split",
	StateEpsilon:     "Epsilon",
	StateCapture:     "Capture",
	StateLook:        "Look",
	StateBackref:     "Backref",
	StateRepeatMark:  "RepeatMark",
	StateRepeatCheck: "RepeatCheck",
	StateFail:        "Fail",
}

// String returns a human-readable representation of the StateKind
func (k StateKind) String() string {
	if int(k) < len(stateKindNames) {
		return stateKindNames[k]
	}
	return fmt.Sprintf("Unknown(%d)", k)
}

// Look is a zero-width assertion.
type Look uint8

const (
	// LookStartLine holds at offset 0
	LookStartLine Look = iota
	// LookEndLine holds at the end of the haystack
	LookEndLine
)

func (l Look) String() string {
	if l == LookEndLine {
		return "$"
	}
	return "^"
}

// State represents a single NFA state with its transitions.
// The state's kind determines which fields are valid.
type State struct {
	id   StateID
	kind StateKind

	// For Rune
	r rune

	// For Class
	class   syntax.CharSet
	negated bool

	// target for every kind except Match, Split and Fail
	next StateID

	// For Split: left is preferred
	left, right StateID

	// For Capture: register slot. For Backref: group index.
	// For RepeatMark/RepeatCheck: guard register.
	index uint32

	// For Look
	look Look
}

// ID returns the state's unique identifier
func (s *State) ID() StateID {
	return s.id
}

// Kind returns the state's type
func (s *State) Kind() StateKind {
	return s.kind
}

// IsMatch returns true if this is a match state
func (s *State) IsMatch() bool {
	return s.kind == StateMatch
}

// Next returns the single successor of the state, or InvalidState for
// Match, Split and Fail states.
func (s *State) Next() StateID {
	switch s.kind {
	case StateMatch, StateSplit, StateFail:
		return InvalidState
	}
	return s.next
}

// Split returns the two target states for Split states.
// Returns (InvalidState, InvalidState) for non-Split states.
func (s *State) Split() (left, right StateID) {
	if s.kind == StateSplit {
		return s.left, s.right
	}
	return InvalidState, InvalidState
}

// Rune returns the character consumed by a Rune state.
func (s *State) Rune() (rune, bool) {
	return s.r, s.kind == StateRune
}

// Class returns the member set and negation flag of a Class state.
func (s *State) Class() (set syntax.CharSet, negated bool) {
	return s.class, s.negated
}

// Accepts reports whether a consuming state accepts character r.
func (s *State) Accepts(r rune) bool {
	switch s.kind {
	case StateRune:
		return r == s.r
	case StateClass:
		return s.class.Contains(r) != s.negated
	case StateAny:
		return true
	}
	return false
}

// Capture returns the register slot written by a Capture state.
// Slot 2g holds the start of group g and slot 2g+1 its end.
func (s *State) Capture() (slot uint32, ok bool) {
	return s.index, s.kind == StateCapture
}

// Backref returns the group referenced by a Backref state.
func (s *State) Backref() (group uint32, ok bool) {
	return s.index, s.kind == StateBackref
}

// Look returns the assertion of a Look state.
func (s *State) Look() (Look, bool) {
	return s.look, s.kind == StateLook
}

// Register returns the guard register of a RepeatMark or RepeatCheck state.
func (s *State) Register() (uint32, bool) {
	return s.index, s.kind == StateRepeatMark || s.kind == StateRepeatCheck
}

// String returns a human-readable representation of the state
func (s *State) String() string {
	switch s.kind {
	case StateMatch:
		return fmt.Sprintf("State(%d, Match)", s.id)
	case StateRune:
		return fmt.Sprintf("State(%d, Rune %q -> %d)", s.id, s.r, s.next)
	case StateClass:
		neg := ""
		if s.negated {
			neg = "^"
		}
		return fmt.Sprintf("State(%d, Class [%s%s] -> %d)", s.id, neg, s.class, s.next)
	case StateAny:
		return fmt.Sprintf("State(%d, Any -> %d)", s.id, s.next)
	case StateSplit:
		return fmt.Sprintf("State(%d, Split -> [%d, %d])", s.id, s.left, s.right)
	case StateEpsilon:
		return fmt.Sprintf("State(%d, Epsilon -> %d)", s.id, s.next)
	case StateCapture:
		return fmt.Sprintf("State(%d, Capture slot %d -> %d)", s.id, s.index, s.next)
	case StateLook:
		return fmt.Sprintf("State(%d, Look %s -> %d)", s.id, s.look, s.next)
	case StateBackref:
		return fmt.Sprintf("State(%d, Backref \\%d -> %d)", s.id, s.index, s.next)
	case StateRepeatMark:
		return fmt.Sprintf("State(%d, RepeatMark r%d -> %d)", s.id, s.index, s.next)
	case StateRepeatCheck:
		return fmt.Sprintf("State(%d, RepeatCheck r%d -> %d)", s.id, s.index, s.next)
	case StateFail:
		return fmt.Sprintf("State(%d, Fail)", s.id)
	default:
		return fmt.Sprintf("State(%d, Unknown)", s.id)
	}
}

// NFA is a compiled pattern: an arena of states plus the metadata a
// matcher needs to size its registers.
type NFA struct {
	// states contains all NFA states indexed by StateID
	states []State

	start StateID

	// anchored is true when every alternative begins with ^
	anchored bool

	// captureCount is the number of capture groups in the pattern
	// Group 0 is the entire match, groups 1+ are explicit captures
	captureCount int

	// registerCount is 2*captureCount plus one guard register per
	// repetition of a nullable body
	registerCount int
}

// Start returns the starting state ID of the NFA
func (n *NFA) Start() StateID {
	return n.start
}

// State returns the state with the given ID.
// Returns nil if the ID is invalid.
func (n *NFA) State(id StateID) *State {
	if id == InvalidState || int(id) >= len(n.states) {
		return nil
	}
	return &n.states[id]
}

// States returns the total number of states in the NFA
func (n *NFA) States() int {
	return len(n.states)
}

// IsAnchored returns true if every match must start at offset 0
func (n *NFA) IsAnchored() bool {
	return n.anchored
}

// CaptureCount returns the number of capture groups in the NFA.
// Group 0 is the entire match, groups 1+ are explicit captures.
// For a pattern like "(a)(b)", this returns 3 (entire match + 2 groups).
func (n *NFA) CaptureCount() int {
	return n.captureCount
}

// RegisterCount returns the number of integer registers a search needs.
func (n *NFA) RegisterCount() int {
	return n.registerCount
}

// String dumps the program, one state per line.
func (n *NFA) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "NFA{states: %d, start: %d, anchored: %v, captures: %d, registers: %d}\n",
		len(n.states), n.start, n.anchored, n.captureCount, n.registerCount)
	for i := range n.states {
		b.WriteString("  ")
		b.WriteString(n.states[i].String())
		b.WriteByte('\n')
	}
	return b.String()
}
