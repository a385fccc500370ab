package nfa

import (
	"fmt"

	"github.com/coregx/regrep/internal/conv"
	"github.com/coregx/regrep/syntax"
)

// Builder constructs NFAs incrementally using a low-level API.
// This provides full control over NFA construction and is used by the compiler.
type Builder struct {
	states []State
	start  StateID
}

// NewBuilder creates a new NFA builder with default capacity
func NewBuilder() *Builder {
	return NewBuilderWithCapacity(16)
}

// NewBuilderWithCapacity creates a new NFA builder with specified initial capacity
func NewBuilderWithCapacity(capacity int) *Builder {
	return &Builder{
		states: make([]State, 0, capacity),
		start:  InvalidState,
	}
}

func (b *Builder) add(s State) StateID {
	id := StateID(conv.IntToUint32(len(b.states)))
	s.id = id
	b.states = append(b.states, s)
	return id
}

// AddMatch adds a match (accepting) state and returns its ID
func (b *Builder) AddMatch() StateID {
	return b.add(State{kind: StateMatch})
}

// AddRune adds a state consuming exactly r.
func (b *Builder) AddRune(r rune, next StateID) StateID {
	return b.add(State{kind: StateRune, r: r, next: next})
}

// AddClass adds a state consuming one character in set, or outside it
// when negated.
func (b *Builder) AddClass(set syntax.CharSet, negated bool, next StateID) StateID {
	return b.add(State{kind: StateClass, class: set, negated: negated, next: next})
}

// AddAny adds a state consuming any one character.
func (b *Builder) AddAny(next StateID) StateID {
	return b.add(State{kind: StateAny, next: next})
}

// AddSplit adds a state with epsilon transitions to two states.
// The left branch is preferred.
func (b *Builder) AddSplit(left, right StateID) StateID {
	return b.add(State{kind: StateSplit, left: left, right: right})
}

// AddEpsilon adds an epsilon transition state
func (b *Builder) AddEpsilon(next StateID) StateID {
	return b.add(State{kind: StateEpsilon, next: next})
}

// AddFail adds a dead state
func (b *Builder) AddFail() StateID {
	return b.add(State{kind: StateFail})
}

// AddCapture adds a state saving the current offset into slot.
func (b *Builder) AddCapture(slot uint32, next StateID) StateID {
	return b.add(State{kind: StateCapture, index: slot, next: next})
}

// AddLook adds a zero-width assertion state.
func (b *Builder) AddLook(look Look, next StateID) StateID {
	return b.add(State{kind: StateLook, look: look, next: next})
}

// AddBackref adds a state matching the text captured by group.
func (b *Builder) AddBackref(group uint32, next StateID) StateID {
	return b.add(State{kind: StateBackref, index: group, next: next})
}

// AddRepeatMark adds a state recording the current offset in register.
func (b *Builder) AddRepeatMark(register uint32, next StateID) StateID {
	return b.add(State{kind: StateRepeatMark, index: register, next: next})
}

// AddRepeatCheck adds a state that fails when the offset still equals the
// one recorded in register.
func (b *Builder) AddRepeatCheck(register uint32, next StateID) StateID {
	return b.add(State{kind: StateRepeatCheck, index: register, next: next})
}

// Patch updates a state's target. This is used during compilation to handle
// forward references (e.g., loops, alternations).
// This only works for states with a single 'next' target.
func (b *Builder) Patch(stateID, target StateID) error {
	if int(stateID) >= len(b.states) {
		return &BuildError{
			Message: "state ID out of bounds",
			StateID: stateID,
		}
	}

	s := &b.states[stateID]
	switch s.kind {
	case StateMatch, StateSplit, StateFail:
		return &BuildError{
			Message: fmt.Sprintf("cannot patch state of kind %s", s.kind),
			StateID: stateID,
		}
	}
	s.next = target
	return nil
}

// PatchSplit updates the left and right targets of a Split state
func (b *Builder) PatchSplit(stateID StateID, left, right StateID) error {
	if int(stateID) >= len(b.states) {
		return &BuildError{
			Message: "state ID out of bounds",
			StateID: stateID,
		}
	}

	s := &b.states[stateID]
	if s.kind != StateSplit {
		return &BuildError{
			Message: fmt.Sprintf("expected Split state, got %s", s.kind),
			StateID: stateID,
		}
	}

	s.left = left
	s.right = right
	return nil
}

// SetStart sets the starting state for the NFA
func (b *Builder) SetStart(start StateID) {
	b.start = start
}

// States returns the current number of states
func (b *Builder) States() int {
	return len(b.states)
}

// Validate checks that the NFA is well-formed:
// - Start state is valid
// - Every transition points at an existing state
func (b *Builder) Validate() error {
	if b.start == InvalidState {
		return &BuildError{Message: "start state not set", StateID: InvalidState}
	}
	if int(b.start) >= len(b.states) {
		return &BuildError{
			Message: "start state out of bounds",
			StateID: b.start,
		}
	}

	for i := range b.states {
		s := &b.states[i]
		switch s.kind {
		case StateMatch, StateFail:
		case StateSplit:
			if !b.valid(s.left) {
				return &BuildError{
					Message: fmt.Sprintf("invalid left state %d", s.left),
					StateID: s.id,
				}
			}
			if !b.valid(s.right) {
				return &BuildError{
					Message: fmt.Sprintf("invalid right state %d", s.right),
					StateID: s.id,
				}
			}
		default:
			if !b.valid(s.next) {
				return &BuildError{
					Message: fmt.Sprintf("invalid next state %d", s.next),
					StateID: s.id,
				}
			}
		}
	}

	return nil
}

func (b *Builder) valid(id StateID) bool {
	return id != InvalidState && int(id) < len(b.states)
}

// Build finalizes and returns the constructed NFA.
func (b *Builder) Build(opts ...BuildOption) (*NFA, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	nfa := &NFA{
		states:       b.states,
		start:        b.start,
		captureCount: 1,
	}
	for _, opt := range opts {
		opt(nfa)
	}
	if nfa.registerCount < 2*nfa.captureCount {
		nfa.registerCount = 2 * nfa.captureCount
	}

	// registers are addressed by index at search time
	for i := range nfa.states {
		s := &nfa.states[i]
		switch s.kind {
		case StateCapture, StateRepeatMark, StateRepeatCheck:
			if int(s.index) >= nfa.registerCount {
				return nil, &BuildError{
					Message: fmt.Sprintf("register %d out of range", s.index),
					StateID: s.id,
				}
			}
		case StateBackref:
			if int(s.index) >= nfa.captureCount {
				return nil, &BuildError{
					Message: fmt.Sprintf("backreference to unknown group %d", s.index),
					StateID: s.id,
				}
			}
		}
	}

	return nfa, nil
}

// BuildOption is a functional option for configuring the built NFA
type BuildOption func(*NFA)

// WithAnchored marks the NFA as matching only at offset 0
func WithAnchored(anchored bool) BuildOption {
	return func(n *NFA) {
		n.anchored = anchored
	}
}

// WithCaptureCount sets the number of capture groups, including group 0
func WithCaptureCount(count int) BuildOption {
	return func(n *NFA) {
		n.captureCount = count
	}
}

// WithRegisterCount sets the total number of search registers
func WithRegisterCount(count int) BuildOption {
	return func(n *NFA) {
		n.registerCount = count
	}
}
