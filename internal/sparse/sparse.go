// Package sparse provides a sparse set of automaton state IDs.
//
// The set supports O(1) insertion, membership and clearing while keeping a
// dense list of its members in insertion order. Graph walks over the compiled
// automaton use it as their visited set, so a walk can be restarted without
// touching memory proportional to the automaton size.
package sparse

// Set is a set of uint32 values in the range [0, capacity).
type Set struct {
	sparse []uint32 // value -> index in dense
	dense  []uint32 // members in insertion order
}

// New creates a set that can hold values in [0, capacity).
func New(capacity uint32) *Set {
	return &Set{
		sparse: make([]uint32, capacity),
		dense:  make([]uint32, 0, capacity),
	}
}

// Capacity returns the exclusive upper bound on storable values.
func (s *Set) Capacity() int {
	return len(s.sparse)
}

// Insert adds value to the set and reports whether it was newly added.
// Values outside the capacity are rejected and reported as not added.
func (s *Set) Insert(value uint32) bool {
	if uint64(value) >= uint64(len(s.sparse)) || s.Contains(value) {
		return false
	}
	s.sparse[value] = uint32(len(s.dense))
	s.dense = append(s.dense, value)
	return true
}

// Contains reports whether value is in the set.
func (s *Set) Contains(value uint32) bool {
	if uint64(value) >= uint64(len(s.sparse)) {
		return false
	}
	idx := s.sparse[value]
	return uint64(idx) < uint64(len(s.dense)) && s.dense[idx] == value
}

// Clear removes every member in O(1).
func (s *Set) Clear() {
	s.dense = s.dense[:0]
}

// Len returns the number of members.
func (s *Set) Len() int {
	return len(s.dense)
}

// Values returns the members in insertion order.
// The slice is valid until the next mutation.
func (s *Set) Values() []uint32 {
	return s.dense
}
