// Package literal extracts literal byte strings from parsed patterns.
//
// The literals feed the prefilters: if every match of /hello\d+/ starts with
// "hello", a substring search for "hello" finds every candidate start far
// faster than running the backtracker at each offset.
//
// Key concepts:
//   - A Literal is a concrete byte sequence that may appear in matches
//   - A Seq is a set of alternative literals (e.g., from /foo|bar/)
//   - A required literal is a substring every match must contain
package literal

import (
	"bytes"
	"sort"
)

// Literal represents a literal byte sequence extracted from a pattern.
// Complete reports whether the literal is the entire match (true) or only
// its beginning (false).
//
// Example:
//   - Pattern /hello/ → Literal{[]byte("hello"), true}
//   - Pattern /hello.*/ → Literal{[]byte("hello"), false}
type Literal struct {
	Bytes    []byte
	Complete bool
}

// NewLiteral creates a new Literal from the given byte sequence and completeness flag.
func NewLiteral(b []byte, complete bool) Literal {
	return Literal{Bytes: b, Complete: complete}
}

// Len returns the length of the literal in bytes.
func (l Literal) Len() int {
	return len(l.Bytes)
}

// String returns a string representation of the literal for debugging purposes.
// Format: "literal{bytes, complete=true/false}"
func (l Literal) String() string {
	complete := "false"
	if l.Complete {
		complete = "true"
	}
	return "literal{" + string(l.Bytes) + ", complete=" + complete + "}"
}

// Seq represents a set of alternative literals. Every match of the pattern
// it was extracted from begins with at least one of them.
//
// Example:
//
//	seq := literal.NewSeq(
//	    literal.NewLiteral([]byte("foo"), true),
//	    literal.NewLiteral([]byte("bar"), true),
//	)
//	fmt.Printf("Sequence has %d literals\n", seq.Len()) // Output: Sequence has 2 literals
type Seq struct {
	literals []Literal
}

// NewSeq creates a new sequence from the given literals.
func NewSeq(lits ...Literal) *Seq {
	return &Seq{literals: lits}
}

// Len returns the number of literals in the sequence.
func (s *Seq) Len() int {
	if s == nil {
		return 0
	}
	return len(s.literals)
}

// Get returns the literal at the specified index.
// Panics if index is out of bounds.
func (s *Seq) Get(i int) Literal {
	return s.literals[i]
}

// IsEmpty returns true if the sequence has no literals.
func (s *Seq) IsEmpty() bool {
	return s == nil || len(s.literals) == 0
}

// AllComplete reports whether every literal is an entire match.
func (s *Seq) AllComplete() bool {
	if s.IsEmpty() {
		return false
	}
	for _, lit := range s.literals {
		if !lit.Complete {
			return false
		}
	}
	return true
}

// Bytes returns the byte strings of all literals.
func (s *Seq) Bytes() [][]byte {
	out := make([][]byte, s.Len())
	for i := range out {
		out[i] = s.literals[i].Bytes
	}
	return out
}

// Minimize removes duplicate and redundant literals.
//
// For prefix matching, a literal L is redundant if a shorter kept literal S
// is a prefix of L: any position where L starts is also a position where S
// starts. S loses its Complete flag in that case since a match may now run
// past it.
//
// Example:
//
//	seq := literal.NewSeq(
//	    literal.NewLiteral([]byte("foo"), true),
//	    literal.NewLiteral([]byte("foobar"), true),
//	)
//	seq.Minimize()
//	fmt.Println(seq.Len()) // Output: 1 (only "foo" remains)
func (s *Seq) Minimize() {
	if s.IsEmpty() {
		return
	}

	sort.SliceStable(s.literals, func(i, j int) bool {
		return len(s.literals[i].Bytes) < len(s.literals[j].Bytes)
	})

	kept := make([]Literal, 0, len(s.literals))
	for _, current := range s.literals {
		redundant := false
		for j := range kept {
			if bytes.HasPrefix(current.Bytes, kept[j].Bytes) {
				if len(current.Bytes) > len(kept[j].Bytes) || !current.Complete {
					kept[j].Complete = false
				}
				redundant = true
				break
			}
		}
		if !redundant {
			kept = append(kept, current)
		}
	}
	s.literals = kept
}

// LongestCommonPrefix returns the longest common prefix of all literals in the sequence.
// If the sequence is empty or has no common prefix, returns an empty slice.
//
// Example:
//
//	seq := literal.NewSeq(
//	    literal.NewLiteral([]byte("hello"), true),
//	    literal.NewLiteral([]byte("help"), true),
//	    literal.NewLiteral([]byte("hero"), true),
//	)
//	prefix := seq.LongestCommonPrefix()
//	fmt.Println(string(prefix)) // Output: he
func (s *Seq) LongestCommonPrefix() []byte {
	if s.IsEmpty() {
		return []byte{}
	}

	prefix := s.literals[0].Bytes
	for i := 1; i < len(s.literals); i++ {
		prefix = commonPrefix(prefix, s.literals[i].Bytes)
		if len(prefix) == 0 {
			return []byte{}
		}
	}

	// Return a copy to avoid aliasing issues
	result := make([]byte, len(prefix))
	copy(result, prefix)
	return result
}

// String renders the sequence for debugging.
func (s *Seq) String() string {
	var b bytes.Buffer
	b.WriteByte('[')
	for i := 0; i < s.Len(); i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(s.literals[i].String())
	}
	b.WriteByte(']')
	return b.String()
}

// commonPrefix returns the longest common prefix of a and b.
func commonPrefix(a, b []byte) []byte {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:n]
}
