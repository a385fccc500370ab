package meta

// Span is a half-open byte range [Start, End) of a haystack.
// An unset span is {-1, -1}.
type Span struct {
	Start int
	End   int
}

// unset marks a group that did not participate in a match.
var unset = Span{Start: -1, End: -1}

// IsSet reports whether the span refers to text.
func (s Span) IsSet() bool {
	return s.Start >= 0
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	if !s.IsSet() {
		return 0
	}
	return s.End - s.Start
}

// MatchResult is the outcome of one match attempt over a haystack.
//
// Groups has one entry per capturing group, in order of opening parenthesis.
// A failed attempt has Matched == false, an unset Span and no Groups.
type MatchResult struct {
	Matched bool
	Span    Span
	Groups  []Span
}

// noMatch is the result of a failed attempt.
func noMatch() MatchResult {
	return MatchResult{Span: unset}
}

// newMatchResult converts capture slots into a MatchResult.
func newMatchResult(slots []int) MatchResult {
	res := MatchResult{
		Matched: true,
		Span:    Span{Start: slots[0], End: slots[1]},
	}
	if n := len(slots)/2 - 1; n > 0 {
		res.Groups = make([]Span, n)
		for g := range res.Groups {
			start, end := slots[2*(g+1)], slots[2*(g+1)+1]
			if start < 0 || end < 0 {
				res.Groups[g] = unset
				continue
			}
			res.Groups[g] = Span{Start: start, End: end}
		}
	}
	return res
}

// Group returns the span of group i, where group 0 is the whole match.
// It returns an unset span when i is out of range or the group did not
// participate.
func (m MatchResult) Group(i int) Span {
	if !m.Matched || i < 0 || i > len(m.Groups) {
		return unset
	}
	if i == 0 {
		return m.Span
	}
	return m.Groups[i-1]
}

// Text returns the bytes of group i within haystack, or nil if unset.
func (m MatchResult) Text(haystack []byte, i int) []byte {
	s := m.Group(i)
	if !s.IsSet() || s.End > len(haystack) {
		return nil
	}
	return haystack[s.Start:s.End]
}

// Match represents a successful regex match with position information.
//
// Example:
//
//	match := engine.Find([]byte("hello 123 world"))
//	if match != nil {
//	    println(match.String()) // "123"
//	}
type Match struct {
	start    int
	end      int
	haystack []byte
}

// NewMatch creates a new Match from start and end positions.
// The haystack is stored to allow extracting the matched bytes.
func NewMatch(start, end int, haystack []byte) *Match {
	return &Match{
		start:    start,
		end:      end,
		haystack: haystack,
	}
}

// Start returns the starting byte position of the match (inclusive).
func (m *Match) Start() int {
	return m.start
}

// End returns the ending byte position of the match (exclusive).
func (m *Match) End() int {
	return m.end
}

// Len returns the length of the match in bytes.
func (m *Match) Len() int {
	return m.end - m.start
}

// Bytes returns the matched bytes as a slice of the haystack.
func (m *Match) Bytes() []byte {
	if m.start < 0 || m.end > len(m.haystack) || m.start > m.end {
		return nil
	}
	return m.haystack[m.start:m.end]
}

// String returns the matched text as a string.
func (m *Match) String() string {
	return string(m.Bytes())
}

// IsEmpty returns true if the match has zero length.
func (m *Match) IsEmpty() bool {
	return m.start == m.end
}
