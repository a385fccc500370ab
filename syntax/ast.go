package syntax

import (
	"strconv"
	"strings"
)

// Unbounded is the Max of a repetition with no upper limit.
const Unbounded = -1

// Node is a node of the parsed pattern tree. Every node owns its children.
// String renders a pattern equivalent to the subtree.
type Node interface {
	String() string
	node()
}

// Literal matches one character.
type Literal struct {
	Rune rune
}

// AnyChar matches any one character.
type AnyChar struct{}

// CharClass matches one character in Set, or not in Set when Negated.
type CharClass struct {
	Set     CharSet
	Negated bool
}

// Matches reports whether the class accepts r.
func (n *CharClass) Matches(r rune) bool {
	return n.Set.Contains(r) != n.Negated
}

// AnchorKind identifies a zero-width line assertion.
type AnchorKind uint8

const (
	AnchorStart AnchorKind = iota // ^
	AnchorEnd                     // $
)

// Anchor asserts a position: the start or the end of the line.
type Anchor struct {
	Kind AnchorKind
}

// Concat matches Subs in sequence.
type Concat struct {
	Subs []Node
}

// Alternate matches the first of Subs, tried left to right, that leads to
// an overall match.
type Alternate struct {
	Subs []Node
}

// Group wraps Body. Index is the capture group number, 0 if non-capturing.
type Group struct {
	Index int
	Body  Node
}

// Capturing reports whether the group records its span.
func (n *Group) Capturing() bool {
	return n.Index > 0
}

// Repeat matches Body between Min and Max times, greedily.
// Max is Unbounded for + and *.
type Repeat struct {
	Body Node
	Min  int
	Max  int
}

// Backref matches the text most recently captured by group Index.
type Backref struct {
	Index int
}

// Empty matches the empty string.
type Empty struct{}

func (*Literal) node()   {}
func (*AnyChar) node()   {}
func (*CharClass) node() {}
func (*Anchor) node()    {}
func (*Concat) node()    {}
func (*Alternate) node() {}
func (*Group) node()     {}
func (*Repeat) node()    {}
func (*Backref) node()   {}
func (*Empty) node()     {}

func (n *Literal) String() string {
	switch n.Rune {
	case '\\', '.', '+', '*', '?', '(', ')', '|', '[', '^', '$':
		return `\` + string(n.Rune)
	case '\t':
		return `\t`
	}
	return string(n.Rune)
}

func (*AnyChar) String() string { return "." }

func (n *CharClass) String() string {
	if n.Set.IsEmpty() {
		if n.Negated {
			return `[\d\D]`
		}
		return `[^\d\D]`
	}
	if n.Negated {
		return "[^" + n.Set.String() + "]"
	}
	return "[" + n.Set.String() + "]"
}

func (n *Anchor) String() string {
	if n.Kind == AnchorEnd {
		return "$"
	}
	return "^"
}

func (n *Concat) String() string {
	var b strings.Builder
	for i, sub := range n.Subs {
		s := sub.String()
		switch sub.(type) {
		case *Alternate, *Empty:
			s = "(?:" + s + ")"
		case *Backref:
			// \1 followed by a digit would read as \1N
			if i+1 < len(n.Subs) && startsWithDigit(n.Subs[i+1].String()) {
				s = "(?:" + s + ")"
			}
		}
		b.WriteString(s)
	}
	return b.String()
}

func (n *Alternate) String() string {
	parts := make([]string, len(n.Subs))
	for i, sub := range n.Subs {
		parts[i] = sub.String()
	}
	return strings.Join(parts, "|")
}

func (n *Group) String() string {
	if n.Capturing() {
		return "(" + n.Body.String() + ")"
	}
	return "(?:" + n.Body.String() + ")"
}

func (n *Repeat) String() string {
	body := n.Body.String()
	switch n.Body.(type) {
	case *Concat, *Alternate, *Repeat, *Empty:
		body = "(?:" + body + ")"
	}
	switch {
	case n.Min == 0 && n.Max == 1:
		return body + "?"
	case n.Min == 1 && n.Max == Unbounded:
		return body + "+"
	case n.Min == 0 && n.Max == Unbounded:
		return body + "*"
	}
	return body
}

func (n *Backref) String() string {
	return `\` + strconv.Itoa(n.Index)
}

func (*Empty) String() string { return "" }

func startsWithDigit(s string) bool {
	return s != "" && isDigit(s[0])
}
