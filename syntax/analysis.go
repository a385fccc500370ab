package syntax

// CountGroups returns the number of capturing groups in the tree.
func CountGroups(n Node) int {
	switch n := n.(type) {
	case *Concat:
		return countAll(n.Subs)
	case *Alternate:
		return countAll(n.Subs)
	case *Group:
		c := CountGroups(n.Body)
		if n.Capturing() {
			c++
		}
		return c
	case *Repeat:
		return CountGroups(n.Body)
	}
	return 0
}

func countAll(subs []Node) int {
	c := 0
	for _, sub := range subs {
		c += CountGroups(sub)
	}
	return c
}

// IsNullable reports whether n may match without consuming input.
// Backreferences count as nullable since the referenced group may have
// captured the empty string.
func IsNullable(n Node) bool {
	switch n := n.(type) {
	case *Literal, *AnyChar, *CharClass:
		return false
	case *Concat:
		for _, sub := range n.Subs {
			if !IsNullable(sub) {
				return false
			}
		}
		return true
	case *Alternate:
		for _, sub := range n.Subs {
			if IsNullable(sub) {
				return true
			}
		}
		return false
	case *Group:
		return IsNullable(n.Body)
	case *Repeat:
		return n.Min == 0 || IsNullable(n.Body)
	}
	// Anchor, Backref, Empty
	return true
}

// IsStartAnchored reports whether every match of n must begin at the
// start of the line.
func IsStartAnchored(n Node) bool {
	switch n := n.(type) {
	case *Anchor:
		return n.Kind == AnchorStart
	case *Concat:
		return len(n.Subs) > 0 && IsStartAnchored(n.Subs[0])
	case *Alternate:
		for _, sub := range n.Subs {
			if !IsStartAnchored(sub) {
				return false
			}
		}
		return len(n.Subs) > 0
	case *Group:
		return IsStartAnchored(n.Body)
	case *Repeat:
		return n.Min > 0 && IsStartAnchored(n.Body)
	}
	return false
}
