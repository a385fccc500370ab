package nfa

import (
	"fmt"

	"github.com/coregx/regrep/syntax"
)

// BuildError reports a tree the compiler cannot lower or a state graph the
// Builder rejects. Node is set for compile failures, StateID for graph
// failures.
type BuildError struct {
	Message string
	StateID StateID
	Node    syntax.Node
}

// nodeError builds a BuildError for the subtree n.
func nodeError(n syntax.Node, format string, args ...any) *BuildError {
	return &BuildError{
		Message: fmt.Sprintf(format, args...),
		StateID: InvalidState,
		Node:    n,
	}
}

func (e *BuildError) Error() string {
	switch {
	case e.Node != nil:
		return fmt.Sprintf("nfa: cannot compile %T `%s`: %s", e.Node, e.Node, e.Message)
	case e.StateID != InvalidState:
		return fmt.Sprintf("nfa: state %d: %s", e.StateID, e.Message)
	}
	return "nfa: " + e.Message
}
