package nfa

import (
	"github.com/coregx/regrep/internal/conv"
	"github.com/coregx/regrep/syntax"
)

// Compile lowers a parsed pattern into an NFA.
//
// Compile is total over trees produced by syntax.Parse. It panics only when
// handed a tree no parse can produce, such as a Repeat with bounds other
// than ?, + and *. Use Compiler.Compile to get an error instead.
func Compile(node syntax.Node) *NFA {
	nfa, err := NewCompiler().Compile(node)
	if err != nil {
		panic(err)
	}
	return nfa
}

// Compiler lowers syntax trees into NFAs. A Compiler may be reused but not
// shared between goroutines.
type Compiler struct {
	builder   *Builder
	registers int // next free guard register
}

// NewCompiler creates a compiler.
func NewCompiler() *Compiler {
	return &Compiler{}
}

// Compile lowers node into an NFA.
//
// The program is wrapped as Capture(0) node Capture(1) Match, so a
// successful search reports the overall span in slots 0 and 1.
func (c *Compiler) Compile(node syntax.Node) (*NFA, error) {
	captures := maxGroup(node) + 1
	c.builder = NewBuilder()
	c.registers = 2 * captures

	open := c.builder.AddCapture(0, InvalidState)
	start, end, err := c.compile(node)
	if err != nil {
		return nil, err
	}
	closeID := c.builder.AddCapture(1, InvalidState)
	match := c.builder.AddMatch()

	if err := c.patchAll(
		[2]StateID{open, start},
		[2]StateID{end, closeID},
		[2]StateID{closeID, match},
	); err != nil {
		return nil, err
	}
	c.builder.SetStart(open)

	return c.builder.Build(
		WithAnchored(syntax.IsStartAnchored(node)),
		WithCaptureCount(captures),
		WithRegisterCount(c.registers),
	)
}

// compile recursively compiles a node.
// Returns (start, end) state IDs for the compiled fragment.
// The 'end' state is always a single-target state that needs to be patched
// to continue the automaton.
func (c *Compiler) compile(node syntax.Node) (start, end StateID, err error) {
	switch n := node.(type) {
	case *syntax.Literal:
		s := c.builder.AddRune(n.Rune, InvalidState)
		return s, s, nil
	case *syntax.AnyChar:
		s := c.builder.AddAny(InvalidState)
		return s, s, nil
	case *syntax.CharClass:
		s := c.builder.AddClass(n.Set, n.Negated, InvalidState)
		return s, s, nil
	case *syntax.Anchor:
		look := LookStartLine
		if n.Kind == syntax.AnchorEnd {
			look = LookEndLine
		}
		s := c.builder.AddLook(look, InvalidState)
		return s, s, nil
	case *syntax.Backref:
		if n.Index < 1 {
			return InvalidState, InvalidState, nodeError(n, "group index must be at least 1")
		}
		s := c.builder.AddBackref(conv.IntToUint32(n.Index), InvalidState)
		return s, s, nil
	case *syntax.Empty:
		return c.compileEmpty()
	case *syntax.Concat:
		return c.compileConcat(n.Subs)
	case *syntax.Alternate:
		return c.compileAlternate(n.Subs)
	case *syntax.Group:
		return c.compileGroup(n)
	case *syntax.Repeat:
		return c.compileRepeat(n)
	}
	return InvalidState, InvalidState, nodeError(node, "unsupported node")
}

func (c *Compiler) compileEmpty() (start, end StateID, err error) {
	s := c.builder.AddEpsilon(InvalidState)
	return s, s, nil
}

// compileConcat chains the sub-expressions in order
func (c *Compiler) compileConcat(subs []syntax.Node) (start, end StateID, err error) {
	if len(subs) == 0 {
		return c.compileEmpty()
	}

	start, end, err = c.compile(subs[0])
	if err != nil {
		return InvalidState, InvalidState, err
	}
	for _, sub := range subs[1:] {
		nextStart, nextEnd, err := c.compile(sub)
		if err != nil {
			return InvalidState, InvalidState, err
		}
		if err := c.builder.Patch(end, nextStart); err != nil {
			return InvalidState, InvalidState, err
		}
		end = nextEnd
	}
	return start, end, nil
}

// compileAlternate compiles alternation (e.g., "a|b|c")
func (c *Compiler) compileAlternate(subs []syntax.Node) (start, end StateID, err error) {
	if len(subs) == 0 {
		// nothing can match; the join is unreachable but patchable
		return c.builder.AddFail(), c.builder.AddEpsilon(InvalidState), nil
	}
	if len(subs) == 1 {
		return c.compile(subs[0])
	}

	starts := make([]StateID, 0, len(subs))
	ends := make([]StateID, 0, len(subs))
	for _, sub := range subs {
		s, e, err := c.compile(sub)
		if err != nil {
			return InvalidState, InvalidState, err
		}
		starts = append(starts, s)
		ends = append(ends, e)
	}

	split := c.buildSplitChain(starts)

	// every alternative converges on one join state
	join := c.builder.AddEpsilon(InvalidState)
	for _, e := range ends {
		if err := c.builder.Patch(e, join); err != nil {
			return InvalidState, InvalidState, err
		}
	}
	return split, join, nil
}

// buildSplitChain builds Split(alt1, Split(alt2, Split(alt3, ...))) so the
// alternatives are tried left to right.
func (c *Compiler) buildSplitChain(targets []StateID) StateID {
	if len(targets) == 1 {
		return targets[0]
	}
	right := c.buildSplitChain(targets[1:])
	return c.builder.AddSplit(targets[0], right)
}

func (c *Compiler) compileGroup(g *syntax.Group) (start, end StateID, err error) {
	if !g.Capturing() {
		return c.compile(g.Body)
	}

	slot := conv.IntToUint32(2 * g.Index)
	open := c.builder.AddCapture(slot, InvalidState)
	bodyStart, bodyEnd, err := c.compile(g.Body)
	if err != nil {
		return InvalidState, InvalidState, err
	}
	closeID := c.builder.AddCapture(slot+1, InvalidState)
	if err := c.patchAll([2]StateID{open, bodyStart}, [2]StateID{bodyEnd, closeID}); err != nil {
		return InvalidState, InvalidState, err
	}
	return open, closeID, nil
}

func (c *Compiler) compileRepeat(r *syntax.Repeat) (start, end StateID, err error) {
	switch {
	case r.Min == 1 && r.Max == 1:
		return c.compile(r.Body)
	case r.Min == 0 && r.Max == 1:
		return c.compileQuest(r.Body)
	case r.Min == 1 && r.Max == syntax.Unbounded:
		return c.compilePlus(r.Body)
	case r.Min == 0 && r.Max == syntax.Unbounded:
		return c.compileStar(r.Body)
	}
	return InvalidState, InvalidState, nodeError(r, "unsupported repetition {%d,%d}", r.Min, r.Max)
}

// compileQuest compiles a? (zero or one)
func (c *Compiler) compileQuest(body syntax.Node) (start, end StateID, err error) {
	bodyStart, bodyEnd, err := c.compile(body)
	if err != nil {
		return InvalidState, InvalidState, err
	}

	// split -> [body, end]
	end = c.builder.AddEpsilon(InvalidState)
	split := c.builder.AddSplit(bodyStart, end)
	if err := c.builder.Patch(bodyEnd, end); err != nil {
		return InvalidState, InvalidState, err
	}
	return split, end, nil
}

// compilePlus compiles a+ (one or more)
//
// Plain body:     body -> split -> [body, end]
// Nullable body:  mark -> body -> split -> [check -> mark, end]
//
// The check stops another iteration after one that consumed nothing; the
// exit branch stays open so the loop always terminates.
func (c *Compiler) compilePlus(body syntax.Node) (start, end StateID, err error) {
	bodyStart, bodyEnd, err := c.compile(body)
	if err != nil {
		return InvalidState, InvalidState, err
	}

	end = c.builder.AddEpsilon(InvalidState)
	if !syntax.IsNullable(body) {
		split := c.builder.AddSplit(bodyStart, end)
		if err := c.builder.Patch(bodyEnd, split); err != nil {
			return InvalidState, InvalidState, err
		}
		return bodyStart, end, nil
	}

	reg := c.newRegister()
	mark := c.builder.AddRepeatMark(reg, bodyStart)
	check := c.builder.AddRepeatCheck(reg, mark)
	split := c.builder.AddSplit(check, end)
	if err := c.builder.Patch(bodyEnd, split); err != nil {
		return InvalidState, InvalidState, err
	}
	return mark, end, nil
}

// compileStar compiles a* (zero or more)
//
// Plain body:     split -> [body -> split, end]
// Nullable body:  split -> [mark -> body -> check -> split, end]
func (c *Compiler) compileStar(body syntax.Node) (start, end StateID, err error) {
	bodyStart, bodyEnd, err := c.compile(body)
	if err != nil {
		return InvalidState, InvalidState, err
	}

	end = c.builder.AddEpsilon(InvalidState)
	if !syntax.IsNullable(body) {
		split := c.builder.AddSplit(bodyStart, end)
		if err := c.builder.Patch(bodyEnd, split); err != nil {
			return InvalidState, InvalidState, err
		}
		return split, end, nil
	}

	reg := c.newRegister()
	mark := c.builder.AddRepeatMark(reg, bodyStart)
	split := c.builder.AddSplit(mark, end)
	check := c.builder.AddRepeatCheck(reg, split)
	if err := c.builder.Patch(bodyEnd, check); err != nil {
		return InvalidState, InvalidState, err
	}
	return split, end, nil
}

func (c *Compiler) newRegister() uint32 {
	r := conv.IntToUint32(c.registers)
	c.registers++
	return r
}

func (c *Compiler) patchAll(edges ...[2]StateID) error {
	for _, e := range edges {
		if err := c.builder.Patch(e[0], e[1]); err != nil {
			return err
		}
	}
	return nil
}

// maxGroup returns the highest capture group index used in the tree.
func maxGroup(node syntax.Node) int {
	m := 0
	switch n := node.(type) {
	case *syntax.Concat:
		for _, sub := range n.Subs {
			m = max(m, maxGroup(sub))
		}
	case *syntax.Alternate:
		for _, sub := range n.Subs {
			m = max(m, maxGroup(sub))
		}
	case *syntax.Group:
		m = max(n.Index, maxGroup(n.Body))
	case *syntax.Repeat:
		m = maxGroup(n.Body)
	}
	return m
}
