package nfa

import (
	"errors"
	"strings"
	"testing"

	"github.com/coregx/regrep/syntax"
)

func mustCompile(t *testing.T, pattern string) *NFA {
	t.Helper()
	node, err := syntax.ParseString(pattern)
	if err != nil {
		t.Fatalf("ParseString(%q): %v", pattern, err)
	}
	return Compile(node)
}

func TestCompileMetadata(t *testing.T) {
	tests := []struct {
		pattern   string
		captures  int
		registers int
		anchored  bool
	}{
		{"abc", 1, 2, false},
		{"(a)(b)", 3, 6, false},
		{"(?:a)(b)", 2, 4, false},
		{"^abc", 1, 2, true},
		{"^a|^b", 1, 2, true},
		{"^a|b", 1, 2, false},
		{"a*", 1, 2, false},
		{"(a*)*", 2, 5, false},
		{"(a?)+", 2, 5, false},
		{"(a?)+(b*)*", 3, 8, false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			n := mustCompile(t, tt.pattern)
			if n.CaptureCount() != tt.captures {
				t.Errorf("CaptureCount() = %d, want %d", n.CaptureCount(), tt.captures)
			}
			if n.RegisterCount() != tt.registers {
				t.Errorf("RegisterCount() = %d, want %d", n.RegisterCount(), tt.registers)
			}
			if n.IsAnchored() != tt.anchored {
				t.Errorf("IsAnchored() = %v, want %v", n.IsAnchored(), tt.anchored)
			}
		})
	}
}

func TestCompileStructure(t *testing.T) {
	n := mustCompile(t, "a|b|c")

	splits, joins := 0, 0
	for i := 0; i < n.States(); i++ {
		switch n.State(StateID(i)).Kind() {
		case StateSplit:
			splits++
		case StateEpsilon:
			joins++
		}
	}
	// three alternatives need a chain of two binary splits and one join
	if splits != 2 || joins != 1 {
		t.Errorf("splits = %d, joins = %d, want 2 and 1\n%s", splits, joins, n)
	}

	start := n.State(n.Start())
	if slot, ok := start.Capture(); !ok || slot != 0 {
		t.Errorf("start state = %s, want Capture slot 0", start)
	}
}

func TestCompileGreedyLeftPreference(t *testing.T) {
	n := mustCompile(t, "a*")
	for i := 0; i < n.States(); i++ {
		s := n.State(StateID(i))
		if s.Kind() != StateSplit {
			continue
		}
		left, _ := s.Split()
		if k := n.State(left).Kind(); k != StateRune {
			t.Errorf("split prefers %s, want the loop body (Rune)", k)
		}
	}
}

func TestNFAString(t *testing.T) {
	s := mustCompile(t, `(a)\1$`).String()
	for _, want := range []string{"Capture slot 2", `Rune 'a'`, `Backref \1`, "Look $", "Match"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() missing %q:\n%s", want, s)
		}
	}
}

func TestCompilePanicsOnUnsupportedTree(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Compile did not panic on {2,3} repetition")
		}
	}()
	Compile(&syntax.Repeat{Body: &syntax.Literal{Rune: 'a'}, Min: 2, Max: 3})
}

func TestCompilerRejectsBadBackref(t *testing.T) {
	_, err := NewCompiler().Compile(&syntax.Backref{Index: 2})
	if err == nil {
		t.Fatal("expected error for backreference to missing group")
	}
	if _, ok := err.(*BuildError); !ok {
		t.Errorf("error type = %T, want *BuildError", err)
	}
}

func TestCompilerErrorNamesNode(t *testing.T) {
	bad := &syntax.Repeat{Body: &syntax.Literal{Rune: 'a'}, Min: 2, Max: 3}
	_, err := NewCompiler().Compile(&syntax.Concat{Subs: []syntax.Node{&syntax.Literal{Rune: 'x'}, bad}})
	var be *BuildError
	if !errors.As(err, &be) {
		t.Fatalf("Compile() error = %v, want *BuildError", err)
	}
	if be.Node != syntax.Node(bad) {
		t.Errorf("BuildError.Node = %v, want the repetition", be.Node)
	}
	if be.StateID != InvalidState {
		t.Errorf("BuildError.StateID = %d, want InvalidState", be.StateID)
	}
}
