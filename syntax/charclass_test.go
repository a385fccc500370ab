package syntax

import (
	"testing"
	"unicode/utf8"
)

func TestNewCharSetMerges(t *testing.T) {
	s := NewCharSet(RuneRange{'d', 'f'}, RuneRange{'a', 'c'}, RuneRange{'x', 'x'}, RuneRange{'e', 'h'})
	want := []RuneRange{{'a', 'h'}, {'x', 'x'}}
	got := s.Ranges()
	if len(got) != len(want) {
		t.Fatalf("Ranges() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("range %d = %v, want %v", i, got[i], want[i])
		}
	}
	if s.Size() != 9 {
		t.Errorf("Size() = %d, want 9", s.Size())
	}
}

func TestCharSetContains(t *testing.T) {
	s := WordSet().Union(NewCharSet(RuneRange{'é', 'é'}, RuneRange{'-', '-'}, RuneRange{'~', '~'}))
	for _, r := range "azAZ09_é-~" {
		if !s.Contains(r) {
			t.Errorf("Contains(%q) = false", r)
		}
	}
	for _, r := range " !.ü" {
		if s.Contains(r) {
			t.Errorf("Contains(%q) = true", r)
		}
	}
}

func TestCharSetComplement(t *testing.T) {
	c := DigitSet().Complement()
	if c.Contains('5') || !c.Contains('a') || !c.Contains(0) || !c.Contains(utf8.MaxRune) {
		t.Errorf("complement of digits wrong: %v", c.Ranges())
	}
	if !c.Complement().Equal(DigitSet()) {
		t.Errorf("double complement = %v", c.Complement().Ranges())
	}
	if !(CharSet{}).Complement().Contains('x') {
		t.Error("complement of empty set must contain everything")
	}
}
