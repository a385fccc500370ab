package meta

import "testing"

func TestMatchResultGroup(t *testing.T) {
	res := newMatchResult([]int{1, 5, 1, 3, -1, -1})
	if !res.Matched {
		t.Fatal("Matched should be true")
	}
	if got := res.Group(0); got != (Span{1, 5}) {
		t.Errorf("Group(0) = %v, want {1 5}", got)
	}
	if got := res.Group(1); got != (Span{1, 3}) {
		t.Errorf("Group(1) = %v, want {1 3}", got)
	}
	if got := res.Group(2); got.IsSet() {
		t.Errorf("Group(2) = %v, want unset", got)
	}
	if got := res.Group(3); got.IsSet() {
		t.Errorf("Group(3) = %v, want unset", got)
	}

	haystack := []byte("xabcdx")
	if got := string(res.Text(haystack, 1)); got != "ab" {
		t.Errorf("Text(1) = %q, want \"ab\"", got)
	}
	if got := res.Text(haystack, 2); got != nil {
		t.Errorf("Text(2) = %q, want nil", got)
	}
}

func TestNoMatch(t *testing.T) {
	res := noMatch()
	if res.Matched || res.Span.IsSet() || res.Groups != nil {
		t.Errorf("noMatch() = %+v", res)
	}
	if got := res.Group(0); got.IsSet() {
		t.Errorf("Group(0) = %v, want unset", got)
	}
}

func TestSpanLen(t *testing.T) {
	if got := (Span{2, 5}).Len(); got != 3 {
		t.Errorf("Len() = %d, want 3", got)
	}
	if got := (Span{-1, -1}).Len(); got != 0 {
		t.Errorf("unset Len() = %d, want 0", got)
	}
}

func TestMatch(t *testing.T) {
	haystack := []byte("hello world")
	m := NewMatch(6, 11, haystack)

	if m.Start() != 6 || m.End() != 11 || m.Len() != 5 {
		t.Errorf("got [%d,%d] len %d", m.Start(), m.End(), m.Len())
	}
	if m.String() != "world" {
		t.Errorf("String() = %q, want \"world\"", m.String())
	}
	if m.IsEmpty() {
		t.Error("IsEmpty() should be false")
	}
	if !NewMatch(3, 3, haystack).IsEmpty() {
		t.Error("IsEmpty() should be true")
	}
	if NewMatch(5, 20, haystack).Bytes() != nil {
		t.Error("out of range Bytes() should be nil")
	}
}
