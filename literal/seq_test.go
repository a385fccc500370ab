package literal

import "testing"

func TestSeqMinimize(t *testing.T) {
	seq := NewSeq(
		NewLiteral([]byte("foobar"), true),
		NewLiteral([]byte("foo"), true),
		NewLiteral([]byte("bar"), true),
		NewLiteral([]byte("bar"), true),
	)
	seq.Minimize()

	if seq.Len() != 2 {
		t.Fatalf("Len() = %d, want 2: %s", seq.Len(), seq)
	}
	for i := 0; i < seq.Len(); i++ {
		lit := seq.Get(i)
		switch string(lit.Bytes) {
		case "foo":
			if lit.Complete {
				t.Error("foo absorbed foobar and must be incomplete")
			}
		case "bar":
			if !lit.Complete {
				t.Error("duplicate bar should stay complete")
			}
		default:
			t.Errorf("unexpected literal %s", lit)
		}
	}
}

func TestSeqLongestCommonPrefix(t *testing.T) {
	tests := []struct {
		lits []string
		want string
	}{
		{[]string{"hello", "help", "hero"}, "he"},
		{[]string{"abc", "def"}, ""},
		{[]string{"same"}, "same"},
		{nil, ""},
	}
	for _, tt := range tests {
		var lits []Literal
		for _, s := range tt.lits {
			lits = append(lits, NewLiteral([]byte(s), true))
		}
		if got := string(NewSeq(lits...).LongestCommonPrefix()); got != tt.want {
			t.Errorf("LongestCommonPrefix(%v) = %q, want %q", tt.lits, got, tt.want)
		}
	}
}

func TestSeqAllComplete(t *testing.T) {
	if NewSeq().AllComplete() {
		t.Error("empty seq cannot be all complete")
	}
	seq := NewSeq(NewLiteral([]byte("a"), true), NewLiteral([]byte("b"), false))
	if seq.AllComplete() {
		t.Error("seq with an incomplete literal reported AllComplete")
	}
	var nilSeq *Seq
	if !nilSeq.IsEmpty() || nilSeq.Len() != 0 {
		t.Error("nil seq must be empty")
	}
}

func TestLiteralString(t *testing.T) {
	if got := NewLiteral([]byte("test"), true).String(); got != "literal{test, complete=true}" {
		t.Errorf("String() = %q", got)
	}
}
