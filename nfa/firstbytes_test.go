package nfa

import (
	"testing"
)

func TestExtractFirstBytes(t *testing.T) {
	tests := []struct {
		pattern string
		want    string // members; "" means no usable set
	}{
		{"abc", "a"},
		{"abc|xyz", "ax"},
		{"[0-9]+x", "0123456789"},
		{"a?b", "ab"},
		{"(a|b)*c", "abc"},
		{"^foo", "f"},
		{`(a*)\1b`, ""},
		{"a*", ""},
		{".x", ""},
		{"[^a]", ""},
		{`(a)\1`, "a"},
		{"é", "\xc3"},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			fb := ExtractFirstBytes(mustCompile(t, tt.pattern))
			if tt.want == "" {
				if fb != nil {
					t.Errorf("ExtractFirstBytes(%q) = %q, want nil", tt.pattern, fb.Bytes())
				}
				return
			}
			if fb == nil {
				t.Fatalf("ExtractFirstBytes(%q) = nil, want %q", tt.pattern, tt.want)
			}
			if got := string(fb.Bytes()); got != tt.want {
				t.Errorf("ExtractFirstBytes(%q) = %q, want %q", tt.pattern, got, tt.want)
			}
			if !fb.IsUseful() {
				t.Errorf("set for %q should be useful", tt.pattern)
			}
		})
	}
}

func TestFirstByteSetFind(t *testing.T) {
	sets := map[string]string{
		"a":    "a",
		"ab":   "a|b",
		"abc":  "a|b|c",
		"abcd": "a|b|c|d",
	}
	for name, pattern := range sets {
		fb := ExtractFirstBytes(mustCompile(t, pattern))
		if fb == nil || fb.Count() != len(name) {
			t.Fatalf("%s: unexpected set %v", pattern, fb)
		}
		hay := []byte("zzzzzzzzzzzz" + name[len(name)-1:] + "zz")
		if got := fb.Find(hay, 0); got != 12 {
			t.Errorf("%s: Find = %d, want 12", pattern, got)
		}
		if got := fb.Find(hay, 13); got != -1 {
			t.Errorf("%s: Find past hit = %d, want -1", pattern, got)
		}
		if got := fb.Find(hay, len(hay)); got != -1 {
			t.Errorf("%s: Find at end = %d, want -1", pattern, got)
		}
	}
}
