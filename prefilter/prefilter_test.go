package prefilter

import (
	"testing"

	"github.com/coregx/regrep/literal"
	"github.com/coregx/regrep/syntax"
)

func build(t *testing.T, pattern string) Prefilter {
	t.Helper()
	node, err := syntax.ParseString(pattern)
	if err != nil {
		t.Fatalf("ParseString(%q): %v", pattern, err)
	}
	prefixes := literal.New(literal.DefaultConfig()).ExtractPrefixes(node)
	return NewBuilder(prefixes).Build()
}

func TestBuilderSelection(t *testing.T) {
	tests := []struct {
		pattern string
		want    string // "" means no prefilter
	}{
		{"a", "memchr"},
		{"a.", "memchr"},
		{"hello", "memmem"},
		{"a|b", "memchr2"},
		{"[xyz]+", "memchr3"},
		{"[abcd]", "aho-corasick"},
		{"foo|bar|baz", "aho-corasick"},
		{"prefix1|prefix2", "memmem"},
		{".*", ""},
		{"a*", ""},
		{`\w+`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			pf := build(t, tt.pattern)
			if tt.want == "" {
				if pf != nil {
					t.Errorf("Build(%q) = %s, want none", tt.pattern, pf)
				}
				return
			}
			if pf == nil {
				t.Fatalf("Build(%q) = nil, want %s", tt.pattern, tt.want)
			}
			if pf.String() != tt.want {
				t.Errorf("Build(%q) = %s, want %s", tt.pattern, pf, tt.want)
			}
		})
	}
}

func TestPrefilterFind(t *testing.T) {
	tests := []struct {
		pattern  string
		haystack string
		start    int
		want     int
	}{
		{"x", "abcxdef", 0, 3},
		{"x", "abcxdef", 4, -1},
		{"hello", "say hello", 0, 4},
		{"hello", "say hello", 5, -1},
		{"a|b", "zzzb", 0, 3},
		{"[xyz]", "...z.x", 0, 3},
		{"foo|bar|baz", "xx baz foo", 0, 3},
		{"foo|bar|baz", "xx baz foo", 4, 7},
		{"foo|bar|baz", "nothing", 0, -1},
		{"abcd|bc", "abcd", 0, 0},
		{"abcd|bc", "xabcd", 1, 1},
		{"abcd|bc", "abc bc", 0, 1},
		{"abcd|bc|xy|zz", "zabcd", 0, 1},
		{"abcd|bc|xy|zz", "abcd", 1, 1},
		{"prefix1|prefix2", "a prefix3 prefix2", 0, 2},
		{"x", "x", 1, -1},
	}

	for _, tt := range tests {
		pf := build(t, tt.pattern)
		if pf == nil {
			t.Fatalf("no prefilter for %q", tt.pattern)
		}
		if got := pf.Find([]byte(tt.haystack), tt.start); got != tt.want {
			t.Errorf("%s(%q).Find(%q, %d) = %d, want %d", pf, tt.pattern, tt.haystack, tt.start, got, tt.want)
		}
	}
}

func TestPrefilterComplete(t *testing.T) {
	tests := []struct {
		pattern  string
		complete bool
		litLen   int
	}{
		{"hello", true, 5},
		{"z", true, 1},
		{`hello\d`, false, 0},
		{"hello$", false, 0},
		{"foo|bar|baz", false, 0},
	}
	for _, tt := range tests {
		pf := build(t, tt.pattern)
		if pf.IsComplete() != tt.complete || pf.LiteralLen() != tt.litLen {
			t.Errorf("%q: IsComplete=%v LiteralLen=%d, want %v %d",
				tt.pattern, pf.IsComplete(), pf.LiteralLen(), tt.complete, tt.litLen)
		}
	}
}

func TestBuilderEmpty(t *testing.T) {
	if pf := NewBuilder(nil).Build(); pf != nil {
		t.Errorf("Build(nil) = %s, want nil", pf)
	}
	seq := literal.NewSeq(literal.NewLiteral([]byte{}, false))
	if pf := NewBuilder(seq).Build(); pf != nil {
		t.Errorf("Build(empty literal) = %s, want nil", pf)
	}
}

func TestHeapBytes(t *testing.T) {
	if got := build(t, "hello").HeapBytes(); got != 5 {
		t.Errorf("memmem HeapBytes = %d, want 5", got)
	}
	if got := build(t, "foo|bar|baz").HeapBytes(); got != 9 {
		t.Errorf("aho-corasick HeapBytes = %d, want 9", got)
	}
}
