package syntax

import (
	"errors"
	"testing"
)

func TestParseStructure(t *testing.T) {
	tests := []struct {
		pattern string
		want    string // rendered tree
	}{
		{"", ""},
		{"abc", "abc"},
		{"ab|cd", "ab|cd"},
		{"a|b|c", "a|b|c"},
		{"ab*", "ab*"},
		{"(ab)+", "(ab)+"},
		{"(?:ab)?c", "(?:ab)?c"},
		{`\d+`, "[0-9]+"},
		{`\W`, "[^0-9A-Z_a-z]"},
		{"^a.b$", "^a.b$"},
		{`(a)\1`, `(a)\1`},
		{`a\.b`, `a\.b`},
		{"a^b", "a^b"},
		{"[abc]", "[a-c]"},
		{"[^x]", "[^x]"},
		{"a{1}", "a{1}"},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			n, err := ParseString(tt.pattern)
			if err != nil {
				t.Fatalf("ParseString(%q) error: %v", tt.pattern, err)
			}
			if got := n.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParsePrecedence(t *testing.T) {
	n, err := ParseString("ab|cd")
	if err != nil {
		t.Fatal(err)
	}
	alt, ok := n.(*Alternate)
	if !ok || len(alt.Subs) != 2 {
		t.Fatalf("ab|cd = %T, want *Alternate with two branches", n)
	}
	if _, ok := alt.Subs[0].(*Concat); !ok {
		t.Errorf("first branch = %T, want *Concat", alt.Subs[0])
	}

	// quantifier binds to the preceding atom only
	n, err = ParseString("ab+")
	if err != nil {
		t.Fatal(err)
	}
	cat, ok := n.(*Concat)
	if !ok || len(cat.Subs) != 2 {
		t.Fatalf("ab+ = %T, want *Concat of two", n)
	}
	rep, ok := cat.Subs[1].(*Repeat)
	if !ok || rep.Min != 1 || rep.Max != Unbounded {
		t.Fatalf("second element = %#v, want Repeat{1, Unbounded}", cat.Subs[1])
	}
	if lit, ok := rep.Body.(*Literal); !ok || lit.Rune != 'b' {
		t.Errorf("repeat body = %#v, want Literal b", rep.Body)
	}
}

func TestParseGroupNumbering(t *testing.T) {
	n, err := ParseString("((a)(?:b)(c))")
	if err != nil {
		t.Fatal(err)
	}
	if got := CountGroups(n); got != 3 {
		t.Fatalf("CountGroups = %d, want 3", got)
	}
	outer := n.(*Group)
	if outer.Index != 1 {
		t.Errorf("outer index = %d, want 1", outer.Index)
	}
	subs := outer.Body.(*Concat).Subs
	wantIdx := []int{2, 0, 3}
	for i, sub := range subs {
		if g := sub.(*Group); g.Index != wantIdx[i] {
			t.Errorf("group %d index = %d, want %d", i, g.Index, wantIdx[i])
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		pattern string
		code    ErrorCode
		expr    string
	}{
		{"*a", ErrUnexpectedToken, "*a"},
		{"a|*", ErrUnexpectedToken, "*"},
		{"(+)", ErrUnexpectedToken, "+)"},
		{"a**", ErrUnexpectedToken, "*"},
		{"a+?", ErrUnexpectedToken, "?"},
		{"a|", ErrUnexpectedToken, "|"},
		{"|a", ErrUnexpectedToken, "|a"},
		{"()", ErrUnexpectedToken, ")"},
		{"a||b", ErrUnexpectedToken, "|b"},
		{"(a", ErrUnmatchedParen, "(a"},
		{"(", ErrUnmatchedParen, "("},
		{"a)", ErrUnmatchedParen, ")"},
		{")", ErrUnmatchedParen, ")"},
		{"((a)", ErrUnmatchedParen, "((a)"},
		{"(a|", ErrUnmatchedParen, "(a|"},
		{`\1`, ErrInvalidBackreference, `\1`},
		{`\1(a)`, ErrInvalidBackreference, `\1(a)`},
		{`(a)\2`, ErrInvalidBackreference, `\2`},
		{`(?:a)\1`, ErrInvalidBackreference, `\1`},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			_, err := ParseString(tt.pattern)
			var perr *Error
			if !errors.As(err, &perr) {
				t.Fatalf("ParseString(%q) error = %v, want *Error", tt.pattern, err)
			}
			if perr.Code != tt.code {
				t.Errorf("Code = %q, want %q", perr.Code, tt.code)
			}
			if perr.Expr != tt.expr {
				t.Errorf("Expr = %q, want %q", perr.Expr, tt.expr)
			}
		})
	}
}

func TestParseBackrefInsideOpenGroup(t *testing.T) {
	// the group's opening parenthesis precedes the reference
	if _, err := ParseString(`(a\1)`); err != nil {
		t.Errorf(`(a\1) should parse: %v`, err)
	}
}

func TestParseTokensDirectly(t *testing.T) {
	_, err := Parse([]Token{{Kind: TokenQuantifier, Quant: QuantOneOrMore}})
	var perr *Error
	if !errors.As(err, &perr) || perr.Code != ErrUnexpectedToken || perr.Expr != "+" {
		t.Errorf("Parse(+) error = %v, want unexpected token `+`", err)
	}
}

// TestStringRoundTrip checks that rendering and reparsing is stable.
func TestStringRoundTrip(t *testing.T) {
	patterns := []string{
		`(cat) and \1`,
		`^(a|b)*c?$`,
		`[^\]\-x]+`,
		`(a)(?:\1)0`,
		`\t\\\.\*`,
		`x(?:ab|cd)y`,
	}
	for _, p := range patterns {
		n, err := ParseString(p)
		if err != nil {
			t.Fatalf("ParseString(%q) error: %v", p, err)
		}
		s := n.String()
		n2, err := ParseString(s)
		if err != nil {
			t.Fatalf("reparse of %q (from %q) failed: %v", s, p, err)
		}
		if s2 := n2.String(); s2 != s {
			t.Errorf("round trip of %q not stable: %q then %q", p, s, s2)
		}
	}
}
