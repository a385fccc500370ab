// Package regrep provides a small backtracking regular expression engine
// with grep-style semantics.
//
// The engine supports:
//   - Literals, '.', character classes, \d \w \s and their negations
//   - Anchors ^ and $, alternation, grouping with ( ) and (?: )
//   - The quantifiers ?, + and * (greedy)
//   - Backreferences \1, \2, ...
//
// Matching is leftmost-first: the earliest start offset wins, and at that
// offset alternatives and repetitions are tried in declared, greedy order.
//
// Basic usage:
//
//	// Compile a pattern
//	re, err := regrep.Compile(`(\w+)@(\w+)\.com`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Check if a line matches
//	if re.MatchString("mail bob@example.com") {
//	    fmt.Println("matched!")
//	}
//
//	// Inspect the match and its groups
//	res := re.Matches("mail bob@example.com")
//	fmt.Println(res.Span, res.Groups) // {5 20} [{5 8} {9 16}]
//
// Advanced usage:
//
//	// Custom configuration
//	config := regrep.DefaultConfig()
//	config.EnablePrefilter = false
//	re, err := regrep.CompileWithConfig("foo|bar", config)
//
// Limitations:
//   - Backtracking is exponential on some patterns, e.g. (a*)*b on long input
//   - No counted repetition, lazy quantifiers, flags or lookaround
package regrep

import (
	"github.com/coregx/regrep/meta"
)

// MatchResult is the outcome of one match attempt: whether it matched, the
// overall span and the span of every capturing group.
type MatchResult = meta.MatchResult

// Span is a half-open byte range; {-1, -1} marks a group that did not
// participate.
type Span = meta.Span

// Config tunes the engine. See DefaultConfig.
type Config = meta.Config

// Regex represents a compiled regular expression.
//
// A Regex is safe to use concurrently from multiple goroutines, except for
// methods that modify internal state (like ResetStats).
//
// Example:
//
//	re := regrep.MustCompile(`hello`)
//	if re.Match([]byte("hello world")) {
//	    println("matched!")
//	}
type Regex struct {
	engine  *meta.Engine
	pattern string
}

// Compile compiles a regular expression pattern.
//
// Returns a *syntax.Error if the pattern is malformed.
//
// Example:
//
//	re, err := regrep.Compile(`\d+-\d+`)
//	if err != nil {
//	    log.Fatal(err)
//	}
func Compile(pattern string) (*Regex, error) {
	engine, err := meta.Compile(pattern)
	if err != nil {
		return nil, err
	}

	return &Regex{
		engine:  engine,
		pattern: pattern,
	}, nil
}

// MustCompile compiles a regular expression pattern and panics if it fails.
//
// This is useful for patterns known to be valid at compile time.
//
// Example:
//
//	var emailRegex = regrep.MustCompile(`[a-z]+@[a-z]+\.[a-z]+`)
func MustCompile(pattern string) *Regex {
	re, err := Compile(pattern)
	if err != nil {
		panic("regexp: Compile(`" + pattern + "`): " + err.Error())
	}
	return re
}

// CompileWithConfig compiles a pattern with custom configuration.
//
// Example:
//
//	config := regrep.DefaultConfig()
//	config.MaxClassSize = 0 // never expand classes into literals
//	re, err := regrep.CompileWithConfig(`[ab]cd`, config)
func CompileWithConfig(pattern string, config Config) (*Regex, error) {
	engine, err := meta.CompileWithConfig(pattern, config)
	if err != nil {
		return nil, err
	}

	return &Regex{
		engine:  engine,
		pattern: pattern,
	}, nil
}

// DefaultConfig returns the default configuration for compilation.
func DefaultConfig() Config {
	return meta.DefaultConfig()
}

// QuoteMeta returns a string that escapes all metacharacters inside the
// argument text; the returned string is a pattern matching the literal text.
//
// Example:
//
//	escaped := regrep.QuoteMeta("hello.world")
//	// escaped = "hello\\.world"
func QuoteMeta(s string) string {
	const special = `\.+*?()|[]^$`

	n := 0
	for i := 0; i < len(s); i++ {
		if isSpecial(s[i], special) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	buf := make([]byte, len(s)+n)
	j := 0
	for i := 0; i < len(s); i++ {
		if isSpecial(s[i], special) {
			buf[j] = '\\'
			j++
		}
		buf[j] = s[i]
		j++
	}
	return string(buf)
}

// isSpecial returns true if c is in the special characters string.
func isSpecial(c byte, special string) bool {
	for i := 0; i < len(special); i++ {
		if c == special[i] {
			return true
		}
	}
	return false
}

// Matches reports the leftmost-first match in line with all of its groups.
//
// Example:
//
//	re := regrep.MustCompile(`a(b)?c`)
//	res := re.Matches("ac")
//	// res.Matched == true, res.Span == {0, 2}, res.Groups == [{-1, -1}]
func (r *Regex) Matches(line string) MatchResult {
	return r.engine.Matches([]byte(line))
}

// MatchesBytes is Matches for a byte slice.
func (r *Regex) MatchesBytes(b []byte) MatchResult {
	return r.engine.Matches(b)
}

// Match reports whether the byte slice b contains any match of the pattern.
func (r *Regex) Match(b []byte) bool {
	return r.engine.IsMatch(b)
}

// MatchString reports whether the string s contains any match of the pattern.
func (r *Regex) MatchString(s string) bool {
	return r.Match([]byte(s))
}

// Find returns a slice holding the text of the leftmost match in b.
// Returns nil if no match is found.
//
// Example:
//
//	re := regrep.MustCompile(`\d+`)
//	match := re.Find([]byte("age: 42"))
//	println(string(match)) // "42"
func (r *Regex) Find(b []byte) []byte {
	match := r.engine.Find(b)
	if match == nil {
		return nil
	}
	return match.Bytes()
}

// FindString returns a string holding the text of the leftmost match in s.
// Returns empty string if no match is found.
func (r *Regex) FindString(s string) string {
	match := r.Find([]byte(s))
	if match == nil {
		return ""
	}
	return string(match)
}

// FindIndex returns a two-element slice of integers defining the location of
// the leftmost match in b. The match is at b[loc[0]:loc[1]].
// Returns nil if no match is found.
func (r *Regex) FindIndex(b []byte) []int {
	match := r.engine.Find(b)
	if match == nil {
		return nil
	}
	return []int{match.Start(), match.End()}
}

// FindStringIndex returns the location of the leftmost match in s.
// Returns nil if no match is found.
func (r *Regex) FindStringIndex(s string) []int {
	return r.FindIndex([]byte(s))
}

// FindSubmatchIndex returns a slice holding the index pairs for the leftmost
// match and the matches of all capture groups.
//
// A return value of nil indicates no match.
// Result[2*i:2*i+2] is the indices for the ith group.
// Unmatched groups have -1 indices.
func (r *Regex) FindSubmatchIndex(b []byte) []int {
	res := r.engine.Matches(b)
	if !res.Matched {
		return nil
	}
	result := make([]int, 0, 2*(len(res.Groups)+1))
	result = append(result, res.Span.Start, res.Span.End)
	for _, g := range res.Groups {
		result = append(result, g.Start, g.End)
	}
	return result
}

// FindStringSubmatchIndex is FindSubmatchIndex for a string.
func (r *Regex) FindStringSubmatchIndex(s string) []int {
	return r.FindSubmatchIndex([]byte(s))
}

// FindSubmatch returns the text of the leftmost match and of every group.
// Groups that did not participate are nil.
//
// Example:
//
//	re := regrep.MustCompile(`(\w+)@(\w+)\.(\w+)`)
//	match := re.FindSubmatch([]byte("user@example.com"))
//	// match[0] = "user@example.com"
//	// match[1] = "user"
func (r *Regex) FindSubmatch(b []byte) [][]byte {
	res := r.engine.Matches(b)
	if !res.Matched {
		return nil
	}
	out := make([][]byte, len(res.Groups)+1)
	for i := range out {
		out[i] = res.Text(b, i)
	}
	return out
}

// FindStringSubmatch is FindSubmatch for a string. Groups that did not
// participate are empty.
func (r *Regex) FindStringSubmatch(s string) []string {
	sub := r.FindSubmatch([]byte(s))
	if sub == nil {
		return nil
	}
	out := make([]string, len(sub))
	for i, b := range sub {
		out[i] = string(b)
	}
	return out
}

// FindAllIndex returns a slice of all successive matches of the pattern in b,
// as index pairs [start, end].
// If n > 0, it returns at most n matches. If n < 0, it returns all matches.
//
// Example:
//
//	re := regrep.MustCompile(`\d+`)
//	indices := re.FindAllIndex([]byte("1 2 3"), -1)
//	// indices = [[0,1], [2,3], [4,5]]
func (r *Regex) FindAllIndex(b []byte, n int) [][]int {
	matches := r.engine.FindAll(b, n)
	if len(matches) == 0 {
		return nil
	}
	indices := make([][]int, len(matches))
	for i, m := range matches {
		indices[i] = []int{m.Start(), m.End()}
	}
	return indices
}

// FindAllStringIndex is FindAllIndex for a string.
func (r *Regex) FindAllStringIndex(s string, n int) [][]int {
	return r.FindAllIndex([]byte(s), n)
}

// FindAll returns the text of all successive matches of the pattern in b.
// If n > 0, it returns at most n matches. If n < 0, it returns all matches.
func (r *Regex) FindAll(b []byte, n int) [][]byte {
	matches := r.engine.FindAll(b, n)
	if len(matches) == 0 {
		return nil
	}
	out := make([][]byte, len(matches))
	for i, m := range matches {
		out[i] = m.Bytes()
	}
	return out
}

// FindAllString is FindAll for a string.
func (r *Regex) FindAllString(s string, n int) []string {
	matches := r.engine.FindAll([]byte(s), n)
	if len(matches) == 0 {
		return nil
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = s[m.Start():m.End()]
	}
	return out
}

// Count returns the number of non-overlapping matches of the pattern in b.
// If n > 0, counts at most n matches. If n < 0, counts all matches.
func (r *Regex) Count(b []byte, n int) int {
	return len(r.engine.FindAll(b, n))
}

// String returns the source text used to compile the regular expression.
func (r *Regex) String() string {
	return r.pattern
}

// NumSubexp returns the number of parenthesized subexpressions (capture groups).
func (r *Regex) NumSubexp() int {
	return r.engine.NumGroups()
}

// Strategy returns the search strategy selected at compile time.
func (r *Regex) Strategy() meta.Strategy {
	return r.engine.Strategy()
}

// Stats returns execution statistics for this regex.
func (r *Regex) Stats() meta.Stats {
	return r.engine.Stats()
}

// ResetStats resets execution statistics to zero.
func (r *Regex) ResetStats() {
	r.engine.ResetStats()
}
