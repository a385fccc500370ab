package meta

import (
	"bytes"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"github.com/coregx/regrep/literal"
	"github.com/coregx/regrep/nfa"
	"github.com/coregx/regrep/prefilter"
	"github.com/coregx/regrep/simd"
	"github.com/coregx/regrep/syntax"
)

// Engine is a compiled pattern together with its search strategy.
//
// Engine is immutable after compilation and safe for concurrent use:
// per-search register buffers come from a sync.Pool.
//
// Example:
//
//	engine, err := meta.Compile(`(\w+)@(\w+)\.com`)
//	if err != nil {
//	    return err
//	}
//	res := engine.Matches([]byte("mail bob@example.com"))
//	// res.Span == {5, 20}, res.Groups[0] == {5, 8}
type Engine struct {
	pattern   string
	nfa       *nfa.NFA
	bt        *nfa.Backtracker
	prefilter prefilter.Prefilter
	firstByte *nfa.FirstByteSet
	required  []byte
	strategy  Strategy
	config    Config

	// literalOnly is set when a prefilter candidate is itself the match.
	literalOnly bool

	cachePool sync.Pool

	// Statistics, updated atomically.
	stats Stats
}

// Stats tracks execution statistics for performance analysis.
type Stats struct {
	// Searches counts calls that reached the engine.
	Searches uint64

	// PrefilterCandidates counts start offsets proposed by the prefilter.
	PrefilterCandidates uint64

	// PrefilterExhausted counts searches where the prefilter ran out of
	// candidates.
	PrefilterExhausted uint64

	// LiteralMatches counts matches reported by the prefilter alone.
	LiteralMatches uint64

	// RequiredLiteralRejects counts haystacks rejected because they lack the
	// required literal.
	RequiredLiteralRejects uint64
}

// Compile parses pattern and builds an engine with the default configuration.
//
// Pattern errors are returned as *syntax.Error.
func Compile(pattern string) (*Engine, error) {
	return CompileWithConfig(pattern, DefaultConfig())
}

// CompileWithConfig parses pattern and builds an engine with config.
func CompileWithConfig(pattern string, config Config) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	node, err := syntax.ParseString(pattern)
	if err != nil {
		return nil, err
	}
	return CompileNode(pattern, node, config)
}

// CompileNode builds an engine from an already parsed pattern.
func CompileNode(pattern string, node syntax.Node, config Config) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	prog, err := nfa.NewCompiler().Compile(node)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		pattern: pattern,
		nfa:     prog,
		bt:      nfa.NewBacktracker(prog),
		config:  config,
	}
	e.cachePool.New = func() any {
		return e.bt.NewCache()
	}

	ext := literal.New(config.extractorConfig())
	var prefixes *literal.Seq
	if config.EnablePrefilter {
		prefixes = ext.ExtractPrefixes(node)
		e.prefilter = prefilter.NewBuilder(prefixes).Build()
	}
	if config.EnableFirstByte {
		e.firstByte = nfa.ExtractFirstBytes(prog)
	}
	e.strategy = selectStrategy(prog, e.prefilter, e.firstByte, config)

	if e.strategy == UsePrefilter && e.prefilter.IsComplete() && prog.CaptureCount() == 1 {
		e.literalOnly = true
	}

	if config.EnableRequiredLiteral {
		req := ext.ExtractRequired(node)
		// a lone prefix literal equal to req is already searched for
		if prefixes.Len() == 1 && e.strategy == UsePrefilter && bytes.Equal(prefixes.Get(0).Bytes, req) {
			req = nil
		}
		e.required = req
	}
	return e, nil
}

// String returns the source pattern.
func (e *Engine) String() string {
	return e.pattern
}

// Strategy returns the execution strategy selected for this engine.
func (e *Engine) Strategy() Strategy {
	return e.strategy
}

// Prefilter returns the prefilter in use, or nil.
func (e *Engine) Prefilter() prefilter.Prefilter {
	return e.prefilter
}

// RequiredLiteral returns the literal every match contains, or nil.
func (e *Engine) RequiredLiteral() []byte {
	return e.required
}

// NFA returns the compiled automaton.
func (e *Engine) NFA() *nfa.NFA {
	return e.nfa
}

// NumGroups returns the number of capturing groups, excluding group 0.
func (e *Engine) NumGroups() int {
	return e.nfa.CaptureCount() - 1
}

// IsStartAnchored reports whether every match must begin at offset 0.
func (e *Engine) IsStartAnchored() bool {
	return e.nfa.IsAnchored()
}

// Stats returns a snapshot of the execution statistics.
func (e *Engine) Stats() Stats {
	return Stats{
		Searches:               atomic.LoadUint64(&e.stats.Searches),
		PrefilterCandidates:    atomic.LoadUint64(&e.stats.PrefilterCandidates),
		PrefilterExhausted:     atomic.LoadUint64(&e.stats.PrefilterExhausted),
		LiteralMatches:         atomic.LoadUint64(&e.stats.LiteralMatches),
		RequiredLiteralRejects: atomic.LoadUint64(&e.stats.RequiredLiteralRejects),
	}
}

// ResetStats resets execution statistics to zero.
func (e *Engine) ResetStats() {
	atomic.StoreUint64(&e.stats.Searches, 0)
	atomic.StoreUint64(&e.stats.PrefilterCandidates, 0)
	atomic.StoreUint64(&e.stats.PrefilterExhausted, 0)
	atomic.StoreUint64(&e.stats.LiteralMatches, 0)
	atomic.StoreUint64(&e.stats.RequiredLiteralRejects, 0)
}

// Matches reports the leftmost-first match in haystack with every group.
func (e *Engine) Matches(haystack []byte) MatchResult {
	return e.MatchesAt(haystack, 0)
}

// MatchesAt is Matches restricted to matches starting at or after at.
func (e *Engine) MatchesAt(haystack []byte, at int) MatchResult {
	slots, ok := e.search(haystack, at)
	if !ok {
		return noMatch()
	}
	return newMatchResult(slots)
}

// IsMatch reports whether haystack contains any match.
func (e *Engine) IsMatch(haystack []byte) bool {
	_, ok := e.search(haystack, 0)
	return ok
}

// Find returns the leftmost-first match in haystack, or nil.
func (e *Engine) Find(haystack []byte) *Match {
	return e.FindAt(haystack, 0)
}

// FindAt returns the leftmost-first match starting at or after at, or nil.
// Anchors still refer to the whole haystack.
func (e *Engine) FindAt(haystack []byte, at int) *Match {
	slots, ok := e.search(haystack, at)
	if !ok {
		return nil
	}
	return NewMatch(slots[0], slots[1], haystack)
}

// FindAll returns successive non-overlapping matches, at most n of them
// when n >= 0.
//
// After an empty match the search resumes one character later, and an empty
// match directly after the previous match is skipped.
func (e *Engine) FindAll(haystack []byte, n int) []*Match {
	if n == 0 {
		return nil
	}
	var out []*Match
	at, prevEnd := 0, -1
	for at <= len(haystack) {
		m := e.FindAt(haystack, at)
		if m == nil {
			break
		}
		if m.IsEmpty() && m.Start() == prevEnd {
			at = advance(haystack, m.Start())
			continue
		}
		out = append(out, m)
		if n > 0 && len(out) == n {
			break
		}
		prevEnd = m.End()
		if m.IsEmpty() {
			at = advance(haystack, m.End())
		} else {
			at = m.End()
		}
	}
	return out
}

// advance returns the offset one character after pos, or len+1 at the end.
func advance(haystack []byte, pos int) int {
	if pos >= len(haystack) {
		return pos + 1
	}
	_, size := utf8.DecodeRune(haystack[pos:])
	return pos + size
}

// search runs the selected strategy and returns capture slots on success.
func (e *Engine) search(haystack []byte, at int) ([]int, bool) {
	atomic.AddUint64(&e.stats.Searches, 1)
	if at < 0 || at > len(haystack) {
		return nil, false
	}
	if e.required != nil && simd.Memmem(haystack[at:], e.required) < 0 {
		atomic.AddUint64(&e.stats.RequiredLiteralRejects, 1)
		return nil, false
	}

	if e.literalOnly {
		pos := e.prefilter.Find(haystack, at)
		if pos < 0 {
			atomic.AddUint64(&e.stats.PrefilterExhausted, 1)
			return nil, false
		}
		atomic.AddUint64(&e.stats.LiteralMatches, 1)
		return []int{pos, pos + e.prefilter.LiteralLen()}, true
	}

	cache := e.getCache()
	defer e.putCache(cache)

	switch e.strategy {
	case UsePrefilter:
		return e.bt.SearchWith(haystack, at, e.prefilterCandidates, cache)
	case UseFirstByte:
		return e.bt.SearchWith(haystack, at, e.firstByte.Find, cache)
	default:
		return e.bt.SearchFrom(haystack, at, cache)
	}
}

// prefilterCandidates adapts the prefilter to nfa.Candidates and counts
// what it proposes.
func (e *Engine) prefilterCandidates(haystack []byte, at int) int {
	pos := e.prefilter.Find(haystack, at)
	if pos < 0 {
		atomic.AddUint64(&e.stats.PrefilterExhausted, 1)
		return -1
	}
	atomic.AddUint64(&e.stats.PrefilterCandidates, 1)
	return pos
}

func (e *Engine) getCache() *nfa.Cache {
	return e.cachePool.Get().(*nfa.Cache)
}

func (e *Engine) putCache(c *nfa.Cache) {
	e.cachePool.Put(c)
}
