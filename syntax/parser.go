package syntax

// Parse builds a pattern tree from tokens.
//
// Precedence, loosest first: alternation, concatenation, repetition.
// Capturing groups are numbered from 1 in order of their opening
// parenthesis. An empty token list parses to *Empty; any other empty
// branch is ErrUnexpectedToken.
//
// Errors carry the text of the offending token in Expr. ParseString
// replaces it with the rest of the source pattern.
func Parse(tokens []Token) (Node, error) {
	if len(tokens) == 0 {
		return &Empty{}, nil
	}
	p := parser{tokens: tokens}
	n, err := p.alternation()
	if err != nil {
		return nil, err
	}
	if t, ok := p.peek(); ok {
		// only an unopened ')' can stop the top-level alternation
		return nil, p.errorf(ErrUnmatchedParen, t)
	}
	return n, nil
}

// ParseString tokenizes and parses pattern.
func ParseString(pattern string) (Node, error) {
	tokens, err := Tokenize(pattern)
	if err != nil {
		return nil, err
	}
	n, err := Parse(tokens)
	if err != nil {
		if e, ok := err.(*Error); ok && e.Pos <= len(pattern) {
			e.Expr = pattern[e.Pos:]
		}
		return nil, err
	}
	return n, nil
}

type parser struct {
	tokens []Token
	pos    int
	groups int     // capturing groups opened so far
	open   []Token // unclosed group openers, innermost last
}

func (p *parser) peek() (Token, bool) {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos], true
	}
	return Token{}, false
}

func (p *parser) errorf(code ErrorCode, t Token) error {
	return &Error{Code: code, Expr: t.String(), Pos: t.Pos}
}

func (p *parser) alternation() (Node, error) {
	first, err := p.concat()
	if err != nil {
		return nil, err
	}
	subs := []Node{first}
	for {
		t, ok := p.peek()
		if !ok || t.Kind != TokenAlternation {
			break
		}
		p.pos++
		sub, err := p.concat()
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	if len(subs) == 1 {
		return first, nil
	}
	return &Alternate{Subs: subs}, nil
}

func (p *parser) concat() (Node, error) {
	var subs []Node
	for {
		t, ok := p.peek()
		if !ok || t.Kind == TokenAlternation || t.Kind == TokenGroupClose {
			break
		}
		sub, err := p.repeated()
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}

	switch len(subs) {
	case 0:
		return nil, p.emptyBranch()
	case 1:
		return subs[0], nil
	}
	return &Concat{Subs: subs}, nil
}

// emptyBranch reports a branch with no atoms at the current position.
func (p *parser) emptyBranch() error {
	if t, ok := p.peek(); ok {
		if t.Kind == TokenGroupClose && len(p.open) == 0 {
			return p.errorf(ErrUnmatchedParen, t)
		}
		return p.errorf(ErrUnexpectedToken, t)
	}
	if len(p.open) > 0 {
		return p.errorf(ErrUnmatchedParen, p.open[len(p.open)-1])
	}
	// trailing '|'
	return p.errorf(ErrUnexpectedToken, p.tokens[len(p.tokens)-1])
}

func (p *parser) repeated() (Node, error) {
	atom, err := p.atom()
	if err != nil {
		return nil, err
	}
	t, ok := p.peek()
	if !ok || t.Kind != TokenQuantifier {
		return atom, nil
	}
	p.pos++
	if next, ok := p.peek(); ok && next.Kind == TokenQuantifier {
		return nil, p.errorf(ErrUnexpectedToken, next)
	}
	minRep, maxRep := t.Quant.Bounds()
	return &Repeat{Body: atom, Min: minRep, Max: maxRep}, nil
}

func (p *parser) atom() (Node, error) {
	t := p.tokens[p.pos]
	p.pos++

	switch t.Kind {
	case TokenLiteral:
		return &Literal{Rune: t.Rune}, nil
	case TokenAnyChar:
		return &AnyChar{}, nil
	case TokenClass:
		return &CharClass{Set: t.Set, Negated: t.Negated}, nil
	case TokenDigit:
		return &CharClass{Set: DigitSet(), Negated: t.Negated}, nil
	case TokenWord:
		return &CharClass{Set: WordSet(), Negated: t.Negated}, nil
	case TokenAnchorStart:
		return &Anchor{Kind: AnchorStart}, nil
	case TokenAnchorEnd:
		return &Anchor{Kind: AnchorEnd}, nil
	case TokenBackref:
		if t.Index < 1 || t.Index > p.groups {
			return nil, p.errorf(ErrInvalidBackreference, t)
		}
		return &Backref{Index: t.Index}, nil
	case TokenGroupOpen:
		return p.group(t)
	}
	// quantifier with nothing to repeat
	return nil, p.errorf(ErrUnexpectedToken, t)
}

func (p *parser) group(open Token) (Node, error) {
	index := 0
	if open.Capturing {
		p.groups++
		index = p.groups
	}
	p.open = append(p.open, open)

	body, err := p.alternation()
	if err != nil {
		return nil, err
	}
	t, ok := p.peek()
	if !ok || t.Kind != TokenGroupClose {
		return nil, p.errorf(ErrUnmatchedParen, open)
	}
	p.pos++
	p.open = p.open[:len(p.open)-1]
	return &Group{Index: index, Body: body}, nil
}
