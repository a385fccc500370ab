package syntax

import "unicode/utf8"

// maxBackref bounds backreference numbers so that absurd values cannot
// overflow while being accumulated.
const maxBackref = 1 << 16

// Tokenize splits pattern into tokens.
//
// Character classes are resolved here and produced as a single TokenClass.
// Tokenize reports ErrUnterminatedClass, ErrDanglingEscape,
// ErrInvalidBackreference (for \0) and ErrUnexpectedToken (reversed class
// range, unsupported group flag). Structural errors are left to Parse.
func Tokenize(pattern string) ([]Token, error) {
	l := lexer{src: pattern}
	return l.run()
}

type lexer struct {
	src    string
	pos    int
	tokens []Token
}

func (l *lexer) errorf(code ErrorCode, pos int) error {
	return &Error{Code: code, Expr: l.src[pos:], Pos: pos}
}

func (l *lexer) next() (rune, int) {
	r, size := utf8.DecodeRuneInString(l.src[l.pos:])
	l.pos += size
	return r, size
}

func (l *lexer) emit(t Token) {
	l.tokens = append(l.tokens, t)
}

func (l *lexer) run() ([]Token, error) {
	for l.pos < len(l.src) {
		start := l.pos
		r, _ := l.next()
		switch r {
		case '.':
			l.emit(Token{Kind: TokenAnyChar, Pos: start})
		case '^':
			l.emit(Token{Kind: TokenAnchorStart, Pos: start})
		case '$':
			l.emit(Token{Kind: TokenAnchorEnd, Pos: start})
		case '|':
			l.emit(Token{Kind: TokenAlternation, Pos: start})
		case ')':
			l.emit(Token{Kind: TokenGroupClose, Pos: start})
		case '?':
			l.emit(Token{Kind: TokenQuantifier, Pos: start, Quant: QuantZeroOrOne})
		case '+':
			l.emit(Token{Kind: TokenQuantifier, Pos: start, Quant: QuantOneOrMore})
		case '*':
			l.emit(Token{Kind: TokenQuantifier, Pos: start, Quant: QuantZeroOrMore})
		case '(':
			if err := l.groupOpen(start); err != nil {
				return nil, err
			}
		case '[':
			if err := l.class(start); err != nil {
				return nil, err
			}
		case '\\':
			if err := l.escape(start); err != nil {
				return nil, err
			}
		default:
			l.emit(Token{Kind: TokenLiteral, Pos: start, Rune: r})
		}
	}
	return l.tokens, nil
}

func (l *lexer) groupOpen(start int) error {
	rest := l.src[l.pos:]
	if len(rest) == 0 || rest[0] != '?' {
		l.emit(Token{Kind: TokenGroupOpen, Pos: start, Capturing: true})
		return nil
	}
	if len(rest) >= 2 && rest[1] == ':' {
		l.pos += 2
		l.emit(Token{Kind: TokenGroupOpen, Pos: start})
		return nil
	}
	// flags, lookaround and named groups are not supported
	return l.errorf(ErrUnexpectedToken, start)
}

func (l *lexer) escape(start int) error {
	if l.pos >= len(l.src) {
		return l.errorf(ErrDanglingEscape, start)
	}
	r, _ := l.next()
	switch r {
	case 'd', 'D':
		l.emit(Token{Kind: TokenDigit, Pos: start, Negated: r == 'D'})
	case 'w', 'W':
		l.emit(Token{Kind: TokenWord, Pos: start, Negated: r == 'W'})
	case 's', 'S':
		l.emit(Token{Kind: TokenClass, Pos: start, Set: SpaceSet(), Negated: r == 'S'})
	case 't':
		l.emit(Token{Kind: TokenLiteral, Pos: start, Rune: '\t'})
	case '0':
		return l.errorf(ErrInvalidBackreference, start)
	case '1', '2', '3', '4', '5', '6', '7', '8', '9':
		n := int(r - '0')
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			n = n*10 + int(l.src[l.pos]-'0')
			l.pos++
			if n > maxBackref {
				return l.errorf(ErrInvalidBackreference, start)
			}
		}
		l.emit(Token{Kind: TokenBackref, Pos: start, Index: n})
	default:
		l.emit(Token{Kind: TokenLiteral, Pos: start, Rune: r})
	}
	return nil
}

// class consumes a bracket expression. l.pos is just past the '['.
func (l *lexer) class(start int) error {
	negated := false
	if l.pos < len(l.src) && l.src[l.pos] == '^' {
		negated = true
		l.pos++
	}

	var ranges []RuneRange
	first := true
	for {
		if l.pos >= len(l.src) {
			return l.errorf(ErrUnterminatedClass, start)
		}
		itemPos := l.pos
		r, _ := l.next()
		if r == ']' && !first {
			break
		}
		first = false

		var lo rune
		if r == '\\' {
			set, c, err := l.classEscape(itemPos)
			if err != nil {
				return err
			}
			if set != nil {
				ranges = append(ranges, set.ranges...)
				continue
			}
			lo = c
		} else {
			lo = r
		}

		// a '-' followed by ']' or at the very end is literal
		if l.pos+1 < len(l.src) && l.src[l.pos] == '-' && l.src[l.pos+1] != ']' {
			l.pos++
			hiPos := l.pos
			hr, _ := l.next()
			hi := hr
			if hr == '\\' {
				set, c, err := l.classEscape(hiPos)
				if err != nil {
					return err
				}
				if set != nil {
					// [a-\d] has no meaning
					return l.errorf(ErrUnexpectedToken, hiPos)
				}
				hi = c
			}
			if hi < lo {
				return l.errorf(ErrUnexpectedToken, itemPos)
			}
			ranges = append(ranges, RuneRange{lo, hi})
			continue
		}
		ranges = append(ranges, RuneRange{lo, lo})
	}

	l.emit(Token{Kind: TokenClass, Pos: start, Set: NewCharSet(ranges...), Negated: negated})
	return nil
}

// classEscape decodes an escape inside a bracket expression. It returns
// either a set (for \d, \w, \s and their negations) or a single rune.
func (l *lexer) classEscape(pos int) (*CharSet, rune, error) {
	if l.pos >= len(l.src) {
		return nil, 0, l.errorf(ErrDanglingEscape, pos)
	}
	r, _ := l.next()
	var set CharSet
	switch r {
	case 'd':
		set = DigitSet()
	case 'D':
		set = DigitSet().Complement()
	case 'w':
		set = WordSet()
	case 'W':
		set = WordSet().Complement()
	case 's':
		set = SpaceSet()
	case 'S':
		set = SpaceSet().Complement()
	case 't':
		return nil, '\t', nil
	default:
		return nil, r, nil
	}
	return &set, 0, nil
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
