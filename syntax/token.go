package syntax

import "strconv"

// TokenKind identifies the type of a pattern token.
type TokenKind uint8

const (
	TokenLiteral     TokenKind = iota // any ordinary or escaped character
	TokenAnyChar                      // .
	TokenClass                        // [...] or \s \S
	TokenDigit                        // \d \D
	TokenWord                         // \w \W
	TokenAnchorStart                  // ^
	TokenAnchorEnd                    // $
	TokenGroupOpen                    // ( or (?:
	TokenGroupClose                   // )
	TokenAlternation                  // |
	TokenQuantifier                   // ? + *
	TokenBackref                      // \1 ... \N
)

var tokenKindNames = [...]string{
	TokenLiteral:     "Literal",
	TokenAnyChar:     "AnyChar",
	TokenClass:       "Class",
	TokenDigit:       "Digit",
	TokenWord:        "Word",
	TokenAnchorStart: "AnchorStart",
	TokenAnchorEnd:   "AnchorEnd",
	TokenGroupOpen:   "GroupOpen",
	TokenGroupClose:  "GroupClose",
	TokenAlternation: "Alternation",
	TokenQuantifier:  "Quantifier",
	TokenBackref:     "Backref",
}

func (k TokenKind) String() string {
	if int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return "TokenKind(" + strconv.Itoa(int(k)) + ")"
}

// Quantifier is a repetition marker. QuantOne is the absence of one.
type Quantifier uint8

const (
	QuantOne Quantifier = iota
	QuantZeroOrOne
	QuantOneOrMore
	QuantZeroOrMore
)

// Bounds returns the repetition range of q. Max is Unbounded for + and *.
func (q Quantifier) Bounds() (minRep, maxRep int) {
	switch q {
	case QuantZeroOrOne:
		return 0, 1
	case QuantOneOrMore:
		return 1, Unbounded
	case QuantZeroOrMore:
		return 0, Unbounded
	default:
		return 1, 1
	}
}

func (q Quantifier) String() string {
	switch q {
	case QuantZeroOrOne:
		return "?"
	case QuantOneOrMore:
		return "+"
	case QuantZeroOrMore:
		return "*"
	default:
		return ""
	}
}

// Token is one lexical element of a pattern. Only the fields relevant to
// Kind are set.
type Token struct {
	Kind      TokenKind
	Pos       int        // byte offset in the pattern
	Rune      rune       // TokenLiteral
	Set       CharSet    // TokenClass
	Negated   bool       // TokenClass, TokenDigit, TokenWord
	Capturing bool       // TokenGroupOpen
	Quant     Quantifier // TokenQuantifier
	Index     int        // TokenBackref
}

// String renders the token as pattern text.
func (t Token) String() string {
	switch t.Kind {
	case TokenLiteral:
		return (&Literal{Rune: t.Rune}).String()
	case TokenAnyChar:
		return "."
	case TokenClass:
		return (&CharClass{Set: t.Set, Negated: t.Negated}).String()
	case TokenDigit:
		if t.Negated {
			return `\D`
		}
		return `\d`
	case TokenWord:
		if t.Negated {
			return `\W`
		}
		return `\w`
	case TokenAnchorStart:
		return "^"
	case TokenAnchorEnd:
		return "$"
	case TokenGroupOpen:
		if t.Capturing {
			return "("
		}
		return "(?:"
	case TokenGroupClose:
		return ")"
	case TokenAlternation:
		return "|"
	case TokenQuantifier:
		return t.Quant.String()
	case TokenBackref:
		return `\` + strconv.Itoa(t.Index)
	}
	return t.Kind.String()
}
