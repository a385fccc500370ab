package syntax

// ErrorCode describes a failure to parse a pattern.
type ErrorCode string

// Pattern errors. All of them are detected before any input is scanned.
const (
	ErrUnterminatedClass    ErrorCode = "missing closing ]"
	ErrDanglingEscape       ErrorCode = "trailing backslash at end of expression"
	ErrUnexpectedToken      ErrorCode = "unexpected token"
	ErrUnmatchedParen       ErrorCode = "unmatched parenthesis"
	ErrInvalidBackreference ErrorCode = "invalid backreference"
)

func (e ErrorCode) String() string {
	return string(e)
}

// Error describes a malformed pattern and where the problem starts.
type Error struct {
	Code ErrorCode
	Expr string // offending part of the pattern
	Pos  int    // byte offset of the offending token
}

func (e *Error) Error() string {
	return "error parsing regexp: " + e.Code.String() + ": `" + e.Expr + "`"
}
