package calc

import "strconv"

// TokenError is an error indicating a token that cannot appear where the
// parser found it. It implements SyntaxError.
type TokenError struct {
	// Line and Col give the position of the token.
	Line, Col int
	// Text is the unexpected token. It is empty at the end of input.
	Text string
	// Want describes what the parser expected instead.
	Want string
}

func (err *TokenError) Error() string {
	s := "unexpected end of input"
	if err.Text != "" {
		s = "unexpected " + strconv.Quote(err.Text)
	}
	if err.Want != "" {
		s += ", want " + err.Want
	}
	return errpos(err.Line, err.Col, s)
}

func (err *TokenError) Pos() (line, col int) {
	return err.Line, err.Col
}

// BracketError is an error indicating mismatched parentheses in the input. It
// implements SyntaxError.
type BracketError struct {
	// Line and Col give the position of the offending token.
	Line, Col int
	// Left is the opening bracket, or empty if there is none.
	Left string
	// Right is the closing bracket, or empty if there is none.
	Right string
}

func (err *BracketError) Error() string {
	if err.Left == "" {
		return errpos(err.Line, err.Col, "close bracket "+err.Right+" with no open bracket")
	}
	if err.Right == "" {
		return errpos(err.Line, err.Col, "open bracket "+err.Left+" with no close bracket")
	}
	return errpos(err.Line, err.Col, "mismatched bracket: "+err.Left+"expr"+err.Right)
}

func (err *BracketError) Pos() (line, col int) {
	return err.Line, err.Col
}

// SeparatorError is an error indicating a comma outside of a function
// argument list. It implements SyntaxError.
type SeparatorError struct {
	// Line and Col give the position of the separator.
	Line, Col int
	// Sep is the separator.
	Sep string
}

func (err *SeparatorError) Error() string {
	return errpos(err.Line, err.Col, "invalid occurrence of separator "+strconv.Quote(err.Sep))
}

func (err *SeparatorError) Pos() (line, col int) {
	return err.Line, err.Col
}

// EmptyExpressionError is an error indicating an empty subexpression, such as
// "()", "f()", or an operator with no right operand.
type EmptyExpressionError struct {
	// Line and Col give the position of the token that ended the
	// subexpression.
	Line, Col int
	// End is the token that ended the subexpression.
	End string
}

func (err *EmptyExpressionError) Error() string {
	if err.End == "" {
		return errpos(err.Line, err.Col, "no expression at end")
	}
	return errpos(err.Line, err.Col, "no expression up to "+strconv.Quote(err.End))
}

func (err *EmptyExpressionError) Pos() (line, col int) {
	return err.Line, err.Col
}

// ComparisonError is an error indicating a chained comparison like a < b < c.
// Comparisons produce booleans and do not chain. It implements SyntaxError.
type ComparisonError struct {
	// Line and Col give the position of the second comparison operator.
	Line, Col int
	// Op is the second comparison operator.
	Op string
}

func (err *ComparisonError) Error() string {
	return errpos(err.Line, err.Col, "comparisons do not chain: unexpected "+strconv.Quote(err.Op))
}

func (err *ComparisonError) Pos() (line, col int) {
	return err.Line, err.Col
}

// errpos is a shortcut to create an error message with a position.
func errpos(line, col int, msg string) string {
	return strconv.Itoa(line) + ":" + strconv.Itoa(col) + ": " + msg
}

// SyntaxError is an error with position information. Every error resulting
// from input that does not lex or parse implements SyntaxError.
type SyntaxError interface {
	error
	// Pos returns the 1-based line and column of the start of the token that
	// caused the error.
	Pos() (line, col int)
}

var (
	_ SyntaxError = (*TokenError)(nil)
	_ SyntaxError = (*BracketError)(nil)
	_ SyntaxError = (*SeparatorError)(nil)
	_ SyntaxError = (*EmptyExpressionError)(nil)
	_ SyntaxError = (*ComparisonError)(nil)
	_ SyntaxError = (*LexError)(nil)
)
