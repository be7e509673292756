package minilang

import "errors"

// Classes of ParseError. Use errors.Is to check the class of an error.
var (
	// ErrUnexpectedToken is the class of a token which cannot appear where it
	// was found.
	ErrUnexpectedToken = errors.New("unexpected token")
	// ErrUnclosedParen is the class of an input ending while an opening
	// parenthesis or function call is still open.
	ErrUnclosedParen = errors.New("unclosed opening parenthesis")
	// ErrUnmatchedParen is the class of a closing parenthesis with no
	// opening parenthesis.
	ErrUnmatchedParen = errors.New("unmatched closing parenthesis")
	// ErrOperatorAtEnd is the class of an input ending where an operand of a
	// prefix or infix operator was expected.
	ErrOperatorAtEnd = errors.New("operator at end of input")
	// ErrSeparator is the class of a comma outside a function call.
	ErrSeparator = errors.New("separator outside of a function call")
	// ErrEmpty is the class of an input with no expression.
	ErrEmpty = errors.New("empty expression")
)

// ParseError is an error resulting from malformed input. It implements
// InputError.
type ParseError struct {
	// Msg describes the offending token and what was expected instead.
	Msg string
	// Kind and Text are the kind and lexeme of the offending token.
	Kind TokenKind
	Text string
	// Loc is the location of the offending token.
	Loc Location
	// Err is the class of the error.
	Err error
}

func (err *ParseError) Error() string {
	return err.Loc.String() + ": " + err.Msg
}

func (err *ParseError) Unwrap() error {
	return err.Err
}

func (err *ParseError) Pos() Location {
	return err.Loc
}

// unexpected creates an error for a token that is not in the expected set.
func unexpected(tok Token, want string) *ParseError {
	return misplaced(tok, ErrUnexpectedToken, want)
}

// misplaced is like unexpected with a specific error class.
func misplaced(tok Token, class error, want string) *ParseError {
	return errorAt(tok, class, "unexpected "+tok.describe()+" token; expected "+want)
}

// unclosed creates an error for an input ending at tok while the bracket
// opened by open is still open.
func unclosed(tok, open Token, want string) *ParseError {
	msg := "unexpected " + tok.describe() + " token; expected " + want + " (unclosed '" + open.Text + "' at " + open.Loc.String() + ")"
	return errorAt(tok, ErrUnclosedParen, msg)
}

func errorAt(tok Token, class error, msg string) *ParseError {
	return &ParseError{
		Msg:  msg,
		Kind: tok.Kind,
		Text: tok.Text,
		Loc:  tok.Loc,
		Err:  class,
	}
}

// InternalError indicates that a parser violated its own invariants. It is
// never the result of any input, well-formed or not, and does not implement
// InputError.
type InternalError struct {
	Msg string
}

func (err *InternalError) Error() string {
	return "minilang: internal error: " + err.Msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the location of the token that caused the error.
	Pos() Location
}

var _ InputError = (*ParseError)(nil)
