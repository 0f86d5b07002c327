package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode identifies a gocalc error.
type ErrorCode string

// Error codes. The leading letter selects the category.
const (
	// L0xxx: Lexer errors
	ErrUnrecognizedCharacter ErrorCode = "L0101"
	ErrUnterminatedString    ErrorCode = "L0102"
	ErrInvalidEscape         ErrorCode = "L0103"
	ErrUnterminatedDate      ErrorCode = "L0104"
	ErrUnterminatedParameter ErrorCode = "L0105"

	// P0xxx: Parser errors
	ErrUnexpectedToken  ErrorCode = "P0201"
	ErrParseDepthExceed ErrorCode = "P0202"

	// V0xxx: Literal errors
	ErrInvalidBoolean ErrorCode = "V0301"
	ErrInvalidDate    ErrorCode = "V0302"

	// E0xxx: Evaluation errors
	ErrUndefinedParameter ErrorCode = "E0401"
	ErrUnknownFunction    ErrorCode = "E0402"
	ErrArityMismatch      ErrorCode = "E0403"
	ErrTypeMismatch       ErrorCode = "E0404"
	ErrEvalDepthExceed    ErrorCode = "E0405"

	// C0xxx: Calculator errors
	ErrUnsupported ErrorCode = "C0501"
)

// ErrorCategory is the failure family an ErrorCode belongs to.
type ErrorCategory string

const (
	CategoryLex        ErrorCategory = "lex"
	CategoryParse      ErrorCategory = "parse"
	CategoryLiteral    ErrorCategory = "literal"
	CategoryEval       ErrorCategory = "eval"
	CategoryCalculator ErrorCategory = "calculator"
	CategoryUnknown    ErrorCategory = "unknown"
)

// Category returns the family of the code.
func (c ErrorCode) Category() ErrorCategory {
	if c == "" {
		return CategoryUnknown
	}
	switch c[0] {
	case 'L':
		return CategoryLex
	case 'P':
		return CategoryParse
	case 'V':
		return CategoryLiteral
	case 'E':
		return CategoryEval
	case 'C':
		return CategoryCalculator
	default:
		return CategoryUnknown
	}
}

// Error represents a structured gocalc error.
//
// Position is a byte offset into the source text, or -1 when the error is
// not tied to a location (most evaluation errors).
type Error struct {
	Code     ErrorCode
	Message  string
	Position int
	Token    string   // offending token or literal text
	Expected string   // what the parser wanted instead of Token
	Name     string   // parameter or function name
	Operator Operator // operator a calculator rejected
	Operands []string // operand type names a calculator rejected
	Err      error
}

// NewError creates a new error.
func NewError(code ErrorCode, message string, position int) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Position: position,
	}
}

// Unsupported reports that a calculator cannot apply op to the given operand values.
func Unsupported(op Operator, operands ...interface{}) *Error {
	names := make([]string, len(operands))
	for i, v := range operands {
		names[i] = TypeName(v)
	}
	return &Error{
		Code:     ErrUnsupported,
		Message:  fmt.Sprintf("operator %s is not supported for (%s)", op, strings.Join(names, ", ")),
		Position: -1,
		Operator: op,
		Operands: names,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Position >= 0 {
		return fmt.Sprintf("%s at position %d: %s", e.Code, e.Position, msg)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Category returns the family of the error.
func (e *Error) Category() ErrorCategory {
	return e.Code.Category()
}

// WithToken adds token information to the error.
func (e *Error) WithToken(token string) *Error {
	e.Token = token
	return e
}

// WithName records the parameter or function name involved.
func (e *Error) WithName(name string) *Error {
	e.Name = name
	return e
}

// WithPosition sets the source offset of the error.
func (e *Error) WithPosition(pos int) *Error {
	e.Position = pos
	return e
}

// WithCause wraps another error.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}
