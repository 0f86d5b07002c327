package parser

import (
	"fmt"
	"strings"

	"github.com/sandrolain/gocalc/pkg/types"
)

// Lexer converts a formula into a sequence of tokens.
// The implementation is based on Rob Pike's "Lexical Scanning in Go" technique,
// reading its input through a CharStream.
type Lexer struct {
	input  string
	stream *CharStream
	start  int          // Start offset of current token
	err    *types.Error // First error encountered
}

// NewLexer creates a new lexer from the provided input string.
// The input is tokenized by successive calls to the Next method.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:  input,
		stream: NewCharStream(input),
	}
}

// Next returns the next token from the input.
// When the end of the input is reached, Next returns TokenEOF for all subsequent calls.
// After a failure Next keeps returning TokenError; the cause is available from Error.
func (l *Lexer) Next() Token {
	if l.err != nil {
		return Token{Type: TokenError, Position: l.err.Position}
	}

	l.skipWhitespace()
	l.start = l.stream.Offset()

	ch, ok := l.stream.Peek()
	if !ok {
		return l.eof()
	}

	switch {
	case isDigit(ch) || ch == '.':
		return l.scanNumber()
	case ch == '"' || ch == '\'':
		return l.scanString(ch)
	case ch == '#':
		return l.scanDelimited('#', TokenDate, types.ErrUnterminatedDate, "unterminated date literal")
	case ch == '[':
		return l.scanDelimited(']', TokenParameter, types.ErrUnterminatedParameter, "unterminated parameter")
	case ch == '{':
		return l.scanDelimited('}', TokenParameter, types.ErrUnterminatedParameter, "unterminated parameter")
	case isLetter(ch):
		return l.scanIdentifier()
	}

	l.stream.Next()

	// Check for two-character symbols first (e.g., !=, <=, **)
	if rts := lookupSymbol2(ch); rts != nil {
		for _, rt := range rts {
			if l.acceptRune(rt.r) {
				return l.newToken(rt.tt)
			}
		}
	}

	// Check for single-character symbols
	if tt := lookupSymbol1(ch); tt > 0 {
		return l.newToken(tt)
	}

	return l.error(types.ErrUnrecognizedCharacter, fmt.Sprintf("unrecognized character %q", ch))
}

// Error returns the first error encountered during lexing, if any.
func (l *Lexer) Error() error {
	if l.err == nil {
		return nil
	}
	return l.err
}

// Tokens reads the whole input. It stops at the first error.
func (l *Lexer) Tokens() ([]Token, error) {
	var tokens []Token
	for {
		t := l.Next()
		switch t.Type {
		case TokenEOF:
			return tokens, nil
		case TokenError:
			return tokens, l.Error()
		}
		tokens = append(tokens, t)
	}
}

// scanNumber reads a number literal from the current position.
// The text is kept verbatim; conversion is left to the literal factory.
// Format: [0-9]*(\.[0-9]*)?([eE][+-]?[0-9]*)?
func (l *Lexer) scanNumber() Token {
	l.acceptAll(isDigit)

	// Decimal part
	if l.acceptRune('.') {
		l.acceptAll(isDigit)
	}

	// Exponent part
	if l.acceptRunes2('e', 'E') {
		l.acceptRunes2('+', '-')
		l.acceptAll(isDigit)
	}

	return l.newToken(TokenNumber)
}

// scanString reads a string literal delimited by quote and decodes its escapes.
func (l *Lexer) scanString(quote rune) Token {
	l.stream.Next()

	var sb strings.Builder
	for {
		r, ok := l.stream.Next()
		if !ok {
			return l.error(types.ErrUnterminatedString, "unterminated string literal")
		}
		if r == quote {
			break
		}
		if r != '\\' {
			sb.WriteRune(r)
			continue
		}

		esc, ok := l.stream.Next()
		if !ok {
			return l.error(types.ErrUnterminatedString, "unterminated string literal")
		}
		switch esc {
		case '\\':
			sb.WriteRune('\\')
		case 'n':
			sb.WriteRune('\n')
		case 't':
			sb.WriteRune('\t')
		case 'r':
			sb.WriteRune('\r')
		case quote:
			sb.WriteRune(quote)
		default:
			return l.error(types.ErrInvalidEscape, fmt.Sprintf("invalid escape sequence \\%c", esc))
		}
	}

	t := l.newToken(TokenString)
	t.Value = sb.String()
	return t
}

// scanDelimited reads raw text up to the closing delimiter (dates and parameters).
// No escaping is applied.
func (l *Lexer) scanDelimited(closing rune, tt TokenType, code types.ErrorCode, message string) Token {
	l.stream.Next()
	from := l.stream.Offset()

	for {
		r, ok := l.stream.Next()
		if !ok {
			return l.error(code, message)
		}
		if r == closing {
			break
		}
	}

	text := l.stream.slice(from, l.stream.Offset()-1)
	t := l.newToken(tt)
	t.Value = text
	return t
}

// scanIdentifier reads an identifier and folds the keywords
// true, false, not, in, and, or (case-insensitive).
func (l *Lexer) scanIdentifier() Token {
	l.acceptAll(isLetterOrDigit)
	t := l.newToken(TokenIdentifier)

	lower := strings.ToLower(t.Value)
	if tt := lookupKeyword(lower); tt > 0 {
		t.Type = tt
		t.Value = lower
	}
	return t
}

// Helper methods

func (l *Lexer) eof() Token {
	return Token{
		Type:     TokenEOF,
		Position: l.stream.Offset(),
	}
}

func (l *Lexer) error(code types.ErrorCode, message string) Token {
	t := l.newToken(TokenError)
	l.err = &types.Error{
		Code:     code,
		Message:  message,
		Position: t.Position,
		Token:    t.Value,
	}
	return t
}

func (l *Lexer) newToken(tt TokenType) Token {
	t := Token{
		Type:     tt,
		Value:    l.stream.slice(l.start, l.stream.Offset()),
		Position: l.start,
	}
	l.start = l.stream.Offset()
	return t
}

func (l *Lexer) acceptRune(r rune) bool {
	return l.accept(func(c rune) bool {
		return c == r
	})
}

func (l *Lexer) acceptRunes2(r1, r2 rune) bool {
	return l.accept(func(c rune) bool {
		return c == r1 || c == r2
	})
}

func (l *Lexer) accept(isValid func(rune) bool) bool {
	r, ok := l.stream.Peek()
	if !ok || !isValid(r) {
		return false
	}
	l.stream.Next()
	return true
}

func (l *Lexer) acceptAll(isValid func(rune) bool) bool {
	var matched bool
	for l.accept(isValid) {
		matched = true
	}
	return matched
}

func (l *Lexer) skipWhitespace() {
	l.acceptAll(isWhitespace)
}

// Character classification functions

func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isLetterOrDigit(r rune) bool {
	return isLetter(r) || isDigit(r)
}
