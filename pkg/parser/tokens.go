package parser

import "github.com/sandrolain/gocalc/pkg/types"

// TokenType represents the type of a lexical token.
type TokenType uint8

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenError

	// Literals
	TokenNumber  // 123, 3.14, .5, 1e-10
	TokenString  // "hello" or 'hello'
	TokenDate    // #2024-06-15#
	TokenBoolean // true, FALSE

	// Names
	TokenIdentifier // Name
	TokenParameter  // [name] or {name}

	// Grouping symbols
	TokenParenOpen  // (
	TokenParenClose // )
	TokenSeparator  // , or ;
	TokenColon      // :
	TokenCondition  // ?

	// Arithmetic operators
	TokenPlus  // +
	TokenMinus // -
	TokenMult  // *
	TokenDiv   // /
	TokenMod   // %
	TokenPower // **

	// Comparison operators
	TokenEqual        // == or =
	TokenNotEqual     // != or <>
	TokenLess         // <
	TokenLessEqual    // <=
	TokenGreater      // >
	TokenGreaterEqual // >=

	// Logical operators
	TokenAnd // && or and
	TokenOr  // || or or
	TokenNot // ! or not
	TokenIn  // in

	// Bitwise operators
	TokenBitAnd     // &
	TokenBitOr      // |
	TokenBitXor     // ^
	TokenBitNot     // ~
	TokenShiftLeft  // <<
	TokenShiftRight // >>
)

// String returns a string representation of the token type.
func (tt TokenType) String() string {
	switch tt {
	case TokenEOF:
		return "end of input"
	case TokenError:
		return "(error)"
	case TokenNumber:
		return "(number)"
	case TokenString:
		return "(string)"
	case TokenDate:
		return "(date)"
	case TokenBoolean:
		return "(boolean)"
	case TokenIdentifier:
		return "(identifier)"
	case TokenParameter:
		return "(parameter)"
	case TokenParenOpen:
		return "("
	case TokenParenClose:
		return ")"
	case TokenSeparator:
		return ","
	case TokenColon:
		return ":"
	case TokenCondition:
		return "?"
	case TokenPlus:
		return "+"
	case TokenMinus:
		return "-"
	case TokenMult:
		return "*"
	case TokenDiv:
		return "/"
	case TokenMod:
		return "%"
	case TokenPower:
		return "**"
	case TokenEqual:
		return "=="
	case TokenNotEqual:
		return "!="
	case TokenLess:
		return "<"
	case TokenLessEqual:
		return "<="
	case TokenGreater:
		return ">"
	case TokenGreaterEqual:
		return ">="
	case TokenAnd:
		return "&&"
	case TokenOr:
		return "||"
	case TokenNot:
		return "not"
	case TokenIn:
		return "in"
	case TokenBitAnd:
		return "&"
	case TokenBitOr:
		return "|"
	case TokenBitXor:
		return "^"
	case TokenBitNot:
		return "~"
	case TokenShiftLeft:
		return "<<"
	case TokenShiftRight:
		return ">>"
	default:
		return "(unknown)"
	}
}

// IsLiteral reports whether the token carries literal text for the literal factory.
func (tt TokenType) IsLiteral() bool {
	return tt >= TokenNumber && tt <= TokenBoolean
}

// IsOperator reports whether the token is an operator symbol or keyword.
func (tt TokenType) IsOperator() bool {
	return tt >= TokenCondition
}

// LiteralKind maps a literal token type to its literal kind.
func (tt TokenType) LiteralKind() types.LiteralKind {
	switch tt {
	case TokenNumber:
		return types.LiteralNumber
	case TokenString:
		return types.LiteralString
	case TokenDate:
		return types.LiteralDate
	case TokenBoolean:
		return types.LiteralBoolean
	default:
		return 0
	}
}

// Token represents a lexical token in a formula.
//
// Value holds the literal text (decoded, for strings), the identifier or
// parameter name, or the operator symbol as written.
type Token struct {
	Type     TokenType // Type of the token
	Value    string    // Text of the token
	Position int       // Starting byte offset in the input string
}

// symbols1 maps single-character symbols to token types.
var symbols1 = [...]TokenType{
	'(': TokenParenOpen,
	')': TokenParenClose,
	',': TokenSeparator,
	';': TokenSeparator,
	':': TokenColon,
	'?': TokenCondition,
	'+': TokenPlus,
	'-': TokenMinus,
	'*': TokenMult,
	'/': TokenDiv,
	'%': TokenMod,
	'=': TokenEqual,
	'!': TokenNot,
	'<': TokenLess,
	'>': TokenGreater,
	'&': TokenBitAnd,
	'|': TokenBitOr,
	'^': TokenBitXor,
	'~': TokenBitNot,
}

// runeTokenType pairs a rune with its corresponding token type.
type runeTokenType struct {
	r  rune
	tt TokenType
}

// symbols2 maps two-character symbol sequences to token types.
// The key is the first character of the sequence.
var symbols2 = [...][]runeTokenType{
	'>': {{'=', TokenGreaterEqual}, {'>', TokenShiftRight}},
	'<': {{'=', TokenLessEqual}, {'<', TokenShiftLeft}, {'>', TokenNotEqual}},
	'=': {{'=', TokenEqual}},
	'!': {{'=', TokenNotEqual}},
	'&': {{'&', TokenAnd}},
	'|': {{'|', TokenOr}},
	'*': {{'*', TokenPower}},
}

const (
	symbol1Count = rune(len(symbols1))
	symbol2Count = rune(len(symbols2))
)

// lookupSymbol1 returns the token type for a single-character symbol.
// Returns 0 if the rune is not a valid symbol.
func lookupSymbol1(r rune) TokenType {
	if r < 0 || r >= symbol1Count {
		return 0
	}
	return symbols1[r]
}

// lookupSymbol2 returns possible two-character symbol completions.
// Returns nil if the rune cannot start a two-character symbol.
func lookupSymbol2(r rune) []runeTokenType {
	if r < 0 || r >= symbol2Count {
		return nil
	}
	return symbols2[r]
}

// lookupKeyword returns the token type for an already lower-cased keyword.
// Returns 0 if the string is not a recognized keyword.
func lookupKeyword(s string) TokenType {
	switch s {
	case "and":
		return TokenAnd
	case "or":
		return TokenOr
	case "not":
		return TokenNot
	case "in":
		return TokenIn
	case "true", "false":
		return TokenBoolean
	default:
		return 0
	}
}
