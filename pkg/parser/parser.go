// Package parser implements the gocalc formula parser.
//
// The parser is a hand-written recursive descent parser with operator
// precedence climbing. It reports the first failure with its source position.
//
// # Architecture
//
// The parser consists of four components:
//   - CharStream: rune-at-a-time access with one rune of lookahead
//   - Lexer: tokenizes the input into a stream of tokens
//   - Parser: builds an Abstract Syntax Tree (AST) from tokens
//   - LiteralFactory: turns literal text into runtime values
//
// # Example
//
//	expr, err := parser.Parse("[price] * (1 + [tax]) > 100")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ast := expr.AST()
package parser

import (
	"github.com/sandrolain/gocalc/pkg/types"
)

// DefaultMaxDepth is the default nesting limit of the parser.
const DefaultMaxDepth = 256

// Parse parses a formula and returns the resulting Expression.
//
// If parsing fails, it returns a *types.Error with position information:
// a lexer error (L0xxx), an unexpected token (P0201) or a literal that the
// literal factory rejected (V0xxx).
//
// Example:
//
//	expr, err := parser.Parse("Round([total] / 3, 2)")
//	if err != nil {
//	    var perr *types.Error
//	    if errors.As(err, &perr) {
//	        fmt.Printf("error at position %d\n", perr.Position)
//	    }
//	    return
//	}
func Parse(text string, opts ...CompileOption) (*types.Expression, error) {
	p := NewParser(text, opts...)
	return p.Parse()
}

// Compile is an alias for Parse, provided for API consistency.
func Compile(text string, opts ...CompileOption) (*types.Expression, error) {
	return Parse(text, opts...)
}

// CompileOption configures compilation behavior.
type CompileOption func(*CompileOptions)

// CompileOptions holds parser configuration.
type CompileOptions struct {
	// MaxDepth limits nesting to prevent stack overflow. Zero or less disables the limit.
	MaxDepth int
	// LiteralFactory converts literal text to values. Defaults to DefaultLiteralFactory.
	LiteralFactory LiteralFactory
}

// WithMaxDepth sets the maximum parsing depth.
func WithMaxDepth(depth int) CompileOption {
	return func(opts *CompileOptions) {
		opts.MaxDepth = depth
	}
}

// WithLiteralFactory sets the factory used for literal values.
func WithLiteralFactory(f LiteralFactory) CompileOption {
	return func(opts *CompileOptions) {
		opts.LiteralFactory = f
	}
}
