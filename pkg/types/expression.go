// Package types defines the core type system for gocalc.
//
// This package contains type definitions for:
//   - Expression: parsed formulas
//   - Node: Abstract Syntax Tree nodes
//   - Operand: lazily evaluated operator and function arguments
//   - Kind: runtime value classification
//   - Error types: structured errors with codes
package types

// Expression represents a parsed formula.
//
// An Expression can be evaluated multiple times with different parameters
// by passing it to [evaluator.Evaluator.Eval]. It is safe for concurrent use
// by multiple goroutines.
type Expression struct {
	ast    *Node
	source string
}

// NewExpression creates a new Expression from an AST.
func NewExpression(ast *Node, source string) *Expression {
	return &Expression{
		ast:    ast,
		source: source,
	}
}

// AST returns the root node of the expression.
func (e *Expression) AST() *Node {
	return e.ast
}

// Source returns the text the expression was parsed from.
func (e *Expression) Source() string {
	return e.source
}

// String returns the source text of the expression.
func (e *Expression) String() string {
	return e.source
}
