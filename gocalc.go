// Package gocalc parses and evaluates spreadsheet-style formulas.
//
// A formula combines number, string, boolean and date literals, named
// parameters, function calls and lists with a C-like operator set:
//
//	[price] * [qty] * (1 - [discount]) > 100 ? "bulk" : "retail"
//
// # Quick Start
//
//	// Parse and evaluate in one call
//	result, err := gocalc.Evaluate("Max([a], [b]) * 2",
//	    gocalc.WithParams(map[string]interface{}{"a": 3.0, "b": 4.0}),
//	)
//
//	// Parse once, evaluate many times
//	expr, err := gocalc.Parse("[x] ** 2 + 1")
//	r1, _ := gocalc.Execute(expr, gocalc.WithParam("x", 2.0))
//	r2, _ := gocalc.Execute(expr, gocalc.WithParam("x", 3.0))
//
// Every entry point has a Safe variant that returns a Result instead of an
// error and also turns panics raised by caller functions into errors.
//
// # More Information
//
//   - Parser: github.com/sandrolain/gocalc/pkg/parser
//   - Evaluator: github.com/sandrolain/gocalc/pkg/evaluator
//   - Operators: github.com/sandrolain/gocalc/pkg/calculator
//   - Functions: github.com/sandrolain/gocalc/pkg/functions
//   - Formatter: github.com/sandrolain/gocalc/pkg/format
//   - Types: github.com/sandrolain/gocalc/pkg/types
package gocalc

import (
	"context"
	"fmt"

	"github.com/sandrolain/gocalc/pkg/format"
	"github.com/sandrolain/gocalc/pkg/parser"
	"github.com/sandrolain/gocalc/pkg/references"
	"github.com/sandrolain/gocalc/pkg/types"
)

// Version returns the current version of gocalc.
func Version() string {
	return "v0.1.0-dev"
}

// Parse parses formula text into an expression tree.
//
// Example:
//
//	expr, err := gocalc.Parse("[a] + [b]", parser.WithMaxDepth(64))
func Parse(text string, opts ...parser.CompileOption) (*types.Expression, error) {
	return parser.Compile(text, opts...)
}

// MustParse is like Parse but panics if the text cannot be parsed.
// It simplifies safe initialization of global variables.
func MustParse(text string, opts ...parser.CompileOption) *types.Expression {
	expr, err := Parse(text, opts...)
	if err != nil {
		panic(fmt.Sprintf("gocalc: Parse(%q): %v", text, err))
	}
	return expr
}

// Format writes expr back as canonical formula text. The result parses to an
// equal tree. A nil expression formats as "".
func Format(expr *types.Expression) string {
	if expr == nil {
		return ""
	}
	return format.Node(expr.AST())
}

// Evaluate parses text and evaluates it.
func Evaluate(text string, opts ...Option) (interface{}, error) {
	return EvaluateContext(context.Background(), text, opts...)
}

// EvaluateContext is like Evaluate with a caller context for cancellation.
func EvaluateContext(ctx context.Context, text string, opts ...Option) (interface{}, error) {
	o := buildOptions(opts)
	ev := o.evaluator()
	expr, err := ev.Compile(text)
	if err != nil {
		return nil, err
	}
	return ev.EvalWithLazyParams(ctx, expr, o.Params, o.LazyParams)
}

// Execute evaluates an already parsed expression. Literal factory options
// have no effect here since the literals were created by Parse.
func Execute(expr *types.Expression, opts ...Option) (interface{}, error) {
	return ExecuteContext(context.Background(), expr, opts...)
}

// ExecuteContext is like Execute with a caller context for cancellation.
func ExecuteContext(ctx context.Context, expr *types.Expression, opts ...Option) (interface{}, error) {
	o := buildOptions(opts)
	return o.evaluator().EvalWithLazyParams(ctx, expr, o.Params, o.LazyParams)
}

// CollectReferences lists the parameters and functions expr refers to.
func CollectReferences(expr *types.Expression) references.References {
	if expr == nil {
		return references.References{}
	}
	return references.Collect(expr.AST())
}
